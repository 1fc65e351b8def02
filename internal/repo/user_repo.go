package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

type UserRepository struct {
	DB
}

func NewUserRepository(pool connectionPool, log *slog.Logger) *UserRepository {
	return &UserRepository{
		DB{
			pool: pool,
			log:  log,
		},
	}
}

const selectAccount = `SELECT id, display_name, email, role,
	points, points_today, points_week, version FROM users`

func scanAccount(row pgx.Row) (user.Account, error) {
	var (
		a    user.Account
		role string
	)
	err := row.Scan(&a.ID, &a.DisplayName, &a.Email, &role,
		&a.Balance.Points, &a.Balance.Today, &a.Balance.Week, &a.Balance.Version)
	if err != nil {
		return user.Account{}, err //nolint: wrapcheck // wrapped by caller
	}
	a.Role = user.Role(role)
	return a, nil
}

func (r *UserRepository) Create(ctx context.Context, a *user.Account) error {
	createFn := func() (struct{}, error) {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, display_name, email, role,
				points, points_today, points_week)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.ID, a.DisplayName, a.Email, string(a.Role),
			a.Balance.Points, a.Balance.Today, a.Balance.Week)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to insert user %s: %w", a.ID, err)
		}
		return struct{}{}, nil
	}

	_, err := WithRetry[struct{}](createFn, 0)
	return err
}

// nolint: dupl // lookups differ by key only
func (r *UserRepository) FindByID(ctx context.Context, id string) (user.Account, error) {
	findByIDLogic := func() (user.Account, error) {
		a, err := scanAccount(r.pool.QueryRow(ctx, selectAccount+` WHERE id = $1`, id))
		return a, wrapFind(err, "id", id)
	}

	return WithRetry[user.Account](findByIDLogic, 0) //nolint: wrapcheck // error from wrapped function
}

// nolint: dupl // lookups differ by key only
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.Account, error) {
	if strings.TrimSpace(email) == "" {
		return user.Account{}, fmt.Errorf("%w: empty email", serviceerrs.ErrUserNotFound)
	}
	findByEmailLogic := func() (user.Account, error) {
		a, err := scanAccount(r.pool.QueryRow(ctx,
			selectAccount+` WHERE lower(email) = lower($1) ORDER BY id LIMIT 1`, email))
		return a, wrapFind(err, "email", email)
	}

	return WithRetry[user.Account](findByEmailLogic, 0) //nolint: wrapcheck // error from wrapped function
}

func wrapFind(err error, key, value string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %q", serviceerrs.ErrUserNotFound, key, value)
	}
	return fmt.Errorf("failed to find user by %s in DB: %w", key, err)
}

func (r *UserRepository) CountAccounts(ctx context.Context) (int64, error) {
	countFn := func() (int64, error) {
		var n int64
		if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to count users: %w", err)
		}
		return n, nil
	}
	return WithRetry[int64](countFn, 0) //nolint: wrapcheck // error from wrapped function
}

func (r *UserRepository) ListAccounts(ctx context.Context, limit int) ([]user.Account, error) {
	listFn := func() ([]user.Account, error) {
		rows, err := r.pool.Query(ctx,
			selectAccount+` ORDER BY points DESC, id LIMIT $1`,
			clampLimit(limit, model.DefaultRosterLimit))
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		defer rows.Close()

		accounts := make([]user.Account, 0)
		for rows.Next() {
			a, err := scanAccount(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to scan user: %w", err)
			}
			accounts = append(accounts, a)
		}
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}
		return accounts, nil
	}
	return WithRetry[[]user.Account](listFn, 0) //nolint: wrapcheck // error from wrapped function
}

// ResetPeriod zeroes one period counter for every account. The version is
// bumped so that balance transactions racing with the reset retry.
func (r *UserRepository) ResetPeriod(ctx context.Context, p user.Period) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err //nolint: wrapcheck // plain validation error
	}
	column := "points_today"
	if p == user.PeriodWeek {
		column = "points_week"
	}

	resetFn := func() (int64, error) {
		tag, err := r.pool.Exec(ctx,
			`UPDATE users SET `+column+` = 0, version = version + 1 WHERE `+column+` <> 0`)
		if err != nil {
			return 0, fmt.Errorf("failed to reset %s counters: %w", p, err)
		}
		return tag.RowsAffected(), nil
	}
	return WithRetry[int64](resetFn, 0) //nolint: wrapcheck // error from wrapped function
}

func (r *UserRepository) RunBalanceTx(ctx context.Context,
	fn func(ctx context.Context, tx user.BalanceTx) error,
) error {
	logic := func(ctx context.Context, tx connectionPool) (any, error) {
		return struct{}{}, fn(ctx, &balanceTx{conn: tx})
	}

	runWithTX := func() (struct{}, error) {
		return WithTX[struct{}](ctx, r.pool, r.log, logic)
	}

	_, err := WithRetry[struct{}](runWithTX, 0)
	return err //nolint: wrapcheck // error from wrapped function
}

type balanceTx struct {
	conn connectionPool
}

func (t *balanceTx) GetBalance(ctx context.Context, userID string) (user.Balance, error) {
	var b user.Balance
	err := t.conn.QueryRow(ctx,
		`SELECT points, points_today, points_week, version FROM users WHERE id = $1`,
		userID,
	).Scan(&b.Points, &b.Today, &b.Week, &b.Version)
	if err != nil {
		return user.Balance{}, wrapFind(err, "id", userID)
	}
	return b, nil
}

func (t *balanceTx) PutBalance(ctx context.Context, userID string, b user.Balance) error {
	tag, err := t.conn.Exec(ctx,
		`UPDATE users
		SET points = $2, points_today = $3, points_week = $4, version = version + 1
		WHERE id = $1 AND version = $5`,
		userID, b.Points, b.Today, b.Week, b.Version)
	if err != nil {
		return fmt.Errorf("failed to update balance of user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err = t.conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check user %s: %w", userID, err)
		}
		if !exists {
			return fmt.Errorf("%w: id %q", serviceerrs.ErrUserNotFound, userID)
		}
		return fmt.Errorf("%w: user %s changed since version %d",
			serviceerrs.ErrTransactionConflict, userID, b.Version)
	}
	return nil
}
