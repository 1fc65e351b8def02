package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

func newAccount(t *testing.T, repo *UserRepository, ctx context.Context, a user.Account) user.Account {
	t.Helper()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = user.RoleDriver
	}
	require.NoError(t, repo.Create(ctx, &a))
	return a
}

func TestUserRepository_FindByID(t *testing.T) {
	repo, ctx, cancel, _ := setupRepo(t, NewUserRepository)
	defer cancel()

	want := newAccount(t, repo, ctx, user.Account{
		DisplayName: "Ana Ruiz",
		Email:       uuid.NewString() + "@example.com",
		Balance:     user.Balance{Points: 40, Today: 4, Week: 14},
	})

	tests := []struct {
		name    string
		id      string
		want    user.Account
		wantErr error
	}{
		{"existing user", want.ID, want, nil},
		{"non-existing user", "no-such-user", user.Account{}, serviceerrs.ErrUserNotFound},
		{"empty id", "", user.Account{}, serviceerrs.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo, ctx, cancel, _ := setupRepo(t, NewUserRepository)
	defer cancel()

	local := uuid.NewString()
	a := newAccount(t, repo, ctx, user.Account{Email: local + "@Example.com"})

	got, err := repo.FindByEmail(ctx, local+"@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = repo.FindByEmail(ctx, "nobody-"+local+"@example.com")
	require.ErrorIs(t, err, serviceerrs.ErrUserNotFound)

	newAccount(t, repo, ctx, user.Account{})
	_, err = repo.FindByEmail(ctx, "")
	require.ErrorIs(t, err, serviceerrs.ErrUserNotFound)
}

func TestUserRepository_RunBalanceTx(t *testing.T) {
	repo, ctx, cancel, _ := setupRepo(t, NewUserRepository)
	defer cancel()

	a := newAccount(t, repo, ctx, user.Account{Balance: user.Balance{Points: 100}})

	err := repo.RunBalanceTx(ctx, func(ctx context.Context, tx user.BalanceTx) error {
		b, err := tx.GetBalance(ctx, a.ID)
		if err != nil {
			return err
		}
		return tx.PutBalance(ctx, a.ID, b.Apply(-30))
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(70), got.Balance.Points)
	assert.Equal(t, int64(-30), got.Balance.Today)
	assert.Equal(t, int64(1), got.Balance.Version)

	err = repo.RunBalanceTx(ctx, func(ctx context.Context, tx user.BalanceTx) error {
		return tx.PutBalance(ctx, a.ID, user.Balance{Points: 1, Version: 0})
	})
	require.ErrorIs(t, err, serviceerrs.ErrTransactionConflict)

	err = repo.RunBalanceTx(ctx, func(ctx context.Context, tx user.BalanceTx) error {
		_, err := tx.GetBalance(ctx, "no-such-user")
		return err
	})
	require.ErrorIs(t, err, serviceerrs.ErrUserNotFound)
}

func TestUserRepository_PutBalance_deletedUser(t *testing.T) {
	repo, ctx, cancel, pool := setupRepo(t, NewUserRepository)
	defer cancel()

	a := newAccount(t, repo, ctx, user.Account{Balance: user.Balance{Points: 10}})

	err := repo.RunBalanceTx(ctx, func(ctx context.Context, tx user.BalanceTx) error {
		b, err := tx.GetBalance(ctx, a.ID)
		if err != nil {
			return err
		}
		if _, err = pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, a.ID); err != nil {
			return err
		}
		return tx.PutBalance(ctx, a.ID, b.Apply(5))
	})
	require.ErrorIs(t, err, serviceerrs.ErrUserNotFound)
	require.NotErrorIs(t, err, serviceerrs.ErrTransactionConflict)
}

func TestUserRepository_ResetPeriod(t *testing.T) {
	repo, ctx, cancel, _ := setupRepo(t, NewUserRepository)
	defer cancel()

	a := newAccount(t, repo, ctx, user.Account{Balance: user.Balance{Points: 9, Today: 3, Week: 9}})

	_, err := repo.ResetPeriod(ctx, user.PeriodDay)
	require.NoError(t, err)
	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Balance{Points: 9, Today: 0, Week: 9, Version: 1}, got.Balance)

	_, err = repo.ResetPeriod(ctx, user.PeriodWeek)
	require.NoError(t, err)
	got, err = repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Balance{Points: 9, Version: 2}, got.Balance)

	_, err = repo.ResetPeriod(ctx, user.Period("month"))
	require.Error(t, err)
}

func TestUserRepository_ListAccounts(t *testing.T) {
	repo, ctx, cancel, _ := setupRepo(t, NewUserRepository)
	defer cancel()

	newAccount(t, repo, ctx, user.Account{Balance: user.Balance{Points: 1}})
	newAccount(t, repo, ctx, user.Account{Balance: user.Balance{Points: 500}})

	n, err := repo.CountAccounts(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(2))

	got, err := repo.ListAccounts(ctx, 0)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Balance.Points, got[i].Balance.Points)
	}

	got, err = repo.ListAccounts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
