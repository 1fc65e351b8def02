package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/ledger"
)

type LedgerRepository struct {
	DB
}

func NewLedgerRepository(pool connectionPool, log *slog.Logger) *LedgerRepository {
	return &LedgerRepository{
		DB{
			pool: pool,
			log:  log,
		},
	}
}

func (r *LedgerRepository) AppendEntry(ctx context.Context, e *ledger.Entry) error {
	appendFn := func() (struct{}, error) {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO ledger_entries
				(id, user_id, kind, delta, reason, batch_id, balance_after, created_at)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7, $8)`,
			e.ID, e.UserID, string(e.Kind), e.Delta, e.Reason,
			e.BatchID, e.BalanceAfter, e.CreatedAt.UTC())
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to append ledger entry for user %s: %w",
				e.UserID, err)
		}
		return struct{}{}, nil
	}

	_, err := WithRetry[struct{}](appendFn, 0)
	return err
}

func (r *LedgerRepository) ListEntries(ctx context.Context,
	userID string, limit int,
) ([]ledger.Entry, error) {
	listFn := func() ([]ledger.Entry, error) {
		rows, err := r.pool.Query(ctx,
			`SELECT id, user_id, kind, delta, reason, COALESCE(batch_id::text, ''),
				balance_after, created_at
			FROM ledger_entries
			WHERE user_id = $1
			ORDER BY created_at DESC, id
			LIMIT $2`,
			userID, clampLimit(limit, model.DefaultEntryListLimit))
		if err != nil {
			return nil, fmt.Errorf("failed to list ledger entries of user %s: %w", userID, err)
		}
		defer rows.Close()

		entries := make([]ledger.Entry, 0)
		for rows.Next() {
			var (
				e    ledger.Entry
				kind string
			)
			if err = rows.Scan(&e.ID, &e.UserID, &kind, &e.Delta, &e.Reason,
				&e.BatchID, &e.BalanceAfter, &e.CreatedAt); err != nil {
				return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
			}
			e.Kind = ledger.Kind(kind)
			entries = append(entries, e)
		}
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
		}
		return entries, nil
	}

	return WithRetry[[]ledger.Entry](listFn, 0) //nolint: wrapcheck // error from wrapped function
}
