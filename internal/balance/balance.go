package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

// Accessor is the only writer of user balances. Every change runs as a
// read-check-write store transaction and is retried on version conflicts.
type Accessor struct {
	store       user.BalanceStore
	log         *slog.Logger
	newBackOff  func() backoff.BackOff
	maxAttempts int
}

func NewAccessor(store user.BalanceStore, maxAttempts int, log *slog.Logger) *Accessor {
	if maxAttempts <= 0 {
		maxAttempts = model.DefaultMaxTxAttempts
	}
	if log == nil {
		log = slog.Default()
	}
	return &Accessor{
		store:       store,
		log:         log.With("module", "balance_accessor"),
		maxAttempts: maxAttempts,
		newBackOff:  conflictBackOff,
	}
}

func conflictBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 0
	return b
}

// ApplyDelta adds delta to the balance and to both period counters of the
// user and returns the balance as written.
func (a *Accessor) ApplyDelta(ctx context.Context,
	userID string, delta int64,
) (user.Balance, error) {
	var (
		written  user.Balance
		attempts int
	)

	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempts++
		err := a.store.RunBalanceTx(ctx, func(ctx context.Context, tx user.BalanceTx) error {
			current, err := tx.GetBalance(ctx, userID)
			if err != nil {
				return err //nolint: wrapcheck // wrapped below
			}
			next := current.Apply(delta)
			if err = tx.PutBalance(ctx, userID, next); err != nil {
				return err //nolint: wrapcheck // wrapped below
			}
			written = next
			written.Version = current.Version + 1
			return nil
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, serviceerrs.ErrTransactionConflict) {
			a.log.LogAttrs(ctx, slog.LevelDebug,
				"balance write conflict, retrying",
				slog.String("user_id", userID),
				slog.Int("attempt", attempts),
			)
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(a.newBackOff(), uint64(a.maxAttempts-1)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		if errors.Is(err, serviceerrs.ErrTransactionConflict) {
			a.log.LogAttrs(ctx, slog.LevelWarn,
				"balance write conflict not resolved",
				slog.String("user_id", userID),
				slog.Int("attempts", attempts),
			)
			return user.Balance{}, fmt.Errorf("failed to apply delta to user %s after %d attempts: %w",
				userID, attempts, err)
		}
		return user.Balance{}, fmt.Errorf("failed to apply delta to user %s: %w", userID, err)
	}
	return written, nil
}
