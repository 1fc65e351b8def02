package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

type connectionPool interface {
	Begin(context.Context) (pgx.Tx, error)
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type DB struct {
	pool connectionPool
	log  *slog.Logger
}

type dbLogic func(ctx context.Context, tx connectionPool) (any, error)

func WithTX[T any](ctx context.Context,
	pool connectionPool, log *slog.Logger, f dbLogic,
) (T, error) {
	var zero T

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to begin TX: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.LogAttrs(ctx,
				slog.LevelError,
				"failed to rollback TX",
				slog.Any(model.KeyLoggerError, rbErr),
			)
		}
	}()

	res, err := f(ctx, tx)
	if err != nil {
		return zero, err //nolint: wrapcheck // error from wrapped function
	}

	if err = tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("failed to commit TX: %w", err)
	}

	r, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("failed to convert any to %T", zero)
	}
	return r, nil
}

const retryStep = 20 * time.Millisecond

// WithRetry re-runs dbQuery when postgres aborts it with a serialization
// failure or a deadlock. Every other error is classified and returned as is.
func WithRetry[T any](dbQuery func() (T, error), counter int) (T, error) {
	res, err := dbQuery()
	if err == nil {
		return res, nil
	}

	var zero T
	const maxAttemptCount = 3
	if isRetryableError(err) {
		if counter >= maxAttemptCount {
			return zero, fmt.Errorf("%w: retries exhausted: %w",
				serviceerrs.ErrTransactionConflict, err)
		}
		time.Sleep(time.Duration(counter*2+1) * retryStep) // count: 0 1 2 -> 1 3 5 steps
		return WithRetry[T](dbQuery, counter+1)
	}
	return zero, classify(err)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure,
			pgerrcode.DeadlockDetected:
			return true
		}
	}

	return false
}

func isConnectionError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ConnectionException,
			pgerrcode.ConnectionDoesNotExist,
			pgerrcode.ConnectionFailure,
			pgerrcode.CannotConnectNow,
			pgerrcode.SQLClientUnableToEstablishSQLConnection,
			pgerrcode.SQLServerRejectedEstablishmentOfSQLConnection,
			pgerrcode.TransactionResolutionUnknown,
			pgerrcode.AdminShutdown:
			return true
		}
		return false
	}

	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr) || pgconn.Timeout(err)
}

func classify(err error) error {
	switch {
	case errors.Is(err, serviceerrs.ErrUserNotFound),
		errors.Is(err, serviceerrs.ErrRewardNotFound),
		errors.Is(err, serviceerrs.ErrTransactionConflict),
		errors.Is(err, serviceerrs.ErrStoreUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", serviceerrs.ErrStoreUnavailable, err)
	}
	return err
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
