package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/batch"
)

type BatchRepository struct {
	DB
}

func NewBatchRepository(pool connectionPool, log *slog.Logger) *BatchRepository {
	return &BatchRepository{
		DB{
			pool: pool,
			log:  log,
		},
	}
}

func (r *BatchRepository) CreateRecord(ctx context.Context, rec *batch.Record) error {
	if rec.Accepted+rec.Rejected != rec.Total {
		return fmt.Errorf("batch %s: accepted %d + rejected %d != total %d",
			rec.ID, rec.Accepted, rec.Rejected, rec.Total)
	}

	createFn := func() (struct{}, error) {
		errs := rec.Errors
		if errs == nil {
			errs = []string{}
		}
		_, err := r.pool.Exec(ctx,
			`INSERT INTO batch_records
				(id, source, total, accepted, rejected, errors, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.ID, rec.Source, rec.Total, rec.Accepted, rec.Rejected,
			errs, rec.CreatedAt.UTC())
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to insert batch record %s: %w", rec.ID, err)
		}
		return struct{}{}, nil
	}

	_, err := WithRetry[struct{}](createFn, 0)
	return err
}

func (r *BatchRepository) ListRecords(ctx context.Context, limit int) ([]batch.Record, error) {
	listFn := func() ([]batch.Record, error) {
		rows, err := r.pool.Query(ctx,
			`SELECT id, source, total, accepted, rejected, errors, created_at
			FROM batch_records
			ORDER BY created_at DESC, id
			LIMIT $1`,
			clampLimit(limit, model.DefaultBatchListLimit))
		if err != nil {
			return nil, fmt.Errorf("failed to list batch records: %w", err)
		}
		defer rows.Close()

		records := make([]batch.Record, 0)
		for rows.Next() {
			var rec batch.Record
			if err = rows.Scan(&rec.ID, &rec.Source, &rec.Total, &rec.Accepted,
				&rec.Rejected, &rec.Errors, &rec.CreatedAt); err != nil {
				return nil, fmt.Errorf("failed to scan batch record: %w", err)
			}
			records = append(records, rec)
		}
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate batch records: %w", err)
		}
		return records, nil
	}

	return WithRetry[[]batch.Record](listFn, 0) //nolint: wrapcheck // error from wrapped function
}
