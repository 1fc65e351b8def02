package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talx-hub/points-ledger/internal/balance"
	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/batch"
	"github.com/talx-hub/points-ledger/internal/model/ledger"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

type accountFinder interface {
	FindByEmail(ctx context.Context, email string) (user.Account, error)
}

type adjuster interface {
	Adjust(ctx context.Context, p user.Principal, req balance.AdjustRequest) (ledger.Entry, error)
}

type Reconciler struct {
	accounts    accountFinder
	mutator     adjuster
	records     batch.Repository
	log         *slog.Logger
	now         func() time.Time
	errorSample int
}

func New(
	accounts accountFinder,
	mutator adjuster,
	records batch.Repository,
	errorSample int,
	log *slog.Logger,
) *Reconciler {
	if errorSample < model.DefaultErrorSampleSize {
		errorSample = model.DefaultErrorSampleSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{
		accounts:    accounts,
		mutator:     mutator,
		records:     records,
		log:         log.With("module", "reconciler"),
		now:         time.Now,
		errorSample: errorSample,
	}
}

func (r *Reconciler) ReconcileCSV(ctx context.Context,
	p user.Principal, source string, in io.Reader,
) (batch.Summary, error) {
	if !p.IsAdmin() {
		return batch.Summary{}, fmt.Errorf("reconcile %s: %w", source, serviceerrs.ErrForbidden)
	}
	rows, err := Parse(in)
	if err != nil {
		return batch.Summary{}, fmt.Errorf("failed to parse batch %s: %w", source, err)
	}
	return r.Reconcile(ctx, p, source, rows)
}

// Reconcile applies rows one by one in input order. A rejected row never
// affects the others and committed rows are never rolled back. Exactly one
// batch record is stored once every row has been processed. Submitting the
// same rows again applies every delta again. Rows with neither a user id
// nor an email are dropped before counting.
func (r *Reconciler) Reconcile(ctx context.Context,
	p user.Principal, source string, rows []batch.Row,
) (batch.Summary, error) {
	if !p.IsAdmin() {
		return batch.Summary{}, fmt.Errorf("reconcile %s: %w", source, serviceerrs.ErrForbidden)
	}
	rows = withIdentity(rows)

	summary := batch.Summary{
		BatchID:  uuid.NewString(),
		Source:   source,
		Total:    len(rows),
		Errors:   make([]string, 0),
		Outcomes: make([]batch.RowOutcome, 0, len(rows)),
	}
	log := r.log.With(slog.String("batch_id", summary.BatchID), slog.String("source", source))
	log.LogAttrs(ctx, slog.LevelInfo, "reconciliation started", slog.Int("rows", len(rows)))

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			log.LogAttrs(ctx, slog.LevelWarn,
				"reconciliation cancelled, committed rows kept",
				slog.Int("processed", i),
				slog.Int("accepted", summary.Accepted),
			)
			return summary, fmt.Errorf("batch %s cancelled after %d of %d rows: %w",
				summary.BatchID, i, len(rows), err)
		}

		outcome := r.applyRow(ctx, p, summary.BatchID, row)
		r.record(&summary, outcome)
		if outcome.Err != nil {
			log.LogAttrs(ctx, slog.LevelDebug, "row rejected",
				slog.Int("line", row.Line),
				slog.Any(model.KeyLoggerError, outcome.Err),
			)
		}
	}

	rec := summary.Record(r.now().UTC())
	if err := r.records.CreateRecord(ctx, &rec); err != nil {
		log.LogAttrs(ctx, slog.LevelError,
			"failed to store batch record",
			slog.Any(model.KeyLoggerError, err),
		)
		return summary, fmt.Errorf("failed to store record of batch %s: %w", summary.BatchID, err)
	}

	log.LogAttrs(ctx, slog.LevelInfo, "reconciliation finished",
		slog.Int("total", summary.Total),
		slog.Int("accepted", summary.Accepted),
		slog.Int("rejected", summary.Rejected),
	)
	return summary, nil
}

func withIdentity(rows []batch.Row) []batch.Row {
	kept := make([]batch.Row, 0, len(rows))
	for _, row := range rows {
		if row.Identity() != "" {
			kept = append(kept, row)
		}
	}
	return kept
}

func (r *Reconciler) applyRow(ctx context.Context,
	p user.Principal, batchID string, row batch.Row,
) batch.RowOutcome {
	outcome := batch.RowOutcome{Line: row.Line, UserID: row.UserID}
	if row.Err != nil {
		return reject(outcome, row, row.Err)
	}

	if outcome.UserID == "" {
		acc, err := r.accounts.FindByEmail(ctx, row.Email)
		if err != nil {
			return reject(outcome, row, err)
		}
		outcome.UserID = acc.ID
	}

	_, err := r.mutator.Adjust(ctx, p, balance.AdjustRequest{
		UserID:  outcome.UserID,
		Delta:   row.Delta,
		Reason:  row.Reason,
		BatchID: batchID,
		Kind:    ledger.KindBulkLoad,
	})
	if err != nil {
		return reject(outcome, row, err)
	}
	outcome.Applied = true
	return outcome
}

func reject(outcome batch.RowOutcome, row batch.Row, err error) batch.RowOutcome {
	outcome.Err = err
	outcome.Message = fmt.Sprintf("line %d (%s): %v", row.Line, row.Identity(), err)
	return outcome
}

func (r *Reconciler) record(s *batch.Summary, o batch.RowOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	if o.Applied {
		s.Accepted++
		return
	}
	s.Rejected++
	if len(s.Errors) < r.errorSample {
		s.Errors = append(s.Errors, o.Message)
	}
}
