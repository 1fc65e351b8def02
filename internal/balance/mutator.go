package balance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/ledger"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

const (
	DefaultManualReason = "manual adjustment"
	DefaultBulkReason   = "bulk load"
)

type balanceApplier interface {
	ApplyDelta(ctx context.Context, userID string, delta int64) (user.Balance, error)
}

type AdjustRequest struct {
	UserID  string
	Reason  string
	BatchID string
	Kind    ledger.Kind
	Delta   int64
}

type Mutator struct {
	balances balanceApplier
	entries  ledger.Repository
	log      *slog.Logger
	now      func() time.Time
}

func NewMutator(balances balanceApplier, entries ledger.Repository, log *slog.Logger) *Mutator {
	if log == nil {
		log = slog.Default()
	}
	return &Mutator{
		balances: balances,
		entries:  entries,
		log:      log.With("module", "ledger_mutator"),
		now:      time.Now,
	}
}

// Adjust applies a signed delta to one user and appends the audit entry.
// The entry is written only after the balance transaction committed; a
// failed append is logged and does not undo the adjustment.
func (m *Mutator) Adjust(ctx context.Context,
	p user.Principal, req AdjustRequest,
) (ledger.Entry, error) {
	if !p.IsAdmin() {
		return ledger.Entry{}, fmt.Errorf("adjust user %s: %w", req.UserID, serviceerrs.ErrForbidden)
	}
	if req.Kind == "" {
		req.Kind = ledger.KindManualAdjust
	}
	if !req.Kind.Valid() {
		return ledger.Entry{}, fmt.Errorf("unknown ledger entry kind %q", req.Kind)
	}
	if req.UserID == "" {
		return ledger.Entry{}, fmt.Errorf("%w: empty user id", serviceerrs.ErrUserNotFound)
	}
	if req.Delta == 0 && req.Kind == ledger.KindManualAdjust {
		return ledger.Entry{}, fmt.Errorf("%w: manual adjustment of zero points", serviceerrs.ErrInvalidDelta)
	}

	balance, err := m.balances.ApplyDelta(ctx, req.UserID, req.Delta)
	if err != nil {
		return ledger.Entry{}, err //nolint: wrapcheck // already wrapped by accessor
	}

	entry := ledger.Entry{
		CreatedAt:    m.now().UTC(),
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		Kind:         req.Kind,
		Reason:       reasonOrDefault(req.Reason, req.Kind),
		BatchID:      req.BatchID,
		Delta:        req.Delta,
		BalanceAfter: balance.Points,
	}
	if err = m.entries.AppendEntry(ctx, &entry); err != nil {
		m.log.LogAttrs(ctx, slog.LevelError,
			"failed to append ledger entry, balance already updated",
			slog.String("user_id", req.UserID),
			slog.Int64("delta", req.Delta),
			slog.String("entry_id", entry.ID),
			slog.Any(model.KeyLoggerError, err),
		)
	}

	m.log.LogAttrs(ctx, slog.LevelInfo, "balance adjusted",
		slog.String("user_id", req.UserID),
		slog.String("kind", string(req.Kind)),
		slog.Int64("delta", req.Delta),
		slog.Int64("balance", balance.Points),
		slog.String("by", p.UserID),
	)
	return entry, nil
}

func reasonOrDefault(reason string, kind ledger.Kind) string {
	if reason != "" {
		return reason
	}
	if kind == ledger.KindBulkLoad {
		return DefaultBulkReason
	}
	return DefaultManualReason
}
