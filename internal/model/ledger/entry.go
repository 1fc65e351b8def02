package ledger

import (
	"context"
	"time"
)

type Kind string

const (
	KindBulkLoad     Kind = "bulk-load"
	KindManualAdjust Kind = "manual-adjust"
)

func (k Kind) Valid() bool {
	return k == KindBulkLoad || k == KindManualAdjust
}

// Entry is an append-only audit record of one accepted balance change.
type Entry struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Kind         Kind      `json:"kind"`
	Reason       string    `json:"reason"`
	BatchID      string    `json:"batch_id,omitempty"`
	Delta        int64     `json:"delta"`
	BalanceAfter int64     `json:"balance_after"`
}

type Repository interface {
	AppendEntry(ctx context.Context, e *Entry) error
	ListEntries(ctx context.Context, userID string, limit int) ([]Entry, error)
}
