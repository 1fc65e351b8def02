package batch

import (
	"context"
	"time"
)

// Row is one validated line of a bulk upload. Err is set when the line
// was recognised but its delta could not be parsed.
type Row struct {
	Err    error
	UserID string
	Email  string
	Reason string
	Line   int
	Delta  int64
}

func (r Row) Identity() string {
	if r.UserID != "" {
		return r.UserID
	}
	return r.Email
}

type RowOutcome struct {
	Err     error  `json:"-"`
	Message string `json:"error,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	Line    int    `json:"line"`
	Applied bool   `json:"applied"`
}

type Summary struct {
	BatchID  string       `json:"batch_id"`
	Source   string       `json:"source"`
	Errors   []string     `json:"errors"`
	Outcomes []RowOutcome `json:"outcomes"`
	Total    int          `json:"total"`
	Accepted int          `json:"ok"`
	Rejected int          `json:"fail"`
}

func (s *Summary) Record(at time.Time) Record {
	errs := make([]string, len(s.Errors))
	copy(errs, s.Errors)
	return Record{
		CreatedAt: at,
		ID:        s.BatchID,
		Source:    s.Source,
		Errors:    errs,
		Total:     s.Total,
		Accepted:  s.Accepted,
		Rejected:  s.Rejected,
	}
}

// Record is persisted once per reconciliation run.
type Record struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Errors    []string  `json:"errors"`
	Total     int       `json:"total"`
	Accepted  int       `json:"ok"`
	Rejected  int       `json:"fail"`
}

type Repository interface {
	CreateRecord(ctx context.Context, r *Record) error
	ListRecords(ctx context.Context, limit int) ([]Record, error)
}
