package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

type AdjustRequest struct {
	Delta  json.Number `json:"delta"`
	Reason string      `json:"reason"`
}

// Points returns the requested delta. A missing, fractional or zero delta
// is ErrInvalidDelta.
func (r *AdjustRequest) Points() (int64, error) {
	if r.Delta == "" {
		return 0, fmt.Errorf("%w: delta is required", serviceerrs.ErrInvalidDelta)
	}
	d, err := r.Delta.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", serviceerrs.ErrInvalidDelta, r.Delta)
	}
	if d == 0 {
		return 0, fmt.Errorf("%w: delta must not be zero", serviceerrs.ErrInvalidDelta)
	}
	return d, nil
}

func (r *AdjustRequest) TrimmedReason() string {
	return strings.TrimSpace(r.Reason)
}

type ErrorResponse struct {
	Summary any    `json:"summary,omitempty"`
	Error   string `json:"error"`
}

type PingResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
