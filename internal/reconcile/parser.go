package reconcile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/talx-hub/points-ledger/internal/model/batch"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

// Header aliases in priority order. Matching is case-insensitive.
var (
	userIDAliases = []string{"uid", "user_id", "id"}
	emailAliases  = []string{"email", "e-mail", "mail"}
	deltaAliases  = []string{"points", "pts", "p", "puntos"}
	reasonAliases = []string{"reason", "note", "motivo", "mot"}
)

var (
	maxDelta = decimal.NewFromInt(math.MaxInt64)
	minDelta = decimal.NewFromInt(math.MinInt64)
)

type columns struct {
	userID []int
	email  []int
	delta  []int
	reason []int
}

func mapHeader(header []string) columns {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	lookup := func(aliases []string) []int {
		idx := make([]int, 0, len(aliases))
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				idx = append(idx, i)
			}
		}
		return idx
	}
	return columns{
		userID: lookup(userIDAliases),
		email:  lookup(emailAliases),
		delta:  lookup(deltaAliases),
		reason: lookup(reasonAliases),
	}
}

// first returns the first non-empty cell among the aliased columns.
func first(record []string, idx []int) string {
	for _, i := range idx {
		if i < len(record) {
			if v := strings.TrimSpace(record[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Parse reads a delimited batch with a header row. Rows carrying neither a
// user id nor an email are dropped. Rows with an unusable delta are kept
// with Err set to ErrInvalidDelta.
func Parse(r io.Reader) ([]batch.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var header []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return []batch.Row{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: header: %w", serviceerrs.ErrMalformedBatch, err)
		}
		if !blank(rec) {
			header = rec
			break
		}
	}
	cols := mapHeader(header)

	rows := make([]batch.Row, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", serviceerrs.ErrMalformedBatch, err)
		}
		if blank(rec) {
			continue
		}

		line, _ := cr.FieldPos(0)
		row := batch.Row{
			Line:   line,
			UserID: first(rec, cols.userID),
			Email:  first(rec, cols.email),
			Reason: first(rec, cols.reason),
		}
		if row.UserID == "" && row.Email == "" {
			continue
		}
		row.Delta, row.Err = parseDelta(first(rec, cols.delta))
		rows = append(rows, row)
	}
	return rows, nil
}

func parseDelta(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: missing points value", serviceerrs.ErrInvalidDelta)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", serviceerrs.ErrInvalidDelta, raw)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %q is not a whole number of points", serviceerrs.ErrInvalidDelta, raw)
	}
	if d.GreaterThan(maxDelta) || d.LessThan(minDelta) {
		return 0, fmt.Errorf("%w: %q is out of range", serviceerrs.ErrInvalidDelta, raw)
	}
	return d.IntPart(), nil
}
