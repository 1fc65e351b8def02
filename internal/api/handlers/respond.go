package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/talx-hub/points-ledger/internal/api/dto"
	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

var errBadQuery = errors.New("bad query parameter")

func statusOf(err error) int {
	switch {
	case errors.Is(err, serviceerrs.ErrUserNotFound),
		errors.Is(err, serviceerrs.ErrRewardNotFound):
		return http.StatusNotFound
	case errors.Is(err, serviceerrs.ErrInvalidDelta),
		errors.Is(err, serviceerrs.ErrMalformedBatch),
		errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	case errors.Is(err, serviceerrs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, serviceerrs.ErrTransactionConflict):
		return http.StatusConflict
	case errors.Is(err, serviceerrs.ErrSemaphoreTimeoutExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, serviceerrs.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(ctx context.Context, log *slog.Logger, w http.ResponseWriter, code int, v any) {
	w.Header().Set(model.HeaderContentType, "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.LogAttrs(ctx,
			slog.LevelError,
			"failed to encode response",
			slog.Any(model.KeyLoggerError, err),
		)
	}
}

// writeError maps err onto a status code. Server side failures are logged
// and their text is not sent to the client.
func writeError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, err error, summary any) {
	code := statusOf(err)
	msg := err.Error()
	if code >= http.StatusInternalServerError {
		log.LogAttrs(ctx,
			slog.LevelError,
			"request failed",
			slog.Int("status", code),
			slog.Any(model.KeyLoggerError, err),
		)
		msg = http.StatusText(code)
	}
	if code == http.StatusTooManyRequests {
		w.Header().Set(model.HeaderRetryAfter, "1")
	}
	writeJSON(ctx, log, w, code, dto.ErrorResponse{Error: msg, Summary: summary})
}

func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Join(errBadQuery, err)
	}
	return limit, nil
}
