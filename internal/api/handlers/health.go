package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/talx-hub/points-ledger/internal/api/dto"
	"github.com/talx-hub/points-ledger/internal/model"
)

type Pinger interface {
	Alive(ctx context.Context) error
}

type HealthHandler struct {
	logger *slog.Logger
	pinger Pinger
	store  string
}

// NewHealthHandler accepts a nil pinger for the in-memory store.
func NewHealthHandler(pinger Pinger, store string, log *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger: log,
		pinger: pinger,
		store:  store,
	}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), model.DefaultTimeout)
	defer cancel()

	if h.pinger != nil {
		if err := h.pinger.Alive(ctx); err != nil {
			h.logger.LogAttrs(ctx,
				slog.LevelError,
				"store is not reachable",
				slog.Any(model.KeyLoggerError, err),
			)
			writeJSON(ctx, h.logger, w, http.StatusServiceUnavailable,
				dto.PingResponse{Status: "unavailable", Store: h.store})
			return
		}
	}
	writeJSON(ctx, h.logger, w, http.StatusOK, dto.PingResponse{Status: "ok", Store: h.store})
}
