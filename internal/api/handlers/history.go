package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talx-hub/points-ledger/internal/model/batch"
	"github.com/talx-hub/points-ledger/internal/model/ledger"
	"github.com/talx-hub/points-ledger/internal/model/reward"
	"github.com/talx-hub/points-ledger/internal/model/user"
)

type HistoryService interface {
	ListRecent(ctx context.Context, limit int) ([]reward.EnrichedRedemption, error)
	ListTotals(ctx context.Context) (reward.Totals, error)
	ListUsers(ctx context.Context, filter string, limit int) ([]user.Account, error)
	ListBatches(ctx context.Context, limit int) ([]batch.Record, error)
	ListEntries(ctx context.Context, userID string, limit int) ([]ledger.Entry, error)
}

type HistoryHandler struct {
	logger  *slog.Logger
	history HistoryService
}

func NewHistoryHandler(history HistoryService, log *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		logger:  log,
		history: history,
	}
}

// list serves a limit-driven read view.
func list[T any](h *HistoryHandler, w http.ResponseWriter, r *http.Request,
	read func(ctx context.Context, limit int) ([]T, error),
) {
	ctx := r.Context()
	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, h.logger, w, err, nil)
		return
	}
	items, err := read(ctx, limit)
	if err != nil {
		writeError(ctx, h.logger, w, err, nil)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(ctx, h.logger, w, http.StatusOK, items)
}

func (h *HistoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, h.history.ListRecent)
}

func (h *HistoryHandler) Batches(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, h.history.ListBatches)
}

func (h *HistoryHandler) Users(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("q")
	list(h, w, r, func(ctx context.Context, limit int) ([]user.Account, error) {
		return h.history.ListUsers(ctx, filter, limit)
	})
}

func (h *HistoryHandler) Entries(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	list(h, w, r, func(ctx context.Context, limit int) ([]ledger.Entry, error) {
		return h.history.ListEntries(ctx, userID, limit)
	})
}

func (h *HistoryHandler) Totals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	totals, err := h.history.ListTotals(ctx)
	if err != nil {
		writeError(ctx, h.logger, w, err, nil)
		return
	}
	writeJSON(ctx, h.logger, w, http.StatusOK, totals)
}
