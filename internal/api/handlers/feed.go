package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/reward"
)

type FeedSource interface {
	Subscribe() (<-chan []reward.EnrichedRedemption, func())
}

type FeedHandler struct {
	logger *slog.Logger
	feed   FeedSource
}

func NewFeedHandler(feed FeedSource, log *slog.Logger) *FeedHandler {
	return &FeedHandler{
		logger: log,
		feed:   feed,
	}
}

// Stream pushes recent redemption snapshots as server-sent events until the
// client goes away or the feed stops.
func (h *FeedHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	w.Header().Set(model.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case items, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(items)
			if err != nil {
				h.logger.LogAttrs(ctx, slog.LevelError, "failed to encode feed event",
					slog.Any(model.KeyLoggerError, err))
				return
			}
			if _, err = fmt.Fprintf(w, "event: redemptions\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
