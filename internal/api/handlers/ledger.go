package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/talx-hub/points-ledger/internal/api/dto"
	"github.com/talx-hub/points-ledger/internal/balance"
	"github.com/talx-hub/points-ledger/internal/model/batch"
	"github.com/talx-hub/points-ledger/internal/model/ledger"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/utils/auth"
)

const (
	maxBatchBytes     = 8 << 20
	defaultBatchName  = "upload.csv"
	defaultBatchDelay = 2 * time.Second
)

type Adjuster interface {
	Adjust(ctx context.Context, p user.Principal, req balance.AdjustRequest) (ledger.Entry, error)
}

type BatchRunner interface {
	ReconcileCSV(ctx context.Context, p user.Principal, source string, in io.Reader) (batch.Summary, error)
}

type batchLimiter interface {
	AcquireWithTimeout(ctx context.Context, timeout time.Duration) error
	Release()
}

type LedgerHandler struct {
	logger    *slog.Logger
	adjuster  Adjuster
	batches   BatchRunner
	sema      batchLimiter
	batchWait time.Duration
}

func NewLedgerHandler(
	adjuster Adjuster,
	batches BatchRunner,
	sema batchLimiter,
	log *slog.Logger,
) *LedgerHandler {
	return &LedgerHandler{
		logger:    log,
		adjuster:  adjuster,
		batches:   batches,
		sema:      sema,
		batchWait: defaultBatchDelay,
	}
}

func (h *LedgerHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req dto.AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "failed to decode request", http.StatusBadRequest)
		return
	}
	delta, err := req.Points()
	if err != nil {
		writeError(ctx, h.logger, w, err, nil)
		return
	}

	entry, err := h.adjuster.Adjust(ctx, auth.PrincipalFromContext(ctx), balance.AdjustRequest{
		UserID: chi.URLParam(r, "id"),
		Reason: req.TrimmedReason(),
		Kind:   ledger.KindManualAdjust,
		Delta:  delta,
	})
	if err != nil {
		writeError(ctx, h.logger, w, err, nil)
		return
	}
	writeJSON(ctx, h.logger, w, http.StatusOK, entry)
}

func (h *LedgerHandler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	source := strings.TrimSpace(r.URL.Query().Get("source"))
	if source == "" {
		source = defaultBatchName
	}

	if err := h.sema.AcquireWithTimeout(ctx, h.batchWait); err != nil {
		h.logger.LogAttrs(ctx, slog.LevelWarn, "batch upload rejected, all slots busy",
			slog.String("source", source))
		writeError(ctx, h.logger, w, fmt.Errorf("batch %s: %w", source, err), nil)
		return
	}
	defer h.sema.Release()

	body := http.MaxBytesReader(w, r.Body, maxBatchBytes)
	summary, err := h.batches.ReconcileCSV(ctx, auth.PrincipalFromContext(ctx), source, body)
	if err != nil {
		var partial any
		if summary.BatchID != "" {
			partial = summary
		}
		writeError(ctx, h.logger, w, err, partial)
		return
	}
	writeJSON(ctx, h.logger, w, http.StatusOK, summary)
}
