package dbmanager

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/talx-hub/points-ledger/internal/model"
)

type queryTracer struct {
	log *slog.Logger
}

type traceStartKey struct{}

func (t *queryTracer) TraceQueryStart(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryStartData,
) context.Context {
	t.log.LogAttrs(ctx,
		slog.LevelDebug,
		"Running query",
		slog.String("query", data.SQL),
		slog.Any("args", data.Args),
	)
	return context.WithValue(ctx, traceStartKey{}, time.Now())
}

func (t *queryTracer) TraceQueryEnd(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryEndData,
) {
	attrs := []slog.Attr{slog.String("tag", data.CommandTag.String())}
	if start, ok := ctx.Value(traceStartKey{}).(time.Time); ok {
		attrs = append(attrs, slog.Duration("took", time.Since(start)))
	}
	if data.Err != nil {
		attrs = append(attrs, slog.Any(model.KeyLoggerError, data.Err))
	}
	t.log.LogAttrs(ctx, slog.LevelDebug, "Query finished", attrs...)
}
