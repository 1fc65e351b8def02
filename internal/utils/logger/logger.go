package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/talx-hub/points-ledger/internal/model"
)

func New(logLevel slog.Level) *slog.Logger {
	return NewWithWriter(os.Stdout, logLevel)
}

func NewWithWriter(w io.Writer, logLevel slog.Level) *slog.Logger {
	return slog.New(
		slog.NewTextHandler(
			w,
			&slog.HandlerOptions{Level: logLevel},
		))
}

// ParseLevel maps a config value onto a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func WithContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, model.KeyContextLogger, log)
}

func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(model.KeyContextLogger).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}
