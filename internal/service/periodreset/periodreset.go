// Package periodreset zeroes the daily and weekly point counters on a cron
// schedule.
package periodreset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/user"
)

const daily = "0 0 * * *"

type resetter interface {
	ResetPeriod(ctx context.Context, p user.Period) (int64, error)
}

type Scheduler struct {
	cron   *cron.Cron
	store  resetter
	log    *slog.Logger
	weekly string
}

// WeeklySpec returns the cron expression for midnight on the first day of
// the points week.
func WeeklySpec(weekStart string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(weekStart)) {
	case "monday":
		return fmt.Sprintf("0 0 * * %d", time.Monday), nil
	case "sunday":
		return fmt.Sprintf("0 0 * * %d", time.Sunday), nil
	}
	return "", fmt.Errorf("unsupported week start %q", weekStart)
}

func New(store resetter, weekStart string, loc *time.Location, log *slog.Logger) (*Scheduler, error) {
	weekly, err := WeeklySpec(weekStart)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		store:  store,
		log:    log.With("service", "period-reset"),
		weekly: weekly,
	}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(daily, s.job(ctx, user.PeriodDay)); err != nil {
		return fmt.Errorf("failed to schedule daily reset: %w", err)
	}
	if _, err := s.cron.AddFunc(s.weekly, s.job(ctx, user.PeriodWeek)); err != nil {
		return fmt.Errorf("failed to schedule weekly reset: %w", err)
	}
	s.cron.Start()
	s.log.LogAttrs(ctx, slog.LevelInfo, "scheduler started",
		slog.String("daily", daily),
		slog.String("weekly", s.weekly),
		slog.String("location", s.cron.Location().String()),
	)
	return nil
}

func (s *Scheduler) job(ctx context.Context, p user.Period) func() {
	return func() {
		s.Reset(ctx, p) //nolint: errcheck // Reset logs its own failures
	}
}

// Stop waits for running resets to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.LogAttrs(context.Background(), slog.LevelInfo, "scheduler stopped")
}

func (s *Scheduler) Reset(ctx context.Context, p user.Period) error {
	if err := p.Validate(); err != nil {
		return err
	}
	n, err := s.store.ResetPeriod(ctx, p)
	if err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "counter reset failed",
			slog.String("period", string(p)),
			slog.Any(model.KeyLoggerError, err),
		)
		return fmt.Errorf("failed to reset %s counters: %w", p, err)
	}
	s.log.LogAttrs(ctx, slog.LevelInfo, "counters reset",
		slog.String("period", string(p)),
		slog.Int64("users", n),
	)
	return nil
}

// Entries reports the next run of every scheduled reset.
func (s *Scheduler) Entries() []time.Time {
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Next)
	}
	return out
}
