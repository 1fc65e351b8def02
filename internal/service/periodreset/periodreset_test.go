package periodreset

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/points-ledger/internal/memstore"
	"github.com/talx-hub/points-ledger/internal/model/user"
)

func TestWeeklySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"monday", "0 0 * * 1", false},
		{" Sunday", "0 0 * * 0", false},
		{"friday", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := WeeklySpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeeklySpec_firesOnWeekStart(t *testing.T) {
	for _, start := range []struct {
		name string
		day  time.Weekday
	}{{"monday", time.Monday}, {"sunday", time.Sunday}} {
		spec, err := WeeklySpec(start.name)
		require.NoError(t, err)
		sched, err := cron.ParseStandard(spec)
		require.NoError(t, err)

		next := sched.Next(time.Date(2025, time.March, 5, 15, 0, 0, 0, time.UTC))
		assert.Equal(t, start.day, next.Weekday())
		assert.Equal(t, 0, next.Hour())
	}
}

func TestScheduler_Reset(t *testing.T) {
	store := memstore.New()
	store.PutAccount(user.Account{ID: "u1", Balance: user.Balance{Points: 90, Today: 20, Week: 60, Version: 3}})
	s, err := New(store, "monday", nil, slog.Default())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Reset(ctx, user.PeriodDay))
	acc, err := store.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(90), acc.Balance.Points)
	assert.Equal(t, int64(0), acc.Balance.Today)
	assert.Equal(t, int64(60), acc.Balance.Week)
	assert.Greater(t, acc.Balance.Version, int64(3))

	require.NoError(t, s.Reset(ctx, user.PeriodWeek))
	acc, err = store.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Balance.Week)

	assert.Error(t, s.Reset(ctx, user.Period("month")))
}

func TestScheduler_job(t *testing.T) {
	store := memstore.New()
	store.PutAccount(user.Account{ID: "u1", Balance: user.Balance{Today: 7, Week: 7}})
	s, err := New(store, "monday", nil, slog.Default())
	require.NoError(t, err)
	ctx := context.Background()

	s.job(ctx, user.PeriodDay)()
	acc, err := store.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Balance.Today)
	assert.Equal(t, int64(7), acc.Balance.Week)

	assert.NotPanics(t, s.job(ctx, user.Period("month")))
}

func TestScheduler_StartStop(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	s, err := New(memstore.New(), "sunday", loc, slog.Default())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	next := s.Entries()
	require.Len(t, next, 2)
	for _, n := range next {
		assert.Equal(t, 0, n.In(loc).Hour())
	}
	s.Stop()

	_, err = New(memstore.New(), "someday", nil, slog.Default())
	assert.Error(t, err)
}
