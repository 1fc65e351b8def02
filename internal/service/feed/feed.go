package feed

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/reward"
	"github.com/talx-hub/points-ledger/internal/utils/logger"
)

type recentLister interface {
	ListRecent(ctx context.Context, limit int) ([]reward.EnrichedRedemption, error)
}

// Feed polls the recent redemptions view and pushes it to subscribers
// whenever the set of events changes. Slow subscribers only ever see the
// latest snapshot.
type Feed struct {
	src      recentLister
	subs     map[int]chan []reward.EnrichedRedemption
	last     []reward.EnrichedRedemption
	interval time.Duration
	limit    int
	nextID   int
	mu       sync.Mutex
}

func New(src recentLister, interval time.Duration, limit int) *Feed {
	if interval <= 0 {
		interval = model.DefaultFeedTickInterval
	}
	return &Feed{
		src:      src,
		subs:     make(map[int]chan []reward.EnrichedRedemption),
		interval: interval,
		limit:    limit,
	}
}

func (f *Feed) Run(ctx context.Context) {
	log := logger.FromContext(ctx).With("service", "feed")
	log.LogAttrs(ctx, slog.LevelInfo, "running")

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.poll(ctx, log)
	for {
		select {
		case <-ctx.Done():
			log.LogAttrs(ctx, slog.LevelInfo, "stop signal received, exiting...")
			f.closeAll()
			return
		case <-ticker.C:
			f.poll(ctx, log)
		}
	}
}

func (f *Feed) poll(ctx context.Context, log *slog.Logger) {
	items, err := f.src.ListRecent(ctx, f.limit)
	if err != nil {
		if ctx.Err() == nil {
			log.LogAttrs(ctx,
				slog.LevelError,
				"failed to read recent redemptions",
				slog.Any(model.KeyLoggerError, err),
			)
		}
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last != nil && sameEvents(f.last, items) {
		return
	}
	f.last = items
	for _, ch := range f.subs {
		offer(ch, items)
	}
	log.LogAttrs(ctx, slog.LevelDebug, "published",
		slog.Int("events", len(items)),
		slog.Int("subscribers", len(f.subs)),
	)
}

func sameEvents(a, b []reward.EnrichedRedemption) bool {
	return slices.EqualFunc(a, b, func(x, y reward.EnrichedRedemption) bool {
		return x.ID == y.ID
	})
}

// offer replaces a pending unread snapshot with the new one.
func offer(ch chan []reward.EnrichedRedemption, items []reward.EnrichedRedemption) {
	select {
	case <-ch:
	default:
	}
	ch <- items
}

// Subscribe returns a channel receiving snapshots and a func to detach it.
// The last known snapshot, if any, is delivered right away. The channel is
// closed when the feed stops or the subscription is cancelled.
func (f *Feed) Subscribe() (<-chan []reward.EnrichedRedemption, func()) {
	ch := make(chan []reward.EnrichedRedemption, 1)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	if f.last != nil {
		ch <- f.last
	}
	f.mu.Unlock()

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}
}

func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
