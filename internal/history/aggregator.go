package history

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/batch"
	"github.com/talx-hub/points-ledger/internal/model/ledger"
	"github.com/talx-hub/points-ledger/internal/model/reward"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

// DashboardWindow is the number of latest redemptions counted by ListTotals.
const DashboardWindow = model.DefaultRecentLimit

type AccountReader interface {
	FindByID(ctx context.Context, id string) (user.Account, error)
	CountAccounts(ctx context.Context) (int64, error)
	ListAccounts(ctx context.Context, limit int) ([]user.Account, error)
}

type RewardReader interface {
	FindReward(ctx context.Context, id string) (reward.Reward, error)
	CountRewards(ctx context.Context) (int64, error)
}

type RedemptionReader interface {
	RecentRedemptions(ctx context.Context, limit int) ([]reward.Redemption, error)
}

type BatchReader interface {
	ListRecords(ctx context.Context, limit int) ([]batch.Record, error)
}

type EntryReader interface {
	ListEntries(ctx context.Context, userID string, limit int) ([]ledger.Entry, error)
}

type Sources struct {
	Accounts    AccountReader
	Rewards     RewardReader
	Redemptions RedemptionReader
	Batches     BatchReader
	Entries     EntryReader
}

// Aggregator builds the read-side views of the admin dashboard. It never
// writes to the store.
type Aggregator struct {
	src Sources
	log *slog.Logger
}

func New(src Sources, log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{
		src: src,
		log: log.With("module", "history"),
	}
}

func recentLimit(limit int) int {
	if limit <= 0 {
		return model.DefaultRecentLimit
	}
	return min(limit, model.MaxRecentLimit)
}

// Recent reads the latest redemptions and returns a cursor that enriches
// them one at a time. Each call starts a new pass with empty caches.
func (a *Aggregator) Recent(ctx context.Context, limit int) (*Cursor, error) {
	limit = recentLimit(limit)
	events, err := a.src.Redemptions.RecentRedemptions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent redemptions: %w", err)
	}
	if len(events) > limit {
		events = events[:limit]
	}
	return &Cursor{
		events:  events,
		users:   NewCache(a.src.Accounts.FindByID, serviceerrs.ErrUserNotFound),
		rewards: NewCache(a.src.Rewards.FindReward, serviceerrs.ErrRewardNotFound),
	}, nil
}

func (a *Aggregator) ListRecent(ctx context.Context, limit int) ([]reward.EnrichedRedemption, error) {
	cur, err := a.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]reward.EnrichedRedemption, 0, cur.Len())
	for cur.Next(ctx) {
		out = append(out, cur.Item())
	}
	if err = cur.Err(); err != nil {
		a.log.LogAttrs(ctx, slog.LevelError,
			"recent redemptions view aborted",
			slog.Any(model.KeyLoggerError, err),
		)
		return nil, err
	}
	return out, nil
}

func (a *Aggregator) ListTotals(ctx context.Context) (reward.Totals, error) {
	users, err := a.src.Accounts.CountAccounts(ctx)
	if err != nil {
		return reward.Totals{}, fmt.Errorf("failed to count users: %w", err)
	}
	rewards, err := a.src.Rewards.CountRewards(ctx)
	if err != nil {
		return reward.Totals{}, fmt.Errorf("failed to count rewards: %w", err)
	}
	recent, err := a.src.Redemptions.RecentRedemptions(ctx, DashboardWindow)
	if err != nil {
		return reward.Totals{}, fmt.Errorf("failed to read recent redemptions: %w", err)
	}
	return reward.Totals{
		Users:   users,
		Rewards: rewards,
		Recent:  min(len(recent), DashboardWindow),
	}, nil
}

// ListUsers returns the roster ordered by balance. filter is matched as a
// case-insensitive substring of the display name or the email.
func (a *Aggregator) ListUsers(ctx context.Context, filter string, limit int) ([]user.Account, error) {
	if limit <= 0 {
		limit = model.DefaultRosterLimit
	}
	accounts, err := a.src.Accounts.ListAccounts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return accounts, nil
	}
	return slices.DeleteFunc(accounts, func(acc user.Account) bool {
		return !strings.Contains(strings.ToLower(acc.DisplayName), filter) &&
			!strings.Contains(strings.ToLower(acc.Email), filter)
	}), nil
}

func (a *Aggregator) ListBatches(ctx context.Context, limit int) ([]batch.Record, error) {
	if limit <= 0 {
		limit = model.DefaultBatchListLimit
	}
	records, err := a.src.Batches.ListRecords(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch records: %w", err)
	}
	return records, nil
}

func (a *Aggregator) ListEntries(ctx context.Context, userID string, limit int) ([]ledger.Entry, error) {
	if _, err := a.src.Accounts.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	if limit <= 0 {
		limit = model.DefaultEntryListLimit
	}
	entries, err := a.src.Entries.ListEntries(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries of user %s: %w", userID, err)
	}
	return entries, nil
}
