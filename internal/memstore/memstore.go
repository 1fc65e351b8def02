// Package memstore is an in-memory document store used for local runs and
// tests. It honours the same optimistic version checks as the postgres
// repositories.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/talx-hub/points-ledger/internal/model"
	"github.com/talx-hub/points-ledger/internal/model/batch"
	"github.com/talx-hub/points-ledger/internal/model/ledger"
	"github.com/talx-hub/points-ledger/internal/model/reward"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

type Store struct {
	users       map[string]user.Account
	entries     map[string][]ledger.Entry
	rewards     map[string]reward.Reward
	records     []batch.Record
	redemptions []reward.Redemption
	mu          sync.RWMutex
}

func New() *Store {
	return &Store{
		users:   make(map[string]user.Account),
		entries: make(map[string][]ledger.Entry),
		rewards: make(map[string]reward.Reward),
	}
}

func (s *Store) PutAccount(a user.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[a.ID] = a
}

func (s *Store) PutReward(r reward.Reward) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rewards[r.ID] = r
}

func (s *Store) PutRedemption(r reward.Redemption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redemptions = append(s.redemptions, r)
}

func (s *Store) FindByID(_ context.Context, id string) (user.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.users[id]
	if !ok {
		return user.Account{}, fmt.Errorf("%w: id %q", serviceerrs.ErrUserNotFound, id)
	}
	return a, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (user.Account, error) {
	if strings.TrimSpace(email) == "" {
		return user.Account{}, fmt.Errorf("%w: empty email", serviceerrs.ErrUserNotFound)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if a := s.users[id]; strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return user.Account{}, fmt.Errorf("%w: email %q", serviceerrs.ErrUserNotFound, email)
}

func (s *Store) CountAccounts(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func (s *Store) ListAccounts(_ context.Context, limit int) ([]user.Account, error) {
	s.mu.RLock()
	accounts := make([]user.Account, 0, len(s.users))
	for _, a := range s.users {
		accounts = append(accounts, a)
	}
	s.mu.RUnlock()

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Balance.Points != accounts[j].Balance.Points {
			return accounts[i].Balance.Points > accounts[j].Balance.Points
		}
		return accounts[i].ID < accounts[j].ID
	})
	return head(accounts, limit, model.DefaultRosterLimit), nil
}

func (s *Store) ResetPeriod(_ context.Context, p user.Period) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err //nolint: wrapcheck // plain validation error
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, a := range s.users {
		counter := &a.Balance.Today
		if p == user.PeriodWeek {
			counter = &a.Balance.Week
		}
		if *counter == 0 {
			continue
		}
		*counter = 0
		a.Balance.Version++
		s.users[id] = a
		n++
	}
	return n, nil
}

// RunBalanceTx gives fn a transaction whose reads are snapshots and whose
// writes fail with ErrTransactionConflict when the version moved.
func (s *Store) RunBalanceTx(ctx context.Context,
	fn func(ctx context.Context, tx user.BalanceTx) error,
) error {
	return fn(ctx, &balanceTx{s: s})
}

type balanceTx struct {
	s *Store
}

func (t *balanceTx) GetBalance(_ context.Context, userID string) (user.Balance, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	a, ok := t.s.users[userID]
	if !ok {
		return user.Balance{}, fmt.Errorf("%w: id %q", serviceerrs.ErrUserNotFound, userID)
	}
	return a.Balance, nil
}

func (t *balanceTx) PutBalance(_ context.Context, userID string, b user.Balance) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	a, ok := t.s.users[userID]
	if !ok {
		return fmt.Errorf("%w: id %q", serviceerrs.ErrUserNotFound, userID)
	}
	if a.Balance.Version != b.Version {
		return fmt.Errorf("%w: user %s changed since version %d",
			serviceerrs.ErrTransactionConflict, userID, b.Version)
	}
	b.Version++
	a.Balance = b
	t.s.users[userID] = a
	return nil
}

func (s *Store) AppendEntry(_ context.Context, e *ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.UserID] = append(s.entries[e.UserID], *e)
	return nil
}

func (s *Store) ListEntries(_ context.Context, userID string, limit int) ([]ledger.Entry, error) {
	s.mu.RLock()
	entries := make([]ledger.Entry, len(s.entries[userID]))
	copy(entries, s.entries[userID])
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return head(entries, limit, model.DefaultEntryListLimit), nil
}

func (s *Store) CreateRecord(_ context.Context, r *batch.Record) error {
	if r.Accepted+r.Rejected != r.Total {
		return fmt.Errorf("batch %s: accepted %d + rejected %d != total %d",
			r.ID, r.Accepted, r.Rejected, r.Total)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *r)
	return nil
}

func (s *Store) ListRecords(_ context.Context, limit int) ([]batch.Record, error) {
	s.mu.RLock()
	records := make([]batch.Record, len(s.records))
	copy(records, s.records)
	s.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return head(records, limit, model.DefaultBatchListLimit), nil
}

func (s *Store) FindReward(_ context.Context, id string) (reward.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rewards[id]
	if !ok {
		return reward.Reward{}, fmt.Errorf("%w: %q", serviceerrs.ErrRewardNotFound, id)
	}
	return r, nil
}

func (s *Store) CountRewards(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rewards)), nil
}

func (s *Store) RecentRedemptions(_ context.Context, limit int) ([]reward.Redemption, error) {
	s.mu.RLock()
	events := make([]reward.Redemption, len(s.redemptions))
	copy(events, s.redemptions)
	s.mu.RUnlock()

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return head(events, limit, model.DefaultRecentLimit), nil
}

func head[T any](items []T, limit, def int) []T {
	if limit <= 0 {
		limit = def
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
