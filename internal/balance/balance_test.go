package balance

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/points-ledger/internal/memstore"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

type conflictingStore struct {
	*memstore.Store
	conflicts atomic.Int32
	calls     atomic.Int32
}

func (s *conflictingStore) RunBalanceTx(ctx context.Context,
	fn func(ctx context.Context, tx user.BalanceTx) error,
) error {
	s.calls.Add(1)
	return s.Store.RunBalanceTx(ctx, func(ctx context.Context, tx user.BalanceTx) error {
		if s.conflicts.Load() > 0 {
			s.conflicts.Add(-1)
			return serviceerrs.ErrTransactionConflict
		}
		return fn(ctx, tx)
	})
}

func newStore(accounts ...user.Account) *memstore.Store {
	s := memstore.New()
	for _, a := range accounts {
		s.PutAccount(a)
	}
	return s
}

func TestAccessor_ApplyDelta(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		start   user.Balance
		delta   int64
		want    user.Balance
		wantErr error
	}{
		{
			name:   "accrual",
			userID: "u1",
			start:  user.Balance{Points: 100, Today: 5, Week: 20},
			delta:  50,
			want:   user.Balance{Points: 150, Today: 55, Week: 70, Version: 1},
		},
		{
			name:   "withdrawal",
			userID: "u1",
			start:  user.Balance{Points: 100, Today: 5, Week: 20},
			delta:  -30,
			want:   user.Balance{Points: 70, Today: -25, Week: -10, Version: 1},
		},
		{
			name:   "goes negative",
			userID: "u1",
			start:  user.Balance{Points: 10},
			delta:  -25,
			want:   user.Balance{Points: -15, Today: -25, Week: -25, Version: 1},
		},
		{
			name:    "unknown user",
			userID:  "nobody",
			start:   user.Balance{Points: 10},
			delta:   5,
			wantErr: serviceerrs.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(user.Account{ID: "u1", Balance: tt.start})
			a := NewAccessor(store, 0, slog.Default())

			got, err := a.ApplyDelta(context.Background(), tt.userID, tt.delta)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				acc, err := store.FindByID(context.Background(), "u1")
				require.NoError(t, err)
				assert.Equal(t, tt.start, acc.Balance)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			acc, err := store.FindByID(context.Background(), tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, acc.Balance)
		})
	}
}

func TestAccessor_ApplyDelta_retriesConflicts(t *testing.T) {
	store := &conflictingStore{Store: newStore(user.Account{ID: "u1"})}
	store.conflicts.Store(2)
	a := NewAccessor(store, 3, slog.Default())

	got, err := a.ApplyDelta(context.Background(), "u1", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Points)
	assert.Equal(t, int32(3), store.calls.Load())
}

func TestAccessor_ApplyDelta_conflictsExhausted(t *testing.T) {
	store := &conflictingStore{Store: newStore(user.Account{ID: "u1", Balance: user.Balance{Points: 1}})}
	store.conflicts.Store(10)
	a := NewAccessor(store, 4, slog.Default())

	_, err := a.ApplyDelta(context.Background(), "u1", 7)
	require.ErrorIs(t, err, serviceerrs.ErrTransactionConflict)
	assert.Equal(t, int32(4), store.calls.Load())

	acc, err := store.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), acc.Balance.Points)
}

func TestAccessor_ApplyDelta_notFoundIsNotRetried(t *testing.T) {
	store := &conflictingStore{Store: newStore()}
	a := NewAccessor(store, 5, slog.Default())

	_, err := a.ApplyDelta(context.Background(), "ghost", 1)
	require.ErrorIs(t, err, serviceerrs.ErrUserNotFound)
	assert.Equal(t, int32(1), store.calls.Load())
}

func TestAccessor_ApplyDelta_cancelled(t *testing.T) {
	store := &conflictingStore{Store: newStore(user.Account{ID: "u1"})}
	store.conflicts.Store(100)
	a := NewAccessor(store, 100, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.ApplyDelta(ctx, "u1", 1)
	require.Error(t, err)
}

func TestAccessor_ApplyDelta_cancelledBeforeWrite(t *testing.T) {
	store := &conflictingStore{Store: newStore(user.Account{ID: "u1", Balance: user.Balance{Points: 5}})}
	a := NewAccessor(store, 5, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.ApplyDelta(ctx, "u1", 40)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), store.calls.Load())

	acc, err := store.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, user.Balance{Points: 5}, acc.Balance)
}

func TestAccessor_ApplyDelta_concurrent(t *testing.T) {
	const (
		workers = 20
		delta   = 3
	)
	store := newStore(user.Account{ID: "u1", Balance: user.Balance{Points: 1000}})
	a := NewAccessor(store, 1000, slog.Default())

	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.ApplyDelta(context.Background(), "u1", delta)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	acc, err := store.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000+workers*delta), acc.Balance.Points)
	assert.Equal(t, int64(workers*delta), acc.Balance.Today)
	assert.Equal(t, int64(workers), acc.Balance.Version)
}
