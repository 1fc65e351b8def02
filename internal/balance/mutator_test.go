package balance

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/points-ledger/internal/memstore"
	"github.com/talx-hub/points-ledger/internal/model/ledger"
	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

var admin = user.Principal{UserID: "admin-1", Role: user.RoleAdmin}

type brokenEntries struct{}

func (brokenEntries) AppendEntry(context.Context, *ledger.Entry) error {
	return errors.New("disk full")
}

func (brokenEntries) ListEntries(context.Context, string, int) ([]ledger.Entry, error) {
	return nil, nil
}

func newMutator(store *memstore.Store) *Mutator {
	return NewMutator(NewAccessor(store, 0, slog.Default()), store, slog.Default())
}

func TestMutator_Adjust(t *testing.T) {
	tests := []struct {
		name        string
		principal   user.Principal
		req         AdjustRequest
		wantBalance int64
		wantEntries int
		wantErr     error
		wantReason  string
	}{
		{
			name:        "manual accrual",
			principal:   admin,
			req:         AdjustRequest{UserID: "u1", Delta: 25, Reason: "bonus"},
			wantBalance: 125,
			wantEntries: 1,
			wantReason:  "bonus",
		},
		{
			name:        "manual deduction with default reason",
			principal:   admin,
			req:         AdjustRequest{UserID: "u1", Delta: -40, Kind: ledger.KindManualAdjust},
			wantBalance: 60,
			wantEntries: 1,
			wantReason:  DefaultManualReason,
		},
		{
			name:        "zero manual delta",
			principal:   admin,
			req:         AdjustRequest{UserID: "u1", Delta: 0},
			wantBalance: 100,
			wantErr:     serviceerrs.ErrInvalidDelta,
		},
		{
			name:        "zero bulk delta is applied",
			principal:   admin,
			req:         AdjustRequest{UserID: "u1", Delta: 0, Kind: ledger.KindBulkLoad},
			wantBalance: 100,
			wantEntries: 1,
			wantReason:  DefaultBulkReason,
		},
		{
			name:        "driver principal",
			principal:   user.Principal{UserID: "u1", Role: user.RoleDriver},
			req:         AdjustRequest{UserID: "u1", Delta: 10},
			wantBalance: 100,
			wantErr:     serviceerrs.ErrForbidden,
		},
		{
			name:        "anonymous principal",
			principal:   user.Principal{Role: user.RoleAdmin},
			req:         AdjustRequest{UserID: "u1", Delta: 10},
			wantBalance: 100,
			wantErr:     serviceerrs.ErrForbidden,
		},
		{
			name:        "unknown user",
			principal:   admin,
			req:         AdjustRequest{UserID: "ghost", Delta: 10},
			wantBalance: 100,
			wantErr:     serviceerrs.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(user.Account{ID: "u1", Balance: user.Balance{Points: 100}})
			m := newMutator(store)
			ctx := context.Background()

			entry, err := m.Adjust(ctx, tt.principal, tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.req.Delta, entry.Delta)
				assert.Equal(t, tt.wantBalance, entry.BalanceAfter)
				assert.Equal(t, tt.wantReason, entry.Reason)
				assert.NotEmpty(t, entry.ID)
				assert.False(t, entry.CreatedAt.IsZero())
			}

			acc, err := store.FindByID(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, acc.Balance.Points)

			entries, err := store.ListEntries(ctx, "u1", 0)
			require.NoError(t, err)
			assert.Len(t, entries, tt.wantEntries)
		})
	}
}

func TestMutator_Adjust_auditFailureKeepsBalance(t *testing.T) {
	store := newStore(user.Account{ID: "u1", Balance: user.Balance{Points: 100}})
	m := NewMutator(NewAccessor(store, 0, slog.Default()), brokenEntries{}, slog.Default())

	entry, err := m.Adjust(context.Background(), admin, AdjustRequest{UserID: "u1", Delta: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(105), entry.BalanceAfter)

	acc, err := store.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(105), acc.Balance.Points)
}

func TestMutator_Adjust_cancelledWritesNothing(t *testing.T) {
	store := newStore(user.Account{ID: "u1", Balance: user.Balance{Points: 5}})
	m := newMutator(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Adjust(ctx, admin, AdjustRequest{UserID: "u1", Delta: 40})
	require.ErrorIs(t, err, context.Canceled)

	acc, err := store.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), acc.Balance.Points)
	entries, err := store.ListEntries(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMutator_Adjust_concurrentDeltasBothApplied(t *testing.T) {
	for n := 0; n < 25; n++ {
		store := newStore(user.Account{ID: "u1", Balance: user.Balance{Points: 100}})
		m := newMutator(store)
		ctx := context.Background()

		var wg sync.WaitGroup
		for _, delta := range []int64{10, -3} {
			delta := delta
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := m.Adjust(ctx, admin, AdjustRequest{UserID: "u1", Delta: delta})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		acc, err := store.FindByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(107), acc.Balance.Points)

		entries, err := store.ListEntries(ctx, "u1", 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.ElementsMatch(t, []int64{10, -3}, []int64{entries[0].Delta, entries[1].Delta})
	}
}
