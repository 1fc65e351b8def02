package semaphore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

func TestSemaphore(t *testing.T) {
	ctx := context.Background()
	s := New(2)

	require.NoError(t, s.AcquireWithTimeout(ctx, 10*time.Millisecond))
	require.NoError(t, s.AcquireWithTimeout(ctx, 10*time.Millisecond))
	assert.Equal(t, 2, s.InUse())

	err := s.AcquireWithTimeout(ctx, 10*time.Millisecond)
	require.ErrorIs(t, err, serviceerrs.ErrSemaphoreTimeoutExceeded)

	s.Release()
	require.NoError(t, s.AcquireWithTimeout(ctx, 10*time.Millisecond))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = s.AcquireWithTimeout(cancelled, time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSemaphore_minimumSize(t *testing.T) {
	s := New(0)
	require.NoError(t, s.AcquireWithTimeout(context.Background(), time.Millisecond))
	assert.Equal(t, 1, s.InUse())
}
