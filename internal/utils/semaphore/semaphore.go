package semaphore

import (
	"context"
	"time"

	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

// Semaphore bounds the number of batch runs in flight.
type Semaphore struct {
	slots chan struct{}
}

func New(size int) *Semaphore {
	if size < 1 {
		size = 1
	}
	return &Semaphore{
		slots: make(chan struct{}, size),
	}
}

func (s *Semaphore) AcquireWithTimeout(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return serviceerrs.ErrSemaphoreTimeoutExceeded
	case <-ctx.Done():
		return ctx.Err() //nolint: wrapcheck
	}
}

func (s *Semaphore) Release() {
	<-s.slots
}

func (s *Semaphore) InUse() int {
	return len(s.slots)
}
