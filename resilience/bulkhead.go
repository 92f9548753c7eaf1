package resilience

import (
	"context"
	"errors"
)

// Common bulkhead errors.
var (
	ErrBulkheadFull = errors.New("bulkhead is full")
)

// Bulkhead bounds concurrent executions with a semaphore. The engine sizes
// one bulkhead per run to the run's concurrency limit.
type Bulkhead struct {
	sem chan struct{}
}

// NewBulkhead creates a bulkhead admitting at most maxConcurrent holders.
func NewBulkhead(maxConcurrent int) *Bulkhead {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Bulkhead{sem: make(chan struct{}, maxConcurrent)}
}

// TryAcquire takes a slot without blocking. Returns false when full.
func (b *Bulkhead) TryAcquire() bool {
	select {
	case b.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// Acquire blocks until a slot frees or ctx is done.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot. Must pair with a successful acquire.
func (b *Bulkhead) Release() {
	select {
	case <-b.sem:
	default:
		// Release without acquire is a programming error; dropping it keeps
		// the semaphore consistent.
	}
}

// InUse returns the number of currently held slots.
func (b *Bulkhead) InUse() int { return len(b.sem) }

// Capacity returns the maximum number of concurrent holders.
func (b *Bulkhead) Capacity() int { return cap(b.sem) }
