package resilience

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// BulkheadConfig configures the concurrency bulkhead.
type BulkheadConfig struct {
	// MaxConcurrent is the number of logical calls allowed in flight at
	// once. Default: 10
	MaxConcurrent int

	// MaxWait is how long Acquire blocks for a slot when saturated.
	// Default: 0 (reject immediately)
	MaxWait time.Duration
}

// Bulkhead caps the number of logical calls in flight. It protects both the
// server from request floods and the process from unbounded goroutine
// pile-up when the server slows down.
type Bulkhead struct {
	config BulkheadConfig
	sem    *semaphore.Weighted

	mu        sync.Mutex
	active    int
	maxActive int
	rejected  int64
}

// NewBulkhead creates a bulkhead with all slots free.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	// Apply defaults
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}

	return &Bulkhead{
		config: config,
		sem:    semaphore.NewWeighted(int64(config.MaxConcurrent)),
	}
}

// Acquire claims a slot, blocking up to MaxWait when saturated. It returns
// ErrBulkheadFull when no slot frees up in time, or the context's error when
// the caller gives up first.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	if b.sem.TryAcquire(1) {
		b.noteAcquired()
		return nil
	}

	if b.config.MaxWait <= 0 {
		b.noteRejected()
		return ErrBulkheadFull
	}

	waitCtx, cancel := context.WithTimeout(ctx, b.config.MaxWait)
	defer cancel()

	if err := b.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.noteRejected()
		return ErrBulkheadFull
	}

	b.noteAcquired()
	return nil
}

// Release frees a slot. Callers must pair every successful Acquire with
// exactly one Release.
func (b *Bulkhead) Release() {
	b.sem.Release(1)

	b.mu.Lock()
	b.active--
	b.mu.Unlock()
}

func (b *Bulkhead) noteAcquired() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.active++
	if b.active > b.maxActive {
		b.maxActive = b.active
	}
}

func (b *Bulkhead) noteRejected() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejected++
}

// Metrics returns current bulkhead statistics.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadMetrics{
		Active:        b.active,
		MaxActive:     b.maxActive,
		Available:     b.config.MaxConcurrent - b.active,
		MaxConcurrent: b.config.MaxConcurrent,
		Rejected:      b.rejected,
	}
}

// BulkheadMetrics contains bulkhead statistics.
type BulkheadMetrics struct {
	Active        int
	MaxActive     int
	Available     int
	MaxConcurrent int
	Rejected      int64
}
