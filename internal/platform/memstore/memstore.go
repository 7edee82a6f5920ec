// Package memstore provides shared plumbing for the in-memory fixture stores:
// a context-aware simulated latency and the not-found sentinel every store
// returns. All console data lives in these stores; there is no backing
// database by design.
package memstore

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// ErrNotFound is returned by every store when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Latency simulates backend latency on store calls. Waits are context-aware
// so request deadlines and cancellation propagate exactly as they would with
// a real backend.
type Latency struct {
	mu   sync.Mutex
	base time.Duration
	rng  *rand.Rand
}

// NewLatency creates a latency simulator around the given base duration.
// A base of zero disables waiting entirely (used by tests).
func NewLatency(base time.Duration) *Latency {
	return &Latency{
		base: base,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks for the base duration ±20% jitter, or until the context is
// done, in which case the context error is returned.
func (l *Latency) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if l == nil || l.base <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	// jitter in [-20%, +20%] of base
	jitter := time.Duration(l.rng.Int63n(int64(l.base)*2/5)) - l.base/5
	l.mu.Unlock()

	timer := time.NewTimer(l.base + jitter)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
