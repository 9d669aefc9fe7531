// Package rate provides per-origin request spacing for outbound fetches.
// Every origin (scheme+host) gets a floor on the interval between two
// consecutive requests, shared across all worker goroutines.
package rate

import (
	"context"
	"sync"
	"time"
)

// OriginLimiter enforces a minimum interval between requests to the same
// origin. The check and the slot reservation happen in one critical section,
// so two concurrent requests to one origin can never both pass the delay
// check; reserved timestamps are monotonically non-decreasing per origin.
type OriginLimiter struct {
	interval time.Duration

	mu   sync.Mutex
	next map[string]time.Time // earliest start allowed per origin
}

// NewOriginLimiter creates a limiter with the given minimum spacing.
// A non-positive interval disables waiting entirely.
func NewOriginLimiter(interval time.Duration) *OriginLimiter {
	return &OriginLimiter{
		interval: interval,
		next:     make(map[string]time.Time),
	}
}

// Wait blocks until the origin's slot opens or the context is canceled.
// The slot is reserved before sleeping, so concurrent callers queue up
// behind each other instead of racing for the same gap.
func (l *OriginLimiter) Wait(ctx context.Context, origin string) error {
	if l.interval <= 0 || origin == "" {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	start := l.next[origin]
	if start.Before(now) {
		start = now
	}
	l.next[origin] = start.Add(l.interval)
	l.mu.Unlock()

	wait := time.Until(start)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Interval returns the configured minimum spacing.
func (l *OriginLimiter) Interval() time.Duration {
	return l.interval
}

// Origins returns how many distinct origins have been seen. Used by the
// summary report and by tests.
func (l *OriginLimiter) Origins() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.next)
}
