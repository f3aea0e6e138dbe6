// Package ratelimit provides fixed-window login attempt counters. The
// window is reset-at-boundary, not sliding: bursts are possible right at a
// window edge, which is an accepted approximation.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	defaultLimit  = 5
	defaultWindow = 15 * time.Minute
)

type entry struct {
	count     int
	resetTime time.Time
}

// MemoryLimiter is a process-local fixed-window counter keyed by client
// identifier. Entries are never evicted; for a single-process deployment
// the map is bounded by the set of client addresses seen. Multi-process
// deployments should use RedisLimiter instead.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter creates a limiter allowing limit attempts per window.
// Non-positive arguments fall back to 5 attempts per 15 minutes.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = defaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &MemoryLimiter{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow consumes one attempt for identifier. The first attempt in a window,
// or any attempt after the window elapsed, resets the counter to 1. Once the
// count reaches the limit, further attempts are denied without incrementing.
func (l *MemoryLimiter) Allow(_ context.Context, identifier string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[identifier]
	if !ok || now.After(e.resetTime) {
		l.entries[identifier] = &entry{count: 1, resetTime: now.Add(l.window)}
		return true, nil
	}

	if e.count >= l.limit {
		return false, nil
	}

	e.count++
	return true, nil
}
