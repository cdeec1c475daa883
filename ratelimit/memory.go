package ratelimit

import (
	"context"
	"sync"
	"time"
)

const defaultPruneThreshold = 10000

type counter struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps counters in process. Limits are not shared between instances.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time

	pruneThreshold int
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		counters:       make(map[string]*counter),
		now:            time.Now,
		pruneThreshold: defaultPruneThreshold,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, maxRequests int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.counters[key]
	if !ok || now.After(c.resetAt) {
		if !ok && len(l.counters) >= l.pruneThreshold {
			l.prune(now)
		}
		l.counters[key] = &counter{count: 1, resetAt: now.Add(window)}
		return true
	}

	if c.count >= maxRequests {
		return false
	}
	c.count++
	return true
}

// Len returns the number of live counters.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counters)
}

func (l *MemoryLimiter) prune(now time.Time) {
	for key, c := range l.counters {
		if now.After(c.resetAt) {
			delete(l.counters, key)
		}
	}
}
