package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type entry struct {
	count     int
	lastReset time.Time
}

// MemoryLimiter is an in-process Limiter. An entry lives until Sweep finds it
// older than the window; only then does the client get a fresh quota.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*entry
	now     func() time.Time
}

// NewMemoryLimiter returns a limiter allowing limit messages per client until
// its entry is swept after window.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, clientID string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[clientID]
	if !ok {
		e = &entry{lastReset: l.now()}
		l.entries[clientID] = e
	}

	if e.count >= l.limit {
		return Decision{Allowed: false, Remaining: 0}, nil
	}
	e.count++
	return Decision{Allowed: true, Remaining: l.limit - e.count}, nil
}

// Sweep evicts every entry whose last reset is older than the window and
// returns how many were removed.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	removed := 0
	for id, e := range l.entries {
		if e.lastReset.Before(cutoff) {
			delete(l.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Run sweeps every interval until ctx is done. The host process owns the goroutine.
func (l *MemoryLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := l.Sweep(); removed > 0 {
				log.Debug().Int("removed", removed).Int("tracked", l.Len()).Msg("Swept expired rate limit entries.")
			}
		}
	}
}
