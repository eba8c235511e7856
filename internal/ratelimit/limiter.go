package ratelimit

import (
	"sync"
	"time"
)

// Limiter caps how many calls each source may make inside a sliding window.
// A source with no configured cap is never limited.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	caps   map[string]int
	calls  map[string][]time.Time
}

// NewLimiter creates a limiter with the provided window.
func NewLimiter(window time.Duration) *Limiter {
	if window <= 0 {
		window = time.Hour
	}
	return &Limiter{
		window: window,
		caps:   make(map[string]int),
		calls:  make(map[string][]time.Time),
	}
}

// SetCap registers the per-window call budget for a source. A cap of zero
// or less removes the budget.
func (l *Limiter) SetCap(source string, cap int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cap <= 0 {
		delete(l.caps, source)
		return
	}
	l.caps[source] = cap
}

// Allow records one call for the source and reports whether it fits inside
// the current window. A denied call is not recorded.
func (l *Limiter) Allow(source string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cap, limited := l.caps[source]
	if !limited {
		return true
	}

	recent := l.compact(source, now)
	if len(recent) >= cap {
		return false
	}

	l.calls[source] = append(recent, now)
	return true
}

func (l *Limiter) compact(source string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	recent := l.calls[source]

	for len(recent) > 0 && recent[0].Before(cutoff) {
		recent = recent[1:]
	}

	l.calls[source] = recent
	return recent
}
