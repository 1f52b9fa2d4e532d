// Package ratelimit implements an in-process sliding-window request limiter
// keyed by client identity. State is process-local: a restart resets all
// counters, and horizontally scaled replicas do not share windows.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits or rejects actions per identity using a sliding time window.
// Each named policy (post creation, general API) gets its own Limiter with an
// independent identity map.
type Limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	windows map[string][]time.Time

	now func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter admitting at most max requests per identity
// within the sliding window. A background janitor sweeps identities whose
// windows have emptied so the map stays bounded under high-cardinality
// traffic (e.g. spoofed forwarded-for headers). Call Close to stop it.
func NewLimiter(max int, window time.Duration) *Limiter {
	l := &Limiter{
		max:     max,
		window:  window,
		windows: make(map[string][]time.Time),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.janitor()
	return l
}

// Allow records and admits a request from identity unless the window is at
// capacity. Check-and-append is a single critical section: two concurrent
// requests from the same identity cannot both take the last slot.
func (l *Limiter) Allow(identity string) bool {
	admitted, _, _ := l.Take(identity)
	return admitted
}

// Take is Allow plus a consistent status snapshot: the remaining capacity
// and reset instant come from the same critical section as the admission
// decision, so a concurrent request cannot skew them.
func (l *Limiter) Take(identity string) (admitted bool, remaining int, resetAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.purgeLocked(identity, now)

	if len(kept) >= l.max {
		l.windows[identity] = kept
		return false, 0, kept[0].Add(l.window)
	}

	kept = append(kept, now)
	l.windows[identity] = kept
	return true, l.max - len(kept), kept[0].Add(l.window)
}

// Remaining returns how many requests the identity may still make in the
// current window. It never consumes a slot.
func (l *Limiter) Remaining(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.purgeLocked(identity, l.now())
	l.windows[identity] = kept

	if remaining := l.max - len(kept); remaining > 0 {
		return remaining
	}
	return 0
}

// ResetAt returns the instant the identity's oldest tracked request ages out
// of the window and a slot frees up. With no recorded requests it returns the
// current time.
func (l *Limiter) ResetAt(identity string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.purgeLocked(identity, now)
	l.windows[identity] = kept

	if len(kept) == 0 {
		return now
	}
	return kept[0].Add(l.window)
}

// purgeLocked drops entries at or beyond window age. Entries exactly window
// old are purged (strict after comparison). Caller must hold l.mu.
func (l *Limiter) purgeLocked(identity string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	entries := l.windows[identity]

	// Entries are appended in time order, so find the first one still inside
	// the window and keep the tail.
	i := 0
	for i < len(entries) && !entries[i].After(cutoff) {
		i++
	}
	return entries[i:]
}

// Close stops the janitor goroutine.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) janitor() {
	interval := l.window
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep removes identities whose windows have fully aged out.
func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for identity := range l.windows {
		if kept := l.purgeLocked(identity, now); len(kept) == 0 {
			delete(l.windows, identity)
		} else {
			l.windows[identity] = kept
		}
	}
}

// tracked returns the number of identities currently held.
func (l *Limiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
