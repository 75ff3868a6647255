package input

import (
	"sync"
	"time"
)

// DefaultHoldWindow is how long a key counts as held after its last
// event. Terminals only deliver key-down events (with autorepeat), so
// "held" is synthesized by expiring keys that stop repeating.
const DefaultHoldWindow = 150 * time.Millisecond

// Tracker turns asynchronous key-down events into held-key snapshots.
// Touch and Snapshot may be called from different goroutines.
type Tracker struct {
	mu     sync.Mutex
	until  map[string]time.Time
	window time.Duration
}

// NewTracker returns a tracker using the given hold window, or
// DefaultHoldWindow if window is zero.
func NewTracker(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &Tracker{
		until:  make(map[string]time.Time),
		window: window,
	}
}

// Touch records a key event at the given time, extending the key's
// hold deadline.
func (t *Tracker) Touch(key string, now time.Time) {
	t.mu.Lock()
	t.until[key] = now.Add(t.window)
	t.mu.Unlock()
}

// Release drops a key immediately, for hosts that do see key-up.
func (t *Tracker) Release(key string) {
	t.mu.Lock()
	delete(t.until, key)
	t.mu.Unlock()
}

// Clear drops all held keys. Called on focus loss so stale holds never
// latch an arm in motion.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.until = make(map[string]time.Time)
	t.mu.Unlock()
}

// Snapshot returns the keys still held at the given time, pruning
// expired entries.
func (t *Tracker) Snapshot(now time.Time) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := make(Snapshot, len(t.until))
	for k, deadline := range t.until {
		if now.Before(deadline) {
			snap[k] = true
		} else {
			delete(t.until, k)
		}
	}
	return snap
}
