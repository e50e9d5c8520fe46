package scanner

import "time"

// Debouncer suppresses repeated emissions of the same payload within a
// fixed interval. It keeps one last-emitted timestamp per payload, so
// distinct codes never interfere with each other's windows.
//
// Entries are never removed. A scan session sees a handful of distinct
// codes, so the table stays small.
//
// A Debouncer is not safe for concurrent use; it belongs to the loop
// that owns it.
type Debouncer struct {
	interval time.Duration
	lastSeen map[string]time.Time
}

// NewDebouncer creates a debouncer with the given suppression interval.
// A zero interval emits everything.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		lastSeen: make(map[string]time.Time),
	}
}

// ShouldEmit reports whether payload should be emitted at now, and
// records the emission time when it returns true. A suppressed sighting
// does not refresh the window; the clock runs from the last emission.
func (d *Debouncer) ShouldEmit(payload string, now time.Time) bool {
	if last, ok := d.lastSeen[payload]; ok && now.Sub(last) < d.interval {
		return false
	}
	d.lastSeen[payload] = now
	return true
}

// Len returns the number of distinct payloads seen so far.
func (d *Debouncer) Len() int {
	return len(d.lastSeen)
}
