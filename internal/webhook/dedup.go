package webhook

import (
	"sync"
	"time"
)

// dedupWindow is how long repeat notifications for the same pull
// request number stay suppressed.
const dedupWindow = 10 * time.Minute

// dedupSet suppresses duplicate webhook deliveries for the same pull
// request. Entries are removed by a scheduled task per insertion, not
// by lookup-time eviction. Safe for concurrent use.
type dedupSet struct {
	mu      sync.Mutex
	entries map[int]struct{}
	window  time.Duration
}

func newDedupSet(window time.Duration) *dedupSet {
	return &dedupSet{
		entries: make(map[int]struct{}),
		window:  window,
	}
}

// Insert returns false when the number is already suppressed.
// Otherwise it inserts the number, schedules its removal after the
// window, and returns true.
func (d *dedupSet) Insert(number int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[number]; ok {
		return false
	}
	d.entries[number] = struct{}{}
	time.AfterFunc(d.window, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.entries, number)
	})
	return true
}
