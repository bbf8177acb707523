package search

import "sync"

// ResultSlot holds the attribute of the matched item. At most one write
// succeeds for the lifetime of a search; later writes are ignored.
type ResultSlot struct {
	mu      sync.Mutex
	value   string
	written bool
}

// Put stores value if the slot is still empty and reports whether this
// call won the write.
func (r *ResultSlot) Put(value string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.written {
		return false
	}
	r.value = value
	r.written = true
	return true
}

// Get returns the stored value and whether anything was written.
func (r *ResultSlot) Get() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, r.written
}
