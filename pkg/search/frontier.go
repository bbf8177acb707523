package search

import "sync"

// Frontier tracks the highest page number known to exist. Advancing it
// is how newly discovered pages enter the work queue.
type Frontier struct {
	mu  sync.Mutex
	max PageNumber
}

// NewFrontier creates a frontier at the given maximum page.
func NewFrontier(max PageNumber) *Frontier {
	return &Frontier{max: max}
}

// Extend advances the frontier to next if it lies strictly beyond the
// current maximum and reports whether it did. The compare-and-advance
// is a single critical section, so exactly one concurrent caller wins
// for any given next and a discovered page is enqueued once. Any worker
// may extend; frontier growth does not depend on which worker processes
// the current maximum page.
func (f *Frontier) Extend(next PageNumber) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if next <= f.max {
		return false
	}
	f.max = next
	return true
}

// Max returns the highest page number seen so far.
func (f *Frontier) Max() PageNumber {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.max
}
