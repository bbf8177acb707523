package search

import "sync"

// Signal is a monotonic broadcast flag. It starts unset; once Set it
// never reverts. Both search outcomes share one signal: target found
// and collection exhausted (no continuation page anywhere in flight).
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

// NewSignal creates an unset signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Set raises the signal and wakes everything blocked on Done. It is
// idempotent.
func (s *Signal) Set() {
	s.once.Do(func() { close(s.ch) })
}

// IsSet reports whether the signal has been raised.
func (s *Signal) IsSet() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the signal is raised.
func (s *Signal) Done() <-chan struct{} {
	return s.ch
}
