package workload

import "sync/atomic"

// Stopper is a stop flag polled by producers between sends.
//
// A single atomic load per check keeps it cheap enough for the send loop.
type Stopper struct {
	done atomic.Bool
}

// NewStopper creates a Stopper that has not been triggered.
func NewStopper() *Stopper {
	return &Stopper{}
}

// Done returns true once Stop has been called.
func (s *Stopper) Done() bool {
	return s.done.Load()
}

// Stop triggers the flag. Safe to call multiple times.
func (s *Stopper) Stop() {
	s.done.Store(true)
}
