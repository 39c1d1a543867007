package mpsc

import "sync/atomic"

// refs tracks owning (strong) and non-owning (weak) references to a
// shared state. The two counts are independent: weak references never
// keep the state "owned", and a weak reference must be upgraded before
// the state may be used.
type refs struct {
	strong atomic.Int64
	weak   atomic.Int64
}

// upgrade turns a weak reference into a temporary strong one.
// Returns false once the strong count has reached zero; a released
// owner can never be revived.
func (r *refs) upgrade() bool {
	for {
		n := r.strong.Load()
		if n == 0 {
			return false
		}
		if r.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// releaseStrong drops a strong reference and reports whether it was the
// last one.
func (r *refs) releaseStrong() bool {
	return r.strong.Add(-1) == 0
}

func (r *refs) acquireWeak() {
	r.weak.Add(1)
}

// releaseWeak drops a weak reference and reports whether it was the last
// one. The check and the decrement are a single atomic step: the caller
// is last exactly when the count was 1 before it decremented.
func (r *refs) releaseWeak() bool {
	return r.weak.Add(-1) == 0
}

func (r *refs) weakCount() int64 {
	return r.weak.Load()
}

func (r *refs) strongCount() int64 {
	return r.strong.Load()
}
