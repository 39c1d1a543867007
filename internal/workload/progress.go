package workload

import (
	"sync/atomic"
	"time"
	_ "unsafe" // Required for go:linkname
)

// nanotime returns the current monotonic time in nanoseconds.
// It avoids constructing a time.Time on every check.
//
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// Progress reports when an interval has elapsed since the last report.
//
// The consumer loop calls Tick once per received value, so a check costs
// one clock read and one atomic load.
type Progress struct {
	interval int64 // nanoseconds
	last     atomic.Int64
}

// NewProgress creates a Progress with the given interval.
// Returns nil for a non-positive interval; a nil Progress never ticks.
func NewProgress(interval time.Duration) *Progress {
	if interval <= 0 {
		return nil
	}
	p := &Progress{interval: int64(interval)}
	p.last.Store(nanotime())
	return p
}

// Tick returns true if the interval has elapsed since the last tick.
func (p *Progress) Tick() bool {
	if p == nil {
		return false
	}
	now := nanotime()
	last := p.last.Load()

	if now-last >= p.interval {
		// CAS so concurrent callers trigger one report per interval
		return p.last.CompareAndSwap(last, now)
	}
	return false
}

// Interval returns the reporting interval.
func (p *Progress) Interval() time.Duration {
	if p == nil {
		return 0
	}
	return time.Duration(p.interval)
}
