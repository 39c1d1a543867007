package workload_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/randomizedcoder/go-mpsc/internal/workload"
)

func TestProgress(t *testing.T) {
	interval := 50 * time.Millisecond
	p := workload.NewProgress(interval)

	assert.False(t, p.Tick(), "expected Tick() = false immediately after creation")

	time.Sleep(interval + 20*time.Millisecond)

	assert.True(t, p.Tick(), "expected Tick() = true after interval elapsed")
	assert.False(t, p.Tick(), "expected Tick() = false immediately after tick")
	assert.Equal(t, interval, p.Interval())
}

func TestProgress_Disabled(t *testing.T) {
	p := workload.NewProgress(0)
	assert.Nil(t, p)
	assert.False(t, p.Tick())
	assert.Zero(t, p.Interval())
}

// Only one of many concurrent callers reports a given interval.
func TestProgress_Race(t *testing.T) {
	interval := 20 * time.Millisecond
	p := workload.NewProgress(interval)
	time.Sleep(interval + 10*time.Millisecond)

	var ticks atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p.Tick() {
				ticks.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ticks.Load())
}

func TestStopper(t *testing.T) {
	s := workload.NewStopper()
	assert.False(t, s.Done(), "expected Done() = false before Stop()")

	s.Stop()
	assert.True(t, s.Done(), "expected Done() = true after Stop()")

	// Verify idempotent
	s.Stop()
	assert.True(t, s.Done())
}

// Run with: go test -race ./internal/workload
func TestStopper_Race(t *testing.T) {
	s := workload.NewStopper()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10000; j++ {
				_ = s.Done()
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Stop()
	}()

	wg.Wait()
	assert.True(t, s.Done())
}
