package mpsc

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// countedShared is the state shared by every handle of a counted channel.
type countedShared[T any] struct {
	mu        sync.Mutex
	available *sync.Cond
	queue     fifo[T] // guarded by mu
	senders   int     // live producers, guarded by mu

	opts options
}

// NewCounted creates a channel that keeps an explicit live-producer
// count under the queue lock.
//
// Every handle holds an owning link, so the receiver's disappearance is
// not observed by senders: a send after Close on the receiver succeeds
// and the value is never collected.
func NewCounted[T any](opts ...Option) (*CountedSender[T], *CountedReceiver[T]) {
	sh := &countedShared[T]{
		senders: 1,
		opts:    newOptions(VariantCounted, opts),
	}
	sh.available = sync.NewCond(&sh.mu)
	sh.opts.observer.ProducerOpened()

	tx := &CountedSender[T]{shared: sh}
	tx.cleanup = runtime.AddCleanup(tx, (*countedShared[T]).releaseSender, sh)

	return tx, &CountedReceiver[T]{shared: sh}
}

// CountedSender is the producing side of a counted channel.
//
// A CountedSender must not be used after Close.
type CountedSender[T any] struct {
	shared  *countedShared[T]
	closed  atomic.Bool
	cleanup runtime.Cleanup
}

// Send queues v. Send always returns nil.
func (s *CountedSender[T]) Send(v T) error {
	if s.closed.Load() {
		panic("mpsc: Send on closed Sender")
	}
	sh := s.shared

	sh.mu.Lock()
	sh.queue.push(v)
	sh.mu.Unlock()
	sh.available.Signal()

	sh.opts.observer.Sent()
	return nil
}

// Clone returns a new CountedSender for the same channel, incrementing
// the live-producer count.
func (s *CountedSender[T]) Clone() *CountedSender[T] {
	if s.closed.Load() {
		panic("mpsc: Clone on closed Sender")
	}
	sh := s.shared

	sh.mu.Lock()
	sh.senders++
	sh.mu.Unlock()
	sh.opts.observer.ProducerOpened()

	c := &CountedSender[T]{shared: sh}
	c.cleanup = runtime.AddCleanup(c, (*countedShared[T]).releaseSender, sh)
	return c
}

// Close decrements the live-producer count. Closing the last sender
// wakes the receiver so it can observe end of stream.
func (s *CountedSender[T]) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.cleanup.Stop()
	s.shared.releaseSender()
}

func (sh *countedShared[T]) releaseSender() {
	sh.mu.Lock()
	sh.senders--
	last := sh.senders == 0
	sh.mu.Unlock()

	sh.opts.observer.ProducerClosed()
	if last {
		sh.opts.logger.Debug("last producer closed")
		sh.available.Signal()
	}
}

// CountedReceiver is the consuming side of a counted channel.
//
// RECEIVER CONTRACT: Only ONE goroutine may call Recv().
type CountedReceiver[T any] struct {
	shared *countedShared[T]
	buf    fifo[T]

	recvActive atomic.Uint32
	closed     atomic.Bool
}

// Recv returns the next value in FIFO order, blocking while the queue is
// empty and the live-producer count is non-zero. Returns false at end of
// stream or after the receiver is closed.
func (r *CountedReceiver[T]) Recv() (T, bool) {
	if !r.recvActive.CompareAndSwap(0, 1) {
		panic("mpsc: concurrent Recv on Receiver - only one consumer allowed")
	}
	defer r.recvActive.Store(0)

	var zero T
	if r.closed.Load() {
		return zero, false
	}
	sh := r.shared

	if v, ok := r.buf.pop(); ok {
		sh.opts.observer.Received()
		return v, true
	}

	sh.mu.Lock()
	for {
		if n := sh.queue.len(); n > 0 {
			r.buf.swap(&sh.queue)
			sh.mu.Unlock()

			sh.opts.observer.Refilled(n)
			sh.opts.observer.Received()
			v, _ := r.buf.pop()
			return v, true
		}
		if sh.senders == 0 {
			sh.mu.Unlock()

			sh.opts.observer.Drained()
			sh.opts.logger.Debug("end of stream")
			return zero, false
		}
		sh.available.Wait()
	}
}

// Close drops the local buffer. Senders are not told: their sends keep
// succeeding and are never observed.
//
// Close must not be called concurrently with Recv.
func (r *CountedReceiver[T]) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	r.buf.reset()
	r.shared.opts.logger.Debug("receiver closed, later sends are not detected")
}
