package mpsc

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// weakShared is the state shared by every handle of a weak channel.
//
// The receiver owns the single strong reference. Each WeakSender holds a
// weak reference, and upgrades it for the duration of a send.
type weakShared[T any] struct {
	mu        sync.Mutex
	available *sync.Cond
	queue     fifo[T] // guarded by mu

	refs refs
	opts options
}

// NewWeak creates a channel whose liveness is inferred from reference
// counts.
//
// The receiver sees end of stream once the weak count reaches zero. A
// sender sees consumer loss when its weak link can no longer be upgraded.
func NewWeak[T any](opts ...Option) (*WeakSender[T], *WeakReceiver[T]) {
	sh := &weakShared[T]{opts: newOptions(VariantWeak, opts)}
	sh.available = sync.NewCond(&sh.mu)
	sh.refs.strong.Store(1)

	rx := &WeakReceiver[T]{shared: sh}
	rx.cleanup = runtime.AddCleanup(rx, (*weakShared[T]).releaseReceiver, sh)

	return newWeakSender(sh), rx
}

// WeakSender is the producing side of a weak channel.
//
// A WeakSender must not be used after Close.
type WeakSender[T any] struct {
	shared  *weakShared[T]
	closed  atomic.Bool
	cleanup runtime.Cleanup
}

func newWeakSender[T any](sh *weakShared[T]) *WeakSender[T] {
	sh.refs.acquireWeak()
	sh.opts.observer.ProducerOpened()

	s := &WeakSender[T]{shared: sh}
	s.cleanup = runtime.AddCleanup(s, (*weakShared[T]).releaseSender, sh)
	return s
}

// Send queues v.
//
// If the receiver has been closed, Send panics with a *SendError carrying
// v. Use TrySend to get the error as a value instead.
func (s *WeakSender[T]) Send(v T) error {
	if err := s.TrySend(v); err != nil {
		panic(err)
	}
	return nil
}

// TrySend queues v, or returns a *SendError wrapping ErrDisconnected if
// the receiver has been closed.
func (s *WeakSender[T]) TrySend(v T) error {
	if s.closed.Load() {
		panic("mpsc: Send on closed Sender")
	}
	sh := s.shared

	if !sh.refs.upgrade() {
		sh.opts.observer.Disconnected()
		sh.opts.logger.Warn("send after receiver closed")
		return &SendError[T]{Value: v}
	}
	defer sh.refs.releaseStrong()

	sh.mu.Lock()
	sh.queue.push(v)
	sh.mu.Unlock()
	sh.available.Signal()

	sh.opts.observer.Sent()
	return nil
}

// Clone returns a new WeakSender for the same channel.
// Cloning only duplicates the weak link.
func (s *WeakSender[T]) Clone() *WeakSender[T] {
	if s.closed.Load() {
		panic("mpsc: Clone on closed Sender")
	}
	return newWeakSender(s.shared)
}

// Close releases the sender's weak link. Closing the last sender wakes
// the receiver so it can observe end of stream.
func (s *WeakSender[T]) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.cleanup.Stop()
	s.shared.releaseSender()
}

// releaseSender drops one weak reference.
func (sh *weakShared[T]) releaseSender() {
	sh.opts.observer.ProducerClosed()
	if !sh.refs.releaseWeak() {
		return
	}
	sh.opts.logger.Debug("last producer closed")

	if !sh.refs.upgrade() {
		// Receiver already gone, nobody to wake.
		return
	}
	defer sh.refs.releaseStrong()

	// The receiver checks the weak count while holding mu and keeps it
	// until Wait releases it, so passing through mu here guarantees the
	// signal lands after the receiver is waiting or before it checks.
	sh.mu.Lock()
	sh.mu.Unlock() //nolint:staticcheck // empty critical section orders the wake
	sh.available.Signal()
}

// WeakReceiver is the consuming side of a weak channel.
//
// RECEIVER CONTRACT: Only ONE goroutine may call Recv().
type WeakReceiver[T any] struct {
	shared *weakShared[T]
	buf    fifo[T] // private, never touched under mu except for the swap

	recvActive atomic.Uint32
	closed     atomic.Bool
	cleanup    runtime.Cleanup
}

// Recv returns the next value in FIFO order.
//
// Values buffered locally are returned without taking the lock. When the
// local buffer is empty the whole shared queue is taken in one swap.
// Recv blocks while the shared queue is empty and a sender is live.
// Returns false once every sender is closed and the queue is drained,
// or after the receiver is closed.
func (r *WeakReceiver[T]) Recv() (T, bool) {
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
		if sh.refs.weakCount() == 0 {
			sh.mu.Unlock()

			sh.opts.observer.Drained()
			sh.opts.logger.Debug("end of stream")
			return zero, false
		}
		sh.available.Wait()
	}
}

// Close releases the receiver's strong reference. Any later send on a
// remaining sender fails.
//
// Close must not be called concurrently with Recv.
func (r *WeakReceiver[T]) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	r.cleanup.Stop()
	r.buf.reset()
	r.shared.releaseReceiver()
}

func (sh *weakShared[T]) releaseReceiver() {
	sh.refs.releaseStrong()
	sh.opts.logger.Debug("receiver closed")
}
