// Package mpsc provides unbounded, blocking MPSC queue implementations.
//
// This package offers two implementations of the Sender/Receiver contract.
// They differ only in how liveness is detected:
//   - Weak: producers hold a non-owning link to the shared state. The
//     receiver sees end of stream when the weak count reaches zero, and a
//     producer sees consumer loss when the link can no longer be upgraded.
//   - Counted: producers hold an owning link and an explicit live-producer
//     count is kept under the queue lock. Consumer loss is not tracked.
//
// # Receiver Safety (IMPORTANT)
//
// A channel has exactly ONE receiver. Recv is NOT safe to call from more
// than one goroutine at a time: the receiver owns a private local buffer
// that is read without any lock. A runtime guard panics on concurrent Recv.
//
// Correct usage:
//   - Any number of goroutines call Send, each on its own Sender clone
//   - Exactly ONE goroutine calls Recv
//   - Every Sender is closed when its goroutine is done sending
//
// # Send After Receiver Close
//
// The two variants intentionally disagree here:
//   - Weak: Send panics with *SendError, the same way a send on a closed Go
//     channel panics. TrySend returns the error instead.
//   - Counted: Send returns nil and the value is never observed.
package mpsc

import (
	"errors"
	"fmt"
)

// Sender is the producing side of a channel.
//
// Each goroutine should own its own Sender, obtained through Clone.
type Sender[T any] interface {
	// Send appends v to the tail of the queue and wakes the receiver.
	// Send never blocks.
	Send(v T) error

	// Clone returns a new Sender linked to the same channel.
	Clone() Sender[T]

	// Close releases this Sender. The receiver sees end of stream once
	// every Sender is closed and the queue is drained.
	// Safe to call multiple times.
	Close()
}

// Receiver is the consuming side of a channel.
type Receiver[T any] interface {
	// Recv returns the next value, blocking while the queue is empty and
	// a producer is still live. Returns false at end of stream.
	Recv() (T, bool)

	// Close releases the Receiver. Safe to call multiple times.
	Close()
}

// Variant selects a liveness strategy.
type Variant string

const (
	// VariantWeak infers liveness from weak/strong reference counts.
	VariantWeak Variant = "weak"

	// VariantCounted keeps an explicit live-producer count under the lock.
	VariantCounted Variant = "counted"
)

// Variants lists every supported Variant.
var Variants = []Variant{VariantWeak, VariantCounted}

// ErrUnknownVariant is returned by New for an unsupported Variant.
var ErrUnknownVariant = errors.New("mpsc: unknown variant")

// ParseVariant converts a name to a Variant.
func ParseVariant(name string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// New creates a channel using the given liveness strategy.
func New[T any](v Variant, opts ...Option) (Sender[T], Receiver[T], error) {
	switch v {
	case VariantWeak:
		tx, rx := NewWeak[T](opts...)
		return weakSender[T]{tx}, rx, nil
	case VariantCounted:
		tx, rx := NewCounted[T](opts...)
		return countedSender[T]{tx}, rx, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
}

// weakSender adapts *WeakSender to the Sender interface.
type weakSender[T any] struct {
	*WeakSender[T]
}

func (s weakSender[T]) Clone() Sender[T] {
	return weakSender[T]{s.WeakSender.Clone()}
}

// countedSender adapts *CountedSender to the Sender interface.
type countedSender[T any] struct {
	*CountedSender[T]
}

func (s countedSender[T]) Clone() Sender[T] {
	return countedSender[T]{s.CountedSender.Clone()}
}
