package mpsc

import "errors"

// ErrDisconnected means the receiver no longer exists and a value cannot
// be delivered.
var ErrDisconnected = errors.New("mpsc: receiver has been closed")

// SendError reports a value that could not be delivered because the
// receiver is gone. It wraps ErrDisconnected.
type SendError[T any] struct {
	Value T
}

func (e *SendError[T]) Error() string {
	return "mpsc: send on channel whose receiver has been closed"
}

func (e *SendError[T]) Unwrap() error {
	return ErrDisconnected
}
