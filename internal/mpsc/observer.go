package mpsc

// Observer is notified of channel activity.
//
// Implementations must be safe for concurrent use: producer-side hooks
// are called from every sending goroutine. No hook is called while the
// queue lock is held.
type Observer interface {
	// ProducerOpened is called for the initial Sender and every Clone.
	ProducerOpened()

	// ProducerClosed is called when a Sender is released.
	ProducerClosed()

	// Sent is called after a value has been queued.
	Sent()

	// Refilled is called when the receiver moves a batch of n values from
	// the shared queue into its local buffer.
	Refilled(n int)

	// Received is called for every value returned by Recv.
	Received()

	// Drained is called when Recv reports end of stream.
	Drained()

	// Disconnected is called when a send fails because the receiver is gone.
	Disconnected()
}

type nopObserver struct{}

func (nopObserver) ProducerOpened() {}
func (nopObserver) ProducerClosed() {}
func (nopObserver) Sent()           {}
func (nopObserver) Refilled(int)    {}
func (nopObserver) Received()       {}
func (nopObserver) Drained()        {}
func (nopObserver) Disconnected()   {}
