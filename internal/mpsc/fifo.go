package mpsc

// fifo is an unbounded slice-backed FIFO. It is not safe for concurrent
// use; callers provide their own synchronization.
type fifo[T any] struct {
	items []T
	head  int
}

func (f *fifo[T]) push(v T) {
	f.items = append(f.items, v)
}

// pop removes the front element. Popped slots are zeroed so the backing
// array does not keep values alive, and the array is rewound once empty
// so it can be reused.
func (f *fifo[T]) pop() (T, bool) {
	var zero T
	if f.head == len(f.items) {
		return zero, false
	}
	v := f.items[f.head]
	f.items[f.head] = zero
	f.head++
	if f.head == len(f.items) {
		f.items = f.items[:0]
		f.head = 0
	}
	return v, true
}

func (f *fifo[T]) len() int {
	return len(f.items) - f.head
}

// swap exchanges the contents of f and o wholesale.
func (f *fifo[T]) swap(o *fifo[T]) {
	*f, *o = *o, *f
}

// reset drops every element and the backing array.
func (f *fifo[T]) reset() {
	f.items = nil
	f.head = 0
}
