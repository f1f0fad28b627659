package audiocodec

// Queue is an unbounded FIFO of produced-but-not-yet-consumed codec
// outputs. Pushed entries are never dropped; in particular a failed codec
// call leaves previously queued outputs untouched.
type Queue[T any] struct {
	items []T
}

// Push appends v to the tail of the queue.
func (q *Queue[T]) Push(v T) {
	q.items = append(q.items, v)
}

// Pop removes and returns the oldest entry. The second return value is
// false when the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

// Len returns the number of queued entries.
func (q *Queue[T]) Len() int {
	return len(q.items)
}
