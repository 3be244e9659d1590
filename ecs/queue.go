package ecs

// queue is a FIFO of deferred structural requests.
type queue[T any] struct {
	items []T
	head  int
}

// Push adds an item.
func (q *queue[T]) Push(v T) {
	if q == nil {
		return
	}
	q.items = append(q.items, v)
}

// Pop removes the oldest item.
func (q *queue[T]) Pop() (T, bool) {
	var zero T
	if q == nil || q.head >= len(q.items) {
		return zero, false
	}
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return v, true
}

func (q *queue[T]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items) - q.head
}

// Drain returns all pending items and clears the queue.
func (q *queue[T]) Drain() []T {
	if q == nil || q.Len() == 0 {
		return nil
	}
	out := make([]T, q.Len())
	copy(out, q.items[q.head:])
	q.Clear()
	return out
}

func (q *queue[T]) Clear() {
	if q == nil {
		return
	}
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}
