package router

import (
	"context"
	"sync"
)

// Queue is a bounded, thread-safe FIFO. When full, Send evicts the oldest item:
// consumers of market snapshots care about the newest state.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty chan struct{} // signalled (non-blocking) on every Send
	done     chan struct{} // closed by Close
	items    []T
	capacity int
	closed   bool

	// Stats
	received int64
	sent     int64
	dropped  int64
}

// NewQueue creates a queue holding at most capacity items.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{
		notEmpty: make(chan struct{}, 1),
		done:     make(chan struct{}),
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Send appends item, evicting the oldest item when the queue is full.
// Returns false if the queue is closed.
func (q *Queue[T]) Send(item T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}

	if len(q.items) == q.capacity {
		var zero T
		q.items[0] = zero // Clear reference for GC
		q.items = q.items[1:]
		q.dropped++
	}
	q.items = append(q.items, item)
	q.received++
	q.mu.Unlock()

	select {
	case q.notEmpty <- struct{}{}:
	default:
	}
	return true
}

// TryReceive removes the oldest item without blocking.
func (q *Queue[T]) TryReceive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pop()
}

// Receive blocks until an item is available, the queue is closed and drained,
// or ctx is done.
func (q *Queue[T]) Receive(ctx context.Context) (T, bool) {
	for {
		q.mu.Lock()
		item, ok := q.pop()
		closed := q.closed
		q.mu.Unlock()

		if ok {
			return item, true
		}
		if closed {
			var zero T
			return zero, false
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, false
		case <-q.notEmpty:
		case <-q.done:
		}
	}
}

// Drain removes and returns every queued item.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]T, len(q.items))
	copy(out, q.items)
	q.sent += int64(len(out))
	q.items = make([]T, 0, q.capacity)
	return out
}

// Close closes the queue. Receivers get the remaining items, then false.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.done)
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Stats returns queue statistics.
func (q *Queue[T]) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Count:         len(q.items),
		Capacity:      q.capacity,
		TotalReceived: q.received,
		TotalSent:     q.sent,
		Dropped:       q.dropped,
	}
}

// pop must be called with mu held.
func (q *Queue[T]) pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	q.sent++
	return item, true
}
