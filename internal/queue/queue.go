package queue

import (
	"context"
	"sync"
)

type ownerKey struct{}

// Queue is a mutex-guarded FIFO. Only Enqueue and Len are safe to call from
// non-owner goroutines.
type Queue[T any] struct {
	forward func(T)

	mu      sync.Mutex
	pending []T
}

// New creates a queue that hands entries to forward on the owner goroutine.
func New[T any](forward func(T)) *Queue[T] {
	return &Queue[T]{forward: forward}
}

// OwnerContext marks ctx as belonging to q's owner goroutine.
func (q *Queue[T]) OwnerContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ownerKey{}, q)
}

// IsOwner reports whether ctx was marked by OwnerContext on q.
func (q *Queue[T]) IsOwner(ctx context.Context) bool {
	owner, _ := ctx.Value(ownerKey{}).(*Queue[T])
	return owner == q
}

// Enqueue forwards entry immediately when called with an owner context and
// buffers it otherwise. Immediate entries are not ordered against entries
// that other goroutines buffer concurrently.
func (q *Queue[T]) Enqueue(ctx context.Context, entry T) {
	if q.IsOwner(ctx) {
		q.forward(entry)
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, entry)
	q.mu.Unlock()
}

// DrainOnce forwards every buffered entry in FIFO order and returns how many
// were forwarded. The lock is held only to swap the buffer out, so forward
// may enqueue again; those entries wait for the next drain.
func (q *Queue[T]) DrainOnce() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, entry := range batch {
		q.forward(entry)
	}
	return len(batch)
}

// Len returns the number of buffered entries.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
