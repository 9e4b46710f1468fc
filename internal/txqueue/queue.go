// Package txqueue is the bounded FIFO between the mapping loop (producer)
// and a transmission engine (consumer). It is the only shared-mutable
// structure between the two threads of control.
package txqueue

import "go.uber.org/zap"

// Queue hands values from producer to consumer in enqueue order. A full
// queue drops new values instead of blocking the producer; the bridge favors
// input responsiveness over guaranteed delivery.
type Queue[T any] struct {
	log *zap.Logger
	ch  chan T
}

func New[T any](log *zap.Logger, capacity int) *Queue[T] {
	return &Queue[T]{
		log: log,
		ch:  make(chan T, capacity),
	}
}

// TryPush enqueues v without blocking. Returns false when the queue is full;
// the value is dropped with a warning.
func (q *Queue[T]) TryPush(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		q.log.Warn("transmit queue full, dropping event")
		return false
	}
}

// Poll dequeues without blocking. The transmission engines call this from
// their Idle state and retry on the next timer expiry when nothing is
// pending.
func (q *Queue[T]) Poll() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

func (q *Queue[T]) Len() int {
	return len(q.ch)
}
