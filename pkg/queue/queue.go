// Package queue provides the bounded per-connection outbound mailbox.
package queue

import (
	"sync"
	"sync/atomic"

	"github.com/fusebox-party/fusebox/pkg/messages"
)

// DefaultCapacity is the outbox capacity used for player connections.
const DefaultCapacity = 256

// Outbox is a bounded message queue with a non-blocking producer side.
// When the queue is full the newest message is dropped rather than
// blocking the producer, so a stalled consumer can never stall a
// broadcast.
type Outbox struct {
	mu      sync.RWMutex
	ch      chan *messages.Message
	closed  bool
	dropped atomic.Int64
}

// NewOutbox creates an outbox with the given capacity.
func NewOutbox(capacity int) *Outbox {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Outbox{
		ch: make(chan *messages.Message, capacity),
	}
}

// TryEnqueue offers a message to the queue. It returns false without
// blocking when the queue is full or closed.
func (q *Outbox) TryEnqueue(msg *messages.Message) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.ch <- msg:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Messages returns the consumer side of the queue. The channel is
// closed by Close.
func (q *Outbox) Messages() <-chan *messages.Message {
	return q.ch
}

// Size returns the number of queued messages.
func (q *Outbox) Size() int {
	return len(q.ch)
}

// Dropped returns how many messages were discarded because the queue
// was full.
func (q *Outbox) Dropped() int64 {
	return q.dropped.Load()
}

// Close shuts the queue. Enqueues after Close are rejected; Close is
// idempotent.
func (q *Outbox) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
