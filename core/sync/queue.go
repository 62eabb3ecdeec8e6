package sync

import (
	"context"
	gosync "sync"
	"time"
)

// PendingOperation is a retryable remote write waiting for connectivity.
// Operations execute in FIFO order on reconnect.
type PendingOperation struct {
	ID         string
	Key        string
	Attempts   int
	EnqueuedAt time.Time

	run func(ctx context.Context) error
}

type pendingQueue struct {
	mu  gosync.Mutex
	ops []*PendingOperation
}

func newPendingQueue() *pendingQueue {
	return &pendingQueue{}
}

func (q *pendingQueue) enqueue(op *PendingOperation) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ops = append(q.ops, op)
}

func (q *pendingQueue) popFront() (*PendingOperation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ops) == 0 {
		return nil, false
	}
	op := q.ops[0]
	q.ops = q.ops[1:]
	return op, true
}

// front returns the head operation without removing it. An operation stays
// at the head while its replay is in flight so hasKey keeps seeing it.
func (q *pendingQueue) front() (*PendingOperation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ops) == 0 {
		return nil, false
	}
	return q.ops[0], true
}

func (q *pendingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

func (q *pendingQueue) hasKey(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, op := range q.ops {
		if op.Key == key {
			return true
		}
	}
	return false
}
