package workerpool

import (
	"container/list"
	"sync"
)

// jobQueue is an unbounded FIFO shared by all workers of a pool.
// Producers never block on capacity. Consumers block in take until a job
// arrives or the queue is closed and drained.
type jobQueue struct {
	mu     sync.Mutex
	ready  *sync.Cond
	items  *list.List
	closed bool
	stats  *poolStats
}

func newJobQueue(stats *poolStats) *jobQueue {
	q := &jobQueue{items: list.New(), stats: stats}
	q.ready = sync.NewCond(&q.mu)
	return q
}

func (q *jobQueue) send(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrPoolClosed
	}
	q.items.PushBack(job)
	q.stats.jobQueued(q.items.Len())
	q.ready.Signal()
	return nil
}

// take returns false only when the queue is closed and nothing is left in it.
// The lock is held just for the dequeue, the job itself runs outside of it.
func (q *jobQueue) take() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Len() == 0 && !q.closed {
		q.ready.Wait()
	}
	front := q.items.Front()
	if front == nil {
		return nil, false
	}
	job := q.items.Remove(front).(Job)
	q.stats.jobDequeued(q.items.Len())
	return job, true
}

// close reports whether this call was the one that closed the queue.
func (q *jobQueue) close() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.closed = true
	q.ready.Broadcast()
	return true
}

func (q *jobQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Sender is the submitting end of a pool's queue. Copies share the same queue
// and are safe for concurrent use.
type Sender struct {
	q *jobQueue
}

// Send enqueues job without blocking. It fails with ErrPoolClosed once the pool
// has been torn down.
func (s Sender) Send(job Job) error {
	if job == nil {
		return ErrNilJob
	}
	if s.q == nil {
		return ErrPoolClosed
	}
	return s.q.send(job)
}
