package search

import (
	"sync"
	"time"
)

// PageNumber identifies a single page of the remote collection.
// Real pages are positive; negative values are reserved for sentinels.
type PageNumber int

// sentinelPage tells a worker to leave its consume loop. It is never
// produced by continuation-token parsing.
const sentinelPage PageNumber = -1

// Queue is an unbounded FIFO of page numbers with task accounting:
// every Enqueue must eventually be matched by a TaskDone before Join
// returns. Safe for concurrent use.
type Queue struct {
	mu         sync.Mutex
	items      []PageNumber
	unfinished int
	drained    *sync.Cond

	// wake carries at most one pending wakeup for blocked Dequeue calls.
	wake chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	q := &Queue{wake: make(chan struct{}, 1)}
	q.drained = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a page number and increments the outstanding-item
// count. It never blocks.
func (q *Queue) Enqueue(page PageNumber) {
	q.mu.Lock()
	q.items = append(q.items, page)
	q.unfinished++
	q.mu.Unlock()
	q.signal()
}

// signal wakes at most one blocked Dequeue.
func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Dequeue removes and returns the oldest page number. If the queue is
// empty it waits until an item arrives or timeout elapses. The second
// return value is false on timeout; an empty queue is not an error.
func (q *Queue) Dequeue(timeout time.Duration) (PageNumber, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if page, ok := q.TryDequeue(); ok {
			return page, true
		}
		select {
		case <-q.wake:
		case <-timer.C:
			return 0, false
		}
	}
}

// TryDequeue removes and returns the oldest page number without waiting.
func (q *Queue) TryDequeue() (PageNumber, bool) {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return 0, false
	}
	page := q.items[0]
	q.items = q.items[1:]
	remaining := len(q.items)
	q.mu.Unlock()

	if remaining > 0 {
		// Pass the wakeup on so a second waiter is not left sleeping
		// while items remain.
		q.signal()
	}
	return page, true
}

// TaskDone marks one previously dequeued item as processed. It panics
// when called more often than Enqueue.
func (q *Queue) TaskDone() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.unfinished <= 0 {
		panic("search: TaskDone called with no unfinished items")
	}
	q.unfinished--
	if q.unfinished == 0 {
		q.drained.Broadcast()
	}
}

// Join blocks until every enqueued item has been marked done. Items
// enqueued while Join is waiting are accounted for as well.
func (q *Queue) Join() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.unfinished > 0 {
		q.drained.Wait()
	}
}

// Outstanding reports the number of enqueued items not yet marked done.
func (q *Queue) Outstanding() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.unfinished
}
