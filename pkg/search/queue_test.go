package search

import (
	"sync"
	"testing"
	"time"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	for _, page := range []PageNumber{1, 2, 3} {
		q.Enqueue(page)
	}

	for _, want := range []PageNumber{1, 2, 3} {
		got, ok := q.Dequeue(time.Second)
		if !ok {
			t.Fatalf("Dequeue timed out, want page %d", want)
		}
		if got != want {
			t.Errorf("Dequeue = %d, want %d", got, want)
		}
	}
}

func TestQueue_DequeueTimeout(t *testing.T) {
	q := NewQueue()

	start := time.Now()
	_, ok := q.Dequeue(50 * time.Millisecond)
	elapsed := time.Since(start)

	if ok {
		t.Error("Dequeue on empty queue should report no item")
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("Dequeue returned after %v, want at least 50ms", elapsed)
	}
}

func TestQueue_DequeueWakesOnEnqueue(t *testing.T) {
	q := NewQueue()

	done := make(chan PageNumber, 1)
	go func() {
		page, ok := q.Dequeue(5 * time.Second)
		if ok {
			done <- page
		}
	}()

	time.Sleep(20 * time.Millisecond)
	q.Enqueue(7)

	select {
	case page := <-done:
		if page != 7 {
			t.Errorf("Dequeue = %d, want 7", page)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Dequeue did not wake on Enqueue")
	}
}

func TestQueue_TryDequeue(t *testing.T) {
	q := NewQueue()

	if _, ok := q.TryDequeue(); ok {
		t.Error("TryDequeue on empty queue should report no item")
	}

	q.Enqueue(4)
	page, ok := q.TryDequeue()
	if !ok || page != 4 {
		t.Errorf("TryDequeue = (%d, %v), want (4, true)", page, ok)
	}
}

func TestQueue_JoinWaitsForTaskDone(t *testing.T) {
	q := NewQueue()
	q.Enqueue(1)
	q.Enqueue(2)

	joined := make(chan struct{})
	go func() {
		q.Join()
		close(joined)
	}()

	select {
	case <-joined:
		t.Fatal("Join returned with unfinished items")
	case <-time.After(50 * time.Millisecond):
	}

	q.TaskDone()
	q.TaskDone()

	select {
	case <-joined:
	case <-time.After(2 * time.Second):
		t.Fatal("Join did not return after all items were done")
	}
}

func TestQueue_JoinTracksItemsAddedDuringDrain(t *testing.T) {
	q := NewQueue()
	q.Enqueue(1)

	joined := make(chan struct{})
	go func() {
		q.Join()
		close(joined)
	}()

	// Enqueue a second item before finishing the first: Join must keep
	// waiting for it.
	time.Sleep(20 * time.Millisecond)
	q.Enqueue(2)
	q.TaskDone()

	select {
	case <-joined:
		t.Fatal("Join returned while an item added during the drain was pending")
	case <-time.After(50 * time.Millisecond):
	}

	q.TaskDone()

	select {
	case <-joined:
	case <-time.After(2 * time.Second):
		t.Fatal("Join did not return")
	}
}

func TestQueue_TaskDonePanicsWithoutEnqueue(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("TaskDone without matching Enqueue should panic")
		}
	}()

	NewQueue().TaskDone()
}

func TestQueue_ConcurrentProducersConsumers(t *testing.T) {
	q := NewQueue()
	const producers, perProducer, consumers = 4, 50, 3

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(PageNumber(base*perProducer + i + 1))
			}
		}(p)
	}

	var mu sync.Mutex
	seen := make(map[PageNumber]bool)
	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				page, ok := q.Dequeue(200 * time.Millisecond)
				if !ok {
					return
				}
				mu.Lock()
				if seen[page] {
					t.Errorf("page %d dequeued twice", page)
				}
				seen[page] = true
				mu.Unlock()
				q.TaskDone()
			}
		}()
	}

	wg.Wait()
	q.Join()

	if len(seen) != producers*perProducer {
		t.Errorf("dequeued %d distinct pages, want %d", len(seen), producers*perProducer)
	}
	if q.Outstanding() != 0 {
		t.Errorf("Outstanding = %d after Join, want 0", q.Outstanding())
	}
}
