package search

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// worker consumes page numbers from the queue until stopped. It moves
// through idle (waiting on the queue), fetching, scanning and back,
// and exits on the stop signal, a sentinel, or a dequeue timeout.
type worker struct {
	id       int
	target   string
	fetcher  PageFetcher
	queue    *Queue
	stop     *Signal
	result   *ResultSlot
	frontier *Frontier
	timeout  time.Duration
	logger   zerolog.Logger
}

// run is the worker loop. Once the stop signal is observed the worker
// initiates no further fetches; it drains leftover queue items so that
// Join cannot wait on pages nobody will process.
func (w *worker) run(ctx context.Context) {
	for !w.stop.IsSet() {
		page, ok := w.queue.Dequeue(w.timeout)
		if !ok {
			// Nothing arrived within the timeout. The queue has likely
			// drained and the shutdown sentinel is late; exit rather
			// than spin. This is a liveness net, not the primary
			// shutdown path.
			w.logger.Debug().
				Int("worker_id", w.id).
				Msg("No work within dequeue timeout, worker exiting")
			return
		}
		if page == sentinelPage {
			w.queue.TaskDone()
			w.logger.Debug().
				Int("worker_id", w.id).
				Msg("Sentinel received, worker exiting")
			return
		}
		w.process(ctx, page)
	}
	w.drain()
}

// process fetches and scans a single page. The queue item is marked
// done on every path, match or not, so the coordinator's Join always
// completes.
func (w *worker) process(ctx context.Context, page PageNumber) {
	defer w.queue.TaskDone()

	result, err := w.fetcher.FetchPage(ctx, page)
	if err != nil {
		// One failed page does not end the search.
		w.logger.Warn().
			Err(err).
			Int("worker_id", w.id).
			Int("page", int(page)).
			Msg("Page fetch failed")
		pageFetchFailures.Inc()
		return
	}
	pagesScanned.Inc()

	for _, item := range result.Items {
		if strings.EqualFold(item.Name, w.target) {
			if w.result.Put(item.Attribute) {
				w.logger.Info().
					Int("worker_id", w.id).
					Int("page", int(page)).
					Str("name", item.Name).
					Msg("Target found")
			}
			w.stop.Set()
			return
		}
	}

	if result.Next <= 0 {
		// Last page of the collection: no match anywhere ahead.
		w.logger.Debug().
			Int("worker_id", w.id).
			Int("page", int(page)).
			Msg("No continuation page, search exhausted")
		w.stop.Set()
		return
	}

	if !w.stop.IsSet() && w.frontier.Extend(result.Next) {
		w.queue.Enqueue(result.Next)
		w.logger.Debug().
			Int("worker_id", w.id).
			Int("page", int(result.Next)).
			Msg("Frontier extended")
	}
}

// drain empties the queue without fetching. A worker that enqueued a
// page in the same instant the signal was raised drains its own item
// here, so every Enqueue still meets its TaskDone.
func (w *worker) drain() {
	for {
		if _, ok := w.queue.TryDequeue(); !ok {
			return
		}
		w.queue.TaskDone()
	}
}
