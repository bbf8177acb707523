// Package search implements a concurrent, early-terminating search over a
// remote paged collection.
//
// A Finder seeds a work queue with an initial range of page numbers and
// spawns a bounded pool of workers. Each worker pulls a page number, fetches
// the page through a PageFetcher, and scans it for the target name. The first
// match publishes the item's attribute and raises a monotonic stop signal;
// a page without a continuation token raises the same signal (exhaustion).
// Workers that discover a continuation page beyond the known frontier extend
// the queue, so the search grows one page at a time instead of requiring the
// page count up front.
//
// The search stops as soon as the answer is known: exhaustive traversal of
// the collection is explicitly not a goal.
//
// Example usage:
//
//	finder, err := search.NewFinder(fetcher, search.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	rating, err := finder.Find(ctx, "Millennium Falcon")
//	if errors.Is(err, search.ErrNotFound) {
//		// no page contains the target
//	}
//
// Shutdown protocol: the coordinator joins the queue (every enqueued page
// has been marked done, including pages enqueued during the drain), then
// sends one sentinel per worker so that each blocked worker wakes exactly
// once. A dequeue timeout acts as a liveness net for workers the sentinels
// cannot reach in time.
package search
