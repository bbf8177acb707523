package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Prometheus metrics for search runs.
var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_runs_total",
		Help: "Total search runs by outcome",
	}, []string{"outcome"})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "Search duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	pagesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "search_pages_scanned_total",
		Help: "Total pages fetched and scanned across all searches",
	})

	pageFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "search_page_fetch_failures_total",
		Help: "Total page fetches that failed and were skipped",
	})
)

// ErrNotFound is returned when no fetched page contains the target.
// It is also returned when every page failed to fetch; the warn logs
// distinguish the two cases.
var ErrNotFound = errors.New("target not found")

// Config holds the search configuration.
type Config struct {
	// MaxConcurrency is the number of workers pulling pages in parallel.
	MaxConcurrency int

	// InitialPages seeds the queue with pages 1..InitialPages before any
	// continuation token has been seen.
	InitialPages int

	// DequeueTimeout bounds how long an idle worker waits for work
	// before self-terminating. It is also the polling interval within
	// which a raised stop signal is observed by every worker.
	DequeueTimeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 5,
		InitialPages:   2,
		DequeueTimeout: 500 * time.Millisecond,
	}
}

// Finder coordinates a worker pool searching the paged collection.
type Finder struct {
	fetcher PageFetcher
	config  Config
	logger  zerolog.Logger
}

// NewFinder creates a finder. Zero or negative config values fall back
// to the defaults.
func NewFinder(fetcher PageFetcher, cfg Config) (*Finder, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("page fetcher is required")
	}
	def := DefaultConfig()
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = def.MaxConcurrency
	}
	if cfg.InitialPages <= 0 {
		cfg.InitialPages = def.InitialPages
	}
	if cfg.DequeueTimeout <= 0 {
		cfg.DequeueTimeout = def.DequeueTimeout
	}

	return &Finder{
		fetcher: fetcher,
		config:  cfg,
		logger:  log.With().Str("component", "search-finder").Logger(),
	}, nil
}

// Find searches the collection for the item named target and returns
// its attribute. Matching is case-insensitive. The search ends as soon
// as a match is published or a fetched page carries no continuation
// token; pages still in flight at that point are completed but not
// acted upon. All coordination state is created fresh per call, so a
// Finder may run searches back to back.
func (f *Finder) Find(ctx context.Context, target string) (string, error) {
	start := time.Now()
	defer func() {
		searchDuration.Observe(time.Since(start).Seconds())
	}()

	queue := NewQueue()
	stop := NewSignal()
	slot := &ResultSlot{}
	frontier := NewFrontier(PageNumber(f.config.InitialPages))

	for page := 1; page <= f.config.InitialPages; page++ {
		queue.Enqueue(PageNumber(page))
	}

	f.logger.Info().
		Str("target", target).
		Int("max_concurrency", f.config.MaxConcurrency).
		Int("initial_pages", f.config.InitialPages).
		Msg("Starting search")

	var g errgroup.Group
	live := int32(f.config.MaxConcurrency)
	for i := 0; i < f.config.MaxConcurrency; i++ {
		w := &worker{
			id:       i,
			target:   target,
			fetcher:  f.fetcher,
			queue:    queue,
			stop:     stop,
			result:   slot,
			frontier: frontier,
			timeout:  f.config.DequeueTimeout,
			logger:   f.logger,
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					// A crashed worker marks its own item done via the
					// deferred TaskDone in process, so Join still
					// completes; the sibling workers carry on.
					f.logger.Error().
						Int("worker_id", w.id).
						Interface("panic", r).
						Msg("Worker panicked")
				}
			}()
			defer func() {
				if atomic.AddInt32(&live, -1) == 0 {
					// Last worker out clears leftovers so Join cannot
					// wait on items nobody will ever process.
					w.drain()
				}
			}()
			w.run(ctx)
			return nil
		})
	}

	// Wait until every seeded and discovered page is accounted for,
	// then wake each worker exactly once so none stays blocked on the
	// empty queue.
	queue.Join()
	for i := 0; i < f.config.MaxConcurrency; i++ {
		queue.Enqueue(sentinelPage)
	}
	if err := g.Wait(); err != nil {
		f.logger.Warn().Err(err).Msg("Worker reported an error during shutdown")
	}

	attribute, found := slot.Get()
	if !found {
		f.logger.Info().
			Str("target", target).
			Int("frontier_max", int(frontier.Max())).
			Dur("duration", time.Since(start)).
			Msg("Search finished without a match")
		searchesTotal.WithLabelValues("not_found").Inc()
		return "", fmt.Errorf("%w: %q", ErrNotFound, target)
	}

	f.logger.Info().
		Str("target", target).
		Str("attribute", attribute).
		Dur("duration", time.Since(start)).
		Msg("Search finished")
	searchesTotal.WithLabelValues("found").Inc()

	return attribute, nil
}
