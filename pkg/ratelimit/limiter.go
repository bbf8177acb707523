// Package ratelimit paces outgoing SWAPI requests with a local token
// bucket so that a pool of concurrent workers stays inside a polite
// request rate. Unlike a server-driven error budget, SWAPI publishes no
// rate limit headers, so the bucket is configured client-side.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Prometheus metrics for rate limit gating.
var (
	waitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swapi_rate_limit_wait_seconds",
		Help:    "Time requests spent waiting on the rate limiter",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})

	throttlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapi_rate_limit_throttles_total",
		Help: "Total number of requests delayed noticeably by the rate limiter",
	})
)

// throttleWarnThreshold is the wait beyond which a delay is logged.
const throttleWarnThreshold = 250 * time.Millisecond

// Limiter gates outgoing requests with a token bucket.
type Limiter struct {
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// New creates a limiter allowing rps requests per second with the given
// burst. Non-positive values fall back to 5 rps / burst 5, matching the
// default worker count.
func New(rps float64, burst int) *Limiter {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  log.With().Str("component", "rate-limiter").Logger(),
	}
}

// Wait blocks until a request may proceed or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	waited := time.Since(start)
	waitSeconds.Observe(waited.Seconds())

	if waited > throttleWarnThreshold {
		throttlesTotal.Inc()
		l.logger.Warn().
			Dur("waited", waited).
			Msg("Request throttled by rate limiter")
	}

	return nil
}

// Allow reports whether a request may proceed right now without waiting.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
