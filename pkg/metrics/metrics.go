// Package metrics provides the central Prometheus registry reference for
// the SWAPI search module. Metrics are defined in their owning packages
// (search, swapi, cache, ratelimit) to maintain modularity and avoid
// circular dependencies.
//
// This package documents all available metrics in one place.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the module.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Search Metrics (pkg/search):
//   - search_runs_total{outcome} (Counter): Search runs by outcome (found, not_found)
//   - search_duration_seconds (Histogram): Wall-clock duration of one search
//   - search_pages_scanned_total (Counter): Pages fetched and scanned
//   - search_page_fetch_failures_total (Counter): Pages skipped after a fetch failure
//
// Request Metrics (pkg/swapi):
//   - swapi_requests_total{status} (Counter): Requests by HTTP status
//   - swapi_request_duration_seconds (Histogram): Page request duration
//   - swapi_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/swapi):
//   - swapi_retries_total{error_class} (Counter): Retry attempts by error class
//   - swapi_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - swapi_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - swapi_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - swapi_cache_misses_total (Counter): Cache misses
//   - swapi_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - swapi_cache_errors_total{operation} (Counter): Cache operation errors
//
// Rate Limit Metrics (pkg/ratelimit):
//   - swapi_rate_limit_wait_seconds (Histogram): Time spent waiting on the limiter
//   - swapi_rate_limit_throttles_total (Counter): Requests delayed noticeably
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(swapi_cache_hits_total[5m])) /
//   (sum(rate(swapi_cache_hits_total[5m])) + sum(rate(swapi_cache_misses_total[5m])))
//
//   # Fetch Failure Rate
//   rate(search_page_fetch_failures_total[5m]) / rate(search_pages_scanned_total[5m])
//
//   # P95 Search Latency
//   histogram_quantile(0.95, rate(search_duration_seconds_bucket[5m]))
//
//   # Share of Searches That Found Their Target
//   rate(search_runs_total{outcome="found"}[5m]) / rate(search_runs_total[5m])
