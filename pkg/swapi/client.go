// Package swapi provides the SWAPI HTTP client with rate limiting,
// caching, retry, and error handling. It implements search.PageFetcher
// for the starships collection.
package swapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MatthieuHAMEL/swapi-search/pkg/cache"
	"github.com/MatthieuHAMEL/swapi-search/pkg/ratelimit"
	"github.com/MatthieuHAMEL/swapi-search/pkg/search"
)

// DefaultBaseURL is the public SWAPI root.
const DefaultBaseURL = "https://swapi.dev/api"

// starshipsCollection is the collection this client pages through.
const starshipsCollection = "starships"

// Prometheus metrics for SWAPI client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_requests_total",
		Help: "Total SWAPI requests by status",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swapi_request_duration_seconds",
		Help:    "SWAPI page request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_errors_total",
		Help: "Total SWAPI errors by class",
	}, []string{"class"})
)

// Client fetches starships pages from SWAPI.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	limiter    *ratelimit.Limiter
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the SWAPI root (default: DefaultBaseURL).
	BaseURL string

	// User-Agent header sent with every request (required).
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// Cache is the optional page cache; nil disables caching.
	Cache *cache.Manager

	// Limiter optionally paces outgoing requests; nil disables pacing.
	Limiter *ratelimit.Limiter

	// Timeout per page request.
	Timeout time.Duration

	// Retry configures backoff for retriable failures.
	Retry RetryConfig
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   15 * time.Second,
		Retry:     DefaultRetryConfig(),
	}
}

// New creates a new SWAPI client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	logger := log.With().Str("component", "swapi-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:   cfg.Cache,
		limiter: cfg.Limiter,
		config:  cfg,
		logger:  logger,
	}, nil
}

// FetchPage fetches one page of the starships collection. The request
// flow is rate limit -> cache -> HTTP with retry -> cache update. It
// implements search.PageFetcher.
func (c *Client) FetchPage(ctx context.Context, page search.PageNumber) (*search.Page, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(startTime).Seconds())
	}()

	key := cache.Key{Collection: starshipsCollection, Page: int(page)}

	// Step 1: Check cache
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, key)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Int("page", int(page)).Msg("Cache get error")
		}
		if entry != nil {
			c.logger.Debug().Int("page", int(page)).Msg("Serving page from cache")
			return decodePage(entry.Data, c.logger)
		}
	}

	// Step 2: Rate limit gate
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	// Step 3: HTTP request with retry
	c.logger.Debug().Int("page", int(page)).Msg("Fetching page from SWAPI")

	var body []byte
	err := retryWithBackoff(ctx, c.config.Retry, func() error {
		var fetchErr error
		body, fetchErr = c.fetchOnce(ctx, page)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	// Step 4: Update cache
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, cache.NewEntry(body)); err != nil {
			c.logger.Warn().Err(err).Int("page", int(page)).Msg("Failed to cache page")
		}
	}

	return decodePage(body, c.logger)
}

// fetchOnce performs a single GET for a starships page.
func (c *Client) fetchOnce(ctx context.Context, page search.PageNumber) ([]byte, error) {
	pageURL := fmt.Sprintf("%s/%s/?page=%d", c.config.BaseURL, starshipsCollection, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues("network_error").Inc()
		return nil, fmt.Errorf("swapi request: %w", err)
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		errorClass := classifyStatus(resp.StatusCode)
		errorsTotal.WithLabelValues(string(errorClass)).Inc()

		c.logger.Warn().
			Int("page", int(page)).
			Int("status", resp.StatusCode).
			Str("error_class", string(errorClass)).
			Msg("SWAPI request error")

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errorClass,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
