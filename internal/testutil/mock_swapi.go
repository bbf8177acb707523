// Package testutil provides testing utilities for the SWAPI search client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// Starship is one record of a mock starships page.
type Starship struct {
	Name             string `json:"name"`
	HyperdriveRating string `json:"hyperdrive_rating"`
}

// mockPage holds the scripted behavior for one page number.
type mockPage struct {
	ships      []Starship
	next       int // 0 = no continuation
	statusCode int // 0 = 200 OK
	failures   int // number of initial requests answered with statusCode
	delay      time.Duration
	malformed  string // overrides the next URL verbatim when set
}

// MockSWAPI is a configurable mock SWAPI server for testing. Pages are
// addressed with the real SWAPI shape: /api/starships/?page=N, and the
// "next" field carries an absolute URL pointing back at the mock.
type MockSWAPI struct {
	server *httptest.Server
	mu     sync.RWMutex
	pages  map[int]mockPage

	// Tracking
	requestCount int
	pageHits     map[int]int
}

// NewMockSWAPI creates a new mock SWAPI server.
func NewMockSWAPI() *MockSWAPI {
	mock := &MockSWAPI{
		pages:    make(map[int]mockPage),
		pageHits: make(map[int]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))

	return mock
}

// URL returns the mock server's API root (ends in /api).
func (m *MockSWAPI) URL() string {
	return m.server.URL + "/api"
}

// Close shuts down the mock server.
func (m *MockSWAPI) Close() {
	m.server.Close()
}

// SetPage scripts a page: its ships and the page number the "next" link
// points at (0 for none).
func (m *MockSWAPI) SetPage(page int, ships []Starship, next int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.pages[page]
	p.ships = ships
	p.next = next
	m.pages[page] = p
}

// SetPageStatus makes a page answer with the given HTTP status instead
// of a payload.
func (m *MockSWAPI) SetPageStatus(page, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.pages[page]
	p.statusCode = statusCode
	p.failures = -1 // fail forever
	m.pages[page] = p
}

// FailPageOnce makes the next n requests for a page answer with the
// given status before serving normally, for retry testing.
func (m *MockSWAPI) FailPageOnce(page, statusCode, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.pages[page]
	p.statusCode = statusCode
	p.failures = n
	m.pages[page] = p
}

// SetPageDelay delays responses for a page.
func (m *MockSWAPI) SetPageDelay(page int, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.pages[page]
	p.delay = delay
	m.pages[page] = p
}

// SetMalformedNext makes a page carry a broken continuation URL.
func (m *MockSWAPI) SetMalformedNext(page int, next string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.pages[page]
	p.malformed = next
	m.pages[page] = p
}

// RequestCount returns the total number of requests served.
func (m *MockSWAPI) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// PageHits returns how often a page was requested.
func (m *MockSWAPI) PageHits(page int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pageHits[page]
}

// Reset clears all tracking counters.
func (m *MockSWAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.pageHits = make(map[int]int)
}

func (m *MockSWAPI) handle(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil {
			http.Error(w, `{"detail": "Not found"}`, http.StatusNotFound)
			return
		}
		page = parsed
	}

	m.mu.Lock()
	m.requestCount++
	m.pageHits[page]++
	p, exists := m.pages[page]
	failNow := p.statusCode != 0 && p.failures != 0
	if p.failures > 0 {
		p.failures--
		m.pages[page] = p
	}
	m.mu.Unlock()

	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	if failNow {
		m.writeError(w, p.statusCode)
		return
	}

	if !exists {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"detail": "Not found"}`)
		return
	}

	m.writePage(w, page, p)
}

func (m *MockSWAPI) writeError(w http.ResponseWriter, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `{"detail": "mock error %d"}`, statusCode)
}

func (m *MockSWAPI) writePage(w http.ResponseWriter, page int, p mockPage) {
	var next any
	if p.malformed != "" {
		next = p.malformed
	} else if p.next > 0 {
		next = fmt.Sprintf("%s/starships/?page=%d", m.URL(), p.next)
	}

	payload := map[string]any{
		"count":   len(p.ships),
		"next":    next,
		"results": p.ships,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Nothing sensible to do; the client will see a broken body.
		_ = err
	}
}
