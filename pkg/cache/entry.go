package cache

import (
	"time"
)

// Entry represents a cached SWAPI page payload.
type Entry struct {
	// Data is the raw page body as fetched from SWAPI
	Data []byte `json:"data"`

	// Expires is when the cache entry becomes stale
	Expires time.Time `json:"expires"`

	// CachedAt is when we cached this payload
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry creates an entry for a freshly fetched payload. The expiry
// is assigned by the manager when the entry is stored.
func NewEntry(data []byte) *Entry {
	return &Entry{
		Data:     data,
		CachedAt: time.Now(),
	}
}

// IsExpired returns true if the cache entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
