// Package cache provides SWAPI page caching with a Redis backend.
//
// SWAPI data is effectively static, so entries carry a fixed TTL chosen
// at manager construction instead of honoring origin cache headers
// (SWAPI does not send useful ones). Features:
//
// - Deterministic cache key generation per collection page
// - Automatic expiry via Redis TTL plus an entry-level expires check
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager with a 1 hour TTL
//	manager := cache.NewManager(redisClient, time.Hour)
//
//	// Create cache key
//	key := cache.Key{Collection: "starships", Page: 2}
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Cache miss - fetch from SWAPI
//	}
//
//	// Store a fetched page payload
//	err = manager.Set(ctx, key, cache.NewEntry(body))
package cache
