package cache

import (
	"fmt"
)

// Key represents a unique identifier for one cached collection page.
type Key struct {
	// Collection is the SWAPI collection name (e.g., "starships")
	Collection string

	// Page is the page number within the collection
	Page int
}

// String generates a deterministic cache key string.
// Format: swapi:collection:page=N
//
// Example:
//
//	swapi:starships:page=2
func (k Key) String() string {
	return fmt.Sprintf("swapi:%s:page=%d", k.Collection, k.Page)
}
