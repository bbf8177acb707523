package search

import "context"

// Item is a single record of a result page.
type Item struct {
	// Name is matched case-insensitively against the search target.
	Name string `json:"name"`

	// Attribute is the value returned when Name matches.
	Attribute string `json:"attribute"`
}

// Page is one page of the remote collection.
type Page struct {
	// Items in collection order.
	Items []Item `json:"items"`

	// Next is the continuation page number, 0 when the collection ends
	// at this page.
	Next PageNumber `json:"next"`
}

// PageFetcher fetches a single page of the remote collection. A failed
// fetch must be distinguishable from a successful empty page. The search
// core does not define the transport behind it.
type PageFetcher interface {
	FetchPage(ctx context.Context, page PageNumber) (*Page, error)
}
