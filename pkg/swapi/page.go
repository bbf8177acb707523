package swapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/MatthieuHAMEL/swapi-search/pkg/search"
)

// starshipsPage mirrors the SWAPI starships listing payload.
type starshipsPage struct {
	Count   int        `json:"count"`
	Next    string     `json:"next"`
	Results []starship `json:"results"`
}

type starship struct {
	Name             string `json:"name"`
	HyperdriveRating string `json:"hyperdrive_rating"`
}

// decodePage converts a raw SWAPI starships payload into a search page.
// A malformed continuation URL is logged and treated as "no next page":
// stopping early beats fetching a page number we cannot trust.
func decodePage(data []byte, logger zerolog.Logger) (*search.Page, error) {
	var sp starshipsPage
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("decode starships page: %w", err)
	}

	items := make([]search.Item, 0, len(sp.Results))
	for _, ship := range sp.Results {
		items = append(items, search.Item{
			Name:      ship.Name,
			Attribute: ship.HyperdriveRating,
		})
	}

	next, err := parseNextPage(sp.Next)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("next", sp.Next).
			Msg("Malformed continuation token, treating as last page")
		next = 0
	}

	return &search.Page{Items: items, Next: next}, nil
}

// parseNextPage extracts the page query parameter from a SWAPI "next"
// URL. An empty value (JSON null) means the collection ends here.
func parseNextPage(raw string) (search.PageNumber, error) {
	if raw == "" {
		return 0, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("parse next url: %w", err)
	}

	pageStr := u.Query().Get("page")
	if pageStr == "" {
		return 0, fmt.Errorf("next url %q has no page parameter", raw)
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil {
		return 0, fmt.Errorf("parse page parameter %q: %w", pageStr, err)
	}
	if page <= 0 {
		return 0, fmt.Errorf("page parameter %d out of range", page)
	}

	return search.PageNumber(page), nil
}
