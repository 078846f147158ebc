// Package news searches a web news index by category, keywords, region and
// time window, and renders the ranked results.
package news

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ThinkWhy/internal/config"
)

// Query describes one news search
type Query struct {
	Topic      string
	Keywords   string
	Region     string // provider region code, e.g. "wt-wt"
	TimeLimit  string // d, w or m
	MaxResults int
}

// Article is one ranked search result. Date is RFC 3339 when known.
type Article struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
	Date   string `json:"date"`
	Body   string `json:"body"`
	Image  string `json:"image,omitempty"`
}

// Searcher is a news search provider
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Article, error)
}

// ErrInvalidQuery is returned for queries that cannot be sent to a provider
var ErrInvalidQuery = errors.New("invalid news query")

// Text returns the provider query string: "<topic> news" plus any keywords
func (q Query) Text() string {
	s := strings.TrimSpace(q.Topic) + " news"
	if kw := strings.TrimSpace(q.Keywords); kw != "" {
		s += " " + kw
	}
	return s
}

// Validate checks q and fills in defaults for empty region and time limit
func (q *Query) Validate() error {
	if strings.TrimSpace(q.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidQuery)
	}
	if q.Region == "" {
		q.Region = config.Regions[config.DefaultRegion]
	}
	if q.TimeLimit == "" {
		q.TimeLimit = config.TimeFilters[config.DefaultTimeFilter]
	}
	switch q.TimeLimit {
	case "d", "w", "m":
	default:
		return fmt.Errorf("%w: time limit %q (want d, w or m)", ErrInvalidQuery, q.TimeLimit)
	}
	if q.MaxResults == 0 {
		q.MaxResults = config.DefaultNewsResults
	}
	if q.MaxResults < config.MinNewsResults || q.MaxResults > config.MaxNewsResults {
		return fmt.Errorf("%w: max results %d (want %d-%d)", ErrInvalidQuery, q.MaxResults,
			config.MinNewsResults, config.MaxNewsResults)
	}
	return nil
}
