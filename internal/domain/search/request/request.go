package request

import (
	"fmt"
	"strings"

	"github.com/tanhanwei/steamseek/internal/domain/search/filter"
	"github.com/tanhanwei/steamseek/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 2048
	DefaultLimit   = 50
	MaxLimit       = 200
)

// SortKey is the requested result ordering.
type SortKey string

// Sort key constants.
const (
	// Relevance keeps the retrieval/rerank processing order.
	Relevance           SortKey = "relevance"
	NameAsc             SortKey = "name_asc"
	ReleaseNewest       SortKey = "release_newest"
	ReleaseOldest       SortKey = "release_oldest"
	PriceAsc            SortKey = "price_asc"
	PriceDesc           SortKey = "price_desc"
	ReviewCountDesc     SortKey = "review_count_desc"
	PositivePercentDesc SortKey = "positive_percent_desc"
)

// IsValid checks if the sort key is one of the supported values.
func (k SortKey) IsValid() bool {
	switch k {
	case Relevance, NameAsc, ReleaseNewest, ReleaseOldest,
		PriceAsc, PriceDesc, ReviewCountDesc, PositivePercentDesc:
		return true
	}
	return false
}

// Request is a validated search query.
type Request struct {
	query      string
	facets     filter.Facets
	sortKey    SortKey
	searchMode mode.Mode
	limit      int
}

// New validates and normalizes search parameters.
// Defaults: sort=relevance, mode=plain, limit=50. The query is trimmed.
func New(query string, facets filter.Facets, sortKey SortKey, m mode.Mode, limit int) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if sortKey == "" {
		sortKey = Relevance
	}
	if !sortKey.IsValid() {
		return Request{}, fmt.Errorf("invalid sort key: %q", sortKey)
	}
	if m == "" {
		m = mode.Plain
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode: %q", m)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		query:      query,
		facets:     facets,
		sortKey:    sortKey,
		searchMode: m,
		limit:      limit,
	}, nil
}

// Query returns the trimmed search query text.
func (r *Request) Query() string { return r.query }

// Facets returns the post-hydration facet filters.
func (r *Request) Facets() filter.Facets { return r.facets }

// SortKey returns the requested result ordering.
func (r *Request) SortKey() SortKey { return r.sortKey }

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }
