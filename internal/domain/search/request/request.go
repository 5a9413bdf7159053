// Package request defines the validated search request value.
package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/partdex/internal/domain"
	"github.com/kailas-cloud/partdex/internal/domain/search/filter"
)

// Request limits.
const (
	DefaultTopK = 10
	MaxTopK     = 100
)

// Request is a validated search request.
type Request struct {
	query   string
	filters filter.Filters
	topK    int
}

// New validates and creates a Request. topK == 0 means "use default".
func New(query string, filters filter.Filters, topK int) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if topK == 0 {
		topK = DefaultTopK
	}
	if topK < 0 || topK > MaxTopK {
		return Request{}, fmt.Errorf("%w: top_k must be between 1 and %d", domain.ErrInvalidQuery, MaxTopK)
	}
	return Request{query: query, filters: filters, topK: topK}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// Filters returns the post-hoc result filters.
func (r *Request) Filters() filter.Filters { return r.filters }

// TopK returns how many candidates survive the ranking cut.
func (r *Request) TopK() int { return r.topK }
