package partdex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/partdex/internal/domain/search/filter"
	"github.com/kailas-cloud/partdex/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/partdex/internal/usecase/search"
)

// SearchService executes hybrid search queries against the catalog.
type SearchService struct {
	svc *searchuc.Service
}

// Query runs one search. The boolean reports whether the result set was
// served from the query cache.
func (s *SearchService) Query(
	ctx context.Context, query string, opts *SearchOptions,
) ([]SearchResult, bool, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	filters := filter.New(
		opts.Filters.Category, opts.Filters.Manufacturer,
		opts.Filters.MaxPrice, opts.Filters.MinQuantity,
	)
	req, err := request.New(query, filters, opts.TopK)
	if err != nil {
		return nil, false, fmt.Errorf("query: %w", err)
	}

	results, cached, err := s.svc.Search(ctx, &req)
	if err != nil {
		return nil, false, fmt.Errorf("query: %w", err)
	}
	return fromEnrichedResults(results), cached, nil
}
