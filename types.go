package partdex

import (
	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
	"github.com/kailas-cloud/partdex/internal/domain/search/result"
)

// Part is a catalog item as seen by SDK callers.
type Part struct {
	ID           string
	Name         string
	Category     string
	Manufacturer string
	Model        string
	Description  string
	Price        float64
	Quantity     int
	Specs        map[string]string
	CreatedAt    int64 // epoch milliseconds
}

// SearchResult is one ranked match with its catalog metadata.
type SearchResult struct {
	PartID string
	Score  float64
	Part   Part
	Reason string
}

// SearchFilters narrows a result set after ranking. Nil numeric
// pointers mean "unconstrained".
type SearchFilters struct {
	Category     string
	Manufacturer string
	MaxPrice     *float64
	MinQuantity  *int
}

// SearchOptions configures a search query.
type SearchOptions struct {
	Filters SearchFilters
	TopK    int
}

func fromDomainPart(p *dompart.Part) Part {
	return Part{
		ID:           p.ID(),
		Name:         p.Name(),
		Category:     p.Category(),
		Manufacturer: p.Manufacturer(),
		Model:        p.Model(),
		Description:  p.Description(),
		Price:        p.Price(),
		Quantity:     p.Quantity(),
		Specs:        p.Specs(),
		CreatedAt:    p.CreatedAt(),
	}
}

func fromEnrichedResults(results []result.Enriched) []SearchResult {
	out := make([]SearchResult, len(results))
	for i := range results {
		r := &results[i]
		p := r.Part()
		out[i] = SearchResult{
			PartID: r.ID(),
			Score:  r.Score(),
			Part:   fromDomainPart(&p),
			Reason: r.Reason(),
		}
	}
	return out
}
