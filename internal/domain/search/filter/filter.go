// Package filter implements post-hoc predicate filtering over enriched
// search results.
package filter

import (
	"github.com/kailas-cloud/partdex/internal/domain/part"
)

// Filters is a set of optional AND-combined predicates. A nil/empty
// field imposes no constraint.
type Filters struct {
	category     string
	manufacturer string
	maxPrice     *float64
	minQuantity  *int
}

// New creates a filter set. Nil numeric pointers mean "unconstrained".
func New(category, manufacturer string, maxPrice *float64, minQuantity *int) Filters {
	return Filters{
		category:     category,
		manufacturer: manufacturer,
		maxPrice:     maxPrice,
		minQuantity:  minQuantity,
	}
}

// Category returns the requested category, empty if unconstrained.
func (f Filters) Category() string { return f.category }

// Manufacturer returns the requested manufacturer, empty if unconstrained.
func (f Filters) Manufacturer() string { return f.manufacturer }

// MaxPrice returns the price ceiling, nil if unconstrained.
func (f Filters) MaxPrice() *float64 { return f.maxPrice }

// MinQuantity returns the quantity floor, nil if unconstrained.
func (f Filters) MinQuantity() *int { return f.minQuantity }

// IsEmpty reports whether no predicate is set.
func (f Filters) IsEmpty() bool {
	return f.category == "" && f.manufacturer == "" && f.maxPrice == nil && f.minQuantity == nil
}

// Matches evaluates all predicates against one part.
func (f Filters) Matches(p *part.Part) bool {
	if f.category != "" && p.Category() != f.category {
		return false
	}
	if f.manufacturer != "" && p.Manufacturer() != f.manufacturer {
		return false
	}
	if f.maxPrice != nil && p.Price() > *f.maxPrice {
		return false
	}
	if f.minQuantity != nil && p.Quantity() < *f.minQuantity {
		return false
	}
	return true
}
