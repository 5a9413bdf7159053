// Package part defines the catalog entity at the center of the search core.
package part

import (
	"fmt"
	"strings"
)

// MaxSpecFields caps the number of structured specification fields.
const MaxSpecFields = 64

// Part is a single catalog item. Immutable after construction; owned by
// the metadata store and read-only to the search core.
type Part struct {
	id           string
	name         string
	category     string
	manufacturer string
	model        string
	description  string
	price        float64
	quantity     int
	specs        map[string]string
	createdAt    int64
}

// New validates and creates a Part.
func New(
	id, name, category, manufacturer, model, description string,
	price float64, quantity int, specs map[string]string, createdAt int64,
) (Part, error) {
	if id == "" {
		return Part{}, fmt.Errorf("part id is required")
	}
	if name == "" {
		return Part{}, fmt.Errorf("part name is required")
	}
	if category == "" {
		return Part{}, fmt.Errorf("part category is required")
	}
	if price < 0 {
		return Part{}, fmt.Errorf("price must be non-negative, got %f", price)
	}
	if quantity < 0 {
		return Part{}, fmt.Errorf("quantity must be non-negative, got %d", quantity)
	}
	if len(specs) > MaxSpecFields {
		return Part{}, fmt.Errorf("too many specification fields (max %d)", MaxSpecFields)
	}
	return Part{
		id: id, name: name, category: category, manufacturer: manufacturer,
		model: model, description: description,
		price: price, quantity: quantity, specs: specs, createdAt: createdAt,
	}, nil
}

// Reconstruct rebuilds a Part from storage without validation.
func Reconstruct(
	id, name, category, manufacturer, model, description string,
	price float64, quantity int, specs map[string]string, createdAt int64,
) Part {
	return Part{
		id: id, name: name, category: category, manufacturer: manufacturer,
		model: model, description: description,
		price: price, quantity: quantity, specs: specs, createdAt: createdAt,
	}
}

// ID returns the part identifier.
func (p *Part) ID() string { return p.id }

// Name returns the free-text part name.
func (p *Part) Name() string { return p.name }

// Category returns the category slug (battery, motor, inverter, ...).
func (p *Part) Category() string { return p.category }

// Manufacturer returns the manufacturer name.
func (p *Part) Manufacturer() string { return p.manufacturer }

// Model returns the manufacturer model code.
func (p *Part) Model() string { return p.model }

// Description returns the free-text description.
func (p *Part) Description() string { return p.description }

// Price returns the listed price.
func (p *Part) Price() float64 { return p.price }

// Quantity returns the available stock quantity.
func (p *Part) Quantity() int { return p.quantity }

// Specs returns the structured specification fields.
func (p *Part) Specs() map[string]string { return p.specs }

// CreatedAt returns the registration time in epoch milliseconds.
func (p *Part) CreatedAt() int64 { return p.createdAt }

// SearchText flattens the part into the text scored by BM25: name,
// category, manufacturer, model, description and spec values joined
// with spaces.
func (p *Part) SearchText() string {
	sections := []string{p.name, p.category, p.manufacturer, p.model, p.description}
	for _, v := range p.specs {
		sections = append(sections, v)
	}
	nonEmpty := sections[:0]
	for _, s := range sections {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return strings.Join(nonEmpty, " ")
}
