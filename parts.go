package partdex

import (
	"context"
	"fmt"

	partsuc "github.com/kailas-cloud/partdex/internal/usecase/parts"
)

// PartsService manages catalog parts.
type PartsService struct {
	svc *partsuc.Service
}

// RegisterPartInput carries the fields of a new part. ID is optional; a
// UUID is assigned when absent.
type RegisterPartInput struct {
	ID           string
	Name         string
	Category     string
	Manufacturer string
	Model        string
	Description  string
	Price        float64
	Quantity     int
	Specs        map[string]string
}

// PartPage is one page of a catalog listing.
type PartPage struct {
	Parts      []Part
	NextCursor string
	HasMore    bool
}

// Register embeds and persists a new part.
func (s *PartsService) Register(ctx context.Context, in RegisterPartInput) (Part, error) {
	p, err := s.svc.Register(ctx, partsuc.RegisterInput{
		ID:           in.ID,
		Name:         in.Name,
		Category:     in.Category,
		Manufacturer: in.Manufacturer,
		Model:        in.Model,
		Description:  in.Description,
		Price:        in.Price,
		Quantity:     in.Quantity,
		Specs:        in.Specs,
	})
	if err != nil {
		return Part{}, fmt.Errorf("register: %w", err)
	}
	return fromDomainPart(&p), nil
}

// Delete removes a part and its embedding vector.
func (s *PartsService) Delete(ctx context.Context, id string) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Get returns one part by id.
func (s *PartsService) Get(ctx context.Context, id string) (Part, error) {
	p, err := s.svc.Get(ctx, id)
	if err != nil {
		return Part{}, fmt.Errorf("get: %w", err)
	}
	return fromDomainPart(&p), nil
}

// List pages through the catalog in registration order. cursor is the
// opaque token from the previous page, empty for the first page.
func (s *PartsService) List(ctx context.Context, category, cursor string, limit int) (PartPage, error) {
	page, err := s.svc.List(ctx, category, cursor, limit)
	if err != nil {
		return PartPage{}, fmt.Errorf("list: %w", err)
	}

	out := PartPage{NextCursor: page.NextCursor, HasMore: page.HasMore}
	out.Parts = make([]Part, len(page.Parts))
	for i := range page.Parts {
		out.Parts[i] = fromDomainPart(&page.Parts[i])
	}
	return out, nil
}
