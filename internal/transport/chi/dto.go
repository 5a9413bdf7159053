package chi

import (
	"time"

	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
	"github.com/kailas-cloud/partdex/internal/domain/search/result"
)

// ErrorCode is the machine-readable error discriminator.
type ErrorCode string

const (
	codeBadRequest             ErrorCode = "bad_request"
	codeValidationFailed       ErrorCode = "validation_failed"
	codeInvalidCursor          ErrorCode = "invalid_cursor"
	codePartNotFound           ErrorCode = "part_not_found"
	codePartAlreadyExists      ErrorCode = "part_already_exists"
	codeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	codeCompletionProviderErr  ErrorCode = "completion_provider_error"
	codeInternalError          ErrorCode = "internal_error"
	codeUnauthorized           ErrorCode = "unauthorized"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchFilters narrows results after ranking. All fields optional and
// AND-combined.
type SearchFilters struct {
	Category     string   `json:"category,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	MinQuantity  *int     `json:"min_quantity,omitempty"`
}

// SearchRequest is the POST /search payload.
type SearchRequest struct {
	Query   string         `json:"query"`
	Filters *SearchFilters `json:"filters,omitempty"`
	TopK    int            `json:"top_k,omitempty"`
}

// PartResponse is the wire shape of one catalog part.
type PartResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	Model        string            `json:"model,omitempty"`
	Description  string            `json:"description,omitempty"`
	Price        float64           `json:"price"`
	Quantity     int               `json:"quantity"`
	Specs        map[string]string `json:"specs,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// SearchResultItem is one ranked match.
type SearchResultItem struct {
	PartID string       `json:"part_id"`
	Score  float64      `json:"score"`
	Part   PartResponse `json:"part"`
	Reason string       `json:"reason,omitempty"`
}

// SearchResponse is the POST /search response.
type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
	Cached  bool               `json:"cached"`
	Count   int                `json:"count"`
}

// RegisterPartRequest is the POST /parts payload.
type RegisterPartRequest struct {
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	Model        string            `json:"model,omitempty"`
	Description  string            `json:"description,omitempty"`
	Price        float64           `json:"price"`
	Quantity     int               `json:"quantity"`
	Specs        map[string]string `json:"specs,omitempty"`
}

// PartListResponse is one page of the catalog listing.
type PartListResponse struct {
	Items      []PartResponse `json:"items"`
	HasMore    bool           `json:"has_more"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func partToResponse(p *dompart.Part) PartResponse {
	return PartResponse{
		ID:           p.ID(),
		Name:         p.Name(),
		Category:     p.Category(),
		Manufacturer: p.Manufacturer(),
		Model:        p.Model(),
		Description:  p.Description(),
		Price:        p.Price(),
		Quantity:     p.Quantity(),
		Specs:        p.Specs(),
		CreatedAt:    time.UnixMilli(p.CreatedAt()).UTC(),
	}
}

func resultToItem(r *result.Enriched) SearchResultItem {
	p := r.Part()
	return SearchResultItem{
		PartID: r.ID(),
		Score:  r.Score(),
		Part:   partToResponse(&p),
		Reason: r.Reason(),
	}
}
