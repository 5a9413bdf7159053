package parts

import (
	"context"

	"github.com/kailas-cloud/partdex/internal/domain"
	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
	partrepo "github.com/kailas-cloud/partdex/internal/repository/part"
)

// PartStore persists catalog metadata.
type PartStore interface {
	Put(ctx context.Context, p *dompart.Part) error
	Get(ctx context.Context, id string) (dompart.Part, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, category string, after float64, afterID string, limit int) (partrepo.Page, error)
}

// VectorWriter persists embedding vectors.
type VectorWriter interface {
	Put(ctx context.Context, id string, vec []float32) error
	Delete(ctx context.Context, id string) error
}

// Embedder vectorizes the part's embedding text at registration.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
