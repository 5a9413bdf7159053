package search

import (
	"context"

	"github.com/kailas-cloud/partdex/internal/domain"
	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
	"github.com/kailas-cloud/partdex/internal/domain/search/result"
)

// VectorReader lists and loads stored embedding vectors.
type VectorReader interface {
	ListIDs(ctx context.Context) ([]string, error)
	Vector(ctx context.Context, id string) ([]float32, error)
}

// PartReader loads catalog metadata for matched ids.
type PartReader interface {
	BatchGet(ctx context.Context, ids []string) ([]dompart.Part, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Explainer generates a one-sentence match rationale.
type Explainer interface {
	Explain(ctx context.Context, query string, p dompart.Part) (string, error)
}

// ResultCache stores ranked result sets keyed by query. Implementations
// must never fail the search: reads degrade to misses and writes are
// best-effort.
type ResultCache interface {
	Get(ctx context.Context, query string) ([]result.Enriched, bool)
	Put(ctx context.Context, query string, results []result.Enriched)
	IncrementHit(ctx context.Context, query string)
}
