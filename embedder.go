package partdex

import "context"

// Embedder converts text to vector embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Explainer generates a short human-readable rationale for why one part
// matched a query. A failure or empty result degrades to a generic
// rationale for that item only.
type Explainer interface {
	Explain(ctx context.Context, query string, p Part) (string, error)
}
