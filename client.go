// Package partdex is the embedded client for the partdex search core:
// the same ranking pipeline the HTTP server runs, wired directly over a
// Redis connection without the transport layer.
package partdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/partdex/internal/db"
	dbRedis "github.com/kailas-cloud/partdex/internal/db/redis"
	"github.com/kailas-cloud/partdex/internal/domain"
	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
	partrepo "github.com/kailas-cloud/partdex/internal/repository/part"
	"github.com/kailas-cloud/partdex/internal/repository/querycache"
	vectorrepo "github.com/kailas-cloud/partdex/internal/repository/vector"
	partsuc "github.com/kailas-cloud/partdex/internal/usecase/parts"
	searchuc "github.com/kailas-cloud/partdex/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "partdex:"
	defaultCacheTTL         = 7 * 24 * time.Hour
)

// Client is the partdex SDK entry point.
type Client struct {
	store     db.Store
	searchSvc *searchuc.Service
	partsSvc  *partsuc.Service
}

// New creates a partdex Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix: defaultKeyPrefix,
		cacheTTL:  defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("partdex: database address required (use WithRedis)")
	}
	if cfg.embedder == nil {
		return nil, errors.New("partdex: embedder required (use WithEmbedder)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("partdex: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("partdex: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	vectorStore := vectorrepo.New(store, cfg.keyPrefix)
	partStore := partrepo.New(store, cfg.keyPrefix)
	resultCache := querycache.New(store, cfg.keyPrefix, cfg.cacheTTL, logger)

	embed := &embedderAdapter{inner: cfg.embedder}

	var explain searchuc.Explainer = noopExplainer{}
	if cfg.explainer != nil {
		explain = &explainerAdapter{inner: cfg.explainer}
	}

	searchSvc := searchuc.New(vectorStore, partStore, embed, explain, resultCache,
		searchuc.Options{
			Alpha:         cfg.alpha,
			K1:            cfg.bm25K1,
			B:             cfg.bm25B,
			LexicalFusion: cfg.lexicalFusion,
		}, logger)
	partsSvc := partsuc.New(partStore, vectorStore, embed, 0, 0, logger)

	return &Client{store: store, searchSvc: searchSvc, partsSvc: partsSvc}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns the search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc}
}

// Parts returns the catalog management service.
func (c *Client) Parts() *PartsService {
	return &PartsService{svc: c.partsSvc}
}

// embedderAdapter wraps the public Embedder to satisfy the internal
// usecase contracts.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// explainerAdapter wraps the public Explainer to satisfy the internal
// search contract.
type explainerAdapter struct {
	inner Explainer
}

func (a *explainerAdapter) Explain(ctx context.Context, query string, p dompart.Part) (string, error) {
	return a.inner.Explain(ctx, query, fromDomainPart(&p))
}

// noopExplainer returns an empty rationale, which the pipeline replaces
// with the generic fallback (used when no explainer is configured).
type noopExplainer struct{}

func (noopExplainer) Explain(context.Context, string, dompart.Part) (string, error) {
	return "", nil
}
