// Package search orchestrates the hybrid search pipeline: cache check,
// query embedding, brute-force vector ranking, metadata join, optional
// lexical fusion, explanation enrichment and result filtering.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
	"github.com/kailas-cloud/partdex/internal/domain/rank"
	"github.com/kailas-cloud/partdex/internal/domain/search/request"
	"github.com/kailas-cloud/partdex/internal/domain/search/result"
	"github.com/kailas-cloud/partdex/internal/metrics"
)

// fallbackReason is returned when explanation generation fails for one
// item. The failure degrades per item, never the whole response.
const fallbackReason = "유사도 기반 매칭"

// Options tunes the ranking pipeline.
type Options struct {
	// Alpha is the hybrid weight: alpha*vector + (1-alpha)*bm25.
	Alpha float64
	// K1 and B are the BM25 parameters.
	K1 float64
	B  float64
	// LexicalFusion toggles the BM25 re-ranking stage.
	LexicalFusion bool
	// FetchWorkers bounds concurrent vector loads.
	FetchWorkers int
	// ExplainWorkers bounds concurrent explanation completions.
	ExplainWorkers int
}

// Service runs the search pipeline.
type Service struct {
	vectors VectorReader
	parts   PartReader
	embed   Embedder
	explain Explainer
	cache   ResultCache
	opts    Options
	logger  *zap.Logger
}

// New creates a search service.
func New(
	vectors VectorReader, parts PartReader, embed Embedder,
	explain Explainer, cache ResultCache, opts Options, logger *zap.Logger,
) *Service {
	if opts.Alpha == 0 {
		opts.Alpha = rank.DefaultAlpha
	}
	if opts.K1 == 0 {
		opts.K1 = rank.DefaultK1
	}
	if opts.B == 0 {
		opts.B = rank.DefaultB
	}
	if opts.FetchWorkers <= 0 {
		opts.FetchWorkers = 16
	}
	if opts.ExplainWorkers <= 0 {
		opts.ExplainWorkers = 4
	}
	return &Service{
		vectors: vectors, parts: parts, embed: embed,
		explain: explain, cache: cache, opts: opts, logger: logger,
	}
}

// Search executes one search request. The boolean reports whether the
// result set was served from the cache. Filters always apply after
// cache retrieval: the cache key is the query alone, so a cached set is
// shared across filter combinations.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Enriched, bool, error) {
	start := time.Now()

	if cached, ok := s.cache.Get(ctx, req.Query()); ok {
		s.cache.IncrementHit(ctx, req.Query())
		metrics.SearchRequestsTotal.WithLabelValues("hit").Inc()
		metrics.SearchDuration.WithLabelValues("hit").Observe(time.Since(start).Seconds())
		return applyFilters(cached, req), true, nil
	}

	enriched, err := s.executePipeline(ctx, req)
	if err != nil {
		return nil, false, err
	}

	// Cache the unfiltered set; failures are logged inside and never
	// surface.
	s.cache.Put(ctx, req.Query(), enriched)

	metrics.SearchRequestsTotal.WithLabelValues("miss").Inc()
	metrics.SearchDuration.WithLabelValues("miss").Observe(time.Since(start).Seconds())
	return applyFilters(enriched, req), false, nil
}

func (s *Service) executePipeline(ctx context.Context, req *request.Request) ([]result.Enriched, error) {
	embRes, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	candidates, err := s.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}
	metrics.SearchCandidatesLoaded.Observe(float64(len(candidates)))

	matches, err := rank.TopK(embRes.Embedding, candidates, req.TopK())
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	partByID, err := s.loadMetadata(ctx, matches)
	if err != nil {
		return nil, err
	}

	// Ids whose metadata record is gone are dropped without failing the
	// request.
	kept := matches[:0]
	for _, m := range matches {
		if _, ok := partByID[m.ID]; ok {
			kept = append(kept, m)
		}
	}
	matches = kept

	if s.opts.LexicalFusion {
		matches = s.fuseLexical(req.Query(), matches, partByID)
	}

	reasons := s.explainAll(ctx, req.Query(), matches, partByID)

	enriched := make([]result.Enriched, len(matches))
	for i, m := range matches {
		enriched[i] = result.New(m.ID, m.Score, partByID[m.ID], reasons[i])
	}
	return enriched, nil
}

// loadCandidates scans the vector store and loads every vector with a
// bounded worker pool. A candidate whose vector fails to load is
// skipped with a warning; losing one candidate beats losing the search.
func (s *Service) loadCandidates(ctx context.Context) ([]rank.Candidate, error) {
	ids, err := s.vectors.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vectors: %w", err)
	}

	loaded := make([]rank.Candidate, len(ids))
	var mu sync.Mutex
	var skipped int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.FetchWorkers)
	for i, id := range ids {
		g.Go(func() error {
			vec, err := s.vectors.Vector(gctx, id)
			if err != nil {
				s.logger.Warn("skipping candidate, vector load failed",
					zap.String("part_id", id), zap.Error(err))
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			loaded[i] = rank.Candidate{ID: id, Vector: vec}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	candidates := make([]rank.Candidate, 0, len(ids)-skipped)
	for _, c := range loaded {
		if c.ID != "" {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

func (s *Service) loadMetadata(ctx context.Context, matches []rank.Match) (map[string]dompart.Part, error) {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}

	parts, err := s.parts.BatchGet(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load part metadata: %w", err)
	}

	byID := make(map[string]dompart.Part, len(parts))
	for _, p := range parts {
		byID[p.ID()] = p
	}
	return byID, nil
}

// fuseLexical re-ranks the vector matches with a normalized BM25
// component over the matched parts' search text.
func (s *Service) fuseLexical(query string, matches []rank.Match, partByID map[string]dompart.Part) []rank.Match {
	docs := make([]rank.Document, 0, len(matches))
	for _, m := range matches {
		p := partByID[m.ID]
		docs = append(docs, rank.Document{ID: m.ID, Text: p.SearchText()})
	}

	fused := rank.FuseHybrid(matches, docs, query, s.opts.Alpha, s.opts.K1, s.opts.B)

	out := make([]rank.Match, len(fused))
	for i, f := range fused {
		out[i] = rank.Match{ID: f.ID, Score: f.Score}
	}
	return out
}

// explainAll generates rationales with a bounded worker pool. Each
// failed completion falls back to a generic reason for that item only.
func (s *Service) explainAll(ctx context.Context, query string, matches []rank.Match, partByID map[string]dompart.Part) []string {
	reasons := make([]string, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.ExplainWorkers)
	for i, m := range matches {
		g.Go(func() error {
			reason, err := s.explain.Explain(gctx, query, partByID[m.ID])
			if err != nil || reason == "" {
				if err != nil {
					s.logger.Warn("explanation failed, using fallback",
						zap.String("part_id", m.ID), zap.Error(err))
				}
				reason = fallbackReason
			}
			reasons[i] = reason
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	return reasons
}

func applyFilters(results []result.Enriched, req *request.Request) []result.Enriched {
	filters := req.Filters()
	if filters.IsEmpty() {
		return results
	}

	filtered := make([]result.Enriched, 0, len(results))
	for i := range results {
		p := results[i].Part()
		if filters.Matches(&p) {
			filtered = append(filtered, results[i])
		}
	}
	return filtered
}
