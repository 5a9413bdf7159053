package partdex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	embedder  Embedder
	explainer Explainer

	keyPrefix string
	cacheTTL  time.Duration

	alpha         float64
	bm25K1        float64
	bm25B         float64
	lexicalFusion bool

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the text embedding provider. Required.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithExplainer sets the per-match explanation provider. Optional;
// without it every result carries the generic rationale.
func WithExplainer(e Explainer) Option {
	return optionFunc(func(c *clientConfig) {
		c.explainer = e
	})
}

// WithKeyPrefix namespaces all storage keys. Default: "partdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithCacheTTL sets the query result cache lifetime. Default: 7 days.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithRankingParams tunes the hybrid fusion weight and the BM25
// parameters. Defaults: alpha=0.7, k1=1.5, b=0.75.
func WithRankingParams(alpha, k1, b float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.alpha = alpha
		c.bm25K1 = k1
		c.bm25B = b
	})
}

// WithLexicalFusion enables the BM25 re-ranking stage over the vector
// candidates. Off by default.
func WithLexicalFusion() Option {
	return optionFunc(func(c *clientConfig) {
		c.lexicalFusion = true
	})
}

// WithLogger enables structured logging for client operations.
// Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
