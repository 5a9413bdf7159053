// Package querycache maps a query fingerprint to a previously computed
// ranked result set with lazy TTL expiry. The cache never fails a
// search: read errors degrade to misses and write errors are logged
// and swallowed.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/partdex/internal/db"
	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
	"github.com/kailas-cloud/partdex/internal/domain/search/result"
)

// store is the consumer interface for cache persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache persists ranked search results keyed by query fingerprint.
type Cache struct {
	store  store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// New creates a query cache. keyPrefix namespaces all keys; ttl is the
// result lifetime (the source used 7 days).
func New(s store, keyPrefix string, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		store:  s,
		prefix: keyPrefix + "match:",
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Fingerprint hashes the raw query text into the cache key. No case or
// whitespace normalization is applied: a query differing only in case
// is a different fingerprint.
func Fingerprint(query string) string {
	return strconv.FormatUint(xxhash.Sum64String(query), 16)
}

// Get returns the cached results for a query. The second return is
// false on absent entry, decode failure, store error, or when the
// entry has passed its expiry (lazy expiry; the record is not
// physically removed).
func (c *Cache) Get(ctx context.Context, query string) ([]result.Enriched, bool) {
	entry, ok := c.read(ctx, Fingerprint(query))
	if !ok {
		return nil, false
	}
	if c.now().Unix() >= entry.ExpiresAt {
		return nil, false
	}
	return entry.toResults(), true
}

// Put stores a freshly computed result set with hitCount=1. The expiry
// is also handed to the store so abandoned entries age out physically.
func (c *Cache) Put(ctx context.Context, query string, results []result.Enriched) {
	fingerprint := Fingerprint(query)
	now := c.now()
	entry := entryDTO{
		Fingerprint: fingerprint,
		Query:       query,
		Results:     toDTO(results),
		CreatedAt:   now.Unix(),
		ExpiresAt:   now.Add(c.ttl).Unix(),
		HitCount:    1,
	}
	c.write(ctx, fingerprint, entry)
}

// IncrementHit bumps the hit counter of an existing entry. This is a
// read-modify-write: two concurrent hits may under-count. Accepted:
// the counter is advisory and last-writer-wins is fine for it.
func (c *Cache) IncrementHit(ctx context.Context, query string) {
	fingerprint := Fingerprint(query)
	entry, ok := c.read(ctx, fingerprint)
	if !ok {
		return
	}
	entry.HitCount++
	c.write(ctx, fingerprint, entry)
}

func (c *Cache) read(ctx context.Context, fingerprint string) (entryDTO, bool) {
	data, err := c.store.Get(ctx, c.prefix+fingerprint)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("query cache read failed, treating as miss",
				zap.String("fingerprint", fingerprint), zap.Error(err))
		}
		return entryDTO{}, false
	}

	var entry entryDTO
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("query cache entry corrupt, treating as miss",
			zap.String("fingerprint", fingerprint), zap.Error(err))
		return entryDTO{}, false
	}
	return entry, true
}

func (c *Cache) write(ctx context.Context, fingerprint string, entry entryDTO) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("query cache encode failed",
			zap.String("fingerprint", fingerprint), zap.Error(err))
		return
	}

	remaining := time.Unix(entry.ExpiresAt, 0).Sub(c.now())
	if remaining <= 0 {
		return
	}
	if err := c.store.SetWithTTL(ctx, c.prefix+fingerprint, data, remaining); err != nil {
		c.logger.Warn("query cache write failed",
			zap.String("fingerprint", fingerprint), zap.Error(err))
	}
}

// entryDTO is the stored JSON shape.
type entryDTO struct {
	Fingerprint string      `json:"fingerprint"`
	Query       string      `json:"query"`
	Results     []resultDTO `json:"results"`
	CreatedAt   int64       `json:"createdAt"`
	ExpiresAt   int64       `json:"expiresAt"`
	HitCount    int64       `json:"hitCount"`
}

type resultDTO struct {
	PartID string  `json:"partId"`
	Score  float64 `json:"score"`
	Part   partDTO `json:"part"`
	Reason string  `json:"reason,omitempty"`
}

type partDTO struct {
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	Manufacturer string            `json:"manufacturer"`
	Model        string            `json:"model"`
	Description  string            `json:"description,omitempty"`
	Price        float64           `json:"price"`
	Quantity     int               `json:"quantity"`
	Specs        map[string]string `json:"specs,omitempty"`
	CreatedAt    int64             `json:"createdAt"`
}

func toDTO(results []result.Enriched) []resultDTO {
	out := make([]resultDTO, len(results))
	for i := range results {
		r := &results[i]
		p := r.Part()
		out[i] = resultDTO{
			PartID: r.ID(),
			Score:  r.Score(),
			Reason: r.Reason(),
			Part: partDTO{
				Name:         p.Name(),
				Category:     p.Category(),
				Manufacturer: p.Manufacturer(),
				Model:        p.Model(),
				Description:  p.Description(),
				Price:        p.Price(),
				Quantity:     p.Quantity(),
				Specs:        p.Specs(),
				CreatedAt:    p.CreatedAt(),
			},
		}
	}
	return out
}

func (e *entryDTO) toResults() []result.Enriched {
	out := make([]result.Enriched, len(e.Results))
	for i, r := range e.Results {
		p := dompart.Reconstruct(
			r.PartID, r.Part.Name, r.Part.Category, r.Part.Manufacturer,
			r.Part.Model, r.Part.Description, r.Part.Price, r.Part.Quantity,
			r.Part.Specs, r.Part.CreatedAt,
		)
		out[i] = result.New(r.PartID, r.Score, p, r.Reason)
	}
	return out
}
