// Package vector persists per-part embedding vectors in the key-value
// store. The repository is deliberately an interface boundary for the
// search usecase so a future ANN index can replace the brute-force
// scan without touching the orchestrator.
package vector

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/partdex/internal/db"
	"github.com/kailas-cloud/partdex/internal/domain"
)

// store is the consumer interface for vector persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Store reads and writes embedding vectors keyed by part id.
type Store struct {
	store  store
	prefix string
}

// New creates a vector store. keyPrefix namespaces all keys
// (e.g. "partdex:").
func New(s store, keyPrefix string) *Store {
	return &Store{store: s, prefix: keyPrefix + "vector:"}
}

// Put stores the embedding vector for a part.
func (s *Store) Put(ctx context.Context, id string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty vector for part %s", id)
	}
	if err := s.store.Set(ctx, s.prefix+id, vectorToBytes(vec)); err != nil {
		return fmt.Errorf("put vector %s: %w", id, err)
	}
	return nil
}

// Vector loads the embedding vector for one part id.
func (s *Store) Vector(ctx context.Context, id string) ([]float32, error) {
	data, err := s.store.Get(ctx, s.prefix+id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("vector %s: %w", id, domain.ErrPartNotFound)
		}
		return nil, fmt.Errorf("get vector %s: %w", id, err)
	}

	vec, err := bytesToVector(data)
	if err != nil {
		return nil, fmt.Errorf("decode vector %s: %w", id, err)
	}
	return vec, nil
}

// Delete removes the vector for a part id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.store.Del(ctx, s.prefix+id); err != nil {
		return fmt.Errorf("delete vector %s: %w", id, err)
	}
	return nil
}

// ListIDs returns the ids of every part with a stored vector.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	keys, err := s.store.Scan(ctx, s.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan vectors: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, s.prefix))
	}
	return ids, nil
}

// vectorToBytes serializes []float32 (4 bytes per float, little-endian).
func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToVector deserializes back to []float32.
func bytesToVector(data []byte) ([]float32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector data: len=%d (not multiple of 4)", len(data))
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return v, nil
}
