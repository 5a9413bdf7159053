// Package parts manages the catalog: registration with embedding
// generation, point reads and cursor-paginated listing.
package parts

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/partdex/internal/domain"
	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
)

// Service manages catalog parts.
type Service struct {
	parts    PartStore
	vectors  VectorWriter
	embed    Embedder
	pageSize int
	maxPage  int
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a parts service.
func New(parts PartStore, vectors VectorWriter, embed Embedder, pageSize, maxPage int, logger *zap.Logger) *Service {
	if pageSize <= 0 {
		pageSize = 20
	}
	if maxPage <= 0 {
		maxPage = 100
	}
	return &Service{
		parts: parts, vectors: vectors, embed: embed,
		pageSize: pageSize, maxPage: maxPage, logger: logger,
		now: time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RegisterInput carries the fields of a new part. ID is optional; a
// UUID is assigned when absent.
type RegisterInput struct {
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

// Register validates, embeds and persists a new part. The vector is
// written before the metadata record: a part visible in listings must
// already be searchable.
func (s *Service) Register(ctx context.Context, in RegisterInput) (dompart.Part, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	} else {
		exists, err := s.parts.Exists(ctx, id)
		if err != nil {
			return dompart.Part{}, fmt.Errorf("check part %s: %w", id, err)
		}
		if exists {
			return dompart.Part{}, fmt.Errorf("part %s: %w", id, domain.ErrPartExists)
		}
	}

	p, err := dompart.New(
		id, in.Name, in.Category, in.Manufacturer, in.Model, in.Description,
		in.Price, in.Quantity, in.Specs, s.now().UnixMilli(),
	)
	if err != nil {
		return dompart.Part{}, fmt.Errorf("%w: %w", domain.ErrInvalidPart, err)
	}

	embRes, err := s.embed.Embed(ctx, embedText(&p))
	if err != nil {
		return dompart.Part{}, fmt.Errorf("embed part %s: %w", id, err)
	}

	if err := s.vectors.Put(ctx, id, embRes.Embedding); err != nil {
		return dompart.Part{}, fmt.Errorf("store vector: %w", err)
	}
	if err := s.parts.Put(ctx, &p); err != nil {
		return dompart.Part{}, fmt.Errorf("store part: %w", err)
	}

	s.logger.Info("part registered",
		zap.String("part_id", id),
		zap.String("category", p.Category()),
		zap.Int("embedding_tokens", embRes.TotalTokens))
	return p, nil
}

// Get returns one part by id.
func (s *Service) Get(ctx context.Context, id string) (dompart.Part, error) {
	return s.parts.Get(ctx, id)
}

// Delete removes a part and its embedding vector. Metadata goes first;
// if the vector removal then fails, search drops the orphaned candidate
// when its metadata cannot be loaded.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.parts.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.vectors.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete vector %s: %w", id, err)
	}

	s.logger.Info("part deleted", zap.String("part_id", id))
	return nil
}

// ListPage is one page of a catalog listing.
type ListPage struct {
	Parts      []dompart.Part
	NextCursor string
	HasMore    bool
}

// List pages through the catalog in registration order. cursor is the
// opaque token from the previous page, empty for the first page.
func (s *Service) List(ctx context.Context, category, cursor string, limit int) (ListPage, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > s.maxPage {
		limit = s.maxPage
	}

	after, afterID, err := decodeCursor(cursor)
	if err != nil {
		return ListPage{}, err
	}

	page, err := s.parts.List(ctx, category, after, afterID, limit)
	if err != nil {
		return ListPage{}, err
	}

	out := ListPage{Parts: page.Parts, HasMore: page.HasMore}
	if page.HasMore {
		out.NextCursor = encodeCursor(page.LastSeen, page.LastID)
	}
	return out, nil
}

// Cursors are the base64url-encoded registration timestamp and id of
// the last item on the page. The id disambiguates parts registered in
// the same millisecond. Opaque to clients.
func encodeCursor(score float64, id string) string {
	raw := strconv.FormatFloat(score, 'f', -1, 64) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (float64, string, error) {
	if cursor == "" {
		return 0, "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", domain.ErrInvalidCursor, err)
	}
	scorePart, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return 0, "", fmt.Errorf("%w: missing id", domain.ErrInvalidCursor)
	}
	score, err := strconv.ParseFloat(scorePart, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", domain.ErrInvalidCursor, err)
	}
	return score, id, nil
}
