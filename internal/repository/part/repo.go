// Package part persists catalog metadata as flat hash records plus
// sorted-set listing indexes (all parts, per category) keyed by
// registration time for cursor pagination.
package part

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/partdex/internal/db"
	"github.com/kailas-cloud/partdex/internal/domain"
	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
)

// store is the consumer interface for metadata persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRangeAfter(ctx context.Context, key string, afterScore float64, afterMember string, limit int) ([]db.ScoredMember, error)
	ZRem(ctx context.Context, key, member string) error
}

// Page is one slice of a catalog listing plus the cursor position of
// its last item. LastID breaks ties between records sharing a
// registration timestamp.
type Page struct {
	Parts    []dompart.Part
	LastSeen float64
	LastID   string
	HasMore  bool
}

// Repo stores and reads catalog metadata.
type Repo struct {
	store  store
	prefix string
}

// New creates a metadata repository. keyPrefix namespaces all keys.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

// Put writes a part record and registers it in the listing indexes.
func (r *Repo) Put(ctx context.Context, p *dompart.Part) error {
	if err := r.store.HSet(ctx, r.recordKey(p.ID()), buildHashFields(p)); err != nil {
		return fmt.Errorf("put part %s: %w", p.ID(), err)
	}

	score := float64(p.CreatedAt())
	if err := r.store.ZAdd(ctx, r.allKey(), p.ID(), score); err != nil {
		return fmt.Errorf("index part %s: %w", p.ID(), err)
	}
	if err := r.store.ZAdd(ctx, r.categoryKey(p.Category()), p.ID(), score); err != nil {
		return fmt.Errorf("index part %s by category: %w", p.ID(), err)
	}
	return nil
}

// Get reads one part by id.
func (r *Repo) Get(ctx context.Context, id string) (dompart.Part, error) {
	m, err := r.store.HGetAll(ctx, r.recordKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return dompart.Part{}, fmt.Errorf("part %s: %w", id, domain.ErrPartNotFound)
		}
		return dompart.Part{}, fmt.Errorf("get part %s: %w", id, err)
	}
	if len(m) == 0 {
		return dompart.Part{}, fmt.Errorf("part %s: %w", id, domain.ErrPartNotFound)
	}
	return parseHashFields(id, m), nil
}

// BatchGet reads many parts in one round-trip. Ids without a record are
// silently omitted, preserving the order of the input ids otherwise.
func (r *Repo) BatchGet(ctx context.Context, ids []string) ([]dompart.Part, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.recordKey(id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("batch get parts: %w", err)
	}

	parts := make([]dompart.Part, 0, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		parts = append(parts, parseHashFields(ids[i], m))
	}
	return parts, nil
}

// List pages through the catalog ordered by registration time.
// category == "" lists everything. after and afterID are the score and
// id of the last item of the previous page (zero values for the first
// page); paging on the (score, id) pair keeps records sharing a
// timestamp from being skipped at page boundaries.
func (r *Repo) List(ctx context.Context, category string, after float64, afterID string, limit int) (Page, error) {
	key := r.allKey()
	if category != "" {
		key = r.categoryKey(category)
	}

	// One extra member detects whether another page exists.
	members, err := r.store.ZRangeAfter(ctx, key, after, afterID, limit+1)
	if err != nil {
		return Page{}, fmt.Errorf("list parts: %w", err)
	}

	hasMore := len(members) > limit
	if hasMore {
		members = members[:limit]
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.Member
	}

	parts, err := r.BatchGet(ctx, ids)
	if err != nil {
		return Page{}, err
	}

	page := Page{Parts: parts, HasMore: hasMore}
	if len(members) > 0 {
		last := members[len(members)-1]
		page.LastSeen = last.Score
		page.LastID = last.Member
	}
	return page, nil
}

// Exists reports whether a part record is present.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.recordKey(id))
	if err != nil {
		return false, fmt.Errorf("check part %s: %w", id, err)
	}
	return ok, nil
}

// Delete removes a part record and its listing index entries. The
// index entries go first so listings never reference a missing record.
func (r *Repo) Delete(ctx context.Context, id string) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := r.store.ZRem(ctx, r.categoryKey(p.Category()), id); err != nil {
		return fmt.Errorf("unindex part %s by category: %w", id, err)
	}
	if err := r.store.ZRem(ctx, r.allKey(), id); err != nil {
		return fmt.Errorf("unindex part %s: %w", id, err)
	}
	if err := r.store.Del(ctx, r.recordKey(id)); err != nil {
		return fmt.Errorf("delete part %s: %w", id, err)
	}
	return nil
}

func (r *Repo) recordKey(id string) string { return r.prefix + "part:" + id }
func (r *Repo) allKey() string            { return r.prefix + "parts:all" }
func (r *Repo) categoryKey(c string) string {
	return r.prefix + "parts:category:" + c
}
