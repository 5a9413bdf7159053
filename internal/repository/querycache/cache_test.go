package querycache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/partdex/internal/db"
	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
	"github.com/kailas-cloud/partdex/internal/domain/search/result"
)

type fakeStore struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	setCnt  int
	lastKey string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCnt++
	f.lastKey = key
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}

func sampleResults() []result.Enriched {
	p := dompart.Reconstruct(
		"p-1", "급속 충전 커넥터", "connector", "한빛전장", "HC-350",
		"350kW 급속충전용", 120000, 4, map[string]string{"전압": "1000V"}, 1700000000000,
	)
	return []result.Enriched{result.New("p-1", 0.91, p, "유사도 기반 매칭")}
}

func TestFingerprintIsCaseSensitive(t *testing.T) {
	if Fingerprint("배터리 모듈") == Fingerprint("배터리 모듈 ") {
		t.Error("expected trailing whitespace to change the fingerprint")
	}
	if Fingerprint("Battery") == Fingerprint("battery") {
		t.Error("expected case to change the fingerprint")
	}
	if Fingerprint("배터리") != Fingerprint("배터리") {
		t.Error("expected identical queries to share a fingerprint")
	}
}

func TestCachePutGetRoundTrip(t *testing.T) {
	store := newFakeStore()
	now := time.Unix(1_700_000_000, 0)
	cache := New(store, "partdex:", 7*24*time.Hour, zap.NewNop()).
		WithClock(func() time.Time { return now })

	cache.Put(context.Background(), "급속 충전", sampleResults())

	got, ok := cache.Get(context.Background(), "급속 충전")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].ID() != "p-1" {
		t.Errorf("expected part id p-1, got %s", got[0].ID())
	}
	if got[0].Score() != 0.91 {
		t.Errorf("expected score 0.91, got %f", got[0].Score())
	}
	if got[0].Reason() != "유사도 기반 매칭" {
		t.Errorf("unexpected reason %q", got[0].Reason())
	}
	p := got[0].Part()
	if p.Name() != "급속 충전 커넥터" || p.Specs()["전압"] != "1000V" {
		t.Error("part metadata did not survive the round trip")
	}
	if ttl := store.ttls[store.lastKey]; ttl != 7*24*time.Hour {
		t.Errorf("expected physical TTL of 7 days, got %v", ttl)
	}
}

func TestCacheGetMissOnAbsentKey(t *testing.T) {
	cache := New(newFakeStore(), "partdex:", time.Hour, zap.NewNop())
	if _, ok := cache.Get(context.Background(), "없는 쿼리"); ok {
		t.Error("expected a miss for an absent fingerprint")
	}
}

func TestCacheGetMissAfterExpiry(t *testing.T) {
	store := newFakeStore()
	now := time.Unix(1_700_000_000, 0)
	cache := New(store, "partdex:", time.Hour, zap.NewNop()).
		WithClock(func() time.Time { return now })

	cache.Put(context.Background(), "배터리", sampleResults())

	// One second before expiry: still a hit.
	now = now.Add(time.Hour - time.Second)
	if _, ok := cache.Get(context.Background(), "배터리"); !ok {
		t.Fatal("expected a hit just before expiry")
	}

	// Exactly at expiry: a miss, even though the record still exists.
	now = now.Add(time.Second)
	if _, ok := cache.Get(context.Background(), "배터리"); ok {
		t.Error("expected a miss at the expiry instant")
	}
	if len(store.data) == 0 {
		t.Error("expected expiry to be lazy, not a physical delete")
	}
}

func TestCacheGetMissOnStoreError(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	cache := New(store, "partdex:", time.Hour, zap.NewNop())

	if _, ok := cache.Get(context.Background(), "q"); ok {
		t.Error("expected a store failure to degrade to a miss")
	}
}

func TestCacheGetMissOnCorruptEntry(t *testing.T) {
	store := newFakeStore()
	cache := New(store, "partdex:", time.Hour, zap.NewNop())
	store.data["partdex:match:"+Fingerprint("배터리")] = []byte("{not json")

	if _, ok := cache.Get(context.Background(), "배터리"); ok {
		t.Error("expected a corrupt entry to degrade to a miss")
	}
}

func TestCachePutSwallowsWriteError(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("read-only replica")
	cache := New(store, "partdex:", time.Hour, zap.NewNop())

	// Must not panic or surface the error.
	cache.Put(context.Background(), "q", sampleResults())
}

func TestCacheIncrementHit(t *testing.T) {
	store := newFakeStore()
	now := time.Unix(1_700_000_000, 0)
	cache := New(store, "partdex:", time.Hour, zap.NewNop()).
		WithClock(func() time.Time { return now })

	cache.Put(context.Background(), "모터", sampleResults())
	cache.IncrementHit(context.Background(), "모터")
	cache.IncrementHit(context.Background(), "모터")

	entry, ok := cache.read(context.Background(), Fingerprint("모터"))
	if !ok {
		t.Fatal("expected the entry to exist")
	}
	if entry.HitCount != 3 {
		t.Errorf("expected hit count 3 (1 on put + 2 increments), got %d", entry.HitCount)
	}
	if entry.ExpiresAt != now.Add(time.Hour).Unix() {
		t.Error("expected increments to preserve the original expiry")
	}
}

func TestCacheIncrementHitNoopOnAbsent(t *testing.T) {
	store := newFakeStore()
	cache := New(store, "partdex:", time.Hour, zap.NewNop())

	cache.IncrementHit(context.Background(), "missing")
	if store.setCnt != 0 {
		t.Error("expected no write for an absent entry")
	}
}
