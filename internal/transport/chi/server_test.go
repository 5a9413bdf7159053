package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"testing"

	chilib "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/partdex/internal/domain"
	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
	"github.com/kailas-cloud/partdex/internal/domain/search/result"
	"github.com/kailas-cloud/partdex/internal/metrics"
	partrepo "github.com/kailas-cloud/partdex/internal/repository/part"
	healthuc "github.com/kailas-cloud/partdex/internal/usecase/health"
	partsuc "github.com/kailas-cloud/partdex/internal/usecase/parts"
	searchuc "github.com/kailas-cloud/partdex/internal/usecase/search"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	os.Exit(m.Run())
}

// Shared in-memory backend for both the search and catalog services.
type fakeBackend struct {
	parts    map[string]dompart.Part
	vectors  map[string][]float32
	embedErr error
	pingErr  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		parts:   make(map[string]dompart.Part),
		vectors: make(map[string][]float32),
	}
}

func (f *fakeBackend) ListIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.vectors))
	for id := range f.vectors {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeBackend) Vector(_ context.Context, id string) ([]float32, error) {
	return f.vectors[id], nil
}

func (f *fakeBackend) BatchGet(_ context.Context, ids []string) ([]dompart.Part, error) {
	out := make([]dompart.Part, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.parts[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBackend) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	if f.embedErr != nil {
		return domain.EmbeddingResult{}, f.embedErr
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 0, 0}}, nil
}

func (f *fakeBackend) Explain(_ context.Context, _ string, p dompart.Part) (string, error) {
	return "매칭: " + p.Name(), nil
}

func (f *fakeBackend) Ping(context.Context) error { return f.pingErr }

type backendPartStore struct{ b *fakeBackend }

func (s *backendPartStore) Put(_ context.Context, p *dompart.Part) error {
	s.b.parts[p.ID()] = *p
	return nil
}

func (s *backendPartStore) Get(_ context.Context, id string) (dompart.Part, error) {
	p, ok := s.b.parts[id]
	if !ok {
		return dompart.Part{}, fmt.Errorf("part %s: %w", id, domain.ErrPartNotFound)
	}
	return p, nil
}

func (s *backendPartStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.b.parts[id]
	return ok, nil
}

func (s *backendPartStore) Delete(_ context.Context, id string) error {
	if _, ok := s.b.parts[id]; !ok {
		return fmt.Errorf("part %s: %w", id, domain.ErrPartNotFound)
	}
	delete(s.b.parts, id)
	return nil
}

func (s *backendPartStore) List(
	_ context.Context, category string, after float64, afterID string, limit int,
) (partrepo.Page, error) {
	var all []dompart.Part
	for _, p := range s.b.parts {
		if category != "" && p.Category() != category {
			continue
		}
		score := float64(p.CreatedAt())
		if afterID != "" && (score < after || (score == after && p.ID() <= afterID)) {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt() != all[j].CreatedAt() {
			return all[i].CreatedAt() < all[j].CreatedAt()
		}
		return all[i].ID() < all[j].ID()
	})

	page := partrepo.Page{HasMore: len(all) > limit}
	if page.HasMore {
		all = all[:limit]
	}
	page.Parts = all
	if len(all) > 0 {
		last := all[len(all)-1]
		page.LastSeen = float64(last.CreatedAt())
		page.LastID = last.ID()
	}
	return page, nil
}

type backendVectorWriter struct{ b *fakeBackend }

func (s *backendVectorWriter) Put(_ context.Context, id string, vec []float32) error {
	s.b.vectors[id] = vec
	return nil
}

func (s *backendVectorWriter) Delete(_ context.Context, id string) error {
	delete(s.b.vectors, id)
	return nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]result.Enriched, bool) { return nil, false }
func (noopCache) Put(context.Context, string, []result.Enriched)        {}
func (noopCache) IncrementHit(context.Context, string)                  {}

func newTestRouter(b *fakeBackend) http.Handler {
	logger := zap.NewNop()
	searchSvc := searchuc.New(b, b, b, b, noopCache{}, searchuc.Options{}, logger)
	partsSvc := partsuc.New(&backendPartStore{b}, &backendVectorWriter{b}, b, 20, 100, logger)
	healthSvc := healthuc.New(b, nil)

	server := NewServer(searchSvc, partsSvc, healthSvc, logger)
	r := chilib.NewRouter()
	server.RegisterRoutes(r)
	return r
}

func seedPart(b *fakeBackend, id, name, category string, vec []float32) {
	b.parts[id] = dompart.Reconstruct(
		id, name, category, "대한셀텍", "M-"+id, name+" 설명",
		100000, 5, nil, 1700000000000,
	)
	b.vectors[id] = vec
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSearchEndpoint(t *testing.T) {
	b := newFakeBackend()
	seedPart(b, "p-1", "배터리 모듈", "battery", []float32{1, 0, 0})
	seedPart(b, "p-2", "구동 모터", "motor", []float32{0, 1, 0})
	router := newTestRouter(b)

	rr := doJSON(t, router, "POST", "/api/v1/search", `{"query":"배터리","top_k":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Cached {
		t.Error("expected cached=false")
	}
	if resp.Count != 1 || len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].PartID != "p-1" {
		t.Errorf("expected p-1, got %s", resp.Results[0].PartID)
	}
	if resp.Results[0].Part.Name != "배터리 모듈" {
		t.Errorf("unexpected part name %q", resp.Results[0].Part.Name)
	}
	if resp.Results[0].Reason != "매칭: 배터리 모듈" {
		t.Errorf("unexpected reason %q", resp.Results[0].Reason)
	}
}

func TestSearchEndpoint_FiltersNarrowResults(t *testing.T) {
	b := newFakeBackend()
	seedPart(b, "p-1", "배터리 모듈", "battery", []float32{1, 0, 0})
	seedPart(b, "p-2", "구동 모터", "motor", []float32{0.9, 0.1, 0})
	router := newTestRouter(b)

	rr := doJSON(t, router, "POST", "/api/v1/search",
		`{"query":"배터리","filters":{"category":"motor"}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].PartID != "p-2" {
		t.Fatalf("expected the category filter to keep only p-2, got %+v", resp.Results)
	}
}

func TestSearchEndpoint_EmptyQuery_400(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	rr := doJSON(t, router, "POST", "/api/v1/search", `{"query":"   "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeValidationFailed)
	}
}

func TestSearchEndpoint_MalformedBody_400(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	rr := doJSON(t, router, "POST", "/api/v1/search", `{broken`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestSearchEndpoint_EmbedderDown_502(t *testing.T) {
	b := newFakeBackend()
	b.embedErr = fmt.Errorf("upstream: %w", domain.ErrEmbeddingProviderError)
	router := newTestRouter(b)

	rr := doJSON(t, router, "POST", "/api/v1/search", `{"query":"배터리"}`)
	if rr.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want 502", rr.Code)
	}
}

func TestRegisterPartEndpoint(t *testing.T) {
	b := newFakeBackend()
	router := newTestRouter(b)

	rr := doJSON(t, router, "POST", "/api/v1/parts",
		`{"name":"리튬이온 배터리","category":"battery","price":890000,"quantity":12}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	var resp PartResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected a generated part id")
	}
	if loc := rr.Header().Get("Location"); loc != "/api/v1/parts/"+resp.ID {
		t.Errorf("unexpected Location header %q", loc)
	}
	if _, ok := b.vectors[resp.ID]; !ok {
		t.Error("expected the part vector to be stored")
	}
}

func TestRegisterPartEndpoint_Invalid_400(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	rr := doJSON(t, router, "POST", "/api/v1/parts", `{"category":"battery"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestRegisterPartEndpoint_Duplicate_409(t *testing.T) {
	b := newFakeBackend()
	seedPart(b, "p-1", "배터리", "battery", []float32{1, 0, 0})
	router := newTestRouter(b)

	rr := doJSON(t, router, "POST", "/api/v1/parts",
		`{"id":"p-1","name":"배터리","category":"battery"}`)
	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rr.Code)
	}
}

func TestGetPartEndpoint(t *testing.T) {
	b := newFakeBackend()
	seedPart(b, "p-1", "배터리 모듈", "battery", []float32{1, 0, 0})
	router := newTestRouter(b)

	rr := doJSON(t, router, "GET", "/api/v1/parts/p-1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	var resp PartResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Name != "배터리 모듈" {
		t.Errorf("unexpected name %q", resp.Name)
	}
}

func TestGetPartEndpoint_NotFound_404(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	rr := doJSON(t, router, "GET", "/api/v1/parts/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestDeletePartEndpoint(t *testing.T) {
	b := newFakeBackend()
	seedPart(b, "p-1", "배터리 모듈", "battery", []float32{1, 0, 0})
	router := newTestRouter(b)

	rr := doJSON(t, router, "DELETE", "/api/v1/parts/p-1", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rr.Code)
	}
	if _, ok := b.parts["p-1"]; ok {
		t.Error("expected the part record to be removed")
	}
	if _, ok := b.vectors["p-1"]; ok {
		t.Error("expected the vector to be removed")
	}

	rr = doJSON(t, router, "GET", "/api/v1/parts/p-1", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status after delete: got %d, want 404", rr.Code)
	}
}

func TestDeletePartEndpoint_NotFound_404(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	rr := doJSON(t, router, "DELETE", "/api/v1/parts/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestListPartsEndpoint_BadCursor_400(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	rr := doJSON(t, router, "GET", "/api/v1/parts?cursor=%25%25", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != codeInvalidCursor {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeInvalidCursor)
	}
}

func TestListPartsEndpoint_BadLimit_400(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	rr := doJSON(t, router, "GET", "/api/v1/parts?limit=abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	b := newFakeBackend()
	router := newTestRouter(b)

	rr := doJSON(t, router, "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("unexpected health payload: %+v", resp)
	}
}

func TestHealthEndpoint_DatabaseDown_503(t *testing.T) {
	b := newFakeBackend()
	b.pingErr = errors.New("connection refused")
	router := newTestRouter(b)

	rr := doJSON(t, router, "GET", "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rr.Code)
	}
}
