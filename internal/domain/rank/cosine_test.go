package rank

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/partdex/internal/domain"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "both zero", a: []float32{0, 0}, b: []float32{0, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityDimMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestTopKOrdersByScore(t *testing.T) {
	query := []float32{1, 0, 0}
	candidates := []Candidate{
		{ID: "far", Vector: []float32{0, 1, 0}},
		{ID: "near", Vector: []float32{1, 0, 0}},
		{ID: "mid", Vector: []float32{1, 1, 0}},
	}

	matches, err := TopK(query, candidates, 3)
	if err != nil {
		t.Fatalf("TopK failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].ID != "near" || matches[1].ID != "mid" || matches[2].ID != "far" {
		t.Errorf("unexpected order: %s, %s, %s", matches[0].ID, matches[1].ID, matches[2].ID)
	}
}

func TestTopKTruncates(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{ID: "a", Vector: []float32{1, 0}},
		{ID: "b", Vector: []float32{0.9, 0.1}},
		{ID: "c", Vector: []float32{0, 1}},
	}

	matches, err := TopK(query, candidates, 2)
	if err != nil {
		t.Fatalf("TopK failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}
}

func TestTopKLargerThanCorpus(t *testing.T) {
	matches, err := TopK([]float32{1}, []Candidate{{ID: "a", Vector: []float32{1}}}, 10)
	if err != nil {
		t.Fatalf("TopK failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("expected 1 match, got %d", len(matches))
	}
}

func TestTopKTieBrokenByID(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{ID: "zz", Vector: []float32{2, 0}},
		{ID: "aa", Vector: []float32{3, 0}}, // same direction, same cosine
	}

	matches, err := TopK(query, candidates, 2)
	if err != nil {
		t.Fatalf("TopK failed: %v", err)
	}
	if matches[0].ID != "aa" || matches[1].ID != "zz" {
		t.Errorf("expected id tiebreak aa before zz, got %s, %s", matches[0].ID, matches[1].ID)
	}
}

func TestTopKDimMismatchIsFatal(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{ID: "good", Vector: []float32{1, 0}},
		{ID: "bad", Vector: []float32{1, 0, 0}},
	}

	_, err := TopK(query, candidates, 2)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestTopKEmptyCorpus(t *testing.T) {
	matches, err := TopK([]float32{1}, nil, 5)
	if err != nil {
		t.Fatalf("TopK failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}
