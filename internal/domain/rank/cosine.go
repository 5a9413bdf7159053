package rank

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/partdex/internal/domain"
)

// Candidate is an id plus its stored embedding vector.
type Candidate struct {
	ID     string
	Vector []float32
}

// Match pairs a candidate id with a similarity score.
type Match struct {
	ID    string
	Score float64
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different lengths mean the corpus holds embeddings from
// mixed model versions; that is fatal, not skippable.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", domain.ErrVectorDimMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// TopK brute-force scores every candidate against the query vector and
// returns the k best, sorted descending by score. Ties are broken by
// ascending id so ranking is deterministic across runs.
func TopK(query []float32, candidates []Candidate, k int) ([]Match, error) {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		score, err := CosineSimilarity(query, c.Vector)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", c.ID, err)
		}
		matches = append(matches, Match{ID: c.ID, Score: score})
	}

	sortMatches(matches)

	if k >= 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// sortMatches orders descending by score, ascending by id on equal scores.
func sortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
}
