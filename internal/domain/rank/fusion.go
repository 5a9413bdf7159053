package rank

import "sort"

// DefaultAlpha is the semantic-vs-lexical weight: 70% vector, 30% BM25.
const DefaultAlpha = 0.7

// FusedMatch carries the combined score plus both components for
// diagnostics.
type FusedMatch struct {
	ID          string
	Score       float64
	VectorScore float64
	BM25Score   float64
}

// HybridScore linearly combines a vector-similarity score and a BM25
// score, both already normalized to [0,1].
func HybridScore(vectorScore, bm25Score, alpha float64) float64 {
	return alpha*vectorScore + (1-alpha)*bm25Score
}

// FuseHybrid BM25-scores the documents, min-max normalizes the batch,
// fuses with the vector scores per id and re-sorts descending. A vector
// match with no document in the lexical batch contributes a zero BM25
// component.
func FuseHybrid(vectorMatches []Match, docs []Document, query string, alpha, k1, b float64) []FusedMatch {
	bm25 := NormalizeScores(ScoreAll(query, docs, k1, b))

	bm25ByID := make(map[string]float64, len(bm25))
	for _, s := range bm25 {
		bm25ByID[s.ID] = s.Score
	}

	fused := make([]FusedMatch, len(vectorMatches))
	for i, m := range vectorMatches {
		lexical := bm25ByID[m.ID]
		fused[i] = FusedMatch{
			ID:          m.ID,
			Score:       HybridScore(m.Score, lexical, alpha),
			VectorScore: m.Score,
			BM25Score:   lexical,
		}
	}

	sortFused(fused)
	return fused
}

func sortFused(fused []FusedMatch) {
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].ID < fused[j].ID
	})
}
