package rank

// NormalizeScores rescales a score batch to [0,1] using the observed
// min/max. When every score is equal the whole batch normalizes to 1.
func NormalizeScores(scores []DocScore) []DocScore {
	if len(scores) == 0 {
		return nil
	}

	minScore, maxScore := scores[0].Score, scores[0].Score
	for _, s := range scores[1:] {
		if s.Score < minScore {
			minScore = s.Score
		}
		if s.Score > maxScore {
			maxScore = s.Score
		}
	}

	out := make([]DocScore, len(scores))
	if maxScore == minScore {
		for i, s := range scores {
			out[i] = DocScore{ID: s.ID, Score: 1}
		}
		return out
	}

	for i, s := range scores {
		out[i] = DocScore{ID: s.ID, Score: (s.Score - minScore) / (maxScore - minScore)}
	}
	return out
}
