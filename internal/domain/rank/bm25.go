package rank

import "math"

// Default BM25 parameters.
const (
	DefaultK1 = 1.5
	DefaultB  = 0.75
)

// Document is a candidate for lexical scoring.
type Document struct {
	ID   string
	Text string
}

// DocScore pairs a document id with a lexical score.
type DocScore struct {
	ID    string
	Score float64
}

// BM25Score scores one document against the query terms. allDocTokens
// is the token lists of the whole candidate corpus for this query; IDF
// and the average document length are derived from it, so callers must
// pass the same corpus for every document of one batch.
func BM25Score(queryTokens, docTokens []string, allDocTokens [][]string, k1, b float64) float64 {
	if len(allDocTokens) == 0 {
		return 0
	}

	var totalLen int
	for _, toks := range allDocTokens {
		totalLen += len(toks)
	}
	avgDocLen := float64(totalLen) / float64(len(allDocTokens))
	docLen := float64(len(docTokens))

	var score float64
	for _, term := range queryTokens {
		tf := termFrequency(term, docTokens)
		if tf == 0 {
			continue
		}
		idf := inverseDocFrequency(term, allDocTokens)
		norm := (tf * (k1 + 1)) / (tf + k1*(1-b+b*(docLen/avgDocLen)))
		score += idf * norm
	}
	return score
}

// ScoreAll computes BM25 for every document in one pass. The whole
// corpus is tokenized up front because IDF needs document frequencies
// across the full batch.
func ScoreAll(query string, docs []Document, k1, b float64) []DocScore {
	queryTokens := Tokenize(query)
	allDocTokens := make([][]string, len(docs))
	for i, d := range docs {
		allDocTokens[i] = Tokenize(d.Text)
	}

	scores := make([]DocScore, len(docs))
	for i, d := range docs {
		scores[i] = DocScore{
			ID:    d.ID,
			Score: BM25Score(queryTokens, allDocTokens[i], allDocTokens, k1, b),
		}
	}
	return scores
}

func termFrequency(term string, docTokens []string) float64 {
	var n int
	for _, t := range docTokens {
		if t == term {
			n++
		}
	}
	return float64(n)
}

// inverseDocFrequency uses the smoothed BM25 IDF, always positive.
func inverseDocFrequency(term string, allDocTokens [][]string) float64 {
	var docsWithTerm int
	for _, toks := range allDocTokens {
		for _, t := range toks {
			if t == term {
				docsWithTerm++
				break
			}
		}
	}
	n := float64(len(allDocTokens))
	return math.Log((n-float64(docsWithTerm)+0.5)/(float64(docsWithTerm)+0.5) + 1)
}
