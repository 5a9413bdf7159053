// Package rank holds the relevance-scoring core: tokenization, BM25,
// cosine similarity, min-max normalization and hybrid score fusion.
// Everything here is pure computation with no I/O.
package rank

import "strings"

// stopWords are common Korean particles and connectors dropped before
// scoring. For production-grade Korean morphology a proper analyzer
// (mecab-ko) would be needed; particle stripping is enough for catalog
// queries.
var stopWords = map[string]struct{}{
	"이": {}, "가": {}, "은": {}, "는": {}, "을": {}, "를": {},
	"의": {}, "에": {}, "와": {}, "과": {}, "도": {}, "로": {},
	"으로": {}, "에서": {}, "까지": {}, "부터": {}, "하고": {},
	"이고": {}, "인": {}, "된": {}, "등": {}, "및": {}, "또는": {},
	"그리고": {},
}

// Tokenize splits text into lowercase terms, stripping punctuation and
// the fixed stop-word set. Deterministic; empty or whitespace-only
// input yields an empty slice.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if isTokenRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// isTokenRune keeps word characters and Hangul syllables; everything
// else is treated as a separator.
func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	case r >= '가' && r <= '힣':
		return true
	default:
		return false
	}
}
