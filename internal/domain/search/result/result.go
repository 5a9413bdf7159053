// Package result defines search result values.
package result

import "github.com/kailas-cloud/partdex/internal/domain/part"

// Enriched is a ranked match joined with its catalog metadata and an
// optional human-readable rationale. Transient, built per request.
type Enriched struct {
	id     string
	score  float64
	part   part.Part
	reason string
}

// New creates an enriched result.
func New(id string, score float64, p part.Part, reason string) Enriched {
	return Enriched{id: id, score: score, part: p, reason: reason}
}

// ID returns the part identifier.
func (e *Enriched) ID() string { return e.id }

// Score returns the final relevance score.
func (e *Enriched) Score() float64 { return e.score }

// Part returns the catalog metadata for this match.
func (e *Enriched) Part() part.Part { return e.part }

// Reason returns the match rationale, empty when none was generated.
func (e *Enriched) Reason() string { return e.reason }
