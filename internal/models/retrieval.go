package models

import "time"

// SourceKind identifies which logical index a snippet came from.
type SourceKind string

const (
	SourceJob      SourceKind = "job"
	SourceOntology SourceKind = "ontology"
	SourceTemplate SourceKind = "template"
)

// SourceKinds lists all logical index kinds the grounding adapter fans
// out to.
var SourceKinds = []SourceKind{SourceJob, SourceOntology, SourceTemplate}

// Snippet is one ranked retrieval result.
type Snippet struct {
	Text          string     `json:"text"`
	SourceKind    SourceKind `json:"source_kind"`
	Similarity    float64    `json:"similarity"`
	RecencyWeight float64    `json:"recency_weight"`
	Combined      float64    `json:"combined"`
	CreatedAt     time.Time  `json:"created_at,omitempty"`
}

// RetrievalContext is the bounded, ranked grounding context for one
// (profile, job) pair. Rebuilt per ticket, never shared across tickets
// with a different JobRequirement.
type RetrievalContext struct {
	Snippets []Snippet `json:"snippets"`
	Degraded bool      `json:"degraded"` // true when at least one index kind timed out
}

// ByKind returns the snippets of a single source kind, preserving rank
// order.
func (c *RetrievalContext) ByKind(kind SourceKind) []Snippet {
	var out []Snippet
	for _, s := range c.Snippets {
		if s.SourceKind == kind {
			out = append(out, s)
		}
	}
	return out
}
