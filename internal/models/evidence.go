// Package models defines the data structures shared across the tailorflow pipeline.
package models

// SpanID identifies an evidence span within one ticket's evidence store.
type SpanID string

// EvidenceSpan is an immutable reference to a located fragment of source
// resume text. Every fact in a CandidateProfile must point back to at
// least one span.
type EvidenceSpan struct {
	ID    SpanID `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// LayoutSpan is a structural region reported by the document parser,
// before any evidence has been registered. Line-oriented for plain text
// and Markdown sources.
type LayoutSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Line  int    `json:"line"`
}
