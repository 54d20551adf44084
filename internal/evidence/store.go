// Package evidence implements the per-ticket immutable span store.
// Every downstream claim must reference spans registered here.
package evidence

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tailorflow/tailorflow/internal/models"
)

// Store holds the evidence spans extracted from one resume. It is
// owned exclusively by a single ticket, so no locking is needed; spans
// are immutable once added and die with the ticket.
type Store struct {
	spans map[models.SpanID]models.EvidenceSpan
	order []models.SpanID
}

// NewStore creates an empty evidence store.
func NewStore() *Store {
	return &Store{spans: make(map[models.SpanID]models.EvidenceSpan)}
}

// Add registers a span of source text and returns its ID.
func (s *Store) Add(start, end int, text string) models.SpanID {
	id := models.SpanID(uuid.New().String()[:8])
	s.spans[id] = models.EvidenceSpan{ID: id, Start: start, End: end, Text: text}
	s.order = append(s.order, id)
	return id
}

// AddLayout registers a layout span reported by the parser.
func (s *Store) AddLayout(span models.LayoutSpan) models.SpanID {
	return s.Add(span.Start, span.End, span.Text)
}

// Get returns the span with the given ID.
func (s *Store) Get(id models.SpanID) (models.EvidenceSpan, bool) {
	span, ok := s.spans[id]
	return span, ok
}

// All returns every span in registration order.
func (s *Store) All() []models.EvidenceSpan {
	out := make([]models.EvidenceSpan, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.spans[id])
	}
	return out
}

// Len returns the number of registered spans.
func (s *Store) Len() int { return len(s.order) }

// Verify checks that every referenced span exists. Returns the first
// unknown ID as an error.
func (s *Store) Verify(ids []models.SpanID) error {
	for _, id := range ids {
		if _, ok := s.spans[id]; !ok {
			return fmt.Errorf("evidence span %q: %w", id, models.ErrNotFound)
		}
	}
	return nil
}
