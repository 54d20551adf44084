// Package service is the application surface: submit resumes, query
// ticket status and fetch pipeline artifacts. It owns the ticket
// registry; the pipeline workers own the processing.
package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailorflow/tailorflow/internal/compliance"
	"github.com/tailorflow/tailorflow/internal/evidence"
	"github.com/tailorflow/tailorflow/internal/metrics"
	"github.com/tailorflow/tailorflow/internal/models"
	"github.com/tailorflow/tailorflow/internal/parser"
	"github.com/tailorflow/tailorflow/internal/pipeline"
)

// Service coordinates ticket submission and artifact retrieval.
type Service struct {
	pool     *pipeline.Pool
	deadline time.Duration
	metrics  *metrics.Collector
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	tickets map[string]*pipeline.TicketState
}

// New creates a service backed by the given worker pool.
func New(pool *pipeline.Pool, deadline time.Duration, collector *metrics.Collector, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Service{
		pool:     pool,
		deadline: deadline,
		metrics:  collector,
		logger:   logger,
		now:      time.Now,
		tickets:  map[string]*pipeline.TicketState{},
	}
}

// WithClock overrides the clock, for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit parses a resume document, creates a workflow ticket and hands
// it to the pipeline. An unrecognized format or unreadable document
// fails synchronously; queue saturation fails fast with ErrOverloaded.
func (s *Service) Submit(data []byte, kind string, job *models.JobRequirement) (string, error) {
	return s.submit(data, kind, job, "")
}

// Resubmit re-enters a reviewed ticket as a fresh ticket carrying a
// back-reference. The original ticket is left untouched in its
// terminal stage.
func (s *Service) Resubmit(previousID string, data []byte, kind string, job *models.JobRequirement) (string, error) {
	prev, err := s.state(previousID)
	if err != nil {
		return "", err
	}
	if stage := prev.Ticket().Stage; !stage.Terminal() {
		return "", fmt.Errorf("ticket %s still in stage %s: %w", previousID, stage, models.ErrNotReady)
	}
	return s.submit(data, kind, job, previousID)
}

func (s *Service) submit(data []byte, kind string, job *models.JobRequirement, previousID string) (string, error) {
	doc, err := parser.Parse(data, kind)
	if err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}

	now := s.now()
	ticket := models.WorkflowTicket{
		ID:               uuid.New().String()[:8],
		CandidateID:      uuid.New().String()[:8],
		Stage:            models.StageIngested,
		Attempts:         map[models.Stage]int{},
		Deadline:         now.Add(s.deadline),
		CreatedAt:        now,
		UpdatedAt:        now,
		PreviousTicketID: previousID,
	}
	if job != nil {
		ticket.JobID = job.JobID
	}

	st := pipeline.NewTicketState(ticket, doc, evidence.NewStore(), job)

	s.mu.Lock()
	s.tickets[ticket.ID] = st
	s.mu.Unlock()

	if err := s.pool.Enqueue(st); err != nil {
		s.mu.Lock()
		delete(s.tickets, ticket.ID)
		s.mu.Unlock()
		s.metrics.TicketRejected()
		return "", fmt.Errorf("submit: %w", err)
	}

	s.metrics.TicketSubmitted()
	s.logger.Info("ticket submitted",
		"ticket_id", ticket.ID, "kind", kind, "job_id", ticket.JobID,
		"previous_ticket_id", previousID)
	return ticket.ID, nil
}

// Status returns the current ticket snapshot.
func (s *Service) Status(id string) (models.WorkflowTicket, error) {
	st, err := s.state(id)
	if err != nil {
		return models.WorkflowTicket{}, err
	}
	return st.Ticket(), nil
}

// Profile returns the validated profile once normalization has run. A
// ticket escalated for review keeps the profile it produced before
// stopping, so the reviewer can inspect it.
func (s *Service) Profile(id string) (*models.CandidateProfile, error) {
	st, err := s.state(id)
	if err != nil {
		return nil, err
	}
	stage := st.Ticket().Stage
	reviewable := stage == models.StageNeedsReview && st.Profile() != nil
	if !stage.AtLeast(models.StageNormalized) && !reviewable {
		return nil, fmt.Errorf("profile for ticket %s: %w", id, models.ErrNotReady)
	}
	return st.Profile(), nil
}

// Bundle returns the final rewrite output and compliance result for a
// completed ticket.
func (s *Service) Bundle(id string) (*models.RewriteBundle, *compliance.Result, error) {
	st, err := s.state(id)
	if err != nil {
		return nil, nil, err
	}
	if st.Ticket().Stage != models.StageDone {
		return nil, nil, fmt.Errorf("bundle for ticket %s: %w", id, models.ErrNotReady)
	}
	return st.Bundle(), st.Compliance(), nil
}

// MatchReport returns the scoring report for a completed ticket that
// had a job requirement attached.
func (s *Service) MatchReport(id string) (*models.MatchReport, error) {
	st, err := s.state(id)
	if err != nil {
		return nil, err
	}
	if st.Ticket().Stage != models.StageDone {
		return nil, fmt.Errorf("match report for ticket %s: %w", id, models.ErrNotReady)
	}
	report := st.Report()
	if report == nil {
		return nil, fmt.Errorf("ticket %s has no job requirement: %w", id, models.ErrNotFound)
	}
	return report, nil
}

// Evidence resolves span ids to their source spans for audit display.
func (s *Service) Evidence(id string, spanIDs []models.SpanID) ([]models.EvidenceSpan, error) {
	st, err := s.state(id)
	if err != nil {
		return nil, err
	}
	store := st.EvidenceStore()
	spans := make([]models.EvidenceSpan, 0, len(spanIDs))
	for _, sid := range spanIDs {
		span, ok := store.Get(sid)
		if !ok {
			return nil, fmt.Errorf("span %s: %w", sid, models.ErrNotFound)
		}
		spans = append(spans, span)
	}
	return spans, nil
}

// Metrics returns a snapshot of the pipeline counters.
func (s *Service) Metrics() metrics.Snapshot {
	return s.metrics.Read()
}

func (s *Service) state(id string) (*pipeline.TicketState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", id, models.ErrNotFound)
	}
	return st, nil
}
