package pipeline

import (
	"sync"

	"github.com/tailorflow/tailorflow/internal/compliance"
	"github.com/tailorflow/tailorflow/internal/evidence"
	"github.com/tailorflow/tailorflow/internal/models"
	"github.com/tailorflow/tailorflow/internal/parser"
)

// TicketState bundles a ticket with every artifact produced on its way
// through the pipeline. The orchestrator worker owns writes; readers
// (status and artifact queries) go through the locked accessors.
type TicketState struct {
	mu sync.RWMutex

	ticket     models.WorkflowTicket
	doc        *parser.Document
	store      *evidence.Store
	job        *models.JobRequirement
	profile    *models.CandidateProfile
	retrieval  *models.RetrievalContext
	bundle     *models.RewriteBundle
	compliance *compliance.Result
	report     *models.MatchReport
}

// NewTicketState creates the state for a freshly submitted ticket.
func NewTicketState(ticket models.WorkflowTicket, doc *parser.Document, store *evidence.Store, job *models.JobRequirement) *TicketState {
	return &TicketState{ticket: ticket, doc: doc, store: store, job: job}
}

// Ticket returns a copy of the current ticket.
func (s *TicketState) Ticket() models.WorkflowTicket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticket
}

// Profile returns the extracted profile, nil until extraction ran.
func (s *TicketState) Profile() *models.CandidateProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Retrieval returns the grounding context, nil until grounding ran.
func (s *TicketState) Retrieval() *models.RetrievalContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retrieval
}

// Bundle returns the rewrite output, nil until the rewrite ran.
func (s *TicketState) Bundle() *models.RewriteBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle
}

// Compliance returns the compliance result, nil until that stage ran.
func (s *TicketState) Compliance() *compliance.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compliance
}

// Report returns the match report, nil when no job was attached or
// scoring has not run.
func (s *TicketState) Report() *models.MatchReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// EvidenceStore returns the span store backing the profile.
func (s *TicketState) EvidenceStore() *evidence.Store {
	return s.store
}

func (s *TicketState) update(fn func(*TicketState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}
