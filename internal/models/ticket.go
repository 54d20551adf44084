package models

import "time"

// Stage is a pipeline state for a WorkflowTicket.
type Stage string

const (
	StageIngested          Stage = "ingested"
	StageExtracted         Stage = "extracted"
	StageNormalized        Stage = "normalized"
	StageGrounded          Stage = "grounded"
	StageRewritten         Stage = "rewritten"
	StageComplianceChecked Stage = "compliance_checked"
	StageQAPassed          Stage = "qa_passed"
	StageNeedsReview       Stage = "needs_review"
	StageDone              Stage = "done"
	StageFailed            Stage = "failed"
)

// forward lists the strictly-forward automated transitions. NeedsReview
// is terminal for automation: re-entering the pipeline is modeled as a
// fresh ticket carrying a back-reference.
var forward = map[Stage]Stage{
	StageIngested:          StageExtracted,
	StageExtracted:         StageNormalized,
	StageNormalized:        StageGrounded,
	StageGrounded:          StageRewritten,
	StageRewritten:         StageComplianceChecked,
	StageComplianceChecked: StageQAPassed,
	StageQAPassed:          StageDone,
}

// Next returns the next forward stage, or "" for terminal stages.
func (s Stage) Next() Stage { return forward[s] }

// Terminal reports whether no automated transition leaves this stage.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed || s == StageNeedsReview
}

// AtLeast reports whether s has reached the given stage in the forward
// order. Terminal failure states only satisfy themselves.
func (s Stage) AtLeast(min Stage) bool {
	order := []Stage{
		StageIngested, StageExtracted, StageNormalized, StageGrounded,
		StageRewritten, StageComplianceChecked, StageQAPassed, StageDone,
	}
	pos := func(st Stage) int {
		for i, o := range order {
			if o == st {
				return i
			}
		}
		return -1
	}
	sp, mp := pos(s), pos(min)
	return sp >= 0 && mp >= 0 && sp >= mp
}

// TicketError is one structured entry in a ticket's error log.
type TicketError struct {
	Stage   Stage     `json:"stage"`
	Attempt int       `json:"attempt"`
	Reason  string    `json:"reason"`
	At      time.Time `json:"at"`
}

// WorkflowTicket tracks one resume/job pair through the pipeline. It is
// mutated only by the orchestrator, which owns it exclusively for its
// lifetime.
type WorkflowTicket struct {
	ID          string        `json:"id"`
	CandidateID string        `json:"candidate_id"`
	JobID       string        `json:"job_id,omitempty"`
	Stage       Stage         `json:"stage"`
	Attempts    map[Stage]int `json:"attempts"`
	Errors      []TicketError `json:"errors,omitempty"`
	Deadline    time.Time     `json:"deadline"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// DegradedGrounding is set when at least one index kind timed out
	// and the ticket proceeded on partial retrieval results.
	DegradedGrounding bool `json:"degraded_grounding,omitempty"`

	// ReviewReason holds the structured reason for a NeedsReview
	// transition.
	ReviewReason string `json:"review_reason,omitempty"`

	// PreviousTicketID back-references the ticket this one resubmits,
	// set when a human re-enters a NeedsReview ticket.
	PreviousTicketID string `json:"previous_ticket_id,omitempty"`
}

// RecordError appends a structured error entry and bumps UpdatedAt.
func (t *WorkflowTicket) RecordError(stage Stage, attempt int, reason string, now time.Time) {
	t.Errors = append(t.Errors, TicketError{Stage: stage, Attempt: attempt, Reason: reason, At: now})
	t.UpdatedAt = now
}

// LastError returns the most recent error entry, or nil.
func (t *WorkflowTicket) LastError() *TicketError {
	if len(t.Errors) == 0 {
		return nil
	}
	return &t.Errors[len(t.Errors)-1]
}
