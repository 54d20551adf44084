package models

import (
	"errors"
	"fmt"
)

// Error taxonomy. Transient infrastructure errors are retried with
// bounded backoff; semantic errors (contradiction, fabrication,
// incomplete input) are surfaced for human resolution and never fixed
// silently.
var (
	// ErrUnsupportedFormat: unrecognized document kind. Not retried.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrParse: the document parser could not produce text. Not retried.
	ErrParse = errors.New("document parse failed")
	// ErrExtractionIncomplete: mandatory sections missing. Held for
	// manual input, not defaulted.
	ErrExtractionIncomplete = errors.New("extraction incomplete")
	// ErrGroundingTimeout: all index kinds failed within the deadline.
	ErrGroundingTimeout = errors.New("grounding timeout")
	// ErrFabrication: generated output contains unsupported claims.
	ErrFabrication = errors.New("fabrication detected")
	// ErrContradiction: conflicting profile facts. Always escalated.
	ErrContradiction = errors.New("contradiction detected")
	// ErrOverloaded: worker pool at capacity, caller must retry later.
	ErrOverloaded = errors.New("pipeline overloaded")
	// ErrModelUnavailable: generation service unreachable. Transient.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrModelTimeout: generation call exceeded its deadline. Transient.
	ErrModelTimeout = errors.New("model timeout")
	// ErrIndexTimeout: one index query exceeded its deadline. Transient.
	ErrIndexTimeout = errors.New("index timeout")
	// ErrTicketDeadline: the ticket deadline passed at a stage boundary.
	ErrTicketDeadline = errors.New("ticket deadline exceeded")
	// ErrNotFound: unknown ticket or artifact.
	ErrNotFound = errors.New("not found")
	// ErrNotReady: artifact requested before its stage was reached.
	ErrNotReady = errors.New("not ready")
)

// StageError wraps an error with the pipeline stage it occurred at, so
// user-visible failures always name their stage and a structured
// reason rather than a bare trace.
type StageError struct {
	Stage  Stage
	Reason string
	Err    error
}

func (e *StageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("stage %s: %s: %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError builds a StageError.
func NewStageError(stage Stage, reason string, err error) *StageError {
	return &StageError{Stage: stage, Reason: reason, Err: err}
}

// Transient reports whether an error is a transient infrastructure
// failure eligible for backoff retry. Validation failures that stem
// from the input itself are never transient.
func Transient(err error) bool {
	return errors.Is(err, ErrModelUnavailable) ||
		errors.Is(err, ErrModelTimeout) ||
		errors.Is(err, ErrIndexTimeout)
}
