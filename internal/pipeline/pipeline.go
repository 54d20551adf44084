// Package pipeline drives workflow tickets through the resume
// processing stages. Transitions are strictly forward; transient
// infrastructure failures get bounded backoff retries, semantic
// failures escalate to needs_review and are never patched silently.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tailorflow/tailorflow/internal/compliance"
	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/extract"
	"github.com/tailorflow/tailorflow/internal/match"
	"github.com/tailorflow/tailorflow/internal/metrics"
	"github.com/tailorflow/tailorflow/internal/models"
	"github.com/tailorflow/tailorflow/internal/normalize"
	"github.com/tailorflow/tailorflow/internal/qa"
)

// Grounder retrieves supporting context for a profile. Satisfied by
// *ground.Adapter and by fakes in tests.
type Grounder interface {
	Ground(ctx context.Context, profile *models.CandidateProfile, job *models.JobRequirement) (*models.RetrievalContext, error)
}

// Rewriter produces the tailored text bundle. Satisfied by
// *rewrite.Rewriter and by fakes in tests.
type Rewriter interface {
	Rewrite(ctx context.Context, profile *models.CandidateProfile, rc *models.RetrievalContext) (*models.RewriteBundle, error)
}

// Pipeline holds the stage components and runs tickets through them.
type Pipeline struct {
	extractor  *extract.Extractor
	normalizer *normalize.Normalizer
	grounder   Grounder
	rewriter   Rewriter
	checker    *compliance.Checker
	gate       *qa.Gate
	scorer     *match.Scorer

	tuning       config.Tuning
	modelTimeout time.Duration
	metrics      *metrics.Collector
	logger       *slog.Logger
	now          func() time.Time
	sleep        func(context.Context, time.Duration) error
}

// New assembles a pipeline from its stage components.
func New(
	extractor *extract.Extractor,
	normalizer *normalize.Normalizer,
	grounder Grounder,
	rewriter Rewriter,
	checker *compliance.Checker,
	gate *qa.Gate,
	scorer *match.Scorer,
	tuning config.Tuning,
	modelTimeout time.Duration,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Pipeline{
		extractor:    extractor,
		normalizer:   normalizer,
		grounder:     grounder,
		rewriter:     rewriter,
		checker:      checker,
		gate:         gate,
		scorer:       scorer,
		tuning:       tuning,
		modelTimeout: modelTimeout,
		metrics:      collector,
		logger:       logger,
		now:          time.Now,
		sleep:        sleepCtx,
	}
}

// WithClock overrides the clock and disables real backoff sleeps, for
// deterministic tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	p.sleep = func(context.Context, time.Duration) error { return nil }
	return p
}

// Process runs one ticket to a terminal stage. It owns the ticket
// exclusively for the duration of the call.
func (p *Pipeline) Process(ctx context.Context, st *TicketState) {
	t := st.Ticket()
	logger := p.logger.With("ticket_id", t.ID)
	logger.Info("processing ticket", "stage", t.Stage, "job_id", t.JobID)

	for {
		t = st.Ticket()
		if t.Stage.Terminal() {
			break
		}
		next := t.Stage.Next()
		if next == "" {
			p.transition(st, models.StageFailed, "no forward transition")
			break
		}

		if deadline := t.Deadline; !deadline.IsZero() && p.now().After(deadline) {
			p.failTicket(st, next, models.ErrTicketDeadline)
			break
		}

		if err := p.runStageWithRetry(ctx, st, next); err != nil {
			p.settleFailure(st, next, err)
			break
		}
		p.transition(st, next, "")
	}

	final := st.Ticket()
	p.metrics.TicketFinished(final.Stage)
	logger.Info("ticket settled", "stage", final.Stage, "review_reason", final.ReviewReason)
}

// runStageWithRetry executes one stage, retrying transient failures
// with exponential backoff up to the configured attempt bound.
func (p *Pipeline) runStageWithRetry(ctx context.Context, st *TicketState, stage models.Stage) error {
	attempts := p.tuning.MaxStageAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		st.update(func(s *TicketState) {
			if s.ticket.Attempts == nil {
				s.ticket.Attempts = map[models.Stage]int{}
			}
			s.ticket.Attempts[stage] = attempt
		})

		start := p.now()
		err = p.runStage(ctx, st, stage)
		p.metrics.ObserveStage(stage, p.now().Sub(start), attempt > 1, err != nil)
		if err == nil {
			return nil
		}

		st.update(func(s *TicketState) {
			s.ticket.RecordError(stage, attempt, err.Error(), p.now())
		})

		if !retryable(err) || attempt == attempts {
			return err
		}

		backoff := p.backoff(attempt)
		p.logger.Warn("transient stage failure, retrying",
			"ticket_id", st.Ticket().ID, "stage", stage,
			"attempt", attempt, "backoff", backoff, "error", err)
		if serr := p.sleep(ctx, backoff); serr != nil {
			return err
		}
	}
	return err
}

// retryable reports whether the pipeline should retry the stage.
// Grounding timeouts count as transient even though full grounding
// failure is its own taxonomy entry.
func retryable(err error) bool {
	return models.Transient(err) || errors.Is(err, models.ErrGroundingTimeout)
}

func (p *Pipeline) backoff(attempt int) time.Duration {
	base := time.Duration(p.tuning.BackoffBaseMillis) * time.Millisecond
	limit := time.Duration(p.tuning.BackoffMaxMillis) * time.Millisecond
	// Cap the exponent so the float conversion can never overflow.
	if attempt > 20 {
		attempt = 20
	}
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
	if d > limit || d <= 0 {
		d = limit
	}
	return d
}

// runStage executes the work that moves the ticket INTO the given stage.
func (p *Pipeline) runStage(ctx context.Context, st *TicketState, stage models.Stage) error {
	switch stage {
	case models.StageExtracted:
		profile, err := p.extractor.Extract(st.doc, st.store)
		if err != nil {
			return models.NewStageError(stage, "extraction", err)
		}
		st.update(func(s *TicketState) { s.profile = profile })
		return nil

	case models.StageNormalized:
		p.normalizer.Normalize(st.Profile())
		return nil

	case models.StageGrounded:
		rc, err := p.grounder.Ground(ctx, st.Profile(), st.job)
		if err != nil {
			return models.NewStageError(stage, "grounding", err)
		}
		st.update(func(s *TicketState) {
			s.retrieval = rc
			s.ticket.DegradedGrounding = rc.Degraded
		})
		return nil

	case models.StageRewritten:
		genCtx := ctx
		if p.modelTimeout > 0 {
			var cancel context.CancelFunc
			genCtx, cancel = context.WithTimeout(ctx, p.modelTimeout)
			defer cancel()
		}
		bundle, err := p.rewriter.Rewrite(genCtx, st.Profile(), st.Retrieval())
		if err != nil {
			return models.NewStageError(stage, "rewrite", err)
		}
		st.update(func(s *TicketState) { s.bundle = bundle })
		return nil

	case models.StageComplianceChecked:
		res := p.checker.Check(st.Bundle(), st.job)
		st.update(func(s *TicketState) { s.compliance = &res })
		if !res.Passed {
			return models.NewStageError(stage, "compliance",
				fmt.Errorf("output not compliant: %s", strings.Join(res.Suggestions, "; ")))
		}
		return nil

	case models.StageQAPassed:
		if err := p.gate.Check(st.Profile(), st.Bundle()); err != nil {
			return models.NewStageError(stage, "qa", err)
		}
		return nil

	case models.StageDone:
		if st.job != nil {
			report := p.scorer.Score(st.Profile(), st.job, st.Retrieval())
			st.update(func(s *TicketState) { s.report = report })
		}
		return nil

	default:
		return models.NewStageError(stage, "unknown stage", models.ErrNotFound)
	}
}

// settleFailure routes a stage failure to its terminal stage. Semantic
// guardrail failures go to needs_review with a structured reason;
// everything else is a hard failure.
func (p *Pipeline) settleFailure(st *TicketState, stage models.Stage, err error) {
	switch {
	case errors.Is(err, models.ErrContradiction),
		errors.Is(err, models.ErrFabrication),
		errors.Is(err, models.ErrExtractionIncomplete):
		p.review(st, stage, err)
	case stage == models.StageComplianceChecked && !models.Transient(err):
		p.review(st, stage, err)
	default:
		p.failTicket(st, stage, err)
	}
}

func (p *Pipeline) review(st *TicketState, stage models.Stage, err error) {
	st.update(func(s *TicketState) {
		s.ticket.Stage = models.StageNeedsReview
		s.ticket.ReviewReason = err.Error()
		s.ticket.UpdatedAt = p.now()
	})
	p.logger.Warn("ticket escalated for review",
		"ticket_id", st.Ticket().ID, "stage", stage, "reason", err)
}

func (p *Pipeline) failTicket(st *TicketState, stage models.Stage, err error) {
	st.update(func(s *TicketState) {
		s.ticket.RecordError(stage, 0, err.Error(), p.now())
		s.ticket.Stage = models.StageFailed
		s.ticket.UpdatedAt = p.now()
	})
	p.logger.Error("ticket failed",
		"ticket_id", st.Ticket().ID, "stage", stage, "error", err)
}

func (p *Pipeline) transition(st *TicketState, stage models.Stage, reason string) {
	st.update(func(s *TicketState) {
		s.ticket.Stage = stage
		if reason != "" {
			s.ticket.ReviewReason = reason
		}
		s.ticket.UpdatedAt = p.now()
	})
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
