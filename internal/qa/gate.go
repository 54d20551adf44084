// Package qa is the terminal guardrail gate: completeness,
// contradiction and fabrication checks that every ticket must clear
// before Done. Failures are escalated for human review, never patched
// silently.
package qa

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/models"
)

// Gate runs the QA checks.
type Gate struct {
	tuning config.Tuning
	logger *slog.Logger
	now    func() time.Time
}

// New creates a QA gate.
func New(tuning config.Tuning, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{tuning: tuning, logger: logger, now: time.Now}
}

// WithClock overrides the clock, for deterministic tests.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Check runs all three gates. All must pass; the first failure is
// returned as a taxonomy error carrying a structured reason.
func (g *Gate) Check(profile *models.CandidateProfile, bundle *models.RewriteBundle) error {
	if err := g.checkCompleteness(profile); err != nil {
		return err
	}
	if err := g.checkContradictions(profile); err != nil {
		return err
	}
	if err := g.checkFabrication(bundle); err != nil {
		return err
	}
	g.logger.Info("qa gate passed",
		"claims", len(bundle.Claims), "experiences", len(profile.Experiences))
	return nil
}

// checkCompleteness requires every mandatory profile field to be
// present or explicitly listed as unverified.
func (g *Gate) checkCompleteness(profile *models.CandidateProfile) error {
	unverified := make(map[string]bool, len(profile.Unverified))
	for _, f := range profile.Unverified {
		unverified[f] = true
	}

	var missing []string
	if profile.Contact.Name == "" && profile.Contact.Email == "" && !unverified["contact"] {
		missing = append(missing, "contact")
	}
	if profile.Summary == "" && !unverified["summary"] {
		missing = append(missing, "summary")
	}
	if len(profile.Skills) == 0 && !unverified["skills"] {
		missing = append(missing, "skills")
	}
	if len(profile.Experiences) == 0 && len(profile.Education) == 0 {
		missing = append(missing, "experience")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: fields neither populated nor marked unverified: %s",
			models.ErrExtractionIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// checkContradictions rejects overlapping date ranges with conflicting
// employers. Title changes within the same employer across adjacent
// ranges are career progression, not contradictions.
func (g *Gate) checkContradictions(profile *models.CandidateProfile) error {
	tolerance := time.Duration(g.tuning.OverlapToleranceDays) * 24 * time.Hour
	now := g.now()

	for i := 0; i < len(profile.Experiences); i++ {
		for j := i + 1; j < len(profile.Experiences); j++ {
			a, b := profile.Experiences[i], profile.Experiences[j]
			if strings.EqualFold(a.Employer, b.Employer) {
				continue
			}
			if a.Range.Overlaps(b.Range, tolerance, now) {
				return fmt.Errorf("%w: %q at %s overlaps %q at %s",
					models.ErrContradiction,
					a.Title, a.Employer, b.Title, b.Employer)
			}
		}
	}
	return nil
}

// checkFabrication requires every non-suggestion claim in the output
// to be supported by profile evidence. Labeled suggestions are allowed
// to be unsupported; that is what the label is for.
func (g *Gate) checkFabrication(bundle *models.RewriteBundle) error {
	var unsupported []string
	for _, c := range bundle.Claims {
		if c.Supported || c.Suggestion {
			continue
		}
		name := c.Entity
		if name == "" {
			name = c.Text
		}
		unsupported = append(unsupported, fmt.Sprintf("%s (%s)", name, c.EntityKind))
	}
	if len(unsupported) > 0 {
		return fmt.Errorf("%w: unsupported claims: %s",
			models.ErrFabrication, strings.Join(unsupported, "; "))
	}
	return nil
}
