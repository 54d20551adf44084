package normalize

import (
	"log/slog"
	"strings"
	"time"

	"github.com/tailorflow/tailorflow/internal/models"
)

// Normalizer canonicalizes an extracted profile in place.
type Normalizer struct {
	ontology *Ontology
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a normalizer with the given ontology.
func New(ontology *Ontology, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{ontology: ontology, logger: logger, now: time.Now}
}

// WithClock overrides the clock, for deterministic tests.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// Normalize maps skills and tools to canonical ontology entries,
// deduplicates them case/synonym-insensitively and computes the
// seniority tag. Applying it twice yields an identical result.
func (n *Normalizer) Normalize(p *models.CandidateProfile) {
	p.Skills = n.normalizeSet(p.Skills)
	p.Tools = n.normalizeSet(p.Tools)
	p.Seniority = SeniorityTag(p, n.now())

	unmapped := 0
	for _, s := range p.Skills {
		if s.Unmapped {
			unmapped++
		}
	}
	n.logger.Debug("normalization complete",
		"skills", len(p.Skills),
		"tools", len(p.Tools),
		"unmapped", unmapped,
		"seniority", p.Seniority)
}

// normalizeSet canonicalizes and dedupes one skill set, keeping the
// first occurrence of each canonical name.
func (n *Normalizer) normalizeSet(skills []models.Skill) []models.Skill {
	seen := make(map[string]bool, len(skills))
	out := make([]models.Skill, 0, len(skills))
	for _, s := range skills {
		if s.Canonical == "" && !s.Unmapped {
			if canon, ok := n.ontology.Map(s.Raw); ok {
				s.Canonical = canon
			} else {
				s.Unmapped = true
			}
		}
		key := strings.ToLower(s.Name())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
