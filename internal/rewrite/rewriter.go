// Package rewrite produces job-tailored candidate text constrained to
// the validated profile. The generation call is never trusted: every
// named entity in the output is re-verified against the profile, and
// anything unmatched is stripped, downgraded to a labeled suggestion,
// or sent back for one stricter regeneration.
package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/llm"
	"github.com/tailorflow/tailorflow/internal/models"
)

// Generator is the model-invocation contract. Satisfied by *llm.Model
// and by fakes in tests.
type Generator interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Rewriter runs the rewrite stage.
type Rewriter struct {
	generator Generator
	tuning    config.Tuning
	logger    *slog.Logger
}

// New creates a rewriter.
func New(generator Generator, tuning config.Tuning, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{generator: generator, tuning: tuning, logger: logger}
}

// generated is the expected JSON shape of the model response.
type generated struct {
	Summary    string   `json:"summary"`
	Bullets    []string `json:"bullets"`
	SkillsLine string   `json:"skills_line"`
}

// Rewrite generates tailored text and enforces the no-fabrication
// contract post-generation. Unsupported entities trigger regeneration
// with a stricter constraint up to the configured retry bound; whatever
// still fails after that is stripped or reworded as a suggestion.
func (r *Rewriter) Rewrite(ctx context.Context, profile *models.CandidateProfile, rc *models.RetrievalContext) (*models.RewriteBundle, error) {
	v := newVerifier(profile, r.tuning.ClaimMinSimilarity)
	userPrompt := buildUserPrompt(profile, rc)
	system := systemPrompt

	var gen *generated
	var claims []models.EvidenceClaim

	attempts := r.tuning.RewriteMaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		raw, err := r.generator.GenerateWithSystem(ctx, system, userPrompt)
		if err != nil {
			return nil, fmt.Errorf("generate rewrite: %w", err)
		}

		gen, err = parseResponse(raw)
		if err != nil {
			r.logger.Warn("unparseable rewrite response", "attempt", attempt, "error", err)
			if attempt == attempts {
				return nil, fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
			}
			continue
		}

		claims = r.verifyAll(v, gen)
		violations := unsupportedEntities(claims)
		if len(violations) == 0 {
			break
		}

		r.logger.Info("rewrite contains unsupported entities",
			"attempt", attempt, "entities", violations)
		if attempt < attempts {
			// Regenerate with the violations named explicitly.
			system = systemPrompt + fmt.Sprintf(stricterSuffix, strings.Join(violations, ", "))
		}
	}

	if gen == nil {
		return nil, fmt.Errorf("%w: no usable rewrite produced", models.ErrModelUnavailable)
	}

	bundle := r.remediate(v, gen)
	r.logger.Info("rewrite complete",
		"bullets", len(bundle.Bullets), "claims", len(bundle.Claims))
	return bundle, nil
}

// verifyAll runs the verifier over every generated text unit.
func (r *Rewriter) verifyAll(v *verifier, gen *generated) []models.EvidenceClaim {
	var claims []models.EvidenceClaim
	claims = append(claims, v.verifyUnit(gen.Summary)...)
	for _, b := range gen.Bullets {
		claims = append(claims, v.verifyUnit(b)...)
	}
	claims = append(claims, v.verifyUnit(gen.SkillsLine)...)
	return claims
}

// remediate applies the final constraint to whatever generation left:
// units with unsupported tool mentions become conditional suggestions,
// units with any other unsupported entity are stripped entirely.
func (r *Rewriter) remediate(v *verifier, gen *generated) *models.RewriteBundle {
	bundle := &models.RewriteBundle{}

	keep := func(text string) (string, []models.EvidenceClaim, bool) {
		claims := v.verifyUnit(text)
		for _, c := range claims {
			if c.Supported {
				continue
			}
			if c.EntityKind == models.EntityTool {
				// Downgrade to a labeled suggestion.
				suggestion := fmt.Sprintf("Consider highlighting experience with %s.", c.Entity)
				return suggestion, []models.EvidenceClaim{{
					Text:       suggestion,
					Entity:     c.Entity,
					EntityKind: models.EntityTool,
					Supported:  false,
					Suggestion: true,
				}}, true
			}
			r.logger.Warn("stripping fabricated statement",
				"entity", c.Entity, "kind", c.EntityKind)
			return "", nil, false
		}
		return text, claims, true
	}

	if text, claims, ok := keep(gen.Summary); ok {
		bundle.Summary = text
		bundle.Claims = append(bundle.Claims, claims...)
	}
	for _, b := range gen.Bullets {
		if text, claims, ok := keep(b); ok && text != "" {
			bundle.Bullets = append(bundle.Bullets, text)
			bundle.Claims = append(bundle.Claims, claims...)
		}
	}
	if text, claims, ok := keep(gen.SkillsLine); ok {
		bundle.SkillsLine = text
		bundle.Claims = append(bundle.Claims, claims...)
	}
	return bundle
}

// unsupportedEntities lists the distinct entity names of unsupported
// non-suggestion claims.
func unsupportedEntities(claims []models.EvidenceClaim) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range claims {
		if c.Supported || c.Suggestion || c.Entity == "" {
			continue
		}
		if !seen[c.Entity] {
			seen[c.Entity] = true
			out = append(out, c.Entity)
		}
	}
	return out
}

func parseResponse(raw string) (*generated, error) {
	cleaned := llm.ExtractJSON(raw)
	var gen generated
	if err := json.Unmarshal([]byte(cleaned), &gen); err != nil {
		return nil, fmt.Errorf("parse rewrite response: %w", err)
	}
	if gen.Summary == "" && len(gen.Bullets) == 0 {
		return nil, fmt.Errorf("empty rewrite response")
	}
	return &gen, nil
}
