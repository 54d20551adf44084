// Package match computes job-fit scores with evidence-cited rationale.
// Must-have requirements are boolean gates: one miss caps the overall
// score at a configured ceiling no matter how strong the soft signals
// are.
package match

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/models"
	"github.com/tailorflow/tailorflow/internal/normalize"
)

// Scorer runs the matching engine.
type Scorer struct {
	tuning config.Tuning
	logger *slog.Logger
	now    func() time.Time
}

// New creates a scorer.
func New(tuning config.Tuning, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{tuning: tuning, logger: logger, now: time.Now}
}

// WithClock overrides the clock, for deterministic tests.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score computes the match report for one (profile, job) pair. The
// retrieval context feeds the semantic-coverage sub-score; a nil
// context simply zeroes that component.
func (s *Scorer) Score(profile *models.CandidateProfile, job *models.JobRequirement, rc *models.RetrievalContext) *models.MatchReport {
	report := &models.MatchReport{
		JobID:     job.JobID,
		SubScores: map[string]float64{},
	}

	gatesPassed := s.checkMustHaves(profile, job, report)

	kw := s.keywordCoverage(profile, job, report)
	sem := s.semanticCoverage(rc, report)
	sen := s.seniorityAlignment(profile, job, report)
	rec := s.skillRecency(profile, job, report)

	w := s.tuning.Match
	soft := w.KeywordCoverage*kw + w.SemanticCoverage*sem +
		w.SeniorityAlignment*sen + w.SkillRecency*rec
	total := w.KeywordCoverage + w.SemanticCoverage + w.SeniorityAlignment + w.SkillRecency
	if total > 0 {
		soft /= total
	}

	report.Score = soft
	if !gatesPassed && soft > s.tuning.MustHaveCeiling {
		report.Score = s.tuning.MustHaveCeiling
		report.Capped = true
	}

	s.logger.Info("match scored",
		"job_id", job.JobID, "score", report.Score, "capped", report.Capped)
	return report
}

// checkMustHaves evaluates every hard gate, recording results and
// rationale. Returns false if any gate failed.
func (s *Scorer) checkMustHaves(profile *models.CandidateProfile, job *models.JobRequirement, report *models.MatchReport) bool {
	passed := true
	now := s.now()

	for _, req := range job.MustHaves {
		result := models.MustHaveResult{Requirement: req}

		switch req.Kind {
		case models.MustHaveSkillYears:
			years, spans := s.skillYears(profile, req.Skill, now)
			result.Passed = years >= req.MinYears
			result.SpanIDs = spans
			result.Detail = fmt.Sprintf("%.1f years of %s (requires %.1f)", years, req.Skill, req.MinYears)

		case models.MustHaveCertification:
			for _, cert := range profile.Certifications {
				if certificationMatches(cert.Name, req.Value) {
					result.Passed = true
					result.SpanIDs = cert.SpanIDs
					result.Detail = cert.Name
					break
				}
			}
			if !result.Passed {
				result.Detail = fmt.Sprintf("no certification matching %q", req.Value)
			}

		case models.MustHaveLocation:
			result.Passed = job.Remote || containsFold(profile.Contact.Location, req.Value)
			result.SpanIDs = profile.Contact.SpanIDs
			if !result.Passed {
				result.Detail = fmt.Sprintf("location %q does not match %q", profile.Contact.Location, req.Value)
			}

		case models.MustHaveAuthorization:
			// Authorization cannot be inferred from resume evidence; an
			// unverifiable hard requirement fails closed.
			result.Detail = "work authorization not verifiable from resume"

		default:
			result.Detail = fmt.Sprintf("unknown must-have kind %q", req.Kind)
		}

		if !result.Passed {
			passed = false
		}
		report.MustHaves = append(report.MustHaves, result)
	}
	return passed
}

// skillYears returns the overlap-adjusted years of engagements that
// mention the skill in their title, bullets or the profile skill set.
func (s *Scorer) skillYears(profile *models.CandidateProfile, skill string, now time.Time) (float64, []models.SpanID) {
	sub := models.CandidateProfile{}
	var spans []models.SpanID
	for _, exp := range profile.Experiences {
		if experienceMentions(exp, skill) {
			sub.Experiences = append(sub.Experiences, exp)
			spans = append(spans, exp.SpanIDs...)
		}
	}
	return sub.TotalYears(now), spans
}

// certificationMatches accepts substring, high lexical similarity or
// full token containment ("AWS Solutions Architect" inside "AWS
// Certified Solutions Architect - Associate").
func certificationMatches(certName, required string) bool {
	name := strings.ToLower(certName)
	want := strings.ToLower(required)
	if strings.Contains(name, want) || strings.Contains(want, name) {
		return true
	}
	if normalize.Similarity(name, want) >= 0.8 {
		return true
	}
	for _, token := range strings.Fields(want) {
		if !strings.Contains(name, token) {
			return false
		}
	}
	return true
}

func experienceMentions(exp models.Experience, skill string) bool {
	if containsFold(exp.Title, skill) {
		return true
	}
	for _, b := range exp.Bullets {
		if containsFold(b.Text, skill) {
			return true
		}
	}
	return false
}

// keywordCoverage scores the fraction of job keywords the profile
// covers, citing the spans of matching skills and bullets.
func (s *Scorer) keywordCoverage(profile *models.CandidateProfile, job *models.JobRequirement, report *models.MatchReport) float64 {
	if len(job.Keywords) == 0 {
		report.SubScores[models.CriterionKeywordCoverage] = 1
		return 1
	}

	var spans []models.SpanID
	hits := 0
	var matched []string
	for _, kw := range job.Keywords {
		if ids, ok := profileMention(profile, kw); ok {
			hits++
			matched = append(matched, kw)
			spans = append(spans, ids...)
		}
	}

	score := float64(hits) / float64(len(job.Keywords))
	report.SubScores[models.CriterionKeywordCoverage] = score
	report.Rationale = append(report.Rationale, models.Rationale{
		Criterion: models.CriterionKeywordCoverage,
		Detail:    fmt.Sprintf("%d/%d keywords covered: %s", hits, len(job.Keywords), strings.Join(matched, ", ")),
		SpanIDs:   spans,
		Weight:    s.tuning.Match.KeywordCoverage,
	})
	return score
}

// semanticCoverage averages the similarity of job-kind snippets in the
// retrieval context. Snippets carry no profile spans, so the rationale
// cites the summary spans that produced the query.
func (s *Scorer) semanticCoverage(rc *models.RetrievalContext, report *models.MatchReport) float64 {
	score := 0.0
	detail := "no retrieval context"
	if rc != nil {
		jobSnippets := rc.ByKind(models.SourceJob)
		if len(jobSnippets) > 0 {
			sum := 0.0
			for _, sn := range jobSnippets {
				sum += sn.Similarity
			}
			score = sum / float64(len(jobSnippets))
			detail = fmt.Sprintf("mean similarity over %d job snippets", len(jobSnippets))
		}
	}
	report.SubScores[models.CriterionSemanticCoverage] = score
	if score > 0 {
		report.Rationale = append(report.Rationale, models.Rationale{
			Criterion: models.CriterionSemanticCoverage,
			Detail:    detail,
			Weight:    s.tuning.Match.SemanticCoverage,
		})
	}
	return score
}

// seniorityAlignment scores band distance between profile and job.
func (s *Scorer) seniorityAlignment(profile *models.CandidateProfile, job *models.JobRequirement, report *models.MatchReport) float64 {
	score := 0.5 // neutral when either side is unknown or ambiguous
	detail := "seniority unknown or ambiguous"

	bands := map[string]int{
		models.SeniorityJunior: 0, models.SeniorityMid: 1,
		models.SenioritySenior: 2, models.SeniorityLead: 3,
	}
	pi, pok := bands[profile.Seniority]
	ji, jok := bands[job.Seniority]
	if pok && jok {
		diff := pi - ji
		if diff < 0 {
			diff = -diff
		}
		score = 1 - float64(diff)/3
		detail = fmt.Sprintf("profile %s vs job %s", profile.Seniority, job.Seniority)
	}

	var spans []models.SpanID
	for _, exp := range profile.Experiences {
		spans = append(spans, exp.SpanIDs...)
	}
	report.SubScores[models.CriterionSeniorityAlignment] = score
	report.Rationale = append(report.Rationale, models.Rationale{
		Criterion: models.CriterionSeniorityAlignment,
		Detail:    detail,
		SpanIDs:   spans,
		Weight:    s.tuning.Match.SeniorityAlignment,
	})
	return score
}

// skillRecency weights matched keywords by how recently the candidate
// used them, with the configured exponential half-life decay.
func (s *Scorer) skillRecency(profile *models.CandidateProfile, job *models.JobRequirement, report *models.MatchReport) float64 {
	keywords := job.Keywords
	if len(keywords) == 0 {
		keywords = profile.SkillNames()
	}
	if len(keywords) == 0 {
		report.SubScores[models.CriterionSkillRecency] = 0
		return 0
	}

	now := s.now()
	var spans []models.SpanID
	sum := 0.0
	matched := 0
	for _, kw := range keywords {
		best := 0.0
		var bestSpans []models.SpanID
		for _, exp := range profile.Experiences {
			if !experienceMentions(exp, kw) {
				continue
			}
			end := exp.Range.End
			if exp.Range.Open() {
				end = now
			}
			ageDays := now.Sub(end).Hours() / 24
			w := 1.0
			if ageDays > 0 && s.tuning.RecencyHalfLifeDays > 0 {
				w = decay(ageDays, s.tuning.RecencyHalfLifeDays*4)
			}
			if w > best {
				best = w
				bestSpans = exp.SpanIDs
			}
		}
		if best > 0 {
			matched++
			sum += best
			spans = append(spans, bestSpans...)
		}
	}

	score := sum / float64(len(keywords))
	report.SubScores[models.CriterionSkillRecency] = score
	if matched > 0 {
		report.Rationale = append(report.Rationale, models.Rationale{
			Criterion: models.CriterionSkillRecency,
			Detail:    fmt.Sprintf("%d keyword(s) with recency-weighted usage", matched),
			SpanIDs:   spans,
			Weight:    s.tuning.Match.SkillRecency,
		})
	}
	return score
}

func decay(ageDays, halfLifeDays float64) float64 {
	return math.Exp2(-ageDays / halfLifeDays)
}

// profileMention finds a keyword anywhere in the profile, returning
// the evidence spans of the first match.
func profileMention(profile *models.CandidateProfile, kw string) ([]models.SpanID, bool) {
	for _, set := range [][]models.Skill{profile.Skills, profile.Tools} {
		for _, sk := range set {
			if containsFold(sk.Name(), kw) || containsFold(sk.Raw, kw) {
				return sk.SpanIDs, true
			}
		}
	}
	for _, exp := range profile.Experiences {
		if containsFold(exp.Title, kw) {
			return exp.SpanIDs, true
		}
		for _, b := range exp.Bullets {
			if containsFold(b.Text, kw) {
				return b.SpanIDs, true
			}
		}
	}
	if containsFold(profile.Summary, kw) {
		return profile.SummarySpans, true
	}
	return nil, false
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
