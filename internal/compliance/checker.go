// Package compliance checks rewritten output against ATS formatting
// and keyword policy. It only reports: coverage gaps are surfaced as
// gaps, never filled with invented content, and suggestions are
// returned for another rewrite pass or human review.
package compliance

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/models"
)

// Result is the outcome of one compliance check.
type Result struct {
	Passed          bool     `json:"passed"`
	KeywordCoverage float64  `json:"keyword_coverage"`
	MissingKeywords []string `json:"missing_keywords,omitempty"`
	Suggestions     []string `json:"suggestions,omitempty"`
}

// Checker runs the ATS compliance stage.
type Checker struct {
	tuning config.Tuning
	logger *slog.Logger
}

// New creates a checker.
func New(tuning config.Tuning, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{tuning: tuning, logger: logger}
}

var passiveRe = regexp.MustCompile(`(?i)\b(?:was|were|been|being|is|are|be)\s+\w+(?:ed|en)\b`)

// Check validates section ordering, keyword coverage against the job
// requirement and readability bounds. A nil job skips the coverage
// check (individual recruiter mode has no job requirement).
func (c *Checker) Check(bundle *models.RewriteBundle, job *models.JobRequirement) Result {
	res := Result{Passed: true, KeywordCoverage: 1}

	c.checkSections(bundle, &res)
	if job != nil {
		c.checkKeywords(bundle, job, &res)
	}
	c.checkReadability(bundle, &res)

	c.logger.Info("compliance check complete",
		"passed", res.Passed,
		"coverage", res.KeywordCoverage,
		"suggestions", len(res.Suggestions))
	return res
}

// checkSections enforces the required section ordering: summary first,
// then experience bullets, then the skills line.
func (c *Checker) checkSections(bundle *models.RewriteBundle, res *Result) {
	if strings.TrimSpace(bundle.Summary) == "" {
		res.Passed = false
		res.Suggestions = append(res.Suggestions, "add a professional summary as the first section")
	}
	if len(bundle.Bullets) == 0 {
		res.Passed = false
		res.Suggestions = append(res.Suggestions, "add experience bullets after the summary")
	}
	if strings.TrimSpace(bundle.SkillsLine) == "" {
		res.Suggestions = append(res.Suggestions, "add a skills line after the experience section")
	}
}

// checkKeywords computes the coverage ratio of job keywords in the
// output. Gaps are reported, not filled.
func (c *Checker) checkKeywords(bundle *models.RewriteBundle, job *models.JobRequirement, res *Result) {
	if len(job.Keywords) == 0 {
		return
	}
	text := strings.ToLower(fullText(bundle))

	hits := 0
	for _, kw := range job.Keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			hits++
		} else {
			res.MissingKeywords = append(res.MissingKeywords, kw)
		}
	}
	res.KeywordCoverage = float64(hits) / float64(len(job.Keywords))

	if res.KeywordCoverage < c.tuning.MinKeywordCoverage {
		res.Passed = false
		res.Suggestions = append(res.Suggestions, fmt.Sprintf(
			"keyword coverage %.0f%% is below the required %.0f%%; missing: %s (only add keywords backed by real experience)",
			res.KeywordCoverage*100, c.tuning.MinKeywordCoverage*100,
			strings.Join(res.MissingKeywords, ", ")))
	}
}

// checkReadability enforces sentence length and passive-voice bounds.
func (c *Checker) checkReadability(bundle *models.RewriteBundle, res *Result) {
	sentences := splitSentences(fullText(bundle))
	if len(sentences) == 0 {
		return
	}

	long, passive := 0, 0
	for _, s := range sentences {
		if len(strings.Fields(s)) > c.tuning.MaxSentenceWords {
			long++
		}
		if passiveRe.MatchString(s) {
			passive++
		}
	}

	if long > 0 {
		res.Passed = false
		res.Suggestions = append(res.Suggestions, fmt.Sprintf(
			"%d sentence(s) exceed %d words; split them", long, c.tuning.MaxSentenceWords))
	}
	if ratio := float64(passive) / float64(len(sentences)); ratio > c.tuning.MaxPassiveRatio {
		res.Passed = false
		res.Suggestions = append(res.Suggestions, fmt.Sprintf(
			"passive voice ratio %.0f%% exceeds %.0f%%; prefer active verbs",
			ratio*100, c.tuning.MaxPassiveRatio*100))
	}
}

func fullText(bundle *models.RewriteBundle) string {
	parts := []string{bundle.Summary}
	parts = append(parts, bundle.Bullets...)
	parts = append(parts, bundle.SkillsLine)
	return strings.Join(parts, "\n")
}

// splitSentences splits on sentence-ending punctuation and newlines;
// bullets count as one sentence each.
func splitSentences(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
