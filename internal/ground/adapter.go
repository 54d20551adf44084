// Package ground builds the bounded retrieval context for one
// (profile, job) pair by fanning out to the three logical index kinds
// concurrently and merging ranked results.
package ground

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/index"
	"github.com/tailorflow/tailorflow/internal/models"
)

// Embedder produces a query vector for index lookup.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Adapter queries the job, ontology and template indices and merges
// their results into one ranked, bounded RetrievalContext.
type Adapter struct {
	index    index.Searcher
	embedder Embedder
	tuning   config.Tuning
	timeout  time.Duration // per index call
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a grounding adapter.
func New(searcher index.Searcher, embedder Embedder, tuning config.Tuning, timeout time.Duration, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		index:    searcher,
		embedder: embedder,
		tuning:   tuning,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the clock, for deterministic tests.
func (a *Adapter) WithClock(now func() time.Time) *Adapter {
	a.now = now
	return a
}

type kindResult struct {
	kind     models.SourceKind
	snippets []models.Snippet
	err      error
}

// Ground fans out one query per index kind, each with its own timeout,
// and joins before merging. Per-kind failures degrade gracefully: the
// context is built from whatever arrived and Degraded is set. Only
// when every kind fails does Ground return models.ErrGroundingTimeout.
func (a *Adapter) Ground(ctx context.Context, profile *models.CandidateProfile, job *models.JobRequirement) (*models.RetrievalContext, error) {
	queries := a.buildQueries(profile, job)
	keywords := groundingKeywords(profile, job)

	results := make(chan kindResult, len(models.SourceKinds))
	var wg sync.WaitGroup
	for _, kind := range models.SourceKinds {
		wg.Add(1)
		go func(kind models.SourceKind) {
			defer wg.Done()
			snippets, err := a.queryKind(ctx, kind, queries[kind], keywords)
			results <- kindResult{kind: kind, snippets: snippets, err: err}
		}(kind)
	}
	wg.Wait()
	close(results)

	var all []models.Snippet
	degraded := false
	failures := 0
	for res := range results {
		if res.err != nil {
			failures++
			degraded = true
			a.logger.Warn("index kind failed, proceeding with partial context",
				"kind", res.kind, "error", res.err)
			continue
		}
		all = append(all, res.snippets...)
	}

	if failures == len(models.SourceKinds) {
		return nil, fmt.Errorf("%w: all index kinds failed", models.ErrGroundingTimeout)
	}

	merged := merge(all, keywords, a.tuning, a.now())
	a.logger.Info("grounding complete",
		"snippets", len(merged), "degraded", degraded, "failed_kinds", failures)
	return &models.RetrievalContext{Snippets: merged, Degraded: degraded}, nil
}

// queryKind embeds the kind-specific query and searches one index with
// its own deadline.
func (a *Adapter) queryKind(ctx context.Context, kind models.SourceKind, query string, keywords []string) ([]models.Snippet, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	vector, err := a.embedder.Embed(callCtx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return a.index.Search(callCtx, kind, vector, keywords, a.tuning.TopKPerKind)
}

// buildQueries composes the retrieval query per index kind from the
// profile and (optional) job requirement.
func (a *Adapter) buildQueries(profile *models.CandidateProfile, job *models.JobRequirement) map[models.SourceKind]string {
	skills := strings.Join(profile.SkillNames(), ", ")

	jobQuery := profile.Summary
	if job != nil {
		jobQuery = job.Title + " " + strings.Join(job.Keywords, " ")
	}
	if strings.TrimSpace(jobQuery) == "" {
		jobQuery = skills
	}

	templateQuery := profile.Seniority + " " + strings.Join(profile.DomainTags, " ")
	if strings.TrimSpace(templateQuery) == "" {
		templateQuery = "resume template"
	}

	return map[models.SourceKind]string{
		models.SourceJob:      jobQuery,
		models.SourceOntology: skills,
		models.SourceTemplate: templateQuery,
	}
}

// groundingKeywords collects the keyword set used for overlap scoring:
// job keywords when present, profile skill names otherwise.
func groundingKeywords(profile *models.CandidateProfile, job *models.JobRequirement) []string {
	if job != nil && len(job.Keywords) > 0 {
		return job.Keywords
	}
	return profile.SkillNames()
}
