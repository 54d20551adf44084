package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorflow/tailorflow/internal/compliance"
	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/extract"
	"github.com/tailorflow/tailorflow/internal/match"
	"github.com/tailorflow/tailorflow/internal/metrics"
	"github.com/tailorflow/tailorflow/internal/models"
	"github.com/tailorflow/tailorflow/internal/normalize"
	"github.com/tailorflow/tailorflow/internal/pipeline"
	"github.com/tailorflow/tailorflow/internal/qa"
)

const serviceResume = `Jane Doe
jane@example.com
Berlin, Germany

Summary
Backend engineer focused on Go services.

Experience
Senior Engineer at Acme Corp, Jan 2021 - Present
- Ran Go services on Kubernetes

Education
B.Sc. Computer Science, TU Berlin, 2017

Skills
Go, Python
`

const conflictingResume = `Jane Doe
jane@example.com

Summary
Engineer.

Experience
Engineer at Acme Corp, Jan 2019 - Jan 2021
- Built services in Go
Engineer at Globex Inc, Jan 2020 - Jan 2022
- Built other services in Go

Skills
Go
`

type passthroughGrounder struct{}

func (passthroughGrounder) Ground(ctx context.Context, profile *models.CandidateProfile, job *models.JobRequirement) (*models.RetrievalContext, error) {
	return &models.RetrievalContext{}, nil
}

type passthroughRewriter struct{}

func (passthroughRewriter) Rewrite(ctx context.Context, profile *models.CandidateProfile, rc *models.RetrievalContext) (*models.RewriteBundle, error) {
	return &models.RewriteBundle{
		Summary:    "Backend engineer shipping Go services.",
		Bullets:    []string{"Ran Go services on Kubernetes at Acme Corp"},
		SkillsLine: "Go, Python",
		Claims: []models.EvidenceClaim{
			{Entity: "Go", EntityKind: models.EntityTool, Supported: true},
		},
	}, nil
}

func newTestService(t *testing.T) (*Service, *pipeline.Pool) {
	t.Helper()
	tuning := config.DefaultTuning()
	collector := metrics.NewCollector()
	pipe := pipeline.New(
		extract.New(nil),
		normalize.New(normalize.NewOntology(tuning.OntologyMinSimilarity), nil),
		passthroughGrounder{},
		passthroughRewriter{},
		compliance.New(tuning, nil),
		qa.New(tuning, nil),
		match.New(tuning, nil),
		tuning, time.Second, collector, nil,
	)
	pool := pipeline.NewPool(pipe, 2, 16, nil)
	svc := New(pool, time.Minute, collector, nil)
	return svc, pool
}

func awaitTerminal(t *testing.T, svc *Service, id string) models.WorkflowTicket {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		ticket, err := svc.Status(id)
		require.NoError(t, err)
		if ticket.Stage.Terminal() {
			return ticket
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("ticket did not settle in time")
	return models.WorkflowTicket{}
}

func TestSubmitAndComplete(t *testing.T) {
	svc, pool := newTestService(t)
	defer pool.Close()

	job := &models.JobRequirement{JobID: "job-1", Keywords: []string{"Go"}}
	id, err := svc.Submit([]byte(serviceResume), "txt", job)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	ticket := awaitTerminal(t, svc, id)
	assert.Equal(t, models.StageDone, ticket.Stage)

	profile, err := svc.Profile(id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Contact.Name)

	bundle, res, err := svc.Bundle(id)
	require.NoError(t, err)
	assert.NotEmpty(t, bundle.Bullets)
	require.NotNil(t, res)
	assert.True(t, res.Passed)

	report, err := svc.MatchReport(id)
	require.NoError(t, err)
	assert.Equal(t, "job-1", report.JobID)

	snap := svc.Metrics()
	assert.Equal(t, 1, snap.Submitted)
	assert.Equal(t, 1, snap.Done)
}

func TestSubmit_UnsupportedFormatFailsSynchronously(t *testing.T) {
	svc, pool := newTestService(t)
	defer pool.Close()

	_, err := svc.Submit([]byte("resume"), "pdf", nil)
	require.ErrorIs(t, err, models.ErrUnsupportedFormat)
}

func TestArtifacts_NotFoundAndNotReady(t *testing.T) {
	svc, pool := newTestService(t)
	defer pool.Close()

	_, err := svc.Status("missing")
	require.ErrorIs(t, err, models.ErrNotFound)

	id, err := svc.Submit([]byte(serviceResume), "txt", nil)
	require.NoError(t, err)
	ticket := awaitTerminal(t, svc, id)
	require.Equal(t, models.StageDone, ticket.Stage)

	// No job attached: completed ticket has no match report.
	_, err = svc.MatchReport(id)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestProfile_FetchableAfterReviewEscalation(t *testing.T) {
	svc, pool := newTestService(t)
	defer pool.Close()

	id, err := svc.Submit([]byte(conflictingResume), "txt", nil)
	require.NoError(t, err)

	ticket := awaitTerminal(t, svc, id)
	require.Equal(t, models.StageNeedsReview, ticket.Stage)

	profile, err := svc.Profile(id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Contact.Name)

	// Stages past the escalation point produced nothing to fetch.
	_, _, err = svc.Bundle(id)
	require.ErrorIs(t, err, models.ErrNotReady)
}

func TestResubmit_BackReferencesPrevious(t *testing.T) {
	svc, pool := newTestService(t)
	defer pool.Close()

	first, err := svc.Submit([]byte(serviceResume), "txt", nil)
	require.NoError(t, err)
	awaitTerminal(t, svc, first)

	second, err := svc.Resubmit(first, []byte(serviceResume), "md", nil)
	require.NoError(t, err)

	ticket := awaitTerminal(t, svc, second)
	assert.Equal(t, first, ticket.PreviousTicketID)
	assert.Equal(t, models.StageDone, ticket.Stage)

	// The original ticket is untouched.
	orig, err := svc.Status(first)
	require.NoError(t, err)
	assert.Equal(t, models.StageDone, orig.Stage)
}

func TestResubmit_UnknownTicket(t *testing.T) {
	svc, pool := newTestService(t)
	defer pool.Close()

	_, err := svc.Resubmit("missing", []byte(serviceResume), "txt", nil)
	require.ErrorIs(t, err, models.ErrNotFound)
}
