package ground

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/models"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

// fakeSearcher returns canned snippets per kind and errors for kinds
// listed in failing.
type fakeSearcher struct {
	snippets map[models.SourceKind][]models.Snippet
	failing  map[models.SourceKind]error
}

func (f *fakeSearcher) Search(ctx context.Context, kind models.SourceKind, vector []float32, keywords []string, k int) ([]models.Snippet, error) {
	if err, ok := f.failing[kind]; ok {
		return nil, err
	}
	return f.snippets[kind], nil
}

func testProfile() *models.CandidateProfile {
	return &models.CandidateProfile{
		Summary: "Backend engineer",
		Skills:  []models.Skill{{Raw: "go", Canonical: "Go"}, {Raw: "k8s", Canonical: "Kubernetes"}},
	}
}

func snippet(kind models.SourceKind, text string, sim float64) models.Snippet {
	return models.Snippet{Text: text, SourceKind: kind, Similarity: sim}
}

func TestGround_AllKindsHealthy(t *testing.T) {
	searcher := &fakeSearcher{snippets: map[models.SourceKind][]models.Snippet{
		models.SourceJob:      {snippet(models.SourceJob, "Go developer role", 0.9)},
		models.SourceOntology: {snippet(models.SourceOntology, "Go is a language", 0.8)},
		models.SourceTemplate: {snippet(models.SourceTemplate, "senior template", 0.7)},
	}}
	a := New(searcher, fakeEmbedder{}, config.DefaultTuning(), time.Second, nil)

	rc, err := a.Ground(context.Background(), testProfile(), nil)
	require.NoError(t, err)
	assert.False(t, rc.Degraded, "no kind failed")
	assert.Len(t, rc.Snippets, 3)
	for _, kind := range models.SourceKinds {
		assert.Len(t, rc.ByKind(kind), 1, "one snippet per kind")
	}
}

// One index kind timing out degrades the context instead of blocking
// the ticket.
func TestGround_PartialFailureDegrades(t *testing.T) {
	searcher := &fakeSearcher{
		snippets: map[models.SourceKind][]models.Snippet{
			models.SourceJob:      {snippet(models.SourceJob, "Go developer role", 0.9)},
			models.SourceOntology: {snippet(models.SourceOntology, "Go is a language", 0.8)},
		},
		failing: map[models.SourceKind]error{
			models.SourceTemplate: fmt.Errorf("search: %w", models.ErrIndexTimeout),
		},
	}
	a := New(searcher, fakeEmbedder{}, config.DefaultTuning(), time.Second, nil)

	rc, err := a.Ground(context.Background(), testProfile(), nil)
	require.NoError(t, err, "partial failure must not fail grounding")
	assert.True(t, rc.Degraded, "context must be marked degraded")
	assert.Len(t, rc.Snippets, 2)
	assert.Empty(t, rc.ByKind(models.SourceTemplate))
}

func TestGround_AllKindsFail(t *testing.T) {
	searcher := &fakeSearcher{failing: map[models.SourceKind]error{
		models.SourceJob:      models.ErrIndexTimeout,
		models.SourceOntology: models.ErrIndexTimeout,
		models.SourceTemplate: models.ErrIndexTimeout,
	}}
	a := New(searcher, fakeEmbedder{}, config.DefaultTuning(), time.Second, nil)

	_, err := a.Ground(context.Background(), testProfile(), nil)
	require.ErrorIs(t, err, models.ErrGroundingTimeout)
}

func TestGround_TopKBound(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.TopKPerKind = 2

	var many []models.Snippet
	for i := 0; i < 10; i++ {
		many = append(many, snippet(models.SourceJob, fmt.Sprintf("snippet %d", i), float64(i)/10))
	}
	searcher := &fakeSearcher{snippets: map[models.SourceKind][]models.Snippet{
		models.SourceJob: many,
	}}
	a := New(searcher, fakeEmbedder{}, tuning, time.Second, nil)

	rc, err := a.Ground(context.Background(), testProfile(), nil)
	require.NoError(t, err)
	require.Len(t, rc.Snippets, 2, "bounded to top-K per kind")
	// Highest combined score first.
	assert.Equal(t, "snippet 9", rc.Snippets[0].Text)
	assert.Equal(t, "snippet 8", rc.Snippets[1].Text)
}

func TestMergeScoring(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tuning := config.DefaultTuning()

	fresh := models.Snippet{Text: "uses Go daily", SourceKind: models.SourceJob, Similarity: 0.5, CreatedAt: now}
	stale := models.Snippet{Text: "uses Go daily", SourceKind: models.SourceJob, Similarity: 0.5, CreatedAt: now.AddDate(-2, 0, 0)}

	out := merge([]models.Snippet{stale, fresh}, []string{"Go"}, tuning, now)
	require.Len(t, out, 2)
	assert.Equal(t, fresh.CreatedAt, out[0].CreatedAt, "fresher snippet ranks first")
	assert.Greater(t, out[0].Combined, out[1].Combined)
	assert.InDelta(t, 1.0, out[0].RecencyWeight, 0.001)
	assert.Less(t, out[1].RecencyWeight, 0.01, "two-year-old snippet decayed to near zero")
}

func TestKeywordOverlap(t *testing.T) {
	got := keywordOverlap("Go and Kubernetes in production", []string{"go", "kubernetes", "terraform"})
	assert.InDelta(t, 2.0/3.0, got, 0.001)
	assert.Zero(t, keywordOverlap("anything", nil))
}
