package compliance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/models"
)

func compliantBundle() *models.RewriteBundle {
	return &models.RewriteBundle{
		Summary:    "Backend engineer who ships reliable Go services.",
		Bullets:    []string{"Built payment APIs in Go", "Ran Kubernetes clusters in production"},
		SkillsLine: "Go, Kubernetes, PostgreSQL",
	}
}

func TestCheck_CompliantOutput(t *testing.T) {
	c := New(config.DefaultTuning(), nil)
	job := &models.JobRequirement{Keywords: []string{"Go", "Kubernetes"}}

	res := c.Check(compliantBundle(), job)
	assert.True(t, res.Passed)
	assert.InDelta(t, 1.0, res.KeywordCoverage, 0.001)
	assert.Empty(t, res.MissingKeywords)
}

// Coverage gaps are reported as gaps with suggestions; nothing is
// injected into the output.
func TestCheck_LowCoverageReported(t *testing.T) {
	c := New(config.DefaultTuning(), nil)
	job := &models.JobRequirement{Keywords: []string{"Rust", "Kafka", "Terraform", "Spark"}}

	bundle := compliantBundle()
	res := c.Check(bundle, job)

	assert.False(t, res.Passed)
	assert.InDelta(t, 0.0, res.KeywordCoverage, 0.001)
	assert.ElementsMatch(t, []string{"Rust", "Kafka", "Terraform", "Spark"}, res.MissingKeywords)
	require.NotEmpty(t, res.Suggestions)
	assert.Contains(t, res.Suggestions[len(res.Suggestions)-1], "backed by real experience")
	// Output text untouched.
	assert.NotContains(t, bundle.Summary, "Rust")
}

func TestCheck_MissingSections(t *testing.T) {
	c := New(config.DefaultTuning(), nil)

	res := c.Check(&models.RewriteBundle{SkillsLine: "Go"}, nil)
	assert.False(t, res.Passed)
	assert.GreaterOrEqual(t, len(res.Suggestions), 2, "missing summary and bullets both flagged")
}

func TestCheck_ReadabilityBounds(t *testing.T) {
	tuning := config.DefaultTuning()
	c := New(tuning, nil)

	long := strings.Repeat("word ", tuning.MaxSentenceWords+5)
	res := c.Check(&models.RewriteBundle{
		Summary: long,
		Bullets: []string{"Short bullet"},
	}, nil)

	assert.False(t, res.Passed)
	found := false
	for _, s := range res.Suggestions {
		if strings.Contains(s, "split them") {
			found = true
		}
	}
	assert.True(t, found, "long sentence suggestion emitted")
}

func TestCheck_NilJobSkipsCoverage(t *testing.T) {
	c := New(config.DefaultTuning(), nil)

	res := c.Check(compliantBundle(), nil)
	assert.True(t, res.Passed)
	assert.InDelta(t, 1.0, res.KeywordCoverage, 0.001)
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First point. Second point!\nBullet line")
	assert.Len(t, got, 3)
}
