package qa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func month(y, m int) time.Time {
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
}

func validProfile() *models.CandidateProfile {
	return &models.CandidateProfile{
		Contact: models.Contact{Name: "Jane Doe", Email: "jane@example.com"},
		Summary: "Backend engineer.",
		Skills:  []models.Skill{{Raw: "go", Canonical: "Go"}},
		Experiences: []models.Experience{{
			Title:    "Engineer",
			Employer: "Acme Corp",
			Range:    models.DateRange{Start: month(2019, 1), End: month(2021, 1)},
		}},
	}
}

func supportedBundle() *models.RewriteBundle {
	return &models.RewriteBundle{
		Summary: "Go engineer.",
		Bullets: []string{"Built services in Go"},
		Claims: []models.EvidenceClaim{
			{Entity: "Go", EntityKind: models.EntityTool, Supported: true, SpanIDs: []models.SpanID{"s1"}},
		},
	}
}

func TestCheck_Passes(t *testing.T) {
	g := New(config.DefaultTuning(), nil).WithClock(fixedNow)
	require.NoError(t, g.Check(validProfile(), supportedBundle()))
}

// Overlapping engagements at different employers are contradictory and
// always escalate; they are never resolved by guessing.
func TestCheck_ContradictoryDates(t *testing.T) {
	g := New(config.DefaultTuning(), nil).WithClock(fixedNow)

	p := validProfile()
	p.Experiences = []models.Experience{
		{Title: "Engineer", Employer: "Acme Corp",
			Range: models.DateRange{Start: month(2019, 1), End: month(2021, 1)}},
		{Title: "Engineer", Employer: "Globex Inc",
			Range: models.DateRange{Start: month(2020, 1), End: month(2022, 1)}},
	}

	err := g.Check(p, supportedBundle())
	require.ErrorIs(t, err, models.ErrContradiction)
	assert.Contains(t, err.Error(), "Acme Corp")
	assert.Contains(t, err.Error(), "Globex Inc")
}

// Concurrent roles at the same employer are career progression, not a
// contradiction.
func TestCheck_SameEmployerOverlapAllowed(t *testing.T) {
	g := New(config.DefaultTuning(), nil).WithClock(fixedNow)

	p := validProfile()
	p.Experiences = []models.Experience{
		{Title: "Engineer", Employer: "Acme Corp",
			Range: models.DateRange{Start: month(2019, 1), End: month(2021, 1)}},
		{Title: "Senior Engineer", Employer: "acme corp",
			Range: models.DateRange{Start: month(2020, 6), End: month(2023, 1)}},
	}

	require.NoError(t, g.Check(p, supportedBundle()))
}

func TestCheck_OverlapWithinTolerance(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.OverlapToleranceDays = 45
	g := New(tuning, nil).WithClock(fixedNow)

	p := validProfile()
	p.Experiences = []models.Experience{
		{Title: "Engineer", Employer: "Acme Corp",
			Range: models.DateRange{Start: month(2019, 1), End: month(2020, 2)}},
		{Title: "Engineer", Employer: "Globex Inc",
			Range: models.DateRange{Start: month(2020, 1), End: month(2021, 1)}},
	}

	require.NoError(t, g.Check(p, supportedBundle()),
		"one month of handover overlap is inside the tolerance")
}

func TestCheck_IncompleteProfile(t *testing.T) {
	g := New(config.DefaultTuning(), nil).WithClock(fixedNow)

	p := validProfile()
	p.Summary = ""
	p.Skills = nil

	err := g.Check(p, supportedBundle())
	require.ErrorIs(t, err, models.ErrExtractionIncomplete)
}

// Fields explicitly listed as unverified are allowed to be empty.
func TestCheck_UnverifiedFieldsAccepted(t *testing.T) {
	g := New(config.DefaultTuning(), nil).WithClock(fixedNow)

	p := validProfile()
	p.Summary = ""
	p.Skills = nil
	p.Unverified = []string{"summary", "skills"}

	require.NoError(t, g.Check(p, supportedBundle()))
}

func TestCheck_UnsupportedClaimRejected(t *testing.T) {
	g := New(config.DefaultTuning(), nil).WithClock(fixedNow)

	bundle := supportedBundle()
	bundle.Claims = append(bundle.Claims, models.EvidenceClaim{
		Entity: "AWS", EntityKind: models.EntityCertification, Supported: false,
	})

	err := g.Check(validProfile(), bundle)
	require.ErrorIs(t, err, models.ErrFabrication)
	assert.Contains(t, err.Error(), "AWS")
}

// Labeled suggestions are allowed to be unsupported; the label is the
// disclosure.
func TestCheck_SuggestionsAllowed(t *testing.T) {
	g := New(config.DefaultTuning(), nil).WithClock(fixedNow)

	bundle := supportedBundle()
	bundle.Claims = append(bundle.Claims, models.EvidenceClaim{
		Entity: "Terraform", EntityKind: models.EntityTool,
		Supported: false, Suggestion: true,
	})

	require.NoError(t, g.Check(validProfile(), bundle))
}
