package normalize

import (
	"strings"
	"time"

	"github.com/tailorflow/tailorflow/internal/models"
)

// seniorityBands orders the bands for distance comparison.
var seniorityBands = []string{
	models.SeniorityJunior,
	models.SeniorityMid,
	models.SenioritySenior,
	models.SeniorityLead,
}

// leadershipKeywords signal people or project leadership in bullets.
var leadershipKeywords = []string{
	"led ", "lead ", "managed", "mentored", "directed",
	"head of", "supervised", "coordinated a team", "built a team",
}

func bandIndex(band string) int {
	for i, b := range seniorityBands {
		if b == band {
			return i
		}
	}
	return -1
}

// yearsBand maps overlap-adjusted total years to a band.
func yearsBand(years float64) string {
	switch {
	case years < 2:
		return models.SeniorityJunior
	case years < 5:
		return models.SeniorityMid
	case years < 9:
		return models.SenioritySenior
	default:
		return models.SeniorityLead
	}
}

// keywordBand derives a band from leadership keyword hits in bullet
// text. No hits returns "" (no independent signal).
func keywordBand(p *models.CandidateProfile) string {
	hits := 0
	for _, exp := range p.Experiences {
		for _, b := range exp.Bullets {
			lower := strings.ToLower(b.Text)
			for _, kw := range leadershipKeywords {
				if strings.Contains(lower, kw) {
					hits++
					break
				}
			}
		}
	}
	switch {
	case hits >= 3:
		return models.SeniorityLead
	case hits >= 1:
		return models.SenioritySenior
	default:
		return ""
	}
}

// SeniorityTag computes the profile's seniority band. When the
// years-based and keyword-based signals disagree by more than one band
// the result is ambiguous rather than a guess.
func SeniorityTag(p *models.CandidateProfile, now time.Time) string {
	yb := yearsBand(p.TotalYears(now))
	kb := keywordBand(p)
	if kb == "" {
		return yb
	}

	yi, ki := bandIndex(yb), bandIndex(kb)
	diff := yi - ki
	if diff < 0 {
		diff = -diff
	}
	if diff > 1 {
		return models.SeniorityAmbiguous
	}
	// Within tolerance: the stronger signal wins.
	if ki > yi {
		return kb
	}
	return yb
}
