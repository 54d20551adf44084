// Package extract builds a structured candidate profile from parsed
// resume text, attaching evidence spans to every extracted fact.
package extract

import (
	"strings"

	"github.com/tailorflow/tailorflow/internal/models"
)

// SectionKind classifies a resume section.
type SectionKind string

const (
	SectionContact        SectionKind = "contact"
	SectionSummary        SectionKind = "summary"
	SectionExperience     SectionKind = "experience"
	SectionEducation      SectionKind = "education"
	SectionSkills         SectionKind = "skills"
	SectionCertifications SectionKind = "certifications"
	SectionOther          SectionKind = "other"
)

// Section groups the layout spans belonging to one classified section.
type Section struct {
	Kind  SectionKind
	Spans []models.LayoutSpan
}

// headingAliases maps lowercase heading text to a section kind.
var headingAliases = map[string]SectionKind{
	"summary":                   SectionSummary,
	"professional summary":      SectionSummary,
	"profile":                   SectionSummary,
	"objective":                 SectionSummary,
	"about":                     SectionSummary,
	"experience":                SectionExperience,
	"work experience":           SectionExperience,
	"professional experience":   SectionExperience,
	"employment":                SectionExperience,
	"employment history":        SectionExperience,
	"work history":              SectionExperience,
	"education":                 SectionEducation,
	"academic background":       SectionEducation,
	"skills":                    SectionSkills,
	"technical skills":          SectionSkills,
	"core competencies":         SectionSkills,
	"technologies":              SectionSkills,
	"tools":                     SectionSkills,
	"certifications":            SectionCertifications,
	"certificates":              SectionCertifications,
	"licenses":                  SectionCertifications,
	"licenses & certifications": SectionCertifications,
}

// classifyHeading returns the section kind for a heading line, or
// SectionOther when the line is not a recognized heading.
func classifyHeading(line string) (SectionKind, bool) {
	s := strings.ToLower(strings.TrimSpace(line))
	s = strings.Trim(s, ":")
	kind, ok := headingAliases[s]
	return kind, ok
}

// Partition splits layout spans into classified sections. Everything
// before the first recognized heading is treated as the contact block.
func Partition(spans []models.LayoutSpan) []Section {
	var sections []Section
	current := Section{Kind: SectionContact}

	for _, span := range spans {
		if kind, ok := classifyHeading(span.Text); ok {
			if len(current.Spans) > 0 || current.Kind == SectionContact {
				sections = append(sections, current)
			}
			current = Section{Kind: kind}
			continue
		}
		current.Spans = append(current.Spans, span)
	}
	if len(current.Spans) > 0 {
		sections = append(sections, current)
	}
	return sections
}

// find returns the first section of the given kind, or nil.
func find(sections []Section, kind SectionKind) *Section {
	for i := range sections {
		if sections[i].Kind == kind {
			return &sections[i]
		}
	}
	return nil
}
