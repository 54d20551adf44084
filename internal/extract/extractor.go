package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tailorflow/tailorflow/internal/evidence"
	"github.com/tailorflow/tailorflow/internal/models"
	"github.com/tailorflow/tailorflow/internal/parser"
)

// Extractor turns a parsed document into a candidate profile backed by
// evidence spans. Extraction is heuristic and deterministic; confidence
// reflects how strong the structural signals were.
type Extractor struct {
	logger *slog.Logger
}

// New creates an extractor.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

var (
	emailRe  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe  = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	bulletRe = regexp.MustCompile(`^\s*[-•*·]\s*`)
	numberRe = regexp.MustCompile(`\d+(\.\d+)?\s*(%|percent|x\b|k\b|m\b|users|requests|ms\b)|\$\s*\d`)

	degreeRe = regexp.MustCompile(`(?i)\b(bachelor|master|ph\.?d|doctorate|b\.?sc?\.?|m\.?sc?\.?|b\.?a\.?|m\.?a\.?|b\.?eng\.?|m\.?eng\.?|mba)\b`)

	trailingYearRe = regexp.MustCompile(`[,(\s]*\b(19|20)\d{2}\b\)?\s*$`)
)

// domainKeywords maps lowercase markers in resume text to domain tags.
// Ordered so tag output is deterministic.
var domainKeywords = []struct{ marker, tag string }{
	{"fintech", "fintech"},
	{"banking", "fintech"},
	{"payments", "fintech"},
	{"healthcare", "healthcare"},
	{"medical", "healthcare"},
	{"e-commerce", "ecommerce"},
	{"ecommerce", "ecommerce"},
	{"retail", "ecommerce"},
	{"logistics", "logistics"},
	{"gaming", "gaming"},
	{"adtech", "adtech"},
	{"security", "security"},
}

// Extract builds a profile from the document, registering every cited
// span in the store. Fails with models.ErrExtractionIncomplete when
// mandatory sections (contact, at least one experience or education
// entry) are absent.
func (e *Extractor) Extract(doc *parser.Document, store *evidence.Store) (*models.CandidateProfile, error) {
	sections := Partition(doc.Spans)

	profile := &models.CandidateProfile{
		SchemaVersion: models.ProfileSchemaVersion,
		Confidence:    models.FieldConfidence{},
	}

	e.extractContact(sections, store, profile)
	e.extractSummary(sections, store, profile)
	e.extractExperience(sections, store, profile)
	e.extractEducation(sections, store, profile)
	e.extractCertifications(sections, store, profile)
	e.extractSkills(sections, store, profile)
	e.extractAchievements(profile)
	e.extractDomainTags(doc, profile)
	e.markUnverified(profile)

	if profile.Contact.Name == "" && profile.Contact.Email == "" {
		return nil, fmt.Errorf("%w: no contact information", models.ErrExtractionIncomplete)
	}
	if len(profile.Experiences) == 0 && len(profile.Education) == 0 {
		return nil, fmt.Errorf("%w: no experience or education entries", models.ErrExtractionIncomplete)
	}

	e.logger.Info("extraction complete",
		"experiences", len(profile.Experiences),
		"education", len(profile.Education),
		"skills", len(profile.Skills),
		"spans", store.Len())
	return profile, nil
}

func (e *Extractor) extractContact(sections []Section, store *evidence.Store, p *models.CandidateProfile) {
	sec := find(sections, SectionContact)
	if sec == nil {
		return
	}

	confidence := 0.4
	for _, span := range sec.Spans {
		id := store.AddLayout(span)
		text := span.Text

		if email := emailRe.FindString(text); email != "" && p.Contact.Email == "" {
			p.Contact.Email = email
			p.Contact.SpanIDs = append(p.Contact.SpanIDs, id)
			confidence += 0.3
		}
		if phone := phoneRe.FindString(text); phone != "" && p.Contact.Phone == "" {
			p.Contact.Phone = strings.TrimSpace(phone)
			p.Contact.SpanIDs = append(p.Contact.SpanIDs, id)
			confidence += 0.1
		}
		// First line without digits or an email is taken as the name.
		if p.Contact.Name == "" && !strings.ContainsAny(text, "@0123456789") && len(strings.Fields(text)) <= 5 {
			p.Contact.Name = strings.TrimSpace(text)
			p.Contact.SpanIDs = append(p.Contact.SpanIDs, id)
			confidence += 0.2
		}
		// A comma-separated line with no email looks like a location.
		if p.Contact.Location == "" && strings.Contains(text, ",") && !strings.Contains(text, "@") && p.Contact.Name != "" && text != p.Contact.Name {
			p.Contact.Location = strings.TrimSpace(text)
			p.Contact.SpanIDs = append(p.Contact.SpanIDs, id)
		}
	}
	if confidence > 1 {
		confidence = 1
	}
	p.Confidence["contact"] = confidence
}

func (e *Extractor) extractSummary(sections []Section, store *evidence.Store, p *models.CandidateProfile) {
	sec := find(sections, SectionSummary)
	if sec == nil {
		return
	}
	var lines []string
	for _, span := range sec.Spans {
		lines = append(lines, span.Text)
		p.SummarySpans = append(p.SummarySpans, store.AddLayout(span))
	}
	p.Summary = strings.Join(lines, " ")
	p.Confidence["summary"] = 0.9
}

func (e *Extractor) extractExperience(sections []Section, store *evidence.Store, p *models.CandidateProfile) {
	sec := find(sections, SectionExperience)
	if sec == nil {
		return
	}

	var current *models.Experience
	confident := true
	for _, span := range sec.Spans {
		text := span.Text

		// A line carrying a date range starts a new engagement.
		if rng, ok := parseDateRange(text); ok && !bulletRe.MatchString(text) {
			if current != nil {
				p.Experiences = append(p.Experiences, *current)
			}
			id := store.AddLayout(span)
			title, employer := splitTitleEmployer(stripDateRange(text))
			if title == "" || employer == "" {
				confident = false
			}
			current = &models.Experience{
				Title:    title,
				Employer: employer,
				Range:    rng,
				SpanIDs:  []models.SpanID{id},
			}
			continue
		}

		if current == nil {
			// Header without a date range: hold as a pending entry so a
			// following date line can complete it.
			if !bulletRe.MatchString(text) {
				id := store.AddLayout(span)
				title, employer := splitTitleEmployer(text)
				current = &models.Experience{
					Title:    title,
					Employer: employer,
					SpanIDs:  []models.SpanID{id},
				}
				confident = false
			}
			continue
		}

		if rng, ok := parseDateRange(text); ok && current.Range.Start.IsZero() {
			current.Range = rng
			current.SpanIDs = append(current.SpanIDs, store.AddLayout(span))
			continue
		}

		// Everything else under a header is a bullet.
		id := store.AddLayout(span)
		current.Bullets = append(current.Bullets, models.Bullet{
			Text:    bulletRe.ReplaceAllString(text, ""),
			SpanIDs: []models.SpanID{id},
		})
	}
	if current != nil {
		p.Experiences = append(p.Experiences, *current)
	}

	conf := 0.9
	if !confident {
		conf = 0.6
	}
	if len(p.Experiences) > 0 {
		p.Confidence["experiences"] = conf
	}
}

// splitTitleEmployer splits an experience header into title and
// employer. Accepts "Title, Employer", "Title at Employer",
// "Title | Employer" and "Employer — Title" (em dash reversed).
func splitTitleEmployer(header string) (title, employer string) {
	header = strings.TrimSpace(strings.Trim(header, ",|–—-"))
	for _, sep := range []string{" at ", " @ "} {
		if idx := strings.Index(header, sep); idx > 0 {
			return strings.TrimSpace(header[:idx]), strings.TrimSpace(header[idx+len(sep):])
		}
	}
	for _, sep := range []string{"|", "—", "–", ","} {
		if idx := strings.Index(header, sep); idx > 0 {
			left := strings.TrimSpace(header[:idx])
			right := strings.TrimSpace(header[idx+len(sep):])
			return left, right
		}
	}
	return header, ""
}

func (e *Extractor) extractEducation(sections []Section, store *evidence.Store, p *models.CandidateProfile) {
	sec := find(sections, SectionEducation)
	if sec == nil {
		return
	}
	for _, span := range sec.Spans {
		text := span.Text
		if degreeRe.MatchString(text) {
			id := store.AddLayout(span)
			degree, institution := splitTitleEmployer(stripDateRange(text))
			p.Education = append(p.Education, models.Education{
				Degree:      degree,
				Institution: institution,
				Year:        extractYear(text),
				SpanIDs:     []models.SpanID{id},
			})
		} else if len(p.Education) > 0 && p.Education[len(p.Education)-1].Institution == "" {
			// Institution on the following line.
			id := store.AddLayout(span)
			last := &p.Education[len(p.Education)-1]
			last.Institution = strings.TrimSpace(stripDateRange(text))
			if last.Year == 0 {
				last.Year = extractYear(text)
			}
			last.SpanIDs = append(last.SpanIDs, id)
		}
	}
	if len(p.Education) > 0 {
		p.Confidence["education"] = 0.85
	}
}

func (e *Extractor) extractCertifications(sections []Section, store *evidence.Store, p *models.CandidateProfile) {
	sec := find(sections, SectionCertifications)
	if sec == nil {
		return
	}
	for _, span := range sec.Spans {
		id := store.AddLayout(span)
		name := bulletRe.ReplaceAllString(span.Text, "")
		name = strings.TrimSpace(stripDateRange(name))
		name = strings.TrimSpace(trailingYearRe.ReplaceAllString(name, ""))
		if name == "" {
			continue
		}
		p.Certifications = append(p.Certifications, models.Certification{
			Name:    strings.TrimSuffix(name, ","),
			Year:    extractYear(span.Text),
			SpanIDs: []models.SpanID{id},
		})
	}
	if len(p.Certifications) > 0 {
		p.Confidence["certifications"] = 0.85
	}
}

func (e *Extractor) extractSkills(sections []Section, store *evidence.Store, p *models.CandidateProfile) {
	sec := find(sections, SectionSkills)
	if sec == nil {
		return
	}
	for _, span := range sec.Spans {
		id := store.AddLayout(span)
		text := bulletRe.ReplaceAllString(span.Text, "")

		target := &p.Skills
		if label, rest, ok := strings.Cut(text, ":"); ok {
			key := strings.ToLower(strings.TrimSpace(label))
			if key == "tools" || key == "technologies" || key == "tooling" {
				target = &p.Tools
			}
			text = rest
		}

		for _, raw := range splitList(text) {
			*target = append(*target, models.Skill{
				Raw:     raw,
				SpanIDs: []models.SpanID{id},
			})
		}
	}
	if len(p.Skills)+len(p.Tools) > 0 {
		p.Confidence["skills"] = 0.8
	}
}

// splitList splits a comma/semicolon/bullet separated list.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '•' || r == '·'
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

// extractAchievements promotes quantified bullets into achievements.
func (e *Extractor) extractAchievements(p *models.CandidateProfile) {
	for _, exp := range p.Experiences {
		for _, b := range exp.Bullets {
			if numberRe.MatchString(b.Text) {
				p.Achievements = append(p.Achievements, models.Achievement{
					Text:    b.Text,
					SpanIDs: b.SpanIDs,
				})
			}
		}
	}
	if len(p.Achievements) > 0 {
		p.Confidence["achievements"] = 0.75
	}
}

func (e *Extractor) extractDomainTags(doc *parser.Document, p *models.CandidateProfile) {
	lower := strings.ToLower(doc.Text)
	seen := make(map[string]bool)
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw.marker) && !seen[kw.tag] {
			seen[kw.tag] = true
			p.DomainTags = append(p.DomainTags, kw.tag)
		}
	}
}

// markUnverified lists required fields that have no supporting
// evidence instead of populating them as fact.
func (e *Extractor) markUnverified(p *models.CandidateProfile) {
	if p.Summary == "" {
		p.Unverified = append(p.Unverified, "summary")
	}
	if len(p.Skills) == 0 {
		p.Unverified = append(p.Unverified, "skills")
	}
	if len(p.Education) == 0 {
		p.Unverified = append(p.Unverified, "education")
	}
	if p.Contact.Location == "" {
		p.Unverified = append(p.Unverified, "location")
	}
}
