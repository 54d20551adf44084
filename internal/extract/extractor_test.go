package extract

import (
	"errors"
	"testing"

	"github.com/tailorflow/tailorflow/internal/evidence"
	"github.com/tailorflow/tailorflow/internal/models"
	"github.com/tailorflow/tailorflow/internal/parser"
)

const sampleResume = `Jane Doe
jane@example.com
Berlin, Germany

Summary
Backend engineer focused on payments infrastructure.

Experience
Senior Engineer at Acme Corp, Jan 2021 - Present
- Led migration of payment services to Kubernetes
- Reduced p99 latency by 40%
Engineer at Globex Inc, Mar 2018 - Dec 2020
- Built invoicing APIs in Go

Education
B.Sc. Computer Science, TU Berlin, 2017

Certifications
- AWS Certified Solutions Architect, 2022

Skills
Go, Python, PostgreSQL
Tools: Docker, k8s
`

func parseFixture(t *testing.T, src string) *parser.Document {
	t.Helper()
	doc, err := parser.Parse([]byte(src), parser.KindText)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestExtract_FullResume(t *testing.T) {
	doc := parseFixture(t, sampleResume)
	store := evidence.NewStore()

	profile, err := New(nil).Extract(doc, store)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if profile.Contact.Name != "Jane Doe" {
		t.Errorf("Contact.Name = %q", profile.Contact.Name)
	}
	if profile.Contact.Email != "jane@example.com" {
		t.Errorf("Contact.Email = %q", profile.Contact.Email)
	}
	if profile.Contact.Location != "Berlin, Germany" {
		t.Errorf("Contact.Location = %q", profile.Contact.Location)
	}
	if profile.Summary == "" {
		t.Error("Summary not extracted")
	}

	if len(profile.Experiences) != 2 {
		t.Fatalf("got %d experiences, want 2", len(profile.Experiences))
	}
	first := profile.Experiences[0]
	if first.Title != "Senior Engineer" || first.Employer != "Acme Corp" {
		t.Errorf("experience[0] = %q at %q", first.Title, first.Employer)
	}
	if !first.Range.Open() {
		t.Error("experience[0] should be an open range (Present)")
	}
	if len(first.Bullets) != 2 {
		t.Errorf("experience[0] has %d bullets, want 2", len(first.Bullets))
	}
	second := profile.Experiences[1]
	if second.Range.Start.Year() != 2018 || second.Range.End.Year() != 2020 {
		t.Errorf("experience[1] range = %v..%v", second.Range.Start, second.Range.End)
	}

	if len(profile.Education) != 1 {
		t.Fatalf("got %d education entries, want 1", len(profile.Education))
	}
	if profile.Education[0].Year != 2017 {
		t.Errorf("education year = %d", profile.Education[0].Year)
	}

	if len(profile.Certifications) != 1 {
		t.Fatalf("got %d certifications, want 1", len(profile.Certifications))
	}
	if profile.Certifications[0].Name != "AWS Certified Solutions Architect" {
		t.Errorf("certification = %q", profile.Certifications[0].Name)
	}

	if len(profile.Skills) != 3 {
		t.Errorf("got %d skills, want 3: %+v", len(profile.Skills), profile.Skills)
	}
	if len(profile.Tools) != 2 {
		t.Errorf("got %d tools, want 2: %+v", len(profile.Tools), profile.Tools)
	}

	// Quantified bullet promoted to an achievement.
	if len(profile.Achievements) != 1 {
		t.Errorf("got %d achievements, want 1", len(profile.Achievements))
	}

	// Payments vocabulary maps to the fintech domain tag.
	if len(profile.DomainTags) != 1 || profile.DomainTags[0] != "fintech" {
		t.Errorf("DomainTags = %v", profile.DomainTags)
	}
}

// Every extracted fact must reference spans that exist in the store.
func TestExtract_AllSpansResolvable(t *testing.T) {
	doc := parseFixture(t, sampleResume)
	store := evidence.NewStore()

	profile, err := New(nil).Extract(doc, store)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	var ids []models.SpanID
	ids = append(ids, profile.Contact.SpanIDs...)
	ids = append(ids, profile.SummarySpans...)
	for _, exp := range profile.Experiences {
		ids = append(ids, exp.SpanIDs...)
		for _, b := range exp.Bullets {
			ids = append(ids, b.SpanIDs...)
		}
	}
	for _, edu := range profile.Education {
		ids = append(ids, edu.SpanIDs...)
	}
	for _, cert := range profile.Certifications {
		ids = append(ids, cert.SpanIDs...)
	}
	for _, set := range [][]models.Skill{profile.Skills, profile.Tools} {
		for _, s := range set {
			ids = append(ids, s.SpanIDs...)
		}
	}

	if len(ids) == 0 {
		t.Fatal("no span references collected")
	}
	if err := store.Verify(ids); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestExtract_MissingFieldsMarkedUnverified(t *testing.T) {
	src := `Jane Doe
jane@example.com

Experience
Engineer at Acme Corp, 2019 - 2021
- Shipped things
`
	doc := parseFixture(t, src)
	profile, err := New(nil).Extract(doc, evidence.NewStore())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := map[string]bool{"summary": true, "skills": true, "education": true, "location": true}
	for _, f := range profile.Unverified {
		delete(want, f)
	}
	for f := range want {
		t.Errorf("field %q not marked unverified", f)
	}
}

func TestExtract_IncompleteResume(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no contact", "Experience\nEngineer at Acme, 2019 - 2021\n- did work\n"},
		{"no experience or education", "Jane Doe\njane@example.com\n\nSkills\nGo\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseFixture(t, tt.src)
			_, err := New(nil).Extract(doc, evidence.NewStore())
			if !errors.Is(err, models.ErrExtractionIncomplete) {
				t.Errorf("Extract() error = %v, want ErrExtractionIncomplete", err)
			}
		})
	}
}

func TestSplitTitleEmployer(t *testing.T) {
	tests := []struct {
		in              string
		title, employer string
	}{
		{"Senior Engineer at Acme Corp", "Senior Engineer", "Acme Corp"},
		{"Engineer, Globex Inc", "Engineer", "Globex Inc"},
		{"Engineer | Initech", "Engineer", "Initech"},
		{"Solo Consultant", "Solo Consultant", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			title, employer := splitTitleEmployer(tt.in)
			if title != tt.title || employer != tt.employer {
				t.Errorf("splitTitleEmployer(%q) = (%q, %q), want (%q, %q)",
					tt.in, title, employer, tt.title, tt.employer)
			}
		})
	}
}
