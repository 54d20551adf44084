package models

import (
	"encoding/json"
	"testing"
	"time"
)

func date(y, m int) time.Time {
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
}

func TestTotalYears_OverlapNotDoubleCounted(t *testing.T) {
	now := date(2026, 1)
	p := CandidateProfile{
		Experiences: []Experience{
			{Range: DateRange{Start: date(2019, 1), End: date(2021, 1)}},
			{Range: DateRange{Start: date(2020, 1), End: date(2022, 1)}},
		},
	}

	got := p.TotalYears(now)
	// Union of 2019-01..2022-01 is three years, not four.
	if got < 2.9 || got > 3.1 {
		t.Errorf("TotalYears() = %.2f, want ~3.0", got)
	}
}

func TestTotalYears_OpenRangeRunsToNow(t *testing.T) {
	now := date(2026, 1)
	p := CandidateProfile{
		Experiences: []Experience{
			{Range: DateRange{Start: date(2024, 1)}},
		},
	}

	got := p.TotalYears(now)
	if got < 1.9 || got > 2.1 {
		t.Errorf("TotalYears() = %.2f, want ~2.0", got)
	}
}

func TestDateRangeOverlaps(t *testing.T) {
	now := date(2026, 1)
	tests := []struct {
		name      string
		a, b      DateRange
		tolerance time.Duration
		want      bool
	}{
		{
			name: "disjoint",
			a:    DateRange{Start: date(2019, 1), End: date(2020, 1)},
			b:    DateRange{Start: date(2021, 1), End: date(2022, 1)},
			want: false,
		},
		{
			name: "overlapping",
			a:    DateRange{Start: date(2019, 1), End: date(2021, 1)},
			b:    DateRange{Start: date(2020, 1), End: date(2022, 1)},
			want: true,
		},
		{
			name: "adjacent",
			a:    DateRange{Start: date(2019, 1), End: date(2020, 1)},
			b:    DateRange{Start: date(2020, 1), End: date(2021, 1)},
			want: false,
		},
		{
			name:      "small overlap inside tolerance",
			a:         DateRange{Start: date(2019, 1), End: date(2020, 2)},
			b:         DateRange{Start: date(2020, 1), End: date(2021, 1)},
			tolerance: 45 * 24 * time.Hour,
			want:      false,
		},
		{
			name: "open range overlaps later entry",
			a:    DateRange{Start: date(2019, 1)},
			b:    DateRange{Start: date(2023, 1), End: date(2024, 1)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b, tt.tolerance, now); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSkillName(t *testing.T) {
	tests := []struct {
		name  string
		skill Skill
		want  string
	}{
		{"canonical wins", Skill{Raw: "golang", Canonical: "Go"}, "Go"},
		{"raw fallback", Skill{Raw: "Elixir", Unmapped: true}, "Elixir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.skill.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProfileJSONRoundTrip(t *testing.T) {
	p := CandidateProfile{
		SchemaVersion: ProfileSchemaVersion,
		Contact:       Contact{Name: "Jane Doe", Email: "jane@example.com", SpanIDs: []SpanID{"a1"}},
		Summary:       "Backend engineer.",
		SummarySpans:  []SpanID{"a2"},
		Experiences: []Experience{{
			Title:    "Engineer",
			Employer: "Acme",
			Range:    DateRange{Start: date(2019, 1), End: date(2021, 3)},
			Bullets:  []Bullet{{Text: "Built services", SpanIDs: []SpanID{"a3"}}},
			SpanIDs:  []SpanID{"a4"},
		}},
		Skills:     []Skill{{Raw: "golang", Canonical: "Go", SpanIDs: []SpanID{"a5"}}},
		Seniority:  SeniorityMid,
		Confidence: FieldConfidence{"contact": 0.9},
		Unverified: []string{"location"},
	}

	data, err := json.Marshal(&p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got CandidateProfile
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.SchemaVersion != ProfileSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", got.SchemaVersion, ProfileSchemaVersion)
	}
	if got.Contact.Email != p.Contact.Email {
		t.Errorf("Contact.Email = %q, want %q", got.Contact.Email, p.Contact.Email)
	}
	if len(got.Experiences) != 1 || !got.Experiences[0].Range.End.Equal(p.Experiences[0].Range.End) {
		t.Errorf("Experiences not preserved: %+v", got.Experiences)
	}
	if got.Skills[0].Name() != "Go" {
		t.Errorf("Skills[0].Name() = %q, want Go", got.Skills[0].Name())
	}
	if got.Confidence["contact"] != 0.9 {
		t.Errorf("Confidence not preserved: %v", got.Confidence)
	}
}

// Profiles written by an older producer without the newer optional
// fields must still decode.
func TestProfileJSONBackwardCompatible(t *testing.T) {
	old := `{"schema_version":1,"contact":{"name":"Jane Doe"},"experiences":[]}`

	var got CandidateProfile
	if err := json.Unmarshal([]byte(old), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.SchemaVersion != 1 {
		t.Errorf("SchemaVersion = %d, want 1", got.SchemaVersion)
	}
	if got.Contact.Name != "Jane Doe" {
		t.Errorf("Contact.Name = %q, want Jane Doe", got.Contact.Name)
	}
}
