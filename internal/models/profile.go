package models

import "time"

// ProfileSchemaVersion is bumped on any field addition. Fields are only
// ever added, never removed, so older profiles keep deserializing.
const ProfileSchemaVersion = 2

// Seniority bands produced by normalization.
const (
	SeniorityJunior    = "junior"
	SeniorityMid       = "mid"
	SenioritySenior    = "senior"
	SeniorityLead      = "lead"
	SeniorityAmbiguous = "ambiguous"
)

// Contact holds candidate contact information.
type Contact struct {
	Name     string   `json:"name"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location,omitempty"`
	SpanIDs  []SpanID `json:"span_ids,omitempty"`
}

// DateRange is a month-resolution employment or education period.
// An open range (current position) has a zero End.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end,omitempty"`
}

// Open reports whether the range has no end date.
func (r DateRange) Open() bool { return r.End.IsZero() }

// Years returns the range length in fractional years, using now for
// open ranges.
func (r DateRange) Years(now time.Time) float64 {
	end := r.End
	if r.Open() {
		end = now
	}
	if end.Before(r.Start) {
		return 0
	}
	return end.Sub(r.Start).Hours() / (24 * 365.25)
}

// Overlaps reports whether two ranges overlap by more than the given
// tolerance. Open ranges are treated as extending to now.
func (r DateRange) Overlaps(other DateRange, tolerance time.Duration, now time.Time) bool {
	aEnd, bEnd := r.End, other.End
	if r.Open() {
		aEnd = now
	}
	if other.Open() {
		bEnd = now
	}
	start := r.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return end.Sub(start) > tolerance
}

// Bullet is a single experience bullet tied to its source evidence.
type Bullet struct {
	Text    string   `json:"text"`
	SpanIDs []SpanID `json:"span_ids"`
}

// Experience is one work engagement.
type Experience struct {
	Title    string    `json:"title"`
	Employer string    `json:"employer"`
	Range    DateRange `json:"range"`
	Bullets  []Bullet  `json:"bullets,omitempty"`
	SpanIDs  []SpanID  `json:"span_ids"`
}

// Education is one degree or program entry.
type Education struct {
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	Year        int      `json:"year,omitempty"`
	SpanIDs     []SpanID `json:"span_ids"`
}

// Certification is a named professional certification.
type Certification struct {
	Name    string   `json:"name"`
	Issuer  string   `json:"issuer,omitempty"`
	Year    int      `json:"year,omitempty"`
	SpanIDs []SpanID `json:"span_ids"`
}

// Skill is a skill entry with its canonical ontology mapping.
// Canonical is empty and Unmapped is true when no ontology entry
// cleared the similarity threshold.
type Skill struct {
	Raw       string   `json:"raw"`
	Canonical string   `json:"canonical,omitempty"`
	Unmapped  bool     `json:"unmapped,omitempty"`
	LastUsed  int      `json:"last_used,omitempty"` // year, 0 if unknown
	SpanIDs   []SpanID `json:"span_ids"`
}

// Name returns the canonical name when mapped, the raw string otherwise.
func (s Skill) Name() string {
	if s.Canonical != "" {
		return s.Canonical
	}
	return s.Raw
}

// Achievement is a quantified accomplishment extracted from bullets.
type Achievement struct {
	Text    string   `json:"text"`
	SpanIDs []SpanID `json:"span_ids"`
}

// FieldConfidence records per-field extraction confidence in [0,1].
type FieldConfidence map[string]float64

// CandidateProfile is the validated structured record built from one
// resume. Every atomic fact carries at least one EvidenceSpan reference;
// fields with no supporting evidence appear in Unverified instead of
// being populated as fact.
type CandidateProfile struct {
	SchemaVersion  int             `json:"schema_version"`
	Contact        Contact         `json:"contact"`
	Summary        string          `json:"summary,omitempty"`
	SummarySpans   []SpanID        `json:"summary_spans,omitempty"`
	Experiences    []Experience    `json:"experiences"`
	Education      []Education     `json:"education,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	Skills         []Skill         `json:"skills,omitempty"`
	Tools          []Skill         `json:"tools,omitempty"`
	DomainTags     []string        `json:"domain_tags,omitempty"`
	Seniority      string          `json:"seniority,omitempty"`
	Achievements   []Achievement   `json:"achievements,omitempty"`
	Confidence     FieldConfidence `json:"confidence,omitempty"`
	Unverified     []string        `json:"unverified,omitempty"`
}

// TotalYears returns overlap-adjusted total years of experience: the
// union of all experience ranges, so concurrent engagements are not
// double counted.
func (p *CandidateProfile) TotalYears(now time.Time) float64 {
	type interval struct{ start, end time.Time }
	intervals := make([]interval, 0, len(p.Experiences))
	for _, exp := range p.Experiences {
		end := exp.Range.End
		if exp.Range.Open() {
			end = now
		}
		if !end.After(exp.Range.Start) {
			continue
		}
		intervals = append(intervals, interval{exp.Range.Start, end})
	}
	if len(intervals) == 0 {
		return 0
	}
	// Merge overlapping intervals.
	for i := 1; i < len(intervals); i++ {
		for j := i; j > 0 && intervals[j].start.Before(intervals[j-1].start); j-- {
			intervals[j], intervals[j-1] = intervals[j-1], intervals[j]
		}
	}
	total := 0.0
	cur := intervals[0]
	for _, iv := range intervals[1:] {
		if !iv.start.After(cur.end) {
			if iv.end.After(cur.end) {
				cur.end = iv.end
			}
			continue
		}
		total += cur.end.Sub(cur.start).Hours()
		cur = iv
	}
	total += cur.end.Sub(cur.start).Hours()
	return total / (24 * 365.25)
}

// SkillNames returns the deduplicated display names of skills and tools.
func (p *CandidateProfile) SkillNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, set := range [][]Skill{p.Skills, p.Tools} {
		for _, s := range set {
			name := s.Name()
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
