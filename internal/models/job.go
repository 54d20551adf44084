package models

import "time"

// Must-have requirement kinds.
const (
	MustHaveSkillYears    = "skill_years"
	MustHaveCertification = "certification"
	MustHaveLocation      = "location"
	MustHaveAuthorization = "authorization"
)

// MustHave is a hard job requirement. Failing any must-have caps the
// overall match score regardless of other sub-scores.
type MustHave struct {
	Kind     string  `json:"kind"`
	Skill    string  `json:"skill,omitempty"`
	MinYears float64 `json:"min_years,omitempty"`
	Value    string  `json:"value,omitempty"`
}

// JobRequirement is external recruiter input, read-only to the pipeline.
type JobRequirement struct {
	JobID     string     `json:"job_id"`
	Title     string     `json:"title"`
	MustHaves []MustHave `json:"must_haves,omitempty"`
	Keywords  []string   `json:"keywords,omitempty"`
	Seniority string     `json:"seniority,omitempty"`
	Location  string     `json:"location,omitempty"`
	Remote    bool       `json:"remote,omitempty"`
	PostedAt  time.Time  `json:"posted_at,omitempty"`
}
