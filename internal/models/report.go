package models

// Sub-score criteria names used in MatchReport.SubScores.
const (
	CriterionKeywordCoverage    = "keyword_coverage"
	CriterionSemanticCoverage   = "semantic_coverage"
	CriterionSeniorityAlignment = "seniority_alignment"
	CriterionSkillRecency       = "skill_recency"
)

// Rationale maps one sub-score to the evidence spans that justify it.
// A score with no cited evidence is a defect, so SpanIDs may be empty
// only when the criterion genuinely had no matching profile facts and
// its sub-score is zero.
type Rationale struct {
	Criterion string   `json:"criterion"`
	Detail    string   `json:"detail,omitempty"`
	SpanIDs   []SpanID `json:"span_ids"`
	Weight    float64  `json:"weight"`
}

// MustHaveResult records the outcome of one hard-requirement gate.
type MustHaveResult struct {
	Requirement MustHave `json:"requirement"`
	Passed      bool     `json:"passed"`
	Detail      string   `json:"detail,omitempty"`
	SpanIDs     []SpanID `json:"span_ids,omitempty"`
}

// MatchReport is the recruiter-facing job-fit result for one
// (profile, job) pair.
type MatchReport struct {
	JobID     string             `json:"job_id"`
	Score     float64            `json:"score"`
	Capped    bool               `json:"capped"` // true when a must-have miss applied the ceiling
	SubScores map[string]float64 `json:"sub_scores"`
	MustHaves []MustHaveResult   `json:"must_haves,omitempty"`
	Rationale []Rationale        `json:"rationale"`
}
