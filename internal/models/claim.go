package models

// ClaimEntityKind classifies the entity a generated claim refers to.
type ClaimEntityKind string

const (
	EntityEmployer      ClaimEntityKind = "employer"
	EntityDate          ClaimEntityKind = "date"
	EntityDegree        ClaimEntityKind = "degree"
	EntityTool          ClaimEntityKind = "tool"
	EntityCertification ClaimEntityKind = "certification"
	EntityAchievement   ClaimEntityKind = "achievement"
)

// EvidenceClaim ties a generated text fragment to the evidence spans it
// relies on. Supported is true only when every referenced fact already
// exists in the CandidateProfile; unsupported claims are downgraded to
// labeled suggestions, never presented as fact.
type EvidenceClaim struct {
	Text       string          `json:"text"`
	Entity     string          `json:"entity,omitempty"`
	EntityKind ClaimEntityKind `json:"entity_kind,omitempty"`
	SpanIDs    []SpanID        `json:"span_ids,omitempty"`
	Supported  bool            `json:"supported"`
	Suggestion bool            `json:"suggestion,omitempty"` // reworded as "consider highlighting ..."
}

// RewriteBundle is the candidate-facing output of a completed ticket.
type RewriteBundle struct {
	Summary    string          `json:"summary"`
	Bullets    []string        `json:"bullets"`
	SkillsLine string          `json:"skills_line,omitempty"`
	Claims     []EvidenceClaim `json:"claims"`
}
