package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MergeWeights are the combined-score weights for retrieval merging:
// combined = Similarity*sim + Keyword*overlap + Recency*recencyWeight.
type MergeWeights struct {
	Similarity float64 `yaml:"similarity"`
	Keyword    float64 `yaml:"keyword"`
	Recency    float64 `yaml:"recency"`
}

// MatchWeights are the soft-score weights for the matching engine.
type MatchWeights struct {
	KeywordCoverage    float64 `yaml:"keyword_coverage"`
	SemanticCoverage   float64 `yaml:"semantic_coverage"`
	SeniorityAlignment float64 `yaml:"seniority_alignment"`
	SkillRecency       float64 `yaml:"skill_recency"`
}

// Tuning holds every scoring weight, similarity threshold and retry
// count the pipeline consumes. The source material deliberately leaves
// these as named configuration rather than constants.
type Tuning struct {
	// Retrieval grounding
	Merge               MergeWeights `yaml:"merge"`
	TopKPerKind         int          `yaml:"top_k_per_kind"`
	RecencyHalfLifeDays float64      `yaml:"recency_half_life_days"`

	// Normalization
	OntologyMinSimilarity float64 `yaml:"ontology_min_similarity"`

	// Rewrite verification
	ClaimMinSimilarity float64 `yaml:"claim_min_similarity"`
	RewriteMaxRetries  int     `yaml:"rewrite_max_retries"`

	// Compliance
	MinKeywordCoverage float64 `yaml:"min_keyword_coverage"`
	MaxSentenceWords   int     `yaml:"max_sentence_words"`
	MaxPassiveRatio    float64 `yaml:"max_passive_ratio"`

	// QA gate
	OverlapToleranceDays int `yaml:"overlap_tolerance_days"`

	// Matching
	Match           MatchWeights `yaml:"match"`
	MustHaveCeiling float64      `yaml:"must_have_ceiling"`

	// Orchestrator retries
	MaxStageAttempts  int     `yaml:"max_stage_attempts"`
	BackoffBaseMillis int     `yaml:"backoff_base_millis"`
	BackoffMaxMillis  int     `yaml:"backoff_max_millis"`
}

// DefaultTuning returns the documented defaults.
func DefaultTuning() Tuning {
	return Tuning{
		Merge:               MergeWeights{Similarity: 0.6, Keyword: 0.25, Recency: 0.15},
		TopKPerKind:         5,
		RecencyHalfLifeDays: 90,

		OntologyMinSimilarity: 0.82,

		ClaimMinSimilarity: 0.85,
		RewriteMaxRetries:  2,

		MinKeywordCoverage: 0.6,
		MaxSentenceWords:   28,
		MaxPassiveRatio:    0.25,

		OverlapToleranceDays: 0,

		Match: MatchWeights{
			KeywordCoverage:    0.35,
			SemanticCoverage:   0.25,
			SeniorityAlignment: 0.2,
			SkillRecency:       0.2,
		},
		MustHaveCeiling: 0.3,

		MaxStageAttempts:  3,
		BackoffBaseMillis: 250,
		BackoffMaxMillis:  5000,
	}
}

// LoadTuning reads a YAML tuning file over the defaults. An empty path
// returns the defaults unchanged.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning file: %w", err)
	}
	return t, nil
}
