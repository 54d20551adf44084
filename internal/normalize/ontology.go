// Package normalize canonicalizes extracted profiles: ontology mapping
// of skill and title strings, synonym-insensitive deduplication, and a
// deterministic seniority rule. Normalization is idempotent.
package normalize

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ontology maps free-text skill/title strings to canonical entries via
// exact synonym lookup first, then minimum-similarity matching.
type Ontology struct {
	canonical []string
	synonyms  map[string]string
	minSim    float64
}

// defaultCanonical is the built-in canonical skill vocabulary. A real
// deployment replaces this from the ontology index.
var defaultCanonical = []string{
	"Go", "Python", "Java", "JavaScript", "TypeScript", "Rust", "C++", "C#",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Kafka",
	"Kubernetes", "Docker", "Terraform", "AWS", "GCP", "Azure",
	"React", "Node.js", "gRPC", "GraphQL", "Linux", "Git", "CI/CD",
}

// defaultSynonyms maps lowercase aliases to canonical names.
var defaultSynonyms = map[string]string{
	"golang":              "Go",
	"js":                  "JavaScript",
	"ts":                  "TypeScript",
	"k8s":                 "Kubernetes",
	"postgres":            "PostgreSQL",
	"postgresql":          "PostgreSQL",
	"amazon web services": "AWS",
	"google cloud":        "GCP",
	"node":                "Node.js",
	"nodejs":              "Node.js",
	"reactjs":             "React",
	"mongo":               "MongoDB",
	"cpp":                 "C++",
}

// NewOntology creates an ontology with the built-in vocabulary and the
// given minimum similarity threshold.
func NewOntology(minSimilarity float64) *Ontology {
	return &Ontology{
		canonical: defaultCanonical,
		synonyms:  defaultSynonyms,
		minSim:    minSimilarity,
	}
}

// NewOntologyWithEntries creates an ontology from explicit entries.
func NewOntologyWithEntries(canonical []string, synonyms map[string]string, minSimilarity float64) *Ontology {
	if synonyms == nil {
		synonyms = map[string]string{}
	}
	return &Ontology{canonical: canonical, synonyms: synonyms, minSim: minSimilarity}
}

// Map returns the canonical form of a raw string and whether the lookup
// cleared the similarity threshold. Below threshold the caller keeps
// the original string tagged unmapped.
func (o *Ontology) Map(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}

	if canon, ok := o.synonyms[key]; ok {
		return canon, true
	}
	for _, canon := range o.canonical {
		if strings.EqualFold(canon, key) {
			return canon, true
		}
	}

	best, bestSim := "", 0.0
	for _, canon := range o.canonical {
		sim := Similarity(key, strings.ToLower(canon))
		if sim > bestSim {
			best, bestSim = canon, sim
		}
	}
	if bestSim >= o.minSim {
		return best, true
	}
	return "", false
}

// Similarity returns a normalized levenshtein similarity in [0,1].
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
