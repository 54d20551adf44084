package ground

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tailorflow/tailorflow/internal/config"
	"github.com/tailorflow/tailorflow/internal/models"
)

// recencyWeight applies exponential decay over snippet age with the
// configured half-life. Unknown creation times get full weight.
func recencyWeight(createdAt time.Time, now time.Time, halfLifeDays float64) float64 {
	if createdAt.IsZero() || halfLifeDays <= 0 {
		return 1
	}
	ageDays := now.Sub(createdAt).Hours() / 24
	if ageDays <= 0 {
		return 1
	}
	return math.Exp(-math.Ln2 * ageDays / halfLifeDays)
}

// keywordOverlap is the fraction of query keywords appearing in the
// snippet text, case-insensitive.
func keywordOverlap(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

// merge scores, ranks and truncates snippets to top-K per source kind:
// combined = w1*similarity + w2*keywordOverlap + w3*recencyWeight.
func merge(snippets []models.Snippet, keywords []string, tuning config.Tuning, now time.Time) []models.Snippet {
	for i := range snippets {
		s := &snippets[i]
		s.RecencyWeight = recencyWeight(s.CreatedAt, now, tuning.RecencyHalfLifeDays)
		s.Combined = tuning.Merge.Similarity*s.Similarity +
			tuning.Merge.Keyword*keywordOverlap(s.Text, keywords) +
			tuning.Merge.Recency*s.RecencyWeight
	}

	sort.SliceStable(snippets, func(i, j int) bool {
		return snippets[i].Combined > snippets[j].Combined
	})

	// Truncate per kind, preserving combined-score order overall.
	counts := make(map[models.SourceKind]int)
	out := make([]models.Snippet, 0, len(snippets))
	for _, s := range snippets {
		if counts[s.SourceKind] >= tuning.TopKPerKind {
			continue
		}
		counts[s.SourceKind]++
		out = append(out, s)
	}
	return out
}
