package rewrite

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tailorflow/tailorflow/internal/models"
	"github.com/tailorflow/tailorflow/internal/normalize"
)

// verifier checks generated text against the already-validated profile.
// Generation is untrusted; nothing it produces is accepted as fact
// until it matches an existing profile entry lexically or canonically.
type verifier struct {
	profile *models.CandidateProfile
	minSim  float64

	employers map[string][]models.SpanID
	certs     map[string][]models.SpanID
	degrees   map[string][]models.SpanID
	skills    map[string][]models.SpanID
	years     map[int][]models.SpanID
	numbers   map[string][]models.SpanID
}

var (
	certClaimRe = regexp.MustCompile(`(?i)\b([A-Za-z][\w+#.\- ]{1,40}?)[\s-]+certified\b|\bcertified\s+(?:in\s+)?([A-Za-z][\w+#.\- ]{1,40}?)(?:[.,;]|$)`)
	claimYearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	quantityRe  = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:%|percent)|\$\s*\d[\d,.]*[kKmM]?|\b\d[\d,.]*\s*(?:users|requests|customers|engineers|people)\b`)
	orgSuffixRe = regexp.MustCompile(`\b([A-Z][\w&.\- ]{1,40}?(?:Inc|Corp|LLC|Ltd|GmbH)\.?)\b`)
)

func newVerifier(profile *models.CandidateProfile, minSim float64) *verifier {
	v := &verifier{
		profile:   profile,
		minSim:    minSim,
		employers: map[string][]models.SpanID{},
		certs:     map[string][]models.SpanID{},
		degrees:   map[string][]models.SpanID{},
		skills:    map[string][]models.SpanID{},
		years:     map[int][]models.SpanID{},
		numbers:   map[string][]models.SpanID{},
	}

	for _, exp := range profile.Experiences {
		v.employers[strings.ToLower(exp.Employer)] = exp.SpanIDs
		if y := exp.Range.Start.Year(); y > 0 {
			v.years[y] = exp.SpanIDs
		}
		if !exp.Range.Open() {
			v.years[exp.Range.End.Year()] = exp.SpanIDs
		}
	}
	for _, edu := range profile.Education {
		v.degrees[strings.ToLower(edu.Degree)] = edu.SpanIDs
		if edu.Year > 0 {
			v.years[edu.Year] = edu.SpanIDs
		}
	}
	for _, cert := range profile.Certifications {
		v.certs[strings.ToLower(cert.Name)] = cert.SpanIDs
		if cert.Year > 0 {
			v.years[cert.Year] = cert.SpanIDs
		}
	}
	for _, set := range [][]models.Skill{profile.Skills, profile.Tools} {
		for _, s := range set {
			v.skills[strings.ToLower(s.Name())] = s.SpanIDs
			v.skills[strings.ToLower(s.Raw)] = s.SpanIDs
		}
	}
	for _, a := range profile.Achievements {
		for _, q := range quantityRe.FindAllString(a.Text, -1) {
			v.numbers[normalizeQuantity(q)] = a.SpanIDs
		}
	}
	return v
}

// normalizeQuantity canonicalizes a quantity string for comparison.
func normalizeQuantity(q string) string {
	q = strings.ToLower(q)
	q = strings.ReplaceAll(q, " ", "")
	q = strings.ReplaceAll(q, ",", "")
	return strings.ReplaceAll(q, "percent", "%")
}

// lookup finds the best fuzzy match in a name table. Returns the span
// ids and whether the match cleared the similarity threshold.
func (v *verifier) lookup(table map[string][]models.SpanID, name string) ([]models.SpanID, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if ids, ok := table[key]; ok {
		return ids, true
	}
	for candidate, ids := range table {
		if normalize.Similarity(key, candidate) >= v.minSim {
			return ids, true
		}
		// Containment counts: "AWS Solutions Architect" inside
		// "AWS Certified Solutions Architect - Associate".
		if len(key) >= 4 && (strings.Contains(candidate, key) || strings.Contains(key, candidate)) {
			return ids, true
		}
	}
	return nil, false
}

// verifyUnit checks one generated text unit (summary sentence or
// bullet) and returns the claims it makes.
func (v *verifier) verifyUnit(text string) []models.EvidenceClaim {
	var claims []models.EvidenceClaim

	// Certification claims.
	for _, m := range certClaimRe.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ids, ok := v.lookup(v.certs, name)
		claims = append(claims, models.EvidenceClaim{
			Text:       text,
			Entity:     name,
			EntityKind: models.EntityCertification,
			SpanIDs:    ids,
			Supported:  ok,
		})
	}

	// Employer-looking organizations.
	for _, m := range orgSuffixRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		ids, ok := v.lookup(v.employers, name)
		claims = append(claims, models.EvidenceClaim{
			Text:       text,
			Entity:     name,
			EntityKind: models.EntityEmployer,
			SpanIDs:    ids,
			Supported:  ok,
		})
	}

	// Known employers and degrees mentioned by name are supported.
	for employer, ids := range v.employers {
		if employer != "" && strings.Contains(strings.ToLower(text), employer) {
			claims = append(claims, models.EvidenceClaim{
				Text:       text,
				Entity:     employer,
				EntityKind: models.EntityEmployer,
				SpanIDs:    ids,
				Supported:  true,
			})
		}
	}
	for degree, ids := range v.degrees {
		if degree != "" && strings.Contains(strings.ToLower(text), degree) {
			claims = append(claims, models.EvidenceClaim{
				Text:       text,
				Entity:     degree,
				EntityKind: models.EntityDegree,
				SpanIDs:    ids,
				Supported:  true,
			})
		}
	}

	// Years must fall inside some known range or entry year.
	for _, ys := range claimYearRe.FindAllString(text, -1) {
		year, _ := strconv.Atoi(ys)
		ids, ok := v.yearSupported(year)
		claims = append(claims, models.EvidenceClaim{
			Text:       text,
			Entity:     ys,
			EntityKind: models.EntityDate,
			SpanIDs:    ids,
			Supported:  ok,
		})
	}

	// Quantified statements must exist verbatim among achievements.
	for _, q := range quantityRe.FindAllString(text, -1) {
		key := normalizeQuantity(q)
		ids, ok := v.numbers[key]
		claims = append(claims, models.EvidenceClaim{
			Text:       text,
			Entity:     strings.TrimSpace(q),
			EntityKind: models.EntityAchievement,
			SpanIDs:    ids,
			Supported:  ok,
		})
	}

	// Technology vocabulary not present in the profile skill set.
	for _, term := range knownTech(text) {
		if ids, ok := v.lookup(v.skills, term); ok {
			claims = append(claims, models.EvidenceClaim{
				Text:       text,
				Entity:     term,
				EntityKind: models.EntityTool,
				SpanIDs:    ids,
				Supported:  true,
			})
			continue
		}
		claims = append(claims, models.EvidenceClaim{
			Text:       text,
			Entity:     term,
			EntityKind: models.EntityTool,
			Supported:  false,
		})
	}

	return claims
}

// techVocabulary is the closed set of technology names the verifier
// recognizes in generated text. Matches the normalization ontology.
var techVocabulary = []string{
	"Go", "Python", "Java", "JavaScript", "TypeScript", "Rust", "C++", "C#",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Kafka",
	"Kubernetes", "Docker", "Terraform", "AWS", "GCP", "Azure",
	"React", "Node.js", "gRPC", "GraphQL", "Linux",
}

// knownTech returns vocabulary terms mentioned in the text.
func knownTech(text string) []string {
	var out []string
	for _, term := range techVocabulary {
		re := regexp.MustCompile(`(?i)(^|[^\w+#.])` + regexp.QuoteMeta(term) + `($|[^\w])`)
		if re.MatchString(text) {
			out = append(out, term)
		}
	}
	return out
}

// yearSupported reports whether a year lies within any experience
// range or matches an education/certification year.
func (v *verifier) yearSupported(year int) ([]models.SpanID, bool) {
	if ids, ok := v.years[year]; ok {
		return ids, true
	}
	for _, exp := range v.profile.Experiences {
		start := exp.Range.Start.Year()
		end := exp.Range.End.Year()
		if exp.Range.Open() {
			end = start + 100
		}
		if year >= start && year <= end {
			return exp.SpanIDs, true
		}
	}
	return nil, false
}
