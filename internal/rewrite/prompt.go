package rewrite

import (
	"fmt"
	"strings"

	"github.com/tailorflow/tailorflow/internal/models"
)

const systemPrompt = `You are a resume writing assistant. Rewrite the candidate's material so it is tailored to the target role.

Hard rules:
- Use ONLY facts present in the candidate profile. Never invent employers, dates, degrees, certifications, tools, or numbers.
- Keep every quantified achievement exactly as stated in the profile.
- Respond with a single JSON object: {"summary": string, "bullets": [string], "skills_line": string}.`

const stricterSuffix = `
- Your previous attempt mentioned entities that are NOT in the profile: %s.
  Remove them entirely. Do not substitute similar invented facts.`

// buildUserPrompt renders the profile and retrieval context into the
// generation prompt. The context is already bounded to top-K per kind,
// keeping the prompt size tractable.
func buildUserPrompt(profile *models.CandidateProfile, rc *models.RetrievalContext) string {
	var b strings.Builder

	b.WriteString("Candidate profile:\n")
	fmt.Fprintf(&b, "Name: %s\n", profile.Contact.Name)
	if profile.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", profile.Summary)
	}
	fmt.Fprintf(&b, "Seniority: %s\n", profile.Seniority)

	b.WriteString("\nExperience:\n")
	for _, exp := range profile.Experiences {
		fmt.Fprintf(&b, "- %s, %s (%d-", exp.Title, exp.Employer, exp.Range.Start.Year())
		if exp.Range.Open() {
			b.WriteString("present)\n")
		} else {
			fmt.Fprintf(&b, "%d)\n", exp.Range.End.Year())
		}
		for _, bullet := range exp.Bullets {
			fmt.Fprintf(&b, "  * %s\n", bullet.Text)
		}
	}

	if len(profile.Education) > 0 {
		b.WriteString("\nEducation:\n")
		for _, edu := range profile.Education {
			fmt.Fprintf(&b, "- %s, %s\n", edu.Degree, edu.Institution)
		}
	}
	if len(profile.Certifications) > 0 {
		b.WriteString("\nCertifications:\n")
		for _, cert := range profile.Certifications {
			fmt.Fprintf(&b, "- %s\n", cert.Name)
		}
	}
	if names := profile.SkillNames(); len(names) > 0 {
		fmt.Fprintf(&b, "\nSkills: %s\n", strings.Join(names, ", "))
	}

	if rc != nil && len(rc.Snippets) > 0 {
		b.WriteString("\nTarget role context:\n")
		for _, s := range rc.Snippets {
			fmt.Fprintf(&b, "[%s] %s\n", s.SourceKind, s.Text)
		}
	}

	b.WriteString("\nJSON response:")
	return b.String()
}
