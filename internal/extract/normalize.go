package extract

import (
	"strings"

	"skillparse/internal/scoring"
	"skillparse/internal/types"
)

// Normalize sanitizes an unvalidated extraction result into the canonical
// record. It is total: every field that fails validation is replaced with
// its default, so the output always satisfies the record invariants no
// matter how malformed the input is. Scores are never taken from the raw
// input; they are recomputed from the normalized skills and seniority so
// that stored scores are always derived, never trusted.
func Normalize(raw types.RawCandidate) types.CandidateRecord {
	name := strings.TrimSpace(raw.Name)
	if name == "" || strings.EqualFold(name, "unknown") {
		name = unknownName
	}

	skills := normalizeSkills(raw.Skills)

	seniority, ok := types.ParseSeniority(strings.ToLower(strings.TrimSpace(raw.Seniority)))
	if !ok {
		seniority = types.SeniorityMid
	}

	qualification, ok := types.ParseQualification(strings.ToLower(strings.TrimSpace(raw.Qualification)))
	if !ok {
		qualification = types.QualificationBachelors
	}

	return types.CandidateRecord{
		Name:          name,
		Skills:        skills,
		FEScore:       scoring.Frontend(skills, seniority),
		BEScore:       scoring.Backend(skills, seniority),
		Seniority:     seniority,
		Qualification: qualification,
	}
}

// normalizeSkills coerces whatever the extraction produced into a clean
// string slice. Anything that is not a sequence collapses to empty; entries
// are trimmed and blank ones dropped. Duplicates are deliberately kept.
func normalizeSkills(raw any) []string {
	skills := []string{}

	switch entries := raw.(type) {
	case []string:
		for _, entry := range entries {
			if trimmed := strings.TrimSpace(entry); trimmed != "" {
				skills = append(skills, trimmed)
			}
		}
	case []any:
		for _, entry := range entries {
			s, ok := entry.(string)
			if !ok {
				continue
			}
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				skills = append(skills, trimmed)
			}
		}
	}

	return skills
}
