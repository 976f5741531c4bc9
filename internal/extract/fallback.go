// Package extract holds the two non-network halves of the candidate
// extraction pipeline: the rule-based fallback extractor and the normalizer
// that sanitizes model output into the canonical record.
package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"skillparse/internal/match"
	"skillparse/internal/scoring"
	"skillparse/internal/types"
)

// SkillCatalog lists the technology names the fallback extractor recognizes,
// in canonical display casing. It is intentionally larger than the scoring
// vocabularies, which stay lowercase and serve a different purpose. Catalog
// order determines the order of extracted skills.
var SkillCatalog = []string{
	"Python", "JavaScript", "React", "Django", "Node.js", "Java", "C++", "C#",
	"AWS", "Docker", "Kubernetes", "Machine Learning", "SQL", "MongoDB",
	"Git", "Linux", "HTML", "CSS", "TypeScript", "Vue.js", "Angular",
	"Flask", "FastAPI", "PostgreSQL", "Redis", "GraphQL", "REST API",
}

// seniorityRules resolve in declared order. A resume carrying both "senior"
// and "principal" markers resolves to senior because that rule runs first;
// the precedence is a compatibility contract, do not reorder.
var seniorityRules = []match.Rule[types.Seniority]{
	{Markers: []string{"senior", "sr."}, Value: types.SenioritySenior},
	{Markers: []string{"principal", "architect"}, Value: types.SeniorityPrincipal},
	{Markers: []string{"lead"}, Value: types.SeniorityLead},
	{Markers: []string{"junior", "entry", "jr."}, Value: types.SeniorityJunior},
}

var qualificationRules = []match.Rule[types.Qualification]{
	{Markers: []string{"phd", "doctorate", "ph.d"}, Value: types.QualificationPhD},
	{Markers: []string{"master", "mba", "m.s", "m.a"}, Value: types.QualificationMasters},
	{Markers: []string{"bachelor", "b.s", "b.a", "b.tech"}, Value: types.QualificationBachelors},
	{Markers: []string{"diploma"}, Value: types.QualificationDiploma},
	{Markers: []string{"certificate", "certification"}, Value: types.QualificationCertification},
}

const (
	nameScanLines = 5
	nameMaxChars  = 50
	nameMinWords  = 2
	nameMaxWords  = 4
	unknownName   = "Unknown"
)

// Fallback derives a complete candidate record from raw resume text without
// any external call. It never fails: unrecoverable fields fall back to their
// defaults, so the result is valid by construction and needs no further
// normalization.
func Fallback(text string) types.CandidateRecord {
	skills := ExtractSkills(text)
	seniority := ExtractSeniority(text)

	return types.CandidateRecord{
		Name:          ExtractName(text),
		Skills:        skills,
		FEScore:       scoring.Frontend(skills, seniority),
		BEScore:       scoring.Backend(skills, seniority),
		Seniority:     seniority,
		Qualification: ExtractQualification(text),
	}
}

// ExtractName scans the first few non-empty lines for something that looks
// like a person's name: short, 2-4 words, letters only (dots permitted for
// initials), and free of the '@' and '+' characters that mark contact lines.
func ExtractName(text string) string {
	scanned := 0
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		scanned++
		if scanned > nameScanLines {
			break
		}
		if looksLikeName(line) {
			return line
		}
	}
	return unknownName
}

func looksLikeName(line string) bool {
	if strings.ContainsAny(line, "@+") {
		return false
	}
	if utf8.RuneCountInString(line) >= nameMaxChars {
		return false
	}
	words := strings.Fields(line)
	if len(words) < nameMinWords || len(words) > nameMaxWords {
		return false
	}
	for _, word := range words {
		if !alphabeticWord(word) {
			return false
		}
	}
	return true
}

// alphabeticWord accepts words made of letters, allowing embedded dots so
// initials like "J." pass. A word of dots alone does not.
func alphabeticWord(word string) bool {
	stripped := strings.ReplaceAll(word, ".", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ExtractSkills matches text against the skill catalog, returning the
// canonical display names in catalog order.
func ExtractSkills(text string) []string {
	return match.Keywords(text, SkillCatalog)
}

// ExtractSeniority resolves the first matching seniority marker, or mid.
func ExtractSeniority(text string) types.Seniority {
	return match.FirstMatch(text, seniorityRules, types.SeniorityMid)
}

// ExtractQualification resolves the first matching credential marker, or bachelors.
func ExtractQualification(text string) types.Qualification {
	return match.FirstMatch(text, qualificationRules, types.QualificationBachelors)
}
