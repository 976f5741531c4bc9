package types

// Seniority is the experience-level tag attached to a candidate.
type Seniority string

const (
	SeniorityJunior    Seniority = "junior"
	SeniorityMid       Seniority = "mid"
	SenioritySenior    Seniority = "senior"
	SeniorityLead      Seniority = "lead"
	SeniorityPrincipal Seniority = "principal"
)

// Qualification is the candidate's highest recorded educational credential.
type Qualification string

const (
	QualificationHighSchool    Qualification = "high_school"
	QualificationBachelors     Qualification = "bachelors"
	QualificationMasters       Qualification = "masters"
	QualificationPhD           Qualification = "phd"
	QualificationDiploma       Qualification = "diploma"
	QualificationCertification Qualification = "certification"
)

// ParseSeniority reports whether s is one of the five valid seniority values.
func ParseSeniority(s string) (Seniority, bool) {
	switch Seniority(s) {
	case SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead, SeniorityPrincipal:
		return Seniority(s), true
	}
	return "", false
}

// ParseQualification reports whether s is one of the six valid qualification values.
func ParseQualification(s string) (Qualification, bool) {
	switch Qualification(s) {
	case QualificationHighSchool, QualificationBachelors, QualificationMasters,
		QualificationPhD, QualificationDiploma, QualificationCertification:
		return Qualification(s), true
	}
	return "", false
}

// CandidateRecord is the canonical output of the extraction pipeline. Every
// record handed to storage has passed through the normalizer: name is
// non-empty, scores are within [0,100] and the enums hold valid values.
type CandidateRecord struct {
	Name          string        `json:"name"`
	Skills        []string      `json:"skills"`
	FEScore       int           `json:"fe_score"`
	BEScore       int           `json:"be_score"`
	Seniority     Seniority     `json:"seniority"`
	Qualification Qualification `json:"qualification"`
}

// RawCandidate is the unvalidated shape decoded from a model completion.
// Skills is left untyped because completions routinely return it as a string
// or omit it; the normalizer sorts that out. The qualifications JSON key
// matches the shape the extraction prompt asks for.
type RawCandidate struct {
	Name          string `json:"name"`
	Skills        any    `json:"skills"`
	Seniority     string `json:"seniority"`
	Qualification string `json:"qualifications"`
}
