package scoring

import (
	"testing"

	"skillparse/internal/types"
)

func TestScoreBackendScenario(t *testing.T) {
	// ["Go","Rust"] with principal: 30 bonus + 10 (go) + 10 (rust) = 50
	skills := []string{"Go", "Rust"}

	if got := Backend(skills, types.SeniorityPrincipal); got != 50 {
		t.Errorf("Backend() = %d, want 50", got)
	}

	// Frontend has no matching keywords, bonus only
	if got := Frontend(skills, types.SeniorityPrincipal); got != 30 {
		t.Errorf("Frontend() = %d, want 30", got)
	}
}

func TestScoreSeniorityBonus(t *testing.T) {
	tests := []struct {
		name      string
		seniority types.Seniority
		expected  int
	}{
		{"junior", types.SeniorityJunior, 5},
		{"mid", types.SeniorityMid, 10},
		{"senior", types.SenioritySenior, 20},
		{"lead", types.SeniorityLead, 30},
		{"principal", types.SeniorityPrincipal, 30},
		{"unrecognized defaults to mid bonus", types.Seniority("expert"), 10},
		{"empty defaults to mid bonus", types.Seniority(""), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No skills, so the score is the bonus alone
			if got := Score(nil, tt.seniority, BackendVocabulary); got != tt.expected {
				t.Errorf("Score() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestScorePerKeywordNotPerSkill(t *testing.T) {
	// One skill string containing several distinct keywords awards each of
	// them: python, django, and "go" hiding inside "django" (substring
	// matching has no word boundaries).
	skills := []string{"Python/Django developer"}
	// python (10) + django (10) + go (10) + mid bonus (10)
	if got := Backend(skills, types.SeniorityMid); got != 40 {
		t.Errorf("Backend() = %d, want 40", got)
	}

	// Two skill entries containing the same keyword award it once.
	skills = []string{"Python 2", "Python 3"}
	if got := Backend(skills, types.SeniorityMid); got != 20 {
		t.Errorf("Backend() = %d, want 20", got)
	}
}

func TestScoreDualVocabularySkill(t *testing.T) {
	// "TypeScript" contains no backend keyword; "Node.js" contains none of
	// the frontend keywords. A skill matching both vocabularies contributes
	// to both scores independently.
	skills := []string{"GraphQL"} // backend keyword only
	if got := Backend(skills, types.SeniorityMid); got != 20 {
		t.Errorf("Backend() = %d, want 20", got)
	}
	if got := Frontend(skills, types.SeniorityMid); got != 10 {
		t.Errorf("Frontend() = %d, want 10 (bonus only)", got)
	}
}

func TestScoreClampedAt100(t *testing.T) {
	// Feed the entire vocabulary as skills to overflow the cap.
	if got := Score(BackendVocabulary, types.SeniorityPrincipal, BackendVocabulary); got != 100 {
		t.Errorf("Score() = %d, want 100", got)
	}
}

func TestScoreMonotonicInMatchedKeywords(t *testing.T) {
	skills := []string{}
	prev := 0
	for _, keyword := range BackendVocabulary {
		skills = append(skills, keyword)
		got := Score(skills, types.SeniorityJunior, BackendVocabulary)
		if got < prev {
			t.Fatalf("score decreased from %d to %d after adding %q", prev, got, keyword)
		}
		if got < 0 || got > 100 {
			t.Fatalf("score %d out of bounds", got)
		}
		prev = got
	}
}
