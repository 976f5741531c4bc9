// Package match provides the lexical keyword matching shared by the fallback
// extractor and the scoring engine. Matching is plain substring containment,
// no word boundaries: "java" matches inside "javascript". That tradeoff is
// load-bearing for score compatibility and must not be "fixed".
package match

import "strings"

// Keywords returns the needles that occur in haystack, case-insensitively.
// The result preserves the insertion order of needles, which is the only
// ordering callers may rely on.
func Keywords(haystack string, needles []string) []string {
	lowered := strings.ToLower(haystack)

	var found []string
	for _, needle := range needles {
		if strings.Contains(lowered, strings.ToLower(needle)) {
			found = append(found, needle)
		}
	}
	return found
}

// ContainsAny reports whether haystack contains at least one of the markers,
// case-insensitively.
func ContainsAny(haystack string, markers ...string) bool {
	lowered := strings.ToLower(haystack)
	for _, marker := range markers {
		if strings.Contains(lowered, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// Rule pairs a set of marker substrings with the value they resolve to.
type Rule[T any] struct {
	Markers []string
	Value   T
}

// FirstMatch evaluates rules in order and returns the value of the first rule
// whose markers match text, or fallback when none do. Rule order is the
// precedence contract: earlier rules win even when later ones also match.
func FirstMatch[T any](text string, rules []Rule[T], fallback T) T {
	for _, rule := range rules {
		if ContainsAny(text, rule.Markers...) {
			return rule.Value
		}
	}
	return fallback
}
