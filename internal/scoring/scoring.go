// Package scoring derives the two proficiency scores from a skill list and a
// seniority label. Scores are deterministic and always recomputed from the
// normalized inputs; no extraction source is trusted to supply them.
package scoring

import (
	"strings"

	"skillparse/internal/types"
)

// FrontendVocabulary is the fixed keyword list scored against for feScore.
// Entry order is part of the contract; append only.
var FrontendVocabulary = []string{
	"react", "angular", "vue", "javascript", "typescript", "html", "css",
	"frontend", "front-end", "ui", "ux", "responsive", "bootstrap", "sass",
	"webpack", "babel", "npm", "yarn", "redux", "mobx", "jquery", "next.js",
	"nuxt.js", "svelte", "ember", "backbone", "material-ui", "tailwind",
}

// BackendVocabulary is the fixed keyword list scored against for beScore.
var BackendVocabulary = []string{
	"python", "django", "flask", "fastapi", "node.js", "express", "java",
	"spring", "c#", ".net", "ruby", "rails", "php", "laravel", "go",
	"rust", "backend", "back-end", "api", "database", "sql", "mongodb",
	"postgresql", "mysql", "redis", "elasticsearch", "microservices",
	"docker", "kubernetes", "aws", "azure", "gcp", "serverless", "graphql",
	"rest", "grpc", "kafka", "rabbitmq", "nginx", "apache",
}

const (
	keywordPoints = 10
	maxScore      = 100
)

var seniorityBonus = map[types.Seniority]int{
	types.SeniorityJunior:    5,
	types.SeniorityMid:       10,
	types.SenioritySenior:    20,
	types.SeniorityLead:      30,
	types.SeniorityPrincipal: 30,
}

// defaultBonus applies when the seniority label is not recognized.
const defaultBonus = 10

// Score computes a proficiency score in [0,100] for skills against a keyword
// vocabulary. Each vocabulary keyword contained in ANY skill entry awards 10
// points once, regardless of how many entries contain it; a single skill
// entry can therefore trigger multiple keyword awards. A seniority bonus is
// added and the sum clamped to 100.
func Score(skills []string, seniority types.Seniority, vocabulary []string) int {
	lowered := make([]string, len(skills))
	for i, skill := range skills {
		lowered[i] = strings.ToLower(skill)
	}

	score := 0
	for _, keyword := range vocabulary {
		for _, skill := range lowered {
			if strings.Contains(skill, keyword) {
				score += keywordPoints
				break
			}
		}
	}

	bonus, ok := seniorityBonus[seniority]
	if !ok {
		bonus = defaultBonus
	}
	score += bonus

	return min(score, maxScore)
}

// Frontend computes the feScore for skills and seniority.
func Frontend(skills []string, seniority types.Seniority) int {
	return Score(skills, seniority, FrontendVocabulary)
}

// Backend computes the beScore for skills and seniority.
func Backend(skills []string, seniority types.Seniority) int {
	return Score(skills, seniority, BackendVocabulary)
}
