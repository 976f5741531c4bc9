package ai

import "fmt"

// The extraction contract is carried entirely in the prompt text: the model
// is told the exact JSON shape to emit and nothing else. Responses are then
// parsed leniently (see extractJSONSpan) so surrounding prose or code fences
// do not break the pipeline.

const extractionSystemPrompt = `You are a resume parsing engine. You read raw resume text and emit structured candidate data as JSON. You respond with JSON only, never with explanations, markdown, or commentary.`

const extractionUserPromptTemplate = `Extract the candidate information from the resume text below.

Respond with exactly one JSON object of this shape:
{
  "name": "full name of the candidate",
  "skills": ["list", "of", "technical", "skills"],
  "seniority": "one of: junior, mid, senior, lead, principal",
  "qualifications": "one of: high_school, bachelors, masters, phd, diploma, certification"
}

Rules:
- "name" is the candidate's full name as written; use "Unknown" if none is present.
- "skills" lists technical skills only (languages, frameworks, databases, tooling).
- "seniority" reflects the most senior role evident in the resume.
- "qualifications" reflects the highest education level mentioned.

Resume text:
%s`

// buildExtractionPrompts returns the system and user prompts for a resume.
func buildExtractionPrompts(resumeText string) (string, string) {
	return extractionSystemPrompt, fmt.Sprintf(extractionUserPromptTemplate, resumeText)
}
