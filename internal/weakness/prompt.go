package weakness

import (
	"bytes"
	"text/template"
)

const extractionSystemPrompt = `You are a diagnostic engine for assessment tests across many domains (e.g., language exams, aptitude tests, professional certifications).

You receive a JSON array of questions where the learner answered incorrectly.

Task:
1. Look across ALL incorrect questions for this single learner and exam.
2. Find concrete, reusable weaknesses and error patterns (not just "Grammar" or "Math").
3. Group evidence questions that share the same weakness or pattern.

Output format (JSON ONLY, no extra text):

[
  {
    "weakness": "short name (1 sentence max, specific to the pattern)",
    "pattern_type": "language | numeracy | logical_reasoning | reading_comprehension | domain_knowledge | test_strategy | other",
    "description": "2-4 sentences explaining the pattern and why errors happen.",
    "evidence_question_ids": [<questionId>, ...],
    "frequency": <number of questions that show this pattern>
  }
]

Respond with ONLY the JSON array as described above.`

var extractionUserTemplate = template.Must(template.New("extraction").Parse(`Here is the JSON array of incorrect questions:

{{.CasesJSON}}`))

func buildExtractionMessage(casesJSON string) (string, error) {
	var buf bytes.Buffer
	err := extractionUserTemplate.Execute(&buf, struct{ CasesJSON string }{CasesJSON: casesJSON})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
