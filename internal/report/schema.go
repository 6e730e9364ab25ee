package report

import "github.com/abhisek/examlens/internal/llm"

// narrativeSchema pins the three section keys the model must fill. The
// keys match the report's narrative sections; title, progress heading,
// and domain comparisons are always composed deterministically.
var narrativeSchema = &llm.Schema{
	Name:        "performance-report",
	Description: "Narrative sections of a learner performance report.",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"Current Performance": map[string]any{
				"type":        "string",
				"description": "One short paragraph summarizing current ability.",
			},
			"Area to be Improved": map[string]any{
				"type":        "string",
				"description": "One short paragraph naming the skills that need focus.",
			},
			"Recommended Course": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "One explanation per provided course, in order.",
			},
		},
		"required": []any{"Current Performance", "Area to be Improved", "Recommended Course"},
	},
}

// narrativeSections is the model's half of the report.
type narrativeSections struct {
	CurrentPerformance string   `json:"Current Performance"`
	AreaToImprove      string   `json:"Area to be Improved"`
	RecommendedCourse  []string `json:"Recommended Course"`
}
