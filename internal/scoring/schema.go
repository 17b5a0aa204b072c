package scoring

import "github.com/readingrally/readingrally/internal/llm"

// AnalysisSchema defines the grader's JSON response. Every property is
// required and no extras are allowed, as strict structured output needs.
var AnalysisSchema = &llm.Schema{
	Name:        "reading-analysis",
	Description: "Assessment of a child's read-aloud attempt against the target passage",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"wpm": map[string]any{
				"type":        "number",
				"description": "Words read per minute over the session duration",
			},
			"accuracy": map[string]any{
				"type":        "number",
				"description": "Percentage of words read correctly, 0 to 100",
			},
			"fluency": map[string]any{
				"type":        "number",
				"description": "Reading fluency score, 0 to 100",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Brief, encouraging feedback covering strengths and one thing to improve",
			},
			"pronunciation": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"potential_issues": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Specific words or patterns that may need attention",
					},
					"strengths": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Areas of strong pronunciation",
					},
					"practice_words": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Two or three words to practice that follow similar patterns",
					},
				},
				"required":             []any{"potential_issues", "strengths", "practice_words"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"wpm", "accuracy", "fluency", "feedback", "pronunciation"},
		"additionalProperties": false,
	},
}
