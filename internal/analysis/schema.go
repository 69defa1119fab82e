package analysis

import "github.com/abhisek/empathiz/internal/llm"

// PayloadSchema is the contract every analysis payload must meet: a
// "scores" object of numbers in [0,10] and a "reasoning" object of strings.
// Key names are free-form.
var PayloadSchema = &llm.Schema{
	Name:        "analysis-payload",
	Description: "Per-dimension scores and reasoning for one answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scores": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type":    "number",
					"minimum": 0,
					"maximum": 10,
				},
			},
			"reasoning": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
		},
		"required": []any{"scores", "reasoning"},
	},
}

// dimensionKeys are the keys the LLM scorer is asked to produce.
var dimensionKeys = []string{
	"self_awareness",
	"empathy",
	"self_regulation",
	"communication",
	"decision_making",
}

func dimensionObject(valueSchema map[string]any) map[string]any {
	props := make(map[string]any, len(dimensionKeys))
	required := make([]any, len(dimensionKeys))
	for i, k := range dimensionKeys {
		props[k] = valueSchema
		required[i] = k
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// AnswerAnalysisSchema is the stricter shape requested from LLM providers.
// Structured-output modes need every property spelled out.
var AnswerAnalysisSchema = &llm.Schema{
	Name:        "answer-analysis",
	Description: "Emotional-intelligence scores (0-10) and one-sentence reasoning per dimension",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scores": dimensionObject(map[string]any{
				"type": "number", "minimum": 0, "maximum": 10,
			}),
			"reasoning": dimensionObject(map[string]any{
				"type": "string",
			}),
		},
		"required":             []any{"scores", "reasoning"},
		"additionalProperties": false,
	},
}
