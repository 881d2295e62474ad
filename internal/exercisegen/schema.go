package exercisegen

import "github.com/abhisek/quotafill/internal/llm"

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// ExerciseSchema defines the JSON schema for LLM exercise generation responses.
// The id is not part of it; identifiers are allocated by the caller.
var ExerciseSchema = &llm.Schema{
	Name:        "advanced-exercise",
	Description: "A single advanced exercise with hints and a worked solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The exercise statement, self-contained",
			},
			"difficulty": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     5,
				"description": "Difficulty from 1 (routine) to 5 (competition level)",
			},
			"hints": withDescription(stringList, "Two or three progressive hints, weakest first"),
			"solution": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"steps":     withDescription(stringList, "Worked solution, one step per entry"),
					"keyPoints": withDescription(stringList, "The ideas the exercise is meant to practice"),
				},
				"required":             []any{"steps", "keyPoints"},
				"additionalProperties": false,
			},
			"relatedNodes": withDescription(stringList, "Knowledge-graph node ids this exercise exercises"),
			"estimatedTime": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     240,
				"description": "Expected solving time in minutes",
			},
		},
		"required":             []any{"question", "difficulty", "hints", "solution", "relatedNodes", "estimatedTime"},
		"additionalProperties": false,
	},
}

func withDescription(base map[string]any, desc string) map[string]any {
	out := make(map[string]any, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out["description"] = desc
	return out
}
