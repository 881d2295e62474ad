package dataset

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// documentSchema constrains field types of a skills document. skillId and
// advancedExercises are deliberately not required here: a skill missing
// either is a SchemaError raised by the resolver, with the skill position
// attached.
var documentSchema = map[string]any{
	"type":     "object",
	"required": []any{"data"},
	"properties": map[string]any{
		"metadata": map[string]any{"type": "object"},
		"data": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"skillId": map[string]any{"type": "string"},
					"advancedExercises": map[string]any{
						"type":  []any{"array", "null"},
						"items": exerciseSchema,
					},
				},
			},
		},
	},
}

// exerciseSchema checks the types of one advancedExercises entry.
var exerciseSchema = map[string]any{
	"type":     "object",
	"required": []any{"id"},
	"properties": map[string]any{
		"id":         map[string]any{"type": "string"},
		"difficulty": map[string]any{"type": "integer"},
		"question":   map[string]any{"type": "string"},
		"hints":      stringArray,
		"solution": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"steps":     stringArray,
				"keyPoints": stringArray,
			},
		},
		"relatedNodes":  stringArray,
		"estimatedTime": map[string]any{"type": "integer"},
	},
}

var stringArray = map[string]any{
	"type":  []any{"array", "null"},
	"items": map[string]any{"type": "string"},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func validateDocument(raw []byte) error {
	compileOnce.Do(func() {
		compiled, compileErr = compileSchema("skills-document", documentSchema)
	})
	if compileErr != nil {
		return fmt.Errorf("compile document schema: %w", compileErr)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// compileSchema compiles a schema definition held as a Go map.
func compileSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	// The compiler wants a plain decoded JSON value, so round-trip the map.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
}
