package llm

import (
	"errors"
	"net/http"
	"slices"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// exerciseDefinition mirrors the advanced-exercise schema sent for drafts.
func exerciseDefinition() map[string]any {
	strs := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":   map[string]any{"type": "string", "description": "The exercise statement"},
			"difficulty": map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
			"hints":      strs,
			"solution": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"steps":     strs,
					"keyPoints": strs,
				},
				"required": []any{"steps", "keyPoints"},
			},
			"relatedNodes":  strs,
			"estimatedTime": map[string]any{"type": "integer", "minimum": 1.0, "maximum": 240.0},
		},
		"required": []any{"question", "difficulty", "hints", "solution", "relatedNodes", "estimatedTime"},
	}
}

func TestBuildGeminiSchema_Exercise(t *testing.T) {
	schema := buildGeminiSchema(exerciseDefinition())

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 6 {
		t.Fatalf("expected 6 properties, got %d", len(schema.Properties))
	}
	wantOrder := []string{"question", "difficulty", "hints", "solution", "relatedNodes", "estimatedTime"}
	if !slices.Equal(schema.PropertyOrdering, wantOrder) {
		t.Fatalf("property ordering = %v, want %v", schema.PropertyOrdering, wantOrder)
	}

	diff := schema.Properties["difficulty"]
	if diff.Type != genai.TypeInteger {
		t.Fatalf("expected INTEGER for difficulty, got %s", diff.Type)
	}
	if diff.Minimum == nil || *diff.Minimum != 1 || diff.Maximum == nil || *diff.Maximum != 5 {
		t.Fatalf("difficulty bounds not carried: min=%v max=%v", diff.Minimum, diff.Maximum)
	}
	est := schema.Properties["estimatedTime"]
	if est.Maximum == nil || *est.Maximum != 240 {
		t.Fatalf("float bounds not carried: %v", est.Maximum)
	}

	sol := schema.Properties["solution"]
	if sol.Type != genai.TypeObject || len(sol.Required) != 2 {
		t.Fatalf("unexpected solution schema: %+v", sol)
	}
	if sol.Properties["steps"].Items.Type != genai.TypeString {
		t.Fatalf("expected STRING items for steps, got %s", sol.Properties["steps"].Items.Type)
	}
	if schema.Properties["question"].Description != "The exercise statement" {
		t.Fatalf("description dropped: %q", schema.Properties["question"].Description)
	}
	if schema.Properties["hints"].Minimum != nil {
		t.Fatal("unbounded property gained a minimum")
	}
}

func TestBuildGeminiContents_Roles(t *testing.T) {
	got := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "Write exercise-adv-007."},
		{Role: RoleAssistant, Content: "{}"},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "model" {
		t.Fatalf("unexpected roles %q, %q", got[0].Role, got[1].Role)
	}
	if got[0].Parts[0].Text != "Write exercise-adv-007." {
		t.Fatalf("unexpected text %q", got[0].Parts[0].Text)
	}
}

func TestMapGeminiStopReason(t *testing.T) {
	tests := []struct {
		finish genai.FinishReason
		want   string
	}{
		{genai.FinishReasonStop, "end"},
		{genai.FinishReasonMaxTokens, "max_tokens"},
		{genai.FinishReasonSafety, "end"},
	}
	for _, tt := range tests {
		res := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: tt.finish}}}
		if got := mapGeminiStopReason(res); got != tt.want {
			t.Errorf("mapGeminiStopReason(%s) = %q, want %q", tt.finish, got, tt.want)
		}
	}
	if got := mapGeminiStopReason(&genai.GenerateContentResponse{}); got != "end" {
		t.Errorf("no candidates: got %q", got)
	}
}

func TestMapGeminiError(t *testing.T) {
	var rl *ErrRateLimit
	if err := mapGeminiError(&genai.APIError{Code: http.StatusTooManyRequests}); !errors.As(err, &rl) {
		t.Fatalf("429: expected ErrRateLimit, got %T", err)
	}

	var unavail *ErrProviderUnavailable
	if err := mapGeminiError(&genai.APIError{Code: http.StatusServiceUnavailable}); !errors.As(err, &unavail) {
		t.Fatalf("503: expected ErrProviderUnavailable, got %T", err)
	}
	if err := mapGeminiError(errors.New("dial tcp: refused")); !errors.As(err, &unavail) {
		t.Fatalf("network: expected ErrProviderUnavailable, got %T", err)
	}
}
