package llm

import (
	"context"
	"encoding/json"
)

// Provider drafts structured content from a prompt. Implementations wrap a
// vendor SDK; decorators (timeout, retry, logging) wrap a Provider.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set, Content is JSON that has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request is one single-turn drafting call.
type Request struct {
	// System sets the model's role: an author of advanced exercises for a
	// named skill.
	System string

	// Messages holds the user turn describing the exercise to draft.
	Messages []Message

	// Schema, when set, selects the provider's structured-output mode.
	// When nil the response Content is the raw text as a JSON string.
	Schema *Schema

	// MaxTokens bounds the response. Zero leaves the provider default.
	MaxTokens int

	// Temperature controls variety between drafts, 0.0 to 1.0.
	Temperature float64

	// Subject names what is being drafted, e.g.
	// "积分技巧Skill/exercise-adv-007". It is recorded with request events
	// and carried by RequestError; providers never send it.
	Subject string
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON structure expected back from the model.
type Schema struct {
	// Name is kebab-case, e.g. "advanced-exercise". It doubles as the
	// Anthropic tool name and the OpenAI schema name.
	Name string

	// Description is sent to the model alongside the schema.
	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response is the model output for one Request.
type Response struct {
	// Content is the validated JSON object for schema requests, otherwise
	// the raw text wrapped as a JSON string.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request, which may differ from
	// the configured alias.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Add returns the element-wise sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
		TotalTokens:  u.TotalTokens + o.TotalTokens,
	}
}
