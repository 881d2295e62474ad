package exercisegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/quotafill/internal/dataset"
	"github.com/abhisek/quotafill/internal/llm"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config

	mu    sync.Mutex
	usage llm.Usage
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// exerciseOutput is the raw LLM response before validation.
type exerciseOutput struct {
	Question   string   `json:"question"`
	Difficulty int      `json:"difficulty"`
	Hints      []string `json:"hints"`
	Solution   struct {
		Steps     []string `json:"steps"`
		KeyPoints []string `json:"keyPoints"`
	} `json:"solution"`
	RelatedNodes  []string `json:"relatedNodes"`
	EstimatedTime int      `json:"estimatedTime"`
}

// Generate produces a single exercise for the given input context. A
// retryable validation failure triggers a fresh request, up to
// Config.MaxAttempts in total; the last failure is returned.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*dataset.Exercise, error) {
	if input.ExerciseID == "" {
		return nil, fmt.Errorf("exercise id is required")
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeExerciseGen)

	attempts := max(1, g.config.MaxAttempts)
	var lastErr error
	for range attempts {
		ex, err := g.generateOnce(ctx, input)
		if err == nil {
			return ex, nil
		}
		lastErr = err

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (g *LLMGenerator) generateOnce(ctx context.Context, input GenerateInput) (*dataset.Exercise, error) {
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      ExerciseSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		Subject:     input.SkillID + "/" + input.ExerciseID,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	g.mu.Lock()
	g.usage = g.usage.Add(resp.Usage)
	g.mu.Unlock()

	var raw exerciseOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	ex := &dataset.Exercise{
		ID:         input.ExerciseID,
		Difficulty: raw.Difficulty,
		Question:   raw.Question,
		Hints:      nonNil(raw.Hints),
		Solution: dataset.Solution{
			Steps:     nonNil(raw.Solution.Steps),
			KeyPoints: nonNil(raw.Solution.KeyPoints),
		},
		RelatedNodes:  nonNil(raw.RelatedNodes),
		EstimatedTime: raw.EstimatedTime,
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(ex, input); verr != nil {
			return nil, verr
		}
	}

	return ex, nil
}

// Usage returns the tokens consumed so far, rejected drafts included.
func (g *LLMGenerator) Usage() llm.Usage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.usage
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
