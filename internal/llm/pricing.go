package llm

import (
	"sort"
	"strings"

	"github.com/abhisek/quotafill/internal/store"
)

// ModelCost holds per-million-token pricing for a model.
// Prices are in USD per 1 million tokens.
type ModelCost struct {
	InputPerMTok  float64 // USD per 1M input tokens
	OutputPerMTok float64 // USD per 1M output tokens
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// OpenRouter-style "vendor/model" IDs fall back to the bare model name.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	if _, bare, ok := strings.Cut(modelID, "/"); ok {
		if c, ok := modelCosts[bare]; ok {
			return &c
		}
	}
	return nil
}

// CostLine is the estimated spend for one model.
type CostLine struct {
	store.ModelUsage
	USD   float64
	Known bool // false when the model has no pricing entry
}

// CostEstimate prices the usage recorded for each model.
type CostEstimate struct {
	Lines []CostLine
	Total float64

	// Unpriced lists models without a pricing entry, sorted.
	Unpriced []string
}

// Partial reports whether some usage could not be priced.
func (e CostEstimate) Partial() bool { return len(e.Unpriced) > 0 }

// EstimateCost prices usage with the embedded table.
func EstimateCost(usage []store.ModelUsage) CostEstimate {
	var est CostEstimate
	for _, u := range usage {
		line := CostLine{ModelUsage: u}
		if c := LookupCost(u.Model); c != nil {
			line.Known = true
			line.USD = c.Cost(u.InputTokens, u.OutputTokens)
			est.Total += line.USD
		} else {
			est.Unpriced = append(est.Unpriced, u.Model)
		}
		est.Lines = append(est.Lines, line)
	}
	sort.Strings(est.Unpriced)
	return est
}

// modelCosts is the embedded pricing table, sourced from models.dev.
// Last updated: 2026-10-01.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-3-5-haiku-20241022":  {0.8, 4},
	"claude-3-7-sonnet-20250219": {3, 15},
	"claude-haiku-4-5":           {1, 5},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-opus-4-1-20250805":   {15, 75},
	"claude-opus-4-5":            {5, 25},
	"claude-opus-4-5-20251101":   {5, 25},
	"claude-sonnet-4-20250514":   {3, 15},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},

	// OpenAI
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"gpt-5.1":      {1.25, 10},
	"o3":           {2, 8},
	"o3-mini":      {1.1, 4.4},
	"o4-mini":      {1.1, 4.4},

	// Google (Gemini)
	"gemini-2.0-flash":         {0.1, 0.4},
	"gemini-2.0-flash-exp":     {0.1, 0.4},
	"gemini-2.0-flash-lite":    {0.075, 0.3},
	"gemini-2.5-flash":         {0.3, 2.5},
	"gemini-2.5-flash-lite":    {0.1, 0.4},
	"gemini-2.5-pro":           {1.25, 10},
	"gemini-3-flash-preview":   {0.5, 3},
	"gemini-3-pro-preview":     {2, 12},
	"gemini-flash-latest":      {0.3, 2.5},
	"gemini-flash-lite-latest": {0.1, 0.4},
}
