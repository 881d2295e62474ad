package exercisegen

import (
	"context"

	"github.com/abhisek/quotafill/internal/dataset"
)

// Generator produces advanced exercises using an LLM provider.
type Generator interface {
	// Generate produces a single exercise for the given input context.
	// The returned exercise carries input.ExerciseID and has passed every
	// configured validator.
	Generate(ctx context.Context, input GenerateInput) (*dataset.Exercise, error)
}

// GenerateInput holds all context needed to generate one exercise.
type GenerateInput struct {
	// SkillID is the skill the exercise is written for.
	SkillID string

	// ExerciseID is the identifier the new exercise will carry.
	ExerciseID string

	// ExistingQuestions holds the question text of every exercise the
	// skill already has, in order. Used for deduplication in the prompt
	// and by DuplicateQuestionValidator.
	ExistingQuestions []string

	// RelatedNodes lists knowledge-graph nodes used by the skill's
	// existing exercises. The model is asked to link from this set.
	RelatedNodes []string

	// Difficulty is the target difficulty (1-5); 0 lets the model choose.
	Difficulty int
}
