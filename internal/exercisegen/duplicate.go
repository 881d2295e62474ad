package exercisegen

import "github.com/abhisek/quotafill/internal/dataset"

// DuplicateQuestionValidator rejects an exercise whose question matches
// one the skill already has, ignoring whitespace, case and width.
type DuplicateQuestionValidator struct{}

func (v *DuplicateQuestionValidator) Name() string { return "duplicate" }

func (v *DuplicateQuestionValidator) Validate(ex *dataset.Exercise, input GenerateInput) *ValidationError {
	key := questionKey(ex.Question)
	for _, q := range input.ExistingQuestions {
		if questionKey(q) == key {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "question repeats an existing exercise",
				Retryable: true,
			}
		}
	}
	return nil
}
