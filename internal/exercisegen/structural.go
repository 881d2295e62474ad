package exercisegen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/quotafill/internal/dataset"
)

const (
	maxQuestionRunes = 1000
	maxStepRunes     = 600
	maxHints         = 5
	maxMinutes       = 240
)

// StructuralValidator checks that required fields are present, within
// length limits, and in range.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(ex *dataset.Exercise, _ GenerateInput) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf(format, args...),
			Retryable: true,
		}
	}

	if strings.TrimSpace(ex.Question) == "" {
		return fail("question is empty")
	}
	if utf8.RuneCountInString(ex.Question) > maxQuestionRunes {
		return fail("question exceeds %d characters", maxQuestionRunes)
	}
	if ex.Difficulty < 1 || ex.Difficulty > 5 {
		return fail("difficulty must be between 1 and 5, got %d", ex.Difficulty)
	}
	if len(ex.Hints) == 0 {
		return fail("no hints")
	}
	if len(ex.Hints) > maxHints {
		return fail("more than %d hints", maxHints)
	}
	if len(ex.Solution.Steps) == 0 {
		return fail("solution has no steps")
	}
	for i, step := range ex.Solution.Steps {
		if strings.TrimSpace(step) == "" {
			return fail("solution step %d is empty", i+1)
		}
		if utf8.RuneCountInString(step) > maxStepRunes {
			return fail("solution step %d exceeds %d characters", i+1, maxStepRunes)
		}
	}
	if len(ex.Solution.KeyPoints) == 0 {
		return fail("solution has no key points")
	}
	if ex.EstimatedTime < 1 || ex.EstimatedTime > maxMinutes {
		return fail("estimatedTime must be between 1 and %d minutes, got %d", maxMinutes, ex.EstimatedTime)
	}
	return nil
}
