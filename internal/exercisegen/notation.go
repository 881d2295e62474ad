package exercisegen

import (
	"fmt"

	"github.com/abhisek/quotafill/internal/dataset"
)

// NotationValidator rejects exercises whose question or solution steps
// contain unbalanced brackets, the most common symptom of a formula the
// model cut short.
type NotationValidator struct{}

func (v *NotationValidator) Name() string { return "notation" }

func (v *NotationValidator) Validate(ex *dataset.Exercise, _ GenerateInput) *ValidationError {
	if pos, ok := balanced(ex.Question); !ok {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question has an unbalanced bracket at rune %d", pos),
			Retryable: true,
		}
	}
	for i, step := range ex.Solution.Steps {
		if pos, ok := balanced(step); !ok {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("solution step %d has an unbalanced bracket at rune %d", i+1, pos),
				Retryable: true,
			}
		}
	}
	return nil
}

var closers = map[rune]rune{')': '(', ']': '[', '}': '{', '）': '（', '】': '【'}

var openers = map[rune]bool{'(': true, '[': true, '{': true, '（': true, '【': true}

// balanced reports whether every bracket in s is matched. On failure it
// returns the rune offset of the offending bracket.
//
// Half-open interval notation such as [0, 1) is legitimate mathematics,
// so a mismatched pair of round/square brackets is accepted as long as
// the nesting depth works out.
func balanced(s string) (int, bool) {
	type open struct {
		r   rune
		pos int
	}
	var stack []open
	i := 0
	for _, r := range s {
		switch {
		case openers[r]:
			stack = append(stack, open{r, i})
		case closers[r] != 0:
			if len(stack) == 0 {
				return i, false
			}
			top := stack[len(stack)-1]
			if top.r != closers[r] && !intervalPair(top.r, r) {
				return i, false
			}
			stack = stack[:len(stack)-1]
		}
		i++
	}
	if len(stack) > 0 {
		return stack[len(stack)-1].pos, false
	}
	return 0, true
}

func intervalPair(o, c rune) bool {
	return (o == '[' && c == ')') || (o == '(' && c == ']')
}
