package exercisegen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write advanced exercises for a university mathematics course. Each exercise belongs to one skill and must stretch a student who has mastered the routine material.

Rules:
- Write one self-contained exercise for the given skill.
- Write in the same language as the existing exercises. If there are none, infer the language from the skill name.
- Use Unicode math notation (∫, Σ, √, ², ≤) rather than LaTeX.
- Hints go from a gentle nudge to a near-giveaway. Give two or three.
- The solution steps must be complete and correct; a reader should be able to verify every step.
- keyPoints name the techniques or theorems the exercise practices.
- relatedNodes should be chosen from the listed nodes when they apply.
- Do not repeat or lightly rephrase any existing exercise.`

// buildUserMessage constructs the user message from GenerateInput and Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Skill: %s\n", input.SkillID)
	if input.Difficulty > 0 {
		fmt.Fprintf(&b, "Target difficulty: %d of 5\n", input.Difficulty)
	} else {
		b.WriteString("Target difficulty: your choice, 3 to 5\n")
	}

	b.WriteString("Known nodes: ")
	if len(input.RelatedNodes) == 0 {
		b.WriteString("None")
	} else {
		b.WriteString(strings.Join(input.RelatedNodes, ", "))
	}

	b.WriteString("\n\nExisting exercises for this skill:\n")
	b.WriteString(buildDedup(input.ExistingQuestions, cfg.MaxPriorQuestions))

	return b.String()
}
