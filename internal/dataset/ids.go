package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// ExerciseIDPrefix is the conventional prefix of advanced exercise IDs.
const ExerciseIDPrefix = "exercise-adv-"

// ExerciseNumber extracts the numeric suffix of a conventional exercise ID.
// It returns false for IDs that do not follow the "exercise-adv-NNN" form.
func ExerciseNumber(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, ExerciseIDPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FormatExerciseID renders the conventional ID for number n.
func FormatExerciseID(n int) string {
	return fmt.Sprintf("%s%03d", ExerciseIDPrefix, n)
}

// AllocateExerciseIDs returns n fresh IDs for a skill, continuing after the
// highest conventional number already in use. IDs listed in reserved are
// treated as taken as well.
func AllocateExerciseIDs(existing []Exercise, reserved []string, n int) []string {
	if n <= 0 {
		return nil
	}

	taken := make(map[string]bool, len(existing)+len(reserved))
	highest := 0
	note := func(id string) {
		taken[id] = true
		if num, ok := ExerciseNumber(id); ok && num > highest {
			highest = num
		}
	}
	for _, ex := range existing {
		note(ex.ID)
	}
	for _, id := range reserved {
		note(id)
	}

	ids := make([]string, 0, n)
	for next := highest + 1; len(ids) < n; next++ {
		id := FormatExerciseID(next)
		if taken[id] {
			continue
		}
		taken[id] = true
		ids = append(ids, id)
	}
	return ids
}
