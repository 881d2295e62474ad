package augment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuota = errors.New("quota must be a positive integer")
	ErrEmptyDataset = errors.New("dataset contains no skills")
)

// SchemaError indicates a skill record missing a required field. The pass
// is aborted and no dataset is returned.
type SchemaError struct {
	Index   int    // position of the skill in the dataset
	SkillID string // empty when the identifier itself is missing
	Field   string // JSON field name, e.g. "skillId"
	Reason  string
}

func (e *SchemaError) Error() string {
	if e.SkillID != "" {
		return fmt.Sprintf("skill %d (%q): %s: %s", e.Index, e.SkillID, e.Field, e.Reason)
	}
	return fmt.Sprintf("skill %d: %s: %s", e.Index, e.Field, e.Reason)
}

// DuplicateIdentifierError indicates an input skill already holding two
// exercises with the same ID. The whole pass is aborted rather than
// skipping the skill, so callers never persist a partially consistent
// dataset.
type DuplicateIdentifierError struct {
	SkillID    string
	ExerciseID string
	First      int // index of the first occurrence
	Second     int // index of the repeated occurrence
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("skill %q: exercise id %q appears at positions %d and %d",
		e.SkillID, e.ExerciseID, e.First, e.Second)
}
