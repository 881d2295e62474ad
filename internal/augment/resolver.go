// Package augment tops up every skill in a dataset to a minimum number of
// advanced exercises, drawing candidates from a catalog.
//
// Resolve is a pure function of (dataset, catalog, quota): it performs no
// I/O, never mutates its input, and only ever appends exercises. Running
// it again on its own output changes nothing.
package augment

import (
	"fmt"

	"github.com/abhisek/quotafill/internal/dataset"
)

// DefaultQuota is the minimum number of advanced exercises per skill.
const DefaultQuota = 10

// Catalog supplies candidate exercises by skill ID. Unknown skills must
// yield an empty slice.
type Catalog interface {
	CandidatesFor(skillID string) []dataset.Exercise
}

// Deficit describes a skill below quota.
type Deficit struct {
	SkillID string
	Current int
	Needed  int
}

// Resolve appends catalog candidates to every skill below quota and
// returns the updated copy of ds with a per-skill report.
//
// Input is checked in full before anything is appended: a *SchemaError or
// *DuplicateIdentifierError aborts the pass and no dataset is returned.
// A skill the catalog cannot fill is not an error; it shows up in the
// report with a positive shortfall. A nil catalog behaves as an empty one.
func Resolve(ds dataset.Dataset, cat Catalog, quota int) (dataset.Dataset, *Report, error) {
	if quota <= 0 {
		return nil, nil, ErrInvalidQuota
	}
	if len(ds) == 0 {
		return nil, nil, ErrEmptyDataset
	}
	if err := checkInput(ds); err != nil {
		return nil, nil, err
	}

	out := ds.Clone()
	report := &Report{Quota: quota, Skills: len(out)}

	for i := range out {
		skill := &out[i]
		prior := len(skill.Exercises)
		needed := max(0, quota-prior)
		if needed == 0 {
			report.Satisfied++
			continue
		}

		outcome := Outcome{SkillID: skill.ID, Prior: prior}
		if cat != nil {
			outcome.Added, outcome.Conflicts = appendCandidates(skill, cat.CandidatesFor(skill.ID), needed)
		}
		outcome.Post = len(skill.Exercises)
		outcome.Shortfall = max(0, quota-outcome.Post)
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return out, report, nil
}

// appendCandidates appends up to needed candidates whose IDs are not
// already present, in candidate order. Returns the added and rejected IDs.
func appendCandidates(skill *dataset.Skill, candidates []dataset.Exercise, needed int) (added, conflicts []string) {
	present := make(map[string]bool, len(skill.Exercises)+needed)
	for _, ex := range skill.Exercises {
		present[ex.ID] = true
	}

	for _, c := range candidates {
		if len(added) == needed {
			break
		}
		if present[c.ID] {
			conflicts = append(conflicts, c.ID)
			continue
		}
		present[c.ID] = true
		skill.Exercises = append(skill.Exercises, c.Clone())
		added = append(added, c.ID)
	}
	return added, conflicts
}

// Plan lists the skills below quota without consulting any catalog.
// Skills with a missing identifier are skipped; Resolve reports those.
func Plan(ds dataset.Dataset, quota int) []Deficit {
	var out []Deficit
	for _, s := range ds {
		if s.ID == "" {
			continue
		}
		if n := quota - len(s.Exercises); n > 0 {
			out = append(out, Deficit{SkillID: s.ID, Current: len(s.Exercises), Needed: n})
		}
	}
	return out
}

// checkInput enforces the structural preconditions of a pass.
func checkInput(ds dataset.Dataset) error {
	skillAt := make(map[string]int, len(ds))
	for i, s := range ds {
		if s.ID == "" {
			return &SchemaError{Index: i, Field: "skillId", Reason: "missing skill identifier"}
		}
		if j, dup := skillAt[s.ID]; dup {
			return &SchemaError{Index: i, SkillID: s.ID, Field: "skillId", Reason: fmt.Sprintf("identifier also used by skill %d", j)}
		}
		skillAt[s.ID] = i

		if s.Exercises == nil {
			return &SchemaError{Index: i, SkillID: s.ID, Field: "advancedExercises", Reason: "missing exercise container"}
		}

		exAt := make(map[string]int, len(s.Exercises))
		for k, ex := range s.Exercises {
			if first, dup := exAt[ex.ID]; dup {
				return &DuplicateIdentifierError{SkillID: s.ID, ExerciseID: ex.ID, First: first, Second: k}
			}
			exAt[ex.ID] = k
		}
	}
	return nil
}
