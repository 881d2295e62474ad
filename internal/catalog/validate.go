package catalog

import (
	"fmt"
	"strings"
)

// Validate performs structural checks on every candidate in the catalog.
// Returns a combined error describing all problems found, or nil if valid.
// Mathematical content is not checked.
func Validate(c *Static) error {
	var errs []string

	for _, k := range c.orderedKeys() {
		skillID := c.ids[k]
		if skillID == "" {
			errs = append(errs, "catalog entry with empty skill ID")
		}

		seen := make(map[string]bool, len(c.entries[k]))
		for i, ex := range c.entries[k] {
			prefix := fmt.Sprintf("skill %q candidate %d", skillID, i)
			if ex.ID == "" {
				errs = append(errs, fmt.Sprintf("%s: id is empty", prefix))
			} else {
				prefix = fmt.Sprintf("skill %q candidate %q", skillID, ex.ID)
				if seen[ex.ID] {
					errs = append(errs, fmt.Sprintf("%s: duplicate id", prefix))
				}
				seen[ex.ID] = true
			}
			if ex.Difficulty < 1 || ex.Difficulty > 5 {
				errs = append(errs, fmt.Sprintf("%s: difficulty must be in [1, 5], got %d", prefix, ex.Difficulty))
			}
			if strings.TrimSpace(ex.Question) == "" {
				errs = append(errs, fmt.Sprintf("%s: question is empty", prefix))
			}
			if len(ex.Solution.Steps) == 0 {
				errs = append(errs, fmt.Sprintf("%s: solution has no steps", prefix))
			}
			if ex.EstimatedTime <= 0 {
				errs = append(errs, fmt.Sprintf("%s: estimatedTime must be > 0, got %d", prefix, ex.EstimatedTime))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
