// Package catalog holds authored candidate exercises keyed by skill ID.
//
// A catalog is static data: lookups are deterministic and every call
// returns a fresh copy of the candidate list, so repeated augmentation
// passes over the same inputs produce identical output.
package catalog

import (
	"sort"
	"strings"

	"github.com/abhisek/quotafill/internal/dataset"
	"golang.org/x/text/unicode/norm"
)

// Catalog supplies candidate exercises for a skill.
type Catalog interface {
	// CandidatesFor returns the ordered candidates for skillID. Unknown
	// skills yield an empty slice, never an error.
	CandidatesFor(skillID string) []dataset.Exercise
}

// Static is an in-memory Catalog.
type Static struct {
	entries map[string][]dataset.Exercise
	ids     map[string]string // normalized key -> first-seen spelling
}

// New returns an empty Static catalog.
func New() *Static {
	return &Static{
		entries: make(map[string][]dataset.Exercise),
		ids:     make(map[string]string),
	}
}

// Key normalizes a skill identifier for lookup. Identifiers are trimmed and
// converted to Unicode NFC so composed and decomposed spellings of the same
// CJK or accented text address the same entry.
func Key(skillID string) string {
	return norm.NFC.String(strings.TrimSpace(skillID))
}

// Add appends candidates for skillID after any already registered.
func (s *Static) Add(skillID string, exercises ...dataset.Exercise) {
	k := Key(skillID)
	if _, ok := s.ids[k]; !ok {
		s.ids[k] = strings.TrimSpace(skillID)
	}
	for _, ex := range exercises {
		s.entries[k] = append(s.entries[k], ex.Clone())
	}
}

// CandidatesFor implements Catalog. A nil *Static has no candidates.
func (s *Static) CandidatesFor(skillID string) []dataset.Exercise {
	if s == nil {
		return nil
	}
	src := s.entries[Key(skillID)]
	out := make([]dataset.Exercise, len(src))
	for i, ex := range src {
		out[i] = ex.Clone()
	}
	return out
}

// SkillIDs returns the skills with at least one candidate, sorted.
func (s *Static) SkillIDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.entries))
	for k, exs := range s.entries {
		if len(exs) > 0 {
			out = append(out, s.ids[k])
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the total number of candidates across all skills.
func (s *Static) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, exs := range s.entries {
		n += len(exs)
	}
	return n
}

// Merge combines catalogs in order. Per skill, candidates from later
// catalogs follow those of earlier ones. Nil catalogs are skipped.
func Merge(catalogs ...*Static) *Static {
	out := New()
	for _, c := range catalogs {
		if c == nil {
			continue
		}
		for _, id := range c.orderedKeys() {
			out.Add(c.ids[id], c.entries[id]...)
		}
	}
	return out
}

// orderedKeys returns normalized keys in sorted order so Merge is
// deterministic regardless of map iteration.
func (s *Static) orderedKeys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
