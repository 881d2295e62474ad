package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abhisek/quotafill/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(id string) dataset.Exercise {
	return dataset.Exercise{
		ID:            id,
		Difficulty:    3,
		Question:      "question " + id,
		Hints:         []string{"hint"},
		Solution:      dataset.Solution{Steps: []string{"step"}, KeyPoints: []string{"point"}},
		RelatedNodes:  []string{"node-x"},
		EstimatedTime: 10,
	}
}

func TestStatic_UnknownSkillIsEmpty(t *testing.T) {
	c := New()
	got := c.CandidatesFor("missing")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStatic_NilReceiverIsEmpty(t *testing.T) {
	var c *Static
	assert.Empty(t, c.CandidatesFor("积分技巧Skill"))
	assert.Empty(t, c.SkillIDs())
	assert.Zero(t, c.Len())
	assert.Equal(t, 0, Merge(c, nil).Len())
}

func TestStatic_PreservesOrder(t *testing.T) {
	c := New()
	c.Add("s", candidate("b"), candidate("a"))
	c.Add("s", candidate("c"))

	var ids []string
	for _, ex := range c.CandidatesFor("s") {
		ids = append(ids, ex.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestStatic_Restartable(t *testing.T) {
	c := New()
	c.Add("s", candidate("a"))

	first := c.CandidatesFor("s")
	first[0].ID = "mutated"
	first[0].Hints[0] = "mutated"

	second := c.CandidatesFor("s")
	assert.Equal(t, "a", second[0].ID)
	assert.Equal(t, "hint", second[0].Hints[0])
}

func TestStatic_AddCopiesInput(t *testing.T) {
	ex := candidate("a")
	c := New()
	c.Add("s", ex)
	ex.Hints[0] = "mutated"
	assert.Equal(t, "hint", c.CandidatesFor("s")[0].Hints[0])
}

func TestKey_NormalizesUnicode(t *testing.T) {
	composed := "caf\u00e9Skill"
	decomposed := "cafe\u0301Skill"
	require.NotEqual(t, composed, decomposed)

	c := New()
	c.Add(decomposed+" ", candidate("a"))
	assert.Len(t, c.CandidatesFor(composed), 1)
}

func TestMerge(t *testing.T) {
	a := New()
	a.Add("s1", candidate("a1"))
	a.Add("s2", candidate("x"))
	b := New()
	b.Add("s1", candidate("b1"))

	m := Merge(a, nil, b)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"s1", "s2"}, m.SkillIDs())

	var ids []string
	for _, ex := range m.CandidatesFor("s1") {
		ids = append(ids, ex.ID)
	}
	assert.Equal(t, []string{"a1", "b1"}, ids)
}

func TestSeed_LoadsAndValidates(t *testing.T) {
	c, err := Seed()
	require.NoError(t, err)

	got := c.CandidatesFor("积分技巧Skill")
	require.NotEmpty(t, got)
	assert.Equal(t, "exercise-adv-007", got[0].ID)
	assert.Equal(t, 4, got[0].Difficulty)
	assert.Equal(t, 20, got[0].EstimatedTime)
	assert.Equal(t, []string{"node-integration-methods"}, got[0].RelatedNodes)
	assert.Len(t, got[0].Solution.Steps, 5)
}

func TestParse_JSONBatchFile(t *testing.T) {
	raw := `{
	  "级数收敛Skill": [
	    {"id": "exercise-adv-010", "difficulty": 5, "question": "证明Σaₙ²收敛",
	     "hints": ["比较判别法"], "solution": {"steps": ["lim aₙ = 0"], "keyPoints": ["绝对收敛"]},
	     "relatedNodes": ["node-series-convergence"], "estimatedTime": 30}
	  ]
	}`
	c, err := Parse([]byte(raw), FormatJSON)
	require.NoError(t, err)
	got := c.CandidatesFor("级数收敛Skill")
	require.Len(t, got, 1)
	assert.Equal(t, []string{"绝对收敛"}, got[0].Solution.KeyPoints)
}

func TestLoadFiles_RoundTripThroughEncode(t *testing.T) {
	src := New()
	src.Add("s1", candidate("exercise-adv-001"), candidate("exercise-adv-002"))
	src.Add("s2", candidate("exercise-adv-001"))

	dir := t.TempDir()
	for _, f := range []Format{FormatJSON, FormatYAML} {
		data, err := Encode(src, f)
		require.NoError(t, err)
		path := filepath.Join(dir, "catalog."+string(f))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}

	got, err := LoadFiles([]string{filepath.Join(dir, "catalog.json"), filepath.Join(dir, "catalog.yaml")})
	require.NoError(t, err)
	assert.Equal(t, 6, got.Len())
	assert.Len(t, got.CandidatesFor("s1"), 4)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	_, err := LoadFile("catalog.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dataset.Exercise)
		wantMsg string
	}{
		{"empty id", func(e *dataset.Exercise) { e.ID = "" }, "id is empty"},
		{"difficulty too low", func(e *dataset.Exercise) { e.Difficulty = 0 }, "difficulty"},
		{"difficulty too high", func(e *dataset.Exercise) { e.Difficulty = 6 }, "difficulty"},
		{"empty question", func(e *dataset.Exercise) { e.Question = "  " }, "question is empty"},
		{"no steps", func(e *dataset.Exercise) { e.Solution.Steps = nil }, "no steps"},
		{"zero time", func(e *dataset.Exercise) { e.EstimatedTime = 0 }, "estimatedTime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := candidate("exercise-adv-001")
			tt.mutate(&ex)
			c := New()
			c.Add("s", ex)
			err := Validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_DuplicateWithinSkill(t *testing.T) {
	c := New()
	c.Add("s", candidate("a"), candidate("a"))
	c.Add("other", candidate("a"))

	err := Validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `skill "s" candidate "a": duplicate id`)
	assert.NotContains(t, err.Error(), `skill "other"`)
}
