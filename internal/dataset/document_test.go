package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const sampleDoc = `{
  "metadata": {"version": "2.0", "lastUpdated": "2025-01-01T00:00:00Z"},
  "data": [
    {
      "skillId": "积分技巧Skill",
      "advancedTopics": [{"title": "分部积分"}],
      "advancedExercises": [
        {"id": "exercise-adv-001", "difficulty": 3, "question": "计算∫x e^x dx。", "hints": ["分部积分"],
         "solution": {"steps": ["u=x"], "keyPoints": ["分部积分"]}, "relatedNodes": ["node-integration-methods"],
         "estimatedTime": 15, "geogebra": "https://example.org/g/1"}
      ],
      "projects": []
    },
    {
      "skillId": "级数收敛Skill",
      "advancedExercises": []
    }
  ]
}`

func TestParse_DecodesSkills(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	require.Len(t, doc.Skills, 2)

	assert.Equal(t, "积分技巧Skill", doc.Skills[0].ID)
	require.Len(t, doc.Skills[0].Exercises, 1)
	ex := doc.Skills[0].Exercises[0]
	assert.Equal(t, "exercise-adv-001", ex.ID)
	assert.Equal(t, 3, ex.Difficulty)
	assert.Equal(t, []string{"u=x"}, ex.Solution.Steps)
	assert.Equal(t, 15, ex.EstimatedTime)

	assert.NotNil(t, doc.Skills[1].Exercises, "empty container must stay distinguishable from a missing one")
	assert.Empty(t, doc.Skills[1].Exercises)
	assert.Equal(t, "2025-01-01T00:00:00Z", doc.LastUpdated())
}

func TestParse_MissingContainerIsNil(t *testing.T) {
	doc, err := Parse([]byte(`{"data": [{"skillId": "a"}]}`))
	require.NoError(t, err)
	assert.Nil(t, doc.Skills[0].Exercises)
}

func TestParse_RejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"data": [`},
		{"missing data", `{"metadata": {}}`},
		{"data not array", `{"data": {"skillId": "a"}}`},
		{"skillId wrong type", `{"data": [{"skillId": 7, "advancedExercises": []}]}`},
		{"difficulty wrong type", `{"data": [{"skillId": "a", "advancedExercises": [{"id": "x", "difficulty": "hard"}]}]}`},
		{"exercise without id", `{"data": [{"skillId": "a", "advancedExercises": [{"question": "q"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			require.Error(t, err)
			var de *DocumentError
			assert.True(t, errors.As(err, &de), "expected *DocumentError, got %T", err)
		})
	}
}

func TestLoad_AttachesPathToErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestRender_AppendsAndPreservesUnknownFields(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	updated := doc.Skills.Clone()
	updated[0].Exercises = append(updated[0].Exercises, Exercise{
		ID:            "exercise-adv-002",
		Difficulty:    4,
		Question:      "证明 |a|<1 时级数收敛",
		Hints:         []string{"比较判别法"},
		Solution:      Solution{Steps: []string{"取N"}, KeyPoints: []string{"收敛"}},
		EstimatedTime: 20,
	})

	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	out, changed, err := doc.Render(updated, now)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, "2026-10-19T08:30:00Z", gjson.GetBytes(out, "metadata.lastUpdated").String())
	assert.Equal(t, "2.0", gjson.GetBytes(out, "metadata.version").String())
	assert.Equal(t, "分部积分", gjson.GetBytes(out, "data.0.advancedTopics.0.title").String())
	assert.Equal(t, "https://example.org/g/1", gjson.GetBytes(out, "data.0.advancedExercises.0.geogebra").String())
	assert.Equal(t, int64(2), gjson.GetBytes(out, "data.0.advancedExercises.#").Int())
	assert.Equal(t, "exercise-adv-002", gjson.GetBytes(out, "data.0.advancedExercises.1.id").String())
	assert.Equal(t, "证明 |a|<1 时级数收敛", gjson.GetBytes(out, "data.0.advancedExercises.1.question").String())
	assert.True(t, gjson.GetBytes(out, "data.0.advancedExercises.1.relatedNodes").IsArray(), "nil slices encode as []")

	reparsed, err := Parse(out)
	require.NoError(t, err)
	assert.Len(t, reparsed.Skills[0].Exercises, 2)
	assert.Empty(t, reparsed.Skills[1].Exercises)
}

// stringifyDoc is laid out the way JSON.stringify(data, null, 2) writes it.
const stringifyDoc = `{
  "metadata": {
    "version": "2.0",
    "lastUpdated": "2025-01-01T00:00:00Z"
  },
  "data": [
    {
      "skillId": "积分技巧Skill",
      "advancedExercises": [
        {
          "id": "exercise-adv-001",
          "difficulty": 3,
          "question": "q1",
          "hints": [
            "h1",
            "h2"
          ],
          "solution": {
            "steps": [
              "s1"
            ],
            "keyPoints": []
          },
          "relatedNodes": [
            "node-a"
          ],
          "estimatedTime": 15
        }
      ],
      "projects": []
    }
  ]
}`

func TestRender_KeepsExpandedLayout(t *testing.T) {
	doc, err := Parse([]byte(stringifyDoc))
	require.NoError(t, err)

	updated := doc.Skills.Clone()
	updated[0].Exercises = append(updated[0].Exercises, Exercise{
		ID:            "exercise-adv-002",
		Difficulty:    4,
		Question:      "q2",
		Hints:         []string{"h3"},
		Solution:      Solution{Steps: []string{"s2"}},
		EstimatedTime: 20,
	})

	out, changed, err := doc.Render(updated, time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, changed)

	want := `{
  "metadata": {
    "version": "2.0",
    "lastUpdated": "2026-10-19T08:30:00Z"
  },
  "data": [
    {
      "skillId": "积分技巧Skill",
      "advancedExercises": [
        {
          "id": "exercise-adv-001",
          "difficulty": 3,
          "question": "q1",
          "hints": [
            "h1",
            "h2"
          ],
          "solution": {
            "steps": [
              "s1"
            ],
            "keyPoints": []
          },
          "relatedNodes": [
            "node-a"
          ],
          "estimatedTime": 15
        },
        {
          "id": "exercise-adv-002",
          "difficulty": 4,
          "question": "q2",
          "hints": [
            "h3"
          ],
          "solution": {
            "steps": [
              "s2"
            ],
            "keyPoints": []
          },
          "relatedNodes": [],
          "estimatedTime": 20
        }
      ],
      "projects": []
    }
  ]
}`
	assert.Equal(t, want, string(out))
}

func TestDetectIndent(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"{\n  \"data\": []\n}", "  "},
		{"{\n    \"data\": []\n}", "    "},
		{"{\n\t\"data\": []\n}", "\t"},
		{`{"data": []}`, "  "},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectIndent([]byte(tt.raw)), tt.raw)
	}
}

func TestRender_FillsMissingContainer(t *testing.T) {
	doc, err := Parse([]byte(`{"data": [{"skillId": "a", "advancedTopics": []}]}`))
	require.NoError(t, err)

	updated := doc.Skills.Clone()
	updated[0].Exercises = []Exercise{{ID: "exercise-adv-001", Difficulty: 1, Question: "q", EstimatedTime: 5}}

	out, changed, err := doc.Render(updated, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "exercise-adv-001", gjson.GetBytes(out, "data.0.advancedExercises.0.id").String())
}

func TestRender_UnchangedReturnsOriginalBytes(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	out, changed, err := doc.Render(doc.Skills.Clone(), time.Now())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, sampleDoc, string(out))
}

func TestRender_RejectsShapeChanges(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	t.Run("dropped skill", func(t *testing.T) {
		_, _, err := doc.Render(doc.Skills[:1].Clone(), time.Now())
		assert.Error(t, err)
	})

	t.Run("reordered skills", func(t *testing.T) {
		swapped := Dataset{doc.Skills[1].Clone(), doc.Skills[0].Clone()}
		_, _, err := doc.Render(swapped, time.Now())
		assert.Error(t, err)
	})

	t.Run("removed exercise", func(t *testing.T) {
		shrunk := doc.Skills.Clone()
		shrunk[0].Exercises = shrunk[0].Exercises[:0]
		_, _, err := doc.Render(shrunk, time.Now())
		assert.Error(t, err)
	})
}
