package exercisegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/quotafill/internal/augment"
	"github.com/abhisek/quotafill/internal/dataset"
	"github.com/abhisek/quotafill/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator answers deterministically and can be told to fail the
// first N requests of a skill.
type fakeGenerator struct {
	mu       sync.Mutex
	failures map[string]int
	inputs   []GenerateInput
}

func (f *fakeGenerator) Generate(ctx context.Context, input GenerateInput) (*dataset.Exercise, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	if f.failures[input.SkillID] > 0 {
		f.failures[input.SkillID]--
		f.mu.Unlock()
		return nil, &ValidationError{Validator: "structural", Message: "no hints", Retryable: true}
	}
	f.mu.Unlock()

	return &dataset.Exercise{
		ID:           input.ExerciseID,
		Difficulty:   3,
		Question:     fmt.Sprintf("%s question %d", input.SkillID, len(input.ExistingQuestions)+1),
		Hints:        []string{"h"},
		Solution:     dataset.Solution{Steps: []string{"s"}, KeyPoints: []string{"k"}},
		RelatedNodes: []string{},
	}, nil
}

func exercises(ids ...string) []dataset.Exercise {
	out := make([]dataset.Exercise, len(ids))
	for i, id := range ids {
		out[i] = dataset.Exercise{ID: id, Question: "q " + id, RelatedNodes: []string{"node-" + id}}
	}
	return out
}

func TestBatch_FillsDeficitsWithFreshIDs(t *testing.T) {
	ds := dataset.Dataset{
		{ID: "积分技巧Skill", Exercises: exercises("exercise-adv-001", "exercise-adv-002")},
		{ID: "极限Skill", Exercises: exercises("exercise-adv-001", "exercise-adv-002", "exercise-adv-003")},
		{ID: "导数Skill", Exercises: exercises("exercise-adv-004")},
	}
	gen := &fakeGenerator{}

	cat, report, err := Batch(context.Background(), gen, ds, 3, BatchOptions{Concurrency: 2})
	require.NoError(t, err)

	require.Len(t, report.Skills, 2)
	assert.Equal(t, "积分技巧Skill", report.Skills[0].SkillID)
	assert.Equal(t, []string{"exercise-adv-003"}, report.Skills[0].Generated)
	assert.Equal(t, "导数Skill", report.Skills[1].SkillID)
	assert.Equal(t, []string{"exercise-adv-005", "exercise-adv-006"}, report.Skills[1].Generated)
	assert.Equal(t, 3, report.Generated())
	assert.Zero(t, report.Missing())

	assert.Empty(t, cat.CandidatesFor("极限Skill"))
	got := cat.CandidatesFor("导数Skill")
	require.Len(t, got, 2)
	assert.Equal(t, "导数Skill question 2", got[0].Question)
	assert.Equal(t, "导数Skill question 3", got[1].Question, "later requests see earlier output")

	// Feeding the batch back through the resolver satisfies every skill.
	filled, rep, err := augment.Resolve(ds, cat, 3)
	require.NoError(t, err)
	assert.True(t, rep.Complete())
	for _, s := range filled {
		assert.Len(t, s.Exercises, 3, s.ID)
	}
}

func TestBatch_FailuresDoNotConsumeIDs(t *testing.T) {
	ds := dataset.Dataset{{ID: "级数Skill", Exercises: exercises("exercise-adv-001")}}
	gen := &fakeGenerator{failures: map[string]int{"级数Skill": 1}}

	cat, report, err := Batch(context.Background(), gen, ds, 4, BatchOptions{})
	require.NoError(t, err)

	r := report.Skills[0]
	assert.Equal(t, 3, r.Requested)
	assert.Equal(t, []string{"exercise-adv-002", "exercise-adv-003"}, r.Generated)
	assert.Len(t, r.Failures, 1)
	assert.Equal(t, 1, report.Missing())
	assert.Len(t, cat.CandidatesFor("级数Skill"), 2)

	require.Len(t, gen.inputs, 3)
	assert.Equal(t, "exercise-adv-002", gen.inputs[0].ExerciseID)
	assert.Equal(t, "exercise-adv-002", gen.inputs[1].ExerciseID, "retry reuses the failed id")
	assert.Equal(t, []string{"node-exercise-adv-001"}, gen.inputs[0].RelatedNodes)
}

func TestBatch_NothingToDo(t *testing.T) {
	ds := dataset.Dataset{{ID: "a", Exercises: exercises("exercise-adv-001")}}
	cat, report, err := Batch(context.Background(), &fakeGenerator{}, ds, 1, BatchOptions{})
	require.NoError(t, err)
	assert.Zero(t, cat.Len())
	assert.Empty(t, report.Skills)
}

func TestBatch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds := dataset.Dataset{{ID: "a"}, {ID: "b"}}
	cat, report, err := Batch(ctx, &fakeGenerator{}, ds, 2, BatchOptions{})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Nil(t, cat)
	assert.Nil(t, report)
}

func TestBatch_WithMockProvider(t *testing.T) {
	mock := llm.NewMockResponder(func(req llm.Request) llm.MockResponse {
		msg := req.Messages[0].Content
		skill, _, _ := strings.Cut(strings.TrimPrefix(msg, "Skill: "), "\n")
		body := strings.Replace(string(validExerciseJSON()), "计算不定积分", skill+"：计算不定积分", 1)
		return llm.MockResponse{Content: []byte(body)}
	})
	ds := dataset.Dataset{{ID: "积分技巧Skill"}, {ID: "微分方程Skill"}}

	cat, report, err := Batch(context.Background(), New(mock, DefaultConfig()), ds, 1, BatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Generated())
	assert.Equal(t, 2, mock.CallCount())

	got := cat.CandidatesFor("微分方程Skill")
	require.Len(t, got, 1)
	assert.Equal(t, "exercise-adv-001", got[0].ID)
	assert.True(t, strings.HasPrefix(got[0].Question, "微分方程Skill："))
}
