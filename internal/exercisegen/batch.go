package exercisegen

import (
	"context"

	"github.com/abhisek/quotafill/internal/augment"
	"github.com/abhisek/quotafill/internal/catalog"
	"github.com/abhisek/quotafill/internal/dataset"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of skills generated in parallel.
const DefaultConcurrency = 4

// BatchOptions tunes a Batch run.
type BatchOptions struct {
	// Concurrency bounds how many skills are generated at once. Exercises
	// within one skill are generated sequentially so each request sees
	// the questions produced before it.
	Concurrency int

	// Difficulty is passed through to every GenerateInput.
	Difficulty int

	Logger *zap.Logger
}

// SkillResult records generation for one deficient skill.
type SkillResult struct {
	SkillID   string
	Requested int
	Generated []string // exercise ids in generation order
	Failures  []string // one message per failed attempt
}

// BatchReport summarizes a Batch run in deficit order.
type BatchReport struct {
	Skills []SkillResult
}

// Generated returns the number of exercises produced.
func (r *BatchReport) Generated() int {
	n := 0
	for _, s := range r.Skills {
		n += len(s.Generated)
	}
	return n
}

// Missing returns how many requested exercises were not produced.
func (r *BatchReport) Missing() int {
	n := 0
	for _, s := range r.Skills {
		n += s.Requested - len(s.Generated)
	}
	return n
}

// Batch generates the exercises every skill of ds needs to reach quota and
// returns them as a catalog, ready to be reviewed and fed to a fill. New
// exercises get the next free exercise-adv-NNN ids of their skill.
//
// A failed exercise is recorded in the report and does not stop the run;
// only cancellation of ctx aborts it, in which case no catalog is returned.
func Batch(ctx context.Context, gen Generator, ds dataset.Dataset, quota int, opts BatchOptions) (*catalog.Static, *BatchReport, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	skills := make(map[string]dataset.Skill, len(ds))
	for _, s := range ds {
		if _, seen := skills[s.ID]; !seen {
			skills[s.ID] = s
		}
	}

	deficits := augment.Plan(ds, quota)
	results := make([]SkillResult, len(deficits))
	produced := make([][]dataset.Exercise, len(deficits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, d := range deficits {
		g.Go(func() error {
			results[i], produced[i] = generateSkill(gctx, gen, skills[d.SkillID], d.Needed, opts.Difficulty,
				logger.With(zap.String("skill", d.SkillID)))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	cat := catalog.New()
	for i, r := range results {
		cat.Add(r.SkillID, produced[i]...)
	}
	return cat, &BatchReport{Skills: results}, nil
}

func generateSkill(ctx context.Context, gen Generator, skill dataset.Skill, needed, difficulty int, logger *zap.Logger) (SkillResult, []dataset.Exercise) {
	result := SkillResult{SkillID: skill.ID, Requested: needed}
	ids := dataset.AllocateExerciseIDs(skill.Exercises, nil, needed)

	questions := make([]string, 0, len(skill.Exercises)+needed)
	for _, ex := range skill.Exercises {
		questions = append(questions, ex.Question)
	}
	nodes := relatedNodes(skill.Exercises)

	var out []dataset.Exercise
	// One request per missing exercise. A failed request leaves its id
	// for the next one, so ids stay contiguous.
	for range needed {
		if ctx.Err() != nil {
			break
		}
		id := ids[len(out)]
		ex, err := gen.Generate(ctx, GenerateInput{
			SkillID:           skill.ID,
			ExerciseID:        id,
			ExistingQuestions: questions,
			RelatedNodes:      nodes,
			Difficulty:        difficulty,
		})
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Warn("exercise generation failed", zap.String("id", id), zap.Error(err))
			result.Failures = append(result.Failures, err.Error())
			continue
		}
		logger.Info("generated exercise", zap.String("id", ex.ID), zap.Int("difficulty", ex.Difficulty))
		out = append(out, *ex)
		questions = append(questions, ex.Question)
		result.Generated = append(result.Generated, ex.ID)
	}
	return result, out
}

// relatedNodes collects the distinct related nodes of exs in first-seen order.
func relatedNodes(exs []dataset.Exercise) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ex := range exs {
		for _, n := range ex.RelatedNodes {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}
