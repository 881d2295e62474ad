package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var runColumns = []string{
	"id", "sequence", "created_at", "dataset_path", "quota", "skills",
	"satisfied", "added", "conflicts", "shortfall", "status",
}

var runSkillColumns = []string{
	"run_id", "position", "skill_id", "prior", "post", "added", "conflicts", "shortfall",
}

// runRepo implements RunRepo.
type runRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *runRepo) Append(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}
	if run.Sequence == 0 {
		seqNum, err := r.seq.Next(ctx)
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		run.Sequence = seqNum
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query, args := builder().Insert(tableRuns).
		Columns(runColumns...).
		Values(
			run.ID, run.Sequence, formatTime(run.Timestamp), run.DatasetPath,
			run.Quota, run.Skills, run.Satisfied, run.Added, run.Conflicts,
			run.Shortfall, string(run.Status),
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	if len(run.Outcomes) > 0 {
		ins := builder().Insert(tableRunSkills).Columns(runSkillColumns...)
		for i, o := range run.Outcomes {
			added, err := encodeIDs(o.Added)
			if err != nil {
				return err
			}
			conflicts, err := encodeIDs(o.Conflicts)
			if err != nil {
				return err
			}
			ins.Values(run.ID, i, o.SkillID, o.Prior, o.Post, added, conflicts, o.Shortfall)
		}
		query, args := ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save run outcomes: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func (r *runRepo) List(ctx context.Context, opts QueryOpts) ([]Run, error) {
	sel := builder().Select(runColumns...).
		From(entsql.Table(tableRuns)).
		OrderBy(entsql.Desc("sequence"))
	if preds := sequencePredicates(opts); len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

func (r *runRepo) Get(ctx context.Context, idPrefix string) (*Run, error) {
	if idPrefix == "" {
		return nil, fmt.Errorf("run id is required")
	}

	// Two rows are enough to detect ambiguity.
	query, args := builder().Select(runColumns...).
		From(entsql.Table(tableRuns)).
		Where(entsql.HasPrefix("id", idPrefix)).
		OrderBy(entsql.Desc("sequence")).
		Limit(2).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("run %q: %w", idPrefix, ErrNotFound)
	case len(matches) > 1 && matches[0].ID != idPrefix:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", idPrefix)
	}

	run := matches[0]
	if run.Outcomes, err = r.outcomes(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *runRepo) outcomes(ctx context.Context, runID string) ([]RunSkill, error) {
	query, args := builder().Select(runSkillColumns[2:]...).
		From(entsql.Table(tableRunSkills)).
		Where(entsql.EQ("run_id", runID)).
		OrderBy("position").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query run outcomes: %w", err)
	}
	defer rows.Close()

	var out []RunSkill
	for rows.Next() {
		var o RunSkill
		var added, conflicts string
		if err := rows.Scan(&o.SkillID, &o.Prior, &o.Post, &added, &conflicts, &o.Shortfall); err != nil {
			return nil, fmt.Errorf("scan run outcome: %w", err)
		}
		if o.Added, err = decodeIDs(added); err != nil {
			return nil, err
		}
		if o.Conflicts, err = decodeIDs(conflicts); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *runRepo) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative, got %d", keep)
	}

	query, args := builder().Select("id").
		From(entsql.Table(tableRuns)).
		OrderBy(entsql.Desc("sequence")).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("query runs for prune: %w", err)
	}
	var stale []any
	for i := 0; rows.Next(); i++ {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan run id: %w", err)
		}
		if i >= keep {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("query runs for prune: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil // fewer than keep runs exist
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, del := range []struct{ table, col string }{
		{tableRunSkills, "run_id"},
		{tableRuns, "id"},
	} {
		query, args := builder().Delete(del.table).Where(entsql.In(del.col, stale...)).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("prune %s: %w", del.table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return len(stale), nil
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var ts, status string
	err := row.Scan(
		&run.ID, &run.Sequence, &ts, &run.DatasetPath, &run.Quota, &run.Skills,
		&run.Satisfied, &run.Added, &run.Conflicts, &run.Shortfall, &status,
	)
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Status = RunStatus(status)
	if run.Timestamp, err = parseTime(ts); err != nil {
		return nil, err
	}
	return &run, nil
}

func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode ids: %w", err)
	}
	return string(b), nil
}

func decodeIDs(s string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, fmt.Errorf("decode ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}
