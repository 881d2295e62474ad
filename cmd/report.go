package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/quotafill/internal/augment"
	"github.com/abhisek/quotafill/internal/store"
)

// renderReport prints the per-skill outcome table and a one-line summary.
func renderReport(w io.Writer, rep *augment.Report) {
	if len(rep.Outcomes) == 0 {
		fmt.Fprintf(w, "All %d skills already have at least %d exercises.\n", rep.Skills, rep.Quota)
		return
	}

	rows := make([][]string, 0, len(rep.Outcomes))
	for _, o := range rep.Outcomes {
		rows = append(rows, []string{
			o.SkillID,
			strconv.Itoa(o.Prior),
			strconv.Itoa(o.Post),
			idList(o.Added),
			idList(o.Conflicts),
			strconv.Itoa(o.Shortfall),
		})
	}
	renderTable(w, tableSpec{
		Title:   fmt.Sprintf("Skills below quota %d", rep.Quota),
		Headers: []string{"Skill", "Before", "After", "Added", "Conflicts", "Short"},
		Aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignRight},
		Rows:    rows,
		Footer:  []string{"Total", "", "", strconv.Itoa(rep.Added()), strconv.Itoa(rep.Conflicts()), strconv.Itoa(rep.Shortfall())},
	})

	fmt.Fprintf(w, "%d skills checked, %d already at quota, %d exercises added, %d still missing.\n",
		rep.Skills, rep.Satisfied, rep.Added(), rep.Shortfall())
}

// idList abbreviates conventional exercise IDs to their number.
func idList(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	short := make([]string, len(ids))
	for i, id := range ids {
		short[i] = strings.TrimPrefix(id, "exercise-adv-")
	}
	return strings.Join(short, ", ")
}

// runFromReport converts a report into a history record.
func runFromReport(datasetPath string, rep *augment.Report, status store.RunStatus) *store.Run {
	run := &store.Run{
		DatasetPath: datasetPath,
		Quota:       rep.Quota,
		Skills:      rep.Skills,
		Satisfied:   rep.Satisfied,
		Added:       rep.Added(),
		Conflicts:   rep.Conflicts(),
		Shortfall:   rep.Shortfall(),
		Status:      status,
	}
	for _, o := range rep.Outcomes {
		run.Outcomes = append(run.Outcomes, store.RunSkill{
			SkillID:   o.SkillID,
			Prior:     o.Prior,
			Post:      o.Post,
			Added:     o.Added,
			Conflicts: o.Conflicts,
			Shortfall: o.Shortfall,
		})
	}
	return run
}
