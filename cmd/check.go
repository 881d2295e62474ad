package cmd

import (
	"fmt"
	"strconv"

	"github.com/abhisek/quotafill/internal/augment"
	"github.com/abhisek/quotafill/internal/dataset"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report skills below quota; exits 2 when any are found",
	RunE: func(cmd *cobra.Command, args []string) error {
		datasetPath, err := datasetFlag(cmd)
		if err != nil {
			return err
		}
		quota := quotaFlag(cmd)
		all, _ := cmd.Flags().GetBool("all")

		doc, err := dataset.Load(datasetPath)
		if err != nil {
			return err
		}
		// A pass without a catalog surfaces structural problems the same
		// way fill would.
		if _, _, err := augment.Resolve(doc.Skills, nil, quota); err != nil {
			return err
		}

		deficits := augment.Plan(doc.Skills, quota)
		needed := make(map[string]int, len(deficits))
		missing := 0
		for _, d := range deficits {
			needed[d.SkillID] = d.Needed
			missing += d.Needed
		}

		var rows [][]string
		for _, s := range doc.Skills {
			n, short := needed[s.ID]
			if !all && !short {
				continue
			}
			state := "ok"
			if short {
				state = "below quota"
			}
			rows = append(rows, []string{s.ID, strconv.Itoa(len(s.Exercises)), strconv.Itoa(n), state})
		}

		out := cmd.OutOrStdout()
		if len(rows) > 0 {
			renderTable(out, tableSpec{
				Title:   fmt.Sprintf("Quota %d", quota),
				Headers: []string{"Skill", "Exercises", "Needed", "Status"},
				Aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
				Rows:    rows,
			})
		}
		fmt.Fprintf(out, "%d of %d skills meet quota %d.\n", len(doc.Skills)-len(deficits), len(doc.Skills), quota)

		if len(deficits) > 0 {
			fmt.Fprintf(out, "%d exercises missing across %d skills.\n", missing, len(deficits))
			return &exitError{code: exitDeficit}
		}
		return nil
	},
}

func init() {
	addDatasetFlags(checkCmd)
	checkCmd.Flags().Bool("all", false, "List every skill, not only those below quota")
}
