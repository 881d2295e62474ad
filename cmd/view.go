package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/quotafill/internal/catalog"
	"github.com/abhisek/quotafill/internal/dataset"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the exercises of every skill",
	RunE: func(cmd *cobra.Command, args []string) error {
		datasetPath, err := datasetFlag(cmd)
		if err != nil {
			return err
		}
		only, _ := cmd.Flags().GetString("skill")
		width, _ := cmd.Flags().GetInt("width")

		doc, err := dataset.Load(datasetPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		shown := 0
		for _, s := range doc.Skills {
			if only != "" && catalog.Key(s.ID) != catalog.Key(only) {
				continue
			}
			shown++

			rows := make([][]string, 0, len(s.Exercises))
			minutes := 0
			for _, ex := range s.Exercises {
				rows = append(rows, []string{
					ex.ID,
					difficultyStars(ex.Difficulty),
					truncateWidth(ex.Question, width),
					strconv.Itoa(ex.EstimatedTime),
				})
				minutes += ex.EstimatedTime
			}
			renderTable(out, tableSpec{
				Title:   s.ID,
				Headers: []string{"ID", "Difficulty", "Question", "Min"},
				Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
				Rows:    rows,
				Footer:  []string{fmt.Sprintf("%d exercises", len(s.Exercises)), "", "", strconv.Itoa(minutes)},
			})
			fmt.Fprintln(out)
		}

		if only != "" && shown == 0 {
			return fmt.Errorf("skill %q not found in %s", only, datasetPath)
		}
		if only == "" {
			fmt.Fprintf(out, "%s skills, %s exercises, about %s of practice.\n",
				humanize.Comma(int64(len(doc.Skills))),
				humanize.Comma(int64(doc.Skills.ExerciseCount())),
				formatMinutes(doc.Skills.EstimatedMinutes()))
			if updated := doc.LastUpdated(); updated != "" {
				fmt.Fprintf(out, "Last updated %s.\n", updated)
			}
		}
		return nil
	},
}

// truncateWidth shortens s to at most width terminal cells. CJK characters
// occupy two cells, so byte or rune counts would misalign the table.
func truncateWidth(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func difficultyStars(d int) string {
	if d < 1 || d > 5 {
		return strconv.Itoa(d)
	}
	return strings.Repeat("★", d) + strings.Repeat("☆", 5-d)
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

func init() {
	viewCmd.Flags().StringP("dataset", "d", "", "Skills document (default from config)")
	viewCmd.Flags().StringP("skill", "s", "", "Show only this skill")
	viewCmd.Flags().IntP("width", "w", 60, "Question column width in terminal cells (0 for no limit)")
}
