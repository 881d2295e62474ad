package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/abhisek/quotafill/internal/store"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past fill runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent fill runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.RunRepo().List(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No fill runs recorded.")
			return nil
		}

		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, []string{
				shortID(r.ID),
				humanize.Time(r.Timestamp),
				string(r.Status),
				strconv.Itoa(r.Quota),
				strconv.Itoa(r.Added),
				strconv.Itoa(r.Shortfall),
				r.DatasetPath,
			})
		}
		renderTable(cmd.OutOrStdout(), tableSpec{
			Headers: []string{"ID", "When", "Status", "Quota", "Added", "Short", "Dataset"},
			Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			Rows:    rows,
		})
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one fill run; any unique id prefix works",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		run, err := s.RunRepo().Get(context.Background(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %s\n", run.ID)
		fmt.Fprintf(out, "Time:      %s (%s)\n", run.Timestamp.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.Timestamp))
		fmt.Fprintf(out, "Dataset:   %s\n", run.DatasetPath)
		fmt.Fprintf(out, "Status:    %s\n", run.Status)
		fmt.Fprintf(out, "Quota:     %d\n", run.Quota)
		fmt.Fprintf(out, "Skills:    %d (%d already at quota)\n", run.Skills, run.Satisfied)
		fmt.Fprintf(out, "Added:     %d\n", run.Added)
		fmt.Fprintf(out, "Conflicts: %d\n", run.Conflicts)
		fmt.Fprintf(out, "Shortfall: %d\n", run.Shortfall)

		if len(run.Outcomes) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(run.Outcomes))
		for _, o := range run.Outcomes {
			rows = append(rows, []string{
				o.SkillID,
				strconv.Itoa(o.Prior),
				strconv.Itoa(o.Post),
				idList(o.Added),
				idList(o.Conflicts),
				strconv.Itoa(o.Shortfall),
			})
		}
		renderTable(out, tableSpec{
			Headers: []string{"Skill", "Before", "After", "Added", "Conflicts", "Short"},
			Aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignRight},
			Rows:    rows,
		})
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return fmt.Errorf("--keep must not be negative")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.RunRepo().Prune(context.Background(), keep)
		if err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", pluralRuns(n))
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func pluralRuns(n int) string {
	if n == 1 {
		return "1 run"
	}
	return humanize.Comma(int64(n)) + " runs"
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	historyPruneCmd.Flags().Int("keep", 50, "Number of recent runs to keep")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
	historyCmd.AddCommand(historyPruneCmd)
}
