package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/quotafill/internal/llm"
	"github.com/abhisek/quotafill/internal/store"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No LLM events found.")
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			rows = append(rows, []string{
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				runewidth.Truncate(e.Model, 28, "…"),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				ok,
			})
		}
		renderTable(cmd.OutOrStdout(), tableSpec{
			Headers: []string{"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK"},
			Aligns: []columnAlignment{
				alignRight, alignLeft, alignLeft, alignLeft,
				alignRight, alignRight, alignRight, alignLeft,
			},
			Rows: rows,
		})
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(context.Background(), id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("event %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)

		fmt.Fprintf(out, "ID:        %d\n", e.ID)
		fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Provider:  %s\n", e.Provider)
		fmt.Fprintf(out, "Model:     %s\n", e.Model)
		fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
		if e.Subject != "" {
			fmt.Fprintf(out, "Subject:   %s\n", e.Subject)
		}
		fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
		}

		for _, section := range []struct{ name, body string }{
			{"REQUEST", e.RequestBody},
			{"RESPONSE", e.ResponseBody},
		} {
			fmt.Fprintln(out)
			fmt.Fprintln(out, sep)
			fmt.Fprintln(out, section.name)
			fmt.Fprintln(out, sep)
			if section.body == "" {
				fmt.Fprintln(out, "(not captured)")
			} else {
				fmt.Fprintln(out, section.body)
			}
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		stats, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		var totalCalls, totalIn, totalOut int
		rows := make([][]string, 0, len(stats))
		for _, st := range stats {
			rows = append(rows, []string{
				st.Purpose,
				humanize.Comma(int64(st.Calls)),
				humanize.Comma(int64(st.InputTokens)),
				humanize.Comma(int64(st.OutputTokens)),
				humanize.Comma(int64(st.InputTokens + st.OutputTokens)),
				humanize.Comma(st.AvgLatencyMs),
			})
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}
		renderTable(out, tableSpec{
			Title:   "Usage by Purpose",
			Headers: []string{"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms"},
			Aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			Rows:    rows,
			Footer: []string{
				"TOTAL",
				humanize.Comma(int64(totalCalls)),
				humanize.Comma(int64(totalIn)),
				humanize.Comma(int64(totalOut)),
				humanize.Comma(int64(totalIn + totalOut)),
				"",
			},
		})

		modelUsage, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(modelUsage) == 0 {
			return nil
		}

		est := llm.EstimateCost(modelUsage)
		costRows := make([][]string, 0, len(est.Lines))
		for _, line := range est.Lines {
			cost := "?"
			if line.Known {
				cost = formatCost(line.USD)
			}
			costRows = append(costRows, []string{
				runewidth.Truncate(line.Model, 32, "…"),
				humanize.Comma(int64(line.Calls)),
				humanize.Comma(int64(line.InputTokens)),
				humanize.Comma(int64(line.OutputTokens)),
				cost,
			})
		}
		label := "TOTAL"
		if est.Partial() {
			label = "TOTAL (partial)"
		}
		fmt.Fprintln(out)
		renderTable(out, tableSpec{
			Title:   "Estimated Cost (USD)",
			Headers: []string{"Model", "Calls", "Input", "Output", "Cost"},
			Aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
			Rows:    costRows,
			Footer:  []string{label, "", "", "", formatCost(est.Total)},
		})
		if est.Partial() {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(est.Unpriced, ", "))
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. exercise-gen)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
