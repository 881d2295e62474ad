package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/abhisek/quotafill/internal/augment"
	"github.com/abhisek/quotafill/internal/catalog"
	"github.com/abhisek/quotafill/internal/config"
	"github.com/abhisek/quotafill/internal/dataset"
	"github.com/abhisek/quotafill/internal/exercisegen"
	"github.com/abhisek/quotafill/internal/fileutil"
	"github.com/abhisek/quotafill/internal/llm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft missing exercises with an LLM into a catalog file",
	Long: "generate works out what each skill still needs after the catalogs are " +
		"applied and asks the configured LLM provider for that many new exercises. " +
		"The drafts are written to a catalog file for review; the dataset itself is " +
		"never modified. Apply the reviewed file with `quotafill fill --catalog <file>`.\n\n" +
		"The provider is selected with QUOTAFILL_LLM_PROVIDER and the matching " +
		"QUOTAFILL_<PROVIDER>_API_KEY, or discovered from a standard API key variable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		datasetPath, err := datasetFlag(cmd)
		if err != nil {
			return err
		}
		quota := quotaFlag(cmd)
		force, _ := cmd.Flags().GetBool("force")

		outPath := cfg.Generate.Output
		if p, _ := cmd.Flags().GetString("out"); p != "" {
			if outPath, err = config.ExpandPath(p); err != nil {
				return err
			}
		}
		format, err := catalog.FormatFromPath(outPath)
		if err != nil {
			return err
		}
		if !force {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}

		opts := exercisegen.BatchOptions{
			Concurrency: cfg.Generate.Concurrency,
			Difficulty:  cfg.Generate.Difficulty,
			Logger:      logger.Named("generate"),
		}
		if cmd.Flags().Changed("concurrency") {
			opts.Concurrency, _ = cmd.Flags().GetInt("concurrency")
		}
		if cmd.Flags().Changed("difficulty") {
			opts.Difficulty, _ = cmd.Flags().GetInt("difficulty")
		}

		doc, err := dataset.Load(datasetPath)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		// Generate only what the catalogs cannot supply, and number the
		// drafts after the ids those candidates will take.
		filled, rep, err := augment.Resolve(doc.Skills, cat, quota)
		if err != nil {
			return err
		}
		if rep.Complete() {
			fmt.Fprintf(cmd.OutOrStdout(), "Every skill reaches quota %d with the current catalogs; nothing to generate.\n", quota)
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		provider, err := llm.NewProviderFromEnv(ctx, s.EventRepo(), logger)
		if err != nil {
			return fmt.Errorf("llm provider: %w", err)
		}
		genCfg := exercisegen.DefaultConfig()
		genCfg.MaxTokens = cfg.Generate.MaxTokens
		genCfg.Temperature = cfg.Generate.Temperature
		gen := exercisegen.New(provider, genCfg)

		logger.Info("generating exercises",
			zap.String("model", provider.ModelID()),
			zap.Int("skills", len(rep.Unmet())),
			zap.Int("exercises", rep.Shortfall()))

		drafts, batch, err := exercisegen.Batch(ctx, gen, filled, quota, opts)
		if err != nil {
			return err
		}
		renderBatch(cmd, batch)
		usage := gen.Usage()
		logger.Info("generation finished",
			zap.Int("input_tokens", usage.InputTokens),
			zap.Int("output_tokens", usage.OutputTokens))

		if drafts.Len() == 0 {
			return errors.New("no exercises were generated")
		}
		data, err := catalog.Encode(drafts, format)
		if err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
		if err := fileutil.WriteFileAtomic(outPath, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d draft exercises to %s.\n", drafts.Len(), outPath)
		return nil
	},
}

func renderBatch(cmd *cobra.Command, batch *exercisegen.BatchReport) {
	rows := make([][]string, 0, len(batch.Skills))
	requested, failed := 0, 0
	for _, r := range batch.Skills {
		requested += r.Requested
		failed += len(r.Failures)
		rows = append(rows, []string{
			r.SkillID,
			strconv.Itoa(r.Requested),
			idList(r.Generated),
			strconv.Itoa(len(r.Failures)),
		})
	}
	renderTable(cmd.OutOrStdout(), tableSpec{
		Title:   "Generated drafts",
		Headers: []string{"Skill", "Requested", "Generated", "Failed"},
		Aligns:  []columnAlignment{alignLeft, alignRight, alignLeft, alignRight},
		Rows:    rows,
		Footer:  []string{"Total", strconv.Itoa(requested), strconv.Itoa(batch.Generated()), strconv.Itoa(failed)},
	})
	if missing := batch.Missing(); missing > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d exercises could not be generated; rerun with --catalog <drafts> to draft only the rest.\n", missing)
	}
	for _, r := range batch.Skills {
		for _, f := range r.Failures {
			logger.Debug("generation failure", zap.String("skill", r.SkillID), zap.String("error", firstLine(f)))
		}
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func init() {
	addDatasetFlags(generateCmd)
	addCatalogFlags(generateCmd)
	generateCmd.Flags().StringP("out", "o", "", "Catalog file to write, .yaml or .json (default from config)")
	generateCmd.Flags().Bool("force", false, "Overwrite an existing output file")
	generateCmd.Flags().Int("concurrency", exercisegen.DefaultConcurrency, "Skills generated in parallel")
	generateCmd.Flags().Int("difficulty", 0, "Target difficulty 1-5 (0 lets the model choose)")
}
