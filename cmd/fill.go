package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/quotafill/internal/augment"
	"github.com/abhisek/quotafill/internal/config"
	"github.com/abhisek/quotafill/internal/dataset"
	"github.com/abhisek/quotafill/internal/fileutil"
	"github.com/abhisek/quotafill/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Append catalog exercises to every skill below quota",
	Long: "fill reads the skills document, appends catalog exercises to each skill " +
		"that has fewer than quota exercises, and rewrites the document in place. " +
		"Existing exercises are never changed, and a candidate whose id is already " +
		"taken is skipped and reported as a conflict.",
	RunE: func(cmd *cobra.Command, args []string) error {
		datasetPath, err := datasetFlag(cmd)
		if err != nil {
			return err
		}
		outPath := datasetPath
		if p, _ := cmd.Flags().GetString("out"); p != "" {
			if outPath, err = config.ExpandPath(p); err != nil {
				return err
			}
		}
		quota := quotaFlag(cmd)
		strict, _ := cmd.Flags().GetBool("strict")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		var rep *augment.Report
		var status store.RunStatus
		err = fileutil.WithLock(outPath, func() error {
			doc, err := dataset.Load(datasetPath)
			if err != nil {
				return err
			}

			var updated dataset.Dataset
			updated, rep, err = augment.Resolve(doc.Skills, cat, quota)
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), rep)

			switch {
			case strict && !rep.Complete():
				status = store.RunAborted
				return nil
			case dryRun:
				status = store.RunDryRun
				return nil
			case !rep.Changed() && outPath == datasetPath:
				status = store.RunUnchanged
				return nil
			}

			data, changed, err := doc.Render(updated, time.Now())
			if err != nil {
				return err
			}
			if err := fileutil.WriteFileAtomic(outPath, data, 0o644); err != nil {
				return err
			}
			status = store.RunUnchanged
			if changed {
				status = store.RunWritten
			}
			logger.Info("dataset written", zap.String("path", outPath), zap.Int("added", rep.Added()))
			return nil
		})
		if err != nil {
			return err
		}

		recordRun(cmd, runFromReport(datasetPath, rep, status))

		switch status {
		case store.RunAborted:
			return &exitError{
				code: exitShortfall,
				err:  fmt.Errorf("strict mode: %d exercises still missing, dataset not written", rep.Shortfall()),
			}
		case store.RunDryRun:
			fmt.Fprintln(cmd.OutOrStdout(), "Dry run: dataset not written.")
		case store.RunWritten:
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.\n", outPath)
		}
		return nil
	},
}

// recordRun appends run to the history database. History is best effort:
// a failure is logged and never fails the fill.
func recordRun(cmd *cobra.Command, run *store.Run) {
	s, err := openStore(cmd)
	if err != nil {
		logger.Warn("run history not recorded", zap.Error(err))
		return
	}
	defer s.Close()

	if err := s.RunRepo().Append(context.Background(), run); err != nil {
		logger.Warn("run history not recorded", zap.Error(err))
		return
	}
	logger.Debug("run recorded", zap.String("id", run.ID), zap.String("status", string(run.Status)))
}

func init() {
	addDatasetFlags(fillCmd)
	addCatalogFlags(fillCmd)
	fillCmd.Flags().Bool("strict", false, "Fail without writing if any skill stays below quota")
	fillCmd.Flags().StringP("out", "o", "", "Write the result here instead of overwriting the dataset")
	fillCmd.Flags().Bool("dry-run", false, "Report what would be added without writing")
}
