package cmd

import (
	"fmt"

	"github.com/abhisek/quotafill/internal/catalog"
	"github.com/abhisek/quotafill/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Flags shared by commands that read a dataset and catalogs.
func addDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("dataset", "d", "", "Skills document (default from config)")
	cmd.Flags().IntP("quota", "q", 0, "Minimum exercises per skill (default from config)")
}

func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("catalog", "c", nil, "Extra catalog file, YAML or JSON (repeatable)")
	cmd.Flags().Bool("no-seed", false, "Do not use the built-in seed catalog")
}

// datasetFlag returns --dataset, expanded, or the configured dataset.
func datasetFlag(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("dataset"); p != "" {
		return config.ExpandPath(p)
	}
	return cfg.Dataset, nil
}

// quotaFlag returns --quota when given, otherwise the configured quota.
// An explicit non-positive value is passed through so the resolver can
// reject it.
func quotaFlag(cmd *cobra.Command) int {
	if cmd.Flags().Changed("quota") {
		q, _ := cmd.Flags().GetInt("quota")
		return q
	}
	return cfg.Quota
}

// loadCatalog merges the seed catalog (unless disabled), the configured
// catalog files and the --catalog files, in that order.
func loadCatalog(cmd *cobra.Command) (*catalog.Static, error) {
	noSeed, _ := cmd.Flags().GetBool("no-seed")
	extra, _ := cmd.Flags().GetStringArray("catalog")

	var sources []*catalog.Static
	if cfg.UseSeedCatalog && !noSeed {
		seed, err := catalog.Seed()
		if err != nil {
			return nil, err
		}
		sources = append(sources, seed)
	}

	paths := append([]string(nil), cfg.Catalogs...)
	for _, p := range extra {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
		paths = append(paths, expanded)
	}
	files, err := catalog.LoadFiles(paths)
	if err != nil {
		return nil, err
	}
	sources = append(sources, files)

	merged := catalog.Merge(sources...)
	logger.Debug("catalog loaded",
		zap.Int("sources", len(paths)),
		zap.Bool("seed", cfg.UseSeedCatalog && !noSeed),
		zap.Int("candidates", merged.Len()))
	return merged, nil
}
