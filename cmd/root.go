package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/quotafill/internal/config"
	"github.com/abhisek/quotafill/internal/logging"
	"github.com/abhisek/quotafill/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes beyond the generic failure.
const (
	exitFailure   = 1
	exitDeficit   = 2 // check found skills below quota
	exitShortfall = 3 // fill --strict left a shortfall
)

// exitError carries a process exit code. A nil err means the command has
// already reported the problem and nothing more is printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

// runtime state shared by subcommands, set up in PersistentPreRunE.
var (
	cfg     *config.Config
	cfgPath string
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "quotafill",
	Short: "Keep every skill stocked with advanced exercises",
	Long: "quotafill checks a skills document against a per-skill exercise quota and " +
		"fills the gaps from authored catalogs or LLM-generated drafts.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFlag, _ := cmd.Flags().GetString("config")
		loaded, path, _, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		cfg, cfgPath = loaded, path

		level := cfg.LogLevel
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = "debug"
		}
		l, err := logging.New(level)
		if err != nil {
			return err
		}
		logger = l
		logger.Debug("configuration loaded", zap.String("path", cfgPath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) || ee.err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./quotafill.toml, then $XDG_CONFIG_HOME/quotafill/config.toml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite history database (overrides QUOTAFILL_DB and db_path)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the QUOTAFILL_DB env var or db_path setting, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the history database selected by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
