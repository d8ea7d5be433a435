package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/loadcalc/internal/config"
	"github.com/rshade/loadcalc/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// baseLogger is logger without the cli component, for long-running
// subsystems that tag their own.
var baseLogger zerolog.Logger //nolint:gochecknoglobals // Set once per command run

// NewRootCmd creates the root Cobra command for the loadcalc CLI.
// It loads .env and configuration, sets up logging, and wires the
// subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:   "loadcalc",
		Short: "Cooling-load estimation and equipment sizing",
		Long: `loadcalc estimates the sensible cooling load of a room from its walls,
windows, ceiling, occupants and equipment, and recommends a standard
air-conditioner size for it.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfiguration(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("project-dir", "",
		"project directory holding .loadcalc/config.yaml (default: search upward from the working directory)")
	cmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before configuration")

	cmd.AddCommand(
		NewCalcCmd(), NewQuickCmd(), NewInitCmd(), NewEditCmd(), NewBatchCmd(),
		NewServeCmd(), newTablesCmd(), newConfigCmd(), newCacheCmd(),
	)

	return cmd
}

// loadConfiguration loads the dotenv file, resolves the project directory
// and installs the merged configuration as the global config.
func loadConfiguration(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	flagDir, _ := cmd.Flags().GetString("project-dir")
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	projectDir := config.ResolveProjectDir(cmd.Context(), flagDir, cwd)
	config.SetResolvedProjectDir(projectDir)
	config.SetGlobalConfig(config.NewWithProjectDir(cmd.Context(), projectDir))
	return nil
}

const rootCmdExample = `  # Create a project file and estimate it
  loadcalc init office.yaml
  loadcalc calc office.yaml

  # Spanish markdown report with a what-if change
  loadcalc calc office.yaml --locale es --format markdown --set occupants=6

  # Rule-of-thumb estimate from the floor area
  loadcalc quick --length 5 --width 4 --zone hot-humid

  # Size many rooms at once
  loadcalc batch rooms/*.yaml

  # Edit a project interactively with live recalculation
  loadcalc edit office.yaml

  # Serve the HTTP API
  loadcalc serve --addr 127.0.0.1:8080`

// newTablesCmd creates the tables command group.
func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tables", Short: "Inspect the coefficient tables"}
	cmd.AddCommand(NewTablesShowCmd(), NewTablesExportCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd(), NewConfigPathCmd())
	return cmd
}

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Manage the on-disk estimate cache"}
	cmd.AddCommand(NewCacheStatsCmd(), NewCacheClearCmd(), NewCachePruneCmd())
	return cmd
}
