package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/loadcalc/internal/config"
	"github.com/rshade/loadcalc/internal/report"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the effective configuration: the user file, the project overlay
and LOADCALC_* environment variables together.

This includes:
- Output format, log level and tie policy names
- Cache TTL bounds
- The factor-table override file, when one is configured
- The custom labels file, when one is configured`,
		Example: `  # Validate current configuration
  loadcalc config validate

  # Validate and show detailed information
  loadcalc config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if _, err := loadTables(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if cfg.Output.LabelsFile != "" {
		if _, err := report.LoadLabelsFile(cfg.Output.LabelsFile); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}
	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Locale: %s\n", cfg.Output.Locale)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}
	cmd.Printf("  Tie policy: %s\n", cfg.TiePolicy())
	if cfg.Calculation.FactorsFile != "" {
		cmd.Printf("  Factor tables: %s\n", cfg.Calculation.FactorsFile)
	} else {
		cmd.Println("  Factor tables: built-in")
	}
	if cfg.Cache.Enabled {
		dir, _ := cfg.CacheDir()
		cmd.Printf("  Cache: %s (ttl %ds)\n", dir, cfg.Cache.TTLSeconds)
	} else {
		cmd.Println("  Cache: disabled")
	}
	if dir := config.GetResolvedProjectDir(); dir != "" {
		cmd.Printf("  Project directory: %s\n", dir)
	}
}

// NewConfigShowCmd creates "config show", which prints the effective
// configuration as YAML.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(config.GetGlobalConfig())
			if err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// NewConfigPathCmd creates "config path", which prints the configuration
// file locations.
func NewConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.ConfigFilePath()
			if err != nil {
				return err
			}
			cmd.Printf("user:    %s\n", path)
			if dir := config.GetResolvedProjectDir(); dir != "" {
				cmd.Printf("project: %s/config.yaml\n", dir)
			}
			return nil
		},
	}
}
