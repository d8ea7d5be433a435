package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/loadcalc/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// Inside a project (a directory tree with .loadcalc/) it writes the project
// overlay with a .gitignore; otherwise, or with --global, it writes
// ~/.loadcalc/config.yaml. --local starts a project in the working directory.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a project, creates project-local configuration at
$PROJECT/.loadcalc/config.yaml with a .gitignore for cached estimates.
Use --global to write the user configuration even inside a project, or
--local to start a project in the current directory.`,
		Example: `  # Create project-local configuration (inside a project)
  loadcalc config init

  # Start a project here
  loadcalc config init --local

  # Create global configuration, overwriting an existing one
  loadcalc config init --global --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if global && local {
				return errors.New("--global and --local are mutually exclusive")
			}

			projectDir := config.GetResolvedProjectDir()
			if local {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				projectDir = filepath.Join(cwd, ".loadcalc")
			}

			if projectDir != "" && !global {
				return initProjectConfig(cmd, projectDir, force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "write the user configuration even inside a project")
	cmd.Flags().BoolVar(&local, "local", false, "create project configuration in the current directory")

	return cmd
}

// checkWritable refuses to replace an existing file unless force is set.
func checkWritable(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}

// initProjectConfig creates project-local config at projectDir/config.yaml with .gitignore.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")
	if err := checkWritable(configPath, force); err != nil {
		return err
	}

	if err := config.Default().Save(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Create .gitignore (never overwrites existing)
	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created .gitignore for cached estimates and logs\n")
	}
	return nil
}

// initGlobalConfig creates global config at ~/.loadcalc/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	path, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	if err := checkWritable(path, force); err != nil {
		return err
	}
	if err := config.Default().Save(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := config.EnsureSubDirs(); err != nil {
		return fmt.Errorf("failed to create configuration directories: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", path)
	return nil
}
