package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/loadcalc/internal/config"
	"github.com/rshade/loadcalc/internal/engine"
	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/load"
	"github.com/rshade/loadcalc/internal/recommend"
)

// tablesDocument is everything that turns a project into a recommendation.
type tablesDocument struct {
	Factors factors.Tables    `yaml:"factors" json:"factors"`
	Margins load.MarginPolicy `yaml:"margins" json:"margins"`
	Ladder  recommend.Ladder  `yaml:"ladder"  json:"ladder"`
}

// NewTablesShowCmd creates "tables show".
func NewTablesShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the coefficient tables, margins and equipment ladder in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			opts, err := engineOptions(cfg)
			if err != nil {
				return err
			}
			eng, err := engine.New(opts)
			if err != nil {
				return err
			}
			doc := tablesDocument{Factors: eng.Tables(), Margins: eng.Margins(), Ladder: eng.Ladder()}
			return writeTables(cmd.OutOrStdout(), doc, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}

// NewTablesExportCmd creates "tables export", which writes the factor tables
// as a YAML file that calculation.factors_file can point to.
func NewTablesExportCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the factor tables to a YAML file for editing",
		Example: `  loadcalc tables export factors.yaml
  loadcalc config show   # then set calculation.factors_file: factors.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%w: %s already exists, use --force to overwrite", ErrAborted, path)
			}
			tables, err := loadTables(config.GetGlobalConfig())
			if err != nil {
				return err
			}
			data, err := tables.Marshal()
			if err != nil {
				return fmt.Errorf("encoding tables: %w", err)
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			cmd.Printf("Factor tables (schema %s) written to %s\n", tables.SchemaVersion, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func writeTables(w io.Writer, doc tablesDocument, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding tables: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported format %q (valid: yaml, json)", format)
	}
}
