package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/loadcalc/internal/config"
	"github.com/rshade/loadcalc/internal/engine"
	"github.com/rshade/loadcalc/internal/logging"
	"github.com/rshade/loadcalc/internal/project"
	"github.com/rshade/loadcalc/internal/report"
)

// CalcParams holds the parameters for the calc command. Exported for testing.
type CalcParams struct {
	ProjectFile string
	Set         []string // key=value format
	Format      string
	Locale      string
	LabelsFile  string
	Output      string
}

// NewCalcCmd creates the "calc" command that estimates a project file and
// prints the report.
func NewCalcCmd() *cobra.Command {
	var params CalcParams

	cmd := &cobra.Command{
		Use:   "calc <project-file>",
		Short: "Estimate the cooling load of a project",
		Long: `Estimate the cooling load of a YAML or JSON project file and recommend
equipment for it.

With --set the project is estimated twice, before and after the changes,
and the report shows the modified project together with the effect of each
change.`,
		Example: `  # Text report
  loadcalc calc office.yaml

  # What if two more people use the room and the lighting is upgraded?
  loadcalc calc office.yaml --set occupants=4 --set lighting_watts=120

  # Spanish HTML report written to a file
  loadcalc calc office.yaml --locale es --format html --output office.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.ProjectFile = args[0]
			return executeCalc(cmd, params)
		},
	}

	cmd.Flags().StringArrayVar(&params.Set, "set", nil,
		"override a project property key=value (repeatable; keys: "+strings.Join(project.OverrideKeys(), ", ")+")")
	cmd.Flags().StringVarP(&params.Format, "format", "f", "", "output format: text, markdown, html, json")
	cmd.Flags().StringVar(&params.Locale, "locale", "", "report locale, e.g. en or es-MX")
	cmd.Flags().StringVar(&params.LabelsFile, "labels", "", "custom labels YAML file")
	cmd.Flags().StringVarP(&params.Output, "output", "o", "", "write the report to a file instead of stdout")

	return cmd
}

// keyValueParts is the expected number of parts when splitting key=value strings.
const keyValueParts = 2

// Limits for --set parsing.
const (
	maxPropertyOverrides = 100
	maxPropertyValueLen  = 1024
	maxPropertyKeyLen    = 64
)

// ParsePropertyOverrides parses --set key=value flags into a map.
// Exported for testing.
func ParsePropertyOverrides(props []string) (map[string]string, error) {
	if len(props) > maxPropertyOverrides {
		return nil, fmt.Errorf("too many property overrides: %d (max %d)", len(props), maxPropertyOverrides)
	}

	overrides := make(map[string]string, len(props))
	for _, p := range props {
		parts := strings.SplitN(p, "=", keyValueParts)
		if len(parts) != keyValueParts {
			return nil, fmt.Errorf("invalid property format %q: expected key=value", p)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, fmt.Errorf("property key cannot be empty in %q", p)
		}
		if len(key) > maxPropertyKeyLen {
			return nil, fmt.Errorf("property key too long: %d bytes (max %d)", len(key), maxPropertyKeyLen)
		}
		if len(value) > maxPropertyValueLen {
			return nil, fmt.Errorf("property value too large for key %q: %d bytes (max %d)",
				key, len(value), maxPropertyValueLen)
		}
		overrides[key] = value
	}
	return overrides, nil
}

// executeCalc loads the project, estimates it and renders the report.
func executeCalc(cmd *cobra.Command, params CalcParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	cfg := config.GetGlobalConfig()

	format, err := resolveFormat(cfg, params.Format)
	if err != nil {
		return err
	}
	overrides, err := ParsePropertyOverrides(params.Set)
	if err != nil {
		return err
	}
	labels, err := loadLabels(cfg, params.Locale, params.LabelsFile)
	if err != nil {
		return err
	}

	state, err := project.LoadFile(params.ProjectFile)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "calc").
		Str("project_file", params.ProjectFile).
		Int("override_count", len(overrides)).
		Str("format", string(format)).
		Msg("estimating project")

	var (
		est    engine.Estimate
		whatIf *engine.WhatIfResult
	)
	if len(overrides) == 0 {
		est, err = eng.Estimate(ctx, state)
	} else {
		whatIf, err = eng.WhatIf(ctx, state, overrides)
		if whatIf != nil {
			est = whatIf.Modified
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", params.ProjectFile, err)
	}

	w, closeOut, err := openOutput(cmd.OutOrStdout(), params.Output)
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()

	doc := report.FormatReport(inputFor(est), labels, cfg.Output.Branding)
	if err := renderCalc(w, doc, format, whatIf); err != nil {
		return err
	}
	if params.Output != "" {
		if err := closeOut(); err != nil {
			return err
		}
		cmd.PrintErrf("Report written to %s\n", params.Output)
	}
	return nil
}

// inputFor adapts an estimate to the report boundary.
func inputFor(est engine.Estimate) report.Input {
	return report.Input{Key: est.Key, State: est.State, Breakdown: est.Breakdown, Sizing: est.Sizing}
}

// calcJSON is the JSON shape of a calc with what-if changes.
type calcJSON struct {
	Report report.Document      `json:"report"`
	WhatIf *engine.WhatIfResult `json:"what_if"`
}

// renderCalc writes the report and, for what-if runs, the change summary.
// HTML output carries the report only.
func renderCalc(w io.Writer, doc report.Document, format report.Format, whatIf *engine.WhatIfResult) error {
	if whatIf == nil {
		return report.Render(w, doc, format)
	}

	if format == report.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(calcJSON{Report: doc, WhatIf: whatIf})
	}

	if err := report.Render(w, doc, format); err != nil {
		return err
	}
	switch format {
	case report.FormatText:
		return renderWhatIfText(w, whatIf)
	case report.FormatMarkdown:
		return renderWhatIfMarkdown(w, whatIf)
	default:
		return nil
	}
}

func renderWhatIfText(w io.Writer, res *engine.WhatIfResult) error {
	var sb strings.Builder
	sb.WriteString("\nWHAT-IF\n")
	fmt.Fprintf(&sb, "  Baseline: %.0f BTU/h -> %.0f BTU/h\n",
		res.Baseline.Breakdown.TotalCapacityBTUh, res.Baseline.Sizing.RecommendedCapacityBTUh)
	fmt.Fprintf(&sb, "  Modified: %.0f BTU/h -> %.0f BTU/h\n",
		res.Modified.Breakdown.TotalCapacityBTUh, res.Modified.Sizing.RecommendedCapacityBTUh)
	fmt.Fprintf(&sb, "  Change:   %+.0f BTU/h\n", res.TotalChange)
	if res.StepChanged {
		sb.WriteString("  Equipment size changes\n")
	}
	for _, d := range res.Deltas {
		fmt.Fprintf(&sb, "  %-24s %12s -> %-12s %+.0f BTU/h\n", d.Property, d.OriginalValue, d.NewValue, d.ChangeBTUh)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func renderWhatIfMarkdown(w io.Writer, res *engine.WhatIfResult) error {
	var sb strings.Builder
	sb.WriteString("\n## What-if\n\n")
	fmt.Fprintf(&sb, "Total change: **%+.0f BTU/h**", res.TotalChange)
	if res.StepChanged {
		fmt.Fprintf(&sb, " (equipment %.0f -> %.0f BTU/h)",
			res.Baseline.Sizing.RecommendedCapacityBTUh, res.Modified.Sizing.RecommendedCapacityBTUh)
	}
	sb.WriteString("\n\n| Property | Original | New | Change |\n|---|---|---|---:|\n")
	for _, d := range res.Deltas {
		fmt.Fprintf(&sb, "| %s | %s | %s | %+.0f BTU/h |\n", d.Property, d.OriginalValue, d.NewValue, d.ChangeBTUh)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
