package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/loadcalc/internal/config"
	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/logging"
	"github.com/rshade/loadcalc/internal/quick"
	"github.com/rshade/loadcalc/internal/report"
)

// NewQuickCmd creates the "quick" command: the floor-area rule of thumb.
func NewQuickCmd() *cobra.Command {
	var (
		in     quick.Input
		zone   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "quick",
		Short: "Rule-of-thumb estimate from floor area and climate zone",
		Long: `Multiply the floor area by a per-zone factor and size the result against
the equipment ladder. Use it for a first conversation; calc gives the
detailed estimate.`,
		Example: `  loadcalc quick --length 5 --width 4 --zone hot-humid
  loadcalc quick -l 6 -w 3.5 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.ClimateZone = factors.ClimateZone(zone)
			return executeQuick(cmd, in, format)
		},
	}

	cmd.Flags().Float64VarP(&in.Length, "length", "l", 0, "room length in meters")
	cmd.Flags().Float64VarP(&in.Width, "width", "w", 0, "room width in meters")
	cmd.Flags().StringVarP(&zone, "zone", "z", string(factors.ZoneTemperate), "climate zone")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text or json")

	return cmd
}

func executeQuick(cmd *cobra.Command, in quick.Input, formatFlag string) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	format, err := resolveFormat(cfg, formatFlag)
	if err != nil {
		return err
	}
	tables, err := loadTables(cfg)
	if err != nil {
		return err
	}

	res, err := quick.Estimate(in, tables, ladderFor(cfg))
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "quick").
		Float64("floor_area_m2", res.FloorAreaM2).
		Float64("total_btuh", res.TotalBTUh).
		Msg("quick estimate complete")

	if format == report.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return renderQuickText(cmd.OutOrStdout(), res)
}

func renderQuickText(w io.Writer, res quick.Result) error {
	sel := res.Selection
	_, err := fmt.Fprintf(w,
		"Floor area:   %.2f m²\nClimate zone: %s (%.0f BTU/h per m²)\nLoad:         %.0f BTU/h\n"+
			"Recommended:  %.0f BTU/h (%.2f tons, %s)",
		res.FloorAreaM2, res.ClimateZone, res.FactorBTUhPerM2, res.TotalBTUh,
		sel.Step.CapacityBTUh, sel.Step.Tons(), sel.Class)
	if err != nil {
		return err
	}
	if sel.MultiUnitRequired {
		if _, err = fmt.Fprintf(w, " x %d units", sel.UnitsRequired); err != nil {
			return err
		}
	}
	if _, err = fmt.Fprintln(w); err != nil {
		return err
	}
	for _, warn := range res.Warnings {
		if _, err = fmt.Fprintf(w, "Warning: %s\n", warn); err != nil {
			return err
		}
	}
	return nil
}
