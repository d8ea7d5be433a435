package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/loadcalc/internal/cli/pagination"
	"github.com/rshade/loadcalc/internal/config"
	"github.com/rshade/loadcalc/internal/engine"
	"github.com/rshade/loadcalc/internal/engine/batch"
	"github.com/rshade/loadcalc/internal/logging"
	"github.com/rshade/loadcalc/internal/project"
	"github.com/rshade/loadcalc/internal/report"
)

// BatchParams holds the parameters for the batch command. Exported for testing.
type BatchParams struct {
	Files       []string
	Format      string
	Concurrency int
	BatchSize   int
	Progress    bool
	Sort        string
	Paging      pagination.Params
}

// NewBatchCmd creates the "batch" command that sizes many project files.
func NewBatchCmd() *cobra.Command {
	var params BatchParams

	cmd := &cobra.Command{
		Use:   "batch <project-file>...",
		Short: "Estimate many project files at once",
		Long: `Estimate every project file given and print one summary line per room.
A file that cannot be read stops the run; a project that fails validation is
reported in its row and the others are still estimated.`,
		Example: `  loadcalc batch rooms/*.yaml
  loadcalc batch a.yaml b.json --format json --concurrency 8

  # The ten largest loads
  loadcalc batch rooms/*.yaml --sort load:desc --limit 10

  # Second page of 20, by name
  loadcalc batch rooms/*.yaml --sort name --page 2 --page-size 20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Files = args
			return executeBatch(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.Format, "format", "f", "", "output format: text or json")
	cmd.Flags().IntVar(&params.Concurrency, "concurrency", runtime.NumCPU(), "projects estimated in parallel")
	cmd.Flags().IntVar(&params.BatchSize, "batch-size", batch.DefaultBatchSize, "projects per batch")
	cmd.Flags().BoolVar(&params.Progress, "progress", false, "report progress on stderr")
	cmd.Flags().StringVar(&params.Sort, "sort", "",
		"sort rows by field[:asc|desc] (fields: "+strings.Join(batchSorter.Fields(), ", ")+")")
	cmd.Flags().IntVar(&params.Paging.Limit, "limit", 0, "show at most this many rows")
	cmd.Flags().IntVar(&params.Paging.Offset, "offset", 0, "skip this many rows")
	cmd.Flags().IntVar(&params.Paging.Page, "page", 0, "page number, with --page-size")
	cmd.Flags().IntVar(&params.Paging.PageSize, "page-size", 0, "rows per page")

	return cmd
}

// loadProjects reads files concurrently, keeping their order.
func loadProjects(ctx context.Context, files []string, limit int) ([]project.ProjectState, error) {
	states := make([]project.ProjectState, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := project.LoadFile(f)
			if err != nil {
				return err
			}
			states[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}

// batchRow is one room in the batch output.
type batchRow struct {
	File                    string  `json:"file"`
	Name                    string  `json:"name"`
	TotalCapacityBTUh       float64 `json:"total_capacity_btuh,omitempty"`
	RecommendedCapacityBTUh float64 `json:"recommended_capacity_btuh,omitempty"`
	UnitsRequired           int     `json:"units_required,omitempty"`
	EquipmentClass          string  `json:"equipment_class,omitempty"`
	Error                   string  `json:"error,omitempty"`
}

func executeBatch(cmd *cobra.Command, params BatchParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	cfg := config.GetGlobalConfig()

	format, err := resolveFormat(cfg, params.Format)
	if err != nil {
		return err
	}
	if err = params.Paging.Validate(); err != nil {
		return err
	}
	if _, err = batchSorter.Sort(nil, params.Sort); err != nil {
		return err
	}

	states, err := loadProjects(ctx, params.Files, params.Concurrency)
	if err != nil {
		return err
	}
	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "batch").
		Int("files", len(states)).
		Msg("project files loaded")
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	opts := engine.BatchOptions{BatchSize: params.BatchSize, Concurrency: params.Concurrency}
	if params.Progress {
		errOut := cmd.ErrOrStderr()
		var mu sync.Mutex
		opts.OnProgress = func(s batch.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(errOut, "\r%d/%d projects (%.0f%%)", s.ProcessedItems, s.TotalItems, s.Percent())
			if s.Done() {
				fmt.Fprintln(errOut)
			}
		}
	}

	results, err := eng.EstimateBatch(ctx, states, opts)
	if err != nil {
		return err
	}

	rows := make([]batchRow, len(results))
	for i, r := range results {
		rows[i] = batchRow{File: params.Files[i], Name: r.Name}
		if r.Err != nil {
			rows[i].Error = r.Err.Error()
			continue
		}
		rows[i].TotalCapacityBTUh = r.Estimate.Breakdown.TotalCapacityBTUh
		rows[i].RecommendedCapacityBTUh = r.Estimate.Sizing.RecommendedCapacityBTUh
		rows[i].UnitsRequired = r.Estimate.Sizing.UnitsRequired
		rows[i].EquipmentClass = string(r.Estimate.Sizing.EquipmentClass)
	}

	rows, err = batchSorter.Sort(rows, params.Sort)
	if err != nil {
		return err
	}
	total := len(rows)
	rows = pagination.Apply(params.Paging, rows)

	if format == report.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	if err = renderBatchText(cmd.OutOrStdout(), rows); err != nil {
		return err
	}
	if params.Paging.IsEnabled() {
		meta := pagination.NewMeta(params.Paging, total)
		cmd.Printf("Showing %d of %d rows (page %d of %d)\n", len(rows), total, meta.CurrentPage, meta.TotalPages)
	}
	return nil
}

// batchSorter orders batch rows for --sort.
var batchSorter = pagination.NewSorter(map[string]func(a, b batchRow) int{ //nolint:gochecknoglobals // Immutable
	"file":        pagination.By(func(r batchRow) string { return r.File }),
	"name":        pagination.By(func(r batchRow) string { return r.Name }),
	"load":        pagination.By(func(r batchRow) float64 { return r.TotalCapacityBTUh }),
	"recommended": pagination.By(func(r batchRow) float64 { return r.RecommendedCapacityBTUh }),
	"units":       pagination.By(func(r batchRow) int { return r.UnitsRequired }),
})

func renderBatchText(w io.Writer, rows []batchRow) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-24s %-20s %12s %14s  %s\n", "FILE", "NAME", "LOAD", "RECOMMENDED", "CLASS")
	for _, r := range rows {
		if r.Error != "" {
			fmt.Fprintf(&sb, "%-24s %-20s error: %s\n", truncateCell(r.File, 24), truncateCell(r.Name, 20), r.Error)
			continue
		}
		recommended := fmt.Sprintf("%.0f", r.RecommendedCapacityBTUh)
		if r.UnitsRequired > 1 {
			recommended = fmt.Sprintf("%d x %s", r.UnitsRequired, recommended)
		}
		fmt.Fprintf(&sb, "%-24s %-20s %12.0f %14s  %s\n",
			truncateCell(r.File, 24), truncateCell(r.Name, 20), r.TotalCapacityBTUh, recommended, r.EquipmentClass)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func truncateCell(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
