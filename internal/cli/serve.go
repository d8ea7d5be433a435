package cli

import (
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/loadcalc/internal/api"
	"github.com/rshade/loadcalc/internal/config"
)

// ServeParams holds the parameters for the serve command.
type ServeParams struct {
	Addr       string
	Locale     string
	LabelsFile string
}

// NewServeCmd creates the "serve" command, which exposes the estimator over
// HTTP until interrupted.
func NewServeCmd() *cobra.Command {
	var params ServeParams

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the estimator over HTTP",
		Long: `Starts an HTTP server with JSON endpoints for estimating projects:

  GET  /health          liveness
  GET  /v1/defaults     a default project to start from
  GET  /v1/tables       coefficient tables, margins and equipment ladder
  POST /v1/calculate    project JSON in, estimate JSON out
  POST /v1/what-if      {"project": ..., "overrides": {...}}
  POST /v1/report       ?format=json|markdown|html|text&locale=es
  POST /v1/quick        {"length": 5, "width": 4, "climate_zone": "temperate"}

Invalid projects are answered with 422 and the list of rejected fields.
The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  loadcalc serve
  loadcalc serve --addr :9090 --locale es`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeServe(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Addr, "addr", "", "listen address (default from server.addr)")
	cmd.Flags().StringVar(&params.Locale, "locale", "", "report locale when a request names none")
	cmd.Flags().StringVar(&params.LabelsFile, "labels", "", "custom labels file used for every report")

	return cmd
}

func executeServe(cmd *cobra.Command, params ServeParams) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	opts := api.Options{
		Locale:   params.Locale,
		Branding: cfg.Output.Branding,
		Logger:   baseLogger,
	}
	if opts.Locale == "" {
		opts.Locale = cfg.Output.Locale
	}
	labelsFile := params.LabelsFile
	if labelsFile == "" {
		labelsFile = cfg.Output.LabelsFile
	}
	if labelsFile != "" {
		labels, lerr := loadLabels(cfg, "", labelsFile)
		if lerr != nil {
			return lerr
		}
		opts.Labels = &labels
	}

	addr := params.Addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	timeouts := api.Timeouts{
		Read:     time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		Write:    time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		Shutdown: time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second,
	}

	srv := api.NewServer(eng, opts)
	return srv.ListenAndServe(ctx, addr, timeouts, func(a net.Addr) {
		cmd.PrintErrf("Listening on http://%s\n", a)
	})
}
