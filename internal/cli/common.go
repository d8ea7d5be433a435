package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rshade/loadcalc/internal/config"
	"github.com/rshade/loadcalc/internal/engine"
	"github.com/rshade/loadcalc/internal/engine/cache"
	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/recommend"
	"github.com/rshade/loadcalc/internal/report"
)

// loadTables returns the configured coefficient tables, or the built-in ones.
func loadTables(cfg *config.Config) (factors.Tables, error) {
	if cfg.Calculation.FactorsFile == "" {
		return factors.Default(), nil
	}
	t, err := factors.Load(cfg.Calculation.FactorsFile)
	if err != nil {
		return factors.Tables{}, fmt.Errorf("loading factor tables: %w", err)
	}
	return t, nil
}

// ladderFor returns the default ladder with the configured tie policy.
func ladderFor(cfg *config.Config) recommend.Ladder {
	ladder := recommend.DefaultLadder()
	ladder.Tie = cfg.TiePolicy()
	return ladder
}

// openStore opens the estimate cache when it is enabled in cfg. It returns
// nil when caching is off.
func openStore(cfg *config.Config) (*cache.FileStore, error) {
	if !cfg.Cache.Enabled {
		return nil, nil //nolint:nilnil // A nil store disables caching.
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}
	return cache.NewFileStore(dir, true, cfg.Cache.TTLSeconds)
}

// newEngine builds an estimator from the configuration.
func newEngine(cfg *config.Config) (*engine.Engine, error) {
	opts, err := engineOptions(cfg)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	if store != nil {
		opts.Store = store
	}
	return engine.New(opts)
}

// engineOptions returns the configured tables, ladder and memo size. The
// cache store is left to newEngine.
func engineOptions(cfg *config.Config) (engine.Options, error) {
	tables, err := loadTables(cfg)
	if err != nil {
		return engine.Options{}, err
	}
	ladder := ladderFor(cfg)
	return engine.Options{Tables: &tables, Ladder: &ladder, MemoSize: cfg.Calculation.MemoSize}, nil
}

// loadLabels resolves report labels: an explicit file wins, then the
// requested locale, then the configured one.
func loadLabels(cfg *config.Config, locale, labelsFile string) (report.Labels, error) {
	if labelsFile == "" {
		labelsFile = cfg.Output.LabelsFile
	}
	if labelsFile != "" {
		return report.LoadLabelsFile(labelsFile)
	}
	if locale == "" {
		locale = cfg.Output.Locale
	}
	return report.LoadLabels(locale)
}

// resolveFormat parses the --format flag, falling back to the configured
// default.
func resolveFormat(cfg *config.Config, flag string) (report.Format, error) {
	if strings.TrimSpace(flag) == "" {
		flag = cfg.Output.DefaultFormat
	}
	return report.ParseFormat(flag)
}

// openOutput returns a writer for --output, or w when path is empty. The
// returned close function is never nil.
func openOutput(w io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return w, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening output file: %w", err)
	}
	return f, f.Close, nil
}
