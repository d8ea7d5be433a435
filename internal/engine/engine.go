// Package engine runs the sizing pipeline: normalize the project, compute
// its load, recommend equipment. Results are memoized in memory and,
// optionally, in a file cache so unchanged rooms are not recomputed.
package engine

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rshade/loadcalc/internal/engine/cache"
	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/load"
	"github.com/rshade/loadcalc/internal/project"
	"github.com/rshade/loadcalc/internal/recommend"
)

// DefaultMemoSize is the number of estimates kept in memory.
const DefaultMemoSize = 256

// Options configures an Engine. Zero values take the defaults.
type Options struct {
	Tables   *factors.Tables
	Margins  *load.MarginPolicy
	Ladder   *recommend.Ladder
	MemoSize int
	// Store is an optional second cache tier behind the in-memory memo.
	Store cache.Store
}

// Estimate is the full result for one project.
type Estimate struct {
	Key       string               `json:"key"`
	State     project.ProjectState `json:"state"`
	Breakdown load.Breakdown       `json:"breakdown"`
	Sizing    recommend.Sizing     `json:"sizing"`
}

// Stats counts where estimates came from.
type Stats struct {
	MemoHits  int64 `json:"memo_hits"`
	StoreHits int64 `json:"store_hits"`
	Computed  int64 `json:"computed"`
}

// Engine is safe for concurrent use.
type Engine struct {
	calc      load.Calculator
	ladder    recommend.Ladder
	memo      *lru.Cache[string, Estimate]
	store     cache.Store
	tablesKey string

	memoHits  atomic.Int64
	storeHits atomic.Int64
	computed  atomic.Int64
}

// New builds an Engine. Custom tables, margins and ladder are validated.
func New(opts Options) (*Engine, error) {
	tables := factors.Default()
	if opts.Tables != nil {
		if err := opts.Tables.Validate(); err != nil {
			return nil, err
		}
		tables = *opts.Tables
	}
	margins := load.DefaultMarginPolicy()
	if opts.Margins != nil {
		if err := opts.Margins.Validate(); err != nil {
			return nil, err
		}
		margins = *opts.Margins
	}
	ladder := recommend.DefaultLadder()
	if opts.Ladder != nil {
		if err := opts.Ladder.Validate(); err != nil {
			return nil, err
		}
		ladder = *opts.Ladder
	}

	size := opts.MemoSize
	if size <= 0 {
		size = DefaultMemoSize
	}
	memo, err := lru.New[string, Estimate](size)
	if err != nil {
		return nil, fmt.Errorf("creating estimate memo: %w", err)
	}

	// Results depend on the coefficient tables, so they are part of every key.
	tablesKey, err := cache.Fingerprint(tables, margins, ladder)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting tables: %w", err)
	}

	return &Engine{
		calc:      load.Calculator{Tables: tables, Margins: margins},
		ladder:    ladder,
		memo:      memo,
		store:     opts.Store,
		tablesKey: tablesKey,
	}, nil
}

// Tables returns the coefficient tables in use.
func (e *Engine) Tables() factors.Tables { return e.calc.Tables }

// Margins returns the safety-margin policy in use.
func (e *Engine) Margins() load.MarginPolicy { return e.calc.Margins }

// Ladder returns the equipment ladder in use.
func (e *Engine) Ladder() recommend.Ladder { return e.ladder }

// Stats returns hit and compute counters.
func (e *Engine) Stats() Stats {
	return Stats{
		MemoHits:  e.memoHits.Load(),
		StoreHits: e.storeHits.Load(),
		Computed:  e.computed.Load(),
	}
}

// Purge drops every memoized estimate. The file tier is left alone.
func (e *Engine) Purge() { e.memo.Purge() }
