package engine

import (
	"context"

	"github.com/rshade/loadcalc/internal/engine/batch"
	"github.com/rshade/loadcalc/internal/logging"
	"github.com/rshade/loadcalc/internal/project"
)

// BatchResult is the outcome for one project of a batch. Exactly one of
// Estimate and Err is set.
type BatchResult struct {
	Index    int
	Name     string
	Estimate *Estimate
	Err      error
}

// BatchOptions tunes EstimateBatch. Zero values take the defaults.
type BatchOptions struct {
	BatchSize   int
	Concurrency int
	OnProgress  batch.ProgressFunc
}

// EstimateBatch estimates every state. A project that fails validation
// records its error in its result and does not stop the others; only
// context cancellation aborts the run. Results keep the input order.
func (e *Engine) EstimateBatch(
	ctx context.Context,
	states []project.ProjectState,
	opts BatchOptions,
) ([]BatchResult, error) {
	results := make([]BatchResult, len(states))
	if len(states) == 0 {
		return results, nil
	}

	proc := batch.NewDefaultProcessor[project.ProjectState]()
	if opts.BatchSize > 0 {
		p, err := batch.NewProcessor[project.ProjectState](opts.BatchSize)
		if err != nil {
			return nil, err
		}
		proc = p
	}
	proc.WithProgress(opts.OnProgress)

	// Each batch writes a disjoint range of results, so no lock is needed.
	err := proc.ProcessConcurrent(ctx, states, func(ctx context.Context, items []project.ProjectState, offset int) error {
		for i, s := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			idx := offset + i
			results[idx] = BatchResult{Index: idx, Name: s.Name}
			est, err := e.Estimate(ctx, s)
			if err != nil {
				results[idx].Err = err
				continue
			}
			results[idx].Estimate = &est
		}
		return nil
	}, max(opts.Concurrency, 1))
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logging.FromContext(ctx).Info().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "estimate_batch").
		Int("projects", len(states)).
		Int("failed", failed).
		Msg("batch estimate complete")

	return results, nil
}
