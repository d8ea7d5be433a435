package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/rshade/loadcalc/internal/engine/cache"
	"github.com/rshade/loadcalc/internal/load"
	"github.com/rshade/loadcalc/internal/logging"
	"github.com/rshade/loadcalc/internal/project"
	"github.com/rshade/loadcalc/internal/recommend"
)

// Estimate normalizes state, computes its load and recommends equipment.
// Identical inputs return the memoized result. A *load.ValidationError is
// returned unchanged so callers can list the offending fields.
func (e *Engine) Estimate(ctx context.Context, state project.ProjectState) (Estimate, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	normalized := project.Normalize(state)
	if err := load.Validate(normalized); err != nil {
		log.Debug().
			Ctx(ctx).
			Str("component", "engine").
			Str("operation", "estimate").
			Err(err).
			Msg("project rejected")
		return Estimate{}, err
	}

	key, err := e.key(normalized)
	if err != nil {
		return Estimate{}, err
	}

	if est, ok := e.memo.Get(key); ok {
		e.memoHits.Add(1)
		log.Debug().
			Ctx(ctx).
			Str("component", "engine").
			Str("key", key[:12]).
			Msg("estimate served from memo")
		return est.withState(normalized), nil
	}

	if est, ok := e.fromStore(ctx, key); ok {
		e.storeHits.Add(1)
		e.memo.Add(key, est)
		return est.withState(normalized), nil
	}

	breakdown, err := e.calc.Compute(normalized)
	if err != nil {
		return Estimate{}, err
	}
	est := Estimate{
		Key:       key,
		State:     normalized,
		Breakdown: breakdown,
		Sizing:    recommend.Recommend(breakdown, normalized, e.ladder),
	}
	e.computed.Add(1)
	e.memo.Add(key, est)
	e.toStore(ctx, key, est)

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "estimate").
		Str("project", normalized.Name).
		Float64("total_btuh", breakdown.TotalCapacityBTUh).
		Float64("recommended_btuh", est.Sizing.RecommendedCapacityBTUh).
		Str("dominant", string(est.Sizing.DominantLoadSource)).
		Int("warnings", len(breakdown.Warnings)).
		Int64("duration_us", time.Since(start).Microseconds()).
		Msg("estimate computed")

	return est.clone(), nil
}

// key fingerprints state without its segment IDs. IDs do not affect the
// result, and Normalize generates fresh ones for ID-less segments.
func (e *Engine) key(state project.ProjectState) (string, error) {
	anon := state.Clone()
	for i := range anon.Walls {
		anon.Walls[i].ID = ""
	}
	for i := range anon.Windows {
		anon.Windows[i].ID = ""
	}
	key, err := cache.Fingerprint(e.tablesKey, anon)
	if err != nil {
		return "", fmt.Errorf("fingerprinting project: %w", err)
	}
	return key, nil
}

func (e *Engine) fromStore(ctx context.Context, key string) (Estimate, bool) {
	if e.store == nil {
		return Estimate{}, false
	}
	entry, err := e.store.Get(key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) && !errors.Is(err, cache.ErrExpired) &&
			!errors.Is(err, cache.ErrDisabled) {
			logging.FromContext(ctx).Warn().
				Ctx(ctx).
				Str("component", "engine").
				Err(err).
				Msg("cache read failed")
		}
		return Estimate{}, false
	}
	var est Estimate
	if decodeErr := entry.Decode(&est); decodeErr != nil {
		logging.FromContext(ctx).Warn().
			Ctx(ctx).
			Str("component", "engine").
			Err(decodeErr).
			Msg("discarding unreadable cache entry")
		return Estimate{}, false
	}
	return est, true
}

func (e *Engine) toStore(ctx context.Context, key string, est Estimate) {
	if e.store == nil {
		return
	}
	data, err := json.Marshal(est)
	if err == nil {
		err = e.store.Set(key, data)
	}
	if err != nil && !errors.Is(err, cache.ErrDisabled) {
		logging.FromContext(ctx).Warn().
			Ctx(ctx).
			Str("component", "engine").
			Err(err).
			Msg("cache write failed")
	}
}

// clone copies the slices so callers cannot reach memoized data.
func (est Estimate) clone() Estimate {
	out := est
	out.State = est.State.Clone()
	out.Breakdown.Walls = slices.Clone(est.Breakdown.Walls)
	out.Breakdown.Windows = slices.Clone(est.Breakdown.Windows)
	out.Breakdown.Warnings = slices.Clone(est.Breakdown.Warnings)
	out.Sizing.Tips = slices.Clone(est.Sizing.Tips)
	return out
}

// withState copies a cached estimate onto the caller's normalized state so
// the returned segment IDs are the caller's.
func (est Estimate) withState(state project.ProjectState) Estimate {
	out := est.clone()
	out.State = state.Clone()
	for i := range out.Breakdown.Walls {
		if i < len(state.Walls) {
			out.Breakdown.Walls[i].ID = state.Walls[i].ID
		}
	}
	for i := range out.Breakdown.Windows {
		if i < len(state.Windows) {
			out.Breakdown.Windows[i].ID = state.Windows[i].ID
		}
	}
	return out
}

// Delta is the effect of one override on the required capacity.
type Delta struct {
	Property      string  `json:"property"`
	OriginalValue string  `json:"original_value"`
	NewValue      string  `json:"new_value"`
	ChangeBTUh    float64 `json:"change_btuh"`
}

// WhatIfResult compares a project with and without a set of overrides.
type WhatIfResult struct {
	Baseline    Estimate `json:"baseline"`
	Modified    Estimate `json:"modified"`
	TotalChange float64  `json:"total_change_btuh"`
	// Deltas has one entry per override, each applied alone to the baseline,
	// sorted by property name.
	Deltas []Delta `json:"deltas"`
	// StepChanged is set when the overrides move the recommended size.
	StepChanged bool `json:"step_changed"`
}

// WhatIf estimates state before and after applying overrides (see
// project.ApplyOverrides for the keys).
func (e *Engine) WhatIf(
	ctx context.Context,
	state project.ProjectState,
	overrides map[string]string,
) (*WhatIfResult, error) {
	log := logging.FromContext(ctx)

	baseline, err := e.Estimate(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	modifiedState, err := project.ApplyOverrides(baseline.State, overrides)
	if err != nil {
		return nil, err
	}
	modified, err := e.Estimate(ctx, modifiedState)
	if err != nil {
		return nil, fmt.Errorf("modified project: %w", err)
	}

	deltas := make([]Delta, 0, len(overrides))
	for _, key := range slices.Sorted(maps.Keys(overrides)) {
		original, _ := project.OverrideValue(baseline.State, key)
		single, applyErr := project.ApplyOverrides(baseline.State, map[string]string{key: overrides[key]})
		if applyErr != nil {
			return nil, applyErr
		}
		est, estErr := e.Estimate(ctx, single)
		if estErr != nil {
			return nil, fmt.Errorf("override %s: %w", key, estErr)
		}
		deltas = append(deltas, Delta{
			Property:      key,
			OriginalValue: original,
			NewValue:      overrides[key],
			ChangeBTUh:    est.Breakdown.TotalCapacityBTUh - baseline.Breakdown.TotalCapacityBTUh,
		})
	}

	result := &WhatIfResult{
		Baseline:    baseline,
		Modified:    modified,
		TotalChange: modified.Breakdown.TotalCapacityBTUh - baseline.Breakdown.TotalCapacityBTUh,
		Deltas:      deltas,
		StepChanged: modified.Sizing.RecommendedCapacityBTUh != baseline.Sizing.RecommendedCapacityBTUh ||
			modified.Sizing.UnitsRequired != baseline.Sizing.UnitsRequired,
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "what_if").
		Int("override_count", len(overrides)).
		Float64("total_change", result.TotalChange).
		Bool("step_changed", result.StepChanged).
		Msg("what-if estimate complete")

	return result, nil
}
