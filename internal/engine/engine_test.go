package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/loadcalc/internal/engine/batch"
	"github.com/rshade/loadcalc/internal/engine/cache"
	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/load"
	"github.com/rshade/loadcalc/internal/project"
	"github.com/rshade/loadcalc/internal/recommend"
)

func room() project.ProjectState {
	s := project.CreateDefault()
	s.Name = "office"
	s.Dimensions = project.Dimensions{Length: 4, Width: 2.5, Height: 2.5}
	s.AddWall(project.WallSegment{ID: "w1", Area: 10, Material: factors.MaterialStandardBrick,
		Orientation: factors.OrientationS, SunExposure: factors.ExposureFull})
	s.AddWindow(project.WindowSegment{ID: "v1", Area: 2, GlassType: factors.GlassSinglePane,
		Protection: factors.ProtectionNone, Orientation: factors.OrientationS})
	s.Ceiling = project.Ceiling{Type: factors.CeilingFlat, Color: factors.ColorDark, ExposedToSun: true}
	s.Occupants = 2
	s.EquipmentLoadWatts = 300
	s.RoomVolume = 25
	return s
}

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(opts)
	require.NoError(t, err)
	return e
}

func TestEngine_EstimateMatchesPipeline(t *testing.T) {
	e := newEngine(t, Options{})
	ctx := context.Background()

	got, err := e.Estimate(ctx, room())
	require.NoError(t, err)

	normalized := project.Normalize(room())
	// IDs were set explicitly, so normalizing twice yields the same state.
	assert.Equal(t, normalized, got.State)
	want, err := load.ComputeLoad(normalized, factors.Default())
	require.NoError(t, err)
	assert.Equal(t, want, got.Breakdown)
	assert.Equal(t, recommend.Recommend(want, normalized, recommend.DefaultLadder()), got.Sizing)
	assert.Len(t, got.Key, 64)
}

func TestEngine_Memoizes(t *testing.T) {
	e := newEngine(t, Options{MemoSize: 4})
	ctx := context.Background()

	first, err := e.Estimate(ctx, room())
	require.NoError(t, err)
	second, err := e.Estimate(ctx, room())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, Stats{MemoHits: 1, Computed: 1}, e.Stats())

	// Mutating a returned result must not leak into the memo.
	second.Breakdown.Warnings = append(second.Breakdown.Warnings, "tampered")
	second.State.Walls[0].Area = 999
	third, err := e.Estimate(ctx, room())
	require.NoError(t, err)
	assert.Equal(t, first, third)

	e.Purge()
	_, err = e.Estimate(ctx, room())
	require.NoError(t, err)
	assert.Equal(t, int64(2), e.Stats().Computed)
}

func TestEngine_MemoizesWithoutSegmentIDs(t *testing.T) {
	anonymous := func() project.ProjectState {
		s := room()
		for i := range s.Walls {
			s.Walls[i].ID = ""
		}
		for i := range s.Windows {
			s.Windows[i].ID = ""
		}
		return s
	}
	store, err := cache.NewFileStore(filepath.Join(t.TempDir(), "cache"), true, 3600)
	require.NoError(t, err)
	ctx := context.Background()
	e := newEngine(t, Options{Store: store})

	first, err := e.Estimate(ctx, anonymous())
	require.NoError(t, err)
	second, err := e.Estimate(ctx, anonymous())
	require.NoError(t, err)

	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, Stats{MemoHits: 1, Computed: 1}, e.Stats())
	assert.Equal(t, first.Breakdown.TotalCapacityBTUh, second.Breakdown.TotalCapacityBTUh)
	require.Len(t, second.State.Walls, 1)
	require.Len(t, second.State.Windows, 1)
	assert.NotEmpty(t, second.State.Walls[0].ID)
	assert.NotEqual(t, first.State.Walls[0].ID, second.State.Walls[0].ID)
	assert.Equal(t, second.State.Walls[0].ID, second.Breakdown.Walls[0].ID)
	assert.Equal(t, second.State.Windows[0].ID, second.Breakdown.Windows[0].ID)

	// Explicit IDs share the entry but come back as given.
	named, err := e.Estimate(ctx, room())
	require.NoError(t, err)
	assert.Equal(t, first.Key, named.Key)
	assert.Equal(t, "w1", named.Breakdown.Walls[0].ID)
	assert.Equal(t, "v1", named.Breakdown.Windows[0].ID)
	assert.Equal(t, int64(2), e.Stats().MemoHits)

	other := newEngine(t, Options{Store: store})
	_, err = other.Estimate(ctx, anonymous())
	require.NoError(t, err)
	assert.Equal(t, Stats{StoreHits: 1}, other.Stats())
}

func TestEngine_ZeroVolumeWithoutDimensions(t *testing.T) {
	s := room()
	s.Dimensions = project.Dimensions{}
	s.RoomVolume = 0

	_, err := newEngine(t, Options{}).Estimate(context.Background(), s)

	var verr *load.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"room_volume"}, verr.Fields())
}

func TestEngine_DifferentTablesDifferentKeys(t *testing.T) {
	custom := factors.Default()
	custom.Materials.StandardBrick = 0.30

	a, err := newEngine(t, Options{}).Estimate(context.Background(), room())
	require.NoError(t, err)
	b, err := newEngine(t, Options{Tables: &custom}).Estimate(context.Background(), room())
	require.NoError(t, err)

	assert.NotEqual(t, a.Key, b.Key)
	assert.Less(t, b.Breakdown.WallGainBTUh, a.Breakdown.WallGainBTUh)
}

func TestEngine_FileStoreTier(t *testing.T) {
	store, err := cache.NewFileStore(filepath.Join(t.TempDir(), "cache"), true, 3600)
	require.NoError(t, err)
	ctx := context.Background()

	first := newEngine(t, Options{Store: store})
	want, err := first.Estimate(ctx, room())
	require.NoError(t, err)

	second := newEngine(t, Options{Store: store})
	got, err := second.Estimate(ctx, room())
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, Stats{StoreHits: 1}, second.Stats())
}

func TestEngine_ValidationError(t *testing.T) {
	e := newEngine(t, Options{})
	s := room()
	s.RoomVolume = -1

	_, err := e.Estimate(context.Background(), s)

	require.ErrorIs(t, err, load.ErrValidation)
	var verr *load.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"room_volume"}, verr.Fields())
	assert.Zero(t, e.Stats().Computed)
}

func TestNew_RejectsInvalidConfiguration(t *testing.T) {
	bad := factors.Default()
	bad.Glass.LowE = -1
	_, err := New(Options{Tables: &bad})
	require.ErrorIs(t, err, factors.ErrInvalidCoefficient)

	_, err = New(Options{Ladder: &recommend.Ladder{}})
	require.ErrorIs(t, err, recommend.ErrInvalidLadder)

	negative := load.DefaultMarginPolicy()
	negative.Continuous.Moderate = -0.1
	_, err = New(Options{Margins: &negative})
	require.ErrorIs(t, err, load.ErrInvalidMargin)
}

func TestEngine_Margins(t *testing.T) {
	assert.Equal(t, load.DefaultMarginPolicy(), newEngine(t, Options{}).Margins())

	custom := load.DefaultMarginPolicy()
	custom.Intermittent.Extreme = 0.3
	assert.Equal(t, custom, newEngine(t, Options{Margins: &custom}).Margins())
}

func TestEngine_ConcurrentEstimates(t *testing.T) {
	e := newEngine(t, Options{})
	ctx := context.Background()
	want, err := e.Estimate(ctx, room())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, estErr := e.Estimate(ctx, room())
			assert.NoError(t, estErr)
			assert.Equal(t, want.Breakdown, got.Breakdown)
		}()
	}
	wg.Wait()
}

func TestEngine_WhatIf(t *testing.T) {
	e := newEngine(t, Options{})

	res, err := e.WhatIf(context.Background(), room(), map[string]string{
		"occupants":     "6",
		"ceiling.color": "light",
	})
	require.NoError(t, err)

	require.Len(t, res.Deltas, 2)
	assert.Equal(t, "ceiling.color", res.Deltas[0].Property)
	assert.Equal(t, "dark", res.Deltas[0].OriginalValue)
	assert.Negative(t, res.Deltas[0].ChangeBTUh)
	assert.Equal(t, "occupants", res.Deltas[1].Property)
	assert.Equal(t, "2", res.Deltas[1].OriginalValue)
	assert.InDelta(t, 4*450*1.10, res.Deltas[1].ChangeBTUh, 1e-6)

	assert.InDelta(t,
		res.Modified.Breakdown.TotalCapacityBTUh-res.Baseline.Breakdown.TotalCapacityBTUh,
		res.TotalChange, 1e-9)
	assert.Equal(t, 6, res.Modified.State.Occupants)
	assert.Equal(t, 2, res.Baseline.State.Occupants)
}

func TestEngine_WhatIfRejectsBadOverride(t *testing.T) {
	e := newEngine(t, Options{})

	_, err := e.WhatIf(context.Background(), room(), map[string]string{"floor": "oak"})
	require.ErrorIs(t, err, project.ErrInvalidOverride)

	_, err = e.WhatIf(context.Background(), room(), map[string]string{"room_volume": "-3"})
	require.ErrorIs(t, err, load.ErrValidation)
}

func TestEngine_EstimateBatch(t *testing.T) {
	e := newEngine(t, Options{})

	states := make([]project.ProjectState, 0, 30)
	for i := range 30 {
		s := room()
		s.Occupants = i
		if i == 7 {
			s.RoomVolume = -5
		}
		states = append(states, s)
	}

	var mu sync.Mutex
	var last batch.Snapshot
	results, err := e.EstimateBatch(context.Background(), states, BatchOptions{
		BatchSize:   4,
		Concurrency: 3,
		OnProgress: func(s batch.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			if s.ProcessedItems > last.ProcessedItems {
				last = s
			}
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 30)

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		if i == 7 {
			require.ErrorIs(t, r.Err, load.ErrValidation)
			assert.Nil(t, r.Estimate)
			continue
		}
		require.NoError(t, r.Err)
		require.NotNil(t, r.Estimate)
		assert.Equal(t, i, r.Estimate.State.Occupants)
	}
	assert.True(t, last.Done())
}

func TestEngine_EstimateBatchCancelled(t *testing.T) {
	e := newEngine(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.EstimateBatch(ctx, []project.ProjectState{room()}, BatchOptions{})
	require.ErrorIs(t, err, context.Canceled)

	results, err := e.EstimateBatch(context.Background(), nil, BatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}
