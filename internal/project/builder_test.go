package project

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/loadcalc/internal/factors"
)

func TestCreateDefault_IsConstant(t *testing.T) {
	a := CreateDefault()
	b := CreateDefault()

	assert.Equal(t, a, b)
	assert.Empty(t, a.Walls)
	assert.NotNil(t, a.Walls)
	assert.Empty(t, a.Windows)
	assert.Equal(t, factors.ZoneHotHumid, a.ClimateZone)
	assert.Equal(t, factors.UsageContinuous, a.UsagePattern)
	assert.Zero(t, a.Occupants)
	assert.Zero(t, a.EquipmentLoadWatts)
	assert.Equal(t, factors.CeilingFlat, a.Ceiling.Type)
	assert.Equal(t, factors.ColorLight, a.Ceiling.Color)
	assert.False(t, a.Ceiling.ExposedToSun)
	assert.Positive(t, a.RoomVolume)

	// Mutating one copy must not leak into the next default.
	a.AddWall(WallSegment{Area: 10})
	assert.Empty(t, CreateDefault().Walls)
}

func TestNewID_Unique(t *testing.T) {
	const n = 1000
	seen := make(map[string]struct{}, n)
	for range n {
		id := NewID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestNewID_UniqueAcrossGoroutines(t *testing.T) {
	const workers, perWorker = 8, 200

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for range perWorker {
				local = append(local, NewID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    ProjectState
		check func(t *testing.T, out ProjectState)
	}{
		{
			name: "fills wall defaults and id",
			in:   ProjectState{Walls: []WallSegment{{Area: 12}}, RoomVolume: 20},
			check: func(t *testing.T, out ProjectState) {
				require.Len(t, out.Walls, 1)
				w := out.Walls[0]
				assert.NotEmpty(t, w.ID)
				assert.Equal(t, DefaultWallMaterial, w.Material)
				assert.Equal(t, DefaultOrientation, w.Orientation)
				assert.Equal(t, DefaultSunExposure, w.SunExposure)
			},
		},
		{
			name: "canonicalizes aliases",
			in: ProjectState{
				Walls:       []WallSegment{{ID: "w1", Area: 5, Material: "ladrillo", Orientation: "o", SunExposure: "sol_directo"}},
				Windows:     []WindowSegment{{ID: "v1", Area: 1, GlassType: "doble", Protection: "cortinas", Orientation: "so"}},
				ClimateZone: "calida",
				RoomVolume:  20,
			},
			check: func(t *testing.T, out ProjectState) {
				assert.Equal(t, "w1", out.Walls[0].ID)
				assert.Equal(t, factors.MaterialStandardBrick, out.Walls[0].Material)
				assert.Equal(t, factors.OrientationW, out.Walls[0].Orientation)
				assert.Equal(t, factors.ExposureFull, out.Walls[0].SunExposure)
				assert.Equal(t, factors.GlassDoublePane, out.Windows[0].GlassType)
				assert.Equal(t, factors.ProtectionCurtain, out.Windows[0].Protection)
				assert.Equal(t, factors.OrientationSW, out.Windows[0].Orientation)
				assert.Equal(t, factors.ZoneHotHumid, out.ClimateZone)
			},
		},
		{
			name: "keeps unknown enum values for the calculator",
			in:   ProjectState{Walls: []WallSegment{{Area: 5, Material: "adobe"}}, RoomVolume: 20},
			check: func(t *testing.T, out ProjectState) {
				assert.Equal(t, factors.Material("adobe"), out.Walls[0].Material)
			},
		},
		{
			name: "derives volume and ceiling area from dimensions",
			in:   ProjectState{Dimensions: Dimensions{Length: 4, Width: 5}},
			check: func(t *testing.T, out ProjectState) {
				assert.InDelta(t, DefaultCeilingHeight, out.Dimensions.Height, 1e-12)
				assert.InDelta(t, 50.0, out.RoomVolume, 1e-9)
				assert.InDelta(t, 20.0, out.Ceiling.Area, 1e-9)
			},
		},
		{
			name: "explicit volume wins over dimensions",
			in:   ProjectState{Dimensions: Dimensions{Length: 4, Width: 5, Height: 3}, RoomVolume: 10},
			check: func(t *testing.T, out ProjectState) {
				assert.InDelta(t, 10.0, out.RoomVolume, 1e-12)
			},
		},
		{
			name: "zero volume without dimensions is left for validation",
			in:   ProjectState{},
			check: func(t *testing.T, out ProjectState) {
				assert.Zero(t, out.RoomVolume)
				assert.Equal(t, DefaultClimateZone, out.ClimateZone)
				assert.Equal(t, DefaultUsagePattern, out.UsagePattern)
				assert.NotNil(t, out.Walls)
			},
		},
		{
			name: "negative volume is left for validation",
			in:   ProjectState{RoomVolume: -1},
			check: func(t *testing.T, out ProjectState) {
				assert.InDelta(t, -1.0, out.RoomVolume, 1e-12)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Normalize(tt.in))
		})
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := ProjectState{Walls: []WallSegment{{Area: 12}}}

	_ = Normalize(in)

	assert.Empty(t, in.Walls[0].ID)
	assert.Empty(t, in.Walls[0].Material)
}

func TestAddRemove(t *testing.T) {
	s := CreateDefault()

	w1 := s.AddWall(WallSegment{Area: 10})
	w2 := s.AddWall(WallSegment{ID: "keep", Area: 8})
	v1 := s.AddWindow(WindowSegment{Area: 2})

	assert.Equal(t, "keep", w2)
	assert.NotEqual(t, w1, w2)
	require.Len(t, s.Walls, 2)
	require.Len(t, s.Windows, 1)

	assert.True(t, s.RemoveWall(w1))
	assert.False(t, s.RemoveWall(w1))
	require.Len(t, s.Walls, 1)
	assert.Equal(t, "keep", s.Walls[0].ID)

	assert.True(t, s.RemoveWindow(v1))
	assert.Empty(t, s.Windows)
	assert.False(t, s.RemoveWindow("missing"))
}

func TestRemoveWall_DoesNotAliasClone(t *testing.T) {
	s := CreateDefault()
	s.AddWall(WallSegment{ID: "a", Area: 1})
	s.AddWall(WallSegment{ID: "b", Area: 2})
	clone := s.Clone()

	s.RemoveWall("a")

	require.Len(t, clone.Walls, 2)
	assert.Equal(t, "a", clone.Walls[0].ID)
}
