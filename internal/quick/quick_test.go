package quick

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/load"
	"github.com/rshade/loadcalc/internal/recommend"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		zone      factors.ClimateZone
		wantTotal float64
		wantBTUh  float64
	}{
		{factors.ZoneTemperate, 10000, 12000},
		{factors.ZoneMixed, 11000, 12000},
		{factors.ZoneHotHumid, 12000, 18000},
		{factors.ZoneHotDry, 13000, 18000},
		{factors.ZoneVeryHot, 14000, 18000},
	}

	for _, tt := range tests {
		t.Run(string(tt.zone), func(t *testing.T) {
			got, err := Estimate(Input{Length: 5, Width: 4, ClimateZone: tt.zone},
				factors.Default(), recommend.DefaultLadder())
			require.NoError(t, err)

			assert.InDelta(t, 20.0, got.FloorAreaM2, 1e-12)
			assert.InDelta(t, tt.wantTotal, got.TotalBTUh, 1e-9)
			assert.InDelta(t, tt.wantBTUh, got.Selection.Step.CapacityBTUh, 1e-9)
			assert.Empty(t, got.Warnings)
		})
	}
}

func TestEstimate_UnknownZone(t *testing.T) {
	got, err := Estimate(Input{Length: 3, Width: 3, ClimateZone: "polar"},
		factors.Default(), recommend.DefaultLadder())
	require.NoError(t, err)

	assert.Equal(t, factors.ZoneHotHumid, got.ClimateZone)
	assert.Equal(t, []load.Warning{load.WarnClimateZoneDefaulted}, got.Warnings)
}

func TestEstimate_RejectsNonPositiveDimensions(t *testing.T) {
	_, err := Estimate(Input{Length: 0, Width: math.NaN()}, factors.Default(), recommend.DefaultLadder())

	require.ErrorIs(t, err, load.ErrValidation)
	var verr *load.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"length", "width"}, verr.Fields())
}

func TestEstimate_RejectsUnboundedInput(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		wantFields []string
	}{
		{"infinite length", Input{Length: math.Inf(1), Width: 4}, []string{"length"}},
		{"infinite width", Input{Length: 4, Width: math.Inf(1)}, []string{"width"}},
		{"area overflows", Input{Length: 1e200, Width: 1e200}, []string{"floor_area"}},
		{"load overflows", Input{Length: 1e154, Width: 1e154}, []string{"floor_area"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(tt.in, factors.Default(), recommend.DefaultLadder())

			var verr *load.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantFields, verr.Fields())
		})
	}
}

func TestEstimate_ZoneAliases(t *testing.T) {
	tests := []struct {
		zone factors.ClimateZone
		want factors.ClimateZone
	}{
		{"calida", factors.ZoneHotHumid},
		{"Hot-Dry", factors.ZoneHotDry},
		{" templada ", factors.ZoneTemperate},
	}

	for _, tt := range tests {
		t.Run(string(tt.zone), func(t *testing.T) {
			got, err := Estimate(Input{Length: 5, Width: 4, ClimateZone: tt.zone},
				factors.Default(), recommend.DefaultLadder())
			require.NoError(t, err)

			assert.Equal(t, tt.want, got.ClimateZone)
			assert.Empty(t, got.Warnings)
		})
	}
}
