package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/load"
	"github.com/rshade/loadcalc/internal/project"
)

func TestLadder_Select(t *testing.T) {
	roundUp := DefaultLadder()
	exact := DefaultLadder()
	exact.Tie = TieExact

	tests := []struct {
		name      string
		ladder    Ladder
		total     float64
		wantBTUh  float64
		wantMulti bool
		wantUnits int
		wantClass EquipmentClass
	}{
		{"zero load takes smallest", roundUp, 0, 9000, false, 1, ClassMiniSplit},
		{"between steps", roundUp, 10500, 12000, false, 1, ClassMiniSplit},
		{"tie rounds up", roundUp, 12000, 18000, false, 1, ClassMiniSplit},
		{"tie exact", exact, 12000, 12000, false, 1, ClassMiniSplit},
		{"just over a step", exact, 24000.01, 36000, false, 1, ClassCentralOrMultiSplit},
		{"tie at largest stays single unit", roundUp, 60000, 60000, false, 1, ClassCentral},
		{"above largest", roundUp, 60001, 60000, true, 2, ClassCommercialSystem},
		{"far above largest", exact, 150000, 60000, true, 3, ClassCommercialSystem},
		{"beyond any installation caps units", roundUp, 1e300, 60000, true, MaxUnits, ClassCommercialSystem},
		{"infinite load caps units", roundUp, math.Inf(1), 60000, true, MaxUnits, ClassCommercialSystem},
		{"NaN sizes as zero", roundUp, math.NaN(), 9000, false, 1, ClassMiniSplit},
		{"negative sizes as zero", roundUp, -500, 9000, false, 1, ClassMiniSplit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ladder.Select(tt.total)
			assert.InDelta(t, tt.wantBTUh, got.Step.CapacityBTUh, 1e-9)
			assert.Equal(t, tt.wantMulti, got.MultiUnitRequired)
			assert.Equal(t, tt.wantUnits, got.UnitsRequired)
			assert.Equal(t, tt.wantClass, got.Class)
		})
	}
}

func TestLadder_SelectEveryStepUnderBothPolicies(t *testing.T) {
	steps := DefaultLadder().Steps
	for i, s := range steps {
		exact := Ladder{Steps: steps, Tie: TieExact}.Select(s.CapacityBTUh)
		assert.InDelta(t, s.CapacityBTUh, exact.Step.CapacityBTUh, 1e-9)

		up := Ladder{Steps: steps, Tie: TieRoundUp}.Select(s.CapacityBTUh)
		if i+1 < len(steps) {
			assert.InDelta(t, steps[i+1].CapacityBTUh, up.Step.CapacityBTUh, 1e-9)
		} else {
			assert.InDelta(t, s.CapacityBTUh, up.Step.CapacityBTUh, 1e-9)
		}
	}
}

func TestLadder_Validate(t *testing.T) {
	require.NoError(t, DefaultLadder().Validate())

	assert.ErrorIs(t, Ladder{}.Validate(), ErrInvalidLadder)
	assert.ErrorIs(t, Ladder{Steps: []Step{{CapacityBTUh: 12000}, {CapacityBTUh: 9000}}}.Validate(), ErrInvalidLadder)
	assert.ErrorIs(t, Ladder{Steps: []Step{{CapacityBTUh: 9000}}, Tie: "sideways"}.Validate(), ErrInvalidLadder)

	// An invalid ladder still sizes against the default one.
	got := Ladder{}.Select(10000)
	assert.InDelta(t, 12000.0, got.Step.CapacityBTUh, 1e-9)
}

func TestStep_Tons(t *testing.T) {
	assert.InDelta(t, 0.75, Step{CapacityBTUh: 9000}.Tons(), 1e-12)
	assert.InDelta(t, 5.0, Step{CapacityBTUh: 60000}.Tons(), 1e-12)
}

func TestParseTiePolicy(t *testing.T) {
	p, ok := ParseTiePolicy("")
	assert.True(t, ok)
	assert.Equal(t, TieRoundUp, p)

	p, ok = ParseTiePolicy("exact")
	assert.True(t, ok)
	assert.Equal(t, TieExact, p)

	_, ok = ParseTiePolicy("nearest")
	assert.False(t, ok)
}

func TestDominantSource(t *testing.T) {
	tests := []struct {
		name string
		b    load.Breakdown
		want load.Source
	}{
		{"all zero defaults to wall", load.Breakdown{}, load.SourceWall},
		{"largest wins", load.Breakdown{WallGainBTUh: 10, InfiltrationGainBTUh: 20}, load.SourceInfiltration},
		{"wall beats window on tie", load.Breakdown{WallGainBTUh: 50, WindowGainBTUh: 50}, load.SourceWall},
		{"window beats ceiling on tie", load.Breakdown{WindowGainBTUh: 7, CeilingGainBTUh: 7}, load.SourceWindow},
		{"ceiling beats internal on tie", load.Breakdown{CeilingGainBTUh: 3, InternalGainBTUh: 3, InfiltrationGainBTUh: 3}, load.SourceCeiling},
		{"internal beats infiltration on tie", load.Breakdown{InternalGainBTUh: 9, InfiltrationGainBTUh: 9}, load.SourceInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DominantSource(tt.b))
		})
	}
}

func TestDefaultRules(t *testing.T) {
	dark := project.CreateDefault()
	dark.Ceiling.Color = factors.ColorDark
	light := project.CreateDefault()

	tests := []struct {
		name  string
		in    RuleInput
		tip   Tip
		match bool
	}{
		{"window share over threshold", RuleInput{Breakdown: load.Breakdown{Shares: load.Shares{Window: 0.36}}}, TipAddWindowProtection, true},
		{"window share at threshold", RuleInput{Breakdown: load.Breakdown{Shares: load.Shares{Window: 0.35}}}, TipAddWindowProtection, false},
		{"dark ceiling", RuleInput{Breakdown: load.Breakdown{Shares: load.Shares{Ceiling: 0.31}}, State: dark}, TipLighterRoofing, true},
		{"light ceiling", RuleInput{Breakdown: load.Breakdown{Shares: load.Shares{Ceiling: 0.9}}, State: light}, TipLighterRoofing, false},
		{"infiltration", RuleInput{Breakdown: load.Breakdown{Shares: load.Shares{Infiltration: 0.26}}}, TipSealInfiltration, true},
		{"walls", RuleInput{Breakdown: load.Breakdown{Shares: load.Shares{Wall: 0.41}}}, TipInsulateWalls, true},
		{"stove", RuleInput{Breakdown: load.Breakdown{Internal: load.InternalBreakdown{CookingBTUh: 8000}}}, TipInstallRangeHood, true},
		{"people at threshold", RuleInput{Breakdown: load.Breakdown{Shares: load.Shares{People: 0.20}}}, TipInverterForOccupancy, true},
		{"multi unit", RuleInput{Selection: Selection{MultiUnitRequired: true}}, TipSplitIntoZones, true},
		{"inverter always", RuleInput{}, TipPreferInverter, true},
	}

	rules := map[Tip]Rule{}
	for _, r := range DefaultRules() {
		rules[r.Tip] = r
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := rules[tt.tip]
			require.True(t, ok)
			assert.Equal(t, tt.match, r.Applies(tt.in))
		})
	}
}

func TestRecommend_EndToEnd(t *testing.T) {
	s := project.CreateDefault()
	s.Dimensions = project.Dimensions{Length: 4, Width: 2.5, Height: 2.5}
	s.RoomVolume = 25
	s.AddWall(project.WallSegment{Area: 10, Material: factors.MaterialStandardBrick,
		Orientation: factors.OrientationS, SunExposure: factors.ExposureFull})
	s.AddWindow(project.WindowSegment{Area: 2, GlassType: factors.GlassSinglePane,
		Protection: factors.ProtectionNone, Orientation: factors.OrientationS})
	s.Ceiling = project.Ceiling{Type: factors.CeilingFlat, Color: factors.ColorDark, ExposedToSun: true}
	s.Occupants = 2
	s.EquipmentLoadWatts = 300
	s = project.Normalize(s)

	b, err := load.ComputeLoad(s, factors.Default())
	require.NoError(t, err)

	got := Recommend(b, s, DefaultLadder())

	assert.GreaterOrEqual(t, got.RecommendedCapacityBTUh, b.TotalCapacityBTUh)
	assert.InDelta(t, 12000.0, got.RecommendedCapacityBTUh, 1e-9)
	assert.InDelta(t, 1.0, got.RecommendedTonnage, 1e-12)
	assert.Equal(t, load.SourceWindow, got.DominantLoadSource)
	assert.False(t, got.MultiUnitRequired)
	assert.Equal(t, []Tip{TipAddWindowProtection, TipPreferInverter}, got.Tips)
}

func TestRecommend_OrderIsPriorityOrder(t *testing.T) {
	b := load.Breakdown{
		TotalCapacityBTUh: 70000,
		Shares:            load.Shares{Window: 0.5, Infiltration: 0.3, People: 0.25},
		Internal:          load.InternalBreakdown{CookingBTUh: 8000},
	}

	got := Recommend(b, project.CreateDefault(), DefaultLadder())

	assert.Equal(t, []Tip{
		TipAddWindowProtection,
		TipSealInfiltration,
		TipInstallRangeHood,
		TipInverterForOccupancy,
		TipSplitIntoZones,
		TipPreferInverter,
	}, got.Tips)
	assert.True(t, got.MultiUnitRequired)
	assert.Equal(t, 2, got.UnitsRequired)
	assert.Equal(t, ClassCommercialSystem, got.EquipmentClass)
}
