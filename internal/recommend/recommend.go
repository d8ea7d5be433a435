package recommend

import (
	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/load"
	"github.com/rshade/loadcalc/internal/project"
)

// Sizing is the recommendation derived from one breakdown.
type Sizing struct {
	RecommendedCapacityBTUh float64        `json:"recommended_capacity_btuh"`
	RecommendedTonnage      float64        `json:"recommended_tonnage"`
	EquipmentClass          EquipmentClass `json:"equipment_class"`
	MultiUnitRequired       bool           `json:"multi_unit_required"`
	UnitsRequired           int            `json:"units_required"`
	DominantLoadSource      load.Source    `json:"dominant_load_source"`
	Tips                    []Tip          `json:"tips"`
}

// Recommend sizes the equipment for b and evaluates the default tip rules.
// It has no failure path.
func Recommend(b load.Breakdown, state project.ProjectState, ladder Ladder) Sizing {
	return RecommendWithRules(b, state, ladder, DefaultRules())
}

// RecommendWithRules is Recommend with an explicit rule set.
func RecommendWithRules(b load.Breakdown, state project.ProjectState, ladder Ladder, rules []Rule) Sizing {
	sel := ladder.Select(b.TotalCapacityBTUh)
	in := RuleInput{Breakdown: b, State: state, Selection: sel}

	tips := make([]Tip, 0, len(rules))
	for _, r := range rules {
		if r.Applies(in) {
			tips = append(tips, r.Tip)
		}
	}

	return Sizing{
		RecommendedCapacityBTUh: sel.Step.CapacityBTUh,
		RecommendedTonnage:      sel.Step.Tons(),
		EquipmentClass:          sel.Class,
		MultiUnitRequired:       sel.MultiUnitRequired,
		UnitsRequired:           sel.UnitsRequired,
		DominantLoadSource:      DominantSource(b),
		Tips:                    tips,
	}
}

// DominantSource returns the largest source. Equal values resolve in the
// order of load.Sources; when every source is zero the first one is used.
func DominantSource(b load.Breakdown) load.Source {
	sources := load.Sources()
	best := sources[0]
	bestGain := b.Gain(best)
	for _, src := range sources[1:] {
		if g := b.Gain(src); g > bestGain {
			best, bestGain = src, g
		}
	}
	return best
}

// Tip is a mitigation code. Presentation layers map codes to text.
type Tip string

// Tip codes, in evaluation order.
const (
	TipAddWindowProtection  Tip = "add_window_protection"
	TipLighterRoofing       Tip = "lighter_roofing"
	TipSealInfiltration     Tip = "seal_infiltration"
	TipInsulateWalls        Tip = "insulate_walls"
	TipInstallRangeHood     Tip = "install_range_hood"
	TipInverterForOccupancy Tip = "inverter_for_occupancy"
	TipSplitIntoZones       Tip = "split_into_zones"
	TipPreferInverter       Tip = "prefer_inverter"
)

// Share thresholds, as fractions of the pre-margin subtotal.
const (
	WindowShareThreshold       = 0.35
	CeilingShareThreshold      = 0.30
	InfiltrationShareThreshold = 0.25
	WallShareThreshold         = 0.40
	PeopleShareThreshold       = 0.20
)

// RuleInput is everything a tip rule may inspect.
type RuleInput struct {
	Breakdown load.Breakdown
	State     project.ProjectState
	Selection Selection
}

// Rule emits Tip when Applies returns true.
type Rule struct {
	Tip     Tip
	Applies func(RuleInput) bool
}

// DefaultRules returns the tip rules in priority order. Every matching rule
// contributes its tip.
func DefaultRules() []Rule {
	return []Rule{
		{TipAddWindowProtection, func(in RuleInput) bool {
			return in.Breakdown.Shares.Window > WindowShareThreshold
		}},
		{TipLighterRoofing, func(in RuleInput) bool {
			return in.Breakdown.Shares.Ceiling > CeilingShareThreshold &&
				in.State.Ceiling.Color == factors.ColorDark
		}},
		{TipSealInfiltration, func(in RuleInput) bool {
			return in.Breakdown.Shares.Infiltration > InfiltrationShareThreshold
		}},
		{TipInsulateWalls, func(in RuleInput) bool {
			return in.Breakdown.Shares.Wall > WallShareThreshold
		}},
		{TipInstallRangeHood, func(in RuleInput) bool {
			return in.Breakdown.Internal.CookingBTUh > 0
		}},
		{TipInverterForOccupancy, func(in RuleInput) bool {
			return in.Breakdown.Shares.People >= PeopleShareThreshold
		}},
		{TipSplitIntoZones, func(in RuleInput) bool {
			return in.Selection.MultiUnitRequired
		}},
		{TipPreferInverter, func(RuleInput) bool { return true }},
	}
}
