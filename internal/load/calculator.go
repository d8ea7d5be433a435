// Package load computes the cooling load of a room. The calculation is an
// additive model over five sources (walls, windows, ceiling, internal gains
// and infiltration) followed by a safety margin taken from a named policy
// table. Inputs are validated once, at the Compute boundary.
package load

import (
	"fmt"
	"math"

	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/project"
)

// Calculator converts a ProjectState into a Breakdown using injected
// coefficient and margin tables. A Calculator holds only values, so one
// instance may be shared by any number of goroutines.
type Calculator struct {
	Tables  factors.Tables
	Margins MarginPolicy
}

// NewCalculator returns a Calculator with the default margin policy.
func NewCalculator(tables factors.Tables) Calculator {
	return Calculator{Tables: tables, Margins: DefaultMarginPolicy()}
}

// ComputeLoad runs the calculation with the default margin policy.
func ComputeLoad(state project.ProjectState, tables factors.Tables) (Breakdown, error) {
	return NewCalculator(tables).Compute(state)
}

// Compute validates state and returns its load breakdown. A *ValidationError
// is returned before any gain is computed when an input is out of range, and
// after computing when finite inputs overflow to a non-finite load.
// Unknown enum values and an unknown climate zone never fail; they fall back
// to the documented rows and are reported in Warnings.
func (c Calculator) Compute(state project.ProjectState) (Breakdown, error) {
	if err := Validate(state); err != nil {
		return Breakdown{}, err
	}

	t := c.Tables
	w := &warnings{}

	climate, resolved, found := t.Climate(state.ClimateZone)
	if !found {
		w.add(WarnClimateZoneDefaulted)
	}
	deltaF := climate.DesignDeltaF
	if state.DesignDeltaOverrideF > 0 {
		deltaF = state.DesignDeltaOverrideF
	}

	if len(state.Walls) == 0 {
		w.add(WarnNoWalls)
	}
	if len(state.Windows) == 0 {
		w.add(WarnNoWindows)
	}

	out := Breakdown{
		ClimateZone:  resolved,
		DesignDeltaF: deltaF,
		Walls:        make([]SegmentGain, 0, len(state.Walls)),
		Windows:      make([]SegmentGain, 0, len(state.Windows)),
	}

	for _, wall := range state.Walls {
		u, ok := t.Transmittance(wall.Material)
		w.unless(ok, WarnUnknownMaterial)
		orient, ok := t.OrientationFactor(wall.Orientation)
		w.unless(ok, WarnUnknownOrientation)
		exposure, ok := t.ExposureFactor(wall.SunExposure)
		w.unless(ok, WarnUnknownSunExposure)

		gain := wall.Area * factors.SquareMetersToSquareFeet * u * deltaF * orient * exposure
		out.WallGainBTUh += gain
		out.Walls = append(out.Walls, SegmentGain{ID: wall.ID, AreaM2: wall.Area, GainBTUh: gain})
	}

	for _, win := range state.Windows {
		shgc, ok := t.SHGC(win.GlassType)
		w.unless(ok, WarnUnknownGlassType)
		att, ok := t.Attenuation(win.Protection)
		w.unless(ok, WarnUnknownProtection)
		solar, ok := t.SolarMultiplier(win.Orientation, factors.ExposureFull)
		w.unless(ok, WarnUnknownOrientation)

		gain := win.Area * factors.SquareMetersToSquareFeet * shgc * t.Physics.BaseSolarRadiation * solar * att
		out.WindowGainBTUh += gain
		out.Windows = append(out.Windows, SegmentGain{ID: win.ID, AreaM2: win.Area, GainBTUh: gain})
	}

	ceilingU, ok := t.CeilingU(state.Ceiling.Type)
	w.unless(ok, WarnUnknownCeilingType)
	colorFactor, ok := t.CeilingColorFactor(state.Ceiling.Color)
	w.unless(ok, WarnUnknownCeilingColor)
	ceilingDelta := deltaF
	if !state.Ceiling.ExposedToSun {
		ceilingDelta = deltaF * t.Physics.ShadedCeilingDeltaRatio
	}
	out.CeilingGainBTUh = state.Ceiling.Area * factors.SquareMetersToSquareFeet * ceilingU * colorFactor * ceilingDelta

	out.Internal = InternalBreakdown{
		PeopleBTUh:    float64(state.Occupants) * t.Physics.PerOccupantBTUh,
		EquipmentBTUh: state.EquipmentLoadWatts * t.Physics.WattsToBTUh,
		LightingBTUh:  state.LightingWatts * t.Physics.WattsToBTUh,
	}
	if state.HasCookingStove {
		out.Internal.CookingBTUh = t.Physics.CookingStoveBTUh
	}
	out.InternalGainBTUh = out.Internal.Total()

	cfm := state.RoomVolume * factors.CubicMetersToCubicFeet * climate.AirChangesPerHour / factors.MinutesPerHour
	out.InfiltrationGainBTUh = t.Physics.VolumetricHeatConstant * cfm * deltaF

	out.SubtotalBTUh = out.WallGainBTUh + out.WindowGainBTUh + out.CeilingGainBTUh +
		out.InternalGainBTUh + out.InfiltrationGainBTUh

	margin, known := c.Margins.Margin(state.UsagePattern, deltaF)
	w.unless(known, WarnUnknownUsagePattern)
	out.MarginApplied = margin
	out.TotalCapacityBTUh = out.SubtotalBTUh * (1 + margin)
	out.MarginBTUh = out.TotalCapacityBTUh - out.SubtotalBTUh
	if err := checkFinite(out); err != nil {
		return Breakdown{}, err
	}

	if out.SubtotalBTUh > 0 {
		out.Shares = Shares{
			Wall:         out.WallGainBTUh / out.SubtotalBTUh,
			Window:       out.WindowGainBTUh / out.SubtotalBTUh,
			Ceiling:      out.CeilingGainBTUh / out.SubtotalBTUh,
			Internal:     out.InternalGainBTUh / out.SubtotalBTUh,
			People:       out.Internal.PeopleBTUh / out.SubtotalBTUh,
			Infiltration: out.InfiltrationGainBTUh / out.SubtotalBTUh,
		}
	}

	out.Warnings = w.list
	if out.Warnings == nil {
		out.Warnings = []Warning{}
	}
	return out, nil
}

// Validate checks every numeric field of state and returns a
// *ValidationError listing all problems, or nil.
func Validate(state project.ProjectState) error {
	v := &validator{}

	for i, wall := range state.Walls {
		v.positive(fmt.Sprintf("walls[%d].area", i), wall.Area)
	}
	for i, win := range state.Windows {
		v.nonNegative(fmt.Sprintf("windows[%d].area", i), win.Area)
	}
	v.positive("room_volume", state.RoomVolume)
	v.nonNegative("occupants", float64(state.Occupants))
	v.nonNegative("equipment_load_watts", state.EquipmentLoadWatts)
	v.nonNegative("lighting_watts", state.LightingWatts)
	v.nonNegative("ceiling.area", state.Ceiling.Area)
	v.nonNegative("design_delta_override_f", state.DesignDeltaOverrideF)
	v.nonNegative("dimensions.length", state.Dimensions.Length)
	v.nonNegative("dimensions.width", state.Dimensions.Width)
	v.nonNegative("dimensions.height", state.Dimensions.Height)

	if len(v.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: v.issues}
}

// checkFinite rejects a breakdown whose gains overflowed float64.
func checkFinite(b Breakdown) error {
	v := &validator{}
	for _, src := range Sources() {
		v.result(string(src)+"_gain_btuh", b.Gain(src))
	}
	v.result("subtotal_btuh", b.SubtotalBTUh)
	v.result("total_capacity_btuh", b.TotalCapacityBTUh)
	if len(v.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: v.issues}
}

type validator struct {
	issues []FieldIssue
}

func (v *validator) finite(field string, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		v.issues = append(v.issues, FieldIssue{Field: field, Message: "must be a finite number", Value: value})
		return false
	}
	return true
}

func (v *validator) result(field string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		v.issues = append(v.issues, FieldIssue{Field: field, Message: "inputs too large to compute a finite load", Value: value})
	}
}

func (v *validator) positive(field string, value float64) {
	if v.finite(field, value) && value <= 0 {
		v.issues = append(v.issues, FieldIssue{Field: field, Message: "must be greater than zero", Value: value})
	}
}

func (v *validator) nonNegative(field string, value float64) {
	if v.finite(field, value) && value < 0 {
		v.issues = append(v.issues, FieldIssue{Field: field, Message: "must not be negative", Value: value})
	}
}

// warnings collects codes once each, in the order first seen.
type warnings struct {
	list []Warning
}

func (w *warnings) add(code Warning) {
	for _, got := range w.list {
		if got == code {
			return
		}
	}
	w.list = append(w.list, code)
}

func (w *warnings) unless(ok bool, code Warning) {
	if !ok {
		w.add(code)
	}
}
