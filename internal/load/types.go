package load

import "github.com/rshade/loadcalc/internal/factors"

// Source names one additive component of the cooling load.
type Source string

// Load sources, declared in tie-break priority order.
const (
	SourceWall         Source = "wall"
	SourceWindow       Source = "window"
	SourceCeiling      Source = "ceiling"
	SourceInternal     Source = "internal"
	SourceInfiltration Source = "infiltration"
)

// Sources returns every source in tie-break priority order.
func Sources() []Source {
	return []Source{SourceWall, SourceWindow, SourceCeiling, SourceInternal, SourceInfiltration}
}

// Warning is a machine-readable code attached to a result when the
// calculation substituted a default. Presentation layers map codes to text.
type Warning string

// Warning codes.
const (
	WarnClimateZoneDefaulted Warning = "climate_zone_defaulted"
	WarnNoWalls              Warning = "no_walls"
	WarnNoWindows            Warning = "no_windows"
	WarnUnknownMaterial      Warning = "unknown_material"
	WarnUnknownOrientation   Warning = "unknown_orientation"
	WarnUnknownSunExposure   Warning = "unknown_sun_exposure"
	WarnUnknownGlassType     Warning = "unknown_glass_type"
	WarnUnknownProtection    Warning = "unknown_protection"
	WarnUnknownCeilingType   Warning = "unknown_ceiling_type"
	WarnUnknownCeilingColor  Warning = "unknown_ceiling_color"
	WarnUnknownUsagePattern  Warning = "unknown_usage_pattern"
)

// InternalBreakdown splits the internal gain by origin.
type InternalBreakdown struct {
	PeopleBTUh    float64 `json:"people_btuh"`
	EquipmentBTUh float64 `json:"equipment_btuh"`
	LightingBTUh  float64 `json:"lighting_btuh"`
	CookingBTUh   float64 `json:"cooking_btuh"`
}

// Total sums the internal components.
func (b InternalBreakdown) Total() float64 {
	return b.PeopleBTUh + b.EquipmentBTUh + b.LightingBTUh + b.CookingBTUh
}

// SegmentGain is the contribution of one wall or window.
type SegmentGain struct {
	ID       string  `json:"id"`
	AreaM2   float64 `json:"area_m2"`
	GainBTUh float64 `json:"gain_btuh"`
}

// Shares holds each source as a fraction of the pre-margin subtotal.
// All fields are zero when the subtotal is zero.
type Shares struct {
	Wall         float64 `json:"wall"`
	Window       float64 `json:"window"`
	Ceiling      float64 `json:"ceiling"`
	Internal     float64 `json:"internal"`
	People       float64 `json:"people"`
	Infiltration float64 `json:"infiltration"`
}

// Breakdown is the result of ComputeLoad. Every gain is non-negative
// and TotalCapacityBTUh equals SubtotalBTUh x (1 + MarginApplied).
type Breakdown struct {
	WallGainBTUh         float64           `json:"wall_gain_btuh"`
	WindowGainBTUh       float64           `json:"window_gain_btuh"`
	CeilingGainBTUh      float64           `json:"ceiling_gain_btuh"`
	InternalGainBTUh     float64           `json:"internal_gain_btuh"`
	InfiltrationGainBTUh float64           `json:"infiltration_gain_btuh"`
	Internal             InternalBreakdown `json:"internal"`

	SubtotalBTUh      float64 `json:"subtotal_btuh"`
	MarginApplied     float64 `json:"margin_applied"`
	MarginBTUh        float64 `json:"margin_btuh"`
	TotalCapacityBTUh float64 `json:"total_capacity_btuh"`

	ClimateZone  factors.ClimateZone `json:"climate_zone"`
	DesignDeltaF float64             `json:"design_delta_f"`
	Shares       Shares              `json:"shares"`

	Walls    []SegmentGain `json:"walls"`
	Windows  []SegmentGain `json:"windows"`
	Warnings []Warning     `json:"warnings"`
}

// Gain returns the value of one source.
func (b Breakdown) Gain(src Source) float64 {
	switch src {
	case SourceWall:
		return b.WallGainBTUh
	case SourceWindow:
		return b.WindowGainBTUh
	case SourceCeiling:
		return b.CeilingGainBTUh
	case SourceInternal:
		return b.InternalGainBTUh
	case SourceInfiltration:
		return b.InfiltrationGainBTUh
	default:
		return 0
	}
}

// Share returns the fraction of the subtotal contributed by src.
func (b Breakdown) Share(src Source) float64 {
	switch src {
	case SourceWall:
		return b.Shares.Wall
	case SourceWindow:
		return b.Shares.Window
	case SourceCeiling:
		return b.Shares.Ceiling
	case SourceInternal:
		return b.Shares.Internal
	case SourceInfiltration:
		return b.Shares.Infiltration
	default:
		return 0
	}
}

// HasWarning reports whether w was attached to the result.
func (b Breakdown) HasWarning(w Warning) bool {
	for _, got := range b.Warnings {
		if got == w {
			return true
		}
	}
	return false
}
