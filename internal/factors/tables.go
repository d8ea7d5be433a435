package factors

// MaterialTable maps wall materials to U-values, BTU/(h·ft²·°F).
type MaterialTable struct {
	Concrete      float64 `yaml:"concrete"       json:"concrete"`
	StandardBrick float64 `yaml:"standard-brick" json:"standard-brick"`
	Drywall       float64 `yaml:"drywall"        json:"drywall"`
	Insulated     float64 `yaml:"insulated"      json:"insulated"`
	Unknown       float64 `yaml:"unknown"        json:"unknown"`
}

// OrientationTable maps compass directions to solar intensity multipliers.
type OrientationTable struct {
	N       float64 `yaml:"N"       json:"N"`
	S       float64 `yaml:"S"       json:"S"`
	E       float64 `yaml:"E"       json:"E"`
	W       float64 `yaml:"W"       json:"W"`
	NE      float64 `yaml:"NE"      json:"NE"`
	NW      float64 `yaml:"NW"      json:"NW"`
	SE      float64 `yaml:"SE"      json:"SE"`
	SW      float64 `yaml:"SW"      json:"SW"`
	Unknown float64 `yaml:"unknown" json:"unknown"`
}

// ExposureTable maps sun exposure to a multiplier on the orientation factor.
type ExposureTable struct {
	Shaded  float64 `yaml:"shaded"  json:"shaded"`
	Partial float64 `yaml:"partial" json:"partial"`
	Full    float64 `yaml:"full"    json:"full"`
	Unknown float64 `yaml:"unknown" json:"unknown"`
}

// GlassTable maps glazing to its solar heat gain coefficient.
type GlassTable struct {
	SinglePane float64 `yaml:"single-pane" json:"single-pane"`
	DoublePane float64 `yaml:"double-pane" json:"double-pane"`
	LowE       float64 `yaml:"low-e"       json:"low-e"`
	Unknown    float64 `yaml:"unknown"     json:"unknown"`
}

// ProtectionTable maps window protection to an attenuation factor in [0,1],
// where 1 means no attenuation.
type ProtectionTable struct {
	None    float64 `yaml:"none"    json:"none"`
	Curtain float64 `yaml:"curtain" json:"curtain"`
	Blinds  float64 `yaml:"blinds"  json:"blinds"`
	Film    float64 `yaml:"film"    json:"film"`
	Awning  float64 `yaml:"awning"  json:"awning"`
	Unknown float64 `yaml:"unknown" json:"unknown"`
}

// CeilingTypeTable maps ceiling construction to a U-value.
type CeilingTypeTable struct {
	Flat             float64 `yaml:"flat"              json:"flat"`
	Sloped           float64 `yaml:"sloped"            json:"sloped"`
	AtticInsulated   float64 `yaml:"attic-insulated"   json:"attic-insulated"`
	AtticUninsulated float64 `yaml:"attic-uninsulated" json:"attic-uninsulated"`
	MetalSheet       float64 `yaml:"metal-sheet"       json:"metal-sheet"`
	Unknown          float64 `yaml:"unknown"           json:"unknown"`
}

// CeilingColorTable maps roof finish to an absorptance multiplier.
type CeilingColorTable struct {
	Light   float64 `yaml:"light"   json:"light"`
	Dark    float64 `yaml:"dark"    json:"dark"`
	Unknown float64 `yaml:"unknown" json:"unknown"`
}

// ClimateRow holds the per-zone driving coefficients.
type ClimateRow struct {
	// DesignDeltaF is the outdoor/indoor design differential in °F.
	DesignDeltaF float64 `yaml:"design_delta_f"      json:"design_delta_f"`
	// AirChangesPerHour is the base infiltration rate.
	AirChangesPerHour float64 `yaml:"air_changes_per_hour" json:"air_changes_per_hour"`
	// QuickFactor is BTU/h per m² of floor used by the quick estimate.
	QuickFactor float64 `yaml:"quick_factor"        json:"quick_factor"`
}

// ClimateTable maps climate zones to their rows. DefaultZone is substituted
// for any zone that is not declared.
type ClimateTable struct {
	Temperate   ClimateRow  `yaml:"temperate"    json:"temperate"`
	Mixed       ClimateRow  `yaml:"mixed"        json:"mixed"`
	HotHumid    ClimateRow  `yaml:"hot-humid"    json:"hot-humid"`
	HotDry      ClimateRow  `yaml:"hot-dry"      json:"hot-dry"`
	VeryHot     ClimateRow  `yaml:"very-hot"     json:"very-hot"`
	DefaultZone ClimateZone `yaml:"default_zone" json:"default_zone"`
}

// PhysicsTable holds the scalar constants of the gain formulas.
type PhysicsTable struct {
	BaseSolarRadiation      float64 `yaml:"base_solar_radiation"       json:"base_solar_radiation"`
	PerOccupantBTUh         float64 `yaml:"per_occupant_btuh"          json:"per_occupant_btuh"`
	WattsToBTUh             float64 `yaml:"watts_to_btuh"              json:"watts_to_btuh"`
	CookingStoveBTUh        float64 `yaml:"cooking_stove_btuh"         json:"cooking_stove_btuh"`
	VolumetricHeatConstant  float64 `yaml:"volumetric_heat_constant"   json:"volumetric_heat_constant"`
	ShadedCeilingDeltaRatio float64 `yaml:"shaded_ceiling_delta_ratio" json:"shaded_ceiling_delta_ratio"`
}

// Tables is the complete coefficient set. It is a plain value: copies are
// independent, so a Tables handed to the calculator cannot change under it.
type Tables struct {
	SchemaVersion string            `yaml:"schema_version" json:"schema_version"`
	Materials     MaterialTable     `yaml:"materials"      json:"materials"`
	Orientations  OrientationTable  `yaml:"orientations"   json:"orientations"`
	Exposures     ExposureTable     `yaml:"exposures"      json:"exposures"`
	Glass         GlassTable        `yaml:"glass"          json:"glass"`
	Protections   ProtectionTable   `yaml:"protections"    json:"protections"`
	CeilingTypes  CeilingTypeTable  `yaml:"ceiling_types"  json:"ceiling_types"`
	CeilingColors CeilingColorTable `yaml:"ceiling_colors" json:"ceiling_colors"`
	Climates      ClimateTable      `yaml:"climates"       json:"climates"`
	Physics       PhysicsTable      `yaml:"physics"        json:"physics"`
}

// Default returns the built-in coefficient set. Values follow common
// residential rule-of-thumb load methods and are meant to be replaced by a
// reviewed table (see Load) where local practice differs.
func Default() Tables {
	return Tables{
		SchemaVersion: SchemaVersion,
		Materials: MaterialTable{
			Concrete: 0.55, StandardBrick: 0.45, Drywall: 0.35, Insulated: 0.15,
			Unknown: 0.55,
		},
		Orientations: OrientationTable{
			N: 0.65, S: 1.15, E: 1.00, W: 1.05, NE: 0.80, NW: 0.75, SE: 1.05, SW: 1.10,
			Unknown: 1.15,
		},
		Exposures: ExposureTable{Shaded: 1.0, Partial: 1.1, Full: 1.2, Unknown: 1.2},
		Glass:     GlassTable{SinglePane: 0.86, DoublePane: 0.70, LowE: 0.40, Unknown: 0.86},
		Protections: ProtectionTable{
			None: 1.0, Curtain: 0.70, Blinds: 0.50, Film: 0.60, Awning: 0.35, Unknown: 1.0,
		},
		CeilingTypes: CeilingTypeTable{
			Flat: 0.50, Sloped: 0.55, AtticInsulated: 0.25, AtticUninsulated: 0.45, MetalSheet: 0.70,
			Unknown: 0.70,
		},
		CeilingColors: CeilingColorTable{Light: 0.85, Dark: 1.15, Unknown: 1.15},
		Climates: ClimateTable{
			Temperate:   ClimateRow{DesignDeltaF: 15, AirChangesPerHour: 0.5, QuickFactor: 500},
			Mixed:       ClimateRow{DesignDeltaF: 20, AirChangesPerHour: 0.5, QuickFactor: 550},
			HotHumid:    ClimateRow{DesignDeltaF: 25, AirChangesPerHour: 0.7, QuickFactor: 600},
			HotDry:      ClimateRow{DesignDeltaF: 30, AirChangesPerHour: 0.6, QuickFactor: 650},
			VeryHot:     ClimateRow{DesignDeltaF: 35, AirChangesPerHour: 0.7, QuickFactor: 700},
			DefaultZone: ZoneHotHumid,
		},
		Physics: PhysicsTable{
			BaseSolarRadiation:      DefaultBaseSolarRadiation,
			PerOccupantBTUh:         DefaultPerOccupantBTUh,
			WattsToBTUh:             DefaultWattsToBTUh,
			CookingStoveBTUh:        DefaultCookingStoveBTUh,
			VolumetricHeatConstant:  DefaultVolumetricHeatConstant,
			ShadedCeilingDeltaRatio: DefaultShadedCeilingDeltaRatio,
		},
	}
}

// Transmittance returns the U-value of a wall material. The boolean is false
// when m is not declared and the unknown row was used.
func (t Tables) Transmittance(m Material) (float64, bool) {
	switch m {
	case MaterialConcrete:
		return t.Materials.Concrete, true
	case MaterialStandardBrick:
		return t.Materials.StandardBrick, true
	case MaterialDrywall:
		return t.Materials.Drywall, true
	case MaterialInsulated:
		return t.Materials.Insulated, true
	default:
		return t.Materials.Unknown, false
	}
}

// OrientationFactor returns the solar intensity multiplier of a direction.
func (t Tables) OrientationFactor(o Orientation) (float64, bool) {
	switch o {
	case OrientationN:
		return t.Orientations.N, true
	case OrientationS:
		return t.Orientations.S, true
	case OrientationE:
		return t.Orientations.E, true
	case OrientationW:
		return t.Orientations.W, true
	case OrientationNE:
		return t.Orientations.NE, true
	case OrientationNW:
		return t.Orientations.NW, true
	case OrientationSE:
		return t.Orientations.SE, true
	case OrientationSW:
		return t.Orientations.SW, true
	default:
		return t.Orientations.Unknown, false
	}
}

// ExposureFactor returns the multiplier for a sun exposure.
func (t Tables) ExposureFactor(e SunExposure) (float64, bool) {
	switch e {
	case ExposureShaded:
		return t.Exposures.Shaded, true
	case ExposurePartial:
		return t.Exposures.Partial, true
	case ExposureFull:
		return t.Exposures.Full, true
	default:
		return t.Exposures.Unknown, false
	}
}

// SolarMultiplier combines orientation and exposure. The boolean is false if
// either input fell back to its unknown row.
func (t Tables) SolarMultiplier(o Orientation, e SunExposure) (float64, bool) {
	of, oOK := t.OrientationFactor(o)
	ef, eOK := t.ExposureFactor(e)
	return of * ef, oOK && eOK
}

// SHGC returns the solar heat gain coefficient of a glazing type.
func (t Tables) SHGC(g GlassType) (float64, bool) {
	switch g {
	case GlassSinglePane:
		return t.Glass.SinglePane, true
	case GlassDoublePane:
		return t.Glass.DoublePane, true
	case GlassLowE:
		return t.Glass.LowE, true
	default:
		return t.Glass.Unknown, false
	}
}

// Attenuation returns the solar attenuation of a window protection.
func (t Tables) Attenuation(p Protection) (float64, bool) {
	switch p {
	case ProtectionNone:
		return t.Protections.None, true
	case ProtectionCurtain:
		return t.Protections.Curtain, true
	case ProtectionBlinds:
		return t.Protections.Blinds, true
	case ProtectionFilm:
		return t.Protections.Film, true
	case ProtectionAwning:
		return t.Protections.Awning, true
	default:
		return t.Protections.Unknown, false
	}
}

// CeilingU returns the U-value of a ceiling construction.
func (t Tables) CeilingU(c CeilingType) (float64, bool) {
	switch c {
	case CeilingFlat:
		return t.CeilingTypes.Flat, true
	case CeilingSloped:
		return t.CeilingTypes.Sloped, true
	case CeilingAtticInsulated:
		return t.CeilingTypes.AtticInsulated, true
	case CeilingAtticUninsulated:
		return t.CeilingTypes.AtticUninsulated, true
	case CeilingMetalSheet:
		return t.CeilingTypes.MetalSheet, true
	default:
		return t.CeilingTypes.Unknown, false
	}
}

// CeilingColorFactor returns the absorptance multiplier of a roof finish.
func (t Tables) CeilingColorFactor(c CeilingColor) (float64, bool) {
	switch c {
	case ColorLight:
		return t.CeilingColors.Light, true
	case ColorDark:
		return t.CeilingColors.Dark, true
	default:
		return t.CeilingColors.Unknown, false
	}
}

// CeilingCoefficient is the combined type x color gain coefficient.
func (t Tables) CeilingCoefficient(c CeilingType, color CeilingColor) (float64, bool) {
	u, uOK := t.CeilingU(c)
	f, fOK := t.CeilingColorFactor(color)
	return u * f, uOK && fOK
}

// Climate returns the row for zone and the zone it was resolved to. When zone
// is not declared the default zone's row is returned with found=false.
func (t Tables) Climate(zone ClimateZone) (row ClimateRow, resolved ClimateZone, found bool) {
	if r, ok := t.climateRow(zone); ok {
		return r, zone, true
	}
	def := t.Climates.DefaultZone
	if r, ok := t.climateRow(def); ok {
		return r, def, false
	}
	return t.Climates.HotHumid, ZoneHotHumid, false
}

func (t Tables) climateRow(zone ClimateZone) (ClimateRow, bool) {
	switch zone {
	case ZoneTemperate:
		return t.Climates.Temperate, true
	case ZoneMixed:
		return t.Climates.Mixed, true
	case ZoneHotHumid:
		return t.Climates.HotHumid, true
	case ZoneHotDry:
		return t.Climates.HotDry, true
	case ZoneVeryHot:
		return t.Climates.VeryHot, true
	default:
		return ClimateRow{}, false
	}
}
