// Package factors holds the coefficient tables of the cooling-load model.
//
// Every categorical input of a project (wall material, orientation, glazing,
// window protection, ceiling type and color, climate zone, usage pattern) is
// a closed string type declared here. Tables maps each value to a finite,
// non-negative coefficient and carries an explicit "unknown" row per category
// so a lookup can never produce an undefined coefficient.
package factors

import "strings"

// Material is the construction material of a wall.
type Material string

// Wall materials.
const (
	MaterialConcrete      Material = "concrete"
	MaterialStandardBrick Material = "standard-brick"
	MaterialDrywall       Material = "drywall"
	MaterialInsulated     Material = "insulated"
)

// Orientation is the compass direction a wall or window faces.
type Orientation string

// Orientations.
const (
	OrientationN  Orientation = "N"
	OrientationS  Orientation = "S"
	OrientationE  Orientation = "E"
	OrientationW  Orientation = "W"
	OrientationNE Orientation = "NE"
	OrientationNW Orientation = "NW"
	OrientationSE Orientation = "SE"
	OrientationSW Orientation = "SW"
)

// SunExposure is how much direct sun a wall receives.
type SunExposure string

// Sun exposures.
const (
	ExposureShaded  SunExposure = "shaded"
	ExposurePartial SunExposure = "partial"
	ExposureFull    SunExposure = "full"
)

// GlassType is the glazing of a window.
type GlassType string

// Glass types.
const (
	GlassSinglePane GlassType = "single-pane"
	GlassDoublePane GlassType = "double-pane"
	GlassLowE       GlassType = "low-e"
)

// Protection is the shading device on a window.
type Protection string

// Window protections.
const (
	ProtectionNone    Protection = "none"
	ProtectionCurtain Protection = "curtain"
	ProtectionBlinds  Protection = "blinds"
	ProtectionFilm    Protection = "film"
	ProtectionAwning  Protection = "awning"
)

// CeilingType is the roof/ceiling construction.
type CeilingType string

// Ceiling types.
const (
	CeilingFlat             CeilingType = "flat"
	CeilingSloped           CeilingType = "sloped"
	CeilingAtticInsulated   CeilingType = "attic-insulated"
	CeilingAtticUninsulated CeilingType = "attic-uninsulated"
	CeilingMetalSheet       CeilingType = "metal-sheet"
)

// CeilingColor is the outer finish of the roof.
type CeilingColor string

// Ceiling colors.
const (
	ColorLight CeilingColor = "light"
	ColorDark  CeilingColor = "dark"
)

// ClimateZone selects the design temperature differential and infiltration rate.
type ClimateZone string

// Climate zones.
const (
	ZoneTemperate ClimateZone = "temperate"
	ZoneMixed     ClimateZone = "mixed"
	ZoneHotHumid  ClimateZone = "hot-humid"
	ZoneHotDry    ClimateZone = "hot-dry"
	ZoneVeryHot   ClimateZone = "very-hot"
)

// UsagePattern describes how the space is conditioned over the day.
type UsagePattern string

// Usage patterns.
const (
	UsageContinuous   UsagePattern = "continuous"
	UsageIntermittent UsagePattern = "intermittent"
)

// Materials returns every wall material in declaration order.
func Materials() []Material {
	return []Material{MaterialConcrete, MaterialStandardBrick, MaterialDrywall, MaterialInsulated}
}

// Orientations returns every orientation in declaration order.
func Orientations() []Orientation {
	return []Orientation{
		OrientationN, OrientationS, OrientationE, OrientationW,
		OrientationNE, OrientationNW, OrientationSE, OrientationSW,
	}
}

// SunExposures returns every sun exposure in declaration order.
func SunExposures() []SunExposure {
	return []SunExposure{ExposureShaded, ExposurePartial, ExposureFull}
}

// GlassTypes returns every glass type in declaration order.
func GlassTypes() []GlassType {
	return []GlassType{GlassSinglePane, GlassDoublePane, GlassLowE}
}

// Protections returns every window protection in declaration order.
func Protections() []Protection {
	return []Protection{ProtectionNone, ProtectionCurtain, ProtectionBlinds, ProtectionFilm, ProtectionAwning}
}

// CeilingTypes returns every ceiling type in declaration order.
func CeilingTypes() []CeilingType {
	return []CeilingType{
		CeilingFlat, CeilingSloped, CeilingAtticInsulated, CeilingAtticUninsulated, CeilingMetalSheet,
	}
}

// CeilingColors returns every ceiling color in declaration order.
func CeilingColors() []CeilingColor {
	return []CeilingColor{ColorLight, ColorDark}
}

// ClimateZones returns every climate zone in declaration order.
func ClimateZones() []ClimateZone {
	return []ClimateZone{ZoneTemperate, ZoneMixed, ZoneHotHumid, ZoneHotDry, ZoneVeryHot}
}

// UsagePatterns returns every usage pattern in declaration order.
func UsagePatterns() []UsagePattern {
	return []UsagePattern{UsageContinuous, UsageIntermittent}
}

// Aliases accepted by the parsers. The Spanish names are the ones written by
// the mobile calculator, so its saved projects still load.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	materialAliases = map[string]Material{
		"concreto": MaterialConcrete, "brick": MaterialStandardBrick, "ladrillo": MaterialStandardBrick,
		"tablaroca": MaterialDrywall, "aislado": MaterialInsulated,
	}
	orientationAliases = map[string]Orientation{
		"north": OrientationN, "south": OrientationS, "east": OrientationE, "west": OrientationW,
		"O": OrientationW, "NO": OrientationNW, "SO": OrientationSW,
	}
	exposureAliases = map[string]SunExposure{
		"sombra": ExposureShaded, "shade": ExposureShaded, "sol_directo": ExposureFull, "direct": ExposureFull,
	}
	glassAliases = map[string]GlassType{
		"single": GlassSinglePane, "sencillo": GlassSinglePane, "double": GlassDoublePane,
		"doble": GlassDoublePane, "termico": GlassLowE, "thermal": GlassLowE,
	}
	protectionAliases = map[string]Protection{
		"ninguno": ProtectionNone, "cortinas": ProtectionCurtain, "persianas": ProtectionBlinds,
		"toldo": ProtectionAwning,
	}
	ceilingAliases = map[string]CeilingType{
		"losa_concreto": CeilingFlat, "techo_atico": CeilingAtticInsulated, "lamina": CeilingMetalSheet,
	}
	colorAliases = map[string]CeilingColor{"claro": ColorLight, "oscuro": ColorDark}
	zoneAliases  = map[string]ClimateZone{
		"templada": ZoneTemperate, "calida": ZoneHotHumid, "muy_calida": ZoneVeryHot,
	}
	usageAliases = map[string]UsagePattern{}
)

// parseEnum matches s case-insensitively against values, then aliases.
func parseEnum[T ~string](s string, values []T, aliases map[string]T) (T, bool) {
	s = strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	for alias, v := range aliases {
		if strings.EqualFold(alias, s) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// ParseMaterial resolves a wall material name.
func ParseMaterial(s string) (Material, bool) { return parseEnum(s, Materials(), materialAliases) }

// ParseOrientation resolves an orientation name.
func ParseOrientation(s string) (Orientation, bool) {
	return parseEnum(s, Orientations(), orientationAliases)
}

// ParseSunExposure resolves a sun exposure name.
func ParseSunExposure(s string) (SunExposure, bool) {
	return parseEnum(s, SunExposures(), exposureAliases)
}

// ParseGlassType resolves a glass type name.
func ParseGlassType(s string) (GlassType, bool) { return parseEnum(s, GlassTypes(), glassAliases) }

// ParseProtection resolves a window protection name.
func ParseProtection(s string) (Protection, bool) {
	return parseEnum(s, Protections(), protectionAliases)
}

// ParseCeilingType resolves a ceiling type name.
func ParseCeilingType(s string) (CeilingType, bool) {
	return parseEnum(s, CeilingTypes(), ceilingAliases)
}

// ParseCeilingColor resolves a ceiling color name.
func ParseCeilingColor(s string) (CeilingColor, bool) {
	return parseEnum(s, CeilingColors(), colorAliases)
}

// ParseClimateZone resolves a climate zone name.
func ParseClimateZone(s string) (ClimateZone, bool) {
	return parseEnum(s, ClimateZones(), zoneAliases)
}

// ParseUsagePattern resolves a usage pattern name.
func ParseUsagePattern(s string) (UsagePattern, bool) {
	return parseEnum(s, UsagePatterns(), usageAliases)
}

// Valid reports whether m is a declared material.
func (m Material) Valid() bool { return contains(Materials(), m) }

// Valid reports whether o is a declared orientation.
func (o Orientation) Valid() bool { return contains(Orientations(), o) }

// Valid reports whether e is a declared sun exposure.
func (e SunExposure) Valid() bool { return contains(SunExposures(), e) }

// Valid reports whether g is a declared glass type.
func (g GlassType) Valid() bool { return contains(GlassTypes(), g) }

// Valid reports whether p is a declared protection.
func (p Protection) Valid() bool { return contains(Protections(), p) }

// Valid reports whether c is a declared ceiling type.
func (c CeilingType) Valid() bool { return contains(CeilingTypes(), c) }

// Valid reports whether c is a declared ceiling color.
func (c CeilingColor) Valid() bool { return contains(CeilingColors(), c) }

// Valid reports whether z is a declared climate zone.
func (z ClimateZone) Valid() bool { return contains(ClimateZones(), z) }

// Valid reports whether u is a declared usage pattern.
func (u UsagePattern) Valid() bool { return contains(UsagePatterns(), u) }

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
