package factors

// Unit conversions. The model works in imperial units internally: areas in
// ft², volumes in ft³, temperature differentials in °F and heat flow in BTU/h.
const (
	// SquareMetersToSquareFeet converts m² to ft².
	SquareMetersToSquareFeet = 10.764

	// CubicMetersToCubicFeet converts m³ to ft³.
	CubicMetersToCubicFeet = 35.315

	// MinutesPerHour converts air changes per hour to cubic feet per minute.
	MinutesPerHour = 60.0

	// BTUhPerTon is one ton of refrigeration.
	BTUhPerTon = 12000.0
)

// SchemaVersion is the factor-table file version written by this build.
const SchemaVersion = "1.0.0"

// SupportedSchema is the semver constraint an override file must satisfy.
const SupportedSchema = "^1.0"

// Default physical constants. Tables.Physics carries the values actually used.
const (
	// DefaultBaseSolarRadiation is the peak solar load on glazing, BTU/(h·ft²).
	DefaultBaseSolarRadiation = 200.0

	// DefaultPerOccupantBTUh is sensible plus latent heat of one seated adult.
	DefaultPerOccupantBTUh = 450.0

	// DefaultWattsToBTUh converts electrical watts to BTU/h.
	DefaultWattsToBTUh = 3.41

	// DefaultCookingStoveBTUh is the average load of a residential range.
	DefaultCookingStoveBTUh = 8000.0

	// DefaultVolumetricHeatConstant is the sensible heat factor for air,
	// BTU/(h·CFM·°F) at sea level.
	DefaultVolumetricHeatConstant = 1.08

	// DefaultShadedCeilingDeltaRatio scales the design ΔT for a ceiling that is
	// not exposed to the sun.
	DefaultShadedCeilingDeltaRatio = 0.5
)
