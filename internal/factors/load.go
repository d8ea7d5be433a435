package factors

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML override file and overlays it on Default. Keys missing
// from the file keep their default value. The merged table is validated
// before it is returned.
func Load(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("reading factor tables %s: %w", path, err)
	}
	return Parse(data)
}

// Parse overlays YAML data on Default and validates the result.
func Parse(data []byte) (Tables, error) {
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("parsing factor tables: %w", err)
	}
	if err := CheckSchema(t.SchemaVersion); err != nil {
		return Tables{}, err
	}
	if err := t.Validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

// CheckSchema verifies that version satisfies SupportedSchema.
func CheckSchema(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: version %q: %v", ErrUnsupportedSchema, version, err)
	}
	c, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("%w: constraint %q: %v", ErrUnsupportedSchema, SupportedSchema, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedSchema, v, SupportedSchema)
	}
	return nil
}

// Marshal encodes the table as YAML, suitable as a starting point for an
// override file.
func (t Tables) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}

// Validate checks that every coefficient is finite and non-negative, that
// attenuations stay within [0,1] and that the default zone is declared.
func (t Tables) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s = %v", ErrInvalidCoefficient, name, v))
		}
	}
	positive := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidCoefficient, name, v))
		}
	}

	for _, m := range Materials() {
		v, _ := t.Transmittance(m)
		check("materials."+string(m), v)
	}
	check("materials.unknown", t.Materials.Unknown)

	for _, o := range Orientations() {
		v, _ := t.OrientationFactor(o)
		check("orientations."+string(o), v)
	}
	check("orientations.unknown", t.Orientations.Unknown)

	for _, e := range SunExposures() {
		v, _ := t.ExposureFactor(e)
		check("exposures."+string(e), v)
	}
	check("exposures.unknown", t.Exposures.Unknown)

	for _, g := range GlassTypes() {
		v, _ := t.SHGC(g)
		check("glass."+string(g), v)
	}
	check("glass.unknown", t.Glass.Unknown)

	protections := append(Protections(), Protection("unknown"))
	for _, p := range protections {
		v, _ := t.Attenuation(p)
		check("protections."+string(p), v)
		if v > 1 {
			errs = append(errs, fmt.Errorf("%w: protections.%s must be <= 1, got %v", ErrInvalidCoefficient, p, v))
		}
	}

	for _, c := range CeilingTypes() {
		v, _ := t.CeilingU(c)
		check("ceiling_types."+string(c), v)
	}
	check("ceiling_types.unknown", t.CeilingTypes.Unknown)

	for _, c := range CeilingColors() {
		v, _ := t.CeilingColorFactor(c)
		check("ceiling_colors."+string(c), v)
	}
	check("ceiling_colors.unknown", t.CeilingColors.Unknown)

	for _, z := range ClimateZones() {
		row, _ := t.climateRow(z)
		positive("climates."+string(z)+".design_delta_f", row.DesignDeltaF)
		check("climates."+string(z)+".air_changes_per_hour", row.AirChangesPerHour)
		check("climates."+string(z)+".quick_factor", row.QuickFactor)
	}
	if !t.Climates.DefaultZone.Valid() {
		errs = append(errs, fmt.Errorf("%w: climates.default_zone %q is not a declared zone",
			ErrInvalidCoefficient, t.Climates.DefaultZone))
	}

	check("physics.base_solar_radiation", t.Physics.BaseSolarRadiation)
	check("physics.per_occupant_btuh", t.Physics.PerOccupantBTUh)
	check("physics.watts_to_btuh", t.Physics.WattsToBTUh)
	check("physics.cooking_stove_btuh", t.Physics.CookingStoveBTUh)
	check("physics.volumetric_heat_constant", t.Physics.VolumetricHeatConstant)
	check("physics.shaded_ceiling_delta_ratio", t.Physics.ShadedCeilingDeltaRatio)

	return errors.Join(errs...)
}
