package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/loadcalc/internal/factors"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for project files and overrides.
var (
	// ErrUnsupportedFormat indicates a project file extension other than
	// .yaml, .yml or .json.
	ErrUnsupportedFormat = constError("unsupported project file format")

	// ErrInvalidOverride indicates a malformed or unknown --set override.
	ErrInvalidOverride = constError("invalid override")
)

// maxProjectFileSize bounds the size of a project file read from disk.
const maxProjectFileSize = 1 << 20

// Parse decodes a project from YAML or JSON. format is "yaml" or "json".
func Parse(data []byte, format string) (ProjectState, error) {
	var s ProjectState
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return ProjectState{}, fmt.Errorf("parsing project YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &s); err != nil {
			return ProjectState{}, fmt.Errorf("parsing project JSON: %w", err)
		}
	default:
		return ProjectState{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return s, nil
}

// LoadFile reads a project file, choosing the decoder by extension, and
// returns the normalized state.
func LoadFile(path string) (ProjectState, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return ProjectState{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return ProjectState{}, fmt.Errorf("reading project %s: %w", path, err)
	}
	if info.Size() > maxProjectFileSize {
		return ProjectState{}, fmt.Errorf("project %s is too large: %d bytes (max %d)",
			path, info.Size(), maxProjectFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ProjectState{}, fmt.Errorf("reading project %s: %w", path, err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return ProjectState{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return Normalize(s), nil
}

// Save writes s to path as YAML or JSON depending on the extension.
func Save(s ProjectState, path string) error {
	format, err := formatFromPath(path)
	if err != nil {
		return err
	}

	var data []byte
	if format == "json" {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = yaml.Marshal(s)
	}
	if err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
			return fmt.Errorf("creating %s: %w", dir, mkErr)
		}
	}
	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing project %s: %w", path, writeErr)
	}
	return nil
}

func formatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// OverrideKeys lists the scalar fields ApplyOverrides understands.
func OverrideKeys() []string {
	return []string{
		"name", "climate_zone", "design_delta_override_f", "occupants",
		"equipment_load_watts", "lighting_watts", "has_cooking_stove", "usage_pattern",
		"room_volume", "ceiling.type", "ceiling.color", "ceiling.exposed_to_sun", "ceiling.area",
		"dimensions.length", "dimensions.width", "dimensions.height",
	}
}

// ApplyOverrides sets scalar fields from key=value pairs and returns the
// updated copy. Enum values go through the factor parsers, so aliases are
// accepted but typos are rejected.
//
//nolint:gocognit,gocyclo // One case per supported key.
func ApplyOverrides(s ProjectState, overrides map[string]string) (ProjectState, error) {
	out := s.Clone()
	for key, raw := range overrides {
		value := strings.TrimSpace(raw)
		var err error
		switch key {
		case "name":
			out.Name = value
		case "climate_zone":
			out.ClimateZone, err = parseEnumOverride(key, value, factors.ParseClimateZone)
		case "usage_pattern":
			out.UsagePattern, err = parseEnumOverride(key, value, factors.ParseUsagePattern)
		case "ceiling.type":
			out.Ceiling.Type, err = parseEnumOverride(key, value, factors.ParseCeilingType)
		case "ceiling.color":
			out.Ceiling.Color, err = parseEnumOverride(key, value, factors.ParseCeilingColor)
		case "ceiling.exposed_to_sun":
			out.Ceiling.ExposedToSun, err = strconv.ParseBool(value)
		case "has_cooking_stove":
			out.HasCookingStove, err = strconv.ParseBool(value)
		case "occupants":
			out.Occupants, err = strconv.Atoi(value)
		case "design_delta_override_f":
			out.DesignDeltaOverrideF, err = strconv.ParseFloat(value, 64)
		case "equipment_load_watts":
			out.EquipmentLoadWatts, err = strconv.ParseFloat(value, 64)
		case "lighting_watts":
			out.LightingWatts, err = strconv.ParseFloat(value, 64)
		case "room_volume":
			out.RoomVolume, err = strconv.ParseFloat(value, 64)
		case "ceiling.area":
			out.Ceiling.Area, err = strconv.ParseFloat(value, 64)
		case "dimensions.length":
			out.Dimensions.Length, err = strconv.ParseFloat(value, 64)
		case "dimensions.width":
			out.Dimensions.Width, err = strconv.ParseFloat(value, 64)
		case "dimensions.height":
			out.Dimensions.Height, err = strconv.ParseFloat(value, 64)
		default:
			return s, fmt.Errorf("%w: unknown key %q (supported: %s)",
				ErrInvalidOverride, key, strings.Join(OverrideKeys(), ", "))
		}
		if err != nil {
			return s, fmt.Errorf("%w: %s=%q: %w", ErrInvalidOverride, key, value, err)
		}
	}
	return out, nil
}

func parseEnumOverride[T ~string](key, value string, parse func(string) (T, bool)) (T, error) {
	v, ok := parse(value)
	if !ok {
		return v, fmt.Errorf("unrecognized %s %q", key, value)
	}
	return v, nil
}

// OverrideValue returns the current value of an override key, formatted the
// way ApplyOverrides accepts it.
//
//nolint:gocyclo // One case per supported key.
func OverrideValue(s ProjectState, key string) (string, error) {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	switch key {
	case "name":
		return s.Name, nil
	case "climate_zone":
		return string(s.ClimateZone), nil
	case "usage_pattern":
		return string(s.UsagePattern), nil
	case "ceiling.type":
		return string(s.Ceiling.Type), nil
	case "ceiling.color":
		return string(s.Ceiling.Color), nil
	case "ceiling.exposed_to_sun":
		return strconv.FormatBool(s.Ceiling.ExposedToSun), nil
	case "has_cooking_stove":
		return strconv.FormatBool(s.HasCookingStove), nil
	case "occupants":
		return strconv.Itoa(s.Occupants), nil
	case "design_delta_override_f":
		return f(s.DesignDeltaOverrideF), nil
	case "equipment_load_watts":
		return f(s.EquipmentLoadWatts), nil
	case "lighting_watts":
		return f(s.LightingWatts), nil
	case "room_volume":
		return f(s.RoomVolume), nil
	case "ceiling.area":
		return f(s.Ceiling.Area), nil
	case "dimensions.length":
		return f(s.Dimensions.Length), nil
	case "dimensions.width":
		return f(s.Dimensions.Width), nil
	case "dimensions.height":
		return f(s.Dimensions.Height), nil
	default:
		return "", fmt.Errorf("%w: unknown key %q", ErrInvalidOverride, key)
	}
}
