// Package project defines the ProjectState describing one room to be sized
// and the builder that keeps every state structurally complete: a constant
// default, stable identifiers for walls and windows, and normalization of
// partially filled input.
package project

import "github.com/rshade/loadcalc/internal/factors"

// WallSegment is one exterior wall.
type WallSegment struct {
	ID          string              `yaml:"id"           json:"id"`
	Area        float64             `yaml:"area"         json:"area"` // m², must be > 0
	Material    factors.Material    `yaml:"material"     json:"material"`
	Orientation factors.Orientation `yaml:"orientation"  json:"orientation"`
	SunExposure factors.SunExposure `yaml:"sun_exposure" json:"sun_exposure"`
}

// WindowSegment is one glazed opening. An area of 0 contributes nothing.
type WindowSegment struct {
	ID          string              `yaml:"id"          json:"id"`
	Area        float64             `yaml:"area"        json:"area"` // m², must be >= 0
	GlassType   factors.GlassType   `yaml:"glass_type"  json:"glass_type"`
	Protection  factors.Protection  `yaml:"protection"  json:"protection"`
	Orientation factors.Orientation `yaml:"orientation" json:"orientation"`
}

// Ceiling describes the roof over the room. Area 0 means no ceiling
// dimension was supplied and the ceiling contributes no gain.
type Ceiling struct {
	Type         factors.CeilingType  `yaml:"type"           json:"type"`
	Color        factors.CeilingColor `yaml:"color"          json:"color"`
	ExposedToSun bool                 `yaml:"exposed_to_sun" json:"exposed_to_sun"`
	Area         float64              `yaml:"area"           json:"area"` // m²
}

// Dimensions are the interior measurements of the room, in metres. They are
// optional; when present they let Normalize derive volume and ceiling area.
type Dimensions struct {
	Length float64 `yaml:"length" json:"length"`
	Width  float64 `yaml:"width"  json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// FloorArea returns length x width.
func (d Dimensions) FloorArea() float64 { return d.Length * d.Width }

// Volume returns length x width x height.
func (d Dimensions) Volume() float64 { return d.Length * d.Width * d.Height }

// ProjectState is the complete description of one room or zone.
type ProjectState struct {
	Name       string     `yaml:"name,omitempty"       json:"name,omitempty"`
	Dimensions Dimensions `yaml:"dimensions,omitempty" json:"dimensions,omitempty"`

	Walls   []WallSegment   `yaml:"walls"   json:"walls"`
	Windows []WindowSegment `yaml:"windows" json:"windows"`
	Ceiling Ceiling         `yaml:"ceiling" json:"ceiling"`

	ClimateZone factors.ClimateZone `yaml:"climate_zone" json:"climate_zone"`
	// DesignDeltaOverrideF replaces the zone's design differential when > 0.
	DesignDeltaOverrideF float64 `yaml:"design_delta_override_f,omitempty" json:"design_delta_override_f,omitempty"`

	Occupants          int                  `yaml:"occupants"            json:"occupants"`
	EquipmentLoadWatts float64              `yaml:"equipment_load_watts" json:"equipment_load_watts"`
	LightingWatts      float64              `yaml:"lighting_watts"       json:"lighting_watts"`
	HasCookingStove    bool                 `yaml:"has_cooking_stove"    json:"has_cooking_stove"`
	UsagePattern       factors.UsagePattern `yaml:"usage_pattern"        json:"usage_pattern"`

	RoomVolume float64 `yaml:"room_volume" json:"room_volume"` // m³, must be > 0
}

// Clone returns a deep copy of s.
func (s ProjectState) Clone() ProjectState {
	out := s
	out.Walls = append([]WallSegment(nil), s.Walls...)
	out.Windows = append([]WindowSegment(nil), s.Windows...)
	if out.Walls == nil {
		out.Walls = []WallSegment{}
	}
	if out.Windows == nil {
		out.Windows = []WindowSegment{}
	}
	return out
}
