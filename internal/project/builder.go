package project

import (
	"github.com/oklog/ulid/v2"

	"github.com/rshade/loadcalc/internal/factors"
)

// Defaults used by CreateDefault and Normalize.
const (
	// DefaultClimateZone is the zone of a fresh project.
	DefaultClimateZone = factors.ZoneHotHumid

	// DefaultUsagePattern is the usage of a fresh project.
	DefaultUsagePattern = factors.UsageContinuous

	// DefaultRoomVolume is a 4 x 3 x 2.5 m room, so a fresh project is computable.
	DefaultRoomVolume = 30.0

	// DefaultCeilingHeight is assumed when dimensions give length and width only.
	DefaultCeilingHeight = 2.5
)

// Defaults for list items added without every field set.
const (
	DefaultWallMaterial    = factors.MaterialStandardBrick
	DefaultOrientation     = factors.OrientationN
	DefaultSunExposure     = factors.ExposurePartial
	DefaultGlassType       = factors.GlassSinglePane
	DefaultProtection      = factors.ProtectionNone
	DefaultCeilingType     = factors.CeilingFlat
	DefaultCeilingColor    = factors.ColorLight
	DefaultCeilingExposure = false
)

// CreateDefault returns the neutral project: no walls or windows, the default
// climate zone, nobody in the room and no equipment. It always returns the
// same value.
func CreateDefault() ProjectState {
	return ProjectState{
		Walls:   []WallSegment{},
		Windows: []WindowSegment{},
		Ceiling: Ceiling{
			Type:         DefaultCeilingType,
			Color:        DefaultCeilingColor,
			ExposedToSun: DefaultCeilingExposure,
		},
		ClimateZone:  DefaultClimateZone,
		UsagePattern: DefaultUsagePattern,
		RoomVolume:   DefaultRoomVolume,
	}
}

// NewID returns an identifier for a wall or window. IDs are ULIDs drawn from
// a process-wide monotonic source, so they are unique within a session and
// sort in creation order.
func NewID() string {
	return ulid.Make().String()
}

// Normalize returns a copy of s with every structural gap filled:
// list items get IDs and default enums, the volume and ceiling area are
// derived from Dimensions when they are zero, and blank enums take the
// documented defaults. A zero volume without dimensions stays zero, and
// negative or otherwise invalid numbers are left alone, so the calculator's
// validation can report them.
func Normalize(s ProjectState) ProjectState {
	out := s.Clone()

	for i := range out.Walls {
		w := &out.Walls[i]
		if w.ID == "" {
			w.ID = NewID()
		}
		if w.Material == "" {
			w.Material = DefaultWallMaterial
		}
		if w.Orientation == "" {
			w.Orientation = DefaultOrientation
		}
		if w.SunExposure == "" {
			w.SunExposure = DefaultSunExposure
		}
		w.Material = canonical(w.Material, factors.ParseMaterial)
		w.Orientation = canonical(w.Orientation, factors.ParseOrientation)
		w.SunExposure = canonical(w.SunExposure, factors.ParseSunExposure)
	}
	for i := range out.Windows {
		w := &out.Windows[i]
		if w.ID == "" {
			w.ID = NewID()
		}
		if w.GlassType == "" {
			w.GlassType = DefaultGlassType
		}
		if w.Protection == "" {
			w.Protection = DefaultProtection
		}
		if w.Orientation == "" {
			w.Orientation = DefaultOrientation
		}
		w.GlassType = canonical(w.GlassType, factors.ParseGlassType)
		w.Protection = canonical(w.Protection, factors.ParseProtection)
		w.Orientation = canonical(w.Orientation, factors.ParseOrientation)
	}

	if out.Ceiling.Type == "" {
		out.Ceiling.Type = DefaultCeilingType
	}
	if out.Ceiling.Color == "" {
		out.Ceiling.Color = DefaultCeilingColor
	}
	if out.ClimateZone == "" {
		out.ClimateZone = DefaultClimateZone
	}
	if out.UsagePattern == "" {
		out.UsagePattern = DefaultUsagePattern
	}
	out.Ceiling.Type = canonical(out.Ceiling.Type, factors.ParseCeilingType)
	out.Ceiling.Color = canonical(out.Ceiling.Color, factors.ParseCeilingColor)
	out.ClimateZone = canonical(out.ClimateZone, factors.ParseClimateZone)
	out.UsagePattern = canonical(out.UsagePattern, factors.ParseUsagePattern)

	d := out.Dimensions
	if d.Length > 0 && d.Width > 0 {
		if d.Height == 0 {
			out.Dimensions.Height = DefaultCeilingHeight
		}
		if out.RoomVolume == 0 && out.Dimensions.Height > 0 {
			out.RoomVolume = out.Dimensions.Volume()
		}
		if out.Ceiling.Area == 0 {
			out.Ceiling.Area = d.FloorArea()
		}
	}
	return out
}

// canonical maps an alias or differently cased value to its declared
// constant. Values that do not parse are kept so the calculator can fall back
// to the unknown row and report it.
func canonical[T ~string](v T, parse func(string) (T, bool)) T {
	if c, ok := parse(string(v)); ok {
		return c
	}
	return v
}

// AddWall appends w, assigning an ID if it has none, and returns the ID.
func (s *ProjectState) AddWall(w WallSegment) string {
	if w.ID == "" {
		w.ID = NewID()
	}
	s.Walls = append(s.Walls, w)
	return w.ID
}

// RemoveWall deletes the wall with the given ID and reports whether it existed.
func (s *ProjectState) RemoveWall(id string) bool {
	for i, w := range s.Walls {
		if w.ID == id {
			s.Walls = append(s.Walls[:i:i], s.Walls[i+1:]...)
			return true
		}
	}
	return false
}

// AddWindow appends w, assigning an ID if it has none, and returns the ID.
func (s *ProjectState) AddWindow(w WindowSegment) string {
	if w.ID == "" {
		w.ID = NewID()
	}
	s.Windows = append(s.Windows, w)
	return w.ID
}

// RemoveWindow deletes the window with the given ID and reports whether it existed.
func (s *ProjectState) RemoveWindow(id string) bool {
	for i, w := range s.Windows {
		if w.ID == id {
			s.Windows = append(s.Windows[:i:i], s.Windows[i+1:]...)
			return true
		}
	}
	return false
}
