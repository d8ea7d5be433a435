package load

import (
	"fmt"
	"math"

	"github.com/rshade/loadcalc/internal/factors"
)

// MarginRow holds the safety margin for one usage pattern under moderate and
// extreme design conditions.
type MarginRow struct {
	Moderate float64 `yaml:"moderate" json:"moderate"`
	Extreme  float64 `yaml:"extreme"  json:"extreme"`
}

// MarginPolicy is the audited safety-margin table. It is policy, not
// physics, so it lives here as a named value that tests and config can
// inspect or replace.
type MarginPolicy struct {
	Continuous   MarginRow `yaml:"continuous"      json:"continuous"`
	Intermittent MarginRow `yaml:"intermittent"    json:"intermittent"`
	// ExtremeDeltaF is the design differential at or above which the
	// extreme column applies.
	ExtremeDeltaF float64 `yaml:"extreme_delta_f" json:"extreme_delta_f"`
}

// DefaultMarginPolicy returns the shipped margin table. Intermittent use
// carries a larger margin because the system starts from a warm room.
func DefaultMarginPolicy() MarginPolicy {
	return MarginPolicy{
		Continuous:    MarginRow{Moderate: 0.10, Extreme: 0.15},
		Intermittent:  MarginRow{Moderate: 0.20, Extreme: 0.25},
		ExtremeDeltaF: 30,
	}
}

// Margin returns the margin for a usage pattern and design differential.
// Unknown patterns use the intermittent row, the more conservative one,
// and report known=false.
func (p MarginPolicy) Margin(usage factors.UsagePattern, deltaF float64) (margin float64, known bool) {
	var row MarginRow
	switch usage {
	case factors.UsageContinuous:
		row, known = p.Continuous, true
	case factors.UsageIntermittent:
		row, known = p.Intermittent, true
	default:
		row, known = p.Intermittent, false
	}
	if deltaF >= p.ExtremeDeltaF {
		return row.Extreme, known
	}
	return row.Moderate, known
}

// Validate checks that every margin is a fraction in [0, 1] and that the
// extreme threshold is a positive finite differential.
func (p MarginPolicy) Validate() error {
	rows := []struct {
		name  string
		value float64
	}{
		{"continuous.moderate", p.Continuous.Moderate},
		{"continuous.extreme", p.Continuous.Extreme},
		{"intermittent.moderate", p.Intermittent.Moderate},
		{"intermittent.extreme", p.Intermittent.Extreme},
	}
	for _, r := range rows {
		if math.IsNaN(r.value) || r.value < 0 || r.value > 1 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidMargin, r.name, r.value)
		}
	}
	if !(p.ExtremeDeltaF > 0) || math.IsInf(p.ExtremeDeltaF, 0) {
		return fmt.Errorf("%w: extreme_delta_f = %v", ErrInvalidMargin, p.ExtremeDeltaF)
	}
	return nil
}
