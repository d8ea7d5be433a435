// Package recommend turns a load breakdown into an equipment size, the
// dominant load source and an ordered list of mitigation tips.
package recommend

import (
	"errors"
	"fmt"
	"math"

	"github.com/rshade/loadcalc/internal/factors"
)

// EquipmentClass names the kind of system a ladder step is usually built as.
type EquipmentClass string

// Equipment classes.
const (
	ClassMiniSplit           EquipmentClass = "mini-split"
	ClassMiniSplitOrCentral  EquipmentClass = "mini-split-or-central"
	ClassCentralOrMultiSplit EquipmentClass = "central-or-multi-split"
	ClassCentral             EquipmentClass = "central"
	ClassCommercialSystem    EquipmentClass = "commercial-system"
)

// TiePolicy decides what happens when the load equals a ladder step exactly.
type TiePolicy string

const (
	// TieRoundUp moves an exact match to the next step. At the largest step
	// there is no next step and the largest step is returned as a single unit.
	TieRoundUp TiePolicy = "round-up"

	// TieExact returns the matching step.
	TieExact TiePolicy = "exact"
)

// ParseTiePolicy maps a config string to a TiePolicy.
func ParseTiePolicy(s string) (TiePolicy, bool) {
	switch TiePolicy(s) {
	case TieRoundUp, "":
		return TieRoundUp, true
	case TieExact:
		return TieExact, true
	default:
		return "", false
	}
}

// Step is one standard equipment capacity.
type Step struct {
	CapacityBTUh float64        `yaml:"capacity_btuh" json:"capacity_btuh"`
	Class        EquipmentClass `yaml:"class"         json:"class"`
}

// Tons returns the capacity in refrigeration tons.
func (s Step) Tons() float64 { return s.CapacityBTUh / factors.BTUhPerTon }

// Ladder is an ascending list of standard single-unit sizes.
type Ladder struct {
	Steps []Step    `yaml:"steps" json:"steps"`
	Tie   TiePolicy `yaml:"tie"   json:"tie"`
}

// DefaultLadder returns the residential ladder from 0.75 to 5 tons.
func DefaultLadder() Ladder {
	return Ladder{
		Steps: []Step{
			{CapacityBTUh: 9000, Class: ClassMiniSplit},
			{CapacityBTUh: 12000, Class: ClassMiniSplit},
			{CapacityBTUh: 18000, Class: ClassMiniSplit},
			{CapacityBTUh: 24000, Class: ClassMiniSplitOrCentral},
			{CapacityBTUh: 36000, Class: ClassCentralOrMultiSplit},
			{CapacityBTUh: 48000, Class: ClassCentral},
			{CapacityBTUh: 60000, Class: ClassCentral},
		},
		Tie: TieRoundUp,
	}
}

// ErrInvalidLadder is returned by Validate.
var ErrInvalidLadder = errors.New("invalid equipment ladder")

// Validate checks that the ladder is non-empty, strictly ascending and
// positive, and that the tie policy is known.
func (l Ladder) Validate() error {
	if len(l.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidLadder)
	}
	prev := 0.0
	for i, s := range l.Steps {
		if math.IsNaN(s.CapacityBTUh) || s.CapacityBTUh <= prev {
			return fmt.Errorf("%w: step %d (%v) must be greater than %v", ErrInvalidLadder, i, s.CapacityBTUh, prev)
		}
		prev = s.CapacityBTUh
	}
	if _, ok := ParseTiePolicy(string(l.Tie)); !ok {
		return fmt.Errorf("%w: unknown tie policy %q", ErrInvalidLadder, l.Tie)
	}
	return nil
}

// Selection is the outcome of sizing against a ladder.
type Selection struct {
	Step Step `json:"step"`
	// MultiUnitRequired is set when the load exceeds the largest step.
	MultiUnitRequired bool `json:"multi_unit_required"`
	// UnitsRequired is how many units of Step cover the load; 1 unless multi-unit.
	UnitsRequired int            `json:"units_required"`
	Class         EquipmentClass `json:"class"`
}

// MaxUnits caps UnitsRequired for loads beyond any realistic installation.
const MaxUnits = math.MaxInt32

// Select picks the smallest step that covers total under the tie policy.
// An invalid ladder falls back to DefaultLadder so sizing always succeeds.
// NaN and negative totals size as zero; UnitsRequired never exceeds MaxUnits.
func (l Ladder) Select(total float64) Selection {
	if l.Validate() != nil {
		l = DefaultLadder()
	}
	if math.IsNaN(total) || total < 0 {
		total = 0
	}
	for _, s := range l.Steps {
		if total < s.CapacityBTUh || (total == s.CapacityBTUh && l.Tie == TieExact) {
			return Selection{Step: s, UnitsRequired: 1, Class: s.Class}
		}
	}

	largest := l.Steps[len(l.Steps)-1]
	if total == largest.CapacityBTUh {
		return Selection{Step: largest, UnitsRequired: 1, Class: largest.Class}
	}
	units := MaxUnits
	if n := math.Ceil(total / largest.CapacityBTUh); n < float64(MaxUnits) {
		units = int(n)
	}
	return Selection{
		Step:              largest,
		MultiUnitRequired: true,
		UnitsRequired:     units,
		Class:             ClassCommercialSystem,
	}
}
