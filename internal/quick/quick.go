// Package quick implements the floor-area rule of thumb: area times a
// per-zone factor, sized against the equipment ladder. It needs no wall,
// window or ceiling detail and is meant for a first conversation with a
// customer, not for final sizing.
package quick

import (
	"math"

	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/load"
	"github.com/rshade/loadcalc/internal/recommend"
)

// Input is the room footprint and zone.
type Input struct {
	Length      float64             `json:"length"`
	Width       float64             `json:"width"`
	ClimateZone factors.ClimateZone `json:"climate_zone"`
}

// Result is the quick estimate.
type Result struct {
	FloorAreaM2     float64             `json:"floor_area_m2"`
	FactorBTUhPerM2 float64             `json:"factor_btuh_per_m2"`
	ClimateZone     factors.ClimateZone `json:"climate_zone"`
	TotalBTUh       float64             `json:"total_btuh"`
	Selection       recommend.Selection `json:"selection"`
	Warnings        []load.Warning      `json:"warnings"`
}

// Estimate multiplies the floor area by the zone's quick factor and sizes
// the result. The zone accepts the same aliases as project files.
// Non-positive or non-finite dimensions, and an area too large to size,
// return a *load.ValidationError.
func Estimate(in Input, tables factors.Tables, ladder recommend.Ladder) (Result, error) {
	var issues []load.FieldIssue
	if !validDimension(in.Length) {
		issues = append(issues, load.FieldIssue{Field: "length", Message: "must be a finite number greater than zero", Value: in.Length})
	}
	if !validDimension(in.Width) {
		issues = append(issues, load.FieldIssue{Field: "width", Message: "must be a finite number greater than zero", Value: in.Width})
	}
	if len(issues) > 0 {
		return Result{}, &load.ValidationError{Issues: issues}
	}

	if z, ok := factors.ParseClimateZone(string(in.ClimateZone)); ok {
		in.ClimateZone = z
	}
	row, zone, found := tables.Climate(in.ClimateZone)
	warnings := []load.Warning{}
	if !found {
		warnings = append(warnings, load.WarnClimateZoneDefaulted)
	}

	area := in.Length * in.Width
	total := area * row.QuickFactor
	if math.IsInf(total, 0) {
		return Result{}, &load.ValidationError{Issues: []load.FieldIssue{
			{Field: "floor_area", Message: "too large to compute a finite load", Value: area},
		}}
	}
	return Result{
		FloorAreaM2:     area,
		FactorBTUhPerM2: row.QuickFactor,
		ClimateZone:     zone,
		TotalBTUh:       total,
		Selection:       ladder.Select(total),
		Warnings:        warnings,
	}, nil
}

func validDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
