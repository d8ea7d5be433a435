package load

import (
	"testing"

	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/project"
)

// BenchmarkCompute measures one estimate of a typical room.
func BenchmarkCompute(b *testing.B) {
	b.ReportAllocs()
	calc := NewCalculator(factors.Default())
	state := scenarioState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := calc.Compute(state); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCompute_ManySegments measures a room with 100 walls and windows.
func BenchmarkCompute_ManySegments(b *testing.B) {
	b.ReportAllocs()
	calc := NewCalculator(factors.Default())
	state := scenarioState()
	for i := 0; i < 100; i++ {
		state.AddWall(project.WallSegment{Area: 2, Material: factors.MaterialStandardBrick,
			Orientation: factors.OrientationE, SunExposure: factors.ExposurePartial})
		state.AddWindow(project.WindowSegment{Area: 1, GlassType: factors.GlassSinglePane,
			Protection: factors.ProtectionNone, Orientation: factors.OrientationW})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := calc.Compute(state); err != nil {
			b.Fatal(err)
		}
	}
}
