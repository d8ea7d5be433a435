package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/rshade/loadcalc/internal/project"
)

// BenchmarkEstimate_Memoized measures repeated estimates of one project.
func BenchmarkEstimate_Memoized(b *testing.B) {
	b.ReportAllocs()
	e, err := New(Options{})
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	state := room()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err = e.Estimate(ctx, state); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEstimateBatch measures 1000 distinct projects per run.
func BenchmarkEstimateBatch(b *testing.B) {
	b.ReportAllocs()
	states := make([]project.ProjectState, 1000)
	for i := range states {
		s := room()
		s.Name = fmt.Sprintf("room-%d", i)
		s.Occupants = i % 20
		states[i] = s
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e, err := New(Options{MemoSize: 1})
		if err != nil {
			b.Fatal(err)
		}
		if _, err = e.EstimateBatch(ctx, states, BatchOptions{Concurrency: 4}); err != nil {
			b.Fatal(err)
		}
	}
}
