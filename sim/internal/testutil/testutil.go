// Package testutil provides shared test infrastructure for the demand simulator.
// It consolidates scripted random sources and assertion helpers used across
// sim/ and sim/cluster/ test packages.
package testutil

import (
	"math"
	"testing"
)

// ScriptedSource replays a fixed sequence of draws, cycling when exhausted.
// It satisfies sim.RandomSource.
type ScriptedSource struct {
	values []float64
	next   int
	Calls  int // total draws taken
}

// NewScriptedSource creates a source that returns values in order, then repeats.
// With no values it always returns 0.
func NewScriptedSource(values ...float64) *ScriptedSource {
	return &ScriptedSource{values: values}
}

// Float64 returns the next scripted draw.
func (s *ScriptedSource) Float64() float64 {
	s.Calls++
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
