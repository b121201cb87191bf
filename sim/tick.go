package sim

import (
	"errors"
	"fmt"
	"math"
)

const (
	cyclesPerRun = 2 // full day cycles per run

	mealPeakSlope = 10  // triangular peaks fall to 0 at +/-0.1 time-of-day
	mealTimeScale = 0.5 // mealTimeFactor at the top of a peak

	jitterProbability = 0.3
	jitterAmplitude   = 0.1
	growthProbability = 0.5
	growthBoost       = 0.2
	diffusionBoost    = 0.1
)

// mealPeaks are the breakfast, lunch and dinner centers in time-of-day units.
var mealPeaks = [...]float64{0.25, 0.5, 0.75}

// TimeOfDay maps run progress in [0,1] to a position in the day cycle.
// Two cycles fit in one run; progress outside [0,1] is clamped.
func TimeOfDay(elapsedFraction float64) float64 {
	f := math.Max(0, math.Min(1, elapsedFraction))
	return math.Mod(f*cyclesPerRun, 1.0)
}

// MealTimeFactor returns the temporal pull for a time of day: 0.5 at a meal
// center, falling linearly to 0 at 0.1 away from it.
func MealTimeFactor(timeOfDay float64) float64 {
	peak := 0.0
	for _, center := range mealPeaks {
		peak = math.Max(peak, math.Max(0, 1-math.Abs(timeOfDay-center)*mealPeakSlope))
	}
	return peak * mealTimeScale
}

// Tick computes the next grid from g without modifying it. Every cell reads only
// the prior snapshot, so the result does not depend on scan order.
//
// Per cell, draws from src are consumed in this order: jitter gate, jitter value
// (only when the gate fires), growth/decay coin.
//
// Diffusion compares the neighbors' prior mean against the cell's prior demand,
// not against the partially updated value.
func Tick(g *Grid, elapsedFraction float64, src RandomSource) (*Grid, error) {
	if g.empty() {
		return nil, fmt.Errorf("tick: %w", ErrEmptyInput)
	}
	if src == nil {
		return nil, errors.New("tick: nil random source")
	}

	meal := MealTimeFactor(TimeOfDay(elapsedFraction))
	next := g.Clone()

	for i, row := range g.cells {
		for j, prev := range row {
			demand := prev.Demand

			if chance(src, jitterProbability) {
				demand += uniform(src, -jitterAmplitude, jitterAmplitude)
			}

			demand += prev.GrowthRate * meal

			if chance(src, growthProbability) {
				demand += prev.GrowthRate * growthBoost
			} else {
				demand -= prev.DecayRate
			}

			if g.neighborMean(i, j) > prev.Demand {
				demand += prev.GrowthRate * diffusionBoost
			}

			next.cells[i][j].Demand = clampDemand(demand, prev.MaxDemand)
		}
	}
	return next, nil
}

// clampDemand bounds demand to [MinDemand, maxDemand]. MinDemand wins if a cell
// was ever seeded with maxDemand below it.
func clampDemand(demand, maxDemand float64) float64 {
	return math.Max(MinDemand, math.Min(maxDemand, demand))
}
