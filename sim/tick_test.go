package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/demand-sim/sim/internal/testutil"
)

func TestTimeOfDay_TwoCyclesPerRun(t *testing.T) {
	tests := []struct {
		fraction, want float64
	}{
		{0, 0},
		{0.125, 0.25},
		{0.25, 0.5},
		{0.375, 0.75},
		{0.5, 0},
		{0.625, 0.25},
		{1, 0},
		{-0.5, 0}, // clamped
		{1.5, 0},  // clamped
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, TimeOfDay(tt.fraction), 1e-12, "fraction %v", tt.fraction)
	}
}

func TestMealTimeFactor_PeaksAndTroughs(t *testing.T) {
	for _, tod := range []float64{0.25, 0.5, 0.75} {
		assert.InDelta(t, 0.5, MealTimeFactor(tod), 1e-12, "peak at %v", tod)
	}
	for _, tod := range []float64{0, 0.375, 0.625, 0.875} {
		assert.Equal(t, 0.0, MealTimeFactor(tod), "trough at %v", tod)
	}
	// halfway down the breakfast slope
	assert.InDelta(t, 0.25, MealTimeFactor(0.30), 1e-12)
	assert.InDelta(t, 0.25, MealTimeFactor(0.20), 1e-12)
}

func TestTick_DecayBranch_NoJitter(t *testing.T) {
	// GIVEN a single isolated cell and draws of 0 (no jitter, decay branch)
	g := uniformGrid(t, 2, Cell{Demand: 0.5, MaxDemand: 1, GrowthRate: 0.1, DecayRate: 0.05})
	src := testutil.NewScriptedSource(0)

	// WHEN ticked at a meal-time trough
	next, err := Tick(g, 0, src)
	require.NoError(t, err)

	// THEN only decay applies
	c, _ := next.At(0, 0)
	assert.InDelta(t, 0.45, c.Demand, 1e-12)
	assert.Equal(t, 2, src.Calls, "jitter gate and growth coin, no jitter value")
}

func TestTick_JitterAndGrowthBranch(t *testing.T) {
	// GIVEN draws: gate fires (0.75), jitter value 0.75 -> +0.05, coin 0.9 -> growth
	g := uniformGrid(t, 2, Cell{Demand: 0.5, MaxDemand: 1, GrowthRate: 0.1, DecayRate: 0.05})
	src := testutil.NewScriptedSource(0.75, 0.75, 0.9)

	next, err := Tick(g, 0, src)
	require.NoError(t, err)

	c, _ := next.At(0, 0)
	assert.InDelta(t, 0.5+0.05+0.1*0.2, c.Demand, 1e-12)
	assert.Equal(t, 3, src.Calls)
}

func TestTick_MealTimePull(t *testing.T) {
	// GIVEN a tick at breakfast peak (fraction 0.125 -> time of day 0.25)
	g := uniformGrid(t, 2, Cell{Demand: 0.5, MaxDemand: 1, GrowthRate: 0.1, DecayRate: 0.05})

	next, err := Tick(g, 0.125, testutil.NewScriptedSource(0))
	require.NoError(t, err)

	// THEN growth*0.5 is added before decay
	c, _ := next.At(0, 0)
	assert.InDelta(t, 0.5+0.1*0.5-0.05, c.Demand, 1e-12)
}

func TestTick_Diffusion_TowardHigherNeighbors(t *testing.T) {
	// GIVEN a low cell surrounded by higher ones
	g := gridFromDemands(t, [][]float64{{0.2, 0.6}, {0.6, 0.6}})
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			c, _ := g.At(i, j)
			c.GrowthRate = 0.1
			require.NoError(t, g.Set(i, j, c))
		}
	}

	next, err := Tick(g, 0, testutil.NewScriptedSource(0))
	require.NoError(t, err)

	low, _ := next.At(0, 0)
	assert.InDelta(t, 0.2+0.1*0.1, low.Demand, 1e-12, "low cell diffuses upward")
	high, _ := next.At(1, 1)
	assert.InDelta(t, 0.6, high.Demand, 1e-12, "neighbors mean 0.467 < 0.6, no diffusion")
}

func TestTick_Diffusion_ComparesPriorDemand(t *testing.T) {
	// GIVEN a cell whose prior demand (0.5) is above its neighbors' mean (0.45)
	// but whose decayed demand (0.2) would be below it
	g := gridFromDemands(t, [][]float64{{0.5, 0.45}, {0.45, 0.45}})
	c, _ := g.At(0, 0)
	c.GrowthRate, c.DecayRate = 0.1, 0.3
	require.NoError(t, g.Set(0, 0, c))

	next, err := Tick(g, 0, testutil.NewScriptedSource(0))
	require.NoError(t, err)

	// THEN diffusion does not fire
	got, _ := next.At(0, 0)
	assert.InDelta(t, 0.2, got.Demand, 1e-12)
}

func TestTick_Clamp(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		src  *testutil.ScriptedSource
		want float64
	}{
		{"above max clamps to max", Cell{Demand: 1.5, MaxDemand: 0.8, GrowthRate: 0.1}, testutil.NewScriptedSource(0.9), 0.8},
		{"below floor clamps to 0.1", Cell{Demand: 0.12, MaxDemand: 0.8, DecayRate: 0.09}, testutil.NewScriptedSource(0), 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Tick(uniformGrid(t, 2, tt.cell), 0, tt.src)
			require.NoError(t, err)
			c, _ := next.At(0, 0)
			assert.InDelta(t, tt.want, c.Demand, 1e-12)
		})
	}
}

func TestTick_DoesNotMutateInput(t *testing.T) {
	g, err := Seed(testNeighborhoods(), DefaultDivisions, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	before := g.Clone()

	_, err = Tick(g, 0.3, rand.New(rand.NewSource(4)))
	require.NoError(t, err)

	assert.Equal(t, before.Demands(), g.Demands())
}

func TestTick_ReplayIdenticalDraws_IdenticalGrid(t *testing.T) {
	// GIVEN an identical prior grid and identical draw streams
	g, err := Seed(testNeighborhoods(), DefaultDivisions, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	a, err := Tick(g, 0.42, rand.New(rand.NewSource(77)))
	require.NoError(t, err)
	b, err := Tick(g, 0.42, rand.New(rand.NewSource(77)))
	require.NoError(t, err)

	// THEN the next grids are identical
	assert.Equal(t, a, b)
}

func TestTick_InvariantsHoldOverManyTicks(t *testing.T) {
	g, err := Seed(testNeighborhoods(), DefaultDivisions, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	maxBefore := make([][]float64, g.Size())
	for i := range maxBefore {
		maxBefore[i] = make([]float64, g.Size())
		for j := range maxBefore[i] {
			c, _ := g.At(i, j)
			maxBefore[i][j] = c.MaxDemand
		}
	}

	src := rand.New(rand.NewSource(12))
	for step := 0; step < 200; step++ {
		g, err = Tick(g, float64(step)/200, src)
		require.NoError(t, err)
		assertInvariants(t, g)
	}

	for i := range maxBefore {
		for j := range maxBefore[i] {
			c, _ := g.At(i, j)
			assert.Equal(t, maxBefore[i][j], c.MaxDemand, "maxDemand changed at (%d,%d)", i, j)
		}
	}
}

func TestTick_DecayOnlyRun_ClampsAtFloor(t *testing.T) {
	// GIVEN a 3x3 grid seeded with constant draws (demand 0.2, decay 0.065) and no neighborhoods
	g, err := Seed(nil, 4, testutil.NewScriptedSource(0.5))
	require.NoError(t, err)
	src := testutil.NewScriptedSource(0) // no jitter, always decay; decay outweighs any diffusion boost

	prev := g.Demands()
	for step := 0; step < 5; step++ {
		g, err = Tick(g, float64(step)*0.01, src)
		require.NoError(t, err)
		cur := g.Demands()
		for i := range cur {
			for j := range cur[i] {
				assert.LessOrEqual(t, cur[i][j], prev[i][j], "tick %d cell (%d,%d) increased", step+1, i, j)
			}
		}
		prev = cur
	}

	// THEN every cell has reached the floor by tick 5
	for _, row := range g.Demands() {
		for _, d := range row {
			assert.Equal(t, MinDemand, d)
		}
	}
}

func TestTick_EmptyOrNilInputs(t *testing.T) {
	_, err := Tick(nil, 0, testutil.NewScriptedSource())
	assert.True(t, errors.Is(err, ErrEmptyInput))

	g := uniformGrid(t, 3, Cell{Demand: 0.5, MaxDemand: 1})
	_, err = Tick(g, 0, nil)
	assert.Error(t, err)
}
