package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// gridFromDemands builds a square grid with the given demands. MaxDemand is 1,
// growth and decay are 0 unless the caller sets them afterwards.
func gridFromDemands(t *testing.T, demands [][]float64) *Grid {
	t.Helper()
	g, err := NewGrid(len(demands) + 1)
	require.NoError(t, err)
	for i, row := range demands {
		require.Len(t, row, len(demands), "grid must be square")
		for j, d := range row {
			require.NoError(t, g.Set(i, j, Cell{Demand: d, MaxDemand: 1}))
		}
	}
	return g
}

// uniformGrid builds a grid where every cell is c.
func uniformGrid(t *testing.T, divisions int, c Cell) *Grid {
	t.Helper()
	g, err := NewGrid(divisions)
	require.NoError(t, err)
	for i := 0; i < g.Size(); i++ {
		for j := 0; j < g.Size(); j++ {
			require.NoError(t, g.Set(i, j, c))
		}
	}
	return g
}

// assertInvariants checks 0.1 <= demand <= maxDemand for every cell.
func assertInvariants(t *testing.T, g *Grid) {
	t.Helper()
	for i := 0; i < g.Size(); i++ {
		for j := 0; j < g.Size(); j++ {
			c, _ := g.At(i, j)
			if c.Demand < MinDemand || c.Demand > c.MaxDemand {
				t.Fatalf("cell (%d,%d) demand %v outside [%v, %v]", i, j, c.Demand, MinDemand, c.MaxDemand)
			}
		}
	}
}

func testNeighborhoods() []Neighborhood {
	return []Neighborhood{
		{Name: "Mission", Row: 8, Col: 10, Influence: 7},
		{Name: "SoMa", Row: 6, Col: 8, Influence: 8},
		{Name: "Sunset", Row: 7, Col: 2, Influence: 3},
	}
}
