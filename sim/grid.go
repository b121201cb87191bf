// sim/grid.go
package sim

import "fmt"

// Cell is one unit of the demand surface.
type Cell struct {
	Demand     float64 `json:"demand"`      // current demand, clamped to [MinDemand, MaxDemand] by every tick
	MaxDemand  float64 `json:"max_demand"`  // upper bound, fixed at seed time
	GrowthRate float64 `json:"growth_rate"` // >= 0
	DecayRate  float64 `json:"decay_rate"`  // >= 0
}

// Grid is a fixed (D-1)x(D-1) row-major array of cells.
// Row and column indices are the only coordinate system.
type Grid struct {
	divisions int
	cells     [][]Cell
}

// NewGrid allocates a zero-valued grid for the given division count.
func NewGrid(divisions int) (*Grid, error) {
	if divisions < 2 {
		return nil, fmt.Errorf("divisions %d must be >= 2: %w", divisions, ErrInvalidDimension)
	}
	n := divisions - 1
	cells := make([][]Cell, n)
	for i := range cells {
		cells[i] = make([]Cell, n)
	}
	return &Grid{divisions: divisions, cells: cells}, nil
}

// Divisions returns the configured division count D.
func (g *Grid) Divisions() int { return g.divisions }

// Size returns the number of rows (equal to the number of columns).
func (g *Grid) Size() int { return len(g.cells) }

// empty reports whether g holds no cells. Safe on a nil receiver.
func (g *Grid) empty() bool { return g == nil || len(g.cells) == 0 }

func (g *Grid) inBounds(row, col int) bool {
	n := len(g.cells)
	return row >= 0 && row < n && col >= 0 && col < n
}

// At returns the cell at (row, col).
func (g *Grid) At(row, col int) (Cell, error) {
	if !g.inBounds(row, col) {
		return Cell{}, fmt.Errorf("cell (%d,%d) outside [0,%d]: %w", row, col, len(g.cells)-1, ErrInvalidDimension)
	}
	return g.cells[row][col], nil
}

// Set overwrites the cell at (row, col). Used when building grids outside Seed.
func (g *Grid) Set(row, col int, c Cell) error {
	if !g.inBounds(row, col) {
		return fmt.Errorf("cell (%d,%d) outside [0,%d]: %w", row, col, len(g.cells)-1, ErrInvalidDimension)
	}
	g.cells[row][col] = c
	return nil
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	cells := make([][]Cell, len(g.cells))
	for i, row := range g.cells {
		cells[i] = make([]Cell, len(row))
		copy(cells[i], row)
	}
	return &Grid{divisions: g.divisions, cells: cells}
}

// Replace swaps in a fully computed snapshot. Dimensions must match, so the
// grid never changes shape during a run.
func (g *Grid) Replace(next *Grid) error {
	if next == nil || next.divisions != g.divisions || len(next.cells) != len(g.cells) {
		return fmt.Errorf("replacement grid does not match %dx%d: %w", len(g.cells), len(g.cells), ErrInvalidDimension)
	}
	g.cells = next.cells
	return nil
}

// mooreOffsets lists the 8 neighbors sharing an edge or corner.
var mooreOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// eachNeighbor calls fn for every in-bounds Moore neighbor of (row, col).
func (g *Grid) eachNeighbor(row, col int, fn func(Cell)) {
	for _, d := range mooreOffsets {
		r, c := row+d[0], col+d[1]
		if g.inBounds(r, c) {
			fn(g.cells[r][c])
		}
	}
}

// Neighbors returns the Moore neighborhood of (row, col), clipped at the boundary.
// Returns nil for out-of-range coordinates.
func (g *Grid) Neighbors(row, col int) []Cell {
	if !g.inBounds(row, col) {
		return nil
	}
	out := make([]Cell, 0, len(mooreOffsets))
	g.eachNeighbor(row, col, func(c Cell) { out = append(out, c) })
	return out
}

// neighborMean averages the neighbors' demand over the same walk as Neighbors.
func (g *Grid) neighborMean(row, col int) float64 {
	sum, count := 0.0, 0
	g.eachNeighbor(row, col, func(c Cell) {
		sum += c.Demand
		count++
	})
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Demands returns a row-major copy of every cell's demand, for display.
func (g *Grid) Demands() [][]float64 {
	out := make([][]float64, len(g.cells))
	for i, row := range g.cells {
		out[i] = make([]float64, len(row))
		for j, c := range row {
			out[i][j] = c.Demand
		}
	}
	return out
}

// flatDemands returns every demand value in row-major order.
func (g *Grid) flatDemands() []float64 {
	out := make([]float64, 0, len(g.cells)*len(g.cells))
	for _, row := range g.cells {
		for _, c := range row {
			out = append(out, c.Demand)
		}
	}
	return out
}
