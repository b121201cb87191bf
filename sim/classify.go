package sim

import (
	"fmt"

	"github.com/inference-sim/demand-sim/sim/cluster"
)

// DemandCell is one classified cell.
type DemandCell struct {
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	Demand float64 `json:"demand"`
}

// Classification partitions a grid into high and low demand cells, both in
// row-major order. Cells strictly between the thresholds appear in neither.
type Classification struct {
	High []DemandCell `json:"high_demand"`
	Low  []DemandCell `json:"low_demand"`
}

// Classify scans g in row-major order. A cell with demand >= HighDemandThreshold
// is high, <= LowDemandThreshold is low.
func Classify(g *Grid) (Classification, error) {
	if g.empty() {
		return Classification{}, fmt.Errorf("classify: %w", ErrEmptyInput)
	}
	result := Classification{
		High: make([]DemandCell, 0),
		Low:  make([]DemandCell, 0),
	}
	for i, row := range g.cells {
		for j, c := range row {
			switch {
			case c.Demand >= HighDemandThreshold:
				result.High = append(result.High, DemandCell{Row: i, Col: j, Demand: c.Demand})
			case c.Demand <= LowDemandThreshold:
				result.Low = append(result.Low, DemandCell{Row: i, Col: j, Demand: c.Demand})
			}
		}
	}
	return result, nil
}

// HighPoints returns the high-demand cells as clustering input.
func (c Classification) HighPoints() []cluster.Point {
	return toPoints(c.High)
}

func toPoints(cells []DemandCell) []cluster.Point {
	points := make([]cluster.Point, len(cells))
	for i, c := range cells {
		points[i] = cluster.Point{Row: float64(c.Row), Col: float64(c.Col)}
	}
	return points
}
