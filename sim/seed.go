package sim

import (
	"gonum.org/v1/gonum/floats"
)

// Neighborhood is a named location that pulls demand up around it at seed time only.
type Neighborhood struct {
	Name      string  `yaml:"name" json:"name"`
	Row       int     `yaml:"row" json:"row"`
	Col       int     `yaml:"col" json:"col"`
	Influence float64 `yaml:"influence" json:"influence"` // radius in cells; the pull decays linearly to 0 at this distance
}

// Per-cell baseline ranges drawn at seed time.
const (
	baseDemandLo, baseDemandHi = 0.1, 0.3
	baseMaxLo, baseMaxHi       = 0.5, 1.0
	baseGrowthLo, baseGrowthHi = 0.05, 0.20
	baseDecayLo, baseDecayHi   = 0.03, 0.10
)

// Neighborhood pull weights, scaled by the linear falloff factor.
const (
	influenceDemand = 0.3
	influenceMax    = 0.4
	influenceGrowth = 0.1
)

// Seed builds the initial grid: independent uniform baselines per cell, then the
// additive neighborhood pull. Draw order is row-major, four draws per cell
// (demand, maxDemand, growthRate, decayRate).
func Seed(neighborhoods []Neighborhood, divisions int, src RandomSource) (*Grid, error) {
	g, err := NewGrid(divisions)
	if err != nil {
		return nil, err
	}
	for i := range g.cells {
		for j := range g.cells[i] {
			g.cells[i][j] = Cell{
				Demand:     uniform(src, baseDemandLo, baseDemandHi),
				MaxDemand:  uniform(src, baseMaxLo, baseMaxHi),
				GrowthRate: uniform(src, baseGrowthLo, baseGrowthHi),
				DecayRate:  uniform(src, baseDecayLo, baseDecayHi),
			}
		}
	}
	ApplyInfluence(g, neighborhoods)
	return g, nil
}

// ApplyInfluence adds each neighborhood's distance-decayed pull to every cell within
// its radius. Contributions are summed, so the order of neighborhoods does not matter.
// No clamping happens here; the first tick brings demand back into range.
func ApplyInfluence(g *Grid, neighborhoods []Neighborhood) {
	pos := make([]float64, 2)
	center := make([]float64, 2)
	for _, hood := range neighborhoods {
		if hood.Influence <= 0 {
			continue
		}
		center[0], center[1] = float64(hood.Row), float64(hood.Col)
		for i := range g.cells {
			for j := range g.cells[i] {
				pos[0], pos[1] = float64(i), float64(j)
				distance := floats.Distance(pos, center, 2)
				if distance >= hood.Influence {
					continue
				}
				factor := 1 - distance/hood.Influence
				c := &g.cells[i][j]
				c.Demand += factor * influenceDemand
				c.MaxDemand += factor * influenceMax
				c.GrowthRate += factor * influenceGrowth
			}
		}
	}
}
