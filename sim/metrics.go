// Tracks run-wide results such as ticks fired, final demand statistics,
// classification counts and cluster suggestions.

package sim

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/inference-sim/demand-sim/sim/cluster"
)

// RunMetrics aggregates the outcome of one run for final reporting.
type RunMetrics struct {
	RunID        string
	Seed         int64
	StartedAt    time.Time
	EndedAt      time.Time
	TicksFired   int
	TicksSkipped int // tick intervals a late driver passed over

	Final DemandStats // demand statistics of the final grid

	HighDemandCells int
	LowDemandCells  int
	Clusters        []cluster.Result
}

// DemandStats summarises the demand values of a grid.
type DemandStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// NewRunMetrics creates metrics for a new run with a fresh run ID.
func NewRunMetrics(seed int64) *RunMetrics {
	return &RunMetrics{
		RunID: uuid.NewString(),
		Seed:  seed,
	}
}

func (m *RunMetrics) markStarted(now time.Time) {
	m.StartedAt = now
	m.EndedAt = time.Time{}
	m.TicksFired = 0
	m.TicksSkipped = 0
	m.HighDemandCells = 0
	m.LowDemandCells = 0
	m.Clusters = nil
}

func (m *RunMetrics) recordRun(now time.Time, ticks, skipped int, g *Grid) {
	m.EndedAt = now
	m.TicksFired = ticks
	m.TicksSkipped = skipped
	m.Final = demandStatsOf(g)
}

func (m *RunMetrics) recordClassification(c Classification) {
	m.HighDemandCells = len(c.High)
	m.LowDemandCells = len(c.Low)
}

// Duration returns the simulated wall-clock span of the run.
func (m *RunMetrics) Duration() time.Duration {
	if m.EndedAt.IsZero() || m.StartedAt.IsZero() {
		return 0
	}
	return m.EndedAt.Sub(m.StartedAt)
}

// Print displays the run summary. Cluster centers are shown 1-based, as grid
// rows and columns are labelled for display.
func (m *RunMetrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Run ID               : %s\n", m.RunID)
	fmt.Printf("Seed                 : %d\n", m.Seed)
	fmt.Printf("Duration             : %s\n", m.Duration().Round(time.Millisecond))
	fmt.Printf("Ticks Fired          : %s\n", humanize.Comma(int64(m.TicksFired)))
	fmt.Printf("Ticks Skipped        : %s\n", humanize.Comma(int64(m.TicksSkipped)))
	fmt.Printf("Final Mean Demand    : %s (std %s)\n",
		humanize.FtoaWithDigits(m.Final.Mean, 3), humanize.FtoaWithDigits(m.Final.Std, 3))
	fmt.Printf("Final Demand Range   : [%s, %s]\n",
		humanize.FtoaWithDigits(m.Final.Min, 3), humanize.FtoaWithDigits(m.Final.Max, 3))
	fmt.Printf("High Demand Cells    : %d\n", m.HighDemandCells)
	fmt.Printf("Low Demand Cells     : %d\n", m.LowDemandCells)
	for i, c := range m.Clusters {
		fmt.Printf("Store %d              : row %d, col %d (%d cells)\n",
			i+1, c.RoundedCenter[0]+1, c.RoundedCenter[1]+1, c.MemberCount)
	}
}
