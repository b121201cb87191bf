// sim/metrics_utils.go
package sim

import (
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/demand-sim/sim/cluster"
	"github.com/inference-sim/demand-sim/sim/trace"
)

// MetricsOutput is the JSON shape written by SaveResults.
type MetricsOutput struct {
	RunID           string              `json:"run_id"`
	Seed            int64               `json:"seed"`
	DurationS       float64             `json:"duration_s"`
	TicksFired      int                 `json:"ticks_fired"`
	TicksSkipped    int                 `json:"ticks_skipped"`
	FinalDemand     DemandStats         `json:"final_demand"`
	HighDemandCells int                 `json:"high_demand_cells"`
	LowDemandCells  int                 `json:"low_demand_cells"`
	Classification  *Classification     `json:"classification,omitempty"`
	Clusters        []cluster.Result    `json:"clusters"`
	Trace           *trace.TraceSummary `json:"trace_summary,omitempty"`
	TickRecords     []trace.TickRecord  `json:"ticks,omitempty"`
	Grid            [][]float64         `json:"grid,omitempty"`
}

// Output assembles the JSON view of the run. Optional parts are included when non-nil.
func (m *RunMetrics) Output(c *Classification, st *trace.SimulationTrace, g *Grid) MetricsOutput {
	out := MetricsOutput{
		RunID:           m.RunID,
		Seed:            m.Seed,
		DurationS:       m.Duration().Seconds(),
		TicksFired:      m.TicksFired,
		TicksSkipped:    m.TicksSkipped,
		FinalDemand:     m.Final,
		HighDemandCells: m.HighDemandCells,
		LowDemandCells:  m.LowDemandCells,
		Classification:  c,
		Clusters:        m.Clusters,
	}
	if out.Clusters == nil {
		out.Clusters = []cluster.Result{}
	}
	if st.Enabled() {
		out.Trace = trace.Summarize(st)
		out.TickRecords = st.Ticks
	}
	if !g.empty() {
		out.Grid = g.Demands()
	}
	return out
}

// SaveResults writes the JSON view of the run to path.
func (m *RunMetrics) SaveResults(path string, c *Classification, st *trace.SimulationTrace, g *Grid) error {
	data, err := json.MarshalIndent(m.Output(c, st, g), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	logrus.Infof("Results written to %s", path)
	return nil
}

// demandStatsOf computes mean, population standard deviation, min and max demand.
func demandStatsOf(g *Grid) DemandStats {
	if g.empty() {
		return DemandStats{}
	}
	values := g.flatDemands()
	mean, std := stat.PopMeanStdDev(values, nil)
	return DemandStats{
		Mean: mean,
		Std:  std,
		Min:  floats.Min(values),
		Max:  floats.Max(values),
	}
}
