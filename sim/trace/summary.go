package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTicks         int     `json:"total_ticks"`
	PeakMeanDemand     float64 `json:"peak_mean_demand"`
	PeakTick           int     `json:"peak_tick"`
	MeanMealTimeFactor float64 `json:"mean_meal_time_factor"`
	MaxStdDemand       float64 `json:"max_std_demand"`
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil || len(st.Ticks) == 0 {
		return summary
	}

	summary.TotalTicks = len(st.Ticks)
	totalMeal := 0.0
	for i, r := range st.Ticks {
		totalMeal += r.MealTimeFactor
		if i == 0 || r.MeanDemand > summary.PeakMeanDemand {
			summary.PeakMeanDemand = r.MeanDemand
			summary.PeakTick = r.Tick
		}
		if r.StdDemand > summary.MaxStdDemand {
			summary.MaxStdDemand = r.StdDemand
		}
	}
	summary.MeanMealTimeFactor = totalMeal / float64(len(st.Ticks))

	return summary
}
