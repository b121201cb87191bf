// Package trace provides per-tick recording of the demand surface for run analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// TickRecord captures the temporal signal and demand statistics after one tick.
type TickRecord struct {
	Tick            int     `json:"tick"`
	ElapsedFraction float64 `json:"elapsed_fraction"`
	TimeOfDay       float64 `json:"time_of_day"`
	MealTimeFactor  float64 `json:"meal_time_factor"`
	MeanDemand      float64 `json:"mean_demand"`
	StdDemand       float64 `json:"std_demand"`
	MinDemand       float64 `json:"min_demand"`
	MaxDemand       float64 `json:"max_demand"`
}
