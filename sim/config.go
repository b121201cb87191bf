package sim

import (
	"time"

	"github.com/inference-sim/demand-sim/sim/trace"
)

// Fixed simulation constants. These are not exposed as CLI flags.
const (
	DefaultDivisions = 20               // grid division count; the grid is (D-1)x(D-1)
	RunDuration      = 20 * time.Second // wall-clock length of one run
	TicksPerSecond   = 10               // tick cadence while running
	TickInterval     = time.Second / TicksPerSecond
	FrameInterval    = 16 * time.Millisecond // scheduling opportunity cadence (~60 Hz)

	MinDemand           = 0.1 // lower clamp for every cell's demand
	HighDemandThreshold = 0.7 // demand >= this is classified high
	LowDemandThreshold  = 0.3 // demand <= this is classified low
	DefaultClusterCount = 3
)

// SimConfig groups the parameters a Simulator is built from.
type SimConfig struct {
	Divisions     int              // grid division count (must be >= 2)
	Seed          int64            // master seed for PartitionedRNG
	Duration      time.Duration    // run length (RunDuration outside tests)
	TickInterval  time.Duration    // minimum spacing between fired ticks
	FrameInterval time.Duration    // delay between scheduling opportunities in Run
	TraceLevel    trace.TraceLevel // "none" (default) or "ticks"
}

// NewSimConfig returns the fixed production configuration for the given seed and trace level.
func NewSimConfig(seed int64, traceLevel trace.TraceLevel) SimConfig {
	return SimConfig{
		Divisions:     DefaultDivisions,
		Seed:          seed,
		Duration:      RunDuration,
		TickInterval:  TickInterval,
		FrameInterval: FrameInterval,
		TraceLevel:    traceLevel,
	}
}
