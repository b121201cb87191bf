package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	sim "github.com/inference-sim/demand-sim/sim"
	"github.com/inference-sim/demand-sim/sim/trace"
)

// DefaultNeighborhoods returns the built-in San Francisco seed list used when
// no scenario file is given. Coordinates are 0-based grid indices.
func DefaultNeighborhoods() []sim.Neighborhood {
	return []sim.Neighborhood{
		{Name: "Marina/Presidio", Row: 1, Col: 5, Influence: 5},
		{Name: "North Beach", Row: 2, Col: 8, Influence: 4},
		{Name: "Financial District", Row: 4, Col: 9, Influence: 6},
		{Name: "Mission", Row: 8, Col: 10, Influence: 7},
		{Name: "SoMa", Row: 6, Col: 8, Influence: 8},
		{Name: "Richmond", Row: 3, Col: 3, Influence: 4},
		{Name: "Sunset", Row: 7, Col: 2, Influence: 3},
		{Name: "Castro", Row: 7, Col: 7, Influence: 5},
		{Name: "Haight-Ashbury", Row: 5, Col: 5, Influence: 6},
	}
}

// runOptions is the effective configuration of one run after flags and the
// scenario file have been merged.
type runOptions struct {
	Seed          int64
	Clusters      int
	TraceLevel    string
	Neighborhoods []sim.Neighborhood
}

// applyScenario overlays a scenario bundle onto flag values. A bundle value
// only wins when the matching flag was not set on the command line, so an
// explicit --seed always beats the file.
func applyScenario(opts runOptions, bundle *sim.ScenarioBundle, changed func(name string) bool) runOptions {
	if bundle == nil {
		return opts
	}
	// nil means the key was absent; an explicit empty list seeds from baselines only.
	if bundle.Neighborhoods != nil {
		opts.Neighborhoods = bundle.Neighborhoods
	}
	if bundle.Seed != nil && !changed("seed") {
		opts.Seed = *bundle.Seed
	}
	if bundle.Clusters != nil && !changed("k") {
		opts.Clusters = *bundle.Clusters
	}
	if bundle.TraceLevel != "" && !changed("trace-level") {
		opts.TraceLevel = bundle.TraceLevel
	}
	return opts
}

// loadScenario reads and validates the scenario file at path.
// An empty path means no scenario.
func loadScenario(path string) *sim.ScenarioBundle {
	if path == "" {
		return nil
	}
	bundle, err := sim.LoadScenarioBundle(path)
	if err != nil {
		logrus.Fatalf("Failed to load scenario: %v", err)
	}
	if err := bundle.Validate(sim.DefaultDivisions); err != nil {
		logrus.Fatalf("Invalid scenario %s: %v", path, err)
	}
	logrus.Infof("Loaded scenario %s (%d neighborhoods)", path, len(bundle.Neighborhoods))
	return bundle
}

// validateOptions rejects merged options the simulator cannot run with.
func validateOptions(opts runOptions) error {
	if !trace.IsValidTraceLevel(opts.TraceLevel) {
		return fmt.Errorf("unknown trace level %q (valid: none, ticks)", opts.TraceLevel)
	}
	if opts.Clusters < 1 {
		return fmt.Errorf("--k must be >= 1, got %d: %w", opts.Clusters, sim.ErrInvalidClusterCount)
	}
	return sim.ValidateNeighborhoods(opts.Neighborhoods, sim.DefaultDivisions)
}
