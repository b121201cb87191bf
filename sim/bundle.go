package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/demand-sim/sim/trace"
)

// ScenarioBundle holds run configuration loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" and do not override CLI flags.
type ScenarioBundle struct {
	Neighborhoods []Neighborhood `yaml:"neighborhoods"`
	Clusters      *int           `yaml:"clusters"`
	Seed          *int64         `yaml:"seed"`
	TraceLevel    string         `yaml:"trace_level"`
}

// LoadScenarioBundle reads and parses a YAML scenario file.
// Unknown keys are rejected so typos surface as errors.
func LoadScenarioBundle(path string) (*ScenarioBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}
	var bundle ScenarioBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing scenario config: %w", err)
	}
	return &bundle, nil
}

// Validate checks the bundle against a grid of the given division count.
func (b *ScenarioBundle) Validate(divisions int) error {
	if !trace.IsValidTraceLevel(b.TraceLevel) {
		return fmt.Errorf("unknown trace level %q", b.TraceLevel)
	}
	if b.Clusters != nil && *b.Clusters < 1 {
		return fmt.Errorf("clusters must be >= 1, got %d: %w", *b.Clusters, ErrInvalidClusterCount)
	}
	return ValidateNeighborhoods(b.Neighborhoods, divisions)
}

// ValidateNeighborhoods checks that every neighborhood is named, centered on the
// grid and has a positive influence radius.
func ValidateNeighborhoods(hoods []Neighborhood, divisions int) error {
	size := divisions - 1
	for i, h := range hoods {
		if h.Name == "" {
			return fmt.Errorf("neighborhood %d: missing name", i)
		}
		if h.Row < 0 || h.Row >= size || h.Col < 0 || h.Col >= size {
			return fmt.Errorf("neighborhood %q at (%d,%d) outside [0,%d]: %w", h.Name, h.Row, h.Col, size-1, ErrInvalidDimension)
		}
		if h.Influence <= 0 {
			return fmt.Errorf("neighborhood %q: influence must be positive, got %f", h.Name, h.Influence)
		}
	}
	return nil
}
