package sim

import (
	"errors"

	"github.com/inference-sim/demand-sim/sim/cluster"
)

var (
	// ErrInvalidDimension reports a grid size or coordinate outside the configured bounds.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrEmptyInput reports classification or clustering over an empty grid or point set.
	ErrEmptyInput = cluster.ErrEmptyInput

	// ErrInvalidClusterCount reports a requested cluster count below 1.
	ErrInvalidClusterCount = cluster.ErrInvalidClusterCount

	// ErrStillRunning reports an analysis request made before the clock reached Idle.
	ErrStillRunning = errors.New("simulation still running")
)
