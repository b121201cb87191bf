// Package sim provides the demand-surface simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - grid.go: Cell and Grid, the (D-1)x(D-1) demand surface
//   - seed.go: initial surface from uniform baselines plus neighborhood pull
//   - tick.go: one simulation step (meal-time signal, jitter, growth/decay, diffusion)
//   - clock.go: the Idle/Running clock that paces ticks against wall-clock time
//   - simulator.go: the run loop tying grid, clock and RNG together
//
// After a run, classify.go splits cells into high/low demand bands and
// sim/cluster/ runs k-means over the high band to suggest store locations.
//
// # Architecture
//
//   - sim/cluster/: k-means over plain (row, col) points
//   - sim/trace/: per-tick recording of demand statistics
//
// Neither sub-package imports sim/.
//
// # Randomness
//
// Every probabilistic branch draws from a RandomSource. Simulator wires these to
// PartitionedRNG streams (seeding, tick, kmeans) so a seed reproduces a run;
// tests pass scripted sources to replay exact draws.
package sim
