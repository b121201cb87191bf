// sim/simulator.go
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/demand-sim/sim/cluster"
	"github.com/inference-sim/demand-sim/sim/trace"
)

// TickObserver receives the stored snapshot after each fired tick.
// It runs on the driver goroutine and must not retain the grid across calls.
type TickObserver func(tick int, snapshot *Grid, remaining int)

// Simulator owns the run state: the grid, the clock and the random streams.
// Ticks are applied one at a time, in wall-clock order, by a single driver.
type Simulator struct {
	Config        SimConfig
	Neighborhoods []Neighborhood
	Grid          *Grid
	Clock         *SimulationClock
	Time          TimeSource
	Trace         *trace.SimulationTrace
	Metrics       *RunMetrics
	OnTick        TickObserver

	// TickCount is the number of ticks applied since the last Start.
	TickCount int

	mu  sync.Mutex // serialises Step against Stop/Start from other goroutines
	rng *PartitionedRNG
}

// NewSimulator seeds a grid from the neighborhoods and returns an Idle simulator.
func NewSimulator(cfg SimConfig, neighborhoods []Neighborhood, ts TimeSource) (*Simulator, error) {
	if ts == nil {
		ts = WallClock{}
	}
	if !trace.IsValidTraceLevel(string(cfg.TraceLevel)) {
		return nil, fmt.Errorf("unknown trace level %q", cfg.TraceLevel)
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	grid, err := Seed(neighborhoods, cfg.Divisions, rng.ForSubsystem(SubsystemSeeding))
	if err != nil {
		return nil, fmt.Errorf("seeding grid: %w", err)
	}
	s := &Simulator{
		Config:        cfg,
		Neighborhoods: neighborhoods,
		Grid:          grid,
		Clock:         NewSimulationClock(cfg.Duration, cfg.TickInterval),
		Time:          ts,
		Trace:         trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel}),
		Metrics:       NewRunMetrics(cfg.Seed),
		rng:           rng,
	}
	logrus.Debugf("Seeded %dx%d grid from %d neighborhoods (seed=%d)", grid.Size(), grid.Size(), len(neighborhoods), cfg.Seed)
	return s, nil
}

// Start begins a run at the current time.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

// Stop ends the run. A tick that has not started will not start; a tick in
// progress completes and is stored first.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Toggle stops a running simulation or starts an idle one, as one step under
// the lock, and returns the new state.
func (s *Simulator) Toggle() ClockState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Clock.IsRunning() {
		s.stopLocked()
	} else {
		s.startLocked()
	}
	return s.Clock.State()
}

func (s *Simulator) startLocked() {
	now := s.Time.Now()
	s.Clock.Start(now)
	s.TickCount = 0
	s.Metrics.markStarted(now)
	logrus.Infof("Simulation started: %s at %d ticks/s", s.Config.Duration, TicksPerSecond)
}

func (s *Simulator) stopLocked() {
	if s.Clock.IsRunning() {
		s.Clock.Stop()
		logrus.Infof("Simulation stopped after %d ticks", s.TickCount)
	}
}

// IsRunning reports whether the clock is Running.
func (s *Simulator) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Clock.IsRunning()
}

// Remaining returns the countdown in whole seconds.
func (s *Simulator) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Clock.Remaining()
}

// Step is one scheduling opportunity: it polls the clock and, when a tick is
// due, computes and stores the next grid. It returns false once the run is Idle.
func (s *Simulator) Step() (bool, error) {
	tick, remaining, fired, err := s.advance()
	if err != nil {
		return false, err
	}
	if fired && s.OnTick != nil {
		s.OnTick(tick, s.Grid, remaining)
	}
	return s.IsRunning(), nil
}

// advance polls the clock and applies at most one tick, all under the lock so
// a concurrent Stop lands either before the tick starts or after it is stored.
func (s *Simulator) advance() (tick, remaining int, fired bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Time.Now()
	fire, remaining := s.Clock.Poll(now)
	if !fire {
		return 0, remaining, false, nil
	}

	fraction := s.Clock.ElapsedFraction(now)
	next, err := Tick(s.Grid, fraction, s.rng.ForSubsystem(SubsystemTick))
	if err != nil {
		return 0, remaining, false, fmt.Errorf("tick %d: %w", s.TickCount+1, err)
	}
	if err := s.Grid.Replace(next); err != nil {
		return 0, remaining, false, fmt.Errorf("tick %d: %w", s.TickCount+1, err)
	}
	s.TickCount++

	if s.Trace.Enabled() {
		stats := demandStatsOf(s.Grid)
		tod := TimeOfDay(fraction)
		s.Trace.RecordTick(trace.TickRecord{
			Tick:            s.TickCount,
			ElapsedFraction: fraction,
			TimeOfDay:       tod,
			MealTimeFactor:  MealTimeFactor(tod),
			MeanDemand:      stats.Mean,
			StdDemand:       stats.Std,
			MinDemand:       stats.Min,
			MaxDemand:       stats.Max,
		})
	}
	logrus.Debugf("[tick %04d] progress=%.3f remaining=%ds", s.TickCount, fraction, remaining)
	return s.TickCount, remaining, true, nil
}

// Run starts the clock and drives it until expiry, Stop, or ctx cancellation,
// yielding for one frame interval between scheduling opportunities.
// On cancellation the run is stopped and ctx.Err() is returned; the grid holds
// the last fully applied tick.
func (s *Simulator) Run(ctx context.Context) error {
	s.Start()
	defer s.finish()
	for {
		running, err := s.Step()
		if err != nil {
			s.Stop()
			return err
		}
		if !running {
			return nil
		}
		if err := s.Time.Sleep(ctx, s.Config.FrameInterval); err != nil {
			s.Stop()
			return err
		}
	}
}

func (s *Simulator) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Clock.SkippedTicks() > 0 {
		logrus.Warnf("Driver fell behind: %d tick intervals skipped", s.Clock.SkippedTicks())
	}
	s.Metrics.recordRun(s.Time.Now(), s.TickCount, s.Clock.SkippedTicks(), s.Grid)
	logrus.Infof("Simulation ended after %d ticks", s.TickCount)
}

// Classify partitions the current grid. Refused while the clock is Running.
func (s *Simulator) Classify() (Classification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Clock.IsRunning() {
		return Classification{}, ErrStillRunning
	}
	result, err := Classify(s.Grid)
	if err != nil {
		return result, err
	}
	s.Metrics.recordClassification(result)
	return result, nil
}

// Cluster runs k-means over the current high-demand cells. Refused while the
// clock is Running.
func (s *Simulator) Cluster(k int) ([]cluster.Result, error) {
	classification, err := s.Classify()
	if err != nil {
		return nil, err
	}
	return s.ClusterPoints(classification.HighPoints(), k)
}

// ClusterPoints runs k-means over an arbitrary point list using the run's
// kmeans RNG stream. Refused while the clock is Running.
func (s *Simulator) ClusterPoints(points []cluster.Point, k int) ([]cluster.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Clock.IsRunning() {
		return nil, ErrStillRunning
	}
	results, err := cluster.Cluster(points, k, s.rng.ForSubsystem(SubsystemKMeans))
	if err != nil {
		return nil, err
	}
	s.Metrics.Clusters = results
	return results, nil
}
