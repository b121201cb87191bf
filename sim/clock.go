package sim

import (
	"context"
	"math"
	"time"
)

// === TimeSource ===

// TimeSource abstracts wall-clock reads and waits so runs can be driven by a
// virtual clock in tests and in --virtual-time mode.
type TimeSource interface {
	Now() time.Time
	// Sleep waits for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// WallClock is the real-time TimeSource.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }

func (WallClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ManualClock is a virtual TimeSource whose Sleep advances time instantly.
// Thread-safety: NOT thread-safe.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a ManualClock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (m *ManualClock) Now() time.Time { return m.now }

// Advance moves the clock forward by d.
func (m *ManualClock) Advance(d time.Duration) { m.now = m.now.Add(d) }

func (m *ManualClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Advance(d)
	return nil
}

// === ClockState ===

// ClockState is the run state of a SimulationClock.
type ClockState int

const (
	Idle ClockState = iota
	Running
)

func (s ClockState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// === SimulationClock ===

// SimulationClock tracks a bounded run against wall-clock time and decides when
// ticks fire. Ticks are paced by real elapsed time, not a step counter: a driver
// that polls late skips ticks instead of catching up.
type SimulationClock struct {
	duration     time.Duration
	tickInterval time.Duration

	state     ClockState
	endTime   time.Time
	lastTick  time.Time
	ticked    bool // a tick has fired since Start
	remaining int  // seconds left as of the last poll
	skipped   int  // tick intervals that passed without a fired tick
}

// NewSimulationClock creates an Idle clock.
func NewSimulationClock(duration, tickInterval time.Duration) *SimulationClock {
	return &SimulationClock{
		duration:     duration,
		tickInterval: tickInterval,
		remaining:    ceilSeconds(duration),
	}
}

// Start moves Idle -> Running and resets the countdown. Starting a running clock restarts it.
func (c *SimulationClock) Start(now time.Time) {
	c.state = Running
	c.endTime = now.Add(c.duration)
	c.lastTick = time.Time{}
	c.ticked = false
	c.remaining = ceilSeconds(c.duration)
	c.skipped = 0
}

// Stop moves to Idle. The next Poll will not fire a tick.
func (c *SimulationClock) Stop() {
	c.state = Idle
	c.endTime = time.Time{}
	c.lastTick = time.Time{}
	c.ticked = false
}

// Toggle stops a running clock or starts an idle one, and returns the new state.
func (c *SimulationClock) Toggle(now time.Time) ClockState {
	if c.state == Running {
		c.Stop()
	} else {
		c.Start(now)
	}
	return c.state
}

// State returns the current run state.
func (c *SimulationClock) State() ClockState { return c.state }

// IsRunning reports whether the clock is Running.
func (c *SimulationClock) IsRunning() bool { return c.state == Running }

// Remaining returns the seconds left as of the last Start or Poll.
func (c *SimulationClock) Remaining() int { return c.remaining }

// SkippedTicks returns how many tick intervals passed without a tick since Start.
func (c *SimulationClock) SkippedTicks() int { return c.skipped }

// ElapsedFraction returns run progress in [0,1] at now. An idle clock reports 0.
func (c *SimulationClock) ElapsedFraction(now time.Time) float64 {
	if c.state != Running || c.duration <= 0 {
		return 0
	}
	left := c.endTime.Sub(now)
	f := 1 - float64(left)/float64(c.duration)
	return math.Max(0, math.Min(1, f))
}

// Poll is called at every scheduling opportunity. It recomputes the remaining
// seconds, forces Idle once they reach 0, and reports whether a tick is due:
// the first poll after Start always fires, later ones fire once at least one
// tick interval has passed since the last fired tick.
func (c *SimulationClock) Poll(now time.Time) (fire bool, remaining int) {
	if c.state != Running {
		return false, c.remaining
	}

	c.remaining = max(0, ceilSeconds(c.endTime.Sub(now)))
	if c.remaining <= 0 {
		c.Stop()
		return false, 0
	}

	if !c.ticked {
		c.ticked = true
		c.lastTick = now
		return true, c.remaining
	}

	since := now.Sub(c.lastTick)
	if since < c.tickInterval {
		return false, c.remaining
	}
	if missed := int(since/c.tickInterval) - 1; missed > 0 {
		c.skipped += missed
	}
	c.lastTick = now
	return true, c.remaining
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
