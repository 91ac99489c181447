package game

import (
	"errors"
	"fmt"
)

// ErrInvalidTickRate is returned for non-positive tick rates.
var ErrInvalidTickRate = errors.New("tick rate must be positive")

// TicksPerSecond is the 1x simulation rate frontends pace their loops to.
const TicksPerSecond = 30

// SpeedSteps are the tick-rate multipliers offered by the frontends.
var SpeedSteps = []float64{0.5, 1, 2, 5, 100, 1000, 10000}

// Match drives a World: lifecycle, pacing and the command plan. Frontends
// call Advance once per frame and forward input through the command methods.
type Match struct {
	cfg   Config
	world *World

	plan   *Plan // commands applied to the current world, in order
	replay planCursor

	paused    bool
	rate      float64 // ticks per Advance
	tickAccum float64 // fractional tick accumulator for sub-1x rates
}

// NewMatch builds a config from opts and starts a match on a fresh world.
func NewMatch(opts ...Option) (*Match, error) {
	return NewMatchFromConfig(NewConfig(opts...))
}

// NewMatchFromConfig starts a match on an explicit config.
func NewMatchFromConfig(cfg Config) (*Match, error) {
	w, err := NewWorld(cfg)
	if err != nil {
		return nil, fmt.Errorf("init match: %w", err)
	}
	return &Match{cfg: cfg, world: w, plan: &Plan{}, rate: 1}, nil
}

// World returns the current world. It changes on Reset and Restart.
func (m *Match) World() *World { return m.world }

// Plan returns the commands applied to the current world so far.
func (m *Match) Plan() *Plan { return m.plan }

// Reset starts a new match from the original config. Unseeded configs get
// new terrain; the recorded plan is discarded.
func (m *Match) Reset() error {
	w, err := NewWorld(m.cfg)
	if err != nil {
		return fmt.Errorf("reset match: %w", err)
	}
	m.world = w
	m.plan = &Plan{}
	m.replay = planCursor{}
	m.tickAccum = 0
	return nil
}

// Restart rebuilds the current world from its seed and replays every
// command recorded so far at the tick it was first applied.
func (m *Match) Restart() error {
	return m.Replay(m.plan)
}

// Replay starts a new match on the current seed that follows plan.
func (m *Match) Replay(plan *Plan) error {
	cfg := m.world.Config()
	cfg.Seeded = true
	w, err := NewWorld(cfg)
	if err != nil {
		return fmt.Errorf("restart match: %w", err)
	}
	m.world = w
	m.replay = planCursor{plan: plan.Clone()}
	m.plan = &Plan{}
	m.tickAccum = 0
	m.applyDue()
	return nil
}

// Replaying reports whether scripted commands are still pending.
func (m *Match) Replaying() bool { return !m.replay.done() }

func (m *Match) Pause()       { m.paused = true }
func (m *Match) Resume()      { m.paused = false }
func (m *Match) Paused() bool { return m.paused }

// SetTickRate sets how many ticks Advance runs per call. Fractional rates
// accumulate across calls.
func (m *Match) SetTickRate(mult float64) error {
	if !(mult > 0) {
		return fmt.Errorf("tick rate %v: %w", mult, ErrInvalidTickRate)
	}
	m.rate = mult
	return nil
}

func (m *Match) TickRate() float64 { return m.rate }

// Faster moves to the next entry of SpeedSteps above the current rate.
func (m *Match) Faster() {
	for _, s := range SpeedSteps {
		if s > m.rate {
			m.rate = s
			return
		}
	}
}

// Slower moves to the previous entry of SpeedSteps below the current rate.
func (m *Match) Slower() {
	for i := len(SpeedSteps) - 1; i >= 0; i-- {
		if SpeedSteps[i] < m.rate {
			m.rate = SpeedSteps[i]
			return
		}
	}
}

// Advance runs the ticks owed for one frame and returns how many ran. The
// batch stops early at game over; nothing runs while paused.
func (m *Match) Advance() int {
	return m.AdvanceUntil(nil)
}

// AdvanceUntil is Advance with an extra stop condition checked after every
// tick. Ticks left in the batch when stop holds carry over to the next call.
func (m *Match) AdvanceUntil(stop func(*World) bool) int {
	if m.paused || m.world.GameOver() {
		return 0
	}
	m.tickAccum += m.rate
	ran := 0
	for m.tickAccum >= 1.0 {
		m.tickAccum -= 1.0
		m.Step()
		ran++
		if m.world.GameOver() {
			m.tickAccum = 0
			break
		}
		if stop != nil && stop(m.world) {
			break
		}
	}
	return ran
}

// Step runs exactly one tick, applying any scripted commands due after it.
func (m *Match) Step() {
	m.world.Tick()
	m.applyDue()
}

func (m *Match) applyDue() {
	for _, cmd := range m.replay.due(m.world.Turn()) {
		cmd.Tick = m.world.Turn()
		m.apply(cmd)
	}
}

// Command applies cmd to the current world at the current tick and records
// it. Rejected commands are not recorded.
func (m *Match) Command(cmd PlanCommand) error {
	cmd.Tick = m.world.Turn()
	return m.apply(cmd)
}

func (m *Match) apply(cmd PlanCommand) error {
	if err := cmd.Apply(m.world); err != nil {
		return err
	}
	m.plan.Add(cmd)
	return nil
}

func (m *Match) BeginTurn(launcher int, dir TurnDirection) error {
	return m.Command(PlanCommand{Launcher: launcher, Kind: CmdBeginTurn, Dir: dir})
}

func (m *Match) EndTurn(launcher int, dir TurnDirection) error {
	return m.Command(PlanCommand{Launcher: launcher, Kind: CmdEndTurn, Dir: dir})
}

func (m *Match) Fire(launcher int) error {
	return m.Command(PlanCommand{Launcher: launcher, Kind: CmdFire})
}

func (m *Match) ReleaseFire(launcher int) error {
	return m.Command(PlanCommand{Launcher: launcher, Kind: CmdReleaseFire})
}

func (m *Match) DetonateAll(launcher int) error {
	return m.Command(PlanCommand{Launcher: launcher, Kind: CmdDetonateAll})
}

func (m *Match) CycleWeapon(launcher int) error {
	return m.Command(PlanCommand{Launcher: launcher, Kind: CmdCycleWeapon})
}

// Report summarises the current world.
func (m *Match) Report() MatchReport {
	return BuildMatchReport(m.world, m.plan)
}
