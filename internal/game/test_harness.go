package game

import (
	"fmt"
	"math"
	"sort"
)

// TestMatch is a headless match harness used by tests and the headless
// report. It has no frontend dependency, always runs seeded, and samples a
// MatchReporter every tick.
type TestMatch struct {
	*Match
	Reporter *MatchReporter
}

// NewTestMatch builds a seeded match. Seed 1 is used unless opts carry
// their own WithSeed.
func NewTestMatch(opts ...Option) (*TestMatch, error) {
	all := append([]Option{WithSeed(1)}, opts...)
	m, err := NewMatch(all...)
	if err != nil {
		return nil, err
	}
	return &TestMatch{Match: m, Reporter: NewMatchReporter(0)}, nil
}

// Log returns the structured log of the current world.
func (tm *TestMatch) Log() *SimLog { return tm.World().Log }

// RunTicks steps up to n ticks and returns how many ran before game over.
func (tm *TestMatch) RunTicks(n int) int {
	ran := 0
	for i := 0; i < n && !tm.World().GameOver(); i++ {
		tm.Step()
		tm.Reporter.Collect(tm.World())
		ran++
	}
	return ran
}

// RunUntil steps up to maxTicks, stopping once predicate holds. Returns the
// tick at which it held, or -1.
func (tm *TestMatch) RunUntil(predicate func(*World) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		tm.Step()
		tm.Reporter.Collect(tm.World())
		if predicate(tm.World()) {
			return tm.World().Turn()
		}
	}
	return -1
}

// --- Scripted plans ---

// Volley is one scripted shot: aim for AimTicks of turning (negative turns
// left), fire at Tick, cut the engine after Burn ticks.
type Volley struct {
	Launcher int
	Tick     int
	AimTicks int
	Burn     int
	Cycle    bool // cycle weapon before firing
}

// VolleyPlan converts volleys into an ordered command plan.
func VolleyPlan(volleys ...Volley) *Plan {
	vs := append([]Volley(nil), volleys...)
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Tick < vs[j].Tick })

	var p Plan
	for _, v := range vs {
		fireAt := v.Tick
		if v.AimTicks != 0 {
			dir := TurnRight
			n := v.AimTicks
			if n < 0 {
				dir, n = TurnLeft, -n
			}
			start := v.Tick - n
			if start < 0 {
				start = 0
				fireAt = n
			}
			p.Add(PlanCommand{Tick: start, Launcher: v.Launcher, Kind: CmdBeginTurn, Dir: dir})
			p.Add(PlanCommand{Tick: start + n, Launcher: v.Launcher, Kind: CmdEndTurn, Dir: dir})
		}
		if v.Cycle {
			p.Add(PlanCommand{Tick: fireAt, Launcher: v.Launcher, Kind: CmdCycleWeapon})
		}
		p.Add(PlanCommand{Tick: fireAt, Launcher: v.Launcher, Kind: CmdFire})
		p.Add(PlanCommand{Tick: fireAt + v.Burn, Launcher: v.Launcher, Kind: CmdReleaseFire})
	}
	return &p
}

// AimTicksFor returns the signed number of turn ticks that moves from one
// angle to another.
func AimTicksFor(from, to float64) int {
	return int(math.Round((to - from) / TurnRate))
}

// Scenario is a named scripted match.
type Scenario struct {
	Name        string
	Description string
	Options     []Option
	Plan        func(ticks int) *Plan
}

// Scenarios lists the scripted matches the headless report can run.
var Scenarios = map[string]Scenario{
	"volley": {
		Name:        "volley",
		Description: "both launchers trade shots every 150 ticks with varying burns",
		Plan:        func(ticks int) *Plan { return exchangePlan(ticks, 150, false) },
	},
	"cluster": {
		Name:        "cluster",
		Description: "cluster warheads unlocked early; launchers cycle to them before firing",
		Options: []Option{
			WithEscalation(EscalationFunc(func(turn int) *WeaponType {
				level := turn / EscalationPeriod
				return &WeaponType{
					Name:           fmt.Sprintf("Mk%d cluster", level+1),
					ExplosionScale: 1 + float64(turn)/EscalationPeriod,
					Speed:          1,
					Warheads:       3 + level,
				}
			})),
		},
		Plan: func(ticks int) *Plan { return exchangePlan(ticks, 180, true) },
	},
}

// ScenarioNames returns the scenario names in sorted order.
func ScenarioNames() []string {
	names := make([]string, 0, len(Scenarios))
	for n := range Scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// exchangePlan scripts alternating fire from launchers 0 and 1. Burns and
// aim nudges cycle through fixed tables so runs differ only by terrain.
func exchangePlan(ticks, period int, cycle bool) *Plan {
	burns := []int{18, 26, 34, 22, 30}
	nudges := []int{2, -1, 3, -2, 1}
	var vs []Volley
	shot := 0
	for t := 10; t < ticks; t += period {
		for l := 0; l < 2; l++ {
			nudge := nudges[shot%len(nudges)]
			if l == 1 {
				nudge = -nudge
			}
			vs = append(vs, Volley{
				Launcher: l,
				Tick:     t + l*period/2,
				AimTicks: nudge,
				Burn:     burns[shot%len(burns)],
				Cycle:    cycle && t >= EscalationPeriod,
			})
		}
		shot++
	}
	return VolleyPlan(vs...)
}

// RunScenario runs a named scenario for up to ticks on seed.
func RunScenario(name string, seed int64, ticks int) (*TestMatch, error) {
	sc, ok := Scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario %q: %w", name, ErrInvalidConfig)
	}
	opts := append(append([]Option{}, sc.Options...), WithSeed(seed))
	tm, err := NewTestMatch(opts...)
	if err != nil {
		return nil, err
	}
	if err := tm.Replay(sc.Plan(ticks)); err != nil {
		return nil, err
	}
	tm.RunTicks(ticks)
	return tm, nil
}
