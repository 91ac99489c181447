package game

import (
	"fmt"
	"sort"
	"strings"
)

// CommandKind names one input command of the command contract.
type CommandKind uint8

const (
	CmdBeginTurn CommandKind = iota
	CmdEndTurn
	CmdFire
	CmdReleaseFire
	CmdDetonateAll
	CmdCycleWeapon
)

func (k CommandKind) String() string {
	switch k {
	case CmdBeginTurn:
		return "begin_turn"
	case CmdEndTurn:
		return "end_turn"
	case CmdFire:
		return "fire"
	case CmdReleaseFire:
		return "release"
	case CmdDetonateAll:
		return "detonate"
	case CmdCycleWeapon:
		return "cycle"
	default:
		return "unknown"
	}
}

// PlanCommand is one command applied between ticks. Tick is the number of
// ticks completed when it was applied; Launcher is the launcher's index in
// configuration order, which survives a restart.
type PlanCommand struct {
	Tick     int
	Launcher int
	Kind     CommandKind
	Dir      TurnDirection // turn commands only
}

func (c PlanCommand) String() string {
	if c.Kind == CmdBeginTurn || c.Kind == CmdEndTurn {
		return fmt.Sprintf("T=%d L#%d %s %s", c.Tick, c.Launcher, c.Kind, c.Dir)
	}
	return fmt.Sprintf("T=%d L#%d %s", c.Tick, c.Launcher, c.Kind)
}

// Apply runs the command against w.
func (c PlanCommand) Apply(w *World) error {
	if c.Launcher < 0 || c.Launcher >= len(w.launchers) {
		return fmt.Errorf("launcher #%d: %w", c.Launcher, ErrUnknownLauncher)
	}
	id := w.launchers[c.Launcher].id
	switch c.Kind {
	case CmdBeginTurn:
		return w.BeginTurn(id, c.Dir)
	case CmdEndTurn:
		return w.EndTurn(id, c.Dir)
	case CmdFire:
		_, err := w.Fire(id)
		return err
	case CmdReleaseFire:
		return w.ReleaseFire(id)
	case CmdDetonateAll:
		return w.DetonateAll(id)
	case CmdCycleWeapon:
		return w.CycleWeapon(id)
	default:
		return fmt.Errorf("command %d: %w", c.Kind, ErrInvalidConfig)
	}
}

// Plan is an ordered command script. Matches record into one as commands
// arrive; restarts and headless runs replay one.
type Plan struct {
	Commands []PlanCommand
}

// Add appends a command, keeping the plan ordered by tick. Commands at the
// same tick keep their insertion order.
func (p *Plan) Add(cmd PlanCommand) {
	p.Commands = append(p.Commands, cmd)
	if n := len(p.Commands); n > 1 && p.Commands[n-2].Tick > cmd.Tick {
		sort.SliceStable(p.Commands, func(i, j int) bool {
			return p.Commands[i].Tick < p.Commands[j].Tick
		})
	}
}

func (p *Plan) Len() int { return len(p.Commands) }

// Clone returns an independent copy.
func (p *Plan) Clone() *Plan {
	return &Plan{Commands: append([]PlanCommand(nil), p.Commands...)}
}

// LastTick returns the tick of the final command, or -1 for an empty plan.
func (p *Plan) LastTick() int {
	if len(p.Commands) == 0 {
		return -1
	}
	return p.Commands[len(p.Commands)-1].Tick
}

func (p *Plan) Format() string {
	var sb strings.Builder
	for _, c := range p.Commands {
		sb.WriteString(c.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// planCursor walks a plan in step with a world's turn counter.
type planCursor struct {
	plan *Plan
	pos  int
}

// due returns the commands scheduled at or before tick that have not been
// returned yet.
func (pc *planCursor) due(tick int) []PlanCommand {
	if pc.plan == nil {
		return nil
	}
	start := pc.pos
	for pc.pos < len(pc.plan.Commands) && pc.plan.Commands[pc.pos].Tick <= tick {
		pc.pos++
	}
	return pc.plan.Commands[start:pc.pos]
}

func (pc *planCursor) done() bool {
	return pc.plan == nil || pc.pos >= len(pc.plan.Commands)
}
