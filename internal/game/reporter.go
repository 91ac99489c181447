package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-activity
// reports (~15s at 60TPS).
const reportWindowTicks = 900

// --- Snapshot types ---

// LauncherReport captures one launcher's state at one point in time.
type LauncherReport struct {
	ID       EntityID
	Label    string
	Name     string
	HP       int
	MaxHP    int
	Angle    float64
	Weapon   string
	Unlocked int
	Airborne int
	Shots    int // launches logged so far
	Hits     int // blast hits delivered by its projectiles
}

// MatchReport is a full snapshot of a world at one tick.
type MatchReport struct {
	Tick      int
	Seed      int64
	Style     TerrainStyle
	Lakes     int
	Entities  int
	Launchers []LauncherReport

	Detonations int
	Duds        int
	Fizzles     int
	Splits      int
	Hits        int
	Unlocks     int

	Commands int
	GameOver bool
	Outcome  MatchOutcome
}

// BuildMatchReport snapshots w. plan may be nil.
func BuildMatchReport(w *World, plan *Plan) MatchReport {
	rpt := MatchReport{
		Tick:        w.Turn(),
		Seed:        w.Seed(),
		Style:       w.cfg.Style,
		Lakes:       len(w.terrain.Lakes),
		Entities:    len(w.entities),
		Detonations: w.Log.CountCategory("blast", "detonate"),
		Duds:        w.Log.CountCategory("blast", "dud"),
		Fizzles:     w.Log.CountCategory("blast", "fizzle"),
		Splits:      w.Log.CountCategory("fire", "split"),
		Hits:        w.Log.CountCategory("hit", ""),
		Unlocks:     w.Log.CountCategory("weapon", "unlock"),
		GameOver:    w.GameOver(),
		Outcome:     w.Outcome(),
	}
	if plan != nil {
		rpt.Commands = plan.Len()
	}

	for _, l := range w.launchers {
		shots := 0
		for _, e := range w.Log.FilterEntity(l.Label()) {
			if e.Category == "fire" && e.Key == "launch" {
				shots++
			}
		}
		rpt.Launchers = append(rpt.Launchers, LauncherReport{
			ID:       l.id,
			Label:    l.Label(),
			Name:     l.Name,
			HP:       l.HP,
			MaxHP:    l.MaxHP,
			Angle:    l.Angle,
			Weapon:   l.SelectedWeapon().Name,
			Unlocked: len(l.Weapons),
			Airborne: l.Airborne(w),
			Shots:    shots,
			Hits:     len(w.Log.FilterOwner(l.id, "hit", "")),
		})
	}
	return rpt
}

// Format renders the report as multi-line text.
func (r MatchReport) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Match Report (T=%d, seed=%d) ===\n", r.Tick, r.Seed)
	fmt.Fprintf(&sb, "Terrain: %s  lakes=%d  entities=%d\n", r.Style, r.Lakes, r.Entities)

	sb.WriteString("\n--- Launchers ---\n")
	for _, l := range r.Launchers {
		fmt.Fprintf(&sb, "  %-3s %-6s hp=%2d/%-2d angle=%+.2f weapon=%-12s unlocked=%d airborne=%d shots=%d hits=%d\n",
			l.Label, l.Name, l.HP, l.MaxHP, l.Angle, l.Weapon, l.Unlocked, l.Airborne, l.Shots, l.Hits)
	}

	sb.WriteString("\n--- Ordnance ---\n")
	fmt.Fprintf(&sb, "  detonations=%d  duds=%d  fizzles=%d  splits=%d  hits=%d  unlocks=%d\n",
		r.Detonations, r.Duds, r.Fizzles, r.Splits, r.Hits, r.Unlocks)
	fmt.Fprintf(&sb, "  commands=%d\n", r.Commands)

	sb.WriteString("\n--- Result ---\n")
	if r.GameOver {
		fmt.Fprintf(&sb, "  %s: %s\n", r.Outcome.Result, r.Outcome.Description)
	} else {
		sb.WriteString("  in progress\n")
	}
	return sb.String()
}

// --- Windowed activity ---

// activitySample is one tick's worth of counters.
type activitySample struct {
	tick     int
	airborne int
	hp       []int
}

// MatchReporter samples a world every tick and summarises a recent window.
type MatchReporter struct {
	windowTicks int
	history     []activitySample
}

// NewMatchReporter creates a reporter over the given window; a
// non-positive window uses the default.
func NewMatchReporter(windowTicks int) *MatchReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &MatchReporter{windowTicks: windowTicks}
}

// Collect records a sample of w, dropping samples older than the window.
func (r *MatchReporter) Collect(w *World) {
	s := activitySample{tick: w.Turn()}
	for _, e := range w.entities {
		if e.Kind() == KindProjectile {
			s.airborne++
		}
	}
	for _, l := range w.launchers {
		s.hp = append(s.hp, l.HP)
	}
	r.history = append(r.history, s)

	cutoff := s.tick - r.windowTicks
	drop := 0
	for drop < len(r.history) && r.history[drop].tick <= cutoff {
		drop++
	}
	if drop > 0 {
		r.history = append(r.history[:0], r.history[drop:]...)
	}
}

// WindowReport summarises the samples currently in the window.
type WindowReport struct {
	FromTick, ToTick int
	Samples          int
	AvgAirborne      float64
	PeakAirborne     int
	HPLost           []int // per launcher, first sample minus last
}

// WindowSummary returns nil before any sample was collected.
func (r *MatchReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	first, last := r.history[0], r.history[len(r.history)-1]
	wr := &WindowReport{FromTick: first.tick, ToTick: last.tick, Samples: len(r.history)}
	total := 0
	for _, s := range r.history {
		total += s.airborne
		if s.airborne > wr.PeakAirborne {
			wr.PeakAirborne = s.airborne
		}
	}
	wr.AvgAirborne = float64(total) / float64(len(r.history))
	for i := range last.hp {
		if i < len(first.hp) {
			wr.HPLost = append(wr.HPLost, first.hp[i]-last.hp[i])
		}
	}
	return wr
}

func (wr *WindowReport) Format() string {
	if wr == nil {
		return "(no samples)\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Activity (T=%d..%d, %d samples) ===\n", wr.FromTick, wr.ToTick, wr.Samples)
	fmt.Fprintf(&sb, "  airborne avg=%.2f peak=%d\n", wr.AvgAirborne, wr.PeakAirborne)
	for i, lost := range wr.HPLost {
		fmt.Fprintf(&sb, "  launcher #%d hp lost=%d\n", i, lost)
	}
	return sb.String()
}
