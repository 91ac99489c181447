package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/Missile-Duel/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	firstLaunchTick int
	firstHitTick    int
	firstDamageTick int
	gameOverTick    int

	launches        int
	detonations     int
	duds            int
	fizzles         int
	splits          int
	damage          int
	unlocks         int
	lakes           int
	waterTiles      int
	cycledToCluster bool

	result game.MatchResult
	winner string
	hp     map[string]int

	windowSummary *game.WindowReport
	report        game.MatchReport
	summary       string
	finale        string // log lines leading up to game over
}

// finaleTicks is how much of the log before game over printRun shows.
const finaleTicks = 30

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var full bool

	flag.IntVar(&runs, "runs", 5, "number of headless match runs")
	flag.IntVar(&ticks, "ticks", 3600, "maximum ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "terrain seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "volley", "scenario name ("+strings.Join(game.ScenarioNames(), ", ")+")")
	flag.BoolVar(&full, "full", false, "print the full match report for every run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if _, ok := game.Scenarios[scenario]; !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenario, strings.Join(game.ScenarioNames(), ", "))
		return
	}

	fmt.Printf("=== Headless Match Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n", scenario, runs, ticks, seedBase, seedStep)
	fmt.Printf("%s\n\n", game.Scenarios[scenario].Description)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runScenario(i+1, scenario, seed, ticks)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, stats)
		printRun(stats, full)
	}

	printAggregate(all)
}

func runScenario(runIndex int, scenario string, seed int64, ticks int) (runStats, error) {
	tm, err := game.RunScenario(scenario, seed, ticks)
	if err != nil {
		return runStats{}, err
	}
	return collectStats(runIndex, seed, tm), nil
}

func collectStats(runIndex int, seed int64, tm *game.TestMatch) runStats {
	w := tm.World()
	log := w.Log
	entries := log.Entries()

	rs := runStats{
		runIndex:        runIndex,
		seed:            seed,
		ticks:           w.Turn(),
		firstLaunchTick: firstTick(entries, "fire", "launch", ""),
		firstHitTick:    firstTick(entries, "hit", "", ""),
		firstDamageTick: firstTick(entries, "hit", "damage", ""),
		gameOverTick:    -1,
		launches:        log.CountCategory("fire", "launch"),
		detonations:     log.CountCategory("blast", "detonate"),
		duds:            log.CountCategory("blast", "dud"),
		fizzles:         log.CountCategory("blast", "fizzle"),
		splits:          log.CountCategory("fire", "split"),
		damage:          log.CountCategory("hit", "damage"),
		unlocks:         log.CountCategory("weapon", "unlock"),
		lakes:           len(w.Terrain().Lakes),
		waterTiles:      w.Terrain().CountKind(game.TileWater),
		cycledToCluster: log.HasEntry("weapon", "select", "cluster"),
		result:          w.Outcome().Result,
		winner:          w.Outcome().Winner,
		hp:              map[string]int{},
		windowSummary:   tm.Reporter.WindowSummary(),
		report:          tm.Report(),
		summary:         log.Summary(w),
	}
	if e, ok := log.LastOf("state", "game_over"); ok {
		rs.gameOverTick = e.Tick
		rs.finale = log.FormatRange(e.Tick-finaleTicks, e.Tick)
	}
	for _, l := range w.Launchers() {
		rs.hp[l.Name] = l.HP
	}
	return rs
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || (key != "" && e.Key != key) {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats, full bool) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_launch=%d first_hit=%d first_damage=%d game_over=%d ticks=%d\n",
		rs.firstLaunchTick, rs.firstHitTick, rs.firstDamageTick, rs.gameOverTick, rs.ticks)
	fmt.Printf("ordnance: launches=%d detonations=%d duds=%d fizzles=%d splits=%d unlocks=%d\n",
		rs.launches, rs.detonations, rs.duds, rs.fizzles, rs.splits, rs.unlocks)
	fmt.Printf("terrain: lakes=%d water_tiles=%d cycled_to_cluster=%t\n", rs.lakes, rs.waterTiles, rs.cycledToCluster)
	fmt.Printf("hp: %s\n", joinHP(rs.hp))
	fmt.Printf("result: %s", rs.result)
	if rs.winner != "" {
		fmt.Printf(" winner=%s", rs.winner)
	}
	fmt.Println()
	if rs.windowSummary != nil {
		fmt.Printf("window_samples=%d window_tick_range=%d..%d airborne_avg=%.2f airborne_peak=%d\n",
			rs.windowSummary.Samples, rs.windowSummary.FromTick, rs.windowSummary.ToTick,
			rs.windowSummary.AvgAirborne, rs.windowSummary.PeakAirborne)
	}
	if full {
		fmt.Print(rs.report.Format())
		fmt.Print(rs.summary)
		if rs.finale != "" {
			fmt.Printf("--- last %d ticks ---\n%s", finaleTicks, rs.finale)
		}
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	wins := map[string]int{}
	draws := 0
	open := 0
	totalLaunches := 0
	totalDetonations := 0
	totalDuds := 0
	totalFizzles := 0
	totalDamage := 0
	overTicks := make([]int, 0, len(all))
	damageTicks := make([]int, 0, len(all))

	for _, rs := range all {
		switch rs.result {
		case game.ResultVictory:
			wins[rs.winner]++
		case game.ResultDraw:
			draws++
		case game.ResultInProgress:
			open++
		}
		totalLaunches += rs.launches
		totalDetonations += rs.detonations
		totalDuds += rs.duds
		totalFizzles += rs.fizzles
		totalDamage += rs.damage
		if rs.gameOverTick >= 0 {
			overTicks = append(overTicks, rs.gameOverTick)
		}
		if rs.firstDamageTick >= 0 {
			damageTicks = append(damageTicks, rs.firstDamageTick)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d decided=%d draws=%d unfinished=%d\n", len(all), len(all)-draws-open, draws, open)
	fmt.Printf("avg_per_run: launches=%.1f detonations=%.1f duds=%.1f fizzles=%.1f damage=%.1f\n",
		avg(totalLaunches, len(all)), avg(totalDetonations, len(all)), avg(totalDuds, len(all)),
		avg(totalFizzles, len(all)), avg(totalDamage, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_damage=%s game_over=%s\n",
		avgTickString(damageTicks), avgTickString(overTicks))

	names := make([]string, 0, len(wins))
	for n := range wins {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-6s wins=%d (%.0f%%)\n", n, wins[n], float64(wins[n])/float64(len(all))*100)
	}
}

func joinHP(hp map[string]int) string {
	names := make([]string, 0, len(hp))
	for n := range hp {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", n, hp[n]))
	}
	return strings.Join(parts, " ")
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
