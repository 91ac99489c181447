package game

import (
	"errors"
	"reflect"
	"testing"
)

func newFlatMatch(t *testing.T, opts ...Option) *Match {
	t.Helper()
	all := append([]Option{WithSeed(3), WithFlatTerrain(38), WithLakes(false)}, opts...)
	m, err := NewMatch(all...)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m
}

func stepN(m *Match, n int) {
	for i := 0; i < n; i++ {
		m.Step()
	}
}

func TestMatch_RestartReplaysRecordedCommands(t *testing.T) {
	m, err := NewMatch(WithSeed(5))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.BeginTurn(0, TurnRight); err != nil {
		t.Fatal(err)
	}
	stepN(m, 3)
	if err := m.EndTurn(0, TurnRight); err != nil {
		t.Fatal(err)
	}
	if err := m.Fire(0); err != nil {
		t.Fatal(err)
	}
	stepN(m, 25)
	if err := m.ReleaseFire(0); err != nil {
		t.Fatal(err)
	}
	if err := m.Fire(1); err != nil {
		t.Fatal(err)
	}
	stepN(m, 150)

	want := m.World().Snapshot()
	wantLog := m.World().Log.Format()
	wantTerrain := append([]TileKind(nil), m.World().Terrain().Tiles...)
	wantPlan := m.Plan().Format()

	if err := m.Restart(); err != nil {
		t.Fatal(err)
	}
	if m.World().Turn() != 0 {
		t.Fatal("restart should begin at turn 0")
	}
	stepN(m, 3+25+150)

	if !reflect.DeepEqual(m.World().Terrain().Tiles, wantTerrain) {
		t.Fatal("restart should rebuild identical terrain")
	}
	if got := m.World().Snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("restart diverged:\nwant %+v\ngot  %+v", want, got)
	}
	if got := m.World().Log.Format(); got != wantLog {
		t.Fatalf("restart log diverged:\n--- want\n%s--- got\n%s", wantLog, got)
	}
	if got := m.Plan().Format(); got != wantPlan {
		t.Fatalf("replayed plan differs:\n%s\nvs\n%s", got, wantPlan)
	}
	if m.Replaying() {
		t.Fatal("all scripted commands should have been applied")
	}
}

func TestMatch_ResetDropsPlan(t *testing.T) {
	m := newFlatMatch(t)
	m.Fire(0)
	stepN(m, 10)
	if err := m.Reset(); err != nil {
		t.Fatal(err)
	}
	if m.Plan().Len() != 0 || m.World().Turn() != 0 || len(m.World().Entities()) != 2 {
		t.Fatal("reset should start an empty match")
	}
}

func TestMatch_RejectedCommandsNotRecorded(t *testing.T) {
	m := newFlatMatch(t)
	if err := m.Fire(7); !errors.Is(err, ErrUnknownLauncher) {
		t.Fatalf("expected ErrUnknownLauncher, got %v", err)
	}
	if m.Plan().Len() != 0 {
		t.Fatal("rejected command should not be recorded")
	}
	if err := m.Fire(1); err != nil {
		t.Fatal(err)
	}
	stepN(m, 4)
	if err := m.DetonateAll(1); err != nil {
		t.Fatal(err)
	}
	if m.Plan().Len() != 2 || m.Plan().Commands[1].Tick != 4 {
		t.Fatalf("unexpected plan:\n%s", m.Plan().Format())
	}
}

func TestMatch_AdvanceAccumulatesFractionalRate(t *testing.T) {
	m := newFlatMatch(t)
	if err := m.SetTickRate(0.5); err != nil {
		t.Fatal(err)
	}
	got := []int{m.Advance(), m.Advance(), m.Advance(), m.Advance()}
	if !reflect.DeepEqual(got, []int{0, 1, 0, 1}) {
		t.Fatalf("half rate ran %v", got)
	}
	if err := m.SetTickRate(5); err != nil {
		t.Fatal(err)
	}
	if n := m.Advance(); n != 5 {
		t.Fatalf("rate 5 ran %d ticks", n)
	}
	if m.World().Turn() != 7 {
		t.Fatalf("expected turn 7, got %d", m.World().Turn())
	}
}

func TestMatch_AdvanceUntilSplitsFastBatches(t *testing.T) {
	m := newFlatMatch(t)
	l := m.World().Launchers()[0]
	start := l.Angle
	if err := m.SetTickRate(10000); err != nil {
		t.Fatal(err)
	}
	if err := m.BeginTurn(0, TurnRight); err != nil {
		t.Fatal(err)
	}
	n := m.AdvanceUntil(func(w *World) bool { return w.Turn() >= 4 })
	if n != 4 || m.World().Turn() != 4 {
		t.Fatalf("expected the batch to stop at turn 4, ran %d to turn %d", n, m.World().Turn())
	}
	if err := m.EndTurn(0, TurnRight); err != nil {
		t.Fatal(err)
	}
	if d := l.Angle - start; d < 4*TurnRate-1e-9 || d > 4*TurnRate+1e-9 {
		t.Fatalf("a four-tick turn moved the aim by %.4f", d)
	}
	if n := m.Advance(); n != 2*10000-4 {
		t.Fatalf("remaining ticks should carry over, ran %d", n)
	}
	if d := l.Angle - start; d > 4*TurnRate+1e-9 {
		t.Fatalf("aim kept moving after the turn ended: %.4f", d)
	}
}

func TestMatch_PauseStopsAdvance(t *testing.T) {
	m := newFlatMatch(t)
	m.Pause()
	if n := m.Advance(); n != 0 || m.World().Turn() != 0 {
		t.Fatal("paused match should not tick")
	}
	m.Resume()
	if n := m.Advance(); n != 1 {
		t.Fatalf("resumed match ran %d ticks", n)
	}
}

func TestMatch_SetTickRateRejectsNonPositive(t *testing.T) {
	m := newFlatMatch(t)
	for _, r := range []float64{0, -1} {
		if err := m.SetTickRate(r); !errors.Is(err, ErrInvalidTickRate) {
			t.Fatalf("rate %v: expected ErrInvalidTickRate, got %v", r, err)
		}
	}
	if m.TickRate() != 1 {
		t.Fatal("rejected rate must not change the current rate")
	}
}

func TestMatch_FasterSlowerWalkSpeedSteps(t *testing.T) {
	m := newFlatMatch(t)
	m.Faster()
	if m.TickRate() != 2 {
		t.Fatalf("faster from 1: %.1f", m.TickRate())
	}
	m.Slower()
	m.Slower()
	m.Slower()
	if m.TickRate() != SpeedSteps[0] {
		t.Fatalf("slower should stop at the first step, got %.1f", m.TickRate())
	}
	for range SpeedSteps {
		m.Faster()
	}
	if m.TickRate() != SpeedSteps[len(SpeedSteps)-1] {
		t.Fatalf("faster should stop at the last step, got %.1f", m.TickRate())
	}
}

func TestMatch_AdvanceStopsAtGameOver(t *testing.T) {
	m := newFlatMatch(t)
	m.World().launchers[0].HP = 0
	if err := m.SetTickRate(100); err != nil {
		t.Fatal(err)
	}
	if n := m.Advance(); n != 1 {
		t.Fatalf("expected the batch to stop after 1 tick, ran %d", n)
	}
	if !m.World().GameOver() {
		t.Fatal("expected game over")
	}
	if n := m.Advance(); n != 0 {
		t.Fatalf("advance after game over ran %d ticks", n)
	}
	if out := m.World().Outcome(); out.Winner != "Right" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}
