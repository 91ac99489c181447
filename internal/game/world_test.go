package game

import (
	"errors"
	"testing"
)

// flatWorld builds a seeded world on level ground at row 38 (y=380) with no
// lakes. Default pads put the launchers at x=55 and x=755.
func flatWorld(t *testing.T, opts ...Option) *World {
	t.Helper()
	all := append([]Option{WithSeed(1), WithFlatTerrain(38), WithLakes(false)}, opts...)
	w, err := NewWorld(NewConfig(all...))
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

// place spawns an engine-off projectile with no owner.
func place(w *World, x, y, dx, dy float64) *Projectile {
	p := newProjectile(x, y, dx, dy, 0, NoEntity, nil)
	w.spawn(p)
	return p
}

func ticks(w *World, n int) {
	for i := 0; i < n; i++ {
		w.Tick()
	}
}

func TestNewWorld_EmplacesLaunchersOnPads(t *testing.T) {
	w := flatWorld(t)
	ls := w.Launchers()
	if len(ls) != 2 {
		t.Fatalf("expected 2 launchers, got %d", len(ls))
	}
	if ls[0].X != 55 || ls[0].Y != 380 {
		t.Fatalf("left launcher at (%.1f,%.1f), want (55,380)", ls[0].X, ls[0].Y)
	}
	if ls[1].X != 755 || ls[1].Y != 380 {
		t.Fatalf("right launcher at (%.1f,%.1f), want (755,380)", ls[1].X, ls[1].Y)
	}
	if ls[0].Angle != 0.3 || ls[1].Angle != -0.3 {
		t.Fatalf("unexpected default angles %.2f / %.2f", ls[0].Angle, ls[1].Angle)
	}
	if w.Turn() != 0 || w.GameOver() {
		t.Fatal("new world should be at turn 0 and in progress")
	}
	if !w.Log.HasEntry("state", "init", "seed=1") {
		t.Fatalf("missing init entry:\n%s", w.Log.Format())
	}
}

func TestNewWorld_ObstacleStandsOnSurface(t *testing.T) {
	w := flatWorld(t, WithObstacle("tower", 40, 6))
	var found *Obstacle
	for _, e := range w.Entities() {
		if o, ok := e.(*Obstacle); ok {
			found = o
		}
	}
	if found == nil {
		t.Fatal("obstacle not spawned")
	}
	if found.X != 405 || found.Y != 380 {
		t.Fatalf("obstacle at (%.1f,%.1f), want (405,380)", found.X, found.Y)
	}
}

func TestNewWorld_InvalidConfigReturnsNoWorld(t *testing.T) {
	w, err := NewWorld(NewConfig(WithLaunchers()))
	if w != nil {
		t.Fatal("expected no world on error")
	}
	if !errors.Is(err, ErrNoLaunchers) {
		t.Fatalf("expected ErrNoLaunchers, got %v", err)
	}
}

func TestWorld_PurgeKeepsOrder(t *testing.T) {
	w := flatWorld(t)
	a := place(w, 795, 100, 10, 0) // leaves the field
	b := place(w, 400, 100, 1, 0)
	c := place(w, 5, 100, -10, 0) // leaves the field
	ticks(w, 1)

	if _, ok := w.Entity(a.ID()); ok {
		t.Fatal("a should be purged")
	}
	if _, ok := w.Entity(c.ID()); ok {
		t.Fatal("c should be purged")
	}
	ents := w.Entities()
	if len(ents) != 3 {
		t.Fatalf("expected 2 launchers and b, got %d entities", len(ents))
	}
	ids := w.LauncherIDs()
	if ents[0].ID() != ids[0] || ents[1].ID() != ids[1] || ents[2].ID() != b.ID() {
		t.Fatalf("order not preserved: %v %v %v", ents[0].ID(), ents[1].ID(), ents[2].ID())
	}
}

func TestWorld_EscalatesEveryPeriod(t *testing.T) {
	w := flatWorld(t)
	ticks(w, EscalationPeriod-1)
	for _, l := range w.Launchers() {
		if len(l.Weapons) != 1 {
			t.Fatalf("%s unlocked early: %d weapons", l.Name, len(l.Weapons))
		}
	}
	ticks(w, 1)
	ticks(w, EscalationPeriod)

	if n := w.Log.CountCategory("weapon", "unlock"); n != 2 {
		t.Fatalf("expected 2 unlocks after %d ticks, got %d", w.Turn(), n)
	}
	for _, l := range w.Launchers() {
		if len(l.Weapons) != 3 {
			t.Fatalf("%s has %d weapons, want 3", l.Name, len(l.Weapons))
		}
		prev := 0.0
		for i, wt := range l.Weapons {
			if wt.ExplosionScale <= prev {
				t.Fatalf("%s weapon %d scale %.2f not above %.2f", l.Name, i, wt.ExplosionScale, prev)
			}
			prev = wt.ExplosionScale
		}
		if l.Selected != 0 {
			t.Fatal("unlocking must not change the selection")
		}
	}
	ls := w.Launchers()
	if ls[0].Weapons[1] != ls[1].Weapons[1] {
		t.Fatal("every launcher should receive the same unlocked weapon")
	}
}

func TestWorld_GameOverIsOneWay(t *testing.T) {
	w := flatWorld(t, WithMaxHP(3))
	place(w, 55, 375, 0, 10)
	ticks(w, 10)

	if !w.GameOver() {
		t.Fatalf("expected game over:\n%s", w.Log.Format())
	}
	over := w.Turn()
	if over != 4 {
		t.Fatalf("expected game over at tick 4, got %d", over)
	}
	out := w.Outcome()
	if out.Result != ResultVictory || out.Winner != "Right" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if w.Log.CountCategory("state", "game_over") != 1 {
		t.Fatal("game over should be logged once")
	}

	ids := w.LauncherIDs()
	if _, err := w.Fire(ids[1]); !errors.Is(err, ErrGameOver) {
		t.Fatalf("Fire after game over: %v", err)
	}
	if err := w.BeginTurn(ids[1], TurnLeft); !errors.Is(err, ErrGameOver) {
		t.Fatalf("BeginTurn after game over: %v", err)
	}
	if err := w.CycleWeapon(9999); !errors.Is(err, ErrGameOver) {
		t.Fatalf("game over should be reported before unknown ids, got %v", err)
	}
	if w.Turn() != over || !w.GameOver() {
		t.Fatal("ticks after game over must not advance")
	}
}

func TestWorld_UnknownLauncher(t *testing.T) {
	w := flatWorld(t)
	if _, err := w.Fire(9999); !errors.Is(err, ErrUnknownLauncher) {
		t.Fatalf("expected ErrUnknownLauncher, got %v", err)
	}
	// A projectile id is not a launcher id.
	p := place(w, 400, 100, 0, 0)
	if err := w.DetonateAll(p.ID()); !errors.Is(err, ErrUnknownLauncher) {
		t.Fatalf("expected ErrUnknownLauncher for a projectile id, got %v", err)
	}
	if err := (PlanCommand{Launcher: 2, Kind: CmdFire}).Apply(w); !errors.Is(err, ErrUnknownLauncher) {
		t.Fatalf("expected ErrUnknownLauncher for index 2, got %v", err)
	}
}

func TestWorld_FireIsNoOpWhileEngineBurns(t *testing.T) {
	w := flatWorld(t)
	left := w.LauncherIDs()[0]

	first, err := w.Fire(left)
	if err != nil || first == NoEntity {
		t.Fatalf("first fire: id=%d err=%v", first, err)
	}
	ticks(w, 3)
	again, err := w.Fire(left)
	if err != nil || again != NoEntity {
		t.Fatalf("fire under power should be a no-op, got id=%d err=%v", again, err)
	}
	if err := w.ReleaseFire(left); err != nil {
		t.Fatal(err)
	}
	second, err := w.Fire(left)
	if err != nil || second == NoEntity || second == first {
		t.Fatalf("fire after release: id=%d err=%v", second, err)
	}
	if n := w.Log.CountCategory("fire", "launch"); n != 2 {
		t.Fatalf("expected 2 launches, got %d", n)
	}
}

func TestWorld_CycleWeaponWaitsForAirborne(t *testing.T) {
	w := flatWorld(t)
	l := w.Launchers()[0]
	l.AddWeapon(&WeaponType{Name: "Mk2", ExplosionScale: 2, Speed: 1, Warheads: 1})

	if _, err := w.Fire(l.ID()); err != nil {
		t.Fatal(err)
	}
	ticks(w, 1)
	if err := w.CycleWeapon(l.ID()); err != nil {
		t.Fatal(err)
	}
	if l.Selected != 0 {
		t.Fatal("cycle with a missile airborne should be a no-op")
	}

	if err := w.DetonateAll(l.ID()); err != nil {
		t.Fatal(err)
	}
	ticks(w, ExplodeTicks+1)
	if l.Airborne(w) != 0 || len(l.Missiles) != 0 {
		t.Fatalf("missile should be purged, airborne=%d tracked=%d", l.Airborne(w), len(l.Missiles))
	}
	if err := w.CycleWeapon(l.ID()); err != nil {
		t.Fatal(err)
	}
	if l.SelectedWeapon().Name != "Mk2" {
		t.Fatalf("expected Mk2 selected, got %s", l.SelectedWeapon().Name)
	}
	if err := w.CycleWeapon(l.ID()); err != nil {
		t.Fatal(err)
	}
	if l.Selected != 0 {
		t.Fatal("selection should wrap")
	}
}

func TestWorld_DetonateAllOnlyOwnMissiles(t *testing.T) {
	w := flatWorld(t)
	ids := w.LauncherIDs()
	mine, _ := w.Fire(ids[0])
	theirs, _ := w.Fire(ids[1])
	ticks(w, 2)

	if err := w.DetonateAll(ids[0]); err != nil {
		t.Fatal(err)
	}
	pm, _ := w.projectile(mine)
	pt, _ := w.projectile(theirs)
	if pm.Phase != PhaseExploding {
		t.Fatalf("own missile phase=%s", pm.Phase)
	}
	if pt.Phase != PhaseFlying {
		t.Fatalf("other launcher's missile phase=%s", pt.Phase)
	}
	if pm.EngineOn {
		t.Fatal("detonation should cut the engine")
	}
}

func TestWorld_TurnFlagsMoveAim(t *testing.T) {
	w := flatWorld(t)
	l := w.Launchers()[0]
	start := l.Angle
	if err := w.BeginTurn(l.ID(), TurnRight); err != nil {
		t.Fatal(err)
	}
	ticks(w, 2)
	if err := w.EndTurn(l.ID(), TurnRight); err != nil {
		t.Fatal(err)
	}
	ticks(w, 2)
	if d := l.Angle - start; d < 2*TurnRate-1e-9 || d > 2*TurnRate+1e-9 {
		t.Fatalf("expected the aim to move by two steps, moved %.4f", d)
	}
}

func TestWorld_SnapshotMirrorsEntities(t *testing.T) {
	w := flatWorld(t, WithObstacle("rock", 40, 5))
	ids := w.LauncherIDs()
	w.Fire(ids[0])
	views := w.Snapshot()
	if len(views) != 4 {
		t.Fatalf("expected 4 views, got %d", len(views))
	}
	if views[0].Kind != KindLauncher || views[0].Name != "Left" || views[0].HPRatio != 1 {
		t.Fatalf("unexpected launcher view %+v", views[0])
	}
	if views[0].Airborne != 1 {
		t.Fatalf("launcher view should count its missile, got %d", views[0].Airborne)
	}
	if views[2].Kind != KindObstacle || views[2].Name != "rock" {
		t.Fatalf("unexpected obstacle view %+v", views[2])
	}
	if v := views[3]; v.Kind != KindProjectile || !v.EngineOn || v.Owner != ids[0] || v.Phase != PhaseFlying {
		t.Fatalf("unexpected projectile view %+v", v)
	}
}
