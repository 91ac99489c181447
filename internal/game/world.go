package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Command errors. Frontends may ignore them; the world is unchanged.
var (
	ErrUnknownLauncher = errors.New("unknown launcher")
	ErrGameOver        = errors.New("game over")
)

// World owns the terrain and every entity of one match. It is advanced by
// Tick and mutated only through Tick and the command methods, all of which
// must be called from a single goroutine.
type World struct {
	cfg     Config
	rng     *rand.Rand
	terrain *Terrain

	entities  []Entity // insertion order is draw order
	index     map[EntityID]Entity
	launchers []*Launcher
	nextID    EntityID

	turn     int
	gameOver bool
	outcome  MatchOutcome

	Log *SimLog
}

// NewWorld validates cfg, generates the terrain, emplaces the launchers and
// obstacles, and returns a world at turn 0. On error no world is returned.
func NewWorld(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}
	if !cfg.Seeded {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg.Launchers = append([]LauncherConfig(nil), cfg.Launchers...)
	cfg.Obstacles = append([]ObstacleConfig(nil), cfg.Obstacles...)

	w := &World{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)), // #nosec G404 -- terrain only, not security sensitive
		index: make(map[EntityID]Entity),
		Log:   NewSimLog(cfg.VerboseLog),
	}
	w.terrain = buildTerrain(&w.cfg, w.rng)
	cell := w.terrain.CellSize

	for _, lc := range cfg.Launchers {
		x := float64(lc.ColMin+lc.ColMax+1) / 2 * cell
		y := w.terrain.GroundLevelForColumns(lc.ColMin, lc.ColMax)
		l := newLauncher(lc.Name, x, y, lc.Angle, cfg.MaxHP, 1.5*cell)
		w.spawn(l)
		w.launchers = append(w.launchers, l)
		w.Log.Add(0, l.Label(), "state", "emplace",
			fmt.Sprintf("%s at (%.1f,%.1f) angle=%.2f", l.Name, l.X, l.Y, l.Angle), l.Y)
	}
	for _, oc := range cfg.Obstacles {
		o := &Obstacle{
			Name:   oc.Name,
			X:      (float64(oc.Col) + 0.5) * cell,
			Y:      float64(w.topSolidRow(oc.Col)) * cell,
			radius: oc.Radius,
		}
		w.spawn(o)
	}
	w.Log.Add(0, "--", "state", "init",
		fmt.Sprintf("seed=%d style=%s lakes=%d", cfg.Seed, cfg.Style, len(w.terrain.Lakes)), float64(cfg.Seed))
	return w, nil
}

// topSolidRow is the first non-air row of a column, so obstacles sit on
// water as well as on ground.
func (w *World) topSolidRow(col int) int {
	for row := 0; row < w.terrain.Rows; row++ {
		if w.terrain.At(col, row) != TileAir {
			return row
		}
	}
	return w.terrain.Rows
}

// Tick advances the world one step. It is a no-op once the game is over.
func (w *World) Tick() {
	if w.gameOver {
		return
	}
	w.turn++
	if w.turn%EscalationPeriod == 0 {
		w.escalate()
	}

	// Entities spawned during this tick wait for the next one.
	n := len(w.entities)
	for i := 0; i < n; i++ {
		w.entities[i].Update(w)
	}

	w.purge()
	for _, l := range w.launchers {
		l.pruneMissiles(w)
	}
	w.checkGameOver()
}

// escalate unlocks one new weapon for every launcher present.
func (w *World) escalate() {
	wt := w.cfg.Escalation.Next(w.turn)
	if wt == nil {
		return
	}
	for _, l := range w.launchers {
		l.AddWeapon(wt)
	}
	w.Log.Add(w.turn, "--", "weapon", "unlock",
		fmt.Sprintf("%s scale=%.2f speed=%.2f warheads=%d", wt.Name, wt.ExplosionScale, wt.Speed, wt.Warheads),
		wt.ExplosionScale)
}

// purge rebuilds the entity list without terminal entities, keeping the
// survivors in order.
func (w *World) purge() {
	kept := make([]Entity, 0, len(w.entities))
	for _, e := range w.entities {
		if e.Alive() {
			kept = append(kept, e)
			continue
		}
		delete(w.index, e.ID())
	}
	w.entities = kept
}

func (w *World) checkGameOver() {
	for _, l := range w.launchers {
		if l.HP <= 0 {
			w.gameOver = true
			break
		}
	}
	if !w.gameOver {
		return
	}
	w.outcome = DetermineOutcome(w.launchers, w.turn)
	w.Log.Add(w.turn, "--", "state", "game_over", w.outcome.Description, float64(w.outcome.Result))
}

// spawn assigns the next id and appends e to the entity list.
func (w *World) spawn(e Entity) {
	w.nextID++
	id := w.nextID
	switch v := e.(type) {
	case *Projectile:
		v.id = id
	case *Launcher:
		v.id = id
	case *Obstacle:
		v.id = id
	}
	w.entities = append(w.entities, e)
	w.index[id] = e
}

func (w *World) trackMissile(owner, id EntityID) {
	if l, ok := w.launcher(owner); ok {
		l.Missiles = append(l.Missiles, id)
	}
}

func (w *World) projectile(id EntityID) (*Projectile, bool) {
	p, ok := w.index[id].(*Projectile)
	return p, ok
}

func (w *World) launcher(id EntityID) (*Launcher, bool) {
	l, ok := w.index[id].(*Launcher)
	return l, ok
}

func (w *World) label(e Entity) string {
	switch v := e.(type) {
	case *Projectile:
		return v.Label()
	case *Launcher:
		return v.Label()
	case *Obstacle:
		return v.Label()
	default:
		return fmt.Sprintf("E%d", e.ID())
	}
}

// commandTarget resolves a launcher for a command.
func (w *World) commandTarget(id EntityID) (*Launcher, error) {
	if w.gameOver {
		return nil, ErrGameOver
	}
	l, ok := w.launcher(id)
	if !ok {
		return nil, fmt.Errorf("launcher %d: %w", id, ErrUnknownLauncher)
	}
	return l, nil
}

// --- Commands ---

// BeginTurn starts a continuous turn.
func (w *World) BeginTurn(id EntityID, dir TurnDirection) error {
	l, err := w.commandTarget(id)
	if err != nil {
		return err
	}
	w.setTurn(l, dir, true)
	return nil
}

// EndTurn stops a continuous turn.
func (w *World) EndTurn(id EntityID, dir TurnDirection) error {
	l, err := w.commandTarget(id)
	if err != nil {
		return err
	}
	w.setTurn(l, dir, false)
	return nil
}

func (w *World) setTurn(l *Launcher, dir TurnDirection, on bool) {
	switch dir {
	case TurnLeft:
		l.TurnLeft(on)
	case TurnRight:
		l.TurnRight(on)
	}
	key := "end"
	if on {
		key = "begin"
	}
	w.Log.AddVerbose(w.turn, l.Label(), "turn", key, dir.String(), l.Angle)
}

// Fire launches a missile unless the launcher's last missile is still under
// power, in which case it returns NoEntity and no error.
func (w *World) Fire(id EntityID) (EntityID, error) {
	l, err := w.commandTarget(id)
	if err != nil {
		return NoEntity, err
	}
	if last, ok := l.LastMissile(w); ok && last.EngineOn {
		return NoEntity, nil
	}
	return l.LaunchMissile(w).ID(), nil
}

// ReleaseFire cuts the engine of the launcher's last missile, which may
// split a cluster warhead.
func (w *World) ReleaseFire(id EntityID) error {
	l, err := w.commandTarget(id)
	if err != nil {
		return err
	}
	if last, ok := l.LastMissile(w); ok {
		last.CutEngine(w)
	}
	return nil
}

// DetonateAll explodes every airborne missile the launcher owns.
func (w *World) DetonateAll(id EntityID) error {
	l, err := w.commandTarget(id)
	if err != nil {
		return err
	}
	for _, mid := range append([]EntityID(nil), l.Missiles...) {
		if p, ok := w.projectile(mid); ok {
			p.Explode(w)
		}
	}
	return nil
}

// CycleWeapon selects the next unlocked weapon. It does nothing while the
// launcher has a missile in the world.
func (w *World) CycleWeapon(id EntityID) error {
	l, err := w.commandTarget(id)
	if err != nil {
		return err
	}
	if l.Airborne(w) > 0 {
		return nil
	}
	l.AdvanceMissileType()
	w.Log.Add(w.turn, l.Label(), "weapon", "select", l.SelectedWeapon().Name, float64(l.Selected))
	return nil
}

// --- Read contract ---

// Terrain returns the tile grid. Callers must not modify it.
func (w *World) Terrain() *Terrain { return w.terrain }

// Entities returns the live entities in draw order.
func (w *World) Entities() []Entity {
	return append([]Entity(nil), w.entities...)
}

// Entity looks up a live entity by id.
func (w *World) Entity(id EntityID) (Entity, bool) {
	e, ok := w.index[id]
	return e, ok
}

// Launchers returns the launchers in configuration order.
func (w *World) Launchers() []*Launcher {
	return append([]*Launcher(nil), w.launchers...)
}

// LauncherIDs returns launcher ids in configuration order.
func (w *World) LauncherIDs() []EntityID {
	ids := make([]EntityID, len(w.launchers))
	for i, l := range w.launchers {
		ids[i] = l.id
	}
	return ids
}

func (w *World) GameOver() bool { return w.gameOver }
func (w *World) Outcome() MatchOutcome { return w.outcome }
func (w *World) Turn() int { return w.turn }
func (w *World) Config() Config { return w.cfg }
func (w *World) Seed() int64 { return w.cfg.Seed }
func (w *World) Bounds() (wd, h float64) { return w.cfg.Width, w.cfg.Height }
