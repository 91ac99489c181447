package game

import (
	"fmt"
	"math"
)

// Ballistics constants, in pixels per tick.
const (
	Gravity        = 0.05
	Thrust         = 0.1
	LaunchSpeed    = 3.0
	ExplodeTicks   = 5
	ProjectileSize = 1.0

	clusterDecay = 0.95
)

// ExplosionPhase is the projectile lifecycle state.
type ExplosionPhase uint8

const (
	PhaseFlying    ExplosionPhase = iota
	PhaseExploding                // counter runs ExplodeTicks..0
	PhaseExploded                 // terminal; purged at tick end
)

func (p ExplosionPhase) String() string {
	switch p {
	case PhaseFlying:
		return "flying"
	case PhaseExploding:
		return "exploding"
	case PhaseExploded:
		return "exploded"
	default:
		return "unknown"
	}
}

// Projectile is a missile or a cluster submunition.
type Projectile struct {
	id EntityID

	X, Y   float64
	DX, DY float64
	Angle  float64 // launch angle; thrust is applied along it

	EngineOn bool
	Phase    ExplosionPhase
	Counter  int     // ticks left in the exploding phase
	Size     float64 // current collision/blast radius
	Dud      bool    // landed in water; will not blast

	Owner  EntityID    // launcher that fired it, NoEntity for strays
	Weapon *WeaponType // shared, never mutated

	split bool // cluster split already happened (or never allowed)
	hits  int  // entities this projectile's blast has hit
}

func newProjectile(x, y, dx, dy, angle float64, owner EntityID, wt *WeaponType) *Projectile {
	if wt == nil {
		wt = StandardWeapon
	}
	return &Projectile{
		X:      x,
		Y:      y,
		DX:     dx,
		DY:     dy,
		Angle:  angle,
		Size:   ProjectileSize,
		Owner:  owner,
		Weapon: wt,
	}
}

func (p *Projectile) ID() EntityID { return p.id }
func (p *Projectile) Kind() EntityKind { return KindProjectile }
func (p *Projectile) Alive() bool { return p.Phase != PhaseExploded }
func (p *Projectile) Position() (x, y float64) { return p.X, p.Y }
func (p *Projectile) Radius() float64 { return p.Size }

// Label is the short log label, e.g. "P7".
func (p *Projectile) Label() string { return fmt.Sprintf("P%d", p.id) }

// Hits returns how many blast hits this projectile has delivered.
func (p *Projectile) Hits() int { return p.hits }

// Progress returns the explosion progress ratio: 0 while flying, rising to 1
// as the counter runs down.
func (p *Projectile) Progress() float64 {
	switch p.Phase {
	case PhaseExploding:
		return float64(ExplodeTicks-p.Counter) / ExplodeTicks
	case PhaseExploded:
		return 1
	default:
		return 0
	}
}

// Update advances the projectile by one tick.
func (p *Projectile) Update(w *World) {
	switch p.Phase {
	case PhaseFlying:
		p.fly(w)
	case PhaseExploding:
		p.burn(w)
	case PhaseExploded:
	}
}

func (p *Projectile) fly(w *World) {
	p.X += p.DX
	p.Y += p.DY
	p.DY += Gravity
	if p.EngineOn {
		speed := p.Weapon.Speed
		p.DX += Thrust * math.Sin(p.Angle) * speed
		p.DY -= Thrust * math.Cos(p.Angle) * speed
	}
	w.Log.AddVerbose(w.turn, p.Label(), "move", "position",
		fmt.Sprintf("(%.1f,%.1f) v=(%.2f,%.2f)", p.X, p.Y, p.DX, p.DY), p.Y)

	if p.X <= 0 || p.X >= w.cfg.Width {
		p.Phase = PhaseExploded
		p.EngineOn = false
		w.Log.Add(w.turn, p.Label(), "blast", "fizzle",
			fmt.Sprintf("left the field at x=%.1f", p.X), p.X)
		return
	}
	if p.Y >= w.cfg.Height {
		p.Explode(w)
		return
	}
	switch w.terrain.TileAtPixel(p.X, p.Y) {
	case TileGround:
		p.Explode(w)
	case TileWater:
		if !p.Dud {
			p.Dud = true
			w.Log.Add(w.turn, p.Label(), "blast", "splash",
				fmt.Sprintf("entered water at (%.1f,%.1f)", p.X, p.Y), 0)
		}
	case TileAir:
	}
}

// burn runs one exploding tick: grow the blast, hit everything inside it,
// and finish once the counter is spent.
func (p *Projectile) burn(w *World) {
	if p.Counter > 0 {
		p.Counter--
	}
	p.Size = float64(2*ExplodeTicks-2*p.Counter) * p.Weapon.ExplosionScale
	p.blast(w)
	if p.Counter == 0 {
		p.Phase = PhaseExploded
		w.Log.Add(w.turn, p.Label(), "blast", "spent",
			fmt.Sprintf("radius=%.1f hits=%d", p.Size, p.hits), float64(p.hits))
	}
}

// blast hits every other live entity whose center lies strictly inside
// Size + its radius. Projectiles already exploding are skipped.
func (p *Projectile) blast(w *World) {
	for _, other := range w.entities {
		if other.ID() == p.id || !other.Alive() {
			continue
		}
		if op, ok := other.(*Projectile); ok && op.Phase != PhaseFlying {
			continue
		}
		ox, oy := other.Position()
		d := distance(p.X, p.Y, ox, oy)
		if d < p.Size+other.Radius() {
			p.hits++
			w.Log.AddOwned(w.turn, p.Label(), p.Owner, "hit", other.Kind().String(),
				fmt.Sprintf("%s at d=%.1f r=%.1f", w.label(other), d, p.Size), d)
			other.Hit(w)
		}
	}
}

// Explode starts the exploding phase. A dud skips straight to Exploded and
// never blasts. Calls after the projectile left the flying phase are no-ops.
func (p *Projectile) Explode(w *World) {
	if p.Phase != PhaseFlying {
		return
	}
	p.EngineOn = false
	if p.Dud {
		p.Phase = PhaseExploded
		w.Log.Add(w.turn, p.Label(), "blast", "dud",
			fmt.Sprintf("at (%.1f,%.1f)", p.X, p.Y), 0)
		return
	}
	p.Phase = PhaseExploding
	p.Counter = ExplodeTicks
	p.Size = 0
	w.Log.Add(w.turn, p.Label(), "blast", "detonate",
		fmt.Sprintf("at (%.1f,%.1f) scale=%.2f", p.X, p.Y, p.Weapon.ExplosionScale), p.Weapon.ExplosionScale)
}

// Hit is the projectile's blast reaction: it detonates.
func (p *Projectile) Hit(w *World) {
	p.Explode(w)
}

// CutEngine stops thrust. On a multi-warhead weapon the first cut also
// releases Warheads-1 submunitions from the current position, each with the
// parent velocity scaled by a factor that starts at 0.95 and squares after
// every spawn. Submunitions fly engine-off and never split again.
func (p *Projectile) CutEngine(w *World) {
	if !p.EngineOn {
		return
	}
	p.EngineOn = false
	w.Log.Add(w.turn, p.Label(), "fire", "release",
		fmt.Sprintf("engine off at (%.1f,%.1f)", p.X, p.Y), p.Y)
	if p.split || p.Phase != PhaseFlying || p.Weapon.Warheads <= 1 {
		p.split = true
		return
	}
	p.split = true

	scale := clusterDecay
	for i := 1; i < p.Weapon.Warheads; i++ {
		child := newProjectile(p.X, p.Y, p.DX*scale, p.DY*scale, p.Angle, p.Owner, p.Weapon)
		child.split = true
		w.spawn(child)
		w.trackMissile(p.Owner, child.id)
		w.Log.AddOwned(w.turn, child.Label(), child.Owner, "fire", "split",
			fmt.Sprintf("from %s scale=%.3f", p.Label(), scale), scale)
		scale *= scale
	}
}
