package game

import (
	"fmt"
	"math"
)

const (
	// TurnRate is the aim change per tick while a turn flag is held.
	TurnRate = 0.05
	// MaxAngle bounds the aim on both sides of vertical.
	MaxAngle = 0.45 * math.Pi
	// DefaultMaxHP is the launcher starting hit points.
	DefaultMaxHP = 10
)

// TurnDirection selects which turn flag a command addresses.
type TurnDirection uint8

const (
	TurnLeft TurnDirection = iota
	TurnRight
)

func (d TurnDirection) String() string {
	switch d {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return "unknown"
	}
}

// Launcher is a fixed, player-controlled emplacement.
type Launcher struct {
	id   EntityID
	Name string

	X, Y  float64
	Angle float64 // radians from vertical; positive aims right

	turningLeft  bool
	turningRight bool

	HP    int
	MaxHP int

	// Missiles tracks this launcher's airborne projectiles in fire order.
	// The World owns the projectiles; these ids only follow their lifecycle.
	Missiles []EntityID

	Weapons  []*WeaponType
	Selected int

	radius float64
}

func newLauncher(name string, x, y, angle float64, maxHP int, radius float64) *Launcher {
	l := &Launcher{
		Name:    name,
		X:       x,
		Y:       y,
		Angle:   angle,
		HP:      maxHP,
		MaxHP:   maxHP,
		Weapons: []*WeaponType{StandardWeapon},
		radius:  radius,
	}
	l.restrictAngle()
	return l
}

func (l *Launcher) ID() EntityID { return l.id }
func (l *Launcher) Kind() EntityKind { return KindLauncher }
func (l *Launcher) Position() (x, y float64) { return l.X, l.Y }
func (l *Launcher) Radius() float64 { return l.radius }

// Alive is always true: a destroyed launcher stays on the field so the
// match can report the loser.
func (l *Launcher) Alive() bool { return true }

// Label is the short log label, e.g. "L1".
func (l *Launcher) Label() string { return fmt.Sprintf("L%d", l.id) }

// TurnLeft sets or clears the continuous left-turn flag.
func (l *Launcher) TurnLeft(on bool) { l.turningLeft = on }

// TurnRight sets or clears the continuous right-turn flag.
func (l *Launcher) TurnRight(on bool) { l.turningRight = on }

// Turning reports the state of both turn flags.
func (l *Launcher) Turning() (left, right bool) { return l.turningLeft, l.turningRight }

// Update applies held turn flags and clamps the aim.
func (l *Launcher) Update(w *World) {
	if l.turningRight {
		l.Angle += TurnRate
	}
	if l.turningLeft {
		l.Angle -= TurnRate
	}
	l.restrictAngle()
}

func (l *Launcher) restrictAngle() {
	if l.Angle > MaxAngle {
		l.Angle = MaxAngle
	}
	if l.Angle < -MaxAngle {
		l.Angle = -MaxAngle
	}
}

// Hit removes exactly one hit point regardless of blast size.
func (l *Launcher) Hit(w *World) {
	l.HP--
	w.Log.Add(w.turn, l.Label(), "hit", "damage",
		fmt.Sprintf("hp=%d/%d", l.HP, l.MaxHP), float64(l.HP))
}

// HPRatio returns hp as a fraction of max hp, floored at zero.
func (l *Launcher) HPRatio() float64 {
	if l.MaxHP <= 0 || l.HP <= 0 {
		return 0
	}
	return float64(l.HP) / float64(l.MaxHP)
}

// Destroyed reports whether hit points have run out.
func (l *Launcher) Destroyed() bool { return l.HP <= 0 }

// SelectedWeapon returns the weapon the next launch will use.
func (l *Launcher) SelectedWeapon() *WeaponType {
	if len(l.Weapons) == 0 {
		return StandardWeapon
	}
	return l.Weapons[l.Selected%len(l.Weapons)]
}

// AdvanceMissileType cycles the selection forward. Callers must ensure the
// launcher has nothing airborne.
func (l *Launcher) AdvanceMissileType() {
	if len(l.Weapons) == 0 {
		return
	}
	l.Selected = (l.Selected + 1) % len(l.Weapons)
}

// AddWeapon appends an unlocked weapon; the selection is unchanged.
func (l *Launcher) AddWeapon(wt *WeaponType) {
	l.Weapons = append(l.Weapons, wt)
}

// LaunchMissile spawns a projectile with the selected weapon at the
// launcher's position and angle, engine on.
func (l *Launcher) LaunchMissile(w *World) *Projectile {
	sin, cos := math.Sincos(l.Angle)
	p := newProjectile(l.X, l.Y, sin*LaunchSpeed, -cos*LaunchSpeed, l.Angle, l.id, l.SelectedWeapon())
	p.EngineOn = true
	w.spawn(p)
	l.Missiles = append(l.Missiles, p.id)
	w.Log.AddOwned(w.turn, l.Label(), l.id, "fire", "launch",
		fmt.Sprintf("%s angle=%.2f weapon=%s", p.Label(), l.Angle, p.Weapon.Name), l.Angle)
	return p
}

// LastMissile returns the most recently fired projectile still in the world.
func (l *Launcher) LastMissile(w *World) (*Projectile, bool) {
	for i := len(l.Missiles) - 1; i >= 0; i-- {
		if p, ok := w.projectile(l.Missiles[i]); ok {
			return p, true
		}
	}
	return nil, false
}

// Airborne returns how many tracked projectiles are still in the world.
func (l *Launcher) Airborne(w *World) int {
	n := 0
	for _, id := range l.Missiles {
		if _, ok := w.projectile(id); ok {
			n++
		}
	}
	return n
}

// pruneMissiles drops ids whose projectiles have been purged.
func (l *Launcher) pruneMissiles(w *World) {
	kept := l.Missiles[:0]
	for _, id := range l.Missiles {
		if _, ok := w.projectile(id); ok {
			kept = append(kept, id)
		}
	}
	l.Missiles = kept
}
