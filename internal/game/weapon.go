package game

import "fmt"

// EscalationPeriod is the number of ticks between weapon unlocks.
const EscalationPeriod = 900

// WeaponType is an immutable parameter set shared by every projectile fired
// with it.
type WeaponType struct {
	Name           string
	ExplosionScale float64 // blast radius multiplier
	Speed          float64 // engine thrust multiplier
	Warheads       int     // projectiles after the engine cuts out
}

// StandardWeapon is the weapon every launcher starts with.
var StandardWeapon = &WeaponType{
	Name:           "Mk1",
	ExplosionScale: 1,
	Speed:          1,
	Warheads:       1,
}

// EscalationPolicy creates the weapon unlocked at an escalation boundary.
type EscalationPolicy interface {
	Next(turn int) *WeaponType
}

// EscalationFunc adapts a plain function to EscalationPolicy.
type EscalationFunc func(turn int) *WeaponType

func (f EscalationFunc) Next(turn int) *WeaponType { return f(turn) }

// AlternatingEscalation unlocks cluster warheads on odd levels and boosted
// engines on even levels. The blast scale always grows with the level.
type AlternatingEscalation struct{}

func (AlternatingEscalation) Next(turn int) *WeaponType {
	level := turn / EscalationPeriod
	wt := &WeaponType{
		ExplosionScale: 1 + float64(turn)/EscalationPeriod,
		Speed:          1,
		Warheads:       1,
	}
	if level%2 == 1 {
		wt.Warheads = 1 + level
		wt.Name = fmt.Sprintf("Mk%d cluster", level+1)
	} else {
		wt.Speed = 1 + 0.25*float64(level)
		wt.Name = fmt.Sprintf("Mk%d booster", level+1)
	}
	return wt
}

// ScaleOnlyEscalation reproduces the single-weapon behaviour of the early
// prototypes: only the blast grows.
type ScaleOnlyEscalation struct{}

func (ScaleOnlyEscalation) Next(turn int) *WeaponType {
	level := turn / EscalationPeriod
	return &WeaponType{
		Name:           fmt.Sprintf("Mk%d", level+1),
		ExplosionScale: 1 + float64(turn)/EscalationPeriod,
		Speed:          1,
		Warheads:       1,
	}
}
