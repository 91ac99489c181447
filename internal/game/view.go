package game

// EntityView is the read-only draw state of one entity. Fields that do not
// apply to the entity's kind are zero.
type EntityView struct {
	ID     EntityID
	Kind   EntityKind
	X, Y   float64
	Radius float64

	// Projectile
	Phase    ExplosionPhase
	Progress float64 // explosion progress, 0..1
	EngineOn bool
	Dud      bool
	Owner    EntityID

	// Launcher
	Name     string
	Angle    float64
	HP       int
	HPRatio  float64
	Weapon   string
	Airborne int

	// Obstacle
	Destroyed bool
}

// Snapshot returns the draw state of every live entity in draw order.
func (w *World) Snapshot() []EntityView {
	out := make([]EntityView, 0, len(w.entities))
	for _, e := range w.entities {
		x, y := e.Position()
		v := EntityView{ID: e.ID(), Kind: e.Kind(), X: x, Y: y, Radius: e.Radius()}
		switch ent := e.(type) {
		case *Projectile:
			v.Phase = ent.Phase
			v.Progress = ent.Progress()
			v.EngineOn = ent.EngineOn
			v.Dud = ent.Dud
			v.Owner = ent.Owner
		case *Launcher:
			v.Name = ent.Name
			v.Angle = ent.Angle
			v.HP = ent.HP
			v.HPRatio = ent.HPRatio()
			v.Weapon = ent.SelectedWeapon().Name
			v.Airborne = ent.Airborne(w)
		case *Obstacle:
			v.Name = ent.Name
			v.Destroyed = ent.Destroyed()
		}
		out = append(out, v)
	}
	return out
}
