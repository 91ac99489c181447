package game

import "math"

// EntityID is a world-scoped handle. Cross references between entities are
// always ids resolved through the World, never pointers.
type EntityID uint32

// NoEntity is the zero id; it never names a live entity.
const NoEntity EntityID = 0

// EntityKind tags the concrete entity variant.
type EntityKind uint8

const (
	KindProjectile EntityKind = iota
	KindLauncher
	KindObstacle
)

func (k EntityKind) String() string {
	switch k {
	case KindProjectile:
		return "projectile"
	case KindLauncher:
		return "launcher"
	case KindObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// Entity is anything the World advances once per tick.
type Entity interface {
	ID() EntityID
	Kind() EntityKind

	// Update advances the entity by one tick.
	Update(w *World)

	// Alive is false once the entity has reached a terminal state; the World
	// purges it at the end of the tick.
	Alive() bool

	Position() (x, y float64)
	Radius() float64

	// Hit is invoked by a blast that reaches the entity.
	Hit(w *World)
}

// Compile-time interface checks
var (
	_ Entity = (*Projectile)(nil)
	_ Entity = (*Launcher)(nil)
	_ Entity = (*Obstacle)(nil)
)

func distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(ax-bx, ay-by)
}
