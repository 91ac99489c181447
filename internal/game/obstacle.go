package game

import "fmt"

// Obstacle is a decoration standing on the terrain. A blast destroys it.
type Obstacle struct {
	id        EntityID
	Name      string
	X, Y      float64
	radius    float64
	destroyed bool
}

func (o *Obstacle) ID() EntityID { return o.id }
func (o *Obstacle) Kind() EntityKind { return KindObstacle }
func (o *Obstacle) Alive() bool { return !o.destroyed }
func (o *Obstacle) Position() (x, y float64) { return o.X, o.Y }
func (o *Obstacle) Radius() float64 { return o.radius }
func (o *Obstacle) Update(*World) {}

// Label is the short log label, e.g. "O3".
func (o *Obstacle) Label() string { return fmt.Sprintf("O%d", o.id) }

// Destroyed reports whether a blast has reached the obstacle.
func (o *Obstacle) Destroyed() bool { return o.destroyed }

func (o *Obstacle) Hit(w *World) {
	if o.destroyed {
		return
	}
	o.destroyed = true
	w.Log.Add(w.turn, o.Label(), "hit", "destroyed", o.Name, 0)
}
