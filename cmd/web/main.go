//go:build js
// +build js

// Command web runs the match in a browser canvas with id "c". Build it with
// gopherjs.
package main

import (
	"fmt"
	"math"

	"github.com/Garsondee/Missile-Duel/internal/game"
	"github.com/gopherjs/gopherjs/js"
)

// keyBinding holds one launcher's key codes: fire, detonate, left, right, cycle.
type keyBinding struct {
	fire, detonate, left, right, cycle int
}

var keyBindings = [2]keyBinding{
	{fire: 87, detonate: 83, left: 65, right: 68, cycle: 81}, // W S A D Q
	{fire: 38, detonate: 40, left: 37, right: 39, cycle: 13}, // arrows Enter
}

type page struct {
	match  *game.Match
	canvas *js.Object
	ctx    *js.Object
	held   map[int]bool
	last   float64 // timestamp of the last paced frame, ms
}

// frameMillis paces Advance to the simulation rate; maxCatchUp bounds the
// frames replayed after the tab was hidden.
const (
	frameMillis = 1000.0 / game.TicksPerSecond
	maxCatchUp  = 4
)

func main() {
	doc := js.Global.Get("document")
	canvas := doc.Call("getElementById", "c")
	if canvas == nil || canvas == js.Undefined {
		panic("canvas element not found")
	}

	m, err := game.NewMatch()
	if err != nil {
		panic(err)
	}
	w, h := m.World().Bounds()
	canvas.Set("width", w)
	canvas.Set("height", h)

	p := &page{match: m, canvas: canvas, ctx: canvas.Call("getContext", "2d"), held: map[int]bool{}}
	p.setupInput(doc)
	p.export()
	js.Global.Call("requestAnimationFrame", p.frame)
}

// export exposes the lifecycle, command and read contract to page scripts.
func (p *page) export() {
	js.Global.Set("MissileDuel", map[string]interface{}{
		"reset":   func() string { return errString(p.match.Reset()) },
		"restart": func() string { return errString(p.match.Restart()) },
		"pause":   p.match.Pause,
		"resume":  p.match.Resume,
		"setTickRate": func(rate float64) string {
			return errString(p.match.SetTickRate(rate))
		},
		"command": func(launcher int, kind string, dir string) string {
			return errString(p.command(launcher, kind, dir))
		},
		"state":  p.state,
		"report": func() string { return p.match.Report().Format() },
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (p *page) command(launcher int, kind, dir string) error {
	d := game.TurnLeft
	if dir == "right" {
		d = game.TurnRight
	}
	switch kind {
	case "begin_turn":
		return p.match.BeginTurn(launcher, d)
	case "end_turn":
		return p.match.EndTurn(launcher, d)
	case "fire":
		return p.match.Fire(launcher)
	case "release":
		return p.match.ReleaseFire(launcher)
	case "detonate":
		return p.match.DetonateAll(launcher)
	case "cycle":
		return p.match.CycleWeapon(launcher)
	default:
		return fmt.Errorf("unknown command %q", kind)
	}
}

// state returns the read contract as plain JS values.
func (p *page) state() map[string]interface{} {
	w := p.match.World()
	var entities []map[string]interface{}
	for _, v := range w.Snapshot() {
		entities = append(entities, map[string]interface{}{
			"id":       int(v.ID),
			"kind":     v.Kind.String(),
			"x":        v.X,
			"y":        v.Y,
			"radius":   v.Radius,
			"phase":    v.Phase.String(),
			"progress": v.Progress,
			"angle":    v.Angle,
			"hpRatio":  v.HPRatio,
			"weapon":   v.Weapon,
		})
	}
	return map[string]interface{}{
		"turn":     w.Turn(),
		"gameOver": w.GameOver(),
		"outcome":  w.Outcome().Description,
		"entities": entities,
	}
}

func (p *page) setupInput(doc *js.Object) {
	doc.Call("addEventListener", "keydown", func(event *js.Object) {
		code := event.Get("keyCode").Int()
		if p.held[code] {
			return
		}
		p.held[code] = true
		if p.keyDown(code) {
			event.Call("preventDefault")
		}
	})
	doc.Call("addEventListener", "keyup", func(event *js.Object) {
		code := event.Get("keyCode").Int()
		p.held[code] = false
		p.keyUp(code)
	})
}

func (p *page) keyDown(code int) bool {
	for i, b := range keyBindings {
		switch code {
		case b.fire:
			_ = p.match.Fire(i)
		case b.detonate:
			_ = p.match.DetonateAll(i)
		case b.left:
			_ = p.match.BeginTurn(i, game.TurnLeft)
		case b.right:
			_ = p.match.BeginTurn(i, game.TurnRight)
		case b.cycle:
			_ = p.match.CycleWeapon(i)
		default:
			continue
		}
		return true
	}
	switch code {
	case 80: // P
		if p.match.Paused() {
			p.match.Resume()
		} else {
			p.match.Pause()
		}
	case 188: // ,
		p.match.Slower()
	case 190: // .
		p.match.Faster()
	case 82: // R
		_ = p.match.Reset()
	case 84: // T
		_ = p.match.Restart()
	default:
		return false
	}
	return true
}

func (p *page) keyUp(code int) {
	for i, b := range keyBindings {
		switch code {
		case b.fire:
			_ = p.match.ReleaseFire(i)
		case b.left:
			_ = p.match.EndTurn(i, game.TurnLeft)
		case b.right:
			_ = p.match.EndTurn(i, game.TurnRight)
		}
	}
}

func (p *page) frame(ts float64) {
	js.Global.Call("requestAnimationFrame", p.frame)
	if p.last == 0 || ts-p.last > maxCatchUp*frameMillis {
		p.last = ts - frameMillis
	}
	for ts-p.last >= frameMillis {
		p.last += frameMillis
		p.match.Advance()
	}
	p.draw()
}

func (p *page) draw() {
	w := p.match.World()
	t := w.Terrain()
	ctx := p.ctx
	width, height := w.Bounds()

	ctx.Set("fillStyle", "#96bee1")
	ctx.Call("fillRect", 0, 0, width, height)
	for row := 0; row < t.Rows; row++ {
		for col := 0; col < t.Cols; col++ {
			switch t.At(col, row) {
			case game.TileGround:
				ctx.Set("fillStyle", "#604a30")
			case game.TileWater:
				ctx.Set("fillStyle", "#285abe")
			case game.TileAir:
				continue
			}
			ctx.Call("fillRect", float64(col)*t.CellSize, float64(row)*t.CellSize, t.CellSize, t.CellSize)
		}
	}

	for _, v := range w.Snapshot() {
		switch v.Kind {
		case game.KindProjectile:
			r, fill := 2.0, "black"
			if v.EngineOn {
				fill = "red"
			}
			if v.Phase == game.PhaseExploding {
				r, fill = math.Max(v.Radius, 1), "orange"
			}
			circle(ctx, v.X, v.Y, r, fill)
		case game.KindLauncher:
			ctx.Call("save")
			ctx.Call("translate", v.X, v.Y)
			ctx.Call("rotate", v.Angle)
			ctx.Set("lineWidth", 3)
			ctx.Call("beginPath")
			ctx.Call("moveTo", 0, -v.Radius*0.4)
			ctx.Call("lineTo", 0, -v.Radius*1.7)
			ctx.Call("stroke")
			ctx.Call("restore")
			ctx.Set("fillStyle", "gray")
			ctx.Call("beginPath")
			ctx.Call("arc", v.X, v.Y, v.Radius, math.Pi, 0)
			ctx.Call("fill")
			ctx.Set("fillStyle", "red")
			ctx.Call("fillRect", v.X-v.Radius, v.Y+2, 2*v.Radius, 3)
			ctx.Set("fillStyle", "blue")
			ctx.Call("fillRect", v.X-v.Radius, v.Y+2, 2*v.Radius*v.HPRatio, 3)
		case game.KindObstacle:
			circle(ctx, v.X, v.Y-v.Radius, v.Radius, "green")
		}
	}

	if w.GameOver() {
		ctx.Set("fillStyle", "black")
		ctx.Set("font", "24px monospace")
		ctx.Set("textAlign", "center")
		ctx.Call("fillText", "GAME OVER", width/2, height/3)
		ctx.Set("font", "14px monospace")
		ctx.Call("fillText", w.Outcome().Description, width/2, height/3+24)
	}
}

func circle(ctx *js.Object, x, y, r float64, fill string) {
	ctx.Call("beginPath")
	ctx.Call("arc", x, y, r, 0, 2*math.Pi)
	ctx.Set("fillStyle", fill)
	ctx.Call("fill")
}
