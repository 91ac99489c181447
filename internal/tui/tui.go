// Package tui is the terminal frontend: one terminal cell per terrain tile,
// driven by tcell. Terminals report no key releases, so the fire key
// toggles between launch and engine cut, and turn keys turn for a short
// pulse.
package tui

import (
	"fmt"
	"math"
	"time"

	"github.com/Garsondee/Missile-Duel/internal/game"
	"github.com/gdamore/tcell/v2"
)

// turnPulseTicks is how long one turn key press keeps turning, at any speed.
const turnPulseTicks = 4

const frameInterval = time.Second / game.TicksPerSecond

var (
	styleSky    = tcell.StyleDefault.Background(tcell.NewRGBColor(20, 28, 48))
	styleGround = tcell.StyleDefault.Background(tcell.NewRGBColor(96, 74, 48))
	styleGrass  = tcell.StyleDefault.Background(tcell.NewRGBColor(80, 120, 60))
	styleWater  = tcell.StyleDefault.Background(tcell.NewRGBColor(40, 90, 190))
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

type keyMap struct {
	fire, detonate, left, right, cycle func(*tcell.EventKey) bool
}

func runeKey(r rune) func(*tcell.EventKey) bool {
	return func(ev *tcell.EventKey) bool { return ev.Key() == tcell.KeyRune && ev.Rune() == r }
}

func specialKey(k tcell.Key) func(*tcell.EventKey) bool {
	return func(ev *tcell.EventKey) bool { return ev.Key() == k }
}

var keyMaps = [2]keyMap{
	{fire: runeKey('w'), detonate: runeKey('s'), left: runeKey('a'), right: runeKey('d'), cycle: runeKey('q')},
	{fire: specialKey(tcell.KeyUp), detonate: specialKey(tcell.KeyDown), left: specialKey(tcell.KeyLeft), right: specialKey(tcell.KeyRight), cycle: specialKey(tcell.KeyEnter)},
}

// App runs a match in a terminal.
type App struct {
	screen tcell.Screen
	match  *game.Match
	sound  *sound

	// turnUntil[launcher][dir] is the tick at which a turn pulse ends.
	turnUntil [2][2]int
	logRead   int
	status    string
}

// New initialises audio and then the terminal. Audio failures leave the
// game silent and are reported in the HUD.
func New(m *game.Match, audio bool) (*App, error) {
	a := &App{match: m}
	snd, err := newSound(audio)
	if err != nil {
		a.status = fmt.Sprintf("audio off: %v", err)
	}
	a.sound = snd

	screen, err := tcell.NewScreen()
	if err != nil {
		snd.close()
		return nil, err
	}
	if err := screen.Init(); err != nil {
		snd.close()
		return nil, err
	}
	a.screen = screen
	return a, nil
}

// Close restores the terminal and stops audio.
func (a *App) Close() {
	a.sound.close()
	a.screen.Fini()
}

// Run blocks until the user quits.
func (a *App) Run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			a.match.AdvanceUntil(a.pulseEnded)
			a.endTurnPulses()
			a.playEvents()
			a.draw()
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		for i, km := range keyMaps {
			a.launcherKey(i, km, ev)
		}
		a.controlKey(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) launcherKey(i int, km keyMap, ev *tcell.EventKey) {
	w := a.match.World()
	launchers := w.Launchers()
	if i >= len(launchers) {
		return
	}
	switch {
	case km.fire(ev):
		if last, ok := launchers[i].LastMissile(w); ok && last.EngineOn {
			_ = a.match.ReleaseFire(i)
		} else {
			_ = a.match.Fire(i)
		}
	case km.detonate(ev):
		_ = a.match.DetonateAll(i)
	case km.left(ev):
		a.pulseTurn(i, game.TurnLeft)
	case km.right(ev):
		a.pulseTurn(i, game.TurnRight)
	case km.cycle(ev):
		_ = a.match.CycleWeapon(i)
	}
}

func (a *App) pulseTurn(i int, dir game.TurnDirection) {
	if err := a.match.BeginTurn(i, dir); err != nil {
		return
	}
	a.turnUntil[i][dir] = a.match.World().Turn() + turnPulseTicks
}

// pulseEnded ends a tick batch when a turn pulse runs out, so fast speeds
// do not stretch a pulse.
func (a *App) pulseEnded(w *game.World) bool {
	for i := range a.turnUntil {
		for _, until := range a.turnUntil[i] {
			if until > 0 && w.Turn() >= until {
				return true
			}
		}
	}
	return false
}

func (a *App) endTurnPulses() {
	turn := a.match.World().Turn()
	for i := range a.turnUntil {
		for dir := range a.turnUntil[i] {
			until := a.turnUntil[i][dir]
			if until > 0 && turn >= until {
				_ = a.match.EndTurn(i, game.TurnDirection(dir))
				a.turnUntil[i][dir] = 0
			}
		}
	}
}

func (a *App) controlKey(ev *tcell.EventKey) {
	if ev.Key() != tcell.KeyRune {
		return
	}
	switch ev.Rune() {
	case 'p':
		if a.match.Paused() {
			a.match.Resume()
		} else {
			a.match.Pause()
		}
	case ',':
		a.match.Slower()
	case '.':
		a.match.Faster()
	case 'r':
		a.restart(a.match.Reset, "new terrain")
	case 't':
		a.restart(a.match.Restart, "replaying")
	}
}

func (a *App) restart(fn func() error, msg string) {
	if err := fn(); err != nil {
		a.status = err.Error()
		return
	}
	a.turnUntil = [2][2]int{}
	a.logRead = 0
	a.status = msg
}

// playEvents sounds the log entries added since the last frame.
func (a *App) playEvents() {
	entries := a.match.World().Log.Entries()
	if a.logRead > len(entries) {
		a.logRead = 0
	}
	for _, e := range entries[a.logRead:] {
		switch {
		case e.Category == "blast" && e.Key == "detonate":
			a.sound.tone(toneDetonate, 80*time.Millisecond)
		case e.Category == "hit" && e.Key == "damage":
			a.sound.tone(toneDamage, 120*time.Millisecond)
		case e.Category == "weapon" && e.Key == "unlock":
			a.sound.tone(toneUnlock, 60*time.Millisecond)
		}
	}
	a.logRead = len(entries)
}

func (a *App) draw() {
	a.screen.Clear()
	w := a.match.World()
	t := w.Terrain()

	for row := 0; row < t.Rows; row++ {
		for col := 0; col < t.Cols; col++ {
			style := styleSky
			switch t.At(col, row) {
			case game.TileGround:
				style = styleGround
				if row == t.SurfaceRow(col) {
					style = styleGrass
				}
			case game.TileWater:
				style = styleWater
			case game.TileAir:
			}
			a.screen.SetContent(col, row, ' ', nil, style)
		}
	}

	for _, v := range w.Snapshot() {
		a.drawEntity(t, v)
	}
	a.drawHUD(w, t.Rows)
	a.screen.Show()
}

func (a *App) drawEntity(t *game.Terrain, v game.EntityView) {
	col, row := t.CellOf(v.X, v.Y)
	switch v.Kind {
	case game.KindProjectile:
		if v.Phase == game.PhaseExploding {
			r := int(math.Ceil(v.Radius / t.CellSize))
			fg := tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 165, 0))
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					if dx*dx+dy*dy <= r*r {
						a.setCell(t, col+dx, row+dy, '*', fg)
					}
				}
			}
			return
		}
		fg := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		if v.EngineOn {
			fg = tcell.StyleDefault.Foreground(tcell.ColorRed)
		}
		a.setCell(t, col, row, '•', fg)
	case game.KindLauncher:
		style := tcell.StyleDefault.Foreground(tcell.ColorSilver)
		a.setCell(t, col, row-1, 'A', style)
		sin, cos := math.Sincos(v.Angle)
		bc, br := t.CellOf(v.X+sin*2*t.CellSize, v.Y-t.CellSize-cos*t.CellSize)
		a.setCell(t, bc, br, barrelRune(v.Angle), style)
	case game.KindObstacle:
		a.setCell(t, col, row-1, '♣', tcell.StyleDefault.Foreground(tcell.ColorGreen))
	}
}

func barrelRune(angle float64) rune {
	switch {
	case angle > 0.5:
		return '/'
	case angle < -0.5:
		return '\\'
	default:
		return '|'
	}
}

func (a *App) setCell(t *game.Terrain, col, row int, r rune, style tcell.Style) {
	if col < 0 || row < 0 || col >= t.Cols || row >= t.Rows {
		return
	}
	a.screen.SetContent(col, row, r, nil, style)
}

func (a *App) drawHUD(w *game.World, top int) {
	speed := fmt.Sprintf("%gx", a.match.TickRate())
	if a.match.Paused() {
		speed = "PAUSED"
	}
	lines := []string{
		fmt.Sprintf("T=%d %s  p pause  ,/. speed  r new  t replay  Esc quit", w.Turn(), speed),
	}
	for _, l := range w.Launchers() {
		lines = append(lines, fmt.Sprintf("%-5s hp=%2d angle=%+.2f weapon=%s", l.Name, l.HP, l.Angle, l.SelectedWeapon().Name))
	}
	if tail := w.Log.Tail(1); len(tail) == 1 {
		lines = append(lines, tail[0].String())
	}
	if w.GameOver() {
		lines = append(lines, "GAME OVER: "+w.Outcome().Description)
	} else if a.status != "" {
		lines = append(lines, a.status)
	}
	for i, line := range lines {
		for x, r := range []rune(line) {
			a.screen.SetContent(x, top+i, r, nil, styleHUD)
		}
	}
}
