// Package screen is the ebiten desktop frontend. It reads a match through
// the world's read contract and forwards key events as match commands.
package screen

import (
	"fmt"
	"image/color"
	"math"

	"github.com/Garsondee/Missile-Duel/internal/game"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// borderWidth is the pixel gap between the window edge and the field.
const borderWidth = 24

// fieldScale is the upscale applied to the field buffer when blitted.
const fieldScale = 1.5

// hudScale is the integer upscale factor applied to HUD text.
const hudScale = 2

var (
	skyColor    = color.RGBA{R: 150, G: 190, B: 225, A: 255}
	groundColor = color.RGBA{R: 96, G: 74, B: 48, A: 255}
	grassColor  = color.RGBA{R: 80, G: 120, B: 60, A: 255}
	waterColor  = color.RGBA{R: 40, G: 90, B: 190, A: 255}
)

// binding maps one launcher's keys onto its commands.
type binding struct {
	fire, detonate, left, right, cycle ebiten.Key
}

var bindings = [2]binding{
	{fire: ebiten.KeyW, detonate: ebiten.KeyS, left: ebiten.KeyA, right: ebiten.KeyD, cycle: ebiten.KeyQ},
	{fire: ebiten.KeyArrowUp, detonate: ebiten.KeyArrowDown, left: ebiten.KeyArrowLeft, right: ebiten.KeyArrowRight, cycle: ebiten.KeyEnter},
}

// Screen implements ebiten.Game around a Match.
type Screen struct {
	match    *game.Match
	feed     *EventFeed
	reporter *game.MatchReporter

	width, height int
	fieldW        int // field buffer size in world pixels
	fieldH        int

	fieldBuf   *ebiten.Image
	terrainImg *ebiten.Image
	terrainOf  *game.World // world the terrain image was rendered for
	hudBuf     *ebiten.Image

	showHUD bool
	status  string // transient message shown in the HUD
}

// New wraps m in a desktop frontend.
func New(m *game.Match) *Screen {
	fw, fh := m.World().Bounds()
	s := &Screen{
		match:    m,
		feed:     NewEventFeed(),
		reporter: game.NewMatchReporter(0),
		fieldW:   int(fw),
		fieldH:   int(fh),
		showHUD:  true,
	}
	s.width = borderWidth + int(fw*fieldScale) + borderWidth + feedPanelWidth
	s.height = borderWidth + int(fh*fieldScale) + borderWidth
	s.fieldBuf = ebiten.NewImage(s.fieldW, s.fieldH)
	s.hudBuf = ebiten.NewImage(s.width/hudScale, s.height/hudScale)
	return s
}

// WindowSize returns the size the window should open at.
func (s *Screen) WindowSize() (int, int) { return s.width, s.height }

func (s *Screen) Update() error {
	s.handleInput()
	if ran := s.match.Advance(); ran > 0 {
		s.reporter.Collect(s.match.World())
	}
	s.feed.Follow(s.match.World().Log)
	return nil
}

func (s *Screen) handleInput() {
	for i, b := range bindings {
		s.launcherInput(i, b)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if s.match.Paused() {
			s.match.Resume()
		} else {
			s.match.Pause()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		s.match.Slower()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		s.match.Faster()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.showHUD = !s.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.restartWith(s.match.Reset, "new terrain")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		s.restartWith(s.match.Restart, "replaying")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		s.copyReport()
	}
}

// launcherInput forwards one launcher's key edges. Command errors (game
// over, unknown launcher) leave the match unchanged and are dropped.
func (s *Screen) launcherInput(i int, b binding) {
	if i >= len(s.match.World().Launchers()) {
		return
	}
	if inpututil.IsKeyJustPressed(b.fire) {
		_ = s.match.Fire(i)
	}
	if inpututil.IsKeyJustReleased(b.fire) {
		_ = s.match.ReleaseFire(i)
	}
	if inpututil.IsKeyJustPressed(b.detonate) {
		_ = s.match.DetonateAll(i)
	}
	if inpututil.IsKeyJustPressed(b.left) {
		_ = s.match.BeginTurn(i, game.TurnLeft)
	}
	if inpututil.IsKeyJustReleased(b.left) {
		_ = s.match.EndTurn(i, game.TurnLeft)
	}
	if inpututil.IsKeyJustPressed(b.right) {
		_ = s.match.BeginTurn(i, game.TurnRight)
	}
	if inpututil.IsKeyJustReleased(b.right) {
		_ = s.match.EndTurn(i, game.TurnRight)
	}
	if inpututil.IsKeyJustPressed(b.cycle) {
		_ = s.match.CycleWeapon(i)
	}
}

func (s *Screen) restartWith(fn func() error, msg string) {
	if err := fn(); err != nil {
		s.status = err.Error()
		return
	}
	s.feed.Clear()
	s.reporter = game.NewMatchReporter(0)
	s.status = msg
}

func (s *Screen) copyReport() {
	report := s.match.Report().Format() + "\n" + s.reporter.WindowSummary().Format()
	if err := clipboard.WriteAll(report); err != nil {
		s.status = "clipboard unavailable: " + err.Error()
		return
	}
	s.status = "report copied"
}

func (s *Screen) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 18, A: 255})

	w := s.match.World()
	s.fieldBuf.Fill(skyColor)
	s.drawTerrain(s.fieldBuf, w)
	s.drawEntities(s.fieldBuf, w)
	if w.GameOver() {
		s.drawGameOver(s.fieldBuf, w.Outcome())
	}

	var blit ebiten.DrawImageOptions
	blit.GeoM.Scale(fieldScale, fieldScale)
	blit.GeoM.Translate(borderWidth, borderWidth)
	screen.DrawImage(s.fieldBuf, &blit)

	ox, oy := float32(borderWidth), float32(borderWidth)
	fw, fh := float32(float64(s.fieldW)*fieldScale), float32(float64(s.fieldH)*fieldScale)
	vector.StrokeRect(screen, ox-1, oy-1, fw+2, fh+2, 2.0, color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)

	s.feed.Draw(screen, borderWidth+int(fw)+borderWidth, s.height)

	if s.showHUD {
		s.drawHUD(screen, w)
	}
}

// drawTerrain blits the terrain image, rebuilding it when the world changes.
// Terrain never changes within a world.
func (s *Screen) drawTerrain(dst *ebiten.Image, w *game.World) {
	if s.terrainOf != w || s.terrainImg == nil {
		s.terrainImg = renderTerrain(w.Terrain())
		s.terrainOf = w
	}
	dst.DrawImage(s.terrainImg, nil)
}

func renderTerrain(t *game.Terrain) *ebiten.Image {
	img := ebiten.NewImage(int(t.PixelWidth()), int(t.PixelHeight()))
	cell := float32(t.CellSize)
	for row := 0; row < t.Rows; row++ {
		for col := 0; col < t.Cols; col++ {
			x, y := float32(col)*cell, float32(row)*cell
			switch t.At(col, row) {
			case game.TileGround:
				c := groundColor
				if row == t.SurfaceRow(col) {
					c = grassColor
				}
				vector.FillRect(img, x, y, cell, cell, c, false)
			case game.TileWater:
				vector.FillRect(img, x, y, cell, cell, waterColor, false)
			case game.TileAir:
			}
		}
	}
	return img
}

func (s *Screen) drawEntities(dst *ebiten.Image, w *game.World) {
	for _, v := range w.Snapshot() {
		switch v.Kind {
		case game.KindProjectile:
			drawProjectile(dst, v)
		case game.KindLauncher:
			drawLauncher(dst, v)
		case game.KindObstacle:
			drawObstacle(dst, v)
		}
	}
}

func drawProjectile(dst *ebiten.Image, v game.EntityView) {
	x, y := float32(v.X), float32(v.Y)
	if v.Phase == game.PhaseExploding {
		r := float32(v.Radius)
		if r < 1 {
			r = 1
		}
		a := uint8(255 - 150*v.Progress)
		vector.FillCircle(dst, x, y, r, color.RGBA{R: 255, G: 165, B: 0, A: a}, true)
		vector.StrokeCircle(dst, x, y, r, 1.0, color.RGBA{R: 220, G: 30, B: 20, A: a}, true)
		return
	}
	body := color.RGBA{R: 20, G: 20, B: 20, A: 255}
	if v.EngineOn {
		body = color.RGBA{R: 230, G: 40, B: 30, A: 255}
	}
	vector.FillCircle(dst, x, y, 2, body, true)
	vector.StrokeCircle(dst, x, y, 2, 0.5, color.RGBA{R: 40, G: 60, B: 200, A: 255}, true)
}

func drawLauncher(dst *ebiten.Image, v game.EntityView) {
	x, y, r := float32(v.X), float32(v.Y), float32(v.Radius)

	sin, cos := math.Sincos(v.Angle)
	bx, by := x+float32(sin)*r*1.7, y-float32(cos)*r*1.7
	vector.StrokeLine(dst, x, y-r*0.3, bx, by, 3, color.RGBA{R: 40, G: 40, B: 40, A: 255}, true)

	vector.FillRect(dst, x-r, y-r*0.6, 2*r, r*0.6, color.RGBA{R: 128, G: 128, B: 128, A: 255}, false)
	vector.StrokeRect(dst, x-r, y-r*0.6, 2*r, r*0.6, 1, color.Black, false)

	barY := y + 3
	vector.StrokeLine(dst, x-r, barY, x+r, barY, 3, color.RGBA{R: 220, G: 30, B: 30, A: 255}, false)
	if v.HPRatio > 0 {
		vector.StrokeLine(dst, x-r, barY, x-r+2*r*float32(v.HPRatio), barY, 3, color.RGBA{R: 30, G: 60, B: 220, A: 255}, false)
	}
}

func drawObstacle(dst *ebiten.Image, v game.EntityView) {
	x, y, r := float32(v.X), float32(v.Y), float32(v.Radius)
	vector.FillRect(dst, x-r/4, y-r*2, r/2, r*2, color.RGBA{R: 90, G: 60, B: 30, A: 255}, false)
	vector.FillCircle(dst, x, y-r*2, r, color.RGBA{R: 40, G: 110, B: 40, A: 255}, true)
}

func (s *Screen) drawGameOver(dst *ebiten.Image, out game.MatchOutcome) {
	face := basicfont.Face7x13
	title := "GAME OVER"
	sub := out.Description
	if out.Result == game.ResultVictory {
		sub = out.Winner + " wins"
	}
	tb := text.BoundString(face, title)
	sb := text.BoundString(face, sub)

	boxW := float32(max(tb.Dx(), sb.Dx()) + 24)
	boxH := float32(tb.Dy() + sb.Dy() + 28)
	bx := float32(s.fieldW)/2 - boxW/2
	by := float32(s.fieldH)/3 - boxH/2
	vector.FillRect(dst, bx, by, boxW, boxH, color.RGBA{R: 0, G: 0, B: 0, A: 190}, false)
	vector.StrokeRect(dst, bx, by, boxW, boxH, 1, color.RGBA{R: 220, G: 60, B: 40, A: 255}, false)

	text.Draw(dst, title, face, s.fieldW/2-tb.Dx()/2, int(by)+8+tb.Dy(), color.RGBA{R: 255, G: 80, B: 60, A: 255})
	text.Draw(dst, sub, face, s.fieldW/2-sb.Dx()/2, int(by)+16+tb.Dy()+sb.Dy(), color.White)
}

func (s *Screen) drawHUD(screen *ebiten.Image, w *game.World) {
	speedStr := fmt.Sprintf("%gx", s.match.TickRate())
	if s.match.Paused() {
		speedStr = "PAUSED"
	}

	lines := []string{
		fmt.Sprintf("T=%d  SIM: %s  P=pause  ,/. speed", w.Turn(), speedStr),
	}
	for i, l := range w.Launchers() {
		keys := "W/S/A/D Q"
		if i == 1 {
			keys = "arrows Enter"
		}
		if i > 1 {
			keys = "-"
		}
		lines = append(lines, fmt.Sprintf("%-5s hp=%2d %-12s [%s]", l.Name, l.HP, l.SelectedWeapon().Name, keys))
	}
	lines = append(lines, "R=new  T=replay  C=copy report  H=hud")
	if s.match.Replaying() {
		lines = append(lines, "replaying recorded commands")
	}
	if s.status != "" {
		lines = append(lines, s.status)
	}

	const lineH = 12
	const charW = 6
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(borderWidth/hudScale + 2)
	by := float32(borderWidth/hudScale + 2)

	s.hudBuf.Clear()
	vector.FillRect(s.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 12, A: 190}, false)
	vector.StrokeRect(s.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 80, B: 110, A: 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(s.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(s.hudBuf, opts)
}

func (s *Screen) Layout(_, _ int) (int, int) {
	return s.width, s.height
}
