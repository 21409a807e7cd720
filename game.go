package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/config"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
	"github.com/milk9111/mawarena/input"
	"github.com/milk9111/mawarena/scene"
)

// worldScale is screen pixels per world unit in the top-down view.
const worldScale = 0.5

const pauseHint = "ESC  resume        close window  exit"

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyW:      input.KeyW,
	ebiten.KeyA:      input.KeyA,
	ebiten.KeyS:      input.KeyS,
	ebiten.KeyD:      input.KeyD,
	ebiten.KeyShift:  input.KeyShift,
	ebiten.KeySpace:  input.KeySpace,
	ebiten.KeyDigit1: input.Key1,
	ebiten.KeyX:      input.KeyX,
	ebiten.KeyQ:      input.KeyQ,
	ebiten.KeyR:      input.KeyR,
	ebiten.KeyF:      input.KeyF,
	ebiten.KeyEscape: input.KeyEscape,
}

var mouseMap = map[ebiten.MouseButton]input.MouseButton{
	ebiten.MouseButtonLeft:  input.MouseLeft,
	ebiten.MouseButtonRight: input.MouseRight,
}

var archetypeColors = map[component.Archetype]color.NRGBA{
	component.ArchetypeMaria:    {R: 0x5e, G: 0xc8, B: 0xff, A: 0xff},
	component.ArchetypeGoblin:   {R: 0x6a, G: 0xd0, B: 0x4f, A: 0xff},
	component.ArchetypeKnight:   {R: 0xc0, G: 0xc0, B: 0xd0, A: 0xff},
	component.ArchetypeMinotaur: {R: 0xb0, G: 0x70, B: 0x30, A: 0xff},
	component.ArchetypeMaw:      {R: 0xd0, G: 0x30, B: 0x30, A: 0xff},
	component.ArchetypeGhost:    {R: 0xa0, G: 0x70, B: 0xff, A: 0x90},
}

type Game struct {
	arena    *scene.Arena
	cfg      config.Config
	logger   *zap.Logger
	reloader *scene.TuningReloader
	face     ebtext.Face
	dt       float64

	cursorX, cursorY int
	cursorSeen       bool
}

func NewGame(arena *scene.Arena, cfg config.Config, logger *zap.Logger) *Game {
	return &Game{
		arena:  arena,
		cfg:    cfg,
		logger: logger,
		face:   ebtext.NewGoXFace(basicfont.Face7x13),
		dt:     cfg.Sim.Dt(),
	}
}

func (g *Game) Update() error {
	if g.reloader != nil && g.reloader.Poll(g.arena) {
		g.logger.Info("prefabs reloaded")
	}
	g.pollInput()
	g.arena.Update(g.dt)
	return nil
}

func (g *Game) pollInput() {
	in := g.arena.Input()
	for ek, k := range keyMap {
		if inpututil.IsKeyJustPressed(ek) {
			in.KeyDown(k)
		}
		if inpututil.IsKeyJustReleased(ek) {
			in.KeyUp(k)
		}
	}
	for eb, b := range mouseMap {
		if inpututil.IsMouseButtonJustPressed(eb) {
			in.MouseDown(b)
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			in.MouseUp(b)
		}
	}

	x, y := ebiten.CursorPosition()
	if g.cursorSeen {
		in.MouseMove(float64(x-g.cursorX), float64(y-g.cursorY))
	}
	g.cursorX, g.cursorY, g.cursorSeen = x, y, true
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x18, G: 0x16, B: 0x1c, A: 0xff})

	snap := g.arena.Snapshot()
	centre := common.Vec3{X: snap.Player.Position.X, Z: snap.Player.Position.Z}
	w, h := float64(g.cfg.Window.Width), float64(g.cfg.Window.Height)
	project := func(p common.Vec3) (float32, float32) {
		return float32(w/2 - (p.X-centre.X)*worldScale), float32(h/2 - (p.Z-centre.Z)*worldScale)
	}

	if snap.Phase == scene.PhaseTemple {
		g.drawTemple(screen, project)
	}

	world := g.arena.World()
	ecs.ForEach2(world, component.ParticipantComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Participant, t *component.Transform) {
		clr, ok := archetypeColors[p.Archetype]
		if !ok {
			return
		}
		radius := float32(14)
		switch p.Class {
		case component.ClassBoss:
			radius = 30
		case component.ClassGhost:
			radius = 10
		}
		if anim, ok := ecs.Get(world, e, component.AnimatorComponent.Kind()); ok {
			if anim.Tint == component.TintHit {
				clr = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			}
			clr.A = uint8(float64(clr.A) * common.Clamp(anim.Alpha, 0, 1))
		}
		if f, ok := ecs.Get(world, e, component.FighterComponent.Kind()); ok && f.State == component.StateDead {
			clr.A /= 3
		}

		x, y := project(t.Position)
		vector.DrawFilledCircle(screen, x, y, radius, clr, true)
		fwd := common.Forward(t.Yaw)
		fx, fy := project(t.Position.Add(fwd.Scale(float64(radius) * 2 / worldScale)))
		vector.StrokeLine(screen, x, y, fx, fy, 2, clr, true)
	})

	g.drawHUD(screen, snap)
}

func (g *Game) drawTemple(screen *ebiten.Image, project func(common.Vec3) (float32, float32)) {
	temple := g.arena.Layout().Temple
	walls := temple.Walls
	minX, minY := project(common.Vec3{X: walls.MaxX, Z: walls.MaxZ})
	maxX, maxY := project(common.Vec3{X: walls.MinX, Z: walls.MinZ})
	wall := color.NRGBA{R: 0x50, G: 0x48, B: 0x40, A: 0xff}
	vector.StrokeRect(screen, minX, minY, maxX-minX, maxY-minY, 3, wall, true)

	px, py := project(temple.Portal.Position.Vec3())
	vector.StrokeCircle(screen, px, py, float32(temple.Portal.Radius*worldScale), 2, color.NRGBA{R: 0x90, G: 0x60, B: 0xff, A: 0xff}, true)
}

func (g *Game) text(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = 16
	ebtext.Draw(screen, s, g.face, op)
}

func (g *Game) drawHUD(screen *ebiten.Image, snap scene.Snapshot) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frame: %d    FPS: %.2f", snap.Frame, ebiten.ActualFPS()))

	p := snap.Player
	g.bar(screen, 20, 30, 240, 12, float64(p.HP)/float64(max(p.MaxHP, 1)), color.NRGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff})
	g.bar(screen, 20, 46, 240, 8, p.Mana/max(p.MaxMana, 1), color.NRGBA{R: 0x30, G: 0x70, B: 0xe0, A: 0xff})
	lines := []string{
		fmt.Sprintf("HP %d/%d  MP %.0f/%.0f", p.HP, p.MaxHP, p.Mana, p.MaxMana),
		fmt.Sprintf("Potions %d  State %s", p.Potions, p.State),
	}
	if p.Locked {
		lines = append(lines, "LOCKED")
	}
	g.text(screen, strings.Join(lines, "\n"), 20, 60, color.White)

	if b := snap.Boss; b != nil {
		w := float64(g.cfg.Window.Width)
		clr := color.NRGBA{R: 0xe0, G: 0xa0, B: 0x20, A: 0xff}
		if b.RageMode {
			clr = color.NRGBA{R: 0xff, G: 0x20, B: 0x20, A: 0xff}
		}
		g.bar(screen, float32(w/2-200), 24, 400, 14, float64(b.HP)/float64(max(b.MaxHP, 1)), clr)
		g.text(screen, b.Name, w/2-200, 42, color.White)
	}

	h := float64(g.cfg.Window.Height)
	switch {
	case snap.Outcome == scene.OutcomeVictory:
		g.text(screen, "MISSION COMPLETE", float64(g.cfg.Window.Width)/2-56, h/2, color.NRGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff})
	case snap.Outcome == scene.OutcomeDefeat:
		g.text(screen, "GAME OVER", float64(g.cfg.Window.Width)/2-32, h/2, color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff})
	case snap.Paused:
		g.text(screen, "GAME PAUSED", float64(g.cfg.Window.Width)/2-40, h/2, color.White)
		g.text(screen, pauseHint, float64(g.cfg.Window.Width)/2-ebtext.Advance(pauseHint, g.face)/2, h/2+24, color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff})
	}
}

func (g *Game) bar(screen *ebiten.Image, x, y, w, h float32, frac float64, clr color.Color) {
	vector.DrawFilledRect(screen, x, y, w, h, color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xc0}, true)
	vector.DrawFilledRect(screen, x, y, w*float32(common.Clamp(frac, 0, 1)), h, clr, true)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.Window.Width), float64(g.cfg.Window.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
