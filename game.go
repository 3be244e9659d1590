package main

import (
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/engine/app"
	"github.com/milk9111/engine/config"
	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/render"
	"golang.org/x/image/colornames"
)

type Game struct {
	cfg      config.Launch
	runner   *app.Runner
	renderer *render.Renderer

	scene   ecs.Scene
	pauseUI *ebitenui.UI
	quit    bool
}

func NewGame(cfg config.Launch, runner *app.Runner, scene ecs.Scene) *Game {
	g := &Game{
		cfg:      cfg,
		runner:   runner,
		renderer: &render.Renderer{Background: colornames.Midnightblue},
		scene:    scene,
	}
	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) Paused() bool { return g.runner.Paused() }

func (g *Game) SetPaused(paused bool) { g.runner.SetPaused(paused) }

func (g *Game) Quit() { g.quit = true }

// Restart replaces the active world with a fresh copy of the scene.
func (g *Game) Restart() {
	g.runner.SwitchWorld(g.scene)
	g.SetPaused(false)
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.SetPaused(!g.Paused())
	}
	if g.Paused() {
		g.pauseUI.Update()
	}
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = g.cfg.TPS
	}
	return g.runner.Tick(time.Second / time.Duration(tps))
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(g.runner.Active(), screen)
	g.drawOverlay(g.runner.Global(), screen)
	if g.Paused() {
		g.pauseUI.Draw(screen)
	}
}

// drawOverlay draws w's sprites and drawers over the active world without
// clearing the screen.
func (g *Game) drawOverlay(w *ecs.World, screen *ebiten.Image) {
	overlay := render.Renderer{}
	overlay.Draw(w, screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.Width), float64(g.cfg.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
