//go:build ebiten

package app

import (
	"log/slog"

	"forestfire/internal/render"
	"forestfire/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// statusLines is the tallest panel StatusLines produces.
const statusLines = 5

// Game adapts a Controller to the ebiten.Game interface.
type Game struct {
	ctrl    *Controller
	painter *render.GridPainter
	status  *ui.Status
	scale   int
}

// New constructs a Game for cfg.
func New(cfg Config, logger *slog.Logger) *Game {
	ctrl := NewController(cfg, logger)
	size := ctrl.Sim().Size()
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	return &Game{
		ctrl:    ctrl,
		painter: render.NewGridPainter(size.W, size.H),
		status:  ui.NewStatus(size.W * scale),
		scale:   scale,
	}
}

// Controller exposes the state machine, for persisting the final density.
func (g *Game) Controller() *Controller { return g.ctrl }

// WindowSize returns the outer size needed for the grid and status panel.
func (g *Game) WindowSize() (int, int) {
	return g.Layout(0, 0)
}

// Update handles per-frame input and advances the fire.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		g.ctrl.Ignite()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.ctrl.Regrow()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.ctrl.AdjustDensity(DensityStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.ctrl.AdjustDensity(-DensityStep)
	}

	g.ctrl.Advance()
	g.status.Update(g.ctrl.Report())
	return nil
}

// Draw renders the forest and the status panel below it.
func (g *Game) Draw(screen *ebiten.Image) {
	sim := g.ctrl.Sim()
	g.painter.Blit(screen, sim.Cells(), sim.Palette(), g.scale, 0, 0)
	g.status.Draw(screen, sim.Size().H*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.ctrl.Sim().Size()
	return s.W * g.scale, s.H*g.scale + ui.StatusHeight(statusLines)
}
