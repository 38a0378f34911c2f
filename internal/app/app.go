//go:build ebiten

package app

import (
	"image/color"
	"log"
	"time"

	"flake-growth/internal/core"
	"flake-growth/internal/render"
	"flake-growth/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

type probCycler interface {
	NextProbList()
}

type shapeCycler interface {
	NextSeedShape()
}

// faultEditor moves stacking faults of a running simulation.
type faultEditor interface {
	AddFaultAbove() error
	AddFaultBelow() error
	ResetFaults() error
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	pacer   *core.FixedStep
	palette []color.RGBA

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg *Config) *Game {
	size := sim.Size()
	g := &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, cfg.Scale),
		hud:     ui.NewHUD(sim, cfg.HUD),
		pacer:   core.NewFixedStep(cfg.Rate),
		palette: render.Grayscale,
		scale:   max(cfg.Scale, 1),
		seed:    cfg.Seed,
	}
	if p, ok := sim.(paletteProvider); ok {
		g.palette = p.Palette()
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if c, ok := g.sim.(probCycler); ok {
			c.NextProbList()
		}
	}

	if c, ok := g.sim.(shapeCycler); ok && inpututil.IsKeyJustPressed(ebiten.KeyG) {
		c.NextSeedShape()
		g.Reset(g.seed)
	}
	if fe, ok := g.sim.(faultEditor); ok {
		g.editFaults(fe)
	}

	g.overlay.Update()
	g.hud.Update(g.viewWidth())

	steps := g.pacer.Due()
	if g.paused {
		steps = 0
	}
	if g.tickOnce {
		steps = max(steps, 1)
		g.tickOnce = false
	}
	for range steps {
		g.sim.Step()
	}
	return nil
}

func (g *Game) editFaults(fe faultEditor) {
	var err error
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		err = fe.AddFaultAbove()
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		err = fe.AddFaultBelow()
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		err = fe.ResetFaults()
	}
	if err != nil {
		log.Printf("stacking faults: %v", err)
	}
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.viewWidth(), g.sim.Size().H*g.scale)
}

func (g *Game) viewWidth() int { return g.sim.Size().W * g.scale }

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.viewWidth() + g.hud.Width(), g.sim.Size().H * g.scale
}
