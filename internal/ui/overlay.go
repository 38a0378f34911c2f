//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"flake-growth/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type outlineProvider interface {
	Outline() [6][2]float64
}

var outlineColor = color.RGBA{R: 80, G: 200, B: 255, A: 220}

// Overlay draws the hexagon approximation of the flake on top of the view.
// Key H toggles it.
type Overlay struct {
	sim   core.Sim
	scale int
	show  bool
	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: max(scale, 1), show: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the toggle key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.show = !o.show
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	provider, ok := o.sim.(outlineProvider)
	if !o.show || !ok {
		return
	}
	pts := provider.Outline()
	s := float64(o.scale)
	for n := range pts {
		a, b := pts[n], pts[(n+1)%len(pts)]
		o.drawLine(screen, a[0]*s, a[1]*s, b[0]*s, b[1]*s, 1.5, outlineColor)
	}
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
