//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"flake-growth/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPadding = 12
	lineHeight   = 20
	buttonSize   = 16
	buttonGap    = 4
	groupGap     = 8
)

var (
	panelColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	groupColor  = color.RGBA{R: 150, G: 150, B: 165, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	buttonColor = color.RGBA{R: 54, G: 56, B: 64, A: 255}
)

type hudButton struct {
	rect  image.Rectangle
	ctrl  core.ParameterControl
	delta int
}

// HUD renders the parameter panel to the right of the simulation view. Rows
// with a matching control get -/+ buttons.
type HUD struct {
	sim      core.Sim
	params   core.ParameterProvider
	setter   core.IntParameterSetter
	controls map[string]core.ParameterControl

	width    int
	panel    *ebiten.Image
	pixel    *ebiten.Image
	snapshot core.ParameterSnapshot
	buttons  []hudButton
	offsetX  int
}

// NewHUD constructs a HUD for the provided simulation and panel width. It
// returns nil when the sim exposes no parameters.
func NewHUD(sim core.Sim, width int) *HUD {
	params, ok := sim.(core.ParameterProvider)
	if !ok || width <= 0 {
		return nil
	}
	h := &HUD{sim: sim, params: params, width: width, controls: map[string]core.ParameterControl{}}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.setter = setter
		if provider, ok := sim.(core.ParameterControlsProvider); ok {
			for _, ctrl := range provider.ParameterControls() {
				h.controls[ctrl.Key] = ctrl
			}
		}
	}
	return h
}

// Width returns the panel width, zero for a nil HUD.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the snapshot and applies button clicks.
func (h *HUD) Update(offsetX int) {
	if h == nil {
		return
	}
	h.offsetX = offsetX
	h.snapshot = h.params.Parameters()
	if h.setter == nil || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	pt := image.Pt(mx-h.offsetX, my)
	for _, b := range h.buttons {
		if !pt.In(b.rect) {
			continue
		}
		p, ok := h.snapshot.Lookup(b.ctrl.Key)
		if !ok {
			return
		}
		cur, err := strconv.Atoi(p.Value)
		if err != nil {
			return
		}
		if next := b.ctrl.Clamp(cur + b.delta); next != cur {
			h.setter.SetIntParameter(b.ctrl.Key, next)
			h.snapshot = h.params.Parameters()
		}
		return
	}
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)
	h.buttons = h.buttons[:0]

	face := basicfont.Face7x13
	y := panelPadding + lineHeight/2
	text.Draw(h.panel, strings.ToUpper(h.sim.Name()), face, panelPadding, y, titleColor)
	for _, g := range h.snapshot.Groups {
		y += lineHeight + groupGap
		text.Draw(h.panel, g.Name, face, panelPadding, y, groupColor)
		for _, p := range g.Params {
			y += lineHeight
			text.Draw(h.panel, p.Label, face, panelPadding+8, y, labelColor)
			right := h.width - panelPadding
			if ctrl, ok := h.controls[p.Key]; ok {
				plus := image.Rect(right-buttonSize, y-buttonSize+4, right, y+4)
				minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
				h.drawButton(plus, "+")
				h.drawButton(minus, "-")
				step := max(ctrl.Step, 1)
				h.buttons = append(h.buttons,
					hudButton{rect: minus, ctrl: ctrl, delta: -step},
					hudButton{rect: plus, ctrl: ctrl, delta: step})
				right = minus.Min.X - buttonGap
			}
			w := text.BoundString(face, p.Value).Dx()
			text.Draw(h.panel, p.Value, face, right-w, y, labelColor)
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(buttonColor)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()+b.Dy())/2
	text.Draw(h.panel, label, face, x, y, labelColor)
}
