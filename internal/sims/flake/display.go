package flake

import "image/color"

const (
	shadeLayers = 15
	shadeDirt   = shadeLayers + 1
)

var flakePalette = buildFlakePalette()

// Palette exposes the colors used for rendering the view: background, one
// shade per layer from the bottom of the flake upwards, contaminants.
func (f *Flake) Palette() []color.RGBA { return flakePalette }

// layerShade returns the palette index of layer k counted from the lowest
// occupied layer. Layers above the last shade share it.
func layerShade(k, bottom uint16) uint8 {
	return uint8(min(int(k-bottom), shadeLayers-1)) + 1
}

func buildFlakePalette() []color.RGBA {
	deep := color.RGBA{R: 120, G: 80, B: 10, A: 255}
	pale := color.RGBA{R: 255, G: 230, B: 140, A: 255}
	palette := make([]color.RGBA, shadeDirt+1)
	palette[0] = color.RGBA{R: 12, G: 12, B: 18, A: 255}
	for n := 1; n <= shadeLayers; n++ {
		palette[n] = blend(deep, pale, float64(n-1)/(shadeLayers-1))
	}
	palette[shadeDirt] = color.RGBA{R: 90, G: 110, B: 140, A: 255}
	return palette
}

func blend(a, b color.RGBA, w float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x)*(1-w) + float64(y)*w + 0.5) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
