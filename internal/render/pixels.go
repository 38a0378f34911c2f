// Package render turns view cells into pixels.
package render

import "image/color"

// fillPaletteRGBA converts cell values into RGBA pixels using a palette.
// Values beyond the palette take its last color. When the palette is empty
// the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		col := palette[min(int(c), last)]
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Grayscale is the fallback palette for sims without colors of their own:
// zero is black and every other value white.
var Grayscale = []color.RGBA{
	{A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}
