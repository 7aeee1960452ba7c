// Package monitor mirrors the display contents on the host, for use without
// the hardware or next to it.
//
// Monitors are passive readers of a [ded.Screen], they never block the
// update loop.
package monitor

import (
	"errors"
	"image/color"

	"github.com/broosa/ded"
)

// Errors
var (
	ErrNoWindow = errors.New("monitor: built without window support")
)

// Default colors of lit and unlit pixels.
var (
	DefaultOnColor  = color.RGBA{R: 0x40, G: 0xff, B: 0x60, A: 0xff}
	DefaultOffColor = color.RGBA{R: 0x08, G: 0x10, B: 0x08, A: 0xff}
)

// FillRGBA writes the pixels of state to pix as 8-bit RGBA, ded.Width pixels
// per row. pix must hold at least ded.Width*ded.Height*4 bytes.
func FillRGBA(pix []byte, state *ded.State, on, off color.RGBA) {
	var i int
	for row := 0; row < ded.Height; row++ {
		for col := 0; col < ded.Width; col++ {
			c := off
			if state.IsPixelOn(row, col) {
				c = on
			}
			pix[i+0] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
			pix[i+3] = c.A
			i += 4
		}
	}
}
