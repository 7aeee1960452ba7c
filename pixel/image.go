package pixel

import (
	"image"
	"image/color"

	"github.com/broosa/ded/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by most image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// MonoImage is a 1-bit per pixel monochrome image.
//
// Rows are stored top to bottom, each row takes Stride bytes and the left
// most pixel of every byte is stored in the least significant bit. This is
// the display memory layout of the DED.
type MonoImage struct {
	Buffer
}

// MonoStride is the number of bytes a MonoImage row of w pixels takes.
func MonoStride(w int) int {
	return ((w + 7) & ^7) / 8 // round up to whole bytes
}

func NewMonoImage(w, h int) *MonoImage {
	stride := MonoStride(w)
	return &MonoImage{
		Buffer: makeBuffer(w, h, stride, stride*h),
	}
}

// NewMonoImageFrom wraps packed pixel data. The data is used as-is, it must
// hold at least MonoStride(w)*h bytes.
func NewMonoImageFrom(w, h int, pix []byte) *MonoImage {
	return &MonoImage{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    pix,
			Stride: MonoStride(w),
		},
	}
}

func (p *MonoImage) ColorModel() color.Model {
	return MonoModel
}

func (p *MonoImage) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)/8
}

// IsOn reports if the pixel at (x, y) is lit; pixels out of bounds are off.
func (p *MonoImage) IsOn(x, y int) bool {
	if !(image.Point{x, y}).In(p.Rect) {
		return false
	}
	return p.Pix[p.PixOffset(x, y)]&(1<<uint((x-p.Rect.Min.X)%8)) != 0
}

func (p *MonoImage) At(x, y int) color.Color {
	if !(image.Point{x, y}).In(p.Rect) {
		return color.Transparent
	}
	if p.IsOn(x, y) {
		return On
	}
	return Off
}

// SetOn changes the pixel at (x, y) without a color model conversion.
func (p *MonoImage) SetOn(x, y int, on bool) {
	if !(image.Point{x, y}).In(p.Rect) {
		return
	}

	var (
		index = p.PixOffset(x, y)
		bit   = byte(1) << uint((x-p.Rect.Min.X)%8)
	)
	if on {
		p.Pix[index] |= bit
	} else {
		p.Pix[index] &^= bit
	}
}

func (p *MonoImage) Set(x, y int, c color.Color) {
	p.SetOn(x, y, monoModel(c).(Mono).On)
}

func (p *MonoImage) Fill(c color.Color) {
	var value byte
	if monoModel(c).(Mono).On {
		value = 0xff
	}
	for i := range p.Pix {
		p.Pix[i] = value
	}
	p.clearPadding()
}

// Invert flips every pixel.
func (p *MonoImage) Invert() {
	for i := range p.Pix {
		p.Pix[i] = ^p.Pix[i]
	}
	p.clearPadding()
}

// clearPadding zeroes the unused bits at the end of each row.
func (p *MonoImage) clearPadding() {
	w := p.Rect.Dx()
	if w%8 == 0 || p.Stride == 0 {
		return
	}
	mask := byte(1)<<uint(w%8) - 1
	for y := 0; y < p.Rect.Dy(); y++ {
		p.Pix[y*p.Stride+p.Stride-1] &= mask
	}
}

// Interface checks.
var (
	_ Image = (*MonoImage)(nil)
)
