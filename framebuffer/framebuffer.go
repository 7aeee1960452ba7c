// Package framebuffer mirrors the display on the operating system's native
// framebuffer.
//
// This requires framebuffer device support in the operating system, it is
// meant for small screens mounted next to the panel. The framebuffer is
// opened with [Open]; [Framebuffer.Mirror] then redraws it whenever the
// display contents change.
package framebuffer

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/broosa/ded"
)

// Errors
var (
	ErrNotSupported = errors.New("framebuffer: not supported")
	ErrFormat       = errors.New("framebuffer: unsupported pixel format")
)

// BitField is the position of a color channel in a pixel.
type BitField struct {
	Offset uint32
	Length uint32
}

// Format describes a packed pixel format, it mirrors the variable screen
// info of Linux fbdev.
type Format struct {
	BitsPerPixel            uint32
	Red, Green, Blue, Alpha BitField
}

// Common formats.
var (
	RGB565   = Format{BitsPerPixel: 16, Red: BitField{11, 5}, Green: BitField{5, 6}, Blue: BitField{0, 5}}
	XRGB8888 = Format{BitsPerPixel: 32, Red: BitField{16, 8}, Green: BitField{8, 8}, Blue: BitField{0, 8}}
)

// Check returns ErrFormat if the format can't be drawn.
func (f Format) Check() error {
	switch f.BitsPerPixel {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per pixel", ErrFormat, f.BitsPerPixel)
	}
	for _, field := range []BitField{f.Red, f.Green, f.Blue, f.Alpha} {
		if field.Length > 8 || field.Offset+field.Length > f.BitsPerPixel {
			return fmt.Errorf("%w: channel %d:%d", ErrFormat, field.Offset, field.Length)
		}
	}
	return nil
}

// BytesPerPixel is the size of a pixel.
func (f Format) BytesPerPixel() int {
	return int(f.BitsPerPixel+7) / 8
}

// Pack converts a color to a pixel value.
func (f Format) Pack(c color.RGBA) uint32 {
	return pack(c.R, f.Red) | pack(c.G, f.Green) | pack(c.B, f.Blue) | pack(c.A, f.Alpha)
}

func pack(v uint8, field BitField) uint32 {
	if field.Length == 0 {
		return 0
	}
	return uint32(v>>(8-field.Length)) << field.Offset
}

// Put stores a pixel value at the start of b in native (little endian)
// byte order.
func (f Format) Put(b []byte, v uint32) {
	switch f.BytesPerPixel() {
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 3:
		b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
	case 4:
		binary.LittleEndian.PutUint32(b, v)
	}
}

// Render draws state into a pixel buffer of the given format, each display
// pixel scale by scale pixels, starting at the top left. Pixels that don't
// fit in width by height are clipped.
func Render(pix []byte, stride, width, height int, f Format, state *ded.State, scale int, on, off color.RGBA) {
	if scale < 1 {
		scale = 1
	}
	var (
		bpp    = f.BytesPerPixel()
		onPix  = make([]byte, bpp)
		offPix = make([]byte, bpp)
	)
	f.Put(onPix, f.Pack(on))
	f.Put(offPix, f.Pack(off))

	for y := 0; y < min(height, ded.Height*scale); y++ {
		row := pix[y*stride:]
		for x := 0; x < min(width, ded.Width*scale); x++ {
			src := offPix
			if state.IsPixelOn(y/scale, x/scale) {
				src = onPix
			}
			copy(row[x*bpp:], src)
		}
	}
}

// Config for the framebuffer mirror.
type Config struct {
	// Scale is the size of a display pixel in framebuffer pixels.
	Scale int

	// On and Off are the pixel colors.
	On, Off color.RGBA
}

// DefaultConfig is used if no config is passed to Mirror.
var DefaultConfig = Config{
	Scale: 2,
	On:    color.RGBA{R: 0x40, G: 0xff, B: 0x60, A: 0xff},
	Off:   color.RGBA{A: 0xff},
}

// Mirror redraws the framebuffer at rate whenever the screen changes, until
// ctx is done.
func (fb *Framebuffer) Mirror(ctx context.Context, screen *ded.Screen, rate physic.Frequency, config *Config) error {
	if config == nil {
		config = &DefaultConfig
	}
	if rate <= 0 {
		rate = 10 * physic.Hertz
	}
	t := time.NewTicker(rate.Period())
	defer t.Stop()

	var last uint64
	for first := true; ; first = false {
		if state, version := screen.Load(); first || version != last {
			fb.Draw(state, config)
			last = version
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
