//go:build !headless

package monitor

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/broosa/ded"
)

const statusHeight = 16

// WindowConfig configures the window mirror.
type WindowConfig struct {
	// Title of the window.
	Title string

	// Scale is the size of a display pixel in window pixels.
	Scale int

	// On and Off are the pixel colors.
	On, Off color.RGBA

	// Status returns the text of the status line, optional.
	Status func() string
}

// DefaultWindowConfig is used if no config is passed to NewWindow.
var DefaultWindowConfig = WindowConfig{
	Title: "DED",
	Scale: 4,
	On:    DefaultOnColor,
	Off:   DefaultOffColor,
}

// Window mirrors the display in a desktop window.
type Window struct {
	screen  *ded.Screen
	config  WindowConfig
	ctx     context.Context
	image   *ebiten.Image
	pix     []byte
	version uint64
}

// NewWindow returns a window mirror of screen.
func NewWindow(screen *ded.Screen, config *WindowConfig) *Window {
	if config == nil {
		config = &DefaultWindowConfig
	}
	w := &Window{
		screen: screen,
		config: *config,
		pix:    make([]byte, ded.Width*ded.Height*4),
	}
	if w.config.Scale < 1 {
		w.config.Scale = DefaultWindowConfig.Scale
	}
	if w.config.On == (color.RGBA{}) && w.config.Off == (color.RGBA{}) {
		w.config.On, w.config.Off = DefaultOnColor, DefaultOffColor
	}
	return w
}

// Run opens the window and blocks until it is closed or ctx is done. It must
// be called from the main goroutine.
func (w *Window) Run(ctx context.Context) error {
	w.ctx = ctx
	width, height := w.Layout(0, 0)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(w.config.Title)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetTPS(30)
	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return ctx.Err()
}

func (w *Window) Update() error {
	if w.ctx != nil && w.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

func (w *Window) Draw(dst *ebiten.Image) {
	if w.image == nil {
		w.image = ebiten.NewImage(ded.Width, ded.Height)
	}

	state, version := w.screen.Load()
	if version != w.version || version == 0 {
		FillRGBA(w.pix, state, w.config.On, w.config.Off)
		w.image.WritePixels(w.pix)
		w.version = version
	}

	op := new(ebiten.DrawImageOptions)
	op.GeoM.Scale(float64(w.config.Scale), float64(w.config.Scale))
	dst.DrawImage(w.image, op)

	if w.config.Status != nil {
		ebitenutil.DebugPrintAt(dst, w.config.Status(), 2, ded.Height*w.config.Scale)
	}
}

func (w *Window) Layout(_, _ int) (int, int) {
	height := ded.Height * w.config.Scale
	if w.config.Status != nil {
		height += statusHeight
	}
	return ded.Width * w.config.Scale, height
}

// Interface checks.
var (
	_ ebiten.Game = (*Window)(nil)
)
