//go:build headless

package monitor

import (
	"context"
	"image/color"

	"github.com/broosa/ded"
)

// WindowConfig configures the window mirror.
type WindowConfig struct {
	Title   string
	Scale   int
	On, Off color.RGBA
	Status  func() string
}

// DefaultWindowConfig is used if no config is passed to NewWindow.
var DefaultWindowConfig = WindowConfig{
	Title: "DED",
	Scale: 4,
	On:    DefaultOnColor,
	Off:   DefaultOffColor,
}

// Window is unavailable in headless builds.
type Window struct{}

func NewWindow(_ *ded.Screen, _ *WindowConfig) *Window {
	return new(Window)
}

// Run returns ErrNoWindow.
func (*Window) Run(_ context.Context) error {
	return ErrNoWindow
}
