//go:build !linux

package framebuffer

import "github.com/broosa/ded"

// Framebuffer is unavailable on this platform.
type Framebuffer struct{}

func Open(_ string) (*Framebuffer, error) {
	return nil, ErrNotSupported
}

func (*Framebuffer) String() string               { return "framebuffer (unsupported)" }
func (*Framebuffer) Format() Format               { return Format{} }
func (*Framebuffer) Draw(_ *ded.State, _ *Config) {}
func (*Framebuffer) Close() error                 { return ErrNotSupported }
