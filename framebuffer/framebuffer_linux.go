package framebuffer

import (
	"fmt"
	"os"
	"syscall"

	"github.com/broosa/ded"
	"github.com/broosa/ded/internal/ioctl"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// Framebuffer is a memory mapped Linux framebuffer device (fbdev).
type Framebuffer struct {
	name       string
	f          *os.File
	pix        []byte
	stride     int
	format     Format
	info       linuxFixScreenInfo
	screenInfo linuxVarScreenInfo
}

// Open a Linux framebuffer device by name, typically /dev/fb[0..x].
func Open(name string) (*Framebuffer, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	fb := &Framebuffer{
		name: name,
		f:    f,
	}
	if err = ioctl.Do(f.Fd(), fbioGetFScreenInfo, &fb.info); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Request virtual screen info.
	if err = ioctl.Do(f.Fd(), fbioGetVScreenInfo, &fb.screenInfo); err != nil {
		_ = f.Close()
		return nil, err
	}
	fb.format = linuxParseFormat(&fb.screenInfo)
	if err = fb.format.Check(); err != nil {
		_ = f.Close()
		return nil, err
	}
	fb.stride = int(fb.info.LineLength)

	// Map pixel buffer.
	if fb.pix, err = syscall.Mmap(int(f.Fd()), 0, int(fb.info.SmemLen), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED); err != nil {
		_ = f.Close()
		return nil, err
	}
	return fb, nil
}

func (fb *Framebuffer) String() string {
	return fmt.Sprintf("framebuffer %s %dx%d %d bpp", fb.name, fb.screenInfo.Xres, fb.screenInfo.Yres, fb.format.BitsPerPixel)
}

// Format of the framebuffer pixels.
func (fb *Framebuffer) Format() Format {
	return fb.format
}

// Draw the display state in the top left corner.
func (fb *Framebuffer) Draw(state *ded.State, config *Config) {
	if config == nil {
		config = &DefaultConfig
	}
	Render(fb.pix, fb.stride, int(fb.screenInfo.Xres), int(fb.screenInfo.Yres), fb.format, state, config.Scale, config.On, config.Off)
}

// Close the framebuffer device.
func (fb *Framebuffer) Close() error {
	if err := syscall.Munmap(fb.pix); err != nil {
		return err
	}
	return fb.f.Close()
}

type linuxFixScreenInfo struct {
	ID           [16]byte  // Identification string eg "TT Builtin"
	SmemStart    uintptr   // Start of frame buffer mem
	SmemLen      uint32    // Length of frame buffer mem
	Type         uint32    // FB_TYPE_
	TypeAux      uint32    // Interleave for interleaved Planes
	Visual       uint32    // FB_VISUAL_
	Xpanstep     uint16    // Zero if no hardware panning
	Ypanstep     uint16    // Zero if no hardware panning
	Ywrapstep    uint16    // Zero if no hardware ywrap
	LineLength   uint32    // Length of a line in bytes
	MmioStart    uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen      uint32    // Length of Memory Mapped I/O
	Accel        uint32    // Type of acceleration available
	Capabilities uint16    // See FB_CAP_*
	Reserved     [2]uint16 // Reserved for future compatibility
}

// linuxBitField for the color
type linuxBitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// linuxVarScreenInfo contains device independent changeable information about a frame buffer device and a specific video mode.
type linuxVarScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha linuxBitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

func linuxParseFormat(info *linuxVarScreenInfo) Format {
	field := func(f linuxBitField) BitField {
		return BitField{Offset: f.Offset, Length: f.Length}
	}
	return Format{
		BitsPerPixel: info.BitsPerPixel,
		Red:          field(info.Red),
		Green:        field(info.Green),
		Blue:         field(info.Blue),
		Alpha:        field(info.Alpha),
	}
}
