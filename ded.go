// Package ded drives the DED (Data Entry Display) of an ICP USB HID panel.
//
// The package renders five lines of 24 characters into the 200x65 pixel
// display memory using a fixed bitmap font, encodes the bitmap into device
// commands and fragments those commands into sequenced 64 byte HID reports.
//
// A typical session opens the HID connection, wraps it in a [Device] and
// hands the device to a [Runner] together with a telemetry source:
//
//	c, err := ded.OpenHID(nil)
//	if err != nil {
//		return err
//	}
//	dev, err := ded.Open(c)
//	if err != nil {
//		return err
//	}
//	defer dev.Close()
//	return ded.NewRunner(source, dev, nil).Run(ctx)
package ded

import (
	"errors"
	"log"
	"os"
)

var debug bool

func init() {
	debug = os.Getenv("DED_DEBUG") != ""
}

// Display geometry.
const (
	// Width of the display in pixels.
	Width = 200

	// Height of the display in pixels.
	Height = 65

	// Rows of text.
	Rows = 5

	// Columns of text per row.
	Columns = 24
)

// Errors
var (
	ErrDeviceNotFound = errors.New("ded: ICP USB HID device not found")
	ErrShortWrite     = errors.New("ded: short write")
	ErrClosed         = errors.New("ded: device is closed")
)

func logf(l *log.Logger, format string, args ...any) {
	if l == nil {
		l = log.Default()
	}
	l.Printf(format, args...)
}
