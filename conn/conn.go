// Package conn implements raw access to USB HID devices through the kernel
// hidraw interface.
package conn

import "errors"

// Errors
var (
	ErrNotFound     = errors.New("conn: no matching HID device found")
	ErrBusy         = errors.New("conn: HID device is in use by another process")
	ErrNotSupported = errors.New("conn: hidraw is not supported on this platform")
)
