package ded

import (
	"errors"
	"fmt"

	"github.com/broosa/ded/conn"
)

// Conn is the connection interface for communicating with the hardware.
type Conn interface {
	String() string

	// Write one report to the device.
	Write([]byte) (int, error)

	// Close the connection.
	Close() error
}

// HIDConfig describes how to find the USB HID device.
type HIDConfig struct {
	// Path of the hidraw device node, leave empty to search for the device
	// by vendor and product id.
	Path string

	// VendorID is the USB vendor id.
	VendorID uint16

	// ProductID is the USB product id.
	ProductID uint16
}

// DefaultHIDConfig are the default configuration values.
var DefaultHIDConfig = HIDConfig{
	VendorID:  0x4098,
	ProductID: 0xbf06,
}

// DeviceError is returned when the device can't be found or opened. It is
// fatal to the session, it is up to the caller to try again.
type DeviceError struct {
	Path string
	Err  error
}

func (err *DeviceError) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("ded: device unavailable: %v", err.Err)
	}
	return fmt.Sprintf("ded: device %s unavailable: %v", err.Path, err.Err)
}

func (err *DeviceError) Unwrap() error {
	return err.Err
}

// OpenHID opens the ICP USB HID device with exclusive access.
func OpenHID(config *HIDConfig) (Conn, error) {
	c := DefaultHIDConfig
	if config != nil {
		c.Path = config.Path
		if config.VendorID != 0 || config.ProductID != 0 {
			c.VendorID, c.ProductID = config.VendorID, config.ProductID
		}
	}

	path := c.Path
	if path == "" {
		var err error
		if path, err = conn.FindHIDRaw(c.VendorID, c.ProductID); err != nil {
			if errors.Is(err, conn.ErrNotFound) {
				err = ErrDeviceNotFound
			}
			return nil, &DeviceError{Err: err}
		}
	}

	hid, err := conn.OpenHIDRaw(path)
	if err != nil {
		return nil, &DeviceError{Path: path, Err: err}
	}
	if debug {
		logf(nil, "ded: opened %s", hid)
	}
	return hid, nil
}
