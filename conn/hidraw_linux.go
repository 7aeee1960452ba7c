//go:build linux

package conn

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/broosa/ded/internal/ioctl"
)

const hidrawDevGlob = "/dev/hidraw*"

// Definitions from <linux/hidraw.h>
const (
	hidiocGRawInfo = 0x4803
	hidiocGRawName = 0x4804
)

type hidrawDevInfo struct {
	BusType uint32
	Vendor  int16
	Product int16
}

// HIDRaw is an open hidraw device node.
type HIDRaw struct {
	f    *os.File
	fd   uintptr
	path string
	info hidrawDevInfo
	name string
}

// OpenHIDRaw opens a hidraw device node, typically /dev/hidraw[0..x], for
// exclusive use. A device held by another process returns ErrBusy.
func OpenHIDRaw(path string) (*HIDRaw, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	c := &HIDRaw{
		f:    f,
		fd:   f.Fd(),
		path: path,
	}
	if err = syscall.Flock(int(c.fd), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if err == syscall.EWOULDBLOCK {
			return nil, ErrBusy
		}
		return nil, err
	}
	if err = ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &c.info, hidiocGRawInfo), &c.info); err != nil {
		_ = f.Close()
		return nil, err
	}

	var name [256]byte
	if err = ioctl.Do(c.fd, ioctl.Encode(ioctl.Read, uint16(len(name)), hidiocGRawName), &name); err == nil {
		c.name = cString(name[:])
	}

	return c, nil
}

func (c *HIDRaw) String() string {
	if c.name == "" {
		return fmt.Sprintf("HID %s (%04x:%04x)", c.path, c.VendorID(), c.ProductID())
	}
	return fmt.Sprintf("HID %s (%04x:%04x %s)", c.path, c.VendorID(), c.ProductID(), c.name)
}

// VendorID is the USB vendor id of the device.
func (c *HIDRaw) VendorID() uint16 {
	return uint16(c.info.Vendor)
}

// ProductID is the USB product id of the device.
func (c *HIDRaw) ProductID() uint16 {
	return uint16(c.info.Product)
}

func (c *HIDRaw) Close() error {
	return c.f.Close()
}

func (c *HIDRaw) Read(b []byte) (n int, err error) {
	return c.f.Read(b)
}

// Write sends one report, the first byte is the report id.
func (c *HIDRaw) Write(b []byte) (n int, err error) {
	return c.f.Write(b)
}

// FindHIDRaw returns the first hidraw device node with the given vendor and
// product id.
func FindHIDRaw(vendorID, productID uint16) (string, error) {
	names, err := filepath.Glob(hidrawDevGlob)
	if err != nil {
		return "", err
	}
	sort.Strings(names)

	for _, name := range names {
		info, err := readDevInfo(name)
		if err != nil {
			continue
		}
		if uint16(info.Vendor) == vendorID && uint16(info.Product) == productID {
			return name, nil
		}
	}
	return "", ErrNotFound
}

func readDevInfo(name string) (info hidrawDevInfo, err error) {
	f, err := os.Open(name)
	if err != nil {
		return
	}
	defer f.Close()
	err = ioctl.Do(f.Fd(), ioctl.Pointer(ioctl.Read, &info, hidiocGRawInfo), &info)
	return
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
