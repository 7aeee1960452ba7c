//go:build !linux

package conn

// HIDRaw is an open hidraw device node.
type HIDRaw struct{}

func OpenHIDRaw(_ string) (*HIDRaw, error) {
	return nil, ErrNotSupported
}

func FindHIDRaw(_, _ uint16) (string, error) {
	return "", ErrNotSupported
}

func (*HIDRaw) String() string              { return "HID (unsupported)" }
func (*HIDRaw) Close() error                { return ErrNotSupported }
func (*HIDRaw) Read(_ []byte) (int, error)  { return 0, ErrNotSupported }
func (*HIDRaw) Write(_ []byte) (int, error) { return 0, ErrNotSupported }
