package ded

import (
	"fmt"
	"log"
	"sync"
)

// Device is a DED on an open connection.
type Device struct {
	c          Conn
	packetizer *Packetizer
	mu         sync.Mutex
	closed     bool
}

var blankCommands = sync.OnceValue(func() [2]Command {
	return Encode(BlankState())
})

// Open starts a session on the connection by sending the reset packet.
func Open(c Conn) (*Device, error) {
	return OpenWithLogger(c, nil)
}

// OpenWithLogger is like Open, with a logger for debug output.
func OpenWithLogger(c Conn, logger *log.Logger) (*Device, error) {
	d := &Device{
		c:          c,
		packetizer: NewPacketizer(c),
	}
	d.packetizer.Logger = logger
	if err := d.packetizer.Reset(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) String() string {
	return fmt.Sprintf("DED %dx%d on %s", Width, Height, d.c)
}

// Update sends the pixels of src to the display memory and refreshes the
// display.
func (d *Device) Update(src PixelSource) error {
	commands := Encode(src)
	return d.send(commands[:])
}

// Clear blanks the display.
func (d *Device) Clear() error {
	commands := blankCommands()
	return d.send(commands[:])
}

func (d *Device) send(commands []Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return &WriteError{Sequence: d.packetizer.Sequence(), Err: ErrClosed}
	}
	return d.packetizer.Send(commands...)
}

// Close the connection.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.c.Close()
}
