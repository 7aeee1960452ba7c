package ded

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/broosa/ded/pixel"
)

// CommandType identifies a DED command.
type CommandType uint32

// Supported commands.
const (
	WriteDisplayMem CommandType = 0x102 // Write display memory
	RefreshDisplay  CommandType = 0x103 // Show display memory
)

func (t CommandType) String() string {
	switch t {
	case WriteDisplayMem:
		return "write display memory"
	case RefreshDisplay:
		return "refresh display"
	default:
		return fmt.Sprintf("command %#x", uint32(t))
	}
}

const (
	// DefaultProductID is the product identifier sent with every command.
	DefaultProductID = 0xbf06

	// TimestampImmediate tells the device to apply a command immediately.
	TimestampImmediate = 0xffff

	// CommandHeaderSize is the size of the command header: product id,
	// command type, timestamp, one unused byte and the data length.
	CommandHeaderSize = 4 + 4 + 4 + 1 + 4

	// displayMemOffset is the number of reserved bytes in front of the
	// bitmap in a WriteDisplayMem command.
	displayMemOffset = 4
)

// DisplayMemSize is the payload size of a WriteDisplayMem command.
const DisplayMemSize = Height*Width/8 + displayMemOffset

// Errors
var (
	ErrShortCommand = errors.New("ded: command is truncated")
)

// Command is a DED device command.
type Command struct {
	ProductID uint32
	Type      CommandType
	Timestamp uint32
	Data      []byte
}

// Len is the encoded size of the command.
func (c Command) Len() int {
	return CommandHeaderSize + len(c.Data)
}

// AppendBinary appends the wire encoding of the command to b. All header
// fields are little endian, byte 12 of the header is always zero.
func (c Command) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint32(b, c.ProductID)
	b = binary.LittleEndian.AppendUint32(b, uint32(c.Type))
	b = binary.LittleEndian.AppendUint32(b, c.Timestamp)
	b = append(b, 0x00)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(c.Data)))
	return append(b, c.Data...), nil
}

// MarshalBinary returns the wire encoding of the command.
func (c Command) MarshalBinary() ([]byte, error) {
	return c.AppendBinary(make([]byte, 0, c.Len()))
}

func (c Command) String() string {
	return fmt.Sprintf("%s (%d bytes)", c.Type, len(c.Data))
}

// DecodeCommand decodes one command from b and returns it together with the
// number of bytes consumed.
func DecodeCommand(b []byte) (Command, int, error) {
	if len(b) < CommandHeaderSize {
		return Command{}, 0, ErrShortCommand
	}
	size := int(binary.LittleEndian.Uint32(b[13:]))
	if len(b)-CommandHeaderSize < size {
		return Command{}, 0, ErrShortCommand
	}
	c := Command{
		ProductID: binary.LittleEndian.Uint32(b[0:]),
		Type:      CommandType(binary.LittleEndian.Uint32(b[4:])),
		Timestamp: binary.LittleEndian.Uint32(b[8:]),
		Data:      append([]byte(nil), b[CommandHeaderSize:CommandHeaderSize+size]...),
	}
	return c, CommandHeaderSize + size, nil
}

// PixelSource provides pixel values for the encoder.
type PixelSource interface {
	// IsPixelOn reports if the pixel at (row, col) is lit.
	IsPixelOn(row, col int) bool
}

// Encode renders a pixel source into the two commands that update the
// display: write display memory followed by refresh display.
func Encode(src PixelSource) [2]Command {
	bitmap := pixel.NewMonoImage(Width, Height)
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			if src.IsPixelOn(row, col) {
				bitmap.SetOn(col, row, true)
			}
		}
	}

	data := make([]byte, displayMemOffset, DisplayMemSize)
	data = append(data, bitmap.Pix...)

	return [2]Command{
		{
			ProductID: DefaultProductID,
			Type:      WriteDisplayMem,
			Timestamp: TimestampImmediate,
			Data:      data,
		},
		{
			ProductID: DefaultProductID,
			Type:      RefreshDisplay,
			Timestamp: TimestampImmediate,
			Data:      []byte{0x00},
		},
	}
}

// UnpackDisplayMem returns the bitmap carried by a WriteDisplayMem payload.
func UnpackDisplayMem(data []byte) (*pixel.MonoImage, error) {
	if len(data) != DisplayMemSize {
		return nil, fmt.Errorf("ded: display memory is %d bytes, expected %d: %w", len(data), DisplayMemSize, ErrShortCommand)
	}
	pix := append([]byte(nil), data[displayMemOffset:]...)
	return pixel.NewMonoImageFrom(Width, Height, pix), nil
}
