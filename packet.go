package ded

import (
	"errors"
	"fmt"
	"io"
	"log"
)

// Packet framing.
const (
	// PacketSize is the size of a HID report.
	PacketSize = 64

	// PacketHeaderSize is the size of the report header: report id, op
	// type, sequence number and payload length.
	PacketHeaderSize = 4

	// PacketPayloadSize is the maximum payload per report.
	PacketPayloadSize = PacketSize - PacketHeaderSize

	// ReportID is the HID report id of every packet.
	ReportID = 0xf0
)

// Packet op types.
const (
	OpData  = 0x00
	OpReset = 0x02
)

// Errors
var (
	ErrPacketSize = errors.New("ded: packet payload too large")
	ErrBadPacket  = errors.New("ded: malformed packet")
)

// Packet is one HID report.
type Packet struct {
	Op       byte
	Sequence byte
	Payload  []byte
}

// MarshalBinary returns the PacketSize byte frame. The payload is left
// aligned and the frame is padded with zeroes.
func (p Packet) MarshalBinary() ([]byte, error) {
	if len(p.Payload) > PacketPayloadSize {
		return nil, ErrPacketSize
	}
	b := make([]byte, PacketSize)
	b[0] = ReportID
	b[1] = p.Op
	b[2] = p.Sequence
	b[3] = byte(len(p.Payload))
	copy(b[PacketHeaderSize:], p.Payload)
	return b, nil
}

// ParsePacket decodes a PacketSize byte frame.
func ParsePacket(b []byte) (Packet, error) {
	if len(b) != PacketSize || b[0] != ReportID || int(b[3]) > PacketPayloadSize {
		return Packet{}, ErrBadPacket
	}
	return Packet{
		Op:       b[1],
		Sequence: b[2],
		Payload:  append([]byte(nil), b[PacketHeaderSize:PacketHeaderSize+int(b[3])]...),
	}, nil
}

// WriteError is returned when writing a packet to the connection fails.
// The remaining packets of the batch are not sent.
type WriteError struct {
	// Sequence number of the failed packet.
	Sequence byte

	// Sent is the number of packets of the batch that were written.
	Sent int

	Err error
}

func (err *WriteError) Error() string {
	return fmt.Sprintf("ded: error writing packet %d (after %d packets): %v", err.Sequence, err.Sent, err.Err)
}

func (err *WriteError) Unwrap() error {
	return err.Err
}

// Packetizer splits commands into packets. It owns the sequence counter of
// one connection, so there must be exactly one Packetizer per connection.
// A Packetizer is not safe for concurrent use.
type Packetizer struct {
	w      io.Writer
	seq    byte
	buf    []byte
	frame  [PacketSize]byte
	Logger *log.Logger
}

// NewPacketizer returns a packetizer writing to w. The first data packet
// has sequence number 1.
func NewPacketizer(w io.Writer) *Packetizer {
	return &Packetizer{
		w:   w,
		seq: 1,
	}
}

// Sequence returns the sequence number of the next data packet.
func (p *Packetizer) Sequence() byte {
	return p.seq
}

// Reset writes the reset packet that starts a session. It has no sequence
// number and doesn't advance the counter.
func (p *Packetizer) Reset() error {
	if err := p.write(OpReset, 0, []byte{0x00}); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// Send writes the commands as one byte stream, split into consecutive
// packets. Packets are written strictly in order and a failed write aborts
// the batch; nothing is retried.
func (p *Packetizer) Send(commands ...Command) (err error) {
	p.buf = p.buf[:0]
	for _, command := range commands {
		if p.buf, err = command.AppendBinary(p.buf); err != nil {
			return
		}
	}
	return p.SendBytes(p.buf)
}

// SendBytes splits data into packets and writes them.
func (p *Packetizer) SendBytes(data []byte) error {
	if debug {
		logf(p.Logger, "ded: write %d bytes of data in %d packets", len(data), PacketCount(len(data)))
	}
	for sent := 0; len(data) > 0; sent++ {
		n := min(len(data), PacketPayloadSize)
		seq := p.seq
		p.seq++
		if err := p.write(OpData, seq, data[:n]); err != nil {
			return &WriteError{Sequence: seq, Sent: sent, Err: err}
		}
		data = data[n:]
	}
	return nil
}

func (p *Packetizer) write(op, seq byte, payload []byte) error {
	p.frame = [PacketSize]byte{ReportID, op, seq, byte(len(payload))}
	copy(p.frame[PacketHeaderSize:], payload)
	n, err := p.w.Write(p.frame[:])
	if err != nil {
		return err
	}
	if n != PacketSize {
		return ErrShortWrite
	}
	return nil
}

// PacketCount is the number of packets needed for n bytes of data.
func PacketCount(n int) int {
	return (n + PacketPayloadSize - 1) / PacketPayloadSize
}
