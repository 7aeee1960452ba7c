// Package modbus implements a telemetry source that polls the DED text from
// a Modbus TCP server.
//
// Register map, relative to the configured start address:
//
//	0        live flag, non-zero while the simulation is running
//	1..60    text, 12 registers per row, two characters per register
//	61..120  inversion markers, same layout as the text
//
// Characters are stored high byte first.
package modbus

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/broosa/ded/telemetry"
)

const (
	registersPerRow = telemetry.Columns / 2
	textRegisters   = telemetry.Rows * registersPerRow

	// RegisterCount is the number of holding registers read per poll.
	RegisterCount = 1 + 2*textRegisters
)

// Errors
var (
	ErrShortRead = errors.New("modbus: short register read")
)

// Config is the Modbus source configuration.
type Config struct {
	// Endpoint is the host:port of the Modbus TCP server.
	Endpoint string

	// UnitID is the Modbus slave id.
	UnitID uint8

	// Address of the first holding register.
	Address uint16

	// Timeout for connecting and each request.
	Timeout time.Duration

	// Logger for read errors, defaults to the standard logger.
	Logger *log.Logger
}

// DefaultTimeout is used when Config.Timeout is zero.
const DefaultTimeout = 500 * time.Millisecond

// RegisterReader reads holding registers, it is implemented by modbus.Client.
type RegisterReader interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
}

// Source polls the DED text from a Modbus server. It is safe for concurrent
// use, requests are serialized.
type Source struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  RegisterReader
	address uint16
	logger  *log.Logger
	failed  bool
}

// Dial connects to the Modbus TCP server.
func Dial(config Config) (*Source, error) {
	if config.Endpoint == "" {
		return nil, errors.New("modbus: endpoint required")
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	h := modbus.NewTCPClientHandler(config.Endpoint)
	h.Timeout = config.Timeout
	h.SlaveId = config.UnitID
	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("modbus: error connecting to %s: %w", config.Endpoint, err)
	}

	s := New(modbus.NewClient(h), config.Address, config.Logger)
	s.handler = h
	return s, nil
}

// New returns a source reading from client.
func New(client RegisterReader, address uint16, logger *log.Logger) *Source {
	if logger == nil {
		logger = log.Default()
	}
	return &Source{
		client:  client,
		address: address,
		logger:  logger,
	}
}

// Close the connection.
func (s *Source) Close() error {
	if s.handler == nil {
		return nil
	}
	return s.handler.Close()
}

func (s *Source) String() string {
	if s.handler == nil {
		return fmt.Sprintf("Modbus registers %d-%d", s.address, int(s.address)+RegisterCount-1)
	}
	return fmt.Sprintf("Modbus %s unit %d registers %d-%d", s.handler.Address, s.handler.SlaveId, s.address, int(s.address)+RegisterCount-1)
}

// IsLive reads the live flag. Read errors count as not live.
func (s *Source) IsLive() bool {
	b, err := s.read(s.address, 1)
	if err != nil {
		return false
	}
	return b[0]|b[1] != 0
}

// Snapshot reads the text and inversion registers. Read errors return blank
// lines.
func (s *Source) Snapshot() (lines, inverted [telemetry.Rows]string) {
	b, err := s.read(s.address+1, 2*textRegisters)
	if err != nil {
		return telemetry.Blank(), telemetry.Blank()
	}
	return Decode(b)
}

func (s *Source) read(address, quantity uint16) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.client.ReadHoldingRegisters(address, quantity)
	if err == nil && len(b) < 2*int(quantity) {
		err = ErrShortRead
	}
	if err != nil {
		if !s.failed {
			s.logger.Printf("modbus: error reading registers %d+%d: %v", address, quantity, err)
		}
		s.failed = true
		return nil, err
	}
	if s.failed {
		s.logger.Printf("modbus: reading registers again")
	}
	s.failed = false
	return b, nil
}

// Decode converts the raw text and inversion registers (big endian, as
// returned by the Modbus client) into lines.
func Decode(b []byte) (lines, inverted [telemetry.Rows]string) {
	const rowBytes = 2 * registersPerRow
	for row := 0; row < telemetry.Rows; row++ {
		lines[row] = decodeRow(b, row*rowBytes)
		inverted[row] = decodeRow(b, (telemetry.Rows+row)*rowBytes)
	}
	return
}

// Encode is the inverse of Decode, it is used to serve the DED text.
func Encode(lines, inverted [telemetry.Rows]string) []byte {
	b := make([]byte, 0, 4*textRegisters)
	for _, group := range [][telemetry.Rows]string{lines, inverted} {
		for _, line := range group {
			b = append(b, telemetry.Pad(line)...)
		}
	}
	return b
}

func decodeRow(b []byte, offset int) string {
	if offset+telemetry.Columns > len(b) {
		return telemetry.Pad("")
	}
	row := make([]byte, telemetry.Columns)
	for i, c := range b[offset : offset+telemetry.Columns] {
		if c == 0 {
			c = ' '
		}
		row[i] = c
	}
	return string(row)
}

// Interface checks.
var (
	_ telemetry.Source = (*Source)(nil)
	_ RegisterReader   = (modbus.Client)(nil)
)
