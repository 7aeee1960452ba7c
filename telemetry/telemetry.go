// Package telemetry defines the source of the DED text and implements simple
// sources.
package telemetry

import (
	"strings"
	"sync"
)

// Rows and Columns of the DED text.
const (
	Rows    = 5
	Columns = 24
)

// Source provides the DED text lines and their inversion markers.
type Source interface {
	// IsLive reports if the source currently has data.
	IsLive() bool

	// Snapshot returns the current lines and inversion lines. Each line is
	// Columns ASCII bytes, a non-space inversion marker inverts the
	// character at the same position.
	Snapshot() (lines, inverted [Rows]string)
}

// Blank returns five lines of spaces.
func Blank() (lines [Rows]string) {
	for i := range lines {
		lines[i] = strings.Repeat(" ", Columns)
	}
	return
}

// Pad returns s padded with spaces or truncated to exactly Columns bytes.
func Pad(s string) string {
	if len(s) >= Columns {
		return s[:Columns]
	}
	return s + strings.Repeat(" ", Columns-len(s))
}

// Static is a source with fixed contents. It is safe for concurrent use.
type Static struct {
	mu       sync.RWMutex
	live     bool
	lines    [Rows]string
	inverted [Rows]string
}

// NewStatic returns a live source showing lines. Missing lines are blank and
// every line is padded to the full width.
func NewStatic(lines, inverted []string) *Static {
	s := &Static{live: true}
	s.SetLines(lines, inverted)
	return s
}

// SetLive changes the liveness of the source.
func (s *Static) SetLive(live bool) {
	s.mu.Lock()
	s.live = live
	s.mu.Unlock()
}

// SetLines replaces the contents.
func (s *Static) SetLines(lines, inverted []string) {
	var l, i [Rows]string
	for row := 0; row < Rows; row++ {
		l[row], i[row] = Pad(""), Pad("")
		if row < len(lines) {
			l[row] = Pad(lines[row])
		}
		if row < len(inverted) {
			i[row] = Pad(inverted[row])
		}
	}

	s.mu.Lock()
	s.lines, s.inverted = l, i
	s.mu.Unlock()
}

func (s *Static) IsLive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

func (s *Static) Snapshot() (lines, inverted [Rows]string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines, s.inverted
}

// Interface checks.
var (
	_ Source = (*Static)(nil)
)
