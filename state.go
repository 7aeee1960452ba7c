package ded

import (
	"image"
	"image/color"
	"strings"

	"github.com/broosa/ded/pixel"
)

// Text grid placement, the grid is centered on the display.
const (
	gridTop  = (Height - GlyphHeight*Rows) / 2
	gridLeft = (Width - GlyphWidth*Columns) / 2
)

// Lines holds one string per display row.
type Lines [Rows]string

// BlankLine is a row of spaces.
var BlankLine = strings.Repeat(" ", Columns)

// BlankLines returns five blank rows.
func BlankLines() Lines {
	return Lines{BlankLine, BlankLine, BlankLine, BlankLine, BlankLine}
}

// Cell is one character position of the display.
type Cell struct {
	Char     byte
	Inverted bool
}

// State is an immutable snapshot of the display contents.
//
// State implements [image.Image], so it can be drawn directly. Pixel
// queries are answered from the glyphs, no pixel buffer is kept.
type State struct {
	cells  [Rows][Columns]Cell
	glyphs [Rows][Columns]*Glyph
}

// NewState builds a display state from text lines and their inversion
// markers. A character is inverted if its marker is anything but a space.
// Rows where either line isn't exactly Columns bytes long are left blank.
// A nil table uses the DefaultGlyphTable.
func NewState(t *GlyphTable, lines, inverted Lines) *State {
	if t == nil {
		t = DefaultGlyphTable()
	}

	s := new(State)
	for row := 0; row < Rows; row++ {
		text, marks := lines[row], inverted[row]
		if len(text) != Columns || len(marks) != Columns {
			if debug && (len(text) != 0 || len(marks) != 0) {
				logf(nil, "ded: row %d has %d/%d bytes, showing a blank row", row, len(text), len(marks))
			}
			text, marks = BlankLine, BlankLine
		}
		for col := 0; col < Columns; col++ {
			cell := Cell{Char: text[col], Inverted: marks[col] != ' '}
			s.cells[row][col] = cell
			s.glyphs[row][col] = t.Resolve(cell.Char, cell.Inverted)
		}
	}
	return s
}

// BlankState returns a state with every cell set to a space.
func BlankState() *State {
	return NewState(nil, BlankLines(), BlankLines())
}

// Cell returns the character cell at (row, col).
func (s *State) Cell(row, col int) Cell {
	if row < 0 || row >= Rows || col < 0 || col >= Columns {
		return Cell{}
	}
	return s.cells[row][col]
}

// Text returns the characters of each row.
func (s *State) Text() Lines {
	var lines Lines
	for row := range s.cells {
		b := make([]byte, Columns)
		for col, cell := range s.cells[row] {
			b[col] = cell.Char
		}
		lines[row] = string(b)
	}
	return lines
}

// Equal reports if both states show the same characters with the same
// inversion.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.cells == other.cells
}

// RowEqual reports if a text row is identical in both states.
func (s *State) RowEqual(other *State, row int) bool {
	if s == nil || other == nil {
		return s == other
	}
	if row < 0 || row >= Rows {
		return true
	}
	return s.cells[row] == other.cells[row]
}

// IsPixelOn reports if the display pixel at (row, col) is lit. Coordinates
// outside of the display and the margins around the text grid are off.
func (s *State) IsPixelOn(row, col int) bool {
	if row < 0 || row >= Height || col < 0 || col >= Width {
		return false
	}

	var (
		y = row - gridTop
		x = col - gridLeft
	)
	if y < 0 || x < 0 {
		return false
	}

	var (
		glyphRow = y / GlyphHeight
		glyphCol = x / GlyphWidth
	)
	if glyphRow >= Rows || glyphCol >= Columns {
		return false
	}
	return s.glyphs[glyphRow][glyphCol].IsPixelOn(y%GlyphHeight, x%GlyphWidth)
}

func (s *State) ColorModel() color.Model {
	return pixel.MonoModel
}

func (s *State) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

func (s *State) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(s.Bounds()) {
		return color.Transparent
	}
	if s.IsPixelOn(y, x) {
		return pixel.On
	}
	return pixel.Off
}

// Interface checks.
var (
	_ image.Image = (*State)(nil)
	_ PixelSource = (*State)(nil)
)
