package ded

import (
	"fmt"
	"image"
	"sync"

	"github.com/broosa/ded/font"
	"github.com/broosa/ded/pixel"
)

// Glyph size in pixels.
const (
	GlyphWidth  = font.GlyphWidth
	GlyphHeight = font.GlyphHeight
)

// Glyph is the pixel mask of one character cell.
type Glyph struct {
	// Char is the alphabet character the mask was taken from.
	Char byte

	// Inverted is set for glyphs from the inverted font sheet.
	Inverted bool

	// rows holds one byte per pixel row, bit n is pixel column n.
	rows [GlyphHeight]uint8
}

// IsPixelOn reports if the pixel at (row, col) of the glyph is lit.
func (g *Glyph) IsPixelOn(row, col int) bool {
	if row < 0 || row >= GlyphHeight || col < 0 || col >= GlyphWidth {
		return false
	}
	return g.rows[row]&(1<<uint(col)) != 0
}

func (g *Glyph) String() string {
	if g.Inverted {
		return fmt.Sprintf("glyph %q (inverted)", g.Char)
	}
	return fmt.Sprintf("glyph %q", g.Char)
}

// GlyphTable maps characters to glyphs. A table is immutable once built and
// safe for concurrent use.
type GlyphTable struct {
	normal   [256]*Glyph
	inverted [256]*Glyph
}

// NewGlyphTable extracts the glyphs of every alphabet cell from a pair of
// font sheets. A sheet pixel is lit if it has any brightness.
func NewGlyphTable(normal, inverted image.Image) (*GlyphTable, error) {
	if err := font.CheckSheet(normal); err != nil {
		return nil, fmt.Errorf("ded: normal font sheet: %w", err)
	}
	if err := font.CheckSheet(inverted); err != nil {
		return nil, fmt.Errorf("ded: inverted font sheet: %w", err)
	}

	t := new(GlyphTable)
	for i := 0; i < len(font.Alphabet); i++ {
		c := font.Alphabet[i]
		if c == font.Unused {
			continue
		}
		t.normal[c] = extractGlyph(normal, i, c, false)
		t.inverted[c] = extractGlyph(inverted, i, c, true)

		// The asterisk shows up as either '*' or the placeholder code.
		if c == font.Star {
			t.normal['*'] = t.normal[c]
			t.inverted['*'] = t.inverted[c]
		}
	}

	var (
		fallback         = extractGlyph(normal, font.FallbackIndex, font.Unused, false)
		fallbackInverted = extractGlyph(inverted, font.FallbackIndex, font.Unused, true)
	)
	for c := range t.normal {
		if t.normal[c] == nil {
			t.normal[c] = fallback
			t.inverted[c] = fallbackInverted
		}
	}

	return t, nil
}

func extractGlyph(sheet image.Image, index int, c byte, inverted bool) *Glyph {
	var (
		g      = &Glyph{Char: c, Inverted: inverted}
		origin = sheet.Bounds().Min.Add(image.Pt(index*GlyphWidth, 0))
	)
	for row := 0; row < GlyphHeight; row++ {
		for col := 0; col < GlyphWidth; col++ {
			if pixel.Lit(sheet.At(origin.X+col, origin.Y+row)) {
				g.rows[row] |= 1 << uint(col)
			}
		}
	}
	return g
}

// Resolve returns the glyph for a character. Characters outside of the font
// alphabet resolve to the fallback glyph, Resolve never fails.
func (t *GlyphTable) Resolve(c byte, inverted bool) *Glyph {
	if inverted {
		return t.inverted[c]
	}
	return t.normal[c]
}

// Fallback returns the glyph drawn for characters that can't be rendered.
func (t *GlyphTable) Fallback(inverted bool) *Glyph {
	return t.Resolve(font.Unused, inverted)
}

var defaultGlyphTable = sync.OnceValue(func() *GlyphTable {
	normal, inverted := font.Sheets()
	t, err := NewGlyphTable(normal, inverted)
	if err != nil {
		panic(err) // built-in sheets always have the right size
	}
	return t
})

// DefaultGlyphTable returns the glyph table of the built-in font, it is built
// on first use.
func DefaultGlyphTable() *GlyphTable {
	return defaultGlyphTable()
}
