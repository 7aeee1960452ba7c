package ded

import (
	"image"
	"strings"
	"testing"

	"github.com/broosa/ded/font"
)

func TestGlyphTableFallback(t *testing.T) {
	table := DefaultGlyphTable()
	for c := 0; c < 256; c++ {
		b := byte(c)
		known := b != font.Unused && (strings.IndexByte(font.Alphabet, b) >= 0 || b == '*')
		for _, inverted := range []bool{false, true} {
			g := table.Resolve(b, inverted)
			if g == nil {
				t.Fatalf("expected a glyph for %#02x, got nil", b)
			}
			if g.Inverted != inverted {
				t.Errorf("expected glyph for %#02x to have inverted=%t", b, inverted)
			}
			if fallback := table.Fallback(inverted); !known && g != fallback {
				t.Errorf("expected %#02x to resolve to the fallback glyph, got %s", b, g)
			} else if known && g == fallback {
				t.Errorf("expected %#02x to resolve to its own glyph, got the fallback", b)
			}
		}
	}
}

func TestGlyphTableStar(t *testing.T) {
	table := DefaultGlyphTable()
	for _, inverted := range []bool{false, true} {
		if a, b := table.Resolve('*', inverted), table.Resolve(font.Star, inverted); a != b {
			t.Errorf("expected '*' and %#02x to share a glyph (inverted=%t)", font.Star, inverted)
		}
	}
}

func TestGlyphTableInterned(t *testing.T) {
	table := DefaultGlyphTable()
	if DefaultGlyphTable() != table {
		t.Fatal("expected the default table to be built once")
	}
	if a, b := table.Resolve('A', false), table.Resolve('A', false); a != b {
		t.Error("expected identical lookups to return the same glyph")
	}
	if a, b := table.Resolve('A', false), table.Resolve('A', true); a == b {
		t.Error("expected normal and inverted glyphs to differ")
	}
}

func TestGlyphInverted(t *testing.T) {
	table := DefaultGlyphTable()
	for _, c := range []byte("A1/ ") {
		var (
			g = table.Resolve(c, false)
			i = table.Resolve(c, true)
		)
		for row := 0; row < GlyphHeight; row++ {
			for col := 0; col < GlyphWidth; col++ {
				if g.IsPixelOn(row, col) == i.IsPixelOn(row, col) {
					t.Fatalf("expected pixel (%d,%d) of %q to be inverted", row, col, c)
				}
			}
		}
	}
	if g := table.Resolve(' ', false); g.IsPixelOn(-1, 0) || g.IsPixelOn(0, GlyphWidth) {
		t.Error("expected out of bounds glyph pixels to be off")
	}
}

func TestNewGlyphTableSheetSize(t *testing.T) {
	small := image.NewGray(image.Rect(0, 0, 8, 13))
	normal, _ := font.Sheets()
	if _, err := NewGlyphTable(small, normal); err == nil {
		t.Error("expected an error for a small normal sheet")
	}
	if _, err := NewGlyphTable(normal, small); err == nil {
		t.Error("expected an error for a small inverted sheet")
	}
}
