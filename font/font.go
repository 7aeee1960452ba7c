// Package font provides the DED font sheets.
//
// A font sheet is a single row of glyph cells, GlyphWidth by GlyphHeight
// pixels each, in the order of [Alphabet]. Every font comes as a pair of
// sheets: one with lit glyphs on a dark background and one inverted.
//
// Sheets can be rasterized from the built-in bitmap face ([Sheets]), from a
// TrueType font ([TrueType]) or loaded from BMP or PNG files ([LoadSheets]).
package font

import (
	"errors"
	"image"
	"image/color"

	"github.com/broosa/ded/draw"
	"github.com/broosa/ded/pixel"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyph cell size in pixels.
const (
	GlyphWidth  = 8
	GlyphHeight = 13
)

// Control codes with a dedicated glyph.
const (
	// Arrows is the up/down arrow.
	Arrows = 0x01

	// Star is the asterisk placeholder, the literal '*' shares its glyph.
	Star = 0x02

	// Unused marks a cell that maps to no character. The last cell in the
	// alphabet is the fallback glyph for characters that can't be rendered.
	Unused = 0x7f
)

// Alphabet lists the character of each cell in a font sheet.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890\x01()<>[]+-\x02/=^|~\x7f.,!?:;&_'\"%#@{} \x7f\x7f\x7f\x7f"

// FallbackIndex is the cell of the glyph drawn for unknown characters.
const FallbackIndex = len(Alphabet) - 1

// Errors
var (
	ErrSheetSize = errors.New("font: sheet is too small for the alphabet")
)

// SheetSize is the minimum size of a font sheet.
func SheetSize() image.Point {
	return image.Pt(len(Alphabet)*GlyphWidth, GlyphHeight)
}

// CheckSheet returns ErrSheetSize if the sheet can't hold every cell.
func CheckSheet(sheet image.Image) error {
	size := sheet.Bounds().Size()
	if want := SheetSize(); size.X < want.X || size.Y < want.Y {
		return ErrSheetSize
	}
	return nil
}

// Sheets rasterizes the built-in 7x13 bitmap face.
func Sheets() (normal, inverted *pixel.MonoImage) {
	return FromFace(basicfont.Face7x13)
}

// FromFace rasterizes face into a pair of font sheets. Each glyph is
// centered horizontally in its cell and clipped to the cell bounds.
func FromFace(face xfont.Face) (normal, inverted *pixel.MonoImage) {
	var (
		size    = SheetSize()
		metrics = face.Metrics()
		ascent  = metrics.Ascent.Ceil()
		descent = metrics.Descent.Ceil()
		line    = (GlyphHeight-(ascent+descent))/2 + ascent
	)

	normal = pixel.NewMonoImage(size.X, size.Y)
	for i := 0; i < len(Alphabet); i++ {
		cell := pixel.NewMonoImage(GlyphWidth, GlyphHeight)
		switch c := Alphabet[i]; c {
		case ' ':
		case Unused:
			if i == FallbackIndex {
				drawFallback(cell)
			}
		case Arrows:
			drawArrows(cell)
		case Star:
			drawRune(cell, face, '*', line)
		default:
			drawRune(cell, face, rune(c), line)
		}
		blit(normal, cell, i)
	}

	inverted = pixel.NewMonoImage(size.X, size.Y)
	copy(inverted.Pix, normal.Pix)
	inverted.Invert()
	return
}

func drawRune(dst *pixel.MonoImage, face xfont.Face, r rune, baseline int) {
	advance, ok := face.GlyphAdvance(r)
	if !ok {
		drawFallback(dst)
		return
	}
	d := &xfont.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(pixel.On),
		Face: face,
		Dot: fixed.Point26_6{
			X: (fixed.I(GlyphWidth) - advance) / 2,
			Y: fixed.I(baseline),
		},
	}
	d.DrawString(string(r))
}

func drawArrows(dst draw.Image) {
	var (
		c   color.Color = pixel.On
		mid             = GlyphWidth/2 - 1
	)
	draw.Line(dst, image.Pt(mid, 1), image.Pt(mid, GlyphHeight-2), c)
	draw.Line(dst, image.Pt(mid, 1), image.Pt(mid-2, 3), c)
	draw.Line(dst, image.Pt(mid, 1), image.Pt(mid+2, 3), c)
	draw.Line(dst, image.Pt(mid, GlyphHeight-2), image.Pt(mid-2, GlyphHeight-4), c)
	draw.Line(dst, image.Pt(mid, GlyphHeight-2), image.Pt(mid+2, GlyphHeight-4), c)
}

func drawFallback(dst draw.Image) {
	draw.Rectangle(dst, image.Rect(1, 1, GlyphWidth-1, GlyphHeight-1), pixel.On)
}

// blit copies a glyph cell into slot i of the sheet.
func blit(sheet, cell *pixel.MonoImage, i int) {
	r := image.Rect(i*GlyphWidth, 0, (i+1)*GlyphWidth, GlyphHeight)
	draw.Draw(sheet, r, cell, image.Point{}, draw.Src)
}
