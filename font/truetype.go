package font

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"

	"github.com/broosa/ded/pixel"
)

// DefaultTrueTypeSize is the font size in points (at 72 DPI, so pixels) used
// when rasterizing a TrueType font.
const DefaultTrueTypeSize = 12

// TrueType rasterizes a TrueType font into a pair of font sheets. Anti-aliased
// edges are thresholded at half intensity.
func TrueType(data []byte, size float64) (normal, inverted *pixel.MonoImage, err error) {
	if size <= 0 {
		size = DefaultTrueTypeSize
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("font: error parsing TrueType font: %w", err)
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	defer face.Close()

	normal, inverted = FromFace(face)
	return
}
