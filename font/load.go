package font

import (
	"fmt"
	"image"
	_ "image/png" // PNG sheets
	"os"

	_ "golang.org/x/image/bmp" // BMP sheets
)

// Load decodes a font sheet image from a BMP or PNG file.
func Load(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("font: error decoding %s: %w", name, err)
	}
	if err = CheckSheet(sheet); err != nil {
		return nil, fmt.Errorf("font: %s is %s, need at least %s: %w", name, sheet.Bounds().Size(), SheetSize(), err)
	}
	return sheet, nil
}

// LoadSheets loads a normal and an inverted font sheet.
func LoadSheets(normal, inverted string) (image.Image, image.Image, error) {
	n, err := Load(normal)
	if err != nil {
		return nil, nil, err
	}
	i, err := Load(inverted)
	if err != nil {
		return nil, nil, err
	}
	return n, i, nil
}
