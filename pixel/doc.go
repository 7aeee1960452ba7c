// Package pixel implements the 1-bit color model and packed image used for the DED display memory.
//
// This module provides a monochrome color model and a row-major, LSB-first packed image, compatible
// with Go's native [color.Color] and [image.Image] / [draw.Image] interfaces.
package pixel
