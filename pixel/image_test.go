package pixel

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func TestMonoImage(t *testing.T) {
	testImage(t, func(size image.Point) Image {
		return NewMonoImage(size.X, size.Y)
	}, MonoModel)
}

func TestMonoImageLayout(t *testing.T) {
	i := NewMonoImage(200, 65)
	if i.Stride != 25 {
		t.Fatalf("expected stride 25, got %d", i.Stride)
	}
	if l := len(i.Pix); l != 25*65 {
		t.Fatalf("expected %d bytes, got %d", 25*65, l)
	}

	i.SetOn(9, 2, true)
	if v := i.Pix[2*25+1]; v != 0x02 {
		t.Errorf("expected byte %#02x, got %#02x", 0x02, v)
	}
	i.SetOn(9, 2, false)
	if v := i.Pix[2*25+1]; v != 0x00 {
		t.Errorf("expected byte %#02x, got %#02x", 0x00, v)
	}
}

func TestMonoImageFrom(t *testing.T) {
	pix := []byte{0x01, 0x80, 0x00, 0x00}
	i := NewMonoImageFrom(16, 2, pix)
	if !i.IsOn(0, 0) {
		t.Error("expected (0,0) to be on")
	}
	if !i.IsOn(15, 0) {
		t.Error("expected (15,0) to be on")
	}
	if i.IsOn(1, 0) || i.IsOn(0, 1) {
		t.Error("expected (1,0) and (0,1) to be off")
	}
}

func TestMonoImageInvert(t *testing.T) {
	i := NewMonoImage(10, 2)
	i.SetOn(3, 1, true)
	i.Invert()
	for y := 0; y < 2; y++ {
		for x := 0; x < 10; x++ {
			want := !(x == 3 && y == 1)
			if v := i.IsOn(x, y); v != want {
				t.Fatalf("pixel (%d,%d) is %t, expected %t", x, y, v, want)
			}
		}
	}
	if v := i.Pix[1]; v != 0x03 {
		t.Errorf("expected padding bits to be cleared, got %#02x", v)
	}
}

func testImage(t *testing.T, f func(image.Point) Image, model color.Model) {
	t.Helper()
	testCases := []image.Point{
		image.Point{},
		image.Pt(1, 1),
		image.Pt(2, 2),
		image.Pt(200, 65),
		image.Pt(256, 64),
	}
	for _, test := range testCases {
		t.Run(test.String(), func(it *testing.T) {
			i := f(test)

			if v := i.Bounds().Size(); !v.Eq(test) {
				it.Errorf("expected image size %s, got %s", test, v)
			}

			if v := i.ColorModel(); v != model {
				it.Errorf("expected color model %T, got %T", model, v)
			}

			it.Run("in-bounds", func(itt *testing.T) {
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						c := testRandomColor()
						i.Set(x, y, c)
						if v := i.ColorModel().Convert(c); i.At(x, y) != v {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
							return
						}
					}
				}
			})

			it.Run("out-bounds", func(itt *testing.T) {
				for y := -test.Y; y < test.Y*2; y++ {
					for x := -test.X; x < test.X*2; x++ {
						i.Set(x, y, testRandomColor())
						if x < 0 || y < 0 {
							if v := i.At(x, y); v != color.Transparent {
								itt.Fatalf("pixel (%d,%d) is %#+v, expected transparent", x, y, v)
								return
							}
						}
					}
				}
			})

			it.Run("fill", func(itt *testing.T) {
				c := testRandomColor()
				i.Fill(c)
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if v := i.ColorModel().Convert(c); i.At(x, y) != v {
						itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
						return
					}
				}
			})

			it.Run("clear", func(itt *testing.T) {
				i.Clear()
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if v := monoModel(i.At(x, y)); v != Off {
						itt.Fatalf("pixel (%d,%d) is not black", x, y)
					}
				}
			})
		})
	}
}

func testRandomColor() color.Color {
	return color.RGBA{
		R: uint8(rand.Intn(255)),
		G: uint8(rand.Intn(255)),
		B: uint8(rand.Intn(255)),
		A: 0xFF,
	}
}
