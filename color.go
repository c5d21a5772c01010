package shapeset

import (
	"image/color"
	"math/rand/v2"
)

// Color is an opaque 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// RandomColor draws every channel uniformly from [0, hi).
// hi is clamped to [1, 256].
func RandomColor(rng *rand.Rand, hi int) Color {
	hi = max(1, min(hi, 256))
	return Color{
		R: uint8(rng.IntN(hi)),
		G: uint8(rng.IntN(hi)),
		B: uint8(rng.IntN(hi)),
	}
}

// toColor converts any color.Color to an opaque Color, dropping alpha
// after un-premultiplying.
func toColor(c color.Color) Color {
	if v, ok := c.(Color); ok {
		return v
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B}
}
