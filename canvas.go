package shapeset

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Channels is the number of color channels stored per pixel.
const Channels = 3

// Canvas is a height × width × 3 buffer of 8-bit channels.
//
// Pixels are stored row-major with interleaved RGB. A Canvas is mutated only
// by the call that produces it; once returned from Render, Augment or
// Combine it is treated as immutable.
//
// Canvas implements image.Image and draw.Image.
type Canvas struct {
	width  int
	height int
	pix    []uint8
}

// NewCanvas allocates a canvas filled with background.
func NewCanvas(width, height int, background Color) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	c := &Canvas{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*Channels),
	}
	c.Fill(background)
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Pix returns the underlying channel data. The slice aliases the canvas.
func (c *Canvas) Pix() []uint8 { return c.pix }

// SameShape reports whether c and o have identical dimensions.
func (c *Canvas) SameShape(o *Canvas) bool {
	return c.width == o.width && c.height == o.height
}

// Fill sets every pixel to col.
func (c *Canvas) Fill(col Color) {
	for i := 0; i < len(c.pix); i += Channels {
		c.pix[i+0] = col.R
		c.pix[i+1] = col.G
		c.pix[i+2] = col.B
	}
}

// RGBAt returns the color at (x, y). Out-of-bounds reads return Black.
func (c *Canvas) RGBAt(x, y int) Color {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Black
	}
	i := (y*c.width + x) * Channels
	return Color{c.pix[i], c.pix[i+1], c.pix[i+2]}
}

// SetRGB sets the color at (x, y). Out-of-bounds writes are ignored.
func (c *Canvas) SetRGB(x, y int, col Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	i := (y*c.width + x) * Channels
	c.pix[i+0] = col.R
	c.pix[i+1] = col.G
	c.pix[i+2] = col.B
}

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	pix := make([]uint8, len(c.pix))
	copy(pix, c.pix)
	return &Canvas{width: c.width, height: c.height, pix: pix}
}

// Equal reports whether both canvases have the same shape and pixels.
func (c *Canvas) Equal(o *Canvas) bool {
	if !c.SameShape(o) {
		return false
	}
	for i := range c.pix {
		if c.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// At implements image.Image.
func (c *Canvas) At(x, y int) color.Color {
	col := c.RGBAt(x, y)
	return color.RGBA{R: col.R, G: col.G, B: col.B, A: 0xff}
}

// Set implements draw.Image. Alpha is discarded.
func (c *Canvas) Set(x, y int, col color.Color) {
	c.SetRGB(x, y, toColor(col))
}

// Opaque reports that the canvas has no transparent pixels.
func (c *Canvas) Opaque() bool { return true }

// ToRGBA converts the canvas to an opaque image.RGBA.
func (c *Canvas) ToRGBA() *image.RGBA {
	img := image.NewRGBA(c.Bounds())
	for i, j := 0, 0; i < len(c.pix); i, j = i+Channels, j+4 {
		img.Pix[j+0] = c.pix[i+0]
		img.Pix[j+1] = c.pix[i+1]
		img.Pix[j+2] = c.pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// FromImage copies any image into a new canvas, dropping alpha.
func FromImage(img image.Image) (*Canvas, error) {
	b := img.Bounds()
	c, err := NewCanvas(b.Dx(), b.Dy(), Black)
	if err != nil {
		return nil, err
	}
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.SetRGB(x, y, toColor(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return c, nil
}

// EncodePNG writes the canvas as a three-channel 8-bit PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.ToRGBA())
}

// SavePNG writes the canvas to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := c.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
