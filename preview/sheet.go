// Package preview renders contact sheets of generated composites for
// interactive inspection: one labeled row per image set.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/shapeset"
)

// ErrEmptySheet is returned when there is nothing to lay out.
var ErrEmptySheet = errors.New("preview: no images")

// titleHeight is the band reserved above each row (or column) for its title.
const titleHeight = 16

// Options controls the sheet layout.
type Options struct {
	// Tile is the edge length of each scaled thumbnail. Zero keeps the
	// size of the first image.
	Tile int
	// Padding is the gap between tiles in pixels.
	Padding int
	// Transpose lays every image set out as a column instead of a row.
	Transpose bool
	// Background fills the sheet behind the tiles.
	Background color.Color
	// TitleColor is the color of the set titles.
	TitleColor color.Color
}

// DefaultOptions returns 96-pixel tiles with 4-pixel padding on a
// dark-gray sheet with white titles.
func DefaultOptions() Options {
	return Options{
		Tile:       96,
		Padding:    4,
		Background: color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
		TitleColor: color.White,
	}
}

// Render lays out sets of images with one title per set.
// titles may be shorter than sets; missing titles are left blank.
func Render(sets [][]*shapeset.Canvas, titles []string, opts Options) (*image.RGBA, error) {
	longest := 0
	var first *shapeset.Canvas
	for _, s := range sets {
		longest = max(longest, len(s))
		if first == nil && len(s) > 0 {
			first = s[0]
		}
	}
	if first == nil {
		return nil, ErrEmptySheet
	}
	tile := opts.Tile
	if tile <= 0 {
		tile = max(first.Width(), first.Height())
	}
	pad := max(opts.Padding, 0)
	bg := opts.Background
	if bg == nil {
		bg = color.Black
	}
	fg := opts.TitleColor
	if fg == nil {
		fg = color.White
	}

	step := tile + pad
	var w, h int
	if opts.Transpose {
		w = pad + len(sets)*step
		h = titleHeight + pad + longest*step
	} else {
		w = pad + longest*step
		h = pad + len(sets)*(titleHeight+step)
	}
	sheet := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(sheet, sheet.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)

	for si, set := range sets {
		var titleAt, origin image.Point
		if opts.Transpose {
			titleAt = image.Pt(pad+si*step, titleHeight-3)
			origin = image.Pt(pad+si*step, titleHeight+pad)
		} else {
			top := pad + si*(titleHeight+step)
			titleAt = image.Pt(pad, top+titleHeight-3)
			origin = image.Pt(pad, top+titleHeight)
		}
		if si < len(titles) {
			drawTitle(sheet, titles[si], titleAt, fg)
		}
		for i, img := range set {
			at := origin.Add(image.Pt(i*step, 0))
			if opts.Transpose {
				at = origin.Add(image.Pt(0, i*step))
			}
			dst := image.Rectangle{Min: at, Max: at.Add(image.Pt(tile, tile))}
			xdraw.CatmullRom.Scale(sheet, dst, img, img.Bounds(), xdraw.Src, nil)
		}
	}
	return sheet, nil
}

// WriteFile renders a sheet and saves it as PNG.
func WriteFile(path string, sets [][]*shapeset.Canvas, titles []string, opts Options) error {
	sheet, err := Render(sets, titles, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if err := png.Encode(f, sheet); err != nil {
		_ = f.Close()
		return fmt.Errorf("preview: encode %s: %w", path, err)
	}
	shapeset.Logger().Info("preview written", "path", path, "sets", len(sets))
	return f.Close()
}

// drawTitle draws s with its baseline at dot using the 7x13 bitmap face.
func drawTitle(dst *image.RGBA, s string, dot image.Point, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(s)
}
