package warp

import (
	"errors"
	"math"
)

// ErrSingular is returned when the forward transform cannot be inverted.
var ErrSingular = errors.New("warp: singular transform")

// channels is the number of interleaved channels per pixel.
const channels = 3

// Mirror maps an arbitrary integer index into [0, n) by symmetric
// reflection that repeats the edge pixel: ... 1 0 | 0 1 ... n-1 | n-1 n-2 ...
func Mirror(i, n int) int {
	if n <= 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// SampleBilinear interpolates the channel values of src at continuous pixel
// coordinates (fx, fy), where integer coordinates address pixel centers.
// Neighbors outside the buffer are resolved with Mirror. Results are
// returned unrounded.
func SampleBilinear(src []uint8, w, h int, fx, fy float64) (out [channels]float64) {
	x0f := math.Floor(fx)
	y0f := math.Floor(fy)
	tx := fx - x0f
	ty := fy - y0f

	x0 := Mirror(int(x0f), w)
	x1 := Mirror(int(x0f)+1, w)
	y0 := Mirror(int(y0f), h)
	y1 := Mirror(int(y0f)+1, h)

	i00 := (y0*w + x0) * channels
	i10 := (y0*w + x1) * channels
	i01 := (y1*w + x0) * channels
	i11 := (y1*w + x1) * channels

	for ch := range channels {
		out[ch] = lerp2D(
			float64(src[i00+ch]), float64(src[i10+ch]),
			float64(src[i01+ch]), float64(src[i11+ch]),
			tx, ty)
	}
	return out
}

// Warp resamples src (w × h, interleaved RGB) through the forward transform
// m into dst, which must have the same size. Each destination pixel center
// is mapped back through the inverse of m.
func Warp(dst, src []uint8, w, h int, m Affine) error {
	inv, ok := m.Invert()
	if !ok {
		return ErrSingular
	}
	for y := range h {
		for x := range w {
			sx, sy := inv.TransformPoint(float64(x), float64(y))
			v := SampleBilinear(src, w, h, sx, sy)
			i := (y*w + x) * channels
			for ch := range channels {
				dst[i+ch] = uint8(clampFloat(math.Round(v[ch]), 0, 255))
			}
		}
	}
	return nil
}

// clampFloat clamps v to [lo, hi].
//
//nolint:unparam // bounds are always the 8-bit range today
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// lerp2D performs bilinear interpolation on a 2x2 grid.
func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), ty)
}
