// Package warp resamples three-channel pixel buffers through 2D affine
// transforms with symmetric (mirrored) boundary handling.
package warp

import "math"

// Affine represents a 2D affine transformation matrix.
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
//
// Points map as x' = ax + by + c, y' = dx + ey + f.
type Affine struct {
	a, b, c float64
	d, e, f float64
}

// Identity returns the identity transformation.
func Identity() Affine {
	return Affine{a: 1, e: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{a: 1, c: tx, e: 1, f: ty}
}

// Rotate returns a rotation by angle radians around the origin.
// In y-down image coordinates positive angles turn clockwise on screen.
func Rotate(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{
		a: cos, b: -sin,
		d: sin, e: cos,
	}
}

// ShearX returns a horizontal shear by angle radians: x' = x + tan(angle)·y.
func ShearX(angle float64) Affine {
	return Affine{a: 1, b: math.Tan(angle), e: 1}
}

// Multiply returns a·other. The result applies other first, then a.
func (a Affine) Multiply(other Affine) Affine {
	return Affine{
		a: a.a*other.a + a.b*other.d,
		b: a.a*other.b + a.b*other.e,
		c: a.a*other.c + a.b*other.f + a.c,
		d: a.d*other.a + a.e*other.d,
		e: a.d*other.b + a.e*other.e,
		f: a.d*other.c + a.e*other.f + a.f,
	}
}

// Invert returns the inverse transformation, or false if the matrix is
// singular.
func (a Affine) Invert() (Affine, bool) {
	det := a.a*a.e - a.b*a.d
	if math.Abs(det) < 1e-10 {
		return Affine{}, false
	}
	inv := 1.0 / det
	return Affine{
		a: a.e * inv,
		b: -a.b * inv,
		c: (a.b*a.f - a.c*a.e) * inv,
		d: -a.d * inv,
		e: a.a * inv,
		f: (a.c*a.d - a.a*a.f) * inv,
	}, true
}

// TransformPoint applies the transformation to (x, y).
func (a Affine) TransformPoint(x, y float64) (float64, float64) {
	return a.a*x + a.b*y + a.c, a.d*x + a.e*y + a.f
}

// About conjugates m so that it acts around (cx, cy) instead of the origin.
func About(m Affine, cx, cy float64) Affine {
	return Translate(cx, cy).Multiply(m).Multiply(Translate(-cx, -cy))
}

// Params describes one augmentation transform. Angles are in radians,
// translation in pixels.
type Params struct {
	Rotate     float64
	Shear      float64
	TranslateX float64
	TranslateY float64
}

// Compose builds the forward transform for p around (cx, cy): shear, then
// rotate, then translate.
func Compose(p Params, cx, cy float64) Affine {
	m := Translate(p.TranslateX, p.TranslateY).
		Multiply(Rotate(p.Rotate)).
		Multiply(ShearX(p.Shear))
	return About(m, cx, cy)
}
