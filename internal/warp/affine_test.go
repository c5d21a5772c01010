package warp

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < epsilon }

func TestIdentity(t *testing.T) {
	x, y := Identity().TransformPoint(10, 20)
	if !near(x, 10) || !near(y, 20) {
		t.Errorf("Identity transform failed: got (%f, %f), want (10, 20)", x, y)
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name             string
		tx, ty, inX, inY float64
		outX, outY       float64
	}{
		{"positive", 5, 10, 0, 0, 5, 10},
		{"negative", -5, -10, 10, 20, 5, 10},
		{"zero", 0, 0, 10, 20, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Translate(tt.tx, tt.ty).TransformPoint(tt.inX, tt.inY)
			if !near(x, tt.outX) || !near(y, tt.outY) {
				t.Errorf("Translate(%f, %f).TransformPoint(%f, %f) = (%f, %f), want (%f, %f)",
					tt.tx, tt.ty, tt.inX, tt.inY, x, y, tt.outX, tt.outY)
			}
		})
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	x, y := Rotate(math.Pi/2).TransformPoint(1, 0)
	if !near(x, 0) || !near(y, 1) {
		t.Errorf("Rotate(pi/2) (1,0) = (%f, %f), want (0, 1)", x, y)
	}
}

func TestShearX(t *testing.T) {
	x, y := ShearX(math.Pi/4).TransformPoint(0, 2)
	if !near(x, 2) || !near(y, 2) {
		t.Errorf("ShearX(pi/4) (0,2) = (%f, %f), want (2, 2)", x, y)
	}
}

func TestAboutKeepsCenterFixed(t *testing.T) {
	m := About(Rotate(1.234), 16, 8)
	x, y := m.TransformPoint(16, 8)
	if !near(x, 16) || !near(y, 8) {
		t.Errorf("center moved to (%f, %f)", x, y)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := Compose(Params{Rotate: 0.7, Shear: -0.3, TranslateX: 4, TranslateY: -9}, 32, 32)
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert() reported singular matrix")
	}
	for _, p := range [][2]float64{{0, 0}, {10, 50}, {63, 1}} {
		fx, fy := m.TransformPoint(p[0], p[1])
		bx, by := inv.TransformPoint(fx, fy)
		if math.Abs(bx-p[0]) > 1e-7 || math.Abs(by-p[1]) > 1e-7 {
			t.Errorf("round trip of %v = (%f, %f)", p, bx, by)
		}
	}
}

func TestInvertSingular(t *testing.T) {
	if _, ok := (Affine{}).Invert(); ok {
		t.Error("zero matrix should be singular")
	}
}

func TestComposeTranslationOnly(t *testing.T) {
	m := Compose(Params{TranslateX: 3, TranslateY: -2}, 10, 10)
	x, y := m.TransformPoint(1, 1)
	if !near(x, 4) || !near(y, -1) {
		t.Errorf("Compose translation (1,1) = (%f, %f), want (4, -1)", x, y)
	}
}
