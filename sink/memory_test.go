package sink

import (
	"slices"
	"testing"

	"github.com/gogpu/shapeset"
)

func TestMemory(t *testing.T) {
	m := NewMemory()
	red, _ := shapeset.NewCanvas(2, 2, shapeset.Color{R: 255})
	blue, _ := shapeset.NewCanvas(2, 2, shapeset.Color{B: 255})

	for _, k := range []Key{{1, 64}, {0, 3}, {1, 0}} {
		if err := m.Save(k.Class, k.Index, red); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Save(1, 64, blue); err != nil {
		t.Fatal(err)
	}

	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	if got := m.Keys(); !slices.Equal(got, []Key{{1, 64}, {0, 3}, {1, 0}}) {
		t.Errorf("Keys() = %v", got)
	}
	if got := m.Class(1); !slices.Equal(got, []int{0, 64}) {
		t.Errorf("Class(1) = %v, want [0 64]", got)
	}
	img, ok := m.Get(1, 64)
	if !ok || img != blue {
		t.Error("Get(1, 64) did not return the replacement image")
	}
	if _, ok := m.Get(2, 0); ok {
		t.Error("Get(2, 0) found an image that was never saved")
	}
}
