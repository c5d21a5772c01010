package shapeset

import (
	"context"
	"fmt"
	"testing"
)

// BenchmarkRender measures one render per shape type on the stock canvas.
func BenchmarkRender(b *testing.B) {
	r, err := NewRenderer(128, 128)
	if err != nil {
		b.Fatal(err)
	}
	for _, shape := range Shapes() {
		b.Run(shape.String(), func(b *testing.B) {
			rng := testRNG(1)
			for i := 0; i < b.N; i++ {
				if _, err := r.Render(shape, Black, rng); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkAugment measures the default profile on a batch of 32.
func BenchmarkAugment(b *testing.B) {
	r, _ := NewRenderer(128, 128)
	a, _ := NewProfileAugmenter(ProfileDefault)
	in, err := r.RenderBatch(Octagon, 32, Black, testRNG(2))
	if err != nil {
		b.Fatal(err)
	}
	rng := testRNG(3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.Augment(in, rng); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGenerateBatch compares worker counts on one stock batch.
func BenchmarkGenerateBatch(b *testing.B) {
	cfg := DefaultConfig()
	for _, workers := range []int{1, 4, 0} {
		name := "gomaxprocs"
		if workers > 0 {
			name = fmt.Sprintf("%dworkers", workers)
		}
		b.Run(name, func(b *testing.B) {
			bld, err := NewBuilder(cfg, newMemSink(), WithWorkers(workers))
			if err != nil {
				b.Fatal(err)
			}
			for i := 0; i < b.N; i++ {
				if _, err := bld.GenerateBatch(context.Background(), i); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
