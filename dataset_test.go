package shapeset

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// memSink collects saved composites keyed by (class, index).
type memSink struct {
	mu     sync.Mutex
	images map[[2]int]*Canvas
	order  [][2]int
	failAt int
}

func newMemSink() *memSink {
	return &memSink{images: make(map[[2]int]*Canvas), failAt: -1}
}

var errSinkFull = errors.New("sink full")

func (s *memSink) Save(class, index int, img *Canvas) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt >= 0 && len(s.order) == s.failAt {
		return errSinkFull
	}
	k := [2]int{class, index}
	s.images[k] = img
	s.order = append(s.order, k)
	return nil
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.N = 8
	cfg.BatchSize = 4
	cfg.Height = 32
	cfg.Width = 32
	cfg.K = 3
	cfg.NClasses = 2
	cfg.Seed = 99
	return cfg
}

func TestFileIndex(t *testing.T) {
	tests := []struct {
		offset, batch, size, class, want int
	}{
		{0, 0, 32, 0, 0},
		{5, 0, 32, 2, 5},
		{5, 2, 32, 1, 133},
		{31, 1, 32, 0, 63},
		{3, 1, 32, 2, 99},
	}
	for _, tt := range tests {
		if got := FileIndex(tt.offset, tt.batch, tt.size, tt.class); got != tt.want {
			t.Errorf("FileIndex(%d, %d, %d, %d) = %d, want %d",
				tt.offset, tt.batch, tt.size, tt.class, got, tt.want)
		}
	}
}

func TestConfigBatches(t *testing.T) {
	cfg := DefaultConfig()
	cfg.N, cfg.BatchSize = 100, 32
	if got := cfg.Batches(); got != 3 {
		t.Errorf("Batches() = %d, want 3", got)
	}
	cfg.BatchSize = 0
	if got := cfg.Batches(); got != 0 {
		t.Errorf("Batches() with zero batch size = %d, want 0", got)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero N", func(c *Config) { c.N = 0 }, ErrInvalidConfig},
		{"N below batch", func(c *Config) { c.N = 3 }, ErrInvalidConfig},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }, ErrInvalidConfig},
		{"k=2", func(c *Config) { c.K = 2 }, ErrInvalidConceptCardinality},
		{"tiny canvas", func(c *Config) { c.Height = 10 }, ErrCanvasTooSmall},
		{"zero width", func(c *Config) { c.Width = 0 }, ErrInvalidDimensions},
		{"background max", func(c *Config) { c.BackgroundMax = 0 }, ErrInvalidConfig},
		{"profile", func(c *Config) { c.Profile = "sideways" }, ErrInvalidAugmentConfig},
		{"rules", func(c *Config) { c.Mix = [2]int{1, 9} }, ErrInvalidClassRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewBuilderRejectsNilSink(t *testing.T) {
	if _, err := NewBuilder(smallConfig(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewBuilder(nil sink) error = %v, want ErrInvalidConfig", err)
	}
}

func TestBuilderRun(t *testing.T) {
	cfg := smallConfig()
	s := newMemSink()
	var reports []BatchReport
	b, err := NewBuilder(cfg, s, WithWorkers(2), WithProgress(func(r BatchReport) {
		reports = append(reports, r)
	}))
	if err != nil {
		t.Fatal(err)
	}
	stats, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Batches != 2 {
		t.Errorf("stats.Batches = %d, want 2", stats.Batches)
	}
	for _, class := range []int{0, 1, 2} {
		if stats.Images[class] != cfg.N {
			t.Errorf("class %d: %d images, want %d", class, stats.Images[class], cfg.N)
		}
	}
	if stats.Total() != 3*cfg.N || len(s.images) != 3*cfg.N {
		t.Errorf("total = %d, stored = %d, want %d", stats.Total(), len(s.images), 3*cfg.N)
	}
	for k, img := range s.images {
		if img.Width() != cfg.Width || img.Height() != cfg.Height {
			t.Errorf("%v has size %dx%d", k, img.Width(), img.Height())
		}
	}

	// Classes are saved in ascending order within a batch.
	perBatch := 3 * cfg.BatchSize
	for i := 1; i < perBatch; i++ {
		if s.order[i][0] < s.order[i-1][0] {
			t.Fatalf("save %d: class %d after class %d", i, s.order[i][0], s.order[i-1][0])
		}
	}

	if len(reports) != 2 {
		t.Fatalf("progress called %d times, want 2", len(reports))
	}
	for i, r := range reports {
		if r.Batch != i || r.Batches != 2 {
			t.Errorf("report %d = batch %d of %d", i, r.Batch, r.Batches)
		}
		if int(r.Background.R) >= cfg.BackgroundMax || int(r.Background.G) >= cfg.BackgroundMax || int(r.Background.B) >= cfg.BackgroundMax {
			t.Errorf("report %d background %v exceeds %d", i, r.Background, cfg.BackgroundMax)
		}
		if len(r.Concepts) != 3 {
			t.Errorf("report %d has %d concepts", i, len(r.Concepts))
		}
	}
}

func TestBuilderDeterministicAcrossWorkers(t *testing.T) {
	cfg := smallConfig()
	run := func(workers int) *memSink {
		s := newMemSink()
		b, err := NewBuilder(cfg, s, WithWorkers(workers))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := b.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		return s
	}
	a, c := run(1), run(4)
	if len(a.images) != len(c.images) {
		t.Fatalf("image counts differ: %d vs %d", len(a.images), len(c.images))
	}
	for k, img := range a.images {
		other, ok := c.images[k]
		if !ok || !img.Equal(other) {
			t.Errorf("composite %v differs between worker counts", k)
		}
	}
}

func TestBuilderSeedChangesOutput(t *testing.T) {
	cfg := smallConfig()
	b1, _ := NewBuilder(cfg, newMemSink())
	cfg.Seed++
	b2, _ := NewBuilder(cfg, newMemSink())
	x, err := b1.GenerateBatch(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	y, err := b2.GenerateBatch(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for ci := range x {
		for i := range x[ci].Images {
			if !x[ci].Images[i].Equal(y[ci].Images[i]) {
				same = false
			}
		}
	}
	if same {
		t.Error("different seeds produced identical batches")
	}
}

func TestGenerateBatchMatchesRun(t *testing.T) {
	cfg := smallConfig()
	s := newMemSink()
	b, err := NewBuilder(cfg, s)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	classes, err := b.GenerateBatch(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, cb := range classes {
		if len(cb.Concept) != cfg.K {
			t.Errorf("class %d concept %v, want %d shapes", cb.Class, cb.Concept, cfg.K)
		}
		for i, img := range cb.Images {
			idx := FileIndex(i, 1, cfg.BatchSize, cb.Class)
			if !img.Equal(s.images[[2]int{cb.Class, idx}]) {
				t.Errorf("class %d index %d differs from the saved composite", cb.Class, idx)
			}
		}
	}
}

func TestBuilderRunCancelled(t *testing.T) {
	s := newMemSink()
	b, err := NewBuilder(smallConfig(), s)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := b.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if stats.Batches != 0 || len(s.images) != 0 {
		t.Errorf("cancelled run wrote %d batches, %d images", stats.Batches, len(s.images))
	}
}

func TestBuilderRunSinkError(t *testing.T) {
	s := newMemSink()
	s.failAt = 5
	b, err := NewBuilder(smallConfig(), s)
	if err != nil {
		t.Fatal(err)
	}
	stats, err := b.Run(context.Background())
	if !errors.Is(err, errSinkFull) {
		t.Fatalf("Run() error = %v, want errSinkFull", err)
	}
	if stats.Total() != 5 || len(s.images) != 5 {
		t.Errorf("stats.Total() = %d, stored = %d, want 5 kept", stats.Total(), len(s.images))
	}
}

func TestWithAugmenterOverridesProfile(t *testing.T) {
	none, err := NewProfileAugmenter(ProfileNone)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBuilder(smallConfig(), newMemSink(), WithAugmenter(none))
	if err != nil {
		t.Fatal(err)
	}
	if b.augmenter != none {
		t.Error("WithAugmenter was ignored")
	}
}
