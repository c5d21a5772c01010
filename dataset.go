package shapeset

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gogpu/shapeset/internal/parallel"
)

// Sink receives composite images. Implementations decide where and how the
// images are persisted; see package sink.
type Sink interface {
	Save(class, index int, img *Canvas) error
}

// Config describes one generation run.
type Config struct {
	// N is the number of samples generated per class across all batches.
	// N/BatchSize batches are produced; a remainder is dropped.
	N int
	// BatchSize is the number of composites per class per batch.
	BatchSize int
	// Height and Width are the canvas size in pixels.
	Height int
	Width  int
	// K is the concept cardinality: shape types per composite.
	K int
	// NClasses is the number of class folders a sink should prepare.
	// Classes actually generated are given by Classes.Classes().
	NClasses int
	// Classes maps vocabulary group ids to their shapes.
	Classes ClassRules
	// Mix names the two groups the mixed class draws from.
	Mix [2]int
	// SaveDir is the root of the per-class folders.
	SaveDir string
	// Seed selects the random streams of the whole run.
	Seed uint64
	// BackgroundMax bounds every composite background channel to
	// [0, BackgroundMax).
	BackgroundMax int
	// ShapeBackground fills the canvas of every rendered shape instance
	// before compositing.
	ShapeBackground Color
	// Profile selects the augmentation preset.
	Profile Profile
	// Workers is the default render worker count (see WithWorkers).
	Workers int
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		N:               10000,
		BatchSize:       32,
		Height:          128,
		Width:           128,
		K:               5,
		NClasses:        3,
		Classes:         DefaultClassRules(),
		Mix:             [2]int{1, 2},
		SaveDir:         "data",
		BackgroundMax:   50,
		ShapeBackground: Black,
		Profile:         ProfileDefault,
	}
}

// Batches returns the number of batches the run produces.
func (c Config) Batches() int {
	if c.BatchSize <= 0 {
		return 0
	}
	return c.N / c.BatchSize
}

// Validate checks every field.
func (c Config) Validate() error {
	var errs []error
	if c.N <= 0 {
		errs = append(errs, fmt.Errorf("%w: N must be positive, got %d", ErrInvalidConfig, c.N))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize))
	} else if c.N > 0 && c.N < c.BatchSize {
		errs = append(errs, fmt.Errorf("%w: N=%d is smaller than batch size %d", ErrInvalidConfig, c.N, c.BatchSize))
	}
	if _, err := NewRenderer(c.Width, c.Height); err != nil {
		errs = append(errs, err)
	}
	if c.K < 3 {
		errs = append(errs, fmt.Errorf("%w: k=%d, need k >= 3", ErrInvalidConceptCardinality, c.K))
	}
	if c.NClasses < 0 {
		errs = append(errs, fmt.Errorf("%w: nclasses must not be negative, got %d", ErrInvalidConfig, c.NClasses))
	}
	if c.BackgroundMax < 1 || c.BackgroundMax > 256 {
		errs = append(errs, fmt.Errorf("%w: background max %d outside [1, 256]", ErrInvalidConfig, c.BackgroundMax))
	}
	if err := c.Classes.Validate(c.Mix); err != nil {
		errs = append(errs, err)
	}
	if _, err := ProfileConfig(c.Profile); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// FileIndex returns the file index of a composite:
// offset + batch·batchSize·(class+1).
//
// Index ranges of different classes overlap; they stay unique within one
// class folder.
func FileIndex(offset, batch, batchSize, class int) int {
	return offset + batch*batchSize*(class+1)
}

// ClassBatch holds the composites of one class for one batch.
type ClassBatch struct {
	Class   int
	Concept Concept
	Images  []*Canvas
}

// BatchReport describes a finished batch.
type BatchReport struct {
	Batch      int
	Batches    int
	Background Color
	Concepts   []ClassConcept
	Elapsed    time.Duration
}

// Stats summarizes a run.
type Stats struct {
	Batches int
	// Images counts composites handed to the sink per class.
	Images map[int]int
}

// Total returns the number of composites handed to the sink.
func (s Stats) Total() int {
	n := 0
	for _, v := range s.Images {
		n += v
	}
	return n
}

// Builder drives concept sampling, rendering, augmentation and compositing
// batch by batch and forwards the composites to a Sink.
//
// A Builder carries no state between batches: batch b depends only on the
// configuration and the streams derived from (Seed, b).
type Builder struct {
	cfg       Config
	sink      Sink
	renderer  *Renderer
	augmenter *Augmenter
	workers   int
	progress  func(BatchReport)
}

// NewBuilder validates cfg and prepares a builder writing to sink.
func NewBuilder(cfg Config, sink Sink, opts ...BuilderOption) (*Builder, error) {
	if sink == nil {
		return nil, fmt.Errorf("%w: nil sink", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultBuilderOptions(cfg)
	for _, opt := range opts {
		opt(&o)
	}

	renderer, err := NewRenderer(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	augmenter := o.augmenter
	if augmenter == nil {
		if augmenter, err = NewProfileAugmenter(cfg.Profile); err != nil {
			return nil, err
		}
	}
	return &Builder{
		cfg:       cfg,
		sink:      sink,
		renderer:  renderer,
		augmenter: augmenter,
		workers:   o.workers,
		progress:  o.progress,
	}, nil
}

// Config returns the builder's configuration.
func (b *Builder) Config() Config { return b.cfg }

// Run generates every batch in order and saves the composites through the
// sink, class by class in ascending order.
//
// ctx is checked before every batch, every render unit and every save.
// There is no rollback: when Run fails, files written so far stay.
func (b *Builder) Run(ctx context.Context) (Stats, error) {
	pool := parallel.NewWorkerPool(b.workers)
	defer pool.Close()

	log := Logger()
	batches := b.cfg.Batches()
	stats := Stats{Images: make(map[int]int)}
	start := time.Now()

	for batch := range batches {
		if err := ctx.Err(); err != nil {
			log.Warn("run cancelled", "batch", batch, "err", err)
			return stats, err
		}
		t0 := time.Now()
		bg, concepts, classes, err := b.generate(ctx, pool, batch)
		if err != nil {
			return stats, fmt.Errorf("batch %d: %w", batch, err)
		}
		for _, cb := range classes {
			for i, img := range cb.Images {
				if err := ctx.Err(); err != nil {
					return stats, err
				}
				idx := FileIndex(i, batch, b.cfg.BatchSize, cb.Class)
				if err := b.sink.Save(cb.Class, idx, img); err != nil {
					return stats, fmt.Errorf("batch %d: save class %d index %d: %w", batch, cb.Class, idx, err)
				}
				stats.Images[cb.Class]++
			}
		}
		stats.Batches++

		elapsed := time.Since(t0)
		log.Info("batch written", "batch", batch+1, "of", batches, "elapsed", elapsed)
		if b.progress != nil {
			b.progress(BatchReport{
				Batch:      batch,
				Batches:    batches,
				Background: bg,
				Concepts:   concepts,
				Elapsed:    elapsed,
			})
		}
	}
	log.Info("run complete", "batches", stats.Batches, "images", stats.Total(), "elapsed", time.Since(start))
	return stats, nil
}

// GenerateBatch produces the composites of one batch without saving them.
// The result is identical to what Run hands to the sink for that batch.
func (b *Builder) GenerateBatch(ctx context.Context, batch int) ([]ClassBatch, error) {
	pool := parallel.NewWorkerPool(b.workers)
	defer pool.Close()
	_, _, classes, err := b.generate(ctx, pool, batch)
	return classes, err
}

// generate samples the batch background and concepts from the batch
// stream, renders every (class, slot) unit on its own stream, then
// composites each class.
func (b *Builder) generate(ctx context.Context, pool *parallel.WorkerPool, batch int) (Color, []ClassConcept, []ClassBatch, error) {
	rng := NewStream(b.cfg.Seed, streamBatch, uint64(batch))
	bg := RandomColor(rng, b.cfg.BackgroundMax)
	concepts, err := SampleConcepts(b.cfg.Classes, b.cfg.K, b.cfg.Mix, rng)
	if err != nil {
		return bg, nil, nil, err
	}

	log := Logger()
	rendered := make([][][]*Canvas, len(concepts))
	var units []func() error
	for ci, cc := range concepts {
		log.Debug("concept sampled", "batch", batch, "class", cc.Class, "concept", cc.Concept.String())
		rendered[ci] = make([][]*Canvas, len(cc.Concept))
		for slot, shape := range cc.Concept {
			units = append(units, func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				unitRNG := NewStream(b.cfg.Seed, streamUnit, uint64(batch), uint64(cc.Class), uint64(slot))
				imgs, err := b.renderUnit(shape, unitRNG)
				if err != nil {
					return fmt.Errorf("class %d slot %d: %w", cc.Class, slot, err)
				}
				rendered[ci][slot] = imgs
				return nil
			})
		}
	}
	if err := pool.Run(units); err != nil {
		return bg, concepts, nil, err
	}

	classes := make([]ClassBatch, len(concepts))
	for ci, cc := range concepts {
		imgs, err := combineOnPool(pool, rendered[ci], bg)
		if err != nil {
			return bg, concepts, nil, fmt.Errorf("class %d: %w", cc.Class, err)
		}
		classes[ci] = ClassBatch{Class: cc.Class, Concept: cc.Concept, Images: imgs}
	}
	return bg, concepts, classes, nil
}

// renderUnit renders and augments one batch of a single shape type.
func (b *Builder) renderUnit(shape Shape, rng *rand.Rand) ([]*Canvas, error) {
	t0 := time.Now()
	raw, err := b.renderer.RenderBatch(shape, b.cfg.BatchSize, b.cfg.ShapeBackground, rng)
	if err != nil {
		return nil, err
	}
	out, err := b.augmenter.Augment(raw, rng)
	if err != nil {
		return nil, err
	}
	Logger().Debug("unit rendered", "shape", shape.String(), "n", len(out), "elapsed", time.Since(t0))
	return out, nil
}

// combineOnPool is Combine with the samples spread across pool.
func combineOnPool(pool *parallel.WorkerPool, batches [][]*Canvas, bg Color) ([]*Canvas, error) {
	n, err := checkBatches(batches)
	if err != nil {
		return nil, err
	}
	out := make([]*Canvas, n)
	work := make([]func(), n)
	for i := range work {
		work[i] = func() { out[i] = combineSample(batches, i, bg) }
	}
	pool.ExecuteAll(work)
	return out, nil
}
