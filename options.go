package shapeset

// BuilderOption configures a Builder during creation.
//
// Example:
//
//	b, err := shapeset.NewBuilder(cfg, sink,
//	    shapeset.WithWorkers(8),
//	    shapeset.WithProgress(func(r shapeset.BatchReport) { ... }),
//	)
type BuilderOption func(*builderOptions)

// builderOptions holds optional configuration for Builder creation.
type builderOptions struct {
	workers   int
	augmenter *Augmenter
	progress  func(BatchReport)
}

// defaultBuilderOptions returns the options derived from cfg.
func defaultBuilderOptions(cfg Config) builderOptions {
	return builderOptions{
		workers: cfg.Workers,
	}
}

// WithWorkers sets the number of render workers. Zero or negative uses
// GOMAXPROCS. Output does not depend on the worker count.
func WithWorkers(n int) BuilderOption {
	return func(o *builderOptions) {
		o.workers = n
	}
}

// WithAugmenter replaces the augmenter built from Config.Profile.
func WithAugmenter(a *Augmenter) BuilderOption {
	return func(o *builderOptions) {
		o.augmenter = a
	}
}

// WithProgress registers a callback invoked after every batch has been
// handed to the sink. The callback runs on the goroutine calling Run.
func WithProgress(fn func(BatchReport)) BuilderOption {
	return func(o *builderOptions) {
		o.progress = fn
	}
}
