// Command shapeset generates a synthetic concept-learning dataset of
// composited geometric shapes.
//
// Usage:
//
//	shapeset [-config run.yaml] [-n 10000] [-batch 32] [-out data] [-seed 1]
//
// Flags override values from the configuration file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gogpu/shapeset"
	"github.com/gogpu/shapeset/config"
	"github.com/gogpu/shapeset/preview"
	"github.com/gogpu/shapeset/sink"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "shapeset:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("shapeset", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "YAML configuration file")
		n          = fs.Int("n", 0, "samples per class across all batches")
		batch      = fs.Int("batch", 0, "batch size")
		height     = fs.Int("height", 0, "canvas height")
		width      = fs.Int("width", 0, "canvas width")
		k          = fs.Int("k", 0, "concept cardinality")
		nclasses   = fs.Int("nclasses", 0, "class folders to prepare")
		out        = fs.String("out", "", "dataset root folder")
		seed       = fs.Uint64("seed", 0, "random seed")
		workers    = fs.Int("workers", 0, "render workers (0 = GOMAXPROCS)")
		profile    = fs.String("profile", "", "augmentation profile: default, wide, none")
		previewOut = fs.String("preview", "", "write a contact sheet of the first batch to this PNG and exit")
		dump       = fs.Bool("dump-config", false, "print the effective configuration and exit")
		verbose    = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	shapeset.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := shapeset.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.N = *n
		case "batch":
			cfg.BatchSize = *batch
		case "height":
			cfg.Height = *height
		case "width":
			cfg.Width = *width
		case "k":
			cfg.K = *k
		case "nclasses":
			cfg.NClasses = *nclasses
		case "out":
			cfg.SaveDir = *out
		case "seed":
			cfg.Seed = *seed
		case "workers":
			cfg.Workers = *workers
		case "profile":
			cfg.Profile = shapeset.Profile(*profile)
		}
	})

	if *dump {
		return config.Write(os.Stdout, cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *previewOut != "" {
		return writePreview(ctx, cfg, *previewOut)
	}

	dir := sink.NewDir(cfg.SaveDir)
	if err := dir.Prepare(cfg.NClasses); err != nil {
		return err
	}
	b, err := shapeset.NewBuilder(cfg, dir)
	if err != nil {
		return err
	}
	stats, err := b.Run(ctx)
	if err != nil {
		return err
	}
	shapeset.Logger().Info("dataset written", "root", dir.Root(), "batches", stats.Batches, "images", stats.Total())
	return nil
}

// writePreview renders the first batch and lays out the first eight
// composites of every class.
func writePreview(ctx context.Context, cfg shapeset.Config, path string) error {
	b, err := shapeset.NewBuilder(cfg, sink.NewMemory())
	if err != nil {
		return err
	}
	classes, err := b.GenerateBatch(ctx, 0)
	if err != nil {
		return err
	}
	sets := make([][]*shapeset.Canvas, len(classes))
	titles := make([]string, len(classes))
	for i, cb := range classes {
		sets[i] = cb.Images[:min(8, len(cb.Images))]
		titles[i] = fmt.Sprintf("%s: %s", sink.ClassDir(cb.Class), cb.Concept)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return preview.WriteFile(path, sets, titles, preview.DefaultOptions())
}
