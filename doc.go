// Package shapeset generates synthetic multi-shape image datasets for
// concept-learning experiments.
//
// # Overview
//
// Every composite image superimposes K single-shape images, one per shape
// type of a sampled concept. Each class of a batch shares one concept; the
// images of a class differ in shape size, fill color and augmentation. The
// mixed class 0 draws from two vocabulary groups, every other class from
// its own group.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/shapeset"
//		"github.com/gogpu/shapeset/sink"
//	)
//
//	cfg := shapeset.DefaultConfig()
//	cfg.N = 64
//
//	out := sink.NewDir(cfg.SaveDir)
//	b, err := shapeset.NewBuilder(cfg, out)
//	if err != nil {
//		return err
//	}
//	stats, err := b.Run(ctx)
//
// # Pipeline
//
// One batch runs these stages:
//   - SampleConcepts picks a concept per class
//   - Renderer rasterizes BatchSize instances per shape type
//   - Augmenter applies per-image affine warps and Gaussian noise
//   - Combine averages the K batches over a random background
//
// # Determinism
//
// A run is fully determined by its Config. Batch-level draws and every
// (batch, class, slot) render unit use their own random stream derived
// from Config.Seed, so the worker count never changes the output.
//
// # Coordinate System
//
// Canvases are row-major RGB with the origin at the top-left, X to the
// right and Y down.
package shapeset

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
