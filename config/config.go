// Package config loads shapeset run configurations from YAML files.
//
// A file lists any subset of the recognized options; missing options keep
// the values of shapeset.DefaultConfig:
//
//	n: 10000
//	batch_size: 32
//	height: 128
//	width: 128
//	k_concepts: 5
//	nclasses: 3
//	classes:
//	  1: [circle, capsule, ellipse]
//	  2: [square, pentagon, triangle]
//	save_dir: data
//	seed: 7
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/shapeset"
)

// File mirrors the YAML configuration surface.
type File struct {
	N             int              `yaml:"n"`
	BatchSize     int              `yaml:"batch_size"`
	Height        int              `yaml:"height"`
	Width         int              `yaml:"width"`
	KConcepts     int              `yaml:"k_concepts"`
	NClasses      int              `yaml:"nclasses"`
	Classes       map[int][]string `yaml:"classes"`
	SaveDir       string           `yaml:"save_dir"`
	Seed          uint64           `yaml:"seed"`
	BackgroundMax int              `yaml:"background_max"`
	Mix           []int            `yaml:"mix,flow"`
	Profile       string           `yaml:"profile"`
	Workers       int              `yaml:"workers"`
}

// FromConfig converts a run configuration into its file form.
func FromConfig(cfg shapeset.Config) File {
	f := File{
		N:             cfg.N,
		BatchSize:     cfg.BatchSize,
		Height:        cfg.Height,
		Width:         cfg.Width,
		KConcepts:     cfg.K,
		NClasses:      cfg.NClasses,
		Classes:       make(map[int][]string, len(cfg.Classes)),
		SaveDir:       cfg.SaveDir,
		Seed:          cfg.Seed,
		BackgroundMax: cfg.BackgroundMax,
		Mix:           []int{cfg.Mix[0], cfg.Mix[1]},
		Profile:       string(cfg.Profile),
		Workers:       cfg.Workers,
	}
	for id, vocab := range cfg.Classes {
		names := make([]string, len(vocab))
		for i, s := range vocab {
			names[i] = s.String()
		}
		f.Classes[id] = names
	}
	return f
}

// Config converts the file form into a run configuration. Shape names are
// resolved with shapeset.ParseShape.
func (f File) Config() (shapeset.Config, error) {
	cfg := shapeset.Config{
		N:             f.N,
		BatchSize:     f.BatchSize,
		Height:        f.Height,
		Width:         f.Width,
		K:             f.KConcepts,
		NClasses:      f.NClasses,
		Classes:       make(shapeset.ClassRules, len(f.Classes)),
		SaveDir:       f.SaveDir,
		Seed:          f.Seed,
		BackgroundMax: f.BackgroundMax,
		Profile:       shapeset.Profile(f.Profile),
		Workers:       f.Workers,
	}
	if len(f.Mix) != 2 {
		return cfg, fmt.Errorf("config: mix needs exactly two group ids, got %v", f.Mix)
	}
	cfg.Mix = [2]int{f.Mix[0], f.Mix[1]}
	for id, names := range f.Classes {
		shapes, err := shapeset.ParseShapes(names)
		if err != nil {
			return cfg, fmt.Errorf("config: class %d: %w", id, err)
		}
		cfg.Classes[id] = shapes
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
// A classes section replaces the default vocabularies as a whole.
func Parse(data []byte) (shapeset.Config, error) {
	f := FromConfig(shapeset.DefaultConfig())
	defaultClasses := f.Classes
	f.Classes = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return shapeset.Config{}, fmt.Errorf("config: %w", err)
	}
	if f.Classes == nil {
		f.Classes = defaultClasses
	}
	return f.Config()
}

// Load reads and parses a YAML file.
func Load(path string) (shapeset.Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return shapeset.Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Write encodes cfg as YAML.
func Write(w io.Writer, cfg shapeset.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromConfig(cfg)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return enc.Close()
}
