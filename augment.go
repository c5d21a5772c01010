package shapeset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gogpu/shapeset/internal/warp"
)

// Profile names a preset augmentation configuration.
type Profile string

// Augmentation profiles.
const (
	// ProfileDefault rotates within ±90°, translates within ±28% of the
	// canvas size, shears within ±25° and adds unit Gaussian noise.
	ProfileDefault Profile = "default"

	// ProfileWide is ProfileDefault with rotations over the full ±180°.
	ProfileWide Profile = "wide"

	// ProfileNone disables every augmentation step.
	ProfileNone Profile = "none"
)

// AugmentConfig holds the symmetric sampling ranges of one augmentation
// pipeline. Every range is sampled uniformly and independently per image.
type AugmentConfig struct {
	// Rotate is the maximum absolute rotation in degrees.
	Rotate float64
	// Translate is the maximum absolute shift per axis as a fraction of
	// the canvas size.
	Translate float64
	// Shear is the maximum absolute horizontal shear in degrees.
	Shear float64
	// NoiseSigma is the standard deviation of the additive Gaussian noise
	// in 8-bit units.
	NoiseSigma float64
	// PerChannelNoise draws separate noise for each channel instead of one
	// value shared by the pixel.
	PerChannelNoise bool
}

// ProfileConfig returns the configuration of a named profile.
// The empty name selects ProfileDefault.
func ProfileConfig(p Profile) (AugmentConfig, error) {
	switch p {
	case ProfileDefault, "":
		return AugmentConfig{Rotate: 90, Translate: 0.28, Shear: 25, NoiseSigma: 1}, nil
	case ProfileWide:
		return AugmentConfig{Rotate: 180, Translate: 0.28, Shear: 25, NoiseSigma: 1}, nil
	case ProfileNone:
		return AugmentConfig{}, nil
	default:
		return AugmentConfig{}, fmt.Errorf("%w: unknown profile %q", ErrInvalidAugmentConfig, p)
	}
}

// Validate checks that every range is usable.
func (c AugmentConfig) Validate() error {
	switch {
	case c.Rotate < 0, c.Translate < 0, c.Shear < 0, c.NoiseSigma < 0:
		return fmt.Errorf("%w: negative range in %+v", ErrInvalidAugmentConfig, c)
	case c.Shear >= 90:
		return fmt.Errorf("%w: shear %g° is degenerate", ErrInvalidAugmentConfig, c.Shear)
	}
	return nil
}

// Augmenter applies a random affine transform followed by additive
// Gaussian noise to every image of a batch.
type Augmenter struct {
	cfg AugmentConfig
}

// NewAugmenter validates cfg and returns an Augmenter.
func NewAugmenter(cfg AugmentConfig) (*Augmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Augmenter{cfg: cfg}, nil
}

// NewProfileAugmenter returns an Augmenter for a named profile.
func NewProfileAugmenter(p Profile) (*Augmenter, error) {
	cfg, err := ProfileConfig(p)
	if err != nil {
		return nil, err
	}
	return NewAugmenter(cfg)
}

// Config returns the augmenter's configuration.
func (a *Augmenter) Config() AugmentConfig { return a.cfg }

// Augment returns a new batch of the same length and shape. Each image gets
// its own transform and noise drawn from rng; inputs are not modified.
func (a *Augmenter) Augment(images []*Canvas, rng *rand.Rand) ([]*Canvas, error) {
	out := make([]*Canvas, len(images))
	for i, img := range images {
		aug, err := a.augmentOne(img, rng)
		if err != nil {
			return nil, fmt.Errorf("augment image %d: %w", i, err)
		}
		out[i] = aug
	}
	return out, nil
}

func (a *Augmenter) augmentOne(img *Canvas, rng *rand.Rand) (*Canvas, error) {
	dst := img.Clone()
	p := a.sampleParams(img.width, img.height, rng)
	if p != (warp.Params{}) {
		cx := float64(img.width-1) / 2
		cy := float64(img.height-1) / 2
		if err := warp.Warp(dst.pix, img.pix, img.width, img.height, warp.Compose(p, cx, cy)); err != nil {
			return nil, err
		}
	}
	a.addNoise(dst, rng)
	return dst, nil
}

// sampleParams draws rotation, translation (x then y) and shear.
func (a *Augmenter) sampleParams(w, h int, rng *rand.Rand) warp.Params {
	return warp.Params{
		Rotate:     degToRad(symmetric(rng, a.cfg.Rotate)),
		TranslateX: symmetric(rng, a.cfg.Translate) * float64(w),
		TranslateY: symmetric(rng, a.cfg.Translate) * float64(h),
		Shear:      degToRad(symmetric(rng, a.cfg.Shear)),
	}
}

func (a *Augmenter) addNoise(c *Canvas, rng *rand.Rand) {
	sigma := a.cfg.NoiseSigma
	if sigma == 0 {
		return
	}
	for i := 0; i < len(c.pix); i += Channels {
		n := rng.NormFloat64() * sigma
		for ch := range Channels {
			if ch > 0 && a.cfg.PerChannelNoise {
				n = rng.NormFloat64() * sigma
			}
			c.pix[i+ch] = clampByte(math.Round(float64(c.pix[i+ch]) + n))
		}
	}
}

// symmetric draws uniformly from [-r, r). A zero range consumes no draw.
func symmetric(rng *rand.Rand, r float64) float64 {
	if r == 0 {
		return 0
	}
	return (rng.Float64()*2 - 1) * r
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// clampByte saturates v to [0, 255] and truncates.
func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
