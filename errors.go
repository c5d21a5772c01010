package shapeset

import "errors"

// Configuration and input errors. They are never retried; callers match
// them with errors.Is.
var (
	// ErrUnknownShapeType is returned when a shape name or tag is outside
	// the fixed vocabulary.
	ErrUnknownShapeType = errors.New("shapeset: unknown shape type")

	// ErrInvalidConceptCardinality is returned when the concept size leaves
	// the mixed-class split range [2, k) empty.
	ErrInvalidConceptCardinality = errors.New("shapeset: invalid concept cardinality")

	// ErrNoShapeTypes is returned when compositing receives no batches.
	ErrNoShapeTypes = errors.New("shapeset: no shape types to combine")

	// ErrBatchLengthMismatch is returned when composited batches differ in length.
	ErrBatchLengthMismatch = errors.New("shapeset: batch length mismatch")

	// ErrShapeMismatch is returned when canvases of different sizes are mixed.
	ErrShapeMismatch = errors.New("shapeset: canvas shape mismatch")

	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("shapeset: invalid dimensions")

	// ErrCanvasTooSmall is returned when the canvas cannot hold the object
	// size envelope [height/10, height/4).
	ErrCanvasTooSmall = errors.New("shapeset: canvas too small for object sizes")

	// ErrNegativeDimension is returned when a sampled radius, side or axis
	// length is negative.
	ErrNegativeDimension = errors.New("shapeset: negative shape dimension")

	// ErrInvalidAugmentConfig is returned for negative augmentation ranges.
	ErrInvalidAugmentConfig = errors.New("shapeset: invalid augmentation config")

	// ErrInvalidClassRule is returned for empty vocabularies, reserved group
	// ids or missing mixing groups.
	ErrInvalidClassRule = errors.New("shapeset: invalid class rule")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("shapeset: invalid config")
)
