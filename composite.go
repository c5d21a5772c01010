package shapeset

import "fmt"

// Combine blends one batch per shape type into a single batch of composite
// images.
//
// batches[j][i] is the i-th instance of the j-th shape type. For every
// sample index i the accumulator starts at background and receives
// batches[j][i]/len(batches) for every j. This is a renormalizing average,
// not an alpha overlay: the shape canvases' own backgrounds are diluted by
// the same factor as their foregrounds. The accumulator is truncated to
// 8 bits once at the end, saturating at 255.
//
// All batches must have the same length and every canvas the same shape.
func Combine(batches [][]*Canvas, background Color) ([]*Canvas, error) {
	n, err := checkBatches(batches)
	if err != nil {
		return nil, err
	}
	out := make([]*Canvas, n)
	for i := range out {
		out[i] = combineSample(batches, i, background)
	}
	return out, nil
}

// checkBatches validates the batch layout and returns the common length.
func checkBatches(batches [][]*Canvas) (int, error) {
	if len(batches) == 0 {
		return 0, ErrNoShapeTypes
	}
	n := len(batches[0])
	var ref *Canvas
	for j, b := range batches {
		if len(b) != n {
			return 0, fmt.Errorf("%w: batch %d has %d images, want %d", ErrBatchLengthMismatch, j, len(b), n)
		}
		for i, c := range b {
			if c == nil {
				return 0, fmt.Errorf("%w: batch %d image %d is nil", ErrShapeMismatch, j, i)
			}
			if ref == nil {
				ref = c
				continue
			}
			if !c.SameShape(ref) {
				return 0, fmt.Errorf("%w: batch %d image %d is %dx%d, want %dx%d",
					ErrShapeMismatch, j, i, c.width, c.height, ref.width, ref.height)
			}
		}
	}
	return n, nil
}

// combineSample builds composite i. batches must already be validated.
//
// Channel values are summed as integers before the single division, which
// keeps the result independent of batch order.
func combineSample(batches [][]*Canvas, i int, background Color) *Canvas {
	first := batches[0][i]
	sum := make([]uint32, len(first.pix))
	for _, b := range batches {
		for p, v := range b[i].pix {
			sum[p] += uint32(v)
		}
	}

	bg := [Channels]float64{float64(background.R), float64(background.G), float64(background.B)}
	k := float64(len(batches))
	out := &Canvas{width: first.width, height: first.height, pix: make([]uint8, len(sum))}
	for p, v := range sum {
		out.pix[p] = clampByte(bg[p%Channels] + float64(v)/k)
	}
	return out
}
