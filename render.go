package shapeset

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"math/rand/v2"

	"golang.org/x/image/vector"
)

// MinCanvasHeight is the smallest canvas height whose object size envelope
// [height/10, height/4) leaves room for every shape's sampling ranges.
const MinCanvasHeight = 20

// kappa is the cubic Bézier control distance that approximates a quarter
// of the unit circle.
const kappa = 0.5522847498307936

// Renderer rasterizes randomly parameterized shapes onto fresh canvases.
//
// A Renderer holds only immutable geometry derived from the canvas size, so
// one value can be shared by any number of goroutines as long as each
// goroutine passes its own random source.
type Renderer struct {
	width     int
	height    int
	minObject int
	maxObject int
}

// NewRenderer creates a renderer for width × height canvases.
// Object sizes are drawn from [height/10, height/4).
func NewRenderer(width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if height < MinCanvasHeight {
		return nil, fmt.Errorf("%w: height %d < %d", ErrCanvasTooSmall, height, MinCanvasHeight)
	}
	return &Renderer{
		width:     width,
		height:    height,
		minObject: height / 10,
		maxObject: height / 4,
	}, nil
}

// Width returns the canvas width.
func (r *Renderer) Width() int { return r.width }

// Height returns the canvas height.
func (r *Renderer) Height() int { return r.height }

// ObjectRange returns the [min, max) bounds used for linear dimensions.
func (r *Renderer) ObjectRange() (lo, hi int) { return r.minObject, r.maxObject }

// Render draws one instance of shape on a canvas filled with background.
// Geometry is sampled first, then the fill color, both from rng.
func (r *Renderer) Render(shape Shape, background Color, rng *rand.Rand) (*Canvas, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownShapeType, shape)
	}
	mask, err := r.mask(shape, rng)
	if err != nil {
		return nil, fmt.Errorf("render %v: %w", shape, err)
	}
	fill := RandomColor(rng, 256)

	c, err := NewCanvas(r.width, r.height, background)
	if err != nil {
		return nil, err
	}
	paintMask(c, mask, fill)
	return c, nil
}

// RenderBatch draws n independently parameterized instances of shape.
func (r *Renderer) RenderBatch(shape Shape, n int, background Color, rng *rand.Rand) ([]*Canvas, error) {
	out := make([]*Canvas, n)
	for i := range out {
		c, err := r.Render(shape, background, rng)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// mask dispatches on the shape tag and returns its coverage mask.
func (r *Renderer) mask(shape Shape, rng *rand.Rand) (*image.Alpha, error) {
	switch shape {
	case Circle:
		return r.circle(rng)
	case Square:
		return r.square(rng)
	case Triangle, Pentagon, Hexagon, Octagon:
		return r.polygon(rng, shape.Sides())
	case Ellipse:
		return r.ellipse(rng)
	case Capsule:
		return r.capsule(rng)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownShapeType, shape)
	}
}

func (r *Renderer) circle(rng *rand.Rand) (*image.Alpha, error) {
	radius, err := sampleDim(rng, r.minObject, r.maxObject)
	if err != nil {
		return nil, err
	}
	z := r.rasterizer()
	ellipsePath(z, r.centerX(), r.centerY(), float64(radius), float64(radius), 0)
	return coverage(z), nil
}

func (r *Renderer) square(rng *rand.Rand) (*image.Alpha, error) {
	h, err := sampleDim(rng, r.minObject, r.maxObject)
	if err != nil {
		return nil, err
	}
	w, err := sampleDim(rng, r.minObject, r.maxObject)
	if err != nil {
		return nil, err
	}
	x0, y0, x1, y1 := r.centeredRect(w, h)
	z := r.rasterizer()
	rectPath(z, x0, y0, x1, y1)
	return coverage(z), nil
}

// polygon samples a circumradius pair and lays out sides vertices equally
// spaced in angle. The bounding box origin is shifted by half the maximum
// object size toward the canvas center.
func (r *Renderer) polygon(rng *rand.Rand, sides int) (*image.Alpha, error) {
	if sides < 3 {
		return nil, fmt.Errorf("%w: polygon with %d sides", ErrUnknownShapeType, sides)
	}
	sx, err := sampleDim(rng, r.minObject, r.maxObject)
	if err != nil {
		return nil, err
	}
	sy, err := sampleDim(rng, r.minObject, r.maxObject)
	if err != nil {
		return nil, err
	}
	offX := r.width/2 - r.maxObject/2
	offY := r.height/2 - r.maxObject/2

	z := r.rasterizer()
	for i := range sides {
		th := float64(i) * 2 * math.Pi / float64(sides)
		px := int((math.Cos(th)+1)*float64(sx)) + offX
		py := int((math.Sin(th)+1)*float64(sy)) + offY
		x, y := float32(px)+0.5, float32(py)+0.5
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	return coverage(z), nil
}

// ellipse uses semi-axes: major from [2·min, max), minor from [min, max),
// and a whole-degree rotation in [0, 360).
func (r *Renderer) ellipse(rng *rand.Rand) (*image.Alpha, error) {
	major, err := sampleDim(rng, 2*r.minObject, r.maxObject)
	if err != nil {
		return nil, err
	}
	minor, err := sampleDim(rng, r.minObject, r.maxObject)
	if err != nil {
		return nil, err
	}
	angle := float64(rng.IntN(360)) * math.Pi / 180

	z := r.rasterizer()
	ellipsePath(z, r.centerX(), r.centerY(), float64(major), float64(minor), angle)
	return coverage(z), nil
}

// capsule is a rectangle whose two short edges carry discs of radius
// width/2 centered on the edge mid-points.
func (r *Renderer) capsule(rng *rand.Rand) (*image.Alpha, error) {
	h, err := sampleDim(rng, 2*r.minObject, r.maxObject)
	if err != nil {
		return nil, err
	}
	w, err := sampleDim(rng, r.minObject, r.maxObject)
	if err != nil {
		return nil, err
	}
	radius := w / 2
	if err := checkDims(radius); err != nil {
		return nil, err
	}
	x0, y0, x1, y1 := r.centeredRect(w, h)

	z := r.rasterizer()
	rectPath(z, x0, y0, x1, y1)
	body := coverage(z)

	caps := [2]image.Point{{X: x0 + w/2, Y: y0}, {X: x1 - w/2, Y: y1}}
	for _, p := range caps {
		z = r.rasterizer()
		ellipsePath(z, float64(p.X)+0.5, float64(p.Y)+0.5, float64(radius), float64(radius), 0)
		unionMask(body, coverage(z))
	}
	return body, nil
}

// centeredRect returns the inclusive pixel corners of a w × h rectangle
// centered on the canvas.
func (r *Renderer) centeredRect(w, h int) (x0, y0, x1, y1 int) {
	return r.width/2 - w/2, r.height/2 - h/2, r.width/2 + w/2, r.height/2 + h/2
}

func (r *Renderer) centerX() float64 { return float64(r.width/2) + 0.5 }
func (r *Renderer) centerY() float64 { return float64(r.height/2) + 0.5 }

func (r *Renderer) rasterizer() *vector.Rasterizer {
	z := vector.NewRasterizer(r.width, r.height)
	z.DrawOp = draw.Src
	return z
}

// sampleDim draws an integer uniformly from [lo, hi).
func sampleDim(rng *rand.Rand, lo, hi int) (int, error) {
	if err := checkDims(lo, hi); err != nil {
		return 0, err
	}
	if hi <= lo {
		return 0, fmt.Errorf("%w: empty range [%d, %d)", ErrCanvasTooSmall, lo, hi)
	}
	return lo + rng.IntN(hi-lo), nil
}

func checkDims(vals ...int) error {
	for _, v := range vals {
		if v < 0 {
			return fmt.Errorf("%w: %d", ErrNegativeDimension, v)
		}
	}
	return nil
}

// rectPath adds a rectangle covering the pixels [x0, x1] × [y0, y1].
func rectPath(z *vector.Rasterizer, x0, y0, x1, y1 int) {
	fx0, fy0 := float32(x0), float32(y0)
	fx1, fy1 := float32(x1+1), float32(y1+1)
	z.MoveTo(fx0, fy0)
	z.LineTo(fx1, fy0)
	z.LineTo(fx1, fy1)
	z.LineTo(fx0, fy1)
	z.ClosePath()
}

// ellipsePath adds an ellipse with semi-axes (rx, ry) rotated by angle
// radians around (cx, cy), as four cubic Bézier quadrants.
func ellipsePath(z *vector.Rasterizer, cx, cy, rx, ry, angle float64) {
	sin, cos := math.Sincos(angle)
	pt := func(u, v float64) (float32, float32) {
		x := u * rx
		y := v * ry
		return float32(cx + x*cos - y*sin), float32(cy + x*sin + y*cos)
	}
	// Quadrant control points on the unit circle, counter-clockwise from (1, 0).
	quads := [4][3][2]float64{
		{{1, kappa}, {kappa, 1}, {0, 1}},
		{{-kappa, 1}, {-1, kappa}, {-1, 0}},
		{{-1, -kappa}, {-kappa, -1}, {0, -1}},
		{{kappa, -1}, {1, -kappa}, {1, 0}},
	}
	z.MoveTo(pt(1, 0))
	for _, q := range quads {
		ax, ay := pt(q[0][0], q[0][1])
		bx, by := pt(q[1][0], q[1][1])
		cx2, cy2 := pt(q[2][0], q[2][1])
		z.CubeTo(ax, ay, bx, by, cx2, cy2)
	}
	z.ClosePath()
}

// coverage finishes rasterization into an 8-bit coverage mask.
func coverage(z *vector.Rasterizer) *image.Alpha {
	dst := image.NewAlpha(z.Bounds())
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}

// unionMask stores max(dst, src) per pixel in dst.
func unionMask(dst, src *image.Alpha) {
	for i, a := range src.Pix {
		if a > dst.Pix[i] {
			dst.Pix[i] = a
		}
	}
}

// paintMask blends fill into c, weighting each pixel by its coverage.
func paintMask(c *Canvas, mask *image.Alpha, fill Color) {
	src := [Channels]uint32{uint32(fill.R), uint32(fill.G), uint32(fill.B)}
	for y := 0; y < c.height; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+c.width]
		for x, a := range row {
			if a == 0 {
				continue
			}
			i := (y*c.width + x) * Channels
			if a == 0xff {
				c.pix[i+0] = fill.R
				c.pix[i+1] = fill.G
				c.pix[i+2] = fill.B
				continue
			}
			wa := uint32(a)
			for ch := range Channels {
				d := uint32(c.pix[i+ch])
				c.pix[i+ch] = uint8((d*(0xff-wa) + src[ch]*wa + 0x7f) / 0xff)
			}
		}
	}
}
