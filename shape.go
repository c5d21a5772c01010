package shapeset

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Shape identifies one entry of the fixed shape vocabulary.
type Shape uint8

const (
	// Circle is a filled disc.
	Circle Shape = iota
	// Square is an axis-aligned filled rectangle with independent sides.
	Square
	// Triangle is a three-sided polygon.
	Triangle
	// Pentagon is a five-sided polygon.
	Pentagon
	// Hexagon is a six-sided polygon.
	Hexagon
	// Octagon is an eight-sided polygon.
	Octagon
	// Ellipse is a rotated filled ellipse.
	Ellipse
	// Capsule is a rectangle with two semicircular end caps.
	Capsule

	numShapes
)

var shapeNames = [numShapes]string{
	Circle:   "circle",
	Square:   "square",
	Triangle: "triangle",
	Pentagon: "pentagon",
	Hexagon:  "hexagon",
	Octagon:  "octagon",
	Ellipse:  "ellipse",
	Capsule:  "capsule",
}

// Shapes returns the full vocabulary in declaration order.
func Shapes() []Shape {
	out := make([]Shape, numShapes)
	for i := range out {
		out[i] = Shape(i)
	}
	return out
}

// Valid reports whether s is part of the vocabulary.
func (s Shape) Valid() bool {
	return s < numShapes
}

// String returns the canonical lowercase name.
func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
	return shapeNames[s]
}

// Sides returns the polygon vertex count, or 0 for shapes that are not
// regular polygons.
func (s Shape) Sides() int {
	switch s {
	case Triangle:
		return 3
	case Pentagon:
		return 5
	case Hexagon:
		return 6
	case Octagon:
		return 8
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShapeType, uint8(s))
	}
	return []byte(shapeNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseShape.
func (s *Shape) UnmarshalText(text []byte) error {
	v, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseShape looks up a shape by name. Matching ignores case and
// surrounding whitespace.
func ParseShape(name string) (Shape, error) {
	folded := cases.Fold().String(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == folded {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (allowed: %s)", ErrUnknownShapeType, name, strings.Join(shapeNames[:], ", "))
}

// ParseShapes parses a list of names, failing on the first unknown one.
func ParseShapes(names []string) ([]Shape, error) {
	out := make([]Shape, 0, len(names))
	for _, n := range names {
		s, err := ParseShape(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
