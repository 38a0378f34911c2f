package seed

import (
	"errors"
	"fmt"
	"slices"

	"flake-growth/pkg/bulk"
	"flake-growth/pkg/lattice"
)

// Shape names one of the seeds a run can start from.
type Shape string

const (
	ShapeLayer      Shape = "layer"
	ShapeBox        Shape = "box"
	ShapeSphere     Shape = "sphere"
	ShapeCylinder   Shape = "cylinder"
	ShapeRoundedBox Shape = "rounded_box"
)

// Shapes lists every shape in cycling order.
var Shapes = []Shape{ShapeLayer, ShapeBox, ShapeSphere, ShapeCylinder, ShapeRoundedBox}

// ErrShape reports a shape name that is not in Shapes.
var ErrShape = errors.New("seed: unknown shape")

// ParseShape checks a shape name.
func ParseShape(s string) (Shape, error) {
	if !slices.Contains(Shapes, Shape(s)) {
		return "", fmt.Errorf("%w %q", ErrShape, s)
	}
	return Shape(s), nil
}

// Next returns the shape after s in Shapes, wrapping around.
func (s Shape) Next() Shape {
	n := slices.Index(Shapes, s)
	return Shapes[(n+1)%len(Shapes)]
}

// Grower is a Placer that knows its center and occupied extent.
type Grower interface {
	Placer
	Center() lattice.Coord
	Count() int
	Extent() bulk.Extent
}

// Spec describes the seed planted at the start of a run. Size is measured in
// atom diameters, or in sites along the hexagon edge for a layer. A positive
// Dirt covers the seed with a contaminant layer of that edge length.
type Spec struct {
	Shape Shape
	Size  int
	Dirt  int
}

// DefaultSpec is a hexagonal layer of edge 3, the smallest seed the
// predefined weight lists grow from.
func DefaultSpec() Spec { return Spec{Shape: ShapeLayer, Size: 3} }

// Validate rejects unknown shapes and out-of-range sizes.
func (s Spec) Validate() error {
	if _, err := ParseShape(string(s.Shape)); err != nil {
		return err
	}
	if s.Size < 1 {
		return fmt.Errorf("seed: size must be positive, got %d", s.Size)
	}
	if s.Dirt < 0 {
		return fmt.Errorf("seed: dirt must not be negative, got %d", s.Dirt)
	}
	return nil
}

// Plant places the seed around the center of g and returns the number of
// atoms and contaminants it filled. Unknown shapes fall back to a layer.
func (s Spec) Plant(g Grower) (atoms, dirt int) {
	center := g.Center()
	size := max(s.Size, 1)
	d := g.Lattice().Diameter()
	edge := float64(size) * d
	pos := g.Lattice().Position(center)

	switch s.Shape {
	case ShapeBox:
		atoms = Box(g, pos, edge, edge, float64(max(size/2, 1))*d, bulk.Deposited)
	case ShapeSphere:
		atoms = Sphere(g, pos, edge/2)
	case ShapeCylinder:
		atoms = Cylinder(g, pos, 2*edge, edge/2)
	case ShapeRoundedBox:
		atoms = RoundedBox(g, pos, edge, edge/2, edge/3, edge/6)
	default:
		atoms = Layer(g, center, size, bulk.Deposited)
	}

	if s.Dirt > 0 && g.Count() > 0 {
		top := lattice.Coord{I: center.I, J: center.J, K: g.Extent().Max.K + 1}
		dirt = Layer(g, top, s.Dirt, bulk.Contaminant)
	}
	return atoms, dirt
}
