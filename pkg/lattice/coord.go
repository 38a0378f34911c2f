package lattice

import "fmt"

// Coord addresses a site of the lattice by its close-packed indices. K is the
// layer, I and J span the hexagonal plane.
type Coord struct {
	I, J, K uint16
}

// String formats the coordinate as (i,j,k).
func (c Coord) String() string { return fmt.Sprintf("(%d,%d,%d)", c.I, c.J, c.K) }

// Key packs the coordinate into a single comparable integer.
func (c Coord) Key() uint64 {
	return uint64(c.I)<<32 | uint64(c.J)<<16 | uint64(c.K)
}

// Position is a point in continuous space, in the same unit as the atom
// diameter (nm by default).
type Position struct {
	X, Y, Z float64
}

// Sub returns p - o.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

// Dist returns the Euclidean distance between p and o.
func (p Position) Dist(o Position) float64 {
	d := p.Sub(o)
	return hypot3(d.X, d.Y, d.Z)
}
