// Package lattice maps the discrete indices of a face-centered-cubic lattice
// with stacking faults to positions in space and enumerates nearest
// neighbors.
//
// Layers are close-packed (111) planes indexed by K. Within a layer, I runs
// along X and J along the 60° direction. The ABC registry of consecutive
// layers is encoded in a Stacking table rather than in the indices, so a
// fault changes neighbor offsets across one layer boundary but never the
// addressing of sites.
package lattice

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Number of nearest neighbors of an FCC site.
const Neighbors = 12

// DefaultDiameter is the diameter of a gold atom in nm.
const DefaultDiameter = 0.40782

// ErrFaultLayer reports a stacking fault outside the lattice depth.
var ErrFaultLayer = errors.New("lattice: stacking fault outside lattice")

var (
	sin60 = math.Sqrt(3) / 2
	yPart = 1 / (2 * math.Sqrt(3))
	zPart = math.Sqrt(2.0 / 3.0)

	xBasis = Position{X: 1}
	yBasis = Position{X: 0.5, Y: sin60}
	zBasis = Position{X: 0.5, Y: yPart, Z: zPart}
)

// Lattice is an FCC lattice bounded by Max on every axis.
type Lattice struct {
	max      Coord
	center   Coord
	diameter float64
	faults   []uint16
	stack    Stacking
}

// New builds a lattice of the given bounds with stacking faults at the listed
// layers. The fault list is copied, sorted and de-duplicated.
func New(bounds Coord, faults []uint16, diameter float64) (*Lattice, error) {
	if diameter <= 0 {
		diameter = DefaultDiameter
	}
	sorted := slices.Clone(faults)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	for _, f := range sorted {
		if f >= bounds.K {
			return nil, fmt.Errorf("%w: layer %d, depth %d", ErrFaultLayer, f, bounds.K)
		}
	}
	center := Coord{I: bounds.I / 2, J: bounds.J / 2, K: bounds.K / 2}
	return &Lattice{
		max:      bounds,
		center:   center,
		diameter: diameter,
		faults:   sorted,
		stack:    NewStacking(int(bounds.K), center.K, sorted),
	}, nil
}

// Max returns the exclusive upper bound of every axis.
func (l *Lattice) Max() Coord { return l.max }

// Center returns the conventional origin of the lattice, Max/2.
func (l *Lattice) Center() Coord { return l.center }

// Diameter returns the atom diameter.
func (l *Lattice) Diameter() float64 { return l.diameter }

// Faults returns a copy of the sorted stacking fault layers.
func (l *Lattice) Faults() []uint16 { return slices.Clone(l.faults) }

// Stacking exposes the stacking table. Callers must not modify it.
func (l *Lattice) Stacking() Stacking { return l.stack }

// Position maps a lattice coordinate to continuous space. Only the y
// component depends on the stacking registry of layer K.
func (l *Lattice) Position(c Coord) Position {
	d := l.diameter
	a := (float64(c.I) - float64(l.center.I)) * d
	b := (float64(c.J) - float64(l.center.J)) * d
	h := (float64(c.K) - float64(l.center.K)) * d
	return Position{
		X: xBasis.X*a + yBasis.X*b + zBasis.X*h,
		Y: xBasis.Y*a + yBasis.Y*b + zBasis.Y*float64(l.stack.Pos[c.K])*d,
		Z: xBasis.Z*a + yBasis.Z*b + zBasis.Z*h,
	}
}

// Coord maps a point back to the nearest lattice coordinate. The y input is
// corrected for the stacking offset of the recovered layer before the
// remaining components are back-solved. Results are clamped into the lattice.
func (l *Lattice) Coord(p Position) Coord {
	d := l.diameter
	h := p.Z / zBasis.Z
	k := clampIndex(h/d+float64(l.center.K), l.max.K)

	shift := int(l.center.K) - (int(k) - int(l.stack.Pos[k]))
	y := p.Y - zBasis.Y*float64(shift)*d

	b := (y - zBasis.Y*h) / yBasis.Y
	a := (p.X - yBasis.X*b - zBasis.X*h) / xBasis.X
	return Coord{
		I: clampIndex(a/d+float64(l.center.I), l.max.I),
		J: clampIndex(b/d+float64(l.center.J), l.max.J),
		K: k,
	}
}

// Neighbor returns nearest neighbor n (0..11) of c. Neighbors 0-5 lie in the
// same layer, 6-8 in the layer above and 9-11 in the layer below. Neighbors 7
// and 10 cross the layer boundary with the stacking shift, which is where a
// fault changes the local neighborhood. Any other n returns c.
//
// Arithmetic wraps like the underlying uint16; callers keep c within
// [1, Max-2] on every axis.
func (l *Lattice) Neighbor(c Coord, n int) Coord {
	i, j, k := c.I, c.J, c.K
	switch n {
	case 0:
		return Coord{i + 1, j, k}
	case 1:
		return Coord{i, j + 1, k}
	case 2:
		return Coord{i + 1, j - 1, k}
	case 3:
		return Coord{i - 1, j + 1, k}
	case 4:
		return Coord{i - 1, j, k}
	case 5:
		return Coord{i, j - 1, k}
	case 6:
		return Coord{i, j, k + 1}
	case 7:
		up := k + 1
		return Coord{i - l.stack.ShiftI[up], uint16(int(j) - int(l.stack.ShiftJ[up])), up}
	case 8:
		return Coord{i - 1, j, k + 1}
	case 9:
		return Coord{i, j, k - 1}
	case 10:
		return Coord{i + l.stack.ShiftI[k], uint16(int(j) + int(l.stack.ShiftJ[k])), k - 1}
	case 11:
		return Coord{i + 1, j, k - 1}
	}
	return c
}

// NeighborsOf returns all twelve nearest neighbors of c in index order.
func (l *Lattice) NeighborsOf(c Coord) [Neighbors]Coord {
	var out [Neighbors]Coord
	for n := range out {
		out[n] = l.Neighbor(c, n)
	}
	return out
}

func clampIndex(v float64, limit uint16) uint16 {
	r := math.Round(v)
	if r < 0 || math.IsNaN(r) || limit == 0 {
		return 0
	}
	if r > float64(limit)-1 {
		return limit - 1
	}
	return uint16(r)
}

func hypot3(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}
