// Package seed fills simple starting shapes into a crystal. Every shape is
// placed site by site, so sites outside the usable lattice or already
// occupied are skipped and each function returns how many sites it filled.
package seed

import (
	"math"

	"flake-growth/pkg/bulk"
	"flake-growth/pkg/lattice"
)

// Placer is the part of a crystal the shapes need.
type Placer interface {
	Lattice() *lattice.Lattice
	AddAtom(lattice.Coord) bool
	AddDirt(lattice.Coord) bool
}

func place(p Placer, site lattice.Coord, st bulk.State) bool {
	switch st {
	case bulk.Deposited:
		return p.AddAtom(site)
	case bulk.Contaminant:
		return p.AddDirt(site)
	}
	return false
}

// Layer fills a hexagon of the given edge length, in sites, within layer
// center.K around center.
func Layer(p Placer, center lattice.Coord, size int, st bulk.State) int {
	if size <= 0 {
		return 0
	}
	ci, cj := int(center.I), int(center.J)
	iMin, iMax := ci-size+1, ci+size
	jMin, jMax := cj-size+1, cj+size
	n := 0
	for i := iMin; i < iMax; i++ {
		for j := jMin; j < jMax; j++ {
			if i+j < iMin+cj || i+j >= iMax+cj || i < 0 || j < 0 {
				continue
			}
			if place(p, lattice.Coord{I: uint16(i), J: uint16(j), K: center.K}, st) {
				n++
			}
		}
	}
	return n
}

// Box fills the sites covering an axis-aligned cuboid around center.
func Box(p Placer, center lattice.Position, width, depth, height float64, st bulk.State) int {
	half := lattice.Position{X: width / 2, Y: depth / 2, Z: height / 2}
	return fill(p, center, half, st, func(lattice.Position) bool { return true })
}

// Sphere fills the atoms closer than radius to center.
func Sphere(p Placer, center lattice.Position, radius float64) int {
	half := lattice.Position{X: radius, Y: radius, Z: radius}
	return fill(p, center, half, bulk.Deposited, func(d lattice.Position) bool {
		return math.Sqrt(d.X*d.X+d.Y*d.Y+d.Z*d.Z) < radius
	})
}

// Cylinder fills the atoms of a cylinder along x, open at both ends.
func Cylinder(p Placer, center lattice.Position, length, radius float64) int {
	half := lattice.Position{X: length / 2, Y: radius, Z: radius}
	return fill(p, center, half, bulk.Deposited, func(d lattice.Position) bool {
		return -length/2 < d.X && d.X < length/2 && math.Hypot(d.Y, d.Z) < radius
	})
}

// RoundedBox fills a box standing on center: its base lies at center.Z and it
// reaches height above. The four vertical edges and the top edges and corners
// are rounded with radius, which is capped at the half width, half depth and
// height.
func RoundedBox(p Placer, center lattice.Position, width, depth, height, radius float64) int {
	radius = max(min(radius, width/2, depth/2, height), 0)
	inner := lattice.Position{X: width/2 - radius, Y: depth/2 - radius, Z: height - radius}
	mid := lattice.Position{X: center.X, Y: center.Y, Z: center.Z + height/2}
	half := lattice.Position{X: width / 2, Y: depth / 2, Z: height / 2}
	return fill(p, mid, half, bulk.Deposited, func(d lattice.Position) bool {
		ex := max(math.Abs(d.X)-inner.X, 0)
		ey := max(math.Abs(d.Y)-inner.Y, 0)
		ez := max(d.Z+height/2-inner.Z, 0)
		return ex*ex+ey*ey+ez*ez <= radius*radius+tolerance
	})
}

const tolerance = 1e-9

// fill walks the box center±half and places st at every site inside it whose
// offset from center passes keep.
func fill(p Placer, center, half lattice.Position, st bulk.State, keep func(lattice.Position) bool) int {
	l := p.Lattice()
	lo := center.Sub(half)
	hi := lattice.Position{X: center.X + half.X, Y: center.Y + half.Y, Z: center.Z + half.Z}
	n := 0
	for site := range l.Box(lo, hi).All() {
		d := l.Position(site).Sub(center)
		if math.Abs(d.X) > half.X+tolerance || math.Abs(d.Y) > half.Y+tolerance ||
			math.Abs(d.Z) > half.Z+tolerance || !keep(d) {
			continue
		}
		if place(p, site, st) {
			n++
		}
	}
	return n
}
