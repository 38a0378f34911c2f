package crystal

import (
	"math"

	"flake-growth/pkg/bulk"
	"flake-growth/pkg/lattice"
)

// Extrema holds the outermost positions of the flake and the sites they
// belong to.
type Extrema struct {
	Min, Max     lattice.Position
	MinAt, MaxAt [3]lattice.Coord // indexed by axis x, y, z
}

func newExtrema(center lattice.Coord) Extrema {
	at := [3]lattice.Coord{center, center, center}
	return Extrema{MinAt: at, MaxAt: at}
}

// update extends the extrema to site. The first atom of a flake, count 1,
// collapses them onto its position.
func (e *Extrema) update(l *lattice.Lattice, site lattice.Coord, count int) {
	p := l.Position(site)
	if count == 1 {
		e.Min, e.Max = p, p
		e.MinAt = [3]lattice.Coord{site, site, site}
		e.MaxAt = e.MinAt
		return
	}
	for axis, v := range [3]float64{p.X, p.Y, p.Z} {
		lo, hi := axisPtr(&e.Min, axis), axisPtr(&e.Max, axis)
		if v < *lo {
			*lo = v
			e.MinAt[axis] = site
		}
		if v > *hi {
			*hi = v
			e.MaxAt[axis] = site
		}
	}
}

func axisPtr(p *lattice.Position, axis int) *float64 {
	switch axis {
	case 0:
		return &p.X
	case 1:
		return &p.Y
	}
	return &p.Z
}

// Size describes the outer dimensions of the flake.
type Size struct {
	Height      float64 // along z, across the layers
	Width       float64 // along x
	Depth       float64 // along y
	AspectRatio float64 // lateral size over height
}

// Hexagon approximates the outline of the flake in the xy plane. Points 0-2
// trace the side through the minimal x site, points 3-5 the side through the
// maximal x site.
type Hexagon [6]lattice.Position

// Sides returns the lengths of the two edges meeting at the minimal x corner
// and the share of the first one. The share is 0.5 for a regular hexagon and
// tends to 0 or 1 for a triangle.
func (h Hexagon) Sides() (first, second, share float64) {
	first = math.Hypot(h[0].X-h[1].X, h[0].Y-h[1].Y)
	second = math.Hypot(h[2].X-h[1].X, h[2].Y-h[1].Y)
	if first+second > 0 {
		share = first / (first + second)
	}
	return first, second, share
}

// Extrema returns the outermost positions of the flake.
func (c *Crystal) Extrema() Extrema { return c.extrema }

// Size returns height, width, depth and the aspect ratio sqrt(w*d)/h. Every
// extent includes one atom diameter.
func (c *Crystal) Size() Size {
	d := c.lat.Diameter()
	e := c.extrema
	s := Size{
		Height: e.Max.Z - e.Min.Z + d,
		Width:  e.Max.X - e.Min.X + d,
		Depth:  e.Max.Y - e.Min.Y + d,
	}
	s.AspectRatio = math.Sqrt(s.Width*s.Depth) / s.Height
	return s
}

// Hexagon spans a hexagon from the four lateral extrema sites. Each side
// starts at the site with minimal or maximal x and runs along the two lattice
// directions in that layer until it reaches the row of the y extrema.
func (c *Crystal) Hexagon() Hexagon {
	e := c.extrema
	pos := func(i, j int, k uint16) lattice.Position {
		return c.lat.Position(lattice.Coord{I: uint16(i), J: uint16(j), K: k})
	}

	left := e.MinAt[0]
	li, lj := int(left.I), int(left.J)
	up := int(e.MaxAt[1].J) - lj
	down := lj - int(e.MinAt[1].J)

	right := e.MaxAt[0]
	ri, rj := int(right.I), int(right.J)
	rdown := int(e.MinAt[1].J) - rj
	rup := rj - int(e.MaxAt[1].J)

	return Hexagon{
		pos(li, lj+up, left.K),
		c.lat.Position(left),
		pos(li+down, lj-down, left.K),
		pos(ri, rj+rdown, right.K),
		c.lat.Position(right),
		pos(ri+rup, rj-rup, right.K),
	}
}

// Count returns the number of occupied sites, atoms and contaminants.
func (c *Crystal) Count() int { return c.bulk.Count() }

// Extent returns the bounding box of all occupied sites.
func (c *Crystal) Extent() bulk.Extent { return c.bulk.Extent() }

// State returns the content of site, which must lie inside the lattice.
func (c *Crystal) State(site lattice.Coord) bulk.State { return c.bulk.At(site) }

// IsSurface reports whether site is an exposed atom.
func (c *Crystal) IsSurface(site lattice.Coord) bool { return c.surface.Contains(site) }

// SurfaceLen returns the number of exposed atoms.
func (c *Crystal) SurfaceLen() int { return c.surface.Len() }

// DirtLen returns the number of contaminants.
func (c *Crystal) DirtLen() int { return c.dirt.Len() }

// VacancyLen returns the number of vacancies with coordination b+1.
func (c *Crystal) VacancyLen(b int) int { return c.vacancies.Len(b) }

// VacancyBucket returns the coordination bucket of site, or -1 when it is not
// a tracked vacancy.
func (c *Crystal) VacancyBucket(site lattice.Coord) int { return c.vacancies.Bucket(site) }
