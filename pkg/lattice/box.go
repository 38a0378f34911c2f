package lattice

import "iter"

// BoxIter walks the lattice sites covering an axis-aligned box in raster
// order: along I within a row, row by row within a layer, then layer by
// layer upwards. The walk is finite and can be restarted with Reset.
//
// Row starts are shifted back by half a step per row, rounded outwards, to
// follow the 60° J axis, so a walk may include sites up to half a diameter
// below the x bound. Rows never start before I = 0. The start of every new layer is chosen from the
// candidates allowed by the stacking registry of that layer, which keeps the
// covered region aligned with the box across stacking faults.
type BoxIter struct {
	l *Lattice

	lo, hi Position
	last   Coord

	origin     Coord
	layerStart Coord
	next       Coord
}

// Box returns an iterator over the sites covering [lo, hi].
func (l *Lattice) Box(lo, hi Position) *BoxIter {
	it := &BoxIter{l: l}
	it.Reset(lo, hi)
	return it
}

// Reset restarts the iterator on a new box.
func (it *BoxIter) Reset(lo, hi Position) {
	it.lo, it.hi = lo, hi
	start := it.l.Coord(lo)
	it.last = it.l.Coord(hi)
	it.origin = start
	it.layerStart = start
	it.next = start
}

// Next returns the next coordinate, or false once the top layer is exhausted.
func (it *BoxIter) Next() (Coord, bool) {
	if it.next.K > it.last.K {
		return Coord{}, false
	}
	cur := it.next
	l := it.l
	switch {
	case l.Position(Coord{cur.I + 1, cur.J, cur.K}).X <= it.hi.X:
		it.next = Coord{cur.I + 1, cur.J, cur.K}
	case l.Position(Coord{cur.I, cur.J + 1, cur.K}).Y <= it.hi.Y:
		back := (cur.J + 2 - it.layerStart.J) / 2
		it.next = Coord{it.layerStart.I - min(back, it.layerStart.I), cur.J + 1, cur.K}
	default:
		it.layerStart = it.nextLayer(it.layerStart)
		it.next = it.layerStart
	}
	return cur, true
}

// All yields the remaining coordinates of the walk.
func (it *BoxIter) All() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for c, ok := it.Next(); ok; c, ok = it.Next() {
			if !yield(c) {
				return
			}
		}
	}
}

// nextLayer picks the start of the layer above c. Which lateral step keeps the
// start inside the box depends on the registry of the new layer.
func (it *BoxIter) nextLayer(c Coord) Coord {
	c.K++
	if c.K >= it.l.max.K {
		return c
	}
	if it.l.stack.ShiftI[c.K] == 0 {
		switch {
		case it.inside(Coord{c.I - 1, c.J, c.K}):
			c.I--
		case it.inside(Coord{c.I, c.J - 1, c.K}):
			c.J--
		}
		return c
	}
	switch {
	case it.inside(Coord{c.I - 1, c.J, c.K}):
		c.I--
	case it.inside(c):
	case it.inside(Coord{c.I - 1, c.J + 1, c.K}):
		c.I--
		c.J++
	}
	return c
}

func (it *BoxIter) inside(c Coord) bool {
	tol := 0.01 * it.l.diameter
	o := it.l.Position(it.origin)
	p := it.l.Position(c)
	return p.X >= o.X-tol && p.Y >= o.Y-tol
}
