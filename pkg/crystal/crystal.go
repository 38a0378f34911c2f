// Package crystal grows FCC flakes atom by atom.
//
// A Crystal owns the lattice geometry, the packed site store, the set of
// exposed (surface) atoms, the contaminant set and the coordination partition
// of the vacancies around the flake. Placing an atom updates all of them
// incrementally; the next growth site is drawn with a probability
// proportional to the weight of its coordination class.
//
// Changing the stacking faults or the substrate plane changes coordination
// numbers globally. Callers must follow such a change with UpdateVacancies
// before growing further.
package crystal

import (
	"errors"
	"fmt"
	"math"

	"flake-growth/pkg/bulk"
	"flake-growth/pkg/core"
	"flake-growth/pkg/lattice"
	"flake-growth/pkg/sites"
	"flake-growth/pkg/vacancy"
)

var (
	// ErrOccupied reports a placement on a non-empty site.
	ErrOccupied = errors.New("crystal: site occupied")
	// ErrOutOfBounds reports a placement outside the usable lattice.
	ErrOutOfBounds = errors.New("crystal: site out of bounds")
	// ErrBounds reports lattice bounds below MinBound.
	ErrBounds = errors.New("crystal: lattice too small")
	// ErrSubstrate reports a substrate plane outside the lattice.
	ErrSubstrate = errors.New("crystal: substrate outside lattice")
	// ErrProbList reports an unknown probability list.
	ErrProbList = errors.New("crystal: unknown probability list")
)

// Crystal is a growing flake. It is not safe for concurrent use.
type Crystal struct {
	lat  *lattice.Lattice
	bulk *bulk.Store

	surface   *sites.Set
	dirt      *sites.Set
	vacancies *vacancy.Index

	extrema   Extrema
	substrate uint16

	probList int
	weights  vacancy.Weights
	rng      *core.RNG
}

// New allocates an empty crystal.
func New(cfg Config) (*Crystal, error) {
	b := cfg.Bounds
	if b.I < MinBound || b.J < MinBound || b.K < MinBound {
		return nil, fmt.Errorf("%w: %v, need at least %d per axis", ErrBounds, b, MinBound)
	}
	if cfg.Substrate >= b.K {
		return nil, fmt.Errorf("%w: layer %d, depth %d", ErrSubstrate, cfg.Substrate, b.K)
	}
	if cfg.ProbList < 0 || cfg.ProbList >= len(ProbLists) {
		return nil, fmt.Errorf("%w: %d", ErrProbList, cfg.ProbList)
	}
	lat, err := lattice.New(b, cfg.StackingFaults, cfg.Diameter)
	if err != nil {
		return nil, err
	}
	c := &Crystal{
		lat:       lat,
		bulk:      bulk.New(b),
		surface:   sites.New(),
		dirt:      sites.New(),
		vacancies: vacancy.New(),
		substrate: cfg.Substrate,
		probList:  cfg.ProbList,
		weights:   ProbLists[cfg.ProbList],
		rng:       core.NewRNG(cfg.Seed),
	}
	c.extrema = newExtrema(lat.Center())
	return c, nil
}

// Clear removes every atom and resets the derived state.
func (c *Crystal) Clear() {
	c.bulk.Clear()
	c.surface.Clear()
	c.dirt.Clear()
	c.vacancies.Clear()
	c.extrema = newExtrema(c.lat.Center())
}

// Reseed restarts the random sequence used for site selection.
func (c *Crystal) Reseed(seed int64) { c.rng.Reseed(seed) }

// Lattice returns the current lattice geometry.
func (c *Crystal) Lattice() *lattice.Lattice { return c.lat }

// Center returns the central lattice site.
func (c *Crystal) Center() lattice.Coord { return c.lat.Center() }

// SetStackingFaults replaces the lattice with one faulted at the given
// layers. Call UpdateVacancies afterwards.
func (c *Crystal) SetStackingFaults(faults []uint16) error {
	lat, err := lattice.New(c.lat.Max(), faults, c.lat.Diameter())
	if err != nil {
		return err
	}
	c.lat = lat
	return nil
}

// Substrate returns the substrate plane.
func (c *Crystal) Substrate() uint16 { return c.substrate }

// SetSubstrate moves the substrate plane. Call UpdateVacancies afterwards.
func (c *Crystal) SetSubstrate(k uint16) error {
	if k >= c.lat.Max().K {
		return fmt.Errorf("%w: layer %d, depth %d", ErrSubstrate, k, c.lat.Max().K)
	}
	c.substrate = k
	return nil
}

// ProbList returns the index of the active probability list.
func (c *Crystal) ProbList() int { return c.probList }

// SetProbList activates one of ProbLists.
func (c *Crystal) SetProbList(n int) error {
	if n < 0 || n >= len(ProbLists) {
		return fmt.Errorf("%w: %d", ErrProbList, n)
	}
	c.probList = n
	c.weights = ProbLists[n]
	return nil
}

// NextProbList cycles to the next probability list.
func (c *Crystal) NextProbList() {
	c.probList = (c.probList + 1) % len(ProbLists)
	c.weights = ProbLists[c.probList]
}

// Weights returns the active growth weights.
func (c *Crystal) Weights() vacancy.Weights { return c.weights }

// SetWeights installs custom growth weights. ProbList keeps reporting the
// last selected list.
func (c *Crystal) SetWeights(w vacancy.Weights) { c.weights = w }

// WeightsLog returns the decimal order of magnitude of every weight, -1 for a
// zero weight.
func (c *Crystal) WeightsLog() [vacancy.Buckets]int8 {
	var out [vacancy.Buckets]int8
	for b, w := range c.weights {
		out[b] = int8(math.Floor(math.Log10(float64(w) + 0.1)))
	}
	return out
}

// usable reports whether a site may be filled: every axis within [2, Max-3],
// so that the neighbors of its neighbors stay inside the store.
func (c *Crystal) usable(site lattice.Coord) bool {
	b := c.lat.Max()
	return site.I >= 2 && site.I <= b.I-3 &&
		site.J >= 2 && site.J <= b.J-3 &&
		site.K >= 2 && site.K <= b.K-3
}

// interior reports whether an empty site may be tracked as a vacancy.
func (c *Crystal) interior(site lattice.Coord) bool {
	b := c.lat.Max()
	return site.I > 1 && site.I < b.I-2 &&
		site.J > 1 && site.J < b.J-2 &&
		site.K > c.substrate && site.K < b.K-2
}

// Coordination counts the deposited atoms among the neighbors of site.
func (c *Crystal) Coordination(site lattice.Coord) int {
	n := 0
	for _, nb := range c.lat.NeighborsOf(site) {
		if c.bulk.Get(nb, bulk.Deposited) {
			n++
		}
	}
	return n
}

func (c *Crystal) buried(site lattice.Coord) bool {
	return c.Coordination(site) == lattice.Neighbors
}

func (c *Crystal) check(site lattice.Coord) error {
	if !c.usable(site) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, site)
	}
	if !c.bulk.Get(site, bulk.Empty) {
		return fmt.Errorf("%w: %v is %v", ErrOccupied, site, c.bulk.At(site))
	}
	return nil
}

// AddAtom deposits an atom at site and reports whether it was placed.
func (c *Crystal) AddAtom(site lattice.Coord) bool { return c.PlaceAtom(site) == nil }

// AddDirt places a contaminant at site and reports whether it was placed.
func (c *Crystal) AddDirt(site lattice.Coord) bool { return c.PlaceDirt(site) == nil }

// PlaceAtom deposits an atom at site. It fails without any change with
// ErrOutOfBounds or ErrOccupied.
func (c *Crystal) PlaceAtom(site lattice.Coord) error {
	if err := c.check(site); err != nil {
		return err
	}
	c.bulk.Set(site, bulk.Deposited)
	c.extrema.update(c.lat, site, c.bulk.Count())
	c.vacancies.Remove(site)
	if !c.buried(site) {
		c.surface.Insert(site)
	}

	for _, nb := range c.lat.NeighborsOf(site) {
		if c.interior(nb) && c.bulk.Get(nb, bulk.Empty) {
			c.vacancies.Classify(nb, c.Coordination(nb))
			continue
		}
		if c.bulk.Get(nb, bulk.Deposited) && c.buried(nb) {
			c.surface.Remove(nb)
		}
	}
	return nil
}

// PlaceDirt places a contaminant at site. Contaminants block the site but do
// not count as neighbors, so no vacancy or surface atom changes class.
func (c *Crystal) PlaceDirt(site lattice.Coord) error {
	if err := c.check(site); err != nil {
		return err
	}
	c.bulk.Set(site, bulk.Contaminant)
	c.dirt.Insert(site)
	c.extrema.update(c.lat, site, c.bulk.Count())
	c.vacancies.Remove(site)
	return nil
}

// RandomVacancy draws the next growth site. It returns the center when no
// vacancy carries weight.
func (c *Crystal) RandomVacancy() lattice.Coord {
	site, _, ok := c.vacancies.Pick(&c.weights, c.rng)
	if !ok {
		return c.lat.Center()
	}
	return site
}

// RandomAdd grows up to n atoms and returns how many were placed. The surface
// set is rebuilt once at the end instead of after every atom.
func (c *Crystal) RandomAdd(n int) int {
	placed := 0
	for placed < n {
		site, b, ok := c.vacancies.Pick(&c.weights, c.rng)
		if !ok {
			break
		}
		c.vacancies.RemoveFrom(b, site)
		c.bulk.Set(site, bulk.Deposited)
		c.extrema.update(c.lat, site, c.bulk.Count())
		for _, nb := range c.lat.NeighborsOf(site) {
			if c.interior(nb) && c.bulk.Get(nb, bulk.Empty) {
				c.vacancies.Classify(nb, c.Coordination(nb))
			}
		}
		placed++
	}
	if placed > 0 {
		c.RebuildSurface()
	}
	return placed
}

// RebuildSurface recomputes the surface set from the store.
func (c *Crystal) RebuildSurface() {
	c.surface.Clear()
	if c.bulk.Count() == 0 {
		return
	}
	c.scan(func(site lattice.Coord, st bulk.State) {
		if st == bulk.Deposited && !c.buried(site) {
			c.surface.Insert(site)
		}
	})
}

// UpdateVacancies rebuilds the surface set, the vacancy partition and the
// extrema from the store. It is required after any change of the stacking
// faults or the substrate plane.
func (c *Crystal) UpdateVacancies() {
	c.vacancies.Clear()
	c.surface.Clear()
	c.extrema = newExtrema(c.lat.Center())
	if c.bulk.Count() == 0 {
		return
	}
	seen := 0
	c.scan(func(site lattice.Coord, st bulk.State) {
		seen++
		c.extrema.update(c.lat, site, seen)
		if st != bulk.Deposited || c.buried(site) {
			return
		}
		c.surface.Insert(site)
		for _, nb := range c.lat.NeighborsOf(site) {
			if c.interior(nb) && c.bulk.Get(nb, bulk.Empty) {
				c.vacancies.Assign(nb, c.Coordination(nb))
			}
		}
	})
}

// scan visits every non-empty site under the store extent in raster order.
func (c *Crystal) scan(visit func(lattice.Coord, bulk.State)) {
	e := c.bulk.Extent()
	for i := int(e.Min.I); i <= int(e.Max.I); i++ {
		for j := int(e.Min.J); j <= int(e.Max.J); j++ {
			for k := int(e.Min.K); k <= int(e.Max.K); k++ {
				site := lattice.Coord{I: uint16(i), J: uint16(j), K: uint16(k)}
				if st := c.bulk.At(site); st != bulk.Empty {
					visit(site, st)
				}
			}
		}
	}
}
