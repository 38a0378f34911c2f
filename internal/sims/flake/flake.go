// Package flake shows a growing crystal flake from above. Every cell of the
// view carries the shade of the highest atom layer below it.
package flake

import (
	"math"
	"slices"

	"flake-growth/internal/core"
	"flake-growth/pkg/bulk"
	"flake-growth/pkg/crystal"
	"flake-growth/pkg/lattice"
)

// Flake adapts a crystal to the core.Sim contract.
type Flake struct {
	cfg  Config
	cr   *crystal.Crystal
	grid *core.ByteGrid

	stalled bool
	// stale marks a view that lags behind the crystal.
	stale bool
}

// New allocates the crystal described by cfg and seeds it.
func New(cfg Config) (*Flake, error) {
	cr, err := crystal.New(cfg.Crystal)
	if err != nil {
		return nil, err
	}
	f := &Flake{cfg: cfg, cr: cr, grid: core.NewByteGrid(cfg.View, cfg.View)}
	f.Reset(cfg.Crystal.Seed)
	return f, nil
}

// Name returns the simulation identifier.
func (f *Flake) Name() string { return "flake" }

// Size returns the view dimensions.
func (f *Flake) Size() core.Size { return core.Size{W: f.grid.W, H: f.grid.H} }

// Cells exposes the current view, repainting it first if the crystal changed
// since the last call.
func (f *Flake) Cells() []uint8 {
	if f.stale {
		f.render()
		f.stale = false
	}
	return f.grid.Cells()
}

// Crystal exposes the underlying crystal.
func (f *Flake) Crystal() *crystal.Crystal { return f.cr }

// Stalled reports whether the last step ran out of weighted vacancies.
func (f *Flake) Stalled() bool { return f.stalled }

// Reset clears the crystal and plants the configured seed around the center.
func (f *Flake) Reset(s int64) {
	f.cr.Clear()
	f.cr.Reseed(s)
	f.cfg.Crystal.Seed = s
	f.cfg.Start.Plant(f.cr)
	f.stalled = false
	f.stale = true
}

// Step grows one batch of atoms.
func (f *Flake) Step() {
	placed := f.cr.RandomAdd(f.cfg.Batch)
	f.stalled = placed < f.cfg.Batch
	if placed > 0 {
		f.stale = true
	}
}

// NextSeedShape switches the seed planted by the next Reset.
func (f *Flake) NextSeedShape() {
	f.cfg.Start.Shape = f.cfg.Start.Shape.Next()
}

// AddFaultAbove adds a stacking fault on the layer just above the flake.
func (f *Flake) AddFaultAbove() error {
	k := f.cr.Center().K
	if f.cr.Count() > 0 {
		k = f.cr.Extent().Max.K
	}
	return f.setFaults(append(f.cr.Lattice().Faults(), k+1))
}

// AddFaultBelow adds a stacking fault one layer above the bottom of the
// flake.
func (f *Flake) AddFaultBelow() error {
	k := f.cr.Center().K
	if f.cr.Count() > 0 {
		k = f.cr.Extent().Min.K
	}
	return f.setFaults(append(f.cr.Lattice().Faults(), k+1))
}

// ResetFaults restores the configured stacking faults.
func (f *Flake) ResetFaults() error {
	return f.setFaults(slices.Clone(f.cfg.Crystal.StackingFaults))
}

// setFaults swaps the lattice and reindexes the grown flake against it. The
// stored sites keep their indices, so the view shifts where a fault moves
// the layers above it.
func (f *Flake) setFaults(faults []uint16) error {
	if err := f.cr.SetStackingFaults(faults); err != nil {
		return err
	}
	f.cr.UpdateVacancies()
	f.stale = true
	return nil
}

// cell maps a position onto the view. One cell spans half a diameter and the
// lattice origin sits in the middle.
func (f *Flake) cell(p lattice.Position) (int, int) {
	half := f.cr.Lattice().Diameter() / 2
	x := int(math.Round(p.X/half)) + f.grid.W/2
	y := f.grid.H/2 - int(math.Round(p.Y/half))
	return x, y
}

func (f *Flake) render() {
	f.grid.Clear()
	if f.cr.Count() == 0 {
		return
	}
	l := f.cr.Lattice()
	e := f.cr.Extent()
	for i := int(e.Min.I); i <= int(e.Max.I); i++ {
		for j := int(e.Min.J); j <= int(e.Max.J); j++ {
			for k := int(e.Min.K); k <= int(e.Max.K); k++ {
				site := lattice.Coord{I: uint16(i), J: uint16(j), K: uint16(k)}
				st := f.cr.State(site)
				if st == bulk.Empty {
					continue
				}
				v := uint8(shadeDirt)
				if st == bulk.Deposited {
					v = layerShade(site.K, e.Min.K)
				}
				x, y := f.cell(l.Position(site))
				f.grid.Max(x, y, v)
				f.grid.Max(x+1, y, v)
				f.grid.Max(x, y+1, v)
				f.grid.Max(x+1, y+1, v)
			}
		}
	}
}

// Outline returns the hexagon approximation of the flake in view cells.
func (f *Flake) Outline() [6][2]float64 {
	var out [6][2]float64
	if f.cr.Count() == 0 {
		return out
	}
	for n, p := range f.cr.Hexagon() {
		x, y := f.cell(p)
		out[n] = [2]float64{float64(x) + 1, float64(y) + 1}
	}
	return out
}

func init() {
	core.Register("flake", func(cfg map[string]string) (core.Sim, error) {
		f, err := New(FromMap(cfg))
		if err != nil {
			return nil, err
		}
		return f, nil
	})
}
