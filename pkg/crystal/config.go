package crystal

import (
	"flake-growth/pkg/lattice"
	"flake-growth/pkg/vacancy"
)

// MinBound is the smallest supported extent of every axis: the two outermost
// layers on each side are reserved as margin.
const MinBound = 7

// ProbLists are the predefined growth weights per coordination bucket. Later
// lists favor highly coordinated vacancies more strongly, giving flatter and
// more faceted flakes.
var ProbLists = [...]vacancy.Weights{
	{0, 0, 1, 1_000, 100_000, 1_000_000, 10_000_000, 100_000_000, 1_000_000_000},
	{0, 0, 1, 1_000, 1_000_000, 1_000_000_000, 10_000_000_000, 100_000_000_000, 1_000_000_000_000},
	{0, 0, 1, 10_000, 100_000_000, 1_000_000_000_000, 1_000_000_000_000, 1_000_000_000_000, 1_000_000_000_000},
	{0, 0, 1, 100_000, 1_000_000_000, 1_000_000_000_000, 1_000_000_000_000, 1_000_000_000_000, 1_000_000_000_000},
}

// Config controls the geometry and growth weights of a Crystal.
type Config struct {
	// Bounds is the exclusive upper bound of every lattice axis.
	Bounds lattice.Coord
	// Diameter of an atom in nm.
	Diameter float64
	// StackingFaults lists the layers that reverse the stacking order.
	StackingFaults []uint16
	// Substrate is the highest layer that never receives vacancies.
	Substrate uint16
	// ProbList selects one of ProbLists.
	ProbList int

	Seed int64
}

// DefaultConfig returns a 6000x6000x300 lattice of gold with a twin pair
// around the central layer. The bulk arena takes about 2.7 GB of address
// space, of which only the touched pages become resident.
func DefaultConfig() Config {
	bounds := lattice.Coord{I: 6000, J: 6000, K: 300}
	center := bounds.K / 2
	return Config{
		Bounds:         bounds,
		Diameter:       lattice.DefaultDiameter,
		StackingFaults: []uint16{center - 2, center + 2},
		Substrate:      1,
		ProbList:       2,
		Seed:           42,
	}
}
