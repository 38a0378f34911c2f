package crystal

import (
	"bytes"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"flake-growth/pkg/bulk"
	"flake-growth/pkg/lattice"
	"flake-growth/pkg/vacancy"
)

func c3(i, j, k uint16) lattice.Coord { return lattice.Coord{I: i, J: j, K: k} }

// growthWeights lets a single seed atom grow.
var growthWeights = vacancy.Weights{1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000}

func newCrystal(t *testing.T, size uint16, faults ...uint16) *Crystal {
	t.Helper()
	cr, err := New(Config{
		Bounds:         c3(size, size, size),
		StackingFaults: faults,
		Substrate:      1,
		ProbList:       2,
		Seed:           1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cr.SetWeights(growthWeights)
	return cr
}

// checkBookkeeping compares the incremental state against a brute force scan
// of the whole volume.
func checkBookkeeping(t *testing.T, cr *Crystal) {
	t.Helper()
	bounds := cr.Lattice().Max()
	surface, dirt, vacancies := 0, 0, 0
	for i := uint16(1); i < bounds.I-1; i++ {
		for j := uint16(1); j < bounds.J-1; j++ {
			for k := uint16(1); k < bounds.K-1; k++ {
				site := c3(i, j, k)
				switch cr.State(site) {
				case bulk.Deposited:
					want := cr.Coordination(site) < lattice.Neighbors
					if cr.IsSurface(site) != want {
						t.Fatalf("%v: surface membership %v, want %v", site, !want, want)
					}
					if want {
						surface++
					}
				case bulk.Contaminant:
					dirt++
				}
				want := -1
				if cr.State(site) == bulk.Empty && cr.interior(site) {
					if n := cr.Coordination(site); n > 0 {
						want = min(n, vacancy.Buckets-1) - 1
					}
				}
				if got := cr.VacancyBucket(site); got != want {
					t.Fatalf("%v: vacancy bucket %d, want %d", site, got, want)
				}
				if want >= 0 {
					vacancies++
				}
			}
		}
	}
	if surface != cr.SurfaceLen() {
		t.Fatalf("surface set holds %d sites, scan found %d", cr.SurfaceLen(), surface)
	}
	if dirt != cr.DirtLen() {
		t.Fatalf("dirt set holds %d sites, scan found %d", cr.DirtLen(), dirt)
	}
	if vacancies != cr.vacancies.Total() {
		t.Fatalf("index holds %d vacancies, scan found %d", cr.vacancies.Total(), vacancies)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	base := Config{Bounds: c3(16, 16, 16), Substrate: 1, ProbList: 2}
	cases := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"small bounds", func(c *Config) { c.Bounds.J = MinBound - 1 }, ErrBounds},
		{"substrate", func(c *Config) { c.Substrate = 16 }, ErrSubstrate},
		{"prob list", func(c *Config) { c.ProbList = len(ProbLists) }, ErrProbList},
		{"negative prob list", func(c *Config) { c.ProbList = -1 }, ErrProbList},
		{"fault", func(c *Config) { c.StackingFaults = []uint16{3, 16} }, lattice.ErrFaultLayer},
	}
	for _, tc := range cases {
		cfg := base
		tc.modify(&cfg)
		if _, err := New(cfg); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
	if _, err := New(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestTwoAtomsShareVacancies(t *testing.T) {
	cr := newCrystal(t, MinBound)
	center := cr.Center()
	if center != c3(3, 3, 3) {
		t.Fatalf("center = %v", center)
	}
	if !cr.AddAtom(center) {
		t.Fatal("center should accept an atom")
	}
	right := cr.Lattice().Neighbor(center, 0)
	if !cr.AddAtom(right) {
		t.Fatalf("%v should accept an atom", right)
	}
	if cr.Count() != 2 {
		t.Fatalf("count = %d, want 2", cr.Count())
	}
	if !cr.IsSurface(center) || !cr.IsSurface(right) {
		t.Fatal("both atoms should be exposed")
	}
	for _, site := range []lattice.Coord{c3(4, 2, 3), c3(3, 4, 3), c3(3, 3, 4), c3(4, 3, 2)} {
		if got := cr.VacancyBucket(site); got != 1 {
			t.Fatalf("shared vacancy %v in bucket %d, want 1", site, got)
		}
	}
	checkBookkeeping(t, cr)
}

func TestPlaceRejectsOccupiedAndOutside(t *testing.T) {
	cr := newCrystal(t, MinBound)
	center := cr.Center()
	if err := cr.PlaceAtom(center); err != nil {
		t.Fatalf("PlaceAtom: %v", err)
	}
	before := cr.Digest()

	if err := cr.PlaceAtom(center); !errors.Is(err, ErrOccupied) {
		t.Fatalf("second placement: %v", err)
	}
	if err := cr.PlaceDirt(center); !errors.Is(err, ErrOccupied) {
		t.Fatalf("dirt on atom: %v", err)
	}
	if cr.AddAtom(center) {
		t.Fatal("AddAtom on an occupied site must report false")
	}
	for _, site := range []lattice.Coord{c3(1, 3, 3), c3(5, 3, 3), c3(3, 3, 1), c3(3, 5, 3)} {
		if err := cr.PlaceAtom(site); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("%v: got %v", site, err)
		}
	}
	if cr.Count() != 1 || cr.Digest() != before {
		t.Fatal("rejected placements must not change the crystal")
	}
}

func TestDirtBlocksWithoutCoordinating(t *testing.T) {
	cr := newCrystal(t, 12)
	center := cr.Center()
	cr.AddAtom(center)
	nb := cr.Lattice().Neighbor(center, 1)
	if cr.VacancyBucket(nb) != 0 {
		t.Fatalf("%v should be a bucket 0 vacancy", nb)
	}
	if !cr.AddDirt(nb) {
		t.Fatal("dirt should be placed on a vacancy")
	}
	if cr.VacancyBucket(nb) != -1 || cr.State(nb) != bulk.Contaminant {
		t.Fatal("dirt site must leave the vacancy index")
	}
	if cr.Coordination(center) != 0 || !cr.IsSurface(center) {
		t.Fatal("contaminants do not count as neighbors")
	}
	if cr.Count() != 2 || cr.DirtLen() != 1 {
		t.Fatalf("count %d, dirt %d", cr.Count(), cr.DirtLen())
	}
	checkBookkeeping(t, cr)
}

func TestShuffledPlacementKeepsBookkeeping(t *testing.T) {
	for s := range uint64(30) {
		cr := newCrystal(t, 12, 5, 7)
		cr.Reseed(int64(s))
		l := cr.Lattice()
		d := l.Diameter()
		c := l.Position(cr.Center())
		lo := lattice.Position{X: c.X - 2.5*d, Y: c.Y - 2.5*d, Z: c.Z - 2*d}
		hi := lattice.Position{X: c.X + 2.5*d, Y: c.Y + 2.5*d, Z: c.Z + 2*d}
		var sites []lattice.Coord
		for site := range l.Box(lo, hi).All() {
			sites = append(sites, site)
		}

		r := rand.New(rand.NewPCG(s, 7))
		r.Shuffle(len(sites), func(a, b int) { sites[a], sites[b] = sites[b], sites[a] })
		for n, site := range sites {
			if r.IntN(5) == 0 {
				cr.AddDirt(site)
			} else {
				cr.AddAtom(site)
			}
			checkBookkeeping(t, cr)
			if n%7 == 6 {
				cr.RandomAdd(3)
				checkBookkeeping(t, cr)
			}
		}
		if cr.Count() == 0 || cr.DirtLen() == 0 {
			t.Fatalf("seed %d: %d sites filled, %d of them dirt", s, cr.Count(), cr.DirtLen())
		}
	}
}

func TestBuriedAtomsLeaveSurface(t *testing.T) {
	cr := newCrystal(t, 12, 5, 7)
	l := cr.Lattice()
	center := cr.Center()
	for _, nb := range l.NeighborsOf(center) {
		if !cr.AddAtom(nb) {
			t.Fatalf("neighbor %v rejected", nb)
		}
	}
	if !cr.AddAtom(center) {
		t.Fatal("center rejected")
	}
	if cr.IsSurface(center) {
		t.Fatal("an atom placed into a full shell is buried")
	}
	checkBookkeeping(t, cr)

	outer := l.Neighbor(center, 0)
	if !cr.IsSurface(outer) {
		t.Fatalf("%v should still be on the surface", outer)
	}
	empty := l.NeighborsOf(outer)
	r := rand.New(rand.NewPCG(3, 7))
	r.Shuffle(len(empty), func(a, b int) { empty[a], empty[b] = empty[b], empty[a] })
	for _, nb := range empty {
		if cr.State(nb) == bulk.Empty {
			cr.AddAtom(nb)
			checkBookkeeping(t, cr)
		}
	}
	if cr.IsSurface(outer) {
		t.Fatalf("%v should be buried once its shell is full", outer)
	}
}

func TestRandomAddKeepsBookkeeping(t *testing.T) {
	cr := newCrystal(t, 18)
	cr.AddAtom(cr.Center())
	for round := 0; round < 5; round++ {
		placed := cr.RandomAdd(60)
		if placed != 60 {
			t.Fatalf("round %d placed %d atoms", round, placed)
		}
		checkBookkeeping(t, cr)
	}
	if cr.Count() != 301 {
		t.Fatalf("count = %d, want 301", cr.Count())
	}
}

func TestRandomAddZeroIsNoop(t *testing.T) {
	cr := newCrystal(t, 12)
	cr.AddAtom(cr.Center())
	before := cr.Digest()
	if n := cr.RandomAdd(0); n != 0 {
		t.Fatalf("RandomAdd(0) placed %d", n)
	}
	if cr.Digest() != before {
		t.Fatal("RandomAdd(0) changed the crystal")
	}
}

func TestRandomAddStopsWithoutVacancies(t *testing.T) {
	cr := newCrystal(t, 12)
	if got := cr.RandomVacancy(); got != cr.Center() {
		t.Fatalf("empty crystal should return the center, got %v", got)
	}
	if n := cr.RandomAdd(10); n != 0 {
		t.Fatalf("empty crystal grew %d atoms", n)
	}

	cr.AddAtom(cr.Center())
	cr.SetWeights(vacancy.Weights{})
	if n := cr.RandomAdd(10); n != 0 {
		t.Fatalf("zero weights grew %d atoms", n)
	}
	if got := cr.RandomVacancy(); got != cr.Center() {
		t.Fatalf("zero weights should return the center, got %v", got)
	}
}

func TestRandomAddFillsSmallVolume(t *testing.T) {
	cr := newCrystal(t, MinBound)
	cr.SetWeights(vacancy.Weights{1, 1, 1, 1, 1, 1, 1, 1, 1})
	cr.AddAtom(cr.Center())
	cr.RandomAdd(1000)
	// substrate 1 leaves layers 2..4 of the 3x3 interior
	if cr.Count() != 27 {
		t.Fatalf("count = %d, want 27", cr.Count())
	}
	if cr.vacancies.Total() != 0 {
		t.Fatal("a full volume has no vacancies left")
	}
	checkBookkeeping(t, cr)
}

func TestGrowthIsDeterministic(t *testing.T) {
	grow := func() [32]byte {
		cr := newCrystal(t, 20, 9, 12)
		cr.AddAtom(cr.Center())
		cr.RandomAdd(400)
		return cr.Digest()
	}
	if grow() != grow() {
		t.Fatal("equal seeds should grow equal crystals")
	}

	cr := newCrystal(t, 20)
	cr.AddAtom(cr.Center())
	cr.RandomAdd(100)
	first := cr.Digest()
	cr.Clear()
	cr.Reseed(1)
	cr.AddAtom(cr.Center())
	cr.RandomAdd(100)
	if cr.Digest() != first {
		t.Fatal("Clear and Reseed should replay the same growth")
	}
}

func TestClearRestoresFreshState(t *testing.T) {
	fresh := newCrystal(t, 16).Digest()
	cr := newCrystal(t, 16)
	cr.AddAtom(cr.Center())
	cr.AddDirt(c3(3, 3, 3))
	cr.RandomAdd(80)
	cr.Clear()
	if cr.Count() != 0 || cr.SurfaceLen() != 0 || cr.DirtLen() != 0 || cr.vacancies.Total() != 0 {
		t.Fatal("clear left state behind")
	}
	if cr.Digest() != fresh {
		t.Fatal("cleared crystal differs from a fresh one")
	}
	if cr.Extent().Min != cr.Center() || cr.Extent().Max != cr.Center() {
		t.Fatalf("extent not reset: %+v", cr.Extent())
	}
}

func TestUpdateVacanciesMatchesIncremental(t *testing.T) {
	cr := newCrystal(t, 18, 8, 11)
	cr.AddAtom(cr.Center())
	cr.AddDirt(c3(4, 4, 4))
	cr.RandomAdd(250)
	incremental := cr.Digest()
	extrema := cr.Extrema()

	cr.UpdateVacancies()
	checkBookkeeping(t, cr)
	if e := cr.Extrema(); e.Min != extrema.Min || e.Max != extrema.Max {
		t.Fatalf("rebuilt extrema %+v, incremental %+v", e, extrema)
	}
	// member order differs after a rebuild, so compare per bucket sizes
	again := newCrystal(t, 18, 8, 11)
	again.AddAtom(again.Center())
	again.AddDirt(c3(4, 4, 4))
	again.RandomAdd(250)
	if again.Digest() != incremental {
		t.Fatal("incremental growth is not reproducible")
	}
	for b := 0; b < vacancy.Buckets; b++ {
		if cr.VacancyLen(b) != again.VacancyLen(b) {
			t.Fatalf("bucket %d: rebuilt %d, incremental %d", b, cr.VacancyLen(b), again.VacancyLen(b))
		}
	}
}

func TestChangingFaultsRequiresRebuild(t *testing.T) {
	cr := newCrystal(t, 18, 9)
	cr.AddAtom(cr.Center())
	cr.RandomAdd(200)

	if err := cr.SetStackingFaults([]uint16{18}); !errors.Is(err, lattice.ErrFaultLayer) {
		t.Fatalf("fault outside the lattice: %v", err)
	}
	if err := cr.SetStackingFaults([]uint16{7, 10}); err != nil {
		t.Fatalf("SetStackingFaults: %v", err)
	}
	cr.UpdateVacancies()
	checkBookkeeping(t, cr)

	if err := cr.SetSubstrate(18); !errors.Is(err, ErrSubstrate) {
		t.Fatalf("substrate outside the lattice: %v", err)
	}
	if err := cr.SetSubstrate(8); err != nil {
		t.Fatalf("SetSubstrate: %v", err)
	}
	cr.UpdateVacancies()
	checkBookkeeping(t, cr)
	for b := 0; b < vacancy.Buckets; b++ {
		for site := range cr.vacancies.Members(b) {
			if site.K <= 8 {
				t.Fatalf("vacancy %v at or below the substrate", site)
			}
		}
	}

	cr.RandomAdd(100)
	checkBookkeeping(t, cr)
}

func TestExtremaTrackOccupiedPositions(t *testing.T) {
	cr := newCrystal(t, 18)
	cr.AddAtom(cr.Center())
	prev := cr.Extrema()
	for n := 0; n < 120; n++ {
		if cr.RandomAdd(1) != 1 {
			t.Fatal("growth stopped early")
		}
		e := cr.Extrema()
		if e.Min.X > prev.Min.X || e.Min.Y > prev.Min.Y || e.Min.Z > prev.Min.Z ||
			e.Max.X < prev.Max.X || e.Max.Y < prev.Max.Y || e.Max.Z < prev.Max.Z {
			t.Fatalf("extrema shrank: %+v -> %+v", prev, e)
		}
		prev = e
	}

	lo := lattice.Position{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := lattice.Position{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for p := range cr.Positions() {
		lo = lattice.Position{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = lattice.Position{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	if prev.Min != lo || prev.Max != hi {
		t.Fatalf("extrema %+v, scan found %v..%v", prev, lo, hi)
	}
	for axis, site := range prev.MinAt {
		if cr.State(site) != bulk.Deposited {
			t.Fatalf("axis %d minimum at empty site %v", axis, site)
		}
	}
}

func TestSizeOfSmallFlakes(t *testing.T) {
	cr := newCrystal(t, 12)
	d := cr.Lattice().Diameter()
	cr.AddAtom(cr.Center())
	s := cr.Size()
	if s.Height != d || s.Width != d || s.Depth != d || math.Abs(s.AspectRatio-1) > 1e-12 {
		t.Fatalf("single atom size %+v", s)
	}

	cr.AddAtom(cr.Lattice().Neighbor(cr.Center(), 0))
	s = cr.Size()
	if math.Abs(s.Width-2*d) > 1e-12 || s.Depth != d || math.Abs(s.AspectRatio-math.Sqrt2) > 1e-12 {
		t.Fatalf("pair size %+v", s)
	}
}

func TestHexagonOfSingleAtom(t *testing.T) {
	cr := newCrystal(t, 12)
	cr.AddAtom(cr.Center())
	for n, p := range cr.Hexagon() {
		if p != (lattice.Position{}) {
			t.Fatalf("corner %d at %v, want origin", n, p)
		}
	}
	if first, second, share := cr.Hexagon().Sides(); first != 0 || second != 0 || share != 0 {
		t.Fatalf("degenerate sides %v %v %v", first, second, share)
	}
}

func TestProbLists(t *testing.T) {
	cr, err := New(Config{Bounds: c3(12, 12, 12), Substrate: 1, ProbList: 2})
	if err != nil {
		t.Fatal(err)
	}
	if cr.ProbList() != 2 || cr.Weights() != ProbLists[2] {
		t.Fatal("config should select list 2")
	}
	for n := 3; n < 3+len(ProbLists); n++ {
		cr.NextProbList()
		if want := n % len(ProbLists); cr.ProbList() != want || cr.Weights() != ProbLists[want] {
			t.Fatalf("NextProbList selected %d", cr.ProbList())
		}
	}
	if err := cr.SetProbList(0); err != nil {
		t.Fatal(err)
	}
	want := [vacancy.Buckets]int8{-1, -1, 0, 3, 5, 6, 7, 8, 9}
	if got := cr.WeightsLog(); got != want {
		t.Fatalf("WeightsLog = %v, want %v", got, want)
	}
	if err := cr.SetProbList(9); !errors.Is(err, ErrProbList) {
		t.Fatalf("SetProbList(9): %v", err)
	}
}

func TestDumpWritesDepositedAtoms(t *testing.T) {
	cr := newCrystal(t, 12)
	cr.AddAtom(cr.Center())
	cr.AddAtom(cr.Lattice().Neighbor(cr.Center(), 0))
	cr.AddDirt(c3(3, 3, 3))

	var buf bytes.Buffer
	if err := cr.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("dump has %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != DumpHeader {
		t.Fatalf("header %q", lines[0])
	}
	if lines[1] != "0, 0, 0" {
		t.Fatalf("center line %q", lines[1])
	}
	if lines[2] != "0.40782, 0, 0" {
		t.Fatalf("neighbor line %q", lines[2])
	}
}
