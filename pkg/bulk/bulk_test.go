package bulk

import (
	"testing"

	"flake-growth/pkg/lattice"

	"golang.org/x/crypto/sha3"
)

var testBounds = lattice.Coord{I: 16, J: 16, K: 16}

func TestNewStoreIsEmpty(t *testing.T) {
	s := New(testBounds)
	if s.Count() != 0 {
		t.Fatalf("count = %d, want 0", s.Count())
	}
	center := lattice.Coord{I: 8, J: 8, K: 8}
	if e := s.Extent(); e.Min != center || e.Max != center {
		t.Fatalf("extent = %+v, want collapsed to center", e)
	}
	if want := 16 * 16 * (16/4 + 1); s.Bytes() != want {
		t.Fatalf("arena = %d bytes, want %d", s.Bytes(), want)
	}
	for k := uint16(0); k < testBounds.K; k++ {
		if !s.Get(lattice.Coord{I: 3, J: 4, K: k}, Empty) {
			t.Fatalf("site at k=%d should start empty", k)
		}
	}
}

func TestSetGetAllSubPositions(t *testing.T) {
	s := New(testBounds)
	states := []State{Deposited, Contaminant, Empty, Deposited, Contaminant, Deposited, Empty, Contaminant}
	for k, st := range states {
		s.Set(lattice.Coord{I: 5, J: 6, K: uint16(k)}, st)
	}
	for k, st := range states {
		c := lattice.Coord{I: 5, J: 6, K: uint16(k)}
		if got := s.At(c); got != st {
			t.Fatalf("k=%d: state %v, want %v", k, got, st)
		}
		if !s.Get(c, st) {
			t.Fatalf("k=%d: Get(%v) should be true", k, st)
		}
	}
	// neighbors sharing the same word columns stay untouched
	for _, c := range []lattice.Coord{{I: 5, J: 7, K: 0}, {I: 4, J: 6, K: 1}, {I: 6, J: 6, K: 2}} {
		if !s.Get(c, Empty) {
			t.Fatalf("%v should still be empty", c)
		}
	}
	if s.Count() != 6 {
		t.Fatalf("count = %d, want 6", s.Count())
	}
}

func TestOverwriteKeepsNeighborsInWord(t *testing.T) {
	s := New(testBounds)
	for k := uint16(0); k < 4; k++ {
		s.Set(lattice.Coord{I: 1, J: 1, K: k}, Contaminant)
	}
	s.Set(lattice.Coord{I: 1, J: 1, K: 2}, Deposited)
	want := []State{Contaminant, Contaminant, Deposited, Contaminant}
	for k, st := range want {
		if got := s.At(lattice.Coord{I: 1, J: 1, K: uint16(k)}); got != st {
			t.Fatalf("k=%d: %v, want %v", k, got, st)
		}
	}
	if s.Count() != 4 {
		t.Fatalf("overwriting an occupied site changed count to %d", s.Count())
	}

	s.Set(lattice.Coord{I: 1, J: 1, K: 0}, Empty)
	if s.Count() != 3 {
		t.Fatalf("emptying a site should decrement count, got %d", s.Count())
	}
}

func TestExtentIsTightAndMonotonic(t *testing.T) {
	s := New(testBounds)
	s.Set(lattice.Coord{I: 3, J: 4, K: 5}, Deposited)
	if e := s.Extent(); e.Min != (lattice.Coord{I: 3, J: 4, K: 5}) || e.Max != e.Min {
		t.Fatalf("first insertion should snap the extent, got %+v", e)
	}
	s.Set(lattice.Coord{I: 10, J: 2, K: 9}, Contaminant)
	s.Set(lattice.Coord{I: 6, J: 12, K: 1}, Deposited)
	want := Extent{Min: lattice.Coord{I: 3, J: 2, K: 1}, Max: lattice.Coord{I: 10, J: 12, K: 9}}
	if s.Extent() != want {
		t.Fatalf("extent = %+v, want %+v", s.Extent(), want)
	}

	s.Set(lattice.Coord{I: 10, J: 2, K: 9}, Empty)
	if s.Extent() != want {
		t.Fatal("extent must never shrink")
	}
	if !want.Contains(lattice.Coord{I: 5, J: 5, K: 5}) || want.Contains(lattice.Coord{I: 11, J: 5, K: 5}) {
		t.Fatal("Extent.Contains mismatch")
	}
}

func TestClearZeroesOccupiedRegion(t *testing.T) {
	s := New(testBounds)
	sites := []lattice.Coord{{I: 2, J: 2, K: 2}, {I: 13, J: 13, K: 13}, {I: 7, J: 9, K: 11}}
	for _, c := range sites {
		s.Set(c, Deposited)
	}
	s.Clear()
	if s.Count() != 0 {
		t.Fatalf("count after clear = %d", s.Count())
	}
	for _, c := range sites {
		if !s.Get(c, Empty) {
			t.Fatalf("%v should be empty after clear", c)
		}
	}
	for _, w := range s.words {
		if w != 0 {
			t.Fatal("arena should be fully zeroed")
		}
	}
	center := lattice.Coord{I: 8, J: 8, K: 8}
	if e := s.Extent(); e.Min != center || e.Max != center {
		t.Fatalf("extent after clear = %+v", e)
	}
}

func TestInBounds(t *testing.T) {
	s := New(testBounds)
	if !s.InBounds(lattice.Coord{I: 15, J: 15, K: 15}) {
		t.Fatal("max-1 corner should be in bounds")
	}
	if s.InBounds(lattice.Coord{I: 16, J: 0, K: 0}) || s.InBounds(lattice.Coord{K: 16}) {
		t.Fatal("bound itself is exclusive")
	}
}

func TestDigestTracksContent(t *testing.T) {
	s := New(testBounds)
	s.Set(lattice.Coord{I: 4, J: 4, K: 4}, Deposited)
	s.Set(lattice.Coord{I: 5, J: 4, K: 4}, Deposited)

	sum := func() [32]byte {
		h := sha3.New256()
		s.Digest(h)
		var out [32]byte
		copy(out[:], h.Sum(nil))
		return out
	}

	a := sum()
	if b := sum(); a != b {
		t.Fatal("digest should be stable")
	}
	s.Set(lattice.Coord{I: 5, J: 4, K: 4}, Contaminant)
	if c := sum(); c == a {
		t.Fatal("digest should change with site content")
	}
}

func TestStateString(t *testing.T) {
	for st, want := range map[State]string{Empty: "empty", Deposited: "deposited", Contaminant: "contaminant", 3: "invalid"} {
		if st.String() != want {
			t.Fatalf("%d.String() = %q, want %q", st, st.String(), want)
		}
	}
}
