// Package bulk stores the state of every lattice site in a dense, bit-packed
// arena.
//
// Each site takes two bits, four sites share a byte along the K axis. The
// arena is allocated once for the full bounds; untouched pages of a fresh
// allocation are never written, so the resident size follows the occupied
// region rather than the bounds.
package bulk

import (
	"encoding/binary"
	"hash"

	"flake-growth/pkg/lattice"
)

// State is the content of a lattice site.
type State uint8

const (
	Empty State = iota
	Deposited
	Contaminant
)

const (
	bitsPerSite  = 2
	sitesPerWord = 8 / bitsPerSite
	siteMask     = 1<<bitsPerSite - 1
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Deposited:
		return "deposited"
	case Contaminant:
		return "contaminant"
	}
	return "invalid"
}

// Extent is an inclusive bounding box in lattice coordinates.
type Extent struct {
	Min, Max lattice.Coord
}

// Contains reports whether c lies inside the box.
func (e Extent) Contains(c lattice.Coord) bool {
	return c.I >= e.Min.I && c.I <= e.Max.I &&
		c.J >= e.Min.J && c.J <= e.Max.J &&
		c.K >= e.Min.K && c.K <= e.Max.K
}

// Store holds the packed site states together with the occupied count and the
// bounding box of all non-empty sites.
type Store struct {
	bounds lattice.Coord
	center lattice.Coord
	depth  int
	words  []uint8

	count  int
	extent Extent
}

// New allocates a zeroed store for the given bounds.
func New(bounds lattice.Coord) *Store {
	depth := int(bounds.K)/sitesPerWord + 1
	center := lattice.Coord{I: bounds.I / 2, J: bounds.J / 2, K: bounds.K / 2}
	return &Store{
		bounds: bounds,
		center: center,
		depth:  depth,
		words:  make([]uint8, int(bounds.I)*int(bounds.J)*depth),
		extent: Extent{Min: center, Max: center},
	}
}

// Bounds returns the exclusive upper bound of every axis.
func (s *Store) Bounds() lattice.Coord { return s.bounds }

// InBounds reports whether c addresses a site of the store.
func (s *Store) InBounds(c lattice.Coord) bool {
	return c.I < s.bounds.I && c.J < s.bounds.J && c.K < s.bounds.K
}

// Count returns the number of non-empty sites.
func (s *Store) Count() int { return s.count }

// Extent returns the bounding box of all non-empty sites. It collapses to the
// center when the store is empty.
func (s *Store) Extent() Extent { return s.extent }

// Bytes returns the size of the arena in bytes.
func (s *Store) Bytes() int { return len(s.words) }

func (s *Store) locate(c lattice.Coord) (int, uint) {
	idx := (int(c.I)*int(s.bounds.J)+int(c.J))*s.depth + int(c.K)/sitesPerWord
	shift := uint(int(c.K)%sitesPerWord) * bitsPerSite
	return idx, shift
}

// At returns the state of c. Coordinates must be in bounds.
func (s *Store) At(c lattice.Coord) State {
	idx, shift := s.locate(c)
	return State(s.words[idx] >> shift & siteMask)
}

// Get reports whether c holds state st.
func (s *Store) Get(c lattice.Coord, st State) bool {
	return s.At(c) == st
}

// Set writes st at c. Filling an empty site grows the count and the extent,
// emptying an occupied one shrinks the count; the extent never shrinks.
func (s *Store) Set(c lattice.Coord, st State) {
	idx, shift := s.locate(c)
	word := s.words[idx]
	old := State(word >> shift & siteMask)
	mask := uint8(siteMask) << shift
	s.words[idx] = word&^mask | uint8(st)<<shift&mask

	switch {
	case old == Empty && st != Empty:
		s.count++
		s.grow(c)
	case old != Empty && st == Empty:
		s.count--
	}
}

func (s *Store) grow(c lattice.Coord) {
	if s.count == 1 {
		s.extent = Extent{Min: c, Max: c}
		return
	}
	e := &s.extent
	e.Min.I = min(e.Min.I, c.I)
	e.Min.J = min(e.Min.J, c.J)
	e.Min.K = min(e.Min.K, c.K)
	e.Max.I = max(e.Max.I, c.I)
	e.Max.J = max(e.Max.J, c.J)
	e.Max.K = max(e.Max.K, c.K)
}

// Clear empties every site and resets the count and extent. Only the words
// under the extent can be non-zero, so only those are rewritten.
func (s *Store) Clear() {
	lo, hi := s.extent.Min, s.extent.Max
	for i := int(lo.I); i <= int(hi.I) && len(s.words) > 0; i++ {
		from, _ := s.locate(lattice.Coord{I: uint16(i), J: lo.J})
		to, _ := s.locate(lattice.Coord{I: uint16(i), J: hi.J})
		clear(s.words[from : to+s.depth])
	}
	s.count = 0
	s.extent = Extent{Min: s.center, Max: s.center}
}

// Digest writes the counters and the packed words under the extent to h.
func (s *Store) Digest(h hash.Hash) {
	var hdr [8 + 6*2]byte
	binary.LittleEndian.PutUint64(hdr[:8], uint64(s.count))
	for n, v := range []uint16{
		s.extent.Min.I, s.extent.Min.J, s.extent.Min.K,
		s.extent.Max.I, s.extent.Max.J, s.extent.Max.K,
	} {
		binary.LittleEndian.PutUint16(hdr[8+2*n:], v)
	}
	h.Write(hdr[:])

	lo, hi := s.extent.Min, s.extent.Max
	for i := int(lo.I); i <= int(hi.I); i++ {
		from, _ := s.locate(lattice.Coord{I: uint16(i), J: lo.J})
		to, _ := s.locate(lattice.Coord{I: uint16(i), J: hi.J})
		h.Write(s.words[from : to+s.depth])
	}
}
