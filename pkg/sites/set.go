// Package sites provides a set of lattice coordinates with constant-time
// insertion, removal and uniform random selection.
//
// Members are kept in a dense slice in insertion order; a removal moves the
// last member into the freed slot. The order therefore only depends on the
// sequence of operations, which keeps seeded runs reproducible.
package sites

import (
	"iter"

	"flake-growth/pkg/core"
	"flake-growth/pkg/lattice"
)

// Set is a unique collection of coordinates. The zero value is ready to use.
type Set struct {
	dense []lattice.Coord
	index map[uint64]int
}

// New returns an empty set.
func New() *Set { return &Set{} }

// Len returns the number of members.
func (s *Set) Len() int { return len(s.dense) }

// Contains reports membership of c.
func (s *Set) Contains(c lattice.Coord) bool {
	_, ok := s.index[c.Key()]
	return ok
}

// Insert adds c and reports whether it was newly added.
func (s *Set) Insert(c lattice.Coord) bool {
	if s.index == nil {
		s.index = make(map[uint64]int)
	}
	key := c.Key()
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.dense)
	s.dense = append(s.dense, c)
	return true
}

// Remove deletes c and reports whether it was present.
func (s *Set) Remove(c lattice.Coord) bool {
	key := c.Key()
	idx, ok := s.index[key]
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	if idx != last {
		moved := s.dense[last]
		s.dense[idx] = moved
		s.index[moved.Key()] = idx
	}
	s.dense = s.dense[:last]
	delete(s.index, key)
	return true
}

// At returns the member stored at position n, 0 <= n < Len().
func (s *Set) At(n int) lattice.Coord { return s.dense[n] }

// Random returns a uniformly chosen member, or false for an empty set.
func (s *Set) Random(rng *core.RNG) (lattice.Coord, bool) {
	if len(s.dense) == 0 {
		return lattice.Coord{}, false
	}
	return s.dense[rng.IntN(len(s.dense))], true
}

// Clear removes all members and keeps the allocated capacity.
func (s *Set) Clear() {
	s.dense = s.dense[:0]
	clear(s.index)
}

// All yields the members in storage order. The set must not be modified
// during iteration.
func (s *Set) All() iter.Seq[lattice.Coord] {
	return func(yield func(lattice.Coord) bool) {
		for _, c := range s.dense {
			if !yield(c) {
				return
			}
		}
	}
}
