// Package vacancy partitions the vacant sites next to a crystal by their
// coordination number and draws the next growth site from that partition.
package vacancy

import (
	"iter"
	"math"
	"math/bits"

	"flake-growth/pkg/core"
	"flake-growth/pkg/lattice"
	"flake-growth/pkg/sites"
)

// Buckets is the number of coordination classes. Bucket b holds vacancies
// with b+1 occupied neighbors.
const Buckets = 9

// Weights assigns a growth weight to every bucket.
type Weights [Buckets]uint64

// Index is the coordination partition of the tracked vacancies.
type Index struct {
	buckets [Buckets]sites.Set
}

// New returns an empty index.
func New() *Index { return &Index{} }

// Classify files c under coordination n, assuming n grew by one since the
// previous call for c. Coordinations outside [1, Buckets-1] are ignored, so a
// vacancy that saturates keeps its last class.
func (x *Index) Classify(c lattice.Coord, n int) {
	if n < 1 || n > Buckets-1 {
		return
	}
	x.buckets[n-1].Insert(c)
	if n > 1 {
		x.buckets[n-2].Remove(c)
	}
}

// Assign files c under coordination n regardless of its previous class.
// Coordinations above Buckets-1 share the last tracked class, so rebuilt and
// incrementally maintained indexes agree.
func (x *Index) Assign(c lattice.Coord, n int) {
	x.Remove(c)
	if n < 1 {
		return
	}
	x.buckets[min(n, Buckets-1)-1].Insert(c)
}

// Remove drops c from the first bucket that holds it.
func (x *Index) Remove(c lattice.Coord) bool {
	for b := range x.buckets {
		if x.buckets[b].Remove(c) {
			return true
		}
	}
	return false
}

// RemoveFrom drops c from bucket b only.
func (x *Index) RemoveFrom(b int, c lattice.Coord) bool {
	return x.buckets[b].Remove(c)
}

// Bucket returns the bucket holding c, or -1.
func (x *Index) Bucket(c lattice.Coord) int {
	for b := range x.buckets {
		if x.buckets[b].Contains(c) {
			return b
		}
	}
	return -1
}

// Contains reports whether bucket b holds c.
func (x *Index) Contains(b int, c lattice.Coord) bool { return x.buckets[b].Contains(c) }

// Len returns the size of bucket b.
func (x *Index) Len(b int) int { return x.buckets[b].Len() }

// Total returns the number of tracked vacancies.
func (x *Index) Total() int {
	n := 0
	for b := range x.buckets {
		n += x.buckets[b].Len()
	}
	return n
}

// Members yields the vacancies of bucket b.
func (x *Index) Members(b int) iter.Seq[lattice.Coord] { return x.buckets[b].All() }

// Clear empties every bucket.
func (x *Index) Clear() {
	for b := range x.buckets {
		x.buckets[b].Clear()
	}
}

// Cumulative returns the running sums of weight times bucket size. Products
// and sums saturate at the largest uint64.
func (x *Index) Cumulative(w *Weights) [Buckets]uint64 {
	var sums [Buckets]uint64
	var acc uint64
	for b := range x.buckets {
		hi, lo := bits.Mul64(w[b], uint64(x.buckets[b].Len()))
		if hi != 0 {
			lo = math.MaxUint64
		}
		sum, carry := bits.Add64(acc, lo, 0)
		if carry != 0 {
			sum = math.MaxUint64
		}
		acc = sum
		sums[b] = acc
	}
	return sums
}

// PickBucket draws a bucket with probability proportional to its weight
// times its size. It returns false when that product is zero everywhere.
func (x *Index) PickBucket(w *Weights, rng *core.RNG) (int, bool) {
	sums := x.Cumulative(w)
	total := sums[Buckets-1]
	if total == 0 {
		return 0, false
	}
	draw := rng.Uint64N(total)
	for b, s := range sums {
		if s > draw {
			return b, true
		}
	}
	return Buckets - 1, true
}

// Random returns a uniformly chosen vacancy of bucket b.
func (x *Index) Random(b int, rng *core.RNG) (lattice.Coord, bool) {
	return x.buckets[b].Random(rng)
}

// Pick draws a bucket with PickBucket and then a member of it.
func (x *Index) Pick(w *Weights, rng *core.RNG) (lattice.Coord, int, bool) {
	b, ok := x.PickBucket(w, rng)
	if !ok {
		return lattice.Coord{}, 0, false
	}
	c, ok := x.Random(b, rng)
	return c, b, ok
}
