package crystal

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"iter"

	"golang.org/x/crypto/sha3"

	"flake-growth/pkg/bulk"
	"flake-growth/pkg/lattice"
	"flake-growth/pkg/vacancy"
)

// DumpHeader is the first line written by Dump.
const DumpHeader = "Bulk atoms: x, y, z"

// Positions yields the position of every deposited atom in raster order.
// Contaminants are skipped.
func (c *Crystal) Positions() iter.Seq[lattice.Position] {
	return func(yield func(lattice.Position) bool) {
		if c.bulk.Count() == 0 {
			return
		}
		e := c.bulk.Extent()
		for i := int(e.Min.I); i <= int(e.Max.I); i++ {
			for j := int(e.Min.J); j <= int(e.Max.J); j++ {
				for k := int(e.Min.K); k <= int(e.Max.K); k++ {
					site := lattice.Coord{I: uint16(i), J: uint16(j), K: uint16(k)}
					if c.bulk.At(site) != bulk.Deposited {
						continue
					}
					if !yield(c.lat.Position(site)) {
						return
					}
				}
			}
		}
	}
}

// Dump writes the positions of all deposited atoms, one "x, y, z" line per
// atom after DumpHeader.
func (c *Crystal) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, DumpHeader); err != nil {
		return err
	}
	for p := range c.Positions() {
		if _, err := fmt.Fprintf(bw, "%g, %g, %g\n", p.X, p.Y, p.Z); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Digest fingerprints the store together with the surface, contaminant and
// vacancy bookkeeping. Two crystals grown from the same seed and sequence of
// calls have equal digests.
func (c *Crystal) Digest() [32]byte {
	h := sha3.New256()
	c.bulk.Digest(h)

	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	put(uint64(c.surface.Len()))
	for site := range c.surface.All() {
		put(site.Key())
	}
	put(uint64(c.dirt.Len()))
	for site := range c.dirt.All() {
		put(site.Key())
	}
	for b := 0; b < vacancy.Buckets; b++ {
		put(uint64(c.vacancies.Len(b)))
		for site := range c.vacancies.Members(b) {
			put(site.Key())
		}
	}

	var sum [32]byte
	h.Sum(sum[:0])
	return sum
}
