package core

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(7)
	b := NewRNG(7)
	for i := 0; i < 64; i++ {
		if x, y := a.Uint64N(1_000_000), b.Uint64N(1_000_000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}

	a.Reseed(7)
	c := NewRNG(7)
	if a.IntN(1000) != c.IntN(1000) {
		t.Fatal("Reseed should restart the sequence")
	}
}

func TestRNGDegenerateRanges(t *testing.T) {
	r := NewRNG(1)
	if got := r.IntN(0); got != 0 {
		t.Fatalf("IntN(0) = %d, want 0", got)
	}
	if got := r.Uint64N(0); got != 0 {
		t.Fatalf("Uint64N(0) = %d, want 0", got)
	}
	for i := 0; i < 100; i++ {
		if got := r.Uint64N(3); got >= 3 {
			t.Fatalf("Uint64N(3) = %d out of range", got)
		}
	}
}
