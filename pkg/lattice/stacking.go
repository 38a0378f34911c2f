package lattice

// Stacking holds the per-layer registry of an FCC stack with faults.
//
// ShiftJ[k] is the running sign (+1 for the regular ABC order, -1 after an odd
// number of faults), ShiftI[k] is 1 wherever that sign is negative and 0
// otherwise, and Pos[k] is the integrated sign sequence shifted so that the
// central layer sits at zero. Index k describes the boundary between layers
// k-1 and k.
type Stacking struct {
	ShiftI []uint16
	ShiftJ []int16
	Pos    []int16
}

// NewStacking builds the table for layers [0, depth) with faults at the
// provided layers. Layers outside the range are ignored.
func NewStacking(depth int, center uint16, faults []uint16) Stacking {
	s := Stacking{
		ShiftI: make([]uint16, depth),
		ShiftJ: make([]int16, depth),
		Pos:    make([]int16, depth),
	}
	if depth == 0 {
		return s
	}
	for k := range s.ShiftJ {
		s.ShiftJ[k] = 1
	}
	for _, f := range faults {
		if int(f) < depth {
			s.ShiftJ[f] = -1
		}
	}
	for k := 1; k < depth; k++ {
		s.ShiftJ[k] *= s.ShiftJ[k-1]
	}

	var sum int16
	for k := range s.Pos {
		sum += s.ShiftJ[k]
		s.Pos[k] = sum
		if s.ShiftJ[k] == -1 {
			s.ShiftI[k] = 1
		}
	}

	if int(center) < depth {
		zero := s.Pos[center]
		for k := range s.Pos {
			s.Pos[k] -= zero
		}
	}
	return s
}
