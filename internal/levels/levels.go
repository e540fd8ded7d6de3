// Package levels defines the discrete energy level space available to a
// single particle: the contiguous integer range [Min, Max] with unit
// degeneracy at every level.
package levels

import "fmt"

// Space is the ordered set of admissible single-particle energies
// {Min, Min+1, ..., Max}. A Space is immutable after construction.
type Space struct {
	Min int
	Max int
}

// New constructs a Space and validates its bounds.
func New(min, max int) (Space, error) {
	if min > max {
		return Space{}, fmt.Errorf("invalid level bounds: min %d > max %d", min, max)
	}
	return Space{Min: min, Max: max}, nil
}

// Len returns the number of levels in the space.
func (s Space) Len() int {
	return s.Max - s.Min + 1
}

// Energy returns the energy of the level at index i.
// Indices run 0..Len()-1; because the levels are consecutive integers,
// the mapping is a simple offset.
func (s Space) Energy(i int) int {
	return s.Min + i
}

// Contains reports whether e is an admissible level. The levels form a
// contiguous integer range, so this is a bounds check rather than a scan.
func (s Space) Contains(e int) bool {
	return e >= s.Min && e <= s.Max
}

// Index returns the index of energy e, or -1 if e is not in the space.
func (s Space) Index(e int) int {
	if !s.Contains(e) {
		return -1
	}
	return e - s.Min
}

// Values returns all levels in ascending order.
func (s Space) Values() []int {
	vs := make([]int, s.Len())
	for i := range vs {
		vs[i] = s.Min + i
	}
	return vs
}

func (s Space) String() string {
	return fmt.Sprintf("[%d..%d]", s.Min, s.Max)
}
