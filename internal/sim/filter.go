package sim

import "github.com/statmech/boltzsim/internal/levels"

// Filter applies the energy-conservation acceptance test. Given a candidate,
// it computes the energy one closing particle would need to bring the total
// to the target, and accepts only when that energy is an admissible level.
// The levels form a contiguous integer range, so the membership test is a
// bounds check rather than a scan.
type Filter struct {
	space  levels.Space
	target int
}

// NewFilter creates a filter for the given space and target total energy.
func NewFilter(space levels.Space, total int) Filter {
	return Filter{space: space, target: total}
}

// Evaluate sums the candidate's level energies and returns the closing
// particle's energy. ok is false when no admissible closing level exists;
// the whole candidate is then discarded, with no partial credit.
func (f Filter) Evaluate(candidate []int) (closing int, ok bool) {
	sum := 0
	for _, idx := range candidate {
		sum += f.space.Energy(idx)
	}
	missing := f.target - sum
	return missing, f.space.Contains(missing)
}
