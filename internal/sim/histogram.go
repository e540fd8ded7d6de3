package sim

import "github.com/statmech/boltzsim/internal/levels"

// Histogram accumulates per-level occupation counts across accepted trials,
// plus the accepted-trial counter. Counts never shrink. A Histogram is not
// safe for concurrent mutation; workers keep local histograms and merge them
// once after all trials complete.
type Histogram struct {
	space    levels.Space
	counts   []uint64
	accepted uint64
}

// NewHistogram creates an empty histogram over the given level space.
func NewHistogram(space levels.Space) *Histogram {
	return &Histogram{
		space:  space,
		counts: make([]uint64, space.Len()),
	}
}

// Record adds one accepted configuration: every free particle's level index
// plus the closing particle's energy, then bumps the accepted-trial counter
// by one.
func (h *Histogram) Record(candidate []int, closing int) {
	for _, idx := range candidate {
		h.counts[idx]++
	}
	h.counts[h.space.Index(closing)]++
	h.accepted++
}

// Merge adds other's counts and accepted counter into h. Merging is an
// element-wise sum, so merge order never changes the result.
func (h *Histogram) Merge(other *Histogram) {
	for i, c := range other.counts {
		h.counts[i] += c
	}
	h.accepted += other.accepted
}

// Accepted returns the number of accepted trials.
func (h *Histogram) Accepted() uint64 {
	return h.accepted
}

// Count returns the occupation count for level index i.
func (h *Histogram) Count(i int) uint64 {
	return h.counts[i]
}

// Mass returns the total number of recorded particle energies,
// which equals accepted trials times (particles + 1).
func (h *Histogram) Mass() uint64 {
	var m uint64
	for _, c := range h.counts {
		m += c
	}
	return m
}

// Space returns the level space the histogram is defined over.
func (h *Histogram) Space() levels.Space {
	return h.space
}

// Counts returns a copy of the per-level occupation counts.
func (h *Histogram) Counts() []uint64 {
	out := make([]uint64, len(h.counts))
	copy(out, h.counts)
	return out
}
