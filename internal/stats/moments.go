// Package stats derives the normalized energy distribution and its moments
// from a finished simulation histogram.
package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/statmech/boltzsim/internal/sim"
)

// ErrNoAccepted is returned by Finalize when no trial was ever accepted.
// This happens when the target total energy is unreachable for the
// configured particle count and level bounds.
var ErrNoAccepted = errors.New("no accepted trials")

// LevelProb pairs one energy level with its occupation count and
// normalized probability.
type LevelProb struct {
	Level       int     `json:"level"`
	Count       uint64  `json:"count"`
	Probability float64 `json:"probability"`
}

// Summary is the finalized output of a run: the normalized per-level
// distribution and its derived moments. A Summary is immutable; downstream
// reporting and plotting consume it as-is.
type Summary struct {
	Accepted uint64 `json:"accepted"`

	// Distribution lists (level, count, probability) in ascending level
	// order. Probabilities sum to 1 within floating tolerance.
	Distribution []LevelProb `json:"distribution"`

	// Mean is the average energy per particle, pooled over all recorded
	// particle energies of all accepted configurations.
	Mean float64 `json:"mean"`

	// StdDev is the standard deviation of the per-particle energy.
	StdDev float64 `json:"stddev"`

	// AvgTotalEnergy is the average summed energy per accepted
	// configuration. By conservation it should numerically approximate
	// the configured total; it is a sanity check, not an invariant.
	AvgTotalEnergy float64 `json:"avg_total_energy"`
}

// Finalize normalizes the histogram into a probability distribution and
// computes its first and second moments. It fails with ErrNoAccepted
// rather than producing NaN statistics when the histogram is empty.
func Finalize(h *sim.Histogram) (*Summary, error) {
	accepted := h.Accepted()
	if accepted == 0 {
		return nil, fmt.Errorf("finalize: %w", ErrNoAccepted)
	}

	space := h.Space()
	mass := float64(h.Mass())

	dist := make([]LevelProb, space.Len())
	var mean, sqr, weighted float64
	for i := range dist {
		level := space.Energy(i)
		count := h.Count(i)
		p := float64(count) / mass
		dist[i] = LevelProb{Level: level, Count: count, Probability: p}

		e := float64(level)
		mean += p * e
		sqr += p * e * e
		weighted += float64(count) * e
	}

	// Guard against a tiny negative variance from rounding.
	stddev := math.Sqrt(math.Abs(sqr - mean*mean))

	return &Summary{
		Accepted:       accepted,
		Distribution:   dist,
		Mean:           mean,
		StdDev:         stddev,
		AvgTotalEnergy: weighted / float64(accepted),
	}, nil
}
