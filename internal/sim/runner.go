package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/statmech/boltzsim/internal/levels"
)

// ErrInvalidConfig marks structurally invalid run parameters. It is always
// fatal; retrying cannot fix a bad configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// cancelCheckInterval is the number of trials a worker runs between
// context-cancellation checks. Trials already completed when the context
// is cancelled stay in the worker's local histogram and remain mergeable.
const cancelCheckInterval = 8192

// Params configures a simulation run.
type Params struct {
	// Trials is the number of sampling attempts.
	Trials int64 `json:"trials"`
	// Particles is the number of freely sampled particles per trial.
	// One additional closing particle completes each accepted
	// configuration, so Particles+1 energies are recorded per acceptance.
	Particles int `json:"particles"`
	// EnergyTotal is the conserved total energy of the completed
	// configuration, in units of the level spacing.
	EnergyTotal int `json:"energy_total"`
	// EnergyMin and EnergyMax bound the level space.
	EnergyMin int `json:"energy_min"`
	EnergyMax int `json:"energy_max"`
	// Seed is the base seed; worker streams are derived from it.
	Seed int64 `json:"seed"`
	// Workers is the number of parallel workers. Zero means GOMAXPROCS.
	Workers int `json:"workers"`
}

// Validate checks the structural constraints on the parameters.
// An unreachable EnergyTotal is not an error here; it surfaces as a zero
// accepted count at finalization.
func (p Params) Validate() error {
	if p.Trials < 1 {
		return fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidConfig, p.Trials)
	}
	if p.Particles < 1 {
		return fmt.Errorf("%w: particles must be at least 1, got %d", ErrInvalidConfig, p.Particles)
	}
	if p.EnergyMin > p.EnergyMax {
		return fmt.Errorf("%w: energy bounds inverted, min %d > max %d", ErrInvalidConfig, p.EnergyMin, p.EnergyMax)
	}
	return nil
}

// Space returns the level space described by the parameters.
func (p Params) Space() (levels.Space, error) {
	return levels.New(p.EnergyMin, p.EnergyMax)
}

// workers resolves the effective worker count, capped by the trial count.
func (p Params) workers() int {
	n := p.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if int64(n) > p.Trials {
		n = int(p.Trials)
	}
	return n
}

// Run executes the full trial loop and returns the merged histogram.
//
// Trials are sharded across workers. Worker i runs its shard with the PRNG
// stream derived from (Seed, i), so a run is reproducible given the same
// seed, parameters, and worker count. If ctx is cancelled mid-run, Run
// returns the histogram accumulated so far along with the context error;
// the partial histogram is valid for finalization.
func Run(ctx context.Context, p Params) (*Histogram, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	space, err := p.Space()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	n := p.workers()
	per := p.Trials / int64(n)
	rem := p.Trials % int64(n)

	parts := make([]*Histogram, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		trials := per
		if i == n-1 {
			trials += rem
		}
		parts[i] = NewHistogram(space)

		wg.Add(1)
		go func(stream int, trials int64, hist *Histogram) {
			defer wg.Done()
			runShard(ctx, p, space, stream, trials, hist)
		}(i, trials, parts[i])
	}
	wg.Wait()

	merged := parts[0]
	for _, part := range parts[1:] {
		merged.Merge(part)
	}
	return merged, ctx.Err()
}

// runShard runs one worker's share of the trial loop against its local
// histogram.
func runShard(ctx context.Context, p Params, space levels.Space, stream int, trials int64, hist *Histogram) {
	sampler := NewSampler(space, newStream(p.Seed, uint64(stream)))
	filter := NewFilter(space, p.EnergyTotal)
	candidate := make([]int, p.Particles)

	for k := int64(0); k < trials; k++ {
		if k%cancelCheckInterval == 0 && ctx.Err() != nil {
			return
		}
		sampler.Sample(candidate)
		if closing, ok := filter.Evaluate(candidate); ok {
			hist.Record(candidate, closing)
		}
	}
}
