// Package sim implements the rejection-sampling engine at the heart of
// boltzsim.
//
// Each trial draws a candidate microstate: one uniformly random level per
// free particle. The conservation filter computes the energy a final closing
// particle would need to hit the configured total exactly, and accepts the
// trial only when that energy is itself an admissible level. Accepted
// configurations (free particles plus the closing particle) feed a per-level
// occupation histogram; everything else is discarded whole.
//
// Trials are independent, so the runner shards them across workers, each with
// its own PRNG stream derived deterministically from the base seed. Workers
// accumulate into local histograms that are merged once at the end.
package sim
