package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/statmech/boltzsim/internal/levels"
)

func TestParamsValidate(t *testing.T) {
	valid := Params{Trials: 100, Particles: 3, EnergyTotal: 6, EnergyMin: 0, EnergyMax: 6}

	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"valid", func(p *Params) {}, false},
		{"zero trials", func(p *Params) { p.Trials = 0 }, true},
		{"negative trials", func(p *Params) { p.Trials = -5 }, true},
		{"zero particles", func(p *Params) { p.Particles = 0 }, true},
		{"inverted bounds", func(p *Params) { p.EnergyMin = 7 }, true},
		{"single level", func(p *Params) { p.EnergyMin = 6 }, false},
		{"unreachable total is not a config error", func(p *Params) { p.EnergyTotal = 10000 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

// With one free particle on levels {0,1,2} and total energy 2, every draw s
// has a valid closing level 2-s, so every trial is accepted and the pooled
// distribution is uniform by symmetry.
func TestRunAllAccepted(t *testing.T) {
	p := Params{
		Trials:      300000,
		Particles:   1,
		EnergyTotal: 2,
		EnergyMin:   0,
		EnergyMax:   2,
		Seed:        1,
		Workers:     4,
	}

	hist, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := hist.Accepted(); got != uint64(p.Trials) {
		t.Fatalf("Accepted() = %d, want %d (every candidate has a valid closing level)", got, p.Trials)
	}
	checkMass(t, hist, p)

	// Each level should get close to a third of the recorded energies.
	mass := float64(hist.Mass())
	for i := 0; i < hist.Space().Len(); i++ {
		got := float64(hist.Count(i)) / mass
		if math.Abs(got-1.0/3.0) > 0.01 {
			t.Errorf("level %d frequency = %.4f, want 1/3 within 0.01", hist.Space().Energy(i), got)
		}
	}
}

// With levels {0,1} and total energy 5, the closing level would have to be
// 4 or 5; no candidate can ever be accepted.
func TestRunUnreachableTotal(t *testing.T) {
	p := Params{
		Trials:      1000,
		Particles:   1,
		EnergyTotal: 5,
		EnergyMin:   0,
		EnergyMax:   1,
		Seed:        7,
		Workers:     2,
	}

	hist, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := hist.Accepted(); got != 0 {
		t.Fatalf("Accepted() = %d, want 0 for unreachable total", got)
	}
	if got := hist.Mass(); got != 0 {
		t.Fatalf("Mass() = %d, want 0 for unreachable total", got)
	}
}

// Small system sanity check: conservation holds for every acceptance (checked
// via the filter directly below and the mass invariant here), and the pooled
// distribution decays monotonically in energy.
func TestRunBoltzmannShape(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 2e6-trial run in short mode")
	}

	p := Params{
		Trials:      2000000,
		Particles:   3,
		EnergyTotal: 6,
		EnergyMin:   0,
		EnergyMax:   6,
		Seed:        42,
		Workers:     4,
	}

	hist, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if hist.Accepted() == 0 {
		t.Fatal("expected some accepted trials")
	}
	checkMass(t, hist, p)

	for i := 1; i < hist.Space().Len(); i++ {
		if hist.Count(i) > hist.Count(i-1) {
			t.Errorf("occupation not monotonically non-increasing: count(%d)=%d > count(%d)=%d",
				i, hist.Count(i), i-1, hist.Count(i-1))
		}
	}
}

func TestRunDeterminism(t *testing.T) {
	p := Params{
		Trials:      50000,
		Particles:   4,
		EnergyTotal: 8,
		EnergyMin:   0,
		EnergyMax:   5,
		Seed:        1234,
		Workers:     3,
	}

	a, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	b, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if a.Accepted() != b.Accepted() {
		t.Fatalf("accepted counts differ: %d vs %d", a.Accepted(), b.Accepted())
	}
	for i := 0; i < a.Space().Len(); i++ {
		if a.Count(i) != b.Count(i) {
			t.Errorf("count(%d) differs: %d vs %d", i, a.Count(i), b.Count(i))
		}
	}
}

func TestRunSeedChangesOutcome(t *testing.T) {
	p := Params{
		Trials:      50000,
		Particles:   4,
		EnergyTotal: 8,
		EnergyMin:   0,
		EnergyMax:   5,
		Seed:        1,
		Workers:     2,
	}

	a, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	p.Seed = 2
	b, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	same := a.Accepted() == b.Accepted()
	for i := 0; same && i < a.Space().Len(); i++ {
		same = a.Count(i) == b.Count(i)
	}
	if same {
		t.Error("different seeds produced identical histograms")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Params{
		Trials:      10000000,
		Particles:   2,
		EnergyTotal: 3,
		EnergyMin:   0,
		EnergyMax:   3,
		Seed:        9,
		Workers:     2,
	}

	hist, err := Run(ctx, p)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run with cancelled context: err = %v, want context.Canceled", err)
	}
	if hist == nil {
		t.Fatal("expected a (possibly empty) partial histogram")
	}
	// Whatever completed before cancellation must still satisfy the
	// mass invariant.
	checkMass(t, hist, p)
}

func TestRunInvalidParams(t *testing.T) {
	_, err := Run(context.Background(), Params{Trials: 0, Particles: 1, EnergyMax: 1})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Run with invalid params: err = %v, want ErrInvalidConfig", err)
	}
}

// checkMass verifies sum(histogram) == accepted * (particles + 1).
func checkMass(t *testing.T, hist *Histogram, p Params) {
	t.Helper()
	want := hist.Accepted() * uint64(p.Particles+1)
	if got := hist.Mass(); got != want {
		t.Fatalf("Mass() = %d, want accepted*(particles+1) = %d", got, want)
	}
}

func TestFilterEvaluate(t *testing.T) {
	space, err := levels.New(0, 6)
	if err != nil {
		t.Fatalf("levels.New: %v", err)
	}
	f := NewFilter(space, 6)

	tests := []struct {
		name        string
		candidate   []int // level indices; with min 0 these equal energies
		wantClosing int
		wantOK      bool
	}{
		{"exact fit at zero", []int{2, 4}, 0, true},
		{"closing mid-range", []int{1, 1, 1}, 3, true},
		{"closing at max", []int{0, 0}, 6, true},
		{"sum exceeds total", []int{6, 6}, -6, false},
		{"sum leaves too much", []int{0}, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closing, ok := f.Evaluate(tt.candidate)
			if ok != tt.wantOK {
				t.Fatalf("Evaluate(%v) ok = %v, want %v", tt.candidate, ok, tt.wantOK)
			}
			if ok && closing != tt.wantClosing {
				t.Errorf("Evaluate(%v) closing = %d, want %d", tt.candidate, closing, tt.wantClosing)
			}
			if ok {
				// Conservation: candidate energies plus closing must hit
				// the target exactly.
				sum := closing
				for _, idx := range tt.candidate {
					sum += space.Energy(idx)
				}
				if sum != 6 {
					t.Errorf("completed configuration sums to %d, want 6", sum)
				}
			}
		})
	}
}

func TestFilterConservationProperty(t *testing.T) {
	space, err := levels.New(0, 10)
	if err != nil {
		t.Fatalf("levels.New: %v", err)
	}
	const total = 25
	f := NewFilter(space, total)

	sampler := NewSampler(space, newStream(99, 0))
	candidate := make([]int, 5)

	accepted := 0
	for k := 0; k < 20000; k++ {
		sampler.Sample(candidate)
		closing, ok := f.Evaluate(candidate)
		if !ok {
			continue
		}
		accepted++
		sum := closing
		for _, idx := range candidate {
			sum += space.Energy(idx)
		}
		if sum != total {
			t.Fatalf("accepted configuration sums to %d, want %d", sum, total)
		}
		if !space.Contains(closing) {
			t.Fatalf("closing level %d outside space %v", closing, space)
		}
	}
	if accepted == 0 {
		t.Fatal("expected some accepted trials for a reachable total")
	}
}
