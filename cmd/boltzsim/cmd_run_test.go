package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/statmech/boltzsim/internal/config"
	"github.com/statmech/boltzsim/internal/stats"
)

func TestApplyRunFlags(t *testing.T) {
	cmd := newRunCmd()
	if err := cmd.Flags().Parse([]string{
		"--trials", "5000",
		"--particles", "3",
		"--energy-total", "6",
		"--energy-max", "6",
		"--seed", "99",
	}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := config.Default()
	applyRunFlags(cmd, cfg)

	if cfg.Run.Trials != 5000 {
		t.Errorf("Trials = %d, want 5000", cfg.Run.Trials)
	}
	if cfg.Run.Particles != 3 {
		t.Errorf("Particles = %d, want 3", cfg.Run.Particles)
	}
	if cfg.Run.EnergyTotal != 6 {
		t.Errorf("EnergyTotal = %d, want 6", cfg.Run.EnergyTotal)
	}
	if cfg.Run.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Run.Seed)
	}
	// Untouched flags keep the config's value.
	if want := config.Default().Run.EnergyMin; cfg.Run.EnergyMin != want {
		t.Errorf("EnergyMin = %d, want untouched default %d", cfg.Run.EnergyMin, want)
	}
}

func TestApplyRunFlagsNoFlags(t *testing.T) {
	cmd := newRunCmd()
	if err := cmd.Flags().Parse(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := config.Default()
	applyRunFlags(cmd, cfg)

	if *cfg != *config.Default() {
		t.Errorf("config changed without flags: %+v", cfg.Run)
	}
}

func TestWritePlots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	summary := &stats.Summary{
		Accepted: 10,
		Distribution: []stats.LevelProb{
			{Level: 0, Count: 12, Probability: 0.6},
			{Level: 1, Count: 8, Probability: 0.4},
		},
	}

	if err := writePlots(dir, summary); err != nil {
		t.Fatalf("writePlots: %v", err)
	}

	for _, name := range []string{"distribution-linear.svg", "distribution-semilog.svg"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.HasPrefix(string(data), "<svg") {
			t.Errorf("%s is not an SVG document", name)
		}
	}
}

func TestStorePath(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Path = "/tmp/custom.db"
	got, err := storePath(cfg)
	if err != nil {
		t.Fatalf("storePath: %v", err)
	}
	if got != "/tmp/custom.db" {
		t.Errorf("storePath = %q, want configured path", got)
	}

	cfg.Store.Path = ""
	got, err = storePath(cfg)
	if err != nil {
		t.Fatalf("storePath: %v", err)
	}
	if !strings.HasSuffix(got, filepath.Join(".boltzsim", "runs.db")) {
		t.Errorf("storePath = %q, want default under ~/.boltzsim", got)
	}
}
