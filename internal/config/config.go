// Package config provides unified configuration loading for boltzsim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/statmech/boltzsim/internal/sim"
)

// Config contains all boltzsim configuration settings.
type Config struct {
	// Run holds the simulation parameters.
	Run RunConfig `yaml:"run"`

	// Logging configures operational logging.
	Logging LoggingConfig `yaml:"logging"`

	// Store configures run-history persistence.
	Store StoreConfig `yaml:"store"`
}

// RunConfig holds the simulation parameters. The particle count is the
// number of freely sampled particles; one additional closing particle
// completes each accepted configuration.
type RunConfig struct {
	Trials      int64 `yaml:"trials" env:"BOLTZSIM_TRIALS"`
	Particles   int   `yaml:"particles" env:"BOLTZSIM_PARTICLES"`
	EnergyTotal int   `yaml:"energy_total" env:"BOLTZSIM_ENERGY_TOTAL"`
	EnergyMin   int   `yaml:"energy_min" env:"BOLTZSIM_ENERGY_MIN"`
	EnergyMax   int   `yaml:"energy_max" env:"BOLTZSIM_ENERGY_MAX"`
	Seed        int64 `yaml:"seed" env:"BOLTZSIM_SEED"`
	Workers     int   `yaml:"workers" env:"BOLTZSIM_WORKERS"`
}

// LoggingConfig configures boltzsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `yaml:"level" env:"BOLTZSIM_LOG_LEVEL"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	// Path is the SQLite database file. Empty means ~/.boltzsim/runs.db.
	Path string `yaml:"path" env:"BOLTZSIM_STORE_PATH"`
}

// Default returns a Config with the original publication's suggested
// small-system parameters.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Trials:      1000000,
			Particles:   15,
			EnergyTotal: 40,
			EnergyMin:   0,
			EnergyMax:   10,
			Seed:        1,
			Workers:     0, // GOMAXPROCS
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load builds the effective configuration: defaults, overlaid by the YAML
// file at path (if non-empty), overlaid by BOLTZSIM_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Params converts the run section to engine parameters and validates them.
func (c *Config) Params() (sim.Params, error) {
	p := sim.Params{
		Trials:      c.Run.Trials,
		Particles:   c.Run.Particles,
		EnergyTotal: c.Run.EnergyTotal,
		EnergyMin:   c.Run.EnergyMin,
		EnergyMax:   c.Run.EnergyMax,
		Seed:        c.Run.Seed,
		Workers:     c.Run.Workers,
	}
	if err := p.Validate(); err != nil {
		return sim.Params{}, err
	}
	return p, nil
}
