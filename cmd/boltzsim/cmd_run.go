package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/statmech/boltzsim/internal/config"
	"github.com/statmech/boltzsim/internal/logging"
	"github.com/statmech/boltzsim/internal/plot"
	"github.com/statmech/boltzsim/internal/sim"
	"github.com/statmech/boltzsim/internal/stats"
	"github.com/statmech/boltzsim/internal/store"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the rejection-sampling simulation",
		Long: `Run the trial loop and report the resulting single-particle energy
distribution with its mean and standard deviation.

Flags override values from the configuration file. Interrupting the run
(Ctrl-C) reports the statistics of the trials completed so far.

Examples:
  boltzsim run --trials 1000000 --particles 4 --energy-total 6 --energy-max 6
  boltzsim run --trials 100000000 --particles 30 --energy-total 900 --energy-max 100
  boltzsim run --particles 3 --energy-total 6 --energy-max 6 --save --plot out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			jsonOut, _ := cmd.Flags().GetBool("json")
			save, _ := cmd.Flags().GetBool("save")
			plotDir, _ := cmd.Flags().GetString("plot")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, cfg)

			p, err := cfg.Params()
			if err != nil {
				return err
			}

			logger := logging.New(cfg.Logging.Level, os.Stderr)
			logger.Debug("starting run",
				"trials", p.Trials, "particles", p.Particles,
				"energy_total", p.EnergyTotal, "levels", fmt.Sprintf("[%d..%d]", p.EnergyMin, p.EnergyMax),
				"seed", p.Seed, "workers", p.Workers)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			start := time.Now()
			hist, runErr := sim.Run(ctx, p)
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			if errors.Is(runErr, context.Canceled) {
				logger.Warn("run interrupted, reporting completed trials only")
			}
			logger.Debug("trial loop finished", "elapsed", time.Since(start))

			summary, err := stats.Finalize(hist)
			if errors.Is(err, stats.ErrNoAccepted) {
				if jsonOut {
					json.NewEncoder(os.Stdout).Encode(map[string]any{
						"accepted": 0,
						"error":    "no valid configurations found",
					})
					return nil
				}
				fmt.Println("No valid configurations found: the target total energy is unreachable.")
				fmt.Printf("Reachable totals for %d particles on levels [%d..%d] are [%d..%d].\n",
					p.Particles+1, p.EnergyMin, p.EnergyMax,
					(p.Particles+1)*p.EnergyMin, (p.Particles+1)*p.EnergyMax)
				return nil
			}
			if err != nil {
				return err
			}

			if save {
				id, err := saveRun(cmd.Context(), cfg, p, summary)
				if err != nil {
					return err
				}
				logger.Info("run saved", "id", id)
				if !jsonOut {
					fmt.Printf("Saved run %s\n", id)
				}
			}

			if plotDir != "" {
				if err := writePlots(plotDir, summary); err != nil {
					return err
				}
				if !jsonOut {
					fmt.Printf("Plots written to %s\n", plotDir)
				}
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(summary)
			}
			printSummary(summary, p)
			return nil
		},
	}

	cmd.Flags().Int64("trials", 0, "Number of sampling attempts")
	cmd.Flags().Int("particles", 0, "Number of freely sampled particles per trial (one closing particle is added)")
	cmd.Flags().Int("energy-total", 0, "Conserved total energy in units of epsilon")
	cmd.Flags().Int("energy-min", 0, "Minimum single-particle energy level")
	cmd.Flags().Int("energy-max", 0, "Maximum single-particle energy level")
	cmd.Flags().Int64("seed", 0, "Base seed for reproducible runs")
	cmd.Flags().Int("workers", 0, "Number of parallel workers (0 = all CPUs)")
	cmd.Flags().Bool("save", false, "Persist the run to the history store")
	cmd.Flags().String("plot", "", "Directory to write linear and semi-log SVG plots")

	return cmd
}

// applyRunFlags overlays explicitly set command-line flags onto the config.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("trials") {
		cfg.Run.Trials, _ = cmd.Flags().GetInt64("trials")
	}
	if cmd.Flags().Changed("particles") {
		cfg.Run.Particles, _ = cmd.Flags().GetInt("particles")
	}
	if cmd.Flags().Changed("energy-total") {
		cfg.Run.EnergyTotal, _ = cmd.Flags().GetInt("energy-total")
	}
	if cmd.Flags().Changed("energy-min") {
		cfg.Run.EnergyMin, _ = cmd.Flags().GetInt("energy-min")
	}
	if cmd.Flags().Changed("energy-max") {
		cfg.Run.EnergyMax, _ = cmd.Flags().GetInt("energy-max")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Run.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Run.Workers, _ = cmd.Flags().GetInt("workers")
	}
}

// printSummary writes the human-readable run report.
func printSummary(summary *stats.Summary, p sim.Params) {
	fmt.Printf("Number of successful trials: %d (of %d)\n\n", summary.Accepted, p.Trials)
	fmt.Print(plot.ASCII(summary, 50))
	fmt.Printf("\nMean energy per particle:      %.6f\n", summary.Mean)
	fmt.Printf("Standard deviation:            %.6f\n", summary.StdDev)
	fmt.Printf("Average total energy per trial: %.4f (target %d)\n", summary.AvgTotalEnergy, p.EnergyTotal)
}

// saveRun persists a finished run to the configured history store.
func saveRun(ctx context.Context, cfg *config.Config, p sim.Params, summary *stats.Summary) (string, error) {
	path, err := storePath(cfg)
	if err != nil {
		return "", err
	}
	runStore, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer runStore.Close()

	return runStore.Save(ctx, p, summary)
}

// writePlots renders the linear and semi-log SVG scatter plots into dir.
func writePlots(dir string, summary *stats.Summary) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create plot directory: %w", err)
	}
	linear := filepath.Join(dir, "distribution-linear.svg")
	if err := os.WriteFile(linear, []byte(plot.SVG(summary, plot.ScaleLinear)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", linear, err)
	}
	semilog := filepath.Join(dir, "distribution-semilog.svg")
	if err := os.WriteFile(semilog, []byte(plot.SVG(summary, plot.ScaleSemilog)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", semilog, err)
	}
	return nil
}

// storePath resolves the run-history database path from config.
func storePath(cfg *config.Config) (string, error) {
	if cfg.Store.Path != "" {
		return cfg.Store.Path, nil
	}
	return store.DefaultPath()
}
