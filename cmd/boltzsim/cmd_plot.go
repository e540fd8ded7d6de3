package main

import (
	"github.com/spf13/cobra"

	"github.com/statmech/boltzsim/internal/config"
	"github.com/statmech/boltzsim/internal/stats"
	"github.com/statmech/boltzsim/internal/store"
)

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot <run-id>",
		Short: "Render SVG plots for a saved run",
		Long: `Render the linear and semi-log scatter plots of a saved run's energy
distribution. The semi-log plot is the standard check for the Boltzmann
shape: a straight line means the thermodynamic limit is approximately
reached.

Example:
  boltzsim plot 4f1c... --output plots/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			outDir, _ := cmd.Flags().GetString("output")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			path, err := storePath(cfg)
			if err != nil {
				return err
			}
			runStore, err := store.Open(path)
			if err != nil {
				return err
			}
			defer runStore.Close()

			run, err := runStore.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			summary := &stats.Summary{
				Accepted:       run.Accepted,
				Distribution:   run.Distribution,
				Mean:           run.Mean,
				StdDev:         run.StdDev,
				AvgTotalEnergy: run.AvgTotalEnergy,
			}
			return writePlots(outDir, summary)
		},
	}

	cmd.Flags().String("output", ".", "Directory to write the SVG files")
	return cmd
}
