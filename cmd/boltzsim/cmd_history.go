package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/statmech/boltzsim/internal/config"
	"github.com/statmech/boltzsim/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved simulation runs",
		Long: `List runs previously saved with 'boltzsim run --save', newest first.

Examples:
  boltzsim history            # Show the most recent runs
  boltzsim history --limit 5  # Show the last five`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")

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

			runs, err := runStore.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(runs)
			}

			if len(runs) == 0 {
				fmt.Println("No saved runs.")
				return nil
			}

			fmt.Printf("%-36s  %-19s  %10s  %9s  %8s  %10s  %8s\n",
				"ID", "CREATED", "TRIALS", "PARTICLES", "E_TOTAL", "ACCEPTED", "MEAN")
			for _, r := range runs {
				fmt.Printf("%-36s  %-19s  %10d  %9d  %8d  %10d  %8.4f\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime),
					r.Params.Trials, r.Params.Particles, r.Params.EnergyTotal,
					r.Accepted, r.Mean)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 = all)")
	return cmd
}
