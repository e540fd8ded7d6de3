package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "boltzsim",
		Short: "Monte Carlo demonstration of the emergent Boltzmann distribution",
		Long: `boltzsim simulates the spontaneous emergence of a Boltzmann-like
distribution in a system of distinguishable particles, assuming only equal
a priori microstate probabilities and conservation of total energy.

Each trial assigns uniformly random energy levels to the free particles and
accepts the configuration only if one closing particle can make the total
energy match exactly. The marginal single-particle energy distribution of
the accepted configurations approaches an exponential as the system grows.

All energies are in units of the level spacing epsilon.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for machine consumption)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML configuration file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newHistoryCmd(),
		newExportCmd(),
		newPlotCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("boltzsim version %s\n", version)
			}
		},
	}
}
