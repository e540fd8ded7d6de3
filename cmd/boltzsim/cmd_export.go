package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/statmech/boltzsim/internal/config"
	"github.com/statmech/boltzsim/internal/export"
	"github.com/statmech/boltzsim/internal/store"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export a saved run's distribution table",
		Long: `Export a saved run in a machine-readable format.

Formats:
  json   the full run record (parameters, moments, distribution)
  csv    the (level, count, probability) table
  arrow  the same table as an Arrow IPC stream

Examples:
  boltzsim export 4f1c... --format csv
  boltzsim export 4f1c... --format arrow --output dist.arrow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			formatName, _ := cmd.Flags().GetString("format")
			outputPath, _ := cmd.Flags().GetString("output")

			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

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

			var w io.Writer = os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outputPath, err)
				}
				defer f.Close()
				w = f
			}

			return export.Write(w, run, format)
		},
	}

	cmd.Flags().String("format", "json", "Export format: json, csv, or arrow")
	cmd.Flags().String("output", "", "Output file (default stdout)")
	return cmd
}
