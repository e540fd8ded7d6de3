package main

import (
	"github.com/spf13/cobra"

	"github.com/statmech/boltzsim/internal/config"
	"github.com/statmech/boltzsim/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Start the MCP server over stdio",
		Long: `Start a Model Context Protocol server that exposes the simulator to
agent clients. Tools: boltzsim_run, boltzsim_history, boltzsim_get.

The server speaks MCP over stdin/stdout and runs until the client
disconnects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(&mcp.Config{
				Name:      "boltzsim",
				Version:   version,
				StorePath: cfg.Store.Path,
			})
			if err != nil {
				return err
			}
			return server.Run(cmd.Context())
		},
	}
}
