// Package mcp provides an MCP (Model Context Protocol) server exposing the
// boltzsim engine, so agent clients can launch simulations and inspect
// stored runs over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/statmech/boltzsim/internal/store"
)

// Server wraps the MCP SDK server and the run-history store.
type Server struct {
	server *sdk.Server
	store  *store.RunStore
}

// Config holds server configuration.
type Config struct {
	Name      string // Server name (e.g., "boltzsim")
	Version   string // Server version
	StorePath string // Run-history database path
}

// NewServer creates a new MCP server with the boltzsim tools registered.
func NewServer(cfg *Config) (*Server, error) {
	path := cfg.StorePath
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	runStore, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{server: mcpServer, store: runStore}
	s.registerTools()
	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.store.Close()
	return err
}

// registerTools registers all boltzsim MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "boltzsim_run",
		Description: "Run a rejection-sampling simulation and return the resulting energy distribution and its moments",
	}, s.handleRun)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "boltzsim_history",
		Description: "List previously saved simulation runs",
	}, s.handleHistory)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "boltzsim_get",
		Description: "Fetch one saved run including its full distribution",
	}, s.handleGet)
}
