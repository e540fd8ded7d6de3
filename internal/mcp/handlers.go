package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/statmech/boltzsim/internal/sim"
	"github.com/statmech/boltzsim/internal/stats"
)

// RunInput defines the input for the boltzsim_run tool.
type RunInput struct {
	Trials      int64 `json:"trials" jsonschema:"Number of sampling attempts"`
	Particles   int   `json:"particles" jsonschema:"Number of freely sampled particles per trial (one closing particle is added)"`
	EnergyTotal int   `json:"energy_total" jsonschema:"Conserved total energy of the completed configuration"`
	EnergyMin   int   `json:"energy_min" jsonschema:"Minimum single-particle energy level"`
	EnergyMax   int   `json:"energy_max" jsonschema:"Maximum single-particle energy level"`
	Seed        int64 `json:"seed,omitempty" jsonschema:"Base seed for reproducible runs (default: 1)"`
	Save        bool  `json:"save,omitempty" jsonschema:"Persist the run to the history store (default: false)"`
}

// RunOutput defines the output for the boltzsim_run tool.
type RunOutput struct {
	Accepted       uint64            `json:"accepted" jsonschema:"Number of accepted trials"`
	Distribution   []stats.LevelProb `json:"distribution,omitempty" jsonschema:"Per-level occupation probabilities"`
	Mean           float64           `json:"mean,omitempty" jsonschema:"Mean energy per particle"`
	StdDev         float64           `json:"stddev,omitempty" jsonschema:"Standard deviation of the per-particle energy"`
	AvgTotalEnergy float64           `json:"avg_total_energy,omitempty" jsonschema:"Average total energy per accepted configuration"`
	RunID          string            `json:"run_id,omitempty" jsonschema:"ID of the saved run (when save=true)"`
	Message        string            `json:"message" jsonschema:"Human-readable result message"`
}

// HistoryInput defines the input for the boltzsim_history tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of runs to return (default: 20)"`
}

// RunListItem is one entry of a history listing.
type RunListItem struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Trials    int64     `json:"trials"`
	Particles int       `json:"particles"`
	Accepted  uint64    `json:"accepted"`
	Mean      float64   `json:"mean"`
}

// HistoryOutput defines the output for the boltzsim_history tool.
type HistoryOutput struct {
	Runs  []RunListItem `json:"runs" jsonschema:"Saved runs, newest first"`
	Count int           `json:"count" jsonschema:"Number of runs returned"`
}

// GetInput defines the input for the boltzsim_get tool.
type GetInput struct {
	RunID string `json:"run_id" jsonschema:"ID of the run to fetch"`
}

// GetOutput defines the output for the boltzsim_get tool.
type GetOutput struct {
	ID             string            `json:"id"`
	CreatedAt      time.Time         `json:"created_at"`
	Params         sim.Params        `json:"params"`
	Accepted       uint64            `json:"accepted"`
	Mean           float64           `json:"mean"`
	StdDev         float64           `json:"stddev"`
	AvgTotalEnergy float64           `json:"avg_total_energy"`
	Distribution   []stats.LevelProb `json:"distribution"`
}

func (s *Server) handleRun(ctx context.Context, req *sdk.CallToolRequest, args RunInput) (*sdk.CallToolResult, RunOutput, error) {
	seed := args.Seed
	if seed == 0 {
		seed = 1
	}
	p := sim.Params{
		Trials:      args.Trials,
		Particles:   args.Particles,
		EnergyTotal: args.EnergyTotal,
		EnergyMin:   args.EnergyMin,
		EnergyMax:   args.EnergyMax,
		Seed:        seed,
	}

	hist, err := sim.Run(ctx, p)
	if err != nil {
		return nil, RunOutput{}, err
	}

	summary, err := stats.Finalize(hist)
	if errors.Is(err, stats.ErrNoAccepted) {
		// Unreachable total: report rather than fail the tool call.
		return nil, RunOutput{
			Accepted: 0,
			Message: fmt.Sprintf("no valid configurations found: total energy %d is unreachable for %d+1 particles on levels [%d..%d]",
				p.EnergyTotal, p.Particles, p.EnergyMin, p.EnergyMax),
		}, nil
	}
	if err != nil {
		return nil, RunOutput{}, err
	}

	out := RunOutput{
		Accepted:       summary.Accepted,
		Distribution:   summary.Distribution,
		Mean:           summary.Mean,
		StdDev:         summary.StdDev,
		AvgTotalEnergy: summary.AvgTotalEnergy,
		Message:        fmt.Sprintf("%d of %d trials accepted", summary.Accepted, p.Trials),
	}

	if args.Save {
		id, err := s.store.Save(ctx, p, summary)
		if err != nil {
			return nil, RunOutput{}, fmt.Errorf("save run: %w", err)
		}
		out.RunID = id
	}

	return nil, out, nil
}

func (s *Server) handleHistory(ctx context.Context, req *sdk.CallToolRequest, args HistoryInput) (*sdk.CallToolResult, HistoryOutput, error) {
	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}

	runs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, HistoryOutput{}, fmt.Errorf("list runs: %w", err)
	}

	out := HistoryOutput{Runs: make([]RunListItem, 0, len(runs))}
	for _, r := range runs {
		out.Runs = append(out.Runs, RunListItem{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Trials:    r.Params.Trials,
			Particles: r.Params.Particles,
			Accepted:  r.Accepted,
			Mean:      r.Mean,
		})
	}
	out.Count = len(out.Runs)
	return nil, out, nil
}

func (s *Server) handleGet(ctx context.Context, req *sdk.CallToolRequest, args GetInput) (*sdk.CallToolResult, GetOutput, error) {
	run, err := s.store.Get(ctx, args.RunID)
	if err != nil {
		return nil, GetOutput{}, err
	}
	return nil, GetOutput{
		ID:             run.ID,
		CreatedAt:      run.CreatedAt,
		Params:         run.Params,
		Accepted:       run.Accepted,
		Mean:           run.Mean,
		StdDev:         run.StdDev,
		AvgTotalEnergy: run.AvgTotalEnergy,
		Distribution:   run.Distribution,
	}, nil
}
