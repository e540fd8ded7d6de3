// Package store persists finished simulation runs to SQLite so results can
// be listed, exported, and re-plotted later.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/statmech/boltzsim/internal/sim"
	"github.com/statmech/boltzsim/internal/stats"
)

// Run is one persisted simulation run: its parameters and finalized outputs.
type Run struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Params    sim.Params `json:"params"`

	Accepted       uint64            `json:"accepted"`
	Mean           float64           `json:"mean"`
	StdDev         float64           `json:"stddev"`
	AvgTotalEnergy float64           `json:"avg_total_energy"`
	Distribution   []stats.LevelProb `json:"distribution"`
}

// RunStore persists runs to a SQLite database. It is safe for concurrent
// use; the connection pool is limited to a single writer.
type RunStore struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the default database location, ~/.boltzsim/runs.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".boltzsim", "runs.db"), nil
}

// Open opens (creating if necessary) the run store at path.
func Open(path string) (*RunStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &RunStore{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Save persists a finished run and returns its generated ID.
func (s *RunStore) Save(ctx context.Context, p sim.Params, summary *stats.Summary) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, trials, particles, energy_total,
			energy_min, energy_max, seed, workers,
			accepted, mean, stddev, avg_total_energy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, now.Format(time.RFC3339Nano),
		p.Trials, p.Particles, p.EnergyTotal, p.EnergyMin, p.EnergyMax, p.Seed, p.Workers,
		summary.Accepted, summary.Mean, summary.StdDev, summary.AvgTotalEnergy)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, lp := range summary.Distribution {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_levels (run_id, level, count, probability)
			VALUES (?, ?, ?, ?)`,
			id, lp.Level, lp.Count, lp.Probability)
		if err != nil {
			return "", fmt.Errorf("insert level %d: %w", lp.Level, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return id, nil
}

// Get loads one run with its full distribution.
func (s *RunStore) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, trials, particles, energy_total,
			energy_min, energy_max, seed, workers,
			accepted, mean, stddev, avg_total_energy
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT level, count, probability FROM run_levels
		WHERE run_id = ? ORDER BY level`, id)
	if err != nil {
		return nil, fmt.Errorf("load distribution for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var lp stats.LevelProb
		if err := rows.Scan(&lp.Level, &lp.Count, &lp.Probability); err != nil {
			return nil, fmt.Errorf("scan level row: %w", err)
		}
		run.Distribution = append(run.Distribution, lp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate level rows: %w", err)
	}

	return run, nil
}

// List returns the most recent runs, newest first, without distributions.
// limit <= 0 means no limit.
func (s *RunStore) List(ctx context.Context, limit int) ([]*Run, error) {
	q := `
		SELECT id, created_at, trials, particles, energy_total,
			energy_min, energy_max, seed, workers,
			accepted, mean, stddev, avg_total_energy
		FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// Delete removes a run and its distribution rows.
func (s *RunStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var run Run
	var created string
	err := sc.Scan(&run.ID, &created,
		&run.Params.Trials, &run.Params.Particles, &run.Params.EnergyTotal,
		&run.Params.EnergyMin, &run.Params.EnergyMax, &run.Params.Seed, &run.Params.Workers,
		&run.Accepted, &run.Mean, &run.StdDev, &run.AvgTotalEnergy)
	if err != nil {
		return nil, err
	}
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return &run, nil
}
