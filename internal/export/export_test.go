package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v17/arrow/ipc"

	"github.com/statmech/boltzsim/internal/sim"
	"github.com/statmech/boltzsim/internal/stats"
	"github.com/statmech/boltzsim/internal/store"
)

func testRun() *store.Run {
	return &store.Run{
		ID: "test-run",
		Params: sim.Params{
			Trials: 100, Particles: 2, EnergyTotal: 3,
			EnergyMin: 0, EnergyMax: 3, Seed: 1, Workers: 1,
		},
		Accepted: 40,
		Mean:     1.0,
		StdDev:   0.8,
		Distribution: []stats.LevelProb{
			{Level: 0, Count: 50, Probability: 50.0 / 120},
			{Level: 1, Count: 40, Probability: 40.0 / 120},
			{Level: 2, Count: 20, Probability: 20.0 / 120},
			{Level: 3, Count: 10, Probability: 10.0 / 120},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"json", "json", FormatJSON, false},
		{"csv", "csv", FormatCSV, false},
		{"arrow", "arrow", FormatArrow, false},
		{"unknown", "parquet", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFormat(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testRun(), FormatJSON); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded store.Run
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != "test-run" {
		t.Errorf("ID = %q, want test-run", decoded.ID)
	}
	if len(decoded.Distribution) != 4 {
		t.Errorf("Distribution length = %d, want 4", len(decoded.Distribution))
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testRun(), FormatCSV); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want header + 4 levels", len(lines))
	}
	if lines[0] != "level,count,probability" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0,50,") {
		t.Errorf("first data line = %q, want prefix 0,50,", lines[1])
	}
}

func TestWriteArrowRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	run := testRun()
	if err := Write(&buf, run, FormatArrow); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r, err := ipc.NewReader(&buf)
	if err != nil {
		t.Fatalf("open arrow stream: %v", err)
	}
	defer r.Release()

	if !r.Schema().Equal(Schema) {
		t.Fatalf("schema mismatch: got %v", r.Schema())
	}
	if !r.Next() {
		t.Fatal("expected one record")
	}
	rec := r.Record()
	if rec.NumRows() != int64(len(run.Distribution)) {
		t.Errorf("rows = %d, want %d", rec.NumRows(), len(run.Distribution))
	}
	if rec.NumCols() != 3 {
		t.Errorf("cols = %d, want 3", rec.NumCols())
	}
	if r.Next() {
		t.Error("expected exactly one record")
	}
}
