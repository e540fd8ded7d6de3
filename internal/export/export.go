// Package export writes a run's distribution table in machine-readable
// formats: JSON, CSV, and Arrow IPC.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/statmech/boltzsim/internal/store"
)

// Format identifies an export encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatArrow Format = "arrow"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatArrow:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json, csv, or arrow)", s)
	}
}

// Write encodes the run to w in the given format.
func Write(w io.Writer, run *store.Run, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, run)
	case FormatCSV:
		return writeCSV(w, run)
	case FormatArrow:
		return writeArrow(w, run)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func writeJSON(w io.Writer, run *store.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, run *store.Run) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"level", "count", "probability"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, lp := range run.Distribution {
		rec := []string{
			strconv.Itoa(lp.Level),
			strconv.FormatUint(lp.Count, 10),
			strconv.FormatFloat(lp.Probability, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write level %d: %w", lp.Level, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
