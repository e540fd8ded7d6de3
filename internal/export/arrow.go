package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/statmech/boltzsim/internal/store"
)

// Schema is the Arrow schema of the exported distribution table.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "level", Type: arrow.PrimitiveTypes.Int64},
	{Name: "count", Type: arrow.PrimitiveTypes.Uint64},
	{Name: "probability", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// writeArrow writes the distribution as a single-record Arrow IPC stream.
func writeArrow(w io.Writer, run *store.Run) error {
	pool := memory.NewGoAllocator()
	b := array.NewRecordBuilder(pool, Schema)
	defer b.Release()

	lvl := b.Field(0).(*array.Int64Builder)
	cnt := b.Field(1).(*array.Uint64Builder)
	prob := b.Field(2).(*array.Float64Builder)
	for _, lp := range run.Distribution {
		lvl.Append(int64(lp.Level))
		cnt.Append(lp.Count)
		prob.Append(lp.Probability)
	}

	rec := b.NewRecord()
	defer rec.Release()

	aw := ipc.NewWriter(w, ipc.WithSchema(Schema), ipc.WithAllocator(pool))
	if err := aw.Write(rec); err != nil {
		aw.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("close arrow writer: %w", err)
	}
	return nil
}
