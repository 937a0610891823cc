// Package trace implements an opt-in, per-commit CSV trace of the
// pipeline's retirement stream. It is wired into a pipeline.Pipeline via
// pipeline.WithCommitSink and stays entirely inert unless the caller
// enables it.
package trace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/rv32ooo/timing/pipeline"
)

// CommitTraceWriter buffers commit records and periodically flushes them
// to a CSV file, one row per retiring instruction.
type CommitTraceWriter struct {
	dir  string
	file *os.File

	records    []pipeline.CommitRecord
	bufferSize int
}

// NewCommitTraceWriter returns a writer that will create its CSV file
// under dir. If dir is empty, a run-unique directory name is generated.
func NewCommitTraceWriter(dir string) *CommitTraceWriter {
	return &CommitTraceWriter{
		dir:        dir,
		bufferSize: 1000,
	}
}

// Init creates the trace file, overwriting one that already exists, and
// registers a flush-and-close hook so buffered records are never lost on
// process exit.
func (w *CommitTraceWriter) Init() error {
	if w.dir == "" {
		w.dir = "rv32ooo_trace_" + xid.New().String()
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}

	path := filepath.Join(w.dir, "commits.csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	w.file = file

	fmt.Fprintf(file, "cycle,pc,rd_used,arch,value\n")

	atexit.Register(func() {
		w.Flush()
		_ = w.file.Close()
	})

	return nil
}

// OnCommit implements pipeline.CommitSink.
func (w *CommitTraceWriter) OnCommit(rec pipeline.CommitRecord) {
	w.records = append(w.records, rec)
	if len(w.records) >= w.bufferSize {
		w.Flush()
	}
}

// Flush writes every buffered record to the CSV file.
func (w *CommitTraceWriter) Flush() {
	if w.file == nil {
		return
	}
	for _, rec := range w.records {
		fmt.Fprintf(w.file, "%d,0x%08x,%t,%d,0x%08x\n",
			rec.Cycle, rec.PC, rec.RdUsed, rec.Arch, rec.Value)
	}
	w.records = nil
}
