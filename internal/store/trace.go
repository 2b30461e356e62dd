package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const traceFile = "annealing_trace.jsonl"

// TraceEntry is one temperature step's statistics, serialized as a JSON
// line in annealing_trace.jsonl. It mirrors the per-step report: current
// temperature, evaluation budget spent, archive occupancy, feasibility
// statistics on constrained runs, and the convergence measures.
type TraceEntry struct {
	// Temperature is the annealing temperature of this step.
	Temperature float64 `json:"temperature"`

	// Evaluations counts problem evaluations performed so far.
	Evaluations int `json:"evaluations"`

	// ArchiveSize is the number of non-dominated solutions held.
	ArchiveSize int `json:"archiveSize"`

	// Constraints carries feasibility statistics; nil on unconstrained runs.
	Constraints *ConstraintStats `json:"constraints,omitempty"`

	// DeltaIdeal and DeltaNadir measure objective-bound movement since the
	// previous step. They are null on the first step, where no previous
	// bounds exist.
	DeltaIdeal *float64 `json:"deltaIdeal"`
	DeltaNadir *float64 `json:"deltaNadir"`

	// Phi is the front-movement indicator for this step.
	Phi float64 `json:"phi"`

	// Timestamp records when this entry was written.
	Timestamp time.Time `json:"timestamp"`
}

// ConstraintStats summarizes archive feasibility on constrained runs.
// Violation statistics cover infeasible members only and are zero when all
// members are feasible.
type ConstraintStats struct {
	Feasible     int     `json:"feasible"`
	MinViolation float64 `json:"minViolation"`
	AvgViolation float64 `json:"avgViolation"`
}

// SetDeltas stores the bound-movement measures, mapping non-finite values
// (the first step's infinities) to null.
func (e *TraceEntry) SetDeltas(deltaIdeal, deltaNadir float64) {
	if !math.IsInf(deltaIdeal, 0) && !math.IsNaN(deltaIdeal) {
		e.DeltaIdeal = &deltaIdeal
	}
	if !math.IsInf(deltaNadir, 0) && !math.IsNaN(deltaNadir) {
		e.DeltaNadir = &deltaNadir
	}
}

// TraceWriter appends trace entries to a JSONL file with buffered I/O.
// It is safe for concurrent use.
type TraceWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	path   string
}

// NewTraceWriter opens the trace file under dir. With appendMode set, new
// entries extend an existing trace (the resume path); otherwise the trace
// starts fresh.
func NewTraceWriter(dir string, appendMode bool) (*TraceWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create trace directory: %w", err)
	}
	path := filepath.Join(dir, traceFile)

	var file *os.File
	var err error
	if appendMode {
		file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	} else {
		file, err = os.Create(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}

	return &TraceWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, 64*1024),
		path:   path,
	}, nil
}

// Write appends one entry. Data is buffered until Flush or Close.
func (tw *TraceWriter) Write(entry TraceEntry) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal trace entry: %w", err)
	}
	if _, err := tw.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write trace entry: %w", err)
	}
	if err := tw.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

// Flush writes buffered data through to disk.
func (tw *TraceWriter) Flush() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if err := tw.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush trace writer: %w", err)
	}
	if err := tw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync trace file: %w", err)
	}
	return nil
}

// Close flushes buffered data and closes the trace file.
func (tw *TraceWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if err := tw.writer.Flush(); err != nil {
		tw.file.Close()
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	if err := tw.file.Close(); err != nil {
		return fmt.Errorf("failed to close trace file: %w", err)
	}
	return nil
}

// Path returns the filesystem path of the trace file.
func (tw *TraceWriter) Path() string {
	return tw.path
}

// TraceReader reads trace entries back from a JSONL file.
type TraceReader struct {
	file    *os.File
	scanner *bufio.Scanner
}

// NewTraceReader opens the trace file under dir for reading.
func NewTraceReader(dir string) (*TraceReader, error) {
	path := filepath.Join(dir, traceFile)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &TraceReader{file: file, scanner: scanner}, nil
}

// Read returns the next entry, or io.EOF when the trace is exhausted.
func (tr *TraceReader) Read() (*TraceEntry, error) {
	if !tr.scanner.Scan() {
		if err := tr.scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to scan trace line: %w", err)
		}
		return nil, io.EOF
	}
	var entry TraceEntry
	if err := json.Unmarshal(tr.scanner.Bytes(), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trace entry: %w", err)
	}
	return &entry, nil
}

// ReadAll drains the trace into memory.
func (tr *TraceReader) ReadAll() ([]TraceEntry, error) {
	var entries []TraceEntry
	for {
		entry, err := tr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Close closes the underlying file.
func (tr *TraceReader) Close() error {
	if err := tr.file.Close(); err != nil {
		return fmt.Errorf("failed to close trace file: %w", err)
	}
	return nil
}

// DeleteTrace removes the trace file under dir. Missing files are not an
// error.
func DeleteTrace(dir string) error {
	err := os.Remove(filepath.Join(dir, traceFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete trace file: %w", err)
	}
	return nil
}
