// Package report writes the optional per-run execution report: a plain text
// file in the OS temp directory recording when a run started, its
// per-statement trace when execution logging is enabled, and how it ended.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Report is a single run's execution log. It is not safe for concurrent use
// from multiple goroutines; a run has exactly one interpreter driving it.
type Report struct {
	file  *os.File
	path  string
	start time.Time
	trace bool
}

// Start creates the report file and writes its header. title is usually the
// script's path or "stdin". trace enables interleaved per-statement lines
// from Trace.
func Start(title string, trace bool) (*Report, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("wfl_execution_%d.log", time.Now().UnixNano()))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("report: failed to create %s: %w", path, err)
	}

	start := time.Now()
	header := fmt.Sprintf("=== WFL Execution Report ===\n%s\nStarted: %s\n===========================\n\n",
		title, start.Format("2006-01-02 15:04:05"))
	if _, err := f.WriteString(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("report: failed to write header to %s: %w", path, err)
	}

	return &Report{file: f, path: path, start: start, trace: trace}, nil
}

// Path returns the report file's location.
func (r *Report) Path() string { return r.path }

// Trace appends one per-statement line when execution logging is enabled.
// It is a no-op otherwise, so callers can call it unconditionally on every
// statement without branching on configuration themselves.
func (r *Report) Trace(line string) {
	if !r.trace || r.file == nil {
		return
	}
	fmt.Fprintf(r.file, "[%s] %s\n", time.Since(r.start).Round(time.Millisecond), line)
}

// Finish writes the footer and closes the file.
func (r *Report) Finish() error {
	if r.file == nil {
		return nil
	}
	elapsed := time.Since(r.start)
	footer := fmt.Sprintf("\n=== Execution Completed ===\nEnded: %s\nTotal execution time: %.3f seconds\n===========================\n",
		time.Now().Format("2006-01-02 15:04:05"), elapsed.Seconds())
	_, writeErr := r.file.WriteString(footer)
	closeErr := r.file.Close()
	r.file = nil
	if writeErr != nil {
		return fmt.Errorf("report: failed to write footer to %s: %w", r.path, writeErr)
	}
	return closeErr
}
