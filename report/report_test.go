package report

import (
	"os"
	"strings"
	"testing"
)

func TestExecutionReportLifecycle(t *testing.T) {
	r, err := Start("Test Execution", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := r.Path()
	defer os.Remove(path)

	if err := r.Finish(); err != nil {
		t.Fatalf("unexpected error finishing report: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report file: %v", err)
	}
	content := string(data)
	for _, want := range []string{"=== WFL Execution Report ===", "Test Execution", "=== Execution Completed ==="} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected report to contain %q, got:\n%s", want, content)
		}
	}
}

func TestTraceLinesOnlyWrittenWhenEnabled(t *testing.T) {
	r, err := Start("Trace Test", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := r.Path()
	defer os.Remove(path)

	r.Trace("store x as 1")
	if err := r.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report file: %v", err)
	}
	if !strings.Contains(string(data), "store x as 1") {
		t.Fatalf("expected the trace line to appear in the report, got:\n%s", string(data))
	}
}

func TestTraceIsANoopWhenDisabled(t *testing.T) {
	r, err := Start("No Trace Test", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := r.Path()
	defer os.Remove(path)

	r.Trace("this line must not appear")
	if err := r.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report file: %v", err)
	}
	if strings.Contains(string(data), "this line must not appear") {
		t.Fatalf("expected trace line to be suppressed, got:\n%s", string(data))
	}
}
