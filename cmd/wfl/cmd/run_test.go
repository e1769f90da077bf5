package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// whatever it wrote, mirroring the teacher's os.Pipe capture pattern.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return string(out)
}

func TestRunScriptWritesDisplayOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.wfl")
	if err := os.WriteFile(path, []byte("store x as 1 plus 2\ndisplay x\n"), 0o644); err != nil {
		t.Fatalf("failed to write test script: %v", err)
	}

	var runErr error
	out := captureStdout(t, func() {
		runErr = runScript(path, "store x as 1 plus 2\ndisplay x\n")
	})
	if runErr != nil {
		t.Fatalf("unexpected error: %v", runErr)
	}
	if strings.TrimSpace(out) != "3" {
		t.Fatalf("expected 3, got %q", out)
	}
}

func TestRunScriptFailsOnUndefinedVariable(t *testing.T) {
	err := runScript("", "display missing\n")
	if err == nil {
		t.Fatal("expected an error for an undefined variable")
	}
}

func TestRunLintAcceptsCleanSource(t *testing.T) {
	if err := runLint("display 1 plus 2\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunLintRejectsUndefinedVariable(t *testing.T) {
	if err := runLint("display missing\n"); err == nil {
		t.Fatal("expected an error for an undefined variable")
	}
}

func TestRunFormatToStdout(t *testing.T) {
	fixIt, diffIt := fixFlag, diffFlag
	fixFlag, diffFlag = false, false
	defer func() { fixFlag, diffFlag = fixIt, diffIt }()

	src := "store x as 1 plus 2\ndisplay x\n"
	out := captureStdout(t, func() {
		if err := runFormat("", src); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "store x as") {
		t.Fatalf("expected formatted output, got %q", out)
	}
}

func TestRunFormatFixWritesFile(t *testing.T) {
	fixIt, diffIt := fixFlag, diffFlag
	fixFlag, diffFlag = true, false
	defer func() { fixFlag, diffFlag = fixIt, diffIt }()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.wfl")
	src := "store   x   as   1 plus 2\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("failed to write test script: %v", err)
	}

	if err := runFormat(path, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rewritten, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read rewritten file: %v", err)
	}
	if strings.Contains(string(rewritten), "   ") {
		t.Fatalf("expected the file to be reformatted, got %q", rewritten)
	}
}

func TestRunFormatReportsParseErrors(t *testing.T) {
	if err := runFormat("", "store as 4\n"); err == nil {
		t.Fatal("expected a formatting error for unparseable source")
	}
}
