package runner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/logbie/wfl-sub001/printer"
)

func TestRunStoreAndDisplay(t *testing.T) {
	var out bytes.Buffer
	res, err := Run("store x as 42\ndisplay x\n", Options{Out: &out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if strings.TrimSpace(out.String()) != "42" {
		t.Fatalf("expected 42, got %q", out.String())
	}
}

func TestRunCountLoopWithBreak(t *testing.T) {
	src := `store s as 0
count from 1 to 10:
	change s to s plus count
	check if count is greater than 5:
		break
	end check
end count
display s
`
	var out bytes.Buffer
	res, err := Run(src, Options{Out: &out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if strings.TrimSpace(out.String()) != "21" {
		t.Fatalf("expected 21, got %q", out.String())
	}
}

func TestRunClosureCapturesLocalState(t *testing.T) {
	src := `define action called make_counter:
	store n as 0
	define action called tick:
		change n to n plus 1
		give back n
	end action
	give back tick
end action

store t as make_counter with nothing
store a as t with nothing
store b as t with nothing
display a
display b
`
	var out bytes.Buffer
	res, err := Run(src, Options{Out: &out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	lines := strings.Fields(out.String())
	if len(lines) != 2 || lines[0] != "1" || lines[1] != "2" {
		t.Fatalf("expected 1 then 2, got %v", lines)
	}
}

func TestRunPatternMatch(t *testing.T) {
	src := `display matches with "12/25/2023" and "{month}/{day}/{year}"
store result as find with "{month}/{day}/{year}" and "12/25/2023"
display result's month
display result's day
display result's year
`
	var out bytes.Buffer
	res, err := Run(src, Options{Out: &out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Failed() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	lines := strings.Fields(out.String())
	if len(lines) != 4 || lines[0] != "yes" || lines[1] != "12" || lines[2] != "25" || lines[3] != "2023" {
		t.Fatalf("expected yes 12 25 2023, got %v", lines)
	}
}

func TestRunTimeoutTerminatesPromptly(t *testing.T) {
	src := "repeat forever:\n\tstore x as 1\nend repeat\n"
	var out bytes.Buffer
	res, err := Run(src, Options{Out: &out, TimeoutSeconds: 1, DebugReportEnabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Failed() {
		t.Fatalf("expected the timeout to surface as a diagnostic")
	}
	found := false
	for _, d := range res.Diagnostics {
		if strings.Contains(d.Message, "time limit") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a timeout diagnostic, got %v", res.Diagnostics)
	}
}

func TestRunDiagnosticQualityMissingVariableName(t *testing.T) {
	res, err := Run("store as 4\n", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Failed() {
		t.Fatal("expected a diagnostic for the missing variable name")
	}
	found := false
	for _, d := range res.Diagnostics {
		for _, note := range d.Notes {
			if note == "You must provide a variable name before 'as' (e.g. store x as 3)" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected the canonical missing-name note, got: %v", res.Diagnostics)
	}
}

func TestAnalyzeReportsWithoutExecuting(t *testing.T) {
	rep := Analyze("display 1 plus 2\n")
	if rep.HasErrors() {
		t.Fatalf("expected no diagnostics for valid source, got %v", rep.Diagnostics())
	}
}

func TestAnalyzeCatchesUndefinedVariable(t *testing.T) {
	rep := Analyze("display missing\n")
	if !rep.HasErrors() {
		t.Fatal("expected an undefined-variable diagnostic")
	}
}

func TestFormatIsIdempotent(t *testing.T) {
	popts := printer.Options{Format: printer.FormatWFL, Style: printer.StyleDetailed, IndentWidth: 4, UseSpaces: true}
	src := "store x as 1 plus 2\ndisplay x\n"
	once, err := Format(src, popts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := Format(once, popts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if once != twice {
		t.Fatalf("formatting is not idempotent:\nfirst: %q\nsecond: %q", once, twice)
	}
}

func TestFormatReturnsDiagnosticsOnParseError(t *testing.T) {
	_, err := Format("store as 4\n", printer.Options{})
	if err == nil {
		t.Fatal("expected a format error for unparseable source")
	}
	if _, ok := err.(*FormatError); !ok {
		t.Fatalf("expected a *FormatError, got %T", err)
	}
}
