// Package runner wires lexer, parser, semantic analyzer, type checker,
// interpreter, and printer into the three entry points external
// collaborators (a CLI, an editor, an LSP) actually call: run, analyze, and
// format.
package runner

import (
	"io"
	"os"
	"time"

	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/config"
	"github.com/logbie/wfl-sub001/diagnostics"
	"github.com/logbie/wfl-sub001/interpreter"
	"github.com/logbie/wfl-sub001/lexer"
	"github.com/logbie/wfl-sub001/parser"
	"github.com/logbie/wfl-sub001/printer"
	"github.com/logbie/wfl-sub001/report"
	"github.com/logbie/wfl-sub001/semantic"
	"github.com/logbie/wfl-sub001/types"
)

// Options configures one Run, mirroring the .wflcfg keys and CLI flags
// spec.md §6 names.
type Options struct {
	Title              string // used as the execution report's header; usually the source path
	TimeoutSeconds     int
	MaxMemoryMB        int
	StepMode           bool
	LoggingEnabled     bool
	DebugReportEnabled bool
	LogLevel           config.LogLevel
	ExecutionLogging   bool
	Out                io.Writer // defaults to os.Stdout
}

// FromConfig builds Options from a loaded .wflcfg, leaving Title/StepMode/Out
// for the caller to fill in afterward.
func FromConfig(cfg config.Config) Options {
	return Options{
		TimeoutSeconds:     cfg.TimeoutSeconds,
		MaxMemoryMB:        cfg.MaxMemoryMB,
		LoggingEnabled:     cfg.LoggingEnabled,
		DebugReportEnabled: cfg.DebugReportEnabled,
		LogLevel:           cfg.LogLevel,
		ExecutionLogging:   cfg.ExecutionLogging,
	}
}

// ExecutionResult is either a Value (successful run) or a non-empty set of
// Diagnostics (parse/analysis/type errors that stopped execution before it
// started, or a runtime fault wrapped as a Diagnostic).
type ExecutionResult struct {
	Value       interpreter.Value
	Diagnostics []*diagnostics.Diagnostic
}

// Failed reports whether the result carries diagnostics instead of a value.
func (r ExecutionResult) Failed() bool { return len(r.Diagnostics) > 0 }

// compile runs the shared front end (lex, parse, analyze, check) and returns
// the parsed program plus a report. Front-end errors are always collected
// into the report rather than returned as a Go error, so callers can render
// them uniformly regardless of which phase produced them.
func compile(title, source string) (*ast.Program, *diagnostics.Report) {
	rep := diagnostics.NewReport(title, source)

	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	for _, msg := range l.Errors() {
		rep.Push(diagnostics.Errorf("LEX", diagnostics.Span{}, "%s", msg))
	}
	for _, d := range p.Errors() {
		rep.Push(d)
	}
	if rep.HasErrors() {
		return program, rep
	}

	semantic.NewAnalyzer(rep).Analyze(program)
	if rep.HasErrors() {
		return program, rep
	}

	types.NewChecker(rep).Check(program)
	return program, rep
}

// Analyze runs the front end without executing anything and returns the
// full diagnostics report (empty when the source is clean).
func Analyze(source string) *diagnostics.Report {
	_, rep := compile("<analyze>", source)
	return rep
}

// Format parses source and renders it back out in canonical form.
func Format(source string, popts printer.Options) (string, error) {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		rep := diagnostics.NewReport("<format>", source)
		for _, d := range p.Errors() {
			rep.Push(d)
		}
		return "", &FormatError{Report: rep}
	}
	return printer.New(popts).Print(program), nil
}

// FormatError wraps the diagnostics produced by a Format call that could not
// parse its input.
type FormatError struct {
	Report *diagnostics.Report
}

func (e *FormatError) Error() string {
	return e.Report.RenderAll()
}

// Run lexes, parses, analyzes, type-checks, and (if the program is clean)
// executes source, honoring opts' timeout, memory, step, and logging
// settings. A non-nil error indicates a problem running the pipeline itself
// (e.g. the execution report file could not be created) rather than a fault
// in the user's program, which is instead reported through ExecutionResult.
func Run(source string, opts Options) (ExecutionResult, error) {
	title := opts.Title
	if title == "" {
		title = "<script>"
	}

	program, rep := compile(title, source)
	if rep.HasErrors() {
		return ExecutionResult{Diagnostics: rep.Diagnostics()}, nil
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	limits := interpreter.Limits{MaxCallDepth: interpreter.DefaultMaxCallDepth}
	if opts.TimeoutSeconds > 0 {
		limits.Timeout = time.Duration(opts.TimeoutSeconds) * time.Second
	}
	if opts.MaxMemoryMB > 0 {
		limits.MaxMemory = int64(opts.MaxMemoryMB) * 1024 * 1024
	}

	interp := interpreter.New(limits)
	interp.Out = out
	defer interp.Close()

	var rpt *report.Report
	if opts.DebugReportEnabled {
		r, err := report.Start(title, opts.ExecutionLogging)
		if err != nil {
			return ExecutionResult{}, err
		}
		rpt = r
		defer rpt.Finish()
	}
	if rpt != nil && opts.ExecutionLogging {
		interp.Trace = func(stmt ast.Statement) {
			rpt.Trace(traceLabel(stmt))
		}
	}
	if opts.StepMode {
		interp.EnableStepMode()
	}

	value, err := interp.Run(program)
	if err != nil {
		if rtErr, ok := err.(*interpreter.RuntimeError); ok {
			return ExecutionResult{Diagnostics: []*diagnostics.Diagnostic{rtErr.Diagnostic()}}, nil
		}
		return ExecutionResult{}, err
	}
	return ExecutionResult{Value: value}, nil
}

// traceLabel renders a one-line, implementation-agnostic summary of a
// statement for the execution report, since ast nodes have no String method
// of their own (the printer needs full indentation context to render one).
func traceLabel(stmt ast.Statement) string {
	switch stmt.(type) {
	case *ast.StoreStmt:
		return "store"
	case *ast.ChangeStmt:
		return "change"
	case *ast.DisplayStmt:
		return "display"
	case *ast.IfStmt:
		return "check if"
	case *ast.CheckStmt:
		return "check"
	case *ast.CountLoopStmt:
		return "count"
	case *ast.ForEachStmt:
		return "for each"
	case *ast.RepeatStmt:
		return "repeat"
	case *ast.TryStmt:
		return "try"
	case *ast.ActionDefinitionStmt:
		return "define action"
	case *ast.ContainerDefinitionStmt:
		return "create container"
	case *ast.ContainerInstantiationStmt:
		return "create new"
	case *ast.TriggerStmt:
		return "trigger"
	case *ast.EventHandlerStmt:
		return "on event"
	case *ast.ReadFileStmt:
		return "read file"
	case *ast.WriteFileStmt:
		return "write file"
	case *ast.WaitForStmt:
		return "wait for"
	case *ast.BreakStmt:
		return "break"
	case *ast.ContinueStmt:
		return "continue"
	case *ast.ReturnStmt:
		return "give back"
	default:
		return "statement"
	}
}
