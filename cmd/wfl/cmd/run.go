package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/config"
	"github.com/logbie/wfl-sub001/diagnostics"
	"github.com/logbie/wfl-sub001/interpreter"
	"github.com/logbie/wfl-sub001/lexer"
	"github.com/logbie/wfl-sub001/parser"
	"github.com/logbie/wfl-sub001/printer"
	"github.com/logbie/wfl-sub001/runner"
	"github.com/logbie/wfl-sub001/semantic"
	"github.com/logbie/wfl-sub001/types"
	"github.com/spf13/cobra"
)

var defaultPrinterOptions = printer.Options{
	Format:      printer.FormatWFL,
	Style:       printer.StyleDetailed,
	IndentWidth: 4,
	UseSpaces:   true,
}

func runWFL(cmd *cobra.Command, args []string) error {
	path, source, err := readSource(args)
	if err != nil {
		return err
	}

	switch {
	case lintFlag:
		return runLint(source)
	case fixFlag, diffFlag:
		return runFormat(path, source)
	case stepFlag:
		return runStepped(path, source)
	default:
		return runScript(path, source)
	}
}

// readSource returns the path named on the command line (or "" when reading
// from standard input) plus its contents.
func readSource(args []string) (string, string, error) {
	if len(args) == 0 {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return "", string(src), nil
	}
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return path, string(src), nil
}

func loadConfig(path string) config.Config {
	dir := "."
	if path != "" {
		dir = filepath.Dir(path)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return config.Default()
	}
	return cfg
}

func title(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}

func runScript(path, source string) error {
	opts := runner.FromConfig(loadConfig(path))
	opts.Title = title(path)
	opts.Out = os.Stdout

	res, err := runner.Run(source, opts)
	if err != nil {
		return fmt.Errorf("running %s failed: %w", title(path), err)
	}
	if res.Failed() {
		fmt.Fprint(os.Stderr, renderDiagnostics(title(path), source, res.Diagnostics))
		return fmt.Errorf("execution failed")
	}
	return nil
}

func runLint(source string) error {
	rep := runner.Analyze(source)
	if rep.HasErrors() {
		fmt.Fprint(os.Stderr, rep.RenderAll())
		return fmt.Errorf("found %d diagnostic(s)", len(rep.Diagnostics()))
	}
	return nil
}

func runFormat(path, source string) error {
	formatted, err := runner.Format(source, defaultPrinterOptions)
	if err != nil {
		if fmtErr, ok := err.(*runner.FormatError); ok {
			fmt.Fprint(os.Stderr, fmtErr.Report.RenderAll())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return fmt.Errorf("formatting failed")
	}

	changed := formatted != source
	switch {
	case diffFlag:
		if changed {
			showDiff(source, formatted)
		}
	case fixFlag && path != "":
		if changed {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				return fmt.Errorf("error writing %s: %w", path, err)
			}
		}
	default:
		fmt.Print(formatted)
	}
	return nil
}

// runStepped drives the interpreter one statement at a time, waiting for
// Enter on standard input between each one. --step bypasses runner.Run
// because stepping needs direct access to Interpreter.Step, which the
// run/analyze/format entry points intentionally don't expose.
func runStepped(path, source string) error {
	rep := diagnostics.NewReport(title(path), source)
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	for _, msg := range l.Errors() {
		rep.Push(diagnostics.Errorf("LEX", diagnostics.Span{}, "%s", msg))
	}
	for _, d := range p.Errors() {
		rep.Push(d)
	}
	if !rep.HasErrors() {
		semantic.NewAnalyzer(rep).Analyze(program)
	}
	if !rep.HasErrors() {
		types.NewChecker(rep).Check(program)
	}
	if rep.HasErrors() {
		fmt.Fprint(os.Stderr, rep.RenderAll())
		return fmt.Errorf("execution failed")
	}

	interp := interpreter.New(interpreter.Limits{})
	interp.Out = os.Stdout
	defer interp.Close()
	interp.EnableStepMode()
	interp.Trace = func(stmt ast.Statement) {
		fmt.Fprintf(os.Stderr, "-- next: %s --\n", traceLabel(stmt))
	}

	done := make(chan error, 1)
	go func() {
		_, err := interp.Run(program)
		done <- err
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case err := <-done:
			if err != nil {
				fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
				return fmt.Errorf("execution failed")
			}
			return nil
		default:
		}
		fmt.Fprint(os.Stderr, "(press Enter to continue) ")
		if !scanner.Scan() {
			return nil
		}
		select {
		case err := <-done:
			if err != nil {
				fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
				return fmt.Errorf("execution failed")
			}
			return nil
		default:
			interp.Step()
		}
	}
}

func renderDiagnostics(title, source string, diags []*diagnostics.Diagnostic) string {
	rep := diagnostics.NewReport(title, source)
	for _, d := range diags {
		rep.Push(d)
	}
	return rep.RenderAll()
}

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
	default:
		return "statement"
	}
}

// showDiff prints a simple line-by-line diff, matching what the teacher's
// formatter command does for --diff.
func showDiff(original, formatted string) {
	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	max := len(origLines)
	if len(fmtLines) > max {
		max = len(fmtLines)
	}
	for i := 0; i < max; i++ {
		var o, f string
		if i < len(origLines) {
			o = origLines[i]
		}
		if i < len(fmtLines) {
			f = fmtLines[i]
		}
		if o != f {
			if o != "" {
				fmt.Printf("- %s\n", o)
			}
			if f != "" {
				fmt.Printf("+ %s\n", f)
			}
		}
	}
}
