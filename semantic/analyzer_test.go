package semantic

import (
	"strings"
	"testing"

	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/diagnostics"
	"github.com/logbie/wfl-sub001/lexer"
	"github.com/logbie/wfl-sub001/parser"
)

func analyzeSource(t *testing.T, src string) *diagnostics.Report {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	report := diagnostics.NewReport("test", src)
	NewAnalyzer(report).Analyze(prog)
	return report
}

func TestUndefinedVariableReported(t *testing.T) {
	report := analyzeSource(t, "display missing\n")
	if !report.HasErrors() {
		t.Fatal("expected an undefined variable error")
	}
}

func TestStoreThenUseIsFine(t *testing.T) {
	report := analyzeSource(t, "store x as 1\ndisplay x\n")
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %v", report.Diagnostics())
	}
}

func TestRedefinitionInSameScopeReported(t *testing.T) {
	report := analyzeSource(t, "store x as 1\nstore x as 2\n")
	if !report.HasErrors() {
		t.Fatal("expected a redefinition error")
	}
}

func TestBreakOutsideLoopReported(t *testing.T) {
	report := analyzeSource(t, "break\n")
	if !report.HasErrors() {
		t.Fatal("expected a break-outside-loop error")
	}
}

func TestUnreachableCodeWarns(t *testing.T) {
	report := analyzeSource(t, `count from 1 to 3:
	break
	display "never"
end count
`)
	foundWarning := false
	for _, d := range report.Diagnostics() {
		if d.Severity == diagnostics.Warning {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Fatal("expected an unreachable-code warning")
	}
}

func TestContainerExtendsUndefinedReported(t *testing.T) {
	report := analyzeSource(t, `create container Child extends Missing:
end container
`)
	if !report.HasErrors() {
		t.Fatal("expected an undefined-parent-container error")
	}
}

func TestFreeVariablesOfClosure(t *testing.T) {
	src := `define action called make_counter:
	store n as 0
	give back new action:
		change n to n plus 1
		give back n
	end action
end action
`
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	def := prog.Statements[0].(*ast.ActionDefinitionStmt)
	ret := def.Body.Statements[1].(*ast.ReturnStmt)
	lit := ret.Expr.(*ast.ActionLiteral)

	free := FreeVariables(lit.Body, map[string]bool{})
	if len(free) != 1 || free[0] != "n" {
		t.Fatalf("expected free variable [n], got %v", free)
	}
}

func hasWarningContaining(report *diagnostics.Report, substr string) bool {
	for _, d := range report.Diagnostics() {
		if d.Severity == diagnostics.Warning && strings.Contains(d.Message, substr) {
			return true
		}
	}
	return false
}

func TestUnusedVariableWarns(t *testing.T) {
	report := analyzeSource(t, "store x as 1\ndisplay 2\n")
	if !hasWarningContaining(report, "never used") {
		t.Fatalf("expected an unused-variable warning, got %v", report.Diagnostics())
	}
}

func TestUsedVariableDoesNotWarn(t *testing.T) {
	report := analyzeSource(t, "store x as 1\ndisplay x\n")
	if hasWarningContaining(report, "never used") {
		t.Fatalf("did not expect an unused-variable warning, got %v", report.Diagnostics())
	}
}

func TestShadowingAcrossScopesWarns(t *testing.T) {
	report := analyzeSource(t, `store x as 1
check if x is greater than 0:
	store x as 2
	display x
end check
`)
	if !hasWarningContaining(report, "shadows") {
		t.Fatalf("expected a shadowing warning, got %v", report.Diagnostics())
	}
}

func TestDeadBranchOnLiteralConditionWarns(t *testing.T) {
	report := analyzeSource(t, `check if no:
	display "dead"
end check
`)
	if !hasWarningContaining(report, "dead code") {
		t.Fatalf("expected a dead-branch warning, got %v", report.Diagnostics())
	}
}

func TestInconsistentReturnPathsWarns(t *testing.T) {
	report := analyzeSource(t, `define action called maybe needs n:
	check if n is greater than 0:
		give back n
	end check
end action
`)
	if !hasWarningContaining(report, "inconsistent return paths") {
		t.Fatalf("expected an inconsistent-return-paths warning, got %v", report.Diagnostics())
	}
}

func TestConsistentReturnPathsDoesNotWarn(t *testing.T) {
	report := analyzeSource(t, `define action called maybe needs n:
	check if n is greater than 0:
		give back n
	end check
	give back 0
end action
`)
	if hasWarningContaining(report, "inconsistent return paths") {
		t.Fatalf("did not expect an inconsistent-return-paths warning, got %v", report.Diagnostics())
	}
}
