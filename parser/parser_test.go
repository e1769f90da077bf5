package parser

import (
	"testing"

	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/lexer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	return prog
}

func TestParseStore(t *testing.T) {
	prog := parseSource(t, "store x as 42\n")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	store, ok := prog.Statements[0].(*ast.StoreStmt)
	if !ok {
		t.Fatalf("expected *ast.StoreStmt, got %T", prog.Statements[0])
	}
	if store.Name != "x" {
		t.Errorf("expected name 'x', got %q", store.Name)
	}
	num, ok := store.Value.(*ast.NumberLiteral)
	if !ok || num.Value != 42 {
		t.Errorf("expected number literal 42, got %#v", store.Value)
	}
}

func TestParseStoreMissingNameReportsCanonicalNote(t *testing.T) {
	p := New(lexer.New("store as 4\n"))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error for missing variable name")
	}
	found := false
	for _, d := range p.Errors() {
		for _, note := range d.Notes {
			if note == "You must provide a variable name before 'as' (e.g. store x as 3)" {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected the canonical missing-name note, got: %v", p.Errors())
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog := parseSource(t, "display 1 plus 2 times 3\n")
	disp := prog.Statements[0].(*ast.DisplayStmt)
	bin, ok := disp.Expr.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpPlus {
		t.Fatalf("expected top-level '+', got %#v", disp.Expr)
	}
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || right.Op != ast.OpTimes {
		t.Fatalf("expected 'times' to bind tighter than 'plus', got %#v", bin.Right)
	}
}

func TestParseIsComparisonForms(t *testing.T) {
	prog := parseSource(t, "display x is equal to 5\n")
	disp := prog.Statements[0].(*ast.DisplayStmt)
	bin, ok := disp.Expr.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpEq {
		t.Fatalf("expected OpEq, got %#v", disp.Expr)
	}

	prog2 := parseSource(t, "display x is not equal to 5\n")
	disp2 := prog2.Statements[0].(*ast.DisplayStmt)
	bin2, ok := disp2.Expr.(*ast.BinaryExpr)
	if !ok || bin2.Op != ast.OpNe {
		t.Fatalf("expected OpNe, got %#v", disp2.Expr)
	}
}

func TestParseBetween(t *testing.T) {
	prog := parseSource(t, "display x between 1 and 10\n")
	disp := prog.Statements[0].(*ast.DisplayStmt)
	between, ok := disp.Expr.(*ast.BetweenExpr)
	if !ok {
		t.Fatalf("expected *ast.BetweenExpr, got %#v", disp.Expr)
	}
	if _, ok := between.Low.(*ast.NumberLiteral); !ok {
		t.Errorf("expected numeric low bound, got %#v", between.Low)
	}
}

func TestParseCountLoopWithBreak(t *testing.T) {
	prog := parseSource(t, `count from 1 to 10:
	store total as total plus count
	check if total is greater than 20:
		break
	end check
end count
`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	loop, ok := prog.Statements[0].(*ast.CountLoopStmt)
	if !ok {
		t.Fatalf("expected *ast.CountLoopStmt, got %T", prog.Statements[0])
	}
	if len(loop.Body.Statements) != 2 {
		t.Fatalf("expected 2 statements in loop body, got %d", len(loop.Body.Statements))
	}
}

func TestParseActionDefinition(t *testing.T) {
	prog := parseSource(t, `define action called greet needs name:
	display name
end action
`)
	def, ok := prog.Statements[0].(*ast.ActionDefinitionStmt)
	if !ok {
		t.Fatalf("expected *ast.ActionDefinitionStmt, got %T", prog.Statements[0])
	}
	if def.Name != "greet" {
		t.Errorf("expected name 'greet', got %q", def.Name)
	}
	if len(def.Params) != 1 || def.Params[0].Name != "name" {
		t.Errorf("expected one param 'name', got %#v", def.Params)
	}
}

func TestParseCheckPatternForm(t *testing.T) {
	prog := parseSource(t, `check result:
	when yes:
		display "matched"
	otherwise:
		display "no match"
end check
`)
	stmt, ok := prog.Statements[0].(*ast.CheckStmt)
	if !ok {
		t.Fatalf("expected *ast.CheckStmt, got %T", prog.Statements[0])
	}
	if len(stmt.Arms) != 1 {
		t.Fatalf("expected 1 arm, got %d", len(stmt.Arms))
	}
	if stmt.Else == nil {
		t.Error("expected an otherwise block")
	}
}

func TestParseMemberAndMethodCall(t *testing.T) {
	prog := parseSource(t, "display person's name\n")
	disp := prog.Statements[0].(*ast.DisplayStmt)
	if _, ok := disp.Expr.(*ast.MemberAccessExpr); !ok {
		t.Fatalf("expected *ast.MemberAccessExpr, got %#v", disp.Expr)
	}
}

func TestParseContainerDefinition(t *testing.T) {
	prog := parseSource(t, `create container Counter:
	property count as number defaults to 0
	define action called tick:
		change count to count plus 1
	end action
end container
`)
	def, ok := prog.Statements[0].(*ast.ContainerDefinitionStmt)
	if !ok {
		t.Fatalf("expected *ast.ContainerDefinitionStmt, got %T", prog.Statements[0])
	}
	if def.Name != "Counter" {
		t.Errorf("expected name 'Counter', got %q", def.Name)
	}
	if len(def.Properties) != 1 || len(def.Methods) != 1 {
		t.Errorf("expected 1 property and 1 method, got %d/%d", len(def.Properties), len(def.Methods))
	}
}

func TestParseWaitFor(t *testing.T) {
	prog := parseSource(t, "wait for store x as 5\n")
	wf, ok := prog.Statements[0].(*ast.WaitForStmt)
	if !ok {
		t.Fatalf("expected *ast.WaitForStmt, got %T", prog.Statements[0])
	}
	if _, ok := wf.Inner.(*ast.StoreStmt); !ok {
		t.Errorf("expected inner *ast.StoreStmt, got %#v", wf.Inner)
	}
}
