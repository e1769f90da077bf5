package types

import (
	"testing"

	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/diagnostics"
)

func sp() diagnostics.Span { return diagnostics.Span{Line: 1, Column: 1} }

func TestArithmeticRequiresNumbers(t *testing.T) {
	report := diagnostics.NewReport("test", "")
	c := NewChecker(report)

	expr := &ast.BinaryExpr{
		Op:    ast.OpPlus,
		Left:  &ast.StringLiteral{Value: "x", Sp: sp()},
		Right: &ast.NumberLiteral{Value: 1, Sp: sp()},
		Sp:    sp(),
	}
	c.checkExpr(expr)

	if !report.HasErrors() {
		t.Fatal("expected a type error for text + number")
	}
}

func TestStoreInfersType(t *testing.T) {
	report := diagnostics.NewReport("test", "")
	c := NewChecker(report)

	stmt := &ast.StoreStmt{Name: "x", Value: &ast.NumberLiteral{Value: 42, Sp: sp()}, Sp: sp()}
	c.checkStmt(stmt)

	got, ok := c.lookup("x")
	if !ok || got.Kind != Number {
		t.Fatalf("expected x: number, got %v", got)
	}
}

func TestDeferredActionCallObligation(t *testing.T) {
	report := diagnostics.NewReport("test", "")
	c := NewChecker(report)

	call := &ast.CallExpr{
		Callee: &ast.VariableExpr{Name: "greet", Sp: sp()},
		Args:   []ast.Expression{&ast.StringLiteral{Value: "hi", Sp: sp()}},
		Sp:     sp(),
	}
	c.checkExpr(call)
	if report.HasErrors() {
		t.Fatal("forward reference should not error before the definition is seen")
	}

	def := &ast.ActionDefinitionStmt{
		Name:   "greet",
		Params: []ast.Param{{Name: "name", Type: &ast.NamedType{Name: "number"}}},
		Body:   &ast.Block{},
		Sp:     sp(),
	}
	c.checkActionDef(def)

	if !report.HasErrors() {
		t.Fatal("expected a type mismatch once the obligation resolves (text arg, number param)")
	}
}
