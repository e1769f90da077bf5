// Package semantic walks a parsed program looking for problems the parser
// cannot see on its own: names that are never declared, names redeclared in
// the same scope, code that can never run, and containers/interfaces that
// reference names that don't exist. It runs before the type checker and
// reports through the same diagnostics.Report.
package semantic

import (
	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/diagnostics"
)

// Analyzer performs a single top-to-bottom pass over a Program, threading a
// Scope chain the way the interpreter's Environment chain will at runtime.
type Analyzer struct {
	report *diagnostics.Report

	containers map[string]*ast.ContainerDefinitionStmt
	interfaces map[string]*ast.InterfaceDefinitionStmt
	actions    map[string]bool

	loopDepth int
}

// NewAnalyzer creates an Analyzer that reports into report.
func NewAnalyzer(report *diagnostics.Report) *Analyzer {
	return &Analyzer{
		report:     report,
		containers: make(map[string]*ast.ContainerDefinitionStmt),
		interfaces: make(map[string]*ast.InterfaceDefinitionStmt),
		actions:    make(map[string]bool),
	}
}

func (a *Analyzer) errf(span diagnostics.Span, format string, args ...any) {
	d := diagnostics.Errorf("SEMANTIC", span, format, args...)
	diagnostics.AttachNote(d)
	a.report.Push(d)
}

func (a *Analyzer) warnf(span diagnostics.Span, format string, args ...any) {
	a.report.Push(diagnostics.Warnf("SEMANTIC", span, format, args...))
}

// Analyze walks the whole program: a declaration pass collects every
// top-level action, container, and interface name so forward references
// resolve, then a validation pass walks statements and expressions.
func (a *Analyzer) Analyze(program *ast.Program) {
	a.collectDeclarations(program)
	a.validateContainerGraph()

	root := NewScope()
	for _, name := range containerBuiltins {
		root.Define(name, SymAction, diagnostics.Span{})
	}
	a.analyzeBlockIn(&ast.Block{Statements: program.Statements}, root)
	a.reportUnused(root)
}

// define binds name in scope, warning if it shadows a binding from an
// enclosing scope. Redefinition within the same scope is the caller's
// concern (an error for most binding forms, silently re-bound for others).
func (a *Analyzer) define(scope *Scope, name string, kind SymbolKind, span diagnostics.Span) bool {
	if kind == SymVariable || kind == SymParam {
		if outer, ok := scope.Shadows(name); ok {
			a.warnf(span, "%q shadows a %s of the same name declared in an enclosing scope at line %d", name, outer.Kind, outer.Span.Line)
		}
	}
	return scope.Define(name, kind, span)
}

// reportUnused warns about every SymVariable bound in scope (not nested
// scopes, which report their own unused names when their block finishes)
// that was never resolved.
func (a *Analyzer) reportUnused(scope *Scope) {
	for _, sym := range scope.OwnUnused() {
		a.warnf(sym.Span, "%q is never used", sym.Name)
	}
}

func (a *Analyzer) collectDeclarations(program *ast.Program) {
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.ActionDefinitionStmt:
			a.actions[s.Name] = true
		case *ast.ContainerDefinitionStmt:
			a.containers[s.Name] = s
			for _, m := range s.Methods {
				a.actions[m.Def.Name] = true
			}
		case *ast.InterfaceDefinitionStmt:
			a.interfaces[s.Name] = s
		}
	}
}

// validateContainerGraph checks that every `extends`/`implements` name
// actually names a declared container/interface, and that the extends chain
// has no cycles (a container cannot be its own ancestor).
func (a *Analyzer) validateContainerGraph() {
	for name, c := range a.containers {
		if c.Extends != "" {
			if _, ok := a.containers[c.Extends]; !ok {
				a.errf(c.Span(), "container %q extends undefined container %q", name, c.Extends)
			}
		}
		for _, iface := range c.Implements {
			if _, ok := a.interfaces[iface]; !ok {
				a.errf(c.Span(), "container %q implements undefined interface %q", name, iface)
			}
		}
	}
	for name, c := range a.containers {
		seen := map[string]bool{name: true}
		cur := c
		for cur.Extends != "" {
			if seen[cur.Extends] {
				a.errf(c.Span(), "container %q has a cyclic extends chain through %q", name, cur.Extends)
				break
			}
			seen[cur.Extends] = true
			next, ok := a.containers[cur.Extends]
			if !ok {
				break
			}
			cur = next
		}
	}
}

// containerBuiltins are names always in scope regardless of declaration
// order or source: `parent`, resolved dynamically inside container methods,
// and the single-word global builtins the interpreter registers. The
// `count` pseudo-variable is bound by each count loop's own scope instead.
var containerBuiltins = []string{"parent", "typeof", "matches", "find", "replace", "split", "today", "now", "rounded", "floored", "ceilinged"}

func (a *Analyzer) analyzeBlockIn(b *ast.Block, scope *Scope) {
	terminated := false
	for _, stmt := range b.Statements {
		if terminated {
			a.warnf(stmt.Span(), "unreachable code after a break, continue, or give back")
		}
		a.analyzeStmt(stmt, scope)
		if stmtTerminates(stmt) {
			terminated = true
		}
	}
}

func stmtTerminates(s ast.Statement) bool {
	switch s.(type) {
	case *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	}
	return false
}

func (a *Analyzer) analyzeStmt(stmt ast.Statement, scope *Scope) {
	switch s := stmt.(type) {
	case *ast.StoreStmt:
		a.analyzeExpr(s.Value, scope)
		if !a.define(scope, s.Name, SymVariable, s.Span()) {
			a.errf(s.Span(), "%q is already defined in this scope", s.Name)
		}
	case *ast.ChangeStmt:
		a.analyzeExpr(s.Target, scope)
		a.analyzeExpr(s.Value, scope)
	case *ast.DisplayStmt:
		a.analyzeExpr(s.Expr, scope)
	case *ast.IfStmt:
		a.analyzeExpr(s.Cond, scope)
		if lit, ok := s.Cond.(*ast.TruthLiteral); ok {
			if lit.Value {
				if s.Else != nil {
					a.warnf(s.Else.Span(), "this branch is dead code: the condition is always true")
				}
			} else {
				a.warnf(s.Then.Span(), "this branch is dead code: the condition is always false")
			}
		}
		thenScope := scope.Enclosed()
		a.analyzeBlockIn(s.Then, thenScope)
		a.reportUnused(thenScope)
		if s.Else != nil {
			elseScope := scope.Enclosed()
			a.analyzeBlockIn(s.Else, elseScope)
			a.reportUnused(elseScope)
		}
	case *ast.CheckStmt:
		a.analyzeExpr(s.Value, scope)
		for _, arm := range s.Arms {
			armScope := scope.Enclosed()
			a.bindPattern(arm.Pattern, armScope)
			a.analyzeBlockIn(arm.Body, armScope)
			a.reportUnused(armScope)
		}
		if s.Else != nil {
			elseScope := scope.Enclosed()
			a.analyzeBlockIn(s.Else, elseScope)
			a.reportUnused(elseScope)
		}
	case *ast.CountLoopStmt:
		a.analyzeExpr(s.From, scope)
		a.analyzeExpr(s.To, scope)
		if s.By != nil {
			a.analyzeExpr(s.By, scope)
		}
		loopScope := scope.Enclosed()
		loopScope.Define("count", SymVariable, s.Span())
		loopScope.Resolve("count") // the loop binds it whether or not the body reads it
		a.loopDepth++
		a.analyzeBlockIn(s.Body, loopScope)
		a.loopDepth--
		a.reportUnused(loopScope)
	case *ast.ForEachStmt:
		a.analyzeExpr(s.Collection, scope)
		loopScope := scope.Enclosed()
		loopScope.Define(s.Var, SymVariable, s.Span())
		loopScope.Resolve(s.Var)
		a.loopDepth++
		a.analyzeBlockIn(s.Body, loopScope)
		a.loopDepth--
		a.reportUnused(loopScope)
	case *ast.RepeatStmt:
		if s.Cond != nil {
			a.analyzeExpr(s.Cond, scope)
			if lit, ok := s.Cond.(*ast.TruthLiteral); ok {
				if s.Kind == ast.RepeatWhile && !lit.Value {
					a.warnf(s.Body.Span(), "this loop body is dead code: 'repeat while no' never runs")
				}
				if s.Kind == ast.RepeatUntil && lit.Value {
					a.warnf(s.Body.Span(), "this loop body is dead code: 'repeat until yes' never runs")
				}
			}
		}
		loopScope := scope.Enclosed()
		a.loopDepth++
		a.analyzeBlockIn(s.Body, loopScope)
		a.loopDepth--
		a.reportUnused(loopScope)
	case *ast.TryStmt:
		bodyScope := scope.Enclosed()
		a.analyzeBlockIn(s.Body, bodyScope)
		a.reportUnused(bodyScope)
		for _, arm := range s.Arms {
			armScope := scope.Enclosed()
			a.bindPattern(arm.Pattern, armScope)
			a.analyzeBlockIn(arm.Body, armScope)
			a.reportUnused(armScope)
		}
		if s.Finally != nil {
			finallyScope := scope.Enclosed()
			a.analyzeBlockIn(s.Finally, finallyScope)
			a.reportUnused(finallyScope)
		}
	case *ast.ActionDefinitionStmt:
		if !a.actions[s.Name] {
			// A nested action is not collected as top-level; bind it in the
			// enclosing scope so `give back tick` and later calls resolve.
			scope.Define(s.Name, SymAction, s.Span())
		}
		a.analyzeAction(s.Params, s.Body, scope)
		a.checkReturnConsistency(s.Name, s.Span(), s.Body)
	case *ast.ContainerDefinitionStmt:
		a.analyzeContainer(s, scope)
	case *ast.InterfaceDefinitionStmt:
		// Pure declaration; nothing to walk.
	case *ast.ContainerInstantiationStmt:
		if _, ok := a.containers[s.Type]; !ok {
			a.errf(s.Span(), "%q is not a declared container", s.Type)
		}
		for _, arg := range s.Args {
			a.analyzeExpr(arg, scope)
		}
		for _, init := range s.Initializers {
			a.analyzeExpr(init.Value, scope)
		}
		a.define(scope, s.Name, SymVariable, s.Span())
	case *ast.TriggerStmt:
		for _, arg := range s.Args {
			a.analyzeExpr(arg, scope)
		}
	case *ast.EventHandlerStmt:
		a.analyzeExpr(s.Target, scope)
		handlerScope := scope.Enclosed()
		a.analyzeBlockIn(s.Body, handlerScope)
		a.reportUnused(handlerScope)
	case *ast.ReadFileStmt:
		a.analyzeExpr(s.Path, scope)
		if s.Target != "" {
			a.define(scope, s.Target, SymVariable, s.Span())
		}
	case *ast.WriteFileStmt:
		a.analyzeExpr(s.Content, scope)
		a.analyzeExpr(s.Path, scope)
	case *ast.WaitForStmt:
		a.analyzeStmt(s.Inner, scope)
	case *ast.BreakStmt, *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.errf(stmt.Span(), "break/continue used outside of a loop")
		}
	case *ast.ReturnStmt:
		if s.Expr != nil {
			a.analyzeExpr(s.Expr, scope)
		}
	case *ast.ExpressionStmt:
		a.analyzeExpr(s.Expr, scope)
	case *ast.Block:
		a.analyzeBlockIn(s, scope.Enclosed())
	}
}

func (a *Analyzer) analyzeAction(params []ast.Param, body *ast.Block, outer *Scope) {
	scope := outer.Enclosed()
	// ast.Param carries no span of its own, so shadow warnings for a
	// parameter point at the action body that declares it.
	paramSpan := diagnostics.Span{}
	if body != nil {
		paramSpan = body.Span()
	}
	for _, p := range params {
		a.define(scope, p.Name, SymParam, paramSpan)
		if p.Default != nil {
			a.analyzeExpr(p.Default, outer)
		}
	}
	if body != nil {
		a.analyzeBlockIn(body, scope)
	}
	// OwnUnused only ever returns SymVariable symbols (see Scope.OwnUnused),
	// so this flags stored variables the body never reads, not parameters:
	// unused params are common in event handlers and are not warned about.
	a.reportUnused(scope)
}

func (a *Analyzer) analyzeContainer(def *ast.ContainerDefinitionStmt, outer *Scope) {
	containerScope := outer.Enclosed()
	for _, prop := range def.Properties {
		a.define(containerScope, prop.Name, SymVariable, def.Span())
		if prop.Default != nil {
			a.analyzeExpr(prop.Default, outer)
		}
	}
	for _, method := range def.Methods {
		a.analyzeAction(method.Def.Params, method.Def.Body, containerScope)
		a.checkReturnConsistency(method.Def.Name, method.Def.Span(), method.Def.Body)
	}
}

func (a *Analyzer) bindPattern(p ast.Pattern, scope *Scope) {
	switch pat := p.(type) {
	case *ast.VariablePattern:
		a.define(scope, pat.Name, SymVariable, pat.Span())
	case *ast.TypePattern:
		if pat.Binding != "" {
			a.define(scope, pat.Binding, SymVariable, pat.Span())
		}
		if pat.Guard != nil {
			a.analyzeExpr(pat.Guard, scope)
		}
	case *ast.ListPattern:
		for _, elem := range pat.Elements {
			a.bindPattern(elem, scope)
		}
		if pat.Rest != nil {
			a.define(scope, *pat.Rest, SymVariable, pat.Span())
		}
	case *ast.RecordPattern:
		for _, elem := range pat.Fields {
			a.bindPattern(elem, scope)
		}
	case *ast.LiteralPattern:
		a.analyzeExpr(pat.Value, scope)
	case *ast.WildcardPattern:
		// binds nothing
	}
}

// returnShape summarizes how control can leave a block: whether every path
// through it is guaranteed to end in a return, and whether the returns
// reachable from it include ones that carry a value and/or ones that don't.
type returnShape struct {
	exhaustive bool
	hasValue   bool
	hasBare    bool
}

// checkReturnConsistency warns when an action's body can return a value on
// one path and nothing on another, including the implicit "give back
// nothing" of falling off the end of the body without a return statement.
func (a *Analyzer) checkReturnConsistency(name string, span diagnostics.Span, body *ast.Block) {
	if body == nil {
		return
	}
	shape := blockReturnShape(body)
	if !shape.exhaustive {
		shape.hasBare = true
	}
	if shape.hasValue && shape.hasBare {
		a.warnf(span, "%q has inconsistent return paths: some give back a value, others give back nothing", name)
	}
}

func blockReturnShape(b *ast.Block) returnShape {
	var shape returnShape
	for _, stmt := range b.Statements {
		s := stmtReturnShape(stmt)
		shape.hasValue = shape.hasValue || s.hasValue
		shape.hasBare = shape.hasBare || s.hasBare
		if s.exhaustive {
			shape.exhaustive = true
			break // later statements in this block are unreachable
		}
	}
	return shape
}

func stmtReturnShape(stmt ast.Statement) returnShape {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		if s.Expr != nil {
			return returnShape{exhaustive: true, hasValue: true}
		}
		return returnShape{exhaustive: true, hasBare: true}
	case *ast.IfStmt:
		then := blockReturnShape(s.Then)
		out := returnShape{hasValue: then.hasValue, hasBare: then.hasBare}
		if s.Else != nil {
			els := blockReturnShape(s.Else)
			out.hasValue = out.hasValue || els.hasValue
			out.hasBare = out.hasBare || els.hasBare
			out.exhaustive = then.exhaustive && els.exhaustive
		}
		return out
	case *ast.CheckStmt:
		out := returnShape{}
		exhaustive := s.Else != nil
		if s.Else != nil {
			els := blockReturnShape(s.Else)
			out.hasValue, out.hasBare = els.hasValue, els.hasBare
			exhaustive = exhaustive && els.exhaustive
		}
		for _, arm := range s.Arms {
			as := blockReturnShape(arm.Body)
			out.hasValue = out.hasValue || as.hasValue
			out.hasBare = out.hasBare || as.hasBare
			exhaustive = exhaustive && as.exhaustive
		}
		out.exhaustive = exhaustive && len(s.Arms) > 0
		return out
	case *ast.TryStmt:
		body := blockReturnShape(s.Body)
		out := returnShape{hasValue: body.hasValue, hasBare: body.hasBare}
		armsExhaustive := true
		for _, arm := range s.Arms {
			as := blockReturnShape(arm.Body)
			out.hasValue = out.hasValue || as.hasValue
			out.hasBare = out.hasBare || as.hasBare
			armsExhaustive = armsExhaustive && as.exhaustive
		}
		if s.Finally != nil {
			fin := blockReturnShape(s.Finally)
			out.hasValue = out.hasValue || fin.hasValue
			out.hasBare = out.hasBare || fin.hasBare
			if fin.exhaustive {
				out.exhaustive = true
				return out
			}
		}
		out.exhaustive = body.exhaustive && armsExhaustive && len(s.Arms) > 0
		return out
	case *ast.WaitForStmt:
		return stmtReturnShape(s.Inner)
	default:
		return returnShape{}
	}
}

func (a *Analyzer) analyzeExpr(expr ast.Expression, scope *Scope) {
	switch e := expr.(type) {
	case *ast.VariableExpr:
		if _, ok := scope.Resolve(e.Name); !ok && !a.actions[e.Name] {
			a.errf(e.Span(), "undefined variable %q", e.Name)
		}
	case *ast.UnaryExpr:
		a.analyzeExpr(e.Operand, scope)
	case *ast.BinaryExpr:
		a.analyzeExpr(e.Left, scope)
		a.analyzeExpr(e.Right, scope)
	case *ast.BetweenExpr:
		a.analyzeExpr(e.Value, scope)
		a.analyzeExpr(e.Low, scope)
		a.analyzeExpr(e.High, scope)
	case *ast.MemberAccessExpr:
		a.analyzeExpr(e.Object, scope)
	case *ast.IndexExpr:
		a.analyzeExpr(e.Collection, scope)
		a.analyzeExpr(e.Index, scope)
	case *ast.CallExpr:
		// A call's callee is looked up in the action namespace first so a
		// forward-referenced top-level action isn't flagged undefined.
		if ident, ok := e.Callee.(*ast.VariableExpr); ok {
			if !a.actions[ident.Name] {
				if _, ok := scope.Resolve(ident.Name); !ok {
					a.errf(ident.Span(), "undefined action %q", ident.Name)
				}
			}
		} else {
			a.analyzeExpr(e.Callee, scope)
		}
		for _, arg := range e.Args {
			a.analyzeExpr(arg, scope)
		}
	case *ast.MethodCallExpr:
		a.analyzeExpr(e.Receiver, scope)
		for _, arg := range e.Args {
			a.analyzeExpr(arg, scope)
		}
	case *ast.StaticMemberExpr:
		if _, ok := a.containers[e.Container]; !ok {
			a.errf(e.Span(), "%q is not a declared container", e.Container)
		}
	case *ast.ParentCallExpr:
		for _, arg := range e.Args {
			a.analyzeExpr(arg, scope)
		}
	case *ast.ListLiteral:
		for _, elem := range e.Elements {
			a.analyzeExpr(elem, scope)
		}
	case *ast.MapLiteral:
		for _, entry := range e.Entries {
			a.analyzeExpr(entry.Key, scope)
			a.analyzeExpr(entry.Value, scope)
		}
	case *ast.RecordLiteral:
		for _, field := range e.Fields {
			a.analyzeExpr(field.Value, scope)
		}
	case *ast.ActionLiteral:
		a.analyzeAction(e.Params, e.Body, scope)
		a.checkReturnConsistency("this action", e.Span(), e.Body)
	}
}

// FreeVariables returns the names body reads that are neither its own
// locally-stored variables nor among bound (its parameters). The interpreter
// does not use this set: a closure holds its whole defining Environment.
func FreeVariables(body *ast.Block, bound map[string]bool) []string {
	seen := make(map[string]bool)
	locals := make(map[string]bool, len(bound))
	for k := range bound {
		locals[k] = true
	}
	var free []string
	var walkExpr func(ast.Expression)
	var walkStmt func(ast.Statement)

	record := func(name string) {
		if !locals[name] && !seen[name] {
			seen[name] = true
			free = append(free, name)
		}
	}

	walkExpr = func(expr ast.Expression) {
		if expr == nil {
			return
		}
		switch e := expr.(type) {
		case *ast.VariableExpr:
			record(e.Name)
		case *ast.UnaryExpr:
			walkExpr(e.Operand)
		case *ast.BinaryExpr:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *ast.BetweenExpr:
			walkExpr(e.Value)
			walkExpr(e.Low)
			walkExpr(e.High)
		case *ast.MemberAccessExpr:
			walkExpr(e.Object)
		case *ast.IndexExpr:
			walkExpr(e.Collection)
			walkExpr(e.Index)
		case *ast.CallExpr:
			walkExpr(e.Callee)
			for _, a := range e.Args {
				walkExpr(a)
			}
		case *ast.MethodCallExpr:
			walkExpr(e.Receiver)
			for _, a := range e.Args {
				walkExpr(a)
			}
		case *ast.ParentCallExpr:
			for _, a := range e.Args {
				walkExpr(a)
			}
		case *ast.ListLiteral:
			for _, el := range e.Elements {
				walkExpr(el)
			}
		case *ast.MapLiteral:
			for _, entry := range e.Entries {
				walkExpr(entry.Key)
				walkExpr(entry.Value)
			}
		case *ast.RecordLiteral:
			for _, f := range e.Fields {
				walkExpr(f.Value)
			}
		case *ast.ActionLiteral:
			inner := make(map[string]bool, len(locals)+len(e.Params))
			for k := range locals {
				inner[k] = true
			}
			for _, p := range e.Params {
				inner[p.Name] = true
			}
			for _, name := range FreeVariables(e.Body, inner) {
				record(name)
			}
		}
	}

	walkStmt = func(stmt ast.Statement) {
		switch s := stmt.(type) {
		case *ast.StoreStmt:
			walkExpr(s.Value)
			locals[s.Name] = true
		case *ast.ChangeStmt:
			walkExpr(s.Target)
			walkExpr(s.Value)
		case *ast.DisplayStmt:
			walkExpr(s.Expr)
		case *ast.IfStmt:
			walkExpr(s.Cond)
			for _, st := range s.Then.Statements {
				walkStmt(st)
			}
			if s.Else != nil {
				for _, st := range s.Else.Statements {
					walkStmt(st)
				}
			}
		case *ast.CountLoopStmt:
			walkExpr(s.From)
			walkExpr(s.To)
			if s.By != nil {
				walkExpr(s.By)
			}
			for _, st := range s.Body.Statements {
				walkStmt(st)
			}
		case *ast.ForEachStmt:
			walkExpr(s.Collection)
			locals[s.Var] = true
			for _, st := range s.Body.Statements {
				walkStmt(st)
			}
		case *ast.RepeatStmt:
			if s.Cond != nil {
				walkExpr(s.Cond)
			}
			for _, st := range s.Body.Statements {
				walkStmt(st)
			}
		case *ast.ReturnStmt:
			walkExpr(s.Expr)
		case *ast.ExpressionStmt:
			walkExpr(s.Expr)
		case *ast.WaitForStmt:
			walkStmt(s.Inner)
		}
	}

	for _, stmt := range body.Statements {
		walkStmt(stmt)
	}
	return free
}
