package types

import (
	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/diagnostics"
)

// pendingCall records a call to a not-yet-seen top-level action so its arity/
// types can be validated once the definition is encountered (spec.md §4.4:
// "Unknown identifiers referring to a top-level action are deferred").
type pendingCall struct {
	argTypes []*Type
	span     diagnostics.Span
}

// Checker assigns types to expressions and reports mismatches. It shares no
// state with semantic.Analyzer; each phase builds its own view of scope.
type Checker struct {
	report      *diagnostics.Report
	scopes      []map[string]*Type
	actions     map[string]*Type
	obligations map[string][]pendingCall
	containers  map[string]map[string]*Type // container name -> property types
}

// NewChecker creates a Checker that reports into report.
func NewChecker(report *diagnostics.Report) *Checker {
	return &Checker{
		report:      report,
		scopes:      []map[string]*Type{globalBuiltins()},
		actions:     map[string]*Type{},
		obligations: map[string][]pendingCall{},
		containers:  map[string]map[string]*Type{},
	}
}

func globalBuiltins() map[string]*Type {
	return map[string]*Type{}
}

func (c *Checker) push() { c.scopes = append(c.scopes, map[string]*Type{}) }
func (c *Checker) pop()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *Checker) define(name string, t *Type) {
	c.scopes[len(c.scopes)-1][name] = t
}

func (c *Checker) lookup(name string) (*Type, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (c *Checker) errf(span diagnostics.Span, format string, args ...any) {
	c.report.Push(diagnostics.AttachNote(diagnostics.Errorf("TYPE", span, format, args...)))
}

// Check type-checks an entire program.
func (c *Checker) Check(program *ast.Program) {
	for _, stmt := range program.Statements {
		c.checkStmt(stmt)
	}
	// Any obligations never resolved reference actions that were never
	// defined; semantic.Analyzer already reports those as undefined
	// identifiers, so the checker stays silent here to avoid duplicate noise.
}

func (c *Checker) checkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	c.push()
	for _, stmt := range b.Statements {
		c.checkStmt(stmt)
	}
	c.pop()
}

func (c *Checker) resolveTypeExpr(t ast.TypeExpr) *Type {
	if t == nil {
		return TAny
	}
	switch t := t.(type) {
	case *ast.NamedType:
		switch t.Name {
		case "number":
			return TNumber
		case "text":
			return TText
		case "truth":
			return TTruth
		case "nothing":
			return TNothing
		case "date":
			return TDate
		case "time":
			return TTime
		case "datetime":
			return TDateTime
		case "any":
			return TAny
		default:
			if _, ok := c.containers[t.Name]; ok {
				return Container(t.Name)
			}
			return GenericType(t.Name)
		}
	case *ast.ListType:
		return List(c.resolveTypeExpr(t.Elem))
	case *ast.SetType:
		return Set(c.resolveTypeExpr(t.Elem))
	case *ast.MapType:
		return Map(c.resolveTypeExpr(t.Key), c.resolveTypeExpr(t.Value))
	case *ast.RecordType:
		fields := map[string]*Type{}
		for _, f := range t.Fields {
			fields[f.Name] = c.resolveTypeExpr(f.Type)
		}
		return Record(fields)
	case *ast.ActionType:
		params := make([]*Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.resolveTypeExpr(p)
		}
		var ret *Type
		if t.Return != nil {
			ret = c.resolveTypeExpr(t.Return)
		}
		return Action(params, ret)
	default:
		return TAny
	}
}

func (c *Checker) checkStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.StoreStmt:
		valType := c.checkExpr(s.Value)
		declared := valType
		if s.Annotation != nil {
			declared = c.resolveTypeExpr(s.Annotation)
			if !AssignableTo(valType, declared) {
				c.errf(s.Sp, "expected %s, found %s", declared, valType)
			}
		}
		c.define(s.Name, declared)

	case *ast.ChangeStmt:
		targetType := c.checkExpr(s.Target)
		valType := c.checkExpr(s.Value)
		if !AssignableTo(valType, targetType) && targetType.Kind != Any {
			c.errf(s.Sp, "expected %s, found %s", targetType, valType)
		}

	case *ast.DisplayStmt:
		c.checkExpr(s.Expr)

	case *ast.IfStmt:
		c.checkExpr(s.Cond)
		c.checkBlock(s.Then)
		c.checkBlock(s.Else)

	case *ast.CheckStmt:
		c.checkExpr(s.Value)
		for _, arm := range s.Arms {
			c.push()
			c.bindPattern(arm.Pattern)
			c.checkBlock(arm.Body)
			c.pop()
		}
		c.checkBlock(s.Else)

	case *ast.CountLoopStmt:
		c.checkExpr(s.From)
		c.checkExpr(s.To)
		if s.By != nil {
			c.checkExpr(s.By)
		}
		c.push()
		c.define("count", TNumber)
		for _, st := range s.Body.Statements {
			c.checkStmt(st)
		}
		c.pop()

	case *ast.ForEachStmt:
		collType := c.checkExpr(s.Collection)
		elemType := TAny
		if collType.Kind == ListKind || collType.Kind == SetKind {
			elemType = collType.Elem
		}
		c.push()
		c.define(s.Var, elemType)
		for _, st := range s.Body.Statements {
			c.checkStmt(st)
		}
		c.pop()

	case *ast.RepeatStmt:
		if s.Cond != nil {
			c.checkExpr(s.Cond)
		}
		c.checkBlock(s.Body)

	case *ast.TryStmt:
		c.checkBlock(s.Body)
		for _, arm := range s.Arms {
			c.push()
			c.bindPattern(arm.Pattern)
			c.checkBlock(arm.Body)
			c.pop()
		}
		c.checkBlock(s.Finally)

	case *ast.ActionDefinitionStmt:
		c.checkActionDef(s)

	case *ast.ContainerDefinitionStmt:
		c.checkContainerDef(s)

	case *ast.ContainerInstantiationStmt:
		for _, a := range s.Args {
			c.checkExpr(a)
		}
		for _, init := range s.Initializers {
			c.checkExpr(init.Value)
		}
		c.define(s.Name, Container(s.Type))

	case *ast.WaitForStmt:
		c.checkStmt(s.Inner)

	case *ast.ReturnStmt:
		if s.Expr != nil {
			c.checkExpr(s.Expr)
		}

	case *ast.ExpressionStmt:
		c.checkExpr(s.Expr)

	case *ast.Block:
		c.checkBlock(s)

	case *ast.ReadFileStmt:
		c.checkExpr(s.Path)
		c.define(s.Target, TText)

	case *ast.WriteFileStmt:
		c.checkExpr(s.Content)
		c.checkExpr(s.Path)

	case *ast.TriggerStmt:
		for _, a := range s.Args {
			c.checkExpr(a)
		}

	case *ast.EventHandlerStmt:
		c.checkExpr(s.Target)
		c.checkBlock(s.Body)

	case *ast.BreakStmt, *ast.ContinueStmt, *ast.InterfaceDefinitionStmt:
		// no types to check
	}
}

func (c *Checker) bindPattern(p ast.Pattern) {
	switch p := p.(type) {
	case *ast.VariablePattern:
		c.define(p.Name, TAny)
	case *ast.TypePattern:
		if p.Binding != "" {
			c.define(p.Binding, TAny)
		}
		if p.Guard != nil {
			c.checkExpr(p.Guard)
		}
	case *ast.ListPattern:
		for _, el := range p.Elements {
			c.bindPattern(el)
		}
		if p.Rest != nil {
			c.define(*p.Rest, List(TAny))
		}
	case *ast.RecordPattern:
		for _, sub := range p.Fields {
			c.bindPattern(sub)
		}
	}
}

func (c *Checker) checkActionDef(s *ast.ActionDefinitionStmt) {
	paramTypes := make([]*Type, len(s.Params))
	for i, p := range s.Params {
		paramTypes[i] = c.resolveTypeExpr(p.Type)
	}
	var retType *Type
	if s.Return != nil {
		retType = c.resolveTypeExpr(s.Return)
	}
	actionType := Action(paramTypes, retType)
	c.define(s.Name, actionType)
	c.actions[s.Name] = actionType

	// Resolve any calls that arrived before this definition.
	for _, call := range c.obligations[s.Name] {
		c.validateCall(s.Name, actionType, call.argTypes, call.span)
	}
	delete(c.obligations, s.Name)

	c.push()
	for i, p := range s.Params {
		c.define(p.Name, paramTypes[i])
	}
	for _, st := range s.Body.Statements {
		c.checkStmt(st)
	}
	c.pop()
}

func (c *Checker) validateCall(name string, actionType *Type, argTypes []*Type, span diagnostics.Span) {
	// `name with nothing` is the surface form of a zero-argument call.
	if len(actionType.Params) == 0 && len(argTypes) == 1 && argTypes[0].Kind == Nothing {
		return
	}
	if len(argTypes) != len(actionType.Params) {
		c.errf(span, "%s expects %d argument(s), found %d", name, len(actionType.Params), len(argTypes))
		return
	}
	for i, at := range argTypes {
		if !AssignableTo(at, actionType.Params[i]) {
			c.errf(span, "expected %s, found %s", actionType.Params[i], at)
		}
	}
}

func (c *Checker) checkContainerDef(s *ast.ContainerDefinitionStmt) {
	fields := map[string]*Type{}
	for _, p := range s.Properties {
		fields[p.Name] = c.resolveTypeExpr(p.Type)
		if p.Default != nil {
			c.checkExpr(p.Default)
		}
	}
	c.containers[s.Name] = fields
	for _, m := range s.Methods {
		c.checkActionDef(m.Def)
	}
}

func (c *Checker) checkExpr(expr ast.Expression) *Type {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return TNumber
	case *ast.StringLiteral:
		return TText
	case *ast.TruthLiteral:
		return TTruth
	case *ast.NothingLiteral:
		return TNothing
	case *ast.VariableExpr:
		if t, ok := c.lookup(e.Name); ok {
			return t
		}
		return TAny

	case *ast.UnaryExpr:
		operandType := c.checkExpr(e.Operand)
		if e.Op == ast.OpNegate && operandType.Kind != Number && operandType.Kind != Any {
			c.errf(e.Sp, "expected number, found %s", operandType)
		}
		if e.Op == ast.OpNegate {
			return TNumber
		}
		return TTruth

	case *ast.BinaryExpr:
		return c.checkBinary(e)

	case *ast.BetweenExpr:
		c.checkExpr(e.Value)
		c.checkExpr(e.Low)
		c.checkExpr(e.High)
		return TTruth

	case *ast.MemberAccessExpr:
		objType := c.checkExpr(e.Object)
		if objType.Kind == ContainerKind || objType.Kind == RecordKind {
			if objType.Kind == ContainerKind {
				if fields, ok := c.containers[objType.Name]; ok {
					if ft, ok := fields[e.Field]; ok {
						return ft
					}
				}
			} else if ft, ok := objType.Fields[e.Field]; ok {
				return ft
			}
		}
		return TAny

	case *ast.IndexExpr:
		collType := c.checkExpr(e.Collection)
		c.checkExpr(e.Index)
		if collType.Kind == ListKind {
			return collType.Elem
		}
		return TAny

	case *ast.CallExpr:
		argTypes := make([]*Type, len(e.Args))
		for i, a := range e.Args {
			argTypes[i] = c.checkExpr(a)
		}
		if ident, ok := e.Callee.(*ast.VariableExpr); ok {
			if at, ok := c.lookup(ident.Name); ok {
				if at.Kind == ActionKind {
					c.validateCall(ident.Name, at, argTypes, e.Sp)
					if at.Return != nil {
						return at.Return
					}
					return TNothing
				}
				return TAny
			}
			c.obligations[ident.Name] = append(c.obligations[ident.Name], pendingCall{argTypes: argTypes, span: e.Sp})
			return TAny
		}
		c.checkExpr(e.Callee)
		return TAny

	case *ast.MethodCallExpr:
		c.checkExpr(e.Receiver)
		for _, a := range e.Args {
			c.checkExpr(a)
		}
		return TAny

	case *ast.StaticMemberExpr, *ast.ParentCallExpr:
		return TAny

	case *ast.ListLiteral:
		var elem *Type
		for _, el := range e.Elements {
			t := c.checkExpr(el)
			if elem == nil {
				elem = t
			} else if !Equal(elem, t) {
				elem = TAny
			}
		}
		if elem == nil {
			elem = TAny
		}
		return List(elem)

	case *ast.MapLiteral:
		var key, value *Type
		for _, entry := range e.Entries {
			kt := c.checkExpr(entry.Key)
			vt := c.checkExpr(entry.Value)
			if key == nil {
				key, value = kt, vt
			} else {
				if !Equal(key, kt) {
					key = TAny
				}
				if !Equal(value, vt) {
					value = TAny
				}
			}
		}
		if key == nil {
			key, value = TAny, TAny
		}
		return Map(key, value)

	case *ast.RecordLiteral:
		fields := map[string]*Type{}
		for _, f := range e.Fields {
			fields[f.Name] = c.checkExpr(f.Value)
		}
		return Record(fields)

	case *ast.ActionLiteral:
		params := make([]*Type, len(e.Params))
		c.push()
		for i, p := range e.Params {
			params[i] = c.resolveTypeExpr(p.Type)
			c.define(p.Name, params[i])
		}
		for _, st := range e.Body.Statements {
			c.checkStmt(st)
		}
		c.pop()
		var ret *Type
		if e.Return != nil {
			ret = c.resolveTypeExpr(e.Return)
		}
		return Action(params, ret)

	default:
		return TAny
	}
}

func (c *Checker) checkBinary(e *ast.BinaryExpr) *Type {
	left := c.checkExpr(e.Left)
	right := c.checkExpr(e.Right)

	switch e.Op {
	case ast.OpPlus, ast.OpMinus, ast.OpTimes, ast.OpDivide, ast.OpModulo, ast.OpPower:
		if !numericOrAny(left) || !numericOrAny(right) {
			c.errf(e.Sp, "arithmetic requires number operands, found %s and %s", left, right)
		}
		return TNumber

	case ast.OpConcatenate:
		return TText

	case ast.OpEq, ast.OpNe:
		if !Comparable(left, right) {
			c.errf(e.Sp, "cannot compare %s and %s", left, right)
		}
		return TTruth

	case ast.OpGt, ast.OpLt, ast.OpGe, ast.OpLe:
		if !Orderable(left) || !Orderable(right) {
			c.errf(e.Sp, "ordering comparison requires number, text, date, or time, found %s and %s", left, right)
		}
		return TTruth

	case ast.OpAnd, ast.OpOr:
		return TTruth

	case ast.OpContains:
		if !ContainsCompatible(left, right) && left.Kind != Any {
			c.errf(e.Sp, "%s does not support contains with %s", left, right)
		}
		return TTruth

	case ast.OpMatches, ast.OpOneOf:
		return TTruth

	default:
		return TAny
	}
}

func numericOrAny(t *Type) bool {
	return t.Kind == Number || t.Kind == Any || t.Kind == Nothing
}
