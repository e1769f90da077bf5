package interpreter

import (
	"math"
	"strings"

	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/diagnostics"
)

func (interp *Interpreter) evalExpr(expr ast.Expression, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return &NumberValue{Value: e.Value}, nil
	case *ast.StringLiteral:
		return &TextValue{Value: e.Value}, nil
	case *ast.TruthLiteral:
		return &TruthValue{Value: e.Value}, nil
	case *ast.NothingLiteral:
		return Nothing, nil
	case *ast.BinaryExpr:
		return interp.evalBinary(e, env)
	case *ast.UnaryExpr:
		return interp.evalUnary(e, env)
	case *ast.BetweenExpr:
		return interp.evalBetween(e, env)
	case *ast.VariableExpr:
		if v, ok := env.Get(e.Name); ok {
			return v, nil
		}
		return nil, newRuntimeError(errUndefined, e.Sp, "undefined variable %q", e.Name)
	case *ast.MemberAccessExpr:
		return interp.evalMemberAccess(e, env)
	case *ast.IndexExpr:
		return interp.evalIndex(e, env)
	case *ast.CallExpr:
		return interp.evalCall(e, env)
	case *ast.MethodCallExpr:
		return interp.evalMethodCall(e, env)
	case *ast.StaticMemberExpr:
		class, ok := interp.classes[e.Container]
		if !ok {
			return nil, newRuntimeError(errUndefined, e.Sp, "%q is not a declared container", e.Container)
		}
		v, ok := class.StaticEnv.Get(e.Member)
		if !ok {
			return nil, newRuntimeError(errUndefined, e.Sp, "%s has no static member %q", e.Container, e.Member)
		}
		return v, nil
	case *ast.ParentCallExpr:
		return interp.evalParentCall(e, env)
	case *ast.ListLiteral:
		elems := make([]Value, 0, len(e.Elements))
		for _, el := range e.Elements {
			v, err := interp.evalExpr(el, env)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return &ListValue{Elements: elems}, nil
	case *ast.MapLiteral:
		m := NewMapValue()
		for _, entry := range e.Entries {
			k, err := interp.evalExpr(entry.Key, env)
			if err != nil {
				return nil, err
			}
			v, err := interp.evalExpr(entry.Value, env)
			if err != nil {
				return nil, err
			}
			m.Set(keyString(k), v)
		}
		return m, nil
	case *ast.RecordLiteral:
		rec := &RecordValue{Fields: make(map[string]Value, len(e.Fields))}
		for _, f := range e.Fields {
			v, err := interp.evalExpr(f.Value, env)
			if err != nil {
				return nil, err
			}
			rec.Fields[f.Name] = v
			rec.Order = append(rec.Order, f.Name)
		}
		return rec, nil
	case *ast.ActionLiteral:
		return &ActionValue{Params: e.Params, Body: e.Body, Env: env}, nil
	case *ast.Identifier:
		if v, ok := env.Get(e.Name); ok {
			return v, nil
		}
		return nil, newRuntimeError(errUndefined, e.Sp, "undefined variable %q", e.Name)
	default:
		return nil, newRuntimeError(errTypeMismatch, expr.Span(), "cannot evaluate expression of type %T", expr)
	}
}

// keyString renders a map key value the way it is actually looked up by: a
// TextValue key's own text, otherwise its display string. Kept distinct from
// stringForDisplay so the quoting used only for human-readable output never
// leaks into key identity.
func keyString(v Value) string {
	if t, ok := v.(*TextValue); ok {
		return t.Value
	}
	return v.String()
}

func (interp *Interpreter) evalMemberAccess(e *ast.MemberAccessExpr, env *Environment) (Value, error) {
	obj, err := interp.evalExpr(e.Object, env)
	if err != nil {
		return nil, err
	}
	switch v := obj.(type) {
	case *RecordValue:
		if f, ok := v.Fields[e.Field]; ok {
			return f, nil
		}
		return nil, newRuntimeError(errUndefined, e.Sp, "record has no field %q", e.Field)
	case *ContainerInstanceValue:
		if f, ok := v.Env.GetLocal(e.Field); ok {
			return f, nil
		}
		return nil, newRuntimeError(errUndefined, e.Sp, "%s has no property %q", v.Class.Def.Name, e.Field)
	case *MapValue:
		if f, ok := v.Values[e.Field]; ok {
			return f, nil
		}
		return nil, newRuntimeError(errUndefined, e.Sp, "map has no key %q", e.Field)
	default:
		return nil, newRuntimeError(errTypeMismatch, e.Sp, "%s has no field %q", describeKind(obj), e.Field)
	}
}

func (interp *Interpreter) evalIndex(e *ast.IndexExpr, env *Environment) (Value, error) {
	coll, err := interp.evalExpr(e.Collection, env)
	if err != nil {
		return nil, err
	}
	idx, err := interp.evalExpr(e.Index, env)
	if err != nil {
		return nil, err
	}
	switch c := coll.(type) {
	case *ListValue:
		n, ok := idx.(*NumberValue)
		if !ok {
			return nil, newRuntimeError(errTypeMismatch, e.Sp, "list index must be a number")
		}
		i := int(n.Value)
		if i < 0 || i >= len(c.Elements) {
			return nil, newRuntimeError(errIndexOutOfBounds, e.Sp, "index %d is out of bounds for a list of length %d", i, len(c.Elements))
		}
		return c.Elements[i], nil
	case *MapValue:
		key := keyString(idx)
		v, ok := c.Values[key]
		if !ok {
			return nil, newRuntimeError(errUndefined, e.Sp, "map has no key %q", key)
		}
		return v, nil
	case *TextValue:
		n, ok := idx.(*NumberValue)
		if !ok {
			return nil, newRuntimeError(errTypeMismatch, e.Sp, "text index must be a number")
		}
		runes := []rune(c.Value)
		i := int(n.Value)
		if i < 0 || i >= len(runes) {
			return nil, newRuntimeError(errIndexOutOfBounds, e.Sp, "index %d is out of bounds for text of length %d", i, len(runes))
		}
		return &TextValue{Value: string(runes[i])}, nil
	default:
		return nil, newRuntimeError(errTypeMismatch, e.Sp, "%s is not indexable", describeKind(coll))
	}
}

func (interp *Interpreter) evalCall(e *ast.CallExpr, env *Environment) (Value, error) {
	callee, err := interp.evalExpr(e.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := interp.evalArgs(e.Args, env)
	if err != nil {
		return nil, err
	}
	return interp.callValue(callee, args, e.Sp)
}

// evalBindValue evaluates the right-hand side of a store/change statement. A
// bare name that resolves to a zero-argument action is invoked rather than
// bound as a closure: `store t as make_counter` names make_counter with no
// `with` clause, so it runs make_counter and binds its result, the same way
// `store a as t` later runs the zero-argument closure t is bound to. An
// explicit call (`t with nothing`) or a reference used any other way (e.g.
// `give back tick`, returning the closure itself to the caller) goes through
// plain evalExpr and is never auto-invoked.
func (interp *Interpreter) evalBindValue(expr ast.Expression, env *Environment) (Value, error) {
	v, err := interp.evalExpr(expr, env)
	if err != nil {
		return nil, err
	}
	if _, ok := expr.(*ast.VariableExpr); !ok {
		return v, nil
	}
	if action, ok := v.(*ActionValue); ok && len(action.Params) == 0 {
		return interp.callValue(action, nil, expr.Span())
	}
	return v, nil
}

func (interp *Interpreter) evalUnary(e *ast.UnaryExpr, env *Environment) (Value, error) {
	v, err := interp.evalExpr(e.Operand, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.OpNot:
		return &TruthValue{Value: !IsTruthy(v)}, nil
	case ast.OpNegate:
		n, ok := v.(*NumberValue)
		if !ok {
			return nil, newRuntimeError(errTypeMismatch, e.Sp, "cannot negate %s", describeKind(v))
		}
		return &NumberValue{Value: -n.Value}, nil
	default:
		return nil, newRuntimeError(errTypeMismatch, e.Sp, "unknown unary operator")
	}
}

func (interp *Interpreter) evalBetween(e *ast.BetweenExpr, env *Environment) (Value, error) {
	v, err := interp.evalExpr(e.Value, env)
	if err != nil {
		return nil, err
	}
	lo, err := interp.evalExpr(e.Low, env)
	if err != nil {
		return nil, err
	}
	hi, err := interp.evalExpr(e.High, env)
	if err != nil {
		return nil, err
	}
	cmpLo, ok1 := Compare(v, lo)
	cmpHi, ok2 := Compare(v, hi)
	if !ok1 || !ok2 {
		return nil, newRuntimeError(errTypeMismatch, e.Sp, "values are not comparable for 'between'")
	}
	return &TruthValue{Value: cmpLo >= 0 && cmpHi <= 0}, nil
}

func (interp *Interpreter) evalBinary(e *ast.BinaryExpr, env *Environment) (Value, error) {
	if e.Op == ast.OpAnd {
		left, err := interp.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		if !IsTruthy(left) {
			return &TruthValue{Value: false}, nil
		}
		right, err := interp.evalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return &TruthValue{Value: IsTruthy(right)}, nil
	}
	if e.Op == ast.OpOr {
		left, err := interp.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		if IsTruthy(left) {
			return &TruthValue{Value: true}, nil
		}
		right, err := interp.evalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return &TruthValue{Value: IsTruthy(right)}, nil
	}

	left, err := interp.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := interp.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.OpEq:
		return &TruthValue{Value: Equal(left, right)}, nil
	case ast.OpNe:
		return &TruthValue{Value: !Equal(left, right)}, nil
	case ast.OpGt, ast.OpLt, ast.OpGe, ast.OpLe:
		cmp, ok := Compare(left, right)
		if !ok {
			return nil, newRuntimeError(errTypeMismatch, e.Sp, "%s and %s are not comparable", describeKind(left), describeKind(right))
		}
		switch e.Op {
		case ast.OpGt:
			return &TruthValue{Value: cmp > 0}, nil
		case ast.OpLt:
			return &TruthValue{Value: cmp < 0}, nil
		case ast.OpGe:
			return &TruthValue{Value: cmp >= 0}, nil
		default:
			return &TruthValue{Value: cmp <= 0}, nil
		}
	case ast.OpOneOf:
		list, ok := right.(*ListValue)
		if !ok {
			return nil, newRuntimeError(errTypeMismatch, e.Sp, "'is one of' requires a list on the right")
		}
		for _, item := range list.Elements {
			if Equal(left, item) {
				return &TruthValue{Value: true}, nil
			}
		}
		return &TruthValue{Value: false}, nil
	case ast.OpContains:
		return evalContains(left, right, e.Sp)
	case ast.OpConcatenate:
		return &TextValue{Value: stringConcat(left, right)}, nil
	case ast.OpPlus:
		if lt, ok := left.(*TextValue); ok {
			return &TextValue{Value: lt.Value + stringConcat2(right)}, nil
		}
		return numericBinary(left, right, e.Sp, func(a, b float64) float64 { return a + b })
	case ast.OpMinus:
		return numericBinary(left, right, e.Sp, func(a, b float64) float64 { return a - b })
	case ast.OpTimes:
		return numericBinary(left, right, e.Sp, func(a, b float64) float64 { return a * b })
	case ast.OpDivide:
		rv, ok := right.(*NumberValue)
		if ok && rv.Value == 0 {
			return nil, newRuntimeError(errDivideByZero, e.Sp, "division by zero")
		}
		return numericBinary(left, right, e.Sp, func(a, b float64) float64 { return a / b })
	case ast.OpModulo:
		lv, lok := left.(*NumberValue)
		rv, rok := right.(*NumberValue)
		if !lok || !rok {
			return nil, newRuntimeError(errTypeMismatch, e.Sp, "'modulo' requires two numbers")
		}
		if rv.Value == 0 {
			return nil, newRuntimeError(errDivideByZero, e.Sp, "division by zero")
		}
		return &NumberValue{Value: float64(int64(lv.Value) % int64(rv.Value))}, nil
	case ast.OpPower:
		return numericBinary(left, right, e.Sp, powFloat)
	case ast.OpMatches:
		return interp.evalMatches(left, right, e.Sp)
	default:
		return nil, newRuntimeError(errTypeMismatch, e.Sp, "unknown binary operator %s", e.Op)
	}
}

func powFloat(a, b float64) float64 { return math.Pow(a, b) }

func numericBinary(left, right Value, span diagnostics.Span, fn func(a, b float64) float64) (Value, error) {
	lv, lok := left.(*NumberValue)
	rv, rok := right.(*NumberValue)
	if !lok || !rok {
		return nil, newRuntimeError(errTypeMismatch, span, "operator requires two numbers, got %s and %s", describeKind(left), describeKind(right))
	}
	return &NumberValue{Value: fn(lv.Value, rv.Value)}, nil
}

func evalContains(left, right Value, span diagnostics.Span) (Value, error) {
	switch l := left.(type) {
	case *TextValue:
		r, ok := right.(*TextValue)
		if !ok {
			return nil, newRuntimeError(errTypeMismatch, span, "'contains' on text requires a text operand")
		}
		return &TruthValue{Value: strings.Contains(l.Value, r.Value)}, nil
	case *ListValue:
		for _, item := range l.Elements {
			if Equal(item, right) {
				return &TruthValue{Value: true}, nil
			}
		}
		return &TruthValue{Value: false}, nil
	case *MapValue:
		key := keyString(right)
		_, ok := l.Values[key]
		return &TruthValue{Value: ok}, nil
	default:
		return nil, newRuntimeError(errTypeMismatch, span, "%s does not support 'contains'", describeKind(left))
	}
}

func stringConcat(a, b Value) string {
	return stringForConcat(a) + stringForConcat(b)
}

func stringConcat2(v Value) string { return stringForConcat(v) }

func stringForConcat(v Value) string {
	if t, ok := v.(*TextValue); ok {
		return t.Value
	}
	return v.String()
}
