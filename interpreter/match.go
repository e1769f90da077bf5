package interpreter

import "github.com/logbie/wfl-sub001/ast"

func (interp *Interpreter) evalCheck(s *ast.CheckStmt, env *Environment) (ControlFlow, error) {
	v, err := interp.evalExpr(s.Value, env)
	if err != nil {
		return flowNone, err
	}
	for _, arm := range s.Arms {
		armEnv := NewEnclosedEnvironment(env)
		matched, err := interp.matchValuePattern(arm.Pattern, v, armEnv)
		if err != nil {
			armEnv.Release()
			return flowNone, err
		}
		if matched {
			flow, err := interp.evalBlock(arm.Body, armEnv)
			armEnv.Release()
			return flow, err
		}
		armEnv.Release()
	}
	if s.Else != nil {
		return interp.evalBlock(s.Else, NewEnclosedEnvironment(env))
	}
	return flowNone, nil
}

// matchValuePattern matches a `check` arm's pattern against a runtime value,
// binding any names the pattern introduces into env.
func (interp *Interpreter) matchValuePattern(p ast.Pattern, v Value, env *Environment) (bool, error) {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return true, nil
	case *ast.VariablePattern:
		env.Define(pat.Name, v)
		return true, nil
	case *ast.LiteralPattern:
		lit, err := interp.evalExpr(pat.Value, env)
		if err != nil {
			return false, err
		}
		return Equal(lit, v), nil
	case *ast.TypePattern:
		if !typeNameMatches(pat.TypeName, v) {
			return false, nil
		}
		if pat.Binding != "" {
			env.Define(pat.Binding, v)
		}
		if pat.Guard != nil {
			guard, err := interp.evalExpr(pat.Guard, env)
			if err != nil {
				return false, err
			}
			return IsTruthy(guard), nil
		}
		return true, nil
	case *ast.ListPattern:
		list, ok := v.(*ListValue)
		if !ok {
			return false, nil
		}
		if pat.Rest == nil && len(pat.Elements) != len(list.Elements) {
			return false, nil
		}
		if pat.Rest != nil && len(list.Elements) < len(pat.Elements) {
			return false, nil
		}
		for i, elemPat := range pat.Elements {
			ok, err := interp.matchValuePattern(elemPat, list.Elements[i], env)
			if err != nil || !ok {
				return false, err
			}
		}
		if pat.Rest != nil {
			env.Define(*pat.Rest, &ListValue{Elements: append([]Value{}, list.Elements[len(pat.Elements):]...)})
		}
		return true, nil
	case *ast.RecordPattern:
		rec, ok := v.(*RecordValue)
		if !ok {
			return false, nil
		}
		for name, fieldPat := range pat.Fields {
			fv, ok := rec.Fields[name]
			if !ok {
				return false, nil
			}
			ok2, err := interp.matchValuePattern(fieldPat, fv, env)
			if err != nil || !ok2 {
				return false, err
			}
		}
		return true, nil
	default:
		return false, nil
	}
}

func typeNameMatches(typeName string, v Value) bool {
	switch typeName {
	case "Number":
		_, ok := v.(*NumberValue)
		return ok
	case "Text":
		_, ok := v.(*TextValue)
		return ok
	case "Truth":
		_, ok := v.(*TruthValue)
		return ok
	case "Nothing":
		_, ok := v.(*NothingValue)
		return ok
	case "List":
		_, ok := v.(*ListValue)
		return ok
	case "Map":
		_, ok := v.(*MapValue)
		return ok
	default:
		instance, ok := v.(*ContainerInstanceValue)
		if !ok {
			return false
		}
		for c := instance.Class; c != nil; c = c.Parent {
			if c.Def.Name == typeName {
				return true
			}
		}
		return false
	}
}

// matchErrorPattern matches a `try ... when KIND [as NAME]: ...` arm against
// a raised RuntimeError, binding the error's message to NAME when given.
func matchErrorPattern(p ast.Pattern, rtErr *RuntimeError, env *Environment) bool {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.VariablePattern:
		env.Define(pat.Name, &TextValue{Value: rtErr.Message})
		return true
	case *ast.TypePattern:
		if pat.TypeName != rtErr.Kind {
			return false
		}
		if pat.Binding != "" {
			env.Define(pat.Binding, &TextValue{Value: rtErr.Message})
		}
		return true
	default:
		return false
	}
}
