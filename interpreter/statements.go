package interpreter

import (
	"os"

	"github.com/logbie/wfl-sub001/ast"
)

func (interp *Interpreter) evalStmt(stmt ast.Statement, env *Environment) (ControlFlow, error) {
	switch s := stmt.(type) {
	case *ast.StoreStmt:
		v, err := interp.evalBindValue(s.Value, env)
		if err != nil {
			return flowNone, err
		}
		env.Define(s.Name, v)
		interp.accountFor(env, v)
		return flowNone, nil

	case *ast.ChangeStmt:
		v, err := interp.evalBindValue(s.Value, env)
		if err != nil {
			return flowNone, err
		}
		return flowNone, interp.assign(s.Target, v, env)

	case *ast.DisplayStmt:
		v, err := interp.evalExpr(s.Expr, env)
		if err != nil {
			return flowNone, err
		}
		interp.display(v)
		return flowNone, nil

	case *ast.IfStmt:
		cond, err := interp.evalExpr(s.Cond, env)
		if err != nil {
			return flowNone, err
		}
		if IsTruthy(cond) {
			return interp.evalBlock(s.Then, NewEnclosedEnvironment(env))
		}
		if s.Else != nil {
			return interp.evalBlock(s.Else, NewEnclosedEnvironment(env))
		}
		return flowNone, nil

	case *ast.CheckStmt:
		return interp.evalCheck(s, env)

	case *ast.CountLoopStmt:
		return interp.evalCountLoop(s, env)

	case *ast.ForEachStmt:
		return interp.evalForEach(s, env)

	case *ast.RepeatStmt:
		return interp.evalRepeat(s, env)

	case *ast.TryStmt:
		return interp.evalTry(s, env)

	case *ast.ActionDefinitionStmt:
		env.Define(s.Name, &ActionValue{Name: s.Name, Params: s.Params, Body: s.Body, Env: env})
		return flowNone, nil

	case *ast.ContainerDefinitionStmt:
		interp.registerContainer(s)
		return flowNone, nil

	case *ast.InterfaceDefinitionStmt:
		interp.interfaces[s.Name] = s
		return flowNone, nil

	case *ast.ContainerInstantiationStmt:
		instance, err := interp.instantiate(s, env)
		if err != nil {
			return flowNone, err
		}
		env.Define(s.Name, instance)
		return flowNone, nil

	case *ast.TriggerStmt:
		return flowNone, interp.fireEvent(s, env)

	case *ast.EventHandlerStmt:
		return flowNone, interp.registerHandler(s, env)

	case *ast.ReadFileStmt:
		return flowNone, interp.readFile(s, env)

	case *ast.WriteFileStmt:
		return flowNone, interp.writeFile(s, env)

	case *ast.WaitForStmt:
		if err := interp.checkBudget(s.Sp); err != nil {
			return flowNone, err
		}
		if interp.Driver != nil {
			if err := interp.Driver.Suspend(interp.ctx, s.Inner); err != nil {
				return flowNone, newRuntimeError(errTimeout, s.Sp, "%v", err)
			}
		}
		return interp.evalStmt(s.Inner, env)

	case *ast.BreakStmt:
		return ControlFlow{Signal: SigBreak}, nil

	case *ast.ContinueStmt:
		return ControlFlow{Signal: SigContinue}, nil

	case *ast.ReturnStmt:
		if s.Expr == nil {
			return ControlFlow{Signal: SigReturn, Value: Nothing}, nil
		}
		v, err := interp.evalExpr(s.Expr, env)
		if err != nil {
			return flowNone, err
		}
		return ControlFlow{Signal: SigReturn, Value: v}, nil

	case *ast.ExpressionStmt:
		_, err := interp.evalExpr(s.Expr, env)
		return flowNone, err

	case *ast.Block:
		return interp.evalBlock(s, NewEnclosedEnvironment(env))

	default:
		return flowNone, newRuntimeError(errTypeMismatch, stmt.Span(), "cannot execute statement of type %T", stmt)
	}
}

// assign implements `change TARGET to VALUE` for every assignable target
// shape: a bare name, a list/map index, or an object field.
func (interp *Interpreter) assign(target ast.Expression, v Value, env *Environment) error {
	switch t := target.(type) {
	case *ast.VariableExpr:
		if !env.Set(t.Name, v) {
			return newRuntimeError(errUndefined, t.Sp, "undefined variable %q", t.Name)
		}
		return nil
	case *ast.IndexExpr:
		coll, err := interp.evalExpr(t.Collection, env)
		if err != nil {
			return err
		}
		idx, err := interp.evalExpr(t.Index, env)
		if err != nil {
			return err
		}
		switch c := coll.(type) {
		case *ListValue:
			n, ok := idx.(*NumberValue)
			if !ok {
				return newRuntimeError(errTypeMismatch, t.Sp, "list index must be a number")
			}
			i := int(n.Value)
			if i < 0 || i >= len(c.Elements) {
				return newRuntimeError(errIndexOutOfBounds, t.Sp, "index %d is out of bounds for a list of length %d", i, len(c.Elements))
			}
			c.Elements[i] = v
			return nil
		case *MapValue:
			c.Set(keyString(idx), v)
			return nil
		default:
			return newRuntimeError(errTypeMismatch, t.Sp, "%s is not assignable by index", describeKind(coll))
		}
	case *ast.MemberAccessExpr:
		obj, err := interp.evalExpr(t.Object, env)
		if err != nil {
			return err
		}
		switch o := obj.(type) {
		case *ContainerInstanceValue:
			o.Env.Define(t.Field, v)
			return nil
		case *RecordValue:
			if _, ok := o.Fields[t.Field]; !ok {
				o.Order = append(o.Order, t.Field)
			}
			o.Fields[t.Field] = v
			return nil
		case *MapValue:
			o.Set(t.Field, v)
			return nil
		default:
			return newRuntimeError(errTypeMismatch, t.Sp, "%s has no assignable field %q", describeKind(obj), t.Field)
		}
	default:
		return newRuntimeError(errTypeMismatch, target.Span(), "invalid assignment target")
	}
}

func (interp *Interpreter) evalCountLoop(s *ast.CountLoopStmt, env *Environment) (ControlFlow, error) {
	from, err := interp.evalExpr(s.From, env)
	if err != nil {
		return flowNone, err
	}
	to, err := interp.evalExpr(s.To, env)
	if err != nil {
		return flowNone, err
	}
	step := 1.0
	if s.By != nil {
		byVal, err := interp.evalExpr(s.By, env)
		if err != nil {
			return flowNone, err
		}
		n, ok := byVal.(*NumberValue)
		if !ok {
			return flowNone, newRuntimeError(errTypeMismatch, s.Sp, "'by' clause must be a number")
		}
		step = n.Value
	}
	fromN, ok1 := from.(*NumberValue)
	toN, ok2 := to.(*NumberValue)
	if !ok1 || !ok2 {
		return flowNone, newRuntimeError(errTypeMismatch, s.Sp, "count loop bounds must be numbers")
	}
	if s.Reversed {
		step = -step
	}
	if step == 0 {
		return flowNone, newRuntimeError(errTypeMismatch, s.Sp, "count loop 'by' clause must not be zero")
	}

	for i := fromN.Value; (step > 0 && i <= toN.Value) || (step < 0 && i >= toN.Value); i += step {
		if err := interp.checkBudget(s.Sp); err != nil {
			return flowNone, err
		}
		loopEnv := NewEnclosedEnvironment(env)
		loopEnv.Define("count", &NumberValue{Value: i})
		flow, err := interp.evalBlock(s.Body, loopEnv)
		loopEnv.Release()
		if err != nil {
			return flowNone, err
		}
		if flow.Signal == SigBreak {
			break
		}
		if flow.Signal == SigReturn {
			return flow, nil
		}
	}
	return flowNone, nil
}

func (interp *Interpreter) evalForEach(s *ast.ForEachStmt, env *Environment) (ControlFlow, error) {
	coll, err := interp.evalExpr(s.Collection, env)
	if err != nil {
		return flowNone, err
	}
	iterate := func(v Value) (ControlFlow, error, bool) {
		if err := interp.checkBudget(s.Sp); err != nil {
			return flowNone, err, true
		}
		loopEnv := NewEnclosedEnvironment(env)
		loopEnv.Define(s.Var, v)
		flow, err := interp.evalBlock(s.Body, loopEnv)
		loopEnv.Release()
		if err != nil {
			return flowNone, err, true
		}
		if flow.Signal == SigBreak {
			return flowNone, nil, true
		}
		if flow.Signal == SigReturn {
			return flow, nil, true
		}
		return flowNone, nil, false
	}
	switch c := coll.(type) {
	case *ListValue:
		for _, el := range c.Elements {
			flow, err, stop := iterate(el)
			if err != nil || flow.Signal == SigReturn {
				return flow, err
			}
			if stop {
				break
			}
		}
	case *MapValue:
		for _, k := range c.Keys {
			pair := &RecordValue{Fields: map[string]Value{"key": &TextValue{Value: k}, "value": c.Values[k]}, Order: []string{"key", "value"}}
			flow, err, stop := iterate(pair)
			if err != nil || flow.Signal == SigReturn {
				return flow, err
			}
			if stop {
				break
			}
		}
	default:
		return flowNone, newRuntimeError(errTypeMismatch, s.Sp, "%s is not iterable", describeKind(coll))
	}
	return flowNone, nil
}

func (interp *Interpreter) evalRepeat(s *ast.RepeatStmt, env *Environment) (ControlFlow, error) {
	for {
		if err := interp.checkBudget(s.Sp); err != nil {
			return flowNone, err
		}
		if s.Kind != ast.RepeatForever {
			cond, err := interp.evalExpr(s.Cond, env)
			if err != nil {
				return flowNone, err
			}
			truthy := IsTruthy(cond)
			if s.Kind == ast.RepeatWhile && !truthy {
				break
			}
			if s.Kind == ast.RepeatUntil && truthy {
				break
			}
		}
		loopEnv := NewEnclosedEnvironment(env)
		flow, err := interp.evalBlock(s.Body, loopEnv)
		loopEnv.Release()
		if err != nil {
			return flowNone, err
		}
		if flow.Signal == SigBreak {
			break
		}
		if flow.Signal == SigReturn {
			return flow, nil
		}
	}
	return flowNone, nil
}

func (interp *Interpreter) evalTry(s *ast.TryStmt, env *Environment) (ControlFlow, error) {
	runFinally := func() error {
		if s.Finally == nil {
			return nil
		}
		_, err := interp.evalBlock(s.Finally, NewEnclosedEnvironment(env))
		return err
	}

	flow, err := interp.evalBlock(s.Body, NewEnclosedEnvironment(env))
	if err == nil {
		if ferr := runFinally(); ferr != nil {
			return flowNone, ferr
		}
		return flow, nil
	}

	rtErr, ok := err.(*RuntimeError)
	if !ok {
		runFinally()
		return flowNone, err
	}

	for _, arm := range s.Arms {
		armEnv := NewEnclosedEnvironment(env)
		if matchErrorPattern(arm.Pattern, rtErr, armEnv) {
			flow, err := interp.evalBlock(arm.Body, armEnv)
			armEnv.Release()
			if ferr := runFinally(); ferr != nil {
				return flowNone, ferr
			}
			return flow, err
		}
		armEnv.Release()
	}
	runFinally()
	return flowNone, err
}

func (interp *Interpreter) readFile(s *ast.ReadFileStmt, env *Environment) error {
	pathVal, err := interp.evalExpr(s.Path, env)
	if err != nil {
		return err
	}
	path, ok := pathVal.(*TextValue)
	if !ok {
		return newRuntimeError(errTypeMismatch, s.Sp, "file path must be text")
	}
	data, readErr := os.ReadFile(path.Value)
	if readErr != nil {
		return newRuntimeError(errFileError, s.Sp, "could not read %s: %v", path.Value, readErr)
	}
	env.Define(s.Target, &TextValue{Value: string(data)})
	return nil
}

func (interp *Interpreter) writeFile(s *ast.WriteFileStmt, env *Environment) error {
	contentVal, err := interp.evalExpr(s.Content, env)
	if err != nil {
		return err
	}
	pathVal, err := interp.evalExpr(s.Path, env)
	if err != nil {
		return err
	}
	path, ok := pathVal.(*TextValue)
	if !ok {
		return newRuntimeError(errTypeMismatch, s.Sp, "file path must be text")
	}
	content := stringForConcat(contentVal)
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if s.Mode == ast.AppendMode {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, openErr := os.OpenFile(path.Value, flags, 0o644)
	if openErr != nil {
		return newRuntimeError(errFileError, s.Sp, "could not open %s: %v", path.Value, openErr)
	}
	defer f.Close()
	if _, writeErr := f.WriteString(content); writeErr != nil {
		return newRuntimeError(errFileError, s.Sp, "could not write %s: %v", path.Value, writeErr)
	}
	return nil
}
