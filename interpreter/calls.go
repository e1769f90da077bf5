package interpreter

import (
	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/diagnostics"
)

func (interp *Interpreter) evalArgs(exprs []ast.Expression, env *Environment) ([]Value, error) {
	args := make([]Value, 0, len(exprs))
	for _, e := range exprs {
		v, err := interp.evalExpr(e, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// bindParams binds positional arguments to an action's declared parameters,
// falling back to each parameter's Default expression (evaluated in the new
// call scope, so later defaults may reference earlier parameters) when the
// caller omitted that argument.
func (interp *Interpreter) bindParams(params []ast.Param, args []Value, callEnv *Environment, span diagnostics.Span) error {
	for i, p := range params {
		if i < len(args) {
			callEnv.Define(p.Name, args[i])
			continue
		}
		if p.Default != nil {
			v, err := interp.evalExpr(p.Default, callEnv)
			if err != nil {
				return err
			}
			callEnv.Define(p.Name, v)
			continue
		}
		callEnv.Define(p.Name, Nothing)
	}
	return nil
}

// runCallBody executes an action/method body under the call-depth and
// budget limits shared by every kind of call, translating a `give back` into
// its return value.
func (interp *Interpreter) runCallBody(body *ast.Block, callEnv *Environment, span diagnostics.Span) (Value, error) {
	interp.callDepth++
	defer func() { interp.callDepth-- }()
	if interp.callDepth > interp.limits.MaxCallDepth {
		return nil, newRuntimeError(errStackOverflow, span, "call depth exceeded %d: possible unbounded recursion", interp.limits.MaxCallDepth)
	}
	if err := interp.checkBudget(span); err != nil {
		return nil, err
	}
	flow, err := interp.evalBlock(body, callEnv)
	if err != nil {
		return nil, err
	}
	if flow.Signal == SigReturn {
		if flow.Value == nil {
			return Nothing, nil
		}
		return flow.Value, nil
	}
	return Nothing, nil
}

// callValue invokes any callable Value (a user-defined action or a native
// builtin) with already-evaluated arguments.
func (interp *Interpreter) callValue(callee Value, args []Value, span diagnostics.Span) (Value, error) {
	switch fn := callee.(type) {
	case *NativeActionValue:
		return fn.Fn(interp, args)
	case *ActionValue:
		callEnv := NewEnclosedEnvironment(fn.Env)
		defer callEnv.Release()
		if err := interp.bindParams(fn.Params, args, callEnv, span); err != nil {
			return nil, err
		}
		return interp.runCallBody(fn.Body, callEnv, span)
	default:
		return nil, newRuntimeError(errNotCallable, span, "%s is not callable", describeKind(callee))
	}
}

func describeKind(v Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Type()
}

// evalMethodCall resolves `receiver's method with args`, dispatching to a
// container method when the receiver is an instance, or to one of the
// built-in per-kind methods text/list/date/datetime values expose (see
// builtins_text.go, builtins_list.go, builtins_time.go).
func (interp *Interpreter) evalMethodCall(expr *ast.MethodCallExpr, env *Environment) (Value, error) {
	receiver, err := interp.evalExpr(expr.Receiver, env)
	if err != nil {
		return nil, err
	}
	args, err := interp.evalArgs(expr.Args, env)
	if err != nil {
		return nil, err
	}
	if instance, ok := receiver.(*ContainerInstanceValue); ok {
		def, class, found := instance.Class.MethodFor(expr.Method)
		if !found {
			return nil, newRuntimeError(errUndefined, expr.Span(), "%s has no method %q", instance.Class.Def.Name, expr.Method)
		}
		return interp.invokeMethod(instance, class, def, args)
	}
	return interp.callBuiltinMethod(receiver, expr.Method, args, expr.Span())
}

// evalParentCall resolves `parent's method with args` against the class that
// declared the method currently executing, walking up exactly one level of
// the extends chain the way a super call does.
func (interp *Interpreter) evalParentCall(expr *ast.ParentCallExpr, env *Environment) (Value, error) {
	if interp.self == nil || interp.class == nil || interp.class.Parent == nil {
		return nil, newRuntimeError(errNotCallable, expr.Span(), "parent's %s used outside of a subclass method", expr.Method)
	}
	def, class, found := interp.class.Parent.MethodFor(expr.Method)
	if !found {
		return nil, newRuntimeError(errUndefined, expr.Span(), "%s has no method %q", interp.class.Parent.Def.Name, expr.Method)
	}
	args, err := interp.evalArgs(expr.Args, env)
	if err != nil {
		return nil, err
	}
	return interp.invokeMethod(interp.self, class, def, args)
}
