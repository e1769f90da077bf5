package interpreter

import (
	"weak"

	"github.com/logbie/wfl-sub001/ast"
)

// EventHandler is one `on EVENT of TARGET do: BLOCK end on` registration. The
// defining environment is held weakly: a subscriber table is long-lived by
// nature, and a strong reference here would keep every closed-over scope
// alive for the lifetime of the instance it is attached to, even after
// nothing else in the program can reach that scope. Upgrade failure at fire
// time surfaces as an EnvDropped fault rather than a silent no-op, since a
// handler quietly never running is a harder bug to find than a raised fault.
type EventHandler struct {
	Body       *ast.Block
	DefiningBy weak.Pointer[Environment]
}

// instantiate builds a ContainerInstanceValue: its own property environment
// seeded with inherited and own defaults, then Args passed to a `new` method
// if the container (or an ancestor) declares one, then Initializers applied
// last so they always win.
func (interp *Interpreter) instantiate(def *ast.ContainerInstantiationStmt, env *Environment) (*ContainerInstanceValue, error) {
	class, ok := interp.classes[def.Type]
	if !ok {
		return nil, newRuntimeError(errTypeMismatch, def.Span(), "%q is not a declared container", def.Type)
	}
	instance := &ContainerInstanceValue{Class: class, Env: NewEnclosedEnvironment(interp.Global), Handlers: make(map[string][]*EventHandler)}
	interp.seedProperties(class, instance.Env, env)

	if ctor, ctorClass, found := class.MethodFor("new"); found {
		args, err := interp.evalArgs(def.Args, env)
		if err != nil {
			return nil, err
		}
		if _, err := interp.invokeMethod(instance, ctorClass, ctor, args); err != nil {
			return nil, err
		}
	}

	for _, init := range def.Initializers {
		v, err := interp.evalExpr(init.Value, env)
		if err != nil {
			return nil, err
		}
		instance.Env.Define(init.Name, v)
	}
	return instance, nil
}

// seedProperties walks the extends chain from the oldest ancestor down so a
// subclass's defaults overwrite its parent's, then evaluates every
// non-static property default against callerEnv (defaults may reference
// top-level actions or constants, not instance state that doesn't exist yet).
func (interp *Interpreter) seedProperties(class *ContainerClass, instanceEnv *Environment, callerEnv *Environment) {
	var chain []*ContainerClass
	for c := class; c != nil; c = c.Parent {
		chain = append([]*ContainerClass{c}, chain...)
	}
	for _, c := range chain {
		for _, prop := range c.Def.Properties {
			if prop.Static {
				continue
			}
			var v Value = Nothing
			if prop.Default != nil {
				if val, err := interp.evalExpr(prop.Default, callerEnv); err == nil {
					v = val
				}
			}
			instanceEnv.Define(prop.Name, v)
		}
	}
}

// invokeMethod runs a method body with `self`/`class` bound for the duration
// of the call, so nested `parent's method` and `trigger` resolve against the
// right instance.
func (interp *Interpreter) invokeMethod(instance *ContainerInstanceValue, class *ContainerClass, def *ast.ActionDefinitionStmt, args []Value) (Value, error) {
	prevSelf, prevClass := interp.self, interp.class
	interp.self, interp.class = instance, class
	defer func() { interp.self, interp.class = prevSelf, prevClass }()

	methodEnv := NewEnclosedEnvironment(instance.Env)
	defer methodEnv.Release()
	if err := interp.bindParams(def.Params, args, methodEnv, def.Span()); err != nil {
		return nil, err
	}
	return interp.runCallBody(def.Body, methodEnv, def.Span())
}

// registerHandler attaches a handler closure to the instance that Target
// evaluates to.
func (interp *Interpreter) registerHandler(stmt *ast.EventHandlerStmt, env *Environment) error {
	targetVal, err := interp.evalExpr(stmt.Target, env)
	if err != nil {
		return err
	}
	instance, ok := targetVal.(*ContainerInstanceValue)
	if !ok {
		return newRuntimeError(errTypeMismatch, stmt.Span(), "event handler target is not a container instance")
	}
	handler := &EventHandler{Body: stmt.Body, DefiningBy: weak.Make(env)}
	instance.Handlers[stmt.Event] = append(instance.Handlers[stmt.Event], handler)
	return nil
}

// fireEvent dispatches a `trigger EVENT [with ARGS]` against the instance
// executing the current method. A handler whose defining scope has since
// been collected raises EnvDropped instead of being skipped.
func (interp *Interpreter) fireEvent(stmt *ast.TriggerStmt, callerEnv *Environment) error {
	if interp.self == nil {
		return newRuntimeError(errNotCallable, stmt.Span(), "trigger used outside of a container method")
	}
	handlers := interp.self.Handlers[stmt.Event]
	if len(handlers) == 0 {
		return nil
	}
	args, err := interp.evalArgs(stmt.Args, callerEnv)
	if err != nil {
		return err
	}
	for _, h := range handlers {
		definingEnv := h.DefiningBy.Value()
		if definingEnv == nil {
			return newRuntimeError(errEnvDropped, stmt.Span(), "the scope that registered this handler for %q no longer exists", stmt.Event)
		}
		handlerEnv := NewEnclosedEnvironment(definingEnv)
		for i, v := range args {
			handlerEnv.Define(argName(i), v)
		}
		_, err := interp.evalBlock(h.Body, handlerEnv)
		handlerEnv.Release()
		if err != nil {
			return err
		}
	}
	return nil
}

func argName(i int) string {
	names := []string{"event_arg_1", "event_arg_2", "event_arg_3", "event_arg_4"}
	if i < len(names) {
		return names[i]
	}
	return "event_arg_extra"
}
