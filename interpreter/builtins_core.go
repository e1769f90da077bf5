package interpreter

import (
	"strconv"
	"strings"

	"github.com/logbie/wfl-sub001/diagnostics"
)

func parseFloatStrict(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// registerGlobal installs a callable under name in the global frame, the way
// the teacher wires each builtinXxx method into its function table.
func (interp *Interpreter) registerGlobal(name string, fn NativeFunc) {
	interp.Global.Define(name, &NativeActionValue{Name: name, Fn: fn})
}

// registerMethod installs fn as the implementation of `receiver's name with
// args` for every Value whose Type() == kind.
func (interp *Interpreter) registerMethod(kind, name string, fn NativeFunc) {
	table, ok := interp.methods[kind]
	if !ok {
		table = make(map[string]NativeFunc)
		interp.methods[kind] = table
	}
	table[name] = fn
}

func (interp *Interpreter) callBuiltinMethod(receiver Value, name string, args []Value, span diagnostics.Span) (Value, error) {
	if table, ok := interp.methods[receiver.Type()]; ok {
		if fn, ok := table[name]; ok {
			return fn(interp, append([]Value{receiver}, args...))
		}
	}
	return nil, newRuntimeError(errUndefined, span, "%s has no method %q", receiver.Type(), name)
}

func registerCoreBuiltins(interp *Interpreter) {
	interp.registerGlobal("typeof", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, argCountError("typeof", 1, len(args))
		}
		return &TextValue{Value: args[0].Type()}, nil
	})
	interp.registerGlobal("as text", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, argCountError("as text", 1, len(args))
		}
		return &TextValue{Value: args[0].String()}, nil
	})
	interp.registerGlobal("as number", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, argCountError("as number", 1, len(args))
		}
		return coerceNumber(args[0])
	})
	interp.registerGlobal("as truth", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, argCountError("as truth", 1, len(args))
		}
		return &TruthValue{Value: IsTruthy(args[0])}, nil
	})
}

func argCountError(name string, want, got int) *RuntimeError {
	return newRuntimeError(errTypeMismatch, diagnostics.Span{}, "%s expects %d argument(s), got %d", name, want, got)
}

func coerceNumber(v Value) (Value, error) {
	switch val := v.(type) {
	case *NumberValue:
		return val, nil
	case *TextValue:
		n, err := parseFloatStrict(val.Value)
		if err != nil {
			return nil, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "%q is not a number", val.Value)
		}
		return &NumberValue{Value: n}, nil
	case *TruthValue:
		if val.Value {
			return &NumberValue{Value: 1}, nil
		}
		return &NumberValue{Value: 0}, nil
	default:
		return nil, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "%s cannot convert to a number", v.Type())
	}
}
