package interpreter

import (
	"sort"

	"github.com/logbie/wfl-sub001/diagnostics"
)

func registerListBuiltins(interp *Interpreter) {
	interp.registerMethod("list", "length", func(_ *Interpreter, args []Value) (Value, error) {
		l, err := requireList("length", args, 0)
		if err != nil {
			return nil, err
		}
		return &NumberValue{Value: float64(len(l.Elements))}, nil
	})

	// `push` is a reserved keyword (see DESIGN.md) so the surface form is a
	// method call, `mylist's push with item`, rather than a dedicated statement.
	interp.registerMethod("list", "push", func(interp *Interpreter, args []Value) (Value, error) {
		l, err := requireList("push", args, 0)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, argCountError("push", 2, len(args))
		}
		l.Elements = append(l.Elements, args[1])
		interp.accountFor(nil, args[1])
		return l, nil
	})

	interp.registerMethod("list", "pop", func(_ *Interpreter, args []Value) (Value, error) {
		l, err := requireList("pop", args, 0)
		if err != nil {
			return nil, err
		}
		if len(l.Elements) == 0 {
			return nil, newRuntimeError(errIndexOutOfBounds, diagnostics.Span{}, "pop on an empty list")
		}
		last := l.Elements[len(l.Elements)-1]
		l.Elements = l.Elements[:len(l.Elements)-1]
		return last, nil
	})

	interp.registerMethod("list", "contains", func(_ *Interpreter, args []Value) (Value, error) {
		l, err := requireList("contains", args, 0)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, argCountError("contains", 2, len(args))
		}
		for _, el := range l.Elements {
			if Equal(el, args[1]) {
				return &TruthValue{Value: true}, nil
			}
		}
		return &TruthValue{Value: false}, nil
	})

	interp.registerMethod("list", "reversed", func(_ *Interpreter, args []Value) (Value, error) {
		l, err := requireList("reversed", args, 0)
		if err != nil {
			return nil, err
		}
		out := make([]Value, len(l.Elements))
		for i, el := range l.Elements {
			out[len(out)-1-i] = el
		}
		return &ListValue{Elements: out}, nil
	})

	interp.registerMethod("list", "sorted", func(_ *Interpreter, args []Value) (Value, error) {
		l, err := requireList("sorted", args, 0)
		if err != nil {
			return nil, err
		}
		out := append([]Value{}, l.Elements...)
		var sortErr error
		sort.SliceStable(out, func(i, j int) bool {
			cmp, ok := Compare(out[i], out[j])
			if !ok {
				sortErr = newRuntimeError(errTypeMismatch, diagnostics.Span{}, "list elements are not mutually comparable")
				return false
			}
			return cmp < 0
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return &ListValue{Elements: out}, nil
	})
}

func requireList(name string, args []Value, i int) (*ListValue, error) {
	if i >= len(args) {
		return nil, argCountError(name, i+1, len(args))
	}
	l, ok := args[i].(*ListValue)
	if !ok {
		return nil, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "%s requires a list, got %s", name, describeKind(args[i]))
	}
	return l, nil
}
