package interpreter

import (
	"strings"

	"github.com/logbie/wfl-sub001/diagnostics"
)

func registerTextBuiltins(interp *Interpreter) {
	one := func(name string, fn func(s string) Value) NativeFunc {
		return func(_ *Interpreter, args []Value) (Value, error) {
			t, err := requireText(name, args, 0)
			if err != nil {
				return nil, err
			}
			return fn(t), nil
		}
	}

	interp.registerMethod("text", "length", func(_ *Interpreter, args []Value) (Value, error) {
		t, err := requireText("length", args, 0)
		if err != nil {
			return nil, err
		}
		return &NumberValue{Value: float64(len([]rune(t)))}, nil
	})
	interp.registerMethod("text", "uppercase", one("uppercase", func(s string) Value { return &TextValue{Value: strings.ToUpper(s)} }))
	interp.registerMethod("text", "lowercase", one("lowercase", func(s string) Value { return &TextValue{Value: strings.ToLower(s)} }))
	interp.registerMethod("text", "trimmed", one("trimmed", func(s string) Value { return &TextValue{Value: strings.TrimSpace(s)} }))
	interp.registerMethod("text", "reversed", one("reversed", func(s string) Value {
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return &TextValue{Value: string(runes)}
	}))

	interp.registerMethod("text", "split on", func(_ *Interpreter, args []Value) (Value, error) {
		t, err := requireText("split on", args, 0)
		if err != nil {
			return nil, err
		}
		sep, err := requireText("split on", args, 1)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(t, sep)
		elems := make([]Value, len(parts))
		for i, p := range parts {
			elems[i] = &TextValue{Value: p}
		}
		return &ListValue{Elements: elems}, nil
	})

	interp.registerMethod("text", "contains", func(_ *Interpreter, args []Value) (Value, error) {
		t, err := requireText("contains", args, 0)
		if err != nil {
			return nil, err
		}
		needle, err := requireText("contains", args, 1)
		if err != nil {
			return nil, err
		}
		return &TruthValue{Value: strings.Contains(t, needle)}, nil
	})

	interp.registerGlobal("joined with", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, argCountError("joined with", 2, len(args))
		}
		list, ok := args[0].(*ListValue)
		if !ok {
			return nil, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "joined with requires a list")
		}
		sep, ok := args[1].(*TextValue)
		if !ok {
			return nil, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "joined with requires a text separator")
		}
		parts := make([]string, len(list.Elements))
		for i, el := range list.Elements {
			parts[i] = stringForConcat(el)
		}
		return &TextValue{Value: strings.Join(parts, sep.Value)}, nil
	})
}

func requireText(name string, args []Value, i int) (string, error) {
	if i >= len(args) {
		return "", argCountError(name, i+1, len(args))
	}
	t, ok := args[i].(*TextValue)
	if !ok {
		return "", newRuntimeError(errTypeMismatch, diagnostics.Span{}, "%s requires text, got %s", name, describeKind(args[i]))
	}
	return t.Value, nil
}
