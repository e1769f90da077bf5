package interpreter

import (
	"math"
	"math/rand"

	"github.com/logbie/wfl-sub001/diagnostics"
)

func registerMathBuiltins(interp *Interpreter) {
	unary := func(name string, fn func(float64) float64) NativeFunc {
		return func(_ *Interpreter, args []Value) (Value, error) {
			n, err := requireNumber(name, args, 0)
			if err != nil {
				return nil, err
			}
			return &NumberValue{Value: fn(n)}, nil
		}
	}

	interp.registerGlobal("rounded", unary("rounded", math.Round))
	interp.registerGlobal("floored", unary("floored", math.Floor))
	interp.registerGlobal("ceilinged", unary("ceilinged", math.Ceil))
	interp.registerGlobal("absolute value of", unary("absolute value of", math.Abs))
	interp.registerGlobal("square root of", unary("square root of", math.Sqrt))

	interp.registerGlobal("greater of", func(_ *Interpreter, args []Value) (Value, error) {
		a, err := requireNumber("greater of", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := requireNumber("greater of", args, 1)
		if err != nil {
			return nil, err
		}
		return &NumberValue{Value: math.Max(a, b)}, nil
	})
	interp.registerGlobal("lesser of", func(_ *Interpreter, args []Value) (Value, error) {
		a, err := requireNumber("lesser of", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := requireNumber("lesser of", args, 1)
		if err != nil {
			return nil, err
		}
		return &NumberValue{Value: math.Min(a, b)}, nil
	})
	interp.registerGlobal("a random number between", func(_ *Interpreter, args []Value) (Value, error) {
		lo, err := requireNumber("a random number between", args, 0)
		if err != nil {
			return nil, err
		}
		hi, err := requireNumber("a random number between", args, 1)
		if err != nil {
			return nil, err
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		return &NumberValue{Value: lo + rand.Float64()*(hi-lo)}, nil
	})
}

func requireNumber(name string, args []Value, i int) (float64, error) {
	if i >= len(args) {
		return 0, argCountError(name, i+1, len(args))
	}
	n, ok := args[i].(*NumberValue)
	if !ok {
		return 0, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "%s requires a number, got %s", name, describeKind(args[i]))
	}
	return n.Value, nil
}
