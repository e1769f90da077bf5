package interpreter

import (
	"time"

	"github.com/logbie/wfl-sub001/diagnostics"
)

func registerTimeBuiltins(interp *Interpreter) {
	interp.registerGlobal("today", func(_ *Interpreter, _ []Value) (Value, error) {
		y, m, d := time.Now().Date()
		return &DateValue{Value: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
	})
	interp.registerGlobal("now", func(_ *Interpreter, _ []Value) (Value, error) {
		return &DateTimeValue{Value: time.Now()}, nil
	})

	interp.registerMethod("date", "plus days", func(_ *Interpreter, args []Value) (Value, error) {
		d, err := requireDate("plus days", args, 0)
		if err != nil {
			return nil, err
		}
		n, err := requireNumber("plus days", args, 1)
		if err != nil {
			return nil, err
		}
		return &DateValue{Value: d.AddDate(0, 0, int(n))}, nil
	})

	interp.registerMethod("date", "is before", func(_ *Interpreter, args []Value) (Value, error) {
		a, err := requireDate("is before", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := requireDate("is before", args, 1)
		if err != nil {
			return nil, err
		}
		return &TruthValue{Value: a.Before(b)}, nil
	})

	interp.registerMethod("datetime", "difference in seconds from", func(_ *Interpreter, args []Value) (Value, error) {
		a, err := requireDateTime("difference in seconds from", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := requireDateTime("difference in seconds from", args, 1)
		if err != nil {
			return nil, err
		}
		return &NumberValue{Value: a.Sub(b).Seconds()}, nil
	})
}

func requireDate(name string, args []Value, i int) (time.Time, error) {
	if i >= len(args) {
		return time.Time{}, argCountError(name, i+1, len(args))
	}
	d, ok := args[i].(*DateValue)
	if !ok {
		return time.Time{}, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "%s requires a date, got %s", name, describeKind(args[i]))
	}
	return d.Value, nil
}

func requireDateTime(name string, args []Value, i int) (time.Time, error) {
	if i >= len(args) {
		return time.Time{}, argCountError(name, i+1, len(args))
	}
	d, ok := args[i].(*DateTimeValue)
	if !ok {
		return time.Time{}, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "%s requires a datetime, got %s", name, describeKind(args[i]))
	}
	return d.Value, nil
}
