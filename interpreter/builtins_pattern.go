package interpreter

import (
	"sort"

	"github.com/logbie/wfl-sub001/diagnostics"
	"github.com/logbie/wfl-sub001/pattern"
)

// evalMatches implements the `X matches PATTERN` binary operator, compiling
// the pattern fresh each call: the pattern sublanguage has no separate
// literal form yet, so there is nothing to cache a compiled regexp against.
func (interp *Interpreter) evalMatches(left, right Value, span diagnostics.Span) (Value, error) {
	text, ok := left.(*TextValue)
	if !ok {
		return nil, newRuntimeError(errTypeMismatch, span, "'matches' requires text on the left, got %s", describeKind(left))
	}
	patText, ok := right.(*TextValue)
	if !ok {
		return nil, newRuntimeError(errTypeMismatch, span, "'matches' requires a pattern text on the right, got %s", describeKind(right))
	}
	re, err := pattern.Compile(patText.Value)
	if err != nil {
		return nil, newRuntimeError(errTypeMismatch, span, "invalid pattern %q: %v", patText.Value, err)
	}
	return &TruthValue{Value: pattern.Matches(re, text.Value)}, nil
}

func registerPatternBuiltins(interp *Interpreter) {
	interp.registerGlobal("matches", func(_ *Interpreter, args []Value) (Value, error) {
		text, err := requireText("matches", args, 0)
		if err != nil {
			return nil, err
		}
		patText, err := requireText("matches", args, 1)
		if err != nil {
			return nil, err
		}
		re, cerr := pattern.Compile(patText)
		if cerr != nil {
			return nil, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "invalid pattern %q: %v", patText, cerr)
		}
		return &TruthValue{Value: pattern.Matches(re, text)}, nil
	})

	interp.registerGlobal("find", func(_ *Interpreter, args []Value) (Value, error) {
		patText, err := requireText("find", args, 0)
		if err != nil {
			return nil, err
		}
		text, err := requireText("find", args, 1)
		if err != nil {
			return nil, err
		}
		re, cerr := pattern.Compile(patText)
		if cerr != nil {
			return nil, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "invalid pattern %q: %v", patText, cerr)
		}
		caps, ok := pattern.Find(re, text)
		if !ok {
			return Nothing, nil
		}
		rec := &RecordValue{Fields: map[string]Value{"whole": &TextValue{Value: caps.Whole}}, Order: []string{"whole"}}
		for _, name := range sortedStringKeys(caps.Groups) {
			rec.Fields[name] = &TextValue{Value: caps.Groups[name]}
			rec.Order = append(rec.Order, name)
		}
		return rec, nil
	})

	interp.registerGlobal("replace", func(_ *Interpreter, args []Value) (Value, error) {
		patText, err := requireText("replace", args, 0)
		if err != nil {
			return nil, err
		}
		replacement, err := requireText("replace", args, 1)
		if err != nil {
			return nil, err
		}
		text, err := requireText("replace", args, 2)
		if err != nil {
			return nil, err
		}
		re, cerr := pattern.Compile(patText)
		if cerr != nil {
			return nil, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "invalid pattern %q: %v", patText, cerr)
		}
		return &TextValue{Value: pattern.Replace(re, replacement, text)}, nil
	})

	interp.registerGlobal("split", func(_ *Interpreter, args []Value) (Value, error) {
		text, err := requireText("split", args, 0)
		if err != nil {
			return nil, err
		}
		patText, err := requireText("split", args, 1)
		if err != nil {
			return nil, err
		}
		re, cerr := pattern.Compile(patText)
		if cerr != nil {
			return nil, newRuntimeError(errTypeMismatch, diagnostics.Span{}, "invalid pattern %q: %v", patText, cerr)
		}
		parts := pattern.Split(re, text)
		elems := make([]Value, len(parts))
		for i, p := range parts {
			elems[i] = &TextValue{Value: p}
		}
		return &ListValue{Elements: elems}, nil
	})
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
