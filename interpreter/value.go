package interpreter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/logbie/wfl-sub001/ast"
)

// Value is a runtime value. All WFL values implement it, the way every
// Value variant did in the teacher's tree-walking evaluator.
type Value interface {
	Type() string
	String() string
}

// NumberValue is WFL's single numeric type: every number literal, whether it
// reads "42" or "3.14", becomes a float64 from the lexer onward (see
// DESIGN.md Open Questions — integer literals are not preserved).
type NumberValue struct{ Value float64 }

func (n *NumberValue) Type() string { return "number" }
func (n *NumberValue) String() string {
	if n.Value == float64(int64(n.Value)) {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// TextValue is a WFL string.
type TextValue struct{ Value string }

func (t *TextValue) Type() string   { return "text" }
func (t *TextValue) String() string { return t.Value }

// TruthValue is WFL's boolean, spelled `yes`/`no` at the surface.
type TruthValue struct{ Value bool }

func (b *TruthValue) Type() string { return "truth" }
func (b *TruthValue) String() string {
	if b.Value {
		return "yes"
	}
	return "no"
}

// NothingValue is WFL's bottom value, `nothing`.
type NothingValue struct{}

func (n *NothingValue) Type() string   { return "nothing" }
func (n *NothingValue) String() string { return "nothing" }

// Nothing is the single shared NothingValue instance.
var Nothing = &NothingValue{}

// ListValue is a mutable, ordered sequence.
type ListValue struct{ Elements []Value }

func (l *ListValue) Type() string { return "list" }
func (l *ListValue) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = stringForDisplay(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapValue is a string-keyed lookup table, insertion order preserved for
// display so `display` output is reproducible.
type MapValue struct {
	Keys   []string
	Values map[string]Value
}

func NewMapValue() *MapValue { return &MapValue{Values: make(map[string]Value)} }

func (m *MapValue) Set(key string, v Value) {
	if _, exists := m.Values[key]; !exists {
		m.Keys = append(m.Keys, key)
	}
	m.Values[key] = v
}

func (m *MapValue) Type() string { return "map" }
func (m *MapValue) String() string {
	parts := make([]string, 0, len(m.Keys))
	for _, k := range m.Keys {
		parts = append(parts, fmt.Sprintf("%q as %s", k, stringForDisplay(m.Values[k])))
	}
	return "a map containing " + strings.Join(parts, ", ")
}

// RecordValue is a fixed set of named fields produced by a record literal.
type RecordValue struct {
	Fields map[string]Value
	Order  []string
}

func (r *RecordValue) Type() string { return "record" }
func (r *RecordValue) String() string {
	parts := make([]string, 0, len(r.Order))
	for _, name := range r.Order {
		parts = append(parts, fmt.Sprintf("%s: %s", name, stringForDisplay(r.Fields[name])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// DateValue, TimeValue, DateTimeValue wrap the stdlib calendar/clock types the
// `time` stdlib module (see builtins_time.go) operates on.
type DateValue struct{ Value time.Time }

func (d *DateValue) Type() string   { return "date" }
func (d *DateValue) String() string { return d.Value.Format("2006-01-02") }

type TimeOfDayValue struct{ Value time.Duration }

func (t *TimeOfDayValue) Type() string { return "time" }
func (t *TimeOfDayValue) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t.Value.Hours())%24, int(t.Value.Minutes())%60, int(t.Value.Seconds())%60)
}

type DateTimeValue struct{ Value time.Time }

func (d *DateTimeValue) Type() string   { return "datetime" }
func (d *DateTimeValue) String() string { return d.Value.Format(time.RFC3339) }

// ActionValue is a user-defined or literal closure. It holds a strong
// reference to its defining Environment: in Go, unlike the reference-counted
// original, a garbage-collecting runtime reclaims reference cycles on its
// own, so there is no leak risk in holding the parent directly. The one place
// a long-lived registry could otherwise pin memory forever — event handler
// subscriptions that outlive the scope that registered them — uses a weak
// reference instead; see EventHandler in container.go.
type ActionValue struct {
	Name   string
	Params []ast.Param
	Body   *ast.Block
	Env    *Environment
}

func (a *ActionValue) Type() string   { return "action" }
func (a *ActionValue) String() string { return fmt.Sprintf("action<%s>", orAnonymous(a.Name)) }

func orAnonymous(name string) string {
	if name == "" {
		return "anonymous"
	}
	return name
}

// NativeFunc is a builtin implemented in Go.
type NativeFunc func(interp *Interpreter, args []Value) (Value, error)

// NativeActionValue wraps one stdlib builtin as a callable Value.
type NativeActionValue struct {
	Name string
	Fn   NativeFunc
}

func (n *NativeActionValue) Type() string   { return "action" }
func (n *NativeActionValue) String() string { return fmt.Sprintf("native action<%s>", n.Name) }

// ContainerClass is the static description of a declared container: its
// property defaults, its methods, and its extends chain.
type ContainerClass struct {
	Def        *ast.ContainerDefinitionStmt
	Parent     *ContainerClass
	StaticEnv  *Environment // holds `static` properties, shared across instances
	Interfaces []string
}

// MethodFor looks up a method by name, walking the extends chain.
func (c *ContainerClass) MethodFor(name string) (*ast.ActionDefinitionStmt, *ContainerClass, bool) {
	for cls := c; cls != nil; cls = cls.Parent {
		for _, m := range cls.Def.Methods {
			if m.Def.Name == name {
				return m.Def, cls, true
			}
		}
	}
	return nil, nil, false
}

// ContainerInstanceValue is one live object: its own Environment holds its
// instance properties, and Class links back to the shared static/method
// description.
type ContainerInstanceValue struct {
	Class    *ContainerClass
	Env      *Environment
	Handlers map[string][]*EventHandler
}

func (c *ContainerInstanceValue) Type() string { return c.Class.Def.Name }
func (c *ContainerInstanceValue) String() string {
	return fmt.Sprintf("<%s instance>", c.Class.Def.Name)
}

func stringForDisplay(v Value) string {
	if t, ok := v.(*TextValue); ok {
		return strconv.Quote(t.Value)
	}
	return v.String()
}

// IsTruthy reports whether v counts as true in a boolean context: `no`,
// `nothing`, the empty text, and the number 0 are false, everything else
// true.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case *TruthValue:
		return val.Value
	case *NothingValue:
		return false
	case *NumberValue:
		return val.Value != 0
	case *TextValue:
		return val.Value != ""
	case nil:
		return false
	default:
		return true
	}
}

// Equal implements WFL's `is equal to` for the value kinds that support it.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case *NumberValue:
		bv, ok := b.(*NumberValue)
		return ok && av.Value == bv.Value
	case *TextValue:
		bv, ok := b.(*TextValue)
		return ok && av.Value == bv.Value
	case *TruthValue:
		bv, ok := b.(*TruthValue)
		return ok && av.Value == bv.Value
	case *NothingValue:
		_, ok := b.(*NothingValue)
		return ok
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Compare provides the ordering `is greater than`/`is less than` inspect:
// orderable values are numbers, text (lexicographic), dates, and datetimes.
func Compare(a, b Value) (int, bool) {
	switch av := a.(type) {
	case *NumberValue:
		bv, ok := b.(*NumberValue)
		if !ok {
			return 0, false
		}
		switch {
		case av.Value < bv.Value:
			return -1, true
		case av.Value > bv.Value:
			return 1, true
		default:
			return 0, true
		}
	case *TextValue:
		bv, ok := b.(*TextValue)
		if !ok {
			return 0, false
		}
		return strings.Compare(av.Value, bv.Value), true
	case *DateValue:
		bv, ok := b.(*DateValue)
		if !ok {
			return 0, false
		}
		return int(av.Value.Compare(bv.Value)), true
	case *DateTimeValue:
		bv, ok := b.(*DateTimeValue)
		if !ok {
			return 0, false
		}
		return int(av.Value.Compare(bv.Value)), true
	default:
		return 0, false
	}
}

// sortedKeys is used by stdlib helpers that need stable iteration over a map's keys.
func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
