// Package types implements the small type lattice used by the static type
// checker: §4.4 of the spec.
package types

import "fmt"

// Kind identifies a member of the type lattice.
type Kind int

const (
	Number Kind = iota
	Text
	Truth
	Nothing // bottom: assignable anywhere, comparable to anything
	ListKind
	MapKind
	SetKind
	RecordKind
	ActionKind
	Any
	Generic
	DateKind
	TimeKind
	DateTimeKind
	ContainerKind
)

// Type is an immutable value in the lattice. Compound kinds carry additional
// fields; scalar kinds leave them zero.
type Type struct {
	Kind     Kind
	Elem     *Type            // ListKind, SetKind element type
	Key      *Type            // MapKind key type
	Value    *Type            // MapKind value type
	Fields   map[string]*Type // RecordKind field types
	Params   []*Type          // ActionKind parameter types
	Return   *Type            // ActionKind return type (nil = gives back nothing)
	Name     string           // Generic name or ContainerKind type name
}

func scalar(k Kind) *Type { return &Type{Kind: k} }

var (
	TNumber   = scalar(Number)
	TText     = scalar(Text)
	TTruth    = scalar(Truth)
	TNothing  = scalar(Nothing)
	TAny      = scalar(Any)
	TDate     = scalar(DateKind)
	TTime     = scalar(TimeKind)
	TDateTime = scalar(DateTimeKind)
)

// List returns `list of elem`.
func List(elem *Type) *Type { return &Type{Kind: ListKind, Elem: elem} }

// Set returns `set of elem`.
func Set(elem *Type) *Type { return &Type{Kind: SetKind, Elem: elem} }

// Map returns `map of key to value`.
func Map(key, value *Type) *Type { return &Type{Kind: MapKind, Key: key, Value: value} }

// Record returns a record type with the given named fields.
func Record(fields map[string]*Type) *Type { return &Type{Kind: RecordKind, Fields: fields} }

// Action returns an action's call signature.
func Action(params []*Type, ret *Type) *Type { return &Type{Kind: ActionKind, Params: params, Return: ret} }

// GenericType returns an unbound type parameter reference.
func GenericType(name string) *Type { return &Type{Kind: Generic, Name: name} }

// Container returns a named container-type reference.
func Container(name string) *Type { return &Type{Kind: ContainerKind, Name: name} }

// String renders a human-readable type name for diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind {
	case Number:
		return "number"
	case Text:
		return "text"
	case Truth:
		return "truth"
	case Nothing:
		return "nothing"
	case Any:
		return "any"
	case DateKind:
		return "date"
	case TimeKind:
		return "time"
	case DateTimeKind:
		return "datetime"
	case ListKind:
		return fmt.Sprintf("list of %s", t.Elem)
	case SetKind:
		return fmt.Sprintf("set of %s", t.Elem)
	case MapKind:
		return fmt.Sprintf("map of %s to %s", t.Key, t.Value)
	case RecordKind:
		return "record"
	case ActionKind:
		ret := "nothing"
		if t.Return != nil {
			ret = t.Return.String()
		}
		return fmt.Sprintf("action(%d params) giving %s", len(t.Params), ret)
	case Generic:
		return t.Name
	case ContainerKind:
		return t.Name
	default:
		return "unknown"
	}
}

// Equal reports structural equality. Any is not a wildcard here: it equals
// only Any, and callers that accept Any check for it themselves.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ListKind, SetKind:
		return Equal(a.Elem, b.Elem)
	case MapKind:
		return Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case Generic, ContainerKind:
		return a.Name == b.Name
	case ActionKind:
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Equal(a.Return, b.Return)
	default:
		return true
	}
}

// AssignableTo reports whether a value of type from may be stored where a
// value of type to is expected: `nothing` is assignable anywhere, anything
// is assignable to Any, and otherwise the types must match exactly.
func AssignableTo(from, to *Type) bool {
	if from == nil || to == nil {
		return true
	}
	if from.Kind == Nothing || to.Kind == Any {
		return true
	}
	return Equal(from, to)
}

// Comparable reports whether `is equal to`/`is not equal to` may compare a
// and b: both sides must share a common type, or either side may be Any or
// Nothing.
func Comparable(a, b *Type) bool {
	if a == nil || b == nil {
		return true
	}
	if a.Kind == Any || b.Kind == Any || a.Kind == Nothing || b.Kind == Nothing {
		return true
	}
	if a.Kind == ListKind && b.Kind == ListKind {
		return Comparable(a.Elem, b.Elem)
	}
	return Equal(a, b)
}

// Orderable reports whether < > <= >= may compare a and b: both sides must
// be Number, Text, Date, Time, DateTime, or Any (spec.md §4.4).
func Orderable(t *Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case Number, Text, DateKind, TimeKind, DateTimeKind, Any:
		return true
	default:
		return false
	}
}

// ContainsCompatible reports whether `contains` is well-typed for container
// type c holding elements/keys of type elem: Text contains Text, List
// contains T, Map contains K, Set contains T.
func ContainsCompatible(c, elem *Type) bool {
	if c == nil {
		return true
	}
	switch c.Kind {
	case Text:
		return elem == nil || elem.Kind == Text || elem.Kind == Any
	case ListKind, SetKind:
		return elem == nil || Equal(c.Elem, elem) || elem.Kind == Any || c.Elem.Kind == Any
	case MapKind:
		return elem == nil || Equal(c.Key, elem) || elem.Kind == Any || c.Key.Kind == Any
	default:
		return false
	}
}
