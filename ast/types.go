package ast

import "github.com/logbie/wfl-sub001/diagnostics"

// TypeExpr is a syntactic type annotation, e.g. in `needs x as number` or
// `giving text`. It is distinct from types.Type, which is the checker's
// resolved lattice value; TypeExpr is what the parser produces from source.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType covers the scalar and container-reference spellings: number,
// text, truth, nothing, date, time, datetime, any, a generic name, or a
// container type name.
type NamedType struct {
	Name string
	Sp   diagnostics.Span
}

func (t *NamedType) Span() diagnostics.Span { return t.Sp }
func (t *NamedType) typeExprNode()          {}

// ListType is `list of T`.
type ListType struct {
	Elem TypeExpr
	Sp   diagnostics.Span
}

func (t *ListType) Span() diagnostics.Span { return t.Sp }
func (t *ListType) typeExprNode()          {}

// MapType is `map of K to V`.
type MapType struct {
	Key, Value TypeExpr
	Sp         diagnostics.Span
}

func (t *MapType) Span() diagnostics.Span { return t.Sp }
func (t *MapType) typeExprNode()          {}

// SetType is `set of T`.
type SetType struct {
	Elem TypeExpr
	Sp   diagnostics.Span
}

func (t *SetType) Span() diagnostics.Span { return t.Sp }
func (t *SetType) typeExprNode()          {}

// RecordType is an inline `{ field as T, ... }` shape.
type RecordType struct {
	Fields []RecordFieldType
	Sp     diagnostics.Span
}

func (t *RecordType) Span() diagnostics.Span { return t.Sp }
func (t *RecordType) typeExprNode()          {}

// RecordFieldType is one named field of a RecordType.
type RecordFieldType struct {
	Name string
	Type TypeExpr
}

// ActionType is `action needing (T,...) giving T`.
type ActionType struct {
	Params []TypeExpr
	Return TypeExpr // nil if the action gives back nothing
	Sp     diagnostics.Span
}

func (t *ActionType) Span() diagnostics.Span { return t.Sp }
func (t *ActionType) typeExprNode()          {}
