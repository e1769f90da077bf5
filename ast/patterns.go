package ast

import "github.com/logbie/wfl-sub001/diagnostics"

// Pattern is matched against a value in `check ... end check` arms and
// against an error kind in `try ... when ... end try` arms.
type Pattern interface {
	Node
	patternNode()
}

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	Value Expression
	Sp    diagnostics.Span
}

func (p *LiteralPattern) Span() diagnostics.Span { return p.Sp }
func (p *LiteralPattern) patternNode()           {}

// VariablePattern always matches and binds the scrutinee to Name.
type VariablePattern struct {
	Name string
	Sp   diagnostics.Span
}

func (p *VariablePattern) Span() diagnostics.Span { return p.Sp }
func (p *VariablePattern) patternNode()           {}

// WildcardPattern always matches and binds nothing; written `otherwise`.
type WildcardPattern struct {
	Sp diagnostics.Span
}

func (p *WildcardPattern) Span() diagnostics.Span { return p.Sp }
func (p *WildcardPattern) patternNode()           {}

// ListPattern matches a list by element count and per-element sub-pattern.
type ListPattern struct {
	Elements []Pattern
	Rest     *string // bound name for "and the rest", nil if absent
	Sp       diagnostics.Span
}

func (p *ListPattern) Span() diagnostics.Span { return p.Sp }
func (p *ListPattern) patternNode()           {}

// RecordPattern matches an object by field sub-patterns.
type RecordPattern struct {
	Fields map[string]Pattern
	Sp     diagnostics.Span
}

func (p *RecordPattern) Span() diagnostics.Span { return p.Sp }
func (p *RecordPattern) patternNode()           {}

// TypePattern matches a value whose runtime type matches TypeName (an error
// kind name when used in a `try`/`when` arm, e.g. "Timeout"), binding the
// scrutinee to Binding when non-empty, with an optional boolean Guard.
type TypePattern struct {
	TypeName string
	Binding  string
	Guard    Expression // nil if absent
	Sp       diagnostics.Span
}

func (p *TypePattern) Span() diagnostics.Span { return p.Sp }
func (p *TypePattern) patternNode()           {}
