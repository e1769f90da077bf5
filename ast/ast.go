// Package ast defines the typed abstract syntax tree produced by the parser.
package ast

import "github.com/logbie/wfl-sub001/diagnostics"

// Node is implemented by every statement, expression, pattern, and type node.
type Node interface {
	Span() diagnostics.Span
}

// Statement is a top-level or block-level executable node.
type Statement interface {
	Node
	statementNode()
}

// Expression evaluates to a Value at runtime.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of the AST: an ordered list of statements.
type Program struct {
	Statements []Statement
}

func (p *Program) Span() diagnostics.Span {
	if len(p.Statements) == 0 {
		return diagnostics.Span{}
	}
	return diagnostics.Join(p.Statements[0].Span(), p.Statements[len(p.Statements)-1].Span())
}

// Block is a brace-free sequence of statements introducing a child scope.
type Block struct {
	Statements []Statement
	Sp         diagnostics.Span
}

func (b *Block) Span() diagnostics.Span { return b.Sp }
func (b *Block) statementNode()         {}

// Identifier names a variable, action, container, or field.
type Identifier struct {
	Name string
	Sp   diagnostics.Span
}

func (i *Identifier) Span() diagnostics.Span { return i.Sp }
func (i *Identifier) expressionNode()        {}
