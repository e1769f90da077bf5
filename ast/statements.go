package ast

import "github.com/logbie/wfl-sub001/diagnostics"

// Visibility marks a container member's access level.
type Visibility int

const (
	Public Visibility = iota
	Private
)

// StoreStmt declares a new binding: `store NAME as EXPR`.
type StoreStmt struct {
	Name       string
	Value      Expression
	Annotation TypeExpr // nil if untyped
	Sp         diagnostics.Span
}

func (s *StoreStmt) Span() diagnostics.Span { return s.Sp }
func (s *StoreStmt) statementNode()         {}

// ChangeStmt reassigns an existing binding, list element, or field:
// `change TARGET to EXPR`.
type ChangeStmt struct {
	Target Expression
	Value  Expression
	Sp     diagnostics.Span
}

func (c *ChangeStmt) Span() diagnostics.Span { return c.Sp }
func (c *ChangeStmt) statementNode()         {}

// DisplayStmt prints a value: `display EXPR`.
type DisplayStmt struct {
	Expr Expression
	Sp   diagnostics.Span
}

func (d *DisplayStmt) Span() diagnostics.Span { return d.Sp }
func (d *DisplayStmt) statementNode()         {}

// IfStmt is `check if EXPR : BLOCK [otherwise : BLOCK] end check`.
type IfStmt struct {
	Cond Expression
	Then *Block
	Else *Block // nil if no otherwise clause
	Sp   diagnostics.Span
}

func (i *IfStmt) Span() diagnostics.Span { return i.Sp }
func (i *IfStmt) statementNode()         {}

// CheckArm is one `when PATTERN: BLOCK` arm of a CheckStmt.
type CheckArm struct {
	Pattern Pattern
	Body    *Block
}

// CheckStmt is the pattern-matching `check VALUE ... end check` form,
// distinct from IfStmt's boolean `check if` form.
type CheckStmt struct {
	Value Expression
	Arms  []CheckArm
	Else  *Block
	Sp    diagnostics.Span
}

func (c *CheckStmt) Span() diagnostics.Span { return c.Sp }
func (c *CheckStmt) statementNode()         {}

// CountLoopStmt is `count from EXPR to EXPR [by EXPR] [reversed]: BLOCK end count`.
// The loop variable is bound as `count` inside Body.
type CountLoopStmt struct {
	From, To, By Expression // By is nil if omitted
	Reversed     bool
	Body         *Block
	Sp           diagnostics.Span
}

func (c *CountLoopStmt) Span() diagnostics.Span { return c.Sp }
func (c *CountLoopStmt) statementNode()         {}

// ForEachStmt is `for each NAME in EXPR : BLOCK end for`.
type ForEachStmt struct {
	Var        string
	Collection Expression
	Body       *Block
	Sp         diagnostics.Span
}

func (f *ForEachStmt) Span() diagnostics.Span { return f.Sp }
func (f *ForEachStmt) statementNode()         {}

// RepeatKind selects the form of a RepeatStmt.
type RepeatKind int

const (
	RepeatWhile RepeatKind = iota
	RepeatUntil
	RepeatForever
)

// RepeatStmt is `repeat while|until COND : BLOCK end repeat` or
// `repeat forever: BLOCK end repeat`.
type RepeatStmt struct {
	Kind RepeatKind
	Cond Expression // nil when Kind == RepeatForever
	Body *Block
	Sp   diagnostics.Span
}

func (r *RepeatStmt) Span() diagnostics.Span { return r.Sp }
func (r *RepeatStmt) statementNode()         {}

// TryArm is one `when PATTERN: BLOCK` catch arm of a TryStmt.
type TryArm struct {
	Pattern Pattern
	Body    *Block
}

// TryStmt is `try: BLOCK when PATTERN: BLOCK ... [finally: BLOCK] end try`.
type TryStmt struct {
	Body    *Block
	Arms    []TryArm
	Finally *Block // nil if absent
	Sp      diagnostics.Span
}

func (t *TryStmt) Span() diagnostics.Span { return t.Sp }
func (t *TryStmt) statementNode()         {}

// ActionDefinitionStmt is `define action called NAME [needs ...] [giving T]: BLOCK end action`.
type ActionDefinitionStmt struct {
	Name       string
	Params     []Param
	Return     TypeExpr // nil if the action gives back nothing
	Body       *Block
	Visibility Visibility
	Sp         diagnostics.Span
}

func (a *ActionDefinitionStmt) Span() diagnostics.Span { return a.Sp }
func (a *ActionDefinitionStmt) statementNode()         {}

// PropertyMember is one `property NAME [as T] [defaults to EXPR]` container member.
type PropertyMember struct {
	Name       string
	Type       TypeExpr
	Default    Expression
	Visibility Visibility
	Static     bool
}

// MethodMember is one `action` container member.
type MethodMember struct {
	Def    *ActionDefinitionStmt
	Static bool
}

// EventMember is one `event NAME [needs ...]` container member.
type EventMember struct {
	Name   string
	Params []Param
}

// ContainerDefinitionStmt is
// `create container NAME [extends NAME] [implements NAME[, NAME]]: MEMBERS end`.
type ContainerDefinitionStmt struct {
	Name       string
	Extends    string // "" if absent
	Implements []string
	Properties []PropertyMember
	Methods    []MethodMember
	Events     []EventMember
	Sp         diagnostics.Span
}

func (c *ContainerDefinitionStmt) Span() diagnostics.Span { return c.Sp }
func (c *ContainerDefinitionStmt) statementNode()         {}

// InterfaceDefinitionStmt declares the method/property obligations a
// container satisfying it must implement.
type InterfaceDefinitionStmt struct {
	Name    string
	Methods []InterfaceMethod
	Sp      diagnostics.Span
}

func (i *InterfaceDefinitionStmt) Span() diagnostics.Span { return i.Sp }
func (i *InterfaceDefinitionStmt) statementNode()         {}

// InterfaceMethod is one method signature an interface requires.
type InterfaceMethod struct {
	Name   string
	Params []Param
	Return TypeExpr
}

// Initializer sets one property during ContainerInstantiationStmt.
type Initializer struct {
	Name  string
	Value Expression
}

// ContainerInstantiationStmt is `create new TYPE as NAME [: INITIALIZERS]`.
type ContainerInstantiationStmt struct {
	Type         string
	Name         string
	Args         []Expression
	Initializers []Initializer
	Sp           diagnostics.Span
}

func (c *ContainerInstantiationStmt) Span() diagnostics.Span { return c.Sp }
func (c *ContainerInstantiationStmt) statementNode()         {}

// TriggerStmt fires a container event: `trigger EVENT [with ARGS]`.
type TriggerStmt struct {
	Event string
	Args  []Expression
	Sp    diagnostics.Span
}

func (t *TriggerStmt) Span() diagnostics.Span { return t.Sp }
func (t *TriggerStmt) statementNode()         {}

// EventHandlerStmt registers a handler: `on EVENT of TARGET do: BLOCK end on`.
type EventHandlerStmt struct {
	Event  string
	Target Expression
	Body   *Block
	Sp     diagnostics.Span
}

func (e *EventHandlerStmt) Span() diagnostics.Span { return e.Sp }
func (e *EventHandlerStmt) statementNode()         {}

// ReadFileStmt is `open file at EXPR and read content` bound to a target name.
type ReadFileStmt struct {
	Path   Expression
	Target string
	Sp     diagnostics.Span
}

func (r *ReadFileStmt) Span() diagnostics.Span { return r.Sp }
func (r *ReadFileStmt) statementNode()         {}

// WriteMode selects between WriteFileStmt's two forms.
type WriteMode int

const (
	Overwrite WriteMode = iota
	AppendMode
)

// WriteFileStmt is `write|append content EXPR into EXPR`.
type WriteFileStmt struct {
	Mode    WriteMode
	Content Expression
	Path    Expression
	Sp      diagnostics.Span
}

func (w *WriteFileStmt) Span() diagnostics.Span { return w.Sp }
func (w *WriteFileStmt) statementNode()         {}

// WaitForStmt wraps an I/O-bearing statement as a cooperative suspension point.
type WaitForStmt struct {
	Inner Statement
	Sp    diagnostics.Span
}

func (w *WaitForStmt) Span() diagnostics.Span { return w.Sp }
func (w *WaitForStmt) statementNode()         {}

// BreakStmt is `break` / `exit loop`.
type BreakStmt struct {
	Sp diagnostics.Span
}

func (b *BreakStmt) Span() diagnostics.Span { return b.Sp }
func (b *BreakStmt) statementNode()         {}

// ContinueStmt is `continue`.
type ContinueStmt struct {
	Sp diagnostics.Span
}

func (c *ContinueStmt) Span() diagnostics.Span { return c.Sp }
func (c *ContinueStmt) statementNode()         {}

// ReturnStmt is `give back [EXPR]`.
type ReturnStmt struct {
	Expr Expression // nil if no value given back
	Sp   diagnostics.Span
}

func (r *ReturnStmt) Span() diagnostics.Span { return r.Sp }
func (r *ReturnStmt) statementNode()         {}

// ExpressionStmt is an expression evaluated for its side effects, e.g. a
// bare action call.
type ExpressionStmt struct {
	Expr Expression
	Sp   diagnostics.Span
}

func (e *ExpressionStmt) Span() diagnostics.Span { return e.Sp }
func (e *ExpressionStmt) statementNode()         {}
