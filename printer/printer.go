// Package printer renders a parsed program back to canonical WFL source.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/logbie/wfl-sub001/ast"
)

// Format selects the output language. WFL only ever prints itself back out,
// but the option is kept so callers mirror the shape of a multi-language
// printer rather than hard-coding a single format.
type Format int

const (
	FormatWFL Format = iota
)

// Style selects how verbosely blocks and members are laid out.
type Style int

const (
	StyleDetailed Style = iota
	StyleCompact
	StyleMultiline
)

// Options configures a Printer.
type Options struct {
	Format      Format
	Style       Style
	IndentWidth int
	UseSpaces   bool
}

// Printer renders an *ast.Program as canonical WFL source text. Printing is
// idempotent: formatting already-formatted source reproduces it unchanged.
type Printer struct {
	opts  Options
	buf   strings.Builder
	depth int
}

// New builds a Printer for the given options.
func New(opts Options) *Printer {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = 4
	}
	return &Printer{opts: opts}
}

// Print renders program to its canonical textual form.
func (p *Printer) Print(program *ast.Program) string {
	p.buf.Reset()
	p.depth = 0
	for i, stmt := range program.Statements {
		if i > 0 {
			p.blankLineBetween(program.Statements[i-1], stmt)
		}
		p.printStmt(stmt)
	}
	return p.buf.String()
}

// blankLineBetween inserts the separating blank line the detailed style uses
// between top-level definitions, keeping a run of simple statements tight.
func (p *Printer) blankLineBetween(prev, next ast.Statement) bool {
	if p.opts.Style == StyleCompact {
		return false
	}
	if isDefinitionStmt(prev) || isDefinitionStmt(next) {
		p.buf.WriteByte('\n')
		return true
	}
	return false
}

func isDefinitionStmt(s ast.Statement) bool {
	switch s.(type) {
	case *ast.ActionDefinitionStmt, *ast.ContainerDefinitionStmt, *ast.InterfaceDefinitionStmt:
		return true
	}
	return false
}

func (p *Printer) indentUnit() string {
	if p.opts.UseSpaces {
		return strings.Repeat(" ", p.opts.IndentWidth)
	}
	return "\t"
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth; i++ {
		p.buf.WriteString(p.indentUnit())
	}
}

func (p *Printer) line(format string, args ...interface{}) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *Printer) printBlock(b *ast.Block) {
	p.depth++
	for _, s := range b.Statements {
		p.printStmt(s)
	}
	p.depth--
}

func (p *Printer) printStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.StoreStmt:
		p.line("store %s as %s", s.Name, p.expr(s.Value))
	case *ast.ChangeStmt:
		p.line("change %s to %s", p.expr(s.Target), p.expr(s.Value))
	case *ast.DisplayStmt:
		p.line("display %s", p.expr(s.Expr))
	case *ast.IfStmt:
		p.line("check if %s:", p.expr(s.Cond))
		p.printBlock(s.Then)
		if s.Else != nil {
			p.line("otherwise:")
			p.printBlock(s.Else)
		}
		p.line("end check")
	case *ast.CheckStmt:
		p.line("check %s:", p.expr(s.Value))
		p.depth++
		for _, arm := range s.Arms {
			p.line("when %s:", p.pattern(arm.Pattern))
			p.printBlock(arm.Body)
		}
		if s.Else != nil {
			p.line("otherwise:")
			p.printBlock(s.Else)
		}
		p.depth--
		p.line("end check")
	case *ast.CountLoopStmt:
		head := fmt.Sprintf("count from %s to %s", p.expr(s.From), p.expr(s.To))
		if s.By != nil {
			head += fmt.Sprintf(" by %s", p.expr(s.By))
		}
		if s.Reversed {
			head += " reversed"
		}
		p.line("%s:", head)
		p.printBlock(s.Body)
		p.line("end count")
	case *ast.ForEachStmt:
		p.line("for each %s in %s:", s.Var, p.expr(s.Collection))
		p.printBlock(s.Body)
		p.line("end for")
	case *ast.RepeatStmt:
		switch s.Kind {
		case ast.RepeatWhile:
			p.line("repeat while %s:", p.expr(s.Cond))
		case ast.RepeatUntil:
			p.line("repeat until %s:", p.expr(s.Cond))
		default:
			p.line("repeat forever:")
		}
		p.printBlock(s.Body)
		p.line("end repeat")
	case *ast.TryStmt:
		p.line("try:")
		p.printBlock(s.Body)
		p.depth++
		for _, arm := range s.Arms {
			p.line("when %s:", p.pattern(arm.Pattern))
			p.printBlock(arm.Body)
		}
		p.depth--
		if s.Finally != nil {
			p.line("finally:")
			p.printBlock(s.Finally)
		}
		p.line("end try")
	case *ast.ActionDefinitionStmt:
		p.printActionDef(s)
	case *ast.ContainerDefinitionStmt:
		p.printContainerDef(s)
	case *ast.InterfaceDefinitionStmt:
		p.printInterfaceDef(s)
	case *ast.ContainerInstantiationStmt:
		p.printInstantiation(s)
	case *ast.TriggerStmt:
		if len(s.Args) == 0 {
			p.line("trigger %s", s.Event)
		} else {
			p.line("trigger %s with %s", s.Event, p.exprList(s.Args))
		}
	case *ast.EventHandlerStmt:
		p.line("on %s of %s do:", s.Event, p.expr(s.Target))
		p.printBlock(s.Body)
		p.line("end on")
	case *ast.ReadFileStmt:
		p.line("open file at %s and read content as %s", p.expr(s.Path), s.Target)
	case *ast.WriteFileStmt:
		verb := "write"
		if s.Mode == ast.AppendMode {
			verb = "append"
		}
		p.line("%s content %s into %s", verb, p.expr(s.Content), p.expr(s.Path))
	case *ast.WaitForStmt:
		p.writeIndent()
		p.buf.WriteString("wait for ")
		p.printInlineStmt(s.Inner)
	case *ast.BreakStmt:
		p.line("break")
	case *ast.ContinueStmt:
		p.line("continue")
	case *ast.ReturnStmt:
		if s.Expr == nil {
			p.line("give back nothing")
		} else {
			p.line("give back %s", p.expr(s.Expr))
		}
	case *ast.ExpressionStmt:
		p.line("%s", p.expr(s.Expr))
	case *ast.Block:
		p.printBlock(s)
	default:
		p.line("# unsupported statement: %T", s)
	}
}

// printInlineStmt renders a statement on the current line without its own
// indentation, for WaitForStmt's single-line `wait for INNER` form.
func (p *Printer) printInlineStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.StoreStmt:
		fmt.Fprintf(&p.buf, "store %s as %s\n", s.Name, p.expr(s.Value))
	case *ast.ChangeStmt:
		fmt.Fprintf(&p.buf, "change %s to %s\n", p.expr(s.Target), p.expr(s.Value))
	case *ast.ReadFileStmt:
		fmt.Fprintf(&p.buf, "open file at %s and read content as %s\n", p.expr(s.Path), s.Target)
	case *ast.WriteFileStmt:
		verb := "write"
		if s.Mode == ast.AppendMode {
			verb = "append"
		}
		fmt.Fprintf(&p.buf, "%s content %s into %s\n", verb, p.expr(s.Content), p.expr(s.Path))
	case *ast.ExpressionStmt:
		fmt.Fprintf(&p.buf, "%s\n", p.expr(s.Expr))
	default:
		fmt.Fprintf(&p.buf, "%s\n", p.expr(&ast.NothingLiteral{}))
	}
}

func (p *Printer) printActionDef(s *ast.ActionDefinitionStmt) {
	head := "define action called " + s.Name
	if len(s.Params) > 0 {
		head += " needs " + p.paramList(s.Params)
	}
	if s.Return != nil {
		head += " giving " + typeString(s.Return)
	}
	p.line("%s:", head)
	p.printBlock(s.Body)
	p.line("end action")
}

func (p *Printer) paramList(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, prm := range params {
		part := prm.Name
		if prm.Type != nil {
			part += " as " + typeString(prm.Type)
		}
		if prm.Default != nil {
			part += " defaults to " + p.expr(prm.Default)
		}
		parts[i] = part
	}
	return strings.Join(parts, " and ")
}

func (p *Printer) printContainerDef(s *ast.ContainerDefinitionStmt) {
	head := "create container " + s.Name
	if s.Extends != "" {
		head += " extends " + s.Extends
	}
	if len(s.Implements) > 0 {
		head += " implements " + strings.Join(s.Implements, ", ")
	}
	p.line("%s:", head)
	p.depth++
	for _, event := range s.Events {
		if len(event.Params) > 0 {
			p.line("event %s needs %s", event.Name, p.paramList(event.Params))
		} else {
			p.line("event %s", event.Name)
		}
	}
	for _, prop := range s.Properties {
		head := "property " + prop.Name
		if prop.Static {
			head = "static " + head
		}
		if prop.Type != nil {
			head += " as " + typeString(prop.Type)
		}
		if prop.Default != nil {
			head += " defaults to " + p.expr(prop.Default)
		}
		p.line("%s", head)
	}
	for _, m := range s.Methods {
		if m.Static {
			p.line("static")
		}
		p.printActionDef(m.Def)
	}
	p.depth--
	p.line("end container")
}

func (p *Printer) printInterfaceDef(s *ast.InterfaceDefinitionStmt) {
	p.line("create interface %s:", s.Name)
	p.depth++
	for _, m := range s.Methods {
		head := "action called " + m.Name
		if len(m.Params) > 0 {
			head += " needs " + p.paramList(m.Params)
		}
		if m.Return != nil {
			head += " giving " + typeString(m.Return)
		}
		p.line("%s", head)
	}
	p.depth--
	p.line("end interface")
}

func (p *Printer) printInstantiation(s *ast.ContainerInstantiationStmt) {
	head := fmt.Sprintf("create new %s as %s", s.Type, s.Name)
	if len(s.Args) > 0 {
		head += " with " + p.exprList(s.Args)
	}
	if len(s.Initializers) == 0 {
		p.line("%s", head)
		return
	}
	parts := make([]string, len(s.Initializers))
	for i, init := range s.Initializers {
		parts[i] = fmt.Sprintf("%s as %s", init.Name, p.expr(init.Value))
	}
	p.line("%s: %s", head, strings.Join(parts, ", "))
}

func (p *Printer) exprList(exprs []ast.Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = p.expr(e)
	}
	return strings.Join(parts, " and ")
}

func (p *Printer) pattern(pat ast.Pattern) string {
	switch pt := pat.(type) {
	case *ast.LiteralPattern:
		return p.expr(pt.Value)
	case *ast.VariablePattern:
		return pt.Name
	case *ast.WildcardPattern:
		return "otherwise"
	case *ast.ListPattern:
		parts := make([]string, len(pt.Elements))
		for i, el := range pt.Elements {
			parts[i] = p.pattern(el)
		}
		out := strings.Join(parts, ", ")
		if pt.Rest != nil {
			out += " and the rest as " + *pt.Rest
		}
		return out
	case *ast.RecordPattern:
		keys := make([]string, 0, len(pt.Fields))
		for k := range pt.Fields {
			keys = append(keys, k)
		}
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s as %s", k, p.pattern(pt.Fields[k]))
		}
		return strings.Join(parts, ", ")
	case *ast.TypePattern:
		out := pt.TypeName
		if pt.Binding != "" {
			out += " as " + pt.Binding
		}
		if pt.Guard != nil {
			out += " when " + p.expr(pt.Guard)
		}
		return out
	default:
		return "?"
	}
}

// expr renders an expression without emitting a trailing newline; block
// statements call this inline, so it never touches p.buf directly.
func (p *Printer) expr(e ast.Expression) string {
	switch ex := e.(type) {
	case *ast.NumberLiteral:
		return formatNumber(ex.Value)
	case *ast.StringLiteral:
		return strconv.Quote(ex.Value)
	case *ast.TruthLiteral:
		if ex.Value {
			return "yes"
		}
		return "no"
	case *ast.NothingLiteral:
		return "nothing"
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", p.expr(ex.Left), ex.Op.String(), p.expr(ex.Right))
	case *ast.UnaryExpr:
		if ex.Op == ast.OpNot {
			return "not " + p.expr(ex.Operand)
		}
		return "minus " + p.expr(ex.Operand)
	case *ast.BetweenExpr:
		return fmt.Sprintf("%s between %s and %s", p.expr(ex.Value), p.expr(ex.Low), p.expr(ex.High))
	case *ast.VariableExpr:
		return ex.Name
	case *ast.Identifier:
		return ex.Name
	case *ast.MemberAccessExpr:
		return fmt.Sprintf("%s's %s", p.expr(ex.Object), ex.Field)
	case *ast.IndexExpr:
		return fmt.Sprintf("%s at %s", p.expr(ex.Collection), p.expr(ex.Index))
	case *ast.CallExpr:
		if len(ex.Args) == 0 {
			return fmt.Sprintf("%s with nothing", p.expr(ex.Callee))
		}
		return fmt.Sprintf("%s with %s", p.expr(ex.Callee), p.exprList(ex.Args))
	case *ast.MethodCallExpr:
		if len(ex.Args) == 0 {
			return fmt.Sprintf("%s's %s with nothing", p.expr(ex.Receiver), ex.Method)
		}
		return fmt.Sprintf("%s's %s with %s", p.expr(ex.Receiver), ex.Method, p.exprList(ex.Args))
	case *ast.StaticMemberExpr:
		return fmt.Sprintf("%s's %s", ex.Container, ex.Member)
	case *ast.ParentCallExpr:
		if len(ex.Args) == 0 {
			return fmt.Sprintf("parent's %s with nothing", ex.Method)
		}
		return fmt.Sprintf("parent's %s with %s", ex.Method, p.exprList(ex.Args))
	case *ast.ListLiteral:
		return fmt.Sprintf("a list containing %s", p.exprList(ex.Elements))
	case *ast.MapLiteral:
		parts := make([]string, len(ex.Entries))
		for i, entry := range ex.Entries {
			parts[i] = fmt.Sprintf("%s as %s", p.expr(entry.Key), p.expr(entry.Value))
		}
		return fmt.Sprintf("a map containing %s", strings.Join(parts, ", "))
	case *ast.RecordLiteral:
		parts := make([]string, len(ex.Fields))
		for i, f := range ex.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, p.expr(f.Value))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *ast.ActionLiteral:
		var sb strings.Builder
		sb.WriteString("new action")
		if len(ex.Params) > 0 {
			sb.WriteString(" needs " + p.paramList(ex.Params))
		}
		if ex.Return != nil {
			sb.WriteString(" giving " + typeString(ex.Return))
		}
		sb.WriteString(":\n")
		inner := New(p.opts)
		inner.depth = p.depth + 1
		inner.printBlock(ex.Body)
		sb.WriteString(inner.buf.String())
		sb.WriteString(strings.Repeat(p.indentUnit(), p.depth))
		sb.WriteString("end action")
		return sb.String()
	default:
		return fmt.Sprintf("/* unsupported expr %T */", ex)
	}
}

// formatNumber renders a float the way the lexer would re-read it: integral
// values print without a trailing ".0".
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func typeString(t ast.TypeExpr) string {
	switch tt := t.(type) {
	case *ast.NamedType:
		return tt.Name
	case *ast.ListType:
		return "list of " + typeString(tt.Elem)
	case *ast.MapType:
		return fmt.Sprintf("map of %s to %s", typeString(tt.Key), typeString(tt.Value))
	case *ast.SetType:
		return "set of " + typeString(tt.Elem)
	case *ast.RecordType:
		parts := make([]string, len(tt.Fields))
		for i, f := range tt.Fields {
			parts[i] = fmt.Sprintf("%s as %s", f.Name, typeString(f.Type))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *ast.ActionType:
		parts := make([]string, len(tt.Params))
		for i, pt := range tt.Params {
			parts[i] = typeString(pt)
		}
		out := "action needing (" + strings.Join(parts, ", ") + ")"
		if tt.Return != nil {
			out += " giving " + typeString(tt.Return)
		}
		return out
	default:
		return "any"
	}
}
