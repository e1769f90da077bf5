package parser

import (
	"strconv"
	"unicode"

	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/diagnostics"
	"github.com/logbie/wfl-sub001/token"
)

// Precedence tiers, tightest last, matching spec.md §4.2's table.
const (
	LOWEST = iota
	OR
	AND
	COMPARISON
	ADD
	MUL
	UNARY
	CALL
)

func (p *Parser) peekPrecedence() int {
	switch p.cur().Type {
	case token.OR:
		return OR
	case token.AND:
		return AND
	case token.IS, token.CONTAINS, token.MATCHES, token.BETWEEN,
		token.GT, token.LT, token.GE, token.LE:
		return COMPARISON
	case token.PLUS, token.PLUSWORD, token.MINUS, token.MINUSWORD:
		return ADD
	case token.STAR, token.SLASH, token.PERCENT, token.STARSTAR, token.TIMES, token.DIVIDED:
		return MUL
	case token.PROPERTY, token.DOT, token.WITH, token.AT:
		return CALL
	default:
		return LOWEST
	}
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return &ast.NothingLiteral{Sp: p.cur().Span}
	}
	for precedence < p.peekPrecedence() {
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.NUMBER:
		p.advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf("invalid number literal %q", tok.Literal)
		}
		return &ast.NumberLiteral{Value: v, Sp: tok.Span}
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Value: tok.Literal, Sp: tok.Span}
	case token.YES:
		p.advance()
		return &ast.TruthLiteral{Value: true, Sp: tok.Span}
	case token.NO:
		p.advance()
		return &ast.TruthLiteral{Value: false, Sp: tok.Span}
	case token.NOTHING:
		p.advance()
		return &ast.NothingLiteral{Sp: tok.Span}
	case token.NOT:
		p.advance()
		operand := p.parseExpression(UNARY)
		return &ast.UnaryExpr{Op: ast.OpNot, Operand: operand, Sp: diagnostics.Join(tok.Span, operand.Span())}
	case token.MINUS:
		p.advance()
		operand := p.parseExpression(UNARY)
		return &ast.UnaryExpr{Op: ast.OpNegate, Operand: operand, Sp: diagnostics.Join(tok.Span, operand.Span())}
	case token.LPAREN:
		p.advance()
		inner := p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
		return inner
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.LBRACE:
		return p.parseRecordLiteral()
	case token.NEW:
		return p.parseActionLiteralOrNew()
	case token.IDENT, token.COUNT, token.MATCHES:
		// `count` (the count-loop variable) and `matches` (the pattern
		// builtin) lex as keywords but read as names in prefix position.
		return p.parseIdentLeadExpr()
	default:
		p.errorf("unexpected token %s in expression", tok.Type)
		p.advance()
		return &ast.NothingLiteral{Sp: tok.Span}
	}
}

// parseIdentLeadExpr handles a bare identifier, a call (`name with args`), or
// the start of a member-access chain.
func (p *Parser) parseIdentLeadExpr() ast.Expression {
	tok := p.advance()
	var expr ast.Expression = &ast.VariableExpr{Name: tok.Literal, Sp: tok.Span}
	if p.at(token.WITH) {
		return p.parseCallWith(expr)
	}
	return expr
}

func (p *Parser) parseCallWith(callee ast.Expression) ast.Expression {
	start := callee.Span()
	p.advance() // 'with'
	args := p.parseArgList()
	end := start
	if len(args) > 0 {
		end = args[len(args)-1].Span()
	}
	return &ast.CallExpr{Callee: callee, Args: args, Sp: diagnostics.Join(start, end)}
}

// parseArgList parses comma- or `and`-separated call arguments. Items stop at
// AND's own precedence tier so `and` is consumed as a separator here rather
// than folded into a boolean expression (parenthesize to get the latter).
func (p *Parser) parseArgList() []ast.Expression {
	var args []ast.Expression
	args = append(args, p.parseExpression(AND))
	for p.atAny(token.COMMA, token.AND) {
		p.advance()
		args = append(args, p.parseExpression(AND))
	}
	return args
}

func (p *Parser) parseListLiteral() ast.Expression {
	start := p.advance().Span // '['
	lit := &ast.ListLiteral{Sp: start}
	p.skipNewlines()
	for !p.atAny(token.RBRACKET, token.EOF) {
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
		p.skipNewlines()
		if p.at(token.COMMA) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	end := p.cur().Span
	p.expect(token.RBRACKET)
	lit.Sp = diagnostics.Join(start, end)
	return lit
}

// parseRecordLiteral parses `{ field: value, ... }`. A bare `{}`/`{k: v}`
// with non-identifier keys would be a map; this grammar treats `{` as
// introducing a record, since WFL spells map literals with `a map
// containing ...` instead (kept simple and unambiguous for the parser).
func (p *Parser) parseRecordLiteral() ast.Expression {
	start := p.advance().Span // '{'
	lit := &ast.RecordLiteral{Sp: start}
	p.skipNewlines()
	for !p.atAny(token.RBRACE, token.EOF) {
		if !p.at(token.IDENT) {
			p.errorf("expected field name in record literal, found %s", p.cur().Type)
			break
		}
		name := p.advance().Literal
		p.expect(token.COLON)
		val := p.parseExpression(LOWEST)
		lit.Fields = append(lit.Fields, ast.RecordField{Name: name, Value: val})
		p.skipNewlines()
		if p.at(token.COMMA) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	end := p.cur().Span
	p.expect(token.RBRACE)
	lit.Sp = diagnostics.Join(start, end)
	return lit
}

func (p *Parser) parseActionLiteralOrNew() ast.Expression {
	start := p.advance().Span // 'new'
	// Inline action literal: `new action [needs ...] [giving T]: BLOCK end action`
	if p.at(token.ACTION) {
		p.advance()
		var params []ast.Param
		if p.at(token.NEEDS) {
			p.advance()
			params = p.parseParams()
		}
		var ret ast.TypeExpr
		if p.at(token.GIVING) {
			p.advance()
			ret = p.parseTypeExpr()
		}
		p.expect(token.COLON)
		body := p.parseBlock(token.END)
		p.expect(token.END)
		p.expect(token.ACTION)
		return &ast.ActionLiteral{Params: params, Return: ret, Body: body, Sp: start}
	}
	p.errorf("expected 'action' after 'new' in an expression context")
	return &ast.NothingLiteral{Sp: start}
}

func isCapitalized(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	switch p.cur().Type {
	case token.AND:
		p.advance()
		right := p.parseExpression(AND)
		return &ast.BinaryExpr{Op: ast.OpAnd, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.OR:
		p.advance()
		right := p.parseExpression(OR)
		return &ast.BinaryExpr{Op: ast.OpOr, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.CONTAINS:
		p.advance()
		right := p.parseExpression(COMPARISON)
		return &ast.BinaryExpr{Op: ast.OpContains, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.MATCHES:
		p.advance()
		right := p.parseExpression(COMPARISON)
		return &ast.BinaryExpr{Op: ast.OpMatches, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.GT:
		p.advance()
		right := p.parseExpression(COMPARISON)
		return &ast.BinaryExpr{Op: ast.OpGt, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.LT:
		p.advance()
		right := p.parseExpression(COMPARISON)
		return &ast.BinaryExpr{Op: ast.OpLt, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.GE:
		p.advance()
		right := p.parseExpression(COMPARISON)
		return &ast.BinaryExpr{Op: ast.OpGe, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.LE:
		p.advance()
		right := p.parseExpression(COMPARISON)
		return &ast.BinaryExpr{Op: ast.OpLe, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.BETWEEN:
		p.advance()
		low := p.parseExpression(ADD)
		p.expect(token.AND)
		high := p.parseExpression(ADD)
		return &ast.BetweenExpr{Value: left, Low: low, High: high, Sp: diagnostics.Join(left.Span(), high.Span())}
	case token.IS:
		return p.parseIsComparison(left)
	case token.PLUS, token.PLUSWORD:
		p.advance()
		right := p.parseExpression(ADD)
		return &ast.BinaryExpr{Op: ast.OpPlus, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.MINUS, token.MINUSWORD:
		p.advance()
		right := p.parseExpression(ADD)
		return &ast.BinaryExpr{Op: ast.OpMinus, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.STAR, token.TIMES:
		p.advance()
		right := p.parseExpression(MUL)
		return &ast.BinaryExpr{Op: ast.OpTimes, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.SLASH:
		p.advance()
		right := p.parseExpression(MUL)
		return &ast.BinaryExpr{Op: ast.OpDivide, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.DIVIDED:
		p.advance()
		p.expect(token.BY)
		right := p.parseExpression(MUL)
		return &ast.BinaryExpr{Op: ast.OpDivide, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.PERCENT:
		p.advance()
		right := p.parseExpression(MUL)
		return &ast.BinaryExpr{Op: ast.OpModulo, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.STARSTAR:
		p.advance()
		right := p.parseExpression(MUL)
		return &ast.BinaryExpr{Op: ast.OpPower, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.AT:
		p.advance()
		idx := p.parseExpression(CALL)
		return &ast.IndexExpr{Collection: left, Index: idx, Sp: diagnostics.Join(left.Span(), idx.Span())}
	case token.PROPERTY, token.DOT:
		return p.parseMemberOrMethod(left)
	case token.WITH:
		return p.parseCallWith(left)
	default:
		p.advance()
		return left
	}
}

// parseIsComparison disambiguates the `is ...` comparison family: equal to,
// not equal to, greater than, less than, one of.
func (p *Parser) parseIsComparison(left ast.Expression) ast.Expression {
	start := p.advance().Span // 'is'
	negate := false
	if p.at(token.NOT) {
		p.advance()
		negate = true
	}
	switch p.cur().Type {
	case token.EQUAL:
		p.advance()
		p.expect(token.TO)
		right := p.parseExpression(COMPARISON)
		op := ast.OpEq
		if negate {
			op = ast.OpNe
		}
		return &ast.BinaryExpr{Op: op, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.GREATER:
		p.advance()
		p.expect(token.THAN)
		right := p.parseExpression(COMPARISON)
		return &ast.BinaryExpr{Op: ast.OpGt, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.LESS:
		p.advance()
		p.expect(token.THAN)
		right := p.parseExpression(COMPARISON)
		return &ast.BinaryExpr{Op: ast.OpLt, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	case token.ONE:
		p.advance()
		p.expect(token.OF)
		right := p.parseExpression(COMPARISON)
		return &ast.BinaryExpr{Op: ast.OpOneOf, Left: left, Right: right, Sp: diagnostics.Join(left.Span(), right.Span())}
	default:
		p.errorf("expected 'equal to', 'greater than', 'less than', or 'one of' after 'is'")
		return &ast.BinaryExpr{Op: ast.OpEq, Left: left, Right: left, Sp: start}
	}
}

// parseMemberOrMethod handles `x's field`, `x.field`, `x's method with args`,
// a capitalized base resolving to a StaticMemberExpr, and `parent's method`
// resolving to a ParentCallExpr (see DESIGN.md Open Questions / simplifications).
func (p *Parser) parseMemberOrMethod(left ast.Expression) ast.Expression {
	opSpan := p.advance().Span // PROPERTY or DOT
	if !p.atAny(token.IDENT, token.PUSH) {
		p.errorf("expected a field or method name, found %s", p.cur().Type)
		return left
	}
	field := p.advance().Literal

	if ident, ok := left.(*ast.VariableExpr); ok && ident.Name == "parent" {
		var args []ast.Expression
		if p.at(token.WITH) {
			p.advance()
			args = p.parseArgList()
		}
		return &ast.ParentCallExpr{Method: field, Args: args, Sp: diagnostics.Join(left.Span(), opSpan)}
	}

	if p.at(token.WITH) {
		p.advance()
		args := p.parseArgList()
		end := left.Span()
		if len(args) > 0 {
			end = args[len(args)-1].Span()
		}
		return &ast.MethodCallExpr{Receiver: left, Method: field, Args: args, Sp: diagnostics.Join(left.Span(), end)}
	}

	if ident, ok := left.(*ast.VariableExpr); ok && isCapitalized(ident.Name) {
		return &ast.StaticMemberExpr{Container: ident.Name, Member: field, Sp: diagnostics.Join(left.Span(), opSpan)}
	}

	return &ast.MemberAccessExpr{Object: left, Field: field, Sp: diagnostics.Join(left.Span(), opSpan)}
}

// parsePattern parses one `when` arm's pattern, used by both CheckStmt and
// TryStmt.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur().Span
	switch p.cur().Type {
	case token.OTHERWISE:
		p.advance()
		return &ast.WildcardPattern{Sp: start}
	case token.LBRACKET:
		return p.parseListPattern()
	case token.IDENT:
		name := p.cur().Literal
		// TypePattern: `IDENT as BINDING [when GUARD]` or a bare type/error name.
		if isCapitalized(name) || p.peek(1).Type == token.AS || p.peek(1).Type == token.WHEN {
			p.advance()
			tp := &ast.TypePattern{TypeName: name, Sp: start}
			if p.at(token.AS) {
				p.advance()
				if p.at(token.IDENT) {
					tp.Binding = p.advance().Literal
				}
			}
			if p.at(token.WHEN) {
				p.advance()
				tp.Guard = p.parseExpression(LOWEST)
			}
			return tp
		}
		p.advance()
		return &ast.VariablePattern{Name: name, Sp: start}
	default:
		val := p.parseExpression(COMPARISON)
		return &ast.LiteralPattern{Value: val, Sp: start}
	}
}

func (p *Parser) parseListPattern() ast.Pattern {
	start := p.advance().Span // '['
	lp := &ast.ListPattern{Sp: start}
	for !p.atAny(token.RBRACKET, token.EOF) {
		lp.Elements = append(lp.Elements, p.parsePattern())
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return lp
}
