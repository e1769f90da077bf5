// Package parser consumes the token stream produced by lexer and produces a
// typed ast.Program, recovering across statement-level errors.
package parser

import (
	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/diagnostics"
	"github.com/logbie/wfl-sub001/lexer"
	"github.com/logbie/wfl-sub001/token"
)

// Parser is a recursive-descent parser with one-token lookahead and an
// occasional two-token peek, driven by an upfront-tokenized stream so
// backtracking is just cursor arithmetic.
type Parser struct {
	tokens []token.Token
	pos    int
	errors []*diagnostics.Diagnostic
}

// New tokenizes the full output of l and returns a Parser positioned at the
// first token.
func New(l *lexer.Lexer) *Parser {
	return &Parser{tokens: l.CollectAll()}
}

// Errors returns parse errors accumulated during ParseProgram.
func (p *Parser) Errors() []*diagnostics.Diagnostic { return p.errors }

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

// prev returns the most recently consumed token, used to extend a block
// statement's span through its closing keyword.
func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) at(ty token.Type) bool { return p.cur().Type == ty }

func (p *Parser) atAny(types ...token.Type) bool {
	for _, ty := range types {
		if p.at(ty) {
			return true
		}
	}
	return false
}

func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) errorf(format string, args ...any) {
	d := diagnostics.Errorf("PARSE", p.cur().Span, format, args...)
	diagnostics.AttachNote(d)
	p.errors = append(p.errors, d)
}

// expect consumes a token of type ty, or records a recoverable parse error
// and returns false without consuming.
func (p *Parser) expect(ty token.Type) bool {
	if p.at(ty) {
		p.advance()
		return true
	}
	p.errorf("expected %s, found %s", ty, p.cur().Type)
	return false
}

// recover advances past tokens until it finds a statement-starting keyword or
// `end`, so one statement's error does not derail the rest of the program.
func (p *Parser) recover() {
	for !p.at(token.EOF) {
		if statementStart[p.cur().Type] || p.at(token.END) {
			return
		}
		p.advance()
	}
}

var statementStart = map[token.Type]bool{
	token.STORE: true, token.CHANGE: true, token.DISPLAY: true, token.CHECK: true,
	token.COUNT: true, token.FOR: true, token.REPEAT: true, token.TRY: true,
	token.DEFINE: true, token.WAIT: true, token.OPEN: true, token.WRITE: true,
	token.APPEND: true, token.GIVE: true, token.BREAK: true, token.CONTINUE: true,
	token.EXIT: true, token.CREATE: true, token.INTERFACE: true, token.TRIGGER: true,
	token.ON: true,
}

// ParseProgram parses the entire token stream into a Program, recording
// recoverable errors along the way.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipNewlines()
	}
	return prog
}

// parseBlock parses statements until the current token is EOF or a member of
// stop, leaving the stop token unconsumed.
func (p *Parser) parseBlock(stop ...token.Type) *ast.Block {
	start := p.cur().Span
	b := &ast.Block{Sp: start}
	p.skipNewlines()
	for !p.at(token.EOF) && !p.atAny(stop...) {
		stmt := p.parseStatement()
		if stmt != nil {
			b.Statements = append(b.Statements, stmt)
		}
		p.skipNewlines()
	}
	if len(b.Statements) > 0 {
		b.Sp = diagnostics.Join(start, b.Statements[len(b.Statements)-1].Span())
	}
	return b
}
