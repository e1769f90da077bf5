package lexer

import (
	"testing"

	"github.com/logbie/wfl-sub001/token"
)

func TestNextBasicStatement(t *testing.T) {
	input := "store x as 42\ndisplay x"
	l := New(input)

	want := []token.Type{
		token.STORE, token.IDENT, token.AS, token.NUMBER, token.NEWLINE,
		token.DISPLAY, token.IDENT, token.EOF,
	}

	for i, wantType := range want {
		got := l.Next()
		if got.Type != wantType {
			t.Fatalf("token %d: want %s, got %s (%q)", i, wantType, got.Type, got.Literal)
		}
	}
}

func TestCaseSensitiveKeywords(t *testing.T) {
	l := New("Store")
	tok := l.Next()
	if tok.Type != token.IDENT {
		t.Fatalf("expected 'Store' to lex as IDENT, got %s", tok.Type)
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"line one\nline two\ttabbed\\done\""`)
	tok := l.Next()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING, got %s: %s", tok.Type, tok.Literal)
	}
	want := "line one\nline two\ttabbed\\done\""
	if tok.Literal != want {
		t.Fatalf("want %q, got %q", want, tok.Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"oops`)
	tok := l.Next()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected one lexer error, got %d", len(l.Errors()))
	}
}

func TestNumberLiteral(t *testing.T) {
	l := New("3.14 7")
	tok := l.Next()
	if tok.Type != token.NUMBER || tok.Literal != "3.14" {
		t.Fatalf("got %s %q", tok.Type, tok.Literal)
	}
	tok = l.Next()
	if tok.Type != token.NUMBER || tok.Literal != "7" {
		t.Fatalf("got %s %q", tok.Type, tok.Literal)
	}
}

func TestPropertyAccessForm(t *testing.T) {
	l := New("person's name")
	tok := l.Next()
	if tok.Type != token.IDENT || tok.Literal != "person" {
		t.Fatalf("want IDENT person, got %s %q", tok.Type, tok.Literal)
	}
	tok = l.Next()
	if tok.Type != token.PROPERTY {
		t.Fatalf("want PROPERTY, got %s", tok.Type)
	}
	tok = l.Next()
	if tok.Type != token.IDENT || tok.Literal != "name" {
		t.Fatalf("want IDENT name, got %s %q", tok.Type, tok.Literal)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	l := New("store x as 1 // a comment\ndisplay x")
	types := []token.Type{}
	for {
		tok := l.Next()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	want := []token.Type{token.STORE, token.IDENT, token.AS, token.NUMBER, token.NEWLINE, token.DISPLAY, token.IDENT, token.EOF}
	if len(types) != len(want) {
		t.Fatalf("want %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("position %d: want %s got %s", i, want[i], types[i])
		}
	}
}

func TestSpansAreContiguous(t *testing.T) {
	input := "store count as 10"
	l := New(input)
	toks := l.CollectAll()
	for _, tok := range toks {
		if tok.Type == token.EOF {
			continue
		}
		lexeme := input[tok.Span.Start:tok.Span.End]
		if tok.Type == token.PROPERTY {
			continue
		}
		if lexeme != tok.Literal && tok.Type != token.STRING {
			t.Fatalf("token %s: span text %q != literal %q", tok.Type, lexeme, tok.Literal)
		}
	}
}

func TestMultiWordOperatorsLexAsSimpleTokens(t *testing.T) {
	l := New("count is greater than 5")
	want := []token.Type{token.COUNT, token.IS, token.GREATER, token.THAN, token.NUMBER, token.EOF}
	for _, wantType := range want {
		tok := l.Next()
		if tok.Type != wantType {
			t.Fatalf("want %s got %s", wantType, tok.Type)
		}
	}
}
