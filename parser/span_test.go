package parser_test

import (
	"strings"
	"testing"

	"github.com/logbie/wfl-sub001/lexer"
	"github.com/logbie/wfl-sub001/parser"
)

// TestStatementSpansCoverSource pins spec.md's AST span-coverage property:
// every statement's span lies within the source, spans never overlap, and
// consecutive spans increase (gaps between them are only whitespace/comment).
func TestStatementSpansCoverSource(t *testing.T) {
	src := `store total as 0
count from 1 to 3:
	change total to total plus count
end count
display total
`
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	if len(prog.Statements) == 0 {
		t.Fatal("expected at least one top-level statement")
	}

	prevEnd := 0
	for i, stmt := range prog.Statements {
		sp := stmt.Span()
		if sp.Start < 0 || sp.End > len(src) || sp.Start > sp.End {
			t.Fatalf("statement %d span %v is out of bounds for a %d-byte source", i, sp, len(src))
		}
		if sp.Start < prevEnd {
			t.Fatalf("statement %d span %v overlaps the previous statement (ended at %d)", i, sp, prevEnd)
		}
		gap := src[prevEnd:sp.Start]
		if strings.TrimSpace(gap) != "" {
			t.Fatalf("statement %d: gap before it, %q, is not pure whitespace", i, gap)
		}
		prevEnd = sp.End
	}

	trailing := src[prevEnd:]
	if strings.TrimSpace(trailing) != "" {
		t.Fatalf("trailing text after the last statement, %q, is not pure whitespace", trailing)
	}
}
