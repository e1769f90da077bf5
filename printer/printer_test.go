package printer_test

import (
	"os"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/logbie/wfl-sub001/lexer"
	"github.com/logbie/wfl-sub001/parser"
	"github.com/logbie/wfl-sub001/printer"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func format(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	pr := printer.New(printer.Options{Format: printer.FormatWFL, Style: printer.StyleDetailed, IndentWidth: 4, UseSpaces: true})
	return pr.Print(prog)
}

func TestPrintStoreAndDisplay(t *testing.T) {
	got := format(t, "store x as 1 plus 2 times 3\ndisplay x\n")
	want := "store x as 1 plus 2 times 3\ndisplay x\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintCountLoopWithBreak(t *testing.T) {
	src := `count from 1 to 10:
    store total as total plus count
    check if total is greater than 20:
        break
    end check
end count
`
	got := format(t, src)
	if !strings.Contains(got, "count from 1 to 10:") || !strings.Contains(got, "end count") {
		t.Fatalf("expected a round-tripped count loop, got %q", got)
	}
	if !strings.Contains(got, "check if total is greater than 20:") {
		t.Fatalf("expected the nested check if to survive printing, got %q", got)
	}
}

func TestPrintContainerDefinition(t *testing.T) {
	src := `create container Counter:
    static property total as number defaults to 0
    property count as number defaults to 0
    define action called tick:
        change count to count plus 1
    end action
end container
`
	got := format(t, src)
	for _, want := range []string{"create container Counter:", "static property total as number defaults to 0", "define action called tick:", "end container"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected printed output to contain %q, got %q", want, got)
		}
	}
}

// TestPrintIsIdempotent confirms formatting already-formatted output leaves
// it unchanged, the core guarantee a formatter must provide.
func TestPrintIsIdempotent(t *testing.T) {
	src := `define action called greet needs name:
    display name
end action

create container Animal:
    property name as text defaults to "creature"
    define action called describe:
        display name
    end action
end container

store counter as 0
count from 1 to 5:
    change counter to counter plus 1
end count
display counter
`
	once := format(t, src)
	twice := format(t, once)
	if once != twice {
		t.Fatalf("printing is not idempotent:\nfirst:\n%s\nsecond:\n%s", once, twice)
	}
}

// TestPrintContainerWithEventsSnapshot snapshots a richer container with
// inheritance, events, and a handler against a golden file, the way the
// teacher's interpreter fixtures snapshot whole-program output.
func TestPrintContainerWithEventsSnapshot(t *testing.T) {
	src := `create container Animal:
    property name as text defaults to "creature"
    define action called describe:
        display name
    end action
end container

create container Dog extends Animal:
    event barked
    define action called describe:
        display "a dog named:"
        parent's describe with nothing
    end action
    define action called bark:
        trigger barked
    end action
end container

create new Dog as rex: name as "Rex"
on barked of rex do:
    display "heard a bark"
end on
rex's bark with nothing
`
	snaps.MatchSnapshot(t, format(t, src))
}

func TestPrintTryCatch(t *testing.T) {
	src := `try:
    store x as 1 divided by 0
when DivideByZero as msg:
    display msg
end try
`
	got := format(t, src)
	for _, want := range []string{"try:", "when DivideByZero as msg:", "end try"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected printed output to contain %q, got %q", want, got)
		}
	}
}
