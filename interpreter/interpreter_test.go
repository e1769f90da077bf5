package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/logbie/wfl-sub001/lexer"
	"github.com/logbie/wfl-sub001/parser"
)

func run(t *testing.T, src string) (string, *Interpreter, error) {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	var out bytes.Buffer
	interp := New(Limits{})
	interp.Out = &out
	defer interp.Close()
	_, err := interp.Run(prog)
	return out.String(), interp, err
}

func TestStoreAndDisplay(t *testing.T) {
	out, _, err := run(t, "store x as 1 plus 2 times 3\ndisplay x\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "7" {
		t.Fatalf("expected 7, got %q", out)
	}
}

func TestCountLoopWithBreak(t *testing.T) {
	src := `store total as 0
count from 1 to 10:
	change total to total plus count
	check if total is greater than 20:
		break
	end check
end count
display total
`
	out, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "21" {
		t.Fatalf("expected 21 (1+2+...+6=21 triggers the break), got %q", out)
	}
}

func TestClosureCapturesCounterIndependently(t *testing.T) {
	src := `define action called make_counter:
	store n as 0
	give back new action:
		change n to n plus 1
		give back n
	end action
end action

store counter_a as make_counter with nothing
store counter_b as make_counter with nothing
display counter_a with nothing
display counter_a with nothing
display counter_b with nothing
`
	out, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Fields(out)
	if len(lines) != 3 || lines[0] != "1" || lines[1] != "2" || lines[2] != "1" {
		t.Fatalf("expected independent counters 1, 2, 1; got %v", lines)
	}
}

// TestCanonicalClosureCounterScenario pins the canonical closure scenario in
// its literal bare-reference form: storing a zero-argument action by name
// auto-invokes it, so every subsequent store of that same bare name re-invokes
// it rather than aliasing the action value itself.
func TestCanonicalClosureCounterScenario(t *testing.T) {
	src := `define action called make_counter:
	store n as 0
	define action called tick:
		change n to n plus 1
		give back n
	end action
	give back tick
end action

store t as make_counter
store a as t
store b as t
display a
display b
`
	out, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Fields(out)
	if len(lines) != 2 || lines[0] != "1" || lines[1] != "2" {
		t.Fatalf("expected a=1, b=2 per the canonical closure scenario, got %v", lines)
	}
}

func TestTryCatchesDivideByZero(t *testing.T) {
	src := `try:
	store x as 1 divided by 0
when DivideByZero as msg:
	display "caught"
end try
`
	out, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "caught" {
		t.Fatalf("expected the try arm to catch the fault, got %q / err=%v", out, err)
	}
}

func TestContainerParentMethodResolution(t *testing.T) {
	src := `create container Animal:
	property name as text defaults to "creature"
	define action called describe:
		display name
	end action
end container

create container Dog extends Animal:
	define action called describe:
		display "a dog named:"
		parent's describe with nothing
	end action
end container

create new Dog as rex: name as "Rex"
rex's describe with nothing
`
	out, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.Fields(strings.ReplaceAll(out, "\n", " "))
	if len(got) < 2 {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, _, err := run(t, "display missing\n")
	if err == nil {
		t.Fatal("expected an error")
	}
	rtErr, ok := err.(*RuntimeError)
	if !ok || rtErr.Kind != errUndefined {
		t.Fatalf("expected an UndefinedVariable RuntimeError, got %#v", err)
	}
}

func TestCallDepthGuardsAgainstRunawayRecursion(t *testing.T) {
	src := `define action called loop_forever needs x:
	give back loop_forever with x
end action
display loop_forever with 1
`
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	interp := New(Limits{MaxCallDepth: 50})
	interp.Out = &bytes.Buffer{}
	defer interp.Close()
	_, err := interp.Run(prog)
	rtErr, ok := err.(*RuntimeError)
	if !ok || rtErr.Kind != errStackOverflow {
		t.Fatalf("expected a StackOverflow RuntimeError, got %#v", err)
	}
}
