package interpreter

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/lexer"
	"github.com/logbie/wfl-sub001/parser"
)

func TestStaticMemberSharedAcrossInstances(t *testing.T) {
	src := `create container Counter:
	static property total as number defaults to 0
end container

display Counter's total
`
	out, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "0" {
		t.Fatalf("expected 0, got %q", out)
	}
}

func TestEventHandlerFiresOnTrigger(t *testing.T) {
	src := `create container Dog:
	event barked
	define action called bark:
		trigger barked
	end action
end container

create new Dog as rex
on barked of rex do:
	display "heard a bark"
end on
rex's bark with nothing
`
	out, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "heard a bark" {
		t.Fatalf("expected the handler to run, got %q", out)
	}
}

func TestTriggerWithNoHandlersIsANoop(t *testing.T) {
	src := `create container Dog:
	event barked
	define action called bark:
		trigger barked
	end action
end container

create new Dog as rex
rex's bark with nothing
display "done"
`
	out, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "done" {
		t.Fatalf("expected no handler to run, got %q", out)
	}
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	return prog
}

// TestEventHandlerEnvDroppedAfterCollection registers a handler from an
// action's call scope, lets that scope become unreachable once the action
// returns, forces a collection between the two halves of the program, and
// confirms the next trigger raises EnvDropped rather than silently skipping
// the handler.
func TestEventHandlerEnvDroppedAfterCollection(t *testing.T) {
	setup := `create container Dog:
	event barked
	define action called bark:
		trigger barked
	end action
end container

define action called register_on needs d:
	on barked of d do:
		display "should never run"
	end on
end action

create new Dog as rex
register_on with rex
`
	var out bytes.Buffer
	interp := New(Limits{})
	interp.Out = &out
	defer interp.Close()

	if _, err := interp.Run(mustParse(t, setup)); err != nil {
		t.Fatalf("unexpected error during setup: %v", err)
	}

	runtime.GC()
	runtime.GC()

	_, err := interp.Run(mustParse(t, "rex's bark with nothing\n"))
	if err == nil {
		t.Fatalf("expected the trigger to observe a collected handler scope, got output %q", out.String())
	}
	rtErr, ok := err.(*RuntimeError)
	if !ok || rtErr.Kind != errEnvDropped {
		t.Fatalf("expected an EnvDropped RuntimeError, got %#v", err)
	}
}
