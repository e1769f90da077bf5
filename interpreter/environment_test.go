package interpreter

import "testing"

func TestEnvironmentDefineGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", &NumberValue{Value: 1})
	v, ok := env.Get("x")
	if !ok {
		t.Fatalf("expected x to be defined")
	}
	if n, ok := v.(*NumberValue); !ok || n.Value != 1 {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestEnvironmentSetWalksOuter(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", &NumberValue{Value: 1})
	inner := NewEnclosedEnvironment(outer)
	if !inner.Set("x", &NumberValue{Value: 2}) {
		t.Fatalf("expected Set to find x in the outer frame")
	}
	v, _ := outer.Get("x")
	if n := v.(*NumberValue); n.Value != 2 {
		t.Fatalf("expected outer x to be updated, got %v", n.Value)
	}
}

func TestEnvironmentSetUndefinedFails(t *testing.T) {
	env := NewEnvironment()
	if env.Set("missing", Nothing) {
		t.Fatalf("expected Set on an undefined name to fail")
	}
}

func TestEnvironmentStrongCountReturnsToOne(t *testing.T) {
	root := NewEnvironment()
	if root.StrongCount() != 1 {
		t.Fatalf("expected a fresh root environment to have strong count 1, got %d", root.StrongCount())
	}
	child := NewEnclosedEnvironment(root)
	if root.StrongCount() != 2 {
		t.Fatalf("expected root strong count 2 after one child, got %d", root.StrongCount())
	}
	child.Release()
	if root.StrongCount() != 1 {
		t.Fatalf("expected root strong count to return to 1 after the child releases, got %d", root.StrongCount())
	}
}
