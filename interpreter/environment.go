package interpreter

import "sync/atomic"

// Environment is one lexical frame of variable bindings, chained to its
// parent the way the teacher's runtime.Environment is. WFL is case-sensitive,
// unlike the teacher's DWScript source, so lookups use the name verbatim.
type Environment struct {
	vars   map[string]Value
	outer  *Environment
	strong int32

	interp    *Interpreter // the Interpreter whose memory counter charge/refund credits
	accounted int64        // bytes charged to this exact scope by accountFor
}

// NewEnvironment creates a root environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]Value), strong: 1}
}

// NewEnclosedEnvironment creates a new environment nested inside outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	outer.Retain()
	return &Environment{vars: make(map[string]Value), outer: outer, strong: 1, interp: outer.interp}
}

// charge attributes n bytes of the process-wide memory counter to this exact
// scope, so they can be handed back when the scope is released. A nil
// receiver (memory accounted with no scope, e.g. a value pushed into a list
// from a native builtin) simply isn't refunded later.
func (e *Environment) charge(n int64) {
	if e == nil {
		return
	}
	e.accounted += n
}

// refund gives back whatever this scope was charged, once its last owner
// releases it.
func (e *Environment) refund() {
	if e.interp != nil && e.accounted != 0 {
		e.interp.memUsed -= e.accounted
		e.accounted = 0
	}
}

// Retain records one more strong owner of e: NewEnclosedEnvironment calls it
// for each child scope (block, call, loop, or container instance) enclosing
// e; a closure capturing e does not retain it. Paired with the child's
// Release, which also releases every ancestor, this mirrors the reference count the original interpreter exposed
// via Rc::strong_count, purely so StrongCount is an observable, deterministic
// number instead of something only Go's GC would know.
func (e *Environment) Retain() {
	if e == nil {
		return
	}
	atomic.AddInt32(&e.strong, 1)
}

// Release gives up one strong ownership claim on e and its ancestors,
// refunding each scope's charged memory the moment its own count reaches
// zero.
func (e *Environment) Release() {
	for env := e; env != nil; {
		if atomic.AddInt32(&env.strong, -1) == 0 {
			env.refund()
		}
		env = env.outer
	}
}

// StrongCount returns the number of recorded strong owners of e.
func (e *Environment) StrongCount() int32 { return atomic.LoadInt32(&e.strong) }

// Define creates or overwrites a binding in this exact scope.
func (e *Environment) Define(name string, v Value) { e.vars[name] = v }

// Get searches this scope and its ancestors.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// GetLocal searches only this exact scope, not its ancestors.
func (e *Environment) GetLocal(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set reassigns an existing binding, searching outward. It reports false if
// name is bound nowhere in the chain (the caller should treat that as an
// undefined-variable error — semantic analysis should already have caught
// this, but the interpreter re-checks since it can run on unanalyzed ASTs).
func (e *Environment) Set(name string, v Value) bool {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return true
		}
	}
	return false
}

// Outer returns the parent environment, or nil at the root.
func (e *Environment) Outer() *Environment { return e.outer }
