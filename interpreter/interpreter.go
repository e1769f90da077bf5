// Package interpreter tree-walks a parsed, checked ast.Program, the way the
// teacher's internal/interp package walks a DWScript AST: one Eval-style
// dispatch per node kind, a chained Environment for scope, and a
// ControlFlow signal instead of panicking across frames for break/continue/
// give back.
package interpreter

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/diagnostics"
)

// Limits bounds one run's resource usage, enforced cooperatively at
// suspension points (loop iterations, calls, `wait for`).
type Limits struct {
	Timeout      time.Duration // 0 means no deadline
	MaxMemory    int64         // bytes; 0 means unbounded
	MaxCallDepth int           // 0 means use DefaultMaxCallDepth
}

// DefaultMaxCallDepth bounds recursion so a runaway action raises a
// StackOverflow RuntimeError instead of crashing the host process.
const DefaultMaxCallDepth = 2000

// Interpreter holds everything that persists across one Run: the global
// scope, declared container/interface definitions, and the resource
// counters Limits enforces.
type Interpreter struct {
	Global *Environment
	Out    io.Writer

	ctx      context.Context
	cancel   context.CancelFunc
	deadline time.Time

	classes    map[string]*ContainerClass
	interfaces map[string]*ast.InterfaceDefinitionStmt
	methods    map[string]map[string]NativeFunc // Value.Type() -> method name -> implementation

	callDepth int
	limits    Limits

	memUsed int64

	self  *ContainerInstanceValue // the instance whose method is executing, nil at top level
	class *ContainerClass         // the class whose method is executing (for `parent`), nil at top level

	// Trace, when set, is invoked before every statement regardless of
	// StepMode, so a caller wanting only an execution-log trace (the
	// `execution_logging` config key) doesn't have to pay for stepping.
	Trace func(stmt ast.Statement)

	StepMode bool // when true, execution additionally pauses before each statement until Step is called
	stepCh   chan struct{}

	Driver CooperativeDriver // optional; consulted at each `wait for` suspension point
}

// EnableStepMode turns on single-statement stepping for the CLI's --step
// flag: execution blocks before every statement until Step is called from
// another goroutine (the CLI's input loop).
func (interp *Interpreter) EnableStepMode() {
	interp.StepMode = true
	interp.stepCh = make(chan struct{})
}

// Step resumes execution paused by StepMode for exactly one statement.
func (interp *Interpreter) Step() {
	if interp.stepCh != nil {
		interp.stepCh <- struct{}{}
	}
}

// CooperativeDriver lets a host (the CLI, a test harness) observe or delay
// `wait for` suspension points without the interpreter ever spawning a
// goroutine: WFL's concurrency model is single-task and cooperative, so the
// only place execution can yield is where the source says `wait for`.
type CooperativeDriver interface {
	Suspend(ctx context.Context, stmt ast.Statement) error
}

// New creates an Interpreter with a fresh global scope and the stdlib
// builtins registered (see builtins_*.go).
func New(limits Limits) *Interpreter {
	interp := &Interpreter{
		Global:     NewEnvironment(),
		Out:        os.Stdout,
		classes:    make(map[string]*ContainerClass),
		interfaces: make(map[string]*ast.InterfaceDefinitionStmt),
		methods:    make(map[string]map[string]NativeFunc),
		limits:     limits,
	}
	interp.Global.interp = interp
	if interp.limits.MaxCallDepth == 0 {
		interp.limits.MaxCallDepth = DefaultMaxCallDepth
	}
	interp.ctx, interp.cancel = context.WithCancel(context.Background())
	if limits.Timeout > 0 {
		interp.ctx, interp.cancel = context.WithTimeout(context.Background(), limits.Timeout)
		interp.deadline = time.Now().Add(limits.Timeout)
	}
	registerCoreBuiltins(interp)
	registerTextBuiltins(interp)
	registerListBuiltins(interp)
	registerMathBuiltins(interp)
	registerTimeBuiltins(interp)
	registerPatternBuiltins(interp)
	return interp
}

// Close releases the interpreter's context resources. Call it once Run
// returns.
func (interp *Interpreter) Close() {
	if interp.cancel != nil {
		interp.cancel()
	}
}

// Run executes a program to completion (or until a signal/timeout/runtime
// error interrupts it). It returns any uncaught RuntimeError, and the value
// of a top-level `give back`, when the program ends with one; otherwise the
// returned Value is Nothing.
func (interp *Interpreter) Run(program *ast.Program) (Value, error) {
	interp.declareTopLevel(program)
	flow, err := interp.evalBlock(&ast.Block{Statements: program.Statements}, interp.Global)
	if err != nil {
		return Nothing, err
	}
	if flow.Signal == SigReturn {
		return flow.Value, nil
	}
	return Nothing, nil
}

// declareTopLevel pre-registers every top-level action, container, and
// interface before executing any statement, the way the semantic analyzer's
// declaration pass does — so forward references between top-level actions
// and containers work the same at runtime as they do during analysis.
func (interp *Interpreter) declareTopLevel(program *ast.Program) {
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.ActionDefinitionStmt:
			interp.Global.Define(s.Name, &ActionValue{Name: s.Name, Params: s.Params, Body: s.Body, Env: interp.Global})
		case *ast.InterfaceDefinitionStmt:
			interp.interfaces[s.Name] = s
		}
	}
	// Containers are registered in a second pass so `extends` can reference a
	// container declared later in the file.
	for _, stmt := range program.Statements {
		if s, ok := stmt.(*ast.ContainerDefinitionStmt); ok {
			interp.registerContainer(s)
		}
	}
}

func (interp *Interpreter) registerContainer(def *ast.ContainerDefinitionStmt) *ContainerClass {
	if existing, ok := interp.classes[def.Name]; ok {
		return existing
	}
	class := &ContainerClass{Def: def, Interfaces: def.Implements, StaticEnv: NewEnclosedEnvironment(interp.Global)}
	interp.classes[def.Name] = class // registered before resolving Parent to tolerate extends cycles gracefully
	if def.Extends != "" {
		class.Parent = interp.classes[def.Extends]
	}
	for _, prop := range def.Properties {
		if !prop.Static {
			continue
		}
		var v Value = Nothing
		if prop.Default != nil {
			if val, err := interp.evalExpr(prop.Default, class.StaticEnv); err == nil {
				v = val
			}
		}
		class.StaticEnv.Define(prop.Name, v)
	}
	return class
}

// checkBudget is called at every loop iteration and call boundary: it is the
// cooperative suspension point the whole runtime honors instead of
// preemptive goroutine cancellation.
func (interp *Interpreter) checkBudget(span diagnostics.Span) error {
	select {
	case <-interp.ctx.Done():
		return newRuntimeError(errTimeout, span, "execution exceeded its time limit")
	default:
	}
	if interp.limits.MaxMemory > 0 && interp.memUsed > interp.limits.MaxMemory {
		return newRuntimeError(errOutOfMemory, span, "execution exceeded its memory limit")
	}
	return nil
}

// accountFor adds a rough advisory cost to the memory counter: WFL has no
// manual allocation, so this approximates usage from the values that flow
// through Store/list-append/record construction rather than tracking real
// heap bytes. The cost is charged against env as well as the process-wide
// counter, so it can be handed back (see Environment.Release) once env's
// last owner lets go — env may be nil when the value isn't being bound into
// any particular scope (e.g. appended into an existing list), in which case
// the charge is never refunded, same as the original allocation it's too
// coarse to track precisely.
func (interp *Interpreter) accountFor(env *Environment, v Value) {
	var cost int64
	switch val := v.(type) {
	case *TextValue:
		cost = int64(len(val.Value))
	case *ListValue:
		cost = int64(len(val.Elements)) * 16
	case *MapValue:
		cost = int64(len(val.Keys)) * 32
	default:
		cost = 16
	}
	interp.memUsed += cost
	env.charge(cost)
}

func (interp *Interpreter) evalBlock(b *ast.Block, env *Environment) (ControlFlow, error) {
	for _, stmt := range b.Statements {
		if interp.Trace != nil {
			interp.Trace(stmt)
		}
		if interp.StepMode {
			select {
			case <-interp.stepCh:
			case <-interp.ctx.Done():
				return flowNone, newRuntimeError(errTimeout, stmt.Span(), "execution exceeded its time limit")
			}
		}
		if err := interp.checkBudget(stmt.Span()); err != nil {
			return flowNone, err
		}
		flow, err := interp.evalStmt(stmt, env)
		if err != nil {
			return flowNone, err
		}
		if flow.Signal != SigNone {
			return flow, nil
		}
	}
	return flowNone, nil
}

func (interp *Interpreter) display(v Value) {
	fmt.Fprintln(interp.Out, v.String())
}
