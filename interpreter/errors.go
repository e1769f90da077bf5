package interpreter

import (
	"fmt"

	"github.com/logbie/wfl-sub001/diagnostics"
)

// RuntimeError is a fault raised during evaluation: a precondition the type
// checker and analyzer cannot rule out ahead of time, like a zero divisor
// whose value is only known at runtime, or a closure whose defining scope
// has since been collected.
type RuntimeError struct {
	Kind    string
	Message string
	Span    diagnostics.Span
}

func (e *RuntimeError) Error() string { return e.Message }

func newRuntimeError(kind string, span diagnostics.Span, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

// Diagnostic converts a RuntimeError into the same diagnostics.Diagnostic
// shape the lexer/parser/checker produce, so the CLI can render every phase's
// failures identically.
func (e *RuntimeError) Diagnostic() *diagnostics.Diagnostic {
	d := diagnostics.Errorf("RUNTIME", e.Span, "%s", e.Message)
	diagnostics.AttachNote(d)
	return d
}

// Error kinds double as the TypeName a `try ... when KIND: ...` arm matches
// against, so they are spelled the way a WFL pattern would name them rather
// than as machine-readable codes.
var (
	errDivideByZero     = "DivideByZero"
	errIndexOutOfBounds = "IndexOutOfBounds"
	errUndefined        = "UndefinedVariable"
	errTypeMismatch     = "TypeError"
	errEnvDropped       = "EnvDropped"
	errTimeout          = "Timeout"
	errOutOfMemory      = "OutOfMemory"
	errStackOverflow    = "StackOverflow"
	errFileError        = "FileError"
	errNotCallable      = "NotCallable"
)
