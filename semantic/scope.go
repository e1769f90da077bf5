package semantic

import "github.com/logbie/wfl-sub001/diagnostics"

// Symbol records what the analyzer knows about one bound name.
type Symbol struct {
	Name string
	Kind SymbolKind
	Used bool
	Span diagnostics.Span
}

// SymbolKind distinguishes the different things a name can refer to, mirroring
// the statement forms that introduce bindings.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymAction
	SymContainer
	SymInterface
	SymParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymVariable:
		return "variable"
	case SymAction:
		return "action"
	case SymContainer:
		return "container"
	case SymInterface:
		return "interface"
	case SymParam:
		return "parameter"
	default:
		return "name"
	}
}

// Scope is one lexical level of name bindings, chained to its parent the way
// a running Environment is (see interpreter.Environment) — the analyzer's
// scope tree mirrors the runtime scope tree it is predicting.
type Scope struct {
	symbols map[string]*Symbol
	outer   *Scope
}

// NewScope creates a root scope with no parent.
func NewScope() *Scope {
	return &Scope{symbols: make(map[string]*Symbol)}
}

// Enclosed creates a new scope nested inside s.
func (s *Scope) Enclosed() *Scope {
	return &Scope{symbols: make(map[string]*Symbol), outer: s}
}

// Define binds name in this scope. It returns false if name was already
// bound in this exact scope (not an outer one) — a same-scope redefinition.
func (s *Scope) Define(name string, kind SymbolKind, span diagnostics.Span) bool {
	if _, exists := s.symbols[name]; exists {
		return false
	}
	s.symbols[name] = &Symbol{Name: name, Kind: kind, Span: span}
	return true
}

// Shadows reports whether name is already bound in an enclosing scope (not
// this one), returning the shadowed symbol.
func (s *Scope) Shadows(name string) (*Symbol, bool) {
	for sc := s.outer; sc != nil; sc = sc.outer {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Resolve looks up name in this scope or any enclosing scope, marking it used.
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if sym, ok := sc.symbols[name]; ok {
			sym.Used = true
			return sym, true
		}
	}
	return nil, false
}

// OwnUnused returns the symbols defined directly in this scope (not an
// enclosing one) that were never resolved.
func (s *Scope) OwnUnused() []*Symbol {
	var out []*Symbol
	for _, sym := range s.symbols {
		if !sym.Used && sym.Kind == SymVariable {
			out = append(out, sym)
		}
	}
	return out
}
