package semantic

import (
	"github.com/ibfleming/cminus/internal/ast"
	"github.com/ibfleming/cminus/internal/errors"
)

// staticSuffix marks a static local's entry in the global scope, keeping
// it from colliding with an unrelated global of the same name while
// still surviving the local scope's exit.
const staticSuffix = "-ST"

// scope is one named frame of the symbol-table stack. Order is
// insertion order, kept alongside the map so unused-declaration
// warnings are reported in a deterministic, source-like sequence.
type scope struct {
	name    string
	symbols map[string]*ast.Node
	order   []string
}

func newScope(name string) *scope {
	return &scope{name: name, symbols: make(map[string]*ast.Node)}
}

func (s *scope) insert(name string, n *ast.Node) bool {
	if _, exists := s.symbols[name]; exists {
		return false
	}
	s.symbols[name] = n
	s.order = append(s.order, name)
	return true
}

// Table is a stack of named scopes. The bottom scope is always named
// "Global" and is never popped.
type Table struct {
	scopes []*scope
}

// NewTable returns a Table with only the Global scope present.
func NewTable() *Table {
	return &Table{scopes: []*scope{newScope("Global")}}
}

// Enter pushes a new named scope.
func (t *Table) Enter(name string) {
	t.scopes = append(t.scopes, newScope(name))
}

// Leave pops the top scope. It is a no-op on the Global scope, which
// must never be removed.
func (t *Table) Leave() {
	if len(t.scopes) <= 1 {
		return
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Depth returns the stack height.
func (t *Table) Depth() int { return len(t.scopes) }

func (t *Table) top() *scope    { return t.scopes[len(t.scopes)-1] }
func (t *Table) global() *scope { return t.scopes[0] }

// Insert adds name into the current scope. It returns false if name is
// already present there.
func (t *Table) Insert(name string, n *ast.Node) bool {
	return t.top().insert(name, n)
}

// InsertGlobal adds name into the bottom scope regardless of current
// depth. It returns false if name is already present there.
func (t *Table) InsertGlobal(name string, n *ast.Node) bool {
	return t.global().insert(name, n)
}

// InsertStatic stores a static local under its globally-unique
// "<name>-ST" key so it outlives its declaring scope without clashing
// with an unrelated global of the same plain name.
func (t *Table) InsertStatic(name string, n *ast.Node) bool {
	return t.global().insert(name+staticSuffix, n)
}

// Lookup scans scopes innermost-out and returns the first hit, trying
// the static-rename fallback in the global scope before giving up.
func (t *Table) Lookup(name string) *ast.Node {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if n, ok := t.scopes[i].symbols[name]; ok {
			return n
		}
	}
	if n, ok := t.global().symbols[name+staticSuffix]; ok {
		return n
	}
	return nil
}

// LookupGlobal returns the bottom-scope entry for name, or nil,
// including the static-rename fallback.
func (t *Table) LookupGlobal(name string) *ast.Node {
	if n, ok := t.global().symbols[name]; ok {
		return n
	}
	if n, ok := t.global().symbols[name+staticSuffix]; ok {
		return n
	}
	return nil
}

// LookupScope returns the top-scope-only entry for name, or nil. It
// does not consult the static-rename fallback: a duplicate check
// against the current scope only cares about plain names declared
// there.
func (t *Table) LookupScope(name string) *ast.Node {
	if n, ok := t.top().symbols[name]; ok {
		return n
	}
	return nil
}

// GlobalDeclarations returns, in insertion order, the Var, VarArr and
// Static entries from the global scope, for init-section emission.
func (t *Table) GlobalDeclarations() []*ast.Node {
	var out []*ast.Node
	for _, name := range t.global().order {
		n := t.global().symbols[name]
		switch n.Kind {
		case ast.Var, ast.VarArr, ast.Static:
			out = append(out, n)
		}
	}
	return out
}

func declKindLabel(n *ast.Node) string {
	switch n.Kind {
	case ast.Func:
		return "Function"
	case ast.Parm, ast.ParmArr:
		return "Parameter"
	default:
		return "Variable"
	}
}

// CheckUnused reports an unused-declaration warning for every entry in
// the current scope whose IsUsed flag is false.
func (t *Table) CheckUnused(r *errors.Reporter) {
	checkUnusedIn(t.top(), r)
}

// CheckUnusedGlobal is the same check against the bottom scope, run
// once as a post-pass after the rest of analysis completes.
func (t *Table) CheckUnusedGlobal(r *errors.Reporter) {
	checkUnusedIn(t.global(), r)
}

func checkUnusedIn(s *scope, r *errors.Reporter) {
	for _, name := range s.order {
		n := s.symbols[name]
		if n.IsUsed || n.IsLib {
			continue
		}
		r.Warnf(n.Line, "%s '%s' is never used.", declKindLabel(n), n.Literal)
	}
}
