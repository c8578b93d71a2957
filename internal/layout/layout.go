package layout

import "github.com/ibfleming/cminus/internal/ast"

// Layout carries the two offset counters the pass threads through the
// tree. toffset, the third counter from the specification, belongs to
// code generation instead: it is only ever touched while emitting
// instructions, never while deciding where a declaration lives.
type Layout struct {
	goffset int
	foffset int

	stringsDone map[*ast.Node]bool
}

// Run lays out every declaration reachable from root (the library
// routines prepended by semantic analysis, followed by the user
// program) and returns the Layout so callers can read the final
// goffset, e.g. to size the init section's frame-pointer bootstrap.
func Run(root *ast.Node) *Layout {
	l := &Layout{stringsDone: make(map[*ast.Node]bool)}
	l.visitChain(root, false)
	return l
}

// Goffset returns the lowest (most negative) global offset used, i.e.
// the total size of global storage.
func (l *Layout) Goffset() int { return l.goffset }

func (l *Layout) visitChain(n *ast.Node, inFunction bool) {
	for cur := n; cur != nil; cur = cur.Sibling {
		l.visit(cur, inFunction)
	}
}

func (l *Layout) visit(n *ast.Node, inFunction bool) {
	if n == nil || n.IsLib {
		return
	}
	switch n.Kind {
	case ast.Func:
		l.layoutFunc(n)
	case ast.Var, ast.VarArr, ast.Static:
		l.layoutVarDecl(n, inFunction)
	case ast.Compound:
		l.layoutCompound(n, inFunction)
	case ast.For:
		l.layoutFor(n, inFunction)
	case ast.While:
		l.layoutWhile(n, inFunction)
	case ast.Call:
		l.visitChain(n.Children[0], inFunction)
	case ast.StringConst:
		l.layoutBareString(n)
	default:
		for _, c := range n.Children {
			l.visit(c, inFunction)
		}
	}
}

// layoutFunc resets the frame counter to -2 (space for the saved FP
// and return address), lays out parameters in declaration order, then
// walks the body's declarations and statements directly: the body
// compound is merged into the function's own frame rather than
// pushing a nested one, so its declarations share foffset with the
// parameters instead of starting a fresh high-water mark.
func (l *Layout) layoutFunc(n *ast.Node) {
	l.foffset = -2
	n.Size = -2

	for p := n.Children[0]; p != nil; p = p.Sibling {
		l.layoutParam(p, n)
	}

	if body := n.Children[1]; body != nil {
		l.visitChain(body.Children[0], true)
		l.visitChain(body.Children[1], true)
	}

	// foffset now sits one past the function's own lowest local; code
	// generation starts handing out temporaries from here. Func has no
	// other use for Location, so it doubles as the frame's low-water mark.
	n.Location = l.foffset
}

func (l *Layout) layoutParam(p *ast.Node, fn *ast.Node) {
	p.RefType = ast.ParameterRef
	p.Location = l.foffset
	l.foffset -= p.Size
	fn.Size--
}

// layoutCompound handles a nested block (not a function's own body):
// its size is the frame high-water mark captured on entry, and
// foffset is restored on exit so sibling blocks reuse the same
// temporary space.
func (l *Layout) layoutCompound(n *ast.Node, inFunction bool) {
	if n.IsFunctionCompound {
		l.visitChain(n.Children[0], inFunction)
		l.visitChain(n.Children[1], inFunction)
		return
	}

	saved := l.foffset
	n.Size = l.foffset
	l.visitChain(n.Children[0], inFunction)
	l.visitChain(n.Children[1], inFunction)
	l.foffset = saved
}

// layoutFor allocates the control variable's slot first (it behaves
// like a declaration scoped to the loop), records the loop's frame
// size, lays out the range bounds and body, then restores foffset so
// the control variable's slot is reclaimed once the loop is left.
func (l *Layout) layoutFor(n *ast.Node, inFunction bool) {
	ctrl := n.Children[0]
	rng := n.Children[1]

	saved := l.foffset
	ctrl.RefType = ast.LocalRef
	ctrl.Size = 1
	ctrl.Location = l.foffset
	// Index, stop and step each get a slot; the body's own temporaries
	// and locals start one below the step slot.
	l.foffset -= 3
	n.Size = l.foffset

	l.visit(rng.Children[0], inFunction)
	l.visit(rng.Children[1], inFunction)
	if rng.Children[2] != nil {
		l.visit(rng.Children[2], inFunction)
	}

	l.visit(n.Children[2], inFunction)
	l.foffset = saved
}

// layoutWhile lays out the condition and body like any other nested
// construct, then applies the one correction a While loop needs that an
// ordinary block doesn't: unlike genFor, genWhile reserves no temporary
// slot before entering the body, so a declaration living directly in the
// body's Compound sits one slot higher than layoutCompound gave it, or
// codegen's expression-temporary pushes (which start at that same
// offset) will clobber it. Grounded on original_source's
// fix_memory_loops IterNT branch (`decl->location += 1`), which applies
// this only to declarations directly in the body, not ones nested
// further inside it.
func (l *Layout) layoutWhile(n *ast.Node, inFunction bool) {
	l.visit(n.Children[0], inFunction)
	body := n.Children[1]
	l.visit(body, inFunction)
	if body != nil && body.Kind == ast.Compound {
		for decl := body.Children[0]; decl != nil; decl = decl.Sibling {
			if decl.Kind == ast.Var || decl.Kind == ast.VarArr {
				decl.Location++
			}
		}
	}
}

func (l *Layout) layoutVarDecl(n *ast.Node, inFunction bool) {
	if n.Kind == ast.Static {
		l.allocateGlobal(n, ast.StaticRef)
		return
	}
	if !inFunction {
		l.allocateGlobal(n, ast.GlobalRef)
		return
	}

	n.RefType = ast.LocalRef
	n.Location = l.foffset
	if n.IsArray {
		n.Location--
	}
	l.foffset -= n.Size
}

func (l *Layout) allocateGlobal(n *ast.Node, refType ast.RefType) {
	if init := n.Children[1]; init != nil && init.Kind == ast.StringConst {
		l.layoutBareString(init)
	}
	n.RefType = refType
	n.Location = l.goffset
	if n.IsArray {
		n.Location--
	}
	l.goffset -= n.Size
}

func (l *Layout) layoutBareString(n *ast.Node) {
	if l.stringsDone[n] {
		return
	}
	l.stringsDone[n] = true
	n.RefType = ast.GlobalRef
	n.Location = l.goffset - 1
	l.goffset -= n.Size
}
