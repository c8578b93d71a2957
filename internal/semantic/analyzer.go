package semantic

import (
	"github.com/ibfleming/cminus/internal/ast"
	"github.com/ibfleming/cminus/internal/errors"
	"github.com/ibfleming/cminus/internal/library"
)

// loopFrame tracks one level of loop nesting so Break can find the
// address it needs to jump past; BreakAddress is filled in by the code
// generator once the loop's exit slot is reserved, but the analyzer
// still needs to know whether a Break is lexically inside a loop at
// all.
type loopFrame struct {
	node *ast.Node
}

// Analyzer walks a parsed AST and annotates it in place: data types,
// resolved identifiers, initialization state and diagnostics. It owns
// no nodes; it only mutates the tree handed to it and reports through
// Reporter.
type Analyzer struct {
	table    *Table
	reporter *errors.Reporter

	currentFunc *ast.Node
	loops       []loopFrame
}

// NewAnalyzer returns an Analyzer with an empty symbol table and
// diagnostic stream.
func NewAnalyzer(r *errors.Reporter) *Analyzer {
	return &Analyzer{table: NewTable(), reporter: r}
}

// Table exposes the underlying symbol table, consulted by the code
// generator for global declarations and lookups.
func (a *Analyzer) Table() *Table { return a.table }

// Analyze runs the full semantic pass over program, which should not
// yet include the I/O library: Analyze synthesizes and inserts it
// itself so callers never have to remember the ordering.
func (a *Analyzer) Analyze(program *ast.Node) *ast.Node {
	root := library.Synthesize(program)

	for n := root; n != nil && n.IsLib; n = n.Sibling {
		n.IsUsed = true
		a.table.InsertGlobal(n.Literal, n)
	}

	a.traverseGlobals(root)
	a.traverse(root)

	// main is entered from the init section, never from user code.
	if m := a.table.LookupGlobal("main"); m != nil && m.Kind == ast.Func {
		m.IsUsed = true
	}
	a.table.CheckUnusedGlobal(a.reporter)
	a.checkMain()

	return root
}

// checkMain enforces the post-pass linker check: exactly one
// zero-parameter function named "main" must exist.
func (a *Analyzer) checkMain() {
	n := a.table.LookupGlobal("main")
	if n == nil || n.Kind != ast.Func || n.ParmCount != 0 {
		a.reporter.LinkerErrorf("A function named 'main' with no parameters must be defined.")
	}
}

// traverseGlobals walks only the top-level sibling chain, inserting
// function and global-variable declarations into the global scope
// ahead of the main traversal. This mirrors the language's lack of a
// forward-declaration requirement: a function may call another
// function declared later in the file.
func (a *Analyzer) traverseGlobals(program *ast.Node) {
	for n := program; n != nil; n = n.Sibling {
		if n.IsLib {
			continue
		}
		switch n.Kind {
		case ast.Func, ast.Var, ast.VarArr, ast.Static:
			a.declareGlobal(n)
		}
	}
}

func (a *Analyzer) declareGlobal(n *ast.Node) {
	if existing := a.table.LookupGlobal(n.Literal); existing != nil {
		a.reporter.Errorf(n.Line, "Symbol '%s' is already declared at line %d.", n.Literal, existing.Line)
		return
	}
	a.table.InsertGlobal(n.Literal, n)
}

// traverse is the main depth-first walk: visit each child in order,
// then the sibling. Declaration kinds are type-checked and (re-)bound
// here even though globals were already inserted by traverseGlobals,
// since traverseGlobals only registers the symbol — initializer
// checking and scope bookkeeping for locals still happens here.
func (a *Analyzer) traverse(n *ast.Node) {
	for cur := n; cur != nil; cur = cur.Sibling {
		a.visit(cur)
	}
}

func (a *Analyzer) visit(n *ast.Node) {
	if n == nil || n.IsLib {
		return
	}
	switch n.Kind {
	case ast.Var, ast.VarArr, ast.Static:
		a.visitVarDecl(n)
	case ast.Func:
		a.visitFunc(n)
	case ast.Parm, ast.ParmArr:
		// Parameters are declared by visitFunc when the function scope
		// is entered; reached only if walked directly, a no-op.
	case ast.Compound:
		a.visitCompound(n, false)
	case ast.If:
		a.visitIf(n)
	case ast.While:
		a.visitWhile(n)
	case ast.For:
		a.visitFor(n)
	case ast.Return:
		a.visitReturn(n)
	case ast.Break:
		a.visitBreak(n)
	default:
		// Anything else reached directly as a statement is an
		// expression statement.
		a.typeOf(n)
	}
}

func (a *Analyzer) visitFunc(n *ast.Node) {
	if existing := a.table.LookupScope(n.Literal); existing != nil && existing != n {
		a.reporter.Errorf(n.Line, "Symbol '%s' is already declared at line %d.", n.Literal, existing.Line)
	}

	outerFunc := a.currentFunc
	a.currentFunc = n
	a.table.Enter(n.Literal)

	for p := n.Children[0]; p != nil; p = p.Sibling {
		if existing := a.table.LookupScope(p.Literal); existing != nil {
			a.reporter.Errorf(p.Line, "Symbol '%s' is already declared at line %d.", p.Literal, existing.Line)
			continue
		}
		p.IsInit = true
		if p.Kind == ast.ParmArr {
			p.IsArray = true
		}
		a.table.Insert(p.Literal, p)
	}

	body := n.Children[1]
	if body != nil {
		a.visitCompound(body, true)
		n.HasReturn = bodyHasReturn(body)
		if n.DataType != ast.Void && !n.HasReturn {
			a.reporter.Warnf(n.Line, "Function '%s' has a non-void return type but no return statement.", n.Literal)
		}
	}

	a.table.CheckUnused(a.reporter)
	a.table.Leave()
	a.currentFunc = outerFunc
}

// bodyHasReturn reports whether a Return statement appears anywhere in
// n's chain, including inside nested blocks, branches and loop bodies.
func bodyHasReturn(n *ast.Node) bool {
	for cur := n; cur != nil; cur = cur.Sibling {
		if cur.Kind == ast.Return {
			return true
		}
		for _, c := range cur.Children {
			if bodyHasReturn(c) {
				return true
			}
		}
	}
	return false
}

// visitCompound pushes a "Compound" scope unless isFunctionBody is
// true, in which case the compound's declarations and statements are
// merged into the already-pushed function scope (one push per
// function, per §4.3).
func (a *Analyzer) visitCompound(n *ast.Node, isFunctionBody bool) {
	if !isFunctionBody {
		a.table.Enter("Compound")
	}

	for d := n.Children[0]; d != nil; d = d.Sibling {
		a.visitVarDecl(d)
	}
	a.traverse(n.Children[1])

	if !isFunctionBody {
		a.table.CheckUnused(a.reporter)
		a.table.Leave()
	}
}

func (a *Analyzer) visitVarDecl(n *ast.Node) {
	if n.IsStatic {
		if existing := a.table.LookupGlobal(n.Literal); existing != nil && existing != n {
			a.reporter.Errorf(n.Line, "Symbol '%s' is already declared at line %d.", n.Literal, existing.Line)
		}
	} else if existing := a.table.LookupScope(n.Literal); existing != nil && existing != n {
		a.reporter.Errorf(n.Line, "Symbol '%s' is already declared at line %d.", n.Literal, existing.Line)
		return
	}

	if n.IsStatic {
		n.IsInit = true
	}

	initChild := n.Children[1]

	if initChild != nil {
		if initChild.Kind != ast.Id {
			a.typeOf(initChild)
		}
		a.checkInitializer(n, initChild)
		n.IsInit = true
	}

	if n.IsStatic {
		a.table.InsertStatic(n.Literal, n)
	} else {
		a.table.Insert(n.Literal, n)
	}
}

func (a *Analyzer) checkInitializer(target, init *ast.Node) {
	if init.Kind == ast.Id {
		a.reporter.Errorf(init.Line, "Initializer for variable '%s' is not a constant expression.", target.Literal)
		return
	}
	initIsArray := init.Kind == ast.StringConst
	if target.IsArray != initIsArray {
		a.reporter.Errorf(init.Line, "'%s' requires both operands be arrays or not but lhs is %s and rhs is %s.",
			"<=", arrayDesc(target.IsArray), arrayDesc(initIsArray))
		return
	}
	if init.Kind != ast.StringConst && init.DataType != ast.Undefined && init.DataType != target.DataType {
		a.reporter.Errorf(init.Line, "'%s' is of type %s but is assigned a value of type %s.",
			target.Literal, target.DataType, init.DataType)
	}
}

func arrayDesc(isArray bool) string {
	if isArray {
		return "an array"
	}
	return "not an array"
}
