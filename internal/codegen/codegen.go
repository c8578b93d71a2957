// Package codegen turns a laid-out AST into TM assembly. Generation is a
// single depth-first walk over the library routines followed by the user
// program; the one forward reference it cannot resolve in that single
// pass — a call to a function whose body hasn't been emitted yet — is
// handled the same way every other forward jump in this generator is
// handled: reserve the instruction, record what needs patching, and fix
// it up once the address is known.
package codegen

import (
	"github.com/ibfleming/cminus/internal/ast"
	"github.com/ibfleming/cminus/internal/errors"
	"github.com/ibfleming/cminus/internal/semantic"
)

// pendingCall is a call-site JMP whose target function hadn't been
// generated yet when the call was emitted.
type pendingCall struct {
	addr   int
	target *ast.Node
}

// Generator walks the tree once and emits a Buffer of TM instructions.
// It owns no nodes; it only reads the layout/type annotations semantic
// analysis and the layout pass already wrote onto them.
type Generator struct {
	buf      *Buffer
	reporter *errors.Reporter
	table    *semantic.Table
	goffset  int

	currentFunc *ast.Node
	toffset     int

	loops       []*ast.Node
	returnJumps []int
	pending     []pendingCall
}

// Generate emits TM assembly for root (library routines plus user
// program, in that sibling order) and returns the finished buffer.
// goffset is the lowest global offset layout.Run assigned, used to size
// the frame-pointer bootstrap in the init section.
func Generate(root *ast.Node, table *semantic.Table, goffset int, r *errors.Reporter) *Buffer {
	g := &Generator{buf: NewBuffer(), reporter: r, table: table, goffset: goffset}

	jumpToInit := g.buf.EmitSkip(1)
	g.buf.EmitComment("C- Compilation to TM Code")
	g.buf.EmitComment("Standard prelude")

	g.genDecls(root)
	g.resolvePendingCalls()

	initAddr := g.buf.EmitWhereAmI()
	g.buf.EmitNewLoc(jumpToInit)
	g.buf.EmitRM(JMP, PC, initAddr-jumpToInit-1, PC, "jump around i/o routines")
	g.buf.Restore()

	g.genInit(initAddr)

	return g.buf
}

func (g *Generator) genDecls(n *ast.Node) {
	for cur := n; cur != nil; cur = cur.Sibling {
		if cur.Kind == ast.Func {
			g.genFunc(cur)
		}
	}
}

// genFunc emits one function's prologue, body and epilogue. Library
// routines (IsLib) get a synthetic body built from IN/OUT instead of a
// user Compound, since they have no source statements of their own.
func (g *Generator) genFunc(fn *ast.Node) {
	fn.Address = g.buf.EmitWhereAmI()
	g.buf.EmitComment("Function: " + fn.Literal)
	g.buf.EmitRM(ST, AC, -1, FP, "store return address")

	outerFunc := g.currentFunc
	outerReturnJumps := g.returnJumps
	outerToffset := g.toffset
	g.currentFunc = fn
	g.returnJumps = nil
	if fn.IsLib {
		g.toffset = -3
	} else {
		g.toffset = fn.Location
	}

	if fn.IsLib {
		g.genLibBody(fn)
	} else if body := fn.Children[1]; body != nil {
		g.genCompound(body)
	}

	g.buf.EmitRM(LDC, RET, 0, AC3, "set return value to 0 (fallthrough)")
	restoreAddr := g.buf.EmitWhereAmI()
	g.buf.EmitRM(LD, AC, -1, FP, "load return address")
	g.buf.EmitRM(LD, FP, 0, FP, "restore caller's frame pointer")
	g.buf.EmitRM(JMP, PC, 0, AC, "return")

	for _, addr := range g.returnJumps {
		g.buf.EmitNewLoc(addr)
		g.buf.EmitRM(JMP, PC, restoreAddr-addr-1, PC, "jump to function exit")
	}
	g.buf.Restore()

	g.currentFunc = outerFunc
	g.returnJumps = outerReturnJumps
	g.toffset = outerToffset
}

// genLibBody emits the instructions that implement a built-in I/O
// routine directly on top of TM's IN/OUT primitives. A reading routine
// hands its value back the way a user return does: moved into RET, then
// a jump past the epilogue's fallthrough zero return value.
func (g *Generator) genLibBody(fn *ast.Node) {
	switch fn.Literal {
	case "input":
		g.buf.EmitRO(IN, AC, 0, 0, "read an integer")
	case "inputb":
		g.buf.EmitRO(IN, AC, 0, 0, "read a boolean")
	case "inputc":
		g.buf.EmitRO(IN, AC, 0, 0, "read a character")
	case "output", "outputb", "outputc":
		g.buf.EmitRM(LD, AC, -2, FP, "load parameter")
		g.buf.EmitRO(OUT, AC, 0, 0, "write value")
	case "outnl":
		g.buf.EmitRM(LDC, AC, '\n', AC3, "newline character")
		g.buf.EmitRO(OUT, AC, 0, 0, "write newline")
	}
	if fn.DataType != ast.Void {
		g.buf.EmitRM(LDA, RET, 0, AC, "move return value")
		g.markReturn(g.buf.EmitSkip(1))
	}
}

// markReturn marks a return statement's exit JMP for later patching to
// the function's epilogue, which isn't known until the whole body has
// been generated.
func (g *Generator) markReturn(addr int) {
	g.returnJumps = append(g.returnJumps, addr)
}

func (g *Generator) resolvePendingCalls() {
	for _, call := range g.pending {
		g.buf.EmitNewLoc(call.addr)
		g.buf.EmitRM(JMP, PC, call.target.Address-call.addr-1, PC, "call "+call.target.Literal)
	}
	g.buf.Restore()
}

// genInit emits the bootstrap block the leading JMP at address 0
// redirects to: it sets up the frame pointer, runs global initializers,
// stores global array sizes, then transfers to main.
func (g *Generator) genInit(_ int) {
	g.buf.EmitComment("Init section")
	g.buf.EmitRM(LDC, FP, g.goffset, AC3, "set first frame at goffset")
	g.buf.EmitRM(ST, FP, 0, FP, "store fp at goffset")

	for _, decl := range g.table.GlobalDeclarations() {
		g.genGlobalInit(decl)
	}

	main := g.table.LookupGlobal("main")
	g.buf.EmitRM(LDA, AC, 1, PC, "return address for ghost call to main")
	if main != nil {
		callAddr := g.buf.EmitWhereAmI()
		g.buf.EmitRM(JMP, PC, main.Address-callAddr-1, PC, "jump to main")
	}
	g.buf.EmitRO(HALT, 0, 0, 0, "end of execution")
}

// genGlobalInit emits the constant-initializer store for one global
// declaration, and the array-size store for any global array.
func (g *Generator) genGlobalInit(decl *ast.Node) {
	if decl.IsArray {
		sizeLoc := decl.Location + 1
		g.buf.EmitRM(LDC, AC, decl.Size-1, AC3, "array size constant")
		g.buf.EmitRM(ST, AC, sizeLoc, GP, "store size for array "+decl.Literal)
	}

	init := decl.Children[1]
	if init == nil {
		return
	}
	switch init.Kind {
	case ast.StringConst:
		g.buf.EmitStrLit(decl.Location, GP, init.Payload.Str)
	case ast.NumConst:
		g.buf.EmitRM(LDC, AC, init.Payload.Int, AC3, "constant initializer")
		g.buf.EmitRM(ST, AC, decl.Location, GP, "initialize "+decl.Literal)
	case ast.CharConst:
		g.buf.EmitRM(LDC, AC, int(init.Payload.Char), AC3, "constant initializer")
		g.buf.EmitRM(ST, AC, decl.Location, GP, "initialize "+decl.Literal)
	case ast.BoolConst:
		g.buf.EmitRM(LDC, AC, init.Payload.Int, AC3, "constant initializer")
		g.buf.EmitRM(ST, AC, decl.Location, GP, "initialize "+decl.Literal)
	}
}

// refReg returns the register a declaration's ref_type loads/stores
// relative to: FP for Local and Parameter storage, GP for Global and
// Static.
func refReg(n *ast.Node) int {
	switch n.RefType {
	case ast.LocalRef, ast.ParameterRef:
		return FP
	default:
		return GP
	}
}
