package codegen

import "github.com/ibfleming/cminus/internal/ast"

// genCompound emits a function/block body: declarations first, in
// order (so every local's frame slot is reserved before any statement
// runs), then statements.
func (g *Generator) genCompound(n *ast.Node) {
	for d := n.Children[0]; d != nil; d = d.Sibling {
		g.genVarDecl(d)
	}
	g.genStmts(n.Children[1])
}

func (g *Generator) genStmts(n *ast.Node) {
	for cur := n; cur != nil; cur = cur.Sibling {
		g.genStmt(cur)
	}
}

func (g *Generator) genStmt(n *ast.Node) {
	switch n.Kind {
	case ast.Compound:
		g.genCompound(n)
	case ast.If:
		g.genIf(n)
	case ast.While:
		g.genWhile(n)
	case ast.For:
		g.genFor(n)
	case ast.Return:
		g.genReturn(n)
	case ast.Break:
		g.genBreak(n)
	default:
		g.genExpr(n)
	}
}

// genVarDecl emits a local declaration's runtime setup: an array stores
// its length one word above its base, and any initializer is evaluated
// and stored. A Static declaration is initialized once in the init
// section instead (see Generator.genGlobalInit) since it behaves like a
// global with function-local visibility.
func (g *Generator) genVarDecl(n *ast.Node) {
	if n.Kind == ast.Static {
		return
	}
	if n.IsArray {
		g.buf.EmitRM(LDC, AC, n.Size-1, AC3, "array size constant")
		g.buf.EmitRM(ST, AC, n.Location+1, refReg(n), "store size of "+n.Literal)
	}

	init := n.Children[1]
	if init == nil {
		return
	}
	if init.Kind == ast.StringConst {
		g.buf.EmitStrLit(n.Location, refReg(n), init.Payload.Str)
		return
	}
	g.genExpr(init)
	g.buf.EmitRM(ST, AC, n.Location, refReg(n), "initialize "+n.Literal)
}

// genIf backpatches a JZR past the then-branch (and, with an else
// branch, a JMP past the else-branch), following the compare-then-patch
// discipline used throughout this generator.
func (g *Generator) genIf(n *ast.Node) {
	cond, then, alt := n.Children[0], n.Children[1], n.Children[2]

	g.genExpr(cond)
	thenPatch := g.buf.EmitSkip(1)
	g.genStmt(then)

	if alt == nil {
		afterThen := g.buf.EmitWhereAmI()
		g.buf.EmitNewLoc(thenPatch)
		g.buf.EmitRM(JZR, AC, afterThen-thenPatch-1, PC, "jump around the then-branch if false")
		g.buf.Restore()
		return
	}

	elseJump := g.buf.EmitSkip(1)
	afterThen := g.buf.EmitWhereAmI()
	g.buf.EmitNewLoc(thenPatch)
	g.buf.EmitRM(JZR, AC, afterThen-thenPatch-1, PC, "jump around the then-branch if false")
	g.buf.Restore()

	g.genStmt(alt)
	afterElse := g.buf.EmitWhereAmI()
	g.buf.EmitNewLoc(elseJump)
	g.buf.EmitRM(JMP, PC, afterElse-elseJump-1, PC, "jump around the else-branch")
	g.buf.Restore()
}

// genWhile records the loop top, emits the condition test, reserves
// the loop's exit slot as its BreakAddress, emits the body, jumps back,
// then backpatches the exit.
func (g *Generator) genWhile(n *ast.Node) {
	loopTop := g.buf.EmitWhereAmI()
	g.genExpr(n.Children[0])
	g.buf.EmitRM(JNZ, AC, 1, PC, "jump to loop body")

	exitSlot := g.buf.EmitSkip(1)
	n.BreakAddress = exitSlot

	g.loops = append(g.loops, n)
	g.genStmt(n.Children[1])
	g.loops = g.loops[:len(g.loops)-1]

	here := g.buf.EmitWhereAmI()
	g.buf.EmitRM(JMP, PC, loopTop-here-1, PC, "go to beginning of loop")

	after := g.buf.EmitWhereAmI()
	g.buf.EmitNewLoc(exitSlot)
	g.buf.EmitRM(JMP, PC, after-exitSlot-1, PC, "jump past loop")
	g.buf.Restore()
}

// genFor evaluates the three range bounds into dedicated temporary
// slots (default step is 1), then loops while index < stop using SLT,
// incrementing the index by the step each iteration.
func (g *Generator) genFor(n *ast.Node) {
	ctrl := n.Children[0]
	rng := n.Children[1]
	body := n.Children[2]

	savedToffset := g.toffset
	g.toffset = ctrl.Location

	idxSlot := ctrl.Location
	stopSlot := idxSlot - 1
	stepSlot := idxSlot - 2

	g.genExpr(rng.Children[0])
	g.buf.EmitRM(ST, AC, idxSlot, FP, "save starting value in index variable")

	g.genExpr(rng.Children[1])
	g.buf.EmitRM(ST, AC, stopSlot, FP, "save stop value")

	if rng.Children[2] != nil {
		g.genExpr(rng.Children[2])
	} else {
		g.buf.EmitRM(LDC, AC, 1, AC3, "default increment by 1")
	}

	g.buf.EmitRM(ST, AC, stepSlot, FP, "save step value")

	loopTop := g.buf.EmitWhereAmI()
	g.buf.EmitRM(LD, AC1, idxSlot, FP, "loop index")
	g.buf.EmitRM(LD, AC2, stopSlot, FP, "stop value")
	g.buf.EmitRO(SLT, AC, AC1, AC2, "index < stop")
	g.buf.EmitRM(JNZ, AC, 1, PC, "jump to loop body")

	exitSlot := g.buf.EmitSkip(1)
	n.BreakAddress = exitSlot
	g.toffset = n.Size

	g.loops = append(g.loops, n)
	g.genStmt(body)
	g.loops = g.loops[:len(g.loops)-1]

	g.buf.EmitRM(LD, AC, idxSlot, FP, "load index")
	g.buf.EmitRM(LD, AC2, stepSlot, FP, "load step")
	g.buf.EmitRO(ADD, AC, AC, AC2, "increment")
	g.buf.EmitRM(ST, AC, idxSlot, FP, "store back to index")

	here := g.buf.EmitWhereAmI()
	g.buf.EmitRM(JMP, PC, loopTop-here-1, PC, "go to beginning of loop")

	after := g.buf.EmitWhereAmI()
	g.buf.EmitNewLoc(exitSlot)
	g.buf.EmitRM(JMP, PC, after-exitSlot-1, PC, "jump past loop")
	g.buf.Restore()

	g.toffset = savedToffset
}

// genReturn evaluates the return value (if any) into AC, moves it into
// RET, and jumps to the function's shared exit point. The jump target
// isn't known until the whole body is generated, so it goes on the
// pending-return list like every other forward reference here.
func (g *Generator) genReturn(n *ast.Node) {
	if val := n.Children[0]; val != nil {
		g.genExpr(val)
		g.buf.EmitRM(LDA, RET, 0, AC, "move return value")
	}
	addr := g.buf.EmitSkip(1)
	g.markReturn(addr)
}

// genBreak jumps to the innermost enclosing loop's break address, taken
// from the generator's own loop stack; the IsEmbedded flag set by
// layout's fix-up pass is not consulted.
func (g *Generator) genBreak(n *ast.Node) {
	if len(g.loops) == 0 {
		return
	}
	loop := g.loops[len(g.loops)-1]
	here := g.buf.EmitWhereAmI()
	g.buf.EmitRM(JMP, PC, loop.BreakAddress-here-1, PC, "break out of loop")
}
