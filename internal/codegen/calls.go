package codegen

import "github.com/ibfleming/cminus/internal/ast"

// genCall emits a call using the ghost-frame convention: the callee's
// frame is built in the caller's own temporary space, one slot per
// saved FP, return address and parameter, then activated by pointing
// FP at it. A call to a function not yet generated (address still the
// unset sentinel of 0, which a real function can never occupy since
// address 0 belongs to the leading jump-around) is recorded as a
// pendingCall and patched once every function has been emitted.
func (g *Generator) genCall(n *ast.Node) {
	fn := g.table.LookupGlobal(n.Literal)

	savedToffset := g.toffset
	g.buf.EmitRM(ST, FP, g.toffset, FP, "store fp in ghost frame for "+n.Literal)
	g.toffset -= 2 // ghost frame's saved-FP and return-address slots

	for arg := n.Children[0]; arg != nil; arg = arg.Sibling {
		g.genExpr(arg)
		g.buf.EmitRM(ST, AC, g.toffset, FP, "push parameter")
		g.toffset--
	}

	g.toffset = savedToffset
	g.buf.EmitRM(LDA, FP, g.toffset, FP, "ghost frame becomes new active frame")
	g.buf.EmitRM(LDA, AC, 1, PC, "return address in ac")

	if fn != nil && fn.Address != 0 {
		here := g.buf.EmitWhereAmI()
		g.buf.EmitRM(JMP, PC, fn.Address-here-1, PC, "call "+n.Literal)
	} else {
		addr := g.buf.EmitSkip(1)
		if fn != nil {
			g.pending = append(g.pending, pendingCall{addr: addr, target: fn})
		}
	}
	g.buf.EmitRM(LDA, AC, 0, RET, "save the result in ac")
}
