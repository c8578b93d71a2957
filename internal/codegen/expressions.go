package codegen

import "github.com/ibfleming/cminus/internal/ast"

// push stores AC at the current temporary slot and decrements toffset,
// returning the slot used. genExpr leaves its result in AC by
// convention, so this is how a value survives across a nested
// evaluation that will itself clobber AC.
func (g *Generator) push(comment string) int {
	slot := g.toffset
	g.buf.EmitRM(ST, AC, slot, FP, comment)
	g.toffset--
	return slot
}

// pop restores toffset and reloads the pushed value into reg.
func (g *Generator) pop(reg int, comment string) {
	g.toffset++
	g.buf.EmitRM(LD, reg, g.toffset, FP, comment)
}

// genExpr emits code for n, leaving its value in AC.
func (g *Generator) genExpr(n *ast.Node) {
	switch n.Kind {
	case ast.NumConst, ast.BoolConst:
		g.buf.EmitRM(LDC, AC, n.Payload.Int, AC3, "load constant")
	case ast.CharConst:
		g.buf.EmitRM(LDC, AC, int(n.Payload.Char), AC3, "load constant")
	case ast.StringConst:
		g.buf.EmitStrLit(n.Location, refReg(n), n.Payload.Str)
		g.buf.EmitRM(LDA, AC, n.Location, refReg(n), "load address of string literal")
	case ast.Id:
		g.genLoadID(n)
	case ast.ArrIndex:
		g.genElemAddr(n)
		g.buf.EmitRM(LD, AC, 0, AC, "load array element")
	case ast.Call:
		g.genCall(n)
	case ast.Assign:
		g.genAssign(n)
	case ast.Or, ast.And:
		g.genLogical(n)
	case ast.Not:
		g.genNot(n)
	case ast.BinOp:
		g.genBinOp(n)
	case ast.ChSign:
		g.genChSign(n)
	case ast.SizeOf:
		g.genSizeOf(n)
	case ast.Ternary:
		g.genTernary(n)
	}
}

// genLoadID loads an identifier's value (or, for an array, its base
// address) into AC. A parameter array already holds a base address in
// its slot, so it loads rather than takes the address of its slot.
func (g *Generator) genLoadID(n *ast.Node) {
	if n.IsArray {
		if n.RefType == ast.ParameterRef {
			g.buf.EmitRM(LD, AC, n.Location, refReg(n), "load array base of "+n.Literal)
		} else {
			g.buf.EmitRM(LDA, AC, n.Location, refReg(n), "load array base of "+n.Literal)
		}
		return
	}
	g.buf.EmitRM(LD, AC, n.Location, refReg(n), "load "+n.Literal)
}

// genElemAddr emits the address of n (an ArrIndex node) into AC. Arrays
// grow downward from their base, so the element address is base minus
// index.
func (g *Generator) genElemAddr(n *ast.Node) {
	base := n.Children[0]
	g.genLoadID(base)
	g.push("save array base")
	g.genExpr(n.Children[1])
	g.pop(AC1, "reload array base")
	g.buf.EmitRO(SUB, AC, AC1, AC, "address of "+base.Literal+"[...]")
}

func (g *Generator) genSizeOf(n *ast.Node) {
	operand := n.Children[0]
	g.buf.EmitRM(LD, AC, operand.Location+1, refReg(operand), "load size of "+operand.Literal)
}

func (g *Generator) genChSign(n *ast.Node) {
	g.genExpr(n.Children[0])
	g.buf.EmitRM(LDC, AC1, 0, AC3, "zero")
	g.buf.EmitRO(SUB, AC, AC1, AC, "negate")
}

// genTernary implements the postfix '?' operator: a random integer in
// [0, operand).
func (g *Generator) genTernary(n *ast.Node) {
	g.genExpr(n.Children[0])
	g.buf.EmitRO(RND, AC, AC, AC3, "op ?")
}

func (g *Generator) genNot(n *ast.Node) {
	g.genExpr(n.Children[0])
	g.buf.EmitRM(LDC, AC1, 0, AC3, "zero")
	g.buf.EmitRO(TEQ, AC, AC, AC1, "negate boolean")
}

func (g *Generator) genLogical(n *ast.Node) {
	g.genExpr(n.Children[0])
	g.push("save lhs")
	g.genExpr(n.Children[1])
	g.pop(AC1, "reload lhs")
	op := OR
	comment := "op or"
	if n.Kind == ast.And {
		op = AND
		comment = "op and"
	}
	g.buf.EmitRO(op, AC, AC1, AC, comment)
}

var binOpcodes = map[ast.TokenClass]OpCode{
	ast.ClassPlus:   ADD,
	ast.ClassMinus:  SUB,
	ast.ClassTimes:  MUL,
	ast.ClassDivide: DIV,
	ast.ClassMod:    MOD,
	ast.ClassLT:     TLT,
	ast.ClassGT:     TGT,
	ast.ClassEQ:     TEQ,
	ast.ClassNE:     TNE,
	ast.ClassNLT:    TGE,
	ast.ClassNGT:    TLE,
}

// genBinOp emits LHS, pushes it, emits RHS, reloads LHS, then the
// comparison/arithmetic instruction. Char-array equality additionally
// picks the shorter of the two sizes and runs a cooperative compare
// before reducing the result to a boolean.
func (g *Generator) genBinOp(n *ast.Node) {
	lhs := n.Children[0]
	rhs := n.Children[1]

	g.genExpr(lhs)
	g.push("push left side")
	g.genExpr(rhs)
	g.pop(AC1, "pop left into ac1")

	if lhs.IsArray && rhs.IsArray && lhs.DataType == ast.Char {
		g.buf.EmitRM(LD, AC2, 1, AC, "size of rhs")
		g.buf.EmitRM(LD, AC3, 1, AC1, "size of lhs")
		g.buf.EmitRO(SWP, AC2, AC3, AC3, "pick smallest size")
		g.buf.EmitRO(CO, AC1, AC, AC2, "compare array contents")
		op := binOpcodes[n.TokenClass]
		g.buf.EmitRO(op, AC, AC1, AC, n.Literal)
		return
	}

	op, ok := binOpcodes[n.TokenClass]
	if !ok {
		op = ADD
	}
	g.buf.EmitRO(op, AC, AC1, AC, n.Literal)
}

var compoundOpcodes = map[ast.TokenClass]OpCode{
	ast.ClassAddAss: ADD,
	ast.ClassSubAss: SUB,
	ast.ClassMulAss: MUL,
	ast.ClassDivAss: DIV,
}

// genAssign dispatches the five assignment-family node shapes the
// parser produces for '<=' and the token class carried in the Assign
// node: plain assignment, the four compound arithmetic forms, and
// postfix '++'/'--'. The result is left in AC, since an assignment is
// itself usable as an expression.
func (g *Generator) genAssign(n *ast.Node) {
	lhs := n.Children[0]
	switch n.TokenClass {
	case ast.ClassInc, ast.ClassDec:
		g.genIncDec(n, lhs)
	case ast.ClassAssign:
		g.genPlainAssign(n, lhs, n.Children[1])
	default:
		g.genCompoundAssign(n, lhs, n.Children[1])
	}
}

func (g *Generator) genPlainAssign(n, lhs, rhs *ast.Node) {
	if lhs.Kind == ast.ArrIndex {
		g.genElemAddr(lhs)
		g.push("save element address")
		g.genExpr(rhs)
		g.pop(AC1, "reload element address")
		g.buf.EmitRM(ST, AC, 0, AC1, "store array element")
		return
	}

	if lhs.IsArray && rhs.Kind == ast.StringConst {
		g.buf.EmitStrLit(lhs.Location, refReg(lhs), rhs.Payload.Str)
		return
	}

	if lhs.IsArray && rhs.Kind == ast.Id {
		// Whole-array copy: both sides already point at an array base;
		// copy the shorter of the two declared sizes.
		g.genLoadID(rhs)
		g.push("save rhs base")
		g.genLoadID(lhs)
		g.pop(AC1, "reload rhs base")
		g.buf.EmitRM(LD, AC2, 1, AC1, "size of rhs")
		g.buf.EmitRM(LD, AC3, 1, AC, "size of lhs")
		g.buf.EmitRO(SWP, AC2, AC3, AC3, "pick smallest size")
		g.buf.EmitRO(MOV, AC, AC1, AC2, "copy array contents")
		return
	}

	g.genExpr(rhs)
	g.buf.EmitRM(ST, AC, lhs.Location, refReg(lhs), "store "+lhs.Literal)
}

func (g *Generator) genCompoundAssign(n, lhs, rhs *ast.Node) {
	op := compoundOpcodes[n.TokenClass]
	if lhs.Kind == ast.ArrIndex {
		g.genElemAddr(lhs)
		g.push("save element address")
		g.buf.EmitRM(LD, AC1, 0, AC, "load old element value")
		g.genExpr(rhs)
		g.buf.EmitRO(op, AC, AC1, AC, n.Literal)
		g.pop(AC1, "reload element address")
		g.buf.EmitRM(ST, AC, 0, AC1, "store array element")
		return
	}

	g.genExpr(rhs)
	g.buf.EmitRM(LD, AC1, lhs.Location, refReg(lhs), "load "+lhs.Literal)
	g.buf.EmitRO(op, AC, AC1, AC, n.Literal)
	g.buf.EmitRM(ST, AC, lhs.Location, refReg(lhs), "store "+lhs.Literal)
}

func (g *Generator) genIncDec(n, lhs *ast.Node) {
	delta := 1
	if n.TokenClass == ast.ClassDec {
		delta = -1
	}

	if lhs.Kind == ast.ArrIndex {
		g.genElemAddr(lhs)
		g.push("save element address")
		g.buf.EmitRM(LD, AC, 0, AC, "load old element value")
		g.buf.EmitRM(LDA, AC, delta, AC, "increment/decrement")
		g.pop(AC1, "reload element address")
		g.buf.EmitRM(ST, AC, 0, AC1, "store array element")
		return
	}

	g.buf.EmitRM(LD, AC, lhs.Location, refReg(lhs), "load "+lhs.Literal)
	g.buf.EmitRM(LDA, AC, delta, AC, "increment/decrement")
	g.buf.EmitRM(ST, AC, lhs.Location, refReg(lhs), "store "+lhs.Literal)
}
