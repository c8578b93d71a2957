package semantic

import "github.com/ibfleming/cminus/internal/ast"

// typeOf computes (and caches onto n.DataType) the type of expression
// node n, resolving identifiers, checking operator rules and recording
// diagnostics along the way. It returns ast.Undefined for anything that
// failed to type-check, which lets callers short-circuit further
// comparisons without cascading unrelated errors.
func (a *Analyzer) typeOf(n *ast.Node) ast.DataType {
	if n == nil {
		return ast.Undefined
	}
	switch n.Kind {
	case ast.CharConst:
		a.checkCharLiteral(n)
		return n.DataType
	case ast.NumConst, ast.StringConst, ast.BoolConst:
		return n.DataType
	case ast.Id:
		return a.resolveIdentifier(n)
	case ast.ArrIndex:
		return a.typeOfIndex(n)
	case ast.Call:
		return a.typeOfCall(n)
	case ast.Assign:
		return a.typeOfAssign(n)
	case ast.Or, ast.And:
		return a.typeOfLogical(n)
	case ast.Not:
		return a.typeOfNot(n)
	case ast.BinOp:
		return a.typeOfBinOp(n)
	case ast.ChSign:
		return a.typeOfChSign(n)
	case ast.SizeOf:
		return a.typeOfSizeOf(n)
	case ast.Ternary:
		return a.typeOfTernary(n)
	default:
		return ast.Undefined
	}
}

// checkCharLiteral warns when a char literal's source text isn't
// exactly one character: the lexer already degraded it to its first
// byte (or zero for an empty literal), but the anomaly itself is only
// diagnosable once the literal's text survives onto its AST node.
// Grounded on original_source's processChar.
func (a *Analyzer) checkCharLiteral(n *ast.Node) {
	switch len(n.Literal) {
	case 1:
		return
	case 0:
		a.reporter.Warnf(n.Line, "Character constant is empty: ''.  The first char will be used.")
	default:
		a.reporter.Warnf(n.Line, "Character constant is %d characters long and not a single character: '%s'.  The first char will be used.", len(n.Literal), n.Literal)
	}
}

// resolveIdentifier looks an Id or ArrIndex base up in scope, copies
// the declaration's layout/type fields onto the use site, and applies
// the use/init warn-once policy.
func (a *Analyzer) resolveIdentifier(n *ast.Node) ast.DataType {
	decl := a.table.Lookup(n.Literal)
	if decl == nil {
		a.reporter.Errorf(n.Line, "Symbol '%s' is not declared.", n.Literal)
		return ast.Undefined
	}
	if decl.Kind == ast.Func {
		a.reporter.Errorf(n.Line, "'%s' is a function and cannot be used as a variable.", n.Literal)
		return ast.Undefined
	}

	n.DataType = decl.DataType
	n.IsArray = decl.IsArray
	n.IsIndexed = decl.IsIndexed
	n.IsConst = decl.IsConst
	n.IsStatic = decl.IsStatic
	n.RefType = decl.RefType
	n.Size = decl.Size
	n.Location = decl.Location

	a.checkUseInit(decl, n)
	return n.DataType
}

// checkUseInit marks decl used and, on first read before initialization,
// emits the uninitialized-use warning and marks it initialized so the
// warning does not repeat.
func (a *Analyzer) checkUseInit(decl, use *ast.Node) {
	decl.IsUsed = true
	if !decl.IsInit {
		a.reporter.Warnf(use.Line, "Variable '%s' may be uninitialized when used here.", decl.Literal)
		decl.IsInit = true
	}
}

func (a *Analyzer) typeOfIndex(n *ast.Node) ast.DataType {
	base := n.Children[0]
	decl := a.table.Lookup(base.Literal)
	if decl == nil {
		a.reporter.Errorf(base.Line, "Symbol '%s' is not declared.", base.Literal)
		return ast.Undefined
	}
	if !decl.IsArray {
		a.reporter.Errorf(n.Line, "'%s' is not an array and cannot be indexed.", base.Literal)
	}
	a.checkUseInit(decl, base)

	base.DataType = decl.DataType
	base.RefType = decl.RefType
	base.Size = decl.Size
	base.Location = decl.Location

	idx := a.typeOf(n.Children[1])
	if idx != ast.Int && idx != ast.Undefined {
		a.reporter.Errorf(n.Children[1].Line, "Array index must be of type int.")
	}

	n.DataType = decl.DataType
	n.IsConst = decl.IsConst
	n.RefType = decl.RefType
	n.Size = decl.Size
	n.Location = decl.Location
	return n.DataType
}

func (a *Analyzer) typeOfCall(n *ast.Node) ast.DataType {
	fn := a.table.LookupGlobal(n.Literal)
	if fn == nil {
		fn = a.table.Lookup(n.Literal)
	}
	if fn == nil {
		a.reporter.Errorf(n.Line, "Symbol '%s' is not declared.", n.Literal)
		return ast.Undefined
	}
	if fn.Kind != ast.Func {
		a.reporter.Errorf(n.Line, "'%s' is a simple variable and cannot be called.", n.Literal)
		return ast.Undefined
	}
	fn.IsUsed = true

	args := make([]*ast.Node, 0, fn.ParmCount)
	for arg := n.Children[0]; arg != nil; arg = arg.Sibling {
		a.typeOf(arg)
		args = append(args, arg)
	}

	switch {
	case len(args) < fn.ParmCount:
		a.reporter.Errorf(n.Line, "Too few parameters passed for function '%s'.", n.Literal)
	case len(args) > fn.ParmCount:
		a.reporter.Errorf(n.Line, "Too many parameters passed for function '%s'.", n.Literal)
	default:
		for i, arg := range args {
			parm := fn.ParmList[i]
			if parm == nil {
				continue
			}
			if arg.DataType != ast.Undefined && arg.DataType != parm.DataType {
				a.reporter.Errorf(arg.Line, "Expecting type %s in parameter %d of call to '%s' but got type %s.",
					parm.DataType, i+1, n.Literal, arg.DataType)
			}
			if arg.IsArray != parm.IsArray {
				a.reporter.Errorf(arg.Line, "Expecting array status of parameter %d of call to '%s' to match but it does not.",
					i+1, n.Literal)
			}
		}
	}

	n.DataType = fn.DataType
	return n.DataType
}

func (a *Analyzer) typeOfAssign(n *ast.Node) ast.DataType {
	lhs := n.Children[0]
	rhs := n.Children[1]

	var lhsType ast.DataType
	switch lhs.Kind {
	case ast.Id:
		lhsType = a.resolveLValue(lhs)
	case ast.ArrIndex:
		lhsType = a.typeOfIndex(lhs)
	default:
		lhsType = a.typeOf(lhs)
	}

	switch n.TokenClass {
	case ast.ClassInc, ast.ClassDec:
		if lhsType != ast.Int && lhsType != ast.Undefined {
			a.reporter.Errorf(n.Line, "'%s' requires operand be of type int but is of type %s.", n.Literal, lhsType)
		}
		if lhs.IsArray {
			a.reporter.Errorf(n.Line, "'%s' requires operand not be an array.", n.Literal)
		}
		a.markInitialized(lhs)
		n.DataType = ast.Int
		return n.DataType
	}

	rhsType := a.typeOf(rhs)

	switch n.TokenClass {
	case ast.ClassAssign:
		if lhs.IsArray != isArrayExpr(rhs) {
			a.reporter.Errorf(n.Line, "'%s' requires both operands be arrays or not but lhs is %s and rhs is %s.",
				n.Literal, arrayDesc(lhs.IsArray), arrayDesc(isArrayExpr(rhs)))
		} else if lhsType != ast.Undefined && rhsType != ast.Undefined && lhsType != rhsType {
			a.reporter.Errorf(n.Line, "'%s' requires both operands be of the same type but lhs is %s and rhs is %s.",
				n.Literal, lhsType, rhsType)
		}
		n.DataType = lhsType
	default: // += -= *= /=
		if lhsType != ast.Int && lhsType != ast.Undefined {
			a.reporter.Errorf(n.Line, "'%s' requires both operands be of type int.", n.Literal)
		}
		if rhsType != ast.Int && rhsType != ast.Undefined {
			a.reporter.Errorf(n.Line, "'%s' requires both operands be of type int.", n.Literal)
		}
		n.DataType = lhsType
	}

	a.markInitialized(lhs)
	return n.DataType
}

// resolveLValue is resolveIdentifier without the use/init read-side
// warning: the left side of an assignment is a write, not a read.
func (a *Analyzer) resolveLValue(n *ast.Node) ast.DataType {
	decl := a.table.Lookup(n.Literal)
	if decl == nil {
		a.reporter.Errorf(n.Line, "Symbol '%s' is not declared.", n.Literal)
		return ast.Undefined
	}
	if decl.Kind == ast.Func {
		a.reporter.Errorf(n.Line, "'%s' is a function and cannot be used as a variable.", n.Literal)
		return ast.Undefined
	}
	n.DataType = decl.DataType
	n.IsArray = decl.IsArray
	n.RefType = decl.RefType
	n.Size = decl.Size
	n.Location = decl.Location
	decl.IsUsed = true
	return n.DataType
}

func (a *Analyzer) markInitialized(lhs *ast.Node) {
	name := lhs.Literal
	if lhs.Kind == ast.ArrIndex {
		name = lhs.Children[0].Literal
	}
	if decl := a.table.Lookup(name); decl != nil {
		decl.IsInit = true
	}
}

func isArrayExpr(n *ast.Node) bool {
	return n.Kind == ast.StringConst || n.IsArray
}

func (a *Analyzer) typeOfLogical(n *ast.Node) ast.DataType {
	lhs := a.typeOf(n.Children[0])
	rhs := a.typeOf(n.Children[1])
	op := "or"
	if n.Kind == ast.And {
		op = "and"
	}
	if (lhs != ast.Bool && lhs != ast.Undefined) || (rhs != ast.Bool && rhs != ast.Undefined) {
		a.reporter.Errorf(n.Line, "'%s' requires both operands be of type bool.", op)
	}
	n.DataType = ast.Bool
	return ast.Bool
}

func (a *Analyzer) typeOfNot(n *ast.Node) ast.DataType {
	t := a.typeOf(n.Children[0])
	if t != ast.Bool && t != ast.Undefined {
		a.reporter.Errorf(n.Line, "'not' requires operand be of type bool.")
	}
	n.DataType = ast.Bool
	return ast.Bool
}

var relationalClasses = map[ast.TokenClass]bool{
	ast.ClassLT: true, ast.ClassGT: true, ast.ClassEQ: true,
	ast.ClassNE: true, ast.ClassNLT: true, ast.ClassNGT: true,
}

func (a *Analyzer) typeOfBinOp(n *ast.Node) ast.DataType {
	lhs := n.Children[0]
	rhs := n.Children[1]
	lhsType := a.typeOf(lhs)
	rhsType := a.typeOf(rhs)

	if relationalClasses[n.TokenClass] {
		if isArrayExpr(lhs) != isArrayExpr(rhs) {
			a.reporter.Errorf(n.Line, "'%s' requires both operands be arrays or not but lhs is %s and rhs is %s.",
				n.Literal, arrayDesc(isArrayExpr(lhs)), arrayDesc(isArrayExpr(rhs)))
		} else if lhsType != ast.Undefined && rhsType != ast.Undefined && lhsType != rhsType {
			a.reporter.Errorf(n.Line, "'%s' requires both operands be of the same type but lhs is %s and rhs is %s.",
				n.Literal, lhsType, rhsType)
		}
		n.DataType = ast.Bool
		return ast.Bool
	}

	// Arithmetic: + - * / %
	if (lhsType != ast.Int && lhsType != ast.Undefined) || (rhsType != ast.Int && rhsType != ast.Undefined) {
		a.reporter.Errorf(n.Line, "'%s' requires both operands be of type int.", n.Literal)
	}
	if isArrayExpr(lhs) && !lhs.IsIndexed {
		a.reporter.Errorf(n.Line, "'%s' requires operand not be an array.", n.Literal)
	}
	if isArrayExpr(rhs) && !rhs.IsIndexed {
		a.reporter.Errorf(n.Line, "'%s' requires operand not be an array.", n.Literal)
	}
	n.DataType = ast.Int
	return ast.Int
}

func (a *Analyzer) typeOfChSign(n *ast.Node) ast.DataType {
	t := a.typeOf(n.Children[0])
	if t != ast.Int && t != ast.Undefined {
		a.reporter.Errorf(n.Line, "'chsign' requires operand be of type int.")
	}
	if n.Children[0].IsArray {
		a.reporter.Errorf(n.Line, "'chsign' requires operand not be an array.")
	}
	n.DataType = ast.Int
	return ast.Int
}

func (a *Analyzer) typeOfSizeOf(n *ast.Node) ast.DataType {
	operand := n.Children[0]
	t := a.typeOf(operand)
	_ = t
	if !operand.IsArray {
		a.reporter.Errorf(n.Line, "'sizeof' requires operand be an array.")
	}
	n.DataType = ast.Int
	return ast.Int
}

func (a *Analyzer) typeOfTernary(n *ast.Node) ast.DataType {
	t := a.typeOf(n.Children[0])
	if t != ast.Int && t != ast.Undefined {
		a.reporter.Errorf(n.Line, "'?' requires operand be of type int.")
	}
	if n.Children[0].IsArray {
		a.reporter.Errorf(n.Line, "'?' requires operand not be an array.")
	}
	n.DataType = ast.Int
	return ast.Int
}
