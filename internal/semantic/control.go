package semantic

import "github.com/ibfleming/cminus/internal/ast"

func (a *Analyzer) visitIf(n *ast.Node) {
	a.checkBoolCondition(n.Children[0], "if")
	a.visit(n.Children[1])
	if n.Children[2] != nil {
		a.visit(n.Children[2])
	}
}

func (a *Analyzer) visitWhile(n *ast.Node) {
	a.checkBoolCondition(n.Children[0], "while")
	a.loops = append(a.loops, loopFrame{node: n})
	a.visit(n.Children[1])
	a.loops = a.loops[:len(a.loops)-1]
}

func (a *Analyzer) checkBoolCondition(cond *ast.Node, construct string) {
	t := a.typeOf(cond)
	if t != ast.Bool && t != ast.Undefined {
		a.reporter.Errorf(cond.Line, "'%s' requires condition be of type bool.", construct)
	}
	if cond.IsArray {
		a.reporter.Errorf(cond.Line, "'%s' requires condition not be an array.", construct)
	}
}

func (a *Analyzer) visitFor(n *ast.Node) {
	ctrl := n.Children[0]
	rng := n.Children[1]
	body := n.Children[2]

	a.table.Enter("For")
	a.table.Insert(ctrl.Literal, ctrl)
	ctrl.DataType = ast.Int
	ctrl.IsInit = true

	a.checkRangeOperand(rng.Children[0])
	a.checkRangeOperand(rng.Children[1])
	if rng.Children[2] != nil {
		a.checkRangeOperand(rng.Children[2])
	}

	a.loops = append(a.loops, loopFrame{node: n})
	a.visit(body)
	a.loops = a.loops[:len(a.loops)-1]

	a.table.CheckUnused(a.reporter)
	a.table.Leave()
}

func (a *Analyzer) checkRangeOperand(n *ast.Node) {
	t := a.typeOf(n)
	if t != ast.Int && t != ast.Undefined {
		a.reporter.Errorf(n.Line, "'for' range bound must be of type int.")
	}
	if n.IsArray {
		a.reporter.Errorf(n.Line, "'for' range bound must not be an array.")
	}
	if n.Kind == ast.Id {
		if decl := a.table.Lookup(n.Literal); decl != nil && decl.Kind == ast.Func {
			a.reporter.Errorf(n.Line, "'for' range bound must not be a function.")
		}
	}
}

func (a *Analyzer) visitReturn(n *ast.Node) {
	value := n.Children[0]
	if a.currentFunc == nil {
		return
	}
	if a.currentFunc.DataType == ast.Void {
		if value != nil {
			a.reporter.Errorf(n.Line, "Function '%s' at line %d is expecting no return value.",
				a.currentFunc.Literal, a.currentFunc.Line)
		}
		return
	}
	if value == nil {
		a.reporter.Errorf(n.Line, "Function '%s' at line %d is expecting a return value of type %s.",
			a.currentFunc.Literal, a.currentFunc.Line, a.currentFunc.DataType)
		return
	}
	t := a.typeOf(value)
	if value.IsArray {
		a.reporter.Errorf(n.Line, "Function '%s' at line %d cannot return an array.", a.currentFunc.Literal, a.currentFunc.Line)
		return
	}
	if t != ast.Undefined && t != a.currentFunc.DataType {
		a.reporter.Errorf(n.Line, "Function '%s' at line %d is expecting a return value of type %s but got type %s.",
			a.currentFunc.Literal, a.currentFunc.Line, a.currentFunc.DataType, t)
	}
}

// visitBreak enforces the design decision recorded for this project's
// open question on break placement: a break lexically outside any
// loop is a semantic error raised here, not a code-generation-time
// failure.
func (a *Analyzer) visitBreak(n *ast.Node) {
	if len(a.loops) == 0 {
		a.reporter.Errorf(n.Line, "Cannot have a break statement outside of a loop.")
	}
}
