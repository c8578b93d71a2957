package library

import "github.com/ibfleming/cminus/internal/ast"

// routine sizes mirror the synthetic frame the generator lays out for a
// call to a built-in: -2 for a no-argument routine, -3 for a one-argument
// routine (the extra slot holds the argument's copy-in location).
const (
	noParmSize  = -2
	oneParmSize = -3
)

func newFunc(name string, dt ast.DataType, size int) *ast.Node {
	n := ast.New(ast.Func, 0)
	n.Literal = name
	n.DataType = dt
	n.Size = size
	n.IsLib = true
	n.ParmList = make(map[int]*ast.Node)
	return n
}

func dummyParm(dt ast.DataType) *ast.Node {
	p := ast.New(ast.Parm, 0)
	p.Literal = "*dummy*"
	p.DataType = dt
	p.RefType = ast.ParameterRef
	p.Location = -2
	return p
}

func withOneParm(fn *ast.Node, dt ast.DataType) *ast.Node {
	parm := dummyParm(dt)
	fn.ParmCount = 1
	fn.ParmList[0] = parm
	fn.Children[0] = parm
	return fn
}

// Synthesize builds the seven-routine I/O library as a sibling chain and
// appends program to its tail, so the combined chain is what the rest of
// the pipeline treats as "the program": the library's declarations always
// precede the user's.
func Synthesize(program *ast.Node) *ast.Node {
	routines := Routines()
	head := routines[0]
	for i := 1; i < len(routines); i++ {
		head.Last().AddSibling(routines[i])
	}
	if program != nil {
		head.Last().AddSibling(program)
	}
	return head
}

// Routines returns the seven built-in I/O routine declarations, freshly
// allocated, in the fixed order the original routine library defines
// them: input, output, inputb, outputb, inputc, outputc, outnl.
func Routines() []*ast.Node {
	input := newFunc("input", ast.Int, noParmSize)

	output := newFunc("output", ast.Void, oneParmSize)
	withOneParm(output, ast.Int)

	inputb := newFunc("inputb", ast.Bool, noParmSize)

	outputb := newFunc("outputb", ast.Void, oneParmSize)
	withOneParm(outputb, ast.Bool)

	inputc := newFunc("inputc", ast.Char, noParmSize)

	outputc := newFunc("outputc", ast.Void, oneParmSize)
	withOneParm(outputc, ast.Char)

	outnl := newFunc("outnl", ast.Void, noParmSize)

	return []*ast.Node{input, output, inputb, outputb, inputc, outputc, outnl}
}
