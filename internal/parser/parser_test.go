package parser

import (
	"testing"

	"github.com/ibfleming/cminus/internal/ast"
	"github.com/ibfleming/cminus/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	p := New(lexer.New(src))
	root := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	return root
}

func TestParseVoidMainWithReturn(t *testing.T) {
	root := parse(t, `main() { return; }`)
	if root == nil {
		t.Fatal("expected a non-nil program")
	}
	if root.Kind != ast.Func || !root.IsMain {
		t.Fatalf("expected main Func node, got kind %s IsMain=%v", root.Kind, root.IsMain)
	}
	if root.DataType != ast.Void {
		t.Fatalf("expected implicit return type Void, got %s", root.DataType)
	}
	body := root.Children[1]
	if body == nil || body.Kind != ast.Compound {
		t.Fatalf("expected a Compound body, got %v", body)
	}
}

func TestParseIntMainNoParams(t *testing.T) {
	root := parse(t, `int main() { return 0; }`)
	if root.DataType != ast.Int {
		t.Fatalf("expected return type Int, got %s", root.DataType)
	}
	if root.ParmCount != 0 {
		t.Fatalf("expected zero parameters, got %d", root.ParmCount)
	}
}

func TestParseFunctionParameters(t *testing.T) {
	root := parse(t, `int add(int a, int b) { return a + b; }`)
	if root.ParmCount != 2 {
		t.Fatalf("expected 2 parameters, got %d", root.ParmCount)
	}
	if root.ParmList[0].Literal != "a" || root.ParmList[1].Literal != "b" {
		t.Fatalf("unexpected parameter names: %v", root.ParmList)
	}
}

func TestParseArrayParameter(t *testing.T) {
	root := parse(t, `f(int a[]) { return; }`)
	p := root.ParmList[0]
	if p.Kind != ast.ParmArr || !p.IsArray {
		t.Fatalf("expected ParmArr, got %s IsArray=%v", p.Kind, p.IsArray)
	}
}

func TestParseGlobalVarArrayWithSize(t *testing.T) {
	root := parse(t, `int table[10];`)
	if root.Kind != ast.VarArr {
		t.Fatalf("expected VarArr, got %s", root.Kind)
	}
	sizeNode := root.Children[0]
	if sizeNode == nil || sizeNode.Payload.Int != 10 {
		t.Fatalf("expected size constant 10, got %v", sizeNode)
	}
}

func TestParseStaticLocal(t *testing.T) {
	root := parse(t, `f() { static int counter; return; }`)
	decl := root.Children[1].Children[0]
	if decl == nil || decl.Kind != ast.Static || !decl.IsStatic {
		t.Fatalf("expected a Static declaration, got %v", decl)
	}
}

func TestParseAssignmentOperatorClasses(t *testing.T) {
	cases := []struct {
		src   string
		class ast.TokenClass
	}{
		{"x <= 1;", ast.ClassAssign},
		{"x += 1;", ast.ClassAddAss},
		{"x -= 1;", ast.ClassSubAss},
		{"x *= 1;", ast.ClassMulAss},
		{"x /= 1;", ast.ClassDivAss},
	}
	for _, c := range cases {
		root := parse(t, `f() { `+c.src+` return; }`)
		expr := root.Children[1].Children[1]
		if expr == nil || expr.Kind != ast.Assign || expr.TokenClass != c.class {
			t.Fatalf("%q: expected Assign/%v, got %v/%v", c.src, c.class, expr.Kind, expr.TokenClass)
		}
	}
}

func TestNegatedRelationalOperatorsParseAsBinOp(t *testing.T) {
	cases := []struct {
		src   string
		class ast.TokenClass
	}{
		{"x !< y", ast.ClassNLT},
		{"x !> y", ast.ClassNGT},
	}
	for _, c := range cases {
		root := parse(t, `f() { if (`+c.src+`) then return; }`)
		cond := root.Children[1].Children[1].Children[0]
		if cond == nil || cond.Kind != ast.BinOp || cond.TokenClass != c.class {
			t.Fatalf("%q: expected BinOp/%v, got %v/%v", c.src, c.class, cond.Kind, cond.TokenClass)
		}
	}
}

func TestParseForRangeWithStep(t *testing.T) {
	root := parse(t, `f() { for i <= 0 to 10 by 2 do ; return; }`)
	forNode := root.Children[1].Children[1]
	if forNode.Kind != ast.For {
		t.Fatalf("expected For, got %s", forNode.Kind)
	}
	rng := forNode.Children[1]
	if rng.Kind != ast.Range || rng.Children[2] == nil {
		t.Fatalf("expected a Range with a step expression, got %v", rng)
	}
}

func TestParseTernaryIsPostfix(t *testing.T) {
	root := parse(t, `f() { x <= y?; return; }`)
	assign := root.Children[1].Children[1]
	ternary := assign.Children[1]
	if ternary.Kind != ast.Ternary {
		t.Fatalf("expected Ternary, got %s", ternary.Kind)
	}
}

func TestParseSizeofUnary(t *testing.T) {
	root := parse(t, `f() { x <= sizeof y; return; }`)
	assign := root.Children[1].Children[1]
	sz := assign.Children[1]
	if sz.Kind != ast.SizeOf {
		t.Fatalf("expected SizeOf, got %s", sz.Kind)
	}
}

func TestParseCallWithArguments(t *testing.T) {
	root := parse(t, `f() { g(1, 2, x); return; }`)
	call := root.Children[1].Children[1]
	if call.Kind != ast.Call || call.Literal != "g" {
		t.Fatalf("expected Call(g), got %s(%s)", call.Kind, call.Literal)
	}
	argCount := 0
	for a := call.Children[0]; a != nil; a = a.Sibling {
		argCount++
	}
	if argCount != 3 {
		t.Fatalf("expected 3 arguments, got %d", argCount)
	}
}

func TestParseArrayIndexExpression(t *testing.T) {
	root := parse(t, `f() { x <= a[i]; return; }`)
	index := root.Children[1].Children[1].Children[1]
	if index.Kind != ast.ArrIndex || !index.IsIndexed {
		t.Fatalf("expected ArrIndex, got %s", index.Kind)
	}
}

func TestParserAccumulatesErrorsOnMalformedInput(t *testing.T) {
	p := New(lexer.New(`int main( { return 0; }`))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected at least one parse error for malformed input")
	}
}
