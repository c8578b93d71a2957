package library

import (
	"testing"

	"github.com/ibfleming/cminus/internal/ast"
)

func TestRoutinesReturnsSevenInFixedOrder(t *testing.T) {
	routines := Routines()
	wantNames := []string{"input", "output", "inputb", "outputb", "inputc", "outputc", "outnl"}
	if len(routines) != len(wantNames) {
		t.Fatalf("expected %d routines, got %d", len(wantNames), len(routines))
	}
	for i, want := range wantNames {
		if routines[i].Literal != want {
			t.Errorf("routine %d: expected %q, got %q", i, want, routines[i].Literal)
		}
		if !routines[i].IsLib {
			t.Errorf("routine %q: expected IsLib to be true", want)
		}
	}
}

func TestRoutineReturnTypes(t *testing.T) {
	routines := Routines()
	want := map[string]ast.DataType{
		"input": ast.Int, "output": ast.Void,
		"inputb": ast.Bool, "outputb": ast.Void,
		"inputc": ast.Char, "outputc": ast.Void,
		"outnl": ast.Void,
	}
	for _, r := range routines {
		if r.DataType != want[r.Literal] {
			t.Errorf("routine %q: expected return type %v, got %v", r.Literal, want[r.Literal], r.DataType)
		}
	}
}

func TestOutputRoutinesTakeOneParameterOfMatchingType(t *testing.T) {
	routines := Routines()
	want := map[string]ast.DataType{"output": ast.Int, "outputb": ast.Bool, "outputc": ast.Char}
	for _, r := range routines {
		expectedType, takesParm := want[r.Literal]
		if !takesParm {
			if r.ParmCount != 0 {
				t.Errorf("routine %q: expected no parameters, got %d", r.Literal, r.ParmCount)
			}
			continue
		}
		if r.ParmCount != 1 {
			t.Fatalf("routine %q: expected 1 parameter, got %d", r.Literal, r.ParmCount)
		}
		parm := r.ParmList[0]
		if parm.DataType != expectedType {
			t.Errorf("routine %q: expected parameter type %v, got %v", r.Literal, expectedType, parm.DataType)
		}
		if parm.RefType != ast.ParameterRef {
			t.Errorf("routine %q: expected parameter RefType ParameterRef, got %v", r.Literal, parm.RefType)
		}
	}
}

func TestSynthesizePrependsLibraryAheadOfUserProgram(t *testing.T) {
	userMain := ast.New(ast.Func, 1)
	userMain.Literal = "main"

	chain := Synthesize(userMain)

	var names []string
	for n := chain; n != nil; n = n.Sibling {
		names = append(names, n.Literal)
	}
	want := []string{"input", "output", "inputb", "outputb", "inputc", "outputc", "outnl", "main"}
	if len(names) != len(want) {
		t.Fatalf("expected %d nodes in the combined chain, got %d: %v", len(want), len(names), names)
	}
	for i, w := range want {
		if names[i] != w {
			t.Errorf("position %d: expected %q, got %q", i, w, names[i])
		}
	}
}

func TestSynthesizeWithNilProgramStillReturnsTheLibrary(t *testing.T) {
	chain := Synthesize(nil)
	if chain.Literal != "input" {
		t.Fatalf("expected the chain to start with input, got %q", chain.Literal)
	}
	if chain.Count() != 7 {
		t.Fatalf("expected exactly the 7 library routines with no program, got %d", chain.Count())
	}
}
