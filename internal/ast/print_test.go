package ast

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintPlainShowsShapeAndLine(t *testing.T) {
	n := New(Var, 7)
	n.Literal = "x"

	var buf bytes.Buffer
	Print(&buf, n, PrintPlain)

	out := buf.String()
	if !strings.Contains(out, "Var: x") {
		t.Fatalf("expected shape %q in output, got %q", "Var: x", out)
	}
	if !strings.Contains(out, "[line: 7]") {
		t.Fatalf("expected line annotation in output, got %q", out)
	}
	if strings.Contains(out, "of type") {
		t.Fatalf("did not expect type annotation in plain mode, got %q", out)
	}
}

func TestPrintTypedIncludesDataType(t *testing.T) {
	n := New(Var, 1)
	n.Literal = "x"
	n.DataType = Int

	var buf bytes.Buffer
	Print(&buf, n, PrintTyped)

	if !strings.Contains(buf.String(), "of type int") {
		t.Fatalf("expected type annotation, got %q", buf.String())
	}
}

func TestPrintMemoryIncludesLayoutFields(t *testing.T) {
	n := New(Var, 1)
	n.Literal = "x"
	n.RefType = LocalRef
	n.Location = -3
	n.Size = 1

	var buf bytes.Buffer
	Print(&buf, n, PrintMemory)

	out := buf.String()
	for _, want := range []string{"mem: Local", "loc: -3", "size: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in memory-mode output, got %q", want, out)
		}
	}
}

func TestPrintChildrenBeforeSiblings(t *testing.T) {
	root := New(Compound, 1)
	child := New(Var, 2)
	child.Literal = "a"
	root.Children[0] = child
	sib := New(Return, 3)
	root.AddSibling(sib)

	var buf bytes.Buffer
	Print(&buf, root, PrintPlain)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "Compound") {
		t.Fatalf("expected root first, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], ".   ") || !strings.Contains(lines[1], "Var: a") {
		t.Fatalf("expected indented child second, got %q", lines[1])
	}
	if strings.HasPrefix(lines[2], ".") || !strings.Contains(lines[2], "Return") {
		t.Fatalf("expected un-indented sibling third, got %q", lines[2])
	}
}

func TestNodeHelpers(t *testing.T) {
	a := New(Var, 1)
	b := New(Var, 2)
	c := New(Var, 3)
	a.AddSibling(b)
	a.AddSibling(c)

	if a.Count() != 3 {
		t.Fatalf("expected chain length 3, got %d", a.Count())
	}
	if a.Last() != c {
		t.Fatalf("expected Last to return the final sibling")
	}

	var seen []*Node
	a.Each(func(n *Node) { seen = append(seen, n) })
	if len(seen) != 3 || seen[0] != a || seen[2] != c {
		t.Fatalf("expected Each to visit all three nodes in order, got %v", seen)
	}
}
