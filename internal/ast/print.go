package ast

import (
	"fmt"
	"io"
	"strings"
)

// PrintMode selects how much annotation Print includes in its output,
// matching the compiler's -p/-P/-M flags.
type PrintMode int

const (
	// PrintPlain prints node shape only (the -p flag).
	PrintPlain PrintMode = iota
	// PrintTyped additionally prints each node's resolved DataType (-P).
	PrintTyped
	// PrintMemory additionally prints RefType, Location and Size (-M).
	PrintMemory
)

// Print writes an indented listing of the tree rooted at n (and its
// siblings) to w, one node per line, children before siblings.
func Print(w io.Writer, n *Node, mode PrintMode) {
	printSiblings(w, n, 0, mode)
}

func printSiblings(w io.Writer, n *Node, depth int, mode PrintMode) {
	for cur := n; cur != nil; cur = cur.Sibling {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat(".   ", depth), describe(cur, mode))
		for _, c := range cur.Children {
			if c != nil {
				printSiblings(w, c, depth+1, mode)
			}
		}
	}
}

func describe(n *Node, mode PrintMode) string {
	var sb strings.Builder
	sb.WriteString(shape(n))
	if mode >= PrintTyped {
		fmt.Fprintf(&sb, " of type %s", n.DataType)
	}
	if mode >= PrintMemory {
		fmt.Fprintf(&sb, " [mem: %s loc: %d size: %d]", n.RefType, n.Location, n.Size)
	}
	fmt.Fprintf(&sb, " [line: %d]", n.Line)
	return sb.String()
}

func shape(n *Node) string {
	switch n.Kind {
	case Var:
		if n.IsStatic {
			return fmt.Sprintf("Var: %s of static type", n.Literal)
		}
		return fmt.Sprintf("Var: %s", n.Literal)
	case VarArr:
		return fmt.Sprintf("Var: %s is array", n.Literal)
	case Func:
		return fmt.Sprintf("Func: %s returns", n.Literal)
	case Parm:
		return fmt.Sprintf("Parm: %s", n.Literal)
	case ParmArr:
		return fmt.Sprintf("Parm: %s is array", n.Literal)
	case Static:
		return fmt.Sprintf("Var: %s of static type", n.Literal)
	case Compound:
		return "Compound"
	case If:
		return "If"
	case While:
		return "While"
	case For:
		return "For"
	case Range:
		return "Range"
	case Return:
		return "Return"
	case Break:
		return "Break"
	case Assign:
		return fmt.Sprintf("Assign: %s", n.Literal)
	case Or:
		return "Op: or"
	case And:
		return "Op: and"
	case Not:
		return "Op: not"
	case BinOp:
		return fmt.Sprintf("Op: %s", n.Literal)
	case ChSign:
		return "Op: chsign"
	case SizeOf:
		return "Op: sizeof"
	case Ternary:
		return "Op: ?"
	case Id:
		return fmt.Sprintf("Id: %s", n.Literal)
	case ArrIndex:
		return "Op: ["
	case Call:
		return fmt.Sprintf("Call: %s", n.Literal)
	case NumConst:
		return fmt.Sprintf("Const %d", n.Payload.Int)
	case CharConst:
		return fmt.Sprintf("Const '%c'", n.Payload.Char)
	case StringConst:
		return fmt.Sprintf("Const %q", n.Payload.Str)
	case BoolConst:
		if n.Payload.Int != 0 {
			return "Const true"
		}
		return "Const false"
	default:
		return fmt.Sprintf("<unknown kind %s>", n.Kind)
	}
}
