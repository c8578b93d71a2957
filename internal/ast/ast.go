package ast

import "fmt"

// NodeKind is the discriminator tag of an AST node.
type NodeKind int

const (
	Var NodeKind = iota
	VarArr
	Func
	Parm
	ParmArr
	Static
	Compound
	If
	While
	For
	Range
	Return
	Break
	Assign
	Or
	And
	Not
	BinOp
	ChSign
	SizeOf
	Ternary
	Id
	ArrIndex
	Call
	NumConst
	CharConst
	StringConst
	BoolConst
)

var nodeKindNames = [...]string{
	Var: "Var", VarArr: "VarArr", Func: "Func", Parm: "Parm", ParmArr: "ParmArr",
	Static: "Static", Compound: "Compound", If: "If", While: "While", For: "For",
	Range: "Range", Return: "Return", Break: "Break", Assign: "Assign", Or: "Or",
	And: "And", Not: "Not", BinOp: "BinOp", ChSign: "ChSign", SizeOf: "SizeOf",
	Ternary: "Ternary", Id: "Id", ArrIndex: "ArrIndex", Call: "Call",
	NumConst: "NumConst", CharConst: "CharConst", StringConst: "StringConst",
	BoolConst: "BoolConst",
}

func (k NodeKind) String() string {
	if int(k) < 0 || int(k) >= len(nodeKindNames) {
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
	return nodeKindNames[k]
}

// DataType is the type lattice of the language.
type DataType int

const (
	Undefined DataType = iota
	Int
	Char
	Bool
	Void
)

func (d DataType) String() string {
	switch d {
	case Int:
		return "int"
	case Char:
		return "char"
	case Bool:
		return "bool"
	case Void:
		return "void"
	default:
		return "undefined"
	}
}

// RefType is the storage classification assigned by the memory-layout pass.
type RefType int

const (
	NoneRef RefType = iota
	GlobalRef
	LocalRef
	StaticRef
	ParameterRef
)

func (r RefType) String() string {
	switch r {
	case GlobalRef:
		return "Global"
	case LocalRef:
		return "Local"
	case StaticRef:
		return "Static"
	case ParameterRef:
		return "Parameter"
	default:
		return "None"
	}
}

// TokenClass discriminates sub-variants within a NodeKind, e.g. '+' vs '-'
// inside a BinOp node, or "<=" vs "+=" inside an Assign node.
type TokenClass int

const (
	NoClass TokenClass = iota
	ClassPlus
	ClassMinus
	ClassTimes
	ClassDivide
	ClassMod
	ClassLT
	ClassGT
	ClassEQ
	ClassNE
	ClassNLT    // !<, read as ">="
	ClassNGT    // !>, read as "<="
	ClassAssign // <=
	ClassAddAss // +=
	ClassSubAss // -=
	ClassMulAss // *=
	ClassDivAss // /=
	ClassInc    // ++
	ClassDec    // --
	ClassQues   // ?
)

// Payload is the discriminated literal value carried by a constant node.
// Exactly one field is meaningful, selected by the owning node's DataType.
type Payload struct {
	Int  int
	Char byte
	Str  string
}

// Node is the single concrete AST element type. See package doc for the
// rationale behind using one struct instead of a type per construct.
type Node struct {
	Kind       NodeKind
	TokenClass TokenClass
	Line       int
	Literal    string
	Payload    Payload

	// Children holds up to three ordered, kind-specific slots, e.g.
	// If: [cond, then, else]; For: [controlDecl, rangeNode, body].
	Children [3]*Node
	Sibling  *Node

	DataType DataType
	RefType  RefType

	IsArray            bool
	IsIndexed          bool
	IsInit             bool
	IsConst            bool
	IsUsed             bool
	IsStatic           bool
	IsVisited          bool
	HasReturn          bool
	IsMain             bool
	IsEmbedded         bool
	IsFunctionCompound bool
	IsLib              bool

	// Layout, populated by the memory-layout pass.
	Size         int
	Location     int
	Address      int
	BreakAddress int

	// ParmCount and ParmList mirror the function's parameter children for
	// O(1) positional access during call type-checking.
	ParmCount int
	ParmList  map[int]*Node
}

// New allocates a bare node of the given kind at the given source line.
func New(kind NodeKind, line int) *Node {
	return &Node{Kind: kind, Line: line, DataType: Undefined, RefType: NoneRef}
}

// AddChild places child into the first empty Children slot. It panics if
// all three slots are occupied, since every NodeKind uses at most three
// semantic child positions.
func (n *Node) AddChild(child *Node) *Node {
	for i := range n.Children {
		if n.Children[i] == nil {
			n.Children[i] = child
			return n
		}
	}
	panic(fmt.Sprintf("ast: node %s at line %d has no free child slot", n.Kind, n.Line))
}

// AddSibling appends sib to the end of n's sibling chain and returns n. A
// nil sib is a no-op, mirroring the source grammar's rule that a nil must
// never be linked into a sibling list.
func (n *Node) AddSibling(sib *Node) *Node {
	if sib == nil {
		return n
	}
	cur := n
	for cur.Sibling != nil {
		cur = cur.Sibling
	}
	cur.Sibling = sib
	return n
}

// Last returns the final node in n's sibling chain (n itself if it has no
// siblings).
func (n *Node) Last() *Node {
	cur := n
	for cur.Sibling != nil {
		cur = cur.Sibling
	}
	return cur
}

// Each calls fn for n and every node in its sibling chain, in order.
func (n *Node) Each(fn func(*Node)) {
	for cur := n; cur != nil; cur = cur.Sibling {
		fn(cur)
	}
}

// Count returns the number of nodes in n's sibling chain, including n.
func (n *Node) Count() int {
	c := 0
	for cur := n; cur != nil; cur = cur.Sibling {
		c++
	}
	return c
}

// IsDeclaration reports whether the node is one of the declaration kinds
// tracked by the symbol table (Var, VarArr, Func, Parm, ParmArr, Static).
func (n *Node) IsDeclaration() bool {
	switch n.Kind {
	case Var, VarArr, Func, Parm, ParmArr, Static:
		return true
	default:
		return false
	}
}
