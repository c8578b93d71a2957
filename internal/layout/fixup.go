package layout

import "github.com/ibfleming/cminus/internal/ast"

// FixupEmbeddedLoops marks every For/While nested inside another loop
// with IsEmbedded. The single-pass layout above already threads
// foffset with save/restore at each nested Compound and For, so
// embedded loops get correct, non-overlapping offsets without a
// second offset-rewriting traversal; this pass only sets the flag.
// The code generator does not read IsEmbedded: it takes a Break's
// target from its own stack of enclosing loops.
func FixupEmbeddedLoops(root *ast.Node) {
	fixup(root, 0)
}

func fixup(n *ast.Node, depth int) {
	for cur := n; cur != nil; cur = cur.Sibling {
		if cur.IsLib {
			continue
		}
		switch cur.Kind {
		case ast.For:
			cur.IsEmbedded = depth > 0
			fixup(cur.Children[2], depth+1)
		case ast.While:
			cur.IsEmbedded = depth > 0
			fixup(cur.Children[1], depth+1)
		case ast.Func:
			fixup(cur.Children[1], 0)
		case ast.Compound:
			fixup(cur.Children[0], depth)
			fixup(cur.Children[1], depth)
		case ast.If:
			fixup(cur.Children[1], depth)
			fixup(cur.Children[2], depth)
		}
	}
}
