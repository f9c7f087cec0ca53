package layout

import "github.com/repeatyourselfpls/family-tree-v2/pkg/family"

// Initialize resets the scratch state of every node under root and rebuilds
// the parent, sibling, and depth links from child order. It must run before
// each solve: X and Mod hold the previous pass's output and would otherwise
// leak into the next one.
func Initialize(root *family.Node) {
	if root == nil {
		return
	}
	initialize(root, nil, nil, nil, 0)
}

func initialize(n, parent, prev, next *family.Node, depth int) {
	reset(n, depth)
	n.Parent = parent
	n.PreviousSibling = prev
	n.NextSibling = next

	if s := n.Spouse; s != nil {
		reset(s, depth)
		s.IsSpouse = true
		s.Parent = n
		s.PreviousSibling = nil
		s.NextSibling = nil
	}

	for i, c := range n.Children {
		var p, nx *family.Node
		if i > 0 {
			p = n.Children[i-1]
		}
		if i+1 < len(n.Children) {
			nx = n.Children[i+1]
		}
		initialize(c, n, p, nx, depth+1)
	}
}

func reset(n *family.Node, depth int) {
	n.Y = depth
	n.X = 0
	n.Mod = 0
	n.PositionedX = family.Unpositioned
	n.PositionedY = family.Unpositioned
}
