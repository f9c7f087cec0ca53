package layout

import "github.com/repeatyourselfpls/family-tree-v2/pkg/family"

// Run lays out the tree rooted at root and returns its nodes in render order
// (see [LevelOrder]). Every returned node, spouses included, carries its
// final X and PositionedX/PositionedY.
//
// Run mutates the layout scratch fields of the tree in place and is
// deterministic: calling it again on an unchanged tree yields the same
// positions.
func Run(root *family.Node, cfg Config) []*family.Node {
	Initialize(root)
	Solve(root, cfg)
	return LevelOrder(root)
}
