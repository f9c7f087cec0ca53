// Package layout positions a family tree on a 2D grid.
//
// # Overview
//
// The engine is a tidy-tree layout in the Reingold–Tilford family, extended
// for couples: a main node and its spouse sit side by side and their
// children are centered under the pair rather than under either partner.
// A full pass runs in three stages:
//
//  1. [Initialize]: reset scratch fields, assign depths, and relink siblings.
//  2. [Solve]: assign preliminary positions bottom-up, push colliding
//     subtrees apart, then fold deferred offsets into final positions
//     top-down.
//  3. [LevelOrder]: produce the breadth-first render sequence, each spouse
//     directly after its partner.
//
// [Run] performs all three. [Export] turns the result into a [Layout] with
// pixel positions and the edges a renderer needs.
//
// # Usage
//
//	root := family.New("Ada", family.WithSpouse("William"))
//	root.AddDescendant("Byron")
//	root.AddDescendant("Anne")
//
//	cfg := layout.DefaultConfig()
//	nodes := layout.Run(root, cfg)
//	l := layout.Export(nodes, cfg)
//
// # Contours
//
// Collisions are detected with contours: per-depth samples of a subtree's
// leftmost and rightmost extent. When a subtree's left contour comes closer
// than [Config.SubtreeGap] to the right contour of any sibling on its left,
// the subtree is shifted right by the largest violation and the siblings in
// between are re-spread evenly. The right contour of a couple is measured
// at the spouse.
//
// # Configuration
//
// All tuning lives in [Config]; nothing is global. Grid units are abstract;
// ScaleX and ScaleY convert them to PositionedX/PositionedY. CoupleDistance
// must not exceed [Config.Spacing], which [Config.Validate] checks but
// [Run] does not.
package layout
