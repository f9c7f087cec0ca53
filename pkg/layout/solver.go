package layout

import "github.com/repeatyourselfpls/family-tree-v2/pkg/family"

const eps = 1e-9

// Solve positions every node under root. Initialize must have run since the
// last mutation; Run does both.
//
// Pass one walks the tree post-order and assigns each node a preliminary X
// relative to its siblings and a Mod that carries its subtree along. Pass two
// walks pre-order and folds the accumulated mods into X, places each spouse
// beside its main node, and scales the grid into PositionedX/PositionedY.
func Solve(root *family.Node, cfg Config) {
	if root == nil {
		return
	}
	s := solver{cfg: cfg}
	s.assign(root)
	if cfg.KeepOnScreen {
		s.keepOnScreen(root)
	}
	s.finalize(root, 0)
}

type solver struct {
	cfg Config
}

// =============================================================================
// Pass one
// =============================================================================

func (s *solver) assign(n *family.Node) {
	for _, c := range n.Children {
		s.assign(c)
	}

	prev := n.PreviousSibling
	switch {
	case n.IsLeaf():
		n.X = s.siblingX(n)
	case len(n.Children) == 1:
		n.X = s.siblingX(n)
		n.Mod = s.center(n) - n.Children[0].X
	default:
		mid := (n.FirstChild().X + n.LastChild().X) / 2
		if prev == nil {
			n.X = mid
		} else {
			n.X = s.siblingX(n)
		}
		n.Mod = s.center(n) - mid
	}

	s.resolveConflicts(n)
}

// siblingX is the leaf rule: the first sibling sits at zero, every other one
// sits one step right of its predecessor, plus room for the predecessor's
// spouse.
func (s *solver) siblingX(n *family.Node) float64 {
	prev := n.PreviousSibling
	if prev == nil {
		return 0
	}
	step := s.cfg.Spacing()
	if prev.HasSpouse() {
		step += s.cfg.CoupleDistance
	}
	return prev.X + step
}

// center is the point a node's children are centered under: the node
// itself, or the midpoint of the couple.
func (s *solver) center(n *family.Node) float64 {
	if n.HasSpouse() {
		return n.X + s.cfg.CoupleDistance/2
	}
	return n.X
}

// resolveConflicts pushes n right until its subtree clears every sibling to
// its left. Depth 0 is not compared; sibling spacing at the top row is
// already fixed by siblingX.
func (s *solver) resolveConflicts(n *family.Node) {
	gap := s.cfg.SubtreeGap()
	for sib := n.LeftmostSibling(); sib != nil && sib != n; sib = sib.NextSibling {
		left := leftContour(n)
		right := rightContourWithSpouse(sib, s.cfg)

		var shift float64
		for d := 1; d < min(len(left), len(right)); d++ {
			if need := gap - (left[d] - right[d]); need > shift {
				shift = need
			}
		}
		if shift <= eps {
			continue
		}

		n.X += shift
		n.Mod += shift
		s.centerBetween(sib, n)
		s.resolveConflicts(n)
		return
	}
}

// centerBetween spreads the siblings strictly between left and right evenly
// across the gap, moving their subtrees with them. A respread sibling can
// land on a neighbour to its left, so each one is resolved again, left to
// right, before right is.
func (s *solver) centerBetween(left, right *family.Node) {
	between := left.Parent.Children[left.Index()+1 : right.Index()]
	if len(between) == 0 {
		return
	}

	step := (right.X - left.X) / float64(len(between)+1)
	for i, sib := range between {
		delta := left.X + step*float64(i+1) - sib.X
		sib.X += delta
		sib.Mod += delta
	}
	for _, sib := range between {
		s.resolveConflicts(sib)
	}
	s.resolveConflicts(right)
}

// keepOnScreen moves the whole tree right when part of it would land left
// of zero.
func (s *solver) keepOnScreen(root *family.Node) {
	if m := leftContour(root).min(); m < 0 {
		root.X -= m
		root.Mod -= m
	}
}

// =============================================================================
// Pass two
// =============================================================================

func (s *solver) finalize(n *family.Node, modSum float64) {
	n.X += modSum
	n.PositionedX = n.X * s.cfg.ScaleX
	n.PositionedY = float64(n.Y) * s.cfg.ScaleY

	if sp := n.Spouse; sp != nil {
		sp.X = n.X + s.cfg.CoupleDistance
		sp.Y = n.Y
		sp.PositionedX = sp.X * s.cfg.ScaleX
		sp.PositionedY = n.PositionedY
	}

	for _, c := range n.Children {
		s.finalize(c, modSum+n.Mod)
	}
}
