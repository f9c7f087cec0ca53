package layout

import (
	"github.com/gammazero/deque"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
)

// contour holds one X sample per depth below a subtree root; index 0 is the
// root itself.
type contour []float64

type sample struct {
	node   *family.Node
	modSum float64
	depth  int
}

// walkContour visits the subtree of n breadth-first and calls pick for every
// node with its relative depth and its X plus the mods of the ancestors on
// the path from n. n's own Mod applies to its children, not to n.
func walkContour(n *family.Node, pick func(s sample)) {
	var queue deque.Deque[sample]
	queue.PushBack(sample{node: n})
	for queue.Len() > 0 {
		s := queue.PopFront()
		pick(s)
		for _, c := range s.node.Children {
			queue.PushBack(sample{node: c, modSum: s.modSum + s.node.Mod, depth: s.depth + 1})
		}
	}
}

// leftContour samples the first node visited at each depth.
func leftContour(n *family.Node) contour {
	var out contour
	walkContour(n, func(s sample) {
		if s.depth == len(out) {
			out = append(out, s.node.X+s.modSum)
		}
	})
	return out
}

// rightContour samples the last node visited at each depth.
func rightContour(n *family.Node) contour {
	var out contour
	walkContour(n, func(s sample) {
		x := s.node.X + s.modSum
		if s.depth == len(out) {
			out = append(out, x)
		} else {
			out[s.depth] = x
		}
	})
	return out
}

// rightContourWithSpouse is rightContour with each sampled couple measured at
// its spouse, the couple's true right edge.
func rightContourWithSpouse(n *family.Node, cfg Config) contour {
	var (
		out  contour
		last []*family.Node
	)
	walkContour(n, func(s sample) {
		x := s.node.X + s.modSum
		if s.depth == len(out) {
			out = append(out, x)
			last = append(last, s.node)
		} else {
			out[s.depth] = x
			last[s.depth] = s.node
		}
	})
	for d, node := range last {
		if node.HasSpouse() {
			out[d] += cfg.CoupleDistance
		}
	}
	return out
}

func (c contour) min() float64 {
	m := c[0]
	for _, x := range c[1:] {
		m = min(m, x)
	}
	return m
}
