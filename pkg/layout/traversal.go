package layout

import (
	"iter"

	"github.com/gammazero/deque"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
)

// All yields the tree breadth-first. Each main node is followed directly by
// its spouse; spouses never contribute children. The sequence can be ranged
// over any number of times.
func All(root *family.Node) iter.Seq[*family.Node] {
	return func(yield func(*family.Node) bool) {
		if root == nil {
			return
		}
		var queue deque.Deque[*family.Node]
		queue.PushBack(root)
		for queue.Len() > 0 {
			n := queue.PopFront()
			if !yield(n) {
				return
			}
			if n.Spouse != nil && !yield(n.Spouse) {
				return
			}
			for _, c := range n.Children {
				queue.PushBack(c)
			}
		}
	}
}

// LevelOrder collects All into a slice, the render order.
func LevelOrder(root *family.Node) []*family.Node {
	var out []*family.Node
	for n := range All(root) {
		out = append(out, n)
	}
	return out
}
