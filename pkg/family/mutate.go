package family

import "github.com/gammazero/deque"

// AddDescendant appends a new childless node named name to n's children and
// returns it.
func (n *Node) AddDescendant(name string) *Node {
	child := New(name)
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// RemoveDescendant removes the first child that is identical to child.
// It reports whether anything was removed. Removing a node that is not a
// child of n is a no-op.
func (n *Node) RemoveDescendant(child *Node) bool {
	for i, c := range n.Children {
		if c != child {
			continue
		}
		n.Children = append(n.Children[:i], n.Children[i+1:]...)
		child.Parent = nil
		child.PreviousSibling = nil
		child.NextSibling = nil
		return true
	}
	return false
}

// AddSpouse attaches a spouse named name to n and returns it. If n already
// has a spouse, that spouse is renamed and returned; its metadata is kept.
func (n *Node) AddSpouse(name string) *Node {
	if n.Spouse != nil {
		n.Spouse.Name = name
		return n.Spouse
	}
	s := New(name)
	s.IsSpouse = true
	s.Parent = n
	n.Spouse = s
	return s
}

// RemoveSpouse detaches n's spouse, if any.
func (n *Node) RemoveSpouse() {
	if n.Spouse != nil {
		n.Spouse.Parent = nil
	}
	n.Spouse = nil
}

// UpdateName replaces n's display name.
func (n *Node) UpdateName(name string) {
	n.Name = name
}

// UpdatePersonData merges patch into n's metadata.
func (n *Node) UpdatePersonData(patch Patch) {
	patch.Apply(&n.Person)
}

// Walk calls fn for every main node in pre-order, stopping early when fn
// returns false. Spouses are not visited; reach them through Node.Spouse.
func Walk(root *Node, fn func(*Node) bool) {
	walk(root, fn)
}

func walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// Find returns the first node named name in breadth-first order, checking
// each main node before its spouse. It returns nil when nothing matches.
func Find(root *Node, name string) *Node {
	if root == nil {
		return nil
	}
	var queue deque.Deque[*Node]
	queue.PushBack(root)
	for queue.Len() > 0 {
		n := queue.PopFront()
		if n.Name == name {
			return n
		}
		if n.Spouse != nil && n.Spouse.Name == name {
			return n.Spouse
		}
		for _, c := range n.Children {
			queue.PushBack(c)
		}
	}
	return nil
}

// Count returns the number of main nodes and spouses under root, inclusive.
func Count(root *Node) (nodes, spouses int) {
	Walk(root, func(n *Node) bool {
		nodes++
		if n.Spouse != nil {
			spouses++
		}
		return true
	})
	return nodes, spouses
}
