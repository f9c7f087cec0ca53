package family

import (
	"github.com/google/uuid"
)

// Unpositioned marks PositionedX/PositionedY before a layout pass has run.
const Unpositioned = -1.0

// Node is one person in the tree.
//
// The layout fields (Y, X, Mod, PositionedX, PositionedY) are scratch space
// owned by the layout package. They are reset and fully recomputed on every
// pass and carry no meaning between mutations.
type Node struct {
	ID     string // stable identity, generated on construction
	Name   string
	Person Person

	Children []*Node // owned, in display order
	Spouse   *Node   // owned; Spouse.IsSpouse is true
	IsSpouse bool

	// Non-owning back-references. For a spouse, Parent is its main node.
	Parent          *Node
	PreviousSibling *Node
	NextSibling     *Node

	Y           int     // depth, root is 0
	X           float64 // preliminary, then final grid position
	Mod         float64 // deferred offset applied to descendants
	PositionedX float64
	PositionedY float64
}

// Option configures a node built by [New].
type Option func(*Node)

// WithChildren appends the given nodes as children, in order.
func WithChildren(children ...*Node) Option {
	return func(n *Node) {
		for _, c := range children {
			c.Parent = n
			n.Children = append(n.Children, c)
		}
	}
}

// WithSpouse attaches a bare spouse with the given name.
func WithSpouse(name string) Option {
	return func(n *Node) { n.AddSpouse(name) }
}

// WithPerson sets the node's metadata.
func WithPerson(p Person) Option {
	return func(n *Node) { n.Person = p }
}

// New creates a node with a fresh ID.
func New(name string, opts ...Option) *Node {
	n := &Node{
		ID:          uuid.NewString(),
		Name:        name,
		Y:           -1,
		PositionedX: Unpositioned,
		PositionedY: Unpositioned,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// HasSpouse reports whether n is the main node of a couple.
func (n *Node) HasSpouse() bool { return n.Spouse != nil }

// FirstChild returns the leftmost child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// LastChild returns the rightmost child, or nil.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// LeftmostSibling returns the first child of n's parent, or nil for the root.
func (n *Node) LeftmostSibling() *Node {
	if n.Parent == nil || n.IsSpouse {
		return nil
	}
	return n.Parent.FirstChild()
}

// Index returns n's position among its parent's children, or -1.
func (n *Node) Index() int {
	if n.Parent == nil || n.IsSpouse {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}
