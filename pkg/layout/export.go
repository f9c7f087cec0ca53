package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
)

// Node kinds in an exported [Layout].
const (
	KindPerson = "person"
	KindSpouse = "spouse"
	KindBridge = "bridge" // invisible junction between a couple
)

// Edge kinds in an exported [Layout].
const (
	EdgeCouple = "couple" // person or spouse to their bridge
	EdgeChild  = "child"  // parent (or parent's bridge) to child
)

// =============================================================================
// Layout - Render Format
// =============================================================================

// Layout is the positioned tree handed to renderers. Coordinates are pixels
// (grid positions times Config.ScaleX/ScaleY).
//
// Every couple gets a bridge node halfway between the two partners. Children
// of a couple hang off the bridge; children of a single parent hang off the
// parent directly.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Nodes  []Node  `json:"nodes"`
	Edges  []Edge  `json:"edges,omitempty"`
}

// Node is one positioned box (or bridge point) in a Layout.
type Node struct {
	ID        string         `json:"id"`
	Label     string         `json:"label,omitempty"`
	Kind      string         `json:"kind"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Depth     int            `json:"depth"`
	ParentID  string         `json:"parent_id,omitempty"`
	PartnerID string         `json:"partner_id,omitempty"`
	Person    *family.Person `json:"person,omitempty"`
}

// Edge connects two Layout nodes by ID.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

const bridgeSuffix = ":bridge"

// BridgeID is the ID of the bridge node for the couple whose main node has
// the given ID.
func BridgeID(mainID string) string { return mainID + bridgeSuffix }

// Export converts the render sequence returned by [Run] into a Layout.
func Export(nodes []*family.Node, cfg Config) Layout {
	var l Layout
	for _, n := range nodes {
		ln := Node{
			ID:    n.ID,
			Label: n.Name,
			Kind:  KindPerson,
			X:     n.PositionedX,
			Y:     n.PositionedY,
			Depth: n.Y,
		}
		if !n.Person.IsZero() {
			p := n.Person
			ln.Person = &p
		}

		switch {
		case n.IsSpouse:
			ln.Kind = KindSpouse
			if n.Parent != nil {
				ln.PartnerID = n.Parent.ID
			}
		case n.Parent != nil:
			ln.ParentID = n.Parent.ID
			from := n.Parent.ID
			if n.Parent.HasSpouse() {
				from = BridgeID(n.Parent.ID)
			}
			l.Edges = append(l.Edges, Edge{From: from, To: n.ID, Kind: EdgeChild})
		}
		if n.HasSpouse() {
			ln.PartnerID = n.Spouse.ID
		}
		l.add(ln)

		if n.HasSpouse() && !n.IsSpouse {
			bridge := BridgeID(n.ID)
			l.add(Node{
				ID:    bridge,
				Kind:  KindBridge,
				X:     n.PositionedX + cfg.CoupleDistance*cfg.ScaleX/2,
				Y:     n.PositionedY,
				Depth: n.Y,
			})
			l.Edges = append(l.Edges,
				Edge{From: n.ID, To: bridge, Kind: EdgeCouple},
				Edge{From: n.Spouse.ID, To: bridge, Kind: EdgeCouple},
			)
		}
	}
	return l
}

func (l *Layout) add(n Node) {
	l.Nodes = append(l.Nodes, n)
	l.Width = max(l.Width, n.X)
	l.Height = max(l.Height, n.Y)
}

// Rebind returns a copy of l carrying the IDs of nodes, the render order of
// a tree shaped like the one l was exported from. Positions are untouched.
// It reports false when the shapes differ.
func (l Layout) Rebind(nodes []*family.Node) (Layout, bool) {
	ids := make(map[string]string, len(l.Nodes))
	i := 0
	for _, n := range l.Nodes {
		if n.Kind == KindBridge {
			to, ok := ids[strings.TrimSuffix(n.ID, bridgeSuffix)]
			if !ok {
				return Layout{}, false
			}
			ids[n.ID] = BridgeID(to)
			continue
		}
		if i == len(nodes) || nodes[i].Name != n.Label {
			return Layout{}, false
		}
		ids[n.ID] = nodes[i].ID
		i++
	}
	if i != len(nodes) {
		return Layout{}, false
	}

	remap := func(id string) string {
		if to, ok := ids[id]; ok {
			return to
		}
		return id
	}
	out := Layout{
		Width:  l.Width,
		Height: l.Height,
		Nodes:  make([]Node, len(l.Nodes)),
		Edges:  make([]Edge, len(l.Edges)),
	}
	for i, n := range l.Nodes {
		n.ID = remap(n.ID)
		n.ParentID = remap(n.ParentID)
		n.PartnerID = remap(n.PartnerID)
		out.Nodes[i] = n
	}
	for i, e := range l.Edges {
		out.Edges[i] = Edge{From: remap(e.From), To: remap(e.To), Kind: e.Kind}
	}
	return out, true
}

// Find returns the node with the given ID.
func (l Layout) Find(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if len(l.Nodes) == 0 {
		return Layout{}, fmt.Errorf("layout must contain nodes")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
