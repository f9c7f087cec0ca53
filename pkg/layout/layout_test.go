package layout

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
)

func unitConfig() Config {
	cfg := DefaultConfig()
	cfg.ScaleX, cfg.ScaleY = 1, 1
	return cfg
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func wantX(t *testing.T, n *family.Node, want float64) {
	t.Helper()
	if !near(n.X, want) {
		t.Errorf("%s.X = %v, want %v", n.Name, n.X, want)
	}
}

func TestCoupleBesideSibling(t *testing.T) {
	a := family.New("A", family.WithSpouse("a2"))
	b := family.New("B")
	root := family.New("R", family.WithChildren(a, b))

	Run(root, unitConfig())

	wantX(t, a, 0)
	wantX(t, a.Spouse, 1)
	if b.X < 2 {
		t.Errorf("B.X = %v, want >= 2", b.X)
	}
	wantX(t, root, 1)
}

func TestSingleChildChain(t *testing.T) {
	leaf := family.New("leaf")
	mid := family.New("mid", family.WithChildren(leaf))
	root := family.New("root", family.WithChildren(mid))

	Run(root, unitConfig())

	for _, n := range []*family.Node{root, mid, leaf} {
		wantX(t, n, 0)
	}
	if leaf.Y != 2 || leaf.PositionedY != 2 {
		t.Errorf("leaf depth = %d (%v), want 2", leaf.Y, leaf.PositionedY)
	}
}

func TestWideSubtreesAreSeparated(t *testing.T) {
	a := family.New("A", family.WithChildren(family.New("a1"), family.New("a2"), family.New("a3")))
	b := family.New("B", family.WithChildren(family.New("b1"), family.New("b2")))
	root := family.New("R", family.WithChildren(a, b))

	Run(root, unitConfig())

	wantX(t, a, 1)
	wantX(t, b, 3.5)
	wantX(t, root, 2.25)
	want := map[string]float64{"a1": 0, "a2": 1, "a3": 2, "b1": 3, "b2": 4}
	for _, c := range append(a.Children, b.Children...) {
		wantX(t, c, want[c.Name])
	}
	assertNoOverlap(t, root, unitConfig())
}

func TestCoupleCentersChildren(t *testing.T) {
	a := family.New("A",
		family.WithSpouse("a0"),
		family.WithChildren(family.New("a1"), family.New("a2"), family.New("a3")),
	)
	b := family.New("B", family.WithChildren(family.New("b1"), family.New("b2")))
	root := family.New("R", family.WithChildren(a, b))

	cfg := unitConfig()
	Run(root, cfg)

	wantX(t, a, 1)
	wantX(t, a.Spouse, 2)
	wantX(t, a.Children[1], 1.5) // under the couple midpoint
	wantX(t, b, 4)
	wantX(t, b.Children[0], 3.5)
	wantX(t, b.Children[1], 4.5)
	assertNoOverlap(t, root, cfg)
}

func TestCollisionRespreadsMiddleSiblings(t *testing.T) {
	a := family.New("A", family.WithChildren(family.New("a1"), family.New("a2"), family.New("a3")))
	m := family.New("M")
	c := family.New("C", family.WithChildren(family.New("c1"), family.New("c2"), family.New("c3")))
	root := family.New("R", family.WithChildren(a, m, c))

	Run(root, unitConfig())

	wantX(t, a, 1)
	wantX(t, m, 2.5)
	wantX(t, c, 4)
	if !near(m.X-a.X, c.X-m.X) {
		t.Errorf("M not centered: A=%v M=%v C=%v", a.X, m.X, c.X)
	}
	wantX(t, c.Children[0], 3)
	assertNoOverlap(t, root, unitConfig())
}

// Pushing C right re-centres B between A and C, which moves B left towards
// A's couple. B must be pushed back before C is resolved.
func TestRecenteredSiblingClearsLeftNeighbour(t *testing.T) {
	a := family.New("A", family.WithChildren(family.New("a1", family.WithSpouse("a1s"))))
	b := family.New("B", family.WithChildren(family.New("b1")))
	c := family.New("C", family.WithChildren(
		family.New("c1", family.WithSpouse("c1s")),
		family.New("c2"),
		family.New("c3"),
	))
	root := family.New("R", family.WithChildren(a, b, c))

	Run(root, unitConfig())

	wantX(t, a.Children[0], 0)
	wantX(t, a.Children[0].Spouse, 1)
	wantX(t, b.Children[0], 2)
	wantX(t, c.Children[0], 3)
	wantX(t, b, 2)
	wantX(t, c, 4.5)
	assertNoOverlap(t, root, unitConfig())
}

// TestRandomTrees checks, over seeded random trees with couples and uneven
// fan-out, that sibling subtrees never overlap, spouses sit at the couple
// offset, and a second run reproduces every position.
func TestRandomTrees(t *testing.T) {
	spread := unitConfig()
	spread.SiblingDistance = 0.5
	spread.TreeDistance = 1
	spread.CoupleDistance = 0.75

	tests := []struct {
		name string
		cfg  Config
	}{
		{"unit", unitConfig()},
		{"spread", spread},
		{"defaults", DefaultConfig()},
	}

	const seeds = 500
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(0); seed < seeds; seed++ {
				r := rand.New(rand.NewPCG(seed, 7))
				root := randomTree(r, "r", 3)

				first := positions(Run(root, tt.cfg))
				if msg := firstOverlap(root, tt.cfg); msg != "" {
					t.Fatalf("seed %d: %s", seed, msg)
				}
				for n := range All(root) {
					if n.HasSpouse() && !near(n.Spouse.X, n.X+tt.cfg.CoupleDistance) {
						t.Fatalf("seed %d: %s spouse at %v, main at %v", seed, n.Name, n.Spouse.X, n.X)
					}
				}

				again := positions(Run(root, tt.cfg))
				for id, p := range first {
					if again[id] != p {
						t.Fatalf("seed %d: %s moved from %v to %v", seed, id, p, again[id])
					}
				}
			}
		})
	}
}

// randomTree builds a tree up to depth levels below name. About a third of
// the people are married and each has zero to three children.
func randomTree(r *rand.Rand, name string, depth int) *family.Node {
	var opts []family.Option
	if r.IntN(3) == 0 {
		opts = append(opts, family.WithSpouse(name+"s"))
	}
	if depth > 0 {
		kids := make([]*family.Node, r.IntN(4))
		for i := range kids {
			kids[i] = randomTree(r, name+strconv.Itoa(i), depth-1)
		}
		opts = append(opts, family.WithChildren(kids...))
	}
	return family.New(name, opts...)
}

// Siblings at the top row are spaced by the sibling rule alone; tree distance
// only applies below it.
func TestDepthZeroNotCompared(t *testing.T) {
	cfg := unitConfig()
	cfg.TreeDistance = 1

	a, b := family.New("A"), family.New("B")
	Run(family.New("R", family.WithChildren(a, b)), cfg)
	if got := b.X - a.X; !near(got, 1) {
		t.Errorf("leaf gap = %v, want 1", got)
	}

	a = family.New("A", family.WithChildren(family.New("a1")))
	b = family.New("B", family.WithChildren(family.New("b1")))
	Run(family.New("R", family.WithChildren(a, b)), cfg)
	if got := b.Children[0].X - a.Children[0].X; !near(got, 2) {
		t.Errorf("depth 1 gap = %v, want 2", got)
	}
}

func TestKeepOnScreen(t *testing.T) {
	build := func() (*family.Node, *family.Node) {
		b := family.New("B")
		for _, name := range []string{"b0", "b1", "b2", "b3", "b4"} {
			b.AddDescendant(name)
		}
		return family.New("R", family.WithChildren(family.New("A"), b)), b
	}

	tests := []struct {
		name    string
		keep    bool
		wantMin float64
	}{
		{"guarded", true, 0},
		{"unguarded", false, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, b := build()
			cfg := unitConfig()
			cfg.KeepOnScreen = tt.keep

			minX := math.Inf(1)
			for _, n := range Run(root, cfg) {
				minX = min(minX, n.X)
			}
			if !near(minX, tt.wantMin) {
				t.Errorf("min X = %v, want %v", minX, tt.wantMin)
			}
			if !near(b.X, (b.FirstChild().X+b.LastChild().X)/2) {
				t.Errorf("B not centered over its children: %v", b.X)
			}
		})
	}
}

func TestRunIsIdempotent(t *testing.T) {
	root := sampleTree()
	cfg := DefaultConfig()

	first := positions(Run(root, cfg))
	for i := 0; i < 3; i++ {
		again := positions(Run(root, cfg))
		for id, p := range first {
			if again[id] != p {
				t.Fatalf("run %d: %s moved from %v to %v", i+2, id, p, again[id])
			}
		}
	}
}

func TestSpouseOffset(t *testing.T) {
	root := sampleTree()
	cfg := DefaultConfig()
	cfg.CoupleDistance = 0.75

	Run(root, cfg)
	for n := range All(root) {
		if n.HasSpouse() && n.Spouse.X != n.X+cfg.CoupleDistance {
			t.Errorf("%s: spouse at %v, main at %v", n.Name, n.Spouse.X, n.X)
		}
		if n.IsSpouse && n.Y != n.Parent.Y {
			t.Errorf("%s: depth %d, partner depth %d", n.Name, n.Y, n.Parent.Y)
		}
	}
	assertNoOverlap(t, root, cfg)
}

func TestPixelScaling(t *testing.T) {
	a := family.New("A", family.WithSpouse("a2"))
	b := family.New("B")
	Run(family.New("R", family.WithChildren(a, b)), DefaultConfig())

	if b.PositionedX != 400 || b.PositionedY != 150 {
		t.Errorf("B at (%v, %v), want (400, 150)", b.PositionedX, b.PositionedY)
	}
	if a.Spouse.PositionedX != 200 || a.Spouse.PositionedY != 150 {
		t.Errorf("spouse at (%v, %v), want (200, 150)", a.Spouse.PositionedX, a.Spouse.PositionedY)
	}
}

func TestInitializeResetsScratch(t *testing.T) {
	a, b, c := family.New("a"), family.New("b"), family.New("c")
	root := family.New("root", family.WithChildren(a, b, c), family.WithSpouse("s"))
	for _, n := range []*family.Node{root, a, b, c, root.Spouse} {
		n.X, n.Mod, n.Y, n.PositionedX = 7, 3, 9, 42
	}

	Initialize(root)

	for _, n := range []*family.Node{root, a, b, c, root.Spouse} {
		if n.X != 0 || n.Mod != 0 || n.PositionedX != family.Unpositioned || n.PositionedY != family.Unpositioned {
			t.Errorf("%s not reset: %+v", n.Name, n)
		}
	}
	if root.Y != 0 || root.Spouse.Y != 0 || b.Y != 1 {
		t.Errorf("depths root=%d spouse=%d b=%d", root.Y, root.Spouse.Y, b.Y)
	}
	if root.Parent != nil || root.PreviousSibling != nil || root.NextSibling != nil {
		t.Error("root should have no parent or siblings")
	}
	if b.PreviousSibling != a || b.NextSibling != c || a.PreviousSibling != nil || c.NextSibling != nil {
		t.Error("sibling links not rebuilt from child order")
	}
	if b.Parent != root || root.Spouse.Parent != root || !root.Spouse.IsSpouse {
		t.Error("parent links not rebuilt")
	}
}

func TestContours(t *testing.T) {
	c := family.New("c")
	a := family.New("a")
	b := family.New("b", family.WithSpouse("b2"), family.WithChildren(c))
	root := family.New("R", family.WithChildren(a, b))

	root.X, root.Mod = 5, 2
	a.X = 0
	b.X = 3
	c.X = 1

	cfg := unitConfig()
	tests := []struct {
		name string
		got  contour
		want contour
	}{
		{"left", leftContour(root), contour{5, 2, 3}},
		{"right", rightContour(root), contour{5, 5, 3}},
		{"right with spouse", rightContourWithSpouse(root, cfg), contour{5, 6, 3}},
		{"subtree", leftContour(b), contour{3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.got) != len(tt.want) {
				t.Fatalf("got %v, want %v", tt.got, tt.want)
			}
			for d := range tt.want {
				if !near(tt.got[d], tt.want[d]) {
					t.Errorf("depth %d: got %v, want %v", d, tt.got[d], tt.want[d])
				}
			}
		})
	}
	if root.Children[0] != a || root.Children[1] != b {
		t.Error("contour walk reordered children")
	}
}

func TestLevelOrder(t *testing.T) {
	root := sampleTree()
	var names []string
	for _, n := range LevelOrder(root) {
		names = append(names, n.Name)
	}
	want := "Ada,William,Byron,Ralph,Anne,Dora,Ed,Carol"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}

	count := 0
	for range All(root) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("early break visited %d", count)
	}
	if LevelOrder(nil) != nil {
		t.Error("LevelOrder(nil) should be empty")
	}
}

func TestExport(t *testing.T) {
	a, b := family.New("A"), family.New("B")
	root := family.New("R", family.WithSpouse("S"), family.WithChildren(a, b))
	cfg := DefaultConfig()

	l := Export(Run(root, cfg), cfg)

	bridge, ok := l.Find(BridgeID(root.ID))
	if !ok {
		t.Fatal("bridge node missing")
	}
	if bridge.Kind != KindBridge || bridge.X != 200 || bridge.Y != 0 {
		t.Errorf("bridge = %+v, want bridge at (200, 0)", bridge)
	}
	if n, _ := l.Find(a.ID); n.X != 100 || n.ParentID != root.ID {
		t.Errorf("A = %+v", n)
	}
	if n, _ := l.Find(root.Spouse.ID); n.Kind != KindSpouse || n.PartnerID != root.ID || n.X != 300 {
		t.Errorf("spouse = %+v", n)
	}

	want := []Edge{
		{From: root.ID, To: BridgeID(root.ID), Kind: EdgeCouple},
		{From: root.Spouse.ID, To: BridgeID(root.ID), Kind: EdgeCouple},
		{From: BridgeID(root.ID), To: a.ID, Kind: EdgeChild},
		{From: BridgeID(root.ID), To: b.ID, Kind: EdgeChild},
	}
	if len(l.Edges) != len(want) {
		t.Fatalf("edges = %+v", l.Edges)
	}
	for i := range want {
		if l.Edges[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, l.Edges[i], want[i])
		}
	}
	if l.Width != 300 || l.Height != 150 {
		t.Errorf("extent = %vx%v, want 300x150", l.Width, l.Height)
	}
}

func TestExportSingleParentEdges(t *testing.T) {
	child := family.New("child")
	root := family.New("root", family.WithChildren(child))
	cfg := DefaultConfig()

	l := Export(Run(root, cfg), cfg)
	if len(l.Nodes) != 2 || len(l.Edges) != 1 {
		t.Fatalf("nodes=%d edges=%d", len(l.Nodes), len(l.Edges))
	}
	if e := l.Edges[0]; e.From != root.ID || e.To != child.ID || e.Kind != EdgeChild {
		t.Errorf("edge = %+v", e)
	}
}

func TestRebind(t *testing.T) {
	tree := func() *family.Node {
		return family.New("R", family.WithSpouse("S"), family.WithChildren(family.New("A"), family.New("B")))
	}
	cfg := DefaultConfig()
	l := Export(Run(tree(), cfg), cfg)

	other := tree()
	got, ok := l.Rebind(LevelOrder(other))
	if !ok {
		t.Fatal("same shape should rebind")
	}
	a := other.Children[0]
	if n, _ := got.Find(a.ID); n.Label != "A" || n.ParentID != other.ID || n.X != 100 {
		t.Errorf("A = %+v", n)
	}
	if n, _ := got.Find(other.Spouse.ID); n.PartnerID != other.ID {
		t.Errorf("spouse = %+v", n)
	}
	if _, ok := got.Find(BridgeID(other.ID)); !ok {
		t.Error("bridge not rebound")
	}
	if e := got.Edges[2]; e.From != BridgeID(other.ID) || e.To != a.ID {
		t.Errorf("edge = %+v", e)
	}
	if _, ok := l.Find(a.ID); ok {
		t.Error("Rebind modified the receiver")
	}

	grown := tree()
	grown.AddDescendant("C")
	if _, ok := l.Rebind(LevelOrder(grown)); ok {
		t.Error("extra node should not rebind")
	}
	renamed := tree()
	renamed.Children[1].UpdateName("Z")
	if _, ok := l.Rebind(LevelOrder(renamed)); ok {
		t.Error("renamed node should not rebind")
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	l := Export(Run(sampleTree(), cfg), cfg)
	path := filepath.Join(t.TempDir(), "layout.json")

	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if len(got.Nodes) != len(l.Nodes) || len(got.Edges) != len(l.Edges) {
		t.Errorf("round trip lost data: %d/%d nodes, %d/%d edges",
			len(got.Nodes), len(l.Nodes), len(got.Edges), len(l.Edges))
	}

	if _, err := UnmarshalLayout([]byte(`{"nodes":[]}`)); err == nil {
		t.Error("empty layout should not parse")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero node size", func(c *Config) { c.NodeSize = 0 }, true},
		{"negative distance", func(c *Config) { c.TreeDistance = -1 }, true},
		{"wide couple", func(c *Config) { c.CoupleDistance = 2 }, true},
		{"wide couple with sibling air", func(c *Config) { c.CoupleDistance = 2; c.SiblingDistance = 1 }, false},
		{"zero scale", func(c *Config) { c.ScaleY = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	var sb strings.Builder
	cfg := DefaultConfig()
	cfg.TreeDistance = 0.5
	if err := WriteConfig(&sb, cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if !strings.Contains(sb.String(), "tree_distance = 0.5") {
		t.Errorf("encoded config missing tree_distance:\n%s", sb.String())
	}

	writeFile(t, path, "couple_distance = 0.5\n")
	got, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	want := DefaultConfig()
	want.CoupleDistance = 0.5
	if got != want {
		t.Errorf("LoadConfigFile = %+v, want %+v", got, want)
	}

	if _, err := LoadConfigFile(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
}

// sampleTree is a three-generation tree with two couples.
//
//	Ada+William
//	├── Byron+Ralph
//	│   ├── Dora
//	│   └── Ed
//	└── Anne
//	    └── Carol
//
// Children of Byron are added after Anne's to check level order across
// branches.
func sampleTree() *family.Node {
	root := family.New("Ada", family.WithSpouse("William"))
	byron := root.AddDescendant("Byron")
	byron.AddSpouse("Ralph")
	anne := root.AddDescendant("Anne")
	anne.AddDescendant("Carol")
	byron.AddDescendant("Dora")
	byron.AddDescendant("Ed")
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

type point struct{ x, y float64 }

func positions(nodes []*family.Node) map[string]point {
	out := make(map[string]point, len(nodes))
	for _, n := range nodes {
		out[n.ID] = point{n.PositionedX, n.PositionedY}
	}
	return out
}

// assertNoOverlap checks every pair of siblings at every depth below the
// sibling row that the two subtrees share, using final positions.
func assertNoOverlap(t *testing.T, root *family.Node, cfg Config) {
	t.Helper()
	if msg := firstOverlap(root, cfg); msg != "" {
		t.Error(msg)
	}
}

func firstOverlap(root *family.Node, cfg Config) string {
	var msg string
	family.Walk(root, func(n *family.Node) bool {
		for i := 0; i < len(n.Children); i++ {
			left := finalExtent(n.Children[i], cfg, true)
			for j := i + 1; j < len(n.Children); j++ {
				right := finalExtent(n.Children[j], cfg, false)
				for d := 1; d < min(len(left), len(right)); d++ {
					if right[d]-left[d] < cfg.SubtreeGap()-1e-9 {
						msg = fmt.Sprintf("%s and %s overlap at depth %d: %v vs %v",
							n.Children[i].Name, n.Children[j].Name, d, left[d], right[d])
						return false
					}
				}
			}
		}
		return true
	})
	return msg
}

// finalExtent returns per-depth right (or left) extents from finalized X.
func finalExtent(n *family.Node, cfg Config, right bool) []float64 {
	var out []float64
	var visit func(*family.Node, int)
	visit = func(n *family.Node, d int) {
		x := n.X
		if right && n.HasSpouse() {
			x += cfg.CoupleDistance
		}
		if d == len(out) {
			out = append(out, x)
		} else if right {
			out[d] = max(out[d], x)
		} else {
			out[d] = min(out[d], x)
		}
		for _, c := range n.Children {
			visit(c, d+1)
		}
	}
	visit(n, 0)
	return out
}
