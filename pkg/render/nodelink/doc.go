// Package nodelink draws a positioned family tree as a Graphviz diagram.
//
// # Overview
//
// The layout engine has already decided where every box goes, so the DOT
// source produced here pins each node with pos="x,y!" and asks Graphviz's
// neato engine to draw it as is. Graphviz only routes the straight edges and
// paints the boxes.
//
// # Usage
//
//	nodes := layout.Run(root, cfg)
//	l := layout.Export(nodes, cfg)
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Node Styles
//
//   - person: rounded white box
//   - spouse: rounded box with a dashed outline
//   - bridge: a small point halfway between two partners; children of a
//     couple hang from it
//
// # Coordinates
//
// Layout coordinates grow downward; Graphviz's grow upward. [ToDOT] flips
// the y axis against the layout height and sets inputscale=72 so positions
// are read as points, one point per layout pixel.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly; no system install is needed.
package nodelink
