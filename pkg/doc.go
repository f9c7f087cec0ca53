// Package pkg holds the libraries behind familytree.
//
// # Overview
//
// familytree lays out genealogical trees: every person gets a box on a grid,
// couples sit side by side, and children are centered below the couple that
// parents them. The pkg directory is organized by stage:
//
//  1. [family] - The tree model and its mutations
//  2. [io] - The .ftree text format and JSON
//  3. [layout] - Position assignment and the exported layout document
//  4. [render/nodelink] - Graphviz DOT, SVG, and PNG drawings
//  5. [pipeline] - Orchestration (load → layout → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	.ftree / .json file
//	         ↓
//	    [io] package (decode into a [family] tree)
//	         ↓
//	    [layout] package (assign X and Y to every node)
//	         ↓
//	    [render/nodelink] package (pin positions into Graphviz)
//	         ↓
//	    JSON/DOT/SVG/PNG output
//
// # Quick Start
//
//	root, _ := io.Import("lovelace.ftree")
//
//	cfg := layout.DefaultConfig()
//	nodes := layout.Run(root, cfg)
//	l := layout.Export(nodes, cfg)
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Labels: true})
//	svg, _ := nodelink.RenderSVG(ctx, dot)
//
// Most callers go through [pipeline.Runner], which does the same and caches
// each stage.
//
// # Supporting Packages
//
// [cache] - Layout and artifact caches (null, file, Redis) with content keys.
//
// [store] - SQLite persistence of named trees.
//
// [observability] - Hooks for pipeline, cache, and HTTP events, with a
// logging implementation.
//
// [errors] - Coded errors and input validation shared by the CLI and the API.
//
// [buildinfo] - Version information set at link time.
//
// [family]: https://pkg.go.dev/github.com/repeatyourselfpls/family-tree-v2/pkg/family
// [io]: https://pkg.go.dev/github.com/repeatyourselfpls/family-tree-v2/pkg/io
// [layout]: https://pkg.go.dev/github.com/repeatyourselfpls/family-tree-v2/pkg/layout
// [render/nodelink]: https://pkg.go.dev/github.com/repeatyourselfpls/family-tree-v2/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/repeatyourselfpls/family-tree-v2/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/repeatyourselfpls/family-tree-v2/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/repeatyourselfpls/family-tree-v2/pkg/cache
// [store]: https://pkg.go.dev/github.com/repeatyourselfpls/family-tree-v2/pkg/store
// [observability]: https://pkg.go.dev/github.com/repeatyourselfpls/family-tree-v2/pkg/observability
// [errors]: https://pkg.go.dev/github.com/repeatyourselfpls/family-tree-v2/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/repeatyourselfpls/family-tree-v2/pkg/buildinfo
package pkg
