package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/layout"
)

// Options configures diagram generation.
type Options struct {
	// Labels adds life dates and occupation under each name.
	Labels bool
}

// ToDOT converts a layout into Graphviz DOT source with every node pinned to
// its computed position. Node order and edge order follow the layout, so the
// output is deterministic.
func ToDOT(l layout.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := []string{fmt.Sprintf("pos=%q", pos(n, l.Height))}
		switch n.Kind {
		case layout.KindBridge:
			attrs = append(attrs, "shape=point", "width=0.06", `label=""`)
		case layout.KindSpouse:
			attrs = append(attrs, fmt.Sprintf("label=%q", label(n, opts)), `style="rounded,filled,dashed"`)
		default:
			attrs = append(attrs, fmt.Sprintf("label=%q", label(n, opts)))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		if e.Kind == layout.EdgeCouple {
			fmt.Fprintf(&buf, "  %q -- %q [style=dashed];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pos(n layout.Node, height float64) string {
	x := strconv.FormatFloat(n.X, 'f', -1, 64)
	y := strconv.FormatFloat(height-n.Y, 'f', -1, 64)
	return x + "," + y + "!"
}

func label(n layout.Node, opts Options) string {
	if !opts.Labels || n.Person == nil {
		return n.Label
	}
	lines := []string{n.Label}
	if life := lifespan(*n.Person); life != "" {
		lines = append(lines, life)
	}
	if n.Person.Occupation != "" {
		lines = append(lines, n.Person.Occupation)
	}
	return strings.Join(lines, "\n")
}

func lifespan(p family.Person) string {
	switch {
	case p.Birth == "" && p.Death == "":
		return ""
	case p.Death == "":
		return "b. " + p.Birth
	case p.Birth == "":
		return "d. " + p.Death
	}
	return p.Birth + " - " + p.Death
}

// RenderSVG renders DOT source produced by [ToDOT] to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders DOT source produced by [ToDOT] to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed pt sizing with a viewBox-based
// header so the SVG scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
