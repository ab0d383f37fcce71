package network

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hubmap/pkg/geo"
)

// ToDOT converts points and edges to an undirected Graphviz graph. Highlighted
// points are drawn bold, Primary edges dashed and Secondary edges translucent.
func ToDOT(points []geo.Point, edges []Edge) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=14, fontcolor=white];\n")
	buf.WriteString("\n")

	for _, p := range points {
		fmt.Fprintf(&buf, "  %q [%s];\n", p.Name, strings.Join(nodeAttrs(p), ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.From.Name, e.To.Name, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(p geo.Point) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", p.DisplayLabel()),
		fmt.Sprintf("fillcolor=%q", p.Color.String()),
	}
	if p.Highlighted {
		attrs = append(attrs, "penwidth=3", "width=1.2")
	}
	return attrs
}

func edgeAttrs(e Edge) []string {
	attrs := []string{
		fmt.Sprintf("color=%q", e.Color.String()),
		fmt.Sprintf("penwidth=%g", e.Weight),
	}
	if e.Kind == Primary {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
