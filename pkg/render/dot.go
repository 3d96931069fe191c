package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts f to Graphviz DOT source. Every node is pinned at its
// layout position, so neato draws the layout as is instead of computing
// its own.
func ToDOT(f Frame) string {
	var buf bytes.Buffer
	name := f.Name
	if name == "" {
		name = "G"
	}
	fmt.Fprintf(&buf, "digraph %q {\n", name)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#4c78a8\", color=\"#1f3b57\", fixedsize=true, label=\"\"];\n")
	buf.WriteString("  edge [color=\"#9aa5b1\", arrowsize=0.5];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		// Graphviz y grows upward.
		y := -n.Pos.Y
		if y == 0 {
			y = 0
		}
		attrs := []string{
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.Pos.X, y),
			fmt.Sprintf("width=%.3f", 2*n.Radius/72),
		}
		if n.Label != "" {
			attrs = append(attrs, fmt.Sprintf("xlabel=%q", n.Label))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.Index, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, s := range f.Segments {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", s.From, s.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT rasterizes DOT source in-process using the neato engine.
// Supported formats are "png", "svg" and "jpg".
func RenderDOT(ctx context.Context, dot string, format string) ([]byte, error) {
	gvFormat, ok := graphvizFormats[format]
	if !ok {
		return nil, fmt.Errorf("unsupported graphviz format %q", format)
	}

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
	gv.SetLayout(graphviz.NEATO)
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var graphvizFormats = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

// PNG renders f as a PNG image through Graphviz.
func PNG(ctx context.Context, f Frame) ([]byte, error) {
	return RenderDOT(ctx, ToDOT(f), "png")
}
