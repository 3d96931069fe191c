package render

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// Options controls SVG output.
type Options struct {
	// Padding is the margin around the drawing, in output units.
	Padding float64

	// Scale multiplies layout coordinates. Zero means 1.
	Scale float64

	// Labels draws node labels next to nodes that have one.
	Labels bool

	// NodeStyle and LinkStyle are inline CSS for nodes and links.
	NodeStyle string
	LinkStyle string
}

// DefaultOptions returns the standard drawing style.
func DefaultOptions() Options {
	return Options{
		Padding:   20,
		Scale:     1,
		NodeStyle: "fill:#4c78a8;stroke:#1f3b57;stroke-width:1",
		LinkStyle: "stroke:#9aa5b1;stroke-width:1",
	}
}

func (o *Options) setDefaults() {
	d := DefaultOptions()
	if o.Scale == 0 {
		o.Scale = d.Scale
	}
	if o.NodeStyle == "" {
		o.NodeStyle = d.NodeStyle
	}
	if o.LinkStyle == "" {
		o.LinkStyle = d.LinkStyle
	}
}

// WriteSVG draws f as a standalone SVG document. The viewport is fitted
// to the nodes' bounding box; the Z coordinate is ignored.
func WriteSVG(w io.Writer, f Frame, opts Options) error {
	opts.setDefaults()
	minX, minY, maxX, maxY := bounds(f)
	sc := opts.Scale
	px := func(x float64) int { return int(math.Round((x-minX)*sc + opts.Padding)) }
	py := func(y float64) int { return int(math.Round((y-minY)*sc + opts.Padding)) }
	width := int(math.Ceil((maxX-minX)*sc + 2*opts.Padding))
	height := int(math.Ceil((maxY-minY)*sc + 2*opts.Padding))

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	if f.Name != "" {
		canvas.Title(f.Name)
	}

	canvas.Gstyle(opts.LinkStyle)
	for _, s := range f.Segments {
		canvas.Line(px(s.A.X), py(s.A.Y), px(s.B.X), py(s.B.Y))
	}
	canvas.Gend()

	canvas.Gstyle(opts.NodeStyle)
	for _, n := range f.Nodes {
		r := max(1, int(math.Round(n.Radius*sc)))
		canvas.Circle(px(n.Pos.X), py(n.Pos.Y), r)
	}
	canvas.Gend()

	if opts.Labels {
		canvas.Gstyle("font-family:sans-serif;font-size:10px;fill:#333")
		for _, n := range f.Nodes {
			if n.Label == "" {
				continue
			}
			canvas.Text(px(n.Pos.X+n.Radius)+2, py(n.Pos.Y), n.Label)
		}
		canvas.Gend()
	}
	canvas.End()

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// SVG renders f with default options and returns the document.
func SVG(f Frame) []byte {
	var buf bytes.Buffer
	_ = WriteSVG(&buf, f, DefaultOptions())
	return buf.Bytes()
}

// bounds returns the 2D box around all nodes including radii.
func bounds(f Frame) (minX, minY, maxX, maxY float64) {
	if len(f.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range f.Nodes {
		minX = math.Min(minX, n.Pos.X-n.Radius)
		minY = math.Min(minY, n.Pos.Y-n.Radius)
		maxX = math.Max(maxX, n.Pos.X+n.Radius)
		maxY = math.Max(maxY, n.Pos.Y+n.Radius)
	}
	return minX, minY, maxX, maxY
}
