package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/ha1tch/treeflow/pkg/geom"
)

// SVGOptions controls SVG export.
type SVGOptions struct {
	Padding  int    // margin around the content, in output pixels
	FontSize int    // node label size in diagram units
	Title    string // optional <title>
	Labels   bool   // draw node ids
}

// DefaultSVGOptions returns the standard export settings.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Padding:  20,
		FontSize: 12,
		Labels:   true,
	}
}

// Node and edge styles
const (
	styleNode     = "fill:#fafafa;stroke:#333;stroke-width:1.5"
	styleSelected = "fill:#e3f2fd;stroke:#1565c0;stroke-width:2"
	styleDragging = "fill:#fff3e0;stroke:#e65100;stroke-width:2"
	styleEdge     = "fill:none;stroke:#666;stroke-width:1.5"
	stylePreview  = "fill:none;stroke:#1565c0;stroke-width:1.5;stroke-dasharray:6,4"
	styleMarquee  = "fill:rgba(21,101,192,0.08);stroke:#1565c0;stroke-width:1;stroke-dasharray:3,3"
	styleLabel    = "text-anchor:middle;dominant-baseline:central;font-family:sans-serif;fill:#333"
)

// SVG writes the scene as a standalone SVG document. Nodes and edges sit
// in separate layers inside one group carrying the scene's scale.
func SVG(w io.Writer, sc *Scene, opts SVGOptions) error {
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultSVGOptions().FontSize
	}
	bounds := sc.Bounds()
	scale := sc.Scale()
	if scale <= 0 {
		scale = 1
	}
	width := int(math.Ceil(bounds.W*scale)) + 2*opts.Padding
	height := int(math.Ceil(bounds.H*scale)) + 2*opts.Padding

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	canvas.Def()
	canvas.Marker("arrow", 10, 5, 10, 10, `orient="auto"`, `markerUnits="userSpaceOnUse"`)
	canvas.Path("M 0 0 L 10 5 L 0 10 z", "fill:#666")
	canvas.MarkerEnd()
	canvas.DefEnd()
	canvas.Rect(0, 0, width, height, "fill:#fff")

	canvas.Gtransform(fmt.Sprintf("translate(%d %d)", opts.Padding, opts.Padding))
	canvas.Gtransform("scale(" + num(scale) + ")")
	canvas.Gtransform(geom.Transform{X: -bounds.X, Y: -bounds.Y}.String())

	canvas.Group(`class="editor-lines"`)
	for _, e := range sc.Edges() {
		canvas.Path(e.Path.PathData(), `class="editor-line"`, `id="`+e.Key.String()+`"`, `marker-end="url(#arrow)"`, styleEdge)
	}
	if p := sc.Preview(); p != nil {
		canvas.Path(p.PathData(), `class="editor-line-preview"`, stylePreview)
	}
	canvas.Gend()

	canvas.Group(`class="editor-nodes"`)
	for _, n := range sc.Nodes() {
		b := n.Bounds
		canvas.Group(`class="editor-node"`, `id="`+n.ID+`"`)
		canvas.Rect(round(b.X), round(b.Y), round(b.W), round(b.H), nodeStyle(n))
		if opts.Labels {
			c := b.Center()
			canvas.Text(round(c.X), round(c.Y), Label(n.ID), styleLabel+";font-size:"+strconv.Itoa(opts.FontSize)+"px")
		}
		canvas.Gend()
	}
	canvas.Gend()

	canvas.Gend()
	canvas.Gend()
	canvas.Gend()

	if m := sc.Marquee(); m != nil {
		// Content space is already scaled.
		canvas.Rect(round(m.X-bounds.X*scale)+opts.Padding, round(m.Y-bounds.Y*scale)+opts.Padding, round(m.W), round(m.H), styleMarquee)
	}
	canvas.End()
	return ew.err
}

func nodeStyle(n NodeShape) string {
	switch {
	case n.State.Dragging:
		return styleDragging
	case n.State.Selected:
		return styleSelected
	}
	return styleNode
}

func round(v float64) int { return int(math.Round(v)) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
