package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ha1tch/treeflow/pkg/geom"
)

// PNGOptions configures PNG export.
type PNGOptions struct {
	Width       int     // output width, 0 to fit the content
	Height      int     // output height, 0 to fit the content
	Padding     int     // margin in output pixels
	FontSize    float64 // label size in diagram units
	Supersample int     // render at this multiple, then downscale
	Labels      bool
}

// DefaultPNGOptions returns the standard export settings.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Padding:     20,
		FontSize:    12,
		Supersample: 2,
		Labels:      true,
	}
}

// Colors used in rendering
var (
	colorWhite       = color.RGBA{255, 255, 255, 255}
	colorInk         = color.RGBA{51, 51, 51, 255}    // #333
	colorLine        = color.RGBA{102, 102, 102, 255} // #666
	colorNode        = color.RGBA{250, 250, 250, 255} // #fafafa
	colorSelected    = color.RGBA{227, 242, 253, 255} // #e3f2fd
	colorSelectedBdr = color.RGBA{21, 101, 192, 255}  // #1565c0
	colorDragging    = color.RGBA{255, 243, 224, 255} // #fff3e0
	colorDraggingBdr = color.RGBA{230, 81, 0, 255}    // #e65100
)

var regularFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// PNG rasterizes the scene. Drawing happens at Supersample times the
// output size and is downscaled with Catmull-Rom for smooth edges.
func PNG(w io.Writer, sc *Scene, opts PNGOptions) error {
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultPNGOptions().FontSize
	}

	bounds := sc.Bounds()
	scale := sc.Scale()
	if scale <= 0 {
		scale = 1
	}
	width, height, fit := fitOutput(bounds, scale, opts)
	k := float64(opts.Supersample)

	fnt, err := regularFont()
	if err != nil {
		return fmt.Errorf("parsing font: %w", err)
	}
	face := truetype.NewFace(fnt, &truetype.Options{
		Size:    opts.FontSize * fit * k,
		DPI:     72,
		Hinting: font.HintingNone, // supersampled instead
	})
	defer face.Close()

	dc := gg.NewContext(width*opts.Supersample, height*opts.Supersample)
	dc.SetColor(colorWhite)
	dc.Clear()
	dc.SetFontFace(face)

	// Diagram units to supersampled pixels
	dc.Scale(k, k)
	pad := float64(opts.Padding)
	dc.Translate(pad, pad)
	dc.Scale(fit, fit)
	dc.Translate(-bounds.X, -bounds.Y)
	// gg strokes in device pixels
	lineWidth := 1.5 * k

	// Edges first so boxes cover their ends
	dc.SetColor(colorLine)
	dc.SetLineWidth(lineWidth)
	for _, e := range sc.Edges() {
		strokeCubic(dc, e.Path)
		drawArrow(dc, e.Path, 8/fit)
	}
	if p := sc.Preview(); p != nil {
		dc.SetColor(colorSelectedBdr)
		dc.SetDash(6*k, 4*k)
		strokeCubic(dc, *p)
		dc.SetDash()
	}

	for _, n := range sc.Nodes() {
		fill, border := colorNode, colorInk
		switch {
		case n.State.Dragging:
			fill, border = colorDragging, colorDraggingBdr
		case n.State.Selected:
			fill, border = colorSelected, colorSelectedBdr
		}
		b := n.Bounds
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		dc.SetColor(fill)
		dc.FillPreserve()
		dc.SetColor(border)
		dc.SetLineWidth(lineWidth)
		dc.Stroke()

		if opts.Labels {
			c := b.Center()
			dc.SetColor(colorInk)
			drawLabel(dc, Label(n.ID), c)
		}
	}

	large := dc.Image()
	final := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return png.Encode(w, final)
}

// fitOutput returns the output size and the diagram-to-pixel factor. With
// no fixed size the scene scale is used as is; otherwise the content is
// fitted inside the requested box.
func fitOutput(bounds geom.Rect, scale float64, opts PNGOptions) (int, int, float64) {
	pad := 2 * opts.Padding
	if opts.Width <= 0 || opts.Height <= 0 {
		w := int(math.Ceil(bounds.W*scale)) + pad
		h := int(math.Ceil(bounds.H*scale)) + pad
		return max(w, 1), max(h, 1), scale
	}
	fit := scale
	if bounds.W > 0 && bounds.H > 0 {
		fit = math.Min(float64(opts.Width-pad)/bounds.W, float64(opts.Height-pad)/bounds.H)
		if fit <= 0 {
			fit = scale
		}
	}
	return opts.Width, opts.Height, fit
}

func strokeCubic(dc *gg.Context, c geom.Cubic) {
	dc.MoveTo(c.P0.X, c.P0.Y)
	dc.CubicTo(c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)
	dc.Stroke()
}

// drawArrow fills an arrowhead at the end of c along its final tangent.
func drawArrow(dc *gg.Context, c geom.Cubic, size float64) {
	t := c.Tangent(1)
	length := math.Hypot(t.X, t.Y)
	if length < 1e-9 {
		// Degenerate end tangent; fall back to the chord.
		t = c.P3.Sub(c.P0)
		length = math.Hypot(t.X, t.Y)
		if length < 1e-9 {
			return
		}
	}
	dx, dy := t.X/length, t.Y/length
	tip := c.P3
	const spread = 0.5
	dc.MoveTo(tip.X, tip.Y)
	dc.LineTo(tip.X-size*dx+size*dy*spread, tip.Y-size*dy-size*dx*spread)
	dc.LineTo(tip.X-size*dx-size*dy*spread, tip.Y-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.Fill()
}

// drawLabel centers text on p. gg positions glyphs through the current
// matrix but sizes them from the face, so the face is built at the final
// pixel size and the anchor is mapped by hand.
func drawLabel(dc *gg.Context, text string, p geom.Point) {
	x, y := dc.TransformPoint(p.X, p.Y)
	dc.Push()
	dc.Identity()
	dc.DrawStringAnchored(text, x, y, 0.5, 0.35)
	dc.Pop()
}
