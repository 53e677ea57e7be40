// Cubic Bézier curves for diagram connectors.
// Evaluation, tangents and sampled measurements used by rendering and
// edge hit-testing.

package geom

import (
	"fmt"
	"math"
	"strings"
)

// curveSamples controls the resolution of sampled measurements.
const curveSamples = 64

// Cubic is a single cubic Bézier segment.
type Cubic struct {
	P0, P1, P2, P3 Point
}

// Eval computes the point on the curve at parameter t ∈ [0,1].
func (c Cubic) Eval(t float64) Point {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*c.P0.X + 3*mt2*t*c.P1.X + 3*mt*t2*c.P2.X + t3*c.P3.X,
		Y: mt3*c.P0.Y + 3*mt2*t*c.P1.Y + 3*mt*t2*c.P2.Y + t3*c.P3.Y,
	}
}

// Tangent computes the derivative of the curve at t.
func (c Cubic) Tangent(t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t

	return Point{
		X: 3*mt2*(c.P1.X-c.P0.X) + 6*mt*t*(c.P2.X-c.P1.X) + 3*t2*(c.P3.X-c.P2.X),
		Y: 3*mt2*(c.P1.Y-c.P0.Y) + 6*mt*t*(c.P2.Y-c.P1.Y) + 3*t2*(c.P3.Y-c.P2.Y),
	}
}

// Length approximates the arc length by sampling.
func (c Cubic) Length() float64 {
	length := 0.0
	prev := c.P0
	for i := 1; i <= curveSamples; i++ {
		curr := c.Eval(float64(i) / curveSamples)
		length += distance(prev, curr)
		prev = curr
	}
	return length
}

// Bounds returns the sampled bounding box of the curve itself, which is
// tighter than the hull of its control points.
func (c Cubic) Bounds() Rect {
	minX, minY := c.P0.X, c.P0.Y
	maxX, maxY := minX, minY
	for i := 1; i <= curveSamples; i++ {
		p := c.Eval(float64(i) / curveSamples)
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Distance returns the approximate shortest distance from p to the curve.
func (c Cubic) Distance(p Point) float64 {
	best := math.MaxFloat64
	prev := c.P0
	for i := 1; i <= curveSamples; i++ {
		curr := c.Eval(float64(i) / curveSamples)
		if d := segmentDistance(p, prev, curr); d < best {
			best = d
		}
		prev = curr
	}
	return best
}

// Midpoint returns the point at t=0.5.
func (c Cubic) Midpoint() Point {
	return c.Eval(0.5)
}

// PathData renders the curve as an SVG path "d" attribute.
func (c Cubic) PathData() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "M %s %s C %s %s, %s %s, %s %s",
		formatFloat(c.P0.X), formatFloat(c.P0.Y),
		formatFloat(c.P1.X), formatFloat(c.P1.Y),
		formatFloat(c.P2.X), formatFloat(c.P2.Y),
		formatFloat(c.P3.X), formatFloat(c.P3.Y))
	return sb.String()
}

// Scale multiplies every control point by f.
func (c Cubic) Scale(f float64) Cubic {
	return Cubic{c.P0.Scale(f), c.P1.Scale(f), c.P2.Scale(f), c.P3.Scale(f)}
}

func distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// segmentDistance is the distance from p to the segment ab.
func segmentDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return distance(p, Point{a.X + t*dx, a.Y + t*dy})
}
