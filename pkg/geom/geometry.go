// Package geom provides the pure geometry used by the diagram engine:
// points and rectangles, connector curves, typed transforms, element
// ancestry walks and a spatial index for hit-testing.
package geom

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale multiplies both coordinates by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Rect represents an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64 // Top-left
	W, H float64 // Full width and height
}

// RectFromCorners builds a normalized rectangle from two arbitrary corners,
// as produced by a rubber-band drag in any direction.
func RectFromCorners(a, b Point) Rect {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) Right() float64 { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so adjacent rectangles never both claim a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether r and o overlap with positive area.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Scale multiplies position and size by f.
func (r Rect) Scale(f float64) Rect {
	return Rect{r.X * f, r.Y * f, r.W * f, r.H * f}
}

// Translate moves the rectangle by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{r.X + d.X, r.Y + d.Y, r.W, r.H}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// ErrBadTransform is returned when a transform string cannot be parsed.
var ErrBadTransform = errors.New("geom: malformed transform")

// Transform is a typed translation, replacing a parsed "translate(x y)"
// attribute string.
type Transform struct {
	X, Y float64
}

var translatePattern = regexp.MustCompile(`translate\(\s*(-?\d+(?:\.\d+)?)\s*[,\s]\s*(-?\d+(?:\.\d+)?)\s*\)`)

// ParseTransform reads a "translate(x y)" or "translate(x, y)" string.
func ParseTransform(s string) (Transform, error) {
	m := translatePattern.FindStringSubmatch(s)
	if m == nil {
		return Transform{}, fmt.Errorf("%w: %q", ErrBadTransform, s)
	}
	x, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Transform{}, fmt.Errorf("%w: %v", ErrBadTransform, err)
	}
	y, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Transform{}, fmt.Errorf("%w: %v", ErrBadTransform, err)
	}
	return Transform{X: x, Y: y}, nil
}

// Point returns the translation as a point.
func (t Transform) Point() Point { return Point{t.X, t.Y} }

// Apply translates p.
func (t Transform) Apply(p Point) Point { return Point{p.X + t.X, p.Y + t.Y} }

func (t Transform) String() string {
	return fmt.Sprintf("translate(%s %s)", formatFloat(t.X), formatFloat(t.Y))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
