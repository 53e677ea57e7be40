package geom

import (
	"errors"
	"math"
	"testing"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "No overlap - horizontally separated",
			a:        Rect{0, 0, 10, 10},
			b:        Rect{20, 0, 10, 10},
			expected: false,
		},
		{
			name:     "No overlap - vertically separated",
			a:        Rect{0, 0, 10, 10},
			b:        Rect{0, 20, 10, 10},
			expected: false,
		},
		{
			name:     "Touching edges",
			a:        Rect{0, 0, 10, 10},
			b:        Rect{10, 0, 10, 10},
			expected: false,
		},
		{
			name:     "Same rect",
			a:        Rect{0, 0, 10, 10},
			b:        Rect{0, 0, 10, 10},
			expected: true,
		},
		{
			name:     "Partial overlap",
			a:        Rect{0, 0, 10, 10},
			b:        Rect{5, 5, 10, 10},
			expected: true,
		},
		{
			name:     "Containment",
			a:        Rect{0, 0, 100, 100},
			b:        Rect{40, 40, 5, 5},
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects not symmetric: expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestRectFromCorners(t *testing.T) {
	r := RectFromCorners(Point{30, 5}, Point{10, 25})
	if r != (Rect{10, 5, 20, 20}) {
		t.Errorf("Expected {10 5 20 20}, got %v", r)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{10, 10, 20, 10}
	if !r.Contains(Point{10, 10}) {
		t.Error("Top-left corner should be inside")
	}
	if r.Contains(Point{30, 15}) {
		t.Error("Right edge should be exclusive")
	}
	if r.Contains(Point{5, 15}) {
		t.Error("Point left of rect should be outside")
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in   string
		want Transform
	}{
		{"translate(10 20)", Transform{10, 20}},
		{"translate(-5 7)", Transform{-5, 7}},
		{"translate(1.5, 2.25)", Transform{1.5, 2.25}},
		{"scale(2) translate( 3  4 )", Transform{3, 4}},
	}
	for _, tc := range tests {
		got, err := ParseTransform(tc.in)
		if err != nil {
			t.Errorf("ParseTransform(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTransform(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseTransform("scale(2)"); !errors.Is(err, ErrBadTransform) {
		t.Errorf("Expected ErrBadTransform, got %v", err)
	}
}

func TestTransformStringRoundTrip(t *testing.T) {
	tr := Transform{12, -3.5}
	back, err := ParseTransform(tr.String())
	if err != nil {
		t.Fatalf("Parse of %q failed: %v", tr.String(), err)
	}
	if back != tr {
		t.Errorf("Expected %v, got %v", tr, back)
	}
}

func TestConnectorAnchors(t *testing.T) {
	size := Size{120, 30}
	c := Connector(Point{0, 0}, Point{200, 100}, size)

	if c.P0 != (Point{60, 30}) {
		t.Errorf("Start should be parent bottom-center (60,30), got %v", c.P0)
	}
	if c.P3 != (Point{260, 100}) {
		t.Errorf("End should be child top-center (260,100), got %v", c.P3)
	}
	// Control point 1 shares start x and end y
	if c.P1 != (Point{60, 100}) {
		t.Errorf("P1 expected (60,100), got %v", c.P1)
	}
	// Control point 2 shares end x and start y
	if c.P2 != (Point{260, 30}) {
		t.Errorf("P2 expected (260,30), got %v", c.P2)
	}
}

func TestCubicEval(t *testing.T) {
	c := Loose(Point{0, 0}, Point{100, 100})

	if p := c.Eval(0); p != c.P0 {
		t.Errorf("Eval(0) should be P0, got %v", p)
	}
	if p := c.Eval(1); p != c.P3 {
		t.Errorf("Eval(1) should be P3, got %v", p)
	}
	mid := c.Midpoint()
	if math.Abs(mid.X-50) > 0.01 || math.Abs(mid.Y-50) > 0.01 {
		t.Errorf("Symmetric curve midpoint expected (50,50), got %v", mid)
	}
}

func TestCubicDistance(t *testing.T) {
	c := Loose(Point{0, 0}, Point{0, 100}) // degenerate vertical line
	if d := c.Distance(Point{0, 50}); d > 0.01 {
		t.Errorf("Point on curve should have ~0 distance, got %.3f", d)
	}
	if d := c.Distance(Point{10, 50}); math.Abs(d-10) > 0.5 {
		t.Errorf("Expected distance ~10, got %.3f", d)
	}
}

func TestCubicBoundsAndLength(t *testing.T) {
	c := Loose(Point{0, 0}, Point{100, 50})
	b := c.Bounds()
	if b.X > 0 || b.Y > 0 || b.Right() < 100 || b.Bottom() < 50 {
		t.Errorf("Bounds %v should contain both endpoints", b)
	}
	straight := math.Hypot(100, 50)
	if l := c.Length(); l < straight {
		t.Errorf("Curve length %.2f shorter than chord %.2f", l, straight)
	}
}

func TestPathData(t *testing.T) {
	c := Connector(Point{0, 0}, Point{0, 100}, Size{120, 30})
	want := "M 60 30 C 60 100, 60 30, 60 100"
	if got := c.PathData(); got != want {
		t.Errorf("PathData = %q, want %q", got, want)
	}
}

func TestRoundTo(t *testing.T) {
	if v := RoundTo(0.1+0.2, 1); v != 0.3 {
		t.Errorf("Expected 0.3, got %v", v)
	}
	if v := RoundTo(1.25, 0); v != 1 {
		t.Errorf("Expected 1, got %v", v)
	}
}
