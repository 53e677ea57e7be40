package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/treeflow/pkg/geom"
)

func TestMoveGesture(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", 100, 100)

	require.True(t, f.ed.PointerDown(pointer(110, 115)))
	assert.Equal(t, Moving, f.ed.Active())
	assert.True(t, a.Dragging())
	assert.True(t, f.surface.states["a"].Dragging)

	f.ed.PointerMove(drag(120, 125, 10, 10))
	f.ed.PointerMove(drag(125, 125, 5, 0))
	assert.Equal(t, geom.Point{X: 115, Y: 110}, a.Position())
	assert.Empty(t, f.changes, "ticks do not notify")

	f.ed.PointerUp(pointer(125, 125))
	assert.Equal(t, Idle, f.ed.Active())
	assert.False(t, a.Dragging())
	assert.Len(t, f.changes, 1)
}

func TestMoveGestureWithoutMovementIsSilent(t *testing.T) {
	f := newFixture(t)
	f.node(t, "a", 100, 100)
	require.True(t, f.ed.PointerDown(pointer(110, 115)))
	f.ed.PointerUp(pointer(110, 115))
	assert.Empty(t, f.changes)
}

func TestMoveGestureScaled(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", 100, 100)
	require.True(t, f.ed.SetScale(2))
	f.reset()

	require.True(t, f.ed.PointerDown(pointer(220, 230)))
	f.ed.PointerMove(drag(240, 230, 20, 0))
	f.ed.PointerUp(pointer(240, 230))
	assert.Equal(t, geom.Point{X: 110, Y: 100}, a.Position())
}

func TestMoveGestureCarriesSelection(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", 100, 100)
	b := f.node(t, "b", 10, 300)
	c := f.node(t, "c", 600, 600)
	require.True(t, a.AddConnect("b"))
	f.ed.SelectIn(geom.Rect{X: 0, Y: 0, W: 400, H: 400})
	require.Len(t, f.ed.Selected(), 2)
	f.reset()

	require.True(t, f.ed.PointerDown(pointer(110, 115)))
	assert.True(t, b.Dragging())
	assert.False(t, c.Dragging())

	// b would leave the canvas, so the whole tick is dropped.
	f.ed.PointerMove(drag(90, 110, -20, -5))
	assert.Equal(t, geom.Point{X: 100, Y: 100}, a.Position())
	assert.Equal(t, geom.Point{X: 10, Y: 300}, b.Position())

	f.ed.PointerMove(drag(85, 105, -5, -5))
	f.ed.PointerUp(pointer(85, 105))
	assert.Equal(t, geom.Point{X: 95, Y: 95}, a.Position())
	assert.Equal(t, geom.Point{X: 5, Y: 295}, b.Position())
	assert.Equal(t, geom.Point{X: 600, Y: 600}, c.Position())
	assert.Equal(t, geom.Point{X: 155, Y: 125}, f.surface.edges[EdgeKey{"a", "b"}].P0)
	assert.Len(t, f.changes, 1)
}

func TestConnectGesture(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", 0, 0)
	b := f.node(t, "b", 300, 0)

	require.True(t, f.ed.PointerDown(pointer(60, 25)))
	assert.Equal(t, Connecting, f.ed.Active())
	require.NotNil(t, f.surface.preview)
	assert.Equal(t, geom.Point{X: 60, Y: 30}, f.surface.preview.P0)

	f.ed.PointerMove(pointer(350, 10))
	require.NotNil(t, f.surface.preview)
	assert.Equal(t, geom.Point{X: 350, Y: 10}, f.surface.preview.P3)
	assert.Equal(t, geom.Point{X: 60, Y: 10}, f.surface.preview.P1)

	f.ed.PointerUp(pointer(350, 10))
	assert.Nil(t, f.surface.preview)
	assert.Same(t, a, b.Source())
	assert.Contains(t, f.surface.edges, EdgeKey{"a", "b"})
	assert.Len(t, f.changes, 1)
}

func TestConnectGestureMisses(t *testing.T) {
	tests := []struct {
		name string
		at   geom.Point
	}{
		{"empty canvas", geom.Point{X: 700, Y: 400}},
		{"own body", geom.Point{X: 20, Y: 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.node(t, "a", 0, 0)
			f.node(t, "b", 300, 0)

			require.True(t, f.ed.PointerDown(pointer(60, 25)))
			f.ed.PointerMove(pointer(tt.at.X, tt.at.Y))
			f.ed.PointerUp(pointer(tt.at.X, tt.at.Y))

			assert.Nil(t, f.surface.preview)
			assert.Empty(t, f.ed.Edges())
			assert.Empty(t, f.changes)
		})
	}
}

func TestMarqueeGesture(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.NodeSize = geom.Size{W: 10, H: 10} })
	a := f.node(t, "a", 0, 0)
	b := f.node(t, "b", 100, 100)

	require.True(t, f.ed.PointerDown(pointer(20, 20)))
	assert.Equal(t, Selecting, f.ed.Active())

	f.ed.PointerMove(pointer(0, 0))
	assert.True(t, a.Selected())
	assert.False(t, b.Selected())
	require.NotNil(t, f.surface.marquee)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 20, H: 20}, *f.surface.marquee)

	f.ed.PointerMove(pointer(200, 200))
	assert.True(t, b.Selected())

	// Selection is recomputed each tick, not accumulated.
	f.ed.PointerMove(pointer(5, 5))
	assert.True(t, a.Selected())
	assert.False(t, b.Selected())

	f.ed.PointerUp(pointer(5, 5))
	assert.Nil(t, f.surface.marquee)
	assert.Equal(t, []*Node{a}, f.ed.Selected())
	assert.Empty(t, f.changes)
}

func TestMarqueeInContentSpace(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.NodeSize = geom.Size{W: 10, H: 10} })
	b := f.node(t, "b", 500, 500)
	f.ed.ScrollTo(geom.Point{X: 450, Y: 450})

	require.True(t, f.ed.PointerDown(pointer(40, 40)))
	f.ed.PointerMove(pointer(60, 60))
	assert.True(t, b.Selected())
	f.ed.PointerUp(pointer(60, 60))
}

func TestSelectInScaled(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.NodeSize = geom.Size{W: 10, H: 10} })
	b := f.node(t, "b", 100, 100)
	require.True(t, f.ed.SetScale(2))

	f.ed.SelectIn(geom.RectFromCorners(geom.Point{X: 190, Y: 190}, geom.Point{X: 205, Y: 205}))
	assert.True(t, b.Selected())
	f.ed.SelectIn(geom.RectFromCorners(geom.Point{X: 105, Y: 105}, geom.Point{X: 150, Y: 150}))
	assert.False(t, b.Selected(), "unscaled bounds would match, scaled bounds do not")
}

func TestPanGesture(t *testing.T) {
	f := newFixture(t)
	ev := pointer(100, 100)
	ev.Button = ButtonMiddle
	require.True(t, f.ed.PointerDown(ev))
	assert.Equal(t, Panning, f.ed.Active())

	f.ed.PointerMove(drag(50, 80, -50, -20))
	assert.Equal(t, geom.Point{X: 50, Y: 20}, f.ed.Scroll())
	f.ed.PointerUp(pointer(50, 80))

	require.Len(t, f.changes, 1)
	assert.Equal(t, 50.0, f.changes[0].ScrollLeft)

	f.reset()
	require.True(t, f.ed.PointerDown(ev))
	f.ed.PointerMove(drag(200, 200, 100, 100)) // clamped at the origin
	f.ed.PointerMove(drag(200, 200, 0, 0))
	f.ed.PointerUp(pointer(200, 200))
	assert.Equal(t, geom.Point{}, f.ed.Scroll())
	assert.Len(t, f.changes, 1)
}

func TestPlaceGesture(t *testing.T) {
	f := newFixture(t)
	start := pointer(-100, 50)
	start.Source = SourceEvent{PageX: 5, PageY: 600}

	require.True(t, f.ed.BeginPlace(start))
	assert.Equal(t, Placing, f.ed.Active())
	require.NotNil(t, f.surface.placeholder)
	assert.Equal(t, geom.Point{X: 5, Y: 600}, *f.surface.placeholder)

	f.ed.PointerMove(pointer(200, 100))
	assert.Equal(t, geom.Point{X: 200, Y: 100}, *f.surface.placeholder)

	f.ed.PointerUp(pointer(200, 100))
	assert.Nil(t, f.surface.placeholder)
	require.Equal(t, 1, f.ed.Len())
	assert.Equal(t, geom.Point{X: 140, Y: 85}, f.ed.Nodes()[0].Position())
	assert.Len(t, f.changes, 1)
}

func TestPlaceGestureOutsideCanvas(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.ed.BeginPlace(pointer(-20, 10)))
	f.ed.PointerUp(pointer(-20, 10))
	assert.Nil(t, f.surface.placeholder)
	assert.Zero(t, f.ed.Len())
	assert.Empty(t, f.changes)
}

func TestCancel(t *testing.T) {
	t.Run("connect is discarded", func(t *testing.T) {
		f := newFixture(t)
		f.node(t, "a", 0, 0)
		f.node(t, "b", 300, 0)
		require.True(t, f.ed.PointerDown(pointer(60, 25)))
		f.ed.PointerMove(pointer(350, 10))
		f.ed.Cancel()
		assert.Equal(t, Idle, f.ed.Active())
		assert.Nil(t, f.surface.preview)
		assert.Empty(t, f.ed.Edges())
	})

	t.Run("move commits", func(t *testing.T) {
		f := newFixture(t)
		a := f.node(t, "a", 100, 100)
		require.True(t, f.ed.PointerDown(pointer(110, 115)))
		f.ed.PointerMove(drag(120, 115, 10, 0))
		f.ed.Cancel()
		assert.False(t, a.Dragging())
		assert.Equal(t, geom.Point{X: 110, Y: 100}, a.Position())
		assert.Len(t, f.changes, 1)
	})

	t.Run("marquee keeps selection", func(t *testing.T) {
		f := newFixture(t)
		a := f.node(t, "a", 100, 100)
		require.True(t, f.ed.PointerDown(pointer(500, 400)))
		f.ed.PointerMove(pointer(50, 50))
		f.ed.Cancel()
		assert.Nil(t, f.surface.marquee)
		assert.True(t, a.Selected())
	})

	t.Run("place is discarded", func(t *testing.T) {
		f := newFixture(t)
		require.True(t, f.ed.BeginPlace(pointer(10, 10)))
		f.ed.Cancel()
		assert.Nil(t, f.surface.placeholder)
		assert.Zero(t, f.ed.Len())
	})

	t.Run("idle is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.ed.Cancel()
		assert.Equal(t, Idle, f.ed.Active())
	})
}

func TestOneGestureAtATime(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", 100, 100)

	require.True(t, f.ed.PointerDown(pointer(500, 400)))
	assert.False(t, f.ed.PointerDown(pointer(110, 115)))
	assert.False(t, f.ed.BeginPlace(pointer(10, 10)))
	assert.Equal(t, Selecting, f.ed.Active())
	assert.False(t, a.Dragging())
	f.ed.PointerUp(pointer(500, 400))

	// Stray moves and releases while idle are ignored.
	f.ed.PointerMove(drag(0, 0, 10, 10))
	f.ed.PointerUp(pointer(0, 0))
	assert.Equal(t, Idle, f.ed.Active())
	assert.Equal(t, geom.Point{X: 100, Y: 100}, a.Position())

	secondary := pointer(110, 115)
	secondary.Button = ButtonSecondary
	assert.False(t, f.ed.PointerDown(secondary))
}

func TestGestureKindString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "connecting", Connecting.String())
	assert.Equal(t, "placing", Placing.String())
}
