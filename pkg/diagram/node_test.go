package diagram

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/treeflow/pkg/geom"
)

func TestConnectScenario(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", 0, 0)
	b := f.node(t, "b", 0, 100)
	c := f.node(t, "c", 300, 0)

	require.True(t, a.AddConnect("b"))
	assert.Same(t, a, b.Source())
	assert.Equal(t, []string{"b"}, a.TargetIDs())
	assert.Len(t, f.changes, 1)

	f.reset()
	assert.False(t, c.AddConnect("b"), "b already has a parent")
	assert.Same(t, a, b.Source())
	assert.Equal(t, []string{"b"}, a.TargetIDs())
	assert.Empty(t, c.TargetIDs())
	assert.Empty(t, f.changes)

	path, ok := f.surface.edges[EdgeKey{"a", "b"}]
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 60, Y: 30}, path.P0)
	assert.Equal(t, geom.Point{X: 60, Y: 100}, path.P3)
}

func TestAddConnectRejections(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", 0, 0)
	b := f.node(t, "b", 0, 100)
	c := f.node(t, "c", 0, 200)
	require.True(t, a.AddConnect("b"))
	require.True(t, b.AddConnect("c"))
	f.reset()

	tests := []struct {
		name   string
		source *Node
		target string
	}{
		{"self", a, "a"},
		{"unknown", a, "missing"},
		{"second parent", c, "b"},
		{"existing child", a, "b"},
		{"cycle to root", c, "a"},
		{"cycle to parent", b, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.source.AddConnect(tt.target))
		})
	}

	assert.Empty(t, f.changes)
	assert.Len(t, f.surface.edges, 2)
	assertForest(t, f.ed)
}

func TestRandomConnectsKeepForest(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f := newFixture(t)
	const count = 12
	for i := 0; i < count; i++ {
		f.node(t, fmt.Sprintf("n%d", i), float64(i*10), 0)
	}

	for step := 0; step < 500; step++ {
		src := f.ed.NodeByID(fmt.Sprintf("n%d", rng.Intn(count)))
		dst := fmt.Sprintf("n%d", rng.Intn(count))
		if rng.Intn(4) == 0 {
			src.RemoveConnect(dst)
		} else {
			src.AddConnect(dst)
		}
		assertForest(t, f.ed)
	}
	assert.Len(t, f.surface.edges, len(f.ed.Edges()))
}

func TestRemoveConnectIdempotent(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", 0, 0)
	b := f.node(t, "b", 0, 100)
	require.True(t, a.AddConnect("b"))
	f.reset()

	assert.True(t, a.RemoveConnect("b"))
	assert.False(t, a.RemoveConnect("b"))
	assert.Nil(t, b.Source())
	assert.Empty(t, a.TargetIDs())
	assert.Empty(t, f.surface.edges)
	assert.Len(t, f.changes, 1)

	assert.False(t, a.RemoveConnect("missing"))
}

func TestDestroyLeavesNoReferences(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", 0, 0)
	b := f.node(t, "b", 0, 100)
	f.node(t, "c", 0, 200)
	f.node(t, "d", 200, 200)
	require.True(t, a.AddConnect("b"))
	require.True(t, b.AddConnect("c"))
	require.True(t, b.AddConnect("d"))
	f.reset()

	b.Destroy()

	assert.True(t, b.Removed())
	assert.Nil(t, f.ed.NodeByID("b"))
	assert.Equal(t, 3, f.ed.Len())
	for _, n := range f.ed.Nodes() {
		assert.NotEqual(t, "b", n.SourceID())
		assert.NotContains(t, n.TargetIDs(), "b")
	}
	assert.Empty(t, a.TargetIDs())
	assert.Nil(t, f.ed.NodeByID("c").Source())
	assert.Empty(t, f.surface.edges)
	assert.NotContains(t, f.surface.nodes, "b")
	assert.Len(t, f.changes, 1, "destroy notifies once")
	assertForest(t, f.ed)

	// A destroyed node ignores further calls.
	b.Destroy()
	assert.False(t, b.AddConnect("c"))
	assert.Len(t, f.changes, 1)
}

func TestMoveBy(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "a", 10, 10)
	b := f.node(t, "b", 10, 100)
	require.True(t, a.AddConnect("b"))
	f.reset()

	assert.True(t, a.MoveBy(5, 5))
	assert.Equal(t, geom.Point{X: 15, Y: 15}, a.Position())
	assert.Equal(t, geom.Point{X: 75, Y: 45}, f.surface.edges[EdgeKey{"a", "b"}].P0)
	assert.Len(t, f.changes, 1)

	assert.False(t, a.MoveBy(-20, 0), "negative x is rejected")
	assert.False(t, a.MoveBy(0, -16), "negative y is rejected")
	assert.Equal(t, geom.Point{X: 15, Y: 15}, a.Position())
	assert.Len(t, f.changes, 1)

	assert.True(t, b.MoveTo(geom.Point{X: 0, Y: 0}))
	assert.Equal(t, geom.Point{X: 60, Y: 0}, f.surface.edges[EdgeKey{"a", "b"}].P3)

	ids := f.ed.index.At(geom.Point{X: 1, Y: 1})
	assert.Equal(t, []string{"b"}, ids)
}
