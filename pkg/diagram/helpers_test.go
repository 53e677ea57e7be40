package diagram

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ha1tch/treeflow/pkg/geom"
	"github.com/ha1tch/treeflow/pkg/snapshot"
)

// recorder is a Surface that keeps the latest state of every primitive.
type recorder struct {
	scale       float64
	scroll      geom.Point
	nodes       map[string]geom.Rect
	states      map[string]NodeState
	edges       map[EdgeKey]geom.Cubic
	preview     *geom.Cubic
	marquee     *geom.Rect
	placeholder *geom.Point
}

func newRecorder() *recorder {
	return &recorder{
		nodes:  make(map[string]geom.Rect),
		states: make(map[string]NodeState),
		edges:  make(map[EdgeKey]geom.Cubic),
	}
}

func (r *recorder) SetTransform(scale float64) { r.scale = scale }
func (r *recorder) SetScroll(p geom.Point) { r.scroll = p }
func (r *recorder) AddNode(id string, b geom.Rect) { r.nodes[id] = b }

func (r *recorder) MoveNode(id string, at geom.Point) {
	b := r.nodes[id]
	b.X, b.Y = at.X, at.Y
	r.nodes[id] = b
}

func (r *recorder) SetNodeState(id string, s NodeState) { r.states[id] = s }

func (r *recorder) RemoveNode(id string) {
	delete(r.nodes, id)
	delete(r.states, id)
}

func (r *recorder) SetEdge(k EdgeKey, c geom.Cubic) { r.edges[k] = c }
func (r *recorder) RemoveEdge(k EdgeKey) { delete(r.edges, k) }
func (r *recorder) SetPreview(c *geom.Cubic) { r.preview = c }
func (r *recorder) SetMarquee(m *geom.Rect) { r.marquee = m }
func (r *recorder) SetPlaceholder(p *geom.Point) { r.placeholder = p }

// fixture bundles an editor with its recorder and a change counter.
type fixture struct {
	ed      *Editor
	surface *recorder
	changes []snapshot.Snapshot
}

func newFixture(t *testing.T, tweak ...func(*Options)) *fixture {
	t.Helper()
	f := &fixture{surface: newRecorder()}
	seq := 0
	opts := DefaultOptions()
	opts.Surface = f.surface
	opts.IDs = func() string {
		seq++
		return fmt.Sprintf("n%d", seq)
	}
	opts.OnChange = func(s snapshot.Snapshot) { f.changes = append(f.changes, s) }
	for _, fn := range tweak {
		fn(&opts)
	}
	f.ed = New(opts)
	return f
}

// node creates a node at an explicit position without notifying.
func (f *fixture) node(t *testing.T, id string, x, y float64) *Node {
	t.Helper()
	n := f.ed.AddNodeFromData(snapshot.NodeRecord{ID: id, X: x, Y: y})
	require.NotNil(t, n)
	return n
}

func (f *fixture) reset() { f.changes = nil }

// assertForest checks that no node has two parents, that every parent and
// child link agrees, and that no cycle is reachable.
func assertForest(t *testing.T, ed *Editor) {
	t.Helper()
	parents := make(map[string]string)
	for _, n := range ed.Nodes() {
		for _, c := range n.TargetIDs() {
			_, dup := parents[c]
			require.Falsef(t, dup, "node %s has two parents", c)
			parents[c] = n.ID()
			child := ed.NodeByID(c)
			require.NotNilf(t, child, "dangling child %s", c)
			require.Equal(t, n.ID(), child.SourceID())
		}
	}
	for _, n := range ed.Nodes() {
		seen := map[string]bool{}
		for cur := n.ID(); cur != ""; cur = parents[cur] {
			require.Falsef(t, seen[cur], "cycle through %s", cur)
			seen[cur] = true
		}
		if n.SourceID() != "" {
			require.Equal(t, parents[n.ID()], n.SourceID())
		}
	}
}

func pointer(x, y float64) PointerEvent {
	return PointerEvent{X: x, Y: y, Source: SourceEvent{PageX: x, PageY: y}}
}

func drag(x, y, dx, dy float64) PointerEvent {
	ev := pointer(x, y)
	ev.DX, ev.DY = dx, dy
	return ev
}
