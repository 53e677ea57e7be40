// Package diagram implements the node-link diagram engine: a forest of
// positioned nodes joined by routed connectors, the gesture state machines
// that edit it, zoom and scroll, and the snapshot protocol used for
// persistence. Rendering and input are delegated to the host through
// Surface and PointerEvent.
package diagram

import (
	"log/slog"
	"math"

	"github.com/ha1tch/treeflow/pkg/geom"
	"github.com/ha1tch/treeflow/pkg/snapshot"
)

// Editor owns the node collection, the view transform and the active
// gesture. It is not safe for concurrent use; every call is expected to
// come from the host's event loop.
type Editor struct {
	opts    Options
	surface Surface
	log     *slog.Logger

	nodes []*Node
	byID  map[string]*Node
	index *geom.Grid

	scale  float64
	scroll geom.Point

	gesture gesture
	menu    Menu

	container *geom.Box
	viewport  *geom.Box

	restoring  int
	batchDepth int
	pending    bool
}

// New creates an empty editor. Zero option fields take their defaults.
func New(opts Options) *Editor {
	opts = opts.withDefaults()
	cell := math.Max(opts.NodeSize.W, opts.NodeSize.H) * 2
	e := &Editor{
		opts:    opts,
		surface: opts.Surface,
		log:     opts.Logger,
		byID:    make(map[string]*Node),
		index:   geom.NewGrid(cell),
		scale:   1,
	}
	e.container = &geom.Box{Names: []string{ClassContainer}, At: opts.ContainerOffset}
	e.viewport = &geom.Box{Up: e.container, Names: []string{ClassViewport}}
	e.surface.SetTransform(e.scale)
	e.surface.SetScroll(e.scroll)
	return e
}

// Options returns the effective configuration.
func (e *Editor) Options() Options { return e.opts }

// NodeByID returns the node with id, or nil.
func (e *Editor) NodeByID(id string) *Node {
	return e.byID[id]
}

// Nodes returns the live nodes in insertion order.
func (e *Editor) Nodes() []*Node {
	return append([]*Node(nil), e.nodes...)
}

// Len returns the number of nodes.
func (e *Editor) Len() int { return len(e.nodes) }

// Edges returns every parent→child pair, ordered by parent insertion
// order and then child order.
func (e *Editor) Edges() []EdgeKey {
	var keys []EdgeKey
	for _, n := range e.nodes {
		for _, t := range n.targets {
			keys = append(keys, EdgeKey{n.id, t})
		}
	}
	return keys
}

// AddNodeFromEvent creates a node centered on the pointer. The event is in
// viewport coordinates; scroll and scale are taken into account. The new
// node's top-left corner is clamped to the canvas origin.
func (e *Editor) AddNodeFromEvent(ev PointerEvent) *Node {
	at := e.toDiagram(geom.Point{X: ev.X, Y: ev.Y})
	size := e.opts.NodeSize
	top := geom.Point{
		X: math.Max(0, at.X-size.W/2),
		Y: math.Max(0, at.Y-size.H/2),
	}

	id := e.opts.IDs()
	for id == "" || e.byID[id] != nil {
		id = e.opts.IDs()
	}
	n := e.add(id, top)
	e.notify()
	return n
}

// AddNodeFromData creates a node with an explicit id and position. It never
// notifies. A duplicate id returns the existing node unchanged.
func (e *Editor) AddNodeFromData(rec snapshot.NodeRecord) *Node {
	n, _ := e.addRecord(rec)
	return n
}

func (e *Editor) addRecord(rec snapshot.NodeRecord) (*Node, bool) {
	if existing := e.byID[rec.ID]; existing != nil {
		e.log.Debug("duplicate node id ignored", "id", rec.ID)
		return existing, false
	}
	if rec.ID == "" {
		rec.ID = e.opts.IDs()
		e.log.Debug("node without id given a fresh one", "id", rec.ID)
	}
	at := geom.Point{X: rec.X, Y: rec.Y}
	if at.X < 0 || at.Y < 0 {
		e.log.Debug("negative node position clamped", "id", rec.ID, "x", rec.X, "y", rec.Y)
		at = geom.Point{X: math.Max(0, at.X), Y: math.Max(0, at.Y)}
	}
	return e.add(rec.ID, at), true
}

func (e *Editor) add(id string, at geom.Point) *Node {
	n := &Node{ed: e, id: id, pos: at}
	e.nodes = append(e.nodes, n)
	e.byID[id] = n
	bounds := n.Bounds()
	e.index.Insert(id, bounds)
	e.surface.AddNode(id, bounds)
	return n
}

// remove drops n from every editor structure. Edges must already be gone.
func (e *Editor) remove(n *Node) {
	if i := indexOfNode(e.nodes, n); i >= 0 {
		e.nodes = append(e.nodes[:i], e.nodes[i+1:]...)
	}
	delete(e.byID, n.id)
	e.index.Remove(n.id)
	e.surface.RemoveNode(n.id)
	if e.menu.NodeID == n.id {
		e.closeMenu()
	}
	n.selected = false
	n.dragging = false
	n.removed = true
}

func indexOfNode(nodes []*Node, n *Node) int {
	for i, v := range nodes {
		if v == n {
			return i
		}
	}
	return -1
}

// Serialize captures the current diagram.
func (e *Editor) Serialize() snapshot.Snapshot {
	s := snapshot.Snapshot{
		ScrollLeft: e.scroll.X,
		ScrollTop:  e.scroll.Y,
		Scale:      e.scale,
		Nodes:      make([]snapshot.NodeRecord, 0, len(e.nodes)),
	}
	for _, n := range e.nodes {
		s.Nodes = append(s.Nodes, snapshot.NodeRecord{
			ID:          n.id,
			X:           n.pos.X,
			Y:           n.pos.Y,
			TargetNodes: n.TargetIDs(),
		})
	}
	return s
}

// Restore replaces the diagram with s. Every node is created before any
// edge is attached, and edges come only from each record's child list.
// References that cannot be honored are skipped. Restore never notifies.
func (e *Editor) Restore(s snapshot.Snapshot) {
	e.restoring++
	defer func() { e.restoring-- }()

	e.Cancel()
	e.closeMenu()
	e.clear()

	scale := geom.RoundTo(s.Scale, 1)
	if scale <= e.opts.MinScale {
		e.log.Debug("snapshot scale out of range, using 1", "scale", s.Scale)
		scale = 1
	}
	e.scale = scale
	e.surface.SetTransform(scale)

	// Only the record that created a node contributes its children.
	owners := make([]*Node, len(s.Nodes))
	for i, rec := range s.Nodes {
		if n, created := e.addRecord(rec); created && rec.ID != "" {
			owners[i] = n
		}
	}
	for i, rec := range s.Nodes {
		parent := owners[i]
		if parent == nil {
			continue
		}
		for _, child := range rec.TargetNodes {
			if !parent.AddConnect(child) {
				e.log.Debug("snapshot edge skipped", "source", rec.ID, "target", child)
			}
		}
	}

	e.ScrollTo(geom.Point{X: s.ScrollLeft, Y: s.ScrollTop})
}

// clear removes every node and edge without notifying.
func (e *Editor) clear() {
	for _, n := range e.nodes {
		for _, t := range n.targets {
			e.surface.RemoveEdge(EdgeKey{n.id, t})
		}
		e.surface.RemoveNode(n.id)
		n.removed = true
	}
	e.nodes = nil
	e.byID = make(map[string]*Node)
	e.index = geom.NewGrid(math.Max(e.opts.NodeSize.W, e.opts.NodeSize.H) * 2)
}

// Scroll returns the viewport scroll offset in scaled pixels.
func (e *Editor) Scroll() geom.Point { return e.scroll }

// ScrollTo sets the scroll offset, clamped to the scaled canvas.
func (e *Editor) ScrollTo(p geom.Point) {
	limit := e.maxScroll()
	p.X = math.Min(math.Max(0, p.X), limit.X)
	p.Y = math.Min(math.Max(0, p.Y), limit.Y)
	if p == e.scroll {
		return
	}
	e.scroll = p
	e.surface.SetScroll(p)
}

func (e *Editor) maxScroll() geom.Point {
	c, v := e.opts.CanvasSize, e.opts.ViewportSize
	return geom.Point{
		X: math.Max(0, c.W*e.scale-v.W),
		Y: math.Max(0, c.H*e.scale-v.H),
	}
}

// Resize sets the viewport size. Scroll is re-clamped and open menus are
// dismissed.
func (e *Editor) Resize(viewport geom.Size) {
	if viewport.W > 0 && viewport.H > 0 {
		e.opts.ViewportSize = viewport
	}
	e.ScrollTo(e.scroll)
	e.DismissMenus()
}

// SetContainerOffset records the page position of the scroll container.
func (e *Editor) SetContainerOffset(p geom.Point) {
	e.opts.ContainerOffset = p
	e.container.At = p
}

// Container returns the root of the editor's element tree.
func (e *Editor) Container() geom.Element { return e.container }

// toDiagram maps a viewport point into unscaled diagram units.
func (e *Editor) toDiagram(p geom.Point) geom.Point {
	return p.Add(e.scroll).Scale(1 / e.scale)
}

// notify hands the current snapshot to the persistence hook.
func (e *Editor) notify() {
	if e.restoring > 0 {
		return
	}
	if e.batchDepth > 0 {
		e.pending = true
		return
	}
	if e.opts.OnChange != nil {
		e.opts.OnChange(e.Serialize())
	}
}

// batch coalesces the notifications raised by fn into at most one.
func (e *Editor) batch(fn func()) {
	e.batchDepth++
	fn()
	e.batchDepth--
	if e.batchDepth == 0 && e.pending {
		e.pending = false
		e.notify()
	}
}
