// Package render draws diagrams. Scene is a diagram.Surface that keeps
// the current primitives; SVG, PNG and DOT export them.
package render

import (
	"sort"

	"github.com/ha1tch/treeflow/pkg/diagram"
	"github.com/ha1tch/treeflow/pkg/geom"
	"github.com/ha1tch/treeflow/pkg/snapshot"
)

// NodeShape is a node primitive in diagram units.
type NodeShape struct {
	ID     string
	Bounds geom.Rect
	State  diagram.NodeState
}

// EdgeShape is a routed connector in diagram units.
type EdgeShape struct {
	Key  diagram.EdgeKey
	Path geom.Cubic
}

// Scene records primitives pushed by an editor. Nodes keep insertion
// order; edges are ordered by key.
type Scene struct {
	scale  float64
	scroll geom.Point

	order []string
	nodes map[string]*NodeShape
	edges map[diagram.EdgeKey]geom.Cubic

	preview     *geom.Cubic
	marquee     *geom.Rect
	placeholder *geom.Point
}

// NewScene returns an empty scene at scale 1.
func NewScene() *Scene {
	return &Scene{
		scale: 1,
		nodes: make(map[string]*NodeShape),
		edges: make(map[diagram.EdgeKey]geom.Cubic),
	}
}

var _ diagram.Surface = (*Scene)(nil)

func (s *Scene) SetTransform(scale float64) { s.scale = scale }
func (s *Scene) SetScroll(p geom.Point) { s.scroll = p }

func (s *Scene) AddNode(id string, bounds geom.Rect) {
	if _, ok := s.nodes[id]; !ok {
		s.order = append(s.order, id)
	}
	s.nodes[id] = &NodeShape{ID: id, Bounds: bounds}
}

func (s *Scene) MoveNode(id string, at geom.Point) {
	if n, ok := s.nodes[id]; ok {
		n.Bounds.X, n.Bounds.Y = at.X, at.Y
	}
}

func (s *Scene) SetNodeState(id string, state diagram.NodeState) {
	if n, ok := s.nodes[id]; ok {
		n.State = state
	}
}

func (s *Scene) RemoveNode(id string) {
	if _, ok := s.nodes[id]; !ok {
		return
	}
	delete(s.nodes, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Scene) SetEdge(key diagram.EdgeKey, path geom.Cubic) { s.edges[key] = path }
func (s *Scene) RemoveEdge(key diagram.EdgeKey) { delete(s.edges, key) }

func (s *Scene) SetPreview(path *geom.Cubic) { s.preview = copyOf(path) }
func (s *Scene) SetMarquee(region *geom.Rect) { s.marquee = copyOf(region) }
func (s *Scene) SetPlaceholder(at *geom.Point) { s.placeholder = copyOf(at) }

func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Scale returns the last transform set by the editor.
func (s *Scene) Scale() float64 { return s.scale }

// Scroll returns the last scroll offset set by the editor.
func (s *Scene) Scroll() geom.Point { return s.scroll }

// Nodes returns the node primitives in insertion order.
func (s *Scene) Nodes() []NodeShape {
	out := make([]NodeShape, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.nodes[id])
	}
	return out
}

// Node returns one node primitive.
func (s *Scene) Node(id string) (NodeShape, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return NodeShape{}, false
	}
	return *n, true
}

// Edges returns the connectors sorted by source then target id.
func (s *Scene) Edges() []EdgeShape {
	out := make([]EdgeShape, 0, len(s.edges))
	for k, p := range s.edges {
		out = append(out, EdgeShape{Key: k, Path: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Source != out[j].Key.Source {
			return out[i].Key.Source < out[j].Key.Source
		}
		return out[i].Key.Target < out[j].Key.Target
	})
	return out
}

// Preview returns the in-progress connector, or nil.
func (s *Scene) Preview() *geom.Cubic { return copyOf(s.preview) }

// Marquee returns the rubber-band region in content space, or nil.
func (s *Scene) Marquee() *geom.Rect { return copyOf(s.marquee) }

// Placeholder returns the page position of a node being placed, or nil.
func (s *Scene) Placeholder() *geom.Point { return copyOf(s.placeholder) }

// Bounds returns the extent of every node, edge and preview in diagram
// units. An empty scene has zero bounds.
func (s *Scene) Bounds() geom.Rect {
	var r geom.Rect
	first := true
	grow := func(o geom.Rect) {
		if first {
			r, first = o, false
			return
		}
		r = r.Union(o)
	}
	for _, id := range s.order {
		grow(s.nodes[id].Bounds)
	}
	for _, p := range s.edges {
		grow(p.Bounds())
	}
	if s.preview != nil {
		grow(s.preview.Bounds())
	}
	return r
}

// SceneFromSnapshot restores snap into a throwaway editor and returns
// the primitives it produced.
func SceneFromSnapshot(snap snapshot.Snapshot, nodeSize geom.Size) *Scene {
	sc := NewScene()
	opts := diagram.DefaultOptions()
	opts.NodeSize = nodeSize
	opts.Surface = sc
	ed := diagram.New(opts)
	ed.Restore(snap)
	return sc
}

// Label returns the text drawn inside a node: the id, shortened when it
// is a long generated one.
func Label(id string) string {
	const limit = 8
	if len(id) <= limit {
		return id
	}
	return id[:limit]
}
