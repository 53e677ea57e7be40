package diagram

import (
	"math"

	"github.com/ha1tch/treeflow/pkg/geom"
)

// Element classes of the editor's element tree.
const (
	ClassContainer    = "editor-container"
	ClassViewport     = "editor-viewport"
	ClassNode         = "editor-node"
	ClassNodeContent  = "editor-node-content"
	ClassNodeEntrance = "editor-node-entrance"
	ClassNodeExport   = "editor-node-export"
	ClassLine         = "editor-line"
)

const (
	anchorWidth   = 24 // diagram units
	edgeTolerance = 5  // screen pixels, divided by scale
)

// NodeElement is the element of a node's group.
type NodeElement struct {
	ed *Editor
	ID string
}

func (n *NodeElement) Parent() geom.Element { return n.ed.viewport }
func (n *NodeElement) Classes() []string { return []string{ClassNode} }

// Offset is the node's scaled position relative to the viewport.
func (n *NodeElement) Offset() geom.Point {
	node := n.ed.NodeByID(n.ID)
	if node == nil {
		return geom.Point{}
	}
	return node.pos.Scale(n.ed.scale).Sub(n.ed.scroll)
}

// PartElement is one of a node's hit regions: its body or an anchor.
type PartElement struct {
	Node  *NodeElement
	Class string
	At    geom.Point // offset inside the node, scaled
}

func (p *PartElement) Parent() geom.Element { return p.Node }
func (p *PartElement) Classes() []string { return []string{p.Class} }
func (p *PartElement) Offset() geom.Point { return p.At }

// EdgeElement is the element of one rendered connector.
type EdgeElement struct {
	ed  *Editor
	Key EdgeKey
}

func (l *EdgeElement) Parent() geom.Element { return l.ed.viewport }
func (l *EdgeElement) Classes() []string { return []string{ClassLine} }
func (l *EdgeElement) Offset() geom.Point { return geom.Point{} }

// HitTest returns the deepest element under a viewport point. Nodes win
// over edges, and the most recently created node wins among overlapping
// nodes. Empty canvas yields the viewport element.
func (e *Editor) HitTest(p geom.Point) geom.Element {
	d := e.toDiagram(p)
	if ids := e.index.At(d); len(ids) > 0 {
		return e.partAt(e.byID[ids[len(ids)-1]], d)
	}

	tolerance := edgeTolerance / e.scale
	best, found := math.Inf(1), EdgeKey{}
	for _, key := range e.Edges() {
		parent, child := e.byID[key.Source], e.byID[key.Target]
		if dist := parent.route(child).Distance(d); dist <= tolerance && dist < best {
			best, found = dist, key
		}
	}
	if found != (EdgeKey{}) {
		return &EdgeElement{ed: e, Key: found}
	}
	return e.viewport
}

func (e *Editor) partAt(n *Node, d geom.Point) *PartElement {
	el := &NodeElement{ed: e, ID: n.id}
	size := e.opts.NodeSize
	local := d.Sub(n.pos)
	band := size.H / 3

	part := &PartElement{Node: el, Class: ClassNodeContent}
	if math.Abs(local.X-size.W/2) <= anchorWidth/2 {
		switch {
		case local.Y < band:
			part.Class = ClassNodeEntrance
			part.At = geom.Point{X: size.W/2 - anchorWidth/2}
		case local.Y >= size.H-band:
			part.Class = ClassNodeExport
			part.At = geom.Point{X: size.W/2 - anchorWidth/2, Y: size.H - band}
		}
	}
	part.At = part.At.Scale(e.scale)
	return part
}

// NodeOf resolves the node an element belongs to, or nil.
func (e *Editor) NodeOf(el geom.Element) *Node {
	if ne, ok := geom.FindAncestor(el, ClassNode).(*NodeElement); ok {
		return e.NodeByID(ne.ID)
	}
	return nil
}

// EdgeOf resolves the edge an element belongs to.
func (e *Editor) EdgeOf(el geom.Element) (EdgeKey, bool) {
	if le, ok := geom.FindAncestor(el, ClassLine).(*EdgeElement); ok {
		return le.Key, true
	}
	return EdgeKey{}, false
}
