package diagram

import (
	"github.com/ha1tch/treeflow/pkg/geom"
)

// Node is a positioned diagram box with at most one parent and any number
// of children. The parent is held by id only; the editor owns every
// node's lifetime.
type Node struct {
	ed      *Editor
	id      string
	pos     geom.Point
	source  string   // parent id, "" for a root
	targets []string // ordered child ids

	selected bool
	dragging bool
	removed  bool
}

// ID returns the node's stable identifier.
func (n *Node) ID() string { return n.id }

// Position returns the top-left corner in diagram units.
func (n *Node) Position() geom.Point { return n.pos }

// Bounds returns the node box in diagram units.
func (n *Node) Bounds() geom.Rect {
	size := n.ed.opts.NodeSize
	return geom.Rect{X: n.pos.X, Y: n.pos.Y, W: size.W, H: size.H}
}

func (n *Node) Selected() bool { return n.selected }
func (n *Node) Dragging() bool { return n.dragging }

// Removed reports whether the node has been destroyed.
func (n *Node) Removed() bool { return n.removed }

// SourceID returns the parent id, or "" for a root.
func (n *Node) SourceID() string { return n.source }

// Source resolves the parent node, or nil for a root.
func (n *Node) Source() *Node {
	if n.source == "" || n.removed {
		return nil
	}
	return n.ed.NodeByID(n.source)
}

// TargetIDs returns a copy of the ordered child ids.
func (n *Node) TargetIDs() []string {
	return append([]string(nil), n.targets...)
}

// Targets resolves the children in order.
func (n *Node) Targets() []*Node {
	if n.removed {
		return nil
	}
	out := make([]*Node, 0, len(n.targets))
	for _, id := range n.targets {
		if t := n.ed.NodeByID(id); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// AddConnect adds an edge from n to the node with targetID. The request is
// dropped without any mutation or notification when the target does not
// exist, is n itself, already has a parent, or is an ancestor of n.
// It reports whether the edge was added.
func (n *Node) AddConnect(targetID string) bool {
	if n.removed {
		return false
	}
	log := n.ed.log
	target := n.ed.NodeByID(targetID)
	switch {
	case target == nil:
		log.Debug("connect rejected: unknown target", "source", n.id, "target", targetID)
		return false
	case target == n:
		log.Debug("connect rejected: self edge", "node", n.id)
		return false
	case target.source != "":
		log.Debug("connect rejected: target has a parent", "source", n.id, "target", targetID, "parent", target.source)
		return false
	case n.hasAncestor(targetID):
		log.Debug("connect rejected: would close a cycle", "source", n.id, "target", targetID)
		return false
	}

	target.source = n.id
	n.targets = append(n.targets, target.id)
	n.ed.surface.SetEdge(EdgeKey{n.id, target.id}, n.route(target))
	n.ed.notify()
	return true
}

// RemoveConnect drops the edge from n to targetID. Removing an edge that
// does not exist is a no-op. It reports whether an edge was removed.
func (n *Node) RemoveConnect(targetID string) bool {
	if n.removed {
		return false
	}
	idx := indexOf(n.targets, targetID)
	if idx < 0 {
		return false
	}

	n.ed.surface.RemoveEdge(EdgeKey{n.id, targetID})
	if target := n.ed.NodeByID(targetID); target != nil && target.source == n.id {
		target.source = ""
	}
	n.targets = append(n.targets[:idx], n.targets[idx+1:]...)
	n.ed.notify()
	return true
}

// UpdateLines recomputes the path of every outgoing edge and of the
// incoming edge from current positions.
func (n *Node) UpdateLines() {
	if n.removed {
		return
	}
	for _, t := range n.Targets() {
		n.ed.surface.SetEdge(EdgeKey{n.id, t.id}, n.route(t))
	}
	if p := n.Source(); p != nil {
		n.ed.surface.SetEdge(EdgeKey{p.id, n.id}, p.route(n))
	}
}

// Destroy detaches n from its parent, then from every child, then removes
// it from the diagram. No other node references n afterwards.
func (n *Node) Destroy() {
	if n.removed {
		return
	}
	ed := n.ed
	ed.batch(func() {
		if p := n.Source(); p != nil {
			p.RemoveConnect(n.id)
		}
		// RemoveConnect edits n.targets, so walk a copy.
		for _, id := range n.TargetIDs() {
			n.RemoveConnect(id)
		}
		ed.remove(n)
		ed.notify()
	})
}

// MoveBy translates the node by (dx, dy) diagram units. A move that would
// leave either coordinate negative is rejected and the node stays put.
func (n *Node) MoveBy(dx, dy float64) bool {
	if !n.canMove(dx, dy) {
		return false
	}
	n.translate(dx, dy)
	n.ed.notify()
	return true
}

// MoveTo places the node at an absolute non-negative position.
func (n *Node) MoveTo(at geom.Point) bool {
	return n.MoveBy(at.X-n.pos.X, at.Y-n.pos.Y)
}

func (n *Node) canMove(dx, dy float64) bool {
	return !n.removed && n.pos.X+dx >= 0 && n.pos.Y+dy >= 0
}

func (n *Node) translate(dx, dy float64) {
	n.place(geom.Point{X: n.pos.X + dx, Y: n.pos.Y + dy})
}

// place sets the position and refreshes every dependent primitive.
func (n *Node) place(at geom.Point) {
	n.pos = at
	n.ed.surface.MoveNode(n.id, at)
	n.ed.index.Update(n.id, n.Bounds())
	n.UpdateLines()
}

func (n *Node) route(child *Node) geom.Cubic {
	return geom.Connector(n.pos, child.pos, n.ed.opts.NodeSize)
}

func (n *Node) hasAncestor(id string) bool {
	seen := make(map[string]bool)
	for cur := n.source; cur != ""; {
		if cur == id {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		p := n.ed.NodeByID(cur)
		if p == nil {
			return false
		}
		cur = p.source
	}
	return false
}

func (n *Node) setSelected(v bool) {
	if n.selected == v {
		return
	}
	n.selected = v
	n.pushState()
}

func (n *Node) setDragging(v bool) {
	if n.dragging == v {
		return
	}
	n.dragging = v
	n.pushState()
}

func (n *Node) pushState() {
	n.ed.surface.SetNodeState(n.id, NodeState{Selected: n.selected, Dragging: n.dragging})
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
