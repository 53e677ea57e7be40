package diagram

import "github.com/ha1tch/treeflow/pkg/geom"

// SelectIn recomputes the selection from scratch: a node is selected when
// its scaled bounds intersect region, which is given in content space.
func (e *Editor) SelectIn(region geom.Rect) {
	for _, n := range e.nodes {
		n.setSelected(n.Bounds().Scale(e.scale).Intersects(region))
	}
}

// Selected returns the selected nodes in insertion order.
func (e *Editor) Selected() []*Node {
	var out []*Node
	for _, n := range e.nodes {
		if n.selected {
			out = append(out, n)
		}
	}
	return out
}

// ClearSelection deselects every node.
func (e *Editor) ClearSelection() {
	for _, n := range e.nodes {
		n.setSelected(false)
	}
}

// SelectAll selects every node.
func (e *Editor) SelectAll() {
	for _, n := range e.nodes {
		n.setSelected(true)
	}
}

// DeleteSelected destroys every selected node with a single notification.
// It returns the number of nodes removed.
func (e *Editor) DeleteSelected() int {
	sel := e.Selected()
	if len(sel) == 0 {
		return 0
	}
	e.batch(func() {
		for _, n := range sel {
			n.Destroy()
		}
	})
	return len(sel)
}
