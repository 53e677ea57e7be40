package diagram

import "github.com/ha1tch/treeflow/pkg/geom"

// MenuKind names the contextual menu that is open.
type MenuKind int

const (
	MenuNone MenuKind = iota
	MenuNode
	MenuEdge
	MenuCanvas
)

func (k MenuKind) String() string {
	switch k {
	case MenuNode:
		return "node"
	case MenuEdge:
		return "edge"
	case MenuCanvas:
		return "canvas"
	default:
		return "none"
	}
}

// Menu describes the open context menu. At is in the scroll container's
// content space. NodeID is set for node menus and Edge for edge menus.
type Menu struct {
	Kind   MenuKind
	At     geom.Point
	NodeID string
	Edge   EdgeKey
}

// Menu returns the open context menu; Kind is MenuNone when closed.
func (e *Editor) Menu() Menu { return e.menu }

// ContextMenu classifies the target of a secondary click and opens the
// matching menu. Any menu already open is replaced.
func (e *Editor) ContextMenu(ev PointerEvent) Menu {
	target := ev.Source.Target
	if target == nil {
		target = e.HitTest(ev.point())
	}
	page := geom.Point{X: ev.Source.PageX, Y: ev.Source.PageY}
	m := Menu{At: page.Sub(geom.PageOffset(e.container)).Add(e.scroll)}

	if n := e.NodeOf(target); n != nil {
		m.Kind = MenuNode
		m.NodeID = n.id
	} else if key, ok := e.EdgeOf(target); ok {
		m.Kind = MenuEdge
		m.Edge = key
	} else {
		m.Kind = MenuCanvas
	}
	e.menu = m
	return m
}

// Click handles a primary click that did not become a gesture: every menu
// is dismissed and the selection cleared.
func (e *Editor) Click(PointerEvent) {
	e.DismissMenus()
	e.ClearSelection()
}

// DismissMenus closes the open menu, if any.
func (e *Editor) DismissMenus() { e.closeMenu() }

func (e *Editor) closeMenu() { e.menu = Menu{} }

// MenuDelete removes the node or edge the open menu targets. A target
// that no longer exists is ignored.
func (e *Editor) MenuDelete() {
	m := e.menu
	e.closeMenu()
	switch m.Kind {
	case MenuNode:
		if n := e.NodeByID(m.NodeID); n != nil {
			n.Destroy()
		}
	case MenuEdge:
		if n := e.NodeByID(m.Edge.Source); n != nil {
			n.RemoveConnect(m.Edge.Target)
		}
	}
}

// MenuAddNode creates a node centered at the canvas menu position.
func (e *Editor) MenuAddNode() *Node {
	m := e.menu
	e.closeMenu()
	if m.Kind != MenuCanvas {
		return nil
	}
	// At is in content space; AddNodeFromEvent expects viewport coordinates.
	at := m.At.Sub(e.scroll)
	return e.AddNodeFromEvent(PointerEvent{X: at.X, Y: at.Y})
}

// MenuDisconnect detaches the targeted node from its parent.
func (e *Editor) MenuDisconnect() {
	m := e.menu
	e.closeMenu()
	if m.Kind != MenuNode {
		return
	}
	n := e.NodeByID(m.NodeID)
	if n == nil {
		return
	}
	if p := n.Source(); p != nil {
		p.RemoveConnect(n.id)
	}
}
