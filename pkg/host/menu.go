package host

import "github.com/ha1tch/treeflow/pkg/diagram"

// Action is a context menu command.
type Action int

const (
	ActionDeleteNode Action = iota
	ActionDisconnect
	ActionDeleteEdge
	ActionAddNode
)

// MenuItem is one entry of a context menu.
type MenuItem struct {
	Label  string
	Action Action
}

// MenuItems lists the entries of a menu kind. MenuNone has none.
func MenuItems(kind diagram.MenuKind) []MenuItem {
	switch kind {
	case diagram.MenuNode:
		return []MenuItem{
			{Label: "Delete node", Action: ActionDeleteNode},
			{Label: "Disconnect", Action: ActionDisconnect},
		}
	case diagram.MenuEdge:
		return []MenuItem{{Label: "Delete edge", Action: ActionDeleteEdge}}
	case diagram.MenuCanvas:
		return []MenuItem{{Label: "Add node here", Action: ActionAddNode}}
	}
	return nil
}

// PlacedItem is a menu entry laid out on screen. It covers Width cells
// starting at At.
type PlacedItem struct {
	MenuItem
	At    Cell
	Width int
}

// Contains reports whether c falls on the item's row.
func (p PlacedItem) Contains(c Cell) bool {
	return c.Row == p.At.Row && c.Col >= p.At.Col && c.Col < p.At.Col+p.Width
}

// MenuLayout places the open menu's entries one per row, starting at the
// menu position. All entries share the width of the longest label plus a
// cell of padding on each side. The menu is shifted left or up to stay
// inside the viewport.
func (a *Adapter) MenuLayout() []PlacedItem {
	m := a.ed.Menu()
	items := MenuItems(m.Kind)
	if len(items) == 0 {
		return nil
	}
	width := 0
	for _, it := range items {
		width = max(width, len(it.Label)+2)
	}

	// At is in container content space.
	top := a.PageCell(m.At.Sub(a.ed.Scroll()).Add(a.page(a.layout.Origin)))
	if a.view != (Cell{}) {
		right := a.layout.Origin.Col + a.view.Col
		bottom := a.layout.Origin.Row + a.view.Row
		top.Col = max(a.layout.Origin.Col, min(top.Col, right-width))
		top.Row = max(a.layout.Origin.Row, min(top.Row, bottom-len(items)))
	}

	out := make([]PlacedItem, len(items))
	for i, it := range items {
		out[i] = PlacedItem{
			MenuItem: it,
			At:       Cell{Col: top.Col, Row: top.Row + i},
			Width:    width,
		}
	}
	return out
}

func (a *Adapter) menuItemAt(c Cell) (PlacedItem, bool) {
	for _, it := range a.MenuLayout() {
		if it.Contains(c) {
			return it, true
		}
	}
	return PlacedItem{}, false
}

// Execute runs a menu command against the open menu. The editor ignores
// commands that do not match the menu kind.
func (a *Adapter) Execute(act Action) {
	switch act {
	case ActionDeleteNode, ActionDeleteEdge:
		a.ed.MenuDelete()
	case ActionDisconnect:
		a.ed.MenuDisconnect()
	case ActionAddNode:
		a.ed.MenuAddNode()
	}
}
