// Package host adapts a character-cell terminal to the diagram editor.
// Mouse input arrives in cells with a button mask; the adapter tracks
// button transitions and feeds the editor pixel-based pointer events.
package host

import (
	"math"

	"github.com/ha1tch/treeflow/pkg/diagram"
	"github.com/ha1tch/treeflow/pkg/geom"
)

// Buttons is a bitmask of mouse buttons held during an input event.
type Buttons uint8

const (
	Primary Buttons = 1 << iota
	Secondary
	Middle
	WheelUp
	WheelDown
)

const wheel = WheelUp | WheelDown

// Cell is a screen position in character cells.
type Cell struct {
	Col, Row int
}

// Input is one raw mouse event.
type Input struct {
	At      Cell
	Buttons Buttons
}

// Layout places the viewport on screen.
type Layout struct {
	CellSize geom.Size // pixels per cell
	Origin   Cell      // top-left cell of the viewport
	Footer   int       // rows reserved below the viewport
	Palette  Cell      // dragging from this cell places a new node
}

// DefaultLayout reserves a toolbar row above the viewport and a status
// line below it. The palette sits at the start of the toolbar.
func DefaultLayout() Layout {
	return Layout{
		CellSize: geom.Size{W: 8, H: 16},
		Origin:   Cell{Col: 0, Row: 1},
		Footer:   1,
		Palette:  Cell{Col: 1, Row: 0},
	}
}

// Adapter drives an Editor from cell-based input.
type Adapter struct {
	ed     *diagram.Editor
	layout Layout
	view   Cell // viewport size in cells

	buttons Buttons
	last    geom.Point // page position of the previous event

	pressAt  Cell
	moved    bool
	consumed bool // the primary press hit a menu item or fell off the viewport

	secondaryAt Cell
}

// New attaches an adapter to ed and moves the editor's container to the
// layout origin.
func New(ed *diagram.Editor, layout Layout) *Adapter {
	a := &Adapter{ed: ed, layout: layout}
	ed.SetContainerOffset(a.page(layout.Origin))
	return a
}

// Editor returns the driven editor.
func (a *Adapter) Editor() *diagram.Editor { return a.ed }

// Layout returns the screen layout.
func (a *Adapter) Layout() Layout { return a.layout }

// View returns the viewport size in cells, as set by Resize.
func (a *Adapter) View() Cell { return a.view }

// Resize takes the full screen size in cells.
func (a *Adapter) Resize(w, h int) {
	a.view = Cell{
		Col: max(0, w-a.layout.Origin.Col),
		Row: max(0, h-a.layout.Origin.Row-a.layout.Footer),
	}
	a.ed.Resize(geom.Size{
		W: float64(a.view.Col) * a.layout.CellSize.W,
		H: float64(a.view.Row) * a.layout.CellSize.H,
	})
}

// Blur abandons any gesture in progress, as when the terminal loses focus.
func (a *Adapter) Blur() {
	a.ed.Cancel()
	a.buttons = 0
	a.consumed = false
	a.moved = false
}

// Handle processes one mouse event.
func (a *Adapter) Handle(in Input) {
	if in.Buttons&WheelUp != 0 {
		a.ed.ScaleUp()
	}
	if in.Buttons&WheelDown != 0 {
		a.ed.ScaleDown()
	}
	held := in.Buttons &^ wheel
	pressed := held &^ a.buttons
	released := a.buttons &^ held
	p := a.page(in.At)

	// A drag tick under whatever is still held.
	if a.buttons != 0 && p != a.last {
		if in.At != a.pressAt {
			a.moved = true
		}
		if !a.consumed {
			a.ed.PointerMove(a.event(in.At, dragButton(a.buttons)))
		}
		a.last = p
	}

	if released&Primary != 0 {
		a.releasePrimary(in.At)
	}
	if released&Secondary != 0 {
		a.releaseSecondary(in.At)
	}
	if released&Middle != 0 && a.ed.Active() == diagram.Panning {
		a.ed.PointerUp(a.event(in.At, diagram.ButtonMiddle))
	}

	if pressed&Primary != 0 {
		a.pressPrimary(in.At)
	}
	if pressed&Secondary != 0 {
		a.secondaryAt = in.At
	}
	if pressed&Middle != 0 {
		a.pressAt, a.moved = in.At, false
		a.ed.PointerDown(a.event(in.At, diagram.ButtonMiddle))
	}

	a.buttons = held
	a.last = p
}

func (a *Adapter) pressPrimary(at Cell) {
	a.pressAt, a.moved, a.consumed = at, false, false
	if item, ok := a.menuItemAt(at); ok {
		a.consumed = true
		a.Execute(item.Action)
		return
	}
	ev := a.event(at, diagram.ButtonPrimary)
	if at == a.layout.Palette {
		a.ed.BeginPlace(ev)
		return
	}
	if !a.inView(at) {
		a.consumed = true
		return
	}
	ev.Source.Target = a.ed.HitTest(geom.Point{X: ev.X, Y: ev.Y})
	a.ed.PointerDown(ev)
}

func (a *Adapter) releasePrimary(at Cell) {
	if a.consumed {
		a.consumed = false
		return
	}
	if a.ed.Active() == diagram.Panning {
		return
	}
	ev := a.event(at, diagram.ButtonPrimary)
	placing := a.ed.Active() == diagram.Placing
	a.ed.PointerUp(ev)
	if !a.moved && !placing {
		a.ed.Click(ev)
	}
}

// releaseSecondary opens a context menu when the button came up close to
// where it went down.
func (a *Adapter) releaseSecondary(at Cell) {
	dx, dy := at.Col-a.secondaryAt.Col, at.Row-a.secondaryAt.Row
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || !a.inView(a.secondaryAt) {
		return
	}
	ev := a.event(a.secondaryAt, diagram.ButtonSecondary)
	ev.Source.Target = a.ed.HitTest(geom.Point{X: ev.X, Y: ev.Y})
	a.ed.ContextMenu(ev)
}

func dragButton(b Buttons) diagram.Button {
	switch {
	case b&Primary != 0:
		return diagram.ButtonPrimary
	case b&Middle != 0:
		return diagram.ButtonMiddle
	default:
		return diagram.ButtonSecondary
	}
}

// event builds a pointer event for a cell. Deltas are measured from the
// previous event.
func (a *Adapter) event(at Cell, b diagram.Button) diagram.PointerEvent {
	p := a.page(at)
	v := p.Sub(a.page(a.layout.Origin))
	return diagram.PointerEvent{
		X: v.X, Y: v.Y,
		DX: p.X - a.last.X, DY: p.Y - a.last.Y,
		Button: b,
		Source: diagram.SourceEvent{PageX: p.X, PageY: p.Y},
	}
}

// page returns the pixel position of a cell's top-left corner.
func (a *Adapter) page(c Cell) geom.Point {
	return geom.Point{
		X: float64(c.Col) * a.layout.CellSize.W,
		Y: float64(c.Row) * a.layout.CellSize.H,
	}
}

func (a *Adapter) inView(c Cell) bool {
	col, row := c.Col-a.layout.Origin.Col, c.Row-a.layout.Origin.Row
	if col < 0 || row < 0 {
		return false
	}
	if a.view == (Cell{}) {
		return true
	}
	return col < a.view.Col && row < a.view.Row
}

// CellAt returns the screen cell that shows a diagram point under the
// current zoom and scroll.
func (a *Adapter) CellAt(p geom.Point) Cell {
	v := p.Scale(a.ed.Scale()).Sub(a.ed.Scroll())
	return a.PageCell(v.Add(a.page(a.layout.Origin)))
}

// PageCell returns the cell containing a page pixel.
func (a *Adapter) PageCell(p geom.Point) Cell {
	return Cell{
		Col: int(math.Floor(p.X / a.layout.CellSize.W)),
		Row: int(math.Floor(p.Y / a.layout.CellSize.H)),
	}
}
