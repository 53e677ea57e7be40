package diagram

import (
	"github.com/ha1tch/treeflow/pkg/geom"
)

// Button identifies the pointer button of an event.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// SourceEvent carries the raw host event: the page position and the
// element under the pointer.
type SourceEvent struct {
	PageX, PageY float64
	Target       geom.Element
}

// PointerEvent is a normalized gesture event. X and Y are relative to the
// viewport; DX and DY are the deltas since the previous event of the same
// gesture.
type PointerEvent struct {
	X, Y   float64
	DX, DY float64
	Button Button
	Source SourceEvent
}

func (ev PointerEvent) point() geom.Point { return geom.Point{X: ev.X, Y: ev.Y} }

// GestureKind names the interaction state of the editor.
type GestureKind int

const (
	Idle GestureKind = iota
	Moving
	Connecting
	Selecting
	Panning
	Placing
)

func (k GestureKind) String() string {
	switch k {
	case Moving:
		return "moving"
	case Connecting:
		return "connecting"
	case Selecting:
		return "selecting"
	case Panning:
		return "panning"
	case Placing:
		return "placing"
	default:
		return "idle"
	}
}

// gesture is the state of one drag session. It is created on pointer-down
// and discarded after end or cancel, which each run exactly once.
type gesture interface {
	kind() GestureKind
	move(e *Editor, ev PointerEvent)
	end(e *Editor, ev PointerEvent)
	cancel(e *Editor)
}

// Active reports the current interaction state.
func (e *Editor) Active() GestureKind {
	if e.gesture == nil {
		return Idle
	}
	return e.gesture.kind()
}

// PointerDown starts the gesture selected by the button and the element
// under the pointer. When the event has no target the editor hit-tests
// the viewport point itself. It reports whether a gesture started; input
// is ignored while another gesture is active.
func (e *Editor) PointerDown(ev PointerEvent) bool {
	if e.gesture != nil {
		return false
	}
	if ev.Button == ButtonMiddle {
		e.gesture = &panGesture{start: e.scroll}
		return true
	}
	if ev.Button != ButtonPrimary {
		return false
	}

	target := ev.Source.Target
	if target == nil {
		target = e.HitTest(ev.point())
	}
	switch {
	case geom.IsInside(target, ClassNodeExport):
		if n := e.NodeOf(target); n != nil {
			e.gesture = newConnectGesture(e, n)
		}
	case geom.IsInside(target, ClassNode):
		if n := e.NodeOf(target); n != nil {
			e.gesture = newMoveGesture(e, n)
		}
	case geom.IsInside(target, ClassViewport):
		e.gesture = &marqueeGesture{origin: ev.point().Add(e.scroll)}
	}
	return e.gesture != nil
}

// PointerMove advances the active gesture.
func (e *Editor) PointerMove(ev PointerEvent) {
	if e.gesture != nil {
		e.gesture.move(e, ev)
	}
}

// PointerUp finishes the active gesture and returns to idle.
func (e *Editor) PointerUp(ev PointerEvent) {
	g := e.gesture
	if g == nil {
		return
	}
	e.gesture = nil
	g.end(e, ev)
}

// Cancel ends the active gesture without a pointer position, as when the
// host loses focus or pointer capture. Transient artifacts are removed.
// Moves and pans keep what they already did, a marquee keeps its
// selection, and pending connects and placements are dropped.
func (e *Editor) Cancel() {
	g := e.gesture
	if g == nil {
		return
	}
	e.gesture = nil
	g.cancel(e)
}

// BeginPlace starts dragging a new node in from outside the canvas. The
// event's page position drives the placeholder.
func (e *Editor) BeginPlace(ev PointerEvent) bool {
	if e.gesture != nil {
		return false
	}
	g := &placeGesture{}
	e.gesture = g
	g.show(e, ev)
	return true
}

// moveGesture drags the anchor node and every selected node with it.
type moveGesture struct {
	anchor string
	group  []string
	moved  bool
}

func newMoveGesture(e *Editor, anchor *Node) *moveGesture {
	g := &moveGesture{anchor: anchor.id}
	for _, n := range e.nodes {
		if n.selected || n == anchor {
			g.group = append(g.group, n.id)
			n.setDragging(true)
		}
	}
	return g
}

func (g *moveGesture) kind() GestureKind { return Moving }

func (g *moveGesture) members(e *Editor) []*Node {
	out := make([]*Node, 0, len(g.group))
	for _, id := range g.group {
		if n := e.byID[id]; n != nil {
			out = append(out, n)
		}
	}
	return out
}

// move translates the group by the pointer delta. If any member would
// leave the canvas the whole tick is dropped.
func (g *moveGesture) move(e *Editor, ev PointerEvent) {
	dx, dy := ev.DX/e.scale, ev.DY/e.scale
	if dx == 0 && dy == 0 {
		return
	}
	group := g.members(e)
	for _, n := range group {
		if !n.canMove(dx, dy) {
			return
		}
	}
	for _, n := range group {
		n.translate(dx, dy)
	}
	g.moved = g.moved || len(group) > 0
}

func (g *moveGesture) end(e *Editor, _ PointerEvent) { g.cancel(e) }

func (g *moveGesture) cancel(e *Editor) {
	for _, n := range g.members(e) {
		n.setDragging(false)
	}
	if g.moved {
		e.notify()
	}
}

// connectGesture draws a loose connector from a node's export anchor to
// the pointer.
type connectGesture struct {
	source string
	cursor geom.Point
}

func newConnectGesture(e *Editor, source *Node) *connectGesture {
	g := &connectGesture{
		source: source.id,
		cursor: geom.ExportAnchor(source.pos, e.opts.NodeSize),
	}
	g.preview(e)
	return g
}

func (g *connectGesture) kind() GestureKind { return Connecting }

func (g *connectGesture) preview(e *Editor) {
	src := e.byID[g.source]
	if src == nil {
		e.surface.SetPreview(nil)
		return
	}
	path := geom.Loose(geom.ExportAnchor(src.pos, e.opts.NodeSize), g.cursor)
	e.surface.SetPreview(&path)
}

func (g *connectGesture) move(e *Editor, ev PointerEvent) {
	g.cursor = e.toDiagram(ev.point())
	g.preview(e)
}

func (g *connectGesture) end(e *Editor, ev PointerEvent) {
	e.surface.SetPreview(nil)
	src := e.byID[g.source]
	if src == nil {
		return
	}
	target := ev.Source.Target
	if target == nil {
		target = e.HitTest(ev.point())
	}
	if dst := e.NodeOf(target); dst != nil && dst != src {
		src.AddConnect(dst.id)
	}
}

func (g *connectGesture) cancel(e *Editor) {
	e.surface.SetPreview(nil)
}

// marqueeGesture is a rubber-band selection. The region is kept in
// content space: viewport coordinates plus scroll.
type marqueeGesture struct {
	origin geom.Point
}

func (g *marqueeGesture) kind() GestureKind { return Selecting }

func (g *marqueeGesture) move(e *Editor, ev PointerEvent) {
	region := geom.RectFromCorners(g.origin, ev.point().Add(e.scroll))
	e.surface.SetMarquee(&region)
	e.SelectIn(region)
}

func (g *marqueeGesture) end(e *Editor, _ PointerEvent) { g.cancel(e) }

func (g *marqueeGesture) cancel(e *Editor) {
	e.surface.SetMarquee(nil)
}

// panGesture drags the viewport over the canvas.
type panGesture struct {
	start geom.Point
}

func (g *panGesture) kind() GestureKind { return Panning }

func (g *panGesture) move(e *Editor, ev PointerEvent) {
	e.ScrollTo(e.scroll.Sub(geom.Point{X: ev.DX, Y: ev.DY}))
}

func (g *panGesture) end(e *Editor, _ PointerEvent) { g.cancel(e) }

func (g *panGesture) cancel(e *Editor) {
	if e.scroll != g.start {
		e.notify()
	}
}

// placeGesture follows a new node being dragged in from the palette. The
// placeholder is positioned in page coordinates.
type placeGesture struct {
	at geom.Point
}

func (g *placeGesture) kind() GestureKind { return Placing }

func (g *placeGesture) show(e *Editor, ev PointerEvent) {
	g.at = geom.Point{X: ev.Source.PageX, Y: ev.Source.PageY}
	at := g.at
	e.surface.SetPlaceholder(&at)
}

func (g *placeGesture) move(e *Editor, ev PointerEvent) { g.show(e, ev) }

func (g *placeGesture) end(e *Editor, ev PointerEvent) {
	e.surface.SetPlaceholder(nil)
	if ev.X >= 0 && ev.Y >= 0 {
		e.AddNodeFromEvent(ev)
	}
}

func (g *placeGesture) cancel(e *Editor) {
	e.surface.SetPlaceholder(nil)
}
