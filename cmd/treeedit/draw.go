package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/treeflow/pkg/diagram"
	"github.com/ha1tch/treeflow/pkg/geom"
	"github.com/ha1tch/treeflow/pkg/host"
	"github.com/ha1tch/treeflow/pkg/render"
)

// Styles
var (
	styleToolbar    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	stylePalette    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen).Bold(true)
	styleNode       = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleNodeSel    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	styleDragging   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorPurple)
	styleEdge       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	stylePreview    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)) // Lilac
	styleMarquee    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleMenu       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
)

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawToolbar(w)
	ed.drawEdges()
	ed.drawNodes()
	ed.drawPreview()
	ed.drawMarquee()
	ed.drawMenu()
	ed.drawPlaceholder()
	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawToolbar(w int) {
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, 0, ' ', nil, styleToolbar)
	}
	p := ed.input.Layout().Palette
	ed.screen.SetContent(p.Col, p.Row, '+', nil, stylePalette)
	ed.drawString(p.Col+2, p.Row, "drag to add", styleToolbar)

	help := "q:Quit  +/-:Zoom  a:Arrange  Del:Delete  ^A:All  c/v:Copy/Paste  e:Export"
	if x := w - len(help) - 1; x > p.Col+14 {
		ed.drawString(x, 0, help, styleToolbar)
	}
}

// visible reports whether a cell lies inside the viewport.
func (ed *Editor) visible(c host.Cell) bool {
	o, v := ed.input.Layout().Origin, ed.input.View()
	return c.Col >= o.Col && c.Row >= o.Row && c.Col < o.Col+v.Col && c.Row < o.Row+v.Row
}

func (ed *Editor) setCell(c host.Cell, r rune, style tcell.Style) {
	if ed.visible(c) {
		ed.screen.SetContent(c.Col, c.Row, r, nil, style)
	}
}

func (ed *Editor) drawNodes() {
	size := ed.diagram.Options().NodeSize
	for _, n := range ed.scene.Nodes() {
		style := styleNode
		switch {
		case n.State.Dragging:
			style = styleDragging
		case n.State.Selected:
			style = styleNodeSel
		}
		top, bottom := ed.span(n.Bounds)
		for row := top.Row; row <= bottom.Row; row++ {
			for col := top.Col; col <= bottom.Col; col++ {
				ed.setCell(host.Cell{Col: col, Row: row}, ' ', style)
			}
		}

		pos := geom.Point{X: n.Bounds.X, Y: n.Bounds.Y}
		in := ed.input.CellAt(geom.EntranceAnchor(pos, size))
		out := ed.input.CellAt(geom.ExportAnchor(pos, size).Sub(geom.Point{Y: 1}))
		if in.Row < out.Row {
			ed.setCell(in, '▽', style.Foreground(tcell.ColorTeal))
			ed.setCell(out, '●', style.Foreground(tcell.ColorTeal))
		}

		label := render.Label(n.ID)
		width := bottom.Col - top.Col + 1
		if len(label) > width {
			label = label[:max(0, width)]
		}
		mid := host.Cell{Col: top.Col + (width-len(label))/2, Row: (top.Row + bottom.Row) / 2}
		for i, r := range label {
			ed.setCell(host.Cell{Col: mid.Col + i, Row: mid.Row}, r, style)
		}
	}
}

// span returns the first and last cells covered by a diagram rectangle.
func (ed *Editor) span(r geom.Rect) (host.Cell, host.Cell) {
	const inset = 1e-6
	top := ed.input.CellAt(geom.Point{X: r.X, Y: r.Y})
	bottom := ed.input.CellAt(geom.Point{X: r.Right() - inset, Y: r.Bottom() - inset})
	return top, bottom
}

func (ed *Editor) drawEdges() {
	for _, e := range ed.scene.Edges() {
		ed.drawCurve(e.Path, styleEdge, false)
		ed.setCell(ed.input.CellAt(e.Path.P3), '▼', styleEdge)
	}
}

func (ed *Editor) drawPreview() {
	if p := ed.scene.Preview(); p != nil {
		ed.drawCurve(*p, stylePreview, true)
	}
}

// drawCurve plots a connector cell by cell. Dashed curves skip every
// other cell.
func (ed *Editor) drawCurve(c geom.Cubic, style tcell.Style, dashed bool) {
	cell := ed.input.Layout().CellSize
	steps := int(c.Length()*ed.diagram.Scale()/math.Min(cell.W, cell.H))*2 + 2
	last := host.Cell{Col: math.MinInt, Row: math.MinInt}
	plotted := 0
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		at := ed.input.CellAt(c.Eval(t))
		if at == last {
			continue
		}
		last = at
		plotted++
		if dashed && plotted%2 == 0 {
			continue
		}
		ed.setCell(at, lineRune(c.Tangent(t), cell), style)
	}
}

// lineRune picks a glyph for a curve segment from its tangent, allowing
// for cells being taller than they are wide.
func lineRune(tangent geom.Point, cell geom.Size) rune {
	dx := math.Abs(tangent.X) / cell.W
	dy := math.Abs(tangent.Y) / cell.H
	switch {
	case dx == 0 && dy == 0:
		return '·'
	case dx > 2*dy:
		return '─'
	case dy > 2*dx:
		return '│'
	case (tangent.X > 0) == (tangent.Y > 0):
		return '╲'
	default:
		return '╱'
	}
}

func (ed *Editor) drawMarquee() {
	m := ed.scene.Marquee()
	if m == nil {
		return
	}
	// The marquee is in content space; CellAt wants diagram units.
	r := m.Scale(1 / ed.diagram.Scale())
	top, bottom := ed.span(r)
	for col := top.Col; col <= bottom.Col; col++ {
		ed.setCell(host.Cell{Col: col, Row: top.Row}, '┄', styleMarquee)
		ed.setCell(host.Cell{Col: col, Row: bottom.Row}, '┄', styleMarquee)
	}
	for row := top.Row; row <= bottom.Row; row++ {
		ed.setCell(host.Cell{Col: top.Col, Row: row}, '┆', styleMarquee)
		ed.setCell(host.Cell{Col: bottom.Col, Row: row}, '┆', styleMarquee)
	}
}

func (ed *Editor) drawMenu() {
	for _, it := range ed.input.MenuLayout() {
		line := fmt.Sprintf(" %-*s", it.Width-1, it.Label)
		ed.drawString(it.At.Col, it.At.Row, line, styleMenu)
	}
}

func (ed *Editor) drawPlaceholder() {
	p := ed.scene.Placeholder()
	if p == nil {
		return
	}
	at := ed.input.PageCell(*p)
	ed.drawString(at.Col, at.Row, "[+]", stylePalette)
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := filepath.Base(ed.store.Path())
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	mode := ed.modeString()
	ed.drawString(w/2-len(mode)/2, y, mode, styleStatus)

	if ed.message != "" {
		style := styleStatus
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		ed.drawString(w-len(ed.message)-2, y, ed.message, style)
	}
}

func (ed *Editor) modeString() string {
	d := ed.diagram
	parts := []string{fmt.Sprintf("%d%%", int(math.Round(d.Scale()*100)))}
	parts = append(parts, fmt.Sprintf("%d nodes", d.Len()))
	if n := len(d.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if k := d.Active(); k != diagram.Idle {
		parts = append(parts, strings.ToUpper(k.String()))
	}
	return strings.Join(parts, "  ")
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}
