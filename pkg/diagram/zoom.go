package diagram

import "github.com/ha1tch/treeflow/pkg/geom"

// Scale returns the current zoom factor.
func (e *Editor) Scale() float64 { return e.scale }

// SetScale changes the zoom factor. The value is rounded to one decimal;
// values at or below the minimum scale are rejected, as is a value equal
// to the current scale. It reports whether the scale changed.
func (e *Editor) SetScale(v float64) bool {
	v = geom.RoundTo(v, 1)
	if v <= e.opts.MinScale || v == e.scale {
		return false
	}
	e.scale = v
	e.surface.SetTransform(v)
	e.ScrollTo(e.scroll)
	e.notify()
	return true
}

// ScaleUp zooms in by one step.
func (e *Editor) ScaleUp() bool {
	return e.SetScale(e.scale + e.opts.ScaleStep)
}

// ScaleDown zooms out by one step, never reaching the minimum scale.
func (e *Editor) ScaleDown() bool {
	return e.SetScale(e.scale - e.opts.ScaleStep)
}
