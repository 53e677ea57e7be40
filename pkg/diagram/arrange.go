package diagram

import (
	"github.com/ha1tch/treeflow/pkg/geom"
	"github.com/ha1tch/treeflow/pkg/snapshot"
)

// Spacing between arranged nodes, in diagram units.
const (
	arrangeGapX   = 30
	arrangeGapY   = 60
	arrangeMargin = 20
)

// Arrange lays the forest out as tidy trees: roots left to right in
// insertion order, one row per depth, each parent centered over its
// children. It notifies once.
func (e *Editor) Arrange() {
	if len(e.nodes) == 0 {
		return
	}
	positions := TreeLayout(snapshot.Tree(e.Serialize()), e.opts.NodeSize)
	e.batch(func() {
		for _, n := range e.nodes {
			if at, ok := positions[n.id]; ok && at != n.pos {
				n.place(at)
				e.notify()
			}
		}
	})
}

// TreeLayout computes top-left positions for every node of f. Each leaf
// takes one horizontal slot; a parent sits centered above the span of its
// children.
func TreeLayout(f snapshot.Forest, size geom.Size) map[string]geom.Point {
	positions := make(map[string]geom.Point)
	slot := size.W + arrangeGapX
	row := size.H + arrangeGapY
	next := 0.0 // next free leaf slot

	// Post-order walk returns the centre x of the subtree root
	var place func(id string, depth int) float64
	place = func(id string, depth int) float64 {
		children := f.Children[id]
		var centre float64
		if len(children) == 0 {
			centre = next*slot + size.W/2
			next++
		} else {
			first := place(children[0], depth+1)
			last := first
			for _, c := range children[1:] {
				last = place(c, depth+1)
			}
			centre = (first + last) / 2
		}
		positions[id] = geom.Point{
			X: arrangeMargin + centre - size.W/2,
			Y: arrangeMargin + float64(depth)*row,
		}
		return centre
	}

	for _, root := range f.Roots {
		place(root, 0)
	}
	return positions
}
