package diagram

import (
	"fmt"

	"github.com/ha1tch/treeflow/pkg/geom"
)

// EdgeKey identifies the rendered path of one parent→child edge.
type EdgeKey struct {
	Source, Target string
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("%s->%s", k.Source, k.Target)
}

// NodeState carries the visual flags of a node.
type NodeState struct {
	Selected bool
	Dragging bool
}

// Surface is the host rendering surface. The editor creates, updates and
// removes visual primitives through it; how they are drawn is up to the
// host. Node bounds, edges, preview and marquee are in diagram units; the
// host applies the transform set by SetTransform. The placeholder is in
// page coordinates.
type Surface interface {
	SetTransform(scale float64)
	SetScroll(offset geom.Point)

	AddNode(id string, bounds geom.Rect)
	MoveNode(id string, at geom.Point)
	SetNodeState(id string, state NodeState)
	RemoveNode(id string)

	SetEdge(key EdgeKey, path geom.Cubic)
	RemoveEdge(key EdgeKey)

	// A nil argument removes the transient artifact.
	SetPreview(path *geom.Cubic)
	SetMarquee(region *geom.Rect)
	SetPlaceholder(at *geom.Point)
}

// NopSurface discards every primitive.
type NopSurface struct{}

func (NopSurface) SetTransform(float64) {}
func (NopSurface) SetScroll(geom.Point) {}
func (NopSurface) AddNode(string, geom.Rect) {}
func (NopSurface) MoveNode(string, geom.Point) {}
func (NopSurface) SetNodeState(string, NodeState) {}
func (NopSurface) RemoveNode(string) {}
func (NopSurface) SetEdge(EdgeKey, geom.Cubic) {}
func (NopSurface) RemoveEdge(EdgeKey) {}
func (NopSurface) SetPreview(*geom.Cubic) {}
func (NopSurface) SetMarquee(*geom.Rect) {}
func (NopSurface) SetPlaceholder(*geom.Point) {}
