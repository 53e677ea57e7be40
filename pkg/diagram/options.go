package diagram

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ha1tch/treeflow/pkg/geom"
	"github.com/ha1tch/treeflow/pkg/snapshot"
)

// Options configures an Editor.
type Options struct {
	NodeSize     geom.Size // shared by every node
	CanvasSize   geom.Size // unscaled diagram extent
	ViewportSize geom.Size // visible area of the scroll container
	MinScale     float64   // exclusive lower bound for the zoom factor
	ScaleStep    float64   // zoom increment

	// ContainerOffset is the page position of the scroll container.
	ContainerOffset geom.Point

	Surface  Surface
	OnChange func(snapshot.Snapshot) // persistence hook, fire-and-forget
	Logger   *slog.Logger
	IDs      func() string // id generator for new nodes
}

// DefaultOptions returns the standard editor configuration.
func DefaultOptions() Options {
	return Options{
		NodeSize:     geom.Size{W: 120, H: 30},
		CanvasSize:   geom.Size{W: 2000, H: 2000},
		ViewportSize: geom.Size{W: 800, H: 500},
		MinScale:     0.5,
		ScaleStep:    0.1,
		Surface:      NopSurface{},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		IDs:          uuid.NewString,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.NodeSize.W <= 0 || o.NodeSize.H <= 0 {
		o.NodeSize = def.NodeSize
	}
	if o.CanvasSize.W <= 0 || o.CanvasSize.H <= 0 {
		o.CanvasSize = def.CanvasSize
	}
	if o.ViewportSize.W <= 0 || o.ViewportSize.H <= 0 {
		o.ViewportSize = def.ViewportSize
	}
	if o.MinScale <= 0 {
		o.MinScale = def.MinScale
	}
	if o.ScaleStep <= 0 {
		o.ScaleStep = def.ScaleStep
	}
	if o.Surface == nil {
		o.Surface = def.Surface
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	if o.IDs == nil {
		o.IDs = def.IDs
	}
	return o
}
