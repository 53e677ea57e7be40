package geom

// Connector routes a parent→child edge. Both nodes share size. The curve
// leaves the parent's bottom-center and enters the child's top-center; the
// first control point keeps the start x at the end y and the second keeps
// the end x at the start y, which yields a flow-chart style connector.
func Connector(parent, child Point, size Size) Cubic {
	start := Point{parent.X + size.W/2, parent.Y + size.H}
	end := Point{child.X + size.W/2, child.Y}
	return Loose(start, end)
}

// Loose routes a curve between two free points with the same control
// point rule as Connector. Used for the drag-to-connect preview.
func Loose(start, end Point) Cubic {
	return Cubic{
		P0: start,
		P1: Point{start.X, end.Y},
		P2: Point{end.X, start.Y},
		P3: end,
	}
}

// ExportAnchor is the bottom-center point of a node box.
func ExportAnchor(topLeft Point, size Size) Point {
	return Point{topLeft.X + size.W/2, topLeft.Y + size.H}
}

// EntranceAnchor is the top-center point of a node box.
func EntranceAnchor(topLeft Point, size Size) Point {
	return Point{topLeft.X + size.W/2, topLeft.Y}
}
