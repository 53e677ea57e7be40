package geom

import (
	"math"
	"sort"
)

// Grid is a uniform-bucket spatial index of rectangles keyed by id.
// Query results are returned in insertion order.
type Grid struct {
	cell    float64
	buckets map[[2]int]map[string]struct{}
	rects   map[string]Rect
	order   map[string]uint64
	seq     uint64
}

// NewGrid creates an index with square buckets of the given size.
func NewGrid(cell float64) *Grid {
	if cell <= 0 {
		cell = 100
	}
	return &Grid{
		cell:    cell,
		buckets: make(map[[2]int]map[string]struct{}),
		rects:   make(map[string]Rect),
		order:   make(map[string]uint64),
	}
}

// Len returns the number of indexed rectangles.
func (g *Grid) Len() int { return len(g.rects) }

// Insert adds or replaces the rectangle for id.
func (g *Grid) Insert(id string, r Rect) {
	if _, ok := g.rects[id]; ok {
		g.unbucket(id)
	} else {
		g.seq++
		g.order[id] = g.seq
	}
	g.rects[id] = r
	g.eachCell(r, func(k [2]int) {
		b := g.buckets[k]
		if b == nil {
			b = make(map[string]struct{})
			g.buckets[k] = b
		}
		b[id] = struct{}{}
	})
}

// Update is Insert for an id that is known to exist; unknown ids are ignored.
func (g *Grid) Update(id string, r Rect) {
	if _, ok := g.rects[id]; !ok {
		return
	}
	g.Insert(id, r)
}

// Remove drops id from the index.
func (g *Grid) Remove(id string) {
	if _, ok := g.rects[id]; !ok {
		return
	}
	g.unbucket(id)
	delete(g.rects, id)
	delete(g.order, id)
}

// Rect returns the indexed rectangle for id.
func (g *Grid) Rect(id string) (Rect, bool) {
	r, ok := g.rects[id]
	return r, ok
}

// At returns the ids whose rectangles contain p.
func (g *Grid) At(p Point) []string {
	b := g.buckets[g.key(p.X, p.Y)]
	var ids []string
	for id := range b {
		if g.rects[id].Contains(p) {
			ids = append(ids, id)
		}
	}
	g.sortIDs(ids)
	return ids
}

// Query returns the ids whose rectangles intersect r.
func (g *Grid) Query(r Rect) []string {
	seen := make(map[string]struct{})
	var ids []string
	g.eachCell(r, func(k [2]int) {
		for id := range g.buckets[k] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			if g.rects[id].Intersects(r) {
				ids = append(ids, id)
			}
		}
	})
	g.sortIDs(ids)
	return ids
}

func (g *Grid) unbucket(id string) {
	g.eachCell(g.rects[id], func(k [2]int) {
		if b := g.buckets[k]; b != nil {
			delete(b, id)
			if len(b) == 0 {
				delete(g.buckets, k)
			}
		}
	})
}

func (g *Grid) key(x, y float64) [2]int {
	return [2]int{int(math.Floor(x / g.cell)), int(math.Floor(y / g.cell))}
}

func (g *Grid) eachCell(r Rect, fn func([2]int)) {
	lo := g.key(r.X, r.Y)
	hi := g.key(r.Right(), r.Bottom())
	for cx := lo[0]; cx <= hi[0]; cx++ {
		for cy := lo[1]; cy <= hi[1]; cy++ {
			fn([2]int{cx, cy})
		}
	}
}

func (g *Grid) sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		return g.order[ids[i]] < g.order[ids[j]]
	})
}
