package geom

import "strings"

// Element is a node in a host-side element tree: anything that has a
// parent, a set of class names and an offset relative to its parent.
type Element interface {
	Parent() Element
	Classes() []string
	Offset() Point
}

// normalizeClass strips selector dots so ".editor-node" and "editor-node"
// are equivalent.
func normalizeClass(class string) string {
	return strings.ReplaceAll(class, ".", "")
}

// HasClass reports whether e carries class.
func HasClass(e Element, class string) bool {
	if e == nil {
		return false
	}
	class = normalizeClass(class)
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// FindAncestor walks up from e (inclusive) and returns the first element
// carrying class, or nil.
func FindAncestor(e Element, class string) Element {
	class = normalizeClass(class)
	for cur := e; cur != nil; cur = cur.Parent() {
		if HasClass(cur, class) {
			return cur
		}
	}
	return nil
}

// IsInside reports whether e or any of its ancestors carries class.
func IsInside(e Element, class string) bool {
	return FindAncestor(e, class) != nil
}

// PageOffset accumulates offsets from e up to the root.
func PageOffset(e Element) Point {
	var p Point
	for cur := e; cur != nil; cur = cur.Parent() {
		p = p.Add(cur.Offset())
	}
	return p
}

// Box is a plain Element used for fixed host regions such as the
// scrollable container.
type Box struct {
	Up    Element
	Names []string
	At    Point
}

func (b *Box) Parent() Element {
	if b.Up == nil {
		return nil
	}
	return b.Up
}

func (b *Box) Classes() []string { return b.Names }
func (b *Box) Offset() Point { return b.At }
