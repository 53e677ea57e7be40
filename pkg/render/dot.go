package render

import (
	"fmt"
	"strings"

	"github.com/ha1tch/treeflow/pkg/snapshot"
)

// DOT converts a snapshot's forest to Graphviz DOT. Nodes carry their
// diagram position as a pinned pos attribute for neato; dot ignores it.
func DOT(s snapshot.Snapshot, title string) string {
	var sb strings.Builder
	forest := snapshot.Tree(s)

	sb.WriteString("digraph treeflow {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box, fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [arrowsize=0.7];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		fmt.Fprintf(&sb, "    label=\"%s\";\n", escapeDOT(title))
		sb.WriteString("\n")
	}

	seen := make(map[string]bool)
	for _, n := range s.Nodes {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		fmt.Fprintf(&sb, "    \"%s\" [label=\"%s\", pos=\"%s,%s!\"];\n",
			escapeDOT(n.ID), escapeDOT(Label(n.ID)), num(n.X), num(flipY(n.Y)))
	}
	sb.WriteString("\n")

	var walk func(id string)
	walk = func(id string) {
		for _, c := range forest.Children[id] {
			fmt.Fprintf(&sb, "    \"%s\" -> \"%s\";\n", escapeDOT(id), escapeDOT(c))
			walk(c)
		}
	}
	for _, root := range forest.Roots {
		walk(root)
	}

	sb.WriteString("}\n")
	return sb.String()
}

// flipY converts to Graphviz coordinates, where y grows upwards.
func flipY(y float64) float64 {
	if y == 0 {
		return 0
	}
	return -y
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
