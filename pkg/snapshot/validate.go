package snapshot

import "fmt"

// IssueKind classifies a snapshot problem.
type IssueKind string

const (
	IssueEmptyID      IssueKind = "empty-id"
	IssueDuplicateID  IssueKind = "duplicate-id"
	IssueUnknownChild IssueKind = "unknown-child"
	IssueSelfEdge     IssueKind = "self-edge"
	IssueSecondParent IssueKind = "second-parent"
	IssueCycle        IssueKind = "cycle"
	IssueNegative     IssueKind = "negative-position"
	IssueScale        IssueKind = "bad-scale"
)

// Issue is one problem found by Validate. Restore tolerates every issue by
// skipping the offending reference; Validate exists for reporting.
type Issue struct {
	Kind   IssueKind
	NodeID string
	Ref    string
}

func (i Issue) String() string {
	switch {
	case i.Ref != "":
		return fmt.Sprintf("%s: node %q -> %q", i.Kind, i.NodeID, i.Ref)
	case i.NodeID != "":
		return fmt.Sprintf("%s: node %q", i.Kind, i.NodeID)
	}
	return string(i.Kind)
}

// Validate checks that s describes a forest of out-trees with sane values.
func Validate(s Snapshot) []Issue {
	var issues []Issue

	if s.Scale <= 0 {
		issues = append(issues, Issue{Kind: IssueScale})
	}

	seen := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			issues = append(issues, Issue{Kind: IssueEmptyID})
			continue
		}
		if seen[n.ID] {
			issues = append(issues, Issue{Kind: IssueDuplicateID, NodeID: n.ID})
		}
		seen[n.ID] = true
		if n.X < 0 || n.Y < 0 {
			issues = append(issues, Issue{Kind: IssueNegative, NodeID: n.ID})
		}
	}

	parent := make(map[string]string)
	for _, n := range s.Nodes {
		for _, child := range n.TargetNodes {
			switch {
			case child == n.ID:
				issues = append(issues, Issue{Kind: IssueSelfEdge, NodeID: n.ID, Ref: child})
			case !seen[child]:
				issues = append(issues, Issue{Kind: IssueUnknownChild, NodeID: n.ID, Ref: child})
			case parent[child] != "":
				issues = append(issues, Issue{Kind: IssueSecondParent, NodeID: n.ID, Ref: child})
			default:
				parent[child] = n.ID
			}
		}
	}

	// With at most one parent per node, a cycle is a parent chain that
	// returns to its start.
	reported := make(map[string]bool)
	for _, n := range s.Nodes {
		visited := map[string]bool{n.ID: true}
		for cur := parent[n.ID]; cur != ""; cur = parent[cur] {
			if cur == n.ID {
				if !reported[n.ID] {
					for c := n.ID; ; {
						reported[c] = true
						c = parent[c]
						if c == n.ID {
							break
						}
					}
					issues = append(issues, Issue{Kind: IssueCycle, NodeID: n.ID})
				}
				break
			}
			if visited[cur] {
				break
			}
			visited[cur] = true
		}
	}

	return issues
}

// Forest is a read-only tree view of a snapshot.
type Forest struct {
	Roots    []string
	Children map[string][]string
	Parent   map[string]string
}

// Tree builds the forest view using the same acceptance rules as restore:
// unknown, self and second-parent references are dropped, as are edges
// that would close a cycle.
func Tree(s Snapshot) Forest {
	f := Forest{
		Children: make(map[string][]string),
		Parent:   make(map[string]string),
	}
	known := make(map[string]bool, len(s.Nodes))
	owner := make([]bool, len(s.Nodes))
	var order []string
	for i, n := range s.Nodes {
		if n.ID == "" || known[n.ID] {
			continue
		}
		known[n.ID] = true
		owner[i] = true
		order = append(order, n.ID)
	}

	isAncestor := func(candidate, of string) bool {
		for cur := of; cur != ""; cur = f.Parent[cur] {
			if cur == candidate {
				return true
			}
		}
		return false
	}

	for i, n := range s.Nodes {
		if !owner[i] {
			continue
		}
		for _, child := range n.TargetNodes {
			if !known[child] || child == n.ID || f.Parent[child] != "" || isAncestor(child, n.ID) {
				continue
			}
			f.Parent[child] = n.ID
			f.Children[n.ID] = append(f.Children[n.ID], child)
		}
	}

	for _, id := range order {
		if f.Parent[id] == "" {
			f.Roots = append(f.Roots, id)
		}
	}
	return f
}

// Depth returns the longest root-to-leaf path length in nodes.
func (f Forest) Depth() int {
	var walk func(id string) int
	walk = func(id string) int {
		best := 0
		for _, c := range f.Children[id] {
			if d := walk(c); d > best {
				best = d
			}
		}
		return best + 1
	}
	depth := 0
	for _, r := range f.Roots {
		if d := walk(r); d > depth {
			depth = d
		}
	}
	return depth
}
