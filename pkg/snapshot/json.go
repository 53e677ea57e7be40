package snapshot

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON converts a snapshot to JSON. Nil child lists are written as
// empty arrays so the output always has the same shape.
func MarshalJSON(s Snapshot, pretty bool) ([]byte, error) {
	out := normalize(s)
	if pretty {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses a snapshot from JSON.
func UnmarshalJSON(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot json: %w", err)
	}
	out := normalize(s)
	return &out, nil
}

func normalize(s Snapshot) Snapshot {
	out := s.Clone()
	if out.Nodes == nil {
		out.Nodes = []NodeRecord{}
	}
	for i := range out.Nodes {
		if out.Nodes[i].TargetNodes == nil {
			out.Nodes[i].TargetNodes = []string{}
		}
	}
	return out
}
