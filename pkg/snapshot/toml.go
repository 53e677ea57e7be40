package snapshot

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// EncodeTOML writes s as TOML, one [[nodes]] table per node.
func EncodeTOML(w io.Writer, s Snapshot) error {
	if err := toml.NewEncoder(w).Encode(normalize(s)); err != nil {
		return fmt.Errorf("encode snapshot toml: %w", err)
	}
	return nil
}

// DecodeTOML parses a TOML snapshot.
func DecodeTOML(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("parse snapshot toml: %w", err)
	}
	out := normalize(s)
	return &out, nil
}
