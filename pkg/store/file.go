package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ha1tch/treeflow/pkg/snapshot"
)

// File stores the record as <dir>/<key>.json or <dir>/<key>.toml.
// Writes go to a temporary file that is renamed over the record, so a
// reader never sees a partial snapshot.
type File struct {
	dir    string
	key    string
	format snapshot.Format
}

// NewFile returns a file store. The directory is created on first save.
func NewFile(dir, key string, format snapshot.Format) *File {
	return &File{dir: dir, key: key, format: format}
}

// Path returns the record's file path.
func (f *File) Path() string {
	return filepath.Join(f.dir, f.key+"."+string(f.format))
}

func (f *File) Save(ctx context.Context, s snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, s, f.format); err != nil {
		return fmt.Errorf("encoding %s: %w", f.key, err)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, "."+f.key+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.Path()); err != nil {
		return fmt.Errorf("replacing %s: %w", f.Path(), err)
	}
	return nil
}

func (f *File) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path(), err)
	}
	s, err := snapshot.Decode(bytes.NewReader(data), f.format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.Path(), err)
	}
	return s, nil
}
