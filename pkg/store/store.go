// Package store holds the persistence collaborators of the editor: a
// Store interface for one named snapshot record, in-memory and file
// implementations, and a Saver that adapts a Store to the editor's
// fire-and-forget change hook.
package store

import (
	"context"
	"sync"

	"github.com/ha1tch/treeflow/pkg/snapshot"
)

// Store keeps a single named diagram snapshot.
//
// Load returns nil and no error when nothing has been saved yet.
// Implementations must be safe for concurrent use, since a Saver writes
// from its own goroutine.
type Store interface {
	Save(ctx context.Context, s snapshot.Snapshot) error
	Load(ctx context.Context) (*snapshot.Snapshot, error)
}

// Memory is an in-memory Store, keyed by name so several editors can
// share one instance.
type Memory struct {
	mu      sync.RWMutex
	key     string
	records map[string]snapshot.Snapshot
}

// NewMemory returns an empty in-memory store for the record key.
func NewMemory(key string) *Memory {
	return &Memory{key: key, records: make(map[string]snapshot.Snapshot)}
}

// Key returns the record name.
func (m *Memory) Key() string { return m.key }

func (m *Memory) Save(ctx context.Context, s snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[m.key] = s.Clone()
	return nil
}

func (m *Memory) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.records[m.key]
	if !ok {
		return nil, nil
	}
	c := s.Clone()
	return &c, nil
}
