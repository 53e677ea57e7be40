package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ha1tch/treeflow/pkg/snapshot"
)

// DefaultSaveTimeout bounds a single background save.
const DefaultSaveTimeout = 5 * time.Second

// Saver runs saves off the caller's goroutine. Snapshots handed to the
// hook are coalesced: when a save is still running only the newest
// pending snapshot is kept. Failures are logged and never reported back.
type Saver struct {
	store   Store
	log     *slog.Logger
	timeout time.Duration

	mu     sync.Mutex
	slot   chan snapshot.Snapshot
	closed bool
	done   chan struct{}

	saved  int
	failed int
}

// NewSaver starts the background writer for st. A nil logger uses
// slog.Default.
func NewSaver(st Store, log *slog.Logger) *Saver {
	if log == nil {
		log = slog.Default()
	}
	s := &Saver{
		store:   st,
		log:     log,
		timeout: DefaultSaveTimeout,
		slot:    make(chan snapshot.Snapshot, 1),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Hook returns the change hook for diagram.Options.OnChange. It never
// blocks.
func (s *Saver) Hook() func(snapshot.Snapshot) {
	return s.Offer
}

// Offer queues snap for saving, replacing any snapshot not yet picked up.
// Calls after Close are dropped.
func (s *Saver) Offer(snap snapshot.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.slot:
	default:
	}
	s.slot <- snap.Clone()
}

func (s *Saver) run() {
	defer close(s.done)
	for snap := range s.slot {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.store.Save(ctx, snap)
		cancel()

		s.mu.Lock()
		if err != nil {
			s.failed++
		} else {
			s.saved++
		}
		s.mu.Unlock()

		if err != nil {
			s.log.Error("snapshot save failed", "nodes", len(snap.Nodes), "err", err)
			continue
		}
		s.log.Debug("snapshot saved", "nodes", len(snap.Nodes))
	}
}

// Stats returns the number of completed and failed saves.
func (s *Saver) Stats() (saved, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved, s.failed
}

// Close stops accepting snapshots, waits for the pending one to be
// written, and returns ctx.Err() if ctx ends first.
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.slot)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
