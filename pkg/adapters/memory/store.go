package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/dagview/pkg/domain"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Snapshot),
	}
}

// Save keeps a copy of the snapshot for the view.
func (s *Store) Save(ctx context.Context, viewID string, snapshot domain.Snapshot) error {
	copied := clone(snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[viewID] = copied
	return nil
}

// Load returns a copy so the caller can't mutate the stored snapshot.
func (s *Store) Load(ctx context.Context, viewID string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[viewID]
	if !ok {
		return domain.Snapshot{}, domain.ErrViewNotFound
	}
	return clone(snap), nil
}

// Delete removes the view.
func (s *Store) Delete(ctx context.Context, viewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, viewID)
	return nil
}

// List returns the stored view IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]string, 0, len(s.data))
	for id := range s.data {
		views = append(views, id)
	}
	sort.Strings(views)
	return views, nil
}

// clone copies the top-level collections. Element maps (styles) are shared;
// snapshots are immutable once received.
func clone(s domain.Snapshot) domain.Snapshot {
	return domain.Snapshot{
		Nodes:  append([]domain.Node{}, s.Nodes...),
		Edges:  append([]domain.Edge{}, s.Edges...),
		Combos: append([]domain.Combo{}, s.Combos...),
	}
}
