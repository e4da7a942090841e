package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Compile-time interface check.
var _ domain.ReferenceStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory reference store with the same list
// semantics as FileStore. Safe for concurrent access.
type MemoryStore struct {
	mu    sync.RWMutex
	items []domain.ReferenceItem
	log   *logger.Logger
}

// NewMemoryStore creates an empty in-memory reference store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{log: log}
}

// Load returns a copy of the stored references.
func (s *MemoryStore) Load(ctx context.Context) ([]domain.ReferenceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ReferenceItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Save replaces the stored references.
func (s *MemoryStore) Save(ctx context.Context, items []domain.ReferenceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]domain.ReferenceItem(nil), items...)
	s.log.Debug("saved %d references", len(items))
	return nil
}

// Add appends a reference.
func (s *MemoryStore) Add(ctx context.Context, item domain.ReferenceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, item)
	s.log.Debug("added reference %s (kind=%s)", item.Path, item.Kind)
	return nil
}

// Remove drops the first reference with the given path.
func (s *MemoryStore) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.Path == path {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.log.Debug("removed reference %s", path)
			return nil
		}
	}
	return nil
}

// Clear drops every reference.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return nil
}
