package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// It backs --ephemeral sessions and tests.
type DocumentStore struct {
	mu    sync.RWMutex
	docs  domain.DocumentSet
	saves int

	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore(initial ...domain.DocumentRecord) *DocumentStore {
	docs := make(domain.DocumentSet, len(initial))
	copy(docs, initial)
	return &DocumentStore{docs: docs}
}

// Load returns a copy of the stored set.
func (s *DocumentStore) Load(_ context.Context) (domain.DocumentSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs.Clone(), nil
}

// Save replaces the stored set.
func (s *DocumentStore) Save(_ context.Context, docs domain.DocumentSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.docs = docs.Clone()
	s.saves++
	return nil
}

// Saves returns how many successful saves happened.
func (s *DocumentStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
