package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure PreferenceStore implements the interface.
var _ driven.PreferenceStore = (*PreferenceStore)(nil)

// PreferenceStore is an in-memory implementation of driven.PreferenceStore.
type PreferenceStore struct {
	mu    sync.RWMutex
	theme domain.Theme
}

// NewPreferenceStore creates a new in-memory preference store.
func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{theme: domain.ThemeLight}
}

// Theme returns the stored theme.
func (s *PreferenceStore) Theme(_ context.Context) (domain.Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme, nil
}

// SetTheme stores the theme.
func (s *PreferenceStore) SetTheme(_ context.Context, theme domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}
