package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure PreferenceService implements the interface.
var _ driving.PreferenceService = (*PreferenceService)(nil)

// PreferenceService manages the theme preference of a session.
type PreferenceService struct {
	session *Session
}

// Theme returns the active theme.
func (p *PreferenceService) Theme() domain.Theme {
	return p.session.Theme()
}

// ToggleTheme flips the theme, applies it and persists it.
// The new theme is applied even if persisting it fails.
func (p *PreferenceService) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	s := p.session
	if err := s.checkOpen(); err != nil {
		return s.Theme(), err
	}

	s.mu.Lock()
	next := s.theme.Toggle()
	s.theme = next
	s.mu.Unlock()

	s.presenter.SetTheme(next)

	if s.prefs == nil {
		return next, nil
	}
	if err := s.prefs.SetTheme(ctx, next); err != nil {
		return next, fmt.Errorf("persist theme: %w", err)
	}
	return next, nil
}
