package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// PreferenceService manages presentation preferences.
type PreferenceService interface {
	// Theme returns the active theme.
	Theme() domain.Theme

	// ToggleTheme flips and persists the theme.
	ToggleTheme(ctx context.Context) (domain.Theme, error)
}
