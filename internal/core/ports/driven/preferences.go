package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// PreferenceStore persists presentation preferences.
type PreferenceStore interface {
	// Theme returns the stored theme, or domain.ThemeLight if unset.
	Theme(ctx context.Context) (domain.Theme, error)

	// SetTheme stores the theme.
	SetTheme(ctx context.Context, theme domain.Theme) error
}
