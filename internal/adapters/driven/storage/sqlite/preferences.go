package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

const darkModeKey = "dark_mode"

// preferenceStore implements driven.PreferenceStore.
type preferenceStore struct {
	store *Store
}

var _ driven.PreferenceStore = (*preferenceStore)(nil)

// Theme returns the stored theme, light when nothing was stored.
func (s *preferenceStore) Theme(ctx context.Context) (domain.Theme, error) {
	var value string
	err := s.store.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, darkModeKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ThemeLight, nil
	}
	if err != nil {
		return domain.ThemeLight, fmt.Errorf("reading %s: %w", darkModeKey, err)
	}

	dark, err := strconv.ParseBool(value)
	if err != nil {
		return domain.ThemeLight, fmt.Errorf("parsing %s %q: %w", darkModeKey, value, err)
	}
	return domain.ThemeFromDarkMode(dark), nil
}

// SetTheme stores the theme as the dark_mode flag.
func (s *preferenceStore) SetTheme(ctx context.Context, theme domain.Theme) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, darkModeKey, strconv.FormatBool(theme.IsDark()))
	if err != nil {
		return fmt.Errorf("saving %s: %w", darkModeKey, err)
	}
	return nil
}
