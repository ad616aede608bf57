package domain

// Theme is the persisted colour preference of the presentation layer.
type Theme string

// Available themes.
const (
	// ThemeLight is the default theme.
	ThemeLight Theme = "light"

	// ThemeDark is the dark-mode theme.
	ThemeDark Theme = "dark"
)

// IsValid returns true if the theme is recognised.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// IsDark returns true for the dark-mode theme.
func (t Theme) IsDark() bool {
	return t == ThemeDark
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// String returns the string representation.
func (t Theme) String() string {
	return string(t)
}

// ThemeFromDarkMode maps the stored dark-mode flag to a theme.
func ThemeFromDarkMode(dark bool) Theme {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}
