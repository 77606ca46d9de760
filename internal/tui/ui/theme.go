package ui

import (
	"slices"

	tint "github.com/lrstanley/bubbletint"
)

// DefaultTheme is used when the config names no theme or an unknown one.
const DefaultTheme = "dracula"

// ThemeProvider tracks the active bubbletint theme. The theme list is sorted
// once, so Index positions stay stable for the theme selector.
type ThemeProvider struct {
	registry *tint.Registry
	ids      []string
}

// NewThemeProvider selects initial, falling back to DefaultTheme.
func NewThemeProvider(initial string) *ThemeProvider {
	tints := tint.DefaultTints()
	fallback := tints[0]
	if i := slices.IndexFunc(tints, func(t tint.Tint) bool { return t.ID() == DefaultTheme }); i >= 0 {
		fallback = tints[i]
	}

	tp := &ThemeProvider{registry: tint.NewRegistry(fallback, tints...)}
	tp.ids = tp.registry.TintIDs()
	slices.Sort(tp.ids)
	if initial != "" {
		tp.registry.SetTintID(initial)
	}
	return tp
}

// SetTheme switches to name and reports whether it exists. An unknown name
// keeps the current theme.
func (tp *ThemeProvider) SetTheme(name string) bool {
	return tp.registry.SetTintID(name)
}

// CurrentName returns the id of the active theme.
func (tp *ThemeProvider) CurrentName() string {
	return tp.registry.ID()
}

// AvailableThemes returns the sorted theme ids.
func (tp *ThemeProvider) AvailableThemes() []string {
	return slices.Clone(tp.ids)
}

// Index returns the position of name in AvailableThemes, or 0 when it is
// unknown.
func (tp *ThemeProvider) Index(name string) int {
	if i, ok := slices.BinarySearch(tp.ids, name); ok {
		return i
	}
	return 0
}

// Styles builds the view styles from the active theme's palette.
func (tp *ThemeProvider) Styles() Styles {
	return NewStylesFromRegistry(tp.registry)
}
