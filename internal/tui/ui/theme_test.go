package ui

import (
	"fmt"
	"slices"
	"testing"
)

func TestNewThemeProvider(t *testing.T) {
	tests := []struct {
		initial string
		want    string
	}{
		{"", DefaultTheme},
		{"nord", "nord"},
		{"nonexistent-theme-xyz", DefaultTheme},
	}
	for _, tt := range tests {
		t.Run(tt.initial, func(t *testing.T) {
			if got := NewThemeProvider(tt.initial).CurrentName(); got != tt.want {
				t.Errorf("CurrentName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThemeProvider_SetTheme(t *testing.T) {
	tp := NewThemeProvider("")

	if !tp.SetTheme("nord") {
		t.Fatal("expected SetTheme to accept nord")
	}
	if tp.CurrentName() != "nord" {
		t.Errorf("CurrentName() = %q, want nord", tp.CurrentName())
	}

	if tp.SetTheme("nonexistent-theme-xyz") {
		t.Error("expected SetTheme to reject an unknown theme")
	}
	if tp.CurrentName() != "nord" {
		t.Errorf("an unknown theme changed the current one to %q", tp.CurrentName())
	}
}

func TestThemeProvider_AvailableThemes(t *testing.T) {
	tp := NewThemeProvider("")
	themes := tp.AvailableThemes()

	if !slices.IsSorted(themes) {
		t.Error("themes are not sorted")
	}
	if !slices.Contains(themes, DefaultTheme) {
		t.Errorf("expected %q among the themes", DefaultTheme)
	}

	themes[0] = "mutated"
	if tp.AvailableThemes()[0] == "mutated" {
		t.Error("AvailableThemes must return a copy")
	}
}

func TestThemeProvider_Index(t *testing.T) {
	tp := NewThemeProvider("")
	themes := tp.AvailableThemes()

	for _, i := range []int{0, len(themes) / 2, len(themes) - 1} {
		if got := tp.Index(themes[i]); got != i {
			t.Errorf("Index(%q) = %d, want %d", themes[i], got, i)
		}
	}
	if got := tp.Index("nonexistent-theme-xyz"); got != 0 {
		t.Errorf("Index(unknown) = %d, want 0", got)
	}
}

func TestThemeProvider_StylesFollowTheme(t *testing.T) {
	tp := NewThemeProvider(DefaultTheme)
	before := fmt.Sprint(tp.Styles().TabActive.GetForeground())

	tp.SetTheme("nord")
	after := fmt.Sprint(tp.Styles().TabActive.GetForeground())

	if before == after {
		t.Error("expected the active tab color to change with the theme")
	}
}
