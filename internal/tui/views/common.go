package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/tally/internal/tui/ui"
)

// dataChanged asks the root model to reload every view after a mutation.
func dataChanged() tea.Msg {
	return ui.DataChangedMsg{}
}

// background is the context used by view commands. Commands are not
// cancelled individually; the program exits as a whole.
func background() context.Context {
	return context.Background()
}

// renderLabelValue renders a "label: value" line.
func renderLabelValue(styles ui.Styles, label, value string) string {
	return styles.StatLabel.Render(label+":") + " " + styles.StatValue.Render(value) + "\n"
}

// renderResult renders the last action's message or error.
func renderResult(styles ui.Styles, message string, err error) string {
	switch {
	case err != nil:
		return styles.Error.Render(fmt.Sprintf("Error: %v", err)) + "\n"
	case message != "":
		return styles.Success.Render(message) + "\n"
	}
	return ""
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// rule is a horizontal separator no wider than the view.
func rule(width int) string {
	if width <= 0 {
		width = 50
	}
	return strings.Repeat("─", min(50, width))
}

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	return max(0, min(cursor, n-1))
}
