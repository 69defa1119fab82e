package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/empathiz/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for framed screens, so
// stacked boxes line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame wraps content in a rounded border, centered in width x height.
func Frame(content string, width, height int) string {
	innerW := width - 2 // border chars
	innerH := height - 2
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(innerW).
		Height(innerH).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a bordered card cw columns wide.
func Card(content string, cw int) string {
	inner := cw - 2
	return theme.Card.Width(inner).Render(content)
}

// Centered renders s centered in width using style.
func Centered(style lipgloss.Style, width int, s string) string {
	return style.Width(width).Align(lipgloss.Center).Render(s)
}
