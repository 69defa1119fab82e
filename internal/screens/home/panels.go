package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/empathiz/internal/ui/components"
	"github.com/abhisek/empathiz/internal/ui/theme"
)

const titleFull = ` ███████╗███╗   ███╗██████╗  █████╗ ████████╗██╗  ██╗██╗███████╗
 ██╔════╝████╗ ████║██╔══██╗██╔══██╗╚══██╔══╝██║  ██║██║╚══███╔╝
 █████╗  ██╔████╔██║██████╔╝███████║   ██║   ███████║██║  ███╔╝
 ██╔══╝  ██║╚██╔╝██║██╔═══╝ ██╔══██║   ██║   ██╔══██║██║ ███╔╝
 ███████╗██║ ╚═╝ ██║██║     ██║  ██║   ██║   ██║  ██║██║███████╗
 ╚══════╝╚═╝     ╚═╝╚═╝     ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚═╝╚══════╝`

const titleCompact = "E · M · P · A · T · H · I · Z"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	text := titleFull
	if compact || cw < lipgloss.Width(titleFull) {
		text = titleCompact
	}
	return components.Centered(lipgloss.NewStyle(), cw, style.Render(text)+"\n"+
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("how do you handle the moments that matter?"))
}

// renderStatsBar renders the test history stats in a bordered box.
func renderStatsBar(st stats, cw int, compact bool) string {
	countStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	bestStyle := lipgloss.NewStyle().Foreground(theme.TierGreat).Bold(true)
	lastStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var text string
	switch {
	case st.taken == 0:
		text = dimStyle.Render("No tests taken yet")
	case compact:
		text = fmt.Sprintf("%s %s %s",
			countStyle.Render(fmt.Sprintf("#%d", st.taken)),
			bestStyle.Render(fmt.Sprintf("★%.1f", st.best)),
			lastStyle.Render(fmt.Sprintf("↺%.1f", st.latest)),
		)
	default:
		text = fmt.Sprintf("%s  %s  %s",
			countStyle.Render(fmt.Sprintf("%d TESTS", st.taken)),
			bestStyle.Render(fmt.Sprintf("★ BEST %.1f", st.best)),
			lastStyle.Render(fmt.Sprintf("↺ LAST %.1f %s", st.latest, strings.ToUpper(st.latestTopic))),
		)
	}

	inner := cw - 2
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(inner).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMenu renders each menu item as a fixed-width button, or as plain
// lines when the terminal is short.
func renderMenu(items []string, selected, cw int, compact bool) string {
	var lines []string
	for i, label := range items {
		switch {
		case compact && i == selected:
			lines = append(lines, theme.ButtonActive.Render(" ▸ "+label+" "))
		case compact:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Render("   "+label))
		case i == selected:
			lines = append(lines, lipgloss.NewStyle().
				Width(buttonWidth).
				Align(lipgloss.Center).
				Bold(true).
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(theme.Primary).
				Render("▸ "+label))
		default:
			lines = append(lines, lipgloss.NewStyle().
				Width(buttonWidth).
				Align(lipgloss.Center).
				Foreground(theme.Text).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(theme.Border).
				Render(label))
		}
	}
	return components.Centered(lipgloss.NewStyle(), cw, strings.Join(lines, "\n"))
}

// renderMascotBox renders the mascot centered at content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return components.Centered(lipgloss.NewStyle(), cw, RenderMascot(variant))
}
