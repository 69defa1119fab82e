package components

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/empathiz/internal/scoring"
	"github.com/abhisek/empathiz/internal/ui/theme"
)

// TierColor maps a score tier to its palette color.
func TierColor(t scoring.Tier) color.Color {
	switch t {
	case scoring.TierPoor:
		return theme.TierPoor
	case scoring.TierFair:
		return theme.TierFair
	case scoring.TierGood:
		return theme.TierGood
	case scoring.TierGreat:
		return theme.TierGreat
	case scoring.TierPerfect:
		return theme.TierPerfect
	}
	return theme.TextDim
}

// ScoreLine renders "Label  [bar]  7.5" for one dimension. Absent scores
// render as "n/a" with an empty bar.
func ScoreLine(label string, score float64, present bool, labelWidth, width int) string {
	tier := scoring.TierOf(score, present)
	value := "n/a"
	if present {
		value = fmt.Sprintf("%4.1f", score)
	}

	name := lipgloss.NewStyle().Foreground(theme.Text).Width(labelWidth).Render(label)
	num := lipgloss.NewStyle().Foreground(TierColor(tier)).Bold(true).Width(5).Align(lipgloss.Right).Render(value)

	bar := ProgressBar{
		Percent: score / 10,
		Width:   width - labelWidth - 7,
		Fill:    TierColor(tier),
	}
	if !present {
		bar.Percent = 0
	}
	return name + bar.View() + "  " + num
}
