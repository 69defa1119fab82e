package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: calm, warm accents on a dark background.
var (
	Primary   = lipgloss.Color("#E879F9") // Orchid
	Secondary = lipgloss.Color("#38BDF8") // Sky
	Accent    = lipgloss.Color("#FB923C") // Amber
	Success   = lipgloss.Color("#4ADE80") // Green
	Warning   = lipgloss.Color("#FACC15") // Yellow
	Error     = lipgloss.Color("#F87171") // Red
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
	Recording = lipgloss.Color("#EF4444") // Red dot
)

// Score tier colors, from poor to perfect.
var (
	TierPoor    = lipgloss.Color("#F87171")
	TierFair    = lipgloss.Color("#FB923C")
	TierGood    = lipgloss.Color("#FACC15")
	TierGreat   = lipgloss.Color("#4ADE80")
	TierPerfect = lipgloss.Color("#38BDF8")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
