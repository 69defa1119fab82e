package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/empathiz/internal/scoring"
	"github.com/abhisek/empathiz/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle      MascotVariant = iota // no tests yet, or a middling result
	MascotGlowing                        // last test scored excellent
	MascotConcerned                      // last test scored low
)

const mascotIdle = ` ▄▄   ▄▄
█  █ █  █
 █ ◕ ◕ █
  █ ‿ █
   ▀▄▀`

const mascotGlowing = `✦▄▄   ▄▄✦
█  █ █  █
 █ ★ ★ █
  █ ◡ █
   ▀▄▀`

const mascotConcerned = ` ▄▄   ▄▄
█  █ █  █
 █ • • █ ?
  █ ︵ █
   ▀▄▀`

// variantFor picks the mascot for the latest overall score.
func variantFor(latest float64, taken bool) MascotVariant {
	if !taken {
		return MascotIdle
	}
	switch scoring.BandOf(latest) {
	case scoring.BandExcellent:
		return MascotGlowing
	case scoring.BandLow:
		return MascotConcerned
	}
	return MascotIdle
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotGlowing:
		art = mascotGlowing
		fg = theme.TierGreat
	case MascotConcerned:
		art = mascotConcerned
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
