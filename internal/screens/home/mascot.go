package home

import (
	"charm.land/lipgloss/v2"

	"github.com/readingrally/readingrally/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default purple
	MascotCelebrating                      // Gold, star eyes: read today
	MascotAlert                            // Orange: streak at risk
)

const mascotIdle = `┌───┬───┐
│ ◉ │ ◉ │
│ ≡ ▽ ≡ │
└───┴───┘`

const mascotCelebrating = `┌───┬───┐
│ ★ │ ★ │
│ ≡ ▿ ≡ │
└─╥─┴─╥─┘
  ╚═══╝`

const mascotAlert = `┌───┬───┐
│ ◉ │ ◉ │ !
│ ≡ ▽ ≡ │
└───┴───┘`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
