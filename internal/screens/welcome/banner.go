package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/readingrally/readingrally/internal/ui/theme"
)

// Six-row block glyphs for the banner word.
var glyphs = map[rune][6]string{
	'R': {
		"██████╗ ",
		"██╔══██╗",
		"██████╔╝",
		"██╔══██╗",
		"██║  ██║",
		"╚═╝  ╚═╝",
	},
	'A': {
		" █████╗ ",
		"██╔══██╗",
		"███████║",
		"██╔══██║",
		"██║  ██║",
		"╚═╝  ╚═╝",
	},
	'L': {
		"██╗     ",
		"██║     ",
		"██║     ",
		"██║     ",
		"███████╗",
		"╚══════╝",
	},
	'Y': {
		"██╗   ██╗",
		"╚██╗ ██╔╝",
		" ╚████╔╝ ",
		"  ╚██╔╝  ",
		"   ██║   ",
		"   ╚═╝   ",
	},
}

const (
	bannerWord    = "RALLY"
	bannerKicker  = "R · E · A · D · I · N · G"
	bannerCompact = "READING RALLY"
	// bannerMinWidth is the narrowest terminal that fits the block art.
	bannerMinWidth = 48
)

// blockArt renders word with the block glyphs. Runes without a glyph are
// skipped.
func blockArt(word string) string {
	var rows [6]strings.Builder
	for _, r := range word {
		g, ok := glyphs[r]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i].WriteString(g[i])
		}
	}
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n")
}

// RenderBanner returns the ReadingRally banner. Terminals narrower than
// bannerMinWidth get a one-line fallback.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	kicker := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(bannerKicker)
	return lipgloss.JoinVertical(lipgloss.Center, kicker, style.Render(blockArt(bannerWord)))
}
