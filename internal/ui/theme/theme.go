package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette. Text colors keep high contrast on the dark card background so
// passages stay readable for a whole session.
var (
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#0EA5E9")
	Accent    = lipgloss.Color("#FB923C")
	Success   = lipgloss.Color("#4ADE80")
	Error     = lipgloss.Color("#FB7185")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#A1A1AA")
	BgDark    = lipgloss.Color("#111827")
	BgCard    = lipgloss.Color("#1F2937")
	Border    = lipgloss.Color("#3F3F46")

	ArcadeYellow = lipgloss.Color("#FDE047")
	ArcadeCyan   = lipgloss.Color("#67E8F9")
)

// Badge tier colors, lowest to highest.
var (
	RarityCommon    = lipgloss.Color("#A3A3A3")
	RarityRare      = lipgloss.Color("#60A5FA")
	RarityEpic      = lipgloss.Color("#C084FC")
	RarityLegendary = lipgloss.Color("#FBBF24")
)

var rarityColors = map[string]color.Color{
	"common":    RarityCommon,
	"rare":      RarityRare,
	"epic":      RarityEpic,
	"legendary": RarityLegendary,
}

// RarityColor returns the tier color for a rarity name, or Text.
func RarityColor(rarity string) color.Color {
	if c, ok := rarityColors[rarity]; ok {
		return c
	}
	return Text
}

// ScoreColor grades a 0-100 score: green from 90, orange from 75, rose below.
func ScoreColor(score float64) color.Color {
	if score >= 90 {
		return Success
	}
	if score >= 75 {
		return Accent
	}
	return Error
}

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)

	// Passage frames the text the reader reads aloud.
	Passage = lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Secondary).
		Padding(1, 3)

	Timer    = lipgloss.NewStyle().Foreground(ArcadeYellow).Bold(true)
	TimerLow = lipgloss.NewStyle().Foreground(Error).Bold(true)
)
