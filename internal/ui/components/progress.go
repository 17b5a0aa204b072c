package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/readingrally/readingrally/internal/ui/theme"
)

// ProgressBar is a one-line meter: an optional label, a filled track and
// an optional percentage. Percent is a fraction; the track clamps it to
// [0, 1] but the percentage shows the raw value.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
	Fill        color.Color
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
		Fill:        theme.Secondary,
	}
}

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	var suffix string
	if p.ShowPercent {
		suffix = lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %3d%%", int(p.Percent*100)))
	}

	track := max(4, p.Width-lipgloss.Width(b.String())-lipgloss.Width(suffix))
	filled := int(float64(track) * max(0, min(1, p.Percent)))

	b.WriteString(lipgloss.NewStyle().Foreground(p.Fill).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", track-filled)))
	b.WriteString(suffix)
	return b.String()
}
