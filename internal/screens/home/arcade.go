package home

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/readingrally/readingrally/internal/reading"
	"github.com/readingrally/readingrally/internal/screens/welcome"
	"github.com/readingrally/readingrally/internal/ui/components"
	"github.com/readingrally/readingrally/internal/ui/theme"
)

const titleCompact = "R E A D I N G · R A L L Y"

// renderTitle returns the banner or the one-line fallback.
func renderTitle(cw int, compact bool) string {
	box := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	if compact {
		return box.Render(lipgloss.NewStyle().
			Foreground(theme.ArcadeYellow).
			Bold(true).
			Render(titleCompact))
	}
	return box.Render(welcome.RenderBanner(cw))
}

// renderStatsBar puts the reader's totals in a double-bordered strip.
// Compact mode drops the unit labels.
func renderStatsBar(st stats, cw int, compact bool) string {
	streakColor := theme.ArcadeCyan
	if st.streak == 0 {
		streakColor = theme.TextDim
	}
	cells := []struct {
		icon  string
		value int
		unit  string
		color color.Color
	}{
		{"★", st.points, "PTS", theme.ArcadeYellow},
		{"▲", st.level, "LV", theme.Accent},
		{"⚡", st.streak, "DAY", streakColor},
		{"▣", st.books, "BOOKS", theme.Success},
	}

	parts := make([]string, len(cells))
	sep := "  "
	for i, c := range cells {
		text := fmt.Sprintf("%s %d %s", c.icon, c.value, c.unit)
		if c.unit == "LV" {
			text = fmt.Sprintf("%s LV %d", c.icon, c.value)
		}
		if compact {
			text = fmt.Sprintf("%s%d", c.icon, c.value)
			sep = " "
		}
		parts[i] = lipgloss.NewStyle().Foreground(c.color).Bold(true).Render(text)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(parts, sep))
}

// renderGradePicker shows the selected grade and its timing.
func renderGradePicker(grade int, cw int) string {
	t := reading.TimingFor(grade)
	arrow := lipgloss.NewStyle().Foreground(theme.TextDim)
	label := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).
		Render(fmt.Sprintf("GRADE %d", grade))
	detail := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %ds · goal %d WPM", int(t.MaxTime.Seconds()), t.ExpectedWPM))
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(arrow.Render("◂ ") + label + arrow.Render(" ▸") + detail)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	var buttons []string
	for i, label := range items {
		state := components.ButtonNormal
		switch {
		case disabled[i]:
			state = components.ButtonDisabled
		case i == selected:
			state = components.ButtonSelected
		}
		buttons = append(buttons, components.ArcadeButton(label, state, buttonWidth))
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact lists the items as plain lines for terminals
// too short for bordered buttons.
func renderArcadeMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	plain := lipgloss.NewStyle().Foreground(theme.Text)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	hot := lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true)

	lines := make([]string, len(items))
	for i, label := range items {
		switch {
		case disabled[i]:
			lines[i] = dim.Render("   " + label)
		case i == selected:
			lines[i] = hot.Render(" ▸ " + label + " ")
		default:
			lines[i] = plain.Render("   " + label)
		}
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

// renderLLMBanner renders a warning banner when no speech or grading
// provider is configured.
func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set an LLM API key to start reading (readingrally --help)")
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
