package layout

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/readingrally/readingrally/internal/ui/theme"
)

// Terminal size thresholds. Below Min* the app shows a resize notice;
// below Compact* screens drop decoration.
const (
	MinWidth  = 80
	MinHeight = 24

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30

	HeaderHeight = 3
	FooterHeight = 3
)

type KeyHint struct {
	Key         string
	Description string
}

// HeaderStats are the reader totals shown on the right of the header.
type HeaderStats struct {
	Points int
	Level  int
	Streak int
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("The window is too small to read in.\n\nMake it at least %d x %d.\n(now %d x %d)",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(text))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// RenderHeader draws the app name on the left, the screen title centered
// and the reader's points, level and streak on the right.
func RenderHeader(title string, stats HeaderStats, width int) string {
	brand := fg(theme.Primary).Bold(true).Render("  ReadingRally")
	center := fg(theme.Text).Render(title)

	days := "days"
	if stats.Streak == 1 {
		days = "day"
	}
	right := strings.Join([]string{
		fg(theme.ArcadeYellow).Render(fmt.Sprintf("★ %d pts", stats.Points)),
		fg(theme.Secondary).Render(fmt.Sprintf("Lv %d", stats.Level)),
		fg(theme.Accent).Render(fmt.Sprintf("%d %s", stats.Streak, days)),
	}, "   ")

	inner := max(0, width-4)
	bw, cw, rw := lipgloss.Width(brand), lipgloss.Width(center), lipgloss.Width(right)
	gapL := max(1, (inner-cw)/2-bw)
	gapR := max(1, inner-bw-gapL-cw-rw)

	return bar(width).Render(brand + strings.Repeat(" ", gapL) + center + strings.Repeat(" ", gapR) + right)
}

func RenderFooter(hints []KeyHint, width int) string {
	var b strings.Builder
	b.WriteString("  ")
	key := fg(theme.Text).Bold(true)
	desc := fg(theme.TextDim)
	for i, h := range hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(key.Render(h.Key) + " " + desc.Render(h.Description))
	}
	return bar(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, padding the content to
// fill whatever height the header and footer leave.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).Render(content),
		footer,
	)
}
