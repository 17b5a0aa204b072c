package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/readingrally/readingrally/internal/progress"
	"github.com/readingrally/readingrally/internal/reading"
	"github.com/readingrally/readingrally/internal/router"
	"github.com/readingrally/readingrally/internal/screen"
	"github.com/readingrally/readingrally/internal/ui/components"
	"github.com/readingrally/readingrally/internal/ui/layout"
	"github.com/readingrally/readingrally/internal/ui/theme"
)

// SummaryScreen shows the analysis of a finished reading and what it earned.
type SummaryScreen struct {
	outcome *reading.Outcome
	result  *reading.Result
	saveErr error
	scroll  int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. saveErr is shown as a warning when the
// session was scored but the profile could not be written.
func New(outcome *reading.Outcome, result *reading.Result, saveErr error) *SummaryScreen {
	return &SummaryScreen{outcome: outcome, result: result, saveErr: saveErr}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Reading Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.HomeMsg{} }
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	if s.outcome == nil || s.outcome.Analysis == nil {
		return ""
	}
	lines := strings.Split(s.render(width), "\n")
	if limit := len(lines) - height; s.scroll > limit {
		s.scroll = limit
	}
	if s.scroll < 0 {
		s.scroll = 0
	}
	end := s.scroll + height
	if end > len(lines) || height <= 0 {
		end = len(lines)
	}
	return strings.Join(lines[s.scroll:end], "\n")
}

func (s *SummaryScreen) render(width int) string {
	a := s.outcome.Analysis
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}
	textWidth := components.PassageWidth(width)

	var b strings.Builder
	b.WriteString(center(theme.Title.Render("Great job! Here's your analysis.")))
	b.WriteString("\n")
	secs := int(s.outcome.Elapsed.Seconds())
	b.WriteString(center(theme.Subtitle.Render(fmt.Sprintf("%s  ·  %d:%02d",
		s.outcome.Passage.Title, secs/60, secs%60))))
	b.WriteString("\n\n")

	b.WriteString(center(renderScores(a.WordsPerMinute, s.outcome.ExpectedWPM, a.Accuracy, a.Fluency)))
	b.WriteString("\n")
	if a.Completed() {
		b.WriteString(center(theme.Correct.Render("Passage completed")))
	} else {
		b.WriteString(center(theme.Hint.Render(fmt.Sprintf("Read %.0f%% of the passage", a.Coverage*100))))
	}
	b.WriteString("\n\n")

	section := func(title string) {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(title)))
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", textWidth))))
		b.WriteString("\n")
	}
	paragraph := func(text string, style lipgloss.Style) {
		for _, line := range components.WrapWords(text, textWidth) {
			b.WriteString(center(style.Width(textWidth).Render(line)))
			b.WriteString("\n")
		}
	}

	section("Feedback")
	paragraph(a.Feedback, theme.Body)
	b.WriteString("\n")

	p := a.Pronunciation
	if len(p.Strengths)+len(p.PotentialIssues)+len(p.PracticeWords) > 0 {
		section("Pronunciation")
		if len(p.Strengths) > 0 {
			paragraph("Strengths: "+strings.Join(p.Strengths, "; "), lipgloss.NewStyle().Foreground(theme.Success))
		}
		if len(p.PotentialIssues) > 0 {
			paragraph("Watch for: "+strings.Join(p.PotentialIssues, "; "), lipgloss.NewStyle().Foreground(theme.Accent))
		}
		if len(p.PracticeWords) > 0 {
			paragraph("Practice words: "+strings.Join(p.PracticeWords, ", "), lipgloss.NewStyle().Foreground(theme.ArcadeCyan))
		}
		b.WriteString("\n")
	}

	if s.result != nil {
		section("Rewards")
		for _, line := range rewardLines(s.result) {
			b.WriteString(center(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if s.saveErr != nil {
		b.WriteString(center(theme.Incorrect.Render("Progress could not be saved: " + s.saveErr.Error())))
		b.WriteString("\n\n")
	}

	section("What we heard")
	paragraph(a.Transcript, theme.Hint)
	return b.String()
}

// renderScores lays out the three scores side by side.
func renderScores(wpm float64, expected int, accuracy, fluency float64) string {
	card := func(label, value string, c lipgloss.Style) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Width(16).
			Align(lipgloss.Center).
			Render(c.Render(value) + "\n" + theme.Hint.Render(label))
	}
	pace := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	if expected > 0 && wpm < float64(expected) {
		pace = pace.Foreground(theme.Accent)
	}
	wpmLabel := "words / min"
	if expected > 0 {
		wpmLabel = fmt.Sprintf("goal %d wpm", expected)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card(wpmLabel, fmt.Sprintf("%.0f WPM", wpm), pace),
		" ",
		card("accuracy", fmt.Sprintf("%.0f%%", accuracy), lipgloss.NewStyle().Foreground(theme.ScoreColor(accuracy)).Bold(true)),
		" ",
		card("fluency", fmt.Sprintf("%.0f%%", fluency), lipgloss.NewStyle().Foreground(theme.ScoreColor(fluency)).Bold(true)),
	)
}

func rewardLines(r *reading.Result) []string {
	points := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	lines := []string{
		points.Render(fmt.Sprintf("+%d points", r.PointsEarned)) +
			theme.Hint.Render(fmt.Sprintf("  (%d for reading, %d total)", r.SessionPoints, r.TotalPoints)),
	}
	if r.Progress.LeveledUp() {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render("Level up! You're now a "+progress.LevelTitle(r.Progress.Level)))
	}
	for _, b := range r.Badges {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.RarityColor(string(b.Rarity))).
			Render(fmt.Sprintf("%s %s badge (%s)", b.Icon, b.Name, b.Rarity.DisplayName())))
	}
	for _, m := range r.Milestones {
		lines = append(lines, theme.Correct.Render(fmt.Sprintf("Milestone: %s (+%d)", m.Name, m.Reward.Points)))
	}
	for _, a := range r.Progress.Unlocked {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Secondary).
			Render(fmt.Sprintf("%s Achievement: %s", a.Icon, a.Name)))
	}
	return lines
}
