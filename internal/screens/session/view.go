package session

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	sess "github.com/readingrally/readingrally/internal/reading"
	"github.com/readingrally/readingrally/internal/ui/components"
	"github.com/readingrally/readingrally/internal/ui/theme"
)

var instructions = []string{
	"Find a quiet place where you can read aloud",
	"Press Enter when you're set to begin",
	"Read the text aloud clearly and at your own pace",
}

func (s *SessionScreen) View(width, height int) string {
	var body string
	switch {
	case s.finishing || s.session.Phase() == sess.PhaseAnalyzing:
		body = s.renderAnalyzing(width)
	case s.session.Phase() == sess.PhaseInstructions:
		body = s.renderInstructions(width)
	case s.session.Phase() == sess.PhaseReady:
		body = s.renderReady(width)
	case s.session.Phase() == sess.PhaseReading:
		body = s.renderReading(width)
	default:
		body = center(width, theme.Correct.Render("Reading saved."))
	}

	if s.errMsg != "" {
		body += "\n\n" + center(width, theme.Incorrect.Render(s.errMsg))
	} else if s.note != "" {
		body += "\n\n" + center(width, theme.Hint.Render(s.note))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *SessionScreen) renderInstructions(width int) string {
	var b strings.Builder
	b.WriteString(center(width, theme.Title.Render("Let's Start Reading!")))
	b.WriteString("\n\n")
	b.WriteString(center(width, theme.Body.Render("Here's what you need to do:")))
	b.WriteString("\n\n")

	num := lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Primary).Bold(true)
	var steps []string
	for i, text := range instructions {
		steps = append(steps, num.Render(fmt.Sprintf(" %d ", i+1))+" "+theme.Body.Render(text))
	}
	b.WriteString(center(width, lipgloss.JoinVertical(lipgloss.Left, steps...)))
	b.WriteString("\n\n")

	t := s.session.Timing()
	p := s.session.Passage()
	b.WriteString(center(width, theme.Subtitle.Render(fmt.Sprintf(
		"%s  ·  %d words  ·  grade %d  ·  up to %ds  ·  goal %d WPM",
		p.Title, p.WordCount(), t.Grade, int(t.MaxTime.Seconds()), t.ExpectedWPM))))
	return b.String()
}

func (s *SessionScreen) renderReady(width int) string {
	var b strings.Builder
	b.WriteString(center(width, theme.Title.Render("Ready to Begin")))
	b.WriteString("\n")
	msg := "The timer will start when you press Space"
	if s.starting {
		msg = "Opening the microphone..."
	}
	b.WriteString(center(width, theme.Subtitle.Render(msg)))
	b.WriteString("\n\n")
	b.WriteString(center(width, s.renderPassage(width)))
	return b.String()
}

func (s *SessionScreen) renderReading(width int) string {
	t := s.session.Timing()
	remaining := s.session.Remaining(s.now)
	elapsed := t.MaxTime - remaining

	timer := theme.Timer
	if elapsed > t.MaxTime*8/10 {
		timer = theme.TimerLow
	}
	header := theme.Title.Render("Reading in Progress") + "   " +
		timer.Render(fmt.Sprintf("Time remaining: %ds", int(remaining.Round(time.Second).Seconds())))

	barWidth := components.PassageWidth(width)
	bar := components.NewProgressBar("", elapsed.Seconds()/t.MaxTime.Seconds(), false, barWidth)

	var b strings.Builder
	b.WriteString(center(width, header))
	b.WriteString("\n")
	b.WriteString(center(width, bar.View()))
	b.WriteString("\n\n")
	b.WriteString(center(width, s.renderPassage(width)))
	return b.String()
}

func (s *SessionScreen) renderAnalyzing(width int) string {
	return center(width, s.spinner.View()+" "+theme.Body.Render("Analyzing your reading...")) +
		"\n\n" + center(width, theme.Hint.Render("Listening back and checking every word"))
}

func (s *SessionScreen) renderPassage(width int) string {
	p := s.session.Passage()
	lines := components.WrapWords(p.Content, components.PassageWidth(width))
	title := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(p.Title)
	return theme.Passage.Render(title + "\n\n" + strings.Join(lines, "\n"))
}

func center(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
