package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/readingrally/readingrally/internal/router"
	"github.com/readingrally/readingrally/internal/screen"
	"github.com/readingrally/readingrally/internal/ui/theme"
)

// The splash writes the book's lines one per tick, then sparkles, then
// shows the banner. It waits on the last frame for a key press.
const (
	tickInterval = 100 * time.Millisecond
	sparkleAt    = 500 * time.Millisecond
	bannerAt     = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

var bookLines = []string{
	`   ___________   ___________`,
	`  /           \ /           \`,
	` |  ~~~~~~~~~  |  ~~~~~~~~~  |`,
	` |  ~~~~~~~    |  ~~~~~~~~   |`,
	` |  ~~~~~~~~~  |  ~~~~~~~    |`,
	` |  ~~~~~~     |  ~~~~~~~~~  |`,
	`  \___________/ \___________/`,
}

var sparkles = [2]string{"★", "✦"}

type tickMsg time.Time

// WelcomeScreen is the splash shown before the home screen.
type WelcomeScreen struct {
	next    func() screen.Screen
	elapsed time.Duration
	frame   int
	done    bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New returns a splash that replaces itself with next() on any key.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }
func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.done {
			return w, nil
		}
		w.elapsed = min(w.elapsed+tickInterval, totalDur)
		w.frame++
		return w, tick()
	case tea.KeyPressMsg:
		if w.done {
			return w, nil
		}
		w.done = true
		home := w.next()
		return w, func() tea.Msg { return router.ReplaceScreenMsg{Screen: home} }
	}
	return w, nil
}

func (w *WelcomeScreen) View(width, height int) string {
	shown := min(len(bookLines), 1+int(w.elapsed/tickInterval))
	book := lipgloss.NewStyle().Foreground(theme.Primary)

	lines := make([]string, len(bookLines))
	for i := range bookLines {
		if i < shown {
			lines[i] = book.Render(bookLines[i])
		} else {
			lines[i] = strings.Repeat(" ", lipgloss.Width(bookLines[i]))
		}
	}

	if w.elapsed >= sparkleAt {
		a := lipgloss.NewStyle().Foreground(theme.Accent)
		b := lipgloss.NewStyle().Foreground(theme.Secondary)
		glyph := sparkles[w.frame%len(sparkles)]
		for i := 0; i < len(lines); i += 3 {
			left, right := a, b
			if i%2 == 1 {
				left, right = b, a
			}
			lines[i] = left.Render(glyph) + "  " + lines[i] + "  " + right.Render(glyph)
		}
	}

	content := strings.Join(lines, "\n")
	if w.elapsed >= bannerAt {
		content = lipgloss.JoinVertical(lipgloss.Center,
			content,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Read aloud, level up!"),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
