// Package dashboard shows the reader's level, averages, achievements and
// recent sessions.
package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/readingrally/readingrally/internal/passages"
	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/progress"
	"github.com/readingrally/readingrally/internal/screen"
	"github.com/readingrally/readingrally/internal/ui/components"
	"github.com/readingrally/readingrally/internal/ui/layout"
	"github.com/readingrally/readingrally/internal/ui/theme"
)

// recentLimit caps the session list.
const recentLimit = 10

type snapshot struct {
	level        int
	nextProgress int
	avgWPM       float64
	avgAccuracy  float64
	streak       int
	minutes      int
	books        int
	achievements []progress.Achievement
	recent       []progress.SessionRecord // newest first
}

// DashboardScreen displays reading progress.
type DashboardScreen struct {
	viewer   profile.Viewer
	catalog  *passages.Catalog
	data     snapshot
	selected int
	expanded map[int]bool
	scroll   int
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.Refresher = (*DashboardScreen)(nil)

// New creates a DashboardScreen. catalog resolves book titles and may be nil.
func New(viewer profile.Viewer, catalog *passages.Catalog) *DashboardScreen {
	s := &DashboardScreen{
		viewer:   viewer,
		catalog:  catalog,
		expanded: make(map[int]bool),
	}
	s.Refresh()
	return s
}

// Refresh re-reads the profile.
func (s *DashboardScreen) Refresh() tea.Cmd {
	d := snapshot{level: 1}
	if s.viewer != nil {
		s.viewer.View(func(p *profile.Profile) {
			t := p.Progress
			d.level = t.CurrentLevel()
			d.nextProgress = t.NextLevelProgress()
			d.avgWPM = t.AverageWPM()
			d.avgAccuracy = t.AverageAccuracy()
			d.streak = t.ActiveStreak()
			d.minutes = t.TotalMinutesRead()
			d.books = t.BooksCompleted()
			d.achievements = t.Achievements()
			hist := t.History()
			for i := len(hist) - 1; i >= 0 && len(d.recent) < recentLimit; i-- {
				d.recent = append(d.recent, hist[i])
			}
		})
	}
	s.data = d
	if s.selected >= len(d.recent) {
		s.selected = max(len(d.recent)-1, 0)
	}
	return nil
}

func (s *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (s *DashboardScreen) Title() string {
	return "My Progress"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.data.recent)-1 {
				s.selected++
			}
		case "enter":
			if len(s.data.recent) > 0 {
				s.expanded[s.selected] = !s.expanded[s.selected]
			}
		}
	}
	return s, nil
}

func (s *DashboardScreen) View(width, height int) string {
	cw := min(max(width-8, 30), 72)
	body, cursorLine := s.render(cw)
	lines := strings.Split(body, "\n")

	if height > 0 && len(lines) > height {
		if cursorLine < s.scroll {
			s.scroll = cursorLine
		}
		if cursorLine >= s.scroll+height {
			s.scroll = cursorLine - height + 1
		}
		s.scroll = min(s.scroll, len(lines)-height)
		lines = lines[s.scroll : s.scroll+height]
	} else {
		s.scroll = 0
	}

	for i, l := range lines {
		lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, l)
	}
	return strings.Join(lines, "\n")
}

// render lays the dashboard out at width cw and reports the line holding
// the selected session.
func (s *DashboardScreen) render(cw int) (string, int) {
	d := s.data
	var out []string
	add := func(block string) {
		out = append(out, strings.Split(block, "\n")...)
	}

	add(s.renderLevel(cw))
	add("")
	add(renderStats(d, cw))
	add("")

	add(sectionTitle("ACHIEVEMENTS", cw))
	for _, a := range d.achievements {
		add(renderAchievement(a, cw))
	}
	add("")

	add(sectionTitle("RECENT READING", cw))
	cursorLine := len(out)
	if len(d.recent) == 0 {
		add(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("No readings yet. Pick a passage and read aloud!"))
	}
	for i, rec := range d.recent {
		if i == s.selected {
			cursorLine = len(out)
		}
		add(s.renderSession(rec, i == s.selected, cw))
		if s.expanded[i] {
			add(renderSessionDetail(rec))
		}
	}
	return strings.Join(out, "\n"), cursorLine
}

func sectionTitle(name string, cw int) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(name) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
}

func (s *DashboardScreen) renderLevel(cw int) string {
	d := s.data
	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
		Render("▲ " + progress.LevelTitle(d.level))

	next, ok := progress.RequirementFor(d.level + 1)
	if !ok {
		return components.ArcadeCard(title+"\n\n"+theme.Correct.Render("Top level reached!"), cw)
	}
	bar := components.NewProgressBar(
		fmt.Sprintf("To level %d", d.level+1),
		float64(d.nextProgress)/100, true, cw-8)
	req := theme.Hint.Render(fmt.Sprintf("needs %.0f WPM · %.0f%% accuracy · %d books",
		next.MinWPM, next.MinAccuracy, next.BooksRequired))
	return components.ArcadeCard(title+"\n\n"+bar.View()+"\n"+req, cw)
}

func renderStats(d snapshot, cw int) string {
	cell := func(value, label string, c lipgloss.Style) string {
		return lipgloss.NewStyle().
			Width(cw/5).
			Align(lipgloss.Center).
			Render(c.Bold(true).Render(value) + "\n" + theme.Hint.Render(label))
	}
	plain := lipgloss.NewStyle().Foreground(theme.Text)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell(fmt.Sprintf("%.0f", d.avgWPM), "avg WPM", plain),
		cell(fmt.Sprintf("%.0f%%", d.avgAccuracy), "avg accuracy",
			lipgloss.NewStyle().Foreground(theme.ScoreColor(d.avgAccuracy))),
		cell(fmt.Sprintf("%d", d.streak), "day streak", lipgloss.NewStyle().Foreground(theme.ArcadeCyan)),
		cell(fmt.Sprintf("%d", d.minutes), "minutes", plain),
		cell(fmt.Sprintf("%d", d.books), "books", lipgloss.NewStyle().Foreground(theme.Success)),
	)
}

func renderAchievement(a progress.Achievement, cw int) string {
	name := fmt.Sprintf("%s %s", a.Icon, a.Name)
	if a.Achieved {
		line := theme.Correct.Render("✓ " + name)
		if a.DateAchieved != nil {
			line += theme.Hint.Render("  " + a.DateAchieved.Format("Jan 02, 2006"))
		}
		return line
	}
	bar := components.NewProgressBar("", a.Percent(), true, cw-28)
	return lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("  %-24s", name)) +
		" " + bar.View() + "\n" + theme.Hint.Render("    "+a.Description)
}

func (s *DashboardScreen) renderSession(rec progress.SessionRecord, selected bool, cw int) string {
	title := rec.BookID
	if s.catalog != nil {
		if p, ok := s.catalog.Get(rec.BookID); ok {
			title = p.Title
		}
	}
	if title == "" {
		title = "Free reading"
	}

	prefix := "  "
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if selected {
		prefix = "> "
		style = style.Foreground(theme.Primary).Bold(true)
	}
	line := fmt.Sprintf("%s%s  %-22.22s %4.0f WPM  %3.0f%%",
		prefix, rec.Date.Format("Jan 02"), title, rec.WordsPerMinute, rec.Accuracy)
	if rec.Completed {
		line += "  ✓"
	}
	return style.Width(cw).Render(line)
}

func renderSessionDetail(rec progress.SessionRecord) string {
	completed := "no"
	if rec.Completed {
		completed = "yes"
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(fmt.Sprintf(
		"    fluency %.0f%%  ·  %d:%02d  ·  completed %s  ·  %s",
		rec.Fluency, rec.DurationSeconds/60, rec.DurationSeconds%60, completed,
		rec.Date.Format("Mon Jan 02 15:04")))
}
