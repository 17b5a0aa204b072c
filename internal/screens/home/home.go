package home

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/readingrally/readingrally/internal/passages"
	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/reading"
	"github.com/readingrally/readingrally/internal/router"
	"github.com/readingrally/readingrally/internal/screen"
	"github.com/readingrally/readingrally/internal/screens/dashboard"
	"github.com/readingrally/readingrally/internal/screens/library"
	"github.com/readingrally/readingrally/internal/screens/trophies"
	"github.com/readingrally/readingrally/internal/store"
	"github.com/readingrally/readingrally/internal/ui/components"
	"github.com/readingrally/readingrally/internal/ui/layout"
)

// Options wires the home screen to the reader's data.
type Options struct {
	Profile profile.Viewer
	Catalog *passages.Catalog
	// Grade is the initially selected grade.
	Grade int
	// ReadingEnabled is false when no analysis provider is configured.
	ReadingEnabled bool
	// StartReading builds the screen for one reading of p.
	StartReading func(p passages.Passage, grade int) screen.Screen
	Events       store.EventRepo
	Now          func() time.Time
}

const (
	itemRead = iota
	itemLibrary
	itemProgress
	itemRewards
	itemExit
)

// stats is what the home screen shows about the reader.
type stats struct {
	points    int
	level     int
	streak    int
	books     int
	completed map[string]bool
	mascot    MascotVariant
}

// HomeScreen is the main menu.
type HomeScreen struct {
	opts     Options
	menu     components.Menu
	grades   []int
	gradeIdx int
	stats    stats
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Catalog == nil {
		opts.Catalog = passages.Default()
	}

	h := &HomeScreen{opts: opts, grades: reading.Grades()}
	h.gradeIdx = gradeIndex(h.grades, opts.Grade)

	h.menu = components.NewMenu([]components.MenuItem{
		itemRead: {
			Label:    "START READING",
			Disabled: !opts.ReadingEnabled || opts.StartReading == nil,
			Action:   h.startReading,
		},
		itemLibrary: {Label: "LIBRARY", Action: func() tea.Cmd {
			return push(library.New(library.Options{
				Catalog:        opts.Catalog,
				Profile:        opts.Profile,
				Grade:          h.Grade(),
				ReadingEnabled: opts.ReadingEnabled,
				StartReading:   opts.StartReading,
			}))
		}},
		itemProgress: {Label: "MY PROGRESS", Action: func() tea.Cmd {
			return push(dashboard.New(opts.Profile, opts.Catalog))
		}},
		itemRewards: {Label: "TROPHY ROOM", Action: func() tea.Cmd {
			return push(trophies.New(opts.Profile, opts.Events))
		}},
		itemExit: {Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	h.Refresh()
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

// gradeIndex returns the index of the highest grade not above want.
func gradeIndex(grades []int, want int) int {
	idx := 0
	for i, g := range grades {
		if g <= want {
			idx = i
		}
	}
	return idx
}

// Grade returns the selected grade.
func (h *HomeScreen) Grade() int {
	return h.grades[h.gradeIdx]
}

// startReading opens the first passage for the selected grade that the
// reader has not completed yet.
func (h *HomeScreen) startReading() tea.Cmd {
	p, ok := nextPassage(h.opts.Catalog, h.Grade(), h.stats.completed)
	if !ok {
		return nil
	}
	return push(h.opts.StartReading(p, h.Grade()))
}

func nextPassage(c *passages.Catalog, grade int, completed map[string]bool) (passages.Passage, bool) {
	list := c.ForGrade(grade)
	if len(list) == 0 {
		return passages.Passage{}, false
	}
	for _, p := range list {
		if !completed[p.ID] {
			return p, true
		}
	}
	return list[0], true
}

// Refresh reloads the reader's totals.
func (h *HomeScreen) Refresh() tea.Cmd {
	st := stats{level: 1, completed: make(map[string]bool)}
	if h.opts.Profile != nil {
		h.opts.Profile.View(func(p *profile.Profile) {
			st.points = p.Rewards.Points()
			st.level = p.Progress.CurrentLevel()
			st.streak = p.Progress.ActiveStreak()
			st.books = p.Progress.BooksCompleted()
			for _, id := range p.Progress.CompletedBookIDs() {
				st.completed[id] = true
			}
			st.mascot = mascotFor(p.Progress.LastReadDate(), st.streak, h.opts.Now())
		})
	}
	h.stats = st
	return nil
}

// mascotFor celebrates a reading today and warns when a running streak
// will lapse without one.
func mascotFor(last time.Time, streak int, now time.Time) MascotVariant {
	if last.IsZero() {
		return MascotIdle
	}
	y1, m1, d1 := last.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return MascotCelebrating
	}
	if streak > 0 {
		return MascotAlert
	}
	return MascotIdle
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "left", "h":
			if h.gradeIdx > 0 {
				h.gradeIdx--
			}
			return h, nil
		case "right", "l":
			if h.gradeIdx < len(h.grades)-1 {
				h.gradeIdx++
			}
			return h, nil
		}
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area between header and footer.
	termHeight := height + layout.HeaderHeight + layout.FooterHeight
	compact := layout.IsCompactWidth(width) || layout.IsCompactHeight(termHeight)
	tiny := height < 20

	cw := components.ContentWidth(width)
	labels := h.menu.Labels()
	disabled := h.menu.DisabledSet()

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.stats.mascot, cw))
	}
	sections = append(sections, renderStatsBar(h.stats, cw, compact))
	if !h.opts.ReadingEnabled {
		sections = append(sections, renderLLMBanner(cw))
	}
	sections = append(sections, renderGradePicker(h.Grade(), cw))
	if tiny {
		sections = append(sections, renderArcadeMenuCompact(labels, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderArcadeMenu(labels, h.menu.Selected, cw, disabled))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "←→", Description: "Grade"},
		{Key: "Enter", Description: "Select"},
	}
}
