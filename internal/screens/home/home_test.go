package home

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingrally/readingrally/internal/passages"
	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/progress"
	"github.com/readingrally/readingrally/internal/router"
	"github.com/readingrally/readingrally/internal/screen"
	"github.com/readingrally/readingrally/internal/screens/dashboard"
	"github.com/readingrally/readingrally/internal/screens/library"
	"github.com/readingrally/readingrally/internal/screens/trophies"
)

var now = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

type stubScreen struct{ passage passages.Passage }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "" }
func (s *stubScreen) Title() string                           { return s.passage.Title }

type started struct {
	passage passages.Passage
	grade   int
}

func newTestHome(p *profile.Profile, enabled bool) (*HomeScreen, *[]started) {
	var calls []started
	h := New(Options{
		Profile:        p,
		Catalog:        passages.Default(),
		Grade:          3,
		ReadingEnabled: enabled,
		StartReading: func(ps passages.Passage, grade int) screen.Screen {
			calls = append(calls, started{ps, grade})
			return &stubScreen{passage: ps}
		},
		Now: func() time.Time { return now },
	})
	return h, &calls
}

func key(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func pushed(t *testing.T, cmd tea.Cmd) screen.Screen {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok, "expected PushScreenMsg")
	return msg.Screen
}

func TestStartReadingPicksFirstUnreadPassage(t *testing.T) {
	p := profile.New(func() time.Time { return now })
	first := passages.Default().ForGrade(3)[0]
	p.Progress.AddSession(progress.SessionRecord{
		ID: "s1", Date: now, WordsPerMinute: 90, Accuracy: 95, BookID: first.ID, Completed: true,
	})

	h, calls := newTestHome(p, true)
	_, cmd := h.Update(key(tea.KeyEnter))
	s := pushed(t, cmd)

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, 3, got.grade)
	assert.Equal(t, 3, got.passage.GradeLevel)
	assert.NotEqual(t, first.ID, got.passage.ID)
	assert.Equal(t, got.passage.Title, s.Title())
}

func TestReadingDisabledWithoutProvider(t *testing.T) {
	h, calls := newTestHome(profile.New(time.Now), false)
	assert.Equal(t, itemLibrary, h.menu.Selected, "cursor should skip the disabled item")
	assert.Contains(t, h.View(120, 40), "Set an LLM API key")

	h.Update(key(tea.KeyUp))
	assert.Equal(t, itemLibrary, h.menu.Selected)
	assert.Empty(t, *calls)
}

func TestGradePicker(t *testing.T) {
	h, calls := newTestHome(profile.New(time.Now), true)
	assert.Equal(t, 3, h.Grade())

	h.Update(key(tea.KeyRight))
	assert.Equal(t, 5, h.Grade())
	h.Update(key(tea.KeyRight))
	h.Update(key(tea.KeyRight))
	assert.Equal(t, 8, h.Grade(), "grade stops at the last entry")

	h.Update(key(tea.KeyLeft))
	_, cmd := h.Update(key(tea.KeyEnter))
	pushed(t, cmd)
	assert.Equal(t, 5, (*calls)[0].grade)
}

func TestMenuOpensScreens(t *testing.T) {
	h, _ := newTestHome(profile.New(time.Now), true)

	h.Update(key(tea.KeyDown))
	_, cmd := h.Update(key(tea.KeyEnter))
	assert.IsType(t, &library.LibraryScreen{}, pushed(t, cmd))

	h.Update(key(tea.KeyDown))
	_, cmd = h.Update(key(tea.KeyEnter))
	assert.IsType(t, &dashboard.DashboardScreen{}, pushed(t, cmd))

	h.Update(key(tea.KeyDown))
	_, cmd = h.Update(key(tea.KeyEnter))
	assert.IsType(t, &trophies.TrophiesScreen{}, pushed(t, cmd))

	h.Update(key(tea.KeyDown))
	_, cmd = h.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRefreshReloadsStats(t *testing.T) {
	p := profile.New(func() time.Time { return now })
	h, _ := newTestHome(p, true)
	assert.Zero(t, h.stats.points)
	assert.Equal(t, MascotIdle, h.stats.mascot)

	p.Rewards.AddPoints(340, "reading")
	p.Progress.AddSession(progress.SessionRecord{
		ID: "s1", Date: now, WordsPerMinute: 90, Accuracy: 95, BookID: "whiskers", Completed: true,
	})
	h.Refresh()

	assert.Equal(t, 340, h.stats.points)
	assert.Equal(t, 1, h.stats.books)
	assert.True(t, h.stats.completed["whiskers"])
	assert.Equal(t, MascotCelebrating, h.stats.mascot)
	assert.Contains(t, h.View(120, 40), "340 PTS")
}

func TestMascotFor(t *testing.T) {
	assert.Equal(t, MascotIdle, mascotFor(time.Time{}, 0, now))
	assert.Equal(t, MascotCelebrating, mascotFor(now.Add(-time.Hour), 2, now))
	assert.Equal(t, MascotAlert, mascotFor(now.AddDate(0, 0, -1), 2, now))
	assert.Equal(t, MascotIdle, mascotFor(now.AddDate(0, 0, -4), 0, now))
}

func TestCompactViewUsesTextMenu(t *testing.T) {
	h, _ := newTestHome(profile.New(time.Now), true)
	view := h.View(60, 14)
	assert.Contains(t, view, "R E A D I N G")
	assert.Contains(t, view, "START READING")
}
