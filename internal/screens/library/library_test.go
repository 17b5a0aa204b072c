package library

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
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "" }
func (s *stubScreen) Title() string                           { return "reading" }

func key(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func newTestLibrary(p *profile.Profile, enabled bool, started *[]string) *LibraryScreen {
	return New(Options{
		Catalog:        passages.Default(),
		Profile:        p,
		Grade:          5,
		ReadingEnabled: enabled,
		StartReading: func(ps passages.Passage, grade int) screen.Screen {
			*started = append(*started, ps.ID)
			return &stubScreen{}
		},
	})
}

func TestCursorStartsOnFirstPassage(t *testing.T) {
	var started []string
	s := newTestLibrary(nil, true, &started)
	p, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, passages.Default().All()[0].ID, p.ID)
	assert.Equal(t, rowGradeHeader, s.rows[0].kind)
}

func TestNavigationSkipsHeaders(t *testing.T) {
	var started []string
	s := newTestLibrary(nil, true, &started)
	all := passages.Default().All()

	for i := 1; i < len(all); i++ {
		s.Update(key(tea.KeyDown))
		p, _ := s.Selected()
		assert.Equal(t, all[i].ID, p.ID)
	}
	s.Update(key(tea.KeyDown))
	p, _ := s.Selected()
	assert.Equal(t, all[len(all)-1].ID, p.ID, "cursor stops at the end")
}

func TestTabJumpsGrades(t *testing.T) {
	var started []string
	s := newTestLibrary(nil, true, &started)

	s.Update(key(tea.KeyTab))
	p, _ := s.Selected()
	assert.Equal(t, 3, p.GradeLevel)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	p, _ = s.Selected()
	assert.Equal(t, 8, p.GradeLevel, "shift+tab wraps to the last grade")
}

func TestEnterStartsReading(t *testing.T) {
	var started []string
	s := newTestLibrary(nil, true, &started)
	s.Update(key(tea.KeyDown))
	want, _ := s.Selected()

	_, cmd := s.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PushScreenMsg)
	assert.True(t, ok)
	assert.Equal(t, []string{want.ID}, started)
}

func TestEnterWithoutProviderShowsNote(t *testing.T) {
	var started []string
	s := newTestLibrary(nil, false, &started)
	_, cmd := s.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Empty(t, started)
	assert.Contains(t, s.View(100, 40), "LLM API key")
}

func TestCompletedMarkers(t *testing.T) {
	now := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	p := profile.New(func() time.Time { return now })
	var started []string
	s := newTestLibrary(p, true, &started)
	first, _ := s.Selected()
	assert.NotContains(t, s.View(100, 40), "✓")

	p.Progress.AddSession(progress.SessionRecord{ID: "s1", Date: now, BookID: first.ID, Completed: true})
	s.Refresh()
	view := s.View(100, 40)
	assert.Contains(t, view, "✓")
	assert.Contains(t, view, "completed")
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	var started []string
	s := newTestLibrary(nil, true, &started)
	for range passages.Default().All() {
		s.Update(key(tea.KeyDown))
	}
	s.View(100, 14)
	assert.Greater(t, s.scrollOffset, 0)
	assert.GreaterOrEqual(t, s.cursor, s.scrollOffset)
}
