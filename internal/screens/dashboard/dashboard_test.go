package dashboard

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/readingrally/readingrally/internal/passages"
	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/progress"
)

var day0 = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

func key(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

// readerWithSessions returns a profile with n sessions on consecutive days.
func readerWithSessions(n int) *profile.Profile {
	p := profile.New(func() time.Time { return day0.AddDate(0, 0, n-1) })
	ids := []string{"whiskers", "red-hen", "sun-moon"}
	for i := 0; i < n; i++ {
		p.Progress.AddSession(progress.SessionRecord{
			ID:              "s" + string(rune('a'+i)),
			Date:            day0.AddDate(0, 0, i),
			WordsPerMinute:  float64(70 + 10*i),
			Accuracy:        92,
			Fluency:         88,
			DurationSeconds: 75,
			BookID:          ids[i%len(ids)],
			Completed:       true,
		})
	}
	return p
}

func TestEmptyDashboard(t *testing.T) {
	s := New(profile.New(func() time.Time { return day0 }), passages.Default())
	view := s.View(100, 60)
	assert.Contains(t, view, "Level 1 Reader")
	assert.Contains(t, view, "No readings yet")
	assert.Contains(t, view, "Speed Demon")
}

func TestDashboardShowsRecentNewestFirst(t *testing.T) {
	s := New(readerWithSessions(3), passages.Default())
	assert.Len(t, s.data.recent, 3)
	assert.Equal(t, "sc", s.data.recent[0].ID)
	assert.Equal(t, 3, s.data.streak)
	assert.Equal(t, 3, s.data.minutes)

	view := s.View(100, 80)
	assert.Contains(t, view, "RECENT READING")
	assert.Contains(t, view, "90 WPM")
}

func TestRecentIsCapped(t *testing.T) {
	s := New(readerWithSessions(recentLimit+4), nil)
	assert.Len(t, s.data.recent, recentLimit)
}

func TestExpandSession(t *testing.T) {
	s := New(readerWithSessions(2), passages.Default())
	assert.NotContains(t, s.View(100, 80), "fluency 88%")

	s.Update(key(tea.KeyDown))
	s.Update(key(tea.KeyEnter))
	assert.True(t, s.expanded[1])
	assert.Contains(t, s.View(100, 80), "fluency 88%")

	s.Update(key(tea.KeyDown))
	assert.Equal(t, 1, s.selected, "selection stops at the last session")
}

func TestScrollFollowsSelection(t *testing.T) {
	s := New(readerWithSessions(recentLimit), nil)
	for i := 0; i < recentLimit; i++ {
		s.Update(key(tea.KeyDown))
	}
	s.View(100, 12)
	assert.Greater(t, s.scroll, 0)
}

func TestRefreshPicksUpNewSessions(t *testing.T) {
	p := readerWithSessions(1)
	s := New(p, nil)
	p.Progress.AddSession(progress.SessionRecord{ID: "new", Date: day0, BookID: "x"})
	s.Refresh()
	assert.Equal(t, "new", s.data.recent[0].ID)
}
