package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/readingrally/readingrally/internal/screen"
)

type fakeScreen struct {
	name      string
	inits     int
	refreshes int
}

func (s *fakeScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *fakeScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *fakeScreen) View(int, int) string                    { return s.name }
func (s *fakeScreen) Title() string                           { return s.name }

// refreshing is a fakeScreen that also reloads when revealed.
type refreshing struct{ fakeScreen }

func (s *refreshing) Refresh() tea.Cmd {
	s.refreshes++
	return nil
}

func stack(names ...string) (*Router, []*fakeScreen) {
	screens := make([]*fakeScreen, len(names))
	for i, n := range names {
		screens[i] = &fakeScreen{name: n}
	}
	r := New(screens[0])
	for _, s := range screens[1:] {
		r.Push(s)
	}
	return r, screens
}

func TestPushRunsInit(t *testing.T) {
	r, s := stack("home", "reading")
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "reading", r.Active().Title())
	assert.Equal(t, 1, s[1].inits)
	assert.Equal(t, "reading", r.View(80, 24))
}

func TestPopKeepsRoot(t *testing.T) {
	r, _ := stack("home", "reading")
	r.Update(PopScreenMsg{})
	assert.Equal(t, "home", r.Active().Title())

	assert.Nil(t, r.Pop())
	assert.Equal(t, 1, r.Depth())
}

func TestReplace(t *testing.T) {
	r, _ := stack("home", "reading")
	results := &fakeScreen{name: "results"}

	r.Update(ReplaceScreenMsg{Screen: results})
	assert.Equal(t, 2, r.Depth(), "replace keeps depth")
	assert.Equal(t, "results", r.Active().Title())
	assert.Equal(t, 1, results.inits)

	r, _ = stack("home")
	r.Replace(results)
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "results", r.Active().Title())
}

func TestRevealedScreenIsRefreshed(t *testing.T) {
	root := &refreshing{fakeScreen{name: "home"}}
	r := New(root)
	r.Push(&fakeScreen{name: "reading"})
	r.Update(PopScreenMsg{})
	assert.Equal(t, 1, root.refreshes)

	r.Push(&fakeScreen{name: "reading"})
	r.Push(&fakeScreen{name: "results"})
	r.Update(HomeMsg{})
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "home", r.Active().Title())
	assert.Equal(t, 2, root.refreshes)

	assert.Nil(t, r.Home())
	assert.Equal(t, 2, root.refreshes, "home at root is a no-op")
}
