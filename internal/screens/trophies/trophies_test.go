package trophies

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/rewards"
	"github.com/readingrally/readingrally/internal/store"
)

var day0 = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

func key(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "trophies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func mustDef(t *testing.T, id string) rewards.BadgeDefinition {
	t.Helper()
	b, ok := rewards.LookupBadge(id)
	require.True(t, ok, id)
	return b
}

func TestBadgesTab(t *testing.T) {
	p := profile.New(func() time.Time { return day0 })
	p.Rewards.AwardBadge(mustDef(t, rewards.BadgeSpeedReader))

	s := New(p, nil)
	view := s.View(100, 40)
	assert.Contains(t, view, "1 of 4 badges")
	assert.Contains(t, view, "Speed Reader")
	assert.Contains(t, view, "Mar 02, 2026")
	assert.Contains(t, view, "Master Reader")
	assert.Contains(t, view, "locked")
}

func TestBadgesRarestFirst(t *testing.T) {
	s := New(profile.New(time.Now), nil)
	lines := s.badgeLines()
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "Master Reader")
}

func TestMilestonesTab(t *testing.T) {
	p := profile.New(func() time.Time { return day0 })
	p.Rewards.AddPoints(100, "reading")

	s := New(p, nil)
	s.Update(key(tea.KeyTab))
	assert.Equal(t, tabMilestones, s.selectedTab)
	assert.NotEmpty(t, s.milestones)
	assert.Contains(t, s.View(100, 60), s.milestones[0].Name)
}

func TestPointsLogLoadsFromEvents(t *testing.T) {
	st := openStore(t)
	events := []rewards.Event{
		{Kind: rewards.EventPoints, Points: 340, Total: 340, Reason: "Reading session", At: day0},
		{Kind: rewards.EventBadge, BadgeID: rewards.BadgeSpeedReader, Total: 340, At: day0},
	}
	require.NoError(t, rewards.PersistEvents(context.Background(), st.EventRepo(), "s1", events))

	s := New(profile.New(time.Now), st.EventRepo())
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
	require.True(t, s.logLoaded)
	assert.Len(t, s.log, 2)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, tabLog, s.selectedTab)
	view := s.View(100, 40)
	assert.Contains(t, view, "+340")
	assert.Contains(t, view, "Speed Reader")
}

func TestPointsLogWithoutRepo(t *testing.T) {
	s := New(profile.New(time.Now), nil)
	s.Update(s.Init()())
	s.selectedTab = tabLog
	assert.Contains(t, s.View(100, 40), "No rewards yet")
}

func TestRefreshReloadsPoints(t *testing.T) {
	p := profile.New(time.Now)
	s := New(p, nil)
	p.Rewards.AddPoints(50, "manual")
	assert.NotNil(t, s.Refresh())
	assert.Equal(t, 50, s.points)
}
