package profile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingrally/readingrally/internal/progress"
	"github.com/readingrally/readingrally/internal/rewards"
	"github.com/readingrally/readingrally/internal/store"
)

var day0 = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "profile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func clock() func() time.Time { return func() time.Time { return day0 } }

func TestLoadEmpty(t *testing.T) {
	repo := NewRepo(openStore(t).SnapshotRepo(), WithClock(clock()))
	p, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, p.Progress.CurrentLevel())
	assert.Zero(t, p.Rewards.Points())
	assert.Empty(t, p.Progress.History())
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(openStore(t).SnapshotRepo(), WithClock(clock()))

	p := New(clock())
	p.Progress.AddSession(progress.SessionRecord{
		ID: "s1", Date: day0, WordsPerMinute: 90, Accuracy: 95, Fluency: 80,
		DurationSeconds: 60, BookID: "whiskers", Completed: true,
	})
	p.Rewards.AddPoints(250, "session")
	p.Rewards.UpdateMilestoneProgress(rewards.MilestoneBooks, 1)
	p.Rewards.UpdateStreak(day0)
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Progress.History(), 1)
	assert.Equal(t, 1, got.Progress.BooksCompleted())
	assert.Equal(t, 1, got.Progress.Streak())
	assert.Equal(t, 350, got.Rewards.Points())
	assert.Equal(t, 1, got.Rewards.Streak())

	// Restored milestones are latched and do not pay again.
	got.Rewards.UpdateMilestoneProgress(rewards.MilestoneBooks, 1)
	assert.Equal(t, 350, got.Rewards.Points())
}

func TestSavePrunes(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	repo := NewRepo(st.SnapshotRepo(), WithClock(clock()), WithKeep(2))

	p := New(clock())
	for i := 0; i < 5; i++ {
		p.Rewards.AddPoints(10, "tick")
		require.NoError(t, repo.Save(ctx, p))
	}

	var n int
	row := st.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE name = ?`, rewards.SnapshotName)
	require.NoError(t, row.Scan(&n))
	assert.Equal(t, 2, n)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Rewards.Points())
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	ctx := context.Background()
	snaps := openStore(t).SnapshotRepo()
	require.NoError(t, snaps.Save(ctx, &store.Snapshot{
		Name:      progress.SnapshotName,
		Version:   progress.SnapshotVersion + 1,
		Timestamp: day0,
		Data:      []byte(`{}`),
	}))

	_, err := NewRepo(snaps).Load(ctx)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion), "got %v", err)
}

func TestLoadCorruptData(t *testing.T) {
	ctx := context.Background()
	snaps := openStore(t).SnapshotRepo()
	require.NoError(t, snaps.Save(ctx, &store.Snapshot{
		Name:      rewards.SnapshotName,
		Version:   rewards.SnapshotVersion,
		Timestamp: day0,
		Data:      []byte(`{"points":"lots"}`),
	}))

	_, err := NewRepo(snaps).Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode reading-rewards")
}
