package progress

import (
	"time"

	"github.com/readingrally/readingrally/internal/latch"
	"github.com/readingrally/readingrally/internal/streak"
)

const (
	// SnapshotName is the fixed key the progress aggregate is saved under.
	SnapshotName = "reading-progress"
	// SnapshotVersion is the current layout of Snapshot.
	SnapshotVersion = 1
)

// Snapshot is the persisted form of a Tracker.
type Snapshot struct {
	Sessions       []SessionRecord       `json:"sessions"`
	Streak         int                   `json:"streak"`
	LastReadDate   *time.Time            `json:"last_read_date,omitempty"`
	BooksCompleted []string              `json:"books_completed"`
	Level          int                   `json:"level"`
	Achievements   []AchievementSnapshot `json:"achievements"`
}

// AchievementSnapshot is the persisted latch of one achievement.
type AchievementSnapshot struct {
	ID string `json:"id"`
	latch.Snapshot
}

// Snapshot captures the tracker state.
func (t *Tracker) Snapshot() Snapshot {
	snap := Snapshot{
		Sessions:       t.History(),
		Streak:         t.streak.Count(),
		BooksCompleted: t.CompletedBookIDs(),
		Level:          t.level,
	}
	if last := t.streak.LastReadDate(); !last.IsZero() {
		snap.LastReadDate = &last
	}
	for _, a := range t.achievements {
		snap.Achievements = append(snap.Achievements, AchievementSnapshot{
			ID:       a.def.ID,
			Snapshot: a.latch.Snapshot(),
		})
	}
	return snap
}

// Restore rebuilds a tracker from a snapshot. The completed-book set is
// derived from the session log, the level is clamped to the valid range,
// and achievements missing from the snapshot start locked.
func Restore(snap Snapshot, opts ...Option) *Tracker {
	t := NewTracker(opts...)

	t.sessions = append(t.sessions, snap.Sessions...)
	for _, s := range t.sessions {
		if s.Completed && s.BookID != "" {
			if _, ok := t.books[s.BookID]; !ok {
				t.books[s.BookID] = struct{}{}
				t.bookOrder = append(t.bookOrder, s.BookID)
			}
		}
	}

	if snap.LastReadDate != nil {
		t.streak = streak.Restore(snap.Streak, *snap.LastReadDate)
	}

	t.level = snap.Level
	if t.level < 1 {
		t.level = 1
	}
	if t.level > MaxLevel {
		t.level = MaxLevel
	}

	saved := make(map[string]latch.Snapshot, len(snap.Achievements))
	for _, a := range snap.Achievements {
		saved[a.ID] = a.Snapshot
	}
	for i := range t.achievements {
		a := &t.achievements[i]
		if s, ok := saved[a.def.ID]; ok {
			a.latch = latch.FromSnapshot(s, a.def.Threshold)
		}
	}
	return t
}
