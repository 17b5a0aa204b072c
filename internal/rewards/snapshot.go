package rewards

import (
	"time"

	"github.com/readingrally/readingrally/internal/latch"
	"github.com/readingrally/readingrally/internal/streak"
)

const (
	// SnapshotName is the fixed key the rewards aggregate is saved under.
	SnapshotName = "reading-rewards"
	// SnapshotVersion is the current layout of Snapshot.
	SnapshotVersion = 1
)

// Snapshot is the persisted form of a Ledger.
type Snapshot struct {
	Points       int                 `json:"points"`
	Badges       []Badge             `json:"badges"`
	Milestones   []MilestoneSnapshot `json:"milestones"`
	Streak       int                 `json:"streak"`
	LastReadDate *time.Time          `json:"last_read_date,omitempty"`
}

// MilestoneSnapshot is the persisted latch of one milestone.
type MilestoneSnapshot struct {
	ID string `json:"id"`
	latch.Snapshot
}

// Snapshot captures the ledger state. Pending audit events are not part
// of it.
func (l *Ledger) Snapshot() Snapshot {
	snap := Snapshot{
		Points: l.points,
		Badges: l.Badges(),
		Streak: l.streak.Count(),
	}
	if last := l.streak.LastReadDate(); !last.IsZero() {
		snap.LastReadDate = &last
	}
	for _, m := range l.milestones {
		snap.Milestones = append(snap.Milestones, MilestoneSnapshot{
			ID:       m.def.ID,
			Snapshot: m.latch.Snapshot(),
		})
	}
	return snap
}

// Restore rebuilds a ledger from a snapshot. Duplicate badge ids keep their
// first occurrence, a negative total becomes zero, and milestones missing
// from the snapshot start locked.
func Restore(snap Snapshot, opts ...Option) *Ledger {
	l := NewLedger(opts...)

	if snap.Points > 0 {
		l.points = snap.Points
	}
	for _, b := range snap.Badges {
		if b.ID == "" || l.HasBadge(b.ID) {
			continue
		}
		l.badges = append(l.badges, b)
	}
	if snap.LastReadDate != nil {
		l.streak = streak.Restore(snap.Streak, *snap.LastReadDate)
	}

	saved := make(map[string]latch.Snapshot, len(snap.Milestones))
	for _, m := range snap.Milestones {
		saved[m.ID] = m.Snapshot
	}
	for i := range l.milestones {
		m := &l.milestones[i]
		if s, ok := saved[m.def.ID]; ok {
			m.latch = latch.FromSnapshot(s, m.def.Requirement)
		}
	}
	return l
}
