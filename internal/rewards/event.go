package rewards

import (
	"context"
	"fmt"
	"time"

	"github.com/readingrally/readingrally/internal/store"
)

// EventKind classifies a ledger change.
type EventKind string

const (
	EventPoints    EventKind = "points"
	EventBadge     EventKind = "badge"
	EventMilestone EventKind = "milestone"
)

// Event is an audit entry for a ledger change. The reason is informational
// and never affects behavior.
type Event struct {
	Kind        EventKind
	Points      int
	BadgeID     string
	MilestoneID string
	Reason      string
	Total       int
	At          time.Time
}

func (l *Ledger) record(e Event) {
	e.Total = l.points
	e.At = l.clock()
	l.journal = append(l.journal, e)
}

// DrainEvents returns the events recorded since the last drain and clears
// the journal.
func (l *Ledger) DrainEvents() []Event {
	out := l.journal
	l.journal = nil
	return out
}

// PersistEvents appends events to the reward audit log. It stops at the
// first failure.
func PersistEvents(ctx context.Context, repo store.EventRepo, sessionID string, events []Event) error {
	if repo == nil {
		return nil
	}
	for _, e := range events {
		data := store.RewardEventData{
			Kind:        string(e.Kind),
			Points:      e.Points,
			Total:       e.Total,
			BadgeID:     e.BadgeID,
			MilestoneID: e.MilestoneID,
			SessionID:   sessionID,
			Reason:      e.Reason,
		}
		if err := repo.AppendRewardEvent(ctx, data); err != nil {
			return fmt.Errorf("append reward event: %w", err)
		}
	}
	return nil
}
