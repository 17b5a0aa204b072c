// Package rewards keeps the reader's points, badges, milestones and its own
// day streak.
package rewards

import (
	"fmt"
	"time"

	"github.com/readingrally/readingrally/internal/streak"
)

// Ledger is the rewards aggregate. It is not safe for concurrent use;
// callers serialize mutations.
type Ledger struct {
	points     int
	badges     []Badge
	milestones []milestoneState
	streak     streak.Tracker
	journal    []Event
	clock      func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source used to stamp badges and events.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.clock = now }
}

// NewLedger returns an empty ledger with every milestone locked.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{clock: time.Now}
	for _, def := range milestoneCatalog() {
		l.milestones = append(l.milestones, milestoneState{def: def})
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddPoints adds amount to the total and re-evaluates points milestones.
// Negative amounts are treated as zero; the total never decreases.
// It returns the points actually added, including any milestone payouts
// the addition triggered.
func (l *Ledger) AddPoints(amount int, reason string) int {
	if amount <= 0 {
		return 0
	}
	before := l.points
	l.points += amount
	l.record(Event{Kind: EventPoints, Points: amount, Reason: reason})
	l.UpdateMilestoneProgress(MilestonePoints, float64(l.points))
	return l.points - before
}

// AwardBadge adds a badge to the collection. It returns false, and changes
// nothing, if a badge with the same id is already held.
func (l *Ledger) AwardBadge(def BadgeDefinition) bool {
	if l.HasBadge(def.ID) {
		return false
	}
	l.badges = append(l.badges, Badge{BadgeDefinition: def, DateEarned: l.clock()})
	l.record(Event{Kind: EventBadge, BadgeID: def.ID, Reason: fmt.Sprintf("Earned %s", def.Name)})
	return true
}

// HasBadge reports whether a badge id is held.
func (l *Ledger) HasBadge(id string) bool {
	for _, b := range l.badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

// UpdateMilestoneProgress feeds a statistic value to every milestone of the
// given type. Milestones completing on this call pay out their reward once
// and are returned.
func (l *Ledger) UpdateMilestoneProgress(typ MilestoneType, value float64) []Milestone {
	now := l.clock()
	var completed []Milestone
	for i := range l.milestones {
		m := &l.milestones[i]
		if m.def.Type != typ {
			continue
		}
		if !m.latch.Observe(value, m.def.Requirement, now) {
			continue
		}
		// The latch is closed before paying out, so nested evaluation
		// triggered by the payout cannot pay this milestone again.
		l.record(Event{Kind: EventMilestone, MilestoneID: m.def.ID, Reason: fmt.Sprintf("Completed %s", m.def.Name)})
		completed = append(completed, m.view())
		l.payout(m.def)
	}
	return completed
}

func (l *Ledger) payout(def MilestoneDefinition) {
	if def.Reward.Badge.ID != "" {
		l.AwardBadge(def.Reward.Badge)
	}
	if def.Reward.Points > 0 {
		l.AddPoints(def.Reward.Points, fmt.Sprintf("Milestone: %s", def.Name))
	}
}

// UpdateStreak records reading activity on the ledger's own streak and
// re-evaluates streak milestones.
func (l *Ledger) UpdateStreak(at time.Time) []Milestone {
	l.streak.Record(at)
	return l.UpdateMilestoneProgress(MilestoneStreak, float64(l.streak.Count()))
}

// Points returns the points total.
func (l *Ledger) Points() int {
	return l.points
}

// Badges returns the held badges in award order.
func (l *Ledger) Badges() []Badge {
	out := make([]Badge, len(l.badges))
	copy(out, l.badges)
	return out
}

// Milestones returns a view of every milestone in catalog order.
func (l *Ledger) Milestones() []Milestone {
	out := make([]Milestone, len(l.milestones))
	for i, m := range l.milestones {
		out[i] = m.view()
	}
	return out
}

// Streak returns the stored streak length.
func (l *Ledger) Streak() int {
	return l.streak.Count()
}

// ActiveStreak returns the streak as seen now; zero once a day is missed.
func (l *Ledger) ActiveStreak() int {
	return l.streak.Active(l.clock())
}

// LastReadDate returns the date of the last streak-counted activity.
func (l *Ledger) LastReadDate() time.Time {
	return l.streak.LastReadDate()
}
