// Package latch models a threshold goal that can be reached exactly once.
//
// A State is either Locked, carrying the progress observed so far, or
// Achieved, carrying the progress and the instant it was reached. There is
// no way back from Achieved to Locked.
package latch

import (
	"math"
	"time"
)

// State is a one-way threshold latch. The zero value is Locked with no
// progress.
type State struct {
	progress   float64
	achievedAt *time.Time
}

// Progress returns the current progress, never above the threshold it was
// observed against.
func (s State) Progress() float64 {
	return s.progress
}

// Achieved reports whether the latch has flipped.
func (s State) Achieved() bool {
	return s.achievedAt != nil
}

// AchievedAt returns the instant the latch flipped.
func (s State) AchievedAt() (time.Time, bool) {
	if s.achievedAt == nil {
		return time.Time{}, false
	}
	return *s.achievedAt, true
}

// Observe records a new statistic value. While locked, progress follows the
// value clamped to [0, threshold]. When progress reaches the threshold the
// latch flips and Observe returns true; that happens at most once.
// Observing an achieved latch is a no-op.
func (s *State) Observe(value, threshold float64, now time.Time) bool {
	if s.achievedAt != nil {
		return false
	}

	s.progress = clamp(value, threshold)
	if s.progress < threshold {
		return false
	}

	at := now
	s.achievedAt = &at
	return true
}

// Snapshot is the serialized form of a State.
type Snapshot struct {
	Progress   float64    `json:"progress"`
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
}

// Snapshot returns the serializable form of s.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{Progress: s.progress}
	if s.achievedAt != nil {
		at := *s.achievedAt
		snap.AchievedAt = &at
	}
	return snap
}

// FromSnapshot rebuilds a State, re-establishing the invariants against
// threshold: progress is clamped, and an achieved latch sits at threshold.
func FromSnapshot(snap Snapshot, threshold float64) State {
	s := State{progress: clamp(snap.Progress, threshold)}
	if snap.AchievedAt != nil {
		at := *snap.AchievedAt
		s.achievedAt = &at
		s.progress = math.Max(threshold, 0)
	}
	return s
}

func clamp(v, threshold float64) float64 {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v > threshold {
		v = threshold
	}
	if v < 0 {
		return 0
	}
	return v
}
