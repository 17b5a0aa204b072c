package latch

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestObserve_LockedTracksProgress(t *testing.T) {
	var s State
	if s.Observe(40, 100, t0) {
		t.Fatal("should not flip below threshold")
	}
	if s.Progress() != 40 {
		t.Errorf("progress = %v, want 40", s.Progress())
	}
	// While locked, progress follows the statistic down as well.
	s.Observe(10, 100, t0)
	if s.Progress() != 10 {
		t.Errorf("progress = %v, want 10", s.Progress())
	}
	if s.Achieved() {
		t.Error("should still be locked")
	}
}

func TestObserve_FlipsOnceAndClamps(t *testing.T) {
	var s State
	if !s.Observe(150, 120, t0) {
		t.Fatal("expected transition")
	}
	if s.Progress() != 120 {
		t.Errorf("progress = %v, want clamped 120", s.Progress())
	}
	at, ok := s.AchievedAt()
	if !ok || !at.Equal(t0) {
		t.Errorf("achievedAt = %v, %v", at, ok)
	}

	later := t0.Add(time.Hour)
	if s.Observe(500, 120, later) {
		t.Error("second observation must not report a transition")
	}
	if s.Observe(0, 120, later) {
		t.Error("lower value must not report a transition")
	}
	at, _ = s.AchievedAt()
	if !at.Equal(t0) {
		t.Errorf("achievedAt changed to %v", at)
	}
	if !s.Achieved() || s.Progress() != 120 {
		t.Errorf("latch reverted: achieved=%v progress=%v", s.Achieved(), s.Progress())
	}
}

func TestObserve_NegativeAndNaN(t *testing.T) {
	var s State
	s.Observe(-5, 10, t0)
	if s.Progress() != 0 {
		t.Errorf("progress = %v, want 0", s.Progress())
	}
	s.Observe(nan(), 10, t0)
	if s.Progress() != 0 {
		t.Errorf("progress = %v, want 0", s.Progress())
	}
}

func TestFromSnapshot_RestoresInvariants(t *testing.T) {
	tests := []struct {
		name     string
		snap     Snapshot
		wantProg float64
		wantDone bool
	}{
		{"locked", Snapshot{Progress: 3}, 3, false},
		{"locked over threshold", Snapshot{Progress: 99}, 7, false},
		{"achieved below threshold", Snapshot{Progress: 2, AchievedAt: &t0}, 7, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromSnapshot(tt.snap, 7)
			if s.Progress() != tt.wantProg {
				t.Errorf("progress = %v, want %v", s.Progress(), tt.wantProg)
			}
			if s.Achieved() != tt.wantDone {
				t.Errorf("achieved = %v, want %v", s.Achieved(), tt.wantDone)
			}
		})
	}
}

func TestSnapshot_CopiesTimestamp(t *testing.T) {
	var s State
	s.Observe(5, 5, t0)
	snap := s.Snapshot()
	*snap.AchievedAt = t0.Add(time.Hour)
	at, _ := s.AchievedAt()
	if !at.Equal(t0) {
		t.Error("snapshot aliases internal timestamp")
	}
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}
