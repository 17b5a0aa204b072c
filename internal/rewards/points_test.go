package rewards

import (
	"math"
	"testing"
)

func TestSessionPoints(t *testing.T) {
	tests := []struct {
		wpm, accuracy float64
		want          int
	}{
		{85, 92, 150},  // +20 accuracy, +30 speed
		{60, 80, 100},  // baselines
		{0, 0, 0},      // clamped
		{69.9, 84.9, 100},
		{70, 85, 125},
		{150, 100, 275},
		{50, 80, 85},   // one step below speed baseline
		{60, 75, 90},   // one step below accuracy baseline
		{math.NaN(), 90, 0},
	}

	for _, tt := range tests {
		got := SessionPoints(tt.wpm, tt.accuracy)
		if got != tt.want {
			t.Errorf("SessionPoints(%v, %v) = %d, want %d", tt.wpm, tt.accuracy, got, tt.want)
		}
	}
}

func TestRarityRank(t *testing.T) {
	prev := -1
	for _, r := range AllRarities() {
		if r.Rank() <= prev {
			t.Errorf("%s rank %d not above %d", r, r.Rank(), prev)
		}
		prev = r.Rank()
		if r.DisplayName() == string(r) {
			t.Errorf("%s has no display name", r)
		}
	}
	if Rarity("mythic").Rank() != -1 {
		t.Error("unknown rarity should rank -1")
	}
}

func TestLookupBadge(t *testing.T) {
	for _, def := range BadgeCatalog() {
		got, ok := LookupBadge(def.ID)
		if !ok || got != def {
			t.Errorf("LookupBadge(%q) = %+v, %v", def.ID, got, ok)
		}
	}
	if _, ok := LookupBadge("nope"); ok {
		t.Error("unknown badge found")
	}
}
