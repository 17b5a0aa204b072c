package theme

import "testing"

func TestRarityColor(t *testing.T) {
	tests := []struct {
		rarity string
		want   any
	}{
		{"common", RarityCommon},
		{"rare", RarityRare},
		{"epic", RarityEpic},
		{"legendary", RarityLegendary},
		{"mythic", Text},
	}
	for _, tt := range tests {
		if got := RarityColor(tt.rarity); got != tt.want {
			t.Errorf("RarityColor(%q) = %v, want %v", tt.rarity, got, tt.want)
		}
	}
}

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score float64
		want  any
	}{
		{100, Success},
		{90, Success},
		{89.9, Accent},
		{75, Accent},
		{10, Error},
	}
	for _, tt := range tests {
		if got := ScoreColor(tt.score); got != tt.want {
			t.Errorf("ScoreColor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
