package progress

import (
	"fmt"
	"math"
)

// LevelWindow is the number of most recent sessions averaged when
// evaluating level readiness.
const LevelWindow = 5

// MaxLevel is the highest reachable level.
const MaxLevel = 5

// LevelRequirement is what a reader needs to reach a level.
type LevelRequirement struct {
	MinWPM        float64
	MinAccuracy   float64
	BooksRequired int
}

var levelRequirements = map[int]LevelRequirement{
	1: {MinWPM: 0, MinAccuracy: 0, BooksRequired: 0},
	2: {MinWPM: 60, MinAccuracy: 85, BooksRequired: 2},
	3: {MinWPM: 80, MinAccuracy: 90, BooksRequired: 5},
	4: {MinWPM: 100, MinAccuracy: 92, BooksRequired: 8},
	5: {MinWPM: 120, MinAccuracy: 95, BooksRequired: 12},
}

// RequirementFor returns the requirement for reaching level.
func RequirementFor(level int) (LevelRequirement, bool) {
	r, ok := levelRequirements[level]
	return r, ok
}

// LevelTitle returns the rank label shown for a level.
func LevelTitle(level int) string {
	return fmt.Sprintf("Level %d Reader", level)
}

// met reports whether every raw threshold is satisfied.
func (r LevelRequirement) met(avgWPM, avgAccuracy float64, books int) bool {
	return avgWPM >= r.MinWPM && avgAccuracy >= r.MinAccuracy && books >= r.BooksRequired
}

// readiness blends the three dimensions into a 0-100 score.
func (r LevelRequirement) readiness(avgWPM, avgAccuracy float64, books int) int {
	sum := subScore(avgWPM, r.MinWPM) +
		subScore(avgAccuracy, r.MinAccuracy) +
		subScore(float64(books), float64(r.BooksRequired))
	return int(math.Floor(sum / 3))
}

func subScore(actual, required float64) float64 {
	if required <= 0 {
		return 100
	}
	score := actual / required * 100
	switch {
	case math.IsNaN(score) || score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// windowAverages returns mean WPM and accuracy over the last LevelWindow
// sessions. ok is false when there are no sessions.
func windowAverages(sessions []SessionRecord) (wpm, accuracy float64, ok bool) {
	if len(sessions) == 0 {
		return 0, 0, false
	}
	window := sessions
	if len(window) > LevelWindow {
		window = window[len(window)-LevelWindow:]
	}
	for _, s := range window {
		wpm += s.WordsPerMinute
		accuracy += s.Accuracy
	}
	n := float64(len(window))
	return wpm / n, accuracy / n, true
}
