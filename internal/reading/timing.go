package reading

import (
	"sort"
	"time"
)

// GradeTiming is the time limit and target pace for a grade.
type GradeTiming struct {
	Grade       int
	MaxTime     time.Duration
	ExpectedWPM int
}

var gradeTimings = []GradeTiming{
	{Grade: 1, MaxTime: 90 * time.Second, ExpectedWPM: 60},
	{Grade: 3, MaxTime: 60 * time.Second, ExpectedWPM: 100},
	{Grade: 5, MaxTime: 45 * time.Second, ExpectedWPM: 140},
	{Grade: 8, MaxTime: 30 * time.Second, ExpectedWPM: 200},
}

// TimingFor returns the timing of the highest configured grade at or below
// grade. Grades below the first entry use the first entry.
func TimingFor(grade int) GradeTiming {
	i := sort.Search(len(gradeTimings), func(i int) bool { return gradeTimings[i].Grade > grade })
	if i == 0 {
		return gradeTimings[0]
	}
	return gradeTimings[i-1]
}

// Grades lists the configured grades in ascending order.
func Grades() []int {
	out := make([]int, len(gradeTimings))
	for i, g := range gradeTimings {
		out[i] = g.Grade
	}
	return out
}
