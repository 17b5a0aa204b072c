// Package progress aggregates reading sessions into a level, a day streak,
// completed books and achievements.
package progress

import (
	"math"
	"time"

	"github.com/readingrally/readingrally/internal/streak"
)

// Tracker is the progress aggregate. It is not safe for concurrent use;
// callers serialize mutations.
type Tracker struct {
	sessions     []SessionRecord
	streak       streak.Tracker
	books        map[string]struct{}
	bookOrder    []string
	level        int
	achievements []achievementState
	clock        func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source used to stamp achievements.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.clock = now }
}

// NewTracker returns an empty tracker at level 1.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		books: make(map[string]struct{}),
		level: 1,
		clock: time.Now,
	}
	for _, def := range achievementCatalog {
		t.achievements = append(t.achievements, achievementState{def: def})
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update describes what a single AddSession changed.
type Update struct {
	Unlocked      []Achievement
	PreviousLevel int
	Level         int
	Streak        int
}

// LeveledUp reports whether the session advanced the level.
func (u Update) LeveledUp() bool {
	return u.Level > u.PreviousLevel
}

// AddSession appends a record and re-derives the streak, the completed
// books, the achievements and the level. It never fails.
func (t *Tracker) AddSession(rec SessionRecord) Update {
	prev := t.level

	t.sessions = append(t.sessions, rec)
	t.streak.Record(rec.Date)
	if rec.Completed && rec.BookID != "" {
		if _, ok := t.books[rec.BookID]; !ok {
			t.books[rec.BookID] = struct{}{}
			t.bookOrder = append(t.bookOrder, rec.BookID)
		}
	}

	unlocked := t.EvaluateAchievements()
	t.evaluateLevel()

	return Update{
		Unlocked:      unlocked,
		PreviousLevel: prev,
		Level:         t.level,
		Streak:        t.streak.Count(),
	}
}

// EvaluateAchievements re-checks every locked achievement against the
// cumulative statistics and returns the ones unlocked by this call.
// Calling it again without a new session changes nothing.
func (t *Tracker) EvaluateAchievements() []Achievement {
	st := t.stats()
	now := t.clock()

	var unlocked []Achievement
	for i := range t.achievements {
		a := &t.achievements[i]
		if a.latch.Observe(st.value(a.def.Category), a.def.Threshold, now) {
			unlocked = append(unlocked, a.view())
		}
	}
	return unlocked
}

func (t *Tracker) evaluateLevel() {
	if t.level >= MaxLevel {
		return
	}
	next, ok := RequirementFor(t.level + 1)
	if !ok {
		return
	}
	wpm, acc, ok := windowAverages(t.sessions)
	if !ok {
		return
	}
	if next.met(wpm, acc, len(t.books)) {
		t.level++
	}
}

func (t *Tracker) stats() stats {
	var st stats
	for _, s := range t.sessions {
		st.maxWPM = math.Max(st.maxWPM, s.WordsPerMinute)
		st.maxAccuracy = math.Max(st.maxAccuracy, s.Accuracy)
	}
	st.books = len(t.books)
	st.streak = t.streak.Count()
	return st
}

// History returns a copy of the session records in insertion order.
func (t *Tracker) History() []SessionRecord {
	out := make([]SessionRecord, len(t.sessions))
	copy(out, t.sessions)
	return out
}

// CurrentLevel returns the current level, starting at 1.
func (t *Tracker) CurrentLevel() int {
	return t.level
}

// NextLevelProgress returns readiness for the next level as 0-100. It is 0
// with no sessions and 100 once the top level is reached.
func (t *Tracker) NextLevelProgress() int {
	wpm, acc, ok := windowAverages(t.sessions)
	if !ok {
		return 0
	}
	next, ok := RequirementFor(t.level + 1)
	if !ok {
		return 100
	}
	return next.readiness(wpm, acc, len(t.books))
}

// Achievements returns a view of every achievement in catalog order.
func (t *Tracker) Achievements() []Achievement {
	out := make([]Achievement, len(t.achievements))
	for i, a := range t.achievements {
		out[i] = a.view()
	}
	return out
}

// BooksCompleted returns the number of distinct completed books.
func (t *Tracker) BooksCompleted() int {
	return len(t.books)
}

// CompletedBookIDs returns completed book ids in first-completion order.
func (t *Tracker) CompletedBookIDs() []string {
	out := make([]string, len(t.bookOrder))
	copy(out, t.bookOrder)
	return out
}

// TotalMinutesRead returns whole minutes across all sessions.
func (t *Tracker) TotalMinutesRead() int {
	total := 0
	for _, s := range t.sessions {
		if s.DurationSeconds > 0 {
			total += s.DurationSeconds
		}
	}
	return total / 60
}

// Streak returns the stored day streak.
func (t *Tracker) Streak() int {
	return t.streak.Count()
}

// ActiveStreak returns the streak as seen today; zero once a day is missed.
func (t *Tracker) ActiveStreak() int {
	return t.streak.Active(t.clock())
}

// LastReadDate returns the date of the last streak-counted session.
func (t *Tracker) LastReadDate() time.Time {
	return t.streak.LastReadDate()
}

// AverageWPM returns mean words per minute over the level window.
func (t *Tracker) AverageWPM() float64 {
	wpm, _, _ := windowAverages(t.sessions)
	return wpm
}

// AverageAccuracy returns mean accuracy over the level window.
func (t *Tracker) AverageAccuracy() float64 {
	_, acc, _ := windowAverages(t.sessions)
	return acc
}
