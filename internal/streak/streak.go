// Package streak counts consecutive calendar days with reading activity.
package streak

import "time"

// Tracker holds a day streak. A streak grows by at most one per calendar
// day and falls back to 1 after a day without activity.
type Tracker struct {
	count int
	last  time.Time
}

// Restore rebuilds a tracker from persisted values.
func Restore(count int, last time.Time) Tracker {
	if count < 0 || last.IsZero() {
		return Tracker{}
	}
	return Tracker{count: count, last: last}
}

// Count returns the stored streak length.
func (t Tracker) Count() int {
	return t.count
}

// LastReadDate returns the time of the last counted activity, or the zero
// time when there is none.
func (t Tracker) LastReadDate() time.Time {
	return t.last
}

// Record registers activity at the given time and reports whether the
// streak changed. Activity on the same calendar day as the last one is
// ignored, as is activity dated before it.
func (t *Tracker) Record(at time.Time) bool {
	if t.last.IsZero() || t.count == 0 {
		t.count = 1
		t.last = at
		return true
	}

	gap := DaysBetween(t.last, at)
	switch {
	case gap <= 0:
		return false
	case gap == 1:
		t.count++
	default:
		t.count = 1
	}
	t.last = at
	return true
}

// Active returns the streak as seen at now: the stored count while the
// last activity was today or yesterday, zero once a day has been missed.
func (t Tracker) Active(now time.Time) int {
	if t.last.IsZero() {
		return 0
	}
	if DaysBetween(t.last, now) > 1 {
		return 0
	}
	return t.count
}

// DaysBetween returns the number of calendar days from a to b, each taken
// in its own location.
func DaysBetween(a, b time.Time) int {
	return dayNumber(b) - dayNumber(a)
}

func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
