package progress

import "time"

// SessionRecord is one completed reading session. Records are immutable
// once added to a Tracker.
type SessionRecord struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	WordsPerMinute  float64   `json:"words_per_minute"`
	Accuracy        float64   `json:"accuracy"`
	Fluency         float64   `json:"fluency"`
	DurationSeconds int       `json:"duration_seconds"`
	BookID          string    `json:"book_id"`
	Completed       bool      `json:"completed"`
}
