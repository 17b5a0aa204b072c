package session

import (
	"time"

	sess "github.com/readingrally/readingrally/internal/reading"
)

// recordingStartedMsg reports whether the recorder opened.
type recordingStartedMsg struct {
	Err error
}

// timerTickMsg is sent every second while reading. Run ties the tick to
// one recording so ticks from an aborted attempt are dropped.
type timerTickMsg struct {
	Run int
	At  time.Time
}

// sessionDoneMsg carries the scored session and what applying it changed.
// Result can be set together with Err when only saving failed.
type sessionDoneMsg struct {
	Outcome *sess.Outcome
	Result  *sess.Result
	Err     error
}
