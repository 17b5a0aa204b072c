// Package reading runs a read-aloud session from instructions to scored
// outcome, and applies finished sessions to the reader's profile.
package reading

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/readingrally/readingrally/internal/audio"
	"github.com/readingrally/readingrally/internal/passages"
	"github.com/readingrally/readingrally/internal/scoring"
)

// Phase is the step a session is in.
type Phase int

const (
	PhaseInstructions Phase = iota
	PhaseReady
	PhaseReading
	PhaseAnalyzing
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseInstructions:
		return "instructions"
	case PhaseReady:
		return "ready"
	case PhaseReading:
		return "reading"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrWrongPhase is returned when an operation is not valid in the current
// phase.
var ErrWrongPhase = errors.New("operation not valid in this phase")

// minMeasured is the shortest reading time trusted from the clock.
const minMeasured = time.Second

// Analyzer scores a recording.
type Analyzer interface {
	Analyze(ctx context.Context, req scoring.Request) (*scoring.Analysis, error)
}

// Outcome is a scored session ready to be applied to a profile.
type Outcome struct {
	Passage     passages.Passage
	Analysis    *scoring.Analysis
	Clip        *audio.Clip
	StartedAt   time.Time
	Elapsed     time.Duration
	ExpectedWPM int
}

// Session is one attempt at reading a passage. It is safe for concurrent
// use so a UI can render while Complete runs in the background.
type Session struct {
	mu        sync.Mutex
	passage   passages.Passage
	timing    GradeTiming
	recorder  audio.Recorder
	analyzer  Analyzer
	clock     func() time.Time
	phase     Phase
	startedAt time.Time
	elapsed   time.Duration
	outcome   *Outcome
	lastErr   error
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionClock sets the time source.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.clock = now }
}

// NewSession creates a session in the instructions phase.
func NewSession(p passages.Passage, grade int, rec audio.Recorder, an Analyzer, opts ...SessionOption) *Session {
	s := &Session{
		passage:  p,
		timing:   TimingFor(grade),
		recorder: rec,
		analyzer: an,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Passage() passages.Passage { return s.passage }

func (s *Session) Timing() GradeTiming { return s.timing }

// LastError is the failure that last returned the session to Ready.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Outcome is set once the session is complete.
func (s *Session) Outcome() *Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Begin leaves the instructions.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInstructions {
		return ErrWrongPhase
	}
	s.phase = PhaseReady
	return nil
}

// Start opens the recorder and starts the clock. On failure the session
// stays Ready and the recorder error is returned.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseReady {
		return ErrWrongPhase
	}
	if err := s.recorder.Start(ctx); err != nil {
		s.lastErr = err
		return err
	}
	s.phase = PhaseReading
	s.startedAt = s.clock()
	s.lastErr = nil
	return nil
}

// Elapsed is the reading time so far, capped at the grade limit.
func (s *Session) Elapsed(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked(now)
}

func (s *Session) elapsedLocked(now time.Time) time.Duration {
	switch s.phase {
	case PhaseReading:
		d := now.Sub(s.startedAt)
		if d < 0 {
			d = 0
		}
		if d > s.timing.MaxTime {
			d = s.timing.MaxTime
		}
		return d
	case PhaseAnalyzing, PhaseComplete:
		return s.elapsed
	default:
		return 0
	}
}

// Remaining is the time left before the session auto-completes.
func (s *Session) Remaining(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseReading {
		return 0
	}
	return s.timing.MaxTime - s.elapsedLocked(now)
}

// Tick reports whether the time limit has been reached. It is false
// outside the reading phase.
func (s *Session) Tick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseReading {
		return false
	}
	return now.Sub(s.startedAt) >= s.timing.MaxTime
}

// Complete stops the recording and scores it. A scoring failure returns the
// session to Ready with an error satisfying scoring.ErrAnalysisFailed.
func (s *Session) Complete(ctx context.Context) (*Outcome, error) {
	s.mu.Lock()
	if s.phase != PhaseReading {
		s.mu.Unlock()
		return nil, ErrWrongPhase
	}
	now := s.clock()
	s.elapsed = s.elapsedLocked(now)
	s.phase = PhaseAnalyzing
	started, elapsed := s.startedAt, s.elapsed
	s.mu.Unlock()

	clip, err := s.recorder.Stop(ctx)
	if err != nil {
		return nil, s.fail(fmt.Errorf("%w: stop recording: %w", scoring.ErrAnalysisFailed, err))
	}

	// A prerecorded clip outlasts the wall-clock time between Start and Stop.
	if clip != nil && clip.Duration > elapsed {
		elapsed = min(clip.Duration, s.timing.MaxTime)
	}
	measured := elapsed
	if measured < minMeasured {
		// Let scoring fall back to the transcript's own duration.
		measured = 0
	}

	analysis, err := s.analyzer.Analyze(ctx, scoring.Request{
		Clip:           clip,
		ReferenceText:  s.passage.Content,
		ElapsedSeconds: measured.Seconds(),
	})
	if err != nil {
		if !errors.Is(err, scoring.ErrAnalysisFailed) {
			err = fmt.Errorf("%w: %w", scoring.ErrAnalysisFailed, err)
		}
		return nil, s.fail(err)
	}

	if measured == 0 && analysis.Duration > 0 {
		elapsed = min(analysis.Duration, s.timing.MaxTime)
	}

	out := &Outcome{
		Passage:     s.passage,
		Analysis:    analysis,
		Clip:        clip,
		StartedAt:   started,
		Elapsed:     elapsed,
		ExpectedWPM: s.timing.ExpectedWPM,
	}
	s.mu.Lock()
	s.phase = PhaseComplete
	s.elapsed = elapsed
	s.outcome = out
	s.lastErr = nil
	s.mu.Unlock()
	return out, nil
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseReady
	s.elapsed = 0
	s.lastErr = err
	return err
}

// Abort discards the recording and returns to Ready without credit.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseReading {
		return
	}
	s.recorder.Cancel()
	s.phase = PhaseReady
	s.elapsed = 0
}

// Retry returns a completed session to Ready for another attempt.
func (s *Session) Retry() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseComplete {
		return ErrWrongPhase
	}
	s.phase = PhaseReady
	s.outcome = nil
	s.elapsed = 0
	return nil
}
