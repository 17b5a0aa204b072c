package session

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/readingrally/readingrally/internal/audio"
	sess "github.com/readingrally/readingrally/internal/reading"
	"github.com/readingrally/readingrally/internal/router"
	"github.com/readingrally/readingrally/internal/screen"
	"github.com/readingrally/readingrally/internal/screens/summary"
	"github.com/readingrally/readingrally/internal/scoring"
	"github.com/readingrally/readingrally/internal/ui/layout"
	"github.com/readingrally/readingrally/internal/ui/theme"
)

// Finisher applies a scored session to the reader's profile.
type Finisher interface {
	Finish(ctx context.Context, o *sess.Outcome) (*sess.Result, error)
}

// SessionScreen drives one timed reading of a passage.
type SessionScreen struct {
	session   *sess.Session
	finisher  Finisher
	log       *zap.Logger
	spinner   spinner.Model
	now       time.Time
	run       int
	starting  bool
	finishing bool
	errMsg    string
	note      string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.Busy = (*SessionScreen)(nil)
var _ screen.Closer = (*SessionScreen)(nil)

// New creates a SessionScreen for an already configured reading session.
func New(session *sess.Session, finisher Finisher, log *zap.Logger) *SessionScreen {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionScreen{
		session:  session,
		finisher: finisher,
		log:      log,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Timer),
		),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return nil
}

func (s *SessionScreen) Title() string {
	return "Reading: " + s.session.Passage().Title
}

// Busy is true while the microphone is open or a reading is being scored.
func (s *SessionScreen) Busy() bool {
	switch s.session.Phase() {
	case sess.PhaseReading, sess.PhaseAnalyzing:
		return true
	}
	return s.starting || s.finishing
}

// Close discards an in-progress recording.
func (s *SessionScreen) Close() {
	s.session.Abort()
	s.run++
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch s.session.Phase() {
	case sess.PhaseInstructions:
		return []layout.KeyHint{
			{Key: "Enter", Description: "I'm ready"},
			{Key: "Esc", Description: "Back"},
		}
	case sess.PhaseReady:
		return []layout.KeyHint{
			{Key: "Space", Description: "Start reading"},
			{Key: "Esc", Description: "Back"},
		}
	case sess.PhaseReading:
		return []layout.KeyHint{
			{Key: "Space", Description: "I'm done"},
			{Key: "Esc", Description: "Stop"},
		}
	case sess.PhaseComplete:
		return []layout.KeyHint{
			{Key: "R", Description: "Read again"},
			{Key: "Enter", Description: "Home"},
		}
	}
	return nil
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recordingStartedMsg:
		return s.handleStarted(msg)

	case timerTickMsg:
		return s.handleTimerTick(msg)

	case sessionDoneMsg:
		return s.handleDone(msg)

	case spinner.TickMsg:
		if !s.finishing {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.session.Phase() {
	case sess.PhaseInstructions:
		switch key {
		case "enter", "space":
			_ = s.session.Begin()
		}

	case sess.PhaseReady:
		if s.starting {
			return s, nil
		}
		switch key {
		case "space", "enter":
			s.errMsg, s.note = "", ""
			s.starting = true
			return s, s.startRecording()
		}

	case sess.PhaseReading:
		if s.finishing {
			return s, nil
		}
		switch key {
		case "space", "enter":
			return s, s.finish()
		case "esc":
			s.session.Abort()
			s.run++
			s.note = "Reading stopped. Press Space to start again."
			s.log.Info("reading aborted", zap.String("passage", s.session.Passage().ID))
		}

	case sess.PhaseComplete:
		switch key {
		case "r", "R":
			if err := s.session.Retry(); err == nil {
				s.errMsg, s.note = "", ""
			}
		case "enter", "esc":
			return s, func() tea.Msg { return router.HomeMsg{} }
		}
	}
	return s, nil
}

func (s *SessionScreen) startRecording() tea.Cmd {
	return func() tea.Msg {
		return recordingStartedMsg{Err: s.session.Start(context.Background())}
	}
}

func (s *SessionScreen) handleStarted(msg recordingStartedMsg) (screen.Screen, tea.Cmd) {
	s.starting = false
	if msg.Err != nil {
		s.errMsg = describe(msg.Err)
		s.log.Warn("failed to start recording", zap.Error(msg.Err))
		return s, nil
	}
	s.now = time.Now()
	s.run++
	s.note = "Reading session started! Read the text aloud."
	return s, tickCmd(s.run)
}

func (s *SessionScreen) handleTimerTick(msg timerTickMsg) (screen.Screen, tea.Cmd) {
	if msg.Run != s.run || s.finishing || s.session.Phase() != sess.PhaseReading {
		return s, nil
	}
	s.now = msg.At
	if s.session.Tick(msg.At) {
		return s, s.finish()
	}
	return s, tickCmd(s.run)
}

// finish stops the recording, scores it and applies it to the profile.
func (s *SessionScreen) finish() tea.Cmd {
	s.finishing = true
	s.note = ""
	score := func() tea.Msg {
		ctx := context.Background()
		out, err := s.session.Complete(ctx)
		if err != nil {
			return sessionDoneMsg{Err: err}
		}
		res, err := s.finisher.Finish(ctx, out)
		return sessionDoneMsg{Outcome: out, Result: res, Err: err}
	}
	return tea.Batch(s.spinner.Tick, score)
}

func (s *SessionScreen) handleDone(msg sessionDoneMsg) (screen.Screen, tea.Cmd) {
	s.finishing = false
	if msg.Result != nil {
		if msg.Err != nil {
			s.log.Error("failed to save profile", zap.Error(msg.Err))
		}
		next := summary.New(msg.Outcome, msg.Result, msg.Err)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	if msg.Err != nil {
		s.errMsg = describe(msg.Err)
		s.log.Warn("reading analysis failed", zap.Error(msg.Err))
	}
	return s, nil
}

// describe turns a session error into a message for the reader.
func describe(err error) string {
	switch {
	case errors.Is(err, audio.ErrPermissionDenied):
		return "Microphone access was denied. Allow access and try again."
	case errors.Is(err, audio.ErrDeviceUnavailable):
		return "No microphone found. Check that ffmpeg can reach your audio device."
	case errors.Is(err, scoring.ErrTranscriptionFailed):
		return "We couldn't hear that reading. Find a quiet spot and try again."
	case errors.Is(err, scoring.ErrAnalysisFailed):
		return "Failed to analyze reading. Please try again."
	case errors.Is(err, audio.ErrAlreadyRecording), errors.Is(err, sess.ErrWrongPhase):
		return "Failed to start reading session. Please try again."
	}
	return err.Error()
}

func tickCmd(run int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg{Run: run, At: t}
	})
}
