package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrAnalysisFailed is satisfied by every scoring failure. The session
	// flow reports it as a single "try again" condition.
	ErrAnalysisFailed = errors.New("reading analysis failed")
	// ErrTranscriptionFailed marks a speech-to-text failure, including an
	// empty transcript.
	ErrTranscriptionFailed = errors.New("transcription failed")
	// ErrMalformedResponse marks grader output that does not decode into
	// an analysis.
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// Stage names the step of the pipeline that failed.
type Stage string

const (
	StageTranscription Stage = "transcription"
	StageGrading       Stage = "grading"
	StageDecode        Stage = "decode"
)

// Error is a scoring failure at one stage.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrAnalysisFailed, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrAnalysisFailed for every stage, plus the stage sentinel.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAnalysisFailed:
		return true
	case ErrTranscriptionFailed:
		return e.Stage == StageTranscription
	case ErrMalformedResponse:
		return e.Stage == StageDecode
	}
	return false
}

func stageError(stage Stage, err error) error {
	return &Error{Stage: stage, Err: err}
}
