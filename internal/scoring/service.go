// Package scoring turns a recorded reading into an Analysis: the clip is
// transcribed, the transcript is graded against the passage and the
// grade is normalized into bounded scores.
package scoring

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/readingrally/readingrally/internal/audio"
	"github.com/readingrally/readingrally/internal/llm"
)

// CompletionCoverage is the share of the passage a transcript must cover
// for the session to count as completed.
const CompletionCoverage = 0.9

// maxPromptWords bounds the transcription hint. Speech models only read
// the tail of a long prompt.
const maxPromptWords = 150

// Pronunciation holds the per-word notes of an analysis.
type Pronunciation struct {
	Strengths       []string `json:"strengths"`
	PotentialIssues []string `json:"potential_issues"`
	PracticeWords   []string `json:"practice_words"`
}

// Analysis is the result of scoring one reading.
type Analysis struct {
	Transcript     string        `json:"transcript"`
	WordsPerMinute float64       `json:"words_per_minute"`
	Accuracy       float64       `json:"accuracy"`
	Fluency        float64       `json:"fluency"`
	Feedback       string        `json:"feedback"`
	Pronunciation  Pronunciation `json:"pronunciation"`
	Coverage       float64       `json:"coverage"`
	Duration       time.Duration `json:"duration"`
}

// Completed reports whether the transcript covered enough of the passage.
func (a *Analysis) Completed() bool {
	return a.Coverage >= CompletionCoverage
}

// Request is one reading to analyze.
type Request struct {
	Clip           *audio.Clip
	ReferenceText  string
	ElapsedSeconds float64
}

// Service runs the transcription and grading pipeline.
type Service struct {
	transcriber llm.Transcriber
	grader      Grader
	language    string
	log         *zap.Logger
}

// NewService wires a transcriber and a grader. A nil logger is replaced by
// a no-op logger.
func NewService(t llm.Transcriber, g Grader, language string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{transcriber: t, grader: g, language: language, log: log}
}

// Analyze scores a reading. Every failure satisfies ErrAnalysisFailed and
// no partial analysis is returned.
func (s *Service) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	if req.Clip.Empty() {
		return nil, stageError(StageTranscription, errors.New("no audio recorded"))
	}

	elapsed := req.ElapsedSeconds
	if elapsed <= 0 && req.Clip.Duration > 0 {
		elapsed = req.Clip.Duration.Seconds()
	}

	tctx := llm.WithPurpose(ctx, llm.PurposeTranscription)
	tr, err := s.transcriber.Transcribe(tctx, llm.AudioInput{
		Data:     req.Clip.Data,
		FileName: req.Clip.FileName(),
		Language: s.language,
		Prompt:   promptHint(req.ReferenceText),
	})
	if err != nil {
		return nil, stageError(StageTranscription, err)
	}
	transcript := strings.TrimSpace(tr.Text)
	if transcript == "" {
		return nil, stageError(StageTranscription, errors.New("empty transcript"))
	}
	if elapsed <= 0 && tr.Duration > 0 {
		elapsed = tr.Duration.Seconds()
	}

	g, err := s.grader.Grade(ctx, GradeInput{
		Reference:      req.ReferenceText,
		Transcript:     transcript,
		ElapsedSeconds: elapsed,
	})
	if err != nil {
		var se *Error
		if !errors.As(err, &se) {
			err = stageError(StageGrading, err)
		}
		s.log.Warn("reading analysis failed", zap.Error(err))
		return nil, err
	}

	a := normalize(g, transcript, req.ReferenceText, elapsed)
	s.log.Debug("reading analyzed",
		zap.Float64("wpm", a.WordsPerMinute),
		zap.Float64("accuracy", a.Accuracy),
		zap.Float64("fluency", a.Fluency),
		zap.Float64("coverage", a.Coverage),
	)
	return a, nil
}

// normalize clamps scores into range and fills a missing pace from the
// transcript length.
func normalize(g *Grade, transcript, reference string, elapsed float64) *Analysis {
	wpm := g.WordsPerMinute
	if wpm <= 0 || math.IsNaN(wpm) || math.IsInf(wpm, 0) {
		wpm = EstimateWPM(transcript, elapsed)
	}
	return &Analysis{
		Transcript:     transcript,
		WordsPerMinute: math.Round(clamp(wpm, 0, 1000)),
		Accuracy:       math.Round(clamp(g.Accuracy, 0, 100)),
		Fluency:        math.Round(clamp(g.Fluency, 0, 100)),
		Feedback:       g.Feedback,
		Pronunciation:  trimNotes(g.Pronunciation),
		Coverage:       Coverage(reference, transcript),
		Duration:       time.Duration(elapsed * float64(time.Second)),
	}
}

func trimNotes(p Pronunciation) Pronunciation {
	if len(p.PracticeWords) > 3 {
		p.PracticeWords = p.PracticeWords[:3]
	}
	return p
}

func promptHint(reference string) string {
	words := strings.Fields(reference)
	if len(words) > maxPromptWords {
		words = words[:maxPromptWords]
	}
	return strings.Join(words, " ")
}
