package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/readingrally/readingrally/internal/llm"
)

// GradeInput is what a grader sees: the passage, what was heard and how
// long the reading took.
type GradeInput struct {
	Reference      string
	Transcript     string
	ElapsedSeconds float64
}

// Grade is a grader's raw judgement before it is clamped into an Analysis.
type Grade struct {
	WordsPerMinute float64
	Accuracy       float64
	Fluency        float64
	Feedback       string
	Pronunciation  Pronunciation
}

// Grader scores a transcript against the passage.
type Grader interface {
	Grade(ctx context.Context, in GradeInput) (*Grade, error)
}

// GraderConfig holds options for the model-backed grader.
type GraderConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGraderConfig returns sensible defaults.
func DefaultGraderConfig() GraderConfig {
	return GraderConfig{
		MaxTokens:   800,
		Temperature: 0.3,
	}
}

// LLMGrader asks a chat model for a structured assessment.
type LLMGrader struct {
	provider llm.Provider
	cfg      GraderConfig
}

func NewLLMGrader(provider llm.Provider, cfg GraderConfig) *LLMGrader {
	return &LLMGrader{provider: provider, cfg: cfg}
}

type gradeOutput struct {
	WPM           float64 `json:"wpm"`
	Accuracy      float64 `json:"accuracy"`
	Fluency       float64 `json:"fluency"`
	Feedback      string  `json:"feedback"`
	Pronunciation struct {
		PotentialIssues []string `json:"potential_issues"`
		Strengths       []string `json:"strengths"`
		PracticeWords   []string `json:"practice_words"`
	} `json:"pronunciation"`
}

func (g *LLMGrader) Grade(ctx context.Context, in GradeInput) (*Grade, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeReadingAnalysis)

	msg, err := buildUserMessage(in.Reference, in.Transcript, in.ElapsedSeconds)
	if err != nil {
		return nil, stageError(StageGrading, err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: msg}},
		Schema:      AnalysisSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			return nil, stageError(StageDecode, err)
		}
		return nil, stageError(StageGrading, err)
	}

	var out gradeOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, stageError(StageDecode, fmt.Errorf("unmarshal analysis: %w", err))
	}
	if strings.TrimSpace(out.Feedback) == "" {
		return nil, stageError(StageDecode, errors.New("analysis has no feedback"))
	}

	return &Grade{
		WordsPerMinute: out.WPM,
		Accuracy:       out.Accuracy,
		Fluency:        out.Fluency,
		Feedback:       strings.TrimSpace(out.Feedback),
		Pronunciation: Pronunciation{
			Strengths:       out.Pronunciation.Strengths,
			PotentialIssues: out.Pronunciation.PotentialIssues,
			PracticeWords:   out.Pronunciation.PracticeWords,
		},
	}, nil
}

// LocalGrader scores by aligning the transcript with the passage. It needs
// no network and backs the offline mode.
type LocalGrader struct{}

func (LocalGrader) Grade(_ context.Context, in GradeInput) (*Grade, error) {
	ref := Words(in.Reference)
	heard := Words(in.Transcript)
	if len(heard) == 0 {
		return nil, stageError(StageGrading, errors.New("nothing to grade"))
	}

	matched := matchedWords(ref, heard)
	accuracy := 100 * float64(matched) / float64(len(heard))
	wpm := EstimateWPM(in.Transcript, in.ElapsedSeconds)
	// Fluency blends accuracy with pace, saturating at 100 wpm.
	fluency := (accuracy + math.Min(100, wpm)) / 2

	missed := missedWords(ref, heard, 3)
	g := &Grade{
		WordsPerMinute: wpm,
		Accuracy:       accuracy,
		Fluency:        fluency,
		Pronunciation: Pronunciation{
			PotentialIssues: missed,
			PracticeWords:   missed,
		},
	}
	switch {
	case accuracy >= 95:
		g.Feedback = "Excellent reading! You read almost every word just right."
		g.Pronunciation.Strengths = []string{"word accuracy"}
	case accuracy >= 80:
		g.Feedback = "Nice work! Slow down on the tricky words and try again."
		g.Pronunciation.Strengths = []string{"steady effort"}
	default:
		g.Feedback = "Good try! Point at each word as you read it next time."
	}
	return g, nil
}

// missedWords lists up to n distinct passage words that never appear in
// the transcript, in passage order.
func missedWords(ref, heard []string, n int) []string {
	seen := make(map[string]bool, len(heard))
	for _, w := range heard {
		seen[w] = true
	}
	var out []string
	for _, w := range ref {
		if len(out) == n {
			break
		}
		if !seen[w] && len(w) > 2 {
			out = append(out, w)
			seen[w] = true
		}
	}
	return out
}
