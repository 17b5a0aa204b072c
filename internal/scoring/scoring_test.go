package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingrally/readingrally/internal/audio"
	"github.com/readingrally/readingrally/internal/llm"
)

const passage = "The cat sat on the mat. It was a sunny day, and the cat was happy."

func clip() *audio.Clip {
	return &audio.Clip{Data: []byte("OggS"), MIMEType: "audio/ogg", Duration: 30 * time.Second}
}

func gradeJSON(t *testing.T, wpm, acc, flu float64) json.RawMessage {
	t.Helper()
	out := map[string]any{
		"wpm":      wpm,
		"accuracy": acc,
		"fluency":  flu,
		"feedback": "Great job reading about the cat!",
		"pronunciation": map[string]any{
			"potential_issues": []string{"sunny"},
			"strengths":        []string{"short vowels"},
			"practice_words":   []string{"funny", "bunny", "runny", "honey"},
		},
	}
	b, err := json.Marshal(out)
	require.NoError(t, err)
	return b
}

func TestAnalyze_Success(t *testing.T) {
	tr := llm.NewMockTranscriber()
	p := llm.NewMockProvider(llm.MockResponse{Content: gradeJSON(t, 72, 96.4, 88)})
	svc := NewService(tr, NewLLMGrader(p, DefaultGraderConfig()), "en", nil)

	a, err := svc.Analyze(context.Background(), Request{Clip: clip(), ReferenceText: passage, ElapsedSeconds: 20})
	require.NoError(t, err)

	assert.Equal(t, passage, a.Transcript)
	assert.Equal(t, 72.0, a.WordsPerMinute)
	assert.Equal(t, 96.0, a.Accuracy)
	assert.Equal(t, 88.0, a.Fluency)
	assert.Equal(t, 1.0, a.Coverage)
	assert.True(t, a.Completed())
	assert.Equal(t, 20*time.Second, a.Duration)
	assert.Equal(t, []string{"funny", "bunny", "runny"}, a.Pronunciation.PracticeWords)

	// Transcription is biased with the passage and carries its purpose.
	require.Len(t, tr.Calls(), 1)
	assert.Equal(t, passage, tr.Calls()[0].Prompt)
	assert.Equal(t, "recording.ogg", tr.Calls()[0].FileName)
	assert.Equal(t, "en", tr.Calls()[0].Language)

	require.Equal(t, 1, p.CallCount())
	req := p.Calls()[0]
	assert.Equal(t, AnalysisSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Duration: 20 seconds")
	assert.Contains(t, req.Messages[0].Content, "Target words: 16")
}

func TestAnalyze_ClampsScoresAndEstimatesPace(t *testing.T) {
	tr := llm.NewMockTranscriber(llm.MockTranscript{Text: "the cat sat on the mat"})
	p := llm.NewMockProvider(llm.MockResponse{Content: gradeJSON(t, 0, 140, -5)})
	svc := NewService(tr, NewLLMGrader(p, DefaultGraderConfig()), "en", nil)

	// Elapsed falls back to the clip duration: 6 words in 30s.
	a, err := svc.Analyze(context.Background(), Request{Clip: clip(), ReferenceText: passage})
	require.NoError(t, err)

	assert.Equal(t, 12.0, a.WordsPerMinute)
	assert.Equal(t, 100.0, a.Accuracy)
	assert.Equal(t, 0.0, a.Fluency)
	assert.InDelta(t, 6.0/16.0, a.Coverage, 1e-9)
	assert.False(t, a.Completed())
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name      string
		clip      *audio.Clip
		transcr   []llm.MockTranscript
		responses []llm.MockResponse
		stage     error
	}{
		{
			name:  "no audio",
			clip:  &audio.Clip{},
			stage: ErrTranscriptionFailed,
		},
		{
			name:    "transcriber error",
			clip:    clip(),
			transcr: []llm.MockTranscript{{Err: &llm.ErrProviderUnavailable{}}},
			stage:   ErrTranscriptionFailed,
		},
		{
			name:    "empty transcript",
			clip:    clip(),
			transcr: []llm.MockTranscript{{Text: "  "}},
			stage:   ErrTranscriptionFailed,
		},
		{
			name:      "grader unavailable",
			clip:      clip(),
			responses: []llm.MockResponse{{Err: &llm.ErrProviderUnavailable{}}},
			stage:     ErrAnalysisFailed,
		},
		{
			name:      "schema violation",
			clip:      clip(),
			responses: []llm.MockResponse{{Err: &llm.ErrInvalidResponse{Err: errors.New("missing accuracy")}}},
			stage:     ErrMalformedResponse,
		},
		{
			name:      "not json",
			clip:      clip(),
			responses: []llm.MockResponse{{Content: json.RawMessage(`"hello"`)}},
			stage:     ErrMalformedResponse,
		},
		{
			name:      "no feedback",
			clip:      clip(),
			responses: []llm.MockResponse{{Content: json.RawMessage(`{"wpm":60,"accuracy":90,"fluency":80,"feedback":"","pronunciation":{}}`)}},
			stage:     ErrMalformedResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(
				llm.NewMockTranscriber(tt.transcr...),
				NewLLMGrader(llm.NewMockProvider(tt.responses...), DefaultGraderConfig()),
				"en", nil,
			)
			a, err := svc.Analyze(context.Background(), Request{Clip: tt.clip, ReferenceText: passage, ElapsedSeconds: 10})
			assert.Nil(t, a)
			assert.ErrorIs(t, err, ErrAnalysisFailed)
			assert.ErrorIs(t, err, tt.stage)
		})
	}
}

func TestErrorStages(t *testing.T) {
	grading := stageError(StageGrading, errors.New("boom"))
	assert.ErrorIs(t, grading, ErrAnalysisFailed)
	assert.NotErrorIs(t, grading, ErrTranscriptionFailed)
	assert.NotErrorIs(t, grading, ErrMalformedResponse)
	assert.Contains(t, grading.Error(), "grading: boom")

	wrapped := stageError(StageTranscription, &llm.ErrRateLimit{})
	var rl *llm.ErrRateLimit
	assert.True(t, errors.As(wrapped, &rl))
}

func TestLocalGrader(t *testing.T) {
	svc := NewService(llm.NewMockTranscriber(), LocalGrader{}, "en", nil)
	a, err := svc.Analyze(context.Background(), Request{Clip: clip(), ReferenceText: passage, ElapsedSeconds: 12})
	require.NoError(t, err)

	assert.Equal(t, 100.0, a.Accuracy)
	assert.Equal(t, 80.0, a.WordsPerMinute)
	assert.Equal(t, 90.0, a.Fluency)
	assert.True(t, a.Completed())
	assert.True(t, strings.HasPrefix(a.Feedback, "Excellent"))

	g, err := LocalGrader{}.Grade(context.Background(), GradeInput{
		Reference:      passage,
		Transcript:     "the cat sat on the hat",
		ElapsedSeconds: 6,
	})
	require.NoError(t, err)
	assert.InDelta(t, 500.0/6.0, g.Accuracy, 1e-9)
	assert.Equal(t, []string{"mat", "was", "sunny"}, g.Pronunciation.PracticeWords)

	_, err = LocalGrader{}.Grade(context.Background(), GradeInput{Reference: passage})
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"don't", "stop", "it's", "3", "cats"}, Words("Don't stop! 'It's' 3 cats..."))
	assert.Empty(t, Words(" -- ... "))
}

func TestCoverage(t *testing.T) {
	tests := []struct {
		transcript string
		want       float64
	}{
		{passage, 1},
		{"", 0},
		{"the cat sat on the mat it was a sunny day and the cat was", 15.0 / 16.0},
		{"happy cat was the and day sunny", 3.0 / 16.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Coverage(passage, tt.transcript), 1e-9, tt.transcript)
	}
	assert.Zero(t, Coverage("", "anything"))
}

func TestEstimateWPM(t *testing.T) {
	assert.Equal(t, 120.0, EstimateWPM("one two three four five six", 3))
	assert.Zero(t, EstimateWPM("one two", 0))
}

func TestPromptHintTruncates(t *testing.T) {
	long := strings.Repeat("word ", 400)
	assert.Len(t, strings.Fields(promptHint(long)), maxPromptWords)
}
