package llm

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperTranscriber implements Transcriber on the OpenAI audio API.
type WhisperTranscriber struct {
	client   *openai.Client
	model    string
	language string
}

// NewWhisperTranscriber creates a transcriber from cfg. The key is the
// transcription key, or the OpenAI key when none is set.
func NewWhisperTranscriber(apiKey string, cfg TranscriptionConfig) (*WhisperTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required for transcription")
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperTranscriber{
		client:   newOpenAIClient(apiKey, cfg.BaseURL),
		model:    model,
		language: cfg.Language,
	}, nil
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, in AudioInput) (*Transcription, error) {
	if len(in.Data) == 0 {
		return nil, &ErrInvalidRequest{Err: fmt.Errorf("empty audio")}
	}
	name := in.FileName
	if name == "" {
		name = "recording.wav"
	}
	lang := in.Language
	if lang == "" {
		lang = w.language
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: name,
		Reader:   bytes.NewReader(in.Data),
		Prompt:   in.Prompt,
		Language: lang,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	return &Transcription{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
		Duration: time.Duration(resp.Duration * float64(time.Second)),
		Model:    w.model,
	}, nil
}

func (w *WhisperTranscriber) ModelID() string {
	return w.model
}
