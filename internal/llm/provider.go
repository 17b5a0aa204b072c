// Package llm wraps the hosted model APIs used to analyze reading
// sessions: chat models that return schema-checked JSON, and speech
// models that turn a recording into a transcript.
package llm

import (
	"context"
	"encoding/json"
	"time"
)

// Provider generates structured JSON from a prompt.
type Provider interface {
	// Generate sends a prompt and returns the model output. When the
	// request carries a Schema the output is validated against it before
	// it is returned.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Transcriber turns recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, in AudioInput) (*Transcription, error)
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	System   string
	Messages []Message

	// Schema is the JSON Schema the response must conform to. When nil the
	// response Content is the raw text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]; zero leaves the provider default.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema, kebab-case, e.g. "reading-analysis".
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// AudioInput is one recording to transcribe. FileName only needs a
// sensible extension; speech APIs use it to detect the container format.
type AudioInput struct {
	Data     []byte
	FileName string
	Language string
	// Prompt biases recognition toward expected vocabulary, usually the
	// passage being read.
	Prompt string
}

// Transcription is the recognized text of a recording.
type Transcription struct {
	Text     string
	Language string
	Duration time.Duration
	Model    string
}
