package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"accuracy":90}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"accuracy":75}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"accuracy":90}` {
		t.Fatalf("unexpected content %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 || resp1.StopReason != "end" {
		t.Fatalf("unexpected response %+v", resp1)
	}

	resp2, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"accuracy":75}` {
		t.Fatalf("unexpected content %s", resp2.Content)
	}

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable from empty queue, got: %T", err)
	}
	if mock.CallCount() != 3 || mock.Calls()[0].Messages[0].Content != "first" {
		t.Fatalf("calls not recorded: %+v", mock.Calls())
	}
}

func TestMockTranscriber(t *testing.T) {
	mock := NewMockTranscriber(
		MockTranscript{Text: "the cat sat"},
		MockTranscript{Err: &ErrRateLimit{}},
	)

	got, err := mock.Transcribe(context.Background(), AudioInput{Data: []byte{1}})
	if err != nil || got.Text != "the cat sat" {
		t.Fatalf("first = %+v, %v", got, err)
	}
	if _, err := mock.Transcribe(context.Background(), AudioInput{}); err == nil {
		t.Fatal("expected queued error")
	}
	echo, err := mock.Transcribe(context.Background(), AudioInput{Prompt: "Whiskers the cat"})
	if err != nil || echo.Text != "Whiskers the cat" {
		t.Fatalf("echo = %+v, %v", echo, err)
	}
	if len(mock.Calls()) != 3 || mock.ModelID() != "mock" {
		t.Fatalf("calls = %d", len(mock.Calls()))
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	ctx = WithPurpose(ctx, PurposeReadingAnalysis)
	if p := PurposeFrom(ctx); p != "reading-analysis" {
		t.Fatalf("expected 'reading-analysis', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	whisper := TranscriptionConfig{Provider: "openai", APIKey: "sk-whisper"}
	mockSTT := TranscriptionConfig{Provider: "mock"}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic", Transcription: whisper}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk"}, Transcription: whisper}, false},
		{"openai key covers transcription", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk"}, Transcription: TranscriptionConfig{Provider: "openai"}}, false},
		{"gemini without transcription key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g"}, Transcription: TranscriptionConfig{Provider: "openai"}}, true},
		{"openrouter with key", Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "or"}, Transcription: mockSTT}, false},
		{"mock needs no key", Config{Provider: "mock", Transcription: mockSTT}, false},
		{"unknown provider", Config{Provider: "unknown", Transcription: mockSTT}, true},
		{"unknown transcription", Config{Provider: "mock", Transcription: TranscriptionConfig{Provider: "vosk"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no config without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "anthropic" || cfg.Anthropic.APIKey != "sk-ant" {
		t.Fatalf("anthropic discovery = %+v, %v", cfg, ok)
	}

	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, ok = DiscoverConfig()
	if !ok || cfg.Provider != "openai" || cfg.TranscriptionKey() != "sk-oai" {
		t.Fatalf("openai discovery = %+v, %v", cfg, ok)
	}
}

func TestFactory_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	cfg.Transcription.Provider = "mock"

	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil || p.ModelID() != "mock" {
		t.Fatalf("provider = %v, %v", p, err)
	}
	tr, err := NewTranscriber(cfg, nil, nil)
	if err != nil || tr.ModelID() != "mock" {
		t.Fatalf("transcriber = %v, %v", tr, err)
	}

	cfg.Provider = "carrier-pigeon"
	if _, err := NewProvider(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected unknown provider error")
	}
}

func TestFactory_WrapsWithMiddleware(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "sk-test"

	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Fatalf("expected *RetryProvider, got %T", p)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("model = %q", p.ModelID())
	}

	tr, err := NewTranscriber(cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.ModelID() != "whisper-1" {
		t.Fatalf("transcriber model = %q", tr.ModelID())
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Cost = %v, want 0.75", got)
	}
	w := LookupCost("whisper-1")
	if w == nil || w.AudioCost(120) != 0.012 {
		t.Errorf("whisper audio cost = %+v", w)
	}
	if LookupCost("no-such-model") != nil {
		t.Error("unknown model should have no pricing")
	}
}
