package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/readingrally/readingrally/internal/store"
)

// NewProvider creates the analysis Provider selected by cfg, wrapped as
// caller → retry → logging → base so each attempt is logged. The mock is
// returned bare.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	return WithRetry(logged, cfg.Retry), nil
}

// NewTranscriber creates the speech-to-text backend selected by cfg with
// the same middleware as NewProvider.
func NewTranscriber(cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Transcriber, error) {
	switch cfg.Transcription.Provider {
	case "openai", "":
		base, err := NewWhisperTranscriber(cfg.TranscriptionKey(), cfg.Transcription)
		if err != nil {
			return nil, fmt.Errorf("initializing transcriber: %w", err)
		}
		logged := WithTranscriptionLogging(base, "openai", eventRepo, log)
		return WithTranscriptionRetry(logged, cfg.Retry), nil
	case "mock":
		return NewMockTranscriber(), nil
	default:
		return nil, fmt.Errorf("unknown transcription provider: %q", cfg.Transcription.Provider)
	}
}
