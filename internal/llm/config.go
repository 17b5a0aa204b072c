package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds model provider configuration. The mapstructure tags let it
// be filled from the application config file and READINGRALLY_ variables.
type Config struct {
	// Provider selects the analysis backend: "anthropic", "openai",
	// "gemini", "openrouter" or "mock".
	Provider string `mapstructure:"provider"`

	Anthropic     AnthropicConfig     `mapstructure:"anthropic"`
	OpenAI        OpenAIConfig        `mapstructure:"openai"`
	Gemini        GeminiConfig        `mapstructure:"gemini"`
	OpenRouter    OpenRouterConfig    `mapstructure:"openrouter"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Retry         RetryConfig         `mapstructure:"retry"`

	// Timeout bounds a single request including retries.
	Timeout time.Duration `mapstructure:"timeout"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// TranscriptionConfig selects the speech-to-text backend. Only OpenAI
// Whisper and the mock are supported; an empty APIKey falls back to the
// OpenAI key.
type TranscriptionConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Transcription: TranscriptionConfig{
			Provider: "openai",
			Model:    "whisper-1",
			Language: "en",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// DiscoverConfig probes the vendors' standard API key variables in
// priority order (OpenAI, Anthropic, Gemini, OpenRouter) and returns a
// Config for the first key found. The OpenAI key also enables Whisper
// transcription.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	openaiKey := os.Getenv("OPENAI_API_KEY")
	cfg.OpenAI.APIKey = openaiKey

	switch {
	case openaiKey != "":
		cfg.Provider = "openai"
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// TranscriptionKey returns the key used for speech-to-text.
func (c Config) TranscriptionKey() string {
	if c.Transcription.APIKey != "" {
		return c.Transcription.APIKey
	}
	return c.OpenAI.APIKey
}

// Validate checks that the selected providers have their API keys set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("READINGRALLY_LLM_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("READINGRALLY_LLM_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("READINGRALLY_LLM_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("READINGRALLY_LLM_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}

	switch c.Transcription.Provider {
	case "openai", "":
		if c.TranscriptionKey() == "" {
			return fmt.Errorf("an OpenAI API key is required for transcription")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown transcription provider: %q", c.Transcription.Provider)
	}
	return nil
}
