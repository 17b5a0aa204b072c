// Package config loads application settings from defaults, an optional
// YAML file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/readingrally/readingrally/internal/archive"
	"github.com/readingrally/readingrally/internal/audio"
	"github.com/readingrally/readingrally/internal/llm"
	"github.com/readingrally/readingrally/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. READINGRALLY_LLM_PROVIDER.
const EnvPrefix = "READINGRALLY"

type Config struct {
	DB       string         `mapstructure:"db"`
	Session  SessionConfig  `mapstructure:"session"`
	LLM      llm.Config     `mapstructure:"llm"`
	Audio    audio.Config   `mapstructure:"audio"`
	Archive  archive.Config `mapstructure:"archive"`
	Log      logging.Config `mapstructure:"log"`
	Passages string         `mapstructure:"passages"`
}

type SessionConfig struct {
	Grade int `mapstructure:"grade"`
	// Keep is how many snapshots per aggregate are retained.
	Keep int `mapstructure:"keep"`
}

// vendorKeys maps config keys to the providers' own variable names, which
// are checked after the prefixed form.
var vendorKeys = map[string]string{
	"llm.openai.api_key":        "OPENAI_API_KEY",
	"llm.anthropic.api_key":     "ANTHROPIC_API_KEY",
	"llm.gemini.api_key":        "GEMINI_API_KEY",
	"llm.openrouter.api_key":    "OPENROUTER_API_KEY",
	"archive.access_key":        "MINIO_ACCESS_KEY",
	"archive.secret_key":        "MINIO_SECRET_KEY",
	"llm.transcription.api_key": "WHISPER_API_KEY",
}

// LoadDotEnv loads .env from the working directory. A missing file is not
// an error and existing variables are not overridden.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads configuration. path names a YAML file; when empty,
// config.yaml in the user config directory is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, vendor := range vendorKeys {
		if err := v.BindEnv(key, envName(key), vendor); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = discoverProvider(cfg.LLM)
	}
	return &cfg, nil
}

// LLMConfigured reports whether an analysis provider can be built.
func (c *Config) LLMConfigured() bool {
	return c.LLM.Provider != ""
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// discoverProvider picks the first provider with a key, in the same order
// as llm.DiscoverConfig.
func discoverProvider(c llm.Config) string {
	switch {
	case c.OpenAI.APIKey != "":
		return "openai"
	case c.Anthropic.APIKey != "":
		return "anthropic"
	case c.Gemini.APIKey != "":
		return "gemini"
	case c.OpenRouter.APIKey != "":
		return "openrouter"
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	l := llm.DefaultConfig()
	// The provider is discovered from the available keys unless set.
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.transcription.provider", l.Transcription.Provider)
	v.SetDefault("llm.transcription.api_key", "")
	v.SetDefault("llm.transcription.model", l.Transcription.Model)
	v.SetDefault("llm.transcription.base_url", "")
	v.SetDefault("llm.transcription.language", l.Transcription.Language)
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)
	v.SetDefault("llm.timeout", l.Timeout)

	a := audio.DefaultConfig()
	v.SetDefault("audio.ffmpeg", a.Binary)
	v.SetDefault("audio.format", a.Format)
	v.SetDefault("audio.device", a.Device)
	v.SetDefault("audio.sample_rate", a.SampleRate)

	v.SetDefault("archive.type", "none")
	v.SetDefault("archive.path", "")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.access_key", "")
	v.SetDefault("archive.secret_key", "")
	v.SetDefault("archive.region", "")
	v.SetDefault("archive.use_ssl", false)

	g := logging.DefaultConfig()
	v.SetDefault("log.level", g.Level)
	v.SetDefault("log.file", g.File)
	v.SetDefault("log.max_size_mb", g.MaxSizeMB)
	v.SetDefault("log.max_backups", g.MaxBackups)
	v.SetDefault("log.max_age_days", g.MaxAgeDays)
	v.SetDefault("log.compress", g.Compress)

	v.SetDefault("db", "")
	v.SetDefault("passages", "")
	v.SetDefault("session.grade", 3)
	v.SetDefault("session.keep", 20)
}

// Dir returns the user config directory for the application.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		var err error
		base, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve config dir: %w", err)
		}
	}
	return filepath.Join(base, "readingrally"), nil
}
