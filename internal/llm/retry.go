package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return retry(ctx, r.config, func() (*Response, error) {
		return r.inner.Generate(ctx, req)
	})
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// RetryTranscriber is the Transcriber counterpart of RetryProvider.
type RetryTranscriber struct {
	inner  Transcriber
	config RetryConfig
}

// WithTranscriptionRetry wraps a Transcriber with retry logic.
func WithTranscriptionRetry(t Transcriber, cfg RetryConfig) Transcriber {
	return &RetryTranscriber{inner: t, config: cfg}
}

func (r *RetryTranscriber) Transcribe(ctx context.Context, in AudioInput) (*Transcription, error) {
	return retry(ctx, r.config, func() (*Transcription, error) {
		return r.inner.Transcribe(ctx, in)
	})
}

func (r *RetryTranscriber) ModelID() string {
	return r.inner.ModelID()
}

func retry[T any](ctx context.Context, cfg RetryConfig, call func() (T, error)) (T, error) {
	var zero T
	attempts := max(cfg.MaxAttempts, 1)

	var lastErr error
	for attempt := range attempts {
		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !IsTransient(err) || attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff(cfg, attempt, err)):
		}
	}
	return zero, lastErr
}

// IsTransient reports whether err may succeed if the call is repeated.
// Invalid responses are final: the same prompt tends to produce the same
// malformed output, and the caller reports it as an analysis failure.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var maxTok *ErrMaxTokensExceeded
	var invResp *ErrInvalidResponse
	var invReq *ErrInvalidRequest
	if errors.As(err, &maxTok) || errors.As(err, &invResp) || errors.As(err, &invReq) {
		return false
	}
	// Rate limits, outages and plain network errors are retryable.
	return true
}

// backoff computes the wait before the next attempt.
func backoff(cfg RetryConfig, attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	mult := cfg.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := float64(cfg.InitialWait) * math.Pow(mult, float64(attempt))
	if cfg.MaxWait > 0 && wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
