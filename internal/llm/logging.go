package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/readingrally/readingrally/internal/store"
)

// eventRecorder writes one request event per call to the event log and
// mirrors it to the application log. Event log failures never fail the
// request.
type eventRecorder struct {
	repo     store.EventRepo
	log      *zap.Logger
	provider string
}

func (r eventRecorder) record(ctx context.Context, data store.LLMRequestEventData, err error) {
	data.Provider = r.provider
	data.Purpose = PurposeFrom(ctx)
	data.Success = err == nil
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	fields := []zap.Field{
		zap.String("provider", data.Provider),
		zap.String("model", data.Model),
		zap.String("purpose", data.Purpose),
		zap.Int64("latency_ms", data.LatencyMs),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
	}
	if err != nil {
		r.log.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		r.log.Debug("llm request", fields...)
	}

	if r.repo == nil {
		return
	}
	if logErr := r.repo.AppendLLMRequest(ctx, data); logErr != nil {
		r.log.Warn("failed to record llm request event", zap.Error(logErr))
	}
}

// LoggingProvider is a decorator that records every Generate call.
type LoggingProvider struct {
	inner Provider
	rec   eventRecorder
}

// WithLogging wraps a Provider with event logging. provider names the
// backend in the event log; repo and log may be nil.
func WithLogging(p Provider, provider string, repo store.EventRepo, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{inner: p, rec: eventRecorder{repo: repo, log: log, provider: provider}}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Model:       l.inner.ModelID(),
		LatencyMs:   time.Since(start).Milliseconds(),
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	l.rec.record(ctx, data, err)
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// LoggingTranscriber is a decorator that records every Transcribe call.
// Audio bytes are never stored; the request body notes their size.
type LoggingTranscriber struct {
	inner Transcriber
	rec   eventRecorder
}

// WithTranscriptionLogging wraps a Transcriber with event logging.
func WithTranscriptionLogging(t Transcriber, provider string, repo store.EventRepo, log *zap.Logger) Transcriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingTranscriber{inner: t, rec: eventRecorder{repo: repo, log: log, provider: provider}}
}

func (l *LoggingTranscriber) Transcribe(ctx context.Context, in AudioInput) (*Transcription, error) {
	start := time.Now()
	out, err := l.inner.Transcribe(ctx, in)

	data := store.LLMRequestEventData{
		Model:       l.inner.ModelID(),
		LatencyMs:   time.Since(start).Milliseconds(),
		RequestBody: fmt.Sprintf("[audio %s, %d bytes]\n%s", in.FileName, len(in.Data), in.Prompt),
	}
	if out != nil {
		data.ResponseBody = out.Text
	}
	l.rec.record(ctx, data, err)
	return out, err
}

func (l *LoggingTranscriber) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
