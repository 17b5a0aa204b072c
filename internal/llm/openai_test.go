package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newOpenAIClient("test-key", server.URL+"/v1")
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_StructuredOutput(t *testing.T) {
	var gotBody map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"transcript":"the cat sat","accuracy":96}`, "stop"))
	}

	p := &OpenAIProvider{client: newTestOpenAIClient(t, handler), model: "gpt-4o-mini"}
	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a reading teacher.",
		Messages:  []Message{{Role: RoleUser, Content: "Score this reading."}},
		Schema:    scoreSchema(),
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}

	format, _ := gotBody["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("response_format = %v", gotBody["response_format"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(msgs))
	}
}

func TestOpenAIProvider_SchemaMismatch(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"transcript":"x"}`, "stop"))
	}

	p := &OpenAIProvider{client: newTestOpenAIClient(t, handler), model: "gpt-4o-mini"}
	_, err := p.Generate(context.Background(), Request{Schema: scoreSchema()})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"transcript":"the ca`, "length"))
	}

	p := &OpenAIProvider{client: newTestOpenAIClient(t, handler), model: "gpt-4o-mini"}
	_, err := p.Generate(context.Background(), Request{Schema: scoreSchema()})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"server error", http.StatusInternalServerError, func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}},
		{"bad request", http.StatusBadRequest, func(err error) bool {
			var ir *ErrInvalidRequest
			return errors.As(err, &ir)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"type": "error", "message": tt.name},
				})
			}
			p := &OpenAIProvider{client: newTestOpenAIClient(t, handler), model: "gpt-4o-mini"}
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 100,
			})
			if !tt.check(err) {
				t.Fatalf("unexpected error type: %T (%v)", err, err)
			}
		})
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4.1-nano"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4.1-nano" {
		t.Fatalf("expected pass-through model id, got %q", p.ModelID())
	}
}

func TestWhisperTranscriber(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q", got)
		}
		if got := r.FormValue("prompt"); got != "Whiskers the cat" {
			t.Errorf("prompt = %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		data, _ := io.ReadAll(f)
		if hdr.Filename != "clip.webm" || string(data) != "RIFFDATA" {
			t.Errorf("file %q = %q", hdr.Filename, data)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"task":     "transcribe",
			"language": "english",
			"duration": 42.5,
			"text":     "  Whiskers the cat liked to nap.  ",
		})
	}

	tr := &WhisperTranscriber{client: newTestOpenAIClient(t, handler), model: "whisper-1", language: "en"}
	got, err := tr.Transcribe(context.Background(), AudioInput{
		Data:     []byte("RIFFDATA"),
		FileName: "clip.webm",
		Prompt:   "Whiskers the cat",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "Whiskers the cat liked to nap." {
		t.Errorf("text = %q", got.Text)
	}
	if got.Duration != 42500*time.Millisecond {
		t.Errorf("duration = %v", got.Duration)
	}
}

func TestWhisperTranscriber_Errors(t *testing.T) {
	if _, err := NewWhisperTranscriber("", TranscriptionConfig{}); err == nil {
		t.Fatal("expected error without key")
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}
	tr := &WhisperTranscriber{client: newTestOpenAIClient(t, handler), model: "whisper-1"}

	_, err := tr.Transcribe(context.Background(), AudioInput{})
	var ir *ErrInvalidRequest
	if !errors.As(err, &ir) {
		t.Fatalf("empty audio: expected ErrInvalidRequest, got %v", err)
	}

	_, err = tr.Transcribe(context.Background(), AudioInput{Data: []byte("x")})
	var u *ErrProviderUnavailable
	if !errors.As(err, &u) || !strings.Contains(err.Error(), "overloaded") {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
