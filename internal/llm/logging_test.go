package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/readingrally/readingrally/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, data)
	return nil
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"accuracy":91}`), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, "openai", repo, nil)
	ctx := WithPurpose(context.Background(), PurposeReadingAnalysis)

	req := Request{
		System:   "sys prompt",
		Messages: []Message{{Role: RoleUser, Content: "the passage"}},
		Schema:   scoreSchema(),
	}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(repo.events))
	}
	ok, failed := repo.events[0], repo.events[1]
	if !ok.Success || ok.Provider != "openai" || ok.Model != "mock" || ok.Purpose != "reading-analysis" {
		t.Errorf("success event = %+v", ok)
	}
	if ok.InputTokens != 12 || ok.ResponseBody != `{"accuracy":91}` {
		t.Errorf("success event usage = %+v", ok)
	}
	for _, want := range []string{"[system]", "sys prompt", "[user]", "the passage", "[schema: test-score]"} {
		if !strings.Contains(ok.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, ok.RequestBody)
		}
	}
	if failed.Success || !strings.Contains(failed.ErrorMessage, "down") {
		t.Errorf("failure event = %+v", failed)
	}
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &recordingRepo{err: errors.New("database is locked")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", repo, zap.New(core))

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("repo failure leaked into request: %v", err)
	}
	if logs.FilterMessage("failed to record llm request event").Len() != 1 {
		t.Errorf("expected a warning, got %v", logs.All())
	}
}

func TestLoggingTranscriber(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockTranscriber(MockTranscript{Text: "a big red hen"})
	tr := WithTranscriptionLogging(mock, "openai", repo, nil)
	ctx := WithPurpose(context.Background(), PurposeTranscription)

	if _, err := tr.Transcribe(ctx, AudioInput{Data: make([]byte, 2048), FileName: "take.wav", Prompt: "A big red hen."}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Purpose != "transcription" || ev.ResponseBody != "a big red hen" {
		t.Errorf("event = %+v", ev)
	}
	if !strings.Contains(ev.RequestBody, "take.wav, 2048 bytes") {
		t.Errorf("request body = %q", ev.RequestBody)
	}
	if tr.ModelID() != "mock" {
		t.Errorf("model = %q", tr.ModelID())
	}
}
