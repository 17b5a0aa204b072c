package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// queue hands out canned items in FIFO order and records every call.
type queue[Item, Call any] struct {
	mu    sync.Mutex
	items []Item
	calls []Call
}

func (q *queue[Item, Call]) next(call Call) (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls = append(q.calls, call)
	var item Item
	if len(q.items) == 0 {
		return item, false
	}
	item, q.items = q.items[0], q.items[1:]
	return item, true
}

func (q *queue[Item, Call]) push(it Item) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, it)
}

func (q *queue[Item, Call]) recorded() []Call {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Call(nil), q.calls...)
}

type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for tests and offline use.
// Once its responses run out every call fails as unavailable.
type MockProvider struct {
	q queue[MockResponse, Request]
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	m := &MockProvider{}
	m.q.items = responses
	return m
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	r, ok := m.q.next(req)
	switch {
	case !ok:
		return nil, &ErrProviderUnavailable{}
	case r.Err != nil:
		return nil, r.Err
	}
	return &Response{Content: r.Content, Usage: r.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string               { return "mock" }
func (m *MockProvider) AddResponse(resp MockResponse) { m.q.push(resp) }
func (m *MockProvider) CallCount() int                { return len(m.q.recorded()) }

// Calls returns the requests seen so far.
func (m *MockProvider) Calls() []Request { return m.q.recorded() }

type MockTranscript struct {
	Text string
	Err  error
}

// MockTranscriber returns canned transcripts. With none left it echoes
// the prompt, so a passage-primed request comes back read perfectly.
type MockTranscriber struct {
	q queue[MockTranscript, AudioInput]
}

func NewMockTranscriber(results ...MockTranscript) *MockTranscriber {
	m := &MockTranscriber{}
	m.q.items = results
	return m
}

func (m *MockTranscriber) Transcribe(_ context.Context, in AudioInput) (*Transcription, error) {
	text := in.Prompt
	if r, ok := m.q.next(in); ok {
		if r.Err != nil {
			return nil, r.Err
		}
		text = r.Text
	}
	return &Transcription{Text: text, Language: in.Language, Model: "mock"}, nil
}

func (m *MockTranscriber) ModelID() string { return "mock" }

// Calls returns the audio inputs seen so far.
func (m *MockTranscriber) Calls() []AudioInput { return m.q.recorded() }
