package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func scoreSchema() *Schema {
	return &Schema{
		Name:        "test-score",
		Description: "A scored reading",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"transcript": map[string]any{"type": "string"},
				"accuracy":   map[string]any{"type": "number", "minimum": 0},
				"level":      map[string]any{"type": "string", "enum": []any{"emerging", "developing", "fluent"}},
				"practice_words": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"transcript", "accuracy"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"all fields", `{"transcript":"the cat sat","accuracy":92.5,"level":"fluent","practice_words":["whiskers"]}`, false},
		{"optional omitted", `{"transcript":"","accuracy":0}`, false},
		{"missing required", `{"transcript":"the cat"}`, true},
		{"wrong type", `{"transcript":"x","accuracy":"high"}`, true},
		{"below minimum", `{"transcript":"x","accuracy":-1}`, true},
		{"bad enum", `{"transcript":"x","accuracy":50,"level":"expert"}`, true},
		{"bad array item", `{"transcript":"x","accuracy":50,"practice_words":[1,2]}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(scoreSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
				if string(invErr.Content) != tt.raw {
					t.Errorf("content = %q, want %q", invErr.Content, tt.raw)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`plain text`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}
