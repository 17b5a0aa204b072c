package llm

// ModelCost holds pricing for a model in USD. Chat models are billed per
// million tokens, speech models per minute of audio.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
	PerMinute     float64
}

// Cost calculates the USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// AudioCost calculates the USD cost of transcribing the given seconds.
func (c ModelCost) AudioCost(seconds float64) float64 {
	return seconds / 60 * c.PerMinute
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the models reachable through the friendly names plus
// their common dated aliases. Last updated: 2026-09-01.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-haiku-4-5":           {InputPerMTok: 1, OutputPerMTok: 5},
	"claude-haiku-4-5-20251001":  {InputPerMTok: 1, OutputPerMTok: 5},
	"claude-sonnet-4-5":          {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-sonnet-4-5-20250929": {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-sonnet-4-20250514":   {InputPerMTok: 3, OutputPerMTok: 15},

	// OpenAI
	"gpt-4o":                 {InputPerMTok: 2.5, OutputPerMTok: 10},
	"gpt-4o-2024-08-06":      {InputPerMTok: 2.5, OutputPerMTok: 10},
	"gpt-4o-mini":            {InputPerMTok: 0.15, OutputPerMTok: 0.6},
	"gpt-4o-mini-2024-07-18": {InputPerMTok: 0.15, OutputPerMTok: 0.6},
	"gpt-4.1":                {InputPerMTok: 2, OutputPerMTok: 8},
	"gpt-4.1-mini":           {InputPerMTok: 0.4, OutputPerMTok: 1.6},
	"whisper-1":              {PerMinute: 0.006},
	"gpt-4o-transcribe":      {PerMinute: 0.006},
	"gpt-4o-mini-transcribe": {PerMinute: 0.003},

	// Google
	"gemini-2.5-flash": {InputPerMTok: 0.3, OutputPerMTok: 2.5},
	"gemini-2.5-pro":   {InputPerMTok: 1.25, OutputPerMTok: 10},
	"gemini-2.0-flash": {InputPerMTok: 0.1, OutputPerMTok: 0.4},
}
