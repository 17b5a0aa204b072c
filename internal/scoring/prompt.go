package scoring

import (
	"bytes"
	"fmt"
	"text/template"
)

const systemPrompt = `You are an experienced reading teacher and speech pathologist assessing a child's read-aloud practice.

Rules:
- Compare the transcript against the target passage word by word.
- The transcript comes from a speech recognizer that may silently correct mispronunciations. Treat substitutions, skipped words, repetitions and a transcript that looks too perfect for the duration as signs of difficulty.
- Accuracy is the percentage of target words read correctly (0-100). Fluency is a 0-100 judgement of pace, phrasing and smoothness.
- Feedback is one or two short, encouraging sentences for a child: name something done well and one thing to try next time.
- Practice words are 2-3 real words that follow the same sound patterns as the trouble spots.`

var userTmpl = template.Must(template.New("analysis").Parse(`Target passage:
"""
{{.Reference}}
"""

Transcript of the reading:
"""
{{.Transcript}}
"""

Duration: {{printf "%.0f" .ElapsedSeconds}} seconds
Target words: {{.ReferenceWords}}
Transcript words: {{.TranscriptWords}}{{if gt .ElapsedSeconds 0.0}}
Measured pace: {{printf "%.0f" .MeasuredWPM}} words per minute{{end}}`))

type promptData struct {
	Reference       string
	Transcript      string
	ElapsedSeconds  float64
	ReferenceWords  int
	TranscriptWords int
	MeasuredWPM     float64
}

func buildUserMessage(reference, transcript string, elapsedSeconds float64) (string, error) {
	data := promptData{
		Reference:       reference,
		Transcript:      transcript,
		ElapsedSeconds:  elapsedSeconds,
		ReferenceWords:  len(Words(reference)),
		TranscriptWords: len(Words(transcript)),
		MeasuredWPM:     EstimateWPM(transcript, elapsedSeconds),
	}
	var b bytes.Buffer
	if err := userTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render analysis prompt: %w", err)
	}
	return b.String(), nil
}
