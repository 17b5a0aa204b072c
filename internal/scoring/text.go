package scoring

import (
	"math"
	"strings"
	"unicode"
)

// Words splits text into lower-cased words. Punctuation is dropped except
// apostrophes inside a word, so "Don't!" and "don't" compare equal.
func Words(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'’")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// EstimateWPM returns words per minute for a transcript read in the given
// number of seconds. It is zero when no time elapsed.
func EstimateWPM(transcript string, elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 || math.IsNaN(elapsedSeconds) {
		return 0
	}
	return float64(len(Words(transcript))) / (elapsedSeconds / 60)
}

// matchedWords returns the length of the longest in-order run of words the
// transcript shares with the reference.
func matchedWords(reference, transcript []string) int {
	if len(reference) == 0 || len(transcript) == 0 {
		return 0
	}
	prev := make([]int, len(transcript)+1)
	cur := make([]int, len(transcript)+1)
	for i := 1; i <= len(reference); i++ {
		for j := 1; j <= len(transcript); j++ {
			switch {
			case reference[i-1] == transcript[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(transcript)]
}

// Coverage is the fraction of the reference text, in [0, 1], that the
// transcript read in order.
func Coverage(reference, transcript string) float64 {
	ref := Words(reference)
	if len(ref) == 0 {
		return 0
	}
	return float64(matchedWords(ref, Words(transcript))) / float64(len(ref))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
