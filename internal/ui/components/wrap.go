package components

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// WrapWords breaks text into lines no wider than width terminal cells,
// splitting on whitespace. Words wider than a line are hard-broken.
// Blank lines in the input separate paragraphs and are kept.
func WrapWords(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	for i, para := range strings.Split(text, "\n\n") {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, wrapParagraph(strings.Fields(para), width)...)
	}
	return lines
}

func wrapParagraph(words []string, width int) []string {
	var lines []string
	var line strings.Builder
	lineWidth := 0

	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, w := range words {
		ww := runewidth.StringWidth(w)
		for ww > width {
			if lineWidth > 0 {
				flush()
			}
			head := runewidth.Truncate(w, width, "")
			if head == "" {
				_, size := utf8.DecodeRuneInString(w)
				head = w[:size]
			}
			lines = append(lines, head)
			w = w[len(head):]
			ww = runewidth.StringWidth(w)
		}
		if ww == 0 {
			continue
		}
		if lineWidth > 0 && lineWidth+1+ww > width {
			flush()
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(w)
		lineWidth += ww
	}
	if lineWidth > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// PassageWidth returns the column budget for a passage box inside a frame
// of the given width, capped for comfortable reading.
func PassageWidth(frameWidth int) int {
	w := frameWidth - 12
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}
