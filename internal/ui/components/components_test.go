package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestMenuSkipsDisabled(t *testing.T) {
	var chosen string
	pick := func(label string) func() tea.Cmd {
		return func() tea.Cmd {
			chosen = label
			return func() tea.Msg { return nil }
		}
	}
	m := NewMenu([]MenuItem{
		{Label: "READ", Disabled: true},
		{Label: "PROGRESS", Action: pick("progress")},
		{Label: "EXPORT", Disabled: true},
		{Label: "REWARDS", Action: pick("rewards")},
	})
	assert.Equal(t, 1, m.Selected, "first enabled item")

	m, _ = m.Update(key("down"))
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(key("j"))
	assert.Equal(t, 3, m.Selected, "stays on last enabled item")
	m, _ = m.Update(key("up"))
	assert.Equal(t, 1, m.Selected)

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, "progress", chosen)

	assert.Equal(t, map[int]bool{0: true, 2: true}, m.DisabledSet())
	assert.Equal(t, []string{"READ", "PROGRESS", "EXPORT", "REWARDS"}, m.Labels())
}

func TestWrapWords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "The cat sat.", 20, []string{"The cat sat."}},
		{"breaks on spaces", "The cat sat on the mat", 11, []string{"The cat sat", "on the mat"}},
		{"collapses whitespace", "a   b\tc", 10, []string{"a b c"}},
		{"keeps paragraphs", "one two\n\nthree", 20, []string{"one two", "", "three"}},
		{"hard breaks long words", "abcdefghij xy", 4, []string{"abcd", "efgh", "ij", "xy"}},
		{"wide runes", "日本語の本", 4, []string{"日本", "語の", "本"}},
		{"empty", "", 10, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapWords(tt.text, tt.width))
		})
	}
}

func TestWrapWordsRespectsWidth(t *testing.T) {
	text := strings.Repeat("reading is fun ", 30)
	for _, line := range WrapWords(text, 23) {
		assert.LessOrEqual(t, len(line), 23)
	}
}

func TestPassageWidth(t *testing.T) {
	assert.Equal(t, 72, PassageWidth(200))
	assert.Equal(t, 68, PassageWidth(80))
	assert.Equal(t, 20, PassageWidth(10))
}

func TestProgressBarClamps(t *testing.T) {
	full := NewProgressBar("", 1.5, true, 20).View()
	assert.Contains(t, full, "150%")
	empty := NewProgressBar("Books", -1, false, 20).View()
	assert.Contains(t, empty, "Books")
}
