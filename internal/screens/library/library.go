// Package library lists the passages by grade and starts a reading of the
// chosen one.
package library

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/readingrally/readingrally/internal/passages"
	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/router"
	"github.com/readingrally/readingrally/internal/screen"
	"github.com/readingrally/readingrally/internal/ui/components"
	"github.com/readingrally/readingrally/internal/ui/layout"
	"github.com/readingrally/readingrally/internal/ui/theme"
)

// Options configures the library.
type Options struct {
	Catalog *passages.Catalog
	Profile profile.Viewer
	// Grade sets the reading timing for passages started from here.
	Grade          int
	ReadingEnabled bool
	StartReading   func(p passages.Passage, grade int) screen.Screen
}

type rowKind int

const (
	rowGradeHeader rowKind = iota
	rowPassage
)

type row struct {
	kind    rowKind
	grade   int
	passage *passages.Passage
}

// LibraryScreen shows every passage grouped by grade.
type LibraryScreen struct {
	opts         Options
	rows         []row
	cursor       int
	scrollOffset int
	completed    map[string]bool
	note         string
}

var _ screen.Screen = (*LibraryScreen)(nil)
var _ screen.KeyHintProvider = (*LibraryScreen)(nil)
var _ screen.Refresher = (*LibraryScreen)(nil)

// New creates a LibraryScreen with the cursor on the first passage.
func New(opts Options) *LibraryScreen {
	if opts.Catalog == nil {
		opts.Catalog = passages.Default()
	}
	s := &LibraryScreen{opts: opts}
	s.rows = buildRows(opts.Catalog.All())
	s.cursor = -1
	s.moveCursor(1)
	s.Refresh()
	return s
}

// buildRows expects passages ordered by grade.
func buildRows(all []passages.Passage) []row {
	var rows []row
	grade := -1
	for i := range all {
		p := &all[i]
		if p.GradeLevel != grade {
			grade = p.GradeLevel
			rows = append(rows, row{kind: rowGradeHeader, grade: grade})
		}
		rows = append(rows, row{kind: rowPassage, grade: grade, passage: p})
	}
	return rows
}

// Refresh reloads which passages are completed.
func (s *LibraryScreen) Refresh() tea.Cmd {
	s.completed = make(map[string]bool)
	if s.opts.Profile == nil {
		return nil
	}
	s.opts.Profile.View(func(p *profile.Profile) {
		for _, id := range p.Progress.CompletedBookIDs() {
			s.completed[id] = true
		}
	})
	return nil
}

func (s *LibraryScreen) Init() tea.Cmd {
	return nil
}

func (s *LibraryScreen) Title() string {
	return "Library"
}

func (s *LibraryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Grade"},
		{Key: "Enter", Description: "Read"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LibraryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || s.cursor < 0 {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		s.moveCursor(-1)
	case "down", "j":
		s.moveCursor(1)
	case "tab":
		s.jumpGrade(1)
	case "shift+tab":
		s.jumpGrade(-1)
	case "enter":
		return s, s.selectPassage()
	}
	return s, nil
}

// Selected returns the passage under the cursor.
func (s *LibraryScreen) Selected() (passages.Passage, bool) {
	if s.cursor < 0 || s.rows[s.cursor].passage == nil {
		return passages.Passage{}, false
	}
	return *s.rows[s.cursor].passage, true
}

// moveCursor moves the cursor by delta, skipping grade headers.
func (s *LibraryScreen) moveCursor(delta int) {
	for next := s.cursor + delta; next >= 0 && next < len(s.rows); next += delta {
		if s.rows[next].kind == rowPassage {
			s.cursor = next
			s.note = ""
			return
		}
	}
}

// jumpGrade moves to the first passage of the next or previous grade,
// wrapping around.
func (s *LibraryScreen) jumpGrade(dir int) {
	var starts []int
	for i, r := range s.rows {
		if r.kind == rowGradeHeader && i+1 < len(s.rows) {
			starts = append(starts, i+1)
		}
	}
	if len(starts) == 0 {
		return
	}
	cur := 0
	for i, st := range starts {
		if st <= s.cursor {
			cur = i
		}
	}
	s.cursor = starts[(cur+dir+len(starts))%len(starts)]
	s.note = ""
}

func (s *LibraryScreen) selectPassage() tea.Cmd {
	p, ok := s.Selected()
	if !ok {
		return nil
	}
	if !s.opts.ReadingEnabled || s.opts.StartReading == nil {
		s.note = "Reading needs an LLM API key. See readingrally --help."
		return nil
	}
	next := s.opts.StartReading(p, s.opts.Grade)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

// adjustScroll keeps the cursor and its grade header in view.
func (s *LibraryScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	top := s.cursor
	if top > 0 && s.rows[top-1].kind == rowGradeHeader {
		top--
	}
	if top < s.scrollOffset {
		s.scrollOffset = top
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *LibraryScreen) View(width, height int) string {
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\nNo passages in the library.")
	}

	listWidth := min(width-4, 76)
	preview := s.renderPreview(listWidth)
	listHeight := height - lipgloss.Height(preview) - 2
	if listHeight < 3 {
		listHeight = 3
	}
	s.adjustScroll(listHeight)

	end := min(s.scrollOffset+listHeight, len(s.rows))
	var lines []string
	for i := s.scrollOffset; i < end; i++ {
		r := s.rows[i]
		if r.kind == rowGradeHeader {
			lines = append(lines, renderGradeHeader(r.grade))
			continue
		}
		lines = append(lines, s.renderPassageRow(r, i == s.cursor, listWidth))
	}

	list := strings.Join(lines, "\n")
	body := lipgloss.JoinVertical(lipgloss.Left, list, "", preview)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func renderGradeHeader(grade int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  GRADE %d", grade))
}

// renderPassageRow renders a single passage line.
func (s *LibraryScreen) renderPassageRow(r row, selected bool, width int) string {
	p := r.passage
	done := s.completed[p.ID]

	icon := "○"
	if done {
		icon = "✓"
	}
	meta := fmt.Sprintf("%3d words  %-10s", p.WordCount(), p.Category)

	nameWidth := width - 8 - runewidth.StringWidth(meta)
	if nameWidth < 10 {
		nameWidth = 10
	}
	name := runewidth.FillRight(runewidth.Truncate(p.Title, nameWidth, "…"), nameWidth)

	nameStyle := lipgloss.NewStyle().Foreground(theme.Text)
	iconStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if done {
		iconStyle = iconStyle.Foreground(theme.Success)
	}
	if selected {
		nameStyle = nameStyle.Foreground(theme.Primary).Bold(true)
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}
	return fmt.Sprintf("  %s%s %s %s",
		cursor,
		iconStyle.Render(icon),
		nameStyle.Render(name),
		theme.Hint.Render(meta),
	)
}

// renderPreview shows the opening lines of the selected passage.
func (s *LibraryScreen) renderPreview(width int) string {
	p, ok := s.Selected()
	if !ok {
		return ""
	}
	lines := components.WrapWords(p.Content, width-8)
	if len(lines) > 3 {
		lines = append(lines[:3], "…")
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(p.Title))
	if s.completed[p.ID] {
		b.WriteString(theme.Correct.Render("  completed"))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(strings.Join(lines, "\n")))
	if s.note != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(s.note))
	}
	return theme.Passage.Width(width).Render(b.String())
}
