package summary

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/readingrally/readingrally/internal/passages"
	"github.com/readingrally/readingrally/internal/progress"
	"github.com/readingrally/readingrally/internal/reading"
	"github.com/readingrally/readingrally/internal/rewards"
	"github.com/readingrally/readingrally/internal/router"
	"github.com/readingrally/readingrally/internal/scoring"
)

func testOutcome() *reading.Outcome {
	return &reading.Outcome{
		Passage: passages.Passage{ID: "whiskers", Title: "Whiskers and the Birds"},
		Analysis: &scoring.Analysis{
			Transcript:     "once upon a time",
			WordsPerMinute: 112,
			Accuracy:       96,
			Fluency:        88,
			Feedback:       "Lovely expression and a steady pace.",
			Pronunciation: scoring.Pronunciation{
				Strengths:     []string{"clear vowels"},
				PracticeWords: []string{"windowsill"},
			},
			Coverage: 1,
		},
		Elapsed:     75 * time.Second,
		ExpectedWPM: 100,
	}
}

func testResult() *reading.Result {
	speed, _ := rewards.LookupBadge(rewards.BadgeSpeedReader)
	return &reading.Result{
		Progress:      progress.Update{PreviousLevel: 1, Level: 2},
		SessionPoints: 340,
		PointsEarned:  840,
		TotalPoints:   1200,
		Badges:        []rewards.Badge{{BadgeDefinition: speed}},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testOutcome(), testResult(), nil)
	if s.Title() != "Reading Results" {
		t.Errorf("Title = %q, want %q", s.Title(), "Reading Results")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testOutcome(), testResult(), nil)
	view := s.View(100, 200)
	for _, want := range []string{
		"112 WPM", "96%", "88%", "goal 100 wpm", "1:15",
		"Passage completed", "Lovely expression", "windowsill",
		"+840 points", "Level 2 Reader", "Speed Reader",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_SaveWarning(t *testing.T) {
	s := New(testOutcome(), testResult(), errors.New("disk full"))
	if !strings.Contains(s.View(100, 200), "disk full") {
		t.Error("expected save error in view")
	}
}

func TestSummaryScreen_Incomplete(t *testing.T) {
	o := testOutcome()
	o.Analysis.Coverage = 0.5
	if !strings.Contains(New(o, nil, nil).View(100, 200), "Read 50% of the passage") {
		t.Error("expected coverage note for an unfinished passage")
	}
}

func TestSummaryScreen_Scroll(t *testing.T) {
	s := New(testOutcome(), testResult(), nil)
	top := s.View(100, 5)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.View(100, 5) == top {
		t.Error("expected scrolling to change the view")
	}
	for i := 0; i < 500; i++ {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.View(100, 5) == "" {
		t.Error("scroll must stop at the last page")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, code := range []rune{tea.KeyEnter, tea.KeyEscape} {
		s := New(testOutcome(), testResult(), nil)
		_, cmd := s.Update(tea.KeyPressMsg{Code: code})
		if cmd == nil {
			t.Fatal("expected a command")
		}
		if _, ok := cmd().(router.HomeMsg); !ok {
			t.Error("expected HomeMsg")
		}
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	if got := len(New(testOutcome(), nil, nil).KeyHints()); got != 2 {
		t.Errorf("KeyHints length = %d, want 2", got)
	}
}
